package engine

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panscan/panscan/internal/ignore"
)

func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func relAll(t *testing.T, root string, paths []string) []string {
	t.Helper()
	var out []string
	for _, p := range paths {
		r, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(r))
	}
	return out
}

func TestCountTargets_IgnoreFileAndMaxBytes(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"a.txt":          "ok",
		"ignored.txt":    "4111111111111111",
		".panscanignore": "ignored.txt\n",
	})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "big.log"), make([]byte, 2048), 0o644))

	n, err := CountTargets(Config{Roots: []string{dir}, MaxBytes: 1024})
	require.NoError(t, err)
	// a.txt and the ignore file itself; big.log is over the limit
	assert.Equal(t, 2, n)
}

func TestWalk_DirsAndOrder(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"z.txt":       "",
		"a/b.txt":     "",
		"a/c/d.txt":   "",
		"empty/.keep": "",
	})
	tg, err := Walk(context.Background(), Config{Roots: []string{dir}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a/b.txt", "a/c/d.txt", "empty/.keep", "z.txt"}, relAll(t, dir, tg.Files))
	// root, a, a/c, empty
	assert.Equal(t, 4, tg.Dirs)
}

func TestWalk_MultipleRootsDeduplicated(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"logs/app.log": "x",
		"other.txt":    "y",
	})
	roots := []string{
		filepath.Join(dir, "logs"),
		dir,
		filepath.Join(dir, "logs", "app.log"),
		"",
	}
	tg, err := Walk(context.Background(), Config{Roots: roots})
	require.NoError(t, err)
	assert.Equal(t, []string{"logs/app.log", "other.txt"}, relAll(t, dir, tg.Files))
	// root and logs, each once although logs is reached from two roots
	assert.Equal(t, 2, tg.Dirs)

	single, err := Walk(context.Background(), Config{Roots: []string{dir}})
	require.NoError(t, err)
	assert.Equal(t, single.Dirs, tg.Dirs)
}

func TestWalk_DefaultExcludesOSMetadata(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		".DS_Store":            "\x00\x00\x00\x01Bud1",
		"pics/Thumbs.db":       "\x00",
		"pics/DESKTOP.INI.txt": "ok",
	})
	tg, err := Walk(context.Background(), Config{Roots: []string{dir}, DefaultExcludes: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"pics/DESKTOP.INI.txt"}, relAll(t, dir, tg.Files))
	assert.Equal(t, 2, tg.Skipped)
}

func TestWalk_UnreadableIgnoreFileIsLogged(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": "x"})
	// a directory in place of the ignore file fails to read without being missing
	require.NoError(t, os.Mkdir(filepath.Join(dir, ignore.FileName), 0o755))

	var buf bytes.Buffer
	log := hclog.New(&hclog.LoggerOptions{Output: &buf, Level: hclog.Warn})
	tg, err := Walk(context.Background(), Config{Roots: []string{dir}, Logger: log})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, relAll(t, dir, tg.Files))
	assert.Contains(t, buf.String(), "cannot read ignore file")

	buf.Reset()
	other := t.TempDir()
	writeTree(t, other, map[string]string{"b.txt": "y"})
	_, err = Walk(context.Background(), Config{Roots: []string{other}, Logger: log})
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestWalk_MissingRoots(t *testing.T) {
	dir := t.TempDir()
	_, err := Walk(context.Background(), Config{Roots: []string{filepath.Join(dir, "nope")}})
	assert.ErrorIs(t, err, ErrNoInput)

	writeTree(t, dir, map[string]string{"x.txt": "1"})
	tg, err := Walk(context.Background(), Config{Roots: []string{filepath.Join(dir, "nope"), dir}})
	require.NoError(t, err)
	assert.Len(t, tg.Files, 1)
}

func TestWalk_DefaultExcludes(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"keep.txt":             "",
		".git/config":          "",
		"node_modules/x/a.js":  "",
		"img/logo.png":         "",
		"bundle.zip":           "",
		"src/orders.csv":       "",
		"vendor/lib/readme.md": "",
	})
	tg, err := Walk(context.Background(), Config{Roots: []string{dir}, DefaultExcludes: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.txt", "src/orders.csv"}, relAll(t, dir, tg.Files))
	assert.Equal(t, 2, tg.Skipped)

	tg, err = Walk(context.Background(), Config{Roots: []string{dir}})
	require.NoError(t, err)
	assert.Len(t, tg.Files, 7)
}

func TestWalk_ExplicitFileBypassesGlobs(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"dump.sql": "x"})
	tg, err := Walk(context.Background(), Config{
		Roots:        []string{filepath.Join(dir, "dump.sql")},
		ExcludeGlobs: "*.sql",
	})
	require.NoError(t, err)
	assert.Len(t, tg.Files, 1)
	assert.Equal(t, 0, tg.Dirs)
}

func TestWalk_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": ""})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Walk(ctx, Config{Roots: []string{dir}})
	assert.ErrorIs(t, err, context.Canceled)
}
