package panscan

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCLI executes the root command in-process and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetFlags(rootCmd)
	var out, errb bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errb)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func cardDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "orders.log"), []byte("id=1 card=4111 1111 1111 1111\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("nothing\n"), 0o644))
	return dir
}

type jsonDoc struct {
	RunID   string `json:"run_id"`
	Summary struct {
		FilesScanned  int            `json:"files_scanned"`
		TotalFindings int            `json:"total_findings"`
		BrandCounts   map[string]int `json:"brand_counts"`
	} `json:"summary"`
	Results []struct {
		Path     string `json:"path"`
		Findings []struct {
			Masked string `json:"masked_pan"`
		} `json:"findings"`
	} `json:"results"`
}

func TestCLI_JSON_Shape_ExitCodes(t *testing.T) {
	dir := cardDir(t)
	out, err := runCLI(t, "scan", "--json", "-p", dir)
	assert.ErrorIs(t, err, errGateTripped)

	var doc jsonDoc
	require.NoError(t, json.Unmarshal([]byte(out), &doc), out)
	assert.NotEmpty(t, doc.RunID)
	assert.Equal(t, 2, doc.Summary.FilesScanned)
	assert.Equal(t, 1, doc.Summary.BrandCounts["Visa"])
	require.Len(t, doc.Results, 2)
	assert.Equal(t, "411111******1111", doc.Results[1].Findings[0].Masked)

	_, err = runCLI(t, "scan", "--json", "--fail-on", "none", "-p", dir)
	assert.NoError(t, err)
}

func TestCLI_SARIF_Shape(t *testing.T) {
	out, err := runCLI(t, "scan", "--sarif", "--fail-on", "none", cardDir(t))
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc), out)
	assert.Equal(t, "2.1.0", doc["version"])
}

func TestCLI_TableAndExport(t *testing.T) {
	dir := cardDir(t)
	report := filepath.Join(t.TempDir(), "findings.csv")
	out, err := runCLI(t, "scan", "--fail-on", "none", "-p", dir, "-o", report)
	require.NoError(t, err)
	assert.Contains(t, out, "411111******1111")
	assert.Contains(t, out, "Clean files: 50.0%")
	assert.NotContains(t, out, "\x1b[")

	b, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "file_path,line_number"))
}

func TestCLI_LocalConfig(t *testing.T) {
	dir := cardDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".panscan.yml"), []byte("mask: false\nfail_on: none\n"), 0o644))
	out, err := runCLI(t, "scan", "--json", "-p", dir)
	require.NoError(t, err)
	assert.Contains(t, out, `"masked_pan": "4111111111111111"`)
}

func TestBuildConfig_NoColorFromConfigFiles(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	resetFlags(rootCmd)
	scanCmd, _, err := rootCmd.Find([]string{"scan"})
	require.NoError(t, err)

	dir := cardDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".panscan.yml"), []byte("no_color: true\n"), 0o644))
	_, out, err := buildConfig(scanCmd, []string{dir})
	require.NoError(t, err)
	assert.True(t, out.noColor)
	assert.Equal(t, "medium", out.failOn)

	_, out, err = buildConfig(scanCmd, []string{cardDir(t)})
	require.NoError(t, err)
	assert.False(t, out.noColor)

	require.NoError(t, os.MkdirAll(filepath.Join(xdg, "panscan"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(xdg, "panscan", "config.yml"), []byte("no_color: true\n"), 0o644))
	_, out, err = buildConfig(scanCmd, []string{cardDir(t)})
	require.NoError(t, err)
	assert.True(t, out.noColor)

	// local false wins over global true
	local := cardDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(local, ".panscan.yml"), []byte("no_color: false\n"), 0o644))
	_, out, err = buildConfig(scanCmd, []string{local})
	require.NoError(t, err)
	assert.False(t, out.noColor)
}

func TestCLI_CommaSeparatedPaths(t *testing.T) {
	a, b := cardDir(t), cardDir(t)
	out, err := runCLI(t, "scan", "--json", "--fail-on", "none", "-p", a+","+b+","+a)
	require.NoError(t, err)
	var doc jsonDoc
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 4, doc.Summary.FilesScanned)
	assert.Equal(t, 2, doc.Summary.TotalFindings)
}

func TestCLI_DryRun(t *testing.T) {
	dir := cardDir(t)
	out, err := runCLI(t, "scan", "--dry-run", "-p", dir)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "orders.log"))
	assert.Contains(t, out, "2 files in 1 directories would be scanned")
}

func TestCLI_BadInputs(t *testing.T) {
	_, err := runCLI(t, "scan", "--fail-on", "critical", "-p", t.TempDir())
	assert.Error(t, err)
	_, err = runCLI(t, "scan", "--mask-char", "ab", "-p", t.TempDir())
	assert.Error(t, err)
	_, err = runCLI(t, "scan", "--high-brands", "maestro", "-p", t.TempDir())
	assert.Error(t, err)
	_, err = runCLI(t, "scan", "-p", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
	_, err = runCLI(t, "scan", "--tui", "-p", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")
}

func TestCLI_Brands(t *testing.T) {
	out, err := runCLI(t, "brands")
	require.NoError(t, err)
	assert.Contains(t, out, "American Express")
	assert.Contains(t, out, "2221-2720")
	assert.Less(t, strings.Index(out, "Discover"), strings.Index(out, "Visa"))
}

func TestCLI_ConfigInit(t *testing.T) {
	p := filepath.Join(t.TempDir(), ".panscan.yml")
	out, err := runCLI(t, "config", "init", "--output", p)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(b), "high_brands")

	_, err = runCLI(t, "config", "init", "--output", p)
	assert.Error(t, err)
	_, err = runCLI(t, "config", "init", "--output", p, "--force")
	assert.NoError(t, err)
}

func TestCLI_IgnoreThenScan(t *testing.T) {
	dir := cardDir(t)
	out, err := runCLI(t, "ignore", "--root", dir, "orders.log")
	require.NoError(t, err)
	assert.Equal(t, "added orders.log\n", out)
	out, err = runCLI(t, "ignore", "--root", dir, "orders.log")
	require.NoError(t, err)
	assert.Contains(t, out, "already ignored")

	out, err = runCLI(t, "scan", "--json", "-p", dir)
	require.NoError(t, err)
	var doc jsonDoc
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 0, doc.Summary.TotalFindings)
}

func TestCLI_Version(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "panscan v"+version))
}
