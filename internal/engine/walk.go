package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-hclog"
	"github.com/panscan/panscan/internal/ignore"
)

// Targets is the resolved input of a run.
type Targets struct {
	// Files holds absolute, deduplicated paths in lexical order.
	Files []string
	// Dirs counts the directories descended into.
	Dirs int
	// Skipped counts files dropped by globs, ignore files, default excludes
	// or the size limit.
	Skipped int
}

// ErrNoInput is returned when no root could be resolved.
var ErrNoInput = errors.New("no input paths")

// Walk resolves cfg.Roots into the set of files to scan.
func Walk(ctx context.Context, cfg Config) (Targets, error) {
	var t Targets
	if ctx == nil {
		ctx = context.Background()
	}
	log := cfg.logger()
	seen := map[string]bool{}
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			t.Files = append(t.Files, p)
		}
	}
	seenDirs := map[string]bool{}
	resolved := 0
	for _, root := range cfg.Roots {
		root = strings.TrimSpace(root)
		if root == "" {
			continue
		}
		abs, err := filepath.Abs(root)
		if err != nil {
			log.Warn("cannot resolve input", "path", root, "error", err)
			continue
		}
		info, err := os.Stat(abs)
		if err != nil {
			log.Warn("cannot stat input", "path", abs, "error", err)
			continue
		}
		resolved++
		if !info.IsDir() {
			// explicitly named files bypass globs and excludes
			if cfg.MaxBytes > 0 && info.Size() > cfg.MaxBytes {
				t.Skipped++
				continue
			}
			add(abs)
			continue
		}
		if err := walkDir(ctx, cfg, abs, &t, add, seenDirs); err != nil {
			return t, err
		}
	}
	if resolved == 0 {
		return t, ErrNoInput
	}
	sort.Strings(t.Files)
	return t, nil
}

// walkDir adds the files below root. seenDirs is shared across roots so a
// directory reached from two overlapping roots is counted once.
func walkDir(ctx context.Context, cfg Config, root string, t *Targets, add func(string), seenDirs map[string]bool) error {
	log := cfg.logger()
	ignPath := filepath.Join(root, ignore.FileName)
	ign, err := ignore.Load(ignPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("cannot read ignore file", "path", ignPath, "error", err)
	}
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil {
			log.Debug("walk error", "path", p, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, _ := filepath.Rel(root, p)
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if p != root {
				if cfg.DefaultExcludes && isDefaultDirExcluded(d.Name()) {
					return filepath.SkipDir
				}
				if ign.Match(rel) {
					return filepath.SkipDir
				}
			}
			if !seenDirs[p] {
				seenDirs[p] = true
				t.Dirs++
			}
			return nil
		}
		if !d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0 {
			return nil
		}
		if !allowedByGlobs(rel, cfg) || ign.Match(rel) {
			t.Skipped++
			return nil
		}
		if cfg.DefaultExcludes && isDefaultFileExcluded(strings.ToLower(rel)) {
			t.Skipped++
			return nil
		}
		info, err := os.Stat(p)
		if err != nil {
			// dangling symlink or vanished file; let the scanner report it
			add(p)
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if cfg.MaxBytes > 0 && info.Size() > cfg.MaxBytes {
			t.Skipped++
			return nil
		}
		add(p)
		return nil
	})
}

// CountTargets estimates the number of files to process based on cfg.
func CountTargets(cfg Config) (int, error) {
	t, err := Walk(context.Background(), cfg)
	if err != nil {
		return 0, err
	}
	return len(t.Files), nil
}

// allowedByGlobs returns true if the given path is allowed by the include/exclude
// glob configuration. Include globs are comma-separated and, if provided, act as
// a positive filter. Exclude globs are subtracted last.
func allowedByGlobs(relPath string, cfg Config) bool {
	rp := strings.ReplaceAll(relPath, "\\", "/")
	includes := parseGlobsList(cfg.IncludeGlobs)
	excludes := parseGlobsList(cfg.ExcludeGlobs)
	if len(includes) > 0 && !matchAnyGlob(rp, includes) {
		return false
	}
	if len(excludes) > 0 && matchAnyGlob(rp, excludes) {
		return false
	}
	return true
}

func parseGlobsList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p, trimGlobPrefix(p))
		}
	}
	return out
}

func matchAnyGlob(pathToMatch string, globs []string) bool {
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, pathToMatch); ok {
			return true
		}
		if ok, _ := doublestar.Match(g, filepath.Base(pathToMatch)); ok {
			return true
		}
	}
	return false
}

func trimGlobPrefix(g string) string {
	s := strings.TrimPrefix(g, "./")
	for strings.HasPrefix(s, "**/") {
		s = strings.TrimPrefix(s, "**/")
	}
	return s
}

// ValidateGlobs reports the first malformed include or exclude pattern.
func ValidateGlobs(cfg Config) error {
	for _, g := range append(parseGlobsList(cfg.IncludeGlobs), parseGlobsList(cfg.ExcludeGlobs)...) {
		if !doublestar.ValidatePattern(g) {
			return fmt.Errorf("invalid glob %q", g)
		}
	}
	return nil
}

func (c Config) logger() hclog.Logger {
	if c.Logger == nil {
		return hclog.NewNullLogger()
	}
	return c.Logger
}
