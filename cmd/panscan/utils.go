package panscan

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"
)

func pickString(cli string, local, global *string) string {
	if cli != "" {
		return cli
	}
	if local != nil && *local != "" {
		return *local
	}
	if global != nil && *global != "" {
		return *global
	}
	return ""
}

func pickInt(cli int, local, global *int) int {
	if cli != 0 {
		return cli
	}
	if local != nil && *local != 0 {
		return *local
	}
	if global != nil && *global != 0 {
		return *global
	}
	return 0
}

func pickInt64(cli int64, local, global *int64) int64 {
	if cli != 0 {
		return cli
	}
	if local != nil && *local != 0 {
		return *local
	}
	if global != nil && *global != 0 {
		return *global
	}
	return 0
}

func pickBool(cli bool, local, global *bool) bool {
	if cli {
		return true
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return false
}

// negate flips an optional bool so "mask: false" can feed a --no-mask pick.
func negate(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := !*b
	return &v
}

// splitPaths splits comma-separated inputs, dropping blanks.
func splitPaths(args []string) []string {
	var out []string
	for _, a := range args {
		for _, p := range strings.Split(a, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// configRoot is the directory searched for a local config file.
func configRoot(paths []string) string {
	if len(paths) == 0 {
		return "."
	}
	abs, err := filepath.Abs(paths[0])
	if err != nil {
		return "."
	}
	if st, err := os.Stat(abs); err == nil && !st.IsDir() {
		return filepath.Dir(abs)
	}
	return abs
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// colorDisabled merges the explicit switch with NO_COLOR and TTY detection.
func colorDisabled(explicit bool, w io.Writer) bool {
	return explicit || os.Getenv("NO_COLOR") != "" || !isTerminal(w)
}
