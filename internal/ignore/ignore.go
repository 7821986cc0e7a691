// Package ignore loads .panscanignore files. Each non-empty, non-comment line
// is a doublestar glob; a trailing slash matches a directory and everything
// below it, and patterns without a slash match a base name anywhere.
package ignore

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// FileName is the ignore file looked up in each scan root.
const FileName = ".panscanignore"

// Matcher reports whether a slash-separated relative path is ignored.
type Matcher struct {
	patterns []string
}

// Load reads patterns from p. A missing file yields an empty matcher and the
// open error, which callers may ignore.
func Load(p string) (Matcher, error) {
	var m Matcher
	f, err := os.Open(p)
	if err != nil {
		return m, err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		m.Add(sc.Text())
	}
	return m, sc.Err()
}

// Add appends one pattern line. Blank lines and comments are skipped.
func (m *Matcher) Add(line string) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}
	line = strings.TrimPrefix(line, "./")
	if strings.HasSuffix(line, "/") {
		line += "**"
	}
	if !strings.Contains(strings.TrimSuffix(line, "/**"), "/") {
		line = "**/" + line
	}
	m.patterns = append(m.patterns, line)
}

// Empty reports whether no patterns were loaded.
func (m Matcher) Empty() bool { return len(m.patterns) == 0 }

// Match reports whether rel is ignored.
func (m Matcher) Match(rel string) bool {
	rel = strings.ReplaceAll(rel, "\\", "/")
	rel = strings.TrimPrefix(path.Clean(rel), "./")
	for _, p := range m.patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// Append adds pattern to the ignore file in root, creating it when missing.
// It reports whether the file changed; a pattern already present is a no-op.
func Append(root, pattern string) (bool, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" || strings.HasPrefix(pattern, "#") {
		return false, fmt.Errorf("invalid ignore pattern %q", pattern)
	}
	check := strings.TrimSuffix(pattern, "/")
	if !doublestar.ValidatePattern(check) {
		return false, fmt.Errorf("invalid ignore pattern %q", pattern)
	}
	p := filepath.Join(root, FileName)
	data, err := os.ReadFile(p)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == pattern {
			return false, nil
		}
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return false, err
	}
	defer f.Close()
	prefix := ""
	if len(data) > 0 && data[len(data)-1] != '\n' {
		prefix = "\n"
	}
	if _, err := f.WriteString(prefix + pattern + "\n"); err != nil {
		return false, err
	}
	return true, nil
}
