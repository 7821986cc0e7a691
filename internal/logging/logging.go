// Package logging builds the leveled logger shared by the CLI and engine.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// DefaultLevel is used when no level is requested.
const DefaultLevel = "warn"

// NewLogger returns a named logger writing to w (stderr when nil) at the given
// level. Unknown level names are an error.
func NewLogger(name, level string, w io.Writer) (hclog.Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	if strings.TrimSpace(level) == "" {
		level = DefaultLevel
	}
	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		return nil, fmt.Errorf("unknown log level %q", level)
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Output: w,
		Level:  lvl,
	}), nil
}
