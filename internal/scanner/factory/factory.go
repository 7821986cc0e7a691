package factory

import (
	"fmt"

	"github.com/panscan/panscan/internal/detectors"
	"github.com/panscan/panscan/internal/scanner"
)

// Config is the subset of configuration needed to create a scanner.
type Config struct {
	NoMask       bool
	MaskChar     string
	RedactLines  bool
	NoDirectives bool
}

// New creates a new scanner instance based on the configuration.
func New(cfg Config) (scanner.Scanner, error) {
	b := detectors.NewBuilder()
	b.Mask = !cfg.NoMask
	b.RedactLine = cfg.RedactLines
	if cfg.MaskChar != "" {
		if len(cfg.MaskChar) != 1 || cfg.MaskChar[0] >= 0x80 || (cfg.MaskChar[0] >= '0' && cfg.MaskChar[0] <= '9') {
			return nil, fmt.Errorf("mask character must be a single non-digit ASCII character, got %q", cfg.MaskChar)
		}
		b.MaskChar = cfg.MaskChar[0]
	}
	return &scanner.LineScanner{Builder: b, NoDirectives: cfg.NoDirectives}, nil
}
