package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/panscan/panscan/internal/types"
)

// ErrNotFound is returned when no config file exists at the searched locations.
var ErrNotFound = errors.New("no config file")

// LocalNames are the file names searched in the first scan root, in order.
var LocalNames = []string{".panscan.yml", ".panscan.yaml", "panscan.yml", "panscan.yaml"}

// FileConfig is the on-disk YAML configuration shape for panscan.
type FileConfig struct {
	Include         *string `yaml:"include,omitempty"`
	Exclude         *string `yaml:"exclude,omitempty"`
	MaxBytes        *int64  `yaml:"max_bytes,omitempty"`
	Threads         *int    `yaml:"threads,omitempty"`
	NoColor         *bool   `yaml:"no_color,omitempty"`
	DefaultExcludes *bool   `yaml:"default_excludes,omitempty"`
	NoDirectives    *bool   `yaml:"no_directives,omitempty"`

	// Output shaping
	Mask        *bool   `yaml:"mask,omitempty"`
	MaskChar    *string `yaml:"mask_char,omitempty"`
	RedactLines *bool   `yaml:"redact_lines,omitempty"`
	FailOn      *string `yaml:"fail_on,omitempty"`

	Risk *RiskConfig `yaml:"risk,omitempty"`
}

// RiskConfig overrides the risk tier thresholds.
type RiskConfig struct {
	HighMin    *int     `yaml:"high_min,omitempty"`
	MediumMin  *int     `yaml:"medium_min,omitempty"`
	HighBrands []string `yaml:"high_brands,omitempty"`
}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadLocal searches for a local config file in the given root.
func LoadLocal(root string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range LocalNames {
		p := filepath.Join(root, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, ErrNotFound
}

// GlobalPath returns the global config location under XDG_CONFIG_HOME or ~/.config.
func GlobalPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return "", errors.New("no config dir")
	}
	return filepath.Join(base, "panscan", "config.yml"), nil
}

// LoadGlobal loads the global config file from XDG base directory or ~/.config.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	p, err := GlobalPath()
	if err != nil {
		return cfg, err
	}
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, ErrNotFound
}

// RiskPolicy merges the file's risk block over the built-in defaults.
func (fc FileConfig) RiskPolicy() (types.RiskPolicy, error) {
	p := types.DefaultRiskPolicy()
	if fc.Risk == nil {
		return p, nil
	}
	if fc.Risk.HighMin != nil {
		p.HighMin = *fc.Risk.HighMin
	}
	if fc.Risk.MediumMin != nil {
		p.MediumMin = *fc.Risk.MediumMin
	}
	if len(fc.Risk.HighBrands) > 0 {
		brands, err := ParseBrands(fc.Risk.HighBrands)
		if err != nil {
			return p, err
		}
		p.HighBrands = brands
	}
	return p, nil
}

// ParseBrands resolves brand names case-insensitively, ignoring spaces.
func ParseBrands(names []string) ([]types.Brand, error) {
	byKey := map[string]types.Brand{}
	for _, b := range types.Brands() {
		byKey[brandKey(string(b))] = b
	}
	byKey["amex"] = types.AmericanExpress
	byKey["diners"] = types.DinersClub

	out := make([]types.Brand, 0, len(names))
	for _, n := range names {
		b, ok := byKey[brandKey(n)]
		if !ok {
			return nil, fmt.Errorf("unknown brand %q", n)
		}
		out = append(out, b)
	}
	return out, nil
}

func brandKey(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
}

// Starter returns the configuration written by `panscan config init`.
func Starter() FileConfig {
	mask, redact, defExcl := true, false, true
	maxBytes := int64(100 << 20)
	maskChar, failOn := "*", "high"
	highMin, mediumMin := 1, 1
	brands := make([]string, 0, 5)
	for _, b := range types.DefaultRiskPolicy().HighBrands {
		brands = append(brands, string(b))
	}
	return FileConfig{
		MaxBytes:        &maxBytes,
		DefaultExcludes: &defExcl,
		Mask:            &mask,
		MaskChar:        &maskChar,
		RedactLines:     &redact,
		FailOn:          &failOn,
		Risk:            &RiskConfig{HighMin: &highMin, MediumMin: &mediumMin, HighBrands: brands},
	}
}

// Marshal renders cfg as YAML.
func Marshal(cfg FileConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}
