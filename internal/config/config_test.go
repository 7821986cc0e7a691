package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panscan/panscan/internal/types"
)

func writeTemp(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return p
}

func TestLoadFile_Basic(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "panscan.yaml", "threads: 4\nmax_bytes: 123\nmask: false\nmask_char: '#'\nfail_on: medium\n")
	cfg, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Threads == nil || *cfg.Threads != 4 {
		t.Fatalf("expected threads=4, got %#v", cfg.Threads)
	}
	if cfg.MaxBytes == nil || *cfg.MaxBytes != 123 {
		t.Fatalf("expected max_bytes=123, got %#v", cfg.MaxBytes)
	}
	if cfg.Mask == nil || *cfg.Mask {
		t.Fatalf("expected mask=false")
	}
	if cfg.MaskChar == nil || *cfg.MaskChar != "#" {
		t.Fatalf("expected mask_char=#, got %#v", cfg.MaskChar)
	}
	if cfg.FailOn == nil || *cfg.FailOn != "medium" {
		t.Fatalf("expected fail_on=medium, got %#v", cfg.FailOn)
	}
	if cfg.Include != nil {
		t.Fatalf("unset keys must stay nil")
	}
}

func TestLoadFile_Malformed(t *testing.T) {
	p := writeTemp(t, t.TempDir(), "bad.yml", "threads: [\n")
	_, err := LoadFile(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yml")
}

func TestLoadLocal_PrefersDotfile(t *testing.T) {
	dir := t.TempDir()
	// place both, expect the dotfile to be picked first by search order
	writeTemp(t, dir, "panscan.yaml", "threads: 1\n")
	writeTemp(t, dir, ".panscan.yaml", "threads: 7\n")
	cfg, err := LoadLocal(dir)
	if err != nil {
		t.Fatalf("LoadLocal: %v", err)
	}
	if cfg.Threads == nil || *cfg.Threads != 7 {
		t.Fatalf("expected threads=7 from .panscan.yaml, got %#v", cfg.Threads)
	}
}

func TestLoadLocal_NoConfig(t *testing.T) {
	_, err := LoadLocal(t.TempDir())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadGlobal_XDG_Config(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "panscan")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeTemp(t, cfgDir, "config.yml", "threads: 9\n")
	t.Setenv("XDG_CONFIG_HOME", dir)
	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	if cfg.Threads == nil || *cfg.Threads != 9 {
		t.Fatalf("expected threads=9 from global config, got %#v", cfg.Threads)
	}
}

func TestLoadGlobal_NoConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	// Simulate no HOME as well by clearing HOME; LoadGlobal should error
	t.Setenv("HOME", "")
	if _, err := LoadGlobal(); err == nil {
		t.Fatal("expected error when no global config dir exists")
	}
}

func TestRiskPolicy(t *testing.T) {
	p := writeTemp(t, t.TempDir(), "p.yml", "risk:\n  high_min: 3\n  high_brands: [visa, amex, 'Diners Club']\n")
	cfg, err := LoadFile(p)
	require.NoError(t, err)
	pol, err := cfg.RiskPolicy()
	require.NoError(t, err)
	assert.Equal(t, 3, pol.HighMin)
	assert.Equal(t, 1, pol.MediumMin)
	assert.Equal(t, []types.Brand{types.Visa, types.AmericanExpress, types.DinersClub}, pol.HighBrands)

	pol, err = FileConfig{}.RiskPolicy()
	require.NoError(t, err)
	assert.Equal(t, types.DefaultRiskPolicy(), pol)

	_, err = FileConfig{Risk: &RiskConfig{HighBrands: []string{"maestro"}}}.RiskPolicy()
	assert.Error(t, err)
}

func TestStarter_RoundTrip(t *testing.T) {
	b, err := Marshal(Starter())
	require.NoError(t, err)
	p := writeTemp(t, t.TempDir(), ".panscan.yml", string(b))
	cfg, err := LoadFile(p)
	require.NoError(t, err)
	pol, err := cfg.RiskPolicy()
	require.NoError(t, err)
	assert.Equal(t, types.DefaultRiskPolicy(), pol)
	require.NotNil(t, cfg.FailOn)
	assert.Equal(t, "high", *cfg.FailOn)
}
