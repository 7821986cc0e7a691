package core

import (
	"github.com/panscan/panscan/internal/aggregate"
	"github.com/panscan/panscan/internal/detectors"
	"github.com/panscan/panscan/internal/engine"
	"github.com/panscan/panscan/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
type Config = engine.Config
type Result = engine.Result
type Finding = types.Finding
type ScanResult = types.ScanResult
type Summary = types.Summary
type RiskPolicy = types.RiskPolicy
type Brand = types.Brand

// Scan is the stable entrypoint for other programs.
func Scan(cfg Config) ([]Finding, error) {
	return engine.Scan(cfg)
}

// ScanWithStats scans and returns per-file results plus the run summary.
func ScanWithStats(cfg Config) (Result, error) {
	return engine.ScanWithStats(cfg)
}

// Summarize aggregates results produced elsewhere, for example by several
// ScanWithStats calls merged together.
func Summarize(results []ScanResult, dirs int, policy RiskPolicy) Summary {
	return aggregate.Summarize(results, dirs, policy)
}

// DefaultRiskPolicy returns the built-in risk thresholds.
func DefaultRiskPolicy() RiskPolicy { return types.DefaultRiskPolicy() }

// DetectLine runs the detection pipeline on a single line of text with the
// default (masking) builder.
func DetectLine(path string, lineNo int, line string) []Finding {
	return detectors.DetectLine(path, lineNo, line, detectors.NewBuilder())
}

// ValidLuhn reports whether digits pass the Luhn checksum.
func ValidLuhn(digits string) bool { return detectors.ValidLuhn(digits) }
