// Package aggregate reduces per-file scan results into a run Summary.
package aggregate

import (
	"math"
	"sort"

	"github.com/panscan/panscan/internal/types"
)

// TopFilesLimit caps Summary.TopFiles.
const TopFilesLimit = 10

// Summarize folds results into a Summary. The reduction is commutative: any
// permutation of results yields an identical Summary. dirs is the number of
// directories traversed while collecting the inputs.
func Summarize(results []types.ScanResult, dirs int, policy types.RiskPolicy) types.Summary {
	policy = normalize(policy)
	high := make(map[types.Brand]bool, len(policy.HighBrands))
	for _, b := range policy.HighBrands {
		high[b] = true
	}

	s := types.Summary{
		DirsTraversed: dirs,
		BrandCounts:   map[types.Brand]int{},
		RiskTiers:     map[types.RiskTier][]string{},
	}
	for _, t := range types.Tiers() {
		s.RiskTiers[t] = []string{}
	}
	seen := map[string]struct{}{}
	clean := 0

	for _, r := range results {
		s.FilesScanned++
		s.TotalBytes += r.Bytes
		if r.Failed() {
			s.Errors = append(s.Errors, types.FileError{Path: r.Path, Reason: reason(r)})
		}
		highHits := 0
		for _, f := range r.Findings {
			s.BrandCounts[f.Brand]++
			if high[f.Brand] {
				highHits++
			}
			if f.LengthMismatch {
				s.LengthMismatches++
			}
			seen[f.Fingerprint] = struct{}{}
		}
		n := len(r.Findings)
		s.TotalFindings += n
		if n == 0 {
			clean++
		} else {
			s.FilesWithFindings++
			s.TopFiles = append(s.TopFiles, types.FileCount{Path: r.Path, Findings: n})
		}
		t := tierFor(n, highHits, policy)
		s.RiskTiers[t] = append(s.RiskTiers[t], r.Path)
	}
	s.UniquePANs = len(seen)

	for _, t := range types.Tiers() {
		sort.Strings(s.RiskTiers[t])
	}
	sort.Slice(s.Errors, func(i, j int) bool { return s.Errors[i].Path < s.Errors[j].Path })
	sort.Slice(s.TopFiles, func(i, j int) bool {
		a, b := s.TopFiles[i], s.TopFiles[j]
		if a.Findings != b.Findings {
			return a.Findings > b.Findings
		}
		return a.Path < b.Path
	})
	if len(s.TopFiles) > TopFilesLimit {
		s.TopFiles = s.TopFiles[:TopFilesLimit]
	}
	if s.FilesScanned > 0 {
		s.CleanFilePercent = round1(float64(clean) / float64(s.FilesScanned) * 100)
	}
	return s
}

// Tier assigns a risk tier to a single file's findings.
func Tier(findings []types.Finding, policy types.RiskPolicy) types.RiskTier {
	policy = normalize(policy)
	highHits := 0
	for _, f := range findings {
		for _, b := range policy.HighBrands {
			if f.Brand == b {
				highHits++
				break
			}
		}
	}
	return tierFor(len(findings), highHits, policy)
}

func tierFor(total, highHits int, p types.RiskPolicy) types.RiskTier {
	switch {
	case total == 0:
		return types.TierClean
	case highHits >= p.HighMin:
		return types.TierHigh
	case total >= p.MediumMin:
		return types.TierMedium
	default:
		return types.TierLow
	}
}

func normalize(p types.RiskPolicy) types.RiskPolicy {
	if p.HighMin < 1 {
		p.HighMin = 1
	}
	if p.MediumMin < 1 {
		p.MediumMin = 1
	}
	if p.HighBrands == nil {
		p.HighBrands = types.DefaultRiskPolicy().HighBrands
	}
	return p
}

func reason(r types.ScanResult) string {
	if r.Error != "" {
		return r.Error
	}
	return r.Err.Error()
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
