package types

import "sort"

// Brand is the card network a PAN was classified as.
type Brand string

const (
	Visa            Brand = "Visa"
	Mastercard      Brand = "Mastercard"
	AmericanExpress Brand = "American Express"
	Discover        Brand = "Discover"
	JCB             Brand = "JCB"
	DinersClub      Brand = "Diners Club"
	UnionPay        Brand = "UnionPay"
	Unknown         Brand = "Unknown"
)

// Brands lists every brand in report order.
func Brands() []Brand {
	return []Brand{Visa, Mastercard, AmericanExpress, Discover, JCB, DinersClub, UnionPay, Unknown}
}

// RiskTier is a coarse classification of a file by the cards found in it.
type RiskTier string

const (
	TierHigh   RiskTier = "high"
	TierMedium RiskTier = "medium"
	TierLow    RiskTier = "low"
	TierClean  RiskTier = "clean"
)

// Tiers lists the tiers from most to least severe.
func Tiers() []RiskTier {
	return []RiskTier{TierHigh, TierMedium, TierLow, TierClean}
}

// Rank orders tiers; clean is 0 and high is 3. Unknown strings rank 0.
func (t RiskTier) Rank() int {
	switch t {
	case TierHigh:
		return 3
	case TierMedium:
		return 2
	case TierLow:
		return 1
	default:
		return 0
	}
}

// Finding describes one Luhn-valid card number found at a path and line.
// Findings are built once and never modified afterwards.
type Finding struct {
	Path           string `json:"path"`
	Line           int    `json:"line"`
	Column         int    `json:"column,omitempty"` // 1-based rune column of the first digit
	Brand          Brand  `json:"brand"`
	Length         int    `json:"pan_length"`
	BIN            string `json:"bin"`
	LastFour       string `json:"last_four"`
	Masked         string `json:"masked_pan"`
	LineText       string `json:"line_text"`
	LengthMismatch bool   `json:"length_mismatch,omitempty"`
	Fingerprint    string `json:"fingerprint"` // xxhash of the digits, stable across runs
}

// ScanResult is the outcome of scanning one file. Err is set when the file
// could not be read or decoded; such a result carries no findings.
type ScanResult struct {
	Path     string    `json:"path"`
	Findings []Finding `json:"findings"`
	Bytes    int64     `json:"byte_size"`
	Err      error     `json:"-"`
	Error    string    `json:"error,omitempty"`
}

// Failed reports whether the file could not be scanned.
func (r ScanResult) Failed() bool { return r.Err != nil || r.Error != "" }

// FileError pairs an unreadable path with the reason.
type FileError struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// FileCount is a path with the number of findings in it.
type FileCount struct {
	Path     string `json:"path"`
	Findings int    `json:"findings"`
}

// Summary aggregates every ScanResult of a run. It is built once and is
// read-only afterwards.
type Summary struct {
	FilesScanned      int                   `json:"files_scanned"`
	DirsTraversed     int                   `json:"dirs_traversed"`
	TotalBytes        int64                 `json:"total_bytes"`
	TotalFindings     int                   `json:"total_findings"`
	UniquePANs        int                   `json:"unique_pans"`
	FilesWithFindings int                   `json:"files_with_findings"`
	LengthMismatches  int                   `json:"length_mismatches"`
	BrandCounts       map[Brand]int         `json:"brand_counts"`
	RiskTiers         map[RiskTier][]string `json:"risk_tiers"`
	CleanFilePercent  float64               `json:"clean_file_percentage"`
	TopFiles          []FileCount           `json:"top_files,omitempty"`
	Errors            []FileError           `json:"errors,omitempty"`
}

// TierOf returns the tier a path was assigned to, or clean when absent.
func (s Summary) TierOf(path string) RiskTier {
	for _, t := range Tiers() {
		files := s.RiskTiers[t]
		i := sort.SearchStrings(files, path)
		if i < len(files) && files[i] == path {
			return t
		}
	}
	return TierClean
}

// HighestTier returns the most severe tier holding at least one file.
func (s Summary) HighestTier() RiskTier {
	for _, t := range Tiers() {
		if len(s.RiskTiers[t]) > 0 {
			return t
		}
	}
	return TierClean
}

// RiskPolicy holds the thresholds used to assign risk tiers.
type RiskPolicy struct {
	// HighMin is the number of high-confidence brand findings that makes a file high risk.
	HighMin int
	// MediumMin is the number of findings of any brand that makes a file medium risk.
	// Files with fewer (but some) findings are low risk.
	MediumMin int
	// HighBrands are the brands counted towards HighMin.
	HighBrands []Brand
}

// DefaultRiskPolicy returns the built-in thresholds.
func DefaultRiskPolicy() RiskPolicy {
	return RiskPolicy{
		HighMin:    1,
		MediumMin:  1,
		HighBrands: []Brand{AmericanExpress, Discover, Mastercard, Visa, UnionPay},
	}
}
