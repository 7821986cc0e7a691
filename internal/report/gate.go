package report

import (
	"fmt"
	"strings"

	"github.com/panscan/panscan/internal/types"
)

// ParseFailOn validates a --fail-on value. Empty and "none" disable the gate.
func ParseFailOn(s string) (types.RiskTier, error) {
	switch t := types.RiskTier(strings.ToLower(strings.TrimSpace(s))); t {
	case "", "none":
		return types.TierClean, nil
	case types.TierHigh, types.TierMedium, types.TierLow:
		return t, nil
	default:
		return "", fmt.Errorf("invalid fail-on %q (want high, medium, low or none)", s)
	}
}

// ShouldFail reports whether any file reached the failOn tier or above.
func ShouldFail(s types.Summary, failOn string) bool {
	th, err := ParseFailOn(failOn)
	if err != nil || th == types.TierClean {
		return false
	}
	return s.HighestTier().Rank() >= th.Rank()
}
