package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/panscan/panscan/internal/types"
)

const informationURI = "https://github.com/panscan/panscan"

// RuleID is the SARIF rule for a brand, e.g. "pan/american-express".
func RuleID(b types.Brand) string {
	return "pan/" + strings.ReplaceAll(strings.ToLower(string(b)), " ", "-")
}

func tierToLevel(t types.RiskTier) string {
	switch t {
	case types.TierHigh:
		return "error"
	case types.TierMedium:
		return "warning"
	default:
		return "note"
	}
}

// WriteSARIF writes findings as SARIF 2.1.0. Each brand is a rule and each
// result takes its level from the risk tier of its file.
func WriteSARIF(w io.Writer, r Report) error {
	doc, err := sarif.New(sarif.Version210)
	if err != nil {
		return fmt.Errorf("failed to create SARIF report: %w", err)
	}
	run := sarif.NewRunWithInformationURI("panscan", informationURI)
	for _, f := range r.Findings() {
		rule := run.AddRule(RuleID(f.Brand)).
			WithDescription(fmt.Sprintf("Luhn-valid %s card number", f.Brand)).
			WithDefaultConfiguration(&sarif.ReportingConfiguration{Level: "error"})

		loc := sarif.NewLocation().WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(f.Path)).
				WithRegion(sarif.NewRegion().WithStartLine(f.Line).WithStartColumn(f.Column)),
		)
		msg := fmt.Sprintf("%s card number %s (%d digits)", f.Brand, f.Masked, f.Length)
		if f.LengthMismatch {
			msg += ", length unusual for brand"
		}
		res := sarif.NewRuleResult(rule.ID).
			WithMessage(sarif.NewTextMessage(msg)).
			WithLevel(tierToLevel(r.Summary.TierOf(f.Path))).
			WithLocations([]*sarif.Location{loc})
		run.AddResult(res)
	}
	doc.AddRun(run)
	return doc.PrettyWrite(w)
}
