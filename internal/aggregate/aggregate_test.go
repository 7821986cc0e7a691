package aggregate

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panscan/panscan/internal/types"
)

func finding(path string, b types.Brand, fp string) types.Finding {
	return types.Finding{Path: path, Line: 1, Column: 1, Brand: b, Fingerprint: fp}
}

func TestSummarize_ThreeFilesOneUnreadable(t *testing.T) {
	results := []types.ScanResult{
		{Path: "/d/a.txt", Bytes: 40, Findings: []types.Finding{finding("/d/a.txt", types.Visa, "f1")}},
		{Path: "/d/b.txt", Bytes: 60, Findings: []types.Finding{finding("/d/b.txt", types.Visa, "f1")}},
		{Path: "/d/locked.txt", Err: errors.New("permission denied"), Error: "permission denied"},
	}
	s := Summarize(results, 1, types.DefaultRiskPolicy())

	assert.Equal(t, 3, s.FilesScanned)
	assert.Equal(t, 1, s.DirsTraversed)
	assert.EqualValues(t, 100, s.TotalBytes)
	assert.Equal(t, 2, s.BrandCounts[types.Visa])
	assert.Equal(t, 33.3, s.CleanFilePercent)
	assert.Equal(t, 1, s.UniquePANs)
	assert.Equal(t, []string{"/d/a.txt", "/d/b.txt"}, s.RiskTiers[types.TierHigh])
	assert.Equal(t, []string{"/d/locked.txt"}, s.RiskTiers[types.TierClean])
	assert.Equal(t, []types.FileError{{Path: "/d/locked.txt", Reason: "permission denied"}}, s.Errors)
	assert.Equal(t, types.TierHigh, s.HighestTier())
	assert.Equal(t, types.TierClean, s.TierOf("/d/locked.txt"))
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, 0, types.DefaultRiskPolicy())
	assert.Equal(t, 0, s.FilesScanned)
	assert.Equal(t, 0.0, s.CleanFilePercent)
	assert.Equal(t, types.TierClean, s.HighestTier())
	for _, tier := range types.Tiers() {
		assert.NotNil(t, s.RiskTiers[tier])
	}
}

func sample() []types.ScanResult {
	var out []types.ScanResult
	brands := types.Brands()
	for i := 0; i < 40; i++ {
		p := string(rune('a'+i%26)) + string(rune('0'+i/26)) + ".log"
		r := types.ScanResult{Path: p, Bytes: int64(i * 10)}
		for j := 0; j < i%5; j++ {
			fp := string(rune('A' + (i*j)%7))
			r.Findings = append(r.Findings, finding(p, brands[(i+j)%len(brands)], fp))
		}
		if i%13 == 0 {
			r = types.ScanResult{Path: p, Error: "boom"}
		}
		out = append(out, r)
	}
	return out
}

func TestSummarize_BrandCountsMatchTotal(t *testing.T) {
	results := sample()
	s := Summarize(results, 3, types.DefaultRiskPolicy())
	total := 0
	for _, r := range results {
		total += len(r.Findings)
	}
	sum := 0
	for _, n := range s.BrandCounts {
		sum += n
	}
	assert.Equal(t, total, s.TotalFindings)
	assert.Equal(t, total, sum)

	files := 0
	for _, tier := range types.Tiers() {
		files += len(s.RiskTiers[tier])
	}
	assert.Equal(t, len(results), files)
}

func TestSummarize_OrderIndependent(t *testing.T) {
	results := sample()
	want := Summarize(results, 2, types.DefaultRiskPolicy())
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]types.ScanResult(nil), results...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		require.Equal(t, want, Summarize(shuffled, 2, types.DefaultRiskPolicy()))
	}
}

func TestTier_Policy(t *testing.T) {
	visa := finding("x", types.Visa, "1")
	jcb := finding("x", types.JCB, "2")
	unknown := finding("x", types.Unknown, "3")

	def := types.DefaultRiskPolicy()
	assert.Equal(t, types.TierClean, Tier(nil, def))
	assert.Equal(t, types.TierHigh, Tier([]types.Finding{visa}, def))
	assert.Equal(t, types.TierMedium, Tier([]types.Finding{unknown}, def))
	assert.Equal(t, types.TierMedium, Tier([]types.Finding{jcb, unknown}, def))

	strict := types.RiskPolicy{HighMin: 2, MediumMin: 3, HighBrands: []types.Brand{types.Visa}}
	assert.Equal(t, types.TierLow, Tier([]types.Finding{visa}, strict))
	assert.Equal(t, types.TierHigh, Tier([]types.Finding{visa, visa}, strict))
	assert.Equal(t, types.TierMedium, Tier([]types.Finding{jcb, unknown, visa}, strict))
}

func TestSummarize_TopFiles(t *testing.T) {
	var results []types.ScanResult
	for i := 0; i < TopFilesLimit+3; i++ {
		p := string(rune('a' + i))
		r := types.ScanResult{Path: p}
		for j := 0; j <= i%4; j++ {
			r.Findings = append(r.Findings, finding(p, types.Visa, p))
		}
		results = append(results, r)
	}
	s := Summarize(results, 0, types.DefaultRiskPolicy())
	require.Len(t, s.TopFiles, TopFilesLimit)
	assert.Equal(t, types.FileCount{Path: "d", Findings: 4}, s.TopFiles[0])
	assert.Equal(t, types.FileCount{Path: "h", Findings: 4}, s.TopFiles[1])
	for i := 1; i < len(s.TopFiles); i++ {
		assert.GreaterOrEqual(t, s.TopFiles[i-1].Findings, s.TopFiles[i].Findings)
	}
}

func TestSummarize_LengthMismatches(t *testing.T) {
	f := finding("a", types.Visa, "x")
	f.LengthMismatch = true
	s := Summarize([]types.ScanResult{{Path: "a", Findings: []types.Finding{f}}}, 0, types.DefaultRiskPolicy())
	assert.Equal(t, 1, s.LengthMismatches)
}
