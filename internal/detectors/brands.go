package detectors

import (
	"slices"

	"github.com/panscan/panscan/internal/types"
)

// PrefixRange matches PANs whose leading len(Lo) digits fall within [Lo, Hi].
// Lo and Hi always have the same width.
type PrefixRange struct {
	Lo, Hi string
}

func (p PrefixRange) match(pan string) bool {
	w := len(p.Lo)
	if len(pan) < w {
		return false
	}
	head := pan[:w]
	return head >= p.Lo && head <= p.Hi
}

// Rule pairs a brand with its prefixes and the PAN lengths it issues.
type Rule struct {
	Brand    types.Brand
	Prefixes []PrefixRange
	Lengths  []int
}

// Matches reports whether pan starts with one of the rule's prefixes.
func (r Rule) Matches(pan string) bool {
	for _, p := range r.Prefixes {
		if p.match(pan) {
			return true
		}
	}
	return false
}

// ValidLength reports whether n is an issued length for the brand.
func (r Rule) ValidLength(n int) bool { return slices.Contains(r.Lengths, n) }

func one(p string) PrefixRange { return PrefixRange{Lo: p, Hi: p} }

// Rules is evaluated top to bottom and the first prefix match wins. More
// specific prefixes come first so that, for example, 6011 (Discover) is never
// taken for a shorter rule lower in the table.
var Rules = []Rule{
	{Brand: types.AmericanExpress, Prefixes: []PrefixRange{one("34"), one("37")}, Lengths: []int{15}},
	{Brand: types.DinersClub, Prefixes: []PrefixRange{{"300", "305"}, one("36"), one("38")}, Lengths: []int{14}},
	{Brand: types.Discover, Prefixes: []PrefixRange{one("6011"), one("65"), {"644", "649"}}, Lengths: []int{16}},
	{Brand: types.JCB, Prefixes: []PrefixRange{{"3528", "3589"}}, Lengths: []int{16}},
	{Brand: types.UnionPay, Prefixes: []PrefixRange{one("62")}, Lengths: []int{16, 17, 18, 19}},
	{Brand: types.Mastercard, Prefixes: []PrefixRange{{"51", "55"}, {"2221", "2720"}}, Lengths: []int{16}},
	{Brand: types.Visa, Prefixes: []PrefixRange{one("4")}, Lengths: []int{13, 16, 19}},
}

// Classification is the brand assigned to a validated PAN.
type Classification struct {
	Brand          types.Brand
	BIN            string
	LastFour       string
	LengthMismatch bool
}

// Classify assigns a brand to pan using Rules. A prefix match with an
// unexpected length keeps the brand and sets LengthMismatch; no match yields
// types.Unknown.
func Classify(pan string) Classification {
	c := Classification{Brand: types.Unknown, BIN: head(pan, 6), LastFour: tail(pan, 4)}
	for _, r := range Rules {
		if r.Matches(pan) {
			c.Brand = r.Brand
			c.LengthMismatch = !r.ValidLength(len(pan))
			return c
		}
	}
	return c
}

func head(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

func tail(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[len(s)-n:]
}
