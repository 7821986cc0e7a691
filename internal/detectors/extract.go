package detectors

import (
	"iter"
	"strings"
)

// PAN lengths accepted by the extractor.
const (
	MinPANLength = 13
	MaxPANLength = 19
)

// DigitRun is a candidate card number found in a line. Start and End are byte
// offsets into the line covering the first through the last digit; Column is
// the 1-based rune column of the first digit.
type DigitRun struct {
	Digits     string
	Start      int
	End        int
	Column     int
	Separators int
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isSeparator(c byte) bool { return c == ' ' || c == '-' }

// Extract yields the digit runs of line whose digit count is within
// [MinPANLength, MaxPANLength]. A run starts at a digit, skips spaces and
// hyphens between digits and stops at any other character, so punctuation
// such as a decimal point always splits two numbers. A run longer than
// MaxPANLength is split at its separators and each group of PAN length is
// yielded on its own, so two cards separated by a single space are both
// found.
func Extract(line string) iter.Seq[DigitRun] {
	return func(yield func(DigitRun) bool) {
		col := 0
		i := 0
		for i < len(line) {
			c := line[i]
			if !isDigit(c) {
				if isRuneStart(c) {
					col++
				}
				i++
				continue
			}
			run, next, width := scanRun(line, i)
			run.Column = col + 1
			col += width
			i = next
			n := len(run.Digits)
			if n > MaxPANLength {
				for seg := range segments(line, run) {
					if !yield(seg) {
						return
					}
				}
				continue
			}
			if n < MinPANLength {
				continue
			}
			if !yield(run) {
				return
			}
		}
	}
}

// segments yields the separator-free digit groups of an over-long run whose
// length is within the PAN window. Runs contain only ASCII, so the column
// advances with the byte offset.
func segments(line string, run DigitRun) iter.Seq[DigitRun] {
	return func(yield func(DigitRun) bool) {
		i := run.Start
		for i < run.End {
			if !isDigit(line[i]) {
				i++
				continue
			}
			j := i
			for j < run.End && isDigit(line[j]) {
				j++
			}
			if n := j - i; n >= MinPANLength && n <= MaxPANLength {
				seg := DigitRun{Digits: line[i:j], Start: i, End: j, Column: run.Column + i - run.Start}
				if !yield(seg) {
					return
				}
			}
			i = j
		}
	}
}

// scanRun reads one run starting at the digit at line[start]. It returns the
// run, the offset to resume scanning from and the number of columns consumed.
func scanRun(line string, start int) (DigitRun, int, int) {
	var b strings.Builder
	b.Grow(MaxPANLength)
	end := start
	seps := 0
	pending := 0
	i := start
	for i < len(line) {
		c := line[i]
		if isDigit(c) {
			b.WriteByte(c)
			seps += pending
			pending = 0
			end = i + 1
			i++
			continue
		}
		if isSeparator(c) {
			pending++
			i++
			continue
		}
		break
	}
	// trailing separators belong to the gap after the run, not to it
	return DigitRun{Digits: b.String(), Start: start, End: end, Separators: seps}, end, end - start
}

func isRuneStart(c byte) bool { return c&0xC0 != 0x80 }

// Collect drains Extract into a slice.
func Collect(line string) []DigitRun {
	var out []DigitRun
	for r := range Extract(line) {
		out = append(out, r)
	}
	return out
}
