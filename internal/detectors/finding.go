package detectors

import (
	"strings"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/panscan/panscan/internal/types"
)

// DefaultMaskChar replaces the hidden middle digits of a PAN.
const DefaultMaskChar = '*'

// Builder turns validated digit runs into findings. The zero value does not
// mask; use NewBuilder for the masked default.
type Builder struct {
	// Mask hides every digit between the BIN and the last four.
	Mask bool
	// MaskChar is the replacement character; zero means DefaultMaskChar.
	MaskChar byte
	// RedactLine applies the mask to the PAN inside LineText as well,
	// leaving its separators where they were.
	RedactLine bool
}

// NewBuilder returns a Builder with masking enabled.
func NewBuilder() Builder { return Builder{Mask: true, MaskChar: DefaultMaskChar} }

func (b Builder) maskChar() byte {
	if b.MaskChar == 0 {
		return DefaultMaskChar
	}
	return b.MaskChar
}

// Build assembles the finding for run found on line lineNo of path.
func (b Builder) Build(path string, lineNo int, line string, run DigitRun, c Classification) types.Finding {
	masked := run.Digits
	text := line
	if b.Mask {
		masked = Mask(run.Digits, b.maskChar())
		if b.RedactLine {
			text = redactSpan(line, run, b.maskChar())
		}
	}
	return types.Finding{
		Path:           path,
		Line:           lineNo,
		Column:         run.Column,
		Brand:          c.Brand,
		Length:         len(run.Digits),
		BIN:            c.BIN,
		LastFour:       c.LastFour,
		Masked:         masked,
		LineText:       text,
		LengthMismatch: c.LengthMismatch,
		Fingerprint:    Fingerprint(run.Digits),
	}
}

// Mask keeps the first six and last four digits of pan and replaces every
// character between them with ch. PANs of ten digits or fewer have nothing
// between and are returned unchanged.
func Mask(pan string, ch byte) string {
	n := len(pan)
	if n <= 10 {
		return pan
	}
	var sb strings.Builder
	sb.Grow(n)
	sb.WriteString(pan[:6])
	for i := 6; i < n-4; i++ {
		sb.WriteByte(ch)
	}
	sb.WriteString(pan[n-4:])
	return sb.String()
}

func redactSpan(line string, run DigitRun, ch byte) string {
	n := len(run.Digits)
	if n <= 10 {
		return line
	}
	buf := []byte(line)
	k := 0
	for i := run.Start; i < run.End; i++ {
		if !isDigit(buf[i]) {
			continue
		}
		if k >= 6 && k < n-4 {
			buf[i] = ch
		}
		k++
	}
	return string(buf)
}

// Fingerprint returns a fixed-width hex xxhash of the digits. It identifies
// repeated PANs across files without carrying the number itself.
func Fingerprint(digits string) string {
	sum := xxhash.Sum64String(digits)
	var buf [16]byte
	const hex = "0123456789abcdef"
	for i := 15; i >= 0; i-- {
		buf[i] = hex[sum&0xF]
		sum >>= 4
	}
	return string(buf[:])
}

// RedactLine masks every Luhn-valid card number in line the way Build does
// with RedactLine set. Other text is returned untouched.
func RedactLine(line string, ch byte) string {
	out := line
	for run := range Extract(line) {
		if ValidLuhn(run.Digits) {
			out = redactSpan(out, run, ch)
		}
	}
	return out
}
