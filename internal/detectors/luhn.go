package detectors

// ValidLuhn reports whether digits passes the Luhn (mod 10) checksum.
// Starting from the rightmost digit every second digit is doubled, and 9 is
// subtracted from doubled values above 9. Strings containing anything other
// than ASCII digits fail, as do strings whose sum is zero (all zeros).
func ValidLuhn(digits string) bool {
	if digits == "" {
		return false
	}
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		c := digits[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum > 0 && sum%10 == 0
}
