// Package detectors finds payment card numbers in a line of text. It extracts
// digit runs (tolerating space and hyphen separators), validates them with the
// Luhn checksum, classifies the brand from an ordered prefix table and builds
// self-contained findings with masking applied.
package detectors
