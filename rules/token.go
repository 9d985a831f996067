package rules

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeToken canonicalizes a text token for pattern matching: NFKC
// normalization (folding full-width digits and letters), multiplication
// signs mapped to ASCII "x", lowercased, surrounding whitespace trimmed.
// Manuals mix "2x", "2X" and "2×" freely; rules match the canonical form.
func NormalizeToken(s string) string {
	s = norm.NFKC.String(s)
	s = strings.Map(func(r rune) rune {
		switch r {
		case '×', '✕', '✖':
			return 'x'
		}
		return r
	}, s)
	return strings.ToLower(strings.TrimSpace(s))
}

// ParseCount parses a count token such as "2x" or "5×" and returns the
// count. Returns false when the token is not a count.
func ParseCount(s string) (int, bool) {
	tok := NormalizeToken(s)
	tok = strings.TrimSpace(strings.TrimSuffix(tok, "x"))
	if tok == NormalizeToken(s) {
		// No "x" suffix was present.
		return 0, false
	}
	n, err := strconv.Atoi(tok)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// ParseNumber parses a bare numeric token after normalization. Returns
// false when the token is not a positive integer.
func ParseNumber(s string) (int, bool) {
	n, err := strconv.Atoi(NormalizeToken(s))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
