package pickup

import (
	"strconv"
	"strings"
	"unicode"
)

// parseCode reads the leading integer of a confirmation code: leading spaces are skipped,
// an optional sign is accepted and everything after the first digit run is ignored.
// "0042", "42abc" and "42.5" are all 42. A "0x" prefix switches to hex. No digits, no code.
func parseCode(raw string) (int64, bool) {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)

	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	base, isDigit := 10, isDecimal
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base, isDigit = 16, isHex
		s = s[2:]
	}

	end := 0
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	if end == 0 {
		return 0, false
	}

	n, err := strconv.ParseInt(s[:end], base, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

func isDecimal(c byte) bool { return c >= '0' && c <= '9' }

func isHex(c byte) bool {
	return isDecimal(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// codesMatch compares codes numerically. Codes without a leading number never match.
func codesMatch(stored, given string) bool {
	a, ok := parseCode(stored)
	if !ok {
		return false
	}
	b, ok := parseCode(given)
	return ok && a == b
}
