package scan

import (
	"regexp"
	"strings"
)

// Badge payloads look like "PLX-12345678-ABC": an alphabetic prefix, the
// employee number, and an alphabetic suffix. Only the digit group matters.
var badgePattern = regexp.MustCompile(`(?i)[A-Z]+-(\d+)-[A-Z]+`)

// minEmployeeNumberLen is the shortest digit string accepted as an
// employee number on its own.
const minEmployeeNumberLen = 6

// DecodeBadge extracts the employee number from a raw badge payload.
//
// The prefix-digits-suffix pattern wins when present. Otherwise all
// non-digit characters are stripped and the remainder is accepted only if
// it is at least six digits. Anything shorter is invalid - ambiguous input
// is never defaulted to a best guess.
func DecodeBadge(raw string) (string, bool) {
	if m := badgePattern.FindStringSubmatch(raw); m != nil {
		return m[1], true
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if len(digits) >= minEmployeeNumberLen {
		return digits, true
	}
	return "", false
}
