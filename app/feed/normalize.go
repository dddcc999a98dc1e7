package feed

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText trims s and converts it to Unicode NFC. Blank input yields nil
// so that absent and empty optional fields compare equal.
func NormalizeText(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(norm.NFC.String(*s))
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
