package validation

import (
	"errors"
	"strings"
	"unicode"
)

// ErrRoleTooLong is returned when the role length exceeds the maximum.
var ErrRoleTooLong = errors.New("role too long")

// ErrRoleInvalidChars is returned when the role contains control characters.
var ErrRoleInvalidChars = errors.New("role contains invalid characters")

// ValidateRole trims the input and enforces a rune-length cap (maxLen).
// Control characters are rejected so a role cannot inject extra lines into
// the generation prompt. Any other text is allowed. An empty result is
// valid; the caller substitutes the default role.
func ValidateRole(input string, maxLen int) (string, error) {
	s := strings.TrimSpace(input)
	r := []rune(s)
	if maxLen > 0 && len(r) > maxLen {
		return "", ErrRoleTooLong
	}
	for _, c := range r {
		if unicode.IsControl(c) {
			return "", ErrRoleInvalidChars
		}
	}
	return s, nil
}
