package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxQueryLen = 200

// ValidateQuery checks a free-text search query before it reaches any upstream.
//
// The rules are conservative:
//   - No empty or whitespace-only queries
//   - No control characters
//   - Must be valid UTF-8 (catalog queries are frequently Cyrillic)
//   - Maximum length of 200 characters
func ValidateQuery(q string) error {
	if strings.TrimSpace(q) == "" {
		return New(ErrCodeInvalidQuery, "query cannot be empty")
	}
	if !utf8.ValidString(q) {
		return New(ErrCodeInvalidQuery, "query is not valid UTF-8")
	}
	if utf8.RuneCountInString(q) > maxQueryLen {
		return New(ErrCodeInvalidQuery, "query too long (max %d characters)", maxQueryLen)
	}
	for _, r := range q {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidQuery, "query contains invalid control characters")
		}
	}
	return nil
}

// ValidatePartNumber checks an article number before it is embedded in a URL path.
// Letters, digits, dashes, dots and spaces are accepted.
func ValidatePartNumber(number string) error {
	if err := ValidateQuery(number); err != nil {
		return err
	}
	for _, r := range number {
		switch {
		case r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r)):
		case r == '-' || r == '.' || r == ' ':
		default:
			return New(ErrCodeInvalidQuery, "part number contains invalid character %q", r)
		}
	}
	return nil
}
