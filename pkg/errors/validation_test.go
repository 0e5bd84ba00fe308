package errors

import (
	"strings"
	"testing"
)

func TestValidateQuery(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"car query", "HONDA CIVIC 1996", false},
		{"cyrillic", "ВАЗ 2107", false},
		{"article", "04465-42160", false},

		{"empty", "", true},
		{"whitespace", "   ", true},
		{"too long", strings.Repeat("a", 201), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
		{"invalid utf8", "foo\xffbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuery(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateQuery(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidQuery) {
				t.Errorf("code = %s, want %s", GetCode(err), ErrCodeInvalidQuery)
			}
		})
	}
}

func TestValidatePartNumber(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"toyota", "04465-42160", false},
		{"dotted", "1K0.615.301", false},
		{"spaced", "OC 90", false},

		{"slash", "04465/42160", true},
		{"path traversal", "../etc", true},
		{"query string", "abc?x=1", true},
		{"cyrillic", "АБВ123", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePartNumber(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePartNumber(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidQuery,
		ErrCodeNotFound,
		ErrCodeBrandNotFound,
		ErrCodeNetwork,
		ErrCodeTimeout,
		ErrCodeRateLimited,
		ErrCodeUpstream,
		ErrCodeStepFailed,
		ErrCodeResolutionFailed,
		ErrCodeEmptyCatalog,
		ErrCodeNotSearchable,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
