package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeBrandNotFound, "brand not recognized: %s", "LADA")

	if err.Code != ErrCodeBrandNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeBrandNotFound)
	}
	if err.Message != "brand not recognized: LADA" {
		t.Errorf("Message = %v", err.Message)
	}
	if want := "BRAND_NOT_FOUND: brand not recognized: LADA"; err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(ErrCodeStepFailed, cause, "wizard step failed")

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if want := "STEP_FAILED: wizard step failed: connection reset"; err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeTimeout, "x"), ErrCodeTimeout, true},
		{"non-matching code", New(ErrCodeTimeout, "x"), ErrCodeNetwork, false},
		{"outer code wins", Wrap(ErrCodeStepFailed, New(ErrCodeTimeout, "inner"), "outer"), ErrCodeStepFailed, true},
		{"inner code hidden", Wrap(ErrCodeStepFailed, New(ErrCodeTimeout, "inner"), "outer"), ErrCodeTimeout, false},
		{"fmt wrapped", fmt.Errorf("ctx: %w", New(ErrCodeEmptyCatalog, "x")), ErrCodeEmptyCatalog, true},
		{"plain error", errors.New("plain"), ErrCodeInvalidInput, false},
		{"nil error", nil, ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestHas(t *testing.T) {
	err := Wrap(ErrCodeStepFailed, fmt.Errorf("fetch: %w", New(ErrCodeRateLimited, "429")), "outer")

	if !Has(err, ErrCodeRateLimited) {
		t.Error("Has(RATE_LIMITED) = false, want true")
	}
	if !Has(err, ErrCodeStepFailed) {
		t.Error("Has(STEP_FAILED) = false, want true")
	}
	if Has(err, ErrCodeTimeout) {
		t.Error("Has(TIMEOUT) = true, want false")
	}
	if Has(nil, ErrCodeTimeout) {
		t.Error("Has(nil) = true")
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeResolutionFailed, "dead"), ErrCodeResolutionFailed},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTransient(t *testing.T) {
	tests := []struct {
		code Code
		want bool
	}{
		{ErrCodeRateLimited, true},
		{ErrCodeTimeout, true},
		{ErrCodeNetwork, true},
		{ErrCodeUpstream, true},
		{ErrCodeStepFailed, true},
		{ErrCodeResolutionFailed, false},
		{ErrCodeBrandNotFound, false},
		{ErrCodeEmptyCatalog, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := Transient(New(tt.code, "x")); got != tt.want {
				t.Errorf("Transient(%s) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
	if Transient(errors.New("plain")) {
		t.Error("plain error reported as transient")
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeNotSearchable, "category has no parts"), "category has no parts"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}
