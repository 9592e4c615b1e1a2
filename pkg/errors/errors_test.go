package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeValidation, "Data array is empty: %s", "rows")

	if err.Code != ErrCodeValidation {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeValidation)
	}

	if err.Message != "Data array is empty: rows" {
		t.Errorf("Message = %v, want %v", err.Message, "Data array is empty: rows")
	}

	expected := "VALIDATION_ERROR: Data array is empty: rows"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(ErrCodeDownload, cause, "write report.csv")

	if err.Code != ErrCodeDownload {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeDownload)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeEncoding, "test"),
			code:     ErrCodeEncoding,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeEncoding, "test"),
			code:     ErrCodeDownload,
			expected: false,
		},
		{
			name:     "outer code wins",
			err:      Wrap(ErrCodeShare, New(ErrCodeDownload, "inner"), "outer"),
			code:     ErrCodeShare,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeEncoding,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeEncoding,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"structured", New(ErrCodeNoArtifact, "x"), ErrCodeNoArtifact},
		{"wrapped in fmt", errorf(New(ErrCodeAlreadyInProgress, "x")), ErrCodeAlreadyInProgress},
		{"plain", errors.New("x"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeElementNotFound, "Graph element not found")); got != "Graph element not found" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("boom")); got != "boom" {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestIsWarning(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{New(ErrCodeValidation, "x"), true},
		{New(ErrCodeElementNotFound, "x"), true},
		{New(ErrCodeEncoding, "x"), false},
		{errors.New("x"), false},
	}

	for _, tt := range tests {
		if got := IsWarning(tt.err); got != tt.want {
			t.Errorf("IsWarning(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

type wrapped struct{ err error }

func (w wrapped) Error() string { return "context: " + w.err.Error() }
func (w wrapped) Unwrap() error { return w.err }

func errorf(err error) error { return wrapped{err} }
