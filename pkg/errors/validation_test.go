package errors

import "testing"

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"csv artifact", "sales_report_2024-01-15_10-30-00.csv", false},
		{"png artifact", "export_2024-01-15_10-30-00.png", false},
		{"empty", "", true},
		{"slash", "../etc/passwd", true},
		{"nested", "reports/q1.pdf", true},
		{"backslash", `a\b.pdf`, true},
		{"dotdot", "a..b.pdf", true},
		{"hidden", ".bashrc", true},
		{"control", "a\x00b.csv", true},
		{"too long", string(make([]byte, 300)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidateFilename(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://dashboard.example.com/w/42", false},
		{"http", "http://localhost:8080/objects/1", false},
		{"empty", "", true},
		{"javascript", "javascript:alert(1)", true},
		{"mailto", "mailto:someone@example.com", true},
		{"no host", "https://", true},
		{"bad escape", "https://exa mple.com/%zz", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeValidation, ErrCodeInvalidInput, ErrCodeInvalidFormat,
		ErrCodeInvalidPlatform, ErrCodeInvalidKind, ErrCodeInvalidPath,
		ErrCodeElementNotFound, ErrCodeFileNotFound, ErrCodeWidgetNotFound,
		ErrCodeEncoding, ErrCodeDownload, ErrCodeShare,
		ErrCodeNoArtifact, ErrCodeAlreadyInProgress,
		ErrCodeInternal, ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, c := range codes {
		if seen[c] {
			t.Errorf("duplicate error code: %s", c)
		}
		seen[c] = true
	}
}
