package errors

import (
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative file", "assets/logo.png", false},
		{"absolute file", "/srv/assets/logo.png", false},
		{"simple name", "logo.png", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"path traversal", "assets/../../etc/passwd", true},
		{"null byte", "logo\x00.png", true},
		{"control char", "logo\x01.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidPath {
				t.Errorf("ValidatePath(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPath)
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
		{"https", "https://example.com/a.png", false},
		{"http", "http://example.com/a.png", false},
		{"empty", "", true},
		{"ftp", "ftp://example.com/a.png", true},
		{"file", "file:///etc/passwd", true},
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

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"png", false},
		{"jpg", false},
		{"jpeg", false},
		{"svg", true},
		{"", true},
		{"PNG", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			err := ValidateFormat(tt.format)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
		})
	}
}

func TestValidateQuality(t *testing.T) {
	for _, q := range []int{1, 50, 100} {
		if err := ValidateQuality(q); err != nil {
			t.Errorf("ValidateQuality(%d) = %v, want nil", q, err)
		}
	}
	for _, q := range []int{0, -5, 101} {
		if err := ValidateQuality(q); err == nil {
			t.Errorf("ValidateQuality(%d) = nil, want error", q)
		}
	}
}
