package errors

import (
	"strings"
	"testing"
)

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "home", false},
		{"valid with dash", "page-1", false},
		{"valid with underscore", "my_widget", false},
		{"valid with dot", "com.example.clock", false},
		{"valid with colon", "widget:42", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 200), true},
		{"path traversal", "foo..bar", true},
		{"slash", "foo/bar", true},
		{"leading dot", ".hidden", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"space", "foo bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier("id", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIdentifier(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateIdentifier(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateLabel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"plain", "Clock", false},
		{"spaces and unicode", "Météo du jour", false},

		{"control char", "Clock\x01", true},
		{"tab", "a\tb", true},
		{"too long", strings.Repeat("x", 300), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLabel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLabel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSpan(t *testing.T) {
	tests := []struct {
		name       string
		w, h       int
		cols, rows int
		wantCode   Code
	}{
		{"fits", 2, 2, 5, 6, ""},
		{"exact", 5, 6, 5, 6, ""},
		{"zero width", 0, 1, 5, 6, ErrCodeInvalidInput},
		{"empty grid", 1, 1, 0, 6, ErrCodeInvalidInput},
		{"too wide", 6, 1, 5, 6, ErrCodeOutOfBounds},
		{"too tall", 1, 7, 5, 6, ErrCodeOutOfBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSpan(tt.w, tt.h, tt.cols, tt.rows)
			if got := GetCode(err); got != tt.wantCode {
				t.Errorf("ValidateSpan() code = %q, want %q", got, tt.wantCode)
			}
		})
	}
}
