package models

import (
	"testing"
	"time"
)

func TestNormalizeMSISDN(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain digits", "254712345678", "254712345678", false},
		{"plus prefix", "+254712345678", "254712345678", false},
		{"double-zero prefix", "00254712345678", "254712345678", false},
		{"spaces and dashes", "254 712-345-678", "254712345678", false},
		{"empty", "", "", true},
		{"letters", "2547abc45678", "", true},
		{"too short", "12345", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeMSISDN(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NormalizeMSISDN(%q) expected an error, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeMSISDN(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeMSISDN(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateDateRange(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	if err := ValidateDateRange(from, to); err != nil {
		t.Errorf("unexpected error for a valid range: %v", err)
	}
	if err := ValidateDateRange(from, from); err != nil {
		t.Errorf("unexpected error for a single-day range: %v", err)
	}
	if err := ValidateDateRange(to, from); err == nil {
		t.Error("expected an error for a reversed range")
	}
	if err := ValidateDateRange(time.Time{}, to); err == nil {
		t.Error("expected an error for a missing start date")
	}
}
