package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	// Regex pattern for a canonical subscriber number: digits only,
	// between 9 and 15 digits (E.164 without the plus sign)
	msisdnPattern = regexp.MustCompile(`^\d{9,15}$`)
)

// NormalizeMSISDN normalizes a subscriber identifier to a canonical digit
// string: whitespace and separator characters are stripped, a leading
// "+" or "00" international prefix is removed. Returns an error if the
// result is not a plausible subscriber number.
func NormalizeMSISDN(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("subscriber identifier cannot be empty")
	}

	// Strip common separators entered by operators
	replacer := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
	s = replacer.Replace(s)

	if strings.HasPrefix(s, "+") {
		s = s[1:]
	} else if strings.HasPrefix(s, "00") {
		s = s[2:]
	}

	if !msisdnPattern.MatchString(s) {
		return "", fmt.Errorf("invalid subscriber identifier %q: must be 9-15 digits", raw)
	}

	return s, nil
}

// ValidateDateRange checks that both dates are set and correctly ordered.
func ValidateDateRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return fmt.Errorf("start and end dates are required")
	}
	if to.Before(from) {
		return fmt.Errorf("end date %s is before start date %s",
			to.Format("2006-01-02"), from.Format("2006-01-02"))
	}
	return nil
}
