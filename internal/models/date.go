package models

import (
	"fmt"
	"strings"
	"time"
)

// Accepted birth date layouts. Any other layout is rejected.
const (
	DateLayoutISO = "2006-01-02"
	DateLayoutBR  = "02/01/2006"
)

// ParseDate converts a date string in one of the two accepted formats into a
// time value. Empty input yields a nil date.
func ParseDate(raw string) (*time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}

	if t, err := time.Parse(DateLayoutISO, trimmed); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(DateLayoutBR, trimmed); err == nil {
		return &t, nil
	}

	return nil, fmt.Errorf("date must use %q or %q format", DateLayoutISO, DateLayoutBR)
}

// FormatDate renders a stored date back to ISO form, or "" for nil.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayoutISO)
}
