package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// OptionalDate tells an absent JSON key apart from an explicit null.
// Set is true whenever the key appeared in the payload; Value is nil for null.
type OptionalDate struct {
	Set   bool
	Value *time.Time
}

// NewOptionalDate returns a set date; pass nil for an explicit null.
func NewOptionalDate(t *time.Time) OptionalDate {
	return OptionalDate{Set: true, Value: t}
}

func (d *OptionalDate) UnmarshalJSON(data []byte) error {
	d.Set = true
	d.Value = nil

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("birthday must be a date string in %s format", DateLayout)
	}
	if raw == "" {
		return nil
	}

	t, err := ParseDate(raw)
	if err != nil {
		return err
	}
	d.Value = &t
	return nil
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp and truncates to the
// calendar date in UTC.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("birthday %q is not a valid date, expected %s", s, DateLayout)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
