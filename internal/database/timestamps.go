package database

import (
	"database/sql"
	"fmt"
	"time"
)

// timeLayout is how timestamps are stored. UTC RFC 3339 text sorts
// chronologically, so ORDER BY on these columns is meaningful.
const timeLayout = time.RFC3339

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatNullTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatDisplay formats a stored timestamp for listings, e.g.
// "Oct 16, 2026 12:00".
func FormatDisplay(t time.Time) string {
	return t.Format("Jan 02, 2006 15:04")
}
