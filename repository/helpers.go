package repository

import (
	"errors"
	"time"

	"github.com/mattn/go-sqlite3"
)

// Timestamps are stored as RFC3339 UTC text. Lexicographic order then matches
// chronological order, so SQL range comparisons work on the raw column.
func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
