package sqlite

import (
	"fmt"
	"strings"
	"time"

	sqlitelib "zombiezen.com/go/sqlite"
)

// Fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// isUniqueViolation reports a UNIQUE or PRIMARY KEY constraint failure.
func isUniqueViolation(err error) bool {
	switch sqlitelib.ErrCode(err) {
	case sqlitelib.ResultConstraintUnique, sqlitelib.ResultConstraintPrimaryKey:
		return true
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// sqlitex binds by reflect kind, so pointers are unwrapped here.
func nullableFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullableString(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func columnFloatPtr(stmt *sqlitelib.Stmt, col int) *float64 {
	if stmt.ColumnIsNull(col) {
		return nil
	}
	v := stmt.ColumnFloat(col)
	return &v
}

func columnStringPtr(stmt *sqlitelib.Stmt, col int) *string {
	if stmt.ColumnIsNull(col) {
		return nil
	}
	v := stmt.ColumnText(col)
	return &v
}
