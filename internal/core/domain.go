package core

import (
	"errors"
	"time"
)

type (
	// Date wraps time.Time for service dates. A zero Date means the
	// source schema carried no parseable date for the row.
	Date struct {
		time.Time
	}

	// Money is a monetary amount in integer cents.
	Money struct {
		Cents int64
	}

	// Row is one billing record after schema binding and coercion.
	// Fields absent from the bound schema variant are left zero.
	Row struct {
		PatientID     string
		Physician     string
		PayerCategory string
		ServiceType   string
		Facility      string
		Amount        Money
		Date          Date
		Year          int
		Month         int // 1-12
		PeriodKey     string
		Weekday       string
	}

	// Table is the session-local working table: the coerced rows plus
	// the count of rows dropped because their monetary value did not
	// parse. The table is rebuilt from the upload on every analysis
	// pass and is never shared across sessions.
	Table struct {
		Rows    []Row
		Dropped int

		fields map[Field]bool
	}
)

var ErrInvalidAmount = errors.New("invalid amount")

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// IsEmpty returns true if no date was parsed for the row.
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// Has reports whether the bound schema variant carried the given field.
// Filters on absent dimensions are skipped rather than applied.
func (t *Table) Has(f Field) bool {
	return t.fields[f]
}

// Len returns the number of rows that survived coercion.
func (t *Table) Len() int {
	return len(t.Rows)
}
