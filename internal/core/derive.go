package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order against the service date column.
// Exports use Brazilian day-first formats; ISO shows up in newer ones.
var dateLayouts = []string{
	"02/01/2006",
	"2006-01-02",
	"02-01-2006",
	"02/01/2006 15:04:05",
	"2006-01-02 15:04:05",
}

// BuildTable binds the headers against the schema variant and derives
// the working table: monetary coercion, period key and weekday.
//
// Rows whose monetary value fails coercion are dropped here, exactly
// once, before any filter option or aggregate is computed; Dropped
// records how many. Every other derivation degrades per row instead of
// failing: an unparseable date leaves the weekday empty, a missing
// time axis leaves the period key empty.
func BuildTable(headers []string, raw [][]string, v Variant) (*Table, error) {
	if !v.valid() {
		return nil, fmt.Errorf("build table: unknown schema variant %q", v)
	}
	schema, err := BindSchema(headers, v)
	if err != nil {
		return nil, err
	}

	t := &Table{fields: make(map[Field]bool)}
	for f := range spellings {
		t.fields[f] = schema.Has(f)
	}
	// Year and month are filterable whenever derivable from the date.
	if schema.Has(FieldServiceDate) {
		t.fields[FieldYear] = true
		t.fields[FieldMonth] = true
	}

	for _, cells := range raw {
		cents, err := ParseAmountToCents(schema.cell(cells, FieldUnitValue))
		if err != nil {
			t.Dropped++
			continue
		}

		row := Row{
			PatientID:     strings.TrimSpace(schema.cell(cells, FieldPatientID)),
			Physician:     strings.TrimSpace(schema.cell(cells, FieldPhysician)),
			PayerCategory: strings.TrimSpace(schema.cell(cells, FieldPayerCategory)),
			ServiceType:   strings.TrimSpace(schema.cell(cells, FieldServiceType)),
			Facility:      strings.TrimSpace(schema.cell(cells, FieldFacility)),
			Amount:        Money{Cents: cents},
		}

		if schema.Has(FieldServiceDate) {
			row.Date = parseDate(schema.cell(cells, FieldServiceDate))
			if !row.Date.IsEmpty() {
				row.Weekday = row.Date.Weekday().String()
			}
		}

		// Explicit year/month columns take precedence over the values
		// derivable from the date column when both are present.
		row.Year, row.Month = periodOf(schema, cells, row.Date)
		if row.Year > 0 && row.Month >= 1 && row.Month <= 12 {
			row.PeriodKey = fmt.Sprintf("%04d-%02d", row.Year, row.Month)
		}

		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func parseDate(s string) Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return Date{Time: ts}
		}
	}
	return Date{}
}

func periodOf(schema *Schema, cells []string, date Date) (year, month int) {
	if schema.Has(FieldYear) && schema.Has(FieldMonth) {
		y, yerr := strconv.Atoi(strings.TrimSpace(schema.cell(cells, FieldYear)))
		m, merr := strconv.Atoi(strings.TrimSpace(schema.cell(cells, FieldMonth)))
		if yerr == nil && merr == nil && y > 0 && m >= 1 && m <= 12 {
			return y, m
		}
	}
	if !date.IsEmpty() {
		return date.Time.Year(), int(date.Time.Month())
	}
	return 0, 0
}
