package core

import "sort"

// Filter is one explicit selection set per filterable dimension. The
// engine applies the selections literally: a row survives only when,
// for every dimension the table actually carries, its value is a
// member of that dimension's set. An empty selection therefore matches
// nothing ("filter cleared"), while "no filtering" is the full-domain
// selection built by Options.Filter. The policy is deliberately strict
// and applied uniformly across all six dimensions.
type Filter struct {
	Years           []int
	Months          []int
	Physicians      []string
	Facilities      []string
	ServiceTypes    []string
	PayerCategories []string
}

// Options enumerates the selectable domain of every dimension,
// computed from the full post-coercion table so dropdown choices only
// show values that will actually be counted. Years and months sort
// ascending numerically; categorical dimensions sort lexicographically.
type Options struct {
	Years           []int
	Months          []int
	Physicians      []string
	Facilities      []string
	ServiceTypes    []string
	PayerCategories []string
}

// Options scans the working table and returns the per-dimension
// domains. Dimensions the schema does not carry come back empty.
func (t *Table) Options() Options {
	var o Options
	o.Years = distinctInts(t, FieldYear, func(r Row) int { return r.Year })
	o.Months = distinctInts(t, FieldMonth, func(r Row) int { return r.Month })
	o.Physicians = distinctStrings(t, FieldPhysician, func(r Row) string { return r.Physician })
	o.Facilities = distinctStrings(t, FieldFacility, func(r Row) string { return r.Facility })
	o.ServiceTypes = distinctStrings(t, FieldServiceType, func(r Row) string { return r.ServiceType })
	o.PayerCategories = distinctStrings(t, FieldPayerCategory, func(r Row) string { return r.PayerCategory })
	return o
}

// Filter returns the full-domain selection: every option of every
// dimension selected, which filters nothing out.
func (o Options) Filter() Filter {
	return Filter{
		Years:           o.Years,
		Months:          o.Months,
		Physicians:      o.Physicians,
		Facilities:      o.Facilities,
		ServiceTypes:    o.ServiceTypes,
		PayerCategories: o.PayerCategories,
	}
}

// Apply returns the rows satisfying the conjunction of all selections,
// preserving source order. The result is a fresh slice; the working
// table is never mutated.
func (t *Table) Apply(f Filter) []Row {
	years := intSet(f.Years)
	months := intSet(f.Months)
	physicians := categorySet(f.Physicians)
	facilities := categorySet(f.Facilities)
	serviceTypes := categorySet(f.ServiceTypes)
	payers := categorySet(f.PayerCategories)

	out := make([]Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		if t.Has(FieldYear) && !years[r.Year] {
			continue
		}
		if t.Has(FieldMonth) && !months[r.Month] {
			continue
		}
		if t.Has(FieldPhysician) && !physicians[NormalizeKey(r.Physician)] {
			continue
		}
		if t.Has(FieldFacility) && !facilities[NormalizeKey(r.Facility)] {
			continue
		}
		if t.Has(FieldServiceType) && !serviceTypes[NormalizeKey(r.ServiceType)] {
			continue
		}
		if t.Has(FieldPayerCategory) && !payers[NormalizeKey(r.PayerCategory)] {
			continue
		}
		out = append(out, r)
	}
	return out
}

func intSet(vals []int) map[int]bool {
	set := make(map[int]bool, len(vals))
	for _, v := range vals {
		set[v] = true
	}
	return set
}

func categorySet(vals []string) map[string]bool {
	set := make(map[string]bool, len(vals))
	for _, v := range vals {
		set[NormalizeKey(v)] = true
	}
	return set
}

func distinctInts(t *Table, f Field, val func(Row) int) []int {
	if !t.Has(f) {
		return nil
	}
	seen := make(map[int]bool)
	var out []int
	for _, r := range t.Rows {
		v := val(r)
		if v == 0 || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func distinctStrings(t *Table, f Field, val func(Row) string) []string {
	if !t.Has(f) {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, r := range t.Rows {
		v := val(r)
		key := NormalizeKey(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
