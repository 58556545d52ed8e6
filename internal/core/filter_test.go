package core

import (
	"reflect"
	"testing"
)

func sampleTable(t *testing.T) *Table {
	t.Helper()
	return extendedTable(t, [][]string{
		{"P1", "Dr. A", "PARTICULAR", "Consulta", "100,00", "06/01/2025", "Centro"},
		{"P2", "Dr. B", "UNIMED", "Exame", "200,00", "07/01/2025", "Centro"},
		{"P3", "Dr. B", "Bradesco", "Consulta", "300,00", "10/02/2025", "Norte"},
		{"P1", "Dr. C", "UNIMED", "Procedimento", "400,00", "11/02/2025", "Norte"},
	})
}

func TestOptionsSorted(t *testing.T) {
	opts := sampleTable(t).Options()
	if !reflect.DeepEqual(opts.Years, []int{2025}) {
		t.Fatalf("years = %v", opts.Years)
	}
	if !reflect.DeepEqual(opts.Months, []int{1, 2}) {
		t.Fatalf("months = %v", opts.Months)
	}
	if !reflect.DeepEqual(opts.Physicians, []string{"Dr. A", "Dr. B", "Dr. C"}) {
		t.Fatalf("physicians = %v", opts.Physicians)
	}
	if !reflect.DeepEqual(opts.PayerCategories, []string{"Bradesco", "PARTICULAR", "UNIMED"}) {
		t.Fatalf("payers = %v", opts.PayerCategories)
	}
}

func TestApplyFullDomainKeepsAllRowsInOrder(t *testing.T) {
	table := sampleTable(t)
	rows := table.Apply(table.Options().Filter())
	if len(rows) != table.Len() {
		t.Fatalf("len = %d, want %d", len(rows), table.Len())
	}
	for i := range rows {
		if rows[i].PatientID != table.Rows[i].PatientID {
			t.Fatalf("row %d out of order", i)
		}
	}
}

func TestApplyEmptySelectionYieldsNothing(t *testing.T) {
	table := sampleTable(t)
	f := table.Options().Filter()
	f.Years = []int{}
	if rows := table.Apply(f); len(rows) != 0 {
		t.Fatalf("empty year selection returned %d rows", len(rows))
	}
}

func TestApplyConjunction(t *testing.T) {
	table := sampleTable(t)
	f := table.Options().Filter()
	f.Physicians = []string{"Dr. B"}
	f.Months = []int{1}
	rows := table.Apply(f)
	if len(rows) != 1 || rows[0].PatientID != "P2" {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestApplySelectionMatchingIsAccentAndCaseInsensitive(t *testing.T) {
	table := sampleTable(t)
	f := table.Options().Filter()
	f.PayerCategories = []string{"unimed"}
	rows := table.Apply(f)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
}

func TestApplyIsSubsetOfSource(t *testing.T) {
	table := sampleTable(t)
	f := table.Options().Filter()
	f.Facilities = []string{"Norte"}
	rows := table.Apply(f)
	for _, r := range rows {
		if r.Facility != "Norte" {
			t.Fatalf("row leaked through facility filter: %+v", r)
		}
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
}

func TestApplySkipsAbsentDimensions(t *testing.T) {
	table, err := BuildTable([]string{"Médico", "Convênio", "Valor"}, [][]string{
		{"Dr. A", "PARTICULAR", "150,00"},
	}, VariantMinimal)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	// Minimal schema has no year/facility/service type columns; the
	// full-domain filter for them is empty, and must not erase rows.
	rows := table.Apply(table.Options().Filter())
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
}
