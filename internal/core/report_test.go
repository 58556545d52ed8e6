package core

import (
	"reflect"
	"testing"
)

func TestReportDeterminism(t *testing.T) {
	table := sampleTable(t)
	f := table.Options().Filter()
	first := table.Report(f)
	second := table.Report(f)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical table and filter produced different reports")
	}
}

func TestReportEmptyFilterDegradesGracefully(t *testing.T) {
	table := sampleTable(t)
	f := table.Options().Filter()
	f.Months = []int{} // cleared selection: zero rows by policy

	rep := table.Report(f)
	if rep.RowCount != 0 {
		t.Fatalf("row count = %d", rep.RowCount)
	}
	if rep.TotalRevenue.Cents != 0 || rep.AvgTicket.Cents != 0 {
		t.Fatalf("totals not zero: %+v", rep)
	}
	if rep.SelfPay.SelfPayPercent != 0 || rep.SelfPay.InsuredPercent != 0 {
		t.Fatalf("split not zero: %+v", rep.SelfPay)
	}
	if len(rep.TopPatients) != 0 || len(rep.MonthlySeries) != 0 {
		t.Fatal("lists not empty")
	}
	if rep.Delta.Defined {
		t.Fatal("delta defined on empty series")
	}
}

func TestReportCarriesDropCount(t *testing.T) {
	table := extendedTable(t, [][]string{
		{"P1", "Dr. A", "PARTICULAR", "Consulta", "100,00", "06/01/2025", "Centro"},
		{"P2", "Dr. B", "UNIMED", "Exame", "abc", "07/01/2025", "Centro"},
	})
	rep := table.Report(table.Options().Filter())
	if rep.RowCount != 1 || rep.DroppedRows != 1 {
		t.Fatalf("rows=%d dropped=%d", rep.RowCount, rep.DroppedRows)
	}
	if rep.TotalRevenue.Cents != 10000 {
		t.Fatalf("dropped row leaked into total: %d", rep.TotalRevenue.Cents)
	}
}
