package core

import (
	"math"
	"reflect"
	"testing"
)

func TestRevenueScenario(t *testing.T) {
	// Spec'd smoke scenario: two physicians, one self-pay row.
	table := extendedTable(t, [][]string{
		{"P1", "Dr. A", "PARTICULAR", "Consulta", "100,00", "06/01/2025", "Centro"},
		{"P2", "Dr. B", "UNIMED", "Exame", "200,00", "07/01/2025", "Centro"},
	})
	rows := table.Rows

	if got := TotalCents(rows); got != 30000 {
		t.Fatalf("total = %d, want 30000", got)
	}

	split := SplitSelfPay(rows)
	if math.Abs(split.SelfPayPercent-33.333) > 0.01 {
		t.Fatalf("self-pay %% = %v", split.SelfPayPercent)
	}
	if split.SelfPayPercent+split.InsuredPercent != 100 {
		t.Fatalf("split does not sum to exactly 100: %v + %v", split.SelfPayPercent, split.InsuredPercent)
	}

	byPhysician := RevenueByPhysician(rows)
	want := []GroupCents{{Key: "Dr. B", Cents: 20000}, {Key: "Dr. A", Cents: 10000}}
	if !reflect.DeepEqual(byPhysician, want) {
		t.Fatalf("by physician = %v", byPhysician)
	}
}

func TestCategoryPercentagesSumTo100(t *testing.T) {
	table := sampleTable(t)
	shares := RevenueByPayerCategory(table.Rows)
	var sum float64
	for _, s := range shares {
		sum += s.Percent
	}
	if math.Abs(sum-100) > 0.1 {
		t.Fatalf("percentages sum to %v", sum)
	}
	// Descending by revenue.
	for i := 1; i < len(shares); i++ {
		if shares[i].Cents > shares[i-1].Cents {
			t.Fatalf("shares not descending: %v", shares)
		}
	}
}

func TestSplitSelfPayZeroTotal(t *testing.T) {
	split := SplitSelfPay(nil)
	if split.SelfPayPercent != 0 || split.InsuredPercent != 0 {
		t.Fatalf("zero-total split = %+v, want 0/0", split)
	}
}

func TestAvgTicket(t *testing.T) {
	table := sampleTable(t)
	if got := AvgTicketCents(table.Rows); got != 25000 {
		t.Fatalf("avg = %d, want 25000", got)
	}
	if got := AvgTicketCents(nil); got != 0 {
		t.Fatalf("empty avg = %d, want 0", got)
	}
}

func TestAvgTicketByPhysicianDescending(t *testing.T) {
	table := sampleTable(t)
	got := AvgTicketByPhysician(table.Rows)
	want := []GroupCents{
		{Key: "Dr. C", Cents: 40000},
		{Key: "Dr. B", Cents: 25000},
		{Key: "Dr. A", Cents: 10000},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("avg by physician = %v", got)
	}
}

func TestVolumeAndUniquePatients(t *testing.T) {
	table := sampleTable(t)
	volume := VolumeByServiceType(table.Rows)
	if volume[0].Key != "Consulta" || volume[0].Count != 2 {
		t.Fatalf("volume = %v", volume)
	}
	if got := UniquePatients(table.Rows); got != 3 {
		t.Fatalf("unique patients = %d, want 3", got)
	}
}

func TestTopPatientsBoundAndStableTies(t *testing.T) {
	var raw [][]string
	// 12 distinct patients, one visit each; P05 gets a second visit.
	for _, id := range []string{"P01", "P02", "P03", "P04", "P05", "P06", "P07", "P08", "P09", "P10", "P11", "P12", "P05"} {
		raw = append(raw, []string{id, "Dr. A", "UNIMED", "Consulta", "100,00", "06/01/2025", "Centro"})
	}
	table := extendedTable(t, raw)

	top := TopPatients(table.Rows, 10)
	if len(top) != 10 {
		t.Fatalf("top-N returned %d rows", len(top))
	}
	if top[0].Key != "P05" || top[0].Count != 2 {
		t.Fatalf("top[0] = %v", top[0])
	}
	// Remaining all tie at 1 and must keep first-seen order.
	if top[1].Key != "P01" || top[2].Key != "P02" {
		t.Fatalf("tie order broken: %v", top[:3])
	}
	for i := 1; i < len(top); i++ {
		if top[i].Count > top[i-1].Count {
			t.Fatalf("counts not non-increasing: %v", top)
		}
	}
}

func TestMonthlySeriesChronological(t *testing.T) {
	table := extendedTable(t, [][]string{
		{"P1", "Dr. A", "UNIMED", "Consulta", "100,00", "05/03/2025", "Centro"},
		{"P2", "Dr. A", "UNIMED", "Consulta", "100,00", "05/01/2025", "Centro"},
		{"P3", "Dr. A", "UNIMED", "Consulta", "100,00", "05/12/2024", "Centro"},
		{"P4", "Dr. A", "UNIMED", "Consulta", "100,00", "06/01/2025", "Centro"},
	})
	series := MonthlySeries(table.Rows)
	want := []PeriodCents{
		{Period: "2024-12", Cents: 10000},
		{Period: "2025-01", Cents: 20000},
		{Period: "2025-03", Cents: 10000},
	}
	if !reflect.DeepEqual(series, want) {
		t.Fatalf("series = %v", series)
	}
}

func TestMonthlyDeltaClassification(t *testing.T) {
	cases := []struct {
		prior, latest int64
		want          Trend
	}{
		{100000, 120000, TrendGrowth}, // +20%
		{100000, 110000, TrendGrowth}, // exactly +10%
		{100000, 89000, TrendDecline}, // -11%
		{100000, 95000, TrendStable},  // -5%
		{0, 50000, TrendStable},       // zero prior defines change as zero
	}
	for _, tc := range cases {
		alert := MonthlyDelta([]PeriodCents{{Period: "2025-01", Cents: tc.prior}, {Period: "2025-02", Cents: tc.latest}})
		if !alert.Defined {
			t.Fatal("two points should define the delta")
		}
		if alert.Trend != tc.want {
			t.Fatalf("%d -> %d classified %v, want %v", tc.prior, tc.latest, alert.Trend, tc.want)
		}
	}

	if alert := MonthlyDelta([]PeriodCents{{Period: "2025-01", Cents: 1}}); alert.Defined {
		t.Fatal("single point must not define a delta")
	}
}

func TestTopPhysiciansTrend(t *testing.T) {
	var raw [][]string
	for _, rec := range [][2]string{
		{"Dr. A", "600,00"}, {"Dr. B", "500,00"}, {"Dr. C", "400,00"},
		{"Dr. D", "300,00"}, {"Dr. E", "200,00"}, {"Dr. F", "100,00"},
	} {
		raw = append(raw, []string{"P1", rec[0], "UNIMED", "Consulta", rec[1], "06/01/2025", "Centro"})
	}
	table := extendedTable(t, raw)

	trend := TopPhysiciansTrend(table.Rows, 5)
	if len(trend) != 5 {
		t.Fatalf("trend facets = %d, want 5", len(trend))
	}
	if trend[0].Facet != "Dr. A" || trend[4].Facet != "Dr. E" {
		t.Fatalf("ranking order wrong: %v", trend)
	}
	for _, fs := range trend {
		if fs.Facet == "Dr. F" {
			t.Fatal("sixth physician leaked into top-5 trend")
		}
	}
}

func TestPhysicianSummaries(t *testing.T) {
	table := sampleTable(t)
	sums := PhysicianSummaries(table.Rows)
	if sums[0].Physician != "Dr. B" || sums[0].Visits != 2 || sums[0].TotalCents != 50000 || sums[0].AvgCents != 25000 {
		t.Fatalf("summary[0] = %+v", sums[0])
	}
	for i := 1; i < len(sums); i++ {
		if sums[i].TotalCents > sums[i-1].TotalCents {
			t.Fatalf("summaries not descending: %v", sums)
		}
	}
}

func TestAverageVisitRates(t *testing.T) {
	table := sampleTable(t)
	if got := AvgVisitsPerPatient(table.Rows); math.Abs(got-4.0/3.0) > 1e-9 {
		t.Fatalf("visits per patient = %v", got)
	}
	if got := AvgVisitsPerPhysician(table.Rows); math.Abs(got-4.0/3.0) > 1e-9 {
		t.Fatalf("visits per physician = %v", got)
	}
	if AvgVisitsPerPatient(nil) != 0 || AvgVisitsPerPhysician(nil) != 0 {
		t.Fatal("empty rates should be zero")
	}
}

func TestWeekdayHeatmapZeroFill(t *testing.T) {
	table := extendedTable(t, [][]string{
		{"P1", "Dr. A", "UNIMED", "Consulta", "100,00", "06/01/2025", "Centro"}, // Monday
		{"P2", "Dr. A", "UNIMED", "Consulta", "100,00", "07/01/2025", "Centro"}, // Tuesday
		{"P3", "Dr. B", "UNIMED", "Consulta", "100,00", "06/01/2025", "Centro"}, // Monday
	})
	hm := WeekdayHeatmap(table.Rows)
	if !reflect.DeepEqual(hm.Physicians, []string{"Dr. A", "Dr. B"}) {
		t.Fatalf("physicians = %v", hm.Physicians)
	}
	if len(hm.Weekdays) != 7 {
		t.Fatalf("weekdays = %v", hm.Weekdays)
	}
	if hm.Counts[0][0] != 1 || hm.Counts[0][1] != 1 || hm.Counts[1][0] != 1 {
		t.Fatalf("counts = %v", hm.Counts)
	}
	// Every absent combination stays zero-filled.
	if hm.Counts[1][1] != 0 || hm.Counts[0][6] != 0 {
		t.Fatalf("zero-fill broken: %v", hm.Counts)
	}
}
