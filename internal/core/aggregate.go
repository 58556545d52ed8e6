package core

import "sort"

// The aggregation catalog. Every function takes the filtered row set
// and returns typed result rows. Descending sorts are stable: groups
// tied on the metric keep the order in which they first appear in the
// source, so repeated runs over the same upload produce identical
// output.

type (
	// GroupCents is a grouped monetary metric (sum or mean).
	GroupCents struct {
		Key   string
		Cents int64
	}

	// GroupCount is a grouped row count.
	GroupCount struct {
		Key   string
		Count int
	}

	// CategoryShare is a payer category's revenue and its share of the
	// filtered total.
	CategoryShare struct {
		Category string
		Cents    int64
		Percent  float64
	}

	// SelfPaySplit divides revenue between self-pay ("particular") and
	// everything else. For a non-zero total the two percentages sum to
	// exactly 100; a zero total yields 0 and 0.
	SelfPaySplit struct {
		SelfPayCents   int64
		InsuredCents   int64
		SelfPayPercent float64
		InsuredPercent float64
	}

	// PeriodCents is one point of a monthly revenue series.
	PeriodCents struct {
		Period string
		Cents  int64
	}

	// FacetSeries is a monthly series restricted to one facet value
	// (physician, payer category or facility).
	FacetSeries struct {
		Facet  string
		Points []PeriodCents
	}

	// Trend classifies the latest month-over-month revenue change.
	Trend int

	// DeltaAlert compares the last two points of the monthly series.
	// Defined is false when fewer than two months of data exist.
	DeltaAlert struct {
		Defined       bool
		Prior         PeriodCents
		Latest        PeriodCents
		ChangePercent float64
		Trend         Trend
	}

	// PhysicianSummary is the executive per-physician line: visits,
	// mean ticket and total revenue.
	PhysicianSummary struct {
		Physician  string
		Visits     int
		AvgCents   int64
		TotalCents int64
	}

	// Heatmap is the visit count matrix physician x weekday, zero
	// filled for absent combinations. Counts[i][j] belongs to
	// Physicians[i] on Weekdays[j].
	Heatmap struct {
		Physicians []string
		Weekdays   []string
		Counts     [][]int
	}
)

const (
	TrendStable Trend = iota
	TrendGrowth
	TrendDecline
)

func (tr Trend) String() string {
	switch tr {
	case TrendGrowth:
		return "growth"
	case TrendDecline:
		return "decline"
	default:
		return "stable"
	}
}

// growthThreshold is the symmetric month-over-month change (in
// percent) separating stable from growth or decline.
const growthThreshold = 10.0

// weekdayOrder fixes the heatmap column order.
var weekdayOrder = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// TotalCents sums the monetary field over the row set.
func TotalCents(rows []Row) int64 {
	var sum int64
	for _, r := range rows {
		sum += r.Amount.Cents
	}
	return sum
}

// AvgTicketCents is the mean amount per visit, half-up rounded to
// whole cents. An empty row set yields zero (display convention).
func AvgTicketCents(rows []Row) int64 {
	if len(rows) == 0 {
		return 0
	}
	n := int64(len(rows))
	return (TotalCents(rows) + n/2) / n
}

// AvgTicketByPhysician is the mean amount grouped by physician,
// descending by the mean.
func AvgTicketByPhysician(rows []Row) []GroupCents {
	sums := sumBy(rows, func(r Row) string { return r.Physician })
	counts := countBy(rows, func(r Row) string { return r.Physician })
	out := make([]GroupCents, len(sums))
	for i, g := range sums {
		n := int64(counts[i].Count)
		out[i] = GroupCents{Key: g.Key, Cents: (g.Cents + n/2) / n}
	}
	sortCentsDesc(out)
	return out
}

// VolumeByServiceType counts visits per service type, descending.
func VolumeByServiceType(rows []Row) []GroupCount {
	out := countBy(rows, func(r Row) string { return r.ServiceType })
	sortCountDesc(out)
	return out
}

// UniquePatients counts distinct patient identifiers.
func UniquePatients(rows []Row) int {
	seen := make(map[string]bool)
	for _, r := range rows {
		seen[r.PatientID] = true
	}
	return len(seen)
}

// RevenueByPayerCategory sums revenue per payer category, descending,
// with each group's percentage of the filtered total. A zero total
// defines every percentage as zero rather than dividing.
func RevenueByPayerCategory(rows []Row) []CategoryShare {
	total := TotalCents(rows)
	groups := sumBy(rows, func(r Row) string { return r.PayerCategory })
	sortCentsDesc(groups)
	out := make([]CategoryShare, len(groups))
	for i, g := range groups {
		share := CategoryShare{Category: g.Key, Cents: g.Cents}
		if total > 0 {
			share.Percent = 100 * float64(g.Cents) / float64(total)
		}
		out[i] = share
	}
	return out
}

// SplitSelfPay divides revenue between the self-pay category and all
// insurance plans. The insured percentage is computed as the
// complement so the two always sum to exactly 100 for a non-zero
// total.
func SplitSelfPay(rows []Row) SelfPaySplit {
	var split SelfPaySplit
	total := TotalCents(rows)
	for _, r := range rows {
		if SameCategory(r.PayerCategory, "particular") {
			split.SelfPayCents += r.Amount.Cents
		}
	}
	split.InsuredCents = total - split.SelfPayCents
	if total > 0 {
		split.SelfPayPercent = 100 * float64(split.SelfPayCents) / float64(total)
		split.InsuredPercent = 100 - split.SelfPayPercent
	}
	return split
}

// RevenueByPhysician sums revenue per physician, descending.
func RevenueByPhysician(rows []Row) []GroupCents {
	out := sumBy(rows, func(r Row) string { return r.Physician })
	sortCentsDesc(out)
	return out
}

// RevenueByFacility sums revenue per facility, descending.
func RevenueByFacility(rows []Row) []GroupCents {
	out := sumBy(rows, func(r Row) string { return r.Facility })
	sortCentsDesc(out)
	return out
}

// TopPatients returns the n most frequent patients by visit count,
// descending, ties kept in first-seen order.
func TopPatients(rows []Row, n int) []GroupCount {
	out := countBy(rows, func(r Row) string { return r.PatientID })
	sortCountDesc(out)
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// MonthlySeries sums revenue per period key in chronological order.
// Rows without a derivable period are left out of the series.
func MonthlySeries(rows []Row) []PeriodCents {
	groups := sumBy(rows, func(r Row) string { return r.PeriodKey })
	var out []PeriodCents
	for _, g := range groups {
		if g.Key == "" {
			continue
		}
		out = append(out, PeriodCents{Period: g.Key, Cents: g.Cents})
	}
	// Period keys are zero-padded year-month, so lexicographic order
	// is chronological order.
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

// MonthlySeriesBy facets the monthly series by the given key. Facets
// appear in first-seen source order; each series is chronological.
func MonthlySeriesBy(rows []Row, facet func(Row) string) []FacetSeries {
	index := make(map[string]int)
	var out []FacetSeries
	byFacet := make(map[string][]Row)
	for _, r := range rows {
		k := facet(r)
		if _, ok := index[k]; !ok {
			index[k] = len(out)
			out = append(out, FacetSeries{Facet: k})
		}
		byFacet[k] = append(byFacet[k], r)
	}
	for i := range out {
		out[i].Points = MonthlySeries(byFacet[out[i].Facet])
	}
	return out
}

// TopPhysiciansTrend picks the k physicians with the highest total
// filtered revenue and returns their monthly series, ordered by rank.
func TopPhysiciansTrend(rows []Row, k int) []FacetSeries {
	ranking := RevenueByPhysician(rows)
	if len(ranking) > k {
		ranking = ranking[:k]
	}
	top := make(map[string]bool, len(ranking))
	for _, g := range ranking {
		top[g.Key] = true
	}
	var kept []Row
	for _, r := range rows {
		if top[r.Physician] {
			kept = append(kept, r)
		}
	}
	byPhysician := make(map[string][]Row)
	for _, r := range kept {
		byPhysician[r.Physician] = append(byPhysician[r.Physician], r)
	}
	out := make([]FacetSeries, 0, len(ranking))
	for _, g := range ranking {
		out = append(out, FacetSeries{Facet: g.Key, Points: MonthlySeries(byPhysician[g.Key])})
	}
	return out
}

// MonthlyDelta compares the last two points of the chronological
// series. A change of at least +10% classifies as growth, at most
// -10% as decline, anything between as stable. A zero prior month
// defines the change as zero (stable).
func MonthlyDelta(series []PeriodCents) DeltaAlert {
	if len(series) < 2 {
		return DeltaAlert{}
	}
	prior := series[len(series)-2]
	latest := series[len(series)-1]
	alert := DeltaAlert{Defined: true, Prior: prior, Latest: latest}
	if prior.Cents != 0 {
		alert.ChangePercent = 100 * float64(latest.Cents-prior.Cents) / float64(prior.Cents)
	}
	switch {
	case alert.ChangePercent >= growthThreshold:
		alert.Trend = TrendGrowth
	case alert.ChangePercent <= -growthThreshold:
		alert.Trend = TrendDecline
	default:
		alert.Trend = TrendStable
	}
	return alert
}

// PhysicianSummaries builds the executive table: visits, mean ticket
// and total revenue per physician, descending by total.
func PhysicianSummaries(rows []Row) []PhysicianSummary {
	sums := sumBy(rows, func(r Row) string { return r.Physician })
	counts := countBy(rows, func(r Row) string { return r.Physician })
	out := make([]PhysicianSummary, len(sums))
	for i, g := range sums {
		n := int64(counts[i].Count)
		out[i] = PhysicianSummary{
			Physician:  g.Key,
			Visits:     counts[i].Count,
			AvgCents:   (g.Cents + n/2) / n,
			TotalCents: g.Cents,
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalCents > out[j].TotalCents })
	return out
}

// AvgVisitsPerPatient is the mean number of visits per distinct
// patient; zero when the row set is empty.
func AvgVisitsPerPatient(rows []Row) float64 {
	patients := UniquePatients(rows)
	if patients == 0 {
		return 0
	}
	return float64(len(rows)) / float64(patients)
}

// AvgVisitsPerPhysician is the mean number of visits per distinct
// physician; zero when the row set is empty.
func AvgVisitsPerPhysician(rows []Row) float64 {
	physicians := countBy(rows, func(r Row) string { return r.Physician })
	if len(physicians) == 0 {
		return 0
	}
	return float64(len(rows)) / float64(len(physicians))
}

// WeekdayHeatmap counts visits per (physician, weekday) pair. Rows
// without a derived weekday are skipped; physicians appear in
// first-seen order, weekdays in fixed Monday..Sunday order, and absent
// combinations stay zero.
func WeekdayHeatmap(rows []Row) Heatmap {
	dayIndex := make(map[string]int, len(weekdayOrder))
	for i, d := range weekdayOrder {
		dayIndex[d] = i
	}
	physIndex := make(map[string]int)
	hm := Heatmap{Weekdays: weekdayOrder}
	for _, r := range rows {
		j, ok := dayIndex[r.Weekday]
		if !ok {
			continue
		}
		i, ok := physIndex[r.Physician]
		if !ok {
			i = len(hm.Physicians)
			physIndex[r.Physician] = i
			hm.Physicians = append(hm.Physicians, r.Physician)
			hm.Counts = append(hm.Counts, make([]int, len(weekdayOrder)))
		}
		hm.Counts[i][j]++
	}
	return hm
}

// sumBy groups rows by key in first-seen order and sums cents.
func sumBy(rows []Row, key func(Row) string) []GroupCents {
	index := make(map[string]int)
	var out []GroupCents
	for _, r := range rows {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, GroupCents{Key: k})
		}
		out[i].Cents += r.Amount.Cents
	}
	return out
}

// countBy groups rows by key in first-seen order and counts them.
func countBy(rows []Row, key func(Row) string) []GroupCount {
	index := make(map[string]int)
	var out []GroupCount
	for _, r := range rows {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, GroupCount{Key: k})
		}
		out[i].Count++
	}
	return out
}

func sortCentsDesc(g []GroupCents) {
	sort.SliceStable(g, func(i, j int) bool { return g[i].Cents > g[j].Cents })
}

func sortCountDesc(g []GroupCount) {
	sort.SliceStable(g, func(i, j int) bool { return g[i].Count > g[j].Count })
}
