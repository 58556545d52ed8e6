package core

const (
	// TopPatientsLimit bounds the most-frequent-patients table.
	TopPatientsLimit = 10
	// TrendPhysicians is how many top earners the trend chart follows.
	TrendPhysicians = 5
)

// Report is the full indicator set computed over one filtered view of
// the working table. It is a plain value: the presentation layer
// formats it, the pipeline never renders anything itself.
type Report struct {
	RowCount    int
	DroppedRows int

	TotalRevenue   Money
	AvgTicket      Money
	UniquePatients int

	AvgTicketByPhysician []GroupCents
	VolumeByServiceType  []GroupCount

	RevenueByPayerCategory []CategoryShare
	SelfPay                SelfPaySplit
	RevenueByPhysician     []GroupCents
	RevenueByFacility      []GroupCents
	TopPatients            []GroupCount

	MonthlySeries         []PeriodCents
	SeriesByPhysician     []FacetSeries
	SeriesByPayerCategory []FacetSeries
	SeriesByFacility      []FacetSeries
	TopPhysiciansTrend    []FacetSeries
	Delta                 DeltaAlert

	PhysicianSummaries    []PhysicianSummary
	AvgVisitsPerPatient   float64
	AvgVisitsPerPhysician float64
	Heatmap               Heatmap
}

// Report filters the working table and runs the whole aggregation
// catalog over the result. Aggregates degrade gracefully on an empty
// view: sums and means report zero, percentages zero, top-N lists come
// back empty. Two calls with the same table and filter produce
// identical reports.
func (t *Table) Report(f Filter) Report {
	rows := t.Apply(f)
	series := MonthlySeries(rows)
	return Report{
		RowCount:    len(rows),
		DroppedRows: t.Dropped,

		TotalRevenue:   Money{Cents: TotalCents(rows)},
		AvgTicket:      Money{Cents: AvgTicketCents(rows)},
		UniquePatients: UniquePatients(rows),

		AvgTicketByPhysician: AvgTicketByPhysician(rows),
		VolumeByServiceType:  VolumeByServiceType(rows),

		RevenueByPayerCategory: RevenueByPayerCategory(rows),
		SelfPay:                SplitSelfPay(rows),
		RevenueByPhysician:     RevenueByPhysician(rows),
		RevenueByFacility:      RevenueByFacility(rows),
		TopPatients:            TopPatients(rows, TopPatientsLimit),

		MonthlySeries:         series,
		SeriesByPhysician:     MonthlySeriesBy(rows, func(r Row) string { return r.Physician }),
		SeriesByPayerCategory: MonthlySeriesBy(rows, func(r Row) string { return r.PayerCategory }),
		SeriesByFacility:      MonthlySeriesBy(rows, func(r Row) string { return r.Facility }),
		TopPhysiciansTrend:    TopPhysiciansTrend(rows, TrendPhysicians),
		Delta:                 MonthlyDelta(series),

		PhysicianSummaries:    PhysicianSummaries(rows),
		AvgVisitsPerPatient:   AvgVisitsPerPatient(rows),
		AvgVisitsPerPhysician: AvgVisitsPerPhysician(rows),
		Heatmap:               WeekdayHeatmap(rows),
	}
}
