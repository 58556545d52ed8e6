// Response payload construction. Metrics carry both the raw value (in
// cents, for clients that compute) and the display form: money with a
// thousands separator and two decimals, percentages with one decimal.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"faturamento/internal/core"
)

type (
	errorPayload struct {
		Error string `json:"error"`
	}

	schemaPayload struct {
		Error          string   `json:"error"`
		MissingColumns []string `json:"missing_columns"`
	}

	loginPayload struct {
		Username    string `json:"username"`
		DisplayName string `json:"display_name"`
	}

	optionsPayload struct {
		Years           []int    `json:"years"`
		Months          []int    `json:"months"`
		Physicians      []string `json:"physicians"`
		Facilities      []string `json:"facilities"`
		ServiceTypes    []string `json:"service_types"`
		PayerCategories []string `json:"payer_categories"`
	}

	uploadPayload struct {
		SessionID   string         `json:"session_id"`
		SkippedRows int            `json:"skipped_rows"`
		Options     optionsPayload `json:"options"`
		Report      reportPayload  `json:"report"`
	}

	moneyPayload struct {
		Cents     int64  `json:"cents"`
		Formatted string `json:"formatted"`
	}

	groupMoneyPayload struct {
		Key   string       `json:"key"`
		Value moneyPayload `json:"value"`
	}

	groupCountPayload struct {
		Key   string `json:"key"`
		Count int    `json:"count"`
	}

	categorySharePayload struct {
		Category string         `json:"category"`
		Revenue  moneyPayload   `json:"revenue"`
		Percent  percentPayload `json:"percent"`
	}

	percentPayload struct {
		Value     float64 `json:"value"`
		Formatted string  `json:"formatted"`
	}

	selfPayPayload struct {
		SelfPay        moneyPayload   `json:"self_pay"`
		Insured        moneyPayload   `json:"insured"`
		SelfPayPercent percentPayload `json:"self_pay_percent"`
		InsuredPercent percentPayload `json:"insured_percent"`
	}

	periodPayload struct {
		Period  string       `json:"period"`
		Revenue moneyPayload `json:"revenue"`
	}

	facetSeriesPayload struct {
		Facet  string          `json:"facet"`
		Points []periodPayload `json:"points"`
	}

	deltaPayload struct {
		Defined       bool           `json:"defined"`
		PriorPeriod   string         `json:"prior_period,omitempty"`
		LatestPeriod  string         `json:"latest_period,omitempty"`
		ChangePercent percentPayload `json:"change_percent"`
		Trend         string         `json:"trend"`
	}

	physicianSummaryPayload struct {
		Physician string       `json:"physician"`
		Visits    int          `json:"visits"`
		AvgTicket moneyPayload `json:"avg_ticket"`
		Total     moneyPayload `json:"total"`
	}

	heatmapPayload struct {
		Physicians []string `json:"physicians"`
		Weekdays   []string `json:"weekdays"`
		Counts     [][]int  `json:"counts"`
	}

	reportPayload struct {
		RowCount    int `json:"row_count"`
		DroppedRows int `json:"dropped_rows"`

		TotalRevenue   moneyPayload `json:"total_revenue"`
		AvgTicket      moneyPayload `json:"avg_ticket"`
		UniquePatients int          `json:"unique_patients"`

		AvgTicketByPhysician []groupMoneyPayload `json:"avg_ticket_by_physician"`
		VolumeByServiceType  []groupCountPayload `json:"volume_by_service_type"`

		RevenueByPayerCategory []categorySharePayload `json:"revenue_by_payer_category"`
		SelfPaySplit           selfPayPayload         `json:"self_pay_split"`
		RevenueByPhysician     []groupMoneyPayload    `json:"revenue_by_physician"`
		RevenueByFacility      []groupMoneyPayload    `json:"revenue_by_facility"`
		TopPatients            []groupCountPayload    `json:"top_patients"`

		MonthlySeries         []periodPayload      `json:"monthly_series"`
		SeriesByPhysician     []facetSeriesPayload `json:"series_by_physician"`
		SeriesByPayerCategory []facetSeriesPayload `json:"series_by_payer_category"`
		SeriesByFacility      []facetSeriesPayload `json:"series_by_facility"`
		TopPhysiciansTrend    []facetSeriesPayload `json:"top_physicians_trend"`
		Delta                 deltaPayload         `json:"delta"`

		PhysicianSummaries    []physicianSummaryPayload `json:"physician_summaries"`
		AvgVisitsPerPatient   float64                   `json:"avg_visits_per_patient"`
		AvgVisitsPerPhysician float64                   `json:"avg_visits_per_physician"`
		Heatmap               heatmapPayload            `json:"heatmap"`
	}
)

func buildMoney(m core.Money) moneyPayload {
	return moneyPayload{Cents: m.Cents, Formatted: m.Format()}
}

func buildPercent(p float64) percentPayload {
	return percentPayload{Value: p, Formatted: core.FormatPercent(p)}
}

func buildGroupMoney(groups []core.GroupCents) []groupMoneyPayload {
	out := make([]groupMoneyPayload, len(groups))
	for i, g := range groups {
		out[i] = groupMoneyPayload{Key: g.Key, Value: buildMoney(core.Money{Cents: g.Cents})}
	}
	return out
}

func buildGroupCounts(groups []core.GroupCount) []groupCountPayload {
	out := make([]groupCountPayload, len(groups))
	for i, g := range groups {
		out[i] = groupCountPayload{Key: g.Key, Count: g.Count}
	}
	return out
}

func buildSeries(points []core.PeriodCents) []periodPayload {
	out := make([]periodPayload, len(points))
	for i, p := range points {
		out[i] = periodPayload{Period: p.Period, Revenue: buildMoney(core.Money{Cents: p.Cents})}
	}
	return out
}

func buildFacetSeries(series []core.FacetSeries) []facetSeriesPayload {
	out := make([]facetSeriesPayload, len(series))
	for i, fs := range series {
		out[i] = facetSeriesPayload{Facet: fs.Facet, Points: buildSeries(fs.Points)}
	}
	return out
}

func buildOptionsPayload(o core.Options) optionsPayload {
	return optionsPayload{
		Years:           o.Years,
		Months:          o.Months,
		Physicians:      o.Physicians,
		Facilities:      o.Facilities,
		ServiceTypes:    o.ServiceTypes,
		PayerCategories: o.PayerCategories,
	}
}

func buildReportPayload(rep core.Report) reportPayload {
	shares := make([]categorySharePayload, len(rep.RevenueByPayerCategory))
	for i, cs := range rep.RevenueByPayerCategory {
		shares[i] = categorySharePayload{
			Category: cs.Category,
			Revenue:  buildMoney(core.Money{Cents: cs.Cents}),
			Percent:  buildPercent(cs.Percent),
		}
	}

	summaries := make([]physicianSummaryPayload, len(rep.PhysicianSummaries))
	for i, ps := range rep.PhysicianSummaries {
		summaries[i] = physicianSummaryPayload{
			Physician: ps.Physician,
			Visits:    ps.Visits,
			AvgTicket: buildMoney(core.Money{Cents: ps.AvgCents}),
			Total:     buildMoney(core.Money{Cents: ps.TotalCents}),
		}
	}

	delta := deltaPayload{
		Defined:       rep.Delta.Defined,
		ChangePercent: buildPercent(rep.Delta.ChangePercent),
		Trend:         rep.Delta.Trend.String(),
	}
	if rep.Delta.Defined {
		delta.PriorPeriod = rep.Delta.Prior.Period
		delta.LatestPeriod = rep.Delta.Latest.Period
	}

	return reportPayload{
		RowCount:    rep.RowCount,
		DroppedRows: rep.DroppedRows,

		TotalRevenue:   buildMoney(rep.TotalRevenue),
		AvgTicket:      buildMoney(rep.AvgTicket),
		UniquePatients: rep.UniquePatients,

		AvgTicketByPhysician: buildGroupMoney(rep.AvgTicketByPhysician),
		VolumeByServiceType:  buildGroupCounts(rep.VolumeByServiceType),

		RevenueByPayerCategory: shares,
		SelfPaySplit: selfPayPayload{
			SelfPay:        buildMoney(core.Money{Cents: rep.SelfPay.SelfPayCents}),
			Insured:        buildMoney(core.Money{Cents: rep.SelfPay.InsuredCents}),
			SelfPayPercent: buildPercent(rep.SelfPay.SelfPayPercent),
			InsuredPercent: buildPercent(rep.SelfPay.InsuredPercent),
		},
		RevenueByPhysician: buildGroupMoney(rep.RevenueByPhysician),
		RevenueByFacility:  buildGroupMoney(rep.RevenueByFacility),
		TopPatients:        buildGroupCounts(rep.TopPatients),

		MonthlySeries:         buildSeries(rep.MonthlySeries),
		SeriesByPhysician:     buildFacetSeries(rep.SeriesByPhysician),
		SeriesByPayerCategory: buildFacetSeries(rep.SeriesByPayerCategory),
		SeriesByFacility:      buildFacetSeries(rep.SeriesByFacility),
		TopPhysiciansTrend:    buildFacetSeries(rep.TopPhysiciansTrend),
		Delta:                 delta,

		PhysicianSummaries:    summaries,
		AvgVisitsPerPatient:   rep.AvgVisitsPerPatient,
		AvgVisitsPerPhysician: rep.AvgVisitsPerPhysician,
		Heatmap: heatmapPayload{
			Physicians: rep.Heatmap.Physicians,
			Weekdays:   rep.Heatmap.Weekdays,
			Counts:     rep.Heatmap.Counts,
		},
	}
}

func schemaErrorPayload(err *core.SchemaError) schemaPayload {
	missing := make([]string, len(err.Missing))
	for i, f := range err.Missing {
		missing[i] = string(f)
	}
	return schemaPayload{Error: err.Error(), MissingColumns: missing}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encoding failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorPayload{Error: msg})
}
