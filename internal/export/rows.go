package export

import (
	"github.com/yegors/flightstats/internal/summary"
)

// SummaryRow is one metric line shared by the PDF and XLSX reports
type SummaryRow struct {
	Metric string
	Value  float64
	Unit   string
}

// Formatted renders the value with two decimals and its unit
func (r SummaryRow) Formatted() string {
	if r.Unit == "" {
		return summary.FormatValue(r.Value)
	}
	return summary.FormatValue(r.Value) + " " + r.Unit
}

// Rows lists the report metrics in display order
func Rows(s *summary.Summary) []SummaryRow {
	return []SummaryRow{
		{"Total flight time", s.FlightTime, "s"},
		{"Maximum speed", s.MaxSpeed, "m/s"},
		{"Maximum acceleration", s.MaxAcceleration, "m/s²"},
		{"Maximum acceleration (g)", s.MaxGForce, "g"},
		{"Fuel used", s.FuelUsed, "kg"},
		{"Touchdown speed", s.TouchdownSpeed, "m/s"},
		{"Minimum altitude", s.MinAltitude, "m"},
		{"Samples", float64(s.Rows), ""},
	}
}
