package export

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"
	"github.com/yegors/flightstats/internal/physics"
	"github.com/yegors/flightstats/internal/summary"
	"github.com/yegors/flightstats/internal/telemetry"
)

// Sheet names of the workbook
const (
	TelemetrySheet = "Telemetry"
	SummarySheet   = "Summary"
)

// Derived column headers appended to the telemetry sheet
const (
	ColTotalVelocity     = "total_velocity(m/s)"
	ColTotalAcceleration = "total_acceleration(m/s^2)"
)

// WriteXLSX writes the telemetry table with derived magnitudes and the
// summary metrics into a two-sheet workbook
func WriteXLSX(path string, flightLog *telemetry.FlightLog, s *summary.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", TelemetrySheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := writeTelemetry(f, flightLog); err != nil {
		return err
	}
	if err := writeSummary(f, s); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write xlsx %s: %w", path, err)
	}
	return nil
}

// TelemetryHeaders lists the telemetry sheet columns for a log, in order
func TelemetryHeaders(flightLog *telemetry.FlightLog) []string {
	headers := append([]string{}, telemetry.RequiredColumns...)
	for _, name := range telemetry.OptionalColumns {
		if flightLog.HasColumn(name) {
			headers = append(headers, name)
		}
	}
	return append(headers, ColTotalVelocity, ColTotalAcceleration)
}

func writeTelemetry(f *excelize.File, flightLog *telemetry.FlightLog) error {
	headers := TelemetryHeaders(flightLog)

	series := make([][]float64, 0, len(headers))
	for _, name := range headers[:len(headers)-2] {
		values, _ := flightLog.Column(name)
		series = append(series, values)
	}
	series = append(series,
		physics.Magnitudes(flightLog.VelocityX, flightLog.VelocityY, flightLog.VelocityZ),
		physics.Magnitudes(flightLog.AccelX, flightLog.AccelY, flightLog.AccelZ),
	)

	sw, err := f.NewStreamWriter(TelemetrySheet)
	if err != nil {
		return fmt.Errorf("failed to open telemetry sheet: %w", err)
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write telemetry header: %w", err)
	}

	row := make([]interface{}, len(series))
	for i := 0; i < flightLog.Len(); i++ {
		for col, values := range series {
			row[col] = cellValue(values[i])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write telemetry row %d: %w", i+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush telemetry sheet: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, s *summary.Summary) error {
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := f.SetSheetRow(SummarySheet, "A1", &[]interface{}{"Metric", "Value", "Unit"}); err != nil {
		return err
	}
	for i, r := range Rows(s) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &[]interface{}{r.Metric, cellValue(r.Value), r.Unit}); err != nil {
			return fmt.Errorf("failed to write summary row %q: %w", r.Metric, err)
		}
	}
	return nil
}

// cellValue leaves missing samples as empty cells
func cellValue(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}
