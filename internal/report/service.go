package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/yegors/flightstats/internal/chart"
	"github.com/yegors/flightstats/internal/config"
	"github.com/yegors/flightstats/internal/export"
	"github.com/yegors/flightstats/internal/storage/sqlite"
	"github.com/yegors/flightstats/internal/summary"
	"github.com/yegors/flightstats/internal/telemetry"
	"github.com/yegors/flightstats/pkg/logger"
)

// Store records generated reports
type Store interface {
	StoreReport(record *sqlite.ReportRecord) (int64, error)
}

// Result describes the files produced by one pass
type Result struct {
	Summary   *summary.Summary
	ImagePath string
	PDFPath   string // empty unless the PDF export ran
	XLSXPath  string // empty unless the XLSX export ran
	ReportID  int64  // zero unless the pass was recorded
}

// Service runs the load, render and summarize pass over flight logs
type Service struct {
	renderer *chart.Renderer
	exports  config.ExportConfig
	store    Store
	logger   *logger.Logger
}

// NewService creates a new report service. store may be nil to disable history.
func NewService(renderer *chart.Renderer, exports config.ExportConfig, store Store, log *logger.Logger) *Service {
	return &Service{
		renderer: renderer,
		exports:  exports,
		store:    store,
		logger:   log.Named("report"),
	}
}

// Generate loads the flight log at inputPath, writes the chart image next
// to it and prints the console report to stdout:
//
//	Plot saved to <image path>
//
//	Flight Summary:
//	  Total flight time: ...
//
// Loader errors are returned untouched so callers can match
// telemetry.NotFoundError and telemetry.ParseError.
func (s *Service) Generate(inputPath string, stdout io.Writer) (*Result, error) {
	flightLog, err := telemetry.Load(inputPath)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Flight log loaded",
		logger.String("path", inputPath),
		logger.Int("rows", flightLog.Len()))

	imagePath, err := s.renderer.RenderFile(flightLog, inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	if _, err := fmt.Fprintf(stdout, "Plot saved to %s\n", imagePath); err != nil {
		return nil, err
	}

	result := &Result{
		Summary:   summary.Compute(flightLog),
		ImagePath: imagePath,
	}
	s.logger.Debug("Flight summary computed",
		logger.Float("flight_time_s", result.Summary.FlightTime),
		logger.Float("max_speed_ms", result.Summary.MaxSpeed),
		logger.Float("fuel_used_kg", result.Summary.FuelUsed))

	if err := result.Summary.Print(stdout); err != nil {
		return nil, err
	}

	if err := s.writeExports(flightLog, result); err != nil {
		return result, err
	}
	s.record(inputPath, result)

	return result, nil
}

// Analyze loads a flight log and computes its summary without writing files
func (s *Service) Analyze(inputPath string) (*telemetry.FlightLog, *summary.Summary, error) {
	flightLog, err := telemetry.Load(inputPath)
	if err != nil {
		return nil, nil, err
	}
	return flightLog, summary.Compute(flightLog), nil
}

// ChartPNG renders the figure of a loaded log into memory
func (s *Service) ChartPNG(flightLog *telemetry.FlightLog) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.renderer.Render(flightLog, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Service) writeExports(flightLog *telemetry.FlightLog, result *Result) error {
	if s.exports.PDF {
		chartPNG, err := os.ReadFile(result.ImagePath)
		if err != nil {
			return fmt.Errorf("failed to read chart for pdf: %w", err)
		}
		path := chart.OutputPath(flightLog.Source, ".pdf")
		if err := export.WritePDF(path, flightLog.Source, result.Summary, chartPNG); err != nil {
			return err
		}
		result.PDFPath = path
		s.logger.Info("PDF report written", logger.String("path", path))
	}

	if s.exports.XLSX {
		path := chart.OutputPath(flightLog.Source, ".xlsx")
		if err := export.WriteXLSX(path, flightLog, result.Summary); err != nil {
			return err
		}
		result.XLSXPath = path
		s.logger.Info("XLSX workbook written", logger.String("path", path))
	}

	return nil
}

// record stores the pass in the history database. Failures are logged only;
// the report files are already on disk.
func (s *Service) record(inputPath string, result *Result) {
	if s.store == nil {
		return
	}

	sum := result.Summary
	id, err := s.store.StoreReport(&sqlite.ReportRecord{
		CreatedAt:       time.Now().UTC(),
		SourcePath:      inputPath,
		ImagePath:       result.ImagePath,
		Rows:            sum.Rows,
		FlightTime:      sum.FlightTime,
		MaxSpeed:        sum.MaxSpeed,
		MaxAcceleration: sum.MaxAcceleration,
		FuelUsed:        sum.FuelUsed,
		TouchdownSpeed:  sum.TouchdownSpeed,
	})
	if err != nil {
		s.logger.Warn("Failed to record report", logger.String("path", inputPath), logger.Error(err))
		return
	}
	result.ReportID = id
	s.logger.Debug("Report recorded", logger.Int64("id", id))
}
