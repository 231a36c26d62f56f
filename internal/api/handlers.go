package api

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/yegors/flightstats/internal/config"
	"github.com/yegors/flightstats/internal/report"
	"github.com/yegors/flightstats/internal/storage/sqlite"
	"github.com/yegors/flightstats/internal/summary"
	"github.com/yegors/flightstats/internal/telemetry"
	"github.com/yegors/flightstats/pkg/logger"
)

// ReportHistory reads recorded reports
type ReportHistory interface {
	GetReports(limit, offset int) ([]*sqlite.ReportRecord, error)
	GetReport(id int64) (*sqlite.ReportRecord, error)
}

// Handler contains the API handlers
type Handler struct {
	reports *report.Service
	history ReportHistory
	config  *config.Config
	logger  *logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(reports *report.Service, history ReportHistory, cfg *config.Config, log *logger.Logger) *Handler {
	return &Handler{
		reports: reports,
		history: history,
		config:  cfg,
		logger:  log.Named("api-handler"),
	}
}

// SummaryResponse is the JSON form of a flight summary.
// Metrics that could not be computed are null.
type SummaryResponse struct {
	Flight          string   `json:"flight"`
	Rows            int      `json:"rows"`
	FlightTime      *float64 `json:"flight_time_s"`
	MaxSpeed        *float64 `json:"max_speed_ms"`
	MaxAcceleration *float64 `json:"max_acceleration_ms2"`
	MaxGForce       *float64 `json:"max_g"`
	FuelUsed        *float64 `json:"fuel_used_kg"`
	TouchdownSpeed  *float64 `json:"touchdown_speed_ms"`
	MinAltitude     *float64 `json:"min_altitude_m"`
}

// ReportResponse is the JSON form of a recorded report
type ReportResponse struct {
	ID              int64     `json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	SourcePath      string    `json:"source_path"`
	ImagePath       string    `json:"image_path"`
	Rows            int       `json:"rows"`
	FlightTime      *float64  `json:"flight_time_s"`
	MaxSpeed        *float64  `json:"max_speed_ms"`
	MaxAcceleration *float64  `json:"max_acceleration_ms2"`
	FuelUsed        *float64  `json:"fuel_used_kg"`
	TouchdownSpeed  *float64  `json:"touchdown_speed_ms"`
}

// GetHealth returns the health status of the API
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":          "ok",
		"data_dir":        h.config.Server.DataDir,
		"history_enabled": h.history != nil,
	}

	WriteJSON(w, http.StatusOK, response)
}

// ListFlights returns the flight logs available in the data directory
func (h *Handler) ListFlights(w http.ResponseWriter, r *http.Request) {
	flights, err := listFlights(h.config.Server.DataDir)
	if err != nil {
		h.logger.Error("Failed to list flights", logger.Error(err), logger.String("dir", h.config.Server.DataDir))
		http.Error(w, "Failed to list flights", http.StatusInternalServerError)
		return
	}

	response := map[string]any{
		"timestamp": time.Now(),
		"count":     len(flights),
		"flights":   flights,
	}

	WriteJSON(w, http.StatusOK, response)
}

// GetFlightSummary returns the summary metrics of one flight log
func (h *Handler) GetFlightSummary(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	path, ok := h.flightPath(w, name)
	if !ok {
		return
	}

	_, sum, err := h.reports.Analyze(path)
	if err != nil {
		h.writeLoadError(w, name, err)
		return
	}

	WriteJSON(w, http.StatusOK, newSummaryResponse(name, sum))
}

// GetFlightChart renders the chart of one flight log as PNG
func (h *Handler) GetFlightChart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	path, ok := h.flightPath(w, name)
	if !ok {
		return
	}

	flightLog, _, err := h.reports.Analyze(path)
	if err != nil {
		h.writeLoadError(w, name, err)
		return
	}

	data, err := h.reports.ChartPNG(flightLog)
	if err != nil {
		h.logger.Error("Failed to render chart", logger.Error(err), logger.String("flight", name))
		http.Error(w, "Failed to render chart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// GetReports returns recorded reports with pagination
func (h *Handler) GetReports(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		http.Error(w, "Report history is disabled", http.StatusNotFound)
		return
	}

	limit, offset := parsePaginationParams(r)

	records, err := h.history.GetReports(limit, offset)
	if err != nil {
		h.logger.Error("Failed to retrieve reports", logger.Error(err))
		http.Error(w, "Failed to retrieve reports", http.StatusInternalServerError)
		return
	}

	reports := make([]ReportResponse, 0, len(records))
	for _, rec := range records {
		reports = append(reports, newReportResponse(rec))
	}

	response := map[string]any{
		"timestamp": time.Now(),
		"count":     len(reports),
		"reports":   reports,
	}

	WriteJSON(w, http.StatusOK, response)
}

// GetReportByID returns one recorded report
func (h *Handler) GetReportByID(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		http.Error(w, "Report history is disabled", http.StatusNotFound)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "Invalid report ID", http.StatusBadRequest)
		return
	}

	rec, err := h.history.GetReport(id)
	if errors.Is(err, sqlite.ErrReportNotFound) {
		http.Error(w, "Report not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("Failed to retrieve report", logger.Error(err), logger.Int64("id", id))
		http.Error(w, "Failed to retrieve report", http.StatusInternalServerError)
		return
	}

	WriteJSON(w, http.StatusOK, newReportResponse(rec))
}

func (h *Handler) flightPath(w http.ResponseWriter, name string) (string, bool) {
	path, err := resolveFlight(h.config.Server.DataDir, name)
	if errors.Is(err, errInvalidFlightName) {
		h.logger.Warn("Rejected flight name", logger.String("name", name))
		http.Error(w, "Invalid flight name", http.StatusBadRequest)
		return "", false
	}
	if err != nil {
		h.logger.Error("Failed to resolve flight path", logger.Error(err), logger.String("name", name))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return "", false
	}
	return path, true
}

func (h *Handler) writeLoadError(w http.ResponseWriter, name string, err error) {
	var parseErr *telemetry.ParseError
	switch {
	case errors.Is(err, telemetry.ErrNotFound):
		http.Error(w, "Flight not found", http.StatusNotFound)
	case errors.As(err, &parseErr):
		h.logger.Debug("Flight log rejected", logger.String("flight", name), logger.Error(err))
		http.Error(w, "Error reading or parsing CSV file: "+parseErr.Error(), http.StatusUnprocessableEntity)
	default:
		h.logger.Error("Failed to load flight", logger.String("flight", name), logger.Error(err))
		http.Error(w, "Failed to load flight", http.StatusInternalServerError)
	}
}

func newSummaryResponse(name string, s *summary.Summary) SummaryResponse {
	return SummaryResponse{
		Flight:          name,
		Rows:            s.Rows,
		FlightTime:      finite(s.FlightTime),
		MaxSpeed:        finite(s.MaxSpeed),
		MaxAcceleration: finite(s.MaxAcceleration),
		MaxGForce:       finite(s.MaxGForce),
		FuelUsed:        finite(s.FuelUsed),
		TouchdownSpeed:  finite(s.TouchdownSpeed),
		MinAltitude:     finite(s.MinAltitude),
	}
}

func newReportResponse(rec *sqlite.ReportRecord) ReportResponse {
	return ReportResponse{
		ID:              rec.ID,
		CreatedAt:       rec.CreatedAt,
		SourcePath:      rec.SourcePath,
		ImagePath:       rec.ImagePath,
		Rows:            rec.Rows,
		FlightTime:      finite(rec.FlightTime),
		MaxSpeed:        finite(rec.MaxSpeed),
		MaxAcceleration: finite(rec.MaxAcceleration),
		FuelUsed:        finite(rec.FuelUsed),
		TouchdownSpeed:  finite(rec.TouchdownSpeed),
	}
}

// finite returns nil for NaN and infinities, which JSON cannot encode
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func parsePaginationParams(r *http.Request) (int, int) {
	limit := 100 // Default limit
	offset := 0  // Default offset

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	return limit, offset
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
