package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/yegors/flightstats/internal/config"
	"github.com/yegors/flightstats/internal/report"
	"github.com/yegors/flightstats/pkg/logger"
)

// Router wires the HTTP routes of serve mode
type Router struct {
	handler *Handler
	logger  *logger.Logger
}

// NewRouter creates a new API router. history may be nil when report
// storage is disabled.
func NewRouter(reports *report.Service, history ReportHistory, cfg *config.Config, log *logger.Logger) *Router {
	return &Router{
		handler: NewHandler(reports, history, cfg, log),
		logger:  log.Named("api-router"),
	}
}

// Routes returns the root handler
func (rt *Router) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(rt.requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", rt.handler.GetHealth)

		r.Route("/flights", func(r chi.Router) {
			r.Get("/", rt.handler.ListFlights)
			r.Get("/{name}/summary", rt.handler.GetFlightSummary)
			r.Get("/{name}/chart.png", rt.handler.GetFlightChart)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/", rt.handler.GetReports)
			r.Get("/{id}", rt.handler.GetReportByID)
		})
	})

	return r
}

func (rt *Router) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		rt.logger.Debug("HTTP request",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Int("status", ww.Status()),
			logger.Int("bytes", ww.BytesWritten()),
			logger.Duration("duration", time.Since(start)),
			logger.String("request_id", middleware.GetReqID(r.Context())))
	})
}
