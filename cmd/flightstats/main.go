package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yegors/flightstats/internal/api"
	"github.com/yegors/flightstats/internal/chart"
	"github.com/yegors/flightstats/internal/config"
	"github.com/yegors/flightstats/internal/report"
	"github.com/yegors/flightstats/internal/storage/sqlite"
	"github.com/yegors/flightstats/internal/telemetry"
	"github.com/yegors/flightstats/pkg/logger"
)

var (
	// Version is injected at build time
	Version = "dev"
)

const usage = "Usage: flightstats <path_to_csv_file>"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("flightstats", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to configuration file (optional - will search in configs/ and root directory)")
	writePDF := fs.Bool("pdf", false, "Also write <stem>.pdf with the summary and chart")
	writeXLSX := fs.Bool("xlsx", false, "Also write <stem>.xlsx with telemetry and summary sheets")
	dbPath := fs.String("db", "", "Record the report in this SQLite history database")
	serve := fs.Bool("serve", false, "Serve the HTTP API instead of processing a single file")
	showVersion := fs.Bool("version", false, "Print the version and exit")
	positional, err := parseInterleaved(fs, args)
	if err != nil {
		fmt.Fprintln(stdout, usage)
		return 1
	}

	if *showVersion {
		fmt.Fprintf(stdout, "flightstats %s\n", Version)
		return 0
	}
	if !*serve && len(positional) == 0 {
		fmt.Fprintln(stdout, usage)
		return 1
	}

	// Load configuration with fallback logic
	cfg, err := config.LoadWithFallback(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading configuration: %v\n", err)
		return 1
	}

	// Command line flags override the file
	if *writePDF {
		cfg.Export.PDF = true
	}
	if *writeXLSX {
		cfg.Export.XLSX = true
	}
	if *dbPath != "" {
		cfg.Storage.Enabled = true
		cfg.Storage.SQLitePath = *dbPath
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Invalid configuration: %v\n", err)
		return 1
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error creating logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	log.Debug("Starting flightstats",
		logger.String("version", Version),
		logger.String("config_path", *configPath),
		logger.Bool("serve", *serve),
		logger.Any("export", cfg.Export))

	var storage *sqlite.ReportStorage
	if cfg.Storage.Enabled {
		storage, err = sqlite.NewReportStorage(cfg.Storage.SQLitePath, log)
		if err != nil {
			log.Error("Failed to create SQLite storage", logger.Error(err))
			fmt.Fprintf(stderr, "Error opening report history: %v\n", err)
			return 1
		}
		defer storage.Close()
		log.Info("Using SQLite storage", logger.String("path", cfg.Storage.SQLitePath))
	}

	renderer := chart.NewRenderer(cfg.Chart, log)
	var reports *report.Service
	var history api.ReportHistory
	if storage != nil {
		reports = report.NewService(renderer, cfg.Export, storage, log)
		history = storage
	} else {
		reports = report.NewService(renderer, cfg.Export, nil, log)
	}

	if *serve {
		return runServer(cfg, reports, history, log)
	}

	// Only the first path is processed
	inputPath := positional[0]
	if _, err := reports.Generate(inputPath, stdout); err != nil {
		return reportError(stdout, inputPath, err)
	}
	return 0
}

// parseInterleaved parses flags that may appear before or after positional
// arguments and returns the positional arguments in order. Everything after
// a "--" terminator is positional.
func parseInterleaved(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		consumed := len(args) - len(rest)
		if consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...), nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

// reportError prints the console error line for a failed pass
func reportError(stdout io.Writer, inputPath string, err error) int {
	var parseErr *telemetry.ParseError
	switch {
	case errors.Is(err, telemetry.ErrNotFound):
		fmt.Fprintf(stdout, "Error: File not found at '%s'\n", inputPath)
	case errors.As(err, &parseErr):
		fmt.Fprintf(stdout, "Error reading or parsing CSV file: %v\n", parseErr)
	default:
		fmt.Fprintf(stdout, "Error: %v\n", err)
	}
	return 1
}

func runServer(cfg *config.Config, reports *report.Service, history api.ReportHistory, log *logger.Logger) int {
	router := api.NewRouter(reports, history, cfg, log)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Routes(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSecs) * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server",
			logger.String("addr", server.Addr),
			logger.String("data_dir", cfg.Server.DataDir))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err, ok := <-serveErr:
		if ok {
			log.Error("HTTP server error on startup", logger.String("addr", server.Addr), logger.Error(err))
			return 1
		}
		return 0
	case <-sigCh:
	}

	log.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", logger.String("addr", server.Addr), logger.Error(err))
		return 1
	}

	log.Info("Server fully stopped")
	return 0
}
