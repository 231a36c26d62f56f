package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yegors/flightstats/pkg/logger"
	_ "modernc.org/sqlite"
)

// ErrReportNotFound is returned when no report has the requested ID
var ErrReportNotFound = errors.New("report not found")

// ReportRecord represents one generated flight report in the database
type ReportRecord struct {
	ID              int64     `json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	SourcePath      string    `json:"source_path"`
	ImagePath       string    `json:"image_path"`
	Rows            int       `json:"rows"`
	FlightTime      float64   `json:"flight_time_s"`
	MaxSpeed        float64   `json:"max_speed_ms"`
	MaxAcceleration float64   `json:"max_acceleration_ms2"`
	FuelUsed        float64   `json:"fuel_used_kg"`
	TouchdownSpeed  float64   `json:"touchdown_speed_ms"`
}

// ReportStorage is a SQLite-based history of generated reports
type ReportStorage struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewReportStorage opens (or creates) the report history database
func NewReportStorage(dbPath string, log *logger.Logger) (*ReportStorage, error) {
	storageLogger := log.Named("sqlite")

	storageLogger.Info("Initializing SQLite storage",
		logger.String("path", dbPath))

	// Ensure the directory exists
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Open the database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set connection pool limits
	db.SetMaxOpenConns(1) // SQLite only supports one writer at a time
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set journal mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	storage := &ReportStorage{
		db:     db,
		logger: storageLogger,
	}
	if err := storage.initDB(); err != nil {
		db.Close()
		return nil, err
	}

	return storage, nil
}

// Close closes the database connection
func (s *ReportStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// initDB initializes the database tables
func (s *ReportStorage) initDB() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS flight_reports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at TEXT NOT NULL,
			source_path TEXT NOT NULL,
			image_path TEXT NOT NULL,
			row_count INTEGER NOT NULL,
			flight_time REAL,
			max_speed REAL,
			max_acceleration REAL,
			fuel_used REAL,
			touchdown_speed REAL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create flight_reports table: %w", err)
	}

	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_reports_source ON flight_reports(source_path)`)
	if err != nil {
		return fmt.Errorf("failed to create source_path index: %w", err)
	}

	return nil
}

// StoreReport stores a report record and returns its ID
func (s *ReportStorage) StoreReport(record *ReportRecord) (int64, error) {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	result, err := s.db.Exec(
		`INSERT INTO flight_reports
		(created_at, source_path, image_path, row_count, flight_time, max_speed, max_acceleration, fuel_used, touchdown_speed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.CreatedAt.Format(time.RFC3339Nano),
		record.SourcePath,
		record.ImagePath,
		record.Rows,
		nullableFloat(record.FlightTime),
		nullableFloat(record.MaxSpeed),
		nullableFloat(record.MaxAcceleration),
		nullableFloat(record.FuelUsed),
		nullableFloat(record.TouchdownSpeed),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert report: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	record.ID = id

	s.logger.Debug("Stored report",
		logger.Int64("id", id),
		logger.String("source", record.SourcePath),
		logger.Time("created_at", record.CreatedAt))

	return id, nil
}

// GetReports returns reports newest first with pagination
func (s *ReportStorage) GetReports(limit, offset int) ([]*ReportRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, created_at, source_path, image_path, row_count, flight_time, max_speed, max_acceleration, fuel_used, touchdown_speed
		FROM flight_reports
		ORDER BY id DESC
		LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	records := make([]*ReportRecord, 0)
	for rows.Next() {
		record, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}

	return records, nil
}

// GetReport returns a single report by ID
func (s *ReportStorage) GetReport(id int64) (*ReportRecord, error) {
	row := s.db.QueryRow(
		`SELECT id, created_at, source_path, image_path, row_count, flight_time, max_speed, max_acceleration, fuel_used, touchdown_speed
		FROM flight_reports
		WHERE id = ?`,
		id,
	)
	record, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReportNotFound
	}
	return record, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanReport(row scanner) (*ReportRecord, error) {
	var record ReportRecord
	var createdAt string
	var flightTime, maxSpeed, maxAccel, fuelUsed, touchdown sql.NullFloat64

	if err := row.Scan(
		&record.ID,
		&createdAt,
		&record.SourcePath,
		&record.ImagePath,
		&record.Rows,
		&flightTime,
		&maxSpeed,
		&maxAccel,
		&fuelUsed,
		&touchdown,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan report: %w", err)
	}

	var err error
	record.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	record.FlightTime = floatOrNaN(flightTime)
	record.MaxSpeed = floatOrNaN(maxSpeed)
	record.MaxAcceleration = floatOrNaN(maxAccel)
	record.FuelUsed = floatOrNaN(fuelUsed)
	record.TouchdownSpeed = floatOrNaN(touchdown)

	return &record, nil
}
