package telemetry

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
)

const utf8BOM = "\ufeff"

// Load reads a flight log CSV from disk.
// A missing path yields *NotFoundError, anything else that prevents a
// complete FlightLog yields *ParseError.
func Load(path string) (*FlightLog, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, &ParseError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("%s is a directory", path)}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer file.Close()

	flightLog, err := Parse(file)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	flightLog.Source = path

	return flightLog, nil
}

// Parse decodes a flight log from CSV with a header row.
// Columns are matched by header name; unknown columns are ignored.
func Parse(r io.Reader) (*FlightLog, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.New("no columns to parse from file")
		}
		return nil, err
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		if canonical, ok := columnAliases[name]; ok {
			name = canonical
		}
		// First occurrence wins for duplicated headers
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}

	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	flightLog := &FlightLog{}
	wanted := make([]string, 0, len(RequiredColumns)+len(OptionalColumns))
	wanted = append(wanted, RequiredColumns...)
	for _, name := range OptionalColumns {
		if _, ok := index[name]; ok {
			wanted = append(wanted, name)
		}
	}
	for _, name := range wanted {
		*flightLog.column(name) = make([]float64, 0, 256)
	}

	reader.ReuseRecord = true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := reader.FieldPos(0)

		for _, name := range wanted {
			value, err := parseCell(record[index[name]])
			if err != nil {
				return nil, fmt.Errorf("line %d, column %s: %w", line, name, err)
			}
			slot := flightLog.column(name)
			*slot = append(*slot, value)
		}
	}

	if flightLog.Len() == 0 {
		return nil, errors.New("flight log has no data rows")
	}

	return flightLog, nil
}

// parseCell converts one CSV cell; empty cells become NaN
func parseCell(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return math.NaN(), nil
	}
	value, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", cell)
	}
	return value, nil
}
