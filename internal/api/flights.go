package api

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var errInvalidFlightName = errors.New("invalid flight name")

// FlightFile is one CSV log available in the data directory
type FlightFile struct {
	Name    string `json:"name"`
	Size    int64  `json:"size"`
	ModTime string `json:"mod_time"`
}

// listFlights returns the CSV files directly under dir, sorted by name
func listFlights(dir string) ([]FlightFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	flights := make([]FlightFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		flights = append(flights, FlightFile{
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime().UTC().Format("2006-01-02T15:04:05Z"),
		})
	}

	sort.Slice(flights, func(i, j int) bool { return flights[i].Name < flights[j].Name })
	return flights, nil
}

// resolveFlight maps a flight name onto a CSV path inside dir.
// Names are plain file names; anything that would escape dir is rejected.
func resolveFlight(dir, name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", errInvalidFlightName
	}
	if !strings.EqualFold(filepath.Ext(name), ".csv") {
		name += ".csv"
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	absPath, err := filepath.Abs(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	if filepath.Dir(absPath) != absDir {
		return "", errInvalidFlightName
	}

	return absPath, nil
}
