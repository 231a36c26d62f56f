package summary

import (
	"fmt"
	"io"
	"math"

	"github.com/yegors/flightstats/internal/physics"
	"github.com/yegors/flightstats/internal/telemetry"
)

// Summary holds the headline metrics of one flight
type Summary struct {
	Rows            int     `json:"rows"`
	FlightTime      float64 `json:"flight_time_s"`
	MaxSpeed        float64 `json:"max_speed_ms"`
	MaxAcceleration float64 `json:"max_acceleration_ms2"`
	MaxGForce       float64 `json:"max_g"`
	FuelUsed        float64 `json:"fuel_used_kg"`
	TouchdownSpeed  float64 `json:"touchdown_speed_ms"`
	MinAltitude     float64 `json:"min_altitude_m"`
}

// Compute derives the summary from a loaded flight log.
// The log must hold at least one row.
func Compute(flightLog *telemetry.FlightLog) *Summary {
	n := flightLog.Len()
	speed := physics.Magnitudes(flightLog.VelocityX, flightLog.VelocityY, flightLog.VelocityZ)
	accel := physics.Magnitudes(flightLog.AccelX, flightLog.AccelY, flightLog.AccelZ)

	maxAccel := physics.Max(accel)
	return &Summary{
		Rows:            n,
		FlightTime:      physics.Max(flightLog.Time),
		MaxSpeed:        physics.Max(speed),
		MaxAcceleration: maxAccel,
		MaxGForce:       physics.GForce(maxAccel),
		FuelUsed:        flightLog.FuelMass[0] - flightLog.FuelMass[n-1],
		TouchdownSpeed:  speed[n-1],
		MinAltitude:     physics.Min(flightLog.Altitude),
	}
}

// Lines returns the metric lines of the console block, without indentation
func (s *Summary) Lines() []string {
	return []string{
		fmt.Sprintf("Total flight time: %s s", FormatValue(s.FlightTime)),
		fmt.Sprintf("Maximum speed: %s m/s", FormatValue(s.MaxSpeed)),
		fmt.Sprintf("Maximum acceleration: %s m/s²", FormatValue(s.MaxAcceleration)),
		fmt.Sprintf("Fuel used: %s kg", FormatValue(s.FuelUsed)),
	}
}

// Print writes the console block: a blank line, the header and four
// indented metric lines
func (s *Summary) Print(w io.Writer) error {
	if _, err := fmt.Fprint(w, "\nFlight Summary:\n"); err != nil {
		return err
	}
	for _, line := range s.Lines() {
		if _, err := fmt.Fprintf(w, "  %s\n", line); err != nil {
			return err
		}
	}
	return nil
}

// FormatValue renders a metric with two decimals. Missing values print as
// nan, inf or -inf.
func FormatValue(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return fmt.Sprintf("%.2f", v)
}
