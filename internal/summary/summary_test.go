package summary

import (
	"bytes"
	"math"
	"testing"

	"github.com/yegors/flightstats/internal/telemetry"
	"gonum.org/v1/gonum/floats/scalar"
)

func scenarioLog() *telemetry.FlightLog {
	return &telemetry.FlightLog{
		Time:      []float64{0, 1, 2},
		Altitude:  []float64{100, 95, 80},
		VelocityX: []float64{0, 0, 3},
		VelocityY: []float64{0, 0, 4},
		VelocityZ: []float64{0, 0, 0},
		AccelX:    []float64{0, 0, 0},
		AccelY:    []float64{0, 0, 0},
		AccelZ:    []float64{-9.81, -9.81, 2},
		Thrust:    []float64{0, 50, 100},
		FuelMass:  []float64{10, 8, 5},
	}
}

func TestComputeScenario(t *testing.T) {
	s := Compute(scenarioLog())

	if s.Rows != 3 {
		t.Errorf("Rows = %d, want 3", s.Rows)
	}
	if s.FlightTime != 2 {
		t.Errorf("FlightTime = %v, want 2", s.FlightTime)
	}
	if !scalar.EqualWithinAbs(s.MaxSpeed, 5, 1e-12) {
		t.Errorf("MaxSpeed = %v, want 5", s.MaxSpeed)
	}
	if !scalar.EqualWithinAbs(s.MaxAcceleration, 9.81, 1e-12) {
		t.Errorf("MaxAcceleration = %v, want 9.81", s.MaxAcceleration)
	}
	if s.FuelUsed != 5 {
		t.Errorf("FuelUsed = %v, want 5", s.FuelUsed)
	}
	if !scalar.EqualWithinAbs(s.TouchdownSpeed, 5, 1e-12) {
		t.Errorf("TouchdownSpeed = %v, want 5", s.TouchdownSpeed)
	}
}

func TestFlightTimeIsMaximumNotLast(t *testing.T) {
	flightLog := scenarioLog()
	flightLog.Time = []float64{0, 7.456, 7.0}
	if got := Compute(flightLog).FlightTime; got != 7.456 {
		t.Errorf("FlightTime = %v, want 7.456", got)
	}
}

func TestFuelUsedCanBeNegative(t *testing.T) {
	flightLog := scenarioLog()
	flightLog.FuelMass = []float64{5, 6, 7.25}
	if got := Compute(flightLog).FuelUsed; got != -2.25 {
		t.Errorf("FuelUsed = %v, want -2.25", got)
	}
}

func TestSingleRow(t *testing.T) {
	flightLog := &telemetry.FlightLog{
		Time: []float64{0.5}, Altitude: []float64{10},
		VelocityX: []float64{1}, VelocityY: []float64{2}, VelocityZ: []float64{2},
		AccelX: []float64{0}, AccelY: []float64{0}, AccelZ: []float64{0},
		Thrust: []float64{0}, FuelMass: []float64{3},
	}
	s := Compute(flightLog)
	if s.FlightTime != 0.5 || s.FuelUsed != 0 || !scalar.EqualWithinAbs(s.MaxSpeed, 3, 1e-12) {
		t.Errorf("summary = %+v", s)
	}
}

func TestMaximaSkipNaN(t *testing.T) {
	flightLog := scenarioLog()
	flightLog.VelocityX[1] = math.NaN()
	if got := Compute(flightLog).MaxSpeed; !scalar.EqualWithinAbs(got, 5, 1e-12) {
		t.Errorf("MaxSpeed = %v, want 5", got)
	}
}

func TestPrintFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Compute(scenarioLog()).Print(&buf); err != nil {
		t.Fatalf("Print: %v", err)
	}

	want := "\nFlight Summary:\n" +
		"  Total flight time: 2.00 s\n" +
		"  Maximum speed: 5.00 m/s\n" +
		"  Maximum acceleration: 9.81 m/s²\n" +
		"  Fuel used: 5.00 kg\n"
	if got := buf.String(); got != want {
		t.Errorf("output mismatch\ngot:\n%q\nwant:\n%q", got, want)
	}
}

func TestPrintRoundsToTwoDecimals(t *testing.T) {
	s := &Summary{FlightTime: 12.3456, MaxSpeed: 0.004, MaxAcceleration: 99.999, FuelUsed: -1.5}
	lines := s.Lines()
	want := []string{
		"Total flight time: 12.35 s",
		"Maximum speed: 0.00 m/s",
		"Maximum acceleration: 100.00 m/s²",
		"Fuel used: -1.50 kg",
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestMinAltitude(t *testing.T) {
	flightLog := scenarioLog()
	flightLog.Altitude[0] = math.NaN()
	if got := Compute(flightLog).MinAltitude; got != 80 {
		t.Errorf("MinAltitude = %v, want 80", got)
	}
}

func TestPrintMissingValues(t *testing.T) {
	flightLog := scenarioLog()
	flightLog.FuelMass[0] = math.NaN()

	var buf bytes.Buffer
	if err := Compute(flightLog).Print(&buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("  Fuel used: nan kg\n")) {
		t.Errorf("output = %q", buf.String())
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{2, "2.00"},
		{-1.005, "-1.00"},
		{math.NaN(), "nan"},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
	}
	for _, tc := range tests {
		if got := FormatValue(tc.in); got != tc.want {
			t.Errorf("FormatValue(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
