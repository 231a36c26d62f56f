package telemetry

// Column headers written by the flight simulator's CSV logger
const (
	ColTime        = "time(s)"
	ColAltitude    = "CoordinateOz(m)"
	ColVelocityX   = "velocityOx(m/s)"
	ColVelocityY   = "velocityOy(m/s)"
	ColVelocityZ   = "velocityOz(m/s)"
	ColAccelX      = "accOx(m/s^2)"
	ColAccelY      = "accOy(m/s^2)"
	ColAccelZ      = "accOz(m/s^2)"
	ColThrust      = "thrust_percent()"
	ColFuelMass    = "fuel_mass(kg)"
	ColDryMass     = "dry_mass(kg)"
	ColCoordinateX = "CoordinateOx(m)"
	ColCoordinateY = "CoordinateOy(m)"
)

// RequiredColumns lists the headers every flight log must carry
var RequiredColumns = []string{
	ColTime,
	ColAltitude,
	ColVelocityX,
	ColVelocityY,
	ColVelocityZ,
	ColAccelX,
	ColAccelY,
	ColAccelZ,
	ColThrust,
	ColFuelMass,
}

// OptionalColumns are loaded when present
var OptionalColumns = []string{
	ColDryMass,
	ColCoordinateX,
	ColCoordinateY,
}

// columnAliases maps alternative header spellings onto canonical names.
// The simulator writes thrust_percent(%) while older logs use thrust_percent().
var columnAliases = map[string]string{
	"thrust_percent(%)": ColThrust,
}

// FlightLog holds one simulated flight, one slice element per time step.
// All slices have the same length and keep the file's row order.
type FlightLog struct {
	Source string `json:"source"`

	Time      []float64 `json:"time"`
	Altitude  []float64 `json:"altitude"`
	VelocityX []float64 `json:"velocity_x"`
	VelocityY []float64 `json:"velocity_y"`
	VelocityZ []float64 `json:"velocity_z"`
	AccelX    []float64 `json:"acceleration_x"`
	AccelY    []float64 `json:"acceleration_y"`
	AccelZ    []float64 `json:"acceleration_z"`
	Thrust    []float64 `json:"thrust_percent"`
	FuelMass  []float64 `json:"fuel_mass"`

	// Optional columns; nil when absent from the file
	DryMass     []float64 `json:"dry_mass,omitempty"`
	CoordinateX []float64 `json:"coordinate_x,omitempty"`
	CoordinateY []float64 `json:"coordinate_y,omitempty"`
}

// Len returns the number of rows
func (f *FlightLog) Len() int {
	return len(f.Time)
}

// Column returns the series stored under a canonical header name
func (f *FlightLog) Column(name string) ([]float64, bool) {
	p := f.column(name)
	if p == nil || *p == nil {
		return nil, false
	}
	return *p, true
}

// column returns a pointer to the slot backing a canonical header name
func (f *FlightLog) column(name string) *[]float64 {
	switch name {
	case ColTime:
		return &f.Time
	case ColAltitude:
		return &f.Altitude
	case ColVelocityX:
		return &f.VelocityX
	case ColVelocityY:
		return &f.VelocityY
	case ColVelocityZ:
		return &f.VelocityZ
	case ColAccelX:
		return &f.AccelX
	case ColAccelY:
		return &f.AccelY
	case ColAccelZ:
		return &f.AccelZ
	case ColThrust:
		return &f.Thrust
	case ColFuelMass:
		return &f.FuelMass
	case ColDryMass:
		return &f.DryMass
	case ColCoordinateX:
		return &f.CoordinateX
	case ColCoordinateY:
		return &f.CoordinateY
	}
	return nil
}

// HasColumn reports whether an optional column was present in the file
func (f *FlightLog) HasColumn(name string) bool {
	_, ok := f.Column(name)
	return ok
}
