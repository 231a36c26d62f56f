package physics

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Constants
const (
	G = 9.80665 // Standard gravity (m/s^2)
)

// Vector3D represents a cartesian vector in the simulator's frame
type Vector3D struct {
	X float64 // Ox component
	Y float64 // Oy component
	Z float64 // Oz component (up)
}

// Magnitude returns the Euclidean norm of the vector
func (v Vector3D) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Magnitudes returns the per-row Euclidean norm of three component series.
// The series must have equal length.
func Magnitudes(x, y, z []float64) []float64 {
	if len(x) != len(y) || len(x) != len(z) {
		panic("physics: component series have different lengths")
	}

	out := make([]float64, len(x))
	for i := range x {
		out[i] = Vector3D{X: x[i], Y: y[i], Z: z[i]}.Magnitude()
	}
	return out
}

// Max returns the largest non-NaN value of s, or NaN if there is none
func Max(s []float64) float64 {
	clean := dropNaN(s)
	if len(clean) == 0 {
		return math.NaN()
	}
	return floats.Max(clean)
}

// Min returns the smallest non-NaN value of s, or NaN if there is none
func Min(s []float64) float64 {
	clean := dropNaN(s)
	if len(clean) == 0 {
		return math.NaN()
	}
	return floats.Min(clean)
}

// GForce expresses an acceleration in multiples of standard gravity
func GForce(accelMs2 float64) float64 {
	return accelMs2 / G
}

func dropNaN(s []float64) []float64 {
	if !floats.HasNaN(s) {
		return s
	}
	clean := make([]float64, 0, len(s))
	for _, v := range s {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	return clean
}
