package sqlite

import (
	"database/sql"
	"math"
)

// nullableFloat maps NaN onto SQL NULL
func nullableFloat(v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

// floatOrNaN maps SQL NULL back onto NaN
func floatOrNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
