package indicator

import (
	"math"

	"github.com/moznion/go-optional"
)

// Series is an indicator output positionally aligned with its price series.
// Entries inside the warm-up period are None, never zero.
type Series []optional.Option[float64]

// NewSeries returns a series of length n with every entry undefined.
func NewSeries(n int) Series {
	return make(Series, n)
}

// Valid reports whether index i is in range and holds a defined value.
func (s Series) Valid(i int) bool {
	return i >= 0 && i < len(s) && s[i].IsSome()
}

// Value returns the defined value at index i. Callers must check Valid first.
func (s Series) Value(i int) float64 {
	return s[i].Unwrap()
}

// FirstValidIndex returns the index of the first defined entry, or -1.
func (s Series) FirstValidIndex() int {
	for i := range s {
		if s[i].IsSome() {
			return i
		}
	}

	return -1
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

// populationStdDev is the population (not sample) standard deviation around
// the provided mean, matching the band-width and mean-reversion math.
func populationStdDev(values []float64, m float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += (v - m) * (v - m)
	}

	return math.Sqrt(sum / float64(len(values)))
}
