package types

import (
	"sort"
	"time"
)

// PricePoint is a single daily OHLCV observation.
type PricePoint struct {
	// Time is the time of the bar
	Time time.Time `csv:"time" yaml:"time"`
	// Open is the open price of the bar
	Open float64 `csv:"open" yaml:"open"`
	// High is the high price of the bar
	High float64 `csv:"high" yaml:"high"`
	// Low is the low price of the bar
	Low float64 `csv:"low" yaml:"low"`
	// Close is the close price of the bar
	Close float64 `csv:"close" yaml:"close"`
	// Volume is the volume of the bar
	Volume float64 `csv:"volume" yaml:"volume"`
}

// Timestamp returns the bar time as Unix seconds.
func (p PricePoint) Timestamp() int64 {
	return p.Time.Unix()
}

// FilterValidPricePoints discards points without a positive close price and
// returns the remainder sorted ascending by time.
func FilterValidPricePoints(points []PricePoint) []PricePoint {
	filtered := make([]PricePoint, 0, len(points))

	for _, p := range points {
		if p.Close > 0 {
			filtered = append(filtered, p)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Time.Before(filtered[j].Time)
	})

	return filtered
}

// Closes extracts the close series from a price series.
func Closes(points []PricePoint) []float64 {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Close
	}

	return values
}

// Highs extracts the high series from a price series.
func Highs(points []PricePoint) []float64 {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.High
	}

	return values
}

// Lows extracts the low series from a price series.
func Lows(points []PricePoint) []float64 {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Low
	}

	return values
}

// Volumes extracts the volume series from a price series.
func Volumes(points []PricePoint) []float64 {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Volume
	}

	return values
}
