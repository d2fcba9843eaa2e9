package indicator

import (
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/strategy-backtest/internal/types"
)

// BollingerLines bundles the three series of a Bollinger Bands computation.
type BollingerLines struct {
	Upper  Series
	Middle Series
	Lower  Series
}

// BollingerSeries computes Bollinger Bands: the middle band is the simple
// moving average and the band half-width is stdDev multiples of the
// population standard deviation of the trailing window.
func BollingerSeries(values []float64, period int, stdDev float64) BollingerLines {
	middle := SMASeries(values, period)
	upper := NewSeries(len(values))
	lower := NewSeries(len(values))

	for i := range values {
		if !middle.Valid(i) {
			continue
		}

		start := i - period + 1
		if start < 0 {
			start = 0
		}

		m := middle.Value(i)
		std := populationStdDev(values[start:i+1], m)

		upper[i] = optional.Some(m + std*stdDev)
		lower[i] = optional.Some(m - std*stdDev)
	}

	return BollingerLines{
		Upper:  upper,
		Middle: middle,
		Lower:  lower,
	}
}

// BollingerBands represents the Bollinger Bands indicator.
type BollingerBands struct {
	period int
	stdDev float64
}

// NewBollingerBands creates a new Bollinger Bands indicator with default
// configuration.
func NewBollingerBands() Indicator {
	return &BollingerBands{
		period: 20,
		stdDev: 2,
	}
}

// Name returns the name of the indicator.
func (b *BollingerBands) Name() types.IndicatorType {
	return types.IndicatorTypeBollingerBands
}

// Config configures the Bollinger Bands indicator. Expected parameters:
// period (int), stdDev (float64).
func (b *BollingerBands) Config(params ...any) error {
	if len(params) < 1 {
		return fmt.Errorf("Config expects at least 1 parameter: period (int)")
	}

	period, ok := params[0].(int)
	if !ok {
		return fmt.Errorf("invalid type for period parameter, expected int")
	}

	if period <= 0 {
		return fmt.Errorf("period must be a positive integer, got %d", period)
	}

	b.period = period

	if len(params) >= 2 {
		stdDev, ok := params[1].(float64)
		if !ok {
			return fmt.Errorf("invalid type for stdDev parameter, expected float64")
		}

		b.stdDev = stdDev
	}

	return nil
}

// Bands returns the upper, middle and lower band series.
func (b *BollingerBands) Bands(data []types.PricePoint) (BollingerLines, error) {
	return BollingerSeries(types.Closes(data), b.period, b.stdDev), nil
}

// Compute implements the Indicator interface and returns the middle band.
func (b *BollingerBands) Compute(data []types.PricePoint) (Series, error) {
	lines, err := b.Bands(data)
	if err != nil {
		return nil, err
	}

	return lines.Middle, nil
}
