package indicator

import (
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/strategy-backtest/internal/types"
)

// WilliamsRSeries computes Williams %R over a trailing window. Values range
// from -100 (close at the window low) to 0 (close at the window high). A flat
// window yields a neutral -50.
func WilliamsRSeries(highs, lows, closes []float64, period int) Series {
	series := NewSeries(len(closes))

	for i := range closes {
		if i < period-1 {
			continue
		}

		highest, lowest := windowExtremes(highs, lows, i, period)

		if highest == lowest {
			series[i] = optional.Some(-50.0)
			continue
		}

		r := ((highest - closes[i]) / (highest - lowest)) * -100.0
		series[i] = optional.Some(r)
	}

	return series
}

// WilliamsR represents the Williams %R indicator.
type WilliamsR struct {
	period int
}

// NewWilliamsR creates a new Williams %R indicator with default
// configuration.
func NewWilliamsR() Indicator {
	return &WilliamsR{
		period: 14, // Default period
	}
}

// Name returns the name of the indicator.
func (w *WilliamsR) Name() types.IndicatorType {
	return types.IndicatorTypeWilliamsR
}

// Config configures the Williams %R indicator. Expected parameters: period
// (int).
func (w *WilliamsR) Config(params ...any) error {
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

	w.period = period

	return nil
}

// Compute implements the Indicator interface.
func (w *WilliamsR) Compute(data []types.PricePoint) (Series, error) {
	return WilliamsRSeries(types.Highs(data), types.Lows(data), types.Closes(data), w.period), nil
}
