package indicator

import (
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/strategy-backtest/internal/types"
)

// StochasticSeries computes the %K stochastic oscillator over a trailing
// window. When the window's high equals its low the oscillator is a neutral
// 50 to avoid division by zero.
func StochasticSeries(highs, lows, closes []float64, period int) Series {
	series := NewSeries(len(closes))

	for i := range closes {
		if i < period-1 {
			continue
		}

		highest, lowest := windowExtremes(highs, lows, i, period)

		if highest == lowest {
			series[i] = optional.Some(50.0)
			continue
		}

		k := ((closes[i] - lowest) / (highest - lowest)) * 100.0
		series[i] = optional.Some(k)
	}

	return series
}

func windowExtremes(highs, lows []float64, i, period int) (highest float64, lowest float64) {
	highest = highs[i-period+1]
	lowest = lows[i-period+1]

	for j := i - period + 2; j <= i; j++ {
		if highs[j] > highest {
			highest = highs[j]
		}

		if lows[j] < lowest {
			lowest = lows[j]
		}
	}

	return highest, lowest
}

// Stochastic represents the stochastic oscillator indicator.
type Stochastic struct {
	period int
}

// NewStochastic creates a new stochastic oscillator with default
// configuration.
func NewStochastic() Indicator {
	return &Stochastic{
		period: 14, // Default period
	}
}

// Name returns the name of the indicator.
func (s *Stochastic) Name() types.IndicatorType {
	return types.IndicatorTypeStochasticOsciallator
}

// Config configures the stochastic oscillator. Expected parameters: period
// (int).
func (s *Stochastic) Config(params ...any) error {
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

	s.period = period

	return nil
}

// Compute implements the Indicator interface.
func (s *Stochastic) Compute(data []types.PricePoint) (Series, error) {
	return StochasticSeries(types.Highs(data), types.Lows(data), types.Closes(data), s.period), nil
}
