package indicator

import (
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/strategy-backtest/internal/types"
)

// RSISeries computes the relative strength index using a simple trailing
// average of gains and losses over the window, not Wilder's smoothing. This
// variant is kept deliberately for output compatibility with the systems
// this engine replays. Values are undefined for indices below the period and
// bounded in [0, 100] otherwise.
func RSISeries(values []float64, period int) Series {
	series := NewSeries(len(values))

	if len(values) < 2 {
		return series
	}

	gains := make([]float64, len(values)-1)
	losses := make([]float64, len(values)-1)

	for i := 1; i < len(values); i++ {
		change := values[i] - values[i-1]
		if change > 0 {
			gains[i-1] = change
		} else {
			losses[i-1] = -change
		}
	}

	for i := period; i < len(values); i++ {
		avgGain := mean(gains[i-period : i])
		avgLoss := mean(losses[i-period : i])

		if avgLoss == 0 {
			series[i] = optional.Some(100.0)
			continue
		}

		rs := avgGain / avgLoss
		series[i] = optional.Some(100.0 - (100.0 / (1.0 + rs)))
	}

	return series
}

// RSI represents the Relative Strength Index indicator.
type RSI struct {
	period int
}

// NewRSI creates a new RSI indicator with default configuration.
func NewRSI() Indicator {
	return &RSI{
		period: 14, // Default period
	}
}

// Name returns the name of the indicator.
func (r *RSI) Name() types.IndicatorType {
	return types.IndicatorTypeRSI
}

// Config configures the RSI indicator. Expected parameters: period (int).
func (r *RSI) Config(params ...any) error {
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

	r.period = period

	return nil
}

// Compute implements the Indicator interface.
func (r *RSI) Compute(data []types.PricePoint) (Series, error) {
	return RSISeries(types.Closes(data), r.period), nil
}
