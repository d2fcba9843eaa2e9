package indicator

import (
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/strategy-backtest/internal/types"
)

// EMASeries computes an exponential moving average. The first defined value
// is the simple average of the first period points; subsequent values use the
// multiplier 2/(period+1). Inputs shorter than the period yield an empty
// series.
func EMASeries(values []float64, period int) Series {
	if len(values) < period {
		return Series{}
	}

	series := NewSeries(len(values))
	multiplier := 2.0 / float64(period+1)

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += values[i]
	}

	prev := sum / float64(period)
	series[period-1] = optional.Some(prev)

	for i := period; i < len(values); i++ {
		prev = (values[i]-prev)*multiplier + prev
		series[i] = optional.Some(prev)
	}

	return series
}

// EMA represents the exponential moving average indicator.
type EMA struct {
	period int
}

// NewEMA creates a new EMA indicator with default configuration.
func NewEMA() Indicator {
	return &EMA{
		period: 20, // Default period
	}
}

// Name returns the name of the indicator.
func (e *EMA) Name() types.IndicatorType {
	return types.IndicatorTypeEMA
}

// Config configures the EMA indicator. Expected parameters: period (int).
func (e *EMA) Config(params ...any) error {
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

	e.period = period

	return nil
}

// Compute implements the Indicator interface.
func (e *EMA) Compute(data []types.PricePoint) (Series, error) {
	series := EMASeries(types.Closes(data), e.period)
	if len(series) == 0 {
		return NewSeries(len(data)), nil
	}

	return series, nil
}
