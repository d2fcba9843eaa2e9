package indicator

import (
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/strategy-backtest/internal/types"
)

// SMASeries computes a simple moving average. Entries before index period-1
// are undefined.
func SMASeries(values []float64, period int) Series {
	series := NewSeries(len(values))

	for i := range values {
		if i < period-1 {
			continue
		}

		series[i] = optional.Some(mean(values[i-period+1 : i+1]))
	}

	return series
}

// MA represents the simple moving average indicator.
type MA struct {
	period int
}

// NewMA creates a new MA indicator with default configuration.
func NewMA() Indicator {
	return &MA{
		period: 20, // Default period
	}
}

// Name returns the name of the indicator.
func (m *MA) Name() types.IndicatorType {
	return types.IndicatorTypeMA
}

// Config configures the MA indicator. Expected parameters: period (int).
func (m *MA) Config(params ...any) error {
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

	m.period = period

	return nil
}

// Compute implements the Indicator interface.
func (m *MA) Compute(data []types.PricePoint) (Series, error) {
	return SMASeries(types.Closes(data), m.period), nil
}
