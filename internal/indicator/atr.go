package indicator

import (
	"fmt"
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/strategy-backtest/internal/types"
)

// ATRSeries computes the average true range as a simple trailing average of
// the true range over the period. True range is the greatest of high-low,
// |high-prevClose| and |low-prevClose|.
func ATRSeries(highs, lows, closes []float64, period int) Series {
	series := NewSeries(len(closes))

	if len(closes) < 2 {
		return series
	}

	tr := make([]float64, len(closes)-1)

	for i := 1; i < len(closes); i++ {
		hl := highs[i] - lows[i]
		hc := math.Abs(highs[i] - closes[i-1])
		lc := math.Abs(lows[i] - closes[i-1])

		tr[i-1] = math.Max(hl, math.Max(hc, lc))
	}

	for i := period; i < len(closes); i++ {
		series[i] = optional.Some(mean(tr[i-period : i]))
	}

	return series
}

// ATR represents the average true range indicator.
type ATR struct {
	period int
}

// NewATR creates a new ATR indicator with default configuration.
func NewATR() Indicator {
	return &ATR{
		period: 14, // Default period
	}
}

// Name returns the name of the indicator.
func (a *ATR) Name() types.IndicatorType {
	return types.IndicatorTypeATR
}

// Config configures the ATR indicator. Expected parameters: period (int).
func (a *ATR) Config(params ...any) error {
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

	a.period = period

	return nil
}

// Compute implements the Indicator interface.
func (a *ATR) Compute(data []types.PricePoint) (Series, error) {
	return ATRSeries(types.Highs(data), types.Lows(data), types.Closes(data), a.period), nil
}
