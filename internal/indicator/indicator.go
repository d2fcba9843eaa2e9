package indicator

import (
	"github.com/rxtech-lab/strategy-backtest/internal/types"
)

// Indicator interface defines methods that any technical indicator must implement
type Indicator interface {
	// Name returns the name of the indicator
	Name() types.IndicatorType
	// Config configures the indicator parameters
	Config(params ...any) error
	// Compute returns the indicator's primary series for the given price
	// series. The result has the same length as the input with undefined
	// entries for the warm-up period.
	Compute(data []types.PricePoint) (Series, error)
}
