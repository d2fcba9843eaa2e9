// Package datasource loads OHLCV series from disk.
package datasource

import "github.com/rxtech-lab/strategy-backtest/internal/types"

// DataSource loads OHLCV bars from a market data file. Implementations must
// drop bars without a positive close price and return the remainder ordered
// by time ascending.
type DataSource interface {
	// Initialize points the source at the market data file at path.
	Initialize(path string) error
	// Count returns the number of valid bars.
	Count() (int, error)
	// ReadAll returns every valid bar ordered by time ascending.
	ReadAll() ([]types.PricePoint, error)
	// Close releases the underlying resources.
	Close() error
}
