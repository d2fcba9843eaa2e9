// Package engine defines the public surface of the backtesting engine.
package engine

import (
	"context"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/strategy-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/strategy-backtest/internal/types"
)

// OnProcessDataCallback is called once per processed bar. Returning an error
// aborts the run.
type OnProcessDataCallback func(current int, total int) error

type Engine interface {
	// Initialize the engine with the given YAML configuration.
	Initialize(config string) error
	// SetStrategy sets an already parsed strategy for subsequent runs.
	// Unknown strategies are rejected.
	SetStrategy(spec types.StrategySpec) error
	// SetStrategyDescription validates and parses a free-text strategy
	// description and sets the result. Descriptions that fail validation or
	// parse to an unknown strategy are rejected.
	SetStrategyDescription(description string) error
	// LoadData sets the OHLCV series the simulation runs on. Bars without a
	// positive close price are dropped and the rest sorted by time.
	LoadData(points []types.PricePoint) error
	// LoadDataFromFile loads the primary OHLCV series through the data source.
	LoadDataFromFile(path string) error
	// LoadBaselineData sets an independent series for the buy-and-hold
	// baseline. When never called, the baseline uses the primary series.
	LoadBaselineData(points []types.PricePoint) error
	// LoadBaselineDataFromFile loads the baseline series through the data source.
	LoadBaselineDataFromFile(path string) error
	// SetDataSource sets the data source used by the file loading methods.
	SetDataSource(source datasource.DataSource) error
	// Run executes the simulation and returns the complete result.
	// The context can be used to cancel the run.
	Run(ctx context.Context, onProcessDataCallback optional.Option[OnProcessDataCallback]) (*types.BacktestResult, error)
	// GetConfigSchema returns the JSON schema of the engine configuration.
	GetConfigSchema() (string, error)
}
