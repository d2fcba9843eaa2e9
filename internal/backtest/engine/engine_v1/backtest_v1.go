package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/strategy-backtest/internal/backtest/engine"
	"github.com/rxtech-lab/strategy-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/strategy-backtest/internal/logger"
	"github.com/rxtech-lab/strategy-backtest/internal/strategy/parser"
	"github.com/rxtech-lab/strategy-backtest/internal/strategy/ratelimit"
	"github.com/rxtech-lab/strategy-backtest/internal/types"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type BacktestEngineV1 struct {
	config       BacktestEngineV1Config
	strategy     optional.Option[types.StrategySpec]
	data         []types.PricePoint
	baselineData []types.PricePoint
	dataPath     string
	log          *logger.Logger
	datasource   datasource.DataSource
	limiter      *ratelimit.Limiter
}

func NewBacktestEngineV1() engine.Engine {
	return &BacktestEngineV1{
		config:   EmptyConfig(),
		strategy: optional.None[types.StrategySpec](),
		limiter:  ratelimit.NewLimiter(ratelimit.DefaultPerMinute, ratelimit.DefaultPerHour),
	}
}

// Initialize implements engine.Engine.
func (b *BacktestEngineV1) Initialize(config string) error {
	b.config = EmptyConfig()

	if err := yaml.Unmarshal([]byte(config), &b.config); err != nil {
		return fmt.Errorf("failed to parse engine config: %w", err)
	}

	if err := b.config.Validate(); err != nil {
		return err
	}

	var loggerError error

	b.log, loggerError = logger.NewLogger()
	if loggerError != nil {
		return loggerError
	}

	b.log.Debug("Backtest engine initialized",
		zap.Float64("initial_capital", b.config.InitialCapital),
		zap.String("broker", string(b.config.Broker)),
	)

	return nil
}

// SetStrategy implements engine.Engine.
func (b *BacktestEngineV1) SetStrategy(spec types.StrategySpec) error {
	if spec.IsUnknown() {
		return errors.New("cannot run an unknown strategy")
	}

	b.strategy = optional.Some(spec)

	return nil
}

// SetStrategyDescription implements engine.Engine. Parsing is rate limited
// because descriptions arrive from untrusted input.
func (b *BacktestEngineV1) SetStrategyDescription(description string) error {
	if err := b.limiter.Allow(); err != nil {
		return err
	}

	if err := parser.Validate(description); err != nil {
		return fmt.Errorf("invalid strategy description: %w", err)
	}

	spec := parser.Parse(description)
	if spec.IsUnknown() {
		return errors.New("could not recognize a strategy in the description")
	}

	b.strategy = optional.Some(spec)

	return nil
}

// LoadData implements engine.Engine.
func (b *BacktestEngineV1) LoadData(points []types.PricePoint) error {
	filtered := types.FilterValidPricePoints(points)
	if len(filtered) == 0 {
		return errors.New("no valid price data found")
	}

	b.data = filtered
	b.dataPath = ""

	return nil
}

// LoadDataFromFile implements engine.Engine.
func (b *BacktestEngineV1) LoadDataFromFile(path string) error {
	points, err := b.readFile(path)
	if err != nil {
		return err
	}

	if err := b.LoadData(points); err != nil {
		return err
	}

	b.dataPath = path

	return nil
}

// LoadBaselineData implements engine.Engine. An empty series clears the
// baseline so the run falls back to the primary series.
func (b *BacktestEngineV1) LoadBaselineData(points []types.PricePoint) error {
	b.baselineData = types.FilterValidPricePoints(points)

	return nil
}

// LoadBaselineDataFromFile implements engine.Engine.
func (b *BacktestEngineV1) LoadBaselineDataFromFile(path string) error {
	points, err := b.readFile(path)
	if err != nil {
		return err
	}

	return b.LoadBaselineData(points)
}

// SetDataSource implements engine.Engine.
func (b *BacktestEngineV1) SetDataSource(source datasource.DataSource) error {
	b.datasource = source

	return nil
}

// Run implements engine.Engine.
func (b *BacktestEngineV1) Run(ctx context.Context, onProcessDataCallback optional.Option[engine.OnProcessDataCallback]) (*types.BacktestResult, error) {
	if err := b.preRunCheck(); err != nil {
		return nil, err
	}

	spec := b.strategy.Unwrap()

	data := b.filterWindow(b.data)
	if len(data) == 0 {
		return nil, errors.New("no price data within the configured time window")
	}

	b.log.Info("Running backtest",
		zap.String("strategy", string(spec.Type)),
		zap.Int("bars", len(data)),
	)

	sim := newSimulation(spec, b.config, data)

	trades, err := sim.run(ctx, onProcessDataCallback)
	if err != nil {
		return nil, err
	}

	curve := sim.equityCurve(trades)
	metrics := sim.metrics(trades, curve)

	baseline := b.filterWindow(b.baselineData)
	if len(b.baselineData) == 0 {
		baseline = data
	}

	buyAndHold := sim.buyAndHold(baseline)
	buyAndHold.Metrics = buyAndHold.Metrics.Round(b.config.DecimalPrecision)

	result := &types.BacktestResult{
		ID:          uuid.NewString(),
		Timestamp:   time.Now(),
		Strategy:    spec,
		Trades:      trades,
		Metrics:     metrics.Round(b.config.DecimalPrecision),
		EquityCurve: curve,
		BuyAndHold:  buyAndHold,
		DataPath:    b.dataPath,
	}

	b.log.Info("Backtest complete",
		zap.Int("trades", len(trades)),
		zap.Float64("final_equity", metrics.FinalEquity),
	)

	return result, nil
}

// GetConfigSchema implements engine.Engine.
func (b *BacktestEngineV1) GetConfigSchema() (string, error) {
	config := b.config

	schema, err := config.GenerateSchemaJSON()
	if err != nil {
		return "", fmt.Errorf("failed to generate schema: %w", err)
	}

	return schema, nil
}

func (b *BacktestEngineV1) readFile(path string) ([]types.PricePoint, error) {
	if b.datasource == nil {
		return nil, errors.New("no data source set")
	}

	if err := b.datasource.Initialize(path); err != nil {
		return nil, fmt.Errorf("failed to initialize data source: %w", err)
	}

	points, err := b.datasource.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read market data: %w", err)
	}

	return points, nil
}

func (b *BacktestEngineV1) filterWindow(points []types.PricePoint) []types.PricePoint {
	if b.config.StartTime.IsNone() && b.config.EndTime.IsNone() {
		return points
	}

	filtered := make([]types.PricePoint, 0, len(points))

	for _, point := range points {
		if b.config.StartTime.IsSome() && point.Time.Before(b.config.StartTime.Unwrap()) {
			continue
		}

		if b.config.EndTime.IsSome() && point.Time.After(b.config.EndTime.Unwrap()) {
			continue
		}

		filtered = append(filtered, point)
	}

	return filtered
}

func (b *BacktestEngineV1) preRunCheck() error {
	if b.log == nil {
		return errors.New("engine not initialized")
	}

	if b.strategy.IsNone() {
		return errors.New("no strategy set")
	}

	if len(b.data) == 0 {
		return errors.New("no price data loaded")
	}

	return nil
}
