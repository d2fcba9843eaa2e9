package types

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Metrics holds aggregate performance statistics for one simulated run.
// The baseline (buy-and-hold) variant fills only the first five fields.
type Metrics struct {
	// TotalReturn is final equity versus initial capital, in percent.
	TotalReturn float64 `yaml:"total_return"`
	// AnnualizedReturn assumes 252 trading bars per year.
	AnnualizedReturn float64 `yaml:"annualized_return"`
	// SharpeRatio for the strategy uses per-trade percentage returns; the
	// buy-and-hold baseline uses daily equity returns instead.
	SharpeRatio float64 `yaml:"sharpe_ratio"`
	// MaxDrawdown is the largest peak-to-trough equity decline, in percent.
	MaxDrawdown float64 `yaml:"max_drawdown"`
	// FinalEquity is the last value of the equity curve.
	FinalEquity float64 `yaml:"final_equity"`

	WinRate float64 `yaml:"win_rate"`
	// ProfitFactor is gross profit over gross loss; +Inf when there are
	// profits and no losses, 0 when there are no trades.
	ProfitFactor         float64 `yaml:"profit_factor"`
	AverageWin           float64 `yaml:"average_win"`
	AverageLoss          float64 `yaml:"average_loss"`
	TotalTrades          int     `yaml:"total_trades"`
	WinningTrades        int     `yaml:"winning_trades"`
	LosingTrades         int     `yaml:"losing_trades"`
	LargestWin           float64 `yaml:"largest_win"`
	LargestLoss          float64 `yaml:"largest_loss"`
	AverageHoldingPeriod int     `yaml:"average_holding_period"`
}

// Round returns a copy with every float field rounded to the given number of
// decimal places. Non-finite values (an infinite profit factor) pass through.
func (m Metrics) Round(precision int32) Metrics {
	round := func(v float64) float64 {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return v
		}

		result, _ := decimal.NewFromFloat(v).Round(precision).Float64()

		return result
	}

	m.TotalReturn = round(m.TotalReturn)
	m.AnnualizedReturn = round(m.AnnualizedReturn)
	m.SharpeRatio = round(m.SharpeRatio)
	m.MaxDrawdown = round(m.MaxDrawdown)
	m.FinalEquity = round(m.FinalEquity)
	m.WinRate = round(m.WinRate)
	m.ProfitFactor = round(m.ProfitFactor)
	m.AverageWin = round(m.AverageWin)
	m.AverageLoss = round(m.AverageLoss)
	m.LargestWin = round(m.LargestWin)
	m.LargestLoss = round(m.LargestLoss)

	return m
}

// BuyAndHoldResult is the passive baseline computed once per run.
type BuyAndHoldResult struct {
	Trades      []Trade   `yaml:"trades"`
	Metrics     Metrics   `yaml:"metrics"`
	EquityCurve []float64 `yaml:"equity_curve"`
}

// BacktestResult is the complete outcome of one run. It is owned by the run
// and recomputed fully on every invocation.
type BacktestResult struct {
	// ID is the unique identifier for this backtest run.
	ID string `yaml:"id"`
	// Timestamp is when this backtest run was executed.
	Timestamp time.Time `yaml:"timestamp"`
	// Strategy is the parsed strategy the run simulated.
	Strategy    StrategySpec     `yaml:"strategy"`
	Trades      []Trade          `yaml:"trades"`
	Metrics     Metrics          `yaml:"metrics"`
	EquityCurve []float64        `yaml:"equity_curve"`
	BuyAndHold  BuyAndHoldResult `yaml:"buy_and_hold"`
	// DataPath is the path to the market data file used for this run, when
	// the run was driven from a file.
	DataPath string `yaml:"data_path,omitempty"`
}

// WriteBacktestResult writes the result as a YAML document.
func WriteBacktestResult(path string, result *BacktestResult) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal backtest result to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write backtest result to file: %w", err)
	}

	return nil
}
