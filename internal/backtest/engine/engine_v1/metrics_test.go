package engine

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/strategy-backtest/internal/types"
	"github.com/stretchr/testify/suite"
)

type MetricsTestSuite struct {
	suite.Suite
}

func TestMetricsSuite(t *testing.T) {
	suite.Run(t, new(MetricsTestSuite))
}

func (suite *MetricsTestSuite) newSim(closes ...float64) *simulation {
	return newSimulation(dailyDropSpec(0.05, optional.None[int]()), EmptyConfig(), pricePoints(closes...))
}

func (suite *MetricsTestSuite) TestMetricsAggregation() {
	sim := suite.newSim(100, 101, 102)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	trades := []types.Trade{
		{
			EntryDate:         base,
			ExitDate:          base.AddDate(0, 0, 3),
			Profit:            100,
			ReturnPct:         5,
			HoldingPeriodBars: 3,
		},
		{
			EntryDate:         base.AddDate(0, 0, 4),
			ExitDate:          base.AddDate(0, 0, 8),
			Profit:            -50,
			ReturnPct:         -2.5,
			HoldingPeriodBars: 4,
		},
	}

	curve := []float64{10000, 9950, 10050}

	m := sim.metrics(trades, curve)

	suite.InDelta(10050.0, m.FinalEquity, 1e-9)
	suite.InDelta(0.5, m.TotalReturn, 1e-9)
	suite.Equal(2, m.TotalTrades)
	suite.Equal(1, m.WinningTrades)
	suite.Equal(1, m.LosingTrades)
	suite.InDelta(50.0, m.WinRate, 1e-9)
	suite.InDelta(2.0, m.ProfitFactor, 1e-9)
	suite.InDelta(100.0, m.AverageWin, 1e-9)
	suite.InDelta(-50.0, m.AverageLoss, 1e-9)
	suite.InDelta(100.0, m.LargestWin, 1e-9)
	suite.InDelta(-50.0, m.LargestLoss, 1e-9)
	// Half a bar rounds up.
	suite.Equal(4, m.AverageHoldingPeriod)
	// Per-trade Sharpe: mean 1.25, population std 3.75, 2% hurdle.
	suite.InDelta(-0.2, m.SharpeRatio, 1e-9)
	// Peak 10000 to trough 9950.
	suite.InDelta(0.5, m.MaxDrawdown, 1e-9)
}

func (suite *MetricsTestSuite) TestMetricsEmptyTrades() {
	sim := suite.newSim(100, 101, 102)

	m := sim.metrics(nil, []float64{10000, 10000, 10000})

	suite.Equal(0, m.TotalTrades)
	suite.InDelta(0.0, m.TotalReturn, 1e-9)
	suite.InDelta(0.0, m.SharpeRatio, 1e-9)
	suite.InDelta(0.0, m.ProfitFactor, 1e-9)
	suite.InDelta(10000.0, m.FinalEquity, 1e-9)
}

func (suite *MetricsTestSuite) TestAnnualizedReturnShortSpanIsZero() {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	suite.InDelta(0.0, annualizedReturnPercent(10, now, now), 1e-9)
}

func (suite *MetricsTestSuite) TestAnnualizedReturnCompounds() {
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	// 252 days is one trading year, so the annualized return equals the
	// total return.
	last := first.AddDate(0, 0, 252)

	suite.InDelta(10.0, annualizedReturnPercent(10, first, last), 1e-9)
}

func (suite *MetricsTestSuite) TestMaxDrawdownSeededAtInitialCapital() {
	// The curve never exceeds the initial capital, so the drawdown is
	// measured against it, not against the first curve value.
	curve := []float64{9900, 9800, 9900}

	suite.InDelta(2.0, maxDrawdownPercent(curve, 10000), 1e-9)
}

func (suite *MetricsTestSuite) TestBuyAndHoldFormula() {
	sim := suite.newSim(100, 105, 110)

	result := sim.buyAndHold(sim.data)

	// floor(10000 / (100 * 1.001)) = 99 shares, 90.1 cash left over.
	suite.Require().Len(result.Trades, 1)

	trade := result.Trades[0]
	suite.InDelta(99.0, trade.Shares, 1e-9)
	suite.InDelta(100.0, trade.EntryPrice, 1e-9)
	suite.InDelta(110.0, trade.ExitPrice, 1e-9)
	suite.Equal(types.PositionSideLong, trade.Side)
	suite.Equal(types.ExitReasonEndOfPeriod, trade.ExitReason)
	suite.Equal(2, trade.HoldingPeriodBars)

	// Final value: 110 * 99 * 0.999 + 90.1.
	suite.InDelta(10969.21, result.Metrics.FinalEquity, 1e-6)
	suite.InDelta(9.6921, result.Metrics.TotalReturn, 1e-6)
	suite.InDelta(result.Metrics.FinalEquity-10000, trade.Profit, 1e-9)

	// The curve values the holding at each close without a sale commission.
	suite.Require().Len(result.EquityCurve, 3)
	suite.InDelta(9990.1, result.EquityCurve[0], 1e-6)
	suite.InDelta(10485.1, result.EquityCurve[1], 1e-6)
	suite.InDelta(10980.1, result.EquityCurve[2], 1e-6)

	// Entry-day dip below the initial capital is the only drawdown.
	suite.InDelta(0.099, result.Metrics.MaxDrawdown, 1e-6)
}

func (suite *MetricsTestSuite) TestBuyAndHoldEmptySeries() {
	sim := suite.newSim(100, 101, 102)

	result := sim.buyAndHold(nil)

	suite.Empty(result.Trades)
	suite.Equal([]float64{10000}, result.EquityCurve)
	suite.InDelta(10000.0, result.Metrics.FinalEquity, 1e-9)
	suite.InDelta(0.0, result.Metrics.TotalReturn, 1e-9)
}

func (suite *MetricsTestSuite) TestBuyAndHoldUnaffordablePrice() {
	sim := suite.newSim(100, 101, 102)

	result := sim.buyAndHold(pricePoints(1000000, 1100000, 1200000))

	suite.Require().Len(result.Trades, 1)
	suite.InDelta(0.0, result.Trades[0].Shares, 1e-9)
	suite.InDelta(0.0, result.Trades[0].Profit, 1e-9)
	suite.InDelta(10000.0, result.Metrics.FinalEquity, 1e-9)
	suite.InDelta(0.0, result.Metrics.TotalReturn, 1e-9)

	for _, equity := range result.EquityCurve {
		suite.InDelta(10000.0, equity, 1e-9)
	}
}

func (suite *MetricsTestSuite) TestBuyAndHoldSharpeFlatSeriesIsZero() {
	sim := suite.newSim(100, 101, 102)

	result := sim.buyAndHold(pricePoints(100, 100, 100))

	suite.InDelta(0.0, result.Metrics.SharpeRatio, 1e-9)
}
