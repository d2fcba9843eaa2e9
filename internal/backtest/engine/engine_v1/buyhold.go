package engine

import (
	"github.com/google/uuid"
	"github.com/rxtech-lab/strategy-backtest/internal/types"
)

// buyAndHold computes the passive baseline: buy as many whole shares as the
// capital affords at the first close, hold, and sell at the last close. The
// series is independent of the strategy's series so the baseline can track a
// different symbol.
func (s *simulation) buyAndHold(points []types.PricePoint) types.BuyAndHoldResult {
	initial := s.config.InitialCapital

	if len(points) == 0 {
		return types.BuyAndHoldResult{
			Trades:      []types.Trade{},
			Metrics:     types.Metrics{FinalEquity: initial},
			EquityCurve: []float64{initial},
		}
	}

	firstPrice := points[0].Close
	lastPrice := points[len(points)-1].Close

	shares := s.commission.MaxQuantity(firstPrice, initial)

	cost := 0.0
	if shares > 0 {
		cost = firstPrice*shares + s.commission.Calculate(firstPrice, shares)
	}

	remainingCash := initial - cost

	finalValue := remainingCash
	if shares > 0 {
		finalValue += lastPrice*shares - s.commission.Calculate(lastPrice, shares)
	}

	totalReturn := ((finalValue - initial) / initial) * 100

	// Commission applies only on the actual sale, not on daily valuation.
	curve := make([]float64, len(points))
	for i, point := range points {
		curve[i] = point.Close*shares + remainingCash
	}

	// Sharpe over daily equity returns, against the 2% annual rate prorated
	// to a 252-day year.
	sharpe := 0.0

	if len(curve) > 1 {
		dailyReturns := make([]float64, 0, len(curve)-1)
		for i := 1; i < len(curve); i++ {
			dailyReturns = append(dailyReturns, ((curve[i]-curve[i-1])/curve[i-1])*100)
		}

		avgReturn, stdDev := windowStats(dailyReturns)
		if stdDev > 0 {
			sharpe = (avgReturn - 2.0/252) / stdDev
		}
	}

	return types.BuyAndHoldResult{
		Trades: []types.Trade{{
			ID:                uuid.NewString(),
			EntryDate:         points[0].Time,
			ExitDate:          points[len(points)-1].Time,
			EntryPrice:        firstPrice,
			ExitPrice:         lastPrice,
			Side:              types.PositionSideLong,
			Shares:            shares,
			Profit:            finalValue - initial,
			ReturnPct:         totalReturn,
			ExitReason:        types.ExitReasonEndOfPeriod,
			HoldingPeriodBars: len(points) - 1,
		}},
		Metrics: types.Metrics{
			TotalReturn:      totalReturn,
			AnnualizedReturn: annualizedReturnPercent(totalReturn, points[0].Time, points[len(points)-1].Time),
			SharpeRatio:      sharpe,
			MaxDrawdown:      maxDrawdownPercent(curve, initial),
			FinalEquity:      finalValue,
		},
		EquityCurve: curve,
	}
}
