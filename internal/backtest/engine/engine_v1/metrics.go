package engine

import (
	"math"
	"time"

	"github.com/rxtech-lab/strategy-backtest/internal/types"
)

const dayMillis = int64(24 * time.Hour / time.Millisecond)

// equityCurve replays the completed trades over the price series and returns
// a per-bar equity value. The replay re-derives cash flow from the trade list
// instead of trusting intermediate state, so the curve stays consistent with
// the reported trades.
func (s *simulation) equityCurve(trades []types.Trade) []float64 {
	type openState struct {
		side       types.PositionSide
		shares     float64
		tradeIndex int
	}

	var position *openState

	cash := s.config.InitialCapital
	curve := make([]float64, 0, len(s.data))

	exitsByDate := make(map[int64][]int)
	for idx, trade := range trades {
		exit := trade.ExitDate.UnixMilli()
		exitsByDate[exit] = append(exitsByDate[exit], idx)
	}

	for i := range s.data {
		current := s.data[i].Time.UnixMilli()
		price := s.indicators.closes[i]

		// Close first so a same-bar exit frees the slot for the next entry.
		if position != nil {
			for _, idx := range exitsByDate[current] {
				if idx != position.tradeIndex {
					continue
				}

				if position.side == types.PositionSideLong {
					cash += price*position.shares - s.commission.Calculate(price, position.shares)
				} else {
					cash -= price*position.shares + s.commission.Calculate(price, position.shares)
				}

				position = nil

				break
			}
		}

		if position == nil {
			// Exact entry-date matches first, then entries within a day of
			// this bar. The tolerance absorbs timezone skew in the source
			// data.
			candidates := make([]int, 0)

			for idx, trade := range trades {
				if trade.EntryDate.UnixMilli() == current {
					candidates = append(candidates, idx)
				}
			}

			for idx, trade := range trades {
				entry := trade.EntryDate.UnixMilli()
				if entry != current && absInt64(entry-current) < dayMillis {
					candidates = append(candidates, idx)
				}
			}

			for _, idx := range candidates {
				trade := trades[idx]
				if trade.ExitDate.UnixMilli() < current {
					continue
				}

				if trade.Side == types.PositionSideLong {
					cash -= trade.EntryPrice*trade.Shares + s.commission.Calculate(trade.EntryPrice, trade.Shares)
				} else {
					cash += trade.EntryPrice*trade.Shares - s.commission.Calculate(trade.EntryPrice, trade.Shares)
				}

				position = &openState{
					side:       trade.Side,
					shares:     trade.Shares,
					tradeIndex: idx,
				}

				break
			}
		}

		equity := cash
		if position != nil {
			if position.side == types.PositionSideLong {
				equity = cash + price*position.shares
			} else {
				equity = cash - price*position.shares
			}
		}

		curve = append(curve, equity)
	}

	return curve
}

// metrics aggregates the performance statistics for one run.
func (s *simulation) metrics(trades []types.Trade, equityCurve []float64) types.Metrics {
	m := types.Metrics{FinalEquity: s.config.InitialCapital}
	if len(equityCurve) > 0 {
		m.FinalEquity = equityCurve[len(equityCurve)-1]
	}

	if len(trades) == 0 {
		return m
	}

	initial := s.config.InitialCapital
	m.TotalReturn = ((m.FinalEquity - initial) / initial) * 100
	m.AnnualizedReturn = annualizedReturnPercent(m.TotalReturn, s.data[0].Time, s.data[len(s.data)-1].Time)
	m.MaxDrawdown = maxDrawdownPercent(equityCurve, initial)
	m.TotalTrades = len(trades)

	returns := make([]float64, len(trades))
	holdingSum := 0.0
	grossProfit := 0.0
	grossLoss := 0.0

	for i, trade := range trades {
		returns[i] = trade.ReturnPct
		holdingSum += float64(trade.HoldingPeriodBars)

		switch {
		case trade.Profit > 0:
			m.WinningTrades++
			grossProfit += trade.Profit
			m.AverageWin += trade.Profit

			if trade.Profit > m.LargestWin {
				m.LargestWin = trade.Profit
			}
		case trade.Profit < 0:
			m.LosingTrades++
			grossLoss += math.Abs(trade.Profit)
			m.AverageLoss += trade.Profit

			if trade.Profit < m.LargestLoss {
				m.LargestLoss = trade.Profit
			}
		}
	}

	// Per-trade Sharpe against a 2% risk-free hurdle.
	avgReturn, stdDev := windowStats(returns)
	if stdDev > 0 {
		m.SharpeRatio = (avgReturn - 2) / stdDev
	}

	m.WinRate = (float64(m.WinningTrades) / float64(len(trades))) * 100

	switch {
	case grossLoss > 0:
		m.ProfitFactor = grossProfit / grossLoss
	case grossProfit > 0:
		m.ProfitFactor = math.Inf(1)
	}

	if m.WinningTrades > 0 {
		m.AverageWin /= float64(m.WinningTrades)
	}

	if m.LosingTrades > 0 {
		m.AverageLoss /= float64(m.LosingTrades)
	}

	m.AverageHoldingPeriod = int(math.Round(holdingSum / float64(len(trades))))

	return m
}

// annualizedReturnPercent compounds the total return over the calendar span,
// counted in 252-day years.
func annualizedReturnPercent(totalReturn float64, first, last time.Time) float64 {
	days := last.Sub(first).Hours() / 24
	years := days / 252

	if years <= 0 {
		return 0
	}

	return (math.Pow(1+totalReturn/100, 1/years) - 1) * 100
}

// maxDrawdownPercent measures the largest peak-to-trough decline, with the
// peak seeded at the initial capital.
func maxDrawdownPercent(curve []float64, initial float64) float64 {
	maxDrawdown := 0.0
	peak := initial

	for _, equity := range curve {
		if equity > peak {
			peak = equity
		}

		drawdown := ((peak - equity) / peak) * 100
		if drawdown > maxDrawdown {
			maxDrawdown = drawdown
		}
	}

	return maxDrawdown
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}

	return v
}
