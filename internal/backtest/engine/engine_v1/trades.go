package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/strategy-backtest/internal/backtest/engine"
	"github.com/rxtech-lab/strategy-backtest/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/strategy-backtest/internal/types"
)

// simulation is the single-run execution state: one strategy, one price
// series, one configuration.
type simulation struct {
	spec       types.StrategySpec
	config     BacktestEngineV1Config
	data       []types.PricePoint
	indicators *indicatorSet
	commission commission_fee.CommissionFee
}

func newSimulation(spec types.StrategySpec, config BacktestEngineV1Config, data []types.PricePoint) *simulation {
	return &simulation{
		spec:       spec,
		config:     config,
		data:       data,
		indicators: buildIndicatorSet(spec, data),
		commission: commission_fee.GetCommissionFeeHandler(config.Broker, config.CommissionRate),
	}
}

// run walks the price series bar by bar and returns the completed trades.
// At most one position is open at a time. Whole shares only; entries the
// cash cannot afford are dropped silently.
func (s *simulation) run(ctx context.Context, onProcessData optional.Option[engine.OnProcessDataCallback]) ([]types.Trade, error) {
	trades := []types.Trade{}

	var position *types.Position

	cash := s.config.InitialCapital
	shares := 0.0
	peakEquity := s.config.InitialCapital
	closes := s.indicators.closes
	total := len(s.data)

	closePosition := func(exitIndex int, reason types.ExitReason) {
		price := closes[exitIndex]

		profit := (price - position.EntryPrice) * shares
		if position.Side == types.PositionSideShort {
			profit = (position.EntryPrice - price) * shares
		}

		fee := s.commission.Calculate(position.EntryPrice, shares) + s.commission.Calculate(price, shares)
		netProfit := profit - fee

		trades = append(trades, types.Trade{
			ID:                uuid.NewString(),
			EntryDate:         s.data[position.EntryIndex].Time,
			ExitDate:          s.data[exitIndex].Time,
			EntryPrice:        position.EntryPrice,
			ExitPrice:         price,
			Side:              position.Side,
			Shares:            shares,
			Profit:            netProfit,
			ReturnPct:         (netProfit / (position.EntryPrice * shares)) * 100,
			ExitReason:        reason,
			HoldingPeriodBars: exitIndex - position.EntryIndex,
		})

		if position.Side == types.PositionSideLong {
			cash += price*shares - s.commission.Calculate(price, shares)
		} else {
			cash -= price*shares + s.commission.Calculate(price, shares)
		}

		shares = 0
		position = nil
	}

	for i := 1; i < total; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if onProcessData.IsSome() {
			if err := onProcessData.Unwrap()(i+1, total); err != nil {
				return nil, fmt.Errorf("process data callback failed: %w", err)
			}
		}

		price := closes[i]

		equity := cash
		if position != nil {
			if position.Side == types.PositionSideLong {
				equity = cash + shares*price
			} else {
				// Short proceeds already sit in cash; closing costs the
				// current notional.
				equity = cash - price*shares
			}
		}

		if equity > peakEquity {
			peakEquity = equity
		}

		// Portfolio-wide stop loss. Once tripped, no further trading happens
		// because the drawdown from peak can only be measured, never reset.
		if s.config.OverallStopLoss < 1.0 {
			lossPercent := (peakEquity - equity) / s.config.InitialCapital
			if lossPercent >= 1-s.config.OverallStopLoss {
				if position != nil {
					closePosition(i, types.ExitReasonOverallStopLoss)
				}

				continue
			}
		}

		// Portfolio-wide take profit.
		if s.config.OverallTakeProfit < 1.0 {
			gainPercent := (equity - s.config.InitialCapital) / s.config.InitialCapital
			if gainPercent >= s.config.OverallTakeProfit {
				if position != nil {
					closePosition(i, types.ExitReasonOverallTakeProfit)
				}

				continue
			}
		}

		signal := s.signalAt(position, i)

		if position != nil {
			exitReason := types.ExitReason("")

			// A short signal against a long position is a sell when shorting
			// is disabled; a long signal always covers a short.
			if signal == types.SignalTypeShort && position.Side == types.PositionSideLong && !s.config.AllowShort {
				exitReason = types.ExitReasonStrategySignalSell
			} else if signal == types.SignalTypeLong && position.Side == types.PositionSideShort {
				exitReason = types.ExitReasonStrategySignalCover
			}

			if exitReason == "" && s.config.PerTradeStopLoss < 1.0 && position.StopLoss.IsSome() {
				stop := position.StopLoss.Unwrap()
				if (position.Side == types.PositionSideLong && price <= stop) ||
					(position.Side == types.PositionSideShort && price >= stop) {
					exitReason = types.ExitReasonStopLoss
				}
			}

			if exitReason == "" && s.config.PerTradeTakeProfit < 1.0 {
				profitPercent := (price - position.EntryPrice) / position.EntryPrice
				if position.Side == types.PositionSideShort {
					profitPercent = (position.EntryPrice - price) / position.EntryPrice
				}

				if profitPercent >= s.config.PerTradeTakeProfit {
					exitReason = types.ExitReasonTakeProfit
				}
			}

			if exitReason == "" && s.config.MaxHoldingPeriod.IsSome() {
				if i-position.EntryIndex >= s.config.MaxHoldingPeriod.Unwrap() {
					exitReason = types.ExitReasonMaxHoldingPeriod
				}
			}

			if exitReason != "" {
				closePosition(i, exitReason)

				if exitReason.IsStrategySignal() {
					// The signal was consumed by the exit.
					signal = types.SignalTypeNone
				} else if exitReason.IsRiskControl() {
					// Market conditions may still warrant a position; check
					// again for a same-bar re-entry.
					signal = s.reentrySignalAt(i)
				}
			}
		}

		if position == nil && signal != types.SignalTypeNone {
			if signal == types.SignalTypeShort && !s.config.AllowShort {
				signal = types.SignalTypeNone
			}

			if signal != types.SignalTypeNone {
				quantity := s.commission.MaxQuantity(price, cash)

				if quantity > 0 {
					if signal == types.SignalTypeLong {
						cash -= price*quantity + s.commission.Calculate(price, quantity)
					} else {
						cash += price*quantity - s.commission.Calculate(price, quantity)
					}

					stopLoss := optional.None[float64]()

					if s.config.PerTradeStopLoss < 1.0 {
						lossThreshold := 1 - s.config.PerTradeStopLoss
						if signal == types.SignalTypeLong {
							stopLoss = optional.Some(price * lossThreshold)
						} else {
							stopLoss = optional.Some(price / lossThreshold)
						}
					}

					side := types.PositionSideLong
					if signal == types.SignalTypeShort {
						side = types.PositionSideShort
					}

					shares = quantity
					position = &types.Position{
						Side:       side,
						EntryPrice: price,
						EntryIndex: i,
						StopLoss:   stopLoss,
					}
				}
			}
		}
	}

	if position != nil {
		closePosition(total-1, types.ExitReasonEndOfPeriod)
	}

	return trades, nil
}
