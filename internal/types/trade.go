package types

import (
	"strings"
	"time"

	"github.com/moznion/go-optional"
)

// PositionSide is the direction of an open position or a recorded trade.
type PositionSide string

const (
	PositionSideLong  PositionSide = "long"
	PositionSideShort PositionSide = "short"
)

// ExitReason records why a trade was closed.
type ExitReason string

const (
	ExitReasonStrategySignalSell  ExitReason = "Strategy Signal (Sell)"
	ExitReasonStrategySignalCover ExitReason = "Strategy Signal (Buy to Close)"
	ExitReasonStopLoss            ExitReason = "Stop Loss"
	ExitReasonTakeProfit          ExitReason = "Take Profit"
	ExitReasonMaxHoldingPeriod    ExitReason = "Max Holding Period"
	ExitReasonOverallStopLoss     ExitReason = "Overall Stop Loss"
	ExitReasonOverallTakeProfit   ExitReason = "Overall Take Profit"
	ExitReasonEndOfPeriod         ExitReason = "End of Period"
)

// IsStrategySignal reports whether the exit was triggered by the strategy
// itself rather than a risk control. A signal that closed a position is
// consumed and must not open a new one on the same bar.
func (r ExitReason) IsStrategySignal() bool {
	return strings.HasPrefix(string(r), "Strategy Signal")
}

// IsRiskControl reports whether the exit allows a same-bar signal
// re-evaluation for re-entry.
func (r ExitReason) IsRiskControl() bool {
	switch r {
	case ExitReasonStopLoss, ExitReasonTakeProfit, ExitReasonMaxHoldingPeriod:
		return true
	default:
		return false
	}
}

// Position is the engine-owned state of an open trade. It exists only while
// the state machine is in the open state and is destroyed exactly when the
// corresponding Trade is recorded.
type Position struct {
	Side       PositionSide
	EntryPrice float64
	EntryIndex int
	// StopLoss is the fixed per-trade stop price computed at entry. None when
	// the per-trade stop loss is disabled.
	StopLoss optional.Option[float64]
}

// Trade is one completed round trip. Immutable once appended to the run's
// trade list.
type Trade struct {
	ID         string       `yaml:"id" csv:"id"`
	EntryDate  time.Time    `yaml:"entry_date" csv:"entry_date"`
	ExitDate   time.Time    `yaml:"exit_date" csv:"exit_date"`
	EntryPrice float64      `yaml:"entry_price" csv:"entry_price"`
	ExitPrice  float64      `yaml:"exit_price" csv:"exit_price"`
	Side       PositionSide `yaml:"side" csv:"side"`
	// Shares is a whole number of shares; fractional entry is never allowed.
	Shares float64 `yaml:"shares" csv:"shares"`
	// Profit is the net profit after commission on both sides.
	Profit float64 `yaml:"profit" csv:"profit"`
	// ReturnPct is Profit relative to the entry notional, in percent.
	ReturnPct         float64    `yaml:"return_pct" csv:"return_pct"`
	ExitReason        ExitReason `yaml:"exit_reason" csv:"exit_reason"`
	HoldingPeriodBars int        `yaml:"holding_period_bars" csv:"holding_period_bars"`
}
