package types

import (
	"github.com/moznion/go-optional"
)

// StrategyType identifies the strategy template a description was parsed into.
type StrategyType string

const (
	StrategyTypeUnknown           StrategyType = "unknown"
	StrategyTypeDailyDrop         StrategyType = "daily_drop_strategy"
	StrategyTypePriceChange       StrategyType = "price_change_strategy"
	StrategyTypeRSI               StrategyType = "rsi_strategy"
	StrategyTypeMACrossover       StrategyType = "ma_crossover"
	StrategyTypeMAPrice           StrategyType = "ma_price_strategy"
	StrategyTypeMACD              StrategyType = "macd_strategy"
	StrategyTypeBollinger         StrategyType = "bollinger_strategy"
	StrategyTypeMeanReversion     StrategyType = "mean_reversion"
	StrategyTypeMomentum          StrategyType = "momentum"
	StrategyTypeVolume            StrategyType = "volume_strategy"
	StrategyTypeSupportResistance StrategyType = "support_resistance_strategy"
	StrategyTypeStochastic        StrategyType = "stochastic_strategy"
	StrategyTypeWilliamsR         StrategyType = "williams_r_strategy"
	StrategyTypeCombined          StrategyType = "combined_strategy"
	StrategyTypeGeneric           StrategyType = "generic_strategy"
)

// ConditionType identifies one atomic condition inside a combined strategy.
type ConditionType string

const (
	ConditionTypeUnknown        ConditionType = "unknown"
	ConditionTypePriceDrop      ConditionType = "price_drop"
	ConditionTypePriceIncrease  ConditionType = "price_increase"
	ConditionTypeRSIBelow       ConditionType = "rsi_below"
	ConditionTypeRSIAbove       ConditionType = "rsi_above"
	ConditionTypeVolumeAbove    ConditionType = "volume_above"
	ConditionTypeVolumeBelow    ConditionType = "volume_below"
	ConditionTypePriceAboveMA   ConditionType = "price_above_ma"
	ConditionTypePriceBelowMA   ConditionType = "price_below_ma"
	ConditionTypeMACDCrossAbove ConditionType = "macd_cross_above"
	ConditionTypeMACDCrossBelow ConditionType = "macd_cross_below"
	ConditionTypeBollingerLower ConditionType = "bollinger_lower"
	ConditionTypeBollingerUpper ConditionType = "bollinger_upper"
	ConditionTypeStochasticBelow ConditionType = "stochastic_below"
	ConditionTypeWilliamsRBelow  ConditionType = "williams_r_below"
)

// Condition is one atomic clause of a combined strategy. Threshold and Period
// are meaningful per type: price and oscillator conditions carry a threshold,
// moving-average and volume conditions carry a lookback period.
type Condition struct {
	Type        ConditionType `yaml:"type"`
	Threshold   float64       `yaml:"threshold,omitempty"`
	Period      int           `yaml:"period,omitempty"`
	Description string        `yaml:"description,omitempty"`
}

// Side distinguishes the above/below variants of price-versus-level templates.
type Side string

const (
	SideAbove Side = "above"
	SideBelow Side = "below"
)

// Band selects the Bollinger band a strategy enters at.
type Band string

const (
	BandLower Band = "lower"
	BandUpper Band = "upper"
)

// LevelType distinguishes support from resistance levels.
type LevelType string

const (
	LevelTypeSupport    LevelType = "support"
	LevelTypeResistance LevelType = "resistance"
)

// PeriodUnit is the time unit attached to lookback and exit spans parsed from
// free text. Signal lookbacks are always measured in bars regardless of unit;
// the unit only scales exit spans (week = 7 bars, month = 30 bars).
type PeriodUnit string

const (
	PeriodUnitDay    PeriodUnit = "day"
	PeriodUnitWeek   PeriodUnit = "week"
	PeriodUnitMonth  PeriodUnit = "month"
	PeriodUnitHour   PeriodUnit = "hour"
	PeriodUnitMinute PeriodUnit = "minute"
)

// Bars converts a span expressed in this unit to a bar count.
func (u PeriodUnit) Bars(n int) int {
	switch u {
	case PeriodUnitWeek:
		return n * 7
	case PeriodUnitMonth:
		return n * 30
	default:
		return n
	}
}

// StrategyParams carries the numeric parameters of every template. Only the
// fields belonging to the spec's Type are meaningful.
type StrategyParams struct {
	// daily_drop_strategy
	DropThreshold float64              `yaml:"drop_threshold,omitempty"`
	HoldDays      optional.Option[int] `yaml:"hold_days,omitempty"`

	// price_change_strategy
	ChangeThreshold float64              `yaml:"change_threshold,omitempty"`
	LookbackPeriod  int                  `yaml:"lookback_period,omitempty"`
	LookbackUnit    PeriodUnit           `yaml:"lookback_unit,omitempty"`
	ExitAfter       optional.Option[int] `yaml:"exit_after,omitempty"`
	ExitUnit        PeriodUnit           `yaml:"exit_unit,omitempty"`

	// rsi_strategy, stochastic_strategy, williams_r_strategy
	RSIPeriod  int     `yaml:"rsi_period,omitempty"`
	Oversold   float64 `yaml:"oversold,omitempty"`
	Overbought float64 `yaml:"overbought,omitempty"`

	// ma_crossover
	FastMA int `yaml:"fast_ma,omitempty"`
	SlowMA int `yaml:"slow_ma,omitempty"`

	// ma_price_strategy
	MAPeriod  int  `yaml:"ma_period,omitempty"`
	PriceSide Side `yaml:"price_side,omitempty"`

	// macd_strategy
	FastPeriod   int `yaml:"fast_period,omitempty"`
	SlowPeriod   int `yaml:"slow_period,omitempty"`
	SignalPeriod int `yaml:"signal_period,omitempty"`

	// bollinger_strategy, stochastic_strategy, williams_r_strategy
	Period int     `yaml:"period,omitempty"`
	StdDev float64 `yaml:"std_dev,omitempty"`
	Band   Band    `yaml:"band,omitempty"`

	// mean_reversion, momentum
	Lookback  int     `yaml:"lookback,omitempty"`
	Threshold float64 `yaml:"threshold,omitempty"`

	// volume_strategy
	VolumeSide   Side `yaml:"volume_side,omitempty"`
	VolumePeriod int  `yaml:"volume_period,omitempty"`

	// support_resistance_strategy
	LevelType LevelType                `yaml:"level_type,omitempty"`
	Level     optional.Option[float64] `yaml:"level,omitempty"`

	// generic_strategy
	BuyCondition  string `yaml:"buy_condition,omitempty"`
	SellCondition string `yaml:"sell_condition,omitempty"`

	// combined_strategy
	Conditions    []Condition `yaml:"conditions,omitempty"`
	ExitCondition string      `yaml:"exit_condition,omitempty"`
}

// StrategySpec is the parsed form of a free-text strategy description. A Type
// of StrategyTypeUnknown is terminal: the engine must refuse to simulate it.
type StrategySpec struct {
	Type StrategyType `yaml:"type"`
	// Description is a human-readable summary of what was parsed.
	Description string `yaml:"description"`
	// Source is the original free-text description.
	Source string `yaml:"source,omitempty"`
	// HasExitCondition records whether the description specified how to close
	// a position. When false, exits are risk-control-driven only.
	HasExitCondition bool           `yaml:"has_exit_condition"`
	Params           StrategyParams `yaml:"params"`
}

// IsUnknown reports whether parsing failed to match any strategy shape.
func (s StrategySpec) IsUnknown() bool {
	return s.Type == StrategyTypeUnknown || s.Type == ""
}
