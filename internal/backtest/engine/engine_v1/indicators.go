package engine

import (
	"strings"

	"github.com/rxtech-lab/strategy-backtest/internal/indicator"
	"github.com/rxtech-lab/strategy-backtest/internal/types"
)

// indicatorSet holds every indicator series a strategy needs, positionally
// aligned with the price series.
type indicatorSet struct {
	closes  []float64
	highs   []float64
	lows    []float64
	volumes []float64

	ma         map[int]indicator.Series
	rsi        indicator.Series
	macd       indicator.MACDLines
	bollinger  indicator.BollingerLines
	stochastic indicator.Series
	williamsR  indicator.Series
	avgVolume  indicator.Series
}

// buildIndicatorSet computes the series the given strategy reads.
func buildIndicatorSet(spec types.StrategySpec, data []types.PricePoint) *indicatorSet {
	set := &indicatorSet{
		closes:  types.Closes(data),
		highs:   types.Highs(data),
		lows:    types.Lows(data),
		volumes: types.Volumes(data),
		ma:      make(map[int]indicator.Series),
	}

	params := spec.Params

	switch spec.Type {
	case types.StrategyTypeMACrossover:
		set.ma[params.FastMA] = indicator.SMASeries(set.closes, params.FastMA)
		set.ma[params.SlowMA] = indicator.SMASeries(set.closes, params.SlowMA)
	case types.StrategyTypeMAPrice:
		set.ma[params.MAPeriod] = indicator.SMASeries(set.closes, params.MAPeriod)
	case types.StrategyTypeRSI, types.StrategyTypeGeneric:
		set.rsi = indicator.RSISeries(set.closes, intOr(params.RSIPeriod, 14))
	case types.StrategyTypeMACD:
		set.macd = indicator.MACDSeries(set.closes, params.FastPeriod, params.SlowPeriod, params.SignalPeriod)
	case types.StrategyTypeBollinger:
		set.bollinger = indicator.BollingerSeries(set.closes, params.Period, params.StdDev)
	case types.StrategyTypeStochastic:
		set.stochastic = indicator.StochasticSeries(set.highs, set.lows, set.closes, intOr(params.Period, 14))
	case types.StrategyTypeWilliamsR:
		set.williamsR = indicator.WilliamsRSeries(set.highs, set.lows, set.closes, intOr(params.Period, 14))
	case types.StrategyTypeVolume:
		set.avgVolume = indicator.SMASeries(set.volumes, params.VolumePeriod)
	case types.StrategyTypeCombined:
		set.buildCombined(params.Conditions)
	}

	return set
}

func (s *indicatorSet) buildCombined(conditions []types.Condition) {
	needsMA := false

	for _, condition := range conditions {
		switch condition.Type {
		case types.ConditionTypeRSIBelow, types.ConditionTypeRSIAbove:
			if s.rsi == nil {
				s.rsi = indicator.RSISeries(s.closes, 14)
			}
		case types.ConditionTypeMACDCrossAbove, types.ConditionTypeMACDCrossBelow:
			if s.macd.MACD == nil {
				s.macd = indicator.MACDSeries(s.closes, 12, 26, 9)
			}
		case types.ConditionTypeBollingerLower, types.ConditionTypeBollingerUpper:
			if s.bollinger.Upper == nil {
				s.bollinger = indicator.BollingerSeries(s.closes, 20, 2)
			}
		case types.ConditionTypeVolumeAbove, types.ConditionTypeVolumeBelow:
			if s.avgVolume == nil {
				s.avgVolume = indicator.SMASeries(s.volumes, intOr(condition.Period, 20))
			}
		case types.ConditionTypeStochasticBelow:
			if s.stochastic == nil {
				s.stochastic = indicator.StochasticSeries(s.highs, s.lows, s.closes, 14)
			}
		case types.ConditionTypeWilliamsRBelow:
			if s.williamsR == nil {
				s.williamsR = indicator.WilliamsRSeries(s.highs, s.lows, s.closes, 14)
			}
		}

		if strings.Contains(string(condition.Type), "ma") {
			needsMA = true
		}
	}

	if !needsMA {
		return
	}

	// Any condition carrying a period contributes a moving average, volume
	// and band periods included.
	for _, condition := range conditions {
		if condition.Period == 0 {
			continue
		}

		if _, ok := s.ma[condition.Period]; !ok {
			s.ma[condition.Period] = indicator.SMASeries(s.closes, condition.Period)
		}
	}
}

// seriesNum returns the value at i, or zero when the entry is undefined. A
// warm-up entry behaves like zero inside a numeric comparison.
func seriesNum(s indicator.Series, i int) float64 {
	if s.Valid(i) {
		return s.Value(i)
	}

	return 0
}

// seriesTruthy reports whether the entry at i is defined and non-zero.
func seriesTruthy(s indicator.Series, i int) bool {
	return s.Valid(i) && s.Value(i) != 0
}

func intOr(v int, fallback int) int {
	if v != 0 {
		return v
	}

	return fallback
}
