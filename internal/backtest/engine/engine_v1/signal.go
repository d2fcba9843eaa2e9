package engine

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/rxtech-lab/strategy-backtest/internal/indicator"
	"github.com/rxtech-lab/strategy-backtest/internal/types"
)

var reFirstInteger = regexp.MustCompile(`(\d+)`)

// signalAt produces the bar's directional signal for the configured strategy.
// It sees the open position because the time-based templates emit their exit
// through the signal itself.
func (s *simulation) signalAt(position *types.Position, i int) types.SignalType {
	price := s.indicators.closes[i]
	prevPrice := s.indicators.closes[i-1]
	params := s.spec.Params
	hasExit := s.spec.HasExitCondition

	switch s.spec.Type {
	case types.StrategyTypeCombined:
		if len(params.Conditions) == 0 {
			return types.SignalTypeNone
		}

		for _, condition := range params.Conditions {
			met, evaluable := s.evaluateCondition(condition, i)
			if !evaluable || !met {
				return types.SignalTypeNone
			}
		}

		// Combined strategies only ever enter long.
		return types.SignalTypeLong

	case types.StrategyTypeDailyDrop:
		signal := types.SignalTypeNone

		dayChange := (price - prevPrice) / prevPrice
		if dayChange < 0 && math.Abs(dayChange)*100 >= params.DropThreshold*100 {
			signal = types.SignalTypeLong
		}

		if position != nil && position.Side == types.PositionSideLong && params.HoldDays.IsSome() {
			if i-position.EntryIndex >= params.HoldDays.Unwrap() {
				signal = types.SignalTypeShort
			}
		}

		return signal

	case types.StrategyTypePriceChange:
		if i < params.LookbackPeriod {
			return types.SignalTypeNone
		}

		signal := types.SignalTypeNone

		pastPrice := s.indicators.closes[i-params.LookbackPeriod]
		change := (price - pastPrice) / pastPrice

		if params.ChangeThreshold > 0 && change >= params.ChangeThreshold {
			signal = types.SignalTypeLong
		} else if params.ChangeThreshold < 0 && change <= params.ChangeThreshold {
			signal = types.SignalTypeLong
		}

		if position != nil && position.Side == types.PositionSideLong {
			if params.ExitAfter.IsSome() {
				exitBars := params.ExitUnit.Bars(params.ExitAfter.Unwrap())
				if i-position.EntryIndex >= exitBars {
					signal = types.SignalTypeShort
				}
			} else if hasExit {
				if params.ChangeThreshold > 0 && change < 0 {
					signal = types.SignalTypeShort
				} else if params.ChangeThreshold < 0 && change > 0 {
					signal = types.SignalTypeShort
				}
			}
		}

		return signal

	case types.StrategyTypeGeneric:
		if params.BuyCondition == "" || params.SellCondition == "" {
			return types.SignalTypeNone
		}

		signal := types.SignalTypeNone
		buy := strings.ToLower(params.BuyCondition)
		sell := strings.ToLower(params.SellCondition)

		if strings.Contains(buy, "rsi") && strings.Contains(buy, "below") && s.indicators.rsi.Valid(i) {
			if s.indicators.rsi.Value(i) < phraseThreshold(buy, 30) {
				signal = types.SignalTypeLong
			}
		}

		if strings.Contains(sell, "rsi") && strings.Contains(sell, "above") && s.indicators.rsi.Valid(i) {
			if s.indicators.rsi.Value(i) > phraseThreshold(sell, 70) {
				signal = types.SignalTypeShort
			}
		}

		return signal

	case types.StrategyTypeMACrossover:
		fast := s.indicators.ma[params.FastMA]
		slow := s.indicators.ma[params.SlowMA]

		if i < params.SlowMA-1 || !seriesTruthy(fast, i) || !seriesTruthy(slow, i) {
			return types.SignalTypeNone
		}

		fastAbove := fast.Value(i) > slow.Value(i)
		prevFastAbove := seriesNum(fast, i-1) > seriesNum(slow, i-1)

		if fastAbove && !prevFastAbove {
			return types.SignalTypeLong
		}

		if hasExit && !fastAbove && prevFastAbove {
			return types.SignalTypeShort
		}

		return types.SignalTypeNone

	case types.StrategyTypeMAPrice:
		ma := s.indicators.ma[params.MAPeriod]
		if !ma.Valid(i) {
			return types.SignalTypeNone
		}

		isAbove := price > ma.Value(i)
		prevIsAbove := prevPrice > seriesNum(ma, i-1)

		switch {
		case params.PriceSide == types.SideAbove && isAbove && !prevIsAbove:
			return types.SignalTypeLong
		case params.PriceSide == types.SideBelow && !isAbove && prevIsAbove:
			return types.SignalTypeLong
		case hasExit && params.PriceSide == types.SideAbove && !isAbove && prevIsAbove:
			return types.SignalTypeShort
		case hasExit && params.PriceSide == types.SideBelow && isAbove && !prevIsAbove:
			return types.SignalTypeShort
		}

		return types.SignalTypeNone

	case types.StrategyTypeRSI:
		return oscillatorSignal(s.indicators.rsi, i, params.Oversold, params.Overbought, hasExit)

	case types.StrategyTypeMACD:
		return macdCrossSignal(s.indicators.macd, i, hasExit)

	case types.StrategyTypeBollinger:
		upper := s.indicators.bollinger.Upper
		lower := s.indicators.bollinger.Lower

		if !seriesTruthy(upper, i) || !seriesTruthy(lower, i) {
			return types.SignalTypeNone
		}

		switch {
		case params.Band == types.BandLower && price <= lower.Value(i) && prevPrice > lower.Value(i):
			return types.SignalTypeLong
		case params.Band == types.BandUpper && price >= upper.Value(i) && prevPrice < upper.Value(i):
			return types.SignalTypeLong
		case hasExit && params.Band == types.BandLower && price >= upper.Value(i) && prevPrice < upper.Value(i):
			return types.SignalTypeShort
		case hasExit && params.Band == types.BandUpper && price <= lower.Value(i) && prevPrice > lower.Value(i):
			return types.SignalTypeShort
		}

		return types.SignalTypeNone

	case types.StrategyTypeMeanReversion:
		if i < params.Lookback {
			return types.SignalTypeNone
		}

		mean, std := windowStats(s.indicators.closes[i-params.Lookback : i])

		if price < mean-std*params.Threshold {
			return types.SignalTypeLong
		}

		if hasExit && price > mean+std*params.Threshold {
			return types.SignalTypeShort
		}

		return types.SignalTypeNone

	case types.StrategyTypeMomentum:
		if i < params.Period {
			return types.SignalTypeNone
		}

		momentum := (price/s.indicators.closes[i-params.Period] - 1) * 100

		if momentum > params.Threshold*100 {
			return types.SignalTypeLong
		}

		if hasExit && momentum < -params.Threshold*100 {
			return types.SignalTypeShort
		}

		return types.SignalTypeNone

	case types.StrategyTypeVolume:
		avg := s.indicators.avgVolume
		volume := s.indicators.volumes[i]

		if !avg.Valid(i) || volume == 0 {
			return types.SignalTypeNone
		}

		isAbove := volume > avg.Value(i)
		prevIsAbove := s.indicators.volumes[i-1] > seriesNum(avg, i-1)

		// Above-average volume only confirms an entry on a rising close.
		// Volume strategies never emit a short signal.
		if params.VolumeSide == types.SideAbove && isAbove && !prevIsAbove && price > prevPrice {
			return types.SignalTypeLong
		}

		if params.VolumeSide == types.SideBelow && !isAbove && prevIsAbove {
			return types.SignalTypeLong
		}

		return types.SignalTypeNone

	case types.StrategyTypeSupportResistance:
		if params.Level.IsNone() || params.Level.Unwrap() == 0 {
			return types.SignalTypeNone
		}

		level := params.Level.Unwrap()
		isAbove := price > level
		prevIsAbove := prevPrice > level

		switch {
		case params.LevelType == types.LevelTypeSupport && !isAbove && prevIsAbove:
			return types.SignalTypeLong
		case params.LevelType == types.LevelTypeResistance && isAbove && !prevIsAbove:
			return types.SignalTypeLong
		case hasExit && params.LevelType == types.LevelTypeSupport && isAbove && !prevIsAbove:
			return types.SignalTypeShort
		case hasExit && params.LevelType == types.LevelTypeResistance && !isAbove && prevIsAbove:
			return types.SignalTypeShort
		}

		return types.SignalTypeNone

	case types.StrategyTypeStochastic:
		return oscillatorSignal(s.indicators.stochastic, i, params.Oversold, params.Overbought, hasExit)

	case types.StrategyTypeWilliamsR:
		return oscillatorSignal(s.indicators.williamsR, i, params.Oversold, params.Overbought, hasExit)
	}

	return types.SignalTypeNone
}

// reentrySignalAt re-evaluates the signal after a risk-control exit. Only the
// six indicator-driven templates re-enter, and the exit-condition gate does
// not apply to them here.
func (s *simulation) reentrySignalAt(i int) types.SignalType {
	price := s.indicators.closes[i]
	prevPrice := s.indicators.closes[i-1]
	params := s.spec.Params

	switch s.spec.Type {
	case types.StrategyTypeMACrossover:
		fast := s.indicators.ma[params.FastMA]
		slow := s.indicators.ma[params.SlowMA]

		if i < params.SlowMA-1 || !seriesTruthy(fast, i) || !seriesTruthy(slow, i) {
			return types.SignalTypeNone
		}

		fastAbove := fast.Value(i) > slow.Value(i)
		prevFastAbove := seriesNum(fast, i-1) > seriesNum(slow, i-1)

		if fastAbove && !prevFastAbove {
			return types.SignalTypeLong
		}

		if !fastAbove && prevFastAbove {
			return types.SignalTypeShort
		}

	case types.StrategyTypeRSI:
		return oscillatorSignal(s.indicators.rsi, i, params.Oversold, params.Overbought, true)

	case types.StrategyTypeMACD:
		return macdCrossSignal(s.indicators.macd, i, true)

	case types.StrategyTypeBollinger:
		upper := s.indicators.bollinger.Upper
		lower := s.indicators.bollinger.Lower

		if !seriesTruthy(upper, i) || !seriesTruthy(lower, i) {
			return types.SignalTypeNone
		}

		// On re-entry the band parameter is ignored: a lower-band touch goes
		// long and an upper-band touch goes short.
		if price <= lower.Value(i) && prevPrice > lower.Value(i) {
			return types.SignalTypeLong
		}

		if price >= upper.Value(i) && prevPrice < upper.Value(i) {
			return types.SignalTypeShort
		}

	case types.StrategyTypeMeanReversion:
		if i < params.Lookback {
			return types.SignalTypeNone
		}

		mean, std := windowStats(s.indicators.closes[i-params.Lookback : i])

		if price < mean-std*params.Threshold {
			return types.SignalTypeLong
		}

		if price > mean+std*params.Threshold {
			return types.SignalTypeShort
		}

	case types.StrategyTypeMomentum:
		if i < params.Period {
			return types.SignalTypeNone
		}

		momentum := (price/s.indicators.closes[i-params.Period] - 1) * 100

		if momentum > params.Threshold*100 {
			return types.SignalTypeLong
		}

		if momentum < -params.Threshold*100 {
			return types.SignalTypeShort
		}
	}

	return types.SignalTypeNone
}

// evaluateCondition reports whether one combined-strategy condition is met
// and whether it could be evaluated at all on this bar.
func (s *simulation) evaluateCondition(condition types.Condition, i int) (met bool, evaluable bool) {
	price := s.indicators.closes[i]
	prevPrice := s.indicators.closes[i-1]

	switch condition.Type {
	case types.ConditionTypePriceDrop:
		dayChange := (price - prevPrice) / prevPrice

		return dayChange < 0 && math.Abs(dayChange) >= condition.Threshold, true

	case types.ConditionTypePriceIncrease:
		dayChange := (price - prevPrice) / prevPrice

		return dayChange >= condition.Threshold, true

	case types.ConditionTypeRSIBelow:
		if !s.indicators.rsi.Valid(i) {
			return false, false
		}

		return s.indicators.rsi.Value(i) < condition.Threshold, true

	case types.ConditionTypeRSIAbove:
		if !s.indicators.rsi.Valid(i) {
			return false, false
		}

		return s.indicators.rsi.Value(i) > condition.Threshold, true

	case types.ConditionTypeVolumeAbove:
		if !s.indicators.avgVolume.Valid(i) || s.indicators.volumes[i] == 0 {
			return false, false
		}

		return s.indicators.volumes[i] > s.indicators.avgVolume.Value(i), true

	case types.ConditionTypeVolumeBelow:
		if !s.indicators.avgVolume.Valid(i) || s.indicators.volumes[i] == 0 {
			return false, false
		}

		return s.indicators.volumes[i] < s.indicators.avgVolume.Value(i), true

	case types.ConditionTypePriceAboveMA:
		ma := s.indicators.ma[condition.Period]
		if !ma.Valid(i) {
			return false, false
		}

		return price > ma.Value(i), true

	case types.ConditionTypePriceBelowMA:
		ma := s.indicators.ma[condition.Period]
		if !ma.Valid(i) {
			return false, false
		}

		return price < ma.Value(i), true

	case types.ConditionTypeMACDCrossAbove, types.ConditionTypeMACDCrossBelow:
		macd := s.indicators.macd.MACD
		signal := s.indicators.macd.Signal

		if !macd.Valid(i) || !signal.Valid(i) {
			return false, false
		}

		macdAbove := macd.Value(i) > signal.Value(i)
		prevMACDAbove := seriesNum(macd, i-1) > seriesNum(signal, i-1)

		if condition.Type == types.ConditionTypeMACDCrossAbove {
			return macdAbove && !prevMACDAbove, true
		}

		return !macdAbove && prevMACDAbove, true

	case types.ConditionTypeBollingerLower:
		lower := s.indicators.bollinger.Lower
		if !lower.Valid(i) {
			return false, false
		}

		return price <= lower.Value(i) && prevPrice > lower.Value(i), true

	case types.ConditionTypeBollingerUpper:
		upper := s.indicators.bollinger.Upper
		if !upper.Valid(i) {
			return false, false
		}

		return price >= upper.Value(i) && prevPrice < upper.Value(i), true

	case types.ConditionTypeStochasticBelow:
		if !s.indicators.stochastic.Valid(i) {
			return false, false
		}

		return s.indicators.stochastic.Value(i) < condition.Threshold, true

	case types.ConditionTypeWilliamsRBelow:
		if !s.indicators.williamsR.Valid(i) {
			return false, false
		}

		return s.indicators.williamsR.Value(i) < condition.Threshold, true
	}

	return false, false
}

// oscillatorSignal enters long when the oscillator crosses down through the
// oversold level, and exits when it crosses up through the overbought level.
func oscillatorSignal(series indicator.Series, i int, oversold, overbought float64, hasExit bool) types.SignalType {
	if !series.Valid(i) {
		return types.SignalTypeNone
	}

	value := series.Value(i)
	prev := seriesNum(series, i-1)

	if value < oversold && prev >= oversold {
		return types.SignalTypeLong
	}

	if hasExit && value > overbought && prev <= overbought {
		return types.SignalTypeShort
	}

	return types.SignalTypeNone
}

func macdCrossSignal(lines indicator.MACDLines, i int, hasExit bool) types.SignalType {
	if !lines.MACD.Valid(i) || !lines.Signal.Valid(i) {
		return types.SignalTypeNone
	}

	macdAbove := lines.MACD.Value(i) > lines.Signal.Value(i)
	prevMACDAbove := seriesNum(lines.MACD, i-1) > seriesNum(lines.Signal, i-1)

	if macdAbove && !prevMACDAbove {
		return types.SignalTypeLong
	}

	if hasExit && !macdAbove && prevMACDAbove {
		return types.SignalTypeShort
	}

	return types.SignalTypeNone
}

// phraseThreshold extracts the first integer from a condition phrase. A zero
// counts as missing.
func phraseThreshold(phrase string, fallback float64) float64 {
	m := reFirstInteger.FindStringSubmatch(phrase)
	if m == nil {
		return fallback
	}

	n, err := strconv.Atoi(m[1])
	if err != nil || n == 0 {
		return fallback
	}

	return float64(n)
}

func windowStats(values []float64) (float64, float64) {
	mean := 0.0
	for _, v := range values {
		mean += v
	}

	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}

	return mean, math.Sqrt(variance / float64(len(values)))
}
