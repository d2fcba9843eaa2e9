package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rxtech-lab/strategy-backtest/internal/types"
)

var (
	reStockFallsOverPct = regexp.MustCompile(`(?:stock|price).*?fall.*?over.*?(\d+(?:\.\d+)?).*?%`)
	reStockDropsPct     = regexp.MustCompile(`(?:stock|price).*?drop.*?(\d+(?:\.\d+)?).*?%`)
	reFallsOverPct      = regexp.MustCompile(`fall.*?over.*?(\d+(?:\.\d+)?).*?%`)
	reDropsPct          = regexp.MustCompile(`drop.*?(\d+(?:\.\d+)?).*?%`)
	reFirstInt          = regexp.MustCompile(`(\d+)`)
	reFirstSignedInt    = regexp.MustCompile(`(-?\d+)`)
	reDaysNumber        = regexp.MustCompile(`(\d+).*?day`)
	reMANumber          = regexp.MustCompile(`(\d+).*?ma`)
	rePeriodNumber      = regexp.MustCompile(`(\d+).*?period`)
)

// parseCondition turns one clause of a combined description into an atomic
// condition. Unrecognized clauses come back with ConditionTypeUnknown so the
// caller can drop them.
func parseCondition(clause string) types.Condition {
	cond := strings.TrimSpace(strings.ToLower(clause))

	// Specific fall/drop phrasings carry their own percentage.
	for _, re := range []*regexp.Regexp{reStockFallsOverPct, reStockDropsPct, reFallsOverPct, reDropsPct} {
		if m := re.FindStringSubmatch(cond); m != nil {
			threshold := parseFloatOr(m[1], 0) / 100

			return types.Condition{
				Type:        types.ConditionTypePriceDrop,
				Threshold:   threshold,
				Description: fmt.Sprintf("Price falls %.1f%%", threshold*100),
			}
		}
	}

	hasPercent := strings.Contains(cond, "percent") || strings.Contains(cond, "%")

	if hasPercent && containsAny(cond, "fall", "drop", "drops", "fell", "decline") {
		threshold := valueOr(extractPercent(cond), 0.02)

		return types.Condition{
			Type:        types.ConditionTypePriceDrop,
			Threshold:   threshold,
			Description: fmt.Sprintf("Price falls %.1f%%", threshold*100),
		}
	}

	if hasPercent && containsAny(cond, "rise", "increase", "rises", "up") {
		threshold := valueOr(extractPercent(cond), 0.02)

		return types.Condition{
			Type:        types.ConditionTypePriceIncrease,
			Threshold:   threshold,
			Description: fmt.Sprintf("Price increases %.1f%%", threshold*100),
		}
	}

	if strings.Contains(cond, "rsi") {
		isBelow := containsAny(cond, "below", "under", "<")
		isAbove := containsAny(cond, "above", "over", ">")
		value := extractNumber(cond, reFirstInt)

		switch {
		case isBelow && value.IsSome():
			return types.Condition{
				Type:        types.ConditionTypeRSIBelow,
				Threshold:   value.Unwrap(),
				Description: fmt.Sprintf("RSI < %g", value.Unwrap()),
			}
		case isAbove && value.IsSome():
			return types.Condition{
				Type:        types.ConditionTypeRSIAbove,
				Threshold:   value.Unwrap(),
				Description: fmt.Sprintf("RSI > %g", value.Unwrap()),
			}
		case strings.Contains(cond, "oversold"):
			return types.Condition{
				Type:        types.ConditionTypeRSIBelow,
				Threshold:   30,
				Description: "RSI oversold (< 30)",
			}
		case strings.Contains(cond, "overbought"):
			return types.Condition{
				Type:        types.ConditionTypeRSIAbove,
				Threshold:   70,
				Description: "RSI overbought (> 70)",
			}
		}
	}

	if strings.Contains(cond, "volume") {
		isAbove := containsAny(cond, "above", "high", ">")
		isBelow := containsAny(cond, "below", "low", "<")

		if isAbove || strings.Contains(cond, "average") {
			return types.Condition{
				Type:        types.ConditionTypeVolumeAbove,
				Period:      int(numberOr(extractNumber(cond, reDaysNumber), 20)),
				Description: "Volume above average",
			}
		}

		if isBelow {
			return types.Condition{
				Type:        types.ConditionTypeVolumeBelow,
				Period:      int(numberOr(extractNumber(cond, reDaysNumber), 20)),
				Description: "Volume below average",
			}
		}
	}

	if strings.Contains(cond, "ma") || strings.Contains(cond, "moving average") {
		isAbove := containsAny(cond, "above", ">")
		isBelow := containsAny(cond, "below", "<")
		period := int(numberOr(extractNumber(cond, reDaysNumber), numberOr(extractNumber(cond, reMANumber), 200)))

		if isAbove {
			return types.Condition{
				Type:        types.ConditionTypePriceAboveMA,
				Period:      period,
				Description: fmt.Sprintf("Price above %d-day MA", period),
			}
		}

		if isBelow {
			return types.Condition{
				Type:        types.ConditionTypePriceBelowMA,
				Period:      period,
				Description: fmt.Sprintf("Price below %d-day MA", period),
			}
		}
	}

	if strings.Contains(cond, "macd") && strings.Contains(cond, "cross") {
		if strings.Contains(cond, "above") {
			return types.Condition{
				Type:        types.ConditionTypeMACDCrossAbove,
				Description: "MACD crosses above signal",
			}
		}

		if strings.Contains(cond, "below") {
			return types.Condition{
				Type:        types.ConditionTypeMACDCrossBelow,
				Description: "MACD crosses below signal",
			}
		}
	}

	if strings.Contains(cond, "bollinger") {
		if containsAny(cond, "lower", "below") {
			return types.Condition{
				Type:        types.ConditionTypeBollingerLower,
				Period:      int(numberOr(extractNumber(cond, rePeriodNumber), 20)),
				Description: "Price at lower Bollinger Band",
			}
		}

		if containsAny(cond, "upper", "above") {
			return types.Condition{
				Type:        types.ConditionTypeBollingerUpper,
				Period:      int(numberOr(extractNumber(cond, rePeriodNumber), 20)),
				Description: "Price at upper Bollinger Band",
			}
		}
	}

	if strings.Contains(cond, "stochastic") && containsAny(cond, "below", "<") {
		value := numberOr(extractNumber(cond, reFirstInt), 20)

		return types.Condition{
			Type:        types.ConditionTypeStochasticBelow,
			Threshold:   value,
			Description: fmt.Sprintf("Stochastic < %g", value),
		}
	}

	if (strings.Contains(cond, "williams") || strings.Contains(cond, "%r")) && containsAny(cond, "below", "<") {
		value := numberOr(extractNumber(cond, reFirstSignedInt), -80)

		return types.Condition{
			Type:        types.ConditionTypeWilliamsRBelow,
			Threshold:   value,
			Description: fmt.Sprintf("Williams %%R < %g", value),
		}
	}

	return types.Condition{
		Type:        types.ConditionTypeUnknown,
		Description: clause,
	}
}

func containsAny(text string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}

	return false
}
