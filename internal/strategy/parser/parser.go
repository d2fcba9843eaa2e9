// Package parser turns free-text strategy descriptions into structured
// strategy specs. Matching is ordered pattern matching over the lowercased
// description: combined multi-condition strategies are detected first, then a
// prioritized list of single-rule templates. The first template that matches
// wins.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/strategy-backtest/internal/types"
)

var (
	rePercentWord = regexp.MustCompile(`(\d+(?:\.\d+)?).*?percent`)
	rePercentSign = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)

	reBuyWhenPairSell = regexp.MustCompile(`buy.*?when\s+(.+?)(?:\s+and\s+|\s+und\s+|,)(.+?)(?:\s+sell|$)`)
	reBuyWhenPair     = regexp.MustCompile(`buy.*?when\s+(.+?)(?:\s+and\s+|\s+und\s+|,)(.+)`)
	reAndAfterWhen    = regexp.MustCompile(`buy.*?when.*?(?:and|und)`)
	reIndicatorTerms  = regexp.MustCompile(`rsi|macd|bollinger|volume|ma|moving average|stochastic|williams`)
	reBuyWhenEntry    = regexp.MustCompile(`buy.*?when\s+(.+?)(?:\s+sell|$)`)
	reTrailingSell    = regexp.MustCompile(`\s+sell.*$`)
	reAndSplit        = regexp.MustCompile(`\s+(?:and|und)\s+`)
	reAndPair         = regexp.MustCompile(`^(.+?)\s+(?:and|und)\s+(.+)$`)
	reSellWhenTail    = regexp.MustCompile(`sell.*?when.*?([^buy]+)`)

	reOverNDays = regexp.MustCompile(`over\s+\d+\s+day`)
	reNDays     = regexp.MustCompile(`\d+\s+day`)

	reSellItNDayAfter = regexp.MustCompile(`sell.*?it.*?(\d+).*?day.*?after`)
	reSellNDayAfter   = regexp.MustCompile(`sell.*?(\d+).*?day.*?after`)
	reSellAfterNDay   = regexp.MustCompile(`sell.*?after.*?(\d+).*?day`)
	reNDayAfter       = regexp.MustCompile(`(\d+).*?day.*?after`)
	reHoldForNDay     = regexp.MustCompile(`hold.*?for.*?(\d+).*?day`)
	reHoldNDay        = regexp.MustCompile(`hold.*?(\d+).*?day`)

	reSpanOver = regexp.MustCompile(`over.*?(\d+).*?(?:day|hour|minute|week|month)`)
	reSpanIn   = regexp.MustCompile(`in.*?(\d+).*?(?:day|hour|minute|week|month)`)
	reSpanAny  = regexp.MustCompile(`(\d+).*?(?:day|hour|minute|week|month)`)

	reSellAfterSpan = regexp.MustCompile(`sell.*?after.*?(\d+).*?(?:day|week|month)`)
	reHoldForSpan   = regexp.MustCompile(`hold.*?for.*?(\d+).*?(?:day|week|month)`)

	reRSINumber  = regexp.MustCompile(`rsi.*?(\d+)`)
	rePeriodRSI  = regexp.MustCompile(`(\d+).*?period.*?rsi`)
	reOversoldN  = regexp.MustCompile(`oversold.*?(\d+)`)
	reBuyBelowN  = regexp.MustCompile(`buy.*?below.*?(\d+)`)
	reRSIBelowN  = regexp.MustCompile(`rsi.*?below.*?(\d+)`)
	reOverboughtN = regexp.MustCompile(`overbought.*?(\d+)`)
	reSellAboveN  = regexp.MustCompile(`sell.*?above.*?(\d+)`)
	reRSIAboveN   = regexp.MustCompile(`rsi.*?above.*?(\d+)`)

	reFastN             = regexp.MustCompile(`fast.*?(\d+)`)
	reSlowN             = regexp.MustCompile(`slow.*?(\d+)`)
	reNDayMA            = regexp.MustCompile(`(\d+).*?day.*?ma`)
	reNDayMovingAverage = regexp.MustCompile(`(\d+).*?day.*?moving.*?average`)
	reNHyphenDay        = regexp.MustCompile(`(\d+).*?-day`)
	reAllNumbers        = regexp.MustCompile(`(\d+)`)

	reSignalN = regexp.MustCompile(`signal.*?(\d+)`)
	reStdDevN = regexp.MustCompile(`std.*?dev.*?(\d+(?:\.\d+)?)`)

	reThresholdN = regexp.MustCompile(`threshold.*?(\d+(?:\.\d+)?)`)

	reDollarAmount = regexp.MustCompile(`\$(\d+(?:\.\d+)?)`)
	reNDollar      = regexp.MustCompile(`(\d+(?:\.\d+)?).*?dollar`)

	reBelowN      = regexp.MustCompile(`below.*?(\d+)`)
	reAboveN      = regexp.MustCompile(`above.*?(\d+)`)
	reBelowSigned = regexp.MustCompile(`below.*?(-?\d+)`)
	reAboveSigned = regexp.MustCompile(`above.*?(-?\d+)`)

	reBuyWhenGeneric = regexp.MustCompile(`buy.*?when.*?([^sell]+)`)
	reSellWhenGeneric = regexp.MustCompile(`sell.*?when.*?([^buy]+)`)
	reSellAtGeneric   = regexp.MustCompile(`sell.*?at.*?([^buy]+)`)
)

// Parse converts a free-text strategy description into a StrategySpec. Input
// that matches no template comes back with StrategyTypeUnknown; callers must
// validate the description first with Validate.
func Parse(description string) types.StrategySpec {
	desc := strings.ToLower(description)
	hasExit := containsAny(desc, "sell", "exit", "close", "after", "hold", "then")

	fallback := types.StrategySpec{
		Type:        types.StrategyTypeUnknown,
		Description: description,
		Source:      description,
	}

	inheritedExit := false

	if hasCombinedConditions(desc) {
		combined, complete := parseCombined(desc, hasExit)
		combined.Source = description

		if complete {
			return combined
		}

		// A single parseable condition is not enough for a combined
		// strategy: fall through to the single-rule templates, keeping the
		// combined shape only as a last resort.
		combined.Description = description
		fallback = combined
		inheritedExit = combined.HasExitCondition
	}

	rules := []struct {
		parse func(desc string, hasExit bool) (types.StrategySpec, bool)
		// Templates that only promote HasExitCondition on an explicit match
		// inherit it from an abandoned combined parse instead of clearing it.
		inheritExit bool
	}{
		{parse: parseDailyDrop, inheritExit: true},
		{parse: parsePriceChange},
		{parse: parseSimplePriceDrop},
		{parse: parseRSI, inheritExit: true},
		{parse: parseMACrossover},
		{parse: parseMAPrice},
		{parse: parseMACD},
		{parse: parseBollinger},
		{parse: parseMeanReversion},
		{parse: parseMomentum},
		{parse: parseVolume},
		{parse: parseSupportResistance},
		{parse: parseStochastic, inheritExit: true},
		{parse: parseWilliamsR, inheritExit: true},
		{parse: parseGeneric},
	}

	for _, rule := range rules {
		spec, ok := rule.parse(desc, hasExit)
		if !ok {
			continue
		}

		spec.Source = description

		if rule.inheritExit && inheritedExit {
			spec.HasExitCondition = true
		}

		return spec
	}

	return fallback
}

func hasCombinedConditions(desc string) bool {
	buyWhenPair := reBuyWhenPairSell.MatchString(desc) || reBuyWhenPair.MatchString(desc)
	andAfterWhen := reAndAfterWhen.MatchString(desc)
	multipleIndicators := len(reIndicatorTerms.FindAllString(desc, -1)) > 1
	priceAndIndicator := containsAny(desc, "percent", "%", "fall", "drop", "rise", "falls") &&
		containsAny(desc, "rsi", "macd", "volume", "ma", "bollinger", "stochastic", "williams")

	return buyWhenPair ||
		(andAfterWhen && (multipleIndicators || priceAndIndicator)) ||
		(andAfterWhen && strings.Contains(desc, "stock") && containsAny(desc, "rsi", "macd", "volume"))
}

// parseCombined extracts the conditions after "buy when". It is complete only
// when at least two atomic conditions parse; with fewer the caller falls back
// to the single-rule templates.
func parseCombined(desc string, hasExit bool) (types.StrategySpec, bool) {
	spec := types.StrategySpec{Type: types.StrategyTypeCombined}

	var conditions []types.Condition

	if m := reBuyWhenEntry.FindStringSubmatch(desc); m != nil {
		conditionsText := strings.TrimSpace(reTrailingSell.ReplaceAllString(m[1], ""))

		for _, part := range splitConditions(conditionsText) {
			if len(part) < 3 {
				continue
			}

			cond := parseCondition(part)
			if cond.Type != types.ConditionTypeUnknown {
				conditions = append(conditions, cond)
			}
		}
	}

	spec.HasExitCondition = hasExit

	if hasExit {
		if m := reSellWhenTail.FindStringSubmatch(desc); m != nil {
			spec.Params.ExitCondition = m[1]
		} else if m := reSellAfterSpan.FindStringSubmatch(desc); m != nil {
			spec.Params.ExitCondition = m[1]
		}
	}

	if len(conditions) < 2 {
		return spec, false
	}

	spec.Params.Conditions = conditions

	descs := make([]string, len(conditions))
	for i, cond := range conditions {
		descs[i] = cond.Description
	}

	exitText := " (no exit condition specified)"
	if spec.HasExitCondition {
		label := spec.Params.ExitCondition
		if label == "" {
			label = "condition specified"
		}

		exitText = ", Exit: " + label
	}

	spec.Description = fmt.Sprintf("Combined Strategy: %s%s", strings.Join(descs, " AND "), exitText)

	return spec, true
}

// splitConditions breaks the entry clause into atomic condition texts, first
// on and/und connectives, then on commas when that yields nothing usable.
func splitConditions(text string) []string {
	parts := trimAll(reAndSplit.Split(text, -1))

	tooLong := false
	for _, part := range parts {
		if len(part) > 100 {
			tooLong = true
		}
	}

	if len(parts) == 1 || tooLong {
		comma := trimAll(strings.Split(text, ","))

		allShort := len(comma) > 1
		for _, part := range comma {
			if len(part) >= 100 {
				allShort = false
			}
		}

		if allShort {
			return comma
		}

		if m := reAndPair.FindStringSubmatch(text); m != nil {
			return []string{strings.TrimSpace(m[1]), strings.TrimSpace(m[2])}
		}
	}

	return parts
}

func parseDailyDrop(desc string, _ bool) (types.StrategySpec, bool) {
	if !hasFallDrop(desc) || !hasPercentMark(desc) || !isSingleDay(desc) {
		return types.StrategySpec{}, false
	}

	spec := types.StrategySpec{Type: types.StrategyTypeDailyDrop}
	spec.Params.DropThreshold = valueOr(extractPercent(desc), 0.09)

	holdDays := optional.None[int]()

	if m := firstSubmatch(desc, reSellItNDayAfter, reSellNDayAfter, reSellAfterNDay, reNDayAfter, reHoldForNDay, reHoldNDay); m != nil {
		holdDays = optional.Some(atoiOr(m[1], 0))
		spec.HasExitCondition = true
	} else if strings.Contains(desc, "next day") || strings.Contains(desc, "end of the next day") {
		holdDays = optional.Some(1)
		spec.HasExitCondition = true
	} else if idx := strings.Index(desc, "sell"); idx >= 0 {
		if m := reDaysNumber.FindStringSubmatch(desc[idx:]); m != nil {
			holdDays = optional.Some(atoiOr(m[1], 0))
			spec.HasExitCondition = true
		}
	}

	spec.Params.HoldDays = holdDays

	exitText := " (no exit condition specified)"
	if holdDays.IsSome() {
		exitText = fmt.Sprintf(", sell after %d day(s)", holdDays.Unwrap())
	}

	spec.Description = fmt.Sprintf("Daily Drop Strategy: Buy when stock falls %.1f%% in one day%s",
		spec.Params.DropThreshold*100, exitText)

	return spec, true
}

func parsePriceChange(desc string, hasExit bool) (types.StrategySpec, bool) {
	ok := !isSingleDay(desc) &&
		containsAny(desc, "price", "stock") &&
		containsAny(desc, "increase", "decrease", "rise", "fall", "rises", "drops", "goes up", "goes down") &&
		hasPercentMark(desc)
	if !ok {
		return types.StrategySpec{}, false
	}

	spec := types.StrategySpec{Type: types.StrategyTypePriceChange}

	changePercent := valueOr(extractPercent(desc), 0.05)
	isIncrease := containsAny(desc, "increase", "rise", "up", "rises")

	if isIncrease {
		spec.Params.ChangeThreshold = changePercent
	} else {
		spec.Params.ChangeThreshold = -changePercent
	}

	if m := firstSubmatch(desc, reSpanOver, reSpanIn, reSpanAny); m != nil {
		spec.Params.LookbackPeriod = atoiOr(m[1], 0)
		spec.Params.LookbackUnit = lookbackUnit(m[0])
	} else {
		spec.Params.LookbackPeriod = 1
		spec.Params.LookbackUnit = types.PeriodUnitDay
	}

	if hasExit {
		spec.HasExitCondition = true

		if m := firstSubmatch(desc, reSellAfterSpan, reHoldForSpan); m != nil {
			spec.Params.ExitAfter = optional.Some(atoiOr(m[1], 0))
			spec.Params.ExitUnit = exitUnit(m[0])
		}
	}

	direction := "decreases"
	if isIncrease {
		direction = "increases"
	}

	spec.Description = fmt.Sprintf("Price Change Strategy: Buy when price %s by %.1f%% over %d %s(s)%s",
		direction, changePercent*100, spec.Params.LookbackPeriod, spec.Params.LookbackUnit, exitSpanText(spec))

	return spec, true
}

func parseSimplePriceDrop(desc string, hasExit bool) (types.StrategySpec, bool) {
	ok := hasFallDrop(desc) && hasPercentMark(desc) && !isSingleDay(desc) && strings.Contains(desc, "buy")
	if !ok {
		return types.StrategySpec{}, false
	}

	spec := types.StrategySpec{Type: types.StrategyTypePriceChange}
	spec.Params.ChangeThreshold = -valueOr(extractPercent(desc), 0.05)
	spec.Params.LookbackPeriod = 1
	spec.Params.LookbackUnit = types.PeriodUnitDay
	spec.HasExitCondition = hasExit

	if hasExit {
		if m := firstSubmatch(desc, reSellAfterSpan, reHoldForSpan); m != nil {
			spec.Params.ExitAfter = optional.Some(atoiOr(m[1], 0))
			spec.Params.ExitUnit = exitUnit(m[0])
		}
	}

	spec.Description = fmt.Sprintf("Price Drop Strategy: Buy when stock falls %.1f%%%s",
		-spec.Params.ChangeThreshold*100, exitSpanText(spec))

	return spec, true
}

func parseRSI(desc string, _ bool) (types.StrategySpec, bool) {
	if !strings.Contains(desc, "rsi") {
		return types.StrategySpec{}, false
	}

	spec := types.StrategySpec{Type: types.StrategyTypeRSI}
	spec.Params.RSIPeriod = int(numberOr(firstNumber(
		extractNumber(desc, reRSINumber),
		extractNumber(desc, rePeriodRSI),
	), 14))

	spec.Params.Oversold = numberOr(firstNumber(
		extractNumber(desc, reOversoldN),
		extractNumber(desc, reBuyBelowN),
		extractNumber(desc, reRSIBelowN),
	), 30)

	overbought := firstNumber(
		extractNumber(desc, reOverboughtN),
		extractNumber(desc, reSellAboveN),
		extractNumber(desc, reRSIAboveN),
	)

	exitText := " (no exit condition specified)"

	if overbought.IsSome() {
		spec.Params.Overbought = overbought.Unwrap()
		spec.HasExitCondition = true
		exitText = fmt.Sprintf(", Sell when RSI > %g", spec.Params.Overbought)
	} else {
		spec.Params.Overbought = 70
	}

	spec.Description = fmt.Sprintf("RSI Strategy: Buy when RSI < %g%s (%d-period RSI)",
		spec.Params.Oversold, exitText, spec.Params.RSIPeriod)

	return spec, true
}

func parseMACrossover(desc string, _ bool) (types.StrategySpec, bool) {
	if !containsAny(desc, "moving average", "ma", "crossover", "crosses") {
		return types.StrategySpec{}, false
	}

	spec := types.StrategySpec{Type: types.StrategyTypeMACrossover}

	fast := 50
	if m := firstSubmatch(desc, reFastN, reNDayMA, reNDayMovingAverage, reNHyphenDay); m != nil {
		fast = atoiOr(m[1], 0)
	}

	slow := 0

	// With two or more numbers present the smaller one is always the fast
	// leg, whatever order they were written in.
	if nums := reAllNumbers.FindAllString(desc, -1); len(nums) >= 2 {
		first := atoiOr(nums[0], 0)
		second := atoiOr(nums[1], 0)

		if first < second {
			fast, slow = first, second
		} else {
			fast, slow = second, first
		}
	} else {
		slow = 200
		if m := firstSubmatch(desc, reSlowN, reNDayMA, reNDayMovingAverage); m != nil {
			slow = atoiOr(m[1], 0)
		}
	}

	spec.Params.FastMA = fast
	spec.Params.SlowMA = slow
	spec.HasExitCondition = containsAny(desc, "sell", "exit", "crosses below")

	exitText := " (no exit condition specified)"
	if spec.HasExitCondition {
		exitText = ", Sell when fast MA crosses below slow MA"
	}

	spec.Description = fmt.Sprintf("Moving Average Crossover: Buy when %d-day MA crosses above %d-day MA%s",
		fast, slow, exitText)

	return spec, true
}

func parseMAPrice(desc string, _ bool) (types.StrategySpec, bool) {
	ok := containsAny(desc, "above", "below") && containsAny(desc, "moving average", "ma")
	if !ok {
		return types.StrategySpec{}, false
	}

	spec := types.StrategySpec{Type: types.StrategyTypeMAPrice}
	spec.Params.MAPeriod = int(numberOr(firstNumber(
		extractNumber(desc, reNDayMA),
		extractNumber(desc, reNDayMovingAverage),
		extractNumber(desc, reNHyphenDay),
	), 200))

	side := types.SideBelow
	opposite := types.SideAbove

	if strings.Contains(desc, "above") {
		side, opposite = types.SideAbove, types.SideBelow
	}

	spec.Params.PriceSide = side
	spec.HasExitCondition = containsAny(desc, "sell", "exit")

	exitText := " (no exit condition specified)"
	if spec.HasExitCondition {
		exitText = fmt.Sprintf(", Sell when price goes %s %d-day MA", opposite, spec.Params.MAPeriod)
	}

	spec.Description = fmt.Sprintf("MA Price Strategy: Buy when price is %s %d-day MA%s",
		side, spec.Params.MAPeriod, exitText)

	return spec, true
}

func parseMACD(desc string, _ bool) (types.StrategySpec, bool) {
	if !strings.Contains(desc, "macd") {
		return types.StrategySpec{}, false
	}

	spec := types.StrategySpec{Type: types.StrategyTypeMACD}
	spec.Params.FastPeriod = int(numberOr(extractNumber(desc, reFastN), 12))
	spec.Params.SlowPeriod = int(numberOr(extractNumber(desc, reSlowN), 26))
	spec.Params.SignalPeriod = int(numberOr(extractNumber(desc, reSignalN), 9))
	spec.HasExitCondition = containsAny(desc, "sell", "exit", "crosses below")

	exitText := " (no exit condition specified)"
	if spec.HasExitCondition {
		exitText = ", Sell when MACD crosses below signal line"
	}

	spec.Description = fmt.Sprintf("MACD Strategy: Buy when MACD crosses above signal line%s", exitText)

	return spec, true
}

func parseBollinger(desc string, _ bool) (types.StrategySpec, bool) {
	if !strings.Contains(desc, "bollinger") {
		return types.StrategySpec{}, false
	}

	spec := types.StrategySpec{Type: types.StrategyTypeBollinger}
	spec.Params.Period = int(numberOr(extractNumber(desc, rePeriodNumber), 20))
	spec.Params.StdDev = numberOr(extractNumber(desc, reStdDevN), 2)

	isLower := containsAny(desc, "lower", "below")

	spec.Params.Band = types.BandUpper
	if isLower {
		spec.Params.Band = types.BandLower
	}

	spec.HasExitCondition = containsAny(desc, "sell", "upper", "exit")

	exitText := " (no exit condition specified)"

	if spec.HasExitCondition {
		if isLower {
			exitText = ", Sell when price reaches upper band"
		} else {
			exitText = ", Sell when price reaches lower band"
		}
	}

	spec.Description = fmt.Sprintf("Bollinger Bands: Buy at %s band%s (%d-period)",
		spec.Params.Band, exitText, spec.Params.Period)

	return spec, true
}

func parseMeanReversion(desc string, _ bool) (types.StrategySpec, bool) {
	if !containsAny(desc, "mean reversion", "revert", "mean") {
		return types.StrategySpec{}, false
	}

	spec := types.StrategySpec{Type: types.StrategyTypeMeanReversion}
	spec.Params.Lookback = int(numberOr(extractNumber(desc, reDaysNumber), 20))
	spec.Params.Threshold = numberOr(extractNumber(desc, reThresholdN), 2)
	spec.HasExitCondition = containsAny(desc, "sell", "exit")

	exitText := " (no exit condition specified)"
	if spec.HasExitCondition {
		exitText = ", Sell when price returns to mean"
	}

	spec.Description = fmt.Sprintf("Mean Reversion: Buy when price deviates significantly from mean%s (%d-day lookback)",
		exitText, spec.Params.Lookback)

	return spec, true
}

func parseMomentum(desc string, _ bool) (types.StrategySpec, bool) {
	if !strings.Contains(desc, "momentum") {
		return types.StrategySpec{}, false
	}

	spec := types.StrategySpec{Type: types.StrategyTypeMomentum}
	spec.Params.Period = int(numberOr(extractNumber(desc, reDaysNumber), 10))
	spec.Params.Threshold = numberOr(extractNumber(desc, rePercentWord), 0.02)
	spec.HasExitCondition = containsAny(desc, "sell", "weakens", "exit")

	exitText := " (no exit condition specified)"
	if spec.HasExitCondition {
		exitText = ", Sell when momentum weakens"
	}

	spec.Description = fmt.Sprintf("Momentum Strategy: Buy on strong momentum%s (%d-day period)",
		exitText, spec.Params.Period)

	return spec, true
}

func parseVolume(desc string, _ bool) (types.StrategySpec, bool) {
	if !strings.Contains(desc, "volume") {
		return types.StrategySpec{}, false
	}

	spec := types.StrategySpec{Type: types.StrategyTypeVolume}

	spec.Params.VolumeSide = types.SideBelow
	if containsAny(desc, "above", "high") {
		spec.Params.VolumeSide = types.SideAbove
	}

	spec.Params.VolumePeriod = int(numberOr(extractNumber(desc, reDaysNumber), 20))
	spec.HasExitCondition = containsAny(desc, "sell", "exit")

	exitText := " (no exit condition specified)"
	if spec.HasExitCondition {
		exitText = " (exit condition specified)"
	}

	spec.Description = fmt.Sprintf("Volume Strategy: Buy when volume is %s average%s",
		spec.Params.VolumeSide, exitText)

	return spec, true
}

func parseSupportResistance(desc string, _ bool) (types.StrategySpec, bool) {
	if !containsAny(desc, "support", "resistance", "breaks") {
		return types.StrategySpec{}, false
	}

	spec := types.StrategySpec{Type: types.StrategyTypeSupportResistance}

	isSupport := containsAny(desc, "support", "below")

	spec.Params.LevelType = types.LevelTypeResistance
	if isSupport {
		spec.Params.LevelType = types.LevelTypeSupport
	}

	if m := firstSubmatch(desc, reDollarAmount, reNDollar); m != nil {
		spec.Params.Level = optional.Some(parseFloatOr(m[1], 0))
	}

	spec.HasExitCondition = containsAny(desc, "sell", "exit")

	entry := "breaks above resistance"
	if isSupport {
		entry = "breaks below support"
	}

	exitText := " (no exit condition specified)"

	if spec.HasExitCondition {
		if isSupport {
			exitText = ", Sell when price breaks below support"
		} else {
			exitText = ", Sell when price breaks above resistance"
		}
	}

	spec.Description = fmt.Sprintf("Support/Resistance: Buy when price %s%s", entry, exitText)

	return spec, true
}

func parseStochastic(desc string, _ bool) (types.StrategySpec, bool) {
	if !strings.Contains(desc, "stochastic") {
		return types.StrategySpec{}, false
	}

	spec := types.StrategySpec{Type: types.StrategyTypeStochastic}
	spec.Params.Period = int(numberOr(extractNumber(desc, rePeriodNumber), 14))
	spec.Params.Oversold = numberOr(extractNumber(desc, reBelowN), 20)

	overbought := extractNumber(desc, reAboveN)

	exitText := " (no exit condition specified)"

	if overbought.IsSome() {
		spec.Params.Overbought = overbought.Unwrap()
		spec.HasExitCondition = true
		exitText = fmt.Sprintf(", Sell when stochastic > %g", spec.Params.Overbought)
	} else {
		spec.Params.Overbought = 80
	}

	spec.Description = fmt.Sprintf("Stochastic Strategy: Buy when stochastic < %g%s",
		spec.Params.Oversold, exitText)

	return spec, true
}

func parseWilliamsR(desc string, _ bool) (types.StrategySpec, bool) {
	if !containsAny(desc, "williams", "%r") {
		return types.StrategySpec{}, false
	}

	spec := types.StrategySpec{Type: types.StrategyTypeWilliamsR}
	spec.Params.Period = int(numberOr(extractNumber(desc, rePeriodNumber), 14))
	spec.Params.Oversold = numberOr(extractNumber(desc, reBelowSigned), -80)

	overbought := extractNumber(desc, reAboveSigned)

	exitText := " (no exit condition specified)"

	if overbought.IsSome() {
		spec.Params.Overbought = overbought.Unwrap()
		spec.HasExitCondition = true
		exitText = fmt.Sprintf(", Sell when Williams %%R > %g", spec.Params.Overbought)
	} else {
		spec.Params.Overbought = -20
	}

	spec.Description = fmt.Sprintf("Williams %%R Strategy: Buy when Williams %%R < %g%s",
		spec.Params.Oversold, exitText)

	return spec, true
}

func parseGeneric(desc string, _ bool) (types.StrategySpec, bool) {
	if !strings.Contains(desc, "buy") {
		return types.StrategySpec{}, false
	}

	buyMatch := reBuyWhenGeneric.FindStringSubmatch(desc)
	sellMatch := firstSubmatch(desc, reSellWhenGeneric, reSellAtGeneric)

	if buyMatch == nil && sellMatch == nil {
		return types.StrategySpec{}, false
	}

	spec := types.StrategySpec{Type: types.StrategyTypeGeneric}

	if buyMatch != nil {
		spec.Params.BuyCondition = strings.TrimSpace(buyMatch[1])
	}

	if sellMatch != nil {
		spec.Params.SellCondition = strings.TrimSpace(sellMatch[1])
		spec.HasExitCondition = true
	}

	buyText := spec.Params.BuyCondition
	if buyText == "" {
		buyText = "condition specified"
	}

	exitText := " (no exit condition specified)"
	if spec.HasExitCondition {
		exitText = ", Sell: " + spec.Params.SellCondition
	}

	spec.Description = fmt.Sprintf("Generic Strategy: Buy: %s%s", buyText, exitText)

	return spec, true
}

func hasFallDrop(desc string) bool {
	return containsAny(desc, "fell", "fall", "drop", "decline", "drops")
}

func hasPercentMark(desc string) bool {
	return containsAny(desc, "percent", "%")
}

// isSingleDay detects one-day phrasings. A bare "day" mention counts as a
// single day only when no explicit multi-day span like "over 3 days" or
// "5 days" is present.
func isSingleDay(desc string) bool {
	if containsAny(desc, "one day", "a day", "in a day", "in one day") {
		return true
	}

	return strings.Contains(desc, "day") && !reOverNDays.MatchString(desc) && !reNDays.MatchString(desc)
}

func lookbackUnit(matched string) types.PeriodUnit {
	switch {
	case strings.Contains(matched, "hour"):
		return types.PeriodUnitHour
	case strings.Contains(matched, "minute"):
		return types.PeriodUnitMinute
	case strings.Contains(matched, "week"):
		return types.PeriodUnitWeek
	case strings.Contains(matched, "month"):
		return types.PeriodUnitMonth
	default:
		return types.PeriodUnitDay
	}
}

func exitUnit(matched string) types.PeriodUnit {
	switch {
	case strings.Contains(matched, "week"):
		return types.PeriodUnitWeek
	case strings.Contains(matched, "month"):
		return types.PeriodUnitMonth
	default:
		return types.PeriodUnitDay
	}
}

func exitSpanText(spec types.StrategySpec) string {
	if spec.HasExitCondition && spec.Params.ExitAfter.IsSome() {
		return fmt.Sprintf(", sell after %d %s(s)", spec.Params.ExitAfter.Unwrap(), spec.Params.ExitUnit)
	}

	if spec.HasExitCondition {
		return " (exit condition specified)"
	}

	return " (no exit condition specified)"
}

// extractPercent pulls a percentage out of text, as a fraction: "9%" and
// "9 percent" both come back as 0.09.
func extractPercent(text string) optional.Option[float64] {
	if m := firstSubmatch(text, rePercentWord, rePercentSign); m != nil {
		return optional.Some(parseFloatOr(m[1], 0) / 100)
	}

	return optional.None[float64]()
}

func extractNumber(text string, re *regexp.Regexp) optional.Option[float64] {
	if m := re.FindStringSubmatch(text); m != nil {
		return optional.Some(parseFloatOr(m[1], 0))
	}

	return optional.None[float64]()
}

// firstSubmatch returns the submatch slice of the first pattern that matches.
func firstSubmatch(text string, patterns ...*regexp.Regexp) []string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m
		}
	}

	return nil
}

// firstNumber chains extracted numbers the way relaxed text matching needs:
// the first non-zero value wins, otherwise the last candidate is returned
// as-is so the caller can still distinguish a matched zero from no match.
func firstNumber(opts ...optional.Option[float64]) optional.Option[float64] {
	for _, opt := range opts {
		if opt.IsSome() && opt.Unwrap() != 0 {
			return opt
		}
	}

	return opts[len(opts)-1]
}

// valueOr returns the contained value, or fallback when absent.
func valueOr(opt optional.Option[float64], fallback float64) float64 {
	if opt.IsSome() {
		return opt.Unwrap()
	}

	return fallback
}

// numberOr treats both absence and an extracted zero as missing.
func numberOr(opt optional.Option[float64], fallback float64) float64 {
	if opt.IsSome() && opt.Unwrap() != 0 {
		return opt.Unwrap()
	}

	return fallback
}

func trimAll(parts []string) []string {
	out := make([]string, len(parts))
	for i, part := range parts {
		out[i] = strings.TrimSpace(part)
	}

	return out
}

func parseFloatOr(s string, fallback float64) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}

	return v
}

func atoiOr(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}

	return v
}
