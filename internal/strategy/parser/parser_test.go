package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/strategy-backtest/internal/types"
)

type ParserTestSuite struct {
	suite.Suite
}

func TestParserSuite(t *testing.T) {
	suite.Run(t, new(ParserTestSuite))
}

func (suite *ParserTestSuite) TestRSIWithExplicitExit() {
	spec := Parse("Buy when RSI falls below 30 and sell when RSI rises above 70.")

	suite.Equal(types.StrategyTypeRSI, spec.Type)
	suite.Equal(30.0, spec.Params.Oversold)
	suite.Equal(70.0, spec.Params.Overbought)
	suite.True(spec.HasExitCondition)
	// The first number after "rsi" doubles as the period.
	suite.Equal(30, spec.Params.RSIPeriod)
}

func (suite *ParserTestSuite) TestRSIWithoutExit() {
	spec := Parse("Buy when RSI is below 25")

	suite.Equal(types.StrategyTypeRSI, spec.Type)
	suite.Equal(25.0, spec.Params.Oversold)
	suite.Equal(70.0, spec.Params.Overbought)
	suite.False(spec.HasExitCondition)
}

func (suite *ParserTestSuite) TestDailyDropWithHold() {
	spec := Parse("Buy when stock falls over 9% in one day and sell it 2 days after.")

	suite.Equal(types.StrategyTypeDailyDrop, spec.Type)
	suite.InDelta(0.09, spec.Params.DropThreshold, 1e-9)
	suite.True(spec.Params.HoldDays.IsSome())
	suite.Equal(2, spec.Params.HoldDays.Unwrap())
	suite.True(spec.HasExitCondition)
}

func (suite *ParserTestSuite) TestDailyDropWithHoldFor() {
	spec := Parse("Buy when price falls 8% in one day, hold for 3 days, then sell.")

	suite.Equal(types.StrategyTypeDailyDrop, spec.Type)
	suite.InDelta(0.08, spec.Params.DropThreshold, 1e-9)
	suite.True(spec.Params.HoldDays.IsSome())
	suite.Equal(3, spec.Params.HoldDays.Unwrap())
	suite.True(spec.HasExitCondition)
}

func (suite *ParserTestSuite) TestDailyDropWithoutExit() {
	spec := Parse("Buy when stock drops 5% in one day")

	suite.Equal(types.StrategyTypeDailyDrop, spec.Type)
	suite.InDelta(0.05, spec.Params.DropThreshold, 1e-9)
	suite.True(spec.Params.HoldDays.IsNone())
	suite.False(spec.HasExitCondition)
}

func (suite *ParserTestSuite) TestSimpleFallBecomesPriceChange() {
	spec := Parse("Buy when stock falls over 2%")

	suite.Equal(types.StrategyTypePriceChange, spec.Type)
	suite.InDelta(-0.02, spec.Params.ChangeThreshold, 1e-9)
	suite.Equal(1, spec.Params.LookbackPeriod)
	suite.Equal(types.PeriodUnitDay, spec.Params.LookbackUnit)
	suite.False(spec.HasExitCondition)
}

func (suite *ParserTestSuite) TestPriceChangeWithLookbackAndExit() {
	spec := Parse("Buy when stock price increases by 5% over 3 days and sell after 1 week.")

	suite.Equal(types.StrategyTypePriceChange, spec.Type)
	suite.InDelta(0.05, spec.Params.ChangeThreshold, 1e-9)
	suite.Equal(3, spec.Params.LookbackPeriod)
	suite.Equal(types.PeriodUnitDay, spec.Params.LookbackUnit)
	suite.True(spec.HasExitCondition)
	suite.True(spec.Params.ExitAfter.IsSome())
	suite.Equal(1, spec.Params.ExitAfter.Unwrap())
	suite.Equal(types.PeriodUnitWeek, spec.Params.ExitUnit)
}

func (suite *ParserTestSuite) TestPriceChangeDecrease() {
	spec := Parse("Buy when price decreases by 3% over 2 days")

	suite.Equal(types.StrategyTypePriceChange, spec.Type)
	suite.InDelta(-0.03, spec.Params.ChangeThreshold, 1e-9)
	suite.Equal(2, spec.Params.LookbackPeriod)
	suite.False(spec.HasExitCondition)
}

func (suite *ParserTestSuite) TestMACrossoverOrdersPeriods() {
	spec := Parse("Buy when 20-day MA crosses above 50-day MA")

	suite.Equal(types.StrategyTypeMACrossover, spec.Type)
	suite.Equal(20, spec.Params.FastMA)
	suite.Equal(50, spec.Params.SlowMA)
	suite.False(spec.HasExitCondition)
}

func (suite *ParserTestSuite) TestMACrossoverLongForm() {
	spec := Parse("Buy when the 50-day moving average crosses above the 200-day moving average.")

	suite.Equal(types.StrategyTypeMACrossover, spec.Type)
	suite.Equal(50, spec.Params.FastMA)
	suite.Equal(200, spec.Params.SlowMA)
}

func (suite *ParserTestSuite) TestMACDTextLandsOnCrossoverTemplate() {
	// "macd" contains "ma", so bare MACD phrasings resolve to the MA
	// crossover template with default periods.
	spec := Parse("Buy when MACD crosses above signal")

	suite.Equal(types.StrategyTypeMACrossover, spec.Type)
	suite.Equal(50, spec.Params.FastMA)
	suite.Equal(200, spec.Params.SlowMA)
	suite.False(spec.HasExitCondition)
}

func (suite *ParserTestSuite) TestPriceAboveMovingAverage() {
	spec := Parse("Buy when price is above 200-day moving average")

	suite.Equal(types.StrategyTypeMACrossover, spec.Type)
	suite.Equal(200, spec.Params.FastMA)
	suite.Equal(200, spec.Params.SlowMA)
}

func (suite *ParserTestSuite) TestBollingerLowerWithExit() {
	spec := Parse("Buy when price drops below the lower Bollinger Band and sell when it reaches the upper band.")

	suite.Equal(types.StrategyTypeBollinger, spec.Type)
	suite.Equal(types.BandLower, spec.Params.Band)
	suite.Equal(20, spec.Params.Period)
	suite.InDelta(2.0, spec.Params.StdDev, 1e-9)
	suite.True(spec.HasExitCondition)
}

func (suite *ParserTestSuite) TestBollingerLowerNoExit() {
	spec := Parse("Buy when price breaks below Bollinger lower band")

	suite.Equal(types.StrategyTypeBollinger, spec.Type)
	suite.Equal(types.BandLower, spec.Params.Band)
	suite.False(spec.HasExitCondition)
}

func (suite *ParserTestSuite) TestMomentum() {
	spec := Parse("Buy when momentum is strong (price up 10% in 10 days) and sell when momentum weakens.")

	suite.Equal(types.StrategyTypeMomentum, spec.Type)
	suite.Equal(10, spec.Params.Period)
	suite.InDelta(0.02, spec.Params.Threshold, 1e-9)
	suite.True(spec.HasExitCondition)
}

func (suite *ParserTestSuite) TestVolumeAbove() {
	spec := Parse("Buy when volume is above average and price increases")

	suite.Equal(types.StrategyTypeVolume, spec.Type)
	suite.Equal(types.SideAbove, spec.Params.VolumeSide)
	suite.Equal(20, spec.Params.VolumePeriod)
	suite.False(spec.HasExitCondition)
}

func (suite *ParserTestSuite) TestSupportLevel() {
	spec := Parse("Buy when stock falls below support level of $100")

	suite.Equal(types.StrategyTypeSupportResistance, spec.Type)
	suite.Equal(types.LevelTypeSupport, spec.Params.LevelType)
	suite.True(spec.Params.Level.IsSome())
	suite.InDelta(100.0, spec.Params.Level.Unwrap(), 1e-9)
	suite.False(spec.HasExitCondition)
}

func (suite *ParserTestSuite) TestResistanceLevel() {
	spec := Parse("Buy when price breaks resistance at $150")

	suite.Equal(types.StrategyTypeSupportResistance, spec.Type)
	suite.Equal(types.LevelTypeResistance, spec.Params.LevelType)
	suite.True(spec.Params.Level.IsSome())
	suite.InDelta(150.0, spec.Params.Level.Unwrap(), 1e-9)
}

func (suite *ParserTestSuite) TestStochastic() {
	spec := Parse("Buy when stochastic is below 20")

	suite.Equal(types.StrategyTypeStochastic, spec.Type)
	suite.Equal(14, spec.Params.Period)
	suite.Equal(20.0, spec.Params.Oversold)
	suite.Equal(80.0, spec.Params.Overbought)
	suite.False(spec.HasExitCondition)
}

func (suite *ParserTestSuite) TestWilliamsR() {
	spec := Parse("Buy when Williams %R is below -80")

	suite.Equal(types.StrategyTypeWilliamsR, spec.Type)
	suite.Equal(14, spec.Params.Period)
	suite.Equal(-80.0, spec.Params.Oversold)
	suite.Equal(-20.0, spec.Params.Overbought)
	suite.False(spec.HasExitCondition)
}

func (suite *ParserTestSuite) TestCombinedDropAndRSI() {
	spec := Parse("Buy when stock falls over 2% and RSI is below 30")

	suite.Equal(types.StrategyTypeCombined, spec.Type)
	suite.Require().Len(spec.Params.Conditions, 2)
	suite.Equal(types.ConditionTypePriceDrop, spec.Params.Conditions[0].Type)
	suite.InDelta(0.02, spec.Params.Conditions[0].Threshold, 1e-9)
	suite.Equal(types.ConditionTypeRSIBelow, spec.Params.Conditions[1].Type)
	suite.Equal(30.0, spec.Params.Conditions[1].Threshold)
	suite.False(spec.HasExitCondition)
}

func (suite *ParserTestSuite) TestCombinedDropAndVolume() {
	spec := Parse("Buy when price drops 3% and volume is above average")

	suite.Equal(types.StrategyTypeCombined, spec.Type)
	suite.Require().Len(spec.Params.Conditions, 2)
	suite.Equal(types.ConditionTypePriceDrop, spec.Params.Conditions[0].Type)
	suite.InDelta(0.03, spec.Params.Conditions[0].Threshold, 1e-9)
	suite.Equal(types.ConditionTypeVolumeAbove, spec.Params.Conditions[1].Type)
	suite.Equal(20, spec.Params.Conditions[1].Period)
}

func (suite *ParserTestSuite) TestCombinedRSIAndMA() {
	spec := Parse("Buy when RSI is below 25 and price is above 50-day MA")

	suite.Equal(types.StrategyTypeCombined, spec.Type)
	suite.Require().Len(spec.Params.Conditions, 2)
	suite.Equal(types.ConditionTypeRSIBelow, spec.Params.Conditions[0].Type)
	suite.Equal(25.0, spec.Params.Conditions[0].Threshold)
	suite.Equal(types.ConditionTypePriceAboveMA, spec.Params.Conditions[1].Type)
	suite.Equal(50, spec.Params.Conditions[1].Period)
	suite.False(spec.HasExitCondition)
}

func (suite *ParserTestSuite) TestCombinedSingleConditionFallsThrough() {
	// Only one clause parses; the result must come from the single-rule
	// templates instead of a one-legged combined strategy.
	spec := Parse("Buy when volume is above average and price increases")

	suite.NotEqual(types.StrategyTypeCombined, spec.Type)
}

func (suite *ParserTestSuite) TestUnknown() {
	spec := Parse("when the moon is full go long")

	suite.True(spec.IsUnknown())
}

func (suite *ParserTestSuite) TestSourceIsPreserved() {
	input := "Buy when RSI is below 25"
	spec := Parse(input)

	suite.Equal(input, spec.Source)
}

func (suite *ParserTestSuite) TestAllExamplesParse() {
	for _, example := range ExampleStrategies {
		suite.NoError(Validate(example), example)

		spec := Parse(example)
		suite.False(spec.IsUnknown(), "example should parse: %s", example)
	}
}

type ValidateTestSuite struct {
	suite.Suite
}

func TestValidateSuite(t *testing.T) {
	suite.Run(t, new(ValidateTestSuite))
}

func (suite *ValidateTestSuite) TestTooShort() {
	err := Validate("buy low")
	suite.ErrorIs(err, ErrDescriptionTooShort)
}

func (suite *ValidateTestSuite) TestTooLong() {
	err := Validate("buy when " + strings.Repeat("the price falls ", 200))
	suite.ErrorIs(err, ErrDescriptionTooLong)
}

func (suite *ValidateTestSuite) TestBlockedPatterns() {
	blocked := []string{
		"buy when <script>alert(1)</script>",
		"eval(document.cookie) and buy",
		"buy when function() runs",
		"buy when () => true",
		"import os and buy everything",
		"require('fs') then sell",
		"buy when process.env is set",
		"fetch (https://example.com) and buy",
		"buy via websocket stream",
		"buy when ${injection} happens",
		"install a backdoor then buy",
		"hack the market and buy",
	}

	for _, description := range blocked {
		suite.ErrorIs(Validate(description), ErrDescriptionBlocked, description)
	}
}

func (suite *ValidateTestSuite) TestValidDescriptions() {
	suite.NoError(Validate("Buy when RSI falls below 30 and sell when RSI rises above 70."))
	suite.NoError(Validate("Buy when stock falls over 9% in one day and sell it 2 days after."))
}
