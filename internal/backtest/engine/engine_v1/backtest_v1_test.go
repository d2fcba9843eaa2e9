package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/moznion/go-optional"
	backtestengine "github.com/rxtech-lab/strategy-backtest/internal/backtest/engine"
	"github.com/rxtech-lab/strategy-backtest/internal/types"
	"github.com/stretchr/testify/suite"
)

type BacktestEngineV1TestSuite struct {
	suite.Suite
	engine backtestengine.Engine
}

func TestBacktestEngineV1Suite(t *testing.T) {
	suite.Run(t, new(BacktestEngineV1TestSuite))
}

func (suite *BacktestEngineV1TestSuite) SetupTest() {
	suite.engine = NewBacktestEngineV1()
}

func (suite *BacktestEngineV1TestSuite) noCallback() optional.Option[backtestengine.OnProcessDataCallback] {
	return optional.None[backtestengine.OnProcessDataCallback]()
}

func (suite *BacktestEngineV1TestSuite) TestFullPipeline() {
	suite.Require().NoError(suite.engine.Initialize(""))
	suite.Require().NoError(suite.engine.SetStrategyDescription("Buy when stock falls over 9% in one day and sell it 2 days after."))
	suite.Require().NoError(suite.engine.LoadData(pricePoints(100, 100, 90, 90, 90, 90, 90)))

	result, err := suite.engine.Run(context.Background(), suite.noCallback())
	suite.Require().NoError(err)
	suite.Require().NotNil(result)

	suite.NotEmpty(result.ID)
	suite.Equal(types.StrategyTypeDailyDrop, result.Strategy.Type)
	suite.Empty(result.DataPath)

	suite.Require().Len(result.Trades, 1)

	trade := result.Trades[0]
	suite.Equal(types.ExitReasonStrategySignalSell, trade.ExitReason)
	suite.InDelta(90.0, trade.EntryPrice, 1e-9)
	suite.InDelta(111.0, trade.Shares, 1e-9)
	suite.Equal(2, trade.HoldingPeriodBars)

	suite.Require().Len(result.EquityCurve, 7)
	// Flat exit price, so the only loss is the round-trip commission.
	suite.InDelta(9980.02, result.Metrics.FinalEquity, 1e-6)
	suite.InDelta(-0.2, result.Metrics.TotalReturn, 1e-6)

	// Without a dedicated baseline the buy-and-hold comparison runs on the
	// strategy's own series.
	suite.Require().Len(result.BuyAndHold.Trades, 1)
	suite.InDelta(8991.19, result.BuyAndHold.Metrics.FinalEquity, 0.01)
}

func (suite *BacktestEngineV1TestSuite) TestRunUsesBaselineSeries() {
	suite.Require().NoError(suite.engine.Initialize(""))
	suite.Require().NoError(suite.engine.SetStrategy(momentumSpec(2, 10)))
	suite.Require().NoError(suite.engine.LoadData(pricePoints(100, 101, 102)))
	suite.Require().NoError(suite.engine.LoadBaselineData(pricePoints(50, 55)))

	result, err := suite.engine.Run(context.Background(), suite.noCallback())
	suite.Require().NoError(err)

	suite.Require().Len(result.BuyAndHold.EquityCurve, 2)
	suite.InDelta(50.0, result.BuyAndHold.Trades[0].EntryPrice, 1e-9)
	suite.InDelta(10974.105, result.BuyAndHold.Metrics.FinalEquity, 0.01)
}

func (suite *BacktestEngineV1TestSuite) TestRunAppliesTimeWindow() {
	config := `
start_time: 2024-01-02T00:00:00Z
end_time: 2024-01-06T00:00:00Z
`

	suite.Require().NoError(suite.engine.Initialize(config))
	suite.Require().NoError(suite.engine.SetStrategy(momentumSpec(2, 10)))
	suite.Require().NoError(suite.engine.LoadData(pricePoints(100, 101, 102, 103, 104, 105, 106)))

	result, err := suite.engine.Run(context.Background(), suite.noCallback())
	suite.Require().NoError(err)

	// 2024-01-02 through 2024-01-06 inclusive.
	suite.Len(result.EquityCurve, 5)
}

func (suite *BacktestEngineV1TestSuite) TestRunEmptyTimeWindow() {
	config := `
start_time: 2030-01-01T00:00:00Z
`

	suite.Require().NoError(suite.engine.Initialize(config))
	suite.Require().NoError(suite.engine.SetStrategy(momentumSpec(2, 10)))
	suite.Require().NoError(suite.engine.LoadData(pricePoints(100, 101, 102)))

	_, err := suite.engine.Run(context.Background(), suite.noCallback())
	suite.Require().Error(err)
	suite.Contains(err.Error(), "time window")
}

func (suite *BacktestEngineV1TestSuite) TestRunRequiresInitialize() {
	_, err := suite.engine.Run(context.Background(), suite.noCallback())
	suite.Require().Error(err)
	suite.Contains(err.Error(), "not initialized")
}

func (suite *BacktestEngineV1TestSuite) TestRunRequiresStrategy() {
	suite.Require().NoError(suite.engine.Initialize(""))

	_, err := suite.engine.Run(context.Background(), suite.noCallback())
	suite.Require().Error(err)
	suite.Contains(err.Error(), "no strategy")
}

func (suite *BacktestEngineV1TestSuite) TestRunRequiresData() {
	suite.Require().NoError(suite.engine.Initialize(""))
	suite.Require().NoError(suite.engine.SetStrategy(momentumSpec(2, 10)))

	_, err := suite.engine.Run(context.Background(), suite.noCallback())
	suite.Require().Error(err)
	suite.Contains(err.Error(), "no price data")
}

func (suite *BacktestEngineV1TestSuite) TestRunPropagatesCancellation() {
	suite.Require().NoError(suite.engine.Initialize(""))
	suite.Require().NoError(suite.engine.SetStrategy(momentumSpec(2, 10)))
	suite.Require().NoError(suite.engine.LoadData(pricePoints(100, 101, 102)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := suite.engine.Run(ctx, suite.noCallback())
	suite.ErrorIs(err, context.Canceled)
}

func (suite *BacktestEngineV1TestSuite) TestRunInvokesCallback() {
	suite.Require().NoError(suite.engine.Initialize(""))
	suite.Require().NoError(suite.engine.SetStrategy(momentumSpec(2, 10)))
	suite.Require().NoError(suite.engine.LoadData(pricePoints(100, 101, 102, 103)))

	calls := 0
	callback := backtestengine.OnProcessDataCallback(func(current int, total int) error {
		calls++
		suite.Equal(4, total)

		return nil
	})

	_, err := suite.engine.Run(context.Background(), optional.Some(callback))
	suite.Require().NoError(err)
	suite.Equal(3, calls)
}

func (suite *BacktestEngineV1TestSuite) TestInitializeRejectsMalformedYAML() {
	suite.Error(suite.engine.Initialize("initial_capital: [not a number"))
}

func (suite *BacktestEngineV1TestSuite) TestInitializeRejectsInvalidConfig() {
	suite.Error(suite.engine.Initialize("initial_capital: -5\n"))
}

func (suite *BacktestEngineV1TestSuite) TestSetStrategyRejectsUnknown() {
	suite.Error(suite.engine.SetStrategy(types.StrategySpec{Type: types.StrategyTypeUnknown}))
}

func (suite *BacktestEngineV1TestSuite) TestSetStrategyDescriptionRejectsUnrecognized() {
	err := suite.engine.SetStrategyDescription("Buy low, sell high, somehow.")
	suite.Require().Error(err)
}

func (suite *BacktestEngineV1TestSuite) TestSetStrategyDescriptionIsRateLimited() {
	description := "Buy when RSI falls below 30 and sell when RSI rises above 70."

	var err error
	for i := 0; i < 21; i++ {
		err = suite.engine.SetStrategyDescription(description)
		if err != nil {
			break
		}
	}

	suite.Require().Error(err)
	suite.Contains(err.Error(), "rate limit")
}

func (suite *BacktestEngineV1TestSuite) TestLoadDataRejectsEmptySeries() {
	err := suite.engine.LoadData([]types.PricePoint{{Close: 0}})
	suite.Require().Error(err)
	suite.Contains(err.Error(), "no valid price data")
}

func (suite *BacktestEngineV1TestSuite) TestLoadDataFromFileRequiresDataSource() {
	err := suite.engine.LoadDataFromFile("market.csv")
	suite.Require().Error(err)
	suite.Contains(err.Error(), "no data source")
}

func (suite *BacktestEngineV1TestSuite) TestGetConfigSchema() {
	schema, err := suite.engine.GetConfigSchema()
	suite.Require().NoError(err)
	suite.True(strings.Contains(schema, "strategy-backtest-engine-v1-config"))
}
