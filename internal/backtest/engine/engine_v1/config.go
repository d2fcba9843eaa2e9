package engine

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/strategy-backtest/internal/backtest/engine/engine_v1/commission_fee"
)

// BacktestEngineV1Config controls capital, commission and risk settings for a
// run. Risk controls are fractions of entry price or initial capital; a value
// of 1.0 disables the control.
type BacktestEngineV1Config struct {
	InitialCapital     float64                    `yaml:"initial_capital" json:"initial_capital" validate:"gt=0" jsonschema:"title=Initial Capital,description=Starting capital for the backtest in USD,minimum=0"`
	Broker             commission_fee.Broker      `yaml:"broker" json:"broker" validate:"omitempty,oneof=flat_rate zero_commission interactive_broker" jsonschema:"title=Broker,description=The commission model applied to every fill"`
	CommissionRate     float64                    `yaml:"commission_rate" json:"commission_rate" validate:"gte=0,lt=1" jsonschema:"title=Commission Rate,description=Per-side commission rate for the flat-rate broker"`
	OverallStopLoss    float64                    `yaml:"overall_stop_loss" json:"overall_stop_loss" validate:"gte=0,lte=1" jsonschema:"title=Overall Stop Loss,description=Portfolio-wide stop loss fraction. 1.0 disables it"`
	OverallTakeProfit  float64                    `yaml:"overall_take_profit" json:"overall_take_profit" validate:"gte=0,lte=1" jsonschema:"title=Overall Take Profit,description=Portfolio-wide take profit fraction. 1.0 disables it"`
	PerTradeStopLoss   float64                    `yaml:"per_trade_stop_loss" json:"per_trade_stop_loss" validate:"gte=0,lte=1" jsonschema:"title=Per Trade Stop Loss,description=Per-trade stop loss fraction of entry price. 1.0 disables it"`
	PerTradeTakeProfit float64                    `yaml:"per_trade_take_profit" json:"per_trade_take_profit" validate:"gte=0,lte=1" jsonschema:"title=Per Trade Take Profit,description=Per-trade take profit fraction of entry price. 1.0 disables it"`
	MaxHoldingPeriod   optional.Option[int]       `yaml:"max_holding_period" json:"max_holding_period,omitempty" jsonschema:"title=Max Holding Period,description=Force an exit after this many bars"`
	AllowShort         bool                       `yaml:"allow_short" json:"allow_short" jsonschema:"title=Allow Short,description=Allow opening short positions"`
	DecimalPrecision   int32                      `yaml:"decimal_precision" json:"decimal_precision" validate:"gte=0" jsonschema:"title=Decimal Precision,description=Decimal places used when rounding reported metrics"`
	StartTime          optional.Option[time.Time] `yaml:"start_time" json:"start_time,omitempty" jsonschema:"title=Start Time,description=Optional start of the backtest period"`
	EndTime            optional.Option[time.Time] `yaml:"end_time" json:"end_time,omitempty" jsonschema:"title=End Time,description=Optional end of the backtest period"`
}

// UnmarshalYAML implements custom unmarshaling so absent fields fall back to
// the defaults instead of their zero values.
func (c *BacktestEngineV1Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type Config struct {
		InitialCapital     *float64              `yaml:"initial_capital"`
		Broker             commission_fee.Broker `yaml:"broker"`
		CommissionRate     *float64              `yaml:"commission_rate"`
		OverallStopLoss    *float64              `yaml:"overall_stop_loss"`
		OverallTakeProfit  *float64              `yaml:"overall_take_profit"`
		PerTradeStopLoss   *float64              `yaml:"per_trade_stop_loss"`
		PerTradeTakeProfit *float64              `yaml:"per_trade_take_profit"`
		MaxHoldingPeriod   *int                  `yaml:"max_holding_period"`
		AllowShort         bool                  `yaml:"allow_short"`
		DecimalPrecision   *int32                `yaml:"decimal_precision"`
		StartTime          *time.Time            `yaml:"start_time"`
		EndTime            *time.Time            `yaml:"end_time"`
	}

	var config Config
	if err := unmarshal(&config); err != nil {
		return err
	}

	*c = EmptyConfig()

	if config.InitialCapital != nil {
		c.InitialCapital = *config.InitialCapital
	}

	if config.Broker != "" {
		c.Broker = config.Broker
	}

	if config.CommissionRate != nil {
		c.CommissionRate = *config.CommissionRate
	}

	if config.OverallStopLoss != nil {
		c.OverallStopLoss = *config.OverallStopLoss
	}

	if config.OverallTakeProfit != nil {
		c.OverallTakeProfit = *config.OverallTakeProfit
	}

	if config.PerTradeStopLoss != nil {
		c.PerTradeStopLoss = *config.PerTradeStopLoss
	}

	if config.PerTradeTakeProfit != nil {
		c.PerTradeTakeProfit = *config.PerTradeTakeProfit
	}

	if config.MaxHoldingPeriod != nil {
		c.MaxHoldingPeriod = optional.Some(*config.MaxHoldingPeriod)
	}

	c.AllowShort = config.AllowShort

	if config.DecimalPrecision != nil {
		c.DecimalPrecision = *config.DecimalPrecision
	}

	if config.StartTime != nil {
		c.StartTime = optional.Some(*config.StartTime)
	}

	if config.EndTime != nil {
		c.EndTime = optional.Some(*config.EndTime)
	}

	return nil
}

// Validate checks the configuration invariants.
func (c *BacktestEngineV1Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid engine config: %w", err)
	}

	return nil
}

// GenerateSchema generates a JSON schema for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			}
			if t.String() == "optional.Option[int]" {
				return &jsonschema.Schema{
					Type: "integer",
				}
			}
			if strings.Contains(t.String(), "commission_fee.Broker") {
				return &jsonschema.Schema{
					Type: "string",
					Enum: commission_fee.AllBrokers,
				}
			}
			return nil
		},
	}

	schema := reflector.Reflect(c)

	schema.Title = "strategy-backtest-engine-v1-config"
	schema.Description = "Configuration schema for BacktestEngineV1"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

// EmptyConfig returns a BacktestEngineV1Config with default values.
func EmptyConfig() BacktestEngineV1Config {
	return BacktestEngineV1Config{
		InitialCapital:     10000,
		Broker:             commission_fee.BrokerFlatRate,
		CommissionRate:     commission_fee.DefaultFlatRate,
		OverallStopLoss:    1.0,
		OverallTakeProfit:  1.0,
		PerTradeStopLoss:   1.0,
		PerTradeTakeProfit: 1.0,
		MaxHoldingPeriod:   optional.None[int](),
		AllowShort:         false,
		DecimalPrecision:   2,
		StartTime:          optional.None[time.Time](),
		EndTime:            optional.None[time.Time](),
	}
}
