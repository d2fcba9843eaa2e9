package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/strategy-backtest/internal/backtest/engine"
	engine_v1 "github.com/rxtech-lab/strategy-backtest/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/strategy-backtest/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/strategy-backtest/internal/indicator"
	"github.com/rxtech-lab/strategy-backtest/internal/logger"
	"github.com/rxtech-lab/strategy-backtest/internal/strategy/parser"
	"github.com/rxtech-lab/strategy-backtest/internal/types"
	"github.com/rxtech-lab/strategy-backtest/internal/version"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
)

// runAction wires the full pipeline: parse the strategy description, load the
// CSV market data through DuckDB, run the simulation, and write the result.
func runAction(ctx context.Context, cmd *cli.Command) error {
	dataPath := cmd.String("data")
	baselinePath := cmd.String("baseline")
	configPath := cmd.String("config")
	description := cmd.String("strategy")
	outputPath := cmd.String("output")

	config := ""

	if configPath != "" {
		content, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}

		config = string(content)
	}

	backtester := engine_v1.NewBacktestEngineV1()

	if err := backtester.Initialize(config); err != nil {
		return fmt.Errorf("failed to initialize backtest engine: %w", err)
	}

	if err := backtester.SetStrategyDescription(description); err != nil {
		return err
	}

	log, err := logger.NewLogger()
	if err != nil {
		return err
	}

	source, err := datasource.NewDuckDBDataSource(log)
	if err != nil {
		return err
	}
	defer source.Close()

	if err := backtester.SetDataSource(source); err != nil {
		return err
	}

	if err := backtester.LoadDataFromFile(dataPath); err != nil {
		return err
	}

	if baselinePath != "" {
		baselineSource, err := datasource.NewDuckDBDataSource(log)
		if err != nil {
			return err
		}
		defer baselineSource.Close()

		if err := backtester.SetDataSource(baselineSource); err != nil {
			return err
		}

		if err := backtester.LoadBaselineDataFromFile(baselinePath); err != nil {
			return err
		}
	}

	var bar *progressbar.ProgressBar

	callback := engine.OnProcessDataCallback(func(current int, total int) error {
		if bar == nil {
			bar = progressbar.Default(int64(total), "Backtesting")
		}

		return bar.Set(current)
	})

	result, err := backtester.Run(ctx, optional.Some(callback))
	if err != nil {
		return err
	}

	printSummary(result)

	if outputPath != "" {
		if err := types.WriteBacktestResult(outputPath, result); err != nil {
			return err
		}

		fmt.Printf("Result written to %s\n", outputPath)
	}

	return nil
}

func printSummary(result *types.BacktestResult) {
	fmt.Printf("\nStrategy: %s\n", result.Strategy.Description)
	fmt.Printf("Trades: %d (win rate %.2f%%)\n", result.Metrics.TotalTrades, result.Metrics.WinRate)
	fmt.Printf("Total return: %.2f%% (annualized %.2f%%)\n", result.Metrics.TotalReturn, result.Metrics.AnnualizedReturn)
	fmt.Printf("Final equity: %.2f\n", result.Metrics.FinalEquity)
	fmt.Printf("Max drawdown: %.2f%%\n", result.Metrics.MaxDrawdown)
	fmt.Printf("Buy and hold return: %.2f%%\n", result.BuyAndHold.Metrics.TotalReturn)
}

// schemaAction prints the engine configuration JSON schema.
func schemaAction(ctx context.Context, cmd *cli.Command) error {
	backtester := engine_v1.NewBacktestEngineV1()

	schema, err := backtester.GetConfigSchema()
	if err != nil {
		return err
	}

	fmt.Println(schema)

	return nil
}

// indicatorsAction lists every indicator the default registry provides.
func indicatorsAction(ctx context.Context, cmd *cli.Command) error {
	registry := indicator.NewDefaultIndicatorRegistry()

	for _, name := range registry.ListIndicators() {
		fmt.Println(name)
	}

	return nil
}

// examplesAction lists strategy descriptions the parser is known to accept.
func examplesAction(ctx context.Context, cmd *cli.Command) error {
	for _, example := range parser.ExampleStrategies {
		fmt.Println(example)
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:    "backtest",
		Usage:   "Backtest a natural-language trading strategy against historical data",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run a backtest",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "Path to the market data CSV file",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "baseline",
						Aliases:  []string{"b"},
						Usage:    "Path to a separate CSV file for the buy-and-hold comparison",
						Required: false,
					},
					&cli.StringFlag{
						Name:     "config",
						Aliases:  []string{"c"},
						Usage:    "Path to the engine configuration YAML file",
						Required: false,
					},
					&cli.StringFlag{
						Name:     "strategy",
						Aliases:  []string{"s"},
						Usage:    "Strategy description, e.g. \"Buy when RSI falls below 30 and sell when RSI rises above 70.\"",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "output",
						Aliases:  []string{"o"},
						Usage:    "Path to write the full result YAML to",
						Required: false,
					},
				},
				Action: runAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the engine configuration JSON schema",
				Action: schemaAction,
			},
			{
				Name:   "indicators",
				Usage:  "List the available indicators",
				Action: indicatorsAction,
			},
			{
				Name:   "examples",
				Usage:  "List example strategy descriptions",
				Action: examplesAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
