package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/adaptlabs/adapt-engine/internal/config"
	"github.com/adaptlabs/adapt-engine/internal/dataset"
	"github.com/adaptlabs/adapt-engine/internal/engine"
	"github.com/adaptlabs/adapt-engine/pkg/logger"
)

func main() {
	cfg := config.Load()

	app := &cli.App{
		Name:  "analyze",
		Usage: "Run the full supply-chain analysis over a sales CSV and print the result as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "Path to the sales CSV",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "product",
				Usage: "Product to analyze ('all' for every product)",
				Value: "all",
			},
			&cli.Float64Flag{
				Name:  "growth",
				Usage: "Expected demand growth rate in percent",
				Value: cfg.Engine.DefaultGrowthPct,
			},
			&cli.Float64Flag{
				Name:  "holding-pct",
				Usage: "Annual holding cost as a percent of unit price",
				Value: cfg.Engine.DefaultHoldingPct,
			},
			&cli.Float64Flag{
				Name:  "ordering-cost",
				Usage: "Fixed cost per purchase order",
				Value: cfg.Engine.DefaultOrderingCost,
			},
			&cli.BoolFlag{
				Name:  "match-historical",
				Usage: "Size the channel allocation on historical volume instead of the forecast",
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "Seed for the data-repair random source",
				Value: cfg.Engine.RepairSeed,
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, release)",
				Value: "release",
			},
		},
		Action: runAnalysis,
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("analysis failed")
	}
}

func runAnalysis(c *cli.Context) error {
	logger.SetLevel(c.String("log-level"))

	ds, err := dataset.LoadCSV(c.String("input"), rand.New(rand.NewSource(c.Int64("seed"))))
	if err != nil {
		return err
	}

	result, err := engine.Run(c.Context, engine.Input{
		Dataset:               ds,
		ProductID:             c.String("product"),
		GrowthRatePct:         c.Float64("growth"),
		HoldingPct:            c.Float64("holding-pct"),
		OrderingCost:          c.Float64("ordering-cost"),
		MatchHistoricalVolume: c.Bool("match-historical"),
	})
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
