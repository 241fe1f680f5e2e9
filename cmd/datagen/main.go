package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/adaptlabs/adapt-engine/internal/datagen"
	"github.com/adaptlabs/adapt-engine/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "datagen",
		Usage: "Generate a synthetic sales CSV for testing the analysis pipeline",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output CSV path",
				Value:   "sales_data.csv",
			},
			&cli.IntFlag{
				Name:  "days",
				Usage: "Number of days to generate",
				Value: 730,
			},
			&cli.StringFlag{
				Name:  "start",
				Usage: "First day of the series (YYYY-MM-DD)",
				Value: "2023-01-01",
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "Random seed",
				Value: 42,
			},
		},
		Action: runGenerate,
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("data generation failed")
	}
}

func runGenerate(c *cli.Context) error {
	start, err := time.Parse("2006-01-02", c.String("start"))
	if err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}

	records := datagen.Generate(datagen.Config{
		StartDate: start,
		Days:      c.Int("days"),
		Seed:      c.Int64("seed"),
	})

	f, err := os.Create(c.String("output"))
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := datagen.WriteCSV(f, records); err != nil {
		return err
	}

	logger.Log.Info().
		Str("output", c.String("output")).
		Int("records", len(records)).
		Msg("synthetic sales data written")
	return nil
}
