// Package engine composes the analysis pipeline: historical reconstruction,
// demand forecast, network sizing, channel allocation, inventory planning and
// scenario simulation, producing one AnalysisResult per run.
package engine

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/adaptlabs/adapt-engine/internal/allocation"
	"github.com/adaptlabs/adapt-engine/internal/dataset"
	"github.com/adaptlabs/adapt-engine/internal/domain"
	"github.com/adaptlabs/adapt-engine/internal/forecast"
	"github.com/adaptlabs/adapt-engine/internal/history"
	"github.com/adaptlabs/adapt-engine/internal/inventory"
	"github.com/adaptlabs/adapt-engine/internal/network"
	"github.com/adaptlabs/adapt-engine/internal/scenario"
)

// Input is everything one run needs. There is no process-wide state: two runs
// with equal inputs produce equal results.
type Input struct {
	Dataset       *dataset.Dataset
	ProductID     string
	GrowthRatePct float64
	HoldingPct    float64
	OrderingCost  float64

	// MatchHistoricalVolume sizes the channel allocation on the observed
	// historical volume instead of the forecast, for like-for-like comparison
	// against the reconstructed baseline.
	MatchHistoricalVolume bool
}

// Run executes the full pipeline. It fails only on unusable input (no rows
// for the product, a series too short to forecast); every softer degradation
// is handled downstream and logged.
func Run(ctx context.Context, in Input) (*domain.AnalysisResult, error) {
	if in.Dataset == nil {
		return nil, fmt.Errorf("engine: dataset is required")
	}

	productID := in.ProductID
	if productID == "" {
		productID = domain.AllProducts
	}

	records := in.Dataset.Filter(productID)
	if len(records) == 0 {
		return nil, fmt.Errorf("engine: no sales rows for product %q", productID)
	}

	avgPrice := meanPrice(records)
	if avgPrice <= 0 {
		return nil, fmt.Errorf("engine: non-positive average price for product %q", productID)
	}

	log.Info().
		Str("product", productID).
		Int("rows", len(records)).
		Float64("avg_price", avgPrice).
		Msg("starting analysis run")

	historical := history.Reconstruct(records)
	regionShares := history.RegionShares(records)

	fc, err := forecast.Run(ctx, records, in.GrowthRatePct)
	if err != nil {
		return nil, fmt.Errorf("engine: forecast failed: %w", err)
	}

	plan := network.Plan(fc.AnnualDemand, regionShares)

	allocVolume := fc.AnnualDemand
	if in.MatchHistoricalVolume {
		allocVolume = historical.TotalVolume
		log.Info().Int("volume", allocVolume).Msg("allocating on historical volume")
	}

	// The three strategy solves are independent.
	strategies := []domain.Strategy{domain.StrategyProfit, domain.StrategyBrand, domain.StrategyBalanced}
	allocations := make([]domain.AllocationResult, len(strategies))
	g, _ := errgroup.WithContext(ctx)
	for i, s := range strategies {
		g.Go(func() error {
			allocations[i] = allocation.Allocate(s, allocVolume, avgPrice)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	inv := inventory.Plan(fc.AnnualDemand, avgPrice, in.HoldingPct, in.OrderingCost)

	best := plan.Scenarios[plan.BestN]
	optimized := scenario.Project(allocations[0], avgPrice, best.Shipping)
	warGames := scenario.WarGames(optimized.Profit, fc.AnnualDemand, avgPrice)

	return &domain.AnalysisResult{
		ProductID:        productID,
		Historical:       historical,
		Forecast:         fc,
		Network:          plan,
		Inventory:        inv,
		Optimized:        optimized,
		Alternatives:     allocations[1:],
		WarGames:         warGames,
		RelocationAdvice: network.RelocationAdvice(regionShares),
		DataRepaired:     in.Dataset.Repair.Repaired(),
	}, nil
}

func meanPrice(records []domain.SalesRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum float64
	for _, r := range records {
		sum += r.Price
	}
	return sum / float64(len(records))
}
