package engine

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adaptlabs/adapt-engine/internal/dataset"
	"github.com/adaptlabs/adapt-engine/internal/domain"
)

func fixtureDataset(days int) *dataset.Dataset {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	channels := domain.Channels()
	regions := domain.Regions()

	records := make([]domain.SalesRecord, 0, days*2)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		qty := 40 + int(10*math.Sin(float64(i)/11)) + i/30
		records = append(records, domain.SalesRecord{
			Date:      date,
			ProductID: "SKU-1",
			Price:     1200,
			Quantity:  qty,
			Channel:   channels[i%len(channels)],
			Region:    regions[i%len(regions)],
			AdSpend:   800 + 40*math.Sin(float64(i)/7),
		})
		records = append(records, domain.SalesRecord{
			Date:      date,
			ProductID: "SKU-2",
			Price:     600,
			Quantity:  qty / 2,
			Channel:   channels[(i+1)%len(channels)],
			Region:    regions[(i+2)%len(regions)],
			AdSpend:   300,
		})
	}
	return dataset.FromRecords(records)
}

func baseInput(ds *dataset.Dataset) Input {
	return Input{
		Dataset:       ds,
		ProductID:     domain.AllProducts,
		GrowthRatePct: 15,
		HoldingPct:    20,
		OrderingCost:  1500,
	}
}

func TestRunProducesAllSections(t *testing.T) {
	ds := fixtureDataset(400)
	result, err := Run(context.Background(), baseInput(ds))
	require.NoError(t, err)

	assert.Equal(t, domain.AllProducts, result.ProductID)
	assert.NotEmpty(t, result.Historical.ChannelMetrics)
	assert.Greater(t, result.Historical.TotalVolume, 0)

	assert.Len(t, result.Forecast.FutureCurve, 365)
	assert.Greater(t, result.Forecast.AnnualDemand, 0)

	assert.Len(t, result.Network.Scenarios, 3)
	assert.Contains(t, []int{1, 2, 3}, result.Network.BestN)

	assert.Equal(t, domain.StrategyProfit, result.Optimized.Allocation.Strategy)
	require.Len(t, result.Alternatives, 2)
	assert.Equal(t, domain.StrategyBrand, result.Alternatives[0].Strategy)
	assert.Equal(t, domain.StrategyBalanced, result.Alternatives[1].Strategy)

	assert.GreaterOrEqual(t, result.Inventory.EOQ, 1)
	assert.Len(t, result.Inventory.Quarters, 4)

	assert.Len(t, result.WarGames, 3)
	assert.NotEmpty(t, result.RelocationAdvice)
	assert.False(t, result.DataRepaired)
}

func TestRunIsDeterministic(t *testing.T) {
	ds := fixtureDataset(400)
	in := baseInput(ds)

	first, err := Run(context.Background(), in)
	require.NoError(t, err)
	second, err := Run(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunFiltersByProduct(t *testing.T) {
	ds := fixtureDataset(400)
	in := baseInput(ds)
	in.ProductID = "SKU-2"

	result, err := Run(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "SKU-2", result.ProductID)

	// SKU-2 sells half the volume of SKU-1 at half the price.
	all, err := Run(context.Background(), baseInput(ds))
	require.NoError(t, err)
	assert.Less(t, result.Historical.TotalVolume, all.Historical.TotalVolume)
}

func TestRunMatchHistoricalVolume(t *testing.T) {
	ds := fixtureDataset(400)
	in := baseInput(ds)
	in.MatchHistoricalVolume = true

	result, err := Run(context.Background(), in)
	require.NoError(t, err)

	total := 0
	for _, units := range result.Optimized.Allocation.Allocation {
		total += units
	}
	assert.Equal(t, result.Historical.TotalVolume, total)
}

func TestRunRejectsBadInput(t *testing.T) {
	_, err := Run(context.Background(), Input{})
	assert.Error(t, err)

	ds := fixtureDataset(400)
	in := baseInput(ds)
	in.ProductID = "SKU-MISSING"
	_, err = Run(context.Background(), in)
	assert.Error(t, err)

	short := baseInput(fixtureDataset(30))
	_, err = Run(context.Background(), short)
	assert.Error(t, err)
}
