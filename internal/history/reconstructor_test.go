package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adaptlabs/adapt-engine/internal/domain"
)

func record(ch domain.Channel, region domain.Region, price float64, qty int, ad float64) domain.SalesRecord {
	return domain.SalesRecord{
		Date:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		ProductID: "SKU-1",
		Price:     price,
		Quantity:  qty,
		Channel:   ch,
		Region:    region,
		AdSpend:   ad,
	}
}

func TestReconstructSingleChannel(t *testing.T) {
	// 1000 units at 500 through Amazon with 10000 total ad spend.
	records := []domain.SalesRecord{
		record(domain.ChannelAmazon, domain.RegionNorth, 500, 600, 6000),
		record(domain.ChannelAmazon, domain.RegionNorth, 500, 400, 4000),
	}

	audit := Reconstruct(records)
	require.Len(t, audit.ChannelMetrics, 1)
	m := audit.ChannelMetrics[domain.ChannelAmazon]

	assert.Equal(t, 1000, m.Volume)
	assert.InDelta(t, 500000, m.Revenue, 1e-9)
	assert.InDelta(t, 150000, m.COGS, 1e-9) // 30% of revenue
	// 15% referral + 30/unit closing fee.
	assert.InDelta(t, 500000*0.15+1000*30, m.Fees, 1e-9)
	// Marketplace single-warehouse shipping at 50/unit.
	assert.InDelta(t, 50000, m.Logistics, 1e-9)
	assert.InDelta(t, 10000, m.Marketing, 1e-9)
	assert.InDelta(t, m.Revenue-m.COGS-m.Fees-m.Logistics-m.Marketing, m.NetProfit, 1e-9)

	// Lost opportunity: 10% of volume at a 30% margin on the average price.
	assert.InDelta(t, 100*500*0.30, m.LostOpportunity, 1e-9)
	assert.InDelta(t, 15000, audit.LostOpportunity, 1e-9)
	assert.Equal(t, 1000, audit.TotalVolume)
}

func TestReconstructD2CShipsAtHigherRate(t *testing.T) {
	audit := Reconstruct([]domain.SalesRecord{
		record(domain.ChannelOwnWebsite, domain.RegionWest, 1000, 100, 0),
	})
	m := audit.ChannelMetrics[domain.ChannelOwnWebsite]
	assert.InDelta(t, 100*70, m.Logistics, 1e-9)
}

func TestReconstructUnknownChannelUsesMarketplaceProfile(t *testing.T) {
	audit := Reconstruct([]domain.SalesRecord{
		record(domain.Channel("Meesho"), domain.RegionNorth, 100, 10, 0),
	})
	m := audit.ChannelMetrics[domain.Channel("Meesho")]
	// Amazon profile: 15% referral + 30 closing, marketplace shipping.
	assert.InDelta(t, 1000*0.15+10*30, m.Fees, 1e-9)
	assert.InDelta(t, 10*50, m.Logistics, 1e-9)
}

func TestReconstructEmptyDataset(t *testing.T) {
	audit := Reconstruct(nil)
	assert.Empty(t, audit.ChannelMetrics)
	assert.Zero(t, audit.TotalProfit)
	assert.Zero(t, audit.TotalVolume)
}

func TestRegionSharesWeightedByQuantity(t *testing.T) {
	shares := RegionShares([]domain.SalesRecord{
		record(domain.ChannelAmazon, domain.RegionNorth, 100, 60, 0),
		record(domain.ChannelAmazon, domain.RegionWest, 100, 30, 0),
		record(domain.ChannelAmazon, domain.RegionSouth, 100, 10, 0),
	})

	assert.InDelta(t, 0.6, shares[domain.RegionNorth], 1e-9)
	assert.InDelta(t, 0.3, shares[domain.RegionWest], 1e-9)
	assert.InDelta(t, 0.1, shares[domain.RegionSouth], 1e-9)
	assert.NotContains(t, shares, domain.RegionEast)
}

func TestRegionSharesFallbackOnEmpty(t *testing.T) {
	shares := RegionShares(nil)
	assert.InDelta(t, 0.3, shares[domain.RegionNorth], 1e-9)
	assert.InDelta(t, 0.3, shares[domain.RegionWest], 1e-9)
	assert.InDelta(t, 0.2, shares[domain.RegionSouth], 1e-9)
	assert.InDelta(t, 0.2, shares[domain.RegionEast], 1e-9)
}
