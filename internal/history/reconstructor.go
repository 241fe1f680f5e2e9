// Package history reconstructs the historical cost structure and profit
// baseline from raw sales rows.
package history

import (
	"github.com/rs/zerolog/log"

	"github.com/adaptlabs/adapt-engine/internal/domain"
)

const (
	// cogsRate models cost of goods as a fixed share of revenue (bulk
	// sourcing margin at scale; the source schema carries no row-level cost).
	cogsRate = 0.30

	// Historical per-unit shipping under single-warehouse routing.
	marketplaceShipPerUnit = 50
	d2cShipPerUnit         = 70

	// Stockout assumption: 10% of realized volume was unmet demand, valued
	// at a 30% net margin.
	lostSalesRate  = 0.10
	lostSaleMargin = 0.30
)

type channelAgg struct {
	volume   int
	priceSum float64
	rows     int
	adSpend  float64
}

// Reconstruct estimates per-channel financials, total profit, lost
// opportunity and logistics spend from raw rows. It never fails: empty or
// single-channel datasets simply yield fewer channel entries.
func Reconstruct(records []domain.SalesRecord) domain.HistoricalAudit {
	aggs := make(map[domain.Channel]*channelAgg)
	for _, r := range records {
		agg, ok := aggs[r.Channel]
		if !ok {
			agg = &channelAgg{}
			aggs[r.Channel] = agg
		}
		agg.volume += r.Quantity
		agg.priceSum += r.Price
		agg.rows++
		agg.adSpend += r.AdSpend
	}

	audit := domain.HistoricalAudit{
		ChannelMetrics: make(map[domain.Channel]domain.ChannelMetrics, len(aggs)),
	}

	for ch, agg := range aggs {
		profile, known := domain.ProfileFor(ch)
		if !known {
			log.Warn().Str("channel", string(ch)).Msg("unknown channel in dataset, using marketplace profile")
		}

		volume := agg.volume
		avgPrice := 0.0
		if agg.rows > 0 {
			avgPrice = agg.priceSum / float64(agg.rows)
		}
		revenue := float64(volume) * avgPrice

		cogs := revenue * cogsRate
		fees := revenue*profile.ReferralFee + float64(volume)*profile.ClosingFee

		shipPerUnit := float64(d2cShipPerUnit)
		if profile.Type == domain.ChannelTypeMarketplace {
			shipPerUnit = marketplaceShipPerUnit
		}
		logistics := float64(volume) * shipPerUnit

		marketing := agg.adSpend
		netProfit := revenue - (cogs + fees + logistics + marketing)

		lostVolume := int(float64(volume) * lostSalesRate)
		lostProfit := float64(lostVolume) * avgPrice * lostSaleMargin

		marginPct := 0.0
		if revenue > 0 {
			marginPct = netProfit / revenue * 100
		}

		audit.ChannelMetrics[ch] = domain.ChannelMetrics{
			Volume:          volume,
			Revenue:         revenue,
			COGS:            cogs,
			Fees:            fees,
			Logistics:       logistics,
			Marketing:       marketing,
			NetProfit:       netProfit,
			MarginPct:       marginPct,
			LostOpportunity: lostProfit,
		}

		audit.TotalProfit += netProfit
		audit.LostOpportunity += lostProfit
		audit.LogisticsSpend += logistics
		audit.TotalVolume += volume
	}

	return audit
}

// RegionShares returns the fraction of historical volume sold into each
// region. When no volume is present it falls back to a nominal North-heavy
// split so downstream distance math stays defined.
func RegionShares(records []domain.SalesRecord) map[domain.Region]float64 {
	totals := make(map[domain.Region]float64)
	var total float64
	for _, r := range records {
		totals[r.Region] += float64(r.Quantity)
		total += float64(r.Quantity)
	}

	if total <= 0 {
		return map[domain.Region]float64{
			domain.RegionNorth: 0.3,
			domain.RegionWest:  0.3,
			domain.RegionSouth: 0.2,
			domain.RegionEast:  0.2,
		}
	}

	shares := make(map[domain.Region]float64, len(totals))
	for region, qty := range totals {
		shares[region] = qty / total
	}
	return shares
}
