// Package scenario projects the financials of running the optimized plan and
// stress-tests that projection against adversarial market moves.
package scenario

import (
	"github.com/rs/zerolog/log"

	"github.com/adaptlabs/adapt-engine/internal/domain"
)

const (
	cogsRate = 0.30

	// Cost optimizations assumed once the plan is executed: renegotiated
	// marketplace rate cards, tighter ad targeting at committed volume, and
	// bulk FC injection instead of per-order shipping.
	feeNegotiationFactor      = 0.95
	marketingEfficiencyFactor = 0.75
	bulkLogisticsFactor       = 0.75

	// fallbackShipPerUnit is used when the network plan carries no volume.
	fallbackShipPerUnit = 35

	// Multi-hub stock placement recaptures previously lost sales.
	recaptureRate   = 0.10
	recaptureMargin = 0.30

	// Each D2C sale is an owned customer relationship with resale value.
	brandEquityPerD2CUnit = 400
)

// Project prices out the allocation under the optimized cost structure:
// negotiated fees, efficient marketing, and the chosen network's shipping
// rate. networkShipping is the best scenario's annual shipping spend.
func Project(alloc domain.AllocationResult, avgPrice, networkShipping float64) domain.OptimizedPlan {
	totalUnits := 0
	for _, units := range alloc.Allocation {
		totalUnits += units
	}

	shipPerUnit := float64(fallbackShipPerUnit)
	if totalUnits > 0 && networkShipping > 0 {
		shipPerUnit = networkShipping / float64(totalUnits)
	} else {
		log.Warn().Int("units", totalUnits).Msg("no network volume, using fallback shipping rate")
	}

	plan := domain.OptimizedPlan{
		Allocation: alloc,
		Financials: make(map[domain.Channel]domain.ChannelMetrics, len(alloc.Allocation)),
	}

	var totalRevenue float64
	for ch, units := range alloc.Allocation {
		profile, _ := domain.ProfileFor(ch)

		volume := float64(units)
		revenue := volume * avgPrice
		cogs := revenue * cogsRate
		fees := (revenue*profile.ReferralFee + volume*profile.ClosingFee) * feeNegotiationFactor
		marketing := revenue * profile.MarketingCAC * marketingEfficiencyFactor

		unitShip := shipPerUnit
		if profile.Type == domain.ChannelTypeMarketplace {
			unitShip *= bulkLogisticsFactor
		}
		logistics := volume * unitShip

		netProfit := revenue - cogs - fees - logistics - marketing
		marginPct := 0.0
		if revenue > 0 {
			marginPct = netProfit / revenue * 100
		}

		plan.Financials[ch] = domain.ChannelMetrics{
			Volume:    units,
			Revenue:   revenue,
			COGS:      cogs,
			Fees:      fees,
			Logistics: logistics,
			Marketing: marketing,
			NetProfit: netProfit,
			MarginPct: marginPct,
		}

		plan.Profit += netProfit
		totalRevenue += revenue

		if profile.Type == domain.ChannelTypeD2C {
			plan.BrandEquity += volume * brandEquityPerD2CUnit
		}
	}

	// Better regional stock placement converts part of the historical lost
	// demand back into margin.
	plan.Profit += totalRevenue * recaptureRate * recaptureMargin

	return plan
}

// WarGames stress-tests the projected profit with two adversarial moves and
// one upside lever, each with a closed-form annual impact.
func WarGames(projectedProfit float64, annualDemand int, avgPrice float64) []domain.WarGameScenario {
	demand := float64(annualDemand)

	scenarios := []struct {
		name   string
		impact float64
		risk   string
	}{
		// Marketplace rate cards move 2 points on the half of volume routed
		// through marketplaces.
		{"marketplace_fee_hike", -avgPrice * demand * 0.5 * 0.02, "Medium"},
		// Competitor price war forces an 8% realized-price cut on all volume.
		{"price_war", -avgPrice * 0.08 * demand, "High"},
		// Route consolidation recovers 30% of a flat 50/unit shipping baseline.
		{"logistics_optimization", demand * 50 * 0.30, "Opportunity"},
	}

	out := make([]domain.WarGameScenario, 0, len(scenarios))
	for _, sc := range scenarios {
		out = append(out, domain.WarGameScenario{
			Name:            sc.name,
			ProjectedProfit: projectedProfit + sc.impact,
			Impact:          sc.impact,
			Risk:            sc.risk,
		})
	}
	return out
}
