// Package network sizes the fulfillment footprint: it scores warehouse
// candidates against the demand distribution, costs out 1/2/3-hub networks
// against forecast demand, and advises on relocating the main hub.
package network

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/adaptlabs/adapt-engine/internal/domain"
	"github.com/adaptlabs/adapt-engine/internal/geo"
)

const (
	// Score weights: rent dominates, distance to demand breaks ties.
	rentScoreWeight     = 1000
	distanceScoreWeight = 50

	// Annualized rent per hub: rent proxy × assumed 2000 sqft × 12 months.
	facilitySqft  = 2000
	monthsPerYear = 12

	maxHubs = 3
)

// shippingPerUnit is the blended per-unit outbound cost at each network size.
// More hubs shorten the last mile but add cross-docking overhead, so returns
// diminish quickly.
var shippingPerUnit = map[int]float64{
	1: 50,
	2: 32,
	3: 28,
}

// Plan evaluates 1..3-hub networks for the forecast annual demand and the
// historical regional demand mix, returning every scenario plus the cheapest.
func Plan(annualDemand int, regionShares map[domain.Region]float64) domain.NetworkPlan {
	ranked := rankFacilities(domain.FacilityCandidates(), regionShares)

	plan := domain.NetworkPlan{
		Scenarios: make(map[int]domain.NetworkScenario, maxHubs),
	}

	bestTotal := math.Inf(1)
	for n := 1; n <= maxHubs; n++ {
		hubs := ranked[:n]

		var rent float64
		names := make([]string, n)
		for i, f := range hubs {
			rent += f.Rent * facilitySqft * monthsPerYear
			names[i] = f.Name
		}

		shipping := float64(annualDemand) * shippingPerUnit[n]
		total := rent + shipping

		plan.Scenarios[n] = domain.NetworkScenario{
			HubCount: n,
			Hubs:     names,
			Rent:     rent,
			Shipping: shipping,
			Total:    total,
		}
		if total < bestTotal {
			bestTotal = total
			plan.BestN = n
		}
	}

	log.Info().
		Int("best_n", plan.BestN).
		Float64("total_cost", bestTotal).
		Msg("network plan computed")

	return plan
}

// rankFacilities orders candidates by score ascending. The score is monthly
// rent weighted against the demand-share-weighted distance to every zone, so
// a cheap but remote site must beat a pricier central one on both counts.
func rankFacilities(candidates []domain.FacilityCandidate, regionShares map[domain.Region]float64) []domain.FacilityCandidate {
	scores := make(map[string]float64, len(candidates))
	for _, f := range candidates {
		scores[f.Name] = facilityScore(f, regionShares)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return scores[candidates[i].Name] < scores[candidates[j].Name]
	})
	return candidates
}

func facilityScore(f domain.FacilityCandidate, regionShares map[domain.Region]float64) float64 {
	var weighted float64
	for _, region := range domain.Regions() {
		zone := domain.ZoneFor(region)
		weighted += regionShares[region] * geo.Haversine(f.Lat, f.Lon, zone.Lat, zone.Lon)
	}
	return f.Rent*rentScoreWeight + weighted*distanceScoreWeight
}

// RelocationAdvice finds the demand center of gravity and the candidate
// nearest to it. If that differs from the current main hub the advice calls
// out the move, otherwise it confirms the status quo.
func RelocationAdvice(regionShares map[domain.Region]float64) string {
	var lat, lon, total float64
	for _, region := range domain.Regions() {
		share := regionShares[region]
		zone := domain.ZoneFor(region)
		lat += share * zone.Lat
		lon += share * zone.Lon
		total += share
	}
	if total <= 0 {
		return fmt.Sprintf("Insufficient regional data; keep the main hub at %s.", domain.CurrentMainHub)
	}
	lat /= total
	lon /= total

	nearest := domain.FacilityCandidates()[0]
	nearestDist := math.Inf(1)
	for _, f := range domain.FacilityCandidates() {
		d := geo.Haversine(lat, lon, f.Lat, f.Lon)
		if d < nearestDist {
			nearestDist = d
			nearest = f
		}
	}

	if nearest.Name == domain.CurrentMainHub {
		return fmt.Sprintf("Demand center of gravity sits closest to %s; keep the main hub where it is.", nearest.Name)
	}
	return fmt.Sprintf("Demand center of gravity sits closest to %s (%.0f km away); consider relocating the main hub from %s.",
		nearest.Name, nearestDist, domain.CurrentMainHub)
}
