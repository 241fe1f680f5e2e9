package network

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adaptlabs/adapt-engine/internal/domain"
)

func evenShares() map[domain.Region]float64 {
	return map[domain.Region]float64{
		domain.RegionNorth: 0.25,
		domain.RegionWest:  0.25,
		domain.RegionSouth: 0.25,
		domain.RegionEast:  0.25,
	}
}

func TestPlanEvaluatesThreeScenarios(t *testing.T) {
	plan := Plan(100000, evenShares())

	require.Len(t, plan.Scenarios, 3)
	for n := 1; n <= 3; n++ {
		sc := plan.Scenarios[n]
		assert.Equal(t, n, sc.HubCount)
		assert.Len(t, sc.Hubs, n)
		assert.InDelta(t, sc.Rent+sc.Shipping, sc.Total, 1e-6)
	}

	best := plan.Scenarios[plan.BestN]
	for _, sc := range plan.Scenarios {
		assert.LessOrEqual(t, best.Total, sc.Total)
	}
}

func TestPlanRentGrowsWithHubCount(t *testing.T) {
	plan := Plan(50000, evenShares())
	assert.Less(t, plan.Scenarios[1].Rent, plan.Scenarios[2].Rent)
	assert.Less(t, plan.Scenarios[2].Rent, plan.Scenarios[3].Rent)
}

func TestPlanShippingRateDropsWithHubCount(t *testing.T) {
	demand := 100000
	plan := Plan(demand, evenShares())
	assert.Equal(t, float64(demand)*50, plan.Scenarios[1].Shipping)
	assert.Equal(t, float64(demand)*32, plan.Scenarios[2].Shipping)
	assert.Equal(t, float64(demand)*28, plan.Scenarios[3].Shipping)
}

func TestPlanHighDemandFavorsMoreHubs(t *testing.T) {
	// At high volume the per-unit shipping saving dwarfs incremental rent.
	big := Plan(1000000, evenShares())
	small := Plan(1000, evenShares())
	assert.Greater(t, big.BestN, small.BestN)
	assert.Equal(t, 1, small.BestN)
}

func TestRankFacilitiesFollowsDemandSkew(t *testing.T) {
	eastHeavy := map[domain.Region]float64{
		domain.RegionNorth: 0.05,
		domain.RegionWest:  0.05,
		domain.RegionSouth: 0.05,
		domain.RegionEast:  0.85,
	}
	ranked := rankFacilities(domain.FacilityCandidates(), eastHeavy)
	// Kolkata is both the cheapest candidate and the closest to an
	// east-heavy demand field.
	assert.Equal(t, "East_Kolkata", ranked[0].Name)
}

func TestFacilityScoreMonotonicInRent(t *testing.T) {
	shares := evenShares()
	f := domain.FacilityCandidate{Name: "X", Rent: 30, Lat: 20, Lon: 78}

	base := facilityScore(f, shares)
	f.Rent = 31
	raised := facilityScore(f, shares)

	// Raising rent with distance held fixed can only worsen the score.
	assert.Greater(t, raised, base)
	assert.InDelta(t, 1000.0, raised-base, 1e-6)
}

func TestRelocationAdviceNamesACandidate(t *testing.T) {
	northOnly := map[domain.Region]float64{domain.RegionNorth: 1}
	advice := RelocationAdvice(northOnly)
	assert.Contains(t, advice, "North_Delhi")
	assert.Contains(t, advice, "keep the main hub")

	westOnly := map[domain.Region]float64{domain.RegionWest: 1}
	advice = RelocationAdvice(westOnly)
	assert.Contains(t, advice, "West_Mumbai")
	assert.True(t, strings.Contains(advice, "relocating"))
}

func TestRelocationAdviceHandlesEmptyShares(t *testing.T) {
	advice := RelocationAdvice(map[domain.Region]float64{})
	assert.Contains(t, advice, domain.CurrentMainHub)
}
