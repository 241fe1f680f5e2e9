// Package allocation solves the channel-mix problem: how many units of the
// annual demand to route through each sales channel, maximizing weighted
// per-unit contribution under traffic caps and presence floors.
package allocation

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/adaptlabs/adapt-engine/internal/domain"
)

const (
	// Per-unit outbound cost under the optimized multi-hub network.
	marketplaceLogistics = 32
	d2cLogistics         = 40

	// minVolume keeps the LP defined when the forecast collapses.
	minVolume = 100

	simplexTol = 1e-10
)

// bounds are per-channel volume limits expressed as fractions of total volume.
type bounds struct {
	cap   map[domain.Channel]float64
	floor map[domain.Channel]float64
}

// defaultBounds caps each channel slightly above its organic traffic ceiling
// and floors it at a minimum viable presence. Own_Website gets a higher floor
// to protect the customer-data channel.
var defaultBounds = bounds{
	cap: map[domain.Channel]float64{
		domain.ChannelAmazon:     0.55,
		domain.ChannelFlipkart:   0.45,
		domain.ChannelOwnWebsite: 0.40,
	},
	floor: map[domain.Channel]float64{
		domain.ChannelAmazon:     0.10,
		domain.ChannelFlipkart:   0.10,
		domain.ChannelOwnWebsite: 0.18,
	},
}

// fallbackSplit is the fixed conservative mix applied when the solver fails.
var fallbackSplit = map[domain.Channel]float64{
	domain.ChannelAmazon:     0.45,
	domain.ChannelFlipkart:   0.35,
	domain.ChannelOwnWebsite: 0.20,
}

// strategyWeight boosts the D2C channel's objective coefficient for the
// brand-building strategies; marketplaces always weigh 1.
func strategyWeight(strategy domain.Strategy, ch domain.Channel) float64 {
	if ch != domain.ChannelOwnWebsite {
		return 1.0
	}
	switch strategy {
	case domain.StrategyBrand:
		return 1.3
	case domain.StrategyBalanced:
		return 1.1
	default:
		return 1.0
	}
}

// UnitEconomicsFor breaks one unit sold at avgPrice through a channel into its
// cost components. COGS is identical across channels so it is excluded here;
// the projection layer reintroduces it.
func UnitEconomicsFor(ch domain.Channel, avgPrice float64) domain.UnitEconomics {
	profile, known := domain.ProfileFor(ch)
	if !known {
		log.Warn().Str("channel", string(ch)).Msg("unknown channel in allocation, using marketplace profile")
	}

	logistics := float64(d2cLogistics)
	if profile.Type == domain.ChannelTypeMarketplace {
		logistics = marketplaceLogistics
	}

	fees := avgPrice*profile.ReferralFee + profile.ClosingFee
	marketing := avgPrice * profile.MarketingCAC

	return domain.UnitEconomics{
		Revenue:      avgPrice,
		Fees:         fees,
		Logistics:    logistics,
		Marketing:    marketing,
		Contribution: avgPrice - fees - logistics - marketing,
	}
}

// Allocate solves the channel mix for one strategy. The result is tagged
// Optimal when the LP solved, or Fallback with a reason when it could not;
// callers can branch on the status instead of guessing from the numbers.
func Allocate(strategy domain.Strategy, annualDemand int, avgPrice float64) domain.AllocationResult {
	return allocateWithBounds(strategy, annualDemand, avgPrice, defaultBounds)
}

func allocateWithBounds(strategy domain.Strategy, annualDemand int, avgPrice float64, b bounds) domain.AllocationResult {
	volume := annualDemand
	if volume <= 0 {
		log.Warn().Int("annual_demand", annualDemand).Msg("non-positive demand, allocating minimum volume")
		volume = minVolume
	}

	channels := domain.Channels()
	financials := make(map[domain.Channel]domain.UnitEconomics, len(channels))
	weighted := make([]float64, len(channels))
	for i, ch := range channels {
		ue := UnitEconomicsFor(ch, avgPrice)
		financials[ch] = ue
		weighted[i] = strategyWeight(strategy, ch) * ue.Contribution
	}

	result := domain.AllocationResult{
		Strategy:   strategy,
		Financials: financials,
	}

	fractions, err := solveLP(weighted, channels, volume, b)
	if err != nil {
		log.Warn().Err(err).Str("strategy", string(strategy)).Msg("channel LP unsolvable, applying fallback split")
		result.Status = domain.AllocationFallback
		result.Reason = err.Error()
		result.Allocation = integerize(fallbackSplit, channels, volume, bounds{})
	} else {
		result.Status = domain.AllocationOptimal
		result.Allocation = integerize(fractions, channels, volume, b)
	}

	for i, ch := range channels {
		result.Objective += weighted[i] * float64(result.Allocation[ch])
	}
	return result
}

// solveLP maximizes Σ w_i·x_i subject to Σ x_i = V, floors and caps. The
// volume is normalized out so the solve works on fractions.
func solveLP(weighted []float64, channels []domain.Channel, volume int, b bounds) (map[domain.Channel]float64, error) {
	n := len(channels)

	// Simplex minimizes, so negate the objective.
	c := make([]float64, n)
	for i, w := range weighted {
		c[i] = -w
	}

	// Inequalities: x_i <= cap_i and -x_i <= -floor_i.
	g := mat.NewDense(2*n, n, nil)
	h := make([]float64, 2*n)
	for i, ch := range channels {
		g.Set(i, i, 1)
		h[i] = b.cap[ch]
		g.Set(n+i, i, -1)
		h[n+i] = -b.floor[ch]
	}

	a := mat.NewDense(1, n, nil)
	for i := 0; i < n; i++ {
		a.Set(0, i, 1)
	}
	bEq := []float64{1}

	cStd, aStd, bStd := lp.Convert(c, g, h, a, bEq)
	_, xStd, err := lp.Simplex(cStd, aStd, bStd, simplexTol, nil)
	if err != nil {
		return nil, fmt.Errorf("allocation: simplex failed: %w", err)
	}

	// Convert splits each variable into a positive and negative part.
	fractions := make(map[domain.Channel]float64, n)
	for i, ch := range channels {
		fractions[ch] = xStd[i] - xStd[n+i]
	}
	return fractions, nil
}

// integerize turns fractional shares into whole units summing exactly to
// volume: floor everything, then hand out the remainder by largest fractional
// part, topping up below-floor channels first and never breaching a cap.
func integerize(fractions map[domain.Channel]float64, channels []domain.Channel, volume int, b bounds) map[domain.Channel]int {
	alloc := make(map[domain.Channel]int, len(channels))
	remainders := make(map[domain.Channel]float64, len(channels))

	assigned := 0
	for _, ch := range channels {
		exact := fractions[ch] * float64(volume)
		alloc[ch] = int(math.Floor(exact))
		remainders[ch] = exact - math.Floor(exact)
		assigned += alloc[ch]
	}

	capFor := func(ch domain.Channel) int {
		frac, ok := b.cap[ch]
		if !ok {
			return volume
		}
		return int(math.Floor(frac * float64(volume)))
	}
	floorFor := func(ch domain.Channel) int {
		return int(math.Floor(b.floor[ch] * float64(volume)))
	}

	order := make([]domain.Channel, len(channels))
	copy(order, channels)
	sort.SliceStable(order, func(i, j int) bool {
		// Below-floor channels first, then by fractional remainder.
		bi := alloc[order[i]] < floorFor(order[i])
		bj := alloc[order[j]] < floorFor(order[j])
		if bi != bj {
			return bi
		}
		return remainders[order[i]] > remainders[order[j]]
	})

	for remaining := volume - assigned; remaining > 0; {
		progressed := false
		for _, ch := range order {
			if remaining == 0 {
				break
			}
			if alloc[ch] >= capFor(ch) {
				continue
			}
			alloc[ch]++
			remaining--
			progressed = true
		}
		if !progressed {
			// Every channel is at its cap; put the dregs on the first channel.
			alloc[order[0]] += remaining
			break
		}
	}
	return alloc
}
