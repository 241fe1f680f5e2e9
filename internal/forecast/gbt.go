package forecast

import (
	"fmt"
	"math"
	"sort"
	"time"
)

const (
	gbtRounds    = 100
	gbtShrinkage = 0.1
	gbtLagDays   = 30
)

// stump is a single-split regression tree: one feature, one threshold, two
// leaf values.
type stump struct {
	feature   int
	threshold float64
	left      float64
	right     float64
}

func (s stump) predict(feats []float64) float64 {
	if feats[s.feature] <= s.threshold {
		return s.left
	}
	return s.right
}

// GBTModel is gradient boosting over depth-1 regression stumps on calendar
// and lagged-demand features. Extrapolation is recursive: each predicted day
// feeds the 30-day lag of later days.
type GBTModel struct {
	base   float64
	stumps []stump
	qtys   []float64
	fitted bool
}

func NewGBTModel() *GBTModel {
	return &GBTModel{}
}

func (m *GBTModel) Name() string { return "gbt" }

// Features: day of week, month, quantity 30 days earlier (zero before the
// series starts) and ad spend.
func gbtFeatures(date time.Time, lag30, adSpend float64) []float64 {
	return []float64{float64(date.Weekday()), float64(date.Month()), lag30, adSpend}
}

func (m *GBTModel) Fit(train []Point) error {
	if len(train) < 30 {
		return fmt.Errorf("gbt: need at least 30 training days, got %d", len(train))
	}

	rows := make([][]float64, len(train))
	target := make([]float64, len(train))
	for i, p := range train {
		lag := 0.0
		if i >= gbtLagDays {
			lag = train[i-gbtLagDays].Qty
		}
		rows[i] = gbtFeatures(p.Date, lag, p.AdSpend)
		target[i] = p.Qty
	}

	m.base = mean(target)
	pred := make([]float64, len(target))
	for i := range pred {
		pred[i] = m.base
	}

	residual := make([]float64, len(target))
	m.stumps = make([]stump, 0, gbtRounds)
	for round := 0; round < gbtRounds; round++ {
		for i := range target {
			residual[i] = target[i] - pred[i]
		}
		s, ok := bestStump(rows, residual)
		if !ok {
			break
		}
		m.stumps = append(m.stumps, s)
		for i, r := range rows {
			pred[i] += gbtShrinkage * s.predict(r)
		}
	}

	m.qtys = make([]float64, len(train))
	for i, p := range train {
		m.qtys[i] = p.Qty
	}
	m.fitted = true
	return nil
}

func (m *GBTModel) Forecast(dates []time.Time, adSpend []float64) ([]float64, error) {
	if !m.fitted {
		return nil, fmt.Errorf("gbt: model not fitted")
	}
	if len(dates) != len(adSpend) {
		return nil, fmt.Errorf("gbt: dates/adSpend length mismatch")
	}

	history := make([]float64, len(m.qtys), len(m.qtys)+len(dates))
	copy(history, m.qtys)

	out := make([]float64, len(dates))
	for i, d := range dates {
		lag := 0.0
		if idx := len(history) - gbtLagDays; idx >= 0 {
			lag = history[idx]
		}
		v := m.base
		for _, s := range m.stumps {
			v += gbtShrinkage * s.predict(gbtFeatures(d, lag, adSpend[i]))
		}
		out[i] = v
		history = append(history, v)
	}
	return out, nil
}

// bestStump finds the split minimizing squared residual error, fitting mean
// residuals in each leaf. Thresholds are candidate midpoints between sorted
// unique feature values.
func bestStump(rows [][]float64, residual []float64) (stump, bool) {
	if len(rows) == 0 {
		return stump{}, false
	}

	best := stump{}
	bestSSE := math.Inf(1)
	found := false

	nFeatures := len(rows[0])
	for f := 0; f < nFeatures; f++ {
		for _, thr := range splitCandidates(rows, f) {
			var lSum, rSum float64
			var lN, rN int
			for i, r := range rows {
				if r[f] <= thr {
					lSum += residual[i]
					lN++
				} else {
					rSum += residual[i]
					rN++
				}
			}
			if lN == 0 || rN == 0 {
				continue
			}
			lMean := lSum / float64(lN)
			rMean := rSum / float64(rN)

			var sse float64
			for i, r := range rows {
				fit := rMean
				if r[f] <= thr {
					fit = lMean
				}
				d := residual[i] - fit
				sse += d * d
			}
			if sse < bestSSE {
				bestSSE = sse
				best = stump{feature: f, threshold: thr, left: lMean, right: rMean}
				found = true
			}
		}
	}
	return best, found
}

// splitCandidates thins continuous features to at most 16 quantile-spaced
// thresholds so each boosting round stays cheap.
func splitCandidates(rows [][]float64, feature int) []float64 {
	seen := make(map[float64]struct{}, len(rows))
	vals := make([]float64, 0, len(rows))
	for _, r := range rows {
		v := r[feature]
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		vals = append(vals, v)
	}
	if len(vals) < 2 {
		return nil
	}
	sort.Float64s(vals)

	mids := make([]float64, 0, len(vals)-1)
	for i := 0; i < len(vals)-1; i++ {
		mids = append(mids, (vals[i]+vals[i+1])/2)
	}
	if len(mids) <= 16 {
		return mids
	}
	thinned := make([]float64, 0, 16)
	step := float64(len(mids)) / 16
	for i := 0; i < 16; i++ {
		thinned = append(thinned, mids[int(float64(i)*step)])
	}
	return thinned
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	var sum float64
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}
