package forecast

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
)

// seasonalHarmonics is the number of annual Fourier pairs in the design matrix.
const seasonalHarmonics = 2

// SeasonalModel decomposes the series into a linear trend, weekly and annual
// seasonality (Fourier terms) and an exogenous ad-spend regressor, fitted by
// ordinary least squares.
type SeasonalModel struct {
	coeffs   []float64
	trainLen int
	fitted   bool
}

func NewSeasonalModel() *SeasonalModel {
	return &SeasonalModel{}
}

func (m *SeasonalModel) Name() string { return "seasonal" }

// Fit solves the least-squares regression. Series shorter than 30 days are
// rejected as degenerate.
func (m *SeasonalModel) Fit(train []Point) error {
	if len(train) < 30 {
		return fmt.Errorf("seasonal: need at least 30 training days, got %d", len(train))
	}

	cols := m.featureCount()
	x := mat.NewDense(len(train), cols, nil)
	y := mat.NewVecDense(len(train), nil)

	for i, p := range train {
		x.SetRow(i, m.features(i, p.Date, p.AdSpend))
		y.SetVec(i, p.Qty)
	}

	var beta mat.VecDense
	if err := beta.SolveVec(x, y); err != nil {
		return fmt.Errorf("seasonal: least squares solve failed: %w", err)
	}

	m.coeffs = make([]float64, cols)
	copy(m.coeffs, beta.RawVector().Data)
	m.trainLen = len(train)
	m.fitted = true
	return nil
}

func (m *SeasonalModel) Forecast(dates []time.Time, adSpend []float64) ([]float64, error) {
	if !m.fitted {
		return nil, fmt.Errorf("seasonal: model not fitted")
	}
	if len(dates) != len(adSpend) {
		return nil, fmt.Errorf("seasonal: dates/adSpend length mismatch")
	}

	out := make([]float64, len(dates))
	for i, d := range dates {
		t := m.trainLen + i
		feats := m.features(t, d, adSpend[i])
		var v float64
		for j, f := range feats {
			v += m.coeffs[j] * f
		}
		out[i] = v
	}
	return out, nil
}

func (m *SeasonalModel) featureCount() int {
	// intercept + trend + 6 weekday dummies + 2*harmonics annual terms + ad spend
	return 2 + 6 + 2*seasonalHarmonics + 1
}

func (m *SeasonalModel) features(t int, date time.Time, adSpend float64) []float64 {
	feats := make([]float64, 0, m.featureCount())
	feats = append(feats, 1, float64(t))

	// Monday..Saturday dummies; Sunday is the baseline.
	dow := int(date.Weekday())
	for d := 1; d <= 6; d++ {
		if dow == d {
			feats = append(feats, 1)
		} else {
			feats = append(feats, 0)
		}
	}

	doy := float64(date.YearDay())
	for k := 1; k <= seasonalHarmonics; k++ {
		angle := 2 * math.Pi * float64(k) * doy / 365.25
		feats = append(feats, math.Sin(angle), math.Cos(angle))
	}

	feats = append(feats, adSpend)
	return feats
}
