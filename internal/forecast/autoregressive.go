package forecast

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
)

const arMaxOrder = 5

// ARModel fits an autoregression on the first-differenced series, choosing
// the order p in 1..5 by AIC, and forecasts by iterating the recursion and
// integrating the differences back to levels.
type ARModel struct {
	order  int
	coeffs []float64 // intercept followed by phi_1..phi_p
	diffs  []float64
	last   float64
	fitted bool
}

func NewARModel() *ARModel {
	return &ARModel{}
}

func (m *ARModel) Name() string { return "arima" }

func (m *ARModel) Fit(train []Point) error {
	if len(train) < 30 {
		return fmt.Errorf("arima: need at least 30 training days, got %d", len(train))
	}

	diffs := make([]float64, len(train)-1)
	for i := 1; i < len(train); i++ {
		diffs[i-1] = train[i].Qty - train[i-1].Qty
	}

	bestAIC := math.Inf(1)
	var bestCoeffs []float64
	bestOrder := 0
	for p := 1; p <= arMaxOrder; p++ {
		coeffs, aic, err := fitAR(diffs, p)
		if err != nil {
			continue
		}
		if aic < bestAIC {
			bestAIC = aic
			bestCoeffs = coeffs
			bestOrder = p
		}
	}
	if bestOrder == 0 {
		return fmt.Errorf("arima: no autoregression order could be fitted")
	}

	m.order = bestOrder
	m.coeffs = bestCoeffs
	m.diffs = diffs
	m.last = train[len(train)-1].Qty
	m.fitted = true
	return nil
}

// Forecast ignores ad spend: the autoregression is a pure endogenous model.
func (m *ARModel) Forecast(dates []time.Time, adSpend []float64) ([]float64, error) {
	if !m.fitted {
		return nil, fmt.Errorf("arima: model not fitted")
	}

	window := make([]float64, m.order)
	copy(window, m.diffs[len(m.diffs)-m.order:])

	out := make([]float64, len(dates))
	level := m.last
	for i := range dates {
		d := m.coeffs[0]
		for j := 0; j < m.order; j++ {
			d += m.coeffs[j+1] * window[m.order-1-j]
		}
		level += d
		out[i] = level

		copy(window, window[1:])
		window[m.order-1] = d
	}
	return out, nil
}

// fitAR estimates an AR(p) with intercept by least squares and returns the
// Gaussian AIC for order selection.
func fitAR(diffs []float64, p int) ([]float64, float64, error) {
	n := len(diffs) - p
	if n <= p+1 {
		return nil, 0, fmt.Errorf("arima: series too short for order %d", p)
	}

	x := mat.NewDense(n, p+1, nil)
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		x.Set(i, 0, 1)
		for j := 0; j < p; j++ {
			x.Set(i, j+1, diffs[p+i-1-j])
		}
		y.SetVec(i, diffs[p+i])
	}

	var beta mat.VecDense
	if err := beta.SolveVec(x, y); err != nil {
		return nil, 0, fmt.Errorf("arima: AR(%d) solve failed: %w", p, err)
	}

	coeffs := make([]float64, p+1)
	copy(coeffs, beta.RawVector().Data)

	var sse float64
	for i := 0; i < n; i++ {
		fit := coeffs[0]
		for j := 0; j < p; j++ {
			fit += coeffs[j+1] * x.At(i, j+1)
		}
		res := y.AtVec(i) - fit
		sse += res * res
	}
	if sse <= 0 {
		sse = 1e-12
	}
	aic := float64(n)*math.Log(sse/float64(n)) + 2*float64(p+1)
	return coeffs, aic, nil
}
