package forecast

import "time"

// Model is one competitor in the tournament. Fit trains on the daily series;
// Forecast then predicts the given future days in order, continuing directly
// after the training window. Models are single-use: fit once, forecast many.
type Model interface {
	Name() string
	Fit(train []Point) error
	Forecast(dates []time.Time, adSpend []float64) ([]float64, error)
}
