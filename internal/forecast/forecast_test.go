package forecast

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adaptlabs/adapt-engine/internal/domain"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

// syntheticSeries builds a trending series with weekly shape and varying ad
// spend, long enough for every model to fit.
func syntheticSeries(days int) []Point {
	points := make([]Point, days)
	for i := 0; i < days; i++ {
		d := day(i)
		qty := 100 + 0.5*float64(i) + 20*math.Sin(2*math.Pi*float64(d.Weekday())/7)
		points[i] = Point{
			Date:    d,
			Qty:     qty,
			AdSpend: 500 + 10*math.Sin(float64(i)/9),
		}
	}
	return points
}

func toRecords(points []Point) []domain.SalesRecord {
	records := make([]domain.SalesRecord, len(points))
	for i, p := range points {
		records[i] = domain.SalesRecord{
			Date:      p.Date,
			ProductID: "SKU-1",
			Price:     999,
			Quantity:  int(p.Qty),
			Channel:   domain.ChannelAmazon,
			Region:    domain.RegionNorth,
			AdSpend:   p.AdSpend,
		}
	}
	return records
}

func TestSMAPEPerfectForecastIsZero(t *testing.T) {
	actual := []float64{10, 20, 30, 0}
	assert.Equal(t, 0.0, SMAPE(actual, actual))
}

func TestSMAPEDegenerateInputsDisqualify(t *testing.T) {
	assert.Equal(t, disqualifiedError, SMAPE(nil, nil))
	assert.Equal(t, disqualifiedError, SMAPE([]float64{1, 2}, []float64{1}))
}

func TestSMAPEKnownValue(t *testing.T) {
	// Single point, pred=30 vs actual=10: 100 * 2*20/(10+30) = 100.
	got := SMAPE([]float64{10}, []float64{30})
	assert.InDelta(t, 100.0, got, 1e-6)
}

func TestAggregateSumsQuantityAndAveragesAdSpend(t *testing.T) {
	records := []domain.SalesRecord{
		{Date: day(1), Quantity: 3, AdSpend: 100},
		{Date: day(1), Quantity: 7, AdSpend: 300},
		{Date: day(0), Quantity: 5, AdSpend: 50},
	}

	points := Aggregate(records)
	require.Len(t, points, 2)

	assert.Equal(t, day(0), points[0].Date)
	assert.Equal(t, 5.0, points[0].Qty)

	assert.Equal(t, day(1), points[1].Date)
	assert.Equal(t, 10.0, points[1].Qty)
	assert.InDelta(t, 200.0, points[1].AdSpend, 1e-9)
}

func TestSeasonalModelTracksTrend(t *testing.T) {
	series := syntheticSeries(200)
	m := NewSeasonalModel()
	require.NoError(t, m.Fit(series))

	dates := make([]time.Time, 14)
	ad := make([]float64, 14)
	for i := range dates {
		dates[i] = day(200 + i)
		ad[i] = 500
	}
	pred, err := m.Forecast(dates, ad)
	require.NoError(t, err)
	require.Len(t, pred, 14)

	// The underlying trend puts day 207 around 100 + 0.5*207; allow the
	// weekly component plus fit noise.
	assert.InDelta(t, 100+0.5*207, pred[7], 30)
}

func TestSeasonalModelRejectsShortSeries(t *testing.T) {
	err := NewSeasonalModel().Fit(syntheticSeries(10))
	assert.Error(t, err)
}

func TestGBTModelForecastsFiniteValues(t *testing.T) {
	series := syntheticSeries(180)
	m := NewGBTModel()
	require.NoError(t, m.Fit(series))

	dates := make([]time.Time, 30)
	ad := make([]float64, 30)
	for i := range dates {
		dates[i] = day(180 + i)
		ad[i] = 500
	}
	pred, err := m.Forecast(dates, ad)
	require.NoError(t, err)
	for _, v := range pred {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		assert.Greater(t, v, 0.0)
	}
}

func TestARModelContinuesLevel(t *testing.T) {
	series := syntheticSeries(150)
	m := NewARModel()
	require.NoError(t, m.Fit(series))

	dates := make([]time.Time, 7)
	ad := make([]float64, 7)
	for i := range dates {
		dates[i] = day(150 + i)
	}
	pred, err := m.Forecast(dates, ad)
	require.NoError(t, err)

	last := series[len(series)-1].Qty
	for _, v := range pred {
		assert.InDelta(t, last, v, 80)
	}
}

func TestRunRejectsShortSeries(t *testing.T) {
	_, err := Run(context.Background(), toRecords(syntheticSeries(30)), 15)
	assert.Error(t, err)
}

func TestRunPublishesWinnersOwnCurve(t *testing.T) {
	result, err := Run(context.Background(), toRecords(syntheticSeries(365)), 15)
	require.NoError(t, err)

	require.Len(t, result.FutureCurve, 365)
	require.Len(t, result.FutureDates, 365)
	require.Len(t, result.TestActuals, 60)

	assert.Contains(t, result.Errors, "seasonal")
	assert.Contains(t, result.Errors, "gbt")
	assert.Contains(t, result.Errors, "arima")

	// Winner must be the minimum-error model under the fixed tie-break order.
	for _, name := range modelOrder {
		assert.GreaterOrEqual(t, result.Errors[name], result.Errors[result.Winner])
	}

	sum := 0
	for _, q := range result.FutureCurve {
		assert.GreaterOrEqual(t, q, 0)
		sum += q
	}
	assert.Equal(t, sum, result.AnnualDemand)
}

func TestRunScalesDemandByGrowthRate(t *testing.T) {
	records := toRecords(syntheticSeries(365))

	flat, err := Run(context.Background(), records, 0)
	require.NoError(t, err)
	grown, err := Run(context.Background(), records, 50)
	require.NoError(t, err)

	assert.Greater(t, grown.AnnualDemand, flat.AnnualDemand)
}
