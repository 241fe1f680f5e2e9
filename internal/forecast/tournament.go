package forecast

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/adaptlabs/adapt-engine/internal/domain"
)

const (
	// holdoutDays is the evaluation window reserved from the end of the series.
	holdoutDays = 60

	// horizonDays is the length of the published demand curve.
	horizonDays = 365

	minSeriesDays = 90
)

// modelOrder fixes the tie-break: on equal error the earlier model wins.
var modelOrder = []string{"seasonal", "gbt", "arima"}

// Run fits the three competing models in parallel, scores each on the holdout
// window by sMAPE, and publishes the winner's own 365-day extrapolation scaled
// by the growth multiplier. A model that fails to fit scores 100 and drops
// out; Run itself fails only when the series is too short to split.
func Run(ctx context.Context, records []domain.SalesRecord, growthRatePct float64) (domain.ForecastResult, error) {
	series := Aggregate(records)
	if len(series) < minSeriesDays {
		return domain.ForecastResult{}, fmt.Errorf("forecast: need at least %d days of sales, got %d", minSeriesDays, len(series))
	}

	train := series[:len(series)-holdoutDays]
	test := series[len(series)-holdoutDays:]

	testDates := make([]time.Time, len(test))
	testActuals := make([]float64, len(test))
	testAd := make([]float64, len(test))
	for i, p := range test {
		testDates[i] = p.Date
		testActuals[i] = p.Qty
		testAd[i] = p.AdSpend
	}

	growthMult := 1 + growthRatePct/100
	futureDates := make([]time.Time, horizonDays)
	futureAd := make([]float64, horizonDays)
	futureAdLevel := meanAdSpend(series) * growthMult
	lastDay := series[len(series)-1].Date
	for i := range futureDates {
		futureDates[i] = lastDay.AddDate(0, 0, i+1)
		futureAd[i] = futureAdLevel
	}

	type outcome struct {
		testPred   []float64
		futurePred []float64
		err        float64
	}

	constructors := map[string]func() Model{
		"seasonal": func() Model { return NewSeasonalModel() },
		"gbt":      func() Model { return NewGBTModel() },
		"arima":    func() Model { return NewARModel() },
	}
	outcomes := make(map[string]*outcome, len(constructors))
	for name := range constructors {
		outcomes[name] = &outcome{
			testPred:   make([]float64, len(test)),
			futurePred: make([]float64, horizonDays),
			err:        disqualifiedError,
		}
	}

	g, _ := errgroup.WithContext(ctx)
	for name, newModel := range constructors {
		g.Go(func() error {
			out := outcomes[name]
			model := newModel()
			if err := model.Fit(train); err != nil {
				log.Warn().Err(err).Str("model", name).Msg("model disqualified: fit failed")
				return nil
			}
			pred, err := model.Forecast(testDates, testAd)
			if err != nil {
				log.Warn().Err(err).Str("model", name).Msg("model disqualified: holdout forecast failed")
				return nil
			}
			out.testPred = pred
			out.err = SMAPE(testActuals, pred)

			// Refit on the full series before extrapolating, so the published
			// curve uses every observed day.
			full := newModel()
			if err := full.Fit(series); err != nil {
				log.Warn().Err(err).Str("model", name).Msg("model disqualified: full-series refit failed")
				out.err = disqualifiedError
				return nil
			}
			future, err := full.Forecast(futureDates, futureAd)
			if err != nil {
				log.Warn().Err(err).Str("model", name).Msg("model disqualified: extrapolation failed")
				out.err = disqualifiedError
				return nil
			}
			out.futurePred = future
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.ForecastResult{}, err
	}

	winner := modelOrder[0]
	for _, name := range modelOrder {
		if outcomes[name].err < outcomes[winner].err {
			winner = name
		}
	}

	result := domain.ForecastResult{
		TestDates:   testDates,
		TestActuals: testActuals,
		Predictions: make(map[string][]float64, len(outcomes)),
		Errors:      make(map[string]float64, len(outcomes)),
		Winner:      winner,
		FutureDates: futureDates,
		FutureCurve: make([]int, horizonDays),
	}
	for name, out := range outcomes {
		result.Predictions[name] = out.testPred
		result.Errors[name] = out.err
	}

	for i, v := range outcomes[winner].futurePred {
		q := int(math.Max(0, v) * growthMult)
		result.FutureCurve[i] = q
		result.AnnualDemand += q
	}

	log.Info().
		Str("winner", winner).
		Float64("error", outcomes[winner].err).
		Int("annual_demand", result.AnnualDemand).
		Msg("forecast tournament complete")

	return result, nil
}
