// Package forecast runs a tournament of demand forecasting models over the
// daily sales series and publishes a 365-day future demand curve.
package forecast

import (
	"sort"
	"time"

	"github.com/adaptlabs/adapt-engine/internal/domain"
)

// Point is one day of the aggregated sales series.
type Point struct {
	Date    time.Time
	Qty     float64
	AdSpend float64
}

// Aggregate collapses sales rows to one point per day: quantity summed,
// ad spend averaged across the day's rows.
func Aggregate(records []domain.SalesRecord) []Point {
	type agg struct {
		qty   float64
		ad    float64
		count int
	}

	byDay := make(map[time.Time]*agg)
	for _, r := range records {
		day := r.Date.Truncate(24 * time.Hour)
		a, ok := byDay[day]
		if !ok {
			a = &agg{}
			byDay[day] = a
		}
		a.qty += float64(r.Quantity)
		a.ad += r.AdSpend
		a.count++
	}

	points := make([]Point, 0, len(byDay))
	for day, a := range byDay {
		ad := 0.0
		if a.count > 0 {
			ad = a.ad / float64(a.count)
		}
		points = append(points, Point{Date: day, Qty: a.qty, AdSpend: ad})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points
}

func meanAdSpend(points []Point) float64 {
	if len(points) == 0 {
		return 0
	}
	var sum float64
	for _, p := range points {
		sum += p.AdSpend
	}
	return sum / float64(len(points))
}
