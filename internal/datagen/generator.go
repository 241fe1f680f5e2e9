// Package datagen produces synthetic sales history with realistic seasonal
// structure, for local testing and demos of the analysis pipeline.
package datagen

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/adaptlabs/adapt-engine/internal/domain"
)

// Season tags a product with a demand window outside the shared retail cycle.
type Season string

const (
	SeasonNone    Season = ""
	SeasonSummer  Season = "summer"
	SeasonFestive Season = "festive"
	SeasonCricket Season = "cricket"
)

// Product is one synthetic SKU.
type Product struct {
	Name      string
	BasePrice float64
	BaseDaily float64
	Season    Season
}

// DefaultCatalog mirrors a small consumer-electronics seller: always-on SKUs
// plus seasonal ones.
func DefaultCatalog() []Product {
	return []Product{
		{Name: "Wireless_Earbuds", BasePrice: 2499, BaseDaily: 45},
		{Name: "Smart_Watch", BasePrice: 4999, BaseDaily: 30, Season: SeasonFestive},
		{Name: "Air_Cooler", BasePrice: 8999, BaseDaily: 12, Season: SeasonSummer},
		{Name: "Bluetooth_Speaker", BasePrice: 1999, BaseDaily: 35, Season: SeasonCricket},
		{Name: "Power_Bank", BasePrice: 1299, BaseDaily: 50},
	}
}

// Config controls one generation run. The same config always yields the same
// rows.
type Config struct {
	Products  []Product
	StartDate time.Time
	Days      int
	Seed      int64
}

const (
	annualGrowthRate = 0.18
	weekendBoost     = 1.3
	priceJitter      = 0.05
)

// quarterMultiplier is the shared retail cycle: a festive Q4 spike, a strong
// summer Q2, a soft monsoon Q3.
func quarterMultiplier(month time.Month) float64 {
	switch (int(month) - 1) / 3 {
	case 0:
		return 1.0
	case 1:
		return 1.4
	case 2:
		return 0.9
	default:
		return 2.8
	}
}

func seasonMultiplier(season Season, month time.Month) float64 {
	switch season {
	case SeasonSummer:
		if month >= time.April && month <= time.June {
			return 1.5
		}
	case SeasonFestive:
		if month == time.October || month == time.November {
			return 2.0
		}
	case SeasonCricket:
		if month >= time.March && month <= time.May {
			return 1.8
		}
	}
	return 1.0
}

// adSpendRange is the fraction of revenue spent on acquisition per channel;
// D2C pays a heavy paid-traffic premium.
var adSpendRange = map[domain.Channel][2]float64{
	domain.ChannelAmazon:     {0.04, 0.06},
	domain.ChannelFlipkart:   {0.05, 0.07},
	domain.ChannelOwnWebsite: {0.15, 0.25},
}

var channelWeights = []struct {
	ch domain.Channel
	w  float64
}{
	{domain.ChannelAmazon, 0.55},
	{domain.ChannelFlipkart, 0.35},
	{domain.ChannelOwnWebsite, 0.10},
}

var regionWeights = []struct {
	r domain.Region
	w float64
}{
	{domain.RegionNorth, 0.35},
	{domain.RegionWest, 0.30},
	{domain.RegionSouth, 0.20},
	{domain.RegionEast, 0.15},
}

// Generate builds the synthetic sales history: one row per product, day and
// channel split.
func Generate(cfg Config) []domain.SalesRecord {
	products := cfg.Products
	if len(products) == 0 {
		products = DefaultCatalog()
	}
	start := cfg.StartDate
	if start.IsZero() {
		start = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	records := make([]domain.SalesRecord, 0, cfg.Days*len(products))

	for d := 0; d < cfg.Days; d++ {
		date := start.AddDate(0, 0, d)
		growth := math.Pow(1+annualGrowthRate, float64(d)/365)

		dayMult := quarterMultiplier(date.Month()) * growth
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			dayMult *= weekendBoost
		}

		for _, p := range products {
			mean := p.BaseDaily * dayMult * seasonMultiplier(p.Season, date.Month())
			// Noisy around the structural mean, clipped at zero.
			qty := int(math.Round(mean + rng.NormFloat64()*mean*0.15))
			if qty <= 0 {
				continue
			}

			ch := pickChannel(rng)
			price := p.BasePrice * (1 + (rng.Float64()*2-1)*priceJitter)
			spendRange := adSpendRange[ch]
			adFrac := spendRange[0] + rng.Float64()*(spendRange[1]-spendRange[0])

			records = append(records, domain.SalesRecord{
				Date:      date,
				ProductID: p.Name,
				Price:     math.Round(price*100) / 100,
				Quantity:  qty,
				Channel:   ch,
				Region:    pickRegion(rng),
				AdSpend:   math.Round(price*float64(qty)*adFrac*100) / 100,
			})
		}
	}
	return records
}

func pickChannel(rng *rand.Rand) domain.Channel {
	v := rng.Float64()
	for _, cw := range channelWeights {
		if v < cw.w {
			return cw.ch
		}
		v -= cw.w
	}
	return channelWeights[len(channelWeights)-1].ch
}

func pickRegion(rng *rand.Rand) domain.Region {
	v := rng.Float64()
	for _, rw := range regionWeights {
		if v < rw.w {
			return rw.r
		}
		v -= rw.w
	}
	return regionWeights[len(regionWeights)-1].r
}

// WriteCSV emits the rows in the loader's schema.
func WriteCSV(w io.Writer, records []domain.SalesRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "product_id", "price", "quantity_sold", "channel", "region", "ad_spend"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Date.Format("2006-01-02"),
			r.ProductID,
			fmt.Sprintf("%.2f", r.Price),
			fmt.Sprintf("%d", r.Quantity),
			string(r.Channel),
			string(r.Region),
			fmt.Sprintf("%.2f", r.AdSpend),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
