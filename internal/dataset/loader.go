// Package dataset loads tabular sales data and repairs optional columns.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/adaptlabs/adapt-engine/internal/domain"
)

// RequiredColumns must be present in every input file; channel and region are
// optional and repaired when absent.
var RequiredColumns = []string{"date", "product_id", "price", "quantity_sold"}

// RepairReport records which optional columns had to be synthesized. Synthetic
// channel/region values are fabricated categorical data and callers must treat
// them as a data-quality signal, never as observed fact.
type RepairReport struct {
	ChannelSynthesized bool `json:"channel_synthesized"`
	RegionSynthesized  bool `json:"region_synthesized"`
	RowsRepaired       int  `json:"rows_repaired"`
}

// Repaired reports whether any column was synthesized.
func (r RepairReport) Repaired() bool {
	return r.ChannelSynthesized || r.RegionSynthesized
}

// Dataset is one immutable loaded sales dataset. Each analysis run owns its
// own Dataset; there is no process-wide current file.
type Dataset struct {
	Records  []domain.SalesRecord `json:"-"`
	Products []string             `json:"products"`
	DateMin  time.Time            `json:"date_min"`
	DateMax  time.Time            `json:"date_max"`
	Repair   RepairReport         `json:"repair"`
}

// LoadCSV reads a sales CSV from disk. The rand source drives the
// channel/region repair step and must be seeded by the caller so repeated
// loads are reproducible.
func LoadCSV(path string, rng *rand.Rand) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open dataset %s: %w", path, err)
	}
	defer f.Close()

	ds, err := Parse(f, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", path, err)
	}
	return ds, nil
}

// Parse reads sales rows from r. Missing channel/region columns are repaired
// by uniform random assignment from the closed enumerations, logged loudly.
func Parse(r io.Reader, rng *rand.Rand) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colIndex := func(names ...string) int {
		targets := make(map[string]struct{}, len(names))
		for _, name := range names {
			targets[normalizeColumnName(name)] = struct{}{}
		}
		for i, h := range header {
			if _, ok := targets[normalizeColumnName(h)]; ok {
				return i
			}
		}
		return -1
	}

	idxDate := colIndex("date")
	idxProduct := colIndex("product_id", "product id", "product")
	idxPrice := colIndex("price")
	idxQty := colIndex("quantity_sold", "quantity sold", "qty")
	idxChannel := colIndex("channel")
	idxRegion := colIndex("region")
	idxAdSpend := colIndex("ad_spend", "ad spend")

	var missing []string
	for name, idx := range map[string]int{
		"date": idxDate, "product_id": idxProduct, "price": idxPrice, "quantity_sold": idxQty,
	} {
		if idx < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	report := RepairReport{
		ChannelSynthesized: idxChannel < 0,
		RegionSynthesized:  idxRegion < 0,
	}
	if report.Repaired() {
		log.Warn().
			Bool("channel", report.ChannelSynthesized).
			Bool("region", report.RegionSynthesized).
			Msg("dataset missing categorical columns; synthesizing uniformly at random")
	}

	channels := domain.Channels()
	regions := domain.Regions()

	records := make([]domain.SalesRecord, 0, 1024)
	productSet := make(map[string]struct{})
	var dateMin, dateMax time.Time

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record: %w", err)
		}

		get := func(idx int) string {
			if idx < 0 || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		parseFloat := func(idx int) float64 {
			v := get(idx)
			if v == "" {
				return 0
			}
			v = strings.ReplaceAll(v, ",", "")
			f, _ := strconv.ParseFloat(v, 64)
			return f
		}

		date, err := parseDate(get(idxDate))
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", get(idxDate), err)
		}

		row := domain.SalesRecord{
			Date:      date,
			ProductID: get(idxProduct),
			Price:     parseFloat(idxPrice),
			Quantity:  int(parseFloat(idxQty)),
			AdSpend:   parseFloat(idxAdSpend),
		}

		repaired := false
		if idxChannel >= 0 {
			row.Channel = domain.Channel(get(idxChannel))
		} else {
			row.Channel = channels[rng.Intn(len(channels))]
			repaired = true
		}
		if idxRegion >= 0 {
			row.Region = domain.Region(get(idxRegion))
		} else {
			row.Region = regions[rng.Intn(len(regions))]
			repaired = true
		}
		if repaired {
			report.RowsRepaired++
		}

		if dateMin.IsZero() || date.Before(dateMin) {
			dateMin = date
		}
		if date.After(dateMax) {
			dateMax = date
		}
		productSet[row.ProductID] = struct{}{}
		records = append(records, row)
	}

	products := make([]string, 0, len(productSet))
	for p := range productSet {
		products = append(products, p)
	}
	sort.Strings(products)

	return &Dataset{
		Records:  records,
		Products: products,
		DateMin:  dateMin,
		DateMax:  dateMax,
		Repair:   report,
	}, nil
}

// FromRecords wraps pre-built rows into a Dataset; used by the synthetic data
// generator and tests.
func FromRecords(records []domain.SalesRecord) *Dataset {
	ds := &Dataset{Records: records}
	productSet := make(map[string]struct{})
	for _, r := range records {
		if ds.DateMin.IsZero() || r.Date.Before(ds.DateMin) {
			ds.DateMin = r.Date
		}
		if r.Date.After(ds.DateMax) {
			ds.DateMax = r.Date
		}
		productSet[r.ProductID] = struct{}{}
	}
	for p := range productSet {
		ds.Products = append(ds.Products, p)
	}
	sort.Strings(ds.Products)
	return ds
}

// Filter returns the rows matching the product filter (domain.AllProducts
// keeps everything). The returned slice shares backing records but is never
// mutated downstream.
func (d *Dataset) Filter(productID string) []domain.SalesRecord {
	if productID == "" || strings.EqualFold(productID, domain.AllProducts) {
		return d.Records
	}
	out := make([]domain.SalesRecord, 0, len(d.Records))
	for _, r := range d.Records {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out
}

func parseDate(v string) (time.Time, error) {
	formats := []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339, "02/01/2006"}
	for _, layout := range formats {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date layout")
}

var columnNameSanitizer = strings.NewReplacer(" ", "", "_", "", ".", "", "-", "", "/", "")

func normalizeColumnName(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	return columnNameSanitizer.Replace(name)
}
