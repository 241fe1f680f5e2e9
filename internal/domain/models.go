// internal/domain/models.go
package domain

import "time"

// SalesRecord is one historical per-order sales row. Records are immutable
// once loaded; the engine never mutates them.
type SalesRecord struct {
	Date      time.Time `json:"date"`
	ProductID string    `json:"product_id"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity_sold"`
	Channel   Channel   `json:"channel"`
	Region    Region    `json:"region"`
	AdSpend   float64   `json:"ad_spend"`
}

// AllProducts is the product filter value meaning "analyze every product".
const AllProducts = "all"

// ChannelMetrics is the common financial breakdown both the historical audit
// and the optimized projection report in, enabling direct comparison.
type ChannelMetrics struct {
	Volume          int     `json:"volume"`
	Revenue         float64 `json:"revenue"`
	COGS            float64 `json:"cogs"`
	Fees            float64 `json:"fees"`
	Logistics       float64 `json:"logistics"`
	Marketing       float64 `json:"marketing"`
	NetProfit       float64 `json:"net_profit"`
	MarginPct       float64 `json:"margin_pct"`
	LostOpportunity float64 `json:"lost_opportunity,omitempty"`
}

// HistoricalAudit is the reconstructed baseline produced from raw sales rows.
type HistoricalAudit struct {
	ChannelMetrics  map[Channel]ChannelMetrics `json:"channel_metrics"`
	TotalProfit     float64                    `json:"total_profit"`
	LostOpportunity float64                    `json:"lost_opportunity"`
	LogisticsSpend  float64                    `json:"logistics_spend"`
	TotalVolume     int                        `json:"total_volume"`
}

// ForecastResult holds the tournament outcome: per-model test predictions and
// errors plus the published 365-day demand curve from the winning model.
type ForecastResult struct {
	TestDates    []time.Time          `json:"test_dates"`
	TestActuals  []float64            `json:"test_actuals"`
	Predictions  map[string][]float64 `json:"predictions"`
	Errors       map[string]float64   `json:"errors"`
	Winner       string               `json:"winner"`
	FutureDates  []time.Time          `json:"future_dates"`
	FutureCurve  []int                `json:"future_curve"`
	AnnualDemand int                  `json:"annual_demand"`
}

// NetworkScenario is the cost picture of operating a fixed number of hubs.
type NetworkScenario struct {
	HubCount int      `json:"hub_count"`
	Hubs     []string `json:"hubs"`
	Rent     float64  `json:"rent"`
	Shipping float64  `json:"shipping"`
	Total    float64  `json:"total"`
}

// NetworkPlan collects the evaluated hub configurations plus the cheapest one.
type NetworkPlan struct {
	Scenarios map[int]NetworkScenario `json:"scenarios"`
	BestN     int                     `json:"best_n"`
}

// Strategy selects the channel-allocation objective weighting.
type Strategy string

const (
	StrategyProfit   Strategy = "profit"
	StrategyBrand    Strategy = "brand"
	StrategyBalanced Strategy = "balanced"
)

// AllocationStatus distinguishes a true LP optimum from the degraded fixed
// fallback split applied when the solver reports infeasibility.
type AllocationStatus string

const (
	AllocationOptimal  AllocationStatus = "optimal"
	AllocationFallback AllocationStatus = "fallback"
)

// UnitEconomics is the per-unit contribution breakdown for one channel at a
// given price point.
type UnitEconomics struct {
	Revenue      float64 `json:"revenue"`
	Fees         float64 `json:"fees"`
	Logistics    float64 `json:"logistics"`
	Marketing    float64 `json:"marketing"`
	Contribution float64 `json:"contribution"`
}

// AllocationResult is the outcome of one channel-mix solve.
type AllocationResult struct {
	Strategy   Strategy                  `json:"strategy"`
	Status     AllocationStatus          `json:"status"`
	Reason     string                    `json:"reason,omitempty"`
	Allocation map[Channel]int           `json:"allocation"`
	Financials map[Channel]UnitEconomics `json:"financials"`
	Objective  float64                   `json:"objective"`
}

// QuarterPlan is one quarter of the procurement schedule, including the
// stockout-risk audit at a 95% service level.
type QuarterPlan struct {
	Quarter      string  `json:"quarter"`
	Seasonality  string  `json:"seasonality"`
	Demand       int     `json:"demand"`
	Batches      int     `json:"batches"`
	Capital      float64 `json:"capital"`
	SafetyStock  int     `json:"safety_stock"`
	StockoutProb float64 `json:"stockout_prob"`
	RiskLevel    string  `json:"risk_level"`
}

// InventoryPlan is the EOQ sizing plus the seasonally skewed quarterly plan.
type InventoryPlan struct {
	EOQ          int           `json:"eoq"`
	HoldingCost  float64       `json:"holding_cost"`
	OrderingCost float64       `json:"ordering_cost"`
	TotalCost    float64       `json:"total_cost"`
	CapitalTied  float64       `json:"capital_tied"`
	Quarters     []QuarterPlan `json:"quarterly_plan"`
}

// WarGameScenario is one stress test applied to the projected profit.
type WarGameScenario struct {
	Name            string  `json:"name"`
	ProjectedProfit float64 `json:"projected_profit"`
	Impact          float64 `json:"impact"`
	Risk            string  `json:"risk"`
}

// OptimizedPlan is the profit-strategy allocation carried into the financial
// projection, with the per-channel financials under all cost optimizations.
type OptimizedPlan struct {
	Allocation  AllocationResult           `json:"allocation"`
	Financials  map[Channel]ChannelMetrics `json:"financials"`
	Profit      float64                    `json:"profit"`
	BrandEquity float64                    `json:"brand_equity"`
}

// AnalysisResult is the complete output of one engine run.
type AnalysisResult struct {
	ProductID        string             `json:"product"`
	Historical       HistoricalAudit    `json:"historical"`
	Forecast         ForecastResult     `json:"forecast"`
	Network          NetworkPlan        `json:"network"`
	Inventory        InventoryPlan      `json:"inventory"`
	Optimized        OptimizedPlan      `json:"optimized"`
	Alternatives     []AllocationResult `json:"alternatives"`
	WarGames         []WarGameScenario  `json:"war_games"`
	RelocationAdvice string             `json:"relocation_advice"`
	DataRepaired     bool               `json:"data_repaired"`
}
