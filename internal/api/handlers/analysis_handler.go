package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/adaptlabs/adapt-engine/internal/config"
	"github.com/adaptlabs/adapt-engine/internal/domain"
	"github.com/adaptlabs/adapt-engine/internal/engine"
)

type AnalysisHandler struct {
	store    DatasetStore
	defaults config.EngineConfig
}

func NewAnalysisHandler(store DatasetStore, defaults config.EngineConfig) *AnalysisHandler {
	return &AnalysisHandler{store: store, defaults: defaults}
}

// AnalysisRequest is the analyze payload. Pointer fields distinguish "absent,
// use the default" from an explicit zero.
type AnalysisRequest struct {
	DatasetID             string   `json:"dataset_id" binding:"required"`
	ProductID             string   `json:"product_id"`
	GrowthRatePct         *float64 `json:"growth_rate"`
	HoldingPct            *float64 `json:"holding_pct"`
	OrderingCost          *float64 `json:"ordering_cost"`
	MatchHistoricalVolume bool     `json:"match_historical_volume"`
}

func (r *AnalysisRequest) validate(defaults config.EngineConfig) (growth, holding, ordering float64, err error) {
	growth = defaults.DefaultGrowthPct
	if r.GrowthRatePct != nil {
		growth = *r.GrowthRatePct
	}
	holding = defaults.DefaultHoldingPct
	if r.HoldingPct != nil {
		holding = *r.HoldingPct
	}
	ordering = defaults.DefaultOrderingCost
	if r.OrderingCost != nil {
		ordering = *r.OrderingCost
	}

	switch {
	case growth < -50 || growth > 200:
		err = fmt.Errorf("growth_rate must be between -50 and 200, got %.2f", growth)
	case holding < 0 || holding > 100:
		err = fmt.Errorf("holding_pct must be between 0 and 100, got %.2f", holding)
	case ordering < 0:
		err = fmt.Errorf("ordering_cost must be non-negative, got %.2f", ordering)
	}
	return growth, holding, ordering, err
}

// Analyze runs the full pipeline against a previously uploaded dataset.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	growth, holding, ordering, err := req.validate(h.defaults)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	ds, ok := h.store.Get(req.DatasetID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "dataset not found"})
		return
	}

	productID := req.ProductID
	if productID == "" {
		productID = domain.AllProducts
	}

	result, err := engine.Run(c.Request.Context(), engine.Input{
		Dataset:               ds,
		ProductID:             productID,
		GrowthRatePct:         growth,
		HoldingPct:            holding,
		OrderingCost:          ordering,
		MatchHistoricalVolume: req.MatchHistoricalVolume,
	})
	if err != nil {
		log.Error().Err(err).Str("dataset_id", req.DatasetID).Str("product", productID).Msg("analysis run failed")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
