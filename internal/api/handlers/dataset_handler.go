package handlers

import (
	"math/rand"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/adaptlabs/adapt-engine/internal/dataset"
)

// DatasetStore is the registry surface the handler needs.
type DatasetStore interface {
	Put(ds *dataset.Dataset) string
	Get(id string) (*dataset.Dataset, bool)
}

type DatasetHandler struct {
	store       DatasetStore
	maxUploadMB int64
	repairSeed  int64
}

func NewDatasetHandler(store DatasetStore, maxUploadMB, repairSeed int64) *DatasetHandler {
	return &DatasetHandler{store: store, maxUploadMB: maxUploadMB, repairSeed: repairSeed}
}

// Upload accepts a multipart CSV, validates required columns, registers the
// dataset and returns its handle plus a summary.
func (h *DatasetHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})
		return
	}
	if h.maxUploadMB > 0 && file.Size > h.maxUploadMB*1024*1024 {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file exceeds upload limit"})
		return
	}

	f, err := file.Open()
	if err != nil {
		log.Error().Err(err).Str("filename", file.Filename).Msg("failed to open uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
		return
	}
	defer f.Close()

	// A fixed seed keeps repeated uploads of the same file identical.
	ds, err := dataset.Parse(f, rand.New(rand.NewSource(h.repairSeed)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(ds.Records) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dataset contains no rows"})
		return
	}

	id := h.store.Put(ds)
	log.Info().
		Str("dataset_id", id).
		Str("filename", file.Filename).
		Int("records", len(ds.Records)).
		Bool("repaired", ds.Repair.Repaired()).
		Msg("dataset registered")

	c.JSON(http.StatusCreated, gin.H{
		"dataset_id": id,
		"records":    len(ds.Records),
		"products":   ds.Products,
		"date_min":   ds.DateMin.Format("2006-01-02"),
		"date_max":   ds.DateMax.Format("2006-01-02"),
		"repair":     ds.Repair,
	})
}
