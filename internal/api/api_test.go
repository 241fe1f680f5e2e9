package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adaptlabs/adapt-engine/internal/config"
	"github.com/adaptlabs/adapt-engine/internal/datagen"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{AllowedOrigins: []string{"*"}},
		App:    config.AppConfig{MaxUploadMB: 50},
		Engine: config.EngineConfig{
			DefaultGrowthPct:    15,
			DefaultHoldingPct:   20,
			DefaultOrderingCost: 1500,
			RepairSeed:          42,
		},
	}
}

func newTestRouter(t *testing.T) (*gin.Engine, *DatasetRegistry) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	registry := NewDatasetRegistry()
	return NewRouter(registry, testConfig()), registry
}

func multipartCSV(t *testing.T, body []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	part, err := writer.CreateFormFile("file", "sales.csv")
	require.NoError(t, err)
	_, err = part.Write(body)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return buf, writer.FormDataContentType()
}

func uploadFixture(t *testing.T, router *gin.Engine, days int) string {
	t.Helper()

	var csvBuf bytes.Buffer
	records := datagen.Generate(datagen.Config{Days: days, Seed: 7})
	require.NoError(t, datagen.WriteCSV(&csvBuf, records))

	body, contentType := multipartCSV(t, csvBuf.Bytes())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		DatasetID string   `json:"dataset_id"`
		Records   int      `json:"records"`
		Products  []string `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.DatasetID)
	require.Greater(t, resp.Records, 0)
	require.NotEmpty(t, resp.Products)
	return resp.DatasetID
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUploadRejectsMissingFile(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/datasets", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadRejectsMissingColumns(t *testing.T) {
	router, _ := newTestRouter(t)
	body, contentType := multipartCSV(t, []byte("date,price\n2024-01-01,100\n"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing required columns")
}

func TestUploadRegistersDataset(t *testing.T) {
	router, registry := newTestRouter(t)
	id := uploadFixture(t, router, 120)

	_, ok := registry.Get(id)
	assert.True(t, ok)
}

func TestAnalysisUnknownDataset(t *testing.T) {
	router, _ := newTestRouter(t)

	payload := []byte(`{"dataset_id":"nope"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalysisValidatesParameters(t *testing.T) {
	router, _ := newTestRouter(t)
	id := uploadFixture(t, router, 120)

	cases := []string{
		`{"dataset_id":"` + id + `","growth_rate":500}`,
		`{"dataset_id":"` + id + `","growth_rate":-80}`,
		`{"dataset_id":"` + id + `","holding_pct":150}`,
		`{"dataset_id":"` + id + `","ordering_cost":-1}`,
	}
	for _, payload := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis", bytes.NewReader([]byte(payload)))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, payload)
	}
}

func TestAnalysisRejectsMalformedBody(t *testing.T) {
	router, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalysisHappyPath(t *testing.T) {
	router, _ := newTestRouter(t)
	id := uploadFixture(t, router, 400)

	payload := []byte(`{"dataset_id":"` + id + `","product_id":"all","growth_rate":15}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result struct {
		Product  string `json:"product"`
		Forecast struct {
			Winner       string `json:"winner"`
			AnnualDemand int    `json:"annual_demand"`
		} `json:"forecast"`
		Network struct {
			BestN int `json:"best_n"`
		} `json:"network"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "all", result.Product)
	assert.NotEmpty(t, result.Forecast.Winner)
	assert.Greater(t, result.Forecast.AnnualDemand, 0)
	assert.Contains(t, []int{1, 2, 3}, result.Network.BestN)
}

func TestRegistryEvictsOldestWhenFull(t *testing.T) {
	registry := NewDatasetRegistry()
	var first string
	for i := 0; i < maxDatasets+1; i++ {
		id := registry.Put(nil)
		if i == 0 {
			first = id
		}
	}
	assert.Equal(t, maxDatasets, registry.Len())
	_, ok := registry.Get(first)
	assert.False(t, ok)
}
