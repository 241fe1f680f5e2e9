// Package api wires the HTTP surface: dataset upload, analysis runs and a
// health probe, with CORS and zerolog request logging.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/adaptlabs/adapt-engine/internal/api/handlers"
	"github.com/adaptlabs/adapt-engine/internal/api/middleware"
	"github.com/adaptlabs/adapt-engine/internal/config"
)

// NewRouter builds the gin engine with all routes registered.
func NewRouter(registry *DatasetRegistry, cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(cors.New(corsConfig(cfg.Server.AllowedOrigins)))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	datasetHandler := handlers.NewDatasetHandler(registry, cfg.App.MaxUploadMB, cfg.Engine.RepairSeed)
	analysisHandler := handlers.NewAnalysisHandler(registry, cfg.Engine)

	apiGroup := router.Group("/api/v1")
	{
		apiGroup.POST("/datasets", datasetHandler.Upload)
		apiGroup.POST("/analysis", analysisHandler.Analyze)
	}

	return router
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	normalized, allowAll := normalizeAllowedOrigins(allowedOrigins)
	if allowAll {
		cfg.AllowOrigins = nil
		cfg.AllowOriginFunc = func(origin string) bool { return true }
	} else if len(normalized) > 0 {
		cfg.AllowOrigins = normalized
	}
	return cfg
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		for _, part := range strings.Split(origin, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
