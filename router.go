package main

import (
	"net/http"

	"skill-hand/config"
	"skill-hand/models"
	"skill-hand/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

// requestIDMiddleware übernimmt X-Request-ID oder vergibt eine neue ID.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func newRouter(cfg *config.Config, processor *services.BatchProcessor, catalog *services.TermCatalog,
	dates *services.DateExtractor, gatherer prometheus.Gatherer, log *zap.Logger) *gin.Engine {
	router := gin.Default()
	router.Use(requestIDMiddleware(), apiKeyAuthMiddleware(cfg))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	endpoints := setupSkillRoutes(router, processor, catalog, dates, log)
	setupHealthRoutes(router, catalog, endpoints)
	return router
}

// skillRoute verbindet einen Pfad mit einem Skill. newSkill wird pro Request
// aufgerufen, damit ein Batch durchgehend denselben Stand der Termliste sieht.
type skillRoute struct {
	path     string
	newSkill func() services.Skill
}

func setupSkillRoutes(router *gin.Engine, processor *services.BatchProcessor, catalog *services.TermCatalog,
	dates *services.DateExtractor, log *zap.Logger) []string {
	rg := router.Group("/skills")

	routes := []skillRoute{
		{"/strings-cleaner", services.NewStringsCleanerSkill},
		{"/terms-lookup", func() services.Skill { return services.NewTermsLookupSkill(catalog.Index()) }},
		{"/terms-filter", func() services.Skill { return services.NewTermsFilterSkill(catalog.Index()) }},
		{"/dates-extractor", func() services.Skill { return services.NewDatesExtractorSkill(dates) }},
		{"/strings-distinct", services.NewStringsDistinctSkill},
		{"/strings-merger", services.NewStringsMergerSkill},
	}

	endpoints := make([]string, 0, len(routes))
	for _, route := range routes {
		rg.POST(route.path, skillHandler(processor, route.newSkill, log))
		endpoints = append(endpoints, route.path)
	}

	log.Info("Skill routes configured successfully",
		zap.String("base_path", "/skills"),
		zap.Strings("endpoints", endpoints))
	return endpoints
}

// skillHandler liest den Batch, verarbeitet ihn und antwortet ohne HTML-Escaping,
// damit Akzente und Sonderzeichen unverändert zurückkommen.
func skillHandler(processor *services.BatchProcessor, newSkill func() services.Skill, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			log.Error("Failed to read request body", zap.String("request_id", c.GetString("request_id")), zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
			return
		}

		batch, err := models.ParseBatch(body)
		if err != nil {
			log.Warn("Invalid batch body",
				zap.String("request_id", c.GetString("request_id")),
				zap.String("path", c.FullPath()),
				zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
			return
		}

		c.PureJSON(http.StatusOK, processor.Process(batch, newSkill()))
	}
}

func setupHealthRoutes(router *gin.Engine, catalog *services.TermCatalog, endpoints []string) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "healthy",
			"service":      "skill-hand",
			"term_source":  catalog.Source(),
			"terms_loaded": catalog.Index().Len(),
			"skills":       endpoints,
		})
	})
}
