package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"haul/internal/handler"
	"haul/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	TripHandler    *handler.TripHandler
	FuelHandler    *handler.FuelHandler
	IFTAHandler    *handler.IFTAHandler
	QuarterHandler *handler.QuarterHandler
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Trip record routes.
		trips := v1.Group("/trips")
		{
			trips.POST("", deps.TripHandler.Create)
			trips.GET("", deps.TripHandler.List)
			trips.DELETE("/:id", deps.TripHandler.Delete)
		}

		// Fuel purchase routes.
		fuel := v1.Group("/fuel-purchases")
		{
			fuel.POST("", deps.FuelHandler.Create)
			fuel.GET("", deps.FuelHandler.List)
		}

		// Reconciliation engine routes.
		ifta := v1.Group("/ifta")
		{
			ifta.GET("/summary", deps.IFTAHandler.Summary)
			ifta.GET("/discrepancies", deps.IFTAHandler.Discrepancies)
			ifta.POST("/corrections", deps.IFTAHandler.Synthesize)
			ifta.GET("/export", deps.IFTAHandler.Export)
		}

		// Quarter filing lock routes.
		quarters := v1.Group("/quarters")
		{
			quarters.GET("/:quarter/lock", deps.QuarterHandler.Status)
			quarters.POST("/:quarter/lock", deps.QuarterHandler.Lock)
			quarters.DELETE("/:quarter/lock", deps.QuarterHandler.Unlock)
		}
	}

	return router
}
