package routes

import (
	"time"

	"slotcal/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterSlotRoutes registers availability, booking state and search endpoints.
func RegisterSlotRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/providers/:providerID/slots")
	{
		// Read side
		api.GET("", hb.ListSlotsHandler)
		api.POST("/search", hb.SearchSlotsHandler)
		api.GET("/analytics", hb.AnalyticsHandler)

		// Authoring
		api.POST("/distribute", hb.DistributePreviewHandler)
		api.POST("/publish", hb.PublishSlotsHandler)
		api.DELETE("/:slotID", hb.DeleteSlotHandler)

		api.POST("/:slotID/booking", hb.BookSlotHandler)
		api.DELETE("/:slotID/booking", hb.ReleaseSlotHandler)
	}
}

// RegisterHealthRoute registers the health-check and metrics endpoints.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
	if hb.MetricsHandler != nil {
		r.GET("/metrics", hb.MetricsHandler)
	}
}

// CORSConfig allows the given origins. A "*" entry opens every origin and
// turns credentials off.
func CORSConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			cfg.AllowCredentials = false
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, origins []string) {
	r.Use(cors.New(CORSConfig(origins)))

	RegisterSlotRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
