package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Slot search and analytics
	SearchSlotsHandler gin.HandlerFunc
	AnalyticsHandler   gin.HandlerFunc

	// Availability authoring
	DistributePreviewHandler gin.HandlerFunc
	PublishSlotsHandler      gin.HandlerFunc
	ListSlotsHandler         gin.HandlerFunc
	DeleteSlotHandler        gin.HandlerFunc

	// Booking state
	BookSlotHandler    gin.HandlerFunc
	ReleaseSlotHandler gin.HandlerFunc

	HealthHandler  gin.HandlerFunc
	MetricsHandler gin.HandlerFunc
}

// NewHandlerBundle wires a SlotHandler's methods into a bundle.
func NewHandlerBundle(h *SlotHandler, health, metrics gin.HandlerFunc) *HandlerBundle {
	return &HandlerBundle{
		SearchSlotsHandler:       h.SearchSlotsHandler,
		AnalyticsHandler:         h.AnalyticsHandler,
		DistributePreviewHandler: h.DistributePreviewHandler,
		PublishSlotsHandler:      h.PublishSlotsHandler,
		ListSlotsHandler:         h.ListSlotsHandler,
		DeleteSlotHandler:        h.DeleteSlotHandler,
		BookSlotHandler:          h.BookSlotHandler,
		ReleaseSlotHandler:       h.ReleaseSlotHandler,
		HealthHandler:            health,
		MetricsHandler:           metrics,
	}
}
