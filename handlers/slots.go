package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	timeslotRepo "slotcal/database/repository/timeslot"
	"slotcal/models"
	"slotcal/services/availability"
	"slotcal/services/search"
	"slotcal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SlotSearcher answers free-text queries over a slot snapshot.
type SlotSearcher interface {
	Search(ctx context.Context, q search.Query, slots []models.Slot) models.SearchResult
}

// AnalyticsEngine derives calendar analytics for a slot snapshot.
type AnalyticsEngine interface {
	Analyze(ctx context.Context, slots []models.Slot) models.CalendarAnalytics
}

type SlotHandler struct {
	Availability availability.AvailabilityService
	Searcher     SlotSearcher
	Contexts     search.ContextStore
	Analytics    AnalyticsEngine
	Location     *time.Location
}

func NewSlotHandler(svc availability.AvailabilityService, searcher SlotSearcher, contexts search.ContextStore, engine AnalyticsEngine, loc *time.Location) *SlotHandler {
	if loc == nil {
		loc = time.Local
	}
	return &SlotHandler{Availability: svc, Searcher: searcher, Contexts: contexts, Analytics: engine, Location: loc}
}

func (h *SlotHandler) SearchSlotsHandler(c *gin.Context) {
	logger := getLogger(c)
	providerID := c.Param("providerID")

	var req models.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	slots, err := h.Availability.List(c.Request.Context(), providerID, nil, nil)
	if err != nil {
		respondServiceError(c, "Failed to load slots", err)
		return
	}

	var lastMatched []string
	if req.SessionID != "" && h.Contexts != nil {
		sc, err := h.Contexts.Get(c.Request.Context(), req.SessionID)
		if err != nil {
			logger.Warn("search context unavailable", zap.String("session", req.SessionID), zap.Error(err))
		} else if sc != nil {
			lastMatched = sc.LastMatched
		}
	}

	result := h.Searcher.Search(c.Request.Context(), search.Query{
		Text:        req.Query,
		SessionID:   req.SessionID,
		LastMatched: lastMatched,
	}, slots)

	if req.SessionID != "" && h.Contexts != nil && !result.Stale && len(result.MatchedTokens) > 0 {
		sc := &models.SearchContext{LastQuery: req.Query, LastMatched: result.MatchedTokens}
		if err := h.Contexts.Set(c.Request.Context(), req.SessionID, sc); err != nil {
			logger.Warn("failed to save search context", zap.String("session", req.SessionID), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, result)
}

func (h *SlotHandler) AnalyticsHandler(c *gin.Context) {
	from, to, err := parseWindow(c, h.Location)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid date window", err.Error())
		return
	}

	slots, err := h.Availability.List(c.Request.Context(), c.Param("providerID"), from, to)
	if err != nil {
		respondServiceError(c, "Failed to load slots", err)
		return
	}
	c.JSON(http.StatusOK, h.Analytics.Analyze(c.Request.Context(), slots))
}

func (h *SlotHandler) DistributePreviewHandler(c *gin.Context) {
	var req models.DistributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	slots, err := h.Availability.Preview(req)
	if err != nil {
		respondServiceError(c, "Failed to distribute slots", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

func (h *SlotHandler) PublishSlotsHandler(c *gin.Context) {
	logger := getLogger(c)
	var req models.DistributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid publish request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	dto, err := h.Availability.Publish(c.Request.Context(), c.Param("providerID"), req)
	if err != nil {
		respondServiceError(c, "Failed to publish slots", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Slots published", "provider": dto})
}

func (h *SlotHandler) ListSlotsHandler(c *gin.Context) {
	from, to, err := parseWindow(c, h.Location)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid date window", err.Error())
		return
	}

	slots, err := h.Availability.List(c.Request.Context(), c.Param("providerID"), from, to)
	if err != nil {
		respondServiceError(c, "Failed to fetch slots", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

func (h *SlotHandler) DeleteSlotHandler(c *gin.Context) {
	if err := h.Availability.Delete(c.Request.Context(), c.Param("providerID"), c.Param("slotID")); err != nil {
		respondServiceError(c, "Failed to delete slot", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Slot deleted"})
}

func (h *SlotHandler) BookSlotHandler(c *gin.Context) {
	var req models.BookSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	slot, err := h.Availability.Book(c.Request.Context(), c.Param("providerID"), c.Param("slotID"), req.BookingID)
	if err != nil {
		respondServiceError(c, "Failed to book slot", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slot": slot})
}

func (h *SlotHandler) ReleaseSlotHandler(c *gin.Context) {
	bookingID := c.Query("bookingId")
	if bookingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing bookingId query parameter"})
		return
	}

	slot, err := h.Availability.Release(c.Request.Context(), c.Param("providerID"), c.Param("slotID"), bookingID)
	if err != nil {
		respondServiceError(c, "Failed to release slot", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slot": slot})
}

// respondServiceError maps domain errors to statuses. Anything unexpected is
// attached to the context for utils.ErrorHandler to log and render.
func respondServiceError(c *gin.Context, msg string, err error) {
	var conflict *availability.SlotConflictError
	switch {
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": msg, "message": err.Error(), "conflicts": conflict.Conflicts})
	case errors.Is(err, availability.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": msg, "message": err.Error()})
	case errors.Is(err, timeslotRepo.ErrSlotNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": msg, "message": err.Error()})
	case errors.Is(err, timeslotRepo.ErrSlotBooked), errors.Is(err, timeslotRepo.ErrBookingMismatch):
		c.JSON(http.StatusConflict, gin.H{"error": msg, "message": err.Error()})
	default:
		_ = c.Error(err).SetMeta(msg)
	}
}

// parseWindow reads the optional from/to query pair. A bare "to" date
// includes that whole day.
func parseWindow(c *gin.Context, loc *time.Location) (*time.Time, *time.Time, error) {
	rawFrom, rawTo := c.Query("from"), c.Query("to")
	if rawFrom == "" && rawTo == "" {
		return nil, nil, nil
	}
	if rawFrom == "" || rawTo == "" {
		return nil, nil, errors.New("from and to must be given together")
	}

	from, _, err := parseWindowBound(rawFrom, loc)
	if err != nil {
		return nil, nil, err
	}
	to, dateOnly, err := parseWindowBound(rawTo, loc)
	if err != nil {
		return nil, nil, err
	}
	if dateOnly {
		to = to.AddDate(0, 0, 1)
	}
	return &from, &to, nil
}

func parseWindowBound(value string, loc *time.Location) (time.Time, bool, error) {
	if t, err := time.ParseInLocation("2006-01-02", value, loc); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false, errors.New("dates must be YYYY-MM-DD or RFC 3339")
	}
	return t, false, nil
}
