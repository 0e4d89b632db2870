package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	timeslotRepo "slotcal/database/repository/timeslot"
	"slotcal/models"
	"slotcal/services/availability"
	"slotcal/services/search"
	"slotcal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAvailability struct {
	slots      []models.Slot
	err        error
	listFrom   *time.Time
	listTo     *time.Time
	bookedWith string
}

func (s *stubAvailability) Preview(req models.DistributeRequest) ([]models.Slot, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.slots, nil
}

func (s *stubAvailability) Publish(_ context.Context, providerID string, _ models.DistributeRequest) (*models.ProviderSlotsDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.ProviderSlotsDTO{ProviderID: providerID, Slots: s.slots}, nil
}

func (s *stubAvailability) List(_ context.Context, _ string, from, to *time.Time) ([]models.Slot, error) {
	s.listFrom, s.listTo = from, to
	return s.slots, s.err
}

func (s *stubAvailability) Delete(context.Context, string, string) error { return s.err }

func (s *stubAvailability) Book(_ context.Context, _, slotID, bookingID string) (*models.Slot, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.bookedWith = bookingID
	return &models.Slot{ID: slotID, IsBooked: true, BookingID: bookingID}, nil
}

func (s *stubAvailability) Release(_ context.Context, _, slotID, _ string) (*models.Slot, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Slot{ID: slotID}, nil
}

type stubSearcher struct {
	got    search.Query
	result models.SearchResult
}

func (s *stubSearcher) Search(_ context.Context, q search.Query, _ []models.Slot) models.SearchResult {
	s.got = q
	return s.result
}

type mapContexts map[string]*models.SearchContext

func (m mapContexts) Get(_ context.Context, id string) (*models.SearchContext, error) {
	if sc, ok := m[id]; ok {
		return sc, nil
	}
	return &models.SearchContext{}, nil
}

func (m mapContexts) Set(_ context.Context, id string, sc *models.SearchContext) error {
	m[id] = sc
	return nil
}

func (m mapContexts) Clear(_ context.Context, id string) error {
	delete(m, id)
	return nil
}

type stubEngine struct{ calls int }

func (e *stubEngine) Analyze(_ context.Context, slots []models.Slot) models.CalendarAnalytics {
	e.calls++
	return models.CalendarAnalytics{}
}

func setupRouter(h *SlotHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(utils.ErrorHandler())
	g := r.Group("/api/providers/:providerID/slots")
	g.POST("/search", h.SearchSlotsHandler)
	g.GET("/analytics", h.AnalyticsHandler)
	g.POST("/distribute", h.DistributePreviewHandler)
	g.POST("/publish", h.PublishSlotsHandler)
	g.GET("", h.ListSlotsHandler)
	g.DELETE("/:slotID", h.DeleteSlotHandler)
	g.POST("/:slotID/booking", h.BookSlotHandler)
	g.DELETE("/:slotID/booking", h.ReleaseSlotHandler)
	return r
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSearchSlotsHandler_SavesContext(t *testing.T) {
	contexts := mapContexts{"s1": {LastQuery: "morning", LastMatched: []string{"morning"}}}
	searcher := &stubSearcher{result: models.SearchResult{
		Interpretation: "Found 0 of 0 slots matching: friday",
		MatchedTokens:  []string{"friday"},
		Sequence:       1,
	}}
	h := NewSlotHandler(&stubAvailability{}, searcher, contexts, &stubEngine{}, time.UTC)

	w := doJSON(setupRouter(h), http.MethodPost, "/api/providers/p1/slots/search",
		models.SearchRequest{Query: "friday", SessionID: "s1"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "friday", searcher.got.Text)
	assert.Equal(t, []string{"morning"}, searcher.got.LastMatched)
	assert.Equal(t, []string{"friday"}, contexts["s1"].LastMatched)
	assert.Equal(t, "friday", contexts["s1"].LastQuery)

	var got models.SearchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Found 0 of 0 slots matching: friday", got.Interpretation)
}

func TestSearchSlotsHandler_StaleResultLeavesContext(t *testing.T) {
	contexts := mapContexts{"s1": {LastMatched: []string{"morning"}}}
	searcher := &stubSearcher{result: models.SearchResult{MatchedTokens: []string{"friday"}, Stale: true}}
	h := NewSlotHandler(&stubAvailability{}, searcher, contexts, &stubEngine{}, time.UTC)

	w := doJSON(setupRouter(h), http.MethodPost, "/api/providers/p1/slots/search",
		models.SearchRequest{Query: "friday", SessionID: "s1"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"morning"}, contexts["s1"].LastMatched)
}

func TestSearchSlotsHandler_BadPayload(t *testing.T) {
	h := NewSlotHandler(&stubAvailability{}, &stubSearcher{}, mapContexts{}, &stubEngine{}, time.UTC)
	req := httptest.NewRequest(http.MethodPost, "/api/providers/p1/slots/search", bytes.NewBufferString("{"))
	w := httptest.NewRecorder()
	setupRouter(h).ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyticsHandler_Window(t *testing.T) {
	svc := &stubAvailability{}
	engine := &stubEngine{}
	h := NewSlotHandler(svc, &stubSearcher{}, mapContexts{}, engine, time.UTC)
	r := setupRouter(h)

	w := doJSON(r, http.MethodGet, "/api/providers/p1/slots/analytics?from=2025-10-13&to=2025-10-19", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.listFrom)
	require.NotNil(t, svc.listTo)
	assert.Equal(t, time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC), *svc.listFrom)
	assert.Equal(t, time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC), *svc.listTo)
	assert.Equal(t, 1, engine.calls)

	w = doJSON(r, http.MethodGet, "/api/providers/p1/slots/analytics?from=2025-10-13", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/api/providers/p1/slots/analytics?from=2025-10-13&to=soon", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListSlotsHandler_RFC3339Window(t *testing.T) {
	svc := &stubAvailability{}
	h := NewSlotHandler(svc, &stubSearcher{}, mapContexts{}, &stubEngine{}, time.UTC)

	w := doJSON(setupRouter(h), http.MethodGet,
		"/api/providers/p1/slots?from=2025-10-13T09:00:00Z&to=2025-10-13T17:00:00Z", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, time.Date(2025, 10, 13, 17, 0, 0, 0, time.UTC), svc.listTo.UTC())
}

func TestPublishSlotsHandler_ErrorMapping(t *testing.T) {
	body := models.DistributeRequest{Date: "2025-10-17", DayStart: "09:00", DayEnd: "17:00", Mode: models.DistributeBySlots, SlotCount: 4}

	cases := []struct {
		name string
		err  error
		code int
	}{
		{"created", nil, http.StatusCreated},
		{"invalid", errors.Join(availability.ErrInvalidRequest, errors.New("bad")), http.StatusBadRequest},
		{"conflict", &availability.SlotConflictError{Conflicts: []models.Conflict{{}}}, http.StatusConflict},
		{"store", errors.New("mongo down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewSlotHandler(&stubAvailability{err: tc.err}, &stubSearcher{}, mapContexts{}, &stubEngine{}, time.UTC)
			w := doJSON(setupRouter(h), http.MethodPost, "/api/providers/p1/slots/publish", body)
			assert.Equal(t, tc.code, w.Code)
			if tc.code == http.StatusInternalServerError {
				assert.JSONEq(t, `{"message":"Failed to publish slots","details":"mongo down"}`, w.Body.String())
			}
			if tc.code == http.StatusConflict {
				assert.Contains(t, w.Body.String(), "conflicts")
			}
		})
	}
}

func TestPublishSlotsHandler_MissingFields(t *testing.T) {
	h := NewSlotHandler(&stubAvailability{}, &stubSearcher{}, mapContexts{}, &stubEngine{}, time.UTC)
	w := doJSON(setupRouter(h), http.MethodPost, "/api/providers/p1/slots/publish", map[string]string{"date": "2025-10-17"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandlers(t *testing.T) {
	svc := &stubAvailability{}
	h := NewSlotHandler(svc, &stubSearcher{}, mapContexts{}, &stubEngine{}, time.UTC)
	r := setupRouter(h)

	w := doJSON(r, http.MethodPost, "/api/providers/p1/slots/a/booking", models.BookSlotRequest{BookingID: "b-1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "b-1", svc.bookedWith)

	w = doJSON(r, http.MethodDelete, "/api/providers/p1/slots/a/booking", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodDelete, "/api/providers/p1/slots/a/booking?bookingId=b-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	svc.err = timeslotRepo.ErrSlotBooked
	w = doJSON(r, http.MethodPost, "/api/providers/p1/slots/a/booking", models.BookSlotRequest{BookingID: "b-2"})
	assert.Equal(t, http.StatusConflict, w.Code)

	svc.err = timeslotRepo.ErrSlotNotFound
	w = doJSON(r, http.MethodDelete, "/api/providers/p1/slots/a", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDistributePreviewHandler(t *testing.T) {
	start := time.Date(2025, 10, 17, 9, 0, 0, 0, time.UTC)
	svc := &stubAvailability{slots: []models.Slot{{StartTime: start, EndTime: start.Add(time.Hour)}}}
	h := NewSlotHandler(svc, &stubSearcher{}, mapContexts{}, &stubEngine{}, time.UTC)

	body := models.DistributeRequest{Date: "2025-10-17", DayStart: "09:00", DayEnd: "10:00", Mode: models.DistributeByMinutes, MinutesPerSlot: 60}
	w := doJSON(setupRouter(h), http.MethodPost, "/api/providers/p1/slots/distribute", body)

	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Slots []map[string]any `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Slots, 1)
	assert.EqualValues(t, 60, got.Slots[0]["duration"])
}
