package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"slotcal/metrics"
	"slotcal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeExtractor struct {
	resp   models.AISearchResponse
	err    error
	calls  int
	last   models.AISearchRequest
	during func()
}

func (f *fakeExtractor) ExtractCriteria(_ context.Context, req models.AISearchRequest) (models.AISearchResponse, error) {
	f.calls++
	f.last = req
	if f.during != nil {
		f.during()
	}
	return f.resp, f.err
}

func newTestOrchestrator(ai CriteriaExtractor) *Orchestrator {
	o := NewOrchestrator(ai, zap.NewNop(), metrics.New(prometheus.NewRegistry()), nil)
	o.Now = func() time.Time { return fixedNow }
	return o
}

func orchestratorFixture() []models.Slot {
	return []models.Slot{
		slotAt("fri-9", "2025-10-17T09:00", 60, false),
		slotAt("fri-15", "2025-10-17T15:00", 60, false),
		slotAt("thu-10", "2025-10-16T10:00", 30, true),
		slotAt("mon-next", "2025-10-20T11:00", 90, false),
		slotAt("nov-1", "2025-11-04T09:00", 60, false),
	}
}

func TestSearchFridayMorningUsesKeywords(t *testing.T) {
	ai := &fakeExtractor{}
	o := newTestOrchestrator(ai)

	res := o.Search(context.Background(), Query{Text: "friday morning", SessionID: "s1"}, orchestratorFixture())

	assert.Equal(t, []string{"fri-9"}, ids(res.Results))
	assert.Contains(t, res.Interpretation, "friday")
	assert.Contains(t, res.Interpretation, "morning")
	assert.Equal(t, []string{"friday", "morning"}, res.MatchedTokens)
	assert.Equal(t, "friday morning", res.Suggestions[0])
	assert.Zero(t, ai.calls)
	assert.Equal(t, uint64(1), res.Sequence)
	assert.False(t, res.Stale)
}

func TestSearchEmptyQueryShowsAll(t *testing.T) {
	o := newTestOrchestrator(nil)
	slots := make([]models.Slot, 0, 7)
	for i := 0; i < 7; i++ {
		slots = append(slots, slotAt(string(rune('a'+i)), "2025-10-15T09:00", 30, false))
	}

	res := o.Search(context.Background(), Query{Text: "   "}, slots)

	assert.Len(t, res.Results, 7)
	assert.Equal(t, "Showing all 7 slots", res.Interpretation)
	assert.Nil(t, res.Navigation)
	assert.NotEmpty(t, res.Suggestions)
}

func TestSearchShowAllKeyword(t *testing.T) {
	o := newTestOrchestrator(nil)
	slots := orchestratorFixture()

	res := o.Search(context.Background(), Query{Text: "all"}, slots)
	assert.Len(t, res.Results, len(slots))
	assert.Equal(t, "Showing all 5 slots", res.Interpretation)

	res = o.Search(context.Background(), Query{Text: "all booked"}, slots)
	assert.Equal(t, []string{"thu-10"}, ids(res.Results))
}

func TestSearchMonthReferenceNavigates(t *testing.T) {
	ai := &fakeExtractor{}
	o := newTestOrchestrator(ai)

	res := o.Search(context.Background(), Query{Text: "October 2025"}, orchestratorFixture())

	require.NotNil(t, res.Navigation)
	assert.Equal(t, models.Navigation{Date: "2025-10-01", View: models.ViewMonth}, *res.Navigation)
	assert.Equal(t, []string{"fri-9", "fri-15", "thu-10", "mon-next"}, ids(res.Results))
	assert.Zero(t, ai.calls)
}

func TestSearchNavigation(t *testing.T) {
	o := newTestOrchestrator(nil)
	slots := orchestratorFixture()

	tests := []struct {
		query string
		want  models.Navigation
		ids   []string
	}{
		{"next week", models.Navigation{Date: "2025-10-19", View: models.ViewWeek}, []string{"mon-next"}},
		{"this week", models.Navigation{Date: "2025-10-12", View: models.ViewWeek}, []string{"fri-9", "fri-15", "thu-10"}},
		{"tomorrow", models.Navigation{Date: "2025-10-16", View: models.ViewDay}, []string{"thu-10"}},
		{"next monday", models.Navigation{Date: "2025-10-20", View: models.ViewDay}, []string{"mon-next"}},
		{"2025-10-17", models.Navigation{Date: "2025-10-17", View: models.ViewDay}, []string{"fri-9", "fri-15"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			res := o.Search(context.Background(), Query{Text: tt.query}, slots)
			require.NotNil(t, res.Navigation)
			assert.Equal(t, tt.want, *res.Navigation)
			assert.Equal(t, tt.ids, ids(res.Results))
		})
	}
}

func TestSearchComplexQueryUsesAI(t *testing.T) {
	ai := &fakeExtractor{resp: models.AISearchResponse{
		Interpretation: "Available slots of at least an hour",
		SearchCriteria: models.AISearchCriteria{FilterSpecification: models.FilterSpecification{
			Status:   models.StatusAvailable,
			Duration: &models.DurationFilter{Min: intPtr(60)},
		}},
		Suggestions: []string{"long monday slots"},
	}}
	o := newTestOrchestrator(ai)

	res := o.Search(context.Background(), Query{Text: "show me free slots longer than an hour"}, orchestratorFixture())

	assert.Equal(t, 1, ai.calls)
	assert.Equal(t, "show me free slots longer than an hour", ai.last.Query)
	assert.Contains(t, ai.last.DataContext, "Total slots: 5")
	assert.Equal(t, "Available slots of at least an hour", res.Interpretation)
	assert.Equal(t, []string{"fri-9", "fri-15", "mon-next", "nov-1"}, ids(res.Results))
	assert.Equal(t, "long monday slots", res.Suggestions[0])
	assert.LessOrEqual(t, len(res.Suggestions), maxSuggestions)
}

func TestSearchUnknownQueryAsksAI(t *testing.T) {
	ai := &fakeExtractor{resp: models.AISearchResponse{
		SearchCriteria: models.AISearchCriteria{FilterSpecification: models.FilterSpecification{
			Date: &models.DateFilter{Kind: models.DateSpecific, Date: "2025-11-04"},
		}},
	}}
	o := newTestOrchestrator(ai)

	res := o.Search(context.Background(), Query{Text: "election day"}, orchestratorFixture())

	assert.Equal(t, 1, ai.calls)
	assert.Equal(t, []string{"nov-1"}, ids(res.Results))
	assert.Contains(t, res.Interpretation, "election day")
	require.NotNil(t, res.Navigation)
	assert.Equal(t, models.Navigation{Date: "2025-11-04", View: models.ViewDay}, *res.Navigation)
}

func TestSearchFallsBackWhenAIFails(t *testing.T) {
	ai := &fakeExtractor{err: errors.New("quota exceeded")}
	o := newTestOrchestrator(ai)

	res := o.Search(context.Background(), Query{Text: "show me booked slots"}, orchestratorFixture())

	assert.Equal(t, 1, ai.calls)
	assert.Equal(t, []string{"thu-10"}, ids(res.Results))
	assert.Contains(t, res.Interpretation, "basic search")
	assert.LessOrEqual(t, len(res.Suggestions), maxSimpleSuggestions)
}

func TestSearchFallsBackWhenAIAsks(t *testing.T) {
	ai := &fakeExtractor{resp: models.AISearchResponse{
		SearchCriteria: models.AISearchCriteria{Fallback: true},
	}}
	o := newTestOrchestrator(ai)

	res := o.Search(context.Background(), Query{Text: "what is open friday morning?"}, orchestratorFixture())

	assert.Equal(t, []string{"fri-9"}, ids(res.Results))
	assert.Contains(t, res.Interpretation, "basic search")
}

func TestSearchWithoutAIUsesBasicCriteria(t *testing.T) {
	o := newTestOrchestrator(nil)
	slots := orchestratorFixture()

	res := o.Search(context.Background(), Query{Text: "xyzzy"}, slots)
	assert.Len(t, res.Results, len(slots))
	assert.Contains(t, res.Interpretation, "basic search")
}

func TestSearchMarksStaleResults(t *testing.T) {
	ai := &fakeExtractor{}
	o := newTestOrchestrator(ai)
	ai.during = func() { o.Sequencer.Next("s1") }

	res := o.Search(context.Background(), Query{Text: "show me everything", SessionID: "s1"}, orchestratorFixture())
	assert.True(t, res.Stale)
	assert.Equal(t, uint64(1), res.Sequence)

	ai.during = nil
	res = o.Search(context.Background(), Query{Text: "show me everything", SessionID: "s1"}, orchestratorFixture())
	assert.False(t, res.Stale)
	assert.Equal(t, uint64(3), res.Sequence)
}

func TestSearchUsesCalendarZone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// Friday evening in New York is already Saturday in UTC.
	start := time.Date(2025, time.October, 17, 21, 0, 0, 0, ny)
	slots := []models.Slot{{ID: "fri-ny", StartTime: start, EndTime: start.Add(time.Hour), Type: models.SlotOneOff}}

	o := NewOrchestrator(nil, zap.NewNop(), nil, ny)
	o.Now = func() time.Time { return fixedNow }

	for _, q := range []string{"10/17/2025", "this friday", "friday", "friday evening"} {
		res := o.Search(context.Background(), Query{Text: q}, slots)
		assert.Equal(t, []string{"fri-ny"}, ids(res.Results), q)
	}

	res := o.Search(context.Background(), Query{Text: "this friday"}, slots)
	require.NotNil(t, res.Navigation)
	assert.Equal(t, "2025-10-17", res.Navigation.Date)
}

func TestSearchModalMayIsNotAMonth(t *testing.T) {
	o := newTestOrchestrator(nil)
	res := o.Search(context.Background(), Query{Text: "may i see friday morning"}, orchestratorFixture())

	assert.Equal(t, []string{"fri-9"}, ids(res.Results))
	assert.Nil(t, res.Navigation)
}
