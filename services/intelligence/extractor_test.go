package intelligence

import (
	"context"
	"errors"
	"testing"
	"time"

	"slotcal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	text     string
	err      error
	prompt   string
	deadline bool
}

func (s *stubGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	s.prompt = prompt
	_, s.deadline = ctx.Deadline()
	return s.text, s.err
}

func TestParseCriteriaResponse(t *testing.T) {
	text := "```json\n" + `{
  "interpretation": " Free Friday mornings ",
  "searchCriteria": {"status": "available", "timeFilter": "morning", "dayOfWeek": 5,
    "durationFilter": {"min": 30}},
  "suggestions": ["friday afternoon"]
}` + "\n```"

	resp, err := ParseCriteriaResponse(text)
	require.NoError(t, err)
	assert.Equal(t, "Free Friday mornings", resp.Interpretation)
	spec := resp.SearchCriteria.FilterSpecification
	assert.Equal(t, models.StatusAvailable, spec.Status)
	assert.Equal(t, models.Morning, spec.TimeOfDay)
	require.NotNil(t, spec.DayOfWeek)
	assert.Equal(t, time.Friday, *spec.DayOfWeek)
	require.NotNil(t, spec.Duration)
	assert.Equal(t, 30, *spec.Duration.Min)
	assert.Equal(t, []string{"friday afternoon"}, resp.Suggestions)
	assert.False(t, resp.SearchCriteria.Fallback)
}

func TestParseCriteriaResponseRepairsAndTrims(t *testing.T) {
	text := `Sure! Here you go: {"interpretation": "Booked slots", "searchCriteria": {"status": "booked", "dateFilter": {"type": "specific", "date": "2025-10-01", "subtype": "month"},}, "suggestions": ["booked today",]}`

	resp, err := ParseCriteriaResponse(text)
	require.NoError(t, err)
	spec := resp.SearchCriteria.FilterSpecification
	assert.Equal(t, models.StatusBooked, spec.Status)
	require.NotNil(t, spec.Date)
	assert.Equal(t, models.DateSpecific, spec.Date.Kind)
	assert.Equal(t, models.DateSubtypeMonth, spec.Date.Subtype)
	assert.Equal(t, []string{"booked today"}, resp.Suggestions)
}

func TestParseCriteriaResponseDropsUnknownValues(t *testing.T) {
	text := `{"searchCriteria": {"status": "maybe", "timeFilter": "brunch", "dayOfWeek": 9,
		"dateFilter": {"type": "someday"}, "durationFilter": {"min": -5}, "keywords": ["yoga"]}}`

	resp, err := ParseCriteriaResponse(text)
	require.NoError(t, err)
	spec := resp.SearchCriteria.FilterSpecification
	assert.Empty(t, spec.Status)
	assert.Empty(t, spec.TimeOfDay)
	assert.Nil(t, spec.DayOfWeek)
	assert.Nil(t, spec.Date)
	assert.Nil(t, spec.Duration)
	assert.Equal(t, []string{"yoga"}, spec.Keywords)
}

func TestParseCriteriaResponseFallbackFlag(t *testing.T) {
	resp, err := ParseCriteriaResponse(`{"searchCriteria": {"fallback": true}}`)
	require.NoError(t, err)
	assert.True(t, resp.SearchCriteria.Fallback)
}

func TestParseCriteriaResponseWithoutJSON(t *testing.T) {
	_, err := ParseCriteriaResponse("I cannot help with that.")
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestExtractorBuildsPromptAndParses(t *testing.T) {
	gen := &stubGenerator{text: `{"interpretation": "Evening slots", "searchCriteria": {"timeFilter": "evening"}}`}
	e := NewExtractor(gen, 2*time.Second, nil)

	resp, err := e.ExtractCriteria(context.Background(), models.AISearchRequest{
		Query:       "after work",
		DataContext: "Total slots: 4",
	})
	require.NoError(t, err)
	assert.Equal(t, models.Evening, resp.SearchCriteria.TimeOfDay)
	assert.Contains(t, gen.prompt, `User query: "after work"`)
	assert.Contains(t, gen.prompt, "Total slots: 4")
	assert.True(t, gen.deadline)
}

func TestExtractorPropagatesErrors(t *testing.T) {
	boom := errors.New("quota exceeded")
	e := NewExtractor(&stubGenerator{err: boom}, 0, nil)
	_, err := e.ExtractCriteria(context.Background(), models.AISearchRequest{Query: "x"})
	assert.ErrorIs(t, err, boom)

	e = NewExtractor(&stubGenerator{text: "no idea"}, 0, nil)
	_, err = e.ExtractCriteria(context.Background(), models.AISearchRequest{Query: "x"})
	assert.ErrorIs(t, err, ErrNoJSON)
}
