package intelligence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"slotcal/models"

	"github.com/kaptinlin/jsonrepair"
	"go.uber.org/zap"
)

const criteriaPrompt = `You translate calendar slot searches into JSON filter criteria.

Calendar summary:
%s

User query: %q

Reply with a single JSON object and nothing else:
{
  "interpretation": "one sentence describing what you searched for",
  "searchCriteria": {
    "status": "available" | "booked",
    "timeFilter": "morning" | "afternoon" | "evening" | "night" | "allday",
    "dayOfWeek": 0-6 (0 is Sunday),
    "dateFilter": {"type": "today" | "tomorrow" | "thisweek" | "nextweek" | "lastweek" | "specific" | "range", "date": "YYYY-MM-DD", "subtype": "month", "start": "YYYY-MM-DD", "end": "YYYY-MM-DD"},
    "durationFilter": {"min": minutes, "max": minutes},
    "keywords": ["word"],
    "fallback": false
  },
  "suggestions": ["up to four short follow-up queries"]
}
Omit every field you cannot infer. Morning is 06:00-11:59, afternoon 12:00-17:59, evening 18:00-21:59, night 22:00-05:59.
Use "subtype": "month" with the first day of the month for whole-month queries.
Set "fallback": true if the query is not about calendar slots.`

// Extractor asks an LLM to turn a free-text query into slot filter criteria.
type Extractor struct {
	LLM     TextGenerator
	Timeout time.Duration
	Logger  *zap.Logger
}

func NewExtractor(llm TextGenerator, timeout time.Duration, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{LLM: llm, Timeout: timeout, Logger: logger}
}

func BuildCriteriaPrompt(req models.AISearchRequest) string {
	return fmt.Sprintf(criteriaPrompt, req.DataContext, req.Query)
}

func (e *Extractor) ExtractCriteria(ctx context.Context, req models.AISearchRequest) (models.AISearchResponse, error) {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	text, err := e.LLM.GenerateContent(ctx, BuildCriteriaPrompt(req))
	if err != nil {
		return models.AISearchResponse{}, err
	}
	resp, err := ParseCriteriaResponse(text)
	if err != nil {
		e.Logger.Warn("unusable AI criteria response", zap.String("query", req.Query), zap.Error(err))
		return models.AISearchResponse{}, err
	}
	return resp, nil
}

var ErrNoJSON = errors.New("no JSON object in AI response")

// ParseCriteriaResponse reads the model's answer. Markdown fences and prose
// around the object are ignored, malformed JSON is repaired, and fields with
// unknown values are dropped.
func ParseCriteriaResponse(text string) (models.AISearchResponse, error) {
	var resp models.AISearchResponse

	raw := stripFences(text)
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 {
		return resp, ErrNoJSON
	}
	if end > start {
		raw = raw[start : end+1]
	} else {
		raw = raw[start:]
	}

	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(raw)
		if repairErr != nil {
			return resp, fmt.Errorf("repair AI response: %w", repairErr)
		}
		resp = models.AISearchResponse{}
		if err := json.Unmarshal([]byte(repaired), &resp); err != nil {
			return resp, fmt.Errorf("decode AI response: %w", err)
		}
	}

	sanitize(&resp.SearchCriteria.FilterSpecification)
	resp.Interpretation = strings.TrimSpace(resp.Interpretation)
	return resp, nil
}

func stripFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.Index(s, "\n"); nl >= 0 {
		s = s[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}

func sanitize(spec *models.FilterSpecification) {
	switch spec.Status {
	case "", models.StatusAvailable, models.StatusBooked:
	default:
		spec.Status = ""
	}

	switch spec.TimeOfDay {
	case "", models.Morning, models.Afternoon, models.Evening, models.Night, models.AllDay:
	default:
		spec.TimeOfDay = ""
	}

	if spec.DayOfWeek != nil && (*spec.DayOfWeek < time.Sunday || *spec.DayOfWeek > time.Saturday) {
		spec.DayOfWeek = nil
	}

	if spec.Date != nil {
		switch spec.Date.Kind {
		case models.DateToday, models.DateTomorrow, models.DateThisWeek, models.DateNextWeek, models.DateLastWeek,
			models.DateSpecific, models.DateRange:
		default:
			spec.Date = nil
		}
	}

	if d := spec.Duration; d != nil {
		if d.Min != nil && *d.Min < 0 {
			d.Min = nil
		}
		if d.Max != nil && *d.Max < 0 {
			d.Max = nil
		}
		if d.Min == nil && d.Max == nil {
			spec.Duration = nil
		}
	}
}
