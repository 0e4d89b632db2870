package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"slotcal/metrics"
	"slotcal/models"

	"go.uber.org/zap"
)

// CriteriaExtractor is the AI collaborator: it reads a query plus a slot digest
// and answers with structured filter criteria.
type CriteriaExtractor interface {
	ExtractCriteria(ctx context.Context, req models.AISearchRequest) (models.AISearchResponse, error)
}

// Query is one search call against a slot snapshot.
type Query struct {
	Text        string
	SessionID   string
	LastMatched []string // tokens matched by the session's previous query
}

// Orchestrator resolves free-text slot queries. Keyword and date parsing run
// first; the AI collaborator is only asked when the query is complex or
// nothing was recognised, and any AI failure drops to a basic substring search.
type Orchestrator struct {
	AI        CriteriaExtractor
	Logger    *zap.Logger
	Metrics   *metrics.Recorder
	Sequencer *Sequencer
	Now       func() time.Time
	// Location is the calendar zone slots are expressed in. Date windows are
	// built from Now converted into it; nil keeps Now's own zone.
	Location *time.Location
}

func NewOrchestrator(ai CriteriaExtractor, logger *zap.Logger, rec *metrics.Recorder, loc *time.Location) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		AI:        ai,
		Logger:    logger,
		Metrics:   rec,
		Sequencer: NewSequencer(0, 0),
		Now:       time.Now,
		Location:  loc,
	}
}

func (o *Orchestrator) now() time.Time {
	now := o.Now()
	if o.Location != nil {
		now = now.In(o.Location)
	}
	return now
}

// queryPlan is what the deterministic parsers made of a query.
type queryPlan struct {
	spec       models.FilterSpecification
	matched    []string
	navigation *models.Navigation
}

// Search never fails: every path produces results, an interpretation and suggestions.
func (o *Orchestrator) Search(ctx context.Context, q Query, slots []models.Slot) models.SearchResult {
	seq := o.Sequencer.Next(q.SessionID)
	result := o.resolve(ctx, q, slots, o.now())
	result.Sequence = seq

	if !o.Sequencer.IsLatest(q.SessionID, seq) {
		result.Stale = true
		o.Metrics.StaleSearch()
		o.Logger.Debug("discarding stale search result",
			zap.String("session", q.SessionID),
			zap.Uint64("sequence", seq),
		)
	}
	return result
}

func (o *Orchestrator) resolve(ctx context.Context, q Query, slots []models.Slot, now time.Time) models.SearchResult {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return o.showAll(slots, q.LastMatched, now)
	}

	plan := buildPlan(text, now)

	rest := plan.spec
	rest.ShowAll = false
	if plan.spec.ShowAll && rest.IsEmpty() {
		return o.showAll(slots, plan.matched, now)
	}

	if len(plan.matched) == 0 || IsComplexQuery(text) {
		return o.assisted(ctx, text, slots, plan, q.LastMatched, now)
	}

	o.Metrics.SearchPath(metrics.PathFast)
	results := ApplyFilters(slots, rest, now)
	return models.SearchResult{
		Results:        results,
		Interpretation: describeMatch(plan.matched, len(results), len(slots)),
		Suggestions:    GenerateSuggestions(slots, plan.matched, now),
		Navigation:     plan.navigation,
		MatchedTokens:  plan.matched,
	}
}

func (o *Orchestrator) showAll(slots []models.Slot, lastMatched []string, now time.Time) models.SearchResult {
	o.Metrics.SearchPath(metrics.PathAll)
	return models.SearchResult{
		Results:        ApplyFilters(slots, models.FilterSpecification{}, now),
		Interpretation: fmt.Sprintf("Showing all %d slots", len(slots)),
		Suggestions:    GenerateSuggestions(slots, lastMatched, now),
	}
}

func (o *Orchestrator) assisted(ctx context.Context, text string, slots []models.Slot, plan queryPlan, lastMatched []string, now time.Time) models.SearchResult {
	if o.AI == nil {
		return o.basic(text, slots, plan, now)
	}

	started := time.Now()
	resp, err := o.AI.ExtractCriteria(ctx, models.AISearchRequest{
		Query:       text,
		DataContext: BuildDataContext(slots, now),
	})
	o.Metrics.ObserveAI(time.Since(started), err)
	if err != nil {
		o.Logger.Warn("AI criteria extraction failed, using basic search", zap.String("query", text), zap.Error(err))
		return o.basic(text, slots, plan, now)
	}
	if resp.SearchCriteria.Fallback {
		o.Logger.Debug("AI requested basic search", zap.String("query", text))
		return o.basic(text, slots, plan, now)
	}

	o.Metrics.SearchPath(metrics.PathAI)
	criteria := resp.SearchCriteria.FilterSpecification
	results := ApplyFilters(slots, criteria, now)

	interpretation := strings.TrimSpace(resp.Interpretation)
	if interpretation == "" {
		interpretation = fmt.Sprintf("Found %d of %d slots for \"%s\"", len(results), len(slots), text)
	}

	chain := plan.matched
	if len(chain) == 0 {
		chain = lastMatched
	}
	suggestions := newSuggestionSet(maxSuggestions)
	suggestions.add(resp.Suggestions...)
	suggestions.add(GenerateSuggestions(slots, chain, now)...)

	nav := plan.navigation
	if nav == nil && criteria.Date != nil {
		nav = navigationFor(*criteria.Date, now)
	}
	return models.SearchResult{
		Results:        results,
		Interpretation: interpretation,
		Suggestions:    suggestions.items,
		Navigation:     nav,
		MatchedTokens:  plan.matched,
	}
}

// basic keeps whatever the deterministic parsers found and layers the
// substring checks on top.
func (o *Orchestrator) basic(text string, slots []models.Slot, plan queryPlan, now time.Time) models.SearchResult {
	o.Metrics.SearchPath(metrics.PathFallback)
	spec := plan.spec
	spec.ShowAll = false
	spec.Merge(BasicCriteria(text))
	results := ApplyFilters(slots, spec, now)
	return models.SearchResult{
		Results:        results,
		Interpretation: fmt.Sprintf("Showing %d of %d slots for \"%s\" (basic search)", len(results), len(slots), text),
		Suggestions:    GenerateSimpleSuggestions(slots, now),
		Navigation:     plan.navigation,
		MatchedTokens:  plan.matched,
	}
}

// buildPlan merges keyword, temporal and date matches. Later, more specific
// matches replace the date filter: keyword < temporal < month < specific date.
func buildPlan(text string, now time.Time) queryPlan {
	km := MatchKeywords(text)
	plan := queryPlan{spec: km.Criteria, matched: km.MatchedTokens}
	if plan.spec.Date != nil {
		plan.navigation = navigationFor(*plan.spec.Date, now)
	}

	setDate := func(f models.DateFilter, phrase string) {
		plan.spec.Date = &f
		plan.navigation = navigationFor(f, now)
		plan.matched = appendUnique(plan.matched, strings.ToLower(phrase))
	}

	if tm, ok := ParseTemporalReference(text, now); ok {
		setDate(models.DateFilter{Kind: models.DateSpecific, Date: tm.Date}, tm.Phrase)
	}
	if dm, ok := ParseSpecificDate(text); ok {
		setDate(models.DateFilter{Kind: models.DateSpecific, Date: dm.Date}, dm.Phrase)
	} else if IsMonthReferenceQuery(text) {
		if dm, ok := ParseMonthReference(text, now); ok {
			setDate(models.DateFilter{Kind: models.DateSpecific, Date: dm.Date, Subtype: dm.Subtype}, dm.Phrase)
		}
	}
	return plan
}

func navigationFor(f models.DateFilter, now time.Time) *models.Navigation {
	today := midnight(now)
	switch f.Kind {
	case models.DateToday:
		return &models.Navigation{Date: formatDate(today), View: models.ViewDay}
	case models.DateTomorrow:
		return &models.Navigation{Date: formatDate(addDays(today, 1)), View: models.ViewDay}
	case models.DateThisWeek:
		return &models.Navigation{Date: formatDate(weekStart(today)), View: models.ViewWeek}
	case models.DateNextWeek:
		return &models.Navigation{Date: formatDate(weekStart(today).AddDate(0, 0, 7)), View: models.ViewWeek}
	case models.DateLastWeek:
		return &models.Navigation{Date: formatDate(weekStart(today).AddDate(0, 0, -7)), View: models.ViewWeek}
	case models.DateSpecific:
		day, _, ok := parseCalendarValue(f.Date, now.Location())
		if !ok {
			return nil
		}
		if f.Subtype == models.DateSubtypeMonth {
			first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
			return &models.Navigation{Date: formatDate(first), View: models.ViewMonth}
		}
		return &models.Navigation{Date: formatDate(day), View: models.ViewDay}
	case models.DateRange:
		start, _, ok := parseCalendarValue(f.Start, now.Location())
		if !ok {
			return nil
		}
		return &models.Navigation{Date: formatDate(weekStart(start)), View: models.ViewWeek}
	}
	return nil
}

func describeMatch(matched []string, found, total int) string {
	return fmt.Sprintf("Found %d of %d slots matching: %s", found, total, strings.Join(matched, ", "))
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
