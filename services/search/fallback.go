package search

import (
	"regexp"
	"strconv"
	"strings"

	"slotcal/models"
)

var (
	durationAmountRe = regexp.MustCompile(`(\d+)\s*(m|min|mins|minute|minutes|h|hr|hrs|hour|hours)\b`)
	lowerBoundRe     = regexp.MustCompile(`\b(over|more than|longer than|at least|min(imum)?)\s+\d`)
	upperBoundRe     = regexp.MustCompile(`\b(under|less than|shorter than|at most|up to|max(imum)?)\s+\d`)
)

// BasicCriteria is the substring-only reading of a query used when the AI
// collaborator is missing or failed. It only knows status, time of day,
// duration and today/tomorrow.
func BasicCriteria(query string) models.FilterSpecification {
	q := strings.ToLower(query)
	var spec models.FilterSpecification

	switch {
	case containsAny(q, "available", "free", "open"):
		spec.Status = models.StatusAvailable
	case containsAny(q, "booked", "busy", "reserved", "taken"):
		spec.Status = models.StatusBooked
	}

	for _, tod := range []models.TimeOfDay{models.Morning, models.Afternoon, models.Evening, models.Night} {
		if strings.Contains(q, string(tod)) {
			spec.TimeOfDay = tod
			break
		}
	}

	switch {
	case strings.Contains(q, "tomorrow"):
		spec.Date = &models.DateFilter{Kind: models.DateTomorrow}
	case strings.Contains(q, "today"):
		spec.Date = &models.DateFilter{Kind: models.DateToday}
	}

	spec.Duration = basicDuration(q)
	return spec
}

func basicDuration(q string) *models.DurationFilter {
	if m := durationAmountRe.FindStringSubmatch(q); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			if strings.HasPrefix(m[2], "h") {
				n *= 60
			}
			switch {
			case lowerBoundRe.MatchString(q):
				return &models.DurationFilter{Min: &n}
			case upperBoundRe.MatchString(q):
				return &models.DurationFilter{Max: &n}
			default:
				exact := n
				return &models.DurationFilter{Min: &n, Max: &exact}
			}
		}
	}
	switch {
	case strings.Contains(q, "long"):
		n := 60
		return &models.DurationFilter{Min: &n}
	case strings.Contains(q, "short"):
		n := 30
		return &models.DurationFilter{Max: &n}
	}
	return nil
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
