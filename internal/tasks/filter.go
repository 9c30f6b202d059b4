package tasks

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/tgienger/tasks/internal/models"
)

// Filter is the status filter applied to the visible list
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
	FilterToday     Filter = "today"
	FilterOverdue   Filter = "overdue"
)

// Filters returns every filter in display order
func Filters() []Filter {
	return []Filter{FilterAll, FilterPending, FilterCompleted, FilterToday, FilterOverdue}
}

// ParseFilter parses a filter name
func ParseFilter(s string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Filters() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown filter %q (want all, pending, completed, today or overdue)", s)
}

// Label is the human name of the filter
func (f Filter) Label() string {
	switch f {
	case FilterAll:
		return "All Tasks"
	case FilterPending:
		return "Pending"
	case FilterCompleted:
		return "Completed"
	case FilterToday:
		return "Due Today"
	case FilterOverdue:
		return "Overdue"
	}
	return string(f)
}

// Match reports whether t passes the status filter. today is the viewer's
// current calendar day.
func (f Filter) Match(t models.Task, today models.Date) bool {
	switch f {
	case FilterPending:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	case FilterToday:
		return t.HasDueDate() && t.DueDate.Equal(today)
	case FilterOverdue:
		return t.HasDueDate() && t.DueDate.Before(today) && !t.Completed
	default:
		return true
	}
}

// MatchQuery reports whether the title contains query, ignoring case.
// An empty query matches everything; descriptions are not searched.
func MatchQuery(t models.Task, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Title), strings.ToLower(query))
}

// Visible returns the tasks matching both the query and the filter, in
// their original order. now's location decides the calendar day boundary.
func Visible(list []models.Task, filter Filter, query string, now time.Time) []models.Task {
	today := models.DateOf(now)
	out := make([]models.Task, 0, len(list))
	for _, t := range list {
		if !MatchQuery(t, query) {
			continue
		}
		if !filter.Match(t, today) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Counts holds the number of tasks matching each filter
type Counts map[Filter]int

// Count tallies list against every filter, ignoring any search query
func Count(list []models.Task, now time.Time) Counts {
	today := models.DateOf(now)
	c := make(Counts, len(Filters()))
	for _, f := range Filters() {
		c[f] = 0
	}
	for _, t := range list {
		for _, f := range Filters() {
			if f.Match(t, today) {
				c[f]++
			}
		}
	}
	return c
}

// CompletionRate is the rounded percentage of completed tasks
func (c Counts) CompletionRate() int {
	if c[FilterAll] == 0 {
		return 0
	}
	return int(math.Round(float64(c[FilterCompleted]) / float64(c[FilterAll]) * 100))
}
