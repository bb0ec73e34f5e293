package domain

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format accepted for search bounds.
const DateLayout = "2006-01-02"

// SearchCriteria holds the optional filters of a task search.
// Start and End are calendar dates; only their year, month and day are used.
type SearchCriteria struct {
	Title    string
	Nickname string
	Weather  string
	Start    *time.Time
	End      *time.Time
}

// HasTitle reports whether a non-blank title filter is set.
func (c SearchCriteria) HasTitle() bool {
	return strings.TrimSpace(c.Title) != ""
}

// HasNickname reports whether a non-blank delegate nickname filter is set.
func (c SearchCriteria) HasNickname() bool {
	return strings.TrimSpace(c.Nickname) != ""
}

// HasWeather reports whether a non-blank weather filter is set.
func (c SearchCriteria) HasWeather() bool {
	return strings.TrimSpace(c.Weather) != ""
}

// Normalize returns a copy with an inverted date range swapped.
// An inverted range is never rejected.
func (c SearchCriteria) Normalize() SearchCriteria {
	if c.Start != nil && c.End != nil && StartOfDay(*c.Start).After(StartOfDay(*c.End)) {
		c.Start, c.End = c.End, c.Start
	}
	return c
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SearchResultRow is one aggregated task row of a search page.
type SearchResultRow struct {
	TaskID       string
	Title        string
	ManagerCount int64
	CommentCount int64
	CreatedAt    time.Time
}
