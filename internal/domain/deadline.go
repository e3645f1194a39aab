package domain

import (
	"fmt"
	"time"
)

// DateLayout is the stored date format for maintenances and deadlines.
const DateLayout = "2006-01-02"

// upcomingDays is how far ahead a deadline still counts as upcoming.
const upcomingDays = 7

// Status classifies a deadline date relative to a reference day.
type Status int

const (
	StatusExpired Status = iota
	StatusUpcoming
	StatusFuture
)

// ParseDate parses a stored YYYY-MM-DD date as a UTC calendar day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// Today truncates t to its UTC calendar date.
func Today(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Classify places a deadline date relative to today: before today is
// expired, within the next seven days (inclusive) is upcoming, anything
// later is future.
func Classify(date, today time.Time) Status {
	switch {
	case date.Before(today):
		return StatusExpired
	case !date.After(today.AddDate(0, 0, upcomingDays)):
		return StatusUpcoming
	default:
		return StatusFuture
	}
}

// FilterMode selects which deadlines an interactive listing shows.
type FilterMode int

const (
	FilterUpcoming FilterMode = iota
	FilterExpired
	FilterAll
)

// ParseFilterMode maps a callback tag to a filter mode.
func ParseFilterMode(s string) (FilterMode, error) {
	switch s {
	case "UPCOMING":
		return FilterUpcoming, nil
	case "EXPIRED":
		return FilterExpired, nil
	case "ALL":
		return FilterAll, nil
	default:
		return 0, fmt.Errorf("unknown filter mode %q", s)
	}
}

func (m FilterMode) String() string {
	switch m {
	case FilterUpcoming:
		return "UPCOMING"
	case FilterExpired:
		return "EXPIRED"
	case FilterAll:
		return "ALL"
	}
	return "UNKNOWN"
}

// FilterDeadlines keeps the deadlines matching mode, preserving the input
// order. Deadlines with unparsable dates are dropped in every mode.
func FilterDeadlines(ds []Deadline, mode FilterMode, today time.Time) []Deadline {
	var out []Deadline
	for _, d := range ds {
		due, err := ParseDate(d.Date)
		if err != nil {
			continue
		}
		switch mode {
		case FilterUpcoming:
			if Classify(due, today) != StatusUpcoming {
				continue
			}
		case FilterExpired:
			if Classify(due, today) != StatusExpired {
				continue
			}
		}
		out = append(out, d)
	}
	return out
}
