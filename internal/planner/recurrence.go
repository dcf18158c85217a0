// Package planner holds the pure scheduling math: weekly recurrence
// expansion and the monthly aggregation projection. Nothing in here
// touches I/O; persistence and conflict handling live in the services.
package planner

import (
	"fmt"
	"sort"
	"time"
)

// RecurrenceSpec describes a repeating weekly booking pattern. It is
// consumed once by the generator and never persisted.
type RecurrenceSpec struct {
	// StartDate anchors the recurrence; only its calendar date matters.
	StartDate time.Time
	// StartTime is the time of day for every session, "HH:MM".
	StartTime string
	// EndTime is optional. When set it must parse and fall after
	// StartTime. It does not affect the generated instants; sessions
	// are point-in-time.
	EndTime string
	// NumberOfWeeks is how many calendar weeks to expand, >= 1.
	NumberOfWeeks int
	// Weekdays uses 0=Sunday .. 6=Saturday, matching time.Weekday and
	// the day-picker the UI sends.
	Weekdays []time.Weekday
}

func (s RecurrenceSpec) Validate() error {
	if s.StartDate.IsZero() {
		return fmt.Errorf("start date is required")
	}
	if s.NumberOfWeeks < 1 {
		return fmt.Errorf("number of weeks must be at least 1")
	}
	if len(s.Weekdays) == 0 {
		return fmt.Errorf("at least one weekday must be selected")
	}
	for _, d := range s.Weekdays {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("invalid weekday %d", d)
		}
	}
	start, err := ParseClock(s.StartTime)
	if err != nil {
		return fmt.Errorf("start time: %w", err)
	}
	if s.EndTime != "" {
		end, err := ParseClock(s.EndTime)
		if err != nil {
			return fmt.Errorf("end time: %w", err)
		}
		if !end.After(start) {
			return fmt.Errorf("end time must be after start time")
		}
	}
	return nil
}

// ExpandWeekly turns a spec into the concrete candidate instants, in
// ascending order. For week offset w and selected weekday d the
// candidate date is the day of weekday d inside the calendar week
// (Sunday-first) that lies w weeks after StartDate's week. Candidates
// whose date falls strictly before StartDate's date are dropped: a
// recurrence never books into the past relative to its own anchor,
// even inside week zero.
func ExpandWeekly(spec RecurrenceSpec) ([]time.Time, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	clock, err := ParseClock(spec.StartTime)
	if err != nil {
		return nil, err
	}

	loc := spec.StartDate.Location()
	anchor := time.Date(
		spec.StartDate.Year(), spec.StartDate.Month(), spec.StartDate.Day(),
		0, 0, 0, 0, loc,
	)
	// Sunday of the anchor's calendar week.
	weekStart := anchor.AddDate(0, 0, -int(anchor.Weekday()))

	seen := make(map[time.Weekday]bool, len(spec.Weekdays))
	weekdays := make([]time.Weekday, 0, len(spec.Weekdays))
	for _, d := range spec.Weekdays {
		if !seen[d] {
			seen[d] = true
			weekdays = append(weekdays, d)
		}
	}

	instants := make([]time.Time, 0, spec.NumberOfWeeks*len(weekdays))
	for w := 0; w < spec.NumberOfWeeks; w++ {
		for _, d := range weekdays {
			day := weekStart.AddDate(0, 0, 7*w+int(d))
			if day.Before(anchor) {
				continue
			}
			instants = append(instants, time.Date(
				day.Year(), day.Month(), day.Day(),
				clock.Hour(), clock.Minute(), 0, 0, loc,
			))
		}
	}

	sort.Slice(instants, func(i, j int) bool { return instants[i].Before(instants[j]) })
	return instants, nil
}

// ParseClock parses an "HH:MM" time of day, tolerating trailing
// seconds/fraction as sent by some time pickers.
func ParseClock(s string) (time.Time, error) {
	if len(s) < 5 {
		return time.Time{}, fmt.Errorf("invalid time of day %q", s)
	}
	clock, err := time.Parse("15:04", s[:5])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time of day %q", s)
	}
	return clock, nil
}
