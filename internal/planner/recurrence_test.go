package planner

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExpandWeeklySkipsPastDaysInAnchorWeek(t *testing.T) {
	// Anchor on Wednesday 2024-03-06 with Monday also selected: the
	// Monday of week zero (March 4) is before the anchor and must not
	// be booked retroactively.
	instants, err := ExpandWeekly(RecurrenceSpec{
		StartDate:     date(2024, time.March, 6),
		StartTime:     "18:00",
		NumberOfWeeks: 2,
		Weekdays:      []time.Weekday{time.Monday, time.Wednesday},
	})
	if err != nil {
		t.Fatalf("ExpandWeekly: %v", err)
	}

	expected := []time.Time{
		time.Date(2024, time.March, 6, 18, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 11, 18, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 13, 18, 0, 0, 0, time.UTC),
	}
	if len(instants) != len(expected) {
		t.Fatalf("expected %d instants, got %d: %v", len(expected), len(instants), instants)
	}
	for i, want := range expected {
		if !instants[i].Equal(want) {
			t.Fatalf("instant %d: expected %s, got %s", i, want, instants[i])
		}
	}
}

func TestExpandWeeklyIsDeterministic(t *testing.T) {
	spec := RecurrenceSpec{
		StartDate:     date(2024, time.March, 6),
		StartTime:     "09:30",
		NumberOfWeeks: 4,
		Weekdays:      []time.Weekday{time.Tuesday, time.Thursday},
	}

	first, err := ExpandWeekly(spec)
	if err != nil {
		t.Fatalf("ExpandWeekly: %v", err)
	}
	second, err := ExpandWeekly(spec)
	if err != nil {
		t.Fatalf("ExpandWeekly: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("runs disagree on length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Equal(second[i]) {
			t.Fatalf("runs disagree at %d: %s vs %s", i, first[i], second[i])
		}
	}
}

func TestExpandWeeklyAnchorOnSelectedWeekday(t *testing.T) {
	// Anchor day itself selected: week zero keeps it.
	instants, err := ExpandWeekly(RecurrenceSpec{
		StartDate:     date(2024, time.March, 4), // a Monday
		StartTime:     "07:00",
		NumberOfWeeks: 1,
		Weekdays:      []time.Weekday{time.Monday},
	})
	if err != nil {
		t.Fatalf("ExpandWeekly: %v", err)
	}
	if len(instants) != 1 {
		t.Fatalf("expected 1 instant, got %d", len(instants))
	}
	want := time.Date(2024, time.March, 4, 7, 0, 0, 0, time.UTC)
	if !instants[0].Equal(want) {
		t.Fatalf("expected %s, got %s", want, instants[0])
	}
}

func TestExpandWeeklyOrdersAscendingAndDeduplicates(t *testing.T) {
	instants, err := ExpandWeekly(RecurrenceSpec{
		StartDate:     date(2024, time.March, 3), // a Sunday
		StartTime:     "12:00",
		NumberOfWeeks: 2,
		Weekdays:      []time.Weekday{time.Saturday, time.Sunday, time.Saturday},
	})
	if err != nil {
		t.Fatalf("ExpandWeekly: %v", err)
	}

	if len(instants) != 4 {
		t.Fatalf("expected 4 instants after dedup, got %d: %v", len(instants), instants)
	}
	for i := 1; i < len(instants); i++ {
		if !instants[i-1].Before(instants[i]) {
			t.Fatalf("instants not strictly ascending: %s then %s", instants[i-1], instants[i])
		}
	}
}

func TestExpandWeeklyValidation(t *testing.T) {
	base := RecurrenceSpec{
		StartDate:     date(2024, time.March, 6),
		StartTime:     "18:00",
		NumberOfWeeks: 2,
		Weekdays:      []time.Weekday{time.Monday},
	}

	cases := []struct {
		name   string
		mutate func(*RecurrenceSpec)
	}{
		{"zero weeks", func(s *RecurrenceSpec) { s.NumberOfWeeks = 0 }},
		{"negative weeks", func(s *RecurrenceSpec) { s.NumberOfWeeks = -3 }},
		{"empty weekdays", func(s *RecurrenceSpec) { s.Weekdays = nil }},
		{"weekday out of range", func(s *RecurrenceSpec) { s.Weekdays = []time.Weekday{7} }},
		{"missing start date", func(s *RecurrenceSpec) { s.StartDate = time.Time{} }},
		{"bad start time", func(s *RecurrenceSpec) { s.StartTime = "25:99" }},
		{"end before start", func(s *RecurrenceSpec) { s.EndTime = "17:00" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := base
			tc.mutate(&spec)
			if _, err := ExpandWeekly(spec); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestExpandWeeklyAcceptsEndTime(t *testing.T) {
	// end_time is accepted and validated but does not change the
	// generated instants; sessions are point-in-time.
	withEnd, err := ExpandWeekly(RecurrenceSpec{
		StartDate:     date(2024, time.March, 6),
		StartTime:     "18:00",
		EndTime:       "19:00",
		NumberOfWeeks: 1,
		Weekdays:      []time.Weekday{time.Wednesday},
	})
	if err != nil {
		t.Fatalf("ExpandWeekly: %v", err)
	}
	if len(withEnd) != 1 || withEnd[0].Hour() != 18 {
		t.Fatalf("unexpected instants: %v", withEnd)
	}
}

func TestParseClock(t *testing.T) {
	clock, err := ParseClock("09:45:00.000000")
	if err != nil {
		t.Fatalf("ParseClock: %v", err)
	}
	if clock.Hour() != 9 || clock.Minute() != 45 {
		t.Fatalf("expected 09:45, got %02d:%02d", clock.Hour(), clock.Minute())
	}

	if _, err := ParseClock("9:5"); err == nil {
		t.Fatalf("expected error for short input")
	}
}
