package planner

import (
	"testing"
	"time"

	"github.com/TeamAthleteWebsite/team-athlete-back/internal/models"
)

func sessionAt(t time.Time, status models.PlanningStatus) models.Session {
	return models.Session{ScheduledAt: t, Status: status}
}

func TestAggregateByMonthClampsAndColors(t *testing.T) {
	contract := models.Contract{
		StartDate:     date(2024, time.January, 15),
		TotalSessions: 8,
	}
	now := time.Date(2024, time.March, 20, 10, 0, 0, 0, time.UTC)

	sessions := make([]models.Session, 0)
	for day := 2; day <= 6; day++ { // 5 sessions in January
		sessions = append(sessions, sessionAt(
			time.Date(2024, time.January, day, 10, 0, 0, 0, time.UTC),
			models.StatusDone,
		))
	}
	sessions = append(sessions,
		sessionAt(time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC), models.StatusDone),
		sessionAt(time.Date(2024, time.March, 12, 10, 0, 0, 0, time.UTC), models.StatusPlanned),
	)

	months := AggregateByMonth(sessions, contract, now)
	if len(months) != 3 {
		t.Fatalf("expected 3 buckets (Jan through Mar), got %d", len(months))
	}

	jan := months[0]
	if jan.Month != time.January || jan.ActualCount != 5 {
		t.Fatalf("unexpected January bucket: %+v", jan)
	}
	if jan.DisplayCount != 8 || jan.Color != ColorUnderQuota {
		t.Fatalf("expected January clamped to 8 and red, got %+v", jan)
	}

	feb := months[1]
	if feb.ActualCount != 0 || feb.DisplayCount != 8 || feb.Color != ColorUnderQuota {
		t.Fatalf("expected empty February clamped to 8 and red, got %+v", feb)
	}

	mar := months[2]
	if !mar.Current {
		t.Fatalf("expected March to be the current month: %+v", mar)
	}
	if mar.DisplayCount != 2 || mar.ActualCount != 2 || mar.Color != ColorNeutral {
		t.Fatalf("expected current month untouched by quota, got %+v", mar)
	}
}

func TestAggregateByMonthQuotaMetAndExceeded(t *testing.T) {
	contract := models.Contract{
		StartDate:     date(2024, time.January, 1),
		TotalSessions: 2,
	}
	now := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	sessions := []models.Session{
		sessionAt(time.Date(2024, time.January, 3, 9, 0, 0, 0, time.UTC), models.StatusDone),
		sessionAt(time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC), models.StatusDone),
		sessionAt(time.Date(2024, time.February, 1, 9, 0, 0, 0, time.UTC), models.StatusDone),
		sessionAt(time.Date(2024, time.February, 8, 9, 0, 0, 0, time.UTC), models.StatusDone),
		sessionAt(time.Date(2024, time.February, 15, 9, 0, 0, 0, time.UTC), models.StatusDone),
	}

	months := AggregateByMonth(sessions, contract, now)
	if len(months) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(months))
	}

	if months[0].Color != ColorQuotaMet || months[0].DisplayCount != 2 {
		t.Fatalf("expected January green at 2, got %+v", months[0])
	}
	if months[1].Color != ColorNeutral || months[1].DisplayCount != 3 {
		t.Fatalf("expected February white at true count 3, got %+v", months[1])
	}
}

func TestAggregateByMonthContiguousAcrossEmptyMonths(t *testing.T) {
	contract := models.Contract{
		StartDate:     date(2023, time.November, 20),
		TotalSessions: 4,
	}
	now := time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC)

	sessions := []models.Session{
		sessionAt(time.Date(2023, time.November, 25, 9, 0, 0, 0, time.UTC), models.StatusDone),
	}

	months := AggregateByMonth(sessions, contract, now)
	if len(months) != 4 {
		t.Fatalf("expected Nov, Dec, Jan, Feb, got %d buckets", len(months))
	}
	wantMonths := []time.Month{time.November, time.December, time.January, time.February}
	for i, want := range wantMonths {
		if months[i].Month != want {
			t.Fatalf("bucket %d: expected %s, got %s", i, want, months[i].Month)
		}
	}
	if months[0].Year != 2023 || months[3].Year != 2024 {
		t.Fatalf("year rollover broken: %+v", months)
	}
}

func TestAggregateByMonthExcludesCancelled(t *testing.T) {
	contract := models.Contract{
		StartDate:     date(2024, time.January, 1),
		TotalSessions: 1,
	}
	now := time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC)

	sessions := []models.Session{
		sessionAt(time.Date(2024, time.January, 5, 9, 0, 0, 0, time.UTC), models.StatusCancelled),
		sessionAt(time.Date(2024, time.January, 5, 9, 0, 0, 0, time.UTC), models.StatusDone),
	}

	months := AggregateByMonth(sessions, contract, now)
	if months[0].ActualCount != 1 {
		t.Fatalf("cancelled session should not count, got %+v", months[0])
	}
}

func TestWeeklyCountsAnchorToMondayAndCrossMonths(t *testing.T) {
	contract := models.Contract{
		StartDate:     date(2024, time.March, 1),
		TotalSessions: 10,
	}
	now := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)

	// March 2024 starts on a Friday; the first week of its detail view
	// is anchored to Monday February 26 and counts this late-February
	// session too.
	sessions := []models.Session{
		sessionAt(time.Date(2024, time.February, 28, 9, 0, 0, 0, time.UTC), models.StatusDone),
		sessionAt(time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC), models.StatusDone),
		sessionAt(time.Date(2024, time.March, 6, 9, 0, 0, 0, time.UTC), models.StatusDone),
	}

	months := AggregateByMonth(sessions, contract, now)
	weeks := months[0].Weeks
	if len(weeks) != 5 {
		t.Fatalf("expected 5 week strides for March 2024, got %d", len(weeks))
	}

	first := weeks[0]
	if first.WeekStart.Day() != 26 || first.WeekStart.Month() != time.February {
		t.Fatalf("expected first week anchored to Feb 26, got %s", first.WeekStart)
	}
	if first.WeekStart.Weekday() != time.Monday {
		t.Fatalf("week anchor must be a Monday, got %s", first.WeekStart.Weekday())
	}
	if first.Count != 2 {
		t.Fatalf("expected cross-boundary week to count 2 sessions, got %d", first.Count)
	}
	if weeks[1].Count != 1 {
		t.Fatalf("expected second week to count 1 session, got %d", weeks[1].Count)
	}
}

func TestAggregateByMonthBeforeContractStart(t *testing.T) {
	contract := models.Contract{StartDate: date(2025, time.June, 1), TotalSessions: 4}
	now := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	if months := AggregateByMonth(nil, contract, now); len(months) != 0 {
		t.Fatalf("expected no buckets before the contract starts, got %d", len(months))
	}
}
