package planner

import (
	"time"

	"github.com/TeamAthleteWebsite/team-athlete-back/internal/models"
)

// Quota colors for rendering a month tile.
const (
	ColorUnderQuota = "red"
	ColorQuotaMet   = "green"
	ColorNeutral    = "white"
)

// WeeklyCount is one 7-day stride of a month's detail view. Weeks are
// anchored to the Monday on/before the 1st, so a week straddling two
// months counts sessions from both; the window is the week, not the
// month.
type WeeklyCount struct {
	WeekStart time.Time `json:"week_start"`
	Count     int       `json:"count"`
}

// MonthlySummary is one calendar-month bucket of the aggregation view.
// DisplayCount is what the UI shows: for past months under quota it is
// clamped up to the quota (under-counts are usually late data entry,
// and an alarming low number helps nobody); ActualCount keeps the
// truth for anyone who needs it.
type MonthlySummary struct {
	Year         int         `json:"year"`
	Month        time.Month  `json:"month"`
	DisplayCount int         `json:"display_count"`
	ActualCount  int         `json:"actual_count"`
	Quota        int         `json:"quota"`
	Color        string      `json:"color"`
	Current      bool        `json:"current"`
	Weeks        []WeeklyCount `json:"weeks"`
}

// AggregateByMonth projects raw sessions into per-month buckets from
// the contract's first month through now's month inclusive. Months with
// no sessions still get a bucket, so the timeline is contiguous for
// charting. Cancelled sessions never count. Pure function, no I/O.
func AggregateByMonth(
	sessions []models.Session,
	contract models.Contract,
	now time.Time,
) []MonthlySummary {
	start := time.Date(contract.StartDate.Year(), contract.StartDate.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if end.Before(start) {
		return []MonthlySummary{}
	}

	counted := make([]models.Session, 0, len(sessions))
	for _, s := range sessions {
		if s.Status != models.StatusCancelled {
			counted = append(counted, s)
		}
	}

	summaries := make([]MonthlySummary, 0)
	for month := start; !month.After(end); month = month.AddDate(0, 1, 0) {
		actual := 0
		for _, s := range counted {
			at := s.ScheduledAt.UTC()
			if at.Year() == month.Year() && at.Month() == month.Month() {
				actual++
			}
		}

		summary := MonthlySummary{
			Year:         month.Year(),
			Month:        month.Month(),
			ActualCount:  actual,
			DisplayCount: actual,
			Quota:        contract.TotalSessions,
			Color:        ColorNeutral,
			Current:      month.Equal(end),
			Weeks:        weeklyCounts(counted, month),
		}

		// Only fully past months are compared against the quota; the
		// current month is still being filled and stays neutral.
		if !summary.Current {
			switch {
			case actual < contract.TotalSessions:
				summary.DisplayCount = contract.TotalSessions
				summary.Color = ColorUnderQuota
			case actual == contract.TotalSessions:
				summary.Color = ColorQuotaMet
			}
		}

		summaries = append(summaries, summary)
	}
	return summaries
}

func weeklyCounts(sessions []models.Session, month time.Time) []WeeklyCount {
	first := month
	lastDay := month.AddDate(0, 1, -1)

	// Monday on/before the 1st.
	offset := (int(first.Weekday()) + 6) % 7
	weekStart := first.AddDate(0, 0, -offset)

	weeks := make([]WeeklyCount, 0, 6)
	for ; !weekStart.After(lastDay); weekStart = weekStart.AddDate(0, 0, 7) {
		weekEnd := weekStart.AddDate(0, 0, 7)
		count := 0
		for _, s := range sessions {
			at := s.ScheduledAt.UTC()
			if !at.Before(weekStart) && at.Before(weekEnd) {
				count++
			}
		}
		weeks = append(weeks, WeeklyCount{WeekStart: weekStart, Count: count})
	}
	return weeks
}
