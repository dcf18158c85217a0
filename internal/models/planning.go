package models

import "time"

// PlanningStatus is the single shared status type for scheduled sessions.
// Every layer imports it from here; it is never re-declared per consumer.
type PlanningStatus string

const (
	StatusPlanned   PlanningStatus = "PLANNED"
	StatusDone      PlanningStatus = "DONE"
	StatusCancelled PlanningStatus = "CANCELLED"
)

func (s PlanningStatus) Valid() bool {
	switch s {
	case StatusPlanned, StatusDone, StatusCancelled:
		return true
	}
	return false
}

// Session is one concrete scheduled training appointment. It models a
// booking instant, not an interval; display layers apply the one-hour
// convention themselves.
type Session struct {
	ID          int64          `json:"id"`
	ContractID  int64          `json:"contract_id"`
	ScheduledAt time.Time      `json:"scheduled_at"`
	Status      PlanningStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Contract is a client's paid subscription period. The scheduler reads
// it and never writes it.
type Contract struct {
	ID            int64     `json:"id"`
	ClientID      int64     `json:"client_id"`
	CoachID       int64     `json:"coach_id"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	TotalSessions int       `json:"total_sessions"`
	Amount        float64   `json:"amount"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AvailabilityWindow advertises a block of free time a coach can book
// against. It is not itself a booking. Windows are deleted and
// recreated on change, never mutated in place.
type AvailabilityWindow struct {
	ID        int64     `json:"id"`
	ClientID  int64     `json:"client_id"`
	Day       time.Time `json:"day"`
	StartAt   time.Time `json:"start_at"`
	EndAt     time.Time `json:"end_at"`
	CreatedAt time.Time `json:"created_at"`
}
