package models

import "time"

// ScheduleStatus represents the lifecycle state of a scheduled trip.
type ScheduleStatus string

const (
	ScheduleStatusScheduled  ScheduleStatus = "scheduled"
	ScheduleStatusInProgress ScheduleStatus = "in-progress"
	ScheduleStatusCompleted  ScheduleStatus = "completed"
	ScheduleStatusCancelled  ScheduleStatus = "cancelled"
)

// Valid reports whether the status is one of the known statuses.
func (s ScheduleStatus) Valid() bool {
	switch s {
	case ScheduleStatusScheduled, ScheduleStatusInProgress, ScheduleStatusCompleted, ScheduleStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is permitted from s.
func (s ScheduleStatus) Terminal() bool {
	return s == ScheduleStatusCompleted || s == ScheduleStatusCancelled
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
// Allowed: scheduled → in-progress → completed, and scheduled|in-progress →
// cancelled. Completed and cancelled are terminal.
func (s ScheduleStatus) CanTransitionTo(next ScheduleStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case ScheduleStatusScheduled:
		return next == ScheduleStatusInProgress || next == ScheduleStatusCancelled
	case ScheduleStatusInProgress:
		return next == ScheduleStatusCompleted || next == ScheduleStatusCancelled
	}
	return false
}

// Schedule binds one bus to one route for a concrete time window.
// A bus is considered occupied by its non-terminal schedules; the repository
// guarantees those windows never overlap for the same bus.
type Schedule struct {
	ID             int64          `db:"id" json:"id"`
	BusID          int64          `db:"bus_id" json:"busId"`
	RouteID        int64          `db:"route_id" json:"routeId"`
	DepartureTime  time.Time      `db:"departure_time" json:"departureTime"`
	ArrivalTime    time.Time      `db:"arrival_time" json:"arrivalTime"`
	Status         ScheduleStatus `db:"status" json:"status"`
	SeatsAvailable int            `db:"seats_available" json:"seatsAvailable"`
	CreatedAt      time.Time      `db:"created_at" json:"createdAt"`
}

// Overlaps reports whether the half-open windows [d1,a1) and [d2,a2) of the
// two schedules intersect. Touching boundaries (a1 == d2) do not overlap.
func (s *Schedule) Overlaps(other *Schedule) bool {
	return s.DepartureTime.Before(other.ArrivalTime) && other.DepartureTime.Before(s.ArrivalTime)
}
