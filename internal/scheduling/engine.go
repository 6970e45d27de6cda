// Package scheduling enforces the rules that keep the timetable consistent:
// a bus never holds two overlapping trips, and a schedule only moves through
// its lifecycle in the permitted order.
package scheduling

import (
	"context"
	"time"

	"busScheduleManagement/models"
	"busScheduleManagement/repository"
)

// Engine coordinates schedule writes against the fleet and route stores.
type Engine struct {
	buses     repository.BusRepositoryI
	routes    repository.RouteRepositoryI
	schedules repository.ScheduleRepositoryI
}

func NewEngine(buses repository.BusRepositoryI, routes repository.RouteRepositoryI, schedules repository.ScheduleRepositoryI) *Engine {
	return &Engine{buses: buses, routes: routes, schedules: schedules}
}

// UpdateScheduleParams carries the mutable Schedule fields; nil means unchanged.
type UpdateScheduleParams struct {
	DepartureTime  *time.Time
	ArrivalTime    *time.Time
	Status         *models.ScheduleStatus
	SeatsAvailable *int
}

// Create books a trip: the bus and route must exist, the bus must be active,
// and its window must not overlap any non-terminal schedule of the same bus.
// Seats start at the bus capacity and the status at scheduled. The overlap
// check and insert run in one transaction in the repository, so concurrent
// creates cannot double-book the bus.
func (e *Engine) Create(ctx context.Context, busID, routeID int64, departure, arrival time.Time) (*models.Schedule, error) {
	if !departure.Before(arrival) {
		return nil, models.ValidationError([]string{"departureTime must be before arrivalTime"})
	}
	bus, err := e.buses.GetByID(ctx, busID)
	if err != nil {
		return nil, err
	}
	if bus == nil {
		return nil, models.NotFoundError("bus")
	}
	if bus.Status != models.BusStatusActive {
		return nil, models.InvalidStateError("bus %s is not active", bus.BusNumber)
	}
	route, err := e.routes.GetByID(ctx, routeID)
	if err != nil {
		return nil, err
	}
	if route == nil {
		return nil, models.NotFoundError("route")
	}
	return e.schedules.CreateIfFree(ctx, &models.Schedule{
		BusID:          busID,
		RouteID:        routeID,
		DepartureTime:  departure,
		ArrivalTime:    arrival,
		Status:         models.ScheduleStatusScheduled,
		SeatsAvailable: bus.Capacity,
	})
}

// Update mutates a schedule. Completed and cancelled schedules are immutable.
// A status change must follow the lifecycle, and a time change re-runs the
// overlap check excluding the schedule itself.
func (e *Engine) Update(ctx context.Context, id int64, p UpdateScheduleParams) (*models.Schedule, error) {
	s, err := e.schedules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, models.NotFoundError("schedule")
	}
	if s.Status.Terminal() {
		return nil, models.InvalidStateError("cannot update a %s schedule", s.Status)
	}
	if p.Status != nil {
		if !p.Status.Valid() {
			return nil, models.ValidationError([]string{"invalid schedule status"})
		}
		if !s.Status.CanTransitionTo(*p.Status) {
			return nil, models.InvalidStateError("cannot transition schedule from %s to %s", s.Status, *p.Status)
		}
		s.Status = *p.Status
	}
	if p.DepartureTime != nil {
		s.DepartureTime = *p.DepartureTime
	}
	if p.ArrivalTime != nil {
		s.ArrivalTime = *p.ArrivalTime
	}
	if !s.DepartureTime.Before(s.ArrivalTime) {
		return nil, models.ValidationError([]string{"departureTime must be before arrivalTime"})
	}
	if p.SeatsAvailable != nil {
		if *p.SeatsAvailable < 0 {
			return nil, models.ValidationError([]string{"seatsAvailable must not be negative"})
		}
		s.SeatsAvailable = *p.SeatsAvailable
	}
	if err := e.schedules.UpdateIfFree(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Delete removes a schedule. In-flight and historical trips are never hard
// deleted: only scheduled or already-cancelled schedules may be removed.
func (e *Engine) Delete(ctx context.Context, id int64) error {
	s, err := e.schedules.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return models.NotFoundError("schedule")
	}
	if s.Status == models.ScheduleStatusInProgress || s.Status == models.ScheduleStatusCompleted {
		return models.InvalidStateError("cannot delete a %s schedule", s.Status)
	}
	return e.schedules.Delete(ctx, id)
}

// Get returns a schedule by id, NotFound if absent.
func (e *Engine) Get(ctx context.Context, id int64) (*models.Schedule, error) {
	s, err := e.schedules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, models.NotFoundError("schedule")
	}
	return s, nil
}

// List returns schedules matching the filters, sorted by departure ascending.
func (e *Engine) List(ctx context.Context, p repository.ListSchedulesParams) ([]models.Schedule, error) {
	return e.schedules.List(ctx, p)
}

// ListForBusOnDay returns the bus's schedules departing on the given calendar
// day (UTC), sorted by departure ascending.
func (e *Engine) ListForBusOnDay(ctx context.Context, busID int64, day time.Time) ([]models.Schedule, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	return e.schedules.List(ctx, repository.ListSchedulesParams{BusID: &busID, From: &from, To: &to})
}

// HasActiveSchedules reports whether the bus still has scheduled or
// in-progress trips. Bus deletion is blocked while this holds.
func (e *Engine) HasActiveSchedules(ctx context.Context, busID int64) (bool, error) {
	return e.schedules.HasActiveForBus(ctx, busID)
}

// CountActive counts scheduled and in-progress trips across the fleet.
func (e *Engine) CountActive(ctx context.Context) (int64, error) {
	return e.schedules.CountActive(ctx)
}

// ListRecent returns the most recently created schedules, newest first.
func (e *Engine) ListRecent(ctx context.Context, limit int) ([]models.Schedule, error) {
	return e.schedules.ListRecent(ctx, limit)
}
