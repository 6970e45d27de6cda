package repository

import (
	"context"
	"testing"
	"time"

	"busScheduleManagement/internal/db"
	"busScheduleManagement/models"
)

func openTestDB(t *testing.T, name string) (*BusRepository, *RouteRepository, *ScheduleRepository) {
	t.Helper()
	d, err := db.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return NewBusRepository(d), NewRouteRepository(d), NewScheduleRepository(d)
}

func seedBusAndRoute(t *testing.T, buses *BusRepository, routes *RouteRepository, busNumber, routeNumber string) (*models.Bus, *models.Route) {
	t.Helper()
	ctx := context.Background()
	bus, err := buses.Create(ctx, &models.Bus{BusNumber: busNumber, Capacity: 40, Type: models.BusTypeAC, Status: models.BusStatusActive})
	if err != nil {
		t.Fatalf("create bus: %v", err)
	}
	dep := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	route, err := routes.Create(ctx, &models.Route{
		RouteNumber: routeNumber, BusID: bus.ID, Origin: "Central", Destination: "Airport",
		DistanceKM: 42, EstimatedMinutes: 90, DepartureTime: dep, ArrivalTime: dep.Add(90 * time.Minute),
		Price: 100, AvailableSeats: 40, Status: models.RouteStatusActive,
	})
	if err != nil {
		t.Fatalf("create route: %v", err)
	}
	return bus, route
}

func at(h int) time.Time {
	return time.Date(2025, 6, 1, h, 0, 0, 0, time.UTC)
}

func TestScheduleRepository_ConflictScenario(t *testing.T) {
	buses, routes, schedules := openTestDB(t, "schedconflict")
	bus, route := seedBusAndRoute(t, buses, routes, "B-1", "R-1")
	ctx := context.Background()

	// S1: 08:00-11:00 books the bus.
	s1, err := schedules.CreateIfFree(ctx, &models.Schedule{
		BusID: bus.ID, RouteID: route.ID, DepartureTime: at(8), ArrivalTime: at(11), SeatsAvailable: bus.Capacity,
	})
	if err != nil {
		t.Fatalf("create s1: %v", err)
	}
	if s1.Status != models.ScheduleStatusScheduled {
		t.Fatalf("s1 status = %s, want scheduled", s1.Status)
	}
	if s1.SeatsAvailable != 40 {
		t.Fatalf("s1 seats = %d, want 40", s1.SeatsAvailable)
	}

	// S2: 10:00-12:00 overlaps S1 and must be refused.
	_, err = schedules.CreateIfFree(ctx, &models.Schedule{
		BusID: bus.ID, RouteID: route.ID, DepartureTime: at(10), ArrivalTime: at(12), SeatsAvailable: bus.Capacity,
	})
	if models.KindOf(err) != models.KindConflict {
		t.Fatalf("create s2: got %v, want conflict", err)
	}

	// S3: 11:00-13:00 only touches S1's boundary and must succeed.
	if _, err := schedules.CreateIfFree(ctx, &models.Schedule{
		BusID: bus.ID, RouteID: route.ID, DepartureTime: at(11), ArrivalTime: at(13), SeatsAvailable: bus.Capacity,
	}); err != nil {
		t.Fatalf("create s3: %v", err)
	}
}

func TestScheduleRepository_CancelledDoesNotBlock(t *testing.T) {
	buses, routes, schedules := openTestDB(t, "schedcancelled")
	bus, route := seedBusAndRoute(t, buses, routes, "B-1", "R-1")
	ctx := context.Background()

	s1, err := schedules.CreateIfFree(ctx, &models.Schedule{
		BusID: bus.ID, RouteID: route.ID, DepartureTime: at(8), ArrivalTime: at(11), SeatsAvailable: 40,
	})
	if err != nil {
		t.Fatalf("create s1: %v", err)
	}
	s1.Status = models.ScheduleStatusCancelled
	if err := schedules.UpdateIfFree(ctx, s1); err != nil {
		t.Fatalf("cancel s1: %v", err)
	}

	// Cancelled schedules no longer occupy the bus.
	if _, err := schedules.CreateIfFree(ctx, &models.Schedule{
		BusID: bus.ID, RouteID: route.ID, DepartureTime: at(9), ArrivalTime: at(10), SeatsAvailable: 40,
	}); err != nil {
		t.Fatalf("create over cancelled: %v", err)
	}
}

func TestScheduleRepository_UpdateExcludesSelf(t *testing.T) {
	buses, routes, schedules := openTestDB(t, "schedselfupdate")
	bus, route := seedBusAndRoute(t, buses, routes, "B-1", "R-1")
	ctx := context.Background()

	s1, err := schedules.CreateIfFree(ctx, &models.Schedule{
		BusID: bus.ID, RouteID: route.ID, DepartureTime: at(8), ArrivalTime: at(11), SeatsAvailable: 40,
	})
	if err != nil {
		t.Fatalf("create s1: %v", err)
	}

	// Shifting the same schedule within its own window is not a conflict
	// with itself.
	s1.DepartureTime = at(9)
	s1.ArrivalTime = at(12)
	if err := schedules.UpdateIfFree(ctx, s1); err != nil {
		t.Fatalf("shift s1: %v", err)
	}

	s2, err := schedules.CreateIfFree(ctx, &models.Schedule{
		BusID: bus.ID, RouteID: route.ID, DepartureTime: at(13), ArrivalTime: at(14), SeatsAvailable: 40,
	})
	if err != nil {
		t.Fatalf("create s2: %v", err)
	}
	// But colliding with another schedule still is.
	s2.DepartureTime = at(10)
	s2.ArrivalTime = at(11)
	if err := schedules.UpdateIfFree(ctx, s2); models.KindOf(err) != models.KindConflict {
		t.Fatalf("move s2 onto s1: got %v, want conflict", err)
	}
}

func TestScheduleRepository_ListFiltersAndOrder(t *testing.T) {
	buses, routes, schedules := openTestDB(t, "schedlist")
	bus, route := seedBusAndRoute(t, buses, routes, "B-1", "R-1")
	bus2, route2 := seedBusAndRoute(t, buses, routes, "B-2", "R-2")
	ctx := context.Background()

	for _, w := range []struct {
		busID, routeID int64
		dep, arr       time.Time
	}{
		{bus.ID, route.ID, at(14), at(15)},
		{bus.ID, route.ID, at(8), at(9)},
		{bus2.ID, route2.ID, at(10), at(11)},
	} {
		if _, err := schedules.CreateIfFree(ctx, &models.Schedule{
			BusID: w.busID, RouteID: w.routeID, DepartureTime: w.dep, ArrivalTime: w.arr, SeatsAvailable: 40,
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	all, err := schedules.List(ctx, ListSchedulesParams{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("list len = %d, want 3", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].DepartureTime.Before(all[i-1].DepartureTime) {
			t.Fatalf("list not sorted by departure ascending")
		}
	}

	byBus, err := schedules.List(ctx, ListSchedulesParams{BusID: &bus.ID})
	if err != nil {
		t.Fatalf("list by bus: %v", err)
	}
	if len(byBus) != 2 {
		t.Fatalf("list by bus len = %d, want 2", len(byBus))
	}

	from, to := at(9), at(12)
	inRange, err := schedules.List(ctx, ListSchedulesParams{From: &from, To: &to})
	if err != nil {
		t.Fatalf("list by range: %v", err)
	}
	if len(inRange) != 1 || !inRange[0].DepartureTime.Equal(at(10)) {
		t.Fatalf("range query returned %+v, want only the 10:00 departure", inRange)
	}
}

func TestScheduleRepository_HasActiveForBus(t *testing.T) {
	buses, routes, schedules := openTestDB(t, "schedactive")
	bus, route := seedBusAndRoute(t, buses, routes, "B-1", "R-1")
	ctx := context.Background()

	s, err := schedules.CreateIfFree(ctx, &models.Schedule{
		BusID: bus.ID, RouteID: route.ID, DepartureTime: at(8), ArrivalTime: at(11), SeatsAvailable: 40,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	active, err := schedules.HasActiveForBus(ctx, bus.ID)
	if err != nil || !active {
		t.Fatalf("HasActiveForBus = %v, %v; want true", active, err)
	}

	s.Status = models.ScheduleStatusCancelled
	if err := schedules.UpdateIfFree(ctx, s); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	active, err = schedules.HasActiveForBus(ctx, bus.ID)
	if err != nil || active {
		t.Fatalf("HasActiveForBus after cancel = %v, %v; want false", active, err)
	}
}

func TestScheduleRepository_StaleWriterCannotRevive(t *testing.T) {
	buses, routes, schedules := openTestDB(t, "schedstale")
	bus, route := seedBusAndRoute(t, buses, routes, "B-1", "R-1")
	ctx := context.Background()

	s, err := schedules.CreateIfFree(ctx, &models.Schedule{
		BusID: bus.ID, RouteID: route.ID, DepartureTime: at(8), ArrivalTime: at(11), SeatsAvailable: 40,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Two writers read the same scheduled state; the first one cancels.
	stale := *s
	s.Status = models.ScheduleStatusCancelled
	if err := schedules.UpdateIfFree(ctx, s); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// The second writer's transition was legal against its stale read but
	// must be refused against the committed terminal state.
	stale.Status = models.ScheduleStatusInProgress
	if err := schedules.UpdateIfFree(ctx, &stale); models.KindOf(err) != models.KindInvalidState {
		t.Fatalf("stale update: got %v, want invalid state", err)
	}

	got, err := schedules.GetByID(ctx, s.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != models.ScheduleStatusCancelled {
		t.Fatalf("status = %q, terminal state must stick", got.Status)
	}
}
