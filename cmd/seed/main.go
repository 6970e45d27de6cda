// Command seed populates a fresh database with an admin account and a small
// sample fleet so the API is usable right after setup.
package main

import (
	"context"
	"log"
	"time"

	"busScheduleManagement/internal/auth"
	"busScheduleManagement/internal/config"
	"busScheduleManagement/internal/db"
	"busScheduleManagement/internal/scheduling"
	"busScheduleManagement/models"
	"busScheduleManagement/repository"
)

func main() {
	cfg, err := config.LoadWithDefaults()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	d, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer d.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := repository.NewUserRepository(d)
	buses := repository.NewBusRepository(d)
	stops := repository.NewStopRepository(d)
	routes := repository.NewRouteRepository(d)
	schedules := repository.NewScheduleRepository(d)
	engine := scheduling.NewEngine(buses, routes, schedules)

	hash, err := auth.HashPassword("admin123")
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	admin, err := users.Create(ctx, &models.User{
		Username:     "admin",
		Email:        "admin@busscheduler.local",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	})
	if err != nil {
		log.Fatalf("seed admin: %v", err)
	}
	log.Printf("admin user created: %s (change the default password)", admin.Email)

	central, err := stops.Create(ctx, &models.Stop{Name: "Central Station", Lat: 12.9716, Lng: 77.5946})
	if err != nil {
		log.Fatalf("seed stop: %v", err)
	}
	airport, err := stops.Create(ctx, &models.Stop{Name: "Airport Terminal", Lat: 13.1986, Lng: 77.7066})
	if err != nil {
		log.Fatalf("seed stop: %v", err)
	}

	bus, err := buses.Create(ctx, &models.Bus{
		BusNumber: "KA-01-F-1001",
		Capacity:  40,
		Type:      models.BusTypeAC,
		Status:    models.BusStatusActive,
	})
	if err != nil {
		log.Fatalf("seed bus: %v", err)
	}

	departure := time.Now().UTC().Truncate(time.Hour).Add(24 * time.Hour)
	arrival := departure.Add(90 * time.Minute)
	route, err := routes.Create(ctx, &models.Route{
		RouteNumber:      "R-100",
		BusID:            bus.ID,
		Origin:           "Central Station",
		Destination:      "Airport Terminal",
		StopIDs:          []int64{central.ID, airport.ID},
		DistanceKM:       42,
		EstimatedMinutes: 90,
		DepartureTime:    departure,
		ArrivalTime:      arrival,
		Price:            120,
		AvailableSeats:   40,
		Status:           models.RouteStatusActive,
	})
	if err != nil {
		log.Fatalf("seed route: %v", err)
	}

	if _, err := engine.Create(ctx, bus.ID, route.ID, departure, arrival); err != nil {
		log.Fatalf("seed schedule: %v", err)
	}
	log.Printf("seeded bus %s on route %s", bus.BusNumber, route.RouteNumber)
}
