package models

import "time"

// RouteStatus represents the lifecycle state of a route.
type RouteStatus string

const (
	RouteStatusActive    RouteStatus = "active"
	RouteStatusCancelled RouteStatus = "cancelled"
	RouteStatusCompleted RouteStatus = "completed"
	RouteStatusInactive  RouteStatus = "inactive"
)

// Valid reports whether the status is one of the known statuses.
func (s RouteStatus) Valid() bool {
	switch s {
	case RouteStatusActive, RouteStatusCancelled, RouteStatusCompleted, RouteStatusInactive:
		return true
	}
	return false
}

// Route represents a service line between two endpoints, operated by one bus.
// RouteNumber is unique. StopIDs is the ordered list of stops along the way;
// it is stored in route_stops and loaded alongside the route.
type Route struct {
	ID               int64       `db:"id" json:"id"`
	RouteNumber      string      `db:"route_number" json:"routeNumber"`
	BusID            int64       `db:"bus_id" json:"busId"`
	Origin           string      `db:"origin" json:"from"`
	Destination      string      `db:"destination" json:"to"`
	StopIDs          []int64     `json:"stops"`
	DistanceKM       float64     `db:"distance_km" json:"distance"`
	EstimatedMinutes int         `db:"estimated_minutes" json:"estimatedTime"`
	DepartureTime    time.Time   `db:"departure_time" json:"departureTime"`
	ArrivalTime      time.Time   `db:"arrival_time" json:"arrivalTime"`
	Price            float64     `db:"price" json:"price"`
	AvailableSeats   int         `db:"available_seats" json:"availableSeats"`
	Status           RouteStatus `db:"status" json:"status"`
	CreatedAt        time.Time   `db:"created_at" json:"createdAt"`
}
