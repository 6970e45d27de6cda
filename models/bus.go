package models

import "time"

// BusType distinguishes air-conditioned from regular coaches.
type BusType string

const (
	BusTypeAC    BusType = "AC"
	BusTypeNonAC BusType = "Non-AC"
)

// Valid reports whether the bus type is one of the known types.
func (t BusType) Valid() bool {
	return t == BusTypeAC || t == BusTypeNonAC
}

// BusStatus represents the operational state of a bus.
type BusStatus string

const (
	BusStatusActive      BusStatus = "active"
	BusStatusMaintenance BusStatus = "maintenance"
	BusStatusInactive    BusStatus = "inactive"
)

// Valid reports whether the status is one of the known statuses.
func (s BusStatus) Valid() bool {
	return s == BusStatusActive || s == BusStatusMaintenance || s == BusStatusInactive
}

// Bus represents a vehicle in the fleet.
// BusNumber is unique across the fleet. Only an active bus may be scheduled.
type Bus struct {
	ID        int64     `db:"id" json:"id"`
	BusNumber string    `db:"bus_number" json:"busNumber"`
	Capacity  int       `db:"capacity" json:"capacity"`
	Type      BusType   `db:"type" json:"type"`
	Status    BusStatus `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
