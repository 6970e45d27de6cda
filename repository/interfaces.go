package repository

import (
	"context"
	"time"

	"busScheduleManagement/models"
)

// UserRepositoryI defines operations on User entities.
type UserRepositoryI interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id int64, p UpdateUserParams) (*models.User, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// BusRepositoryI defines operations on Bus entities.
type BusRepositoryI interface {
	Create(ctx context.Context, b *models.Bus) (*models.Bus, error)
	GetByID(ctx context.Context, id int64) (*models.Bus, error)
	List(ctx context.Context, p ListBusesParams) ([]models.Bus, error)
	Update(ctx context.Context, id int64, p UpdateBusParams) (*models.Bus, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// StopRepositoryI defines operations on Stop entities.
type StopRepositoryI interface {
	Create(ctx context.Context, s *models.Stop) (*models.Stop, error)
	GetByID(ctx context.Context, id int64) (*models.Stop, error)
	List(ctx context.Context) ([]models.Stop, error)
	Update(ctx context.Context, id int64, p UpdateStopParams) (*models.Stop, error)
	Delete(ctx context.Context, id int64) error
}

// RouteRepositoryI defines operations on Route entities.
type RouteRepositoryI interface {
	Create(ctx context.Context, r *models.Route) (*models.Route, error)
	GetByID(ctx context.Context, id int64) (*models.Route, error)
	List(ctx context.Context) ([]models.Route, error)
	Update(ctx context.Context, id int64, p UpdateRouteParams) (*models.Route, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, p SearchRoutesParams) ([]models.Route, error)
	Count(ctx context.Context) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]models.Route, error)
}

// ScheduleRepositoryI defines operations on Schedule entities. CreateIfFree
// and UpdateIfFree run the bus-overlap check and the write inside a single
// transaction so concurrent calls cannot both pass the check and both commit;
// UpdateIfFree also re-reads the current status in that transaction to keep
// terminal states immutable under concurrent updates.
type ScheduleRepositoryI interface {
	CreateIfFree(ctx context.Context, s *models.Schedule) (*models.Schedule, error)
	GetByID(ctx context.Context, id int64) (*models.Schedule, error)
	List(ctx context.Context, p ListSchedulesParams) ([]models.Schedule, error)
	UpdateIfFree(ctx context.Context, s *models.Schedule) error
	Delete(ctx context.Context, id int64) error
	HasActiveForBus(ctx context.Context, busID int64) (bool, error)
	CountActive(ctx context.Context) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]models.Schedule, error)
}

// UpdateUserParams carries the mutable User fields; nil means unchanged.
type UpdateUserParams struct {
	Username *string
	Email    *string
	Role     *models.Role
}

// UpdateBusParams carries the mutable Bus fields; nil means unchanged.
type UpdateBusParams struct {
	BusNumber *string
	Capacity  *int
	Type      *models.BusType
	Status    *models.BusStatus
}

// UpdateStopParams carries the mutable Stop fields; nil means unchanged.
type UpdateStopParams struct {
	Name    *string
	Lat     *float64
	Lng     *float64
	Address *string
}

// UpdateRouteParams carries the mutable Route fields; nil means unchanged.
// StopIDs replaces the whole ordered stop list when non-nil.
type UpdateRouteParams struct {
	RouteNumber      *string
	BusID            *int64
	Origin           *string
	Destination      *string
	StopIDs          []int64
	DistanceKM       *float64
	EstimatedMinutes *int
	DepartureTime    *time.Time
	ArrivalTime      *time.Time
	Price            *float64
	AvailableSeats   *int
	Status           *models.RouteStatus
}

// ListBusesParams filters the bus listing.
type ListBusesParams struct {
	Status *models.BusStatus
	Type   *models.BusType
}

// SearchRoutesParams filters the route search. Term matches origin or
// destination case-insensitively; From/To bound the departure time.
type SearchRoutesParams struct {
	Term string
	From *time.Time
	To   *time.Time
}

// ListSchedulesParams filters the schedule listing; results are always
// ordered by departure time ascending.
type ListSchedulesParams struct {
	BusID   *int64
	RouteID *int64
	Status  *models.ScheduleStatus
	From    *time.Time
	To      *time.Time
}
