package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"busScheduleManagement/models"
)

type ScheduleRepository struct {
	db *sql.DB
}

func NewScheduleRepository(db *sql.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

const scheduleColumns = `id, bus_id, route_id, departure_time, arrival_time, status, seats_available, created_at`

// overlapQuery finds non-terminal schedules of a bus whose half-open window
// [departure, arrival) intersects the given one. Touching boundaries
// (existing arrival == new departure) do not count as a conflict.
const overlapQuery = `SELECT EXISTS (
	SELECT 1 FROM schedules
	WHERE bus_id = ?
	  AND id != ?
	  AND status IN ('scheduled','in-progress')
	  AND departure_time < ?
	  AND ? < arrival_time
)`

// CreateIfFree inserts the schedule unless the bus is already occupied during
// its window. The overlap check and the insert share one transaction, so two
// concurrent creates for the same bus cannot both pass the check and commit.
func (r *ScheduleRepository) CreateIfFree(ctx context.Context, s *models.Schedule) (*models.Schedule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	conflict, err := busOccupied(ctx, tx, s.BusID, 0, s.DepartureTime, s.ArrivalTime)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, models.ConflictError("bus is already scheduled during this time window")
	}
	if s.Status == "" {
		s.Status = models.ScheduleStatusScheduled
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO schedules (bus_id, route_id, departure_time, arrival_time, status, seats_available)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.BusID, s.RouteID, fmtTime(s.DepartureTime), fmtTime(s.ArrivalTime),
		string(s.Status), s.SeatsAvailable)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// UpdateIfFree writes the schedule back. The lifecycle guard and the overlap
// check against every other schedule of the bus both run inside the same
// transaction: the status read happens under the write lock, so a concurrent
// update that just committed a terminal state cannot be overwritten by a
// writer still holding a stale non-terminal read.
func (r *ScheduleRepository) UpdateIfFree(ctx context.Context, s *models.Schedule) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var cur string
	err = tx.QueryRowContext(ctx, `SELECT status FROM schedules WHERE id = ?`, s.ID).Scan(&cur)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NotFoundError("schedule")
	}
	if err != nil {
		return err
	}
	current := models.ScheduleStatus(cur)
	if current.Terminal() {
		return models.InvalidStateError("cannot update a %s schedule", current)
	}
	if !current.CanTransitionTo(s.Status) {
		return models.InvalidStateError("cannot transition schedule from %s to %s", current, s.Status)
	}

	// A schedule moving into a terminal state frees the bus, so only check
	// occupancy when the updated schedule still holds its window.
	if !s.Status.Terminal() {
		conflict, err := busOccupied(ctx, tx, s.BusID, s.ID, s.DepartureTime, s.ArrivalTime)
		if err != nil {
			return err
		}
		if conflict {
			return models.ConflictError("bus is already scheduled during this time window")
		}
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE schedules SET departure_time = ?, arrival_time = ?, status = ?, seats_available = ?
		 WHERE id = ?`,
		fmtTime(s.DepartureTime), fmtTime(s.ArrivalTime), string(s.Status), s.SeatsAvailable, s.ID)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func busOccupied(ctx context.Context, tx *sql.Tx, busID, excludeID int64, departure, arrival time.Time) (bool, error) {
	var occupied bool
	err := tx.QueryRowContext(ctx, overlapQuery,
		busID, excludeID, fmtTime(arrival), fmtTime(departure)).Scan(&occupied)
	return occupied, err
}

func (r *ScheduleRepository) GetByID(ctx context.Context, id int64) (*models.Schedule, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `SELECT `+scheduleColumns+` FROM schedules WHERE id = ?`, id)
	var s models.Schedule
	var status, dep, arr, createdAt string
	err := row.Scan(&s.ID, &s.BusID, &s.RouteID, &dep, &arr, &status, &s.SeatsAvailable, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	s.Status = models.ScheduleStatus(status)
	s.DepartureTime = parseTime(dep)
	s.ArrivalTime = parseTime(arr)
	s.CreatedAt = parseTime(createdAt)
	return &s, nil
}

// List returns schedules matching the filters, ordered by departure ascending.
func (r *ScheduleRepository) List(ctx context.Context, p ListSchedulesParams) ([]models.Schedule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var where []string
	var args []any
	if p.BusID != nil {
		where = append(where, "bus_id = ?")
		args = append(args, *p.BusID)
	}
	if p.RouteID != nil {
		where = append(where, "route_id = ?")
		args = append(args, *p.RouteID)
	}
	if p.Status != nil {
		where = append(where, "status = ?")
		args = append(args, string(*p.Status))
	}
	if p.From != nil {
		where = append(where, "departure_time >= ?")
		args = append(args, fmtTime(*p.From))
	}
	if p.To != nil {
		where = append(where, "departure_time < ?")
		args = append(args, fmtTime(*p.To))
	}
	query := `SELECT ` + scheduleColumns + ` FROM schedules`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY departure_time, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanScheduleRows(rows)
}

func (r *ScheduleRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.NotFoundError("schedule")
	}
	return nil
}

// HasActiveForBus reports whether any scheduled or in-progress schedule still
// references the bus. Used to guard bus deletion.
func (r *ScheduleRepository) HasActiveForBus(ctx context.Context, busID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM schedules WHERE bus_id = ? AND status IN ('scheduled','in-progress'))`,
		busID).Scan(&exists)
	return exists, err
}

func (r *ScheduleRepository) CountActive(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM schedules WHERE status IN ('scheduled','in-progress')`).Scan(&n)
	return n, err
}

// ListRecent returns the most recently created schedules, newest first.
func (r *ScheduleRepository) ListRecent(ctx context.Context, limit int) ([]models.Schedule, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if limit <= 0 {
		limit = 5
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+scheduleColumns+` FROM schedules ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanScheduleRows(rows)
}

func scanScheduleRows(rows *sql.Rows) ([]models.Schedule, error) {
	var out []models.Schedule
	for rows.Next() {
		var s models.Schedule
		var status, dep, arr, createdAt string
		if err := rows.Scan(&s.ID, &s.BusID, &s.RouteID, &dep, &arr, &status, &s.SeatsAvailable, &createdAt); err != nil {
			return nil, err
		}
		s.Status = models.ScheduleStatus(status)
		s.DepartureTime = parseTime(dep)
		s.ArrivalTime = parseTime(arr)
		s.CreatedAt = parseTime(createdAt)
		out = append(out, s)
	}
	return out, rows.Err()
}
