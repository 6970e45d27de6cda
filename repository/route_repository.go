package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"busScheduleManagement/models"
)

type RouteRepository struct {
	db *sql.DB
}

func NewRouteRepository(db *sql.DB) *RouteRepository {
	return &RouteRepository{db: db}
}

const routeColumns = `id, route_number, bus_id, origin, destination, distance_km,
	estimated_minutes, departure_time, arrival_time, price, available_seats, status, created_at`

// Create inserts a new route together with its ordered stop list in one
// transaction. A duplicate routeNumber yields a Conflict.
func (r *RouteRepository) Create(ctx context.Context, rt *models.Route) (*models.Route, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if rt.Status == "" {
		rt.Status = models.RouteStatusActive
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO routes (route_number, bus_id, origin, destination, distance_km,
		 estimated_minutes, departure_time, arrival_time, price, available_seats, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rt.RouteNumber, rt.BusID, rt.Origin, rt.Destination, rt.DistanceKM,
		rt.EstimatedMinutes, fmtTime(rt.DepartureTime), fmtTime(rt.ArrivalTime),
		rt.Price, rt.AvailableSeats, string(rt.Status))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.ConflictError("route number %q already exists", rt.RouteNumber)
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	if err := replaceStops(ctx, tx, id, rt.StopIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *RouteRepository) GetByID(ctx context.Context, id int64) (*models.Route, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `SELECT `+routeColumns+` FROM routes WHERE id = ?`, id)
	rt, err := scanRoute(row.Scan)
	if err != nil || rt == nil {
		return nil, err
	}
	if rt.StopIDs, err = r.stopIDs(ctx, id); err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *RouteRepository) List(ctx context.Context) ([]models.Route, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+routeColumns+` FROM routes ORDER BY departure_time, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectRoutes(ctx, rows)
}

// Update applies the non-nil fields of p; a non-nil StopIDs replaces the whole
// stop list. Absent route yields NotFound, duplicate routeNumber a Conflict.
func (r *RouteRepository) Update(ctx context.Context, id int64, p UpdateRouteParams) (*models.Route, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rt, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rt == nil {
		return nil, models.NotFoundError("route")
	}
	if p.RouteNumber != nil {
		rt.RouteNumber = *p.RouteNumber
	}
	if p.BusID != nil {
		rt.BusID = *p.BusID
	}
	if p.Origin != nil {
		rt.Origin = *p.Origin
	}
	if p.Destination != nil {
		rt.Destination = *p.Destination
	}
	if p.DistanceKM != nil {
		rt.DistanceKM = *p.DistanceKM
	}
	if p.EstimatedMinutes != nil {
		rt.EstimatedMinutes = *p.EstimatedMinutes
	}
	if p.DepartureTime != nil {
		rt.DepartureTime = *p.DepartureTime
	}
	if p.ArrivalTime != nil {
		rt.ArrivalTime = *p.ArrivalTime
	}
	if p.Price != nil {
		rt.Price = *p.Price
	}
	if p.AvailableSeats != nil {
		rt.AvailableSeats = *p.AvailableSeats
	}
	if p.Status != nil {
		rt.Status = *p.Status
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE routes SET route_number = ?, bus_id = ?, origin = ?, destination = ?,
		 distance_km = ?, estimated_minutes = ?, departure_time = ?, arrival_time = ?,
		 price = ?, available_seats = ?, status = ? WHERE id = ?`,
		rt.RouteNumber, rt.BusID, rt.Origin, rt.Destination, rt.DistanceKM,
		rt.EstimatedMinutes, fmtTime(rt.DepartureTime), fmtTime(rt.ArrivalTime),
		rt.Price, rt.AvailableSeats, string(rt.Status), id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.ConflictError("route number %q already exists", rt.RouteNumber)
		}
		return nil, err
	}
	if p.StopIDs != nil {
		if err := replaceStops(ctx, tx, id, p.StopIDs); err != nil {
			return nil, err
		}
		rt.StopIDs = p.StopIDs
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *RouteRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM routes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.NotFoundError("route")
	}
	return nil
}

// Search returns active routes whose origin or destination contains the term,
// optionally bounded on departure time, ordered by departure ascending.
func (r *RouteRepository) Search(ctx context.Context, p SearchRoutesParams) ([]models.Route, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	where := []string{"(origin LIKE ? COLLATE NOCASE OR destination LIKE ? COLLATE NOCASE)", "status = ?"}
	pattern := "%" + p.Term + "%"
	args := []any{pattern, pattern, string(models.RouteStatusActive)}
	if p.From != nil {
		where = append(where, "departure_time >= ?")
		args = append(args, fmtTime(*p.From))
	}
	if p.To != nil {
		where = append(where, "departure_time < ?")
		args = append(args, fmtTime(*p.To))
	}
	query := `SELECT ` + routeColumns + ` FROM routes WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY departure_time, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectRoutes(ctx, rows)
}

func (r *RouteRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM routes`).Scan(&n)
	return n, err
}

// ListRecent returns the most recently created routes, newest first.
func (r *RouteRepository) ListRecent(ctx context.Context, limit int) ([]models.Route, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if limit <= 0 {
		limit = 5
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+routeColumns+` FROM routes ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectRoutes(ctx, rows)
}

func (r *RouteRepository) stopIDs(ctx context.Context, routeID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT stop_id FROM route_stops WHERE route_id = ? ORDER BY position`, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *RouteRepository) collectRoutes(ctx context.Context, rows *sql.Rows) ([]models.Route, error) {
	var out []models.Route
	for rows.Next() {
		rt, err := scanRoute(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *rt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		ids, err := r.stopIDs(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].StopIDs = ids
	}
	return out, nil
}

func replaceStops(ctx context.Context, tx *sql.Tx, routeID int64, stopIDs []int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM route_stops WHERE route_id = ?`, routeID); err != nil {
		return err
	}
	for i, stopID := range stopIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO route_stops (route_id, stop_id, position) VALUES (?, ?, ?)`,
			routeID, stopID, i)
		if err != nil {
			return err
		}
	}
	return nil
}

func scanRoute(scan func(...any) error) (*models.Route, error) {
	var rt models.Route
	var status, dep, arr, createdAt string
	err := scan(&rt.ID, &rt.RouteNumber, &rt.BusID, &rt.Origin, &rt.Destination,
		&rt.DistanceKM, &rt.EstimatedMinutes, &dep, &arr, &rt.Price,
		&rt.AvailableSeats, &status, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	rt.Status = models.RouteStatus(status)
	rt.DepartureTime = parseTime(dep)
	rt.ArrivalTime = parseTime(arr)
	rt.CreatedAt = parseTime(createdAt)
	return &rt, nil
}
