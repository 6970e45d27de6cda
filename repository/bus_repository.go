package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"busScheduleManagement/models"
)

type BusRepository struct {
	db *sql.DB
}

func NewBusRepository(db *sql.DB) *BusRepository {
	return &BusRepository{db: db}
}

const busColumns = `id, bus_number, capacity, type, status, created_at`

// Create inserts a new bus. A duplicate busNumber yields a Conflict.
func (r *BusRepository) Create(ctx context.Context, b *models.Bus) (*models.Bus, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if b.Status == "" {
		b.Status = models.BusStatusActive
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO buses (bus_number, capacity, type, status) VALUES (?, ?, ?, ?)`,
		b.BusNumber, b.Capacity, string(b.Type), string(b.Status))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.ConflictError("bus number %q already exists", b.BusNumber)
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *BusRepository) GetByID(ctx context.Context, id int64) (*models.Bus, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `SELECT `+busColumns+` FROM buses WHERE id = ?`, id)
	var b models.Bus
	var typ, status, createdAt string
	err := row.Scan(&b.ID, &b.BusNumber, &b.Capacity, &typ, &status, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	b.Type = models.BusType(typ)
	b.Status = models.BusStatus(status)
	b.CreatedAt = parseTime(createdAt)
	return &b, nil
}

// List returns buses newest first, optionally filtered by status and type.
func (r *BusRepository) List(ctx context.Context, p ListBusesParams) ([]models.Bus, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var where []string
	var args []any
	if p.Status != nil {
		where = append(where, "status = ?")
		args = append(args, string(*p.Status))
	}
	if p.Type != nil {
		where = append(where, "type = ?")
		args = append(args, string(*p.Type))
	}
	query := `SELECT ` + busColumns + ` FROM buses`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Bus
	for rows.Next() {
		var b models.Bus
		var typ, status, createdAt string
		if err := rows.Scan(&b.ID, &b.BusNumber, &b.Capacity, &typ, &status, &createdAt); err != nil {
			return nil, err
		}
		b.Type = models.BusType(typ)
		b.Status = models.BusStatus(status)
		b.CreatedAt = parseTime(createdAt)
		out = append(out, b)
	}
	return out, rows.Err()
}

// Update applies the non-nil fields of p. Absent bus yields NotFound,
// duplicate busNumber yields Conflict.
func (r *BusRepository) Update(ctx context.Context, id int64, p UpdateBusParams) (*models.Bus, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	b, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, models.NotFoundError("bus")
	}
	if p.BusNumber != nil {
		b.BusNumber = *p.BusNumber
	}
	if p.Capacity != nil {
		b.Capacity = *p.Capacity
	}
	if p.Type != nil {
		b.Type = *p.Type
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE buses SET bus_number = ?, capacity = ?, type = ?, status = ? WHERE id = ?`,
		b.BusNumber, b.Capacity, string(b.Type), string(b.Status), id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.ConflictError("bus number %q already exists", b.BusNumber)
		}
		return nil, err
	}
	return b, nil
}

func (r *BusRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM buses WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.NotFoundError("bus")
	}
	return nil
}

func (r *BusRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM buses`).Scan(&n)
	return n, err
}
