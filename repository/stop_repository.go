package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"busScheduleManagement/models"
)

type StopRepository struct {
	db *sql.DB
}

func NewStopRepository(db *sql.DB) *StopRepository {
	return &StopRepository{db: db}
}

const stopColumns = `id, name, lat, lng, address, created_at`

func (r *StopRepository) Create(ctx context.Context, s *models.Stop) (*models.Stop, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO stops (name, lat, lng, address) VALUES (?, ?, ?, ?)`,
		s.Name, s.Lat, s.Lng, s.Address)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *StopRepository) GetByID(ctx context.Context, id int64) (*models.Stop, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var s models.Stop
	var createdAt string
	err := r.db.QueryRowContext(ctx, `SELECT `+stopColumns+` FROM stops WHERE id = ?`, id).
		Scan(&s.ID, &s.Name, &s.Lat, &s.Lng, &s.Address, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	s.CreatedAt = parseTime(createdAt)
	return &s, nil
}

func (r *StopRepository) List(ctx context.Context) ([]models.Stop, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+stopColumns+` FROM stops ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Stop
	for rows.Next() {
		var s models.Stop
		var createdAt string
		if err := rows.Scan(&s.ID, &s.Name, &s.Lat, &s.Lng, &s.Address, &createdAt); err != nil {
			return nil, err
		}
		s.CreatedAt = parseTime(createdAt)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *StopRepository) Update(ctx context.Context, id int64, p UpdateStopParams) (*models.Stop, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	s, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, models.NotFoundError("stop")
	}
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Lat != nil {
		s.Lat = *p.Lat
	}
	if p.Lng != nil {
		s.Lng = *p.Lng
	}
	if p.Address != nil {
		s.Address = *p.Address
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE stops SET name = ?, lat = ?, lng = ?, address = ? WHERE id = ?`,
		s.Name, s.Lat, s.Lng, s.Address, id)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *StopRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM stops WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.NotFoundError("stop")
	}
	return nil
}
