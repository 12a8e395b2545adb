package sqlite

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/lukeacko/worklog/pkg/models"
	"github.com/lukeacko/worklog/pkg/repository"
)

func (r *SQLiteRepo) ListTechnicians(ctx context.Context) ([]models.Technician, error) {
	rows, err := r.conn.Query(ctx, `SELECT id, name FROM technicians ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Technician
	for rows.Next() {
		var t models.Technician
		var id int64
		if err := rows.Scan(&id, &t.Name); err != nil {
			return nil, err
		}
		t.ID = strconv.FormatInt(id, 10)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) GetTechnician(ctx context.Context, name string) (*models.Technician, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, name FROM technicians WHERE name = ?`, name)
	var t models.Technician
	var id int64
	if err := row.Scan(&id, &t.Name); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	t.ID = strconv.FormatInt(id, 10)
	return &t, nil
}

func (r *SQLiteRepo) UpsertTechnician(ctx context.Context, name string) (*models.Technician, error) {
	if _, err := r.conn.Exec(ctx, `INSERT OR IGNORE INTO technicians (name) VALUES (?)`, name); err != nil {
		return nil, err
	}
	return r.GetTechnician(ctx, name)
}

func (r *SQLiteRepo) RenameTechnician(ctx context.Context, old, new string) error {
	res, err := r.conn.Exec(ctx, `UPDATE technicians SET name = ? WHERE name = ?`, new, old)
	if err != nil {
		if isUniqueViolation(err, "technicians.name") {
			return repository.ErrDuplicateTechnician
		}
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepo) DeleteTechnician(ctx context.Context, name string) error {
	res, err := r.conn.Exec(ctx, `DELETE FROM technicians WHERE name = ?`, name)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
