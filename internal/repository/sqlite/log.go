package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/lukeacko/worklog/pkg/models"
	"github.com/lukeacko/worklog/pkg/repository"
)

const logColumns = `id, jobnum, vin, technician, description, date, status`

func (r *SQLiteRepo) CreateEntry(ctx context.Context, e *models.LogEntry) (*models.LogEntry, error) {
	if e == nil {
		return nil, fmt.Errorf("entry is nil")
	}

	res, err := r.conn.Exec(ctx,
		`INSERT INTO logs (jobnum, vin, technician, description, date, status) VALUES (?, ?, ?, ?, ?, ?)`,
		e.JobNum, e.VIN, e.Technician, e.Description, e.Date, e.Status)
	if err != nil {
		if isUniqueViolation(err, "logs.jobnum") {
			return nil, repository.ErrDuplicateJobNum
		}
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	stored := *e
	stored.ID = strconv.FormatInt(id, 10)
	return &stored, nil
}

func (r *SQLiteRepo) GetEntry(ctx context.Context, id string) (*models.LogEntry, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+logColumns+` FROM logs WHERE id = ?`, id)
	return scanEntry(row)
}

func (r *SQLiteRepo) GetEntryByJobNum(ctx context.Context, jobnum string) (*models.LogEntry, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+logColumns+` FROM logs WHERE jobnum = ?`, jobnum)
	return scanEntry(row)
}

func (r *SQLiteRepo) UpdateEntry(ctx context.Context, id string, e *models.LogEntry) (*models.LogEntry, error) {
	if e == nil {
		return nil, fmt.Errorf("entry is nil")
	}

	res, err := r.conn.Exec(ctx,
		`UPDATE logs SET jobnum = ?, vin = ?, technician = ?, description = ?, date = ?, status = ? WHERE id = ?`,
		e.JobNum, e.VIN, e.Technician, e.Description, e.Date, e.Status, id)
	if err != nil {
		if isUniqueViolation(err, "logs.jobnum") {
			return nil, repository.ErrDuplicateJobNum
		}
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, repository.ErrNotFound
	}

	stored := *e
	stored.ID = id
	return &stored, nil
}

func (r *SQLiteRepo) DeleteEntry(ctx context.Context, id string) error {
	res, err := r.conn.Exec(ctx, `DELETE FROM logs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepo) QueryEntries(ctx context.Context, f models.Filter) ([]models.LogEntry, error) {
	query := `SELECT ` + logColumns + ` FROM logs WHERE 1=1`
	var params []any

	if f.JobNum != "" {
		query += ` AND jobnum LIKE ?`
		params = append(params, "%"+f.JobNum+"%")
	}
	if f.VIN != "" {
		query += ` AND vin LIKE ?`
		params = append(params, "%"+f.VIN+"%")
	}
	if f.Technician != "" {
		query += ` AND technician LIKE ?`
		params = append(params, "%"+f.Technician+"%")
	}
	if f.Status != "" {
		query += ` AND status = ?`
		params = append(params, f.Status)
	}
	if f.Date != "" {
		query += ` AND date = ?`
		params = append(params, f.Date)
	}

	rows, err := r.conn.Query(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.LogEntry
	for rows.Next() {
		var e models.LogEntry
		var id int64
		if err := rows.Scan(&id, &e.JobNum, &e.VIN, &e.Technician, &e.Description, &e.Date, &e.Status); err != nil {
			return nil, err
		}
		e.ID = strconv.FormatInt(id, 10)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) CountByTechnician(ctx context.Context, name string) (int64, error) {
	var n int64
	row := r.conn.QueryRow(ctx, `SELECT COUNT(1) FROM logs WHERE technician = ?`, name)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *SQLiteRepo) ReassignTechnician(ctx context.Context, old, new string) (int64, error) {
	res, err := r.conn.Exec(ctx, `UPDATE logs SET technician = ? WHERE technician = ?`, new, old)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanEntry(row *sql.Row) (*models.LogEntry, error) {
	var e models.LogEntry
	var id int64
	if err := row.Scan(&id, &e.JobNum, &e.VIN, &e.Technician, &e.Description, &e.Date, &e.Status); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	e.ID = strconv.FormatInt(id, 10)
	return &e, nil
}
