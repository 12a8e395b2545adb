package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/lukeacko/worklog/pkg/models"
)

func (r *SQLiteRepo) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	if u == nil {
		return nil, fmt.Errorf("user is nil")
	}

	created := now()
	res, err := r.conn.Exec(ctx,
		`INSERT INTO users (email, password_hash, created) VALUES (?, ?, ?)`,
		u.Email, u.PasswordHash, created)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	stored := *u
	stored.ID = strconv.FormatInt(id, 10)
	stored.Created = created
	return &stored, nil
}

func (r *SQLiteRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, email, password_hash, created FROM users WHERE email = ?`, email)
	var u models.User
	var id int64
	if err := row.Scan(&id, &u.Email, &u.PasswordHash, &u.Created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	u.ID = strconv.FormatInt(id, 10)
	return &u, nil
}
