package sqlite

import (
	"os"
	"strings"
	"time"

	"log/slog"

	"github.com/lukeacko/worklog/internal/db"
	"github.com/lukeacko/worklog/pkg/repository"
)

// SQLiteRepo implements the store contract on the relational backend.
type SQLiteRepo struct {
	conn   *db.DB
	logger *slog.Logger
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.LogRepo = (*SQLiteRepo)(nil)
var _ repository.TechnicianRepo = (*SQLiteRepo)(nil)
var _ repository.UserRepo = (*SQLiteRepo)(nil)
var _ repository.Store = (*SQLiteRepo)(nil)

func New(conn *db.DB, logger *slog.Logger) *SQLiteRepo {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	return &SQLiteRepo{conn: conn, logger: logger}
}

// Close releases the underlying connection.
func (r *SQLiteRepo) Close() error {
	return r.conn.Close()
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}

// isUniqueViolation reports whether err is the driver's UNIQUE constraint
// failure for the given column.
func isUniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed: "+column)
}
