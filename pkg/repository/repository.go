package repository

import (
	"context"
	"errors"

	"github.com/lukeacko/worklog/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

// Sentinel errors shared by every backend. Callers match with errors.Is.
var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateJobNum is returned when an insert or key change would
	// produce a second entry with the same job number.
	ErrDuplicateJobNum = errors.New("duplicate job number")
	// ErrTechnicianInUse is returned when deleting a technician that is
	// still referenced by at least one log entry.
	ErrTechnicianInUse = errors.New("technician still assigned to entries")
	// ErrDuplicateTechnician is returned when a rename would produce a
	// second roster record with the same name.
	ErrDuplicateTechnician = errors.New("technician name already in roster")
)

type LogRepo interface {
	// CreateEntry persists a validated entry and returns it with the
	// backend-assigned ID. Fails with ErrDuplicateJobNum on collision.
	CreateEntry(ctx context.Context, e *models.LogEntry) (*models.LogEntry, error)
	// GetEntry returns the entry with the given ID, or nil when absent.
	GetEntry(ctx context.Context, id string) (*models.LogEntry, error)
	// GetEntryByJobNum returns the entry carrying jobnum, or nil when absent.
	GetEntryByJobNum(ctx context.Context, jobnum string) (*models.LogEntry, error)
	// UpdateEntry replaces the fields of the entry identified by id. When
	// the job number changes in a backend keyed by it, the backend performs
	// delete-old + insert-new and the returned entry carries the new ID.
	UpdateEntry(ctx context.Context, id string, e *models.LogEntry) (*models.LogEntry, error)
	// DeleteEntry removes the entry with the given ID.
	DeleteEntry(ctx context.Context, id string) error
	// QueryEntries returns every entry matching the filter in backend-native
	// order. Display ordering is the caller's concern.
	QueryEntries(ctx context.Context, f models.Filter) ([]models.LogEntry, error)
	// CountByTechnician reports how many entries reference the technician.
	CountByTechnician(ctx context.Context, name string) (int64, error)
	// ReassignTechnician re-points every entry carrying old to new and
	// returns the number of entries touched.
	ReassignTechnician(ctx context.Context, old, new string) (int64, error)
}

type TechnicianRepo interface {
	// ListTechnicians returns the full roster ordered by name.
	ListTechnicians(ctx context.Context) ([]models.Technician, error)
	// GetTechnician returns the roster record for name, or nil when absent.
	GetTechnician(ctx context.Context, name string) (*models.Technician, error)
	// UpsertTechnician inserts name if absent; no-op when it already exists.
	UpsertTechnician(ctx context.Context, name string) (*models.Technician, error)
	// RenameTechnician updates the roster record from old to new. Fails
	// with ErrDuplicateTechnician when new is already in the roster.
	RenameTechnician(ctx context.Context, old, new string) error
	// DeleteTechnician removes the roster record for name.
	DeleteTechnician(ctx context.Context, name string) error
}

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Store is the full persistence contract a backend must satisfy.
type Store interface {
	LogRepo
	TechnicianRepo
	UserRepo

	// Close releases the backend's resources.
	Close() error
}
