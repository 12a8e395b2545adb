package worklog

import (
	"context"
	"errors"
	"fmt"
	"os"

	"log/slog"

	"github.com/lukeacko/worklog/pkg/models"
	"github.com/lukeacko/worklog/pkg/repository"
)

// ErrUnknownTechnician is returned when an entry references a technician
// that is not in the roster. Callers add the technician first (the inline
// add-new flow) and retry.
var ErrUnknownTechnician = errors.New("technician not in roster")

// DefaultTechnicians is the roster seeded on an empty store.
var DefaultTechnicians = []string{"John", "Mike", "Sarah", "Alex"}

// Service owns the write path: validation, duplicate checks and roster
// referential rules sit here, shared by both store backends. The store is
// the only source of truth; Service keeps no state of its own.
type Service struct {
	logs   repository.LogRepo
	techs  repository.TechnicianRepo
	logger *slog.Logger
}

func NewService(logs repository.LogRepo, techs repository.TechnicianRepo, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	return &Service{logs: logs, techs: techs, logger: logger}
}

// CreateEntry validates, enforces job number uniqueness and the roster
// reference, then persists. Returns the stored entry with its assigned ID.
func (s *Service) CreateEntry(ctx context.Context, e models.LogEntry) (*models.LogEntry, error) {
	e, err := Validate(e)
	if err != nil {
		return nil, err
	}

	if t, err := s.techs.GetTechnician(ctx, e.Technician); err != nil {
		return nil, fmt.Errorf("check technician: %w", err)
	} else if t == nil {
		return nil, ErrUnknownTechnician
	}

	if dup, err := s.logs.GetEntryByJobNum(ctx, e.JobNum); err != nil {
		return nil, fmt.Errorf("check duplicate: %w", err)
	} else if dup != nil {
		return nil, repository.ErrDuplicateJobNum
	}

	stored, err := s.logs.CreateEntry(ctx, &e)
	if err != nil {
		return nil, err
	}

	s.logger.Info("entry created", slog.String("id", stored.ID), slog.String("jobnum", stored.JobNum))
	return stored, nil
}

// UpdateEntry re-validates and replaces the entry's fields. A job number
// change is guarded by the same duplicate check as create; in the document
// backend it lands as delete-old + insert-new and the returned entry
// carries the new ID.
func (s *Service) UpdateEntry(ctx context.Context, id string, e models.LogEntry) (*models.LogEntry, error) {
	e, err := Validate(e)
	if err != nil {
		return nil, err
	}

	cur, err := s.logs.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, repository.ErrNotFound
	}

	if t, err := s.techs.GetTechnician(ctx, e.Technician); err != nil {
		return nil, fmt.Errorf("check technician: %w", err)
	} else if t == nil {
		return nil, ErrUnknownTechnician
	}

	if e.JobNum != cur.JobNum {
		if dup, err := s.logs.GetEntryByJobNum(ctx, e.JobNum); err != nil {
			return nil, fmt.Errorf("check duplicate: %w", err)
		} else if dup != nil {
			return nil, repository.ErrDuplicateJobNum
		}
	}

	stored, err := s.logs.UpdateEntry(ctx, id, &e)
	if err != nil {
		return nil, err
	}

	s.logger.Info("entry updated", slog.String("id", stored.ID), slog.String("jobnum", stored.JobNum))
	return stored, nil
}

// DeleteEntry removes the entry. The caller drops the row from any live
// projection; nothing else cascades.
func (s *Service) DeleteEntry(ctx context.Context, id string) error {
	if err := s.logs.DeleteEntry(ctx, id); err != nil {
		return err
	}
	s.logger.Info("entry deleted", slog.String("id", id))
	return nil
}

// QueryEntries returns the matching set in backend-native order.
func (s *Service) QueryEntries(ctx context.Context, f models.Filter) ([]models.LogEntry, error) {
	return s.logs.QueryEntries(ctx, f)
}

// ListTechnicians returns the roster ordered by name. The "Add new…"
// sentinel shown by clients is a display affordance, never persisted here.
func (s *Service) ListTechnicians(ctx context.Context) ([]models.Technician, error) {
	return s.techs.ListTechnicians(ctx)
}

// UpsertTechnician inserts the name if absent; idempotent.
func (s *Service) UpsertTechnician(ctx context.Context, name string) (*models.Technician, error) {
	return s.techs.UpsertTechnician(ctx, name)
}

// RenameTechnician updates the roster record and re-points every entry
// carrying the old name. The two writes are not atomic across backends; a
// crash between them leaves entries referencing a name no longer in the
// roster, reconciled by Reconcile on the next load.
func (s *Service) RenameTechnician(ctx context.Context, old, new string) error {
	t, err := s.techs.GetTechnician(ctx, old)
	if err != nil {
		return err
	}
	if t == nil {
		return repository.ErrNotFound
	}

	// the roster is unique by name; renaming onto an existing record would
	// silently merge two technicians
	if taken, err := s.techs.GetTechnician(ctx, new); err != nil {
		return err
	} else if taken != nil {
		return repository.ErrDuplicateTechnician
	}

	if err := s.techs.RenameTechnician(ctx, old, new); err != nil {
		return err
	}
	n, err := s.logs.ReassignTechnician(ctx, old, new)
	if err != nil {
		return fmt.Errorf("reassign entries: %w", err)
	}

	s.logger.Info("technician renamed", slog.String("old", old), slog.String("new", new), slog.Int64("entries", n))
	return nil
}

// DeleteTechnician removes the roster record unless entries still
// reference it.
func (s *Service) DeleteTechnician(ctx context.Context, name string) error {
	n, err := s.logs.CountByTechnician(ctx, name)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%q has %d assigned jobs: %w", name, n, repository.ErrTechnicianInUse)
	}
	if err := s.techs.DeleteTechnician(ctx, name); err != nil {
		return err
	}
	s.logger.Info("technician deleted", slog.String("name", name))
	return nil
}

// SeedDefaults fills an empty roster with the default technicians.
func (s *Service) SeedDefaults(ctx context.Context) error {
	existing, err := s.techs.ListTechnicians(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, name := range DefaultTechnicians {
		if _, err := s.techs.UpsertTechnician(ctx, name); err != nil {
			return fmt.Errorf("seed technician %s: %w", name, err)
		}
	}
	return nil
}

// Reconcile re-inserts roster records for technician names that entries
// reference but the roster lost, recovering from a rename interrupted
// between its two writes.
func (s *Service) Reconcile(ctx context.Context) error {
	entries, err := s.logs.QueryEntries(ctx, models.Filter{})
	if err != nil {
		return err
	}
	roster, err := s.techs.ListTechnicians(ctx)
	if err != nil {
		return err
	}

	known := make(map[string]bool, len(roster))
	for _, t := range roster {
		known[t.Name] = true
	}
	for _, e := range entries {
		if known[e.Technician] {
			continue
		}
		if _, err := s.techs.UpsertTechnician(ctx, e.Technician); err != nil {
			return fmt.Errorf("restore technician %s: %w", e.Technician, err)
		}
		known[e.Technician] = true
		s.logger.Warn("restored technician missing from roster", slog.String("name", e.Technician))
	}
	return nil
}
