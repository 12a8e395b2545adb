package badgerstore

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
	"github.com/lukeacko/worklog/pkg/models"
	"github.com/lukeacko/worklog/pkg/repository"
)

// Technicians are small documents keyed by a generated id, mirroring the
// document store's roster collection. The roster is small enough that
// by-name lookups scan the prefix.

func (s *Store) ListTechnicians(ctx context.Context) ([]models.Technician, error) {
	var out []models.Technician
	err := s.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, []byte(techPrefix), func(val []byte) error {
			var t models.Technician
			if err := json.Unmarshal(val, &t); err != nil {
				return err
			}
			out = append(out, t)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetTechnician(ctx context.Context, name string) (*models.Technician, error) {
	var found *models.Technician
	err := s.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, []byte(techPrefix), func(val []byte) error {
			var t models.Technician
			if err := json.Unmarshal(val, &t); err != nil {
				return err
			}
			if t.Name == name && found == nil {
				found = &t
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (s *Store) UpsertTechnician(ctx context.Context, name string) (*models.Technician, error) {
	existing, err := s.GetTechnician(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	t := models.Technician{ID: uuid.NewString(), Name: name}
	err = s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, techKey(t.ID), &t)
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) RenameTechnician(ctx context.Context, old, new string) error {
	t, err := s.GetTechnician(ctx, old)
	if err != nil {
		return err
	}
	if t == nil {
		return repository.ErrNotFound
	}

	// no unique index to lean on here; a scan stands in for the relational
	// backend's name constraint
	taken, err := s.GetTechnician(ctx, new)
	if err != nil {
		return err
	}
	if taken != nil {
		return repository.ErrDuplicateTechnician
	}

	t.Name = new
	return s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, techKey(t.ID), t)
	})
}

func (s *Store) DeleteTechnician(ctx context.Context, name string) error {
	t, err := s.GetTechnician(ctx, name)
	if err != nil {
		return err
	}
	if t == nil {
		return repository.ErrNotFound
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(techKey(t.ID))
	})
}
