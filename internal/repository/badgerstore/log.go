package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v3"
	"github.com/lukeacko/worklog/pkg/models"
	"github.com/lukeacko/worklog/pkg/repository"
)

func (s *Store) CreateEntry(ctx context.Context, e *models.LogEntry) (*models.LogEntry, error) {
	if e == nil {
		return nil, fmt.Errorf("entry is nil")
	}

	doc := *e
	doc.ID = doc.JobNum

	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(logKey(doc.JobNum)); err == nil {
			return repository.ErrDuplicateJobNum
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return setJSON(txn, logKey(doc.JobNum), &doc)
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *Store) GetEntry(ctx context.Context, id string) (*models.LogEntry, error) {
	var e models.LogEntry
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, logKey(id), &e)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetEntryByJobNum is GetEntry under another name: the job number is the
// document key in this backend.
func (s *Store) GetEntryByJobNum(ctx context.Context, jobnum string) (*models.LogEntry, error) {
	return s.GetEntry(ctx, jobnum)
}

// UpdateEntry replaces the document. A job number change has no rename
// primitive: the old document is deleted and the new one inserted under
// the new key within the same transaction, guarded by a collision check.
func (s *Store) UpdateEntry(ctx context.Context, id string, e *models.LogEntry) (*models.LogEntry, error) {
	if e == nil {
		return nil, fmt.Errorf("entry is nil")
	}

	doc := *e
	doc.ID = doc.JobNum

	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(logKey(id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return repository.ErrNotFound
			}
			return err
		}

		if doc.JobNum != id {
			if _, err := txn.Get(logKey(doc.JobNum)); err == nil {
				return repository.ErrDuplicateJobNum
			} else if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			if err := txn.Delete(logKey(id)); err != nil {
				return err
			}
		}
		return setJSON(txn, logKey(doc.JobNum), &doc)
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(logKey(id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return repository.ErrNotFound
			}
			return err
		}
		return txn.Delete(logKey(id))
	})
}

// QueryEntries streams the collection and filters client-side, the way the
// document backend's native query model works for substring matches.
func (s *Store) QueryEntries(ctx context.Context, f models.Filter) ([]models.LogEntry, error) {
	var out []models.LogEntry
	err := s.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, []byte(logPrefix), func(val []byte) error {
			var e models.LogEntry
			if err := json.Unmarshal(val, &e); err != nil {
				return err
			}
			if matches(e, f) {
				out = append(out, e)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) CountByTechnician(ctx context.Context, name string) (int64, error) {
	var n int64
	err := s.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, []byte(logPrefix), func(val []byte) error {
			var e models.LogEntry
			if err := json.Unmarshal(val, &e); err != nil {
				return err
			}
			if e.Technician == name {
				n++
			}
			return nil
		})
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) ReassignTechnician(ctx context.Context, old, new string) (int64, error) {
	var n int64
	err := s.db.Update(func(txn *badger.Txn) error {
		var touched []models.LogEntry
		if err := scanPrefix(txn, []byte(logPrefix), func(val []byte) error {
			var e models.LogEntry
			if err := json.Unmarshal(val, &e); err != nil {
				return err
			}
			if e.Technician == old {
				touched = append(touched, e)
			}
			return nil
		}); err != nil {
			return err
		}

		for i := range touched {
			touched[i].Technician = new
			if err := setJSON(txn, logKey(touched[i].JobNum), &touched[i]); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func matches(e models.LogEntry, f models.Filter) bool {
	if f.JobNum != "" && !containsFold(e.JobNum, f.JobNum) {
		return false
	}
	if f.VIN != "" && !containsFold(e.VIN, f.VIN) {
		return false
	}
	if f.Technician != "" && !containsFold(e.Technician, f.Technician) {
		return false
	}
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	if f.Date != "" && e.Date != f.Date {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
