// Package mock provides an in-memory Store for handler and service tests.
package mock

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lukeacko/worklog/pkg/models"
	"github.com/lukeacko/worklog/pkg/repository"
)

// Store keeps everything in maps and assigns sequential ids like the
// relational backend. Error fields force failures for error-path tests.
type Store struct {
	entries map[string]models.LogEntry
	techs   map[string]models.Technician
	users   map[string]models.User

	// per-kind counters so ids are never reused after a delete
	nextID     int64
	nextTechID int64
	nextUserID int64

	FailWith error
}

var _ repository.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		entries: make(map[string]models.LogEntry),
		techs:   make(map[string]models.Technician),
		users:   make(map[string]models.User),
	}
}

func (s *Store) Close() error { return nil }

func (s *Store) CreateEntry(ctx context.Context, e *models.LogEntry) (*models.LogEntry, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	for _, cur := range s.entries {
		if cur.JobNum == e.JobNum {
			return nil, repository.ErrDuplicateJobNum
		}
	}
	s.nextID++
	stored := *e
	stored.ID = strconv.FormatInt(s.nextID, 10)
	s.entries[stored.ID] = stored
	return &stored, nil
}

func (s *Store) GetEntry(ctx context.Context, id string) (*models.LogEntry, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	if e, ok := s.entries[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (s *Store) GetEntryByJobNum(ctx context.Context, jobnum string) (*models.LogEntry, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	for _, e := range s.entries {
		if e.JobNum == jobnum {
			e := e
			return &e, nil
		}
	}
	return nil, nil
}

func (s *Store) UpdateEntry(ctx context.Context, id string, e *models.LogEntry) (*models.LogEntry, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	if _, ok := s.entries[id]; !ok {
		return nil, repository.ErrNotFound
	}
	stored := *e
	stored.ID = id
	s.entries[id] = stored
	return &stored, nil
}

func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	if s.FailWith != nil {
		return s.FailWith
	}
	if _, ok := s.entries[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

func (s *Store) QueryEntries(ctx context.Context, f models.Filter) ([]models.LogEntry, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	var out []models.LogEntry
	for _, e := range s.entries {
		if matches(e, f) {
			out = append(out, e)
		}
	}
	// map iteration order is random; fix it so tests are deterministic
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CountByTechnician(ctx context.Context, name string) (int64, error) {
	if s.FailWith != nil {
		return 0, s.FailWith
	}
	var n int64
	for _, e := range s.entries {
		if e.Technician == name {
			n++
		}
	}
	return n, nil
}

func (s *Store) ReassignTechnician(ctx context.Context, old, new string) (int64, error) {
	if s.FailWith != nil {
		return 0, s.FailWith
	}
	var n int64
	for id, e := range s.entries {
		if e.Technician == old {
			e.Technician = new
			s.entries[id] = e
			n++
		}
	}
	return n, nil
}

func (s *Store) ListTechnicians(ctx context.Context) ([]models.Technician, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	var out []models.Technician
	for _, t := range s.techs {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetTechnician(ctx context.Context, name string) (*models.Technician, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	if t, ok := s.techs[name]; ok {
		return &t, nil
	}
	return nil, nil
}

func (s *Store) UpsertTechnician(ctx context.Context, name string) (*models.Technician, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	if t, ok := s.techs[name]; ok {
		return &t, nil
	}
	s.nextTechID++
	t := models.Technician{ID: fmt.Sprintf("t%d", s.nextTechID), Name: name}
	s.techs[name] = t
	return &t, nil
}

func (s *Store) RenameTechnician(ctx context.Context, old, new string) error {
	if s.FailWith != nil {
		return s.FailWith
	}
	t, ok := s.techs[old]
	if !ok {
		return repository.ErrNotFound
	}
	if _, taken := s.techs[new]; taken {
		return repository.ErrDuplicateTechnician
	}
	delete(s.techs, old)
	t.Name = new
	s.techs[new] = t
	return nil
}

func (s *Store) DeleteTechnician(ctx context.Context, name string) error {
	if s.FailWith != nil {
		return s.FailWith
	}
	if _, ok := s.techs[name]; !ok {
		return repository.ErrNotFound
	}
	delete(s.techs, name)
	return nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	if _, ok := s.users[u.Email]; ok {
		return nil, fmt.Errorf("user %s already exists", u.Email)
	}
	s.nextUserID++
	stored := *u
	stored.ID = fmt.Sprintf("u%d", s.nextUserID)
	s.users[stored.Email] = stored
	return &stored, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	if u, ok := s.users[email]; ok {
		return &u, nil
	}
	return nil, nil
}

func matches(e models.LogEntry, f models.Filter) bool {
	contains := func(s, sub string) bool {
		return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
	}
	if f.JobNum != "" && !contains(e.JobNum, f.JobNum) {
		return false
	}
	if f.VIN != "" && !contains(e.VIN, f.VIN) {
		return false
	}
	if f.Technician != "" && !contains(e.Technician, f.Technician) {
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
