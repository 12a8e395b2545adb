package badgerstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
	"github.com/lukeacko/worklog/pkg/models"
)

func (s *Store) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	if u == nil {
		return nil, fmt.Errorf("user is nil")
	}

	doc := *u
	doc.ID = uuid.NewString()
	doc.Created = time.Now().UTC().UnixMilli()

	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(userKey(doc.Email)); err == nil {
			return fmt.Errorf("user %s already exists", doc.Email)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return setJSON(txn, userKey(doc.Email), &doc)
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, userKey(email), &u)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
