// Package badgerstore implements the store contract as a document store:
// one Badger database holding JSON documents, log entries keyed by their
// job number so the business key doubles as the identifier.
package badgerstore

import (
	"encoding/json"
	"fmt"
	"os"

	"log/slog"

	"github.com/dgraph-io/badger/v3"
	"github.com/lukeacko/worklog/pkg/repository"
)

// Key prefixes for the three collections sharing the database.
const (
	logPrefix  = "log:"
	techPrefix = "tech:"
	userPrefix = "user:"
)

// Store implements the repository contract on Badger.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ repository.LogRepo = (*Store)(nil)
var _ repository.TechnicianRepo = (*Store)(nil)
var _ repository.UserRepo = (*Store)(nil)
var _ repository.Store = (*Store)(nil)

// Open opens (or creates) the document store at dir. An empty dir opens an
// in-memory database, used by tests.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}

	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	// Badger's own logger is chatty at INFO; the store logs through slog.
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open document store: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func logKey(jobnum string) []byte  { return []byte(logPrefix + jobnum) }
func techKey(id string) []byte    { return []byte(techPrefix + id) }
func userKey(email string) []byte { return []byte(userPrefix + email) }

// getJSON reads the value at key into out. Returns badger.ErrKeyNotFound
// when the key is absent.
func getJSON(txn *badger.Txn, key []byte, out any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, out)
	})
}

// setJSON marshals v and writes it at key.
func setJSON(txn *badger.Txn, key []byte, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set(key, b)
}

// scanPrefix visits every value under prefix inside txn.
func scanPrefix(txn *badger.Txn, prefix []byte, visit func(val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		if err := it.Item().Value(func(val []byte) error {
			return visit(val)
		}); err != nil {
			return err
		}
	}
	return nil
}
