package catalog

import (
	"context"
	"fmt"

	"ensemble/pkg/component"
	"ensemble/pkg/logging"

	badger "github.com/dgraph-io/badger/v4"
)

// KVStore is a key-value store component backed by badger. With an empty
// path it runs fully in memory, which is what tests and throwaway systems
// want; with a path it persists to disk.
type KVStore struct {
	component.Base

	name string
	path string
	db   *badger.DB
}

// NewKVStore builds a kvstore component. Recognized args:
//
//	path: directory for the on-disk store; empty means in-memory.
func NewKVStore(name string, args map[string]interface{}) (*KVStore, error) {
	path, err := stringArg(args, "path", "")
	if err != nil {
		return nil, err
	}
	return &KVStore{name: name, path: path}, nil
}

// Start opens the underlying badger database.
func (s *KVStore) Start(ctx context.Context, sys component.Lookup) error {
	opts := badger.DefaultOptions(s.path)
	if s.path == "" {
		opts = opts.WithInMemory(true)
	}
	// Badger's own logger bypasses the application's; silence it.
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return fmt.Errorf("opening store at %q: %w", s.path, err)
	}
	s.db = db
	logging.Info("Catalog", "kvstore %q open (path=%q in-memory=%t)", s.name, s.path, s.path == "")
	return nil
}

// Stop closes the database, flushing pending writes.
func (s *KVStore) Stop(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Set stores a value under a key.
func (s *KVStore) Set(key string, value []byte) error {
	if s.db == nil {
		return fmt.Errorf("kvstore %q is not started", s.name)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

// Get returns the value stored under key, or badger.ErrKeyNotFound.
func (s *KVStore) Get(key string) ([]byte, error) {
	if s.db == nil {
		return nil, fmt.Errorf("kvstore %q is not started", s.name)
	}
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (s *KVStore) Delete(key string) error {
	if s.db == nil {
		return fmt.Errorf("kvstore %q is not started", s.name)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}
