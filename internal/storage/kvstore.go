// ABOUTME: Badger key-value backend for health records.
// ABOUTME: Uses type-prefixed keys, JSON values and client-side filtering.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/dgraph-io/badger/v3"
)

const (
	DailyPrefix         = "daily:"
	BloodPressurePrefix = "bp:"
	MeasurementPrefix   = "measure:"
	SessionPrefix       = "session:"
	ExercisePrefix      = "exercise:"
	SetPrefix           = "set:"
)

// KVStore stores records in an embedded Badger database.
// Daily logs and measurements are keyed by date; everything else by ID.
type KVStore struct {
	db *badger.DB
	mu sync.RWMutex
}

var _ Repository = (*KVStore)(nil)

// OpenKV opens or creates a Badger store in dir.
func OpenKV(dir string) (*KVStore, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}
	log.Debug("opened badger store", "dir", dir)
	return &KVStore{db: db}, nil
}

// OpenKVInMemory opens a Badger store that lives only in memory.
func OpenKVInMemory() (*KVStore, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open in-memory badger store: %w", err)
	}
	return &KVStore{db: db}, nil
}

// Close closes the Badger database.
func (s *KVStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// upsert writes v under key in one read-write transaction. When key already holds
// a record, merge sees the stored value first and may adjust v from it.
func upsert[T any](s *KVStore, key string, v *T, merge func(existing *T)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		switch {
		case err == nil:
			var existing T
			if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &existing) }); err != nil {
				return fmt.Errorf("decode %s: %w", key, err)
			}
			merge(&existing)
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", key, err)
		}
		return txn.Set([]byte(key), data)
	})
}

// createOnce stores v under key, failing if key is already taken.
func (s *KVStore) createOnce(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		switch {
		case err == nil:
			return fmt.Errorf("%s already exists", key)
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}
		return txn.Set([]byte(key), data)
	})
}

// get loads the JSON value at key into v.
func (s *KVStore) get(key string, v any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return err
}

// exists reports whether key is present.
func (s *KVStore) exists(key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	return err == nil, err
}

// deleteKeys removes keys in one transaction.
func (s *KVStore) deleteKeys(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Update(func(txn *badger.Txn) error {
		for _, k := range keys {
			if err := txn.Delete([]byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
}

// kvEntry is a raw key and value read from the store.
type kvEntry struct {
	key string
	val []byte
}

// scanPrefix returns every entry under prefix in key order.
func (s *KVStore) scanPrefix(prefix string) ([]kvEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []kvEntry
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			item := it.Item()
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			out = append(out, kvEntry{key: string(item.KeyCopy(nil)), val: val})
		}
		return nil
	})
	return out, err
}

// listAs decodes every value under prefix.
func listAs[T any](s *KVStore, prefix string) ([]*T, error) {
	entries, err := s.scanPrefix(prefix)
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(entries))
	for _, e := range entries {
		var v T
		if err := json.Unmarshal(e.val, &v); err != nil {
			log.Warn("skipping undecodable record", "key", e.key, "err", err)
			continue
		}
		out = append(out, &v)
	}
	return out, nil
}

// findByID locates the single record under prefix whose ID starts with idOrPrefix
// and returns its key and value.
func findByID[T any](s *KVStore, prefix, idOrPrefix string, idOf func(*T) string) (string, *T, error) {
	if idOrPrefix == "" {
		return "", nil, fmt.Errorf("%w: empty ID", ErrNotFound)
	}
	entries, err := s.scanPrefix(prefix)
	if err != nil {
		return "", nil, err
	}

	var key string
	var match *T
	for _, e := range entries {
		var v T
		if err := json.Unmarshal(e.val, &v); err != nil {
			continue
		}
		if !strings.HasPrefix(idOf(&v), idOrPrefix) {
			continue
		}
		if match != nil {
			return "", nil, fmt.Errorf("%w %s: matches multiple records", ErrAmbiguous, idOrPrefix)
		}
		key, match = e.key, &v
	}
	if match == nil {
		return "", nil, fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	}
	return key, match, nil
}
