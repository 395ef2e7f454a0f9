// Package localstore persists the godown-side collections the way the
// browser UI always has: one JSON document per key. Each collection is an
// ordered array of records whose id is the string form of a millisecond
// timestamp. There is no referential integrity between collections and no
// transactional guarantee beyond a whole-file write per mutation.
package localstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

// Collection keys, matching the browser localStorage names the UI consumes.
const (
	KeyInwardEntries = "godownInwardEntry"
	KeyGodownSales   = "godownSale"
	KeyMortality     = "godownMortality"
	KeyGodownItems   = "godown"
	KeyCapacity      = "godownCapacity"
	KeyUsers         = "users"
	KeySession       = "user"
)

// DefaultCapacity is the godown bird capacity assumed until a user overrides
// it through settings.
const DefaultCapacity int64 = 5000

// Store is a file-per-key JSON store rooted at a data directory. Mutations
// are serialized by a single mutex; readers see whole documents only.
type Store struct {
	mu  sync.Mutex
	dir string
}

// New creates the data directory if needed and returns a Store over it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// NewID returns a fresh record id in the collection's native format.
func (s *Store) NewID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}

// Get unmarshals the document under key into dest. A missing key leaves dest
// untouched and returns nil.
func (s *Store) Get(key string, dest any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(key, dest)
}

// Put marshals v and replaces the document under key.
func (s *Store) Put(key string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(key, v)
}

// Delete removes the document under key. Missing keys are not an error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Capacity returns the persisted godown capacity, or DefaultCapacity when no
// override has been saved yet or the saved value is unusable.
func (s *Store) Capacity() (int64, error) {
	var capacity int64
	if err := s.Get(KeyCapacity, &capacity); err != nil {
		return 0, err
	}
	if capacity <= 0 {
		return DefaultCapacity, nil
	}
	return capacity, nil
}

// SetCapacity persists a capacity override.
func (s *Store) SetCapacity(capacity int64) error {
	return s.Put(KeyCapacity, capacity)
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *Store) get(key string, dest any) error {
	raw, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (s *Store) put(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := os.WriteFile(s.path(key), raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// List loads the collection under key, returning an empty slice for a key
// that has never been written.
func List[T any](s *Store, key string) ([]T, error) {
	var list []T
	if err := s.Get(key, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []T{}
	}
	return list, nil
}

// Append adds a record to the end of the collection under key.
func Append[T any](s *Store, key string, rec T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []T
	if err := s.get(key, &list); err != nil {
		return err
	}
	return s.put(key, append(list, rec))
}

// Replace swaps the record whose id matches for rec. Reports whether a match
// was found.
func Replace[T any](s *Store, key, id string, rec T, idOf func(T) string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []T
	if err := s.get(key, &list); err != nil {
		return false, err
	}
	found := false
	for i := range list {
		if idOf(list[i]) == id {
			list[i] = rec
			found = true
		}
	}
	if !found {
		return false, nil
	}
	return true, s.put(key, list)
}

// Remove deletes the record whose id matches. Reports whether a match was
// found.
func Remove[T any](s *Store, key, id string, idOf func(T) string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []T
	if err := s.get(key, &list); err != nil {
		return false, err
	}
	kept := list[:0]
	for _, rec := range list {
		if idOf(rec) != id {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(list) {
		return false, nil
	}
	return true, s.put(key, kept)
}
