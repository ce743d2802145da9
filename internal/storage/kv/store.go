// Package kv provides a namespaced key-value store on top of block storage.
// Every key lives under the active namespace, so switching namespace
// switches which tenant's data is visible without copying anything.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"hvac-dashboard/internal/common"
	"hvac-dashboard/internal/storage/block"
)

// ErrNotFound is returned when a key does not exist in the active namespace
var ErrNotFound = errors.New("key not found")

// Store is a namespaced key-value store
type Store struct {
	backend block.Storage

	mu        sync.RWMutex
	namespace string
}

// NewStore creates a store rooted at namespace
func NewStore(backend block.Storage, namespace string) *Store {
	if namespace == "" {
		namespace = common.DefaultNamespace
	}
	return &Store{backend: backend, namespace: namespace}
}

// Backend returns the underlying block storage
func (s *Store) Backend() block.Storage {
	return s.backend
}

// Namespace returns the active namespace
func (s *Store) Namespace() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.namespace
}

// SwitchNamespace makes namespace active for all following calls
func (s *Store) SwitchNamespace(namespace string) {
	if namespace == "" {
		namespace = common.DefaultNamespace
	}
	s.mu.Lock()
	s.namespace = namespace
	s.mu.Unlock()
}

// Path returns the backend path of key in the active namespace
func (s *Store) Path(key string) string {
	return common.JoinKey(s.Namespace(), common.SanitizeKey(key))
}

// Get returns the value stored at key
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	r, err := s.backend.Reader(ctx, s.Path(key))
	if err != nil {
		if block.IsNotFound(err) {
			return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return nil, common.NewErrorWithCause(common.ErrStorageUnavailable, "failed to read key", err).WithContext("key", key)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, common.NewErrorWithCause(common.ErrStorageUnavailable, "failed to read key", err).WithContext("key", key)
	}
	return data, nil
}

// Set stores value at key, replacing any previous value
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	w, err := s.backend.Writer(ctx, s.Path(key))
	if err != nil {
		return common.NewErrorWithCause(common.ErrStorageUnavailable, "failed to open key for writing", err).WithContext("key", key)
	}

	if _, err := w.Write(value); err != nil {
		w.Close()
		return common.NewErrorWithCause(common.ErrStorageUnavailable, "failed to write key", err).WithContext("key", key)
	}

	if err := w.Close(); err != nil {
		return common.NewErrorWithCause(common.ErrStorageUnavailable, "failed to commit key", err).WithContext("key", key)
	}
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.backend.Delete(ctx, s.Path(key)); err != nil && !block.IsNotFound(err) {
		return common.NewErrorWithCause(common.ErrStorageUnavailable, "failed to remove key", err).WithContext("key", key)
	}
	return nil
}

// Keys lists the keys in the active namespace
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	ns := s.Namespace()
	listed, err := s.backend.List(ctx, ns+"/")
	if err != nil {
		return nil, common.NewErrorWithCause(common.ErrStorageUnavailable, "failed to list keys", err)
	}

	keys := make([]string, 0, len(listed))
	for _, m := range listed {
		keys = append(keys, strings.TrimPrefix(m.Path, ns+"/"))
	}
	return keys, nil
}

// GetJSON decodes the value at key into v
func (s *Store) GetJSON(ctx context.Context, key string, v interface{}) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

// SetJSON encodes v and stores it at key
func (s *Store) SetJSON(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.Set(ctx, key, data)
}
