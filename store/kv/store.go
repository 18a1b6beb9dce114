package kv

import (
	"sync"

	"github.com/gasparian/lsh-model-go/store"
	"github.com/pkg/errors"
)

// KVStore keeps blobs in memory
type KVStore struct {
	mx sync.RWMutex
	m  map[string][]byte
}

// NewKVStore creates an empty in-memory store
func NewKVStore() *KVStore {
	return &KVStore{
		m: make(map[string][]byte),
	}
}

// Put stores a copy of blob
func (s *KVStore) Put(key string, blob []byte) error {
	cp := make([]byte, len(blob))
	copy(cp, blob)

	s.mx.Lock()
	defer s.mx.Unlock()
	s.m[key] = cp
	return nil
}

// Get returns a copy of the stored blob
func (s *KVStore) Get(key string) ([]byte, error) {
	s.mx.RLock()
	defer s.mx.RUnlock()
	blob, ok := s.m[key]
	if !ok {
		return nil, errors.Wrapf(store.ErrNotFound, "%q", key)
	}
	cp := make([]byte, len(blob))
	copy(cp, blob)
	return cp, nil
}

// Len returns number of stored blobs
func (s *KVStore) Len() int {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return len(s.m)
}

// Clear drops everything
func (s *KVStore) Clear() {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.m = make(map[string][]byte)
}

// Close drops everything
func (s *KVStore) Close() error {
	s.Clear()
	return nil
}
