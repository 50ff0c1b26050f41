// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store keeps the documents of one pipeline session in memory.
package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/pdiddy/tieout/pkg/types"
)

var (
	// ErrDuplicateDocument is returned when a record id is already stored.
	ErrDuplicateDocument = errors.New("duplicate document")

	// ErrUnknownDocument is returned for ids that are not stored.
	ErrUnknownDocument = errors.New("unknown document")
)

// IDFor derives a record id from a file name.
func IDFor(fileName string) string {
	return filepath.Base(fileName)
}

// Store is an in-memory, insertion-ordered set of document records. It is
// safe for concurrent use; callers only ever see copies.
type Store struct {
	mu      sync.RWMutex
	records map[string]*types.DocumentRecord
	order   []string
}

// New creates an empty store.
func New() *Store {
	return &Store{records: make(map[string]*types.DocumentRecord)}
}

// Add stores rec. It fails with ErrDuplicateDocument if rec.ID exists.
func (s *Store) Add(rec types.DocumentRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("adding document %q: empty id", rec.FileName)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[rec.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateDocument, rec.ID)
	}
	c := rec.Clone()
	s.records[rec.ID] = &c
	s.order = append(s.order, rec.ID)
	return nil
}

// Get returns a copy of the record with id.
func (s *Store) Get(id string) (types.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return types.DocumentRecord{}, fmt.Errorf("%w: %s", ErrUnknownDocument, id)
	}
	return rec.Clone(), nil
}

// Update applies fn to the stored record with id under the write lock.
func (s *Store) Update(id string, fn func(*types.DocumentRecord)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDocument, id)
	}
	fn(rec)
	rec.ID = id
	return nil
}

// SetType overrides the document type of id.
func (s *Store) SetType(id string, t types.DocumentType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", types.ErrUnknownDocumentType, t)
	}
	return s.Update(id, func(r *types.DocumentRecord) { r.Type = t })
}

// Snapshot returns copies of every record in insertion order.
func (s *Store) Snapshot() []types.DocumentRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.DocumentRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id].Clone())
	}
	return out
}

// IDs returns the stored ids in insertion order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Reset removes every record.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]*types.DocumentRecord)
	s.order = nil
}
