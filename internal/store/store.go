// Package store persists serialized game state and replayed game records.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/lgbarn/chessrules-go/internal/replay"
)

// ErrNotFound indicates a missing game or record.
var ErrNotFound = errors.New("not found")

// StateStore keeps the serialized board state of live games by game id.
type StateStore interface {
	Save(ctx context.Context, id, state string) error
	Load(ctx context.Context, id string) (string, error)
	Delete(ctx context.Context, id string) error
}

// RecordArchive keeps replayed game records.
type RecordArchive interface {
	Put(ctx context.Context, rec *replay.GameRecord) error
	Get(ctx context.Context, id string) (*replay.GameRecord, error)
}

// MemoryStore is an in-process StateStore.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]string)}
}

// Save stores state under id, replacing any previous value.
func (s *MemoryStore) Save(_ context.Context, id, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[id] = state
	return nil
}

// Load returns the state stored under id.
func (s *MemoryStore) Load(_ context.Context, id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[id]
	if !ok {
		return "", ErrNotFound
	}
	return state, nil
}

// Delete removes id.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.states[id]; !ok {
		return ErrNotFound
	}
	delete(s.states, id)
	return nil
}

// MemoryArchive is an in-process RecordArchive.
type MemoryArchive struct {
	mu      sync.RWMutex
	records map[string]*replay.GameRecord
}

// NewMemoryArchive creates an empty MemoryArchive.
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{records: make(map[string]*replay.GameRecord)}
}

// Put stores a copy of rec under rec.ID.
func (a *MemoryArchive) Put(_ context.Context, rec *replay.GameRecord) error {
	c := *rec
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records[rec.ID] = &c
	return nil
}

// Get returns a copy of the record stored under id.
func (a *MemoryArchive) Get(_ context.Context, id string) (*replay.GameRecord, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	rec, ok := a.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *rec
	return &c, nil
}
