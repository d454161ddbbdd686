// Package memstore provides an in-memory implementation of ticket.Store.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/linnemanlabs/sift/internal/ticket"
)

// Store holds tickets in memory. Suitable for dev/testing.
type Store struct {
	mu      sync.RWMutex
	nextID  int64
	tickets map[int64]*ticket.Ticket
}

// New initializes a new in-memory Store.
func New() *Store {
	return &Store{
		nextID:  1,
		tickets: make(map[int64]*ticket.Ticket),
	}
}

// Create assigns an ID and timestamps and stores a copy.
func (s *Store) Create(_ context.Context, t *ticket.Ticket) (*ticket.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	cp := *t
	cp.ID = s.nextID
	cp.CreatedAt = now
	cp.UpdatedAt = now
	s.nextID++
	s.tickets[cp.ID] = &cp

	out := cp
	return &out, nil
}

// Get retrieves a ticket by ID. Returns a copy.
func (s *Store) Get(_ context.Context, id int64) (*ticket.Ticket, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tickets[id]
	if !ok {
		return nil, false, nil
	}
	cp := *t
	return &cp, true, nil
}

// List returns up to limit tickets, newest first.
func (s *Store) List(_ context.Context, limit int) ([]ticket.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ticket.Ticket, 0, len(s.tickets))
	for _, t := range s.tickets {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Update applies a patch and bumps UpdatedAt. Returns a copy.
func (s *Store) Update(_ context.Context, id int64, patch ticket.Patch) (*ticket.Ticket, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickets[id]
	if !ok {
		return nil, false, nil
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Category != nil {
		t.Category = *patch.Category
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	t.UpdatedAt = time.Now().UTC()

	cp := *t
	return &cp, true, nil
}
