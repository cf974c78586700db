package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/plenum/pkg/domain"
)

// Store implements ports.ProtocolStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]domain.Document
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]domain.Document),
	}
}

// Save stores a normalized copy of doc.
func (s *Store) Save(ctx context.Context, doc domain.Document) error {
	copied, err := clone(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[doc.ID] = copied
	return nil
}

// Load returns a copy so callers cannot mutate the stored document.
func (s *Store) Load(ctx context.Context, id string) (domain.Document, error) {
	s.mu.RLock()
	doc, ok := s.data[id]
	s.mu.RUnlock()

	if !ok {
		return domain.Document{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	return clone(doc)
}

// Delete removes a document.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns the stored ids in ascending order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func clone(doc domain.Document) (domain.Document, error) {
	protocol, err := domain.Normalize(doc.Protocol)
	if err != nil {
		return domain.Document{}, fmt.Errorf("document %s: %w", doc.ID, err)
	}
	doc.Protocol = protocol
	return doc, nil
}
