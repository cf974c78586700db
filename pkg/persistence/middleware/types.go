// Package middleware wraps ProtocolStores with cross-cutting behavior.
package middleware

import (
	"context"

	"github.com/aretw0/plenum/pkg/domain"
	"github.com/aretw0/plenum/pkg/ports"
)

// Middleware allows wrapping a ProtocolStore to add behavior.
type Middleware func(ports.ProtocolStore) ports.ProtocolStore

// Chain wraps store with mws; the first middleware is the outermost.
func Chain(store ports.ProtocolStore, mws ...Middleware) ports.ProtocolStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}

// observer sees every store operation once it returned.
type observer func(ctx context.Context, op, id string, err error)

// observed forwards to next and reports each call to observe.
type observed struct {
	next    ports.ProtocolStore
	observe observer
}

func (s *observed) Save(ctx context.Context, doc domain.Document) error {
	err := s.next.Save(ctx, doc)
	s.observe(ctx, "save", doc.ID, err)
	return err
}

func (s *observed) Load(ctx context.Context, id string) (domain.Document, error) {
	doc, err := s.next.Load(ctx, id)
	s.observe(ctx, "load", id, err)
	return doc, err
}

func (s *observed) List(ctx context.Context) ([]string, error) {
	ids, err := s.next.List(ctx)
	s.observe(ctx, "list", "", err)
	return ids, err
}

// observedDeleter keeps ports.ProtocolDeleter visible through the wrapper.
type observedDeleter struct {
	*observed
	deleter ports.ProtocolDeleter
}

func (s *observedDeleter) Delete(ctx context.Context, id string) error {
	err := s.deleter.Delete(ctx, id)
	s.observe(ctx, "delete", id, err)
	return err
}

func wrap(next ports.ProtocolStore, observe observer) ports.ProtocolStore {
	base := &observed{next: next, observe: observe}
	if d, ok := next.(ports.ProtocolDeleter); ok {
		return &observedDeleter{observed: base, deleter: d}
	}
	return base
}
