package ports

import (
	"context"

	"github.com/aretw0/plenum/pkg/domain"
)

// ProtocolStore persists parsed protocols.
type ProtocolStore interface {
	// Save stores doc under doc.ID, replacing an earlier version.
	Save(ctx context.Context, doc domain.Document) error

	// Load retrieves a document.
	// Returns domain.ErrNotFound if the document does not exist.
	Load(ctx context.Context, id string) (domain.Document, error)

	// List returns the ids of all stored documents in ascending order.
	List(ctx context.Context) ([]string, error)
}

// ProtocolDeleter is implemented by stores that can remove documents.
// Deleting an unknown id is not an error.
type ProtocolDeleter interface {
	Delete(ctx context.Context, id string) error
}
