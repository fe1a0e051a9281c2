// Package cart holds the session cart store. The cart is client session
// state, not catalog data: it is keyed by an opaque session id, serialized
// as JSON, and loaded/saved explicitly around each mutation.
package cart

import (
	"context"

	"github.com/fastcm/shophub-be/internal/models"
)

// Store is the load/save surface for session carts. Loading an unknown
// session returns an empty cart, not an error.
type Store interface {
	Load(ctx context.Context, sessionID string) (models.Cart, error)
	Save(ctx context.Context, sessionID string, cart models.Cart) error
	Delete(ctx context.Context, sessionID string) error
}
