package cart

import (
	"context"
	"errors"

	"storefront/internal/models"
)

var (
	// ErrCartNotFound means no cart document exists for the session key.
	ErrCartNotFound = errors.New("cart not found")
	// ErrCartCorrupt means the stored document could not be decoded. The
	// service treats it like an unparsable localStorage entry: discard and
	// start empty.
	ErrCartCorrupt = errors.New("cart document corrupt")
)

// Repository persists whole cart documents keyed by session.
type Repository interface {
	Get(ctx context.Context, sessionKey string) (*models.Cart, error)
	Upsert(ctx context.Context, cart *models.Cart) error
	Delete(ctx context.Context, sessionKey string) error
}
