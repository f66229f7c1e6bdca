package cart

import (
	"context"
	"errors"

	"storefront/internal/models"
)

// Cache is a best-effort read cache in front of the repository. Failures are
// logged by the service and never block a cart operation.
type Cache interface {
	Get(ctx context.Context, sessionKey string) (*models.Cart, error)
	Set(ctx context.Context, sessionKey string, cart *models.Cart) error
	Delete(ctx context.Context, sessionKey string) error
}

var ErrCacheMiss = errors.New("cache miss")
