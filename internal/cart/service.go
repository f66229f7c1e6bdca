package cart

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"storefront/internal/models"
)

// ErrItemNotFound means the cart has no line for the requested product.
var ErrItemNotFound = errors.New("item not found in cart")

// Service is the cart store: the authoritative list of line items for each
// session key, persisted through the repository with a best-effort cache in
// front of reads.
type Service struct {
	repo  Repository
	cache Cache
	sfg   singleflight.Group
}

func NewService(repo Repository, cache Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Get returns the cart for the session key. A missing cart is an empty cart,
// and a cart that fails to decode is discarded and treated as empty, so reads
// never fail the caller over stale storage.
func (s *Service) Get(ctx context.Context, sessionKey string) (*models.Cart, error) {
	v, err, _ := s.sfg.Do(sessionKey, func() (interface{}, error) {
		cached, err := s.cache.Get(ctx, sessionKey)
		if err == nil {
			cached.SessionKey = sessionKey
			return cached, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			log.Println("[CART] [WARN] cache get failed:", err)
		}

		cart, err := s.load(ctx, sessionKey)
		if err != nil {
			return nil, err
		}

		go func() {
			setCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := s.cache.Set(setCtx, sessionKey, cart); err != nil {
				log.Println("[CART] [WARN] cache set failed:", err)
			}
		}()

		return cart, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Cart), nil
}

// Add merges the product into the cart: an existing line for the same
// productId gets quantity+1 and the freshly selected size, anything else is
// appended with quantity 1. Lines are keyed by productId alone, so two sizes
// of one product share a line.
func (s *Service) Add(ctx context.Context, sessionKey string, item models.CartLineItem) (*models.Cart, error) {
	cart, err := s.load(ctx, sessionKey)
	if err != nil {
		return nil, err
	}

	if existing := cart.FindItem(item.ProductID); existing != nil {
		existing.Quantity++
		if item.Size != "" {
			existing.Size = item.Size
		}
	} else {
		item.Quantity = 1
		cart.Items = append(cart.Items, item)
	}

	return cart, s.persist(ctx, cart)
}

// IncreaseQuantity bumps the line's quantity by one. The store applies no
// stock ceiling here; callers compare against availableStock first.
func (s *Service) IncreaseQuantity(ctx context.Context, sessionKey, productID string) (*models.Cart, error) {
	cart, err := s.load(ctx, sessionKey)
	if err != nil {
		return nil, err
	}

	line := cart.FindItem(productID)
	if line == nil {
		return nil, ErrItemNotFound
	}
	line.Quantity++

	return cart, s.persist(ctx, cart)
}

// DecreaseQuantity lowers the line's quantity by one. Dropping below 1
// removes the line entirely; a quantity of 0 is never stored.
func (s *Service) DecreaseQuantity(ctx context.Context, sessionKey, productID string) (*models.Cart, error) {
	cart, err := s.load(ctx, sessionKey)
	if err != nil {
		return nil, err
	}

	line := cart.FindItem(productID)
	if line == nil {
		return nil, ErrItemNotFound
	}
	if line.Quantity <= 1 {
		cart.Items = removeLine(cart.Items, productID)
	} else {
		line.Quantity--
	}

	return cart, s.persist(ctx, cart)
}

// Remove deletes the line for the product.
func (s *Service) Remove(ctx context.Context, sessionKey, productID string) (*models.Cart, error) {
	cart, err := s.load(ctx, sessionKey)
	if err != nil {
		return nil, err
	}

	if cart.FindItem(productID) == nil {
		return nil, ErrItemNotFound
	}
	cart.Items = removeLine(cart.Items, productID)

	return cart, s.persist(ctx, cart)
}

// Clear drops the whole cart.
func (s *Service) Clear(ctx context.Context, sessionKey string) error {
	if err := s.repo.Delete(ctx, sessionKey); err != nil {
		return err
	}
	s.invalidate(sessionKey)
	return nil
}

func (s *Service) load(ctx context.Context, sessionKey string) (*models.Cart, error) {
	cart, err := s.repo.Get(ctx, sessionKey)
	if err != nil {
		if errors.Is(err, ErrCartNotFound) {
			return &models.Cart{SessionKey: sessionKey}, nil
		}
		if errors.Is(err, ErrCartCorrupt) {
			log.Println("[CART] [WARN] discarding corrupt cart:", err)
			if delErr := s.repo.Delete(ctx, sessionKey); delErr != nil {
				log.Println("[CART] [WARN] failed to discard corrupt cart:", delErr)
			}
			s.invalidate(sessionKey)
			return &models.Cart{SessionKey: sessionKey}, nil
		}
		return nil, err
	}
	return cart, nil
}

// persist writes the cart back. An emptied cart deletes the stored document
// rather than keeping an empty one around.
func (s *Service) persist(ctx context.Context, cart *models.Cart) error {
	var err error
	if cart.IsEmpty() {
		err = s.repo.Delete(ctx, cart.SessionKey)
	} else {
		err = s.repo.Upsert(ctx, cart)
	}
	if err != nil {
		return err
	}
	s.invalidate(cart.SessionKey)
	return nil
}

func (s *Service) invalidate(sessionKey string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, sessionKey); err != nil {
		log.Println("[CART] [WARN] cache invalidate failed:", err)
	}
}

func removeLine(items []models.CartLineItem, productID string) []models.CartLineItem {
	kept := items[:0]
	for _, it := range items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	return kept
}
