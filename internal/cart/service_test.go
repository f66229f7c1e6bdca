package cart

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/models"
)

type fakeCache struct {
	getErr  error
	setErr  error
	delErr  error
	deleted int
}

func (f *fakeCache) Get(context.Context, string) (*models.Cart, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return nil, ErrCacheMiss
}

func (f *fakeCache) Set(context.Context, string, *models.Cart) error { return f.setErr }

func (f *fakeCache) Delete(context.Context, string) error {
	f.deleted++
	return f.delErr
}

type corruptRepository struct {
	*MemoryRepository
	corrupt bool
}

func (c *corruptRepository) Get(ctx context.Context, sessionKey string) (*models.Cart, error) {
	if c.corrupt {
		return nil, ErrCartCorrupt
	}
	return c.MemoryRepository.Get(ctx, sessionKey)
}

func newTestService() (*Service, *MemoryRepository) {
	repo := NewMemoryRepository()
	return NewService(repo, &fakeCache{}), repo
}

func lineItem(productID string, price float64) models.CartLineItem {
	return models.CartLineItem{
		ProductID:      productID,
		Title:          "Shirt",
		UnitPrice:      price,
		Size:           "M",
		AvailableStock: 5,
	}
}

func TestAddMergesByProductID(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Add(ctx, "u1", lineItem("p1", 20)); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	second := lineItem("p1", 20)
	second.Size = "L"
	cart, err := svc.Add(ctx, "u1", second)
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	if len(cart.Items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 2 {
		t.Fatalf("expected merged quantity 2, got %d", cart.Items[0].Quantity)
	}
	if cart.Items[0].Size != "L" {
		t.Fatalf("expected last selected size to win, got %q", cart.Items[0].Size)
	}
}

func TestAddNewProductStartsAtQuantityOne(t *testing.T) {
	svc, _ := newTestService()

	item := lineItem("p1", 20)
	item.Quantity = 7 // caller-supplied quantity is ignored on add
	cart, err := svc.Add(context.Background(), "u1", item)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if cart.Items[0].Quantity != 1 {
		t.Fatalf("expected quantity 1 on fresh line, got %d", cart.Items[0].Quantity)
	}
}

func TestDecreaseAtQuantityOneRemovesLine(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Add(ctx, "u1", lineItem("p1", 20)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	cart, err := svc.DecreaseQuantity(ctx, "u1", "p1")
	if err != nil {
		t.Fatalf("decrease failed: %v", err)
	}

	if !cart.IsEmpty() {
		t.Fatalf("expected line removed, cart still has %d items", len(cart.Items))
	}
	for _, it := range cart.Items {
		if it.Quantity < 1 {
			t.Fatalf("quantity below 1 stored: %+v", it)
		}
	}
}

func TestIncreaseAndDecreaseAdjustByOne(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, _ = svc.Add(ctx, "u1", lineItem("p1", 20))
	if _, err := svc.IncreaseQuantity(ctx, "u1", "p1"); err != nil {
		t.Fatalf("increase failed: %v", err)
	}
	cart, err := svc.IncreaseQuantity(ctx, "u1", "p1")
	if err != nil {
		t.Fatalf("increase failed: %v", err)
	}
	if cart.Items[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", cart.Items[0].Quantity)
	}

	cart, err = svc.DecreaseQuantity(ctx, "u1", "p1")
	if err != nil {
		t.Fatalf("decrease failed: %v", err)
	}
	if cart.Items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", cart.Items[0].Quantity)
	}
}

func TestIncreaseUnknownProductReturnsItemNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.IncreaseQuantity(context.Background(), "u1", "missing")
	if !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestRemoveDeletesLineAndEmptyCartDropsDocument(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	_, _ = svc.Add(ctx, "u1", lineItem("p1", 20))
	cart, err := svc.Remove(ctx, "u1", "p1")
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if !cart.IsEmpty() {
		t.Fatalf("expected empty cart, got %d items", len(cart.Items))
	}

	if _, err := repo.Get(ctx, "u1"); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("expected emptied cart document to be deleted, got %v", err)
	}
}

func TestGetMissingCartIsEmptyCart(t *testing.T) {
	svc, _ := newTestService()

	cart, err := svc.Get(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !cart.IsEmpty() {
		t.Fatalf("expected empty cart, got %+v", cart)
	}
}

func TestCorruptCartIsDiscardedAndTreatedAsEmpty(t *testing.T) {
	repo := &corruptRepository{MemoryRepository: NewMemoryRepository(), corrupt: true}
	svc := NewService(repo, &fakeCache{})
	ctx := context.Background()

	cart, err := svc.Add(ctx, "u1", lineItem("p1", 20))
	if err != nil {
		t.Fatalf("add over corrupt cart failed: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 1 {
		t.Fatalf("expected fresh cart with one line, got %+v", cart.Items)
	}
}

func TestCacheFailuresNeverBlockMutations(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, &fakeCache{
		getErr: errors.New("redis down"),
		setErr: errors.New("redis down"),
		delErr: errors.New("redis down"),
	})
	ctx := context.Background()

	cart, err := svc.Add(ctx, "u1", lineItem("p1", 20))
	if err != nil {
		t.Fatalf("add with broken cache failed: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected one line, got %d", len(cart.Items))
	}
	if _, err := svc.Get(ctx, "u1"); err != nil {
		t.Fatalf("get with broken cache failed: %v", err)
	}
}
