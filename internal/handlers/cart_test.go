package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"storefront/internal/cart"
	"storefront/internal/middleware"
	"storefront/internal/models"
)

type noopCache struct{}

func (noopCache) Get(context.Context, string) (*models.Cart, error) { return nil, cart.ErrCacheMiss }
func (noopCache) Set(context.Context, string, *models.Cart) error   { return nil }
func (noopCache) Delete(context.Context, string) error              { return nil }

func testSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.KeySessionKey, "u1")
		c.Next()
	}
}

func newCartRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	carts := cart.NewService(cart.NewMemoryRepository(), noopCache{})

	r := gin.New()
	r.Use(testSession())
	r.GET("/cart", GetCart(carts))
	r.POST("/cart/items", AddToCart(carts))
	r.POST("/cart/items/:productId/increase", IncreaseQuantity(carts))
	r.POST("/cart/items/:productId/decrease", DecreaseQuantity(carts))
	r.DELETE("/cart/items/:productId", RemoveFromCart(carts))
	r.DELETE("/cart", ClearCart(carts))
	return r
}

type cartResponse struct {
	Items  []models.CartLineItem `json:"items"`
	Totals struct {
		SubtotalOriginal float64 `json:"subtotal_original"`
		Discount         float64 `json:"discount"`
		Shipping         float64 `json:"shipping"`
		TotalUSD         float64 `json:"total_usd"`
		TotalRiel        int64   `json:"total_riel"`
	} `json:"totals"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, cartResponse) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed cartResponse
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &parsed)
	}
	return w, parsed
}

func addBody(productID string) gin.H {
	return gin.H{
		"productId":       productID,
		"title":           "Shirt",
		"unitPrice":       20.0,
		"discountPercent": 10.0,
		"size":            "M",
		"availableStock":  2,
	}
}

func TestAddToCartComputesTotals(t *testing.T) {
	r := newCartRouter()

	w, first := doJSON(t, r, http.MethodPost, "/cart/items", addBody("p1"))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if len(first.Items) != 1 || first.Items[0].Quantity != 1 {
		t.Fatalf("unexpected cart after add: %+v", first.Items)
	}

	w, second := doJSON(t, r, http.MethodPost, "/cart/items", addBody("p1"))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if len(second.Items) != 1 || second.Items[0].Quantity != 2 {
		t.Fatalf("expected merged line with quantity 2, got %+v", second.Items)
	}
	if second.Totals.SubtotalOriginal != 40 || second.Totals.Discount != 4 {
		t.Fatalf("unexpected totals: %+v", second.Totals)
	}
	if second.Totals.Shipping != 2.5 || second.Totals.TotalUSD != 38.5 || second.Totals.TotalRiel != 157850 {
		t.Fatalf("unexpected totals: %+v", second.Totals)
	}
}

func TestAddToCartRejectsInvalidPayload(t *testing.T) {
	r := newCartRouter()

	w, _ := doJSON(t, r, http.MethodPost, "/cart/items", gin.H{"productId": "p1", "title": "Shirt", "unitPrice": -1})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-positive price, got %d", w.Code)
	}
}

func TestIncreaseQuantityStopsAtAvailableStock(t *testing.T) {
	r := newCartRouter()

	doJSON(t, r, http.MethodPost, "/cart/items", addBody("p1")) // qty 1, stock 2
	w, resp := doJSON(t, r, http.MethodPost, "/cart/items/p1/increase", nil)
	if w.Code != http.StatusOK || resp.Items[0].Quantity != 2 {
		t.Fatalf("expected increase to 2, got %d %+v", w.Code, resp.Items)
	}

	w, _ = doJSON(t, r, http.MethodPost, "/cart/items/p1/increase", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 at stock ceiling, got %d", w.Code)
	}
}

func TestDecreaseQuantityRemovesLineAtOne(t *testing.T) {
	r := newCartRouter()

	doJSON(t, r, http.MethodPost, "/cart/items", addBody("p1"))
	w, resp := doJSON(t, r, http.MethodPost, "/cart/items/p1/decrease", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(resp.Items) != 0 {
		t.Fatalf("expected line removed, got %+v", resp.Items)
	}
	if resp.Totals.TotalUSD != 0 || resp.Totals.Shipping != 0 {
		t.Fatalf("expected zero totals on empty cart, got %+v", resp.Totals)
	}
}

func TestMutateUnknownLineReturnsNotFound(t *testing.T) {
	r := newCartRouter()

	w, _ := doJSON(t, r, http.MethodPost, "/cart/items/ghost/decrease", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	w, _ = doJSON(t, r, http.MethodDelete, "/cart/items/ghost", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGetCartEmptySessionReturnsEmptyList(t *testing.T) {
	r := newCartRouter()

	w, resp := doJSON(t, r, http.MethodGet, "/cart", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if resp.Items == nil || len(resp.Items) != 0 {
		t.Fatalf("expected empty items array, got %+v", resp.Items)
	}
}
