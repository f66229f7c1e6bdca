package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"storefront/internal/models"
	"storefront/internal/zora"
)

type stubOrderReader struct {
	order  *models.Order
	orders []models.Order
	err    error
}

func (s *stubOrderReader) GetOrder(context.Context, string, string) (*models.Order, error) {
	return s.order, s.err
}

func (s *stubOrderReader) ListOrders(context.Context, string, string, string) ([]models.Order, error) {
	return s.orders, s.err
}

func newOrderRouter(api OrderReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(testSession())
	r.GET("/orders", ListOrders(api))
	r.GET("/orders/:id", GetOrder(api))
	return r
}

func storedOrder() *models.Order {
	return &models.Order{
		ID:       "42",
		Status:   models.StatusPending,
		Shipping: 2.5,
		// Stale cached total, deliberately wrong: views must recompute.
		TotalUSD: 99.99,
		Items: []models.OrderItem{{
			ProductID: "p1",
			Qty:       2,
			UnitPrice: 20,
			Product:   &models.OrderProduct{Price: 20, Discount: 10},
		}},
	}
}

func TestGetOrderRecomputesTotalsFromItems(t *testing.T) {
	r := newOrderRouter(&stubOrderReader{order: storedOrder()})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/42", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Totals struct {
			Discount  float64 `json:"discount"`
			TotalUSD  float64 `json:"total_usd"`
			TotalRiel int64   `json:"total_riel"`
		} `json:"totals"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Totals.Discount != 4 || resp.Totals.TotalUSD != 38.5 || resp.Totals.TotalRiel != 157850 {
		t.Fatalf("expected recomputed totals, got %+v", resp.Totals)
	}
}

func TestGetOrderNotFound(t *testing.T) {
	r := newOrderRouter(&stubOrderReader{err: zora.ErrOrderNotFound})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/999", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestListOrdersIncludesTotalsPerOrder(t *testing.T) {
	r := newOrderRouter(&stubOrderReader{orders: []models.Order{*storedOrder(), *storedOrder()}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders?start_date=2026-01-01", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Orders []struct {
			Totals struct {
				TotalUSD float64 `json:"total_usd"`
			} `json:"totals"`
		} `json:"orders"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Orders) != 2 || resp.Orders[0].Totals.TotalUSD != 38.5 {
		t.Fatalf("unexpected list response: %s", w.Body.String())
	}
}
