package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/pricing"
	"storefront/internal/zora"
)

// OrderReader is the read side of the Zora API the order views need.
type OrderReader interface {
	GetOrder(ctx context.Context, token, orderID string) (*models.Order, error)
	ListOrders(ctx context.Context, token, startDate, endDate string) ([]models.Order, error)
}

// GetOrder renders one stored order for the confirmation and detail views.
// Totals are recomputed from the stored item list rather than read from a
// cached field, so every view agrees with what was charged.
func GetOrder(api OrderReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/:id"
		defer handlePanic(c, route)

		order, err := api.GetOrder(c.Request.Context(), c.GetString(middleware.KeyAuthToken), c.Param("id"))
		if err != nil {
			if errors.Is(err, zora.ErrOrderNotFound) {
				respondWithError(c, http.StatusNotFound, route, "order not found")
				return
			}
			respondWithError(c, http.StatusBadGateway, route, "failed to fetch order")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"order":  order,
			"totals": totalsBody(orderTotals(order)),
		})
	}
}

// ListOrders renders the caller's order history with recomputed totals.
func ListOrders(api OrderReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders"
		defer handlePanic(c, route)

		orders, err := api.ListOrders(
			c.Request.Context(),
			c.GetString(middleware.KeyAuthToken),
			c.Query("start_date"),
			c.Query("end_date"),
		)
		if err != nil {
			respondWithError(c, http.StatusBadGateway, route, "failed to fetch orders")
			return
		}

		body := make([]gin.H, 0, len(orders))
		for i := range orders {
			body = append(body, gin.H{
				"order":  orders[i],
				"totals": totalsBody(orderTotals(&orders[i])),
			})
		}
		c.JSON(http.StatusOK, gin.H{"orders": body})
	}
}

// orderTotals applies the shared calculator to a stored order, keeping the
// shipping fee the order was actually charged.
func orderTotals(order *models.Order) pricing.Totals {
	return pricing.CalculateWithShipping(
		pricing.ItemsFromOrder(order.Items),
		decimal.NewFromFloat(order.Shipping),
	)
}
