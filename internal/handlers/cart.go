package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/cart"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/pricing"
)

type addToCartRequest struct {
	ProductID       string  `json:"productId" binding:"required"`
	Title           string  `json:"title" binding:"required"`
	ImageURL        string  `json:"imageUrl"`
	UnitPrice       float64 `json:"unitPrice" binding:"required,gt=0"`
	DiscountPercent float64 `json:"discountPercent" binding:"gte=0,lte=100"`
	Size            string  `json:"size"`
	AvailableStock  int     `json:"availableStock" binding:"gte=0"`
}

// GetCart returns the session's cart with freshly derived totals.
func GetCart(carts *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /cart"
		defer handlePanic(c, route)

		stored, err := carts.Get(c.Request.Context(), c.GetString(middleware.KeySessionKey))
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "failed to load cart")
			return
		}

		respondCart(c, http.StatusOK, stored)
	}
}

// AddToCart merges a product snapshot into the cart.
func AddToCart(carts *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart/items"
		defer handlePanic(c, route)

		var req addToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		stored, err := carts.Add(c.Request.Context(), c.GetString(middleware.KeySessionKey), models.CartLineItem{
			ProductID:       req.ProductID,
			Title:           req.Title,
			ImageURL:        req.ImageURL,
			UnitPrice:       req.UnitPrice,
			DiscountPercent: req.DiscountPercent,
			Size:            req.Size,
			AvailableStock:  req.AvailableStock,
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "failed to update cart")
			return
		}

		respondCart(c, http.StatusCreated, stored)
	}
}

// IncreaseQuantity bumps a line by one. The stock ceiling lives here, on the
// caller side of the store, mirroring the disabled plus-button in the UI.
func IncreaseQuantity(carts *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart/items/:productId/increase"
		defer handlePanic(c, route)

		sessionKey := c.GetString(middleware.KeySessionKey)
		productID := c.Param("productId")

		current, err := carts.Get(c.Request.Context(), sessionKey)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "failed to load cart")
			return
		}
		if line := current.FindItem(productID); line != nil && line.Quantity >= line.AvailableStock {
			c.JSON(http.StatusConflict, gin.H{
				"error":     "not enough stock",
				"productId": productID,
				"available": line.AvailableStock,
			})
			return
		}

		stored, err := carts.IncreaseQuantity(c.Request.Context(), sessionKey, productID)
		if err != nil {
			respondCartMutationError(c, route, err)
			return
		}

		respondCart(c, http.StatusOK, stored)
	}
}

// DecreaseQuantity lowers a line by one; at quantity 1 the line disappears.
func DecreaseQuantity(carts *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart/items/:productId/decrease"
		defer handlePanic(c, route)

		stored, err := carts.DecreaseQuantity(c.Request.Context(), c.GetString(middleware.KeySessionKey), c.Param("productId"))
		if err != nil {
			respondCartMutationError(c, route, err)
			return
		}

		respondCart(c, http.StatusOK, stored)
	}
}

// RemoveFromCart deletes a line.
func RemoveFromCart(carts *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart/items/:productId"
		defer handlePanic(c, route)

		stored, err := carts.Remove(c.Request.Context(), c.GetString(middleware.KeySessionKey), c.Param("productId"))
		if err != nil {
			respondCartMutationError(c, route, err)
			return
		}

		respondCart(c, http.StatusOK, stored)
	}
}

// ClearCart drops the whole cart.
func ClearCart(carts *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart"
		defer handlePanic(c, route)

		if err := carts.Clear(c.Request.Context(), c.GetString(middleware.KeySessionKey)); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "failed to clear cart")
			return
		}

		respondCart(c, http.StatusOK, &models.Cart{})
	}
}

func respondCart(c *gin.Context, status int, stored *models.Cart) {
	items := stored.Items
	if items == nil {
		items = []models.CartLineItem{}
	}
	totals := pricing.Calculate(pricing.ItemsFromCart(items))
	c.JSON(status, gin.H{
		"items":  items,
		"totals": totalsBody(totals),
	})
}

func respondCartMutationError(c *gin.Context, route string, err error) {
	if errors.Is(err, cart.ErrItemNotFound) {
		respondWithError(c, http.StatusNotFound, route, "item not in cart")
		return
	}
	respondWithError(c, http.StatusInternalServerError, route, "failed to update cart")
}
