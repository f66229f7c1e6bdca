package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/checkout"
	"storefront/internal/middleware"
	"storefront/internal/zora"
)

type checkoutRequest struct {
	Location      string `form:"location" binding:"required"`
	PhoneNumber   string `form:"phone_number" binding:"required,phonedigits"`
	Delivery      string `form:"delivery" binding:"required,oneof=J&T VET ZTO CE"`
	PaymentMethod string `form:"payment_method" binding:"required,oneof=KHQR cod"`
}

// Checkout submits the session's cart as an order. Multipart form: contact
// fields plus an optional payment-proof image.
func Checkout(workflow *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /checkout"
		defer handlePanic(c, route)

		var req checkoutRequest
		if err := c.ShouldBind(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid checkout details")
			return
		}

		proof, err := readProofImage(c)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		result, err := workflow.Submit(c.Request.Context(), checkout.Input{
			SessionKey:   c.GetString(middleware.KeySessionKey),
			Token:        c.GetString(middleware.KeyAuthToken),
			CustomerName: c.GetString(middleware.KeyUserName),
			Contact: checkout.ContactInfo{
				Location:    req.Location,
				PhoneNumber: req.PhoneNumber,
				Delivery:    req.Delivery,
			},
			PaymentMethod: req.PaymentMethod,
			Proof:         proof,
		})
		if err != nil {
			respondCheckoutError(c, route, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"orderId": result.OrderID,
			"message": "order created",
			"totals":  totalsBody(result.Totals),
		})
	}
}

func respondCheckoutError(c *gin.Context, route string, err error) {
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		respondWithError(c, http.StatusConflict, route, "cart is empty")
	case errors.Is(err, checkout.ErrSubmissionInFlight):
		respondWithError(c, http.StatusConflict, route, "checkout already in progress")
	case errors.Is(err, checkout.ErrInvalidPaymentMethod):
		respondWithError(c, http.StatusBadRequest, route, "invalid payment method")
	case errors.Is(err, checkout.ErrInvalidCarrier):
		respondWithError(c, http.StatusBadRequest, route, "invalid delivery carrier")
	default:
		var apiErr *zora.APIError
		if errors.As(err, &apiErr) && apiErr.IsValidation() {
			log.Printf("[%s] upstream rejected order: %v", route, apiErr)
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":  "order rejected",
				"fields": apiErr.Fields,
			})
			return
		}
		respondWithError(c, http.StatusBadGateway, route, "order could not be saved")
	}
}
