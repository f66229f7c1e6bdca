package handlers

import (
	"github.com/gin-gonic/gin"

	"storefront/internal/pricing"
)

// totalsBody is the one JSON shape every money-bearing response uses, so the
// cart view, checkout response, confirmation and order detail can never
// disagree on an amount.
func totalsBody(t pricing.Totals) gin.H {
	return gin.H{
		"subtotal_original":       t.SubtotalOriginal.InexactFloat64(),
		"discount":                t.TotalDiscount.InexactFloat64(),
		"subtotal_after_discount": t.SubtotalAfterDiscount.InexactFloat64(),
		"shipping":                t.ShippingFee.InexactFloat64(),
		"total_usd":               t.GrandTotalUSD.InexactFloat64(),
		"total_riel":              t.GrandTotalRiel,
		"display": gin.H{
			"total_usd":  pricing.FormatUSD(t.GrandTotalUSD),
			"total_riel": pricing.FormatRiel(t.GrandTotalRiel),
		},
	}
}
