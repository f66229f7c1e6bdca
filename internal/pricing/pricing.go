package pricing

import (
	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

// RielRate is the fixed USD -> Riel exchange rate the store charges at.
const RielRate = 4100

// Shipping is free on an empty cart and on pre-discount subtotals of $50 and
// up; everything below that pays a flat $2.50.
var (
	freeShippingThreshold = decimal.NewFromInt(50)
	flatShippingFee       = decimal.RequireFromString("2.50")
	rielRate              = decimal.NewFromInt(RielRate)
	oneHundred            = decimal.NewFromInt(100)
)

// Item is the minimal slice of a line item the calculator needs. Both cart
// lines and stored order items reduce to this shape.
type Item struct {
	UnitPrice       float64
	DiscountPercent float64
	Quantity        int
}

// Totals are the derived money amounts for one item list. USD amounts carry
// two decimal places; Riel is a whole number.
type Totals struct {
	SubtotalOriginal      decimal.Decimal
	TotalDiscount         decimal.Decimal
	SubtotalAfterDiscount decimal.Decimal
	ShippingFee           decimal.Decimal
	GrandTotalUSD         decimal.Decimal
	GrandTotalRiel        int64
}

// EffectiveUnitPrice is the unit price after the product-level discount.
func EffectiveUnitPrice(it Item) decimal.Decimal {
	price := decimal.NewFromFloat(it.UnitPrice)
	discount := decimal.NewFromFloat(it.DiscountPercent)
	return price.Mul(decimal.NewFromInt(1).Sub(discount.Div(oneHundred)))
}

// LineOriginal is unitPrice * quantity before any discount.
func LineOriginal(it Item) decimal.Decimal {
	return decimal.NewFromFloat(it.UnitPrice).Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// LineDiscount is the money taken off the line by the product discount.
func LineDiscount(it Item) decimal.Decimal {
	discount := decimal.NewFromFloat(it.DiscountPercent)
	return LineOriginal(it).Mul(discount.Div(oneHundred))
}

// LineTotal is the charged amount for the line.
func LineTotal(it Item) decimal.Decimal {
	return LineOriginal(it).Sub(LineDiscount(it))
}

// ShippingFee applies the tiered shipping rule. The tier is evaluated against
// the pre-discount subtotal.
func ShippingFee(subtotalOriginal decimal.Decimal) decimal.Decimal {
	if subtotalOriginal.IsZero() {
		return decimal.Zero
	}
	if subtotalOriginal.GreaterThanOrEqual(freeShippingThreshold) {
		return decimal.Zero
	}
	return flatShippingFee
}

// Calculate derives all totals for the item list, including the shipping fee
// from the tier rule. It never mutates its input.
func Calculate(items []Item) Totals {
	subtotal := decimal.Zero
	discount := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(LineOriginal(it))
		discount = discount.Add(LineDiscount(it))
	}
	return withShipping(subtotal, discount, ShippingFee(subtotal))
}

// CalculateWithShipping derives totals using a caller-supplied shipping fee.
// Order views pass the fee stored on the order so historical totals stay
// faithful even if the tier rule changes later.
func CalculateWithShipping(items []Item, shippingFee decimal.Decimal) Totals {
	subtotal := decimal.Zero
	discount := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(LineOriginal(it))
		discount = discount.Add(LineDiscount(it))
	}
	return withShipping(subtotal, discount, shippingFee)
}

func withShipping(subtotal, discount, shipping decimal.Decimal) Totals {
	after := subtotal.Sub(discount)
	grandUSD := after.Add(shipping)
	return Totals{
		SubtotalOriginal:      subtotal.Round(2),
		TotalDiscount:         discount.Round(2),
		SubtotalAfterDiscount: after.Round(2),
		ShippingFee:           shipping.Round(2),
		GrandTotalUSD:         grandUSD.Round(2),
		GrandTotalRiel:        grandUSD.Mul(rielRate).Round(0).IntPart(),
	}
}

// ItemsFromCart adapts cart lines for the calculator.
func ItemsFromCart(lines []models.CartLineItem) []Item {
	items := make([]Item, 0, len(lines))
	for _, l := range lines {
		items = append(items, Item{
			UnitPrice:       l.UnitPrice,
			DiscountPercent: l.DiscountPercent,
			Quantity:        l.Quantity,
		})
	}
	return items
}

// ItemsFromOrder adapts stored order items for the calculator. The nested
// product carries the authoritative price and discount; unit_price is the
// fallback for older orders without the nested document.
func ItemsFromOrder(orderItems []models.OrderItem) []Item {
	items := make([]Item, 0, len(orderItems))
	for _, oi := range orderItems {
		it := Item{UnitPrice: oi.UnitPrice, Quantity: oi.Qty}
		if oi.Product != nil {
			it.UnitPrice = oi.Product.Price
			it.DiscountPercent = oi.Product.Discount
		}
		items = append(items, it)
	}
	return items
}
