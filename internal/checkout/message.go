package checkout

import (
	"fmt"
	"strings"

	"storefront/internal/models"
	"storefront/internal/pricing"
)

const messageRule = "--------------------------------------------------------"

// BuildNotification renders the staff-facing order summary in the store's
// established Telegram format.
func BuildNotification(orderID, customerName string, contact ContactInfo, items []models.CartLineItem, totals pricing.Totals) string {
	var itemBlocks []string
	for i, it := range items {
		lineOriginal := pricing.LineOriginal(pricing.Item{UnitPrice: it.UnitPrice, Quantity: it.Quantity})
		itemBlocks = append(itemBlocks, fmt.Sprintf(
			"Item Product: %d\nProduct: %s\nQty: %d\nSize: (%s)\nOriginal Price: %s",
			i+1, it.Title, it.Quantity, it.Size, pricing.FormatUSD(lineOriginal),
		))
	}

	var b strings.Builder
	b.WriteString(messageRule + "\n")
	b.WriteString("     Customer Order Information\n")
	b.WriteString(messageRule + "\n")
	fmt.Fprintf(&b, "New Payment Order ID: %s\n", orderID)
	fmt.Fprintf(&b, "Name: %s\n", customerName)
	fmt.Fprintf(&b, "Phone: %s\n", contact.PhoneNumber)
	fmt.Fprintf(&b, "Location: %s\n", contact.Location)
	fmt.Fprintf(&b, "Delivery: %s\n", contact.Delivery)
	b.WriteString(messageRule + "\n")
	b.WriteString("Product Customer Item Purchase :\n")
	b.WriteString(strings.Join(itemBlocks, "\n\n") + "\n")
	b.WriteString(messageRule + "\n")
	b.WriteString("TOTAL PRICE PRODUCT:\n")
	fmt.Fprintf(&b, "Shipping: %s\n", pricing.FormatUSD(totals.ShippingFee))
	fmt.Fprintf(&b, "Total USD: %s\n", pricing.FormatUSD(totals.GrandTotalUSD))
	fmt.Fprintf(&b, "Total Riel: %s\n", pricing.FormatRiel(totals.GrandTotalRiel))
	b.WriteString(messageRule)
	return b.String()
}
