package models

import "time"

// CartLineItem is a snapshot of a product at the moment it was added to the
// cart. Display fields travel with the line so the cart can render without a
// product lookup.
type CartLineItem struct {
	ProductID       string  `bson:"productId" json:"productId"`
	Title           string  `bson:"title" json:"title"`
	ImageURL        string  `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	UnitPrice       float64 `bson:"unitPrice" json:"unitPrice"`
	DiscountPercent float64 `bson:"discountPercent" json:"discountPercent"`
	Quantity        int     `bson:"quantity" json:"quantity"`
	Size            string  `bson:"size,omitempty" json:"size,omitempty"`
	AvailableStock  int     `bson:"availableStock" json:"availableStock"`
}

// Cart is the persisted cart document for one session key.
type Cart struct {
	SessionKey string         `bson:"sessionKey" json:"-"`
	Items      []CartLineItem `bson:"items" json:"items"`
	CreatedAt  time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// IsEmpty reports whether the cart holds no line items.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// FindItem returns the line with the given productId, or nil.
func (c *Cart) FindItem(productID string) *CartLineItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}
