package models

import "time"

// Order statuses as stored by the Zora API. Transitions happen server-side
// through the admin back office; the storefront only reads them.
const (
	StatusPending   = "pending"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Payment statuses.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentUnpaid  = "unpaid"
)

// Payment methods accepted at checkout. Cash on delivery starts the order
// unpaid; KHQR transfers are marked paid up front.
const (
	PaymentMethodKHQR = "KHQR"
	PaymentMethodCOD  = "cod"
)

// DeliveryCarriers is the fixed set of carriers the store ships with.
var DeliveryCarriers = []string{"J&T", "VET", "ZTO", "CE"}

// IsDeliveryCarrier reports whether s is one of the supported carriers.
func IsDeliveryCarrier(s string) bool {
	for _, c := range DeliveryCarriers {
		if c == s {
			return true
		}
	}
	return false
}

// OrderProduct is the nested product data the API returns with each order
// item. Price and discount here are authoritative for recomputing totals.
type OrderProduct struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	ImageURL string  `json:"image_url,omitempty"`
	Price    float64 `json:"price"`
	Discount float64 `json:"discount"`
}

// OrderItem is one purchased line within a persisted order.
type OrderItem struct {
	ProductID string        `json:"product_id"`
	Name      string        `json:"name"`
	Qty       int           `json:"qty"`
	UnitPrice float64       `json:"unit_price"`
	Price     float64       `json:"price"`
	Size      string        `json:"size,omitempty"`
	Product   *OrderProduct `json:"product,omitempty"`
}

// Order is the read-only projection of an order persisted by the Zora API.
type Order struct {
	ID            string      `json:"id"`
	Status        string      `json:"status"`
	PaymentStatus string      `json:"payment_status"`
	Shipping      float64     `json:"shipping"`
	TotalUSD      float64     `json:"total_usd"`
	TotalRiel     float64     `json:"total_riel"`
	Discount      float64     `json:"discount"`
	Location      string      `json:"location"`
	PhoneNumber   string      `json:"phone_number"`
	Delivery      string      `json:"delivery"`
	PaymentImage  string      `json:"payment_image,omitempty"`
	Items         []OrderItem `json:"items"`
	CreatedAt     time.Time   `json:"created_at"`
}
