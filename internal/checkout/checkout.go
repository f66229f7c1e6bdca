// Package checkout turns a live cart into a persisted order exactly once per
// attempt: persist first, then best-effort side channels, then clear the cart.
package checkout

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"storefront/internal/models"
	"storefront/internal/pricing"
	"storefront/internal/zora"
)

var (
	// ErrEmptyCart blocks submission entirely when there is nothing to buy.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrSubmissionInFlight rejects a double-submit for the same session
	// while an earlier attempt is still running.
	ErrSubmissionInFlight = errors.New("checkout already in progress")
	// ErrInvalidPaymentMethod rejects unknown payment methods.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	// ErrInvalidCarrier rejects delivery carriers outside the fixed set.
	ErrInvalidCarrier = errors.New("invalid delivery carrier")
)

// CartStore is the slice of the cart service the workflow needs.
type CartStore interface {
	Get(ctx context.Context, sessionKey string) (*models.Cart, error)
	Clear(ctx context.Context, sessionKey string) error
}

// OrderAPI is the slice of the Zora API client the workflow needs.
type OrderAPI interface {
	SaveOrder(ctx context.Context, token string, order zora.SaveOrderRequest) (string, error)
	UploadPayment(ctx context.Context, token, orderID string, image zora.ProofImage) (string, error)
	SendTelegram(ctx context.Context, token, message string, image *zora.ProofImage) error
}

// ContactInfo is the delivery contact form.
type ContactInfo struct {
	Location    string
	PhoneNumber string
	Delivery    string
}

// Input is one submission attempt.
type Input struct {
	SessionKey    string
	Token         string
	CustomerName  string
	Contact       ContactInfo
	PaymentMethod string
	Proof         *zora.ProofImage
}

// Result is a successful submission.
type Result struct {
	OrderID string
	Totals  pricing.Totals
}

type Service struct {
	carts CartStore
	api   OrderAPI

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewService(carts CartStore, api OrderAPI) *Service {
	return &Service{
		carts:    carts,
		api:      api,
		inFlight: make(map[string]struct{}),
	}
}

// Submit runs the submission sequence. Order persistence is the consistency
// boundary: any failure before or during it leaves the cart intact, while
// proof upload and the Telegram relay after it are best-effort and only
// logged. The cart is cleared only once the order is durable upstream.
func (s *Service) Submit(ctx context.Context, input Input) (*Result, error) {
	if input.PaymentMethod != models.PaymentMethodKHQR && input.PaymentMethod != models.PaymentMethodCOD {
		return nil, ErrInvalidPaymentMethod
	}
	if !models.IsDeliveryCarrier(input.Contact.Delivery) {
		return nil, ErrInvalidCarrier
	}

	if !s.begin(input.SessionKey) {
		return nil, ErrSubmissionInFlight
	}
	defer s.finish(input.SessionKey)

	cart, err := s.carts.Get(ctx, input.SessionKey)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	snapshot := append([]models.CartLineItem(nil), cart.Items...)
	totals := pricing.Calculate(pricing.ItemsFromCart(snapshot))

	paymentStatus := models.PaymentPaid
	if input.PaymentMethod == models.PaymentMethodCOD {
		paymentStatus = models.PaymentUnpaid
	}

	orderID, err := s.api.SaveOrder(ctx, input.Token, buildSaveOrderRequest(input.Contact, snapshot, totals, paymentStatus))
	if err != nil {
		return nil, err
	}
	log.Println("[CHECKOUT] [INFO] order persisted:", orderID)

	if input.Proof != nil {
		if _, err := s.api.UploadPayment(ctx, input.Token, orderID, *input.Proof); err != nil {
			log.Println("[CHECKOUT] [WARN] payment proof upload failed:", err)
		}
	}

	message := BuildNotification(orderID, input.CustomerName, input.Contact, snapshot, totals)
	go s.notify(input.Token, message, input.Proof)

	if err := s.carts.Clear(ctx, input.SessionKey); err != nil {
		log.Println("[CHECKOUT] [WARN] cart clear failed after order", orderID, ":", err)
	}

	return &Result{OrderID: orderID, Totals: totals}, nil
}

// notify relays the order to staff off the critical path. A slow or failing
// relay never delays the confirmation the customer sees.
func (s *Service) notify(token, message string, proof *zora.ProofImage) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.api.SendTelegram(ctx, token, message, proof); err != nil {
		log.Println("[CHECKOUT] [WARN] telegram relay failed:", err)
	}
}

func (s *Service) begin(sessionKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[sessionKey]; busy {
		return false
	}
	s.inFlight[sessionKey] = struct{}{}
	return true
}

func (s *Service) finish(sessionKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, sessionKey)
}

func buildSaveOrderRequest(contact ContactInfo, items []models.CartLineItem, totals pricing.Totals, paymentStatus string) zora.SaveOrderRequest {
	cartLines := make([]zora.SaveOrderItem, 0, len(items))
	for _, it := range items {
		cartLines = append(cartLines, zora.SaveOrderItem{
			ProductID: it.ProductID,
			Name:      it.Title,
			Qty:       it.Quantity,
			UnitPrice: it.UnitPrice,
			Price:     pricing.LineOriginal(pricing.Item{UnitPrice: it.UnitPrice, Quantity: it.Quantity}).InexactFloat64(),
			Size:      it.Size,
		})
	}

	return zora.SaveOrderRequest{
		Location:      contact.Location,
		PhoneNumber:   contact.PhoneNumber,
		Delivery:      contact.Delivery,
		TotalUSD:      totals.GrandTotalUSD.InexactFloat64(),
		TotalRiel:     float64(totals.GrandTotalRiel),
		Shipping:      totals.ShippingFee.InexactFloat64(),
		Discount:      totals.TotalDiscount.InexactFloat64(),
		PaymentStatus: paymentStatus,
		Status:        models.StatusPending,
		Cart:          cartLines,
	}
}
