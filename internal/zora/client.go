// Package zora is the HTTP client for the remote Zora Store API, which owns
// all order persistence, payment-proof storage and the Telegram relay.
package zora

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront/internal/models"
)

// ErrOrderNotFound is returned when the API has no order with the given id.
var ErrOrderNotFound = errors.New("order not found")

// APIError is a non-2xx response from the Zora API. Fields carries field-level
// validation messages when the API rejected the payload.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string][]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("zora api: %d %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("zora api: unexpected status %d", e.StatusCode)
}

// IsValidation reports whether the API rejected the request payload itself.
func (e *APIError) IsValidation() bool {
	return e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusUnprocessableEntity
}

// ProofImage is an uploaded payment-proof file held in memory (uploads are
// capped at 5MB) so it can be sent to more than one endpoint.
type ProofImage struct {
	Filename string
	Data     []byte
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

/* =========================
   SAVE ORDER
========================= */

type SaveOrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"unit_price"`
	Price     float64 `json:"price"`
	Size      string  `json:"size"`
}

type SaveOrderRequest struct {
	Location      string          `json:"location"`
	PhoneNumber   string          `json:"phone_number"`
	Delivery      string          `json:"delivery"`
	TotalUSD      float64         `json:"total_usd"`
	TotalRiel     float64         `json:"total_riel"`
	Shipping      float64         `json:"shipping"`
	Discount      float64         `json:"discount"`
	PaymentStatus string          `json:"payment_status"`
	Status        string          `json:"status"`
	Cart          []SaveOrderItem `json:"cart"`
}

// SaveOrder persists the order and returns the server-generated order id.
func (c *Client) SaveOrder(ctx context.Context, token string, order SaveOrderRequest) (string, error) {
	body, err := json.Marshal(order)
	if err != nil {
		return "", fmt.Errorf("marshal order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/save-order", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	setBearer(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("save order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", decodeAPIError(resp)
	}

	var result struct {
		ID json.Number `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode save-order response: %w", err)
	}
	if result.ID.String() == "" {
		return "", errors.New("save-order response missing id")
	}
	return result.ID.String(), nil
}

/* =========================
   UPLOAD PAYMENT PROOF
========================= */

// UploadPayment attaches the proof image to an already persisted order and
// returns the stored image path.
func (c *Client) UploadPayment(ctx context.Context, token, orderID string, image ProofImage) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("image", image.Filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(image.Data); err != nil {
		return "", err
	}
	if err := writer.WriteField("order_id", orderID); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload-payment", body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	setBearer(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload payment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", decodeAPIError(resp)
	}

	var result struct {
		Payment struct {
			ImagePath string `json:"image_path"`
		} `json:"payment"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode upload-payment response: %w", err)
	}
	return result.Payment.ImagePath, nil
}

/* =========================
   TELEGRAM RELAY
========================= */

// SendTelegram relays the preformatted order message to store staff, with the
// proof image attached when present.
func (c *Client) SendTelegram(ctx context.Context, token, message string, image *ProofImage) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writer.WriteField("message", message); err != nil {
		return err
	}
	if image != nil {
		part, err := writer.CreateFormFile("image", image.Filename)
		if err != nil {
			return err
		}
		if _, err := part.Write(image.Data); err != nil {
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/send-telegram", body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	setBearer(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

/* =========================
   ORDER READS
========================= */

// GetOrder fetches one stored order by id.
func (c *Client) GetOrder(ctx context.Context, token, orderID string) (*models.Order, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/order/"+url.PathEscape(orderID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	setBearer(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrOrderNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(resp)
	}

	var order models.Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}
	return &order, nil
}

// ListOrders fetches the caller's order history, optionally bounded by
// start/end dates (YYYY-MM-DD).
func (c *Client) ListOrders(ctx context.Context, token, startDate, endDate string) ([]models.Order, error) {
	query := url.Values{}
	if startDate != "" {
		query.Set("start_date", startDate)
	}
	if endDate != "" {
		query.Set("end_date", endDate)
	}
	endpoint := c.baseURL + "/get-orders"
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	setBearer(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return decodeOrderList(raw)
}

// decodeOrderList tolerates the API's nesting variants: a bare array, a
// {"data": [...]} envelope, or paginated {"data": {"data": [...]}}.
func decodeOrderList(raw []byte) ([]models.Order, error) {
	var bare []models.Order
	if err := json.Unmarshal(raw, &bare); err == nil {
		return bare, nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Data) == 0 {
		return nil, fmt.Errorf("decode order list: unrecognized shape")
	}

	var nested []models.Order
	if err := json.Unmarshal(envelope.Data, &nested); err == nil {
		return nested, nil
	}

	var paginated struct {
		Data []models.Order `json:"data"`
	}
	if err := json.Unmarshal(envelope.Data, &paginated); err != nil {
		return nil, fmt.Errorf("decode order list: %w", err)
	}
	return paginated.Data, nil
}

/* =========================
   HELPERS
========================= */

func setBearer(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return apiErr
	}

	var payload struct {
		Message string              `json:"message"`
		Error   string              `json:"error"`
		Errors  map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Message = payload.Message
		if apiErr.Message == "" {
			apiErr.Message = payload.Error
		}
		apiErr.Fields = payload.Errors
	}
	return apiErr
}
