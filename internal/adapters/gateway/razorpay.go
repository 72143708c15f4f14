// Package gateway holds the payment gateway clients.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"dailywage-hub/internal/core/services"
	"dailywage-hub/internal/pkg/signature"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// RazorpayConfig holds Razorpay API configuration
type RazorpayConfig struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	Timeout   time.Duration
}

// RazorpayClient talks to the Razorpay Orders API
type RazorpayClient struct {
	config RazorpayConfig
	client *http.Client
	log    *zap.Logger
}

var _ services.PaymentGateway = (*RazorpayClient)(nil)

// NewRazorpayClient creates a new Razorpay client
func NewRazorpayClient(config RazorpayConfig, log *zap.Logger) *RazorpayClient {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &RazorpayClient{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		log:    log,
	}
}

type orderPayload struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type orderResponse struct {
	ID       string `json:"id"`
	Entity   string `json:"entity"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type errorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder creates an order (POST /orders)
func (c *RazorpayClient) CreateOrder(ctx context.Context, req services.OrderRequest) (*services.GatewayOrder, error) {
	jsonData, err := json.Marshal(orderPayload{
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Notes:    req.Notes,
	})
	if err != nil {
		return nil, errors.Wrap(err, "encode order")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/orders", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, errors.Wrap(err, "build order request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.config.KeyID, c.config.KeySecret)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "razorpay request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errors.Wrap(err, "read razorpay response")
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		_ = json.Unmarshal(body, &apiErr)
		c.log.Warn("⚠️ Razorpay order rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("code", apiErr.Error.Code),
			zap.String("description", apiErr.Error.Description))
		return nil, errors.Newf("razorpay: status %d: %s", resp.StatusCode, describe(apiErr, body))
	}

	var order orderResponse
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, errors.Wrap(err, "decode razorpay order")
	}
	if order.ID == "" {
		return nil, errors.New("razorpay: order response has no id")
	}

	return &services.GatewayOrder{
		ID:       order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Status:   order.Status,
	}, nil
}

// VerifySignature checks the checkout callback signature
func (c *RazorpayClient) VerifySignature(orderID, paymentID, sig string) bool {
	return signature.Verify(c.config.KeySecret, orderID, paymentID, sig)
}

// KeyID returns the publishable key
func (c *RazorpayClient) KeyID() string {
	return c.config.KeyID
}

// Close releases idle keep-alive connections
func (c *RazorpayClient) Close() {
	c.client.CloseIdleConnections()
}

func describe(apiErr errorResponse, body []byte) string {
	if apiErr.Error.Description != "" {
		return fmt.Sprintf("%s (%s)", apiErr.Error.Description, apiErr.Error.Code)
	}
	if len(body) > 200 {
		body = body[:200]
	}
	return string(body)
}
