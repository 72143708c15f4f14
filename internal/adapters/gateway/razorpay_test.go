package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dailywage-hub/internal/core/services"
	"dailywage-hub/internal/pkg/signature"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *RazorpayClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	c := NewRazorpayClient(RazorpayConfig{
		KeyID:     "rzp_test_key",
		KeySecret: "rzp_secret",
		BaseURL:   srv.URL + "/",
		Timeout:   time.Second,
	}, zap.NewNop())
	t.Cleanup(func() {
		c.Close()
		srv.Close()
	})
	return c
}

func TestCreateOrder_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "rzp_secret", pass)

		var body orderPayload
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int64(2400), body.Amount)
		assert.Equal(t, "INR", body.Currency)
		assert.Equal(t, "job-1", body.Receipt)
		assert.Equal(t, "job-1", body.Notes["job_id"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_Abc123","entity":"order","amount":2400,"currency":"INR","receipt":"job-1","status":"created"}`))
	})

	order, err := c.CreateOrder(context.Background(), services.OrderRequest{
		Amount:   2400,
		Currency: "INR",
		Receipt:  "job-1",
		Notes:    map[string]string{"job_id": "job-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "order_Abc123", order.ID)
	assert.Equal(t, int64(2400), order.Amount)
	assert.Equal(t, "created", order.Status)
}

func TestCreateOrder_APIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"The amount must be at least INR 1.00"}}`))
	})

	_, err := c.CreateOrder(context.Background(), services.OrderRequest{Amount: 10, Currency: "INR"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "at least INR 1.00")
}

func TestCreateOrder_MissingID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"entity":"order"}`))
	})

	_, err := c.CreateOrder(context.Background(), services.OrderRequest{Amount: 100, Currency: "INR"})
	assert.Error(t, err)
}

func TestCreateOrder_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.CreateOrder(ctx, services.OrderRequest{Amount: 100, Currency: "INR"})
	assert.Error(t, err)
}

func TestRazorpay_VerifySignature(t *testing.T) {
	c := NewRazorpayClient(RazorpayConfig{KeyID: "rzp_test_key", KeySecret: "rzp_secret"}, zap.NewNop())
	defer c.Close()

	sig := signature.Sign("rzp_secret", "order_1", "pay_1")
	assert.True(t, c.VerifySignature("order_1", "pay_1", sig))
	assert.False(t, c.VerifySignature("order_1", "pay_2", sig))
	assert.Equal(t, "rzp_test_key", c.KeyID())
}

func TestOfflineGateway(t *testing.T) {
	g := NewOfflineGateway("local", zap.NewNop())

	order, err := g.CreateOrder(context.Background(), services.OrderRequest{Amount: 500, Currency: "INR"})
	require.NoError(t, err)
	assert.Regexp(t, `^order_[0-9a-f]{14}$`, order.ID)
	assert.Equal(t, int64(500), order.Amount)

	sig := g.Sign(order.ID, "pay_1")
	assert.True(t, g.VerifySignature(order.ID, "pay_1", sig))
	assert.False(t, g.VerifySignature(order.ID, "pay_1", "bogus"))
	assert.Equal(t, OfflineKeyID, g.KeyID())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.CreateOrder(ctx, services.OrderRequest{Amount: 500})
	assert.ErrorIs(t, err, context.Canceled)
}
