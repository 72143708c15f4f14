package services

import "context"

// OrderRequest is what the payment gateway needs to open an order
type OrderRequest struct {
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]string
}

// GatewayOrder is the gateway's record of an intended charge
type GatewayOrder struct {
	ID       string
	Amount   int64
	Currency string
	Status   string
}

// PaymentGateway is the third-party payment provider
type PaymentGateway interface {
	// CreateOrder opens an order. ctx carries the call's deadline.
	CreateOrder(ctx context.Context, req OrderRequest) (*GatewayOrder, error)
	// VerifySignature checks a checkout callback signature
	VerifySignature(orderID, paymentID, signature string) bool
	// KeyID is the publishable key the client uses to start checkout
	KeyID() string
}

// CheckoutSigner signs checkout callbacks locally. Only the offline
// gateway implements it.
type CheckoutSigner interface {
	Sign(orderID, paymentID string) string
}
