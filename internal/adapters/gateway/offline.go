package gateway

import (
	"context"
	"strings"

	"dailywage-hub/internal/core/services"
	"dailywage-hub/internal/pkg/signature"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OfflineKeyID is the publishable key reported by the offline gateway
const OfflineKeyID = "rzp_test_offline"

// OfflineGateway issues local order ids and signs with a local secret.
// It is used in dev when no Razorpay key is configured.
type OfflineGateway struct {
	secret string
	log    *zap.Logger
}

var _ services.PaymentGateway = (*OfflineGateway)(nil)

// NewOfflineGateway creates an offline gateway signing with secret
func NewOfflineGateway(secret string, log *zap.Logger) *OfflineGateway {
	log.Warn("⚠️ Razorpay key not set, using offline payment gateway")
	return &OfflineGateway{secret: secret, log: log}
}

// CreateOrder returns a locally generated order
func (g *OfflineGateway) CreateOrder(ctx context.Context, req services.OrderRequest) (*services.GatewayOrder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := "order_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:14]
	g.log.Debug("Offline order created", zap.String("order_id", id), zap.Int64("amount", req.Amount))

	return &services.GatewayOrder{
		ID:       id,
		Amount:   req.Amount,
		Currency: req.Currency,
		Status:   "created",
	}, nil
}

// Sign produces the signature a real checkout would return for the pair
func (g *OfflineGateway) Sign(orderID, paymentID string) string {
	return signature.Sign(g.secret, orderID, paymentID)
}

// VerifySignature checks a signature made with the local secret
func (g *OfflineGateway) VerifySignature(orderID, paymentID, sig string) bool {
	return signature.Verify(g.secret, orderID, paymentID, sig)
}

// KeyID returns the offline publishable key
func (g *OfflineGateway) KeyID() string {
	return OfflineKeyID
}
