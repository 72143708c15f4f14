package services

import (
	"context"
	"math"
	"strings"
	"time"

	"dailywage-hub/internal/adapters/persistence/models"
	"dailywage-hub/internal/adapters/persistence/repositories"
	"dailywage-hub/internal/core/domain"
	"dailywage-hub/internal/pkg/logger"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Payment errors
var (
	ErrSignatureMismatch = domain.BusinessRule("signature verification failed")
	ErrPaymentNotActive  = domain.BusinessRule("Payment must be in 'pending' status")
	ErrPaymentReverified = domain.Conflict("Payment was already verified with a different payment id")
	ErrPaymentForbidden  = domain.Forbidden("You cannot access this payment")
	ErrAmountOutOfRange  = domain.BusinessRule("Payment amount is out of range")

	ErrCheckoutUnavailable = domain.NotFound("Offline checkout is not available")
)

const gatewayUnavailable = "Payment gateway unavailable"

// PaymentOptions holds the settlement policy
type PaymentOptions struct {
	Currency string
	// PeriodMultiplier is how many wage periods a daily or hourly job is
	// billed for. Fixed wages are billed once.
	PeriodMultiplier int64
	GatewayTimeout   time.Duration
}

// PaymentService bridges jobs awaiting payment to the payment gateway
type PaymentService struct {
	store   *repositories.Store
	gateway PaymentGateway
	opts    PaymentOptions
	log     *zap.Logger
	now     func() time.Time
}

// NewPaymentService creates a new payment service
func NewPaymentService(store *repositories.Store, gateway PaymentGateway, opts PaymentOptions, log *zap.Logger) *PaymentService {
	return &PaymentService{
		store:   store,
		gateway: gateway,
		opts:    opts,
		log:     log,
		now:     time.Now,
	}
}

// OrderResult is what the client needs to open checkout
type OrderResult struct {
	OrderID   string    `json:"orderId"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	KeyID     string    `json:"keyId"`
	PaymentID uuid.UUID `json:"paymentId"`
}

// VerifyInput is the gateway's checkout callback
type VerifyInput struct {
	OrderID   string `json:"razorpayOrderId"`
	PaymentID string `json:"razorpayPaymentId"`
	Signature string `json:"razorpaySignature"`
}

// VerifyResult reports the outcome of a verification
type VerifyResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// FailureInput is the gateway's checkout failure callback
type FailureInput struct {
	OrderID string `json:"razorpayOrderId"`
	Reason  string `json:"reason"`
}

// Amount is the charge for a job in minor currency units. Every factor
// must be positive and the product must fit in an int64.
func Amount(job *models.Job, periodMultiplier int64) (int64, error) {
	factors := []int64{job.WageAmount, int64(job.WorkersNeeded)}
	if job.WageUnit != domain.WageFixed {
		factors = append(factors, periodMultiplier)
	}

	total := int64(1)
	for _, f := range factors {
		if f <= 0 || total > math.MaxInt64/f {
			return 0, ErrAmountOutOfRange
		}
		total *= f
	}
	return total, nil
}

// CreateOrder opens a gateway order for a job awaiting payment. A job with
// an order still pending gets that order back instead of a new one.
func (s *PaymentService) CreateOrder(ctx context.Context, principal domain.Principal, jobID uuid.UUID) (*OrderResult, error) {
	job, err := s.store.Jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, notFoundOr(err, ErrJobNotFound, "get job")
	}
	if !job.IsOwnedBy(principal.UserID) && !principal.IsAdmin() {
		return nil, ErrNotJobOwner
	}
	if job.Status != domain.JobAwaitingPayment || job.AssignedWorkerID == nil {
		return nil, domain.JobStatusGuard(domain.JobAwaitingPayment)
	}

	active, err := s.store.Payments.GetActiveByJob(ctx, jobID)
	if err != nil {
		return nil, errors.Wrap(err, "find active payment")
	}
	if active != nil {
		return s.orderResult(active), nil
	}

	amount, err := Amount(job, s.opts.PeriodMultiplier)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.opts.GatewayTimeout)
	defer cancel()

	order, err := s.gateway.CreateOrder(callCtx, OrderRequest{
		Amount:   amount,
		Currency: s.opts.Currency,
		Receipt:  job.ID.String(),
		Notes: map[string]string{
			"job_id":      job.ID.String(),
			"employer_id": job.EmployerID.String(),
			"worker_id":   job.AssignedWorkerID.String(),
		},
	})
	if err != nil {
		s.log.Error("❌ Gateway order creation failed",
			zap.String(logger.FieldJobID, job.ID.String()),
			zap.Error(err))
		if domain.KindOf(err) != 0 {
			return nil, err
		}
		return nil, domain.ExternalService(gatewayUnavailable, err)
	}

	payment := &models.Payment{
		JobID:           job.ID,
		EmployerID:      job.EmployerID,
		WorkerID:        *job.AssignedWorkerID,
		Amount:          amount,
		Currency:        s.opts.Currency,
		Status:          domain.PaymentPending,
		PaymentMethod:   "razorpay",
		RazorpayOrderID: order.ID,
	}
	if err := s.store.Payments.Create(ctx, payment); err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.Wrap(err, "create payment")
		}
		// a concurrent request holds the job's active payment; its order wins
		winner, findErr := s.store.Payments.GetActiveByJob(ctx, jobID)
		if findErr != nil {
			return nil, errors.Wrap(findErr, "find active payment")
		}
		if winner == nil {
			return nil, errors.Wrap(err, "create payment")
		}
		s.log.Warn("⚠️ Concurrent order discarded",
			zap.String(logger.FieldOrderID, order.ID),
			zap.String(logger.FieldJobID, job.ID.String()),
			zap.String("kept_order_id", winner.RazorpayOrderID))
		return s.orderResult(winner), nil
	}

	s.log.Info("✅ Payment order created",
		zap.String(logger.FieldPaymentID, payment.ID.String()),
		zap.String(logger.FieldOrderID, order.ID),
		zap.String(logger.FieldJobID, job.ID.String()),
		zap.Int64("amount", amount))
	return s.orderResult(payment), nil
}

// Verify checks a checkout callback and settles the job. The signature is
// checked before anything else; a mismatch changes nothing. Re-verifying
// a completed payment with the same gateway payment id is a no-op success.
func (s *PaymentService) Verify(ctx context.Context, principal domain.Principal, input *VerifyInput) (*VerifyResult, error) {
	payment, err := s.store.Payments.GetByOrderID(ctx, input.OrderID)
	if err != nil {
		return nil, notFoundOr(err, ErrPaymentNotFound, "get payment")
	}
	if !principal.Is(payment.EmployerID) && !principal.IsAdmin() {
		return nil, ErrPaymentForbidden
	}

	if !s.gateway.VerifySignature(input.OrderID, input.PaymentID, input.Signature) {
		s.log.Warn("⚠️ Payment signature mismatch",
			zap.String(logger.FieldOrderID, input.OrderID),
			zap.String(logger.FieldPaymentID, payment.ID.String()))
		return nil, ErrSignatureMismatch
	}

	if payment.Status == domain.PaymentCompleted {
		return alreadyVerified(payment, input.PaymentID)
	}
	if !payment.Status.IsActive() {
		return nil, ErrPaymentNotActive
	}

	now := s.now()
	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		ok, err := tx.Payments.TransitionStatus(ctx, payment.ID, domain.ActivePaymentStatuses, domain.PaymentCompleted, map[string]interface{}{
			"razorpay_payment_id": input.PaymentID,
			"razorpay_signature":  input.Signature,
			"paid_at":             now,
		})
		if err != nil {
			return errors.Wrap(err, "complete payment")
		}
		if !ok {
			return ErrPaymentNotActive
		}

		ok, err = tx.Jobs.Transition(ctx, payment.JobID, domain.JobAwaitingPayment, domain.JobPaid, nil)
		if err != nil {
			return errors.Wrap(err, "mark job paid")
		}
		if !ok {
			return domain.JobStatusGuard(domain.JobAwaitingPayment)
		}
		return nil
	})
	if errors.Is(err, ErrPaymentNotActive) {
		// lost the race to a concurrent verify of the same order
		current, reloadErr := s.store.Payments.GetByOrderID(ctx, input.OrderID)
		if reloadErr != nil {
			return nil, notFoundOr(reloadErr, ErrPaymentNotFound, "get payment")
		}
		if current.Status == domain.PaymentCompleted {
			return alreadyVerified(current, input.PaymentID)
		}
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("✅ Payment verified",
		zap.String(logger.FieldPaymentID, payment.ID.String()),
		zap.String(logger.FieldOrderID, input.OrderID),
		zap.String(logger.FieldJobID, payment.JobID.String()),
		zap.String(logger.FieldFrom, string(domain.JobAwaitingPayment)),
		zap.String(logger.FieldTo, string(domain.JobPaid)))
	return &VerifyResult{Success: true, Message: "Payment verified successfully"}, nil
}

// MarkFailed records a failed checkout. The job stays awaiting payment so
// a new order can be created.
func (s *PaymentService) MarkFailed(ctx context.Context, principal domain.Principal, input *FailureInput) (*models.Payment, error) {
	payment, err := s.store.Payments.GetByOrderID(ctx, input.OrderID)
	if err != nil {
		return nil, notFoundOr(err, ErrPaymentNotFound, "get payment")
	}
	if !principal.Is(payment.EmployerID) && !principal.IsAdmin() {
		return nil, ErrPaymentForbidden
	}

	reason := input.Reason
	ok, err := s.store.Payments.TransitionStatus(ctx, payment.ID, domain.ActivePaymentStatuses, domain.PaymentFailed, map[string]interface{}{
		"failure_reason": &reason,
	})
	if err != nil {
		return nil, errors.Wrap(err, "fail payment")
	}
	if !ok {
		return nil, ErrPaymentNotActive
	}

	s.log.Warn("⚠️ Payment failed",
		zap.String(logger.FieldPaymentID, payment.ID.String()),
		zap.String(logger.FieldOrderID, input.OrderID),
		zap.String("reason", reason))

	updated, err := s.store.Payments.GetByOrderID(ctx, input.OrderID)
	if err != nil {
		return nil, notFoundOr(err, ErrPaymentNotFound, "get payment")
	}
	return updated, nil
}

// GetForJob returns the job's latest payment. The job's employer, its
// assigned worker and admins may read it.
func (s *PaymentService) GetForJob(ctx context.Context, principal domain.Principal, jobID uuid.UUID) (*models.Payment, error) {
	job, err := s.store.Jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, notFoundOr(err, ErrJobNotFound, "get job")
	}
	if !job.IsOwnedBy(principal.UserID) && !job.IsAssignedTo(principal.UserID) && !principal.IsAdmin() {
		return nil, ErrPaymentForbidden
	}

	payment, err := s.store.Payments.GetLatestByJob(ctx, jobID)
	if err != nil {
		return nil, notFoundOr(err, ErrPaymentNotFound, "get payment")
	}
	return payment, nil
}

// alreadyVerified answers a verify for a payment that is completed
// OfflineCheckout stands in for the hosted checkout page when the gateway
// signs locally. It returns the callback the client then sends to Verify.
func (s *PaymentService) OfflineCheckout(ctx context.Context, principal domain.Principal, orderID string) (*VerifyInput, error) {
	signer, ok := s.gateway.(CheckoutSigner)
	if !ok {
		return nil, ErrCheckoutUnavailable
	}

	payment, err := s.store.Payments.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, notFoundOr(err, ErrPaymentNotFound, "get payment")
	}
	if !principal.Is(payment.EmployerID) && !principal.IsAdmin() {
		return nil, ErrPaymentForbidden
	}
	if !payment.Status.IsActive() {
		return nil, ErrPaymentNotActive
	}

	paymentID := "pay_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:14]
	s.log.Debug("Offline checkout signed",
		zap.String(logger.FieldOrderID, orderID),
		zap.String(logger.FieldPaymentID, payment.ID.String()))

	return &VerifyInput{
		OrderID:   orderID,
		PaymentID: paymentID,
		Signature: signer.Sign(orderID, paymentID),
	}, nil
}

func alreadyVerified(p *models.Payment, paymentID string) (*VerifyResult, error) {
	if p.RazorpayPaymentID != nil && *p.RazorpayPaymentID == paymentID {
		return &VerifyResult{Success: true, Message: "Payment already verified"}, nil
	}
	return nil, ErrPaymentReverified
}

func (s *PaymentService) orderResult(p *models.Payment) *OrderResult {
	return &OrderResult{
		OrderID:   p.RazorpayOrderID,
		Amount:    p.Amount,
		Currency:  p.Currency,
		KeyID:     s.gateway.KeyID(),
		PaymentID: p.ID,
	}
}
