package services

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"dailywage-hub/internal/adapters/persistence/models"
	"dailywage-hub/internal/core/domain"
	"dailywage-hub/internal/pkg/signature"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAmount(t *testing.T) {
	tests := []struct {
		name       string
		wage       int64
		unit       domain.WageUnit
		workers    int
		multiplier int64
		want       int64
		wantErr    bool
	}{
		{"daily", 800, domain.WageDaily, 1, 3, 2400, false},
		{"hourly crew", 100, domain.WageHourly, 4, 3, 1200, false},
		{"fixed ignores multiplier", 5000, domain.WageFixed, 2, 3, 10000, false},
		{"posting limits", domain.MaxWageAmount, domain.WageDaily, domain.MaxWorkersNeeded, 3, 30_000_000_000, false},
		{"exactly max int64", math.MaxInt64, domain.WageFixed, 1, 3, math.MaxInt64, false},
		{"wage overflow", 4e18, domain.WageDaily, 1, 3, 0, true},
		{"headcount overflow", math.MaxInt64 / 2, domain.WageFixed, 3, 1, 0, true},
		{"zero workers", 800, domain.WageDaily, 0, 3, 0, true},
		{"zero multiplier", 800, domain.WageDaily, 1, 0, 0, true},
		{"negative wage", -800, domain.WageFixed, 1, 3, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := &models.Job{WageAmount: tt.wage, WageUnit: tt.unit, WorkersNeeded: tt.workers}
			got, err := Amount(job, tt.multiplier)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrAmountOutOfRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreateOrder_AmountOutOfRange(t *testing.T) {
	env := newTestEnv(t, domain.LifecyclePolicy{})
	ctx := context.Background()
	_, employer := env.user(t, "emp", domain.RoleEmployer)
	_, worker := env.user(t, "wrk", domain.RoleWorker)
	job := env.awaitingPayment(t, employer, worker)

	// rows written before the posting limits existed
	require.NoError(t, env.store.DB().Model(&models.Job{}).Where("id = ?", job.ID).
		Update("wage_amount", int64(4e18)).Error)

	_, err := env.payments.CreateOrder(ctx, employer, job.ID)
	assert.ErrorIs(t, err, ErrAmountOutOfRange)
	assert.Equal(t, 0, env.gateway.Calls())
}

func TestCreateOrder_ReusesActivePayment(t *testing.T) {
	env := newTestEnv(t, domain.LifecyclePolicy{})
	ctx := context.Background()
	_, employer := env.user(t, "emp", domain.RoleEmployer)
	_, worker := env.user(t, "wrk", domain.RoleWorker)
	job := env.awaitingPayment(t, employer, worker)

	first, err := env.payments.CreateOrder(ctx, employer, job.ID)
	require.NoError(t, err)
	second, err := env.payments.CreateOrder(ctx, employer, job.ID)
	require.NoError(t, err)

	assert.Equal(t, first.OrderID, second.OrderID)
	assert.Equal(t, first.PaymentID, second.PaymentID)
	assert.Equal(t, 1, env.gateway.Calls())
}

func TestCreateOrder_ConcurrentCallsShareOneOrder(t *testing.T) {
	env := newTestEnv(t, domain.LifecyclePolicy{})
	ctx := context.Background()
	_, employer := env.user(t, "emp", domain.RoleEmployer)
	_, worker := env.user(t, "wrk", domain.RoleWorker)
	job := env.awaitingPayment(t, employer, worker)
	env.gateway.delay = 100 * time.Millisecond

	results := make([]*OrderResult, 2)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = env.payments.CreateOrder(ctx, employer, job.ID)
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, results[0].OrderID, results[1].OrderID)
	assert.Equal(t, results[0].PaymentID, results[1].PaymentID)

	var rows int64
	require.NoError(t, env.store.DB().Model(&models.Payment{}).Where("job_id = ?", job.ID).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	// settling the shared order leaves no pending payment behind
	orderID := results[0].OrderID
	_, err := env.payments.Verify(ctx, employer, &VerifyInput{OrderID: orderID, PaymentID: "pay_1", Signature: sign(orderID, "pay_1")})
	require.NoError(t, err)

	got, err := env.payments.GetForJob(ctx, employer, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, got.Status)
	assert.Equal(t, domain.JobPaid, env.reloadJob(t, job.ID).Status)
}

func TestCreateOrder_Guards(t *testing.T) {
	env := newTestEnv(t, domain.LifecyclePolicy{})
	ctx := context.Background()
	_, employer := env.user(t, "emp", domain.RoleEmployer)
	_, other := env.user(t, "emp2", domain.RoleEmployer)

	open := env.openJob(t, employer)
	_, err := env.payments.CreateOrder(ctx, employer, open.ID)
	requireKind(t, err, domain.KindBusinessRule)
	assert.Equal(t, "Job must be in 'awaiting_payment' status", err.Error())

	_, err = env.payments.CreateOrder(ctx, other, open.ID)
	assert.ErrorIs(t, err, ErrNotJobOwner)

	_, err = env.payments.CreateOrder(ctx, employer, uuid.New())
	assert.ErrorIs(t, err, ErrJobNotFound)
	assert.Zero(t, env.gateway.Calls())
}

func TestCreateOrder_GatewayFailure(t *testing.T) {
	env := newTestEnv(t, domain.LifecyclePolicy{})
	ctx := context.Background()
	_, employer := env.user(t, "emp", domain.RoleEmployer)
	_, worker := env.user(t, "wrk", domain.RoleWorker)
	job := env.awaitingPayment(t, employer, worker)

	env.gateway.fail = errGatewayDown
	_, err := env.payments.CreateOrder(ctx, employer, job.ID)
	requireKind(t, err, domain.KindExternalService)
	assert.Equal(t, 503, domain.KindOf(err).HTTPStatus())

	_, err = env.store.Payments.GetLatestByJob(ctx, job.ID)
	assert.Error(t, err, "nothing is persisted when the gateway fails")
	assert.Equal(t, domain.JobAwaitingPayment, env.reloadJob(t, job.ID).Status)
}

func TestCreateOrder_GatewayTimeout(t *testing.T) {
	env := newTestEnv(t, domain.LifecyclePolicy{})
	ctx := context.Background()
	_, employer := env.user(t, "emp", domain.RoleEmployer)
	_, worker := env.user(t, "wrk", domain.RoleWorker)
	job := env.awaitingPayment(t, employer, worker)

	env.payments.opts.GatewayTimeout = 10 * time.Millisecond
	env.gateway.delay = time.Second

	_, err := env.payments.CreateOrder(ctx, employer, job.ID)
	requireKind(t, err, domain.KindExternalService)
}

func TestVerify_BadSignatureChangesNothing(t *testing.T) {
	env := newTestEnv(t, domain.LifecyclePolicy{})
	ctx := context.Background()
	_, employer := env.user(t, "emp", domain.RoleEmployer)
	_, worker := env.user(t, "wrk", domain.RoleWorker)
	job := env.awaitingPayment(t, employer, worker)
	order, err := env.payments.CreateOrder(ctx, employer, job.ID)
	require.NoError(t, err)

	_, err = env.payments.Verify(ctx, employer, &VerifyInput{OrderID: order.OrderID, PaymentID: "pay_1", Signature: "deadbeef"})
	assert.ErrorIs(t, err, ErrSignatureMismatch)
	requireKind(t, err, domain.KindBusinessRule)

	p, err := env.store.Payments.GetByOrderID(ctx, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, p.Status)
	assert.Equal(t, domain.JobAwaitingPayment, env.reloadJob(t, job.ID).Status)
}

func TestVerify_Reverification(t *testing.T) {
	env := newTestEnv(t, domain.LifecyclePolicy{})
	ctx := context.Background()
	_, employer := env.user(t, "emp", domain.RoleEmployer)
	_, worker := env.user(t, "wrk", domain.RoleWorker)
	job := env.awaitingPayment(t, employer, worker)
	order, err := env.payments.CreateOrder(ctx, employer, job.ID)
	require.NoError(t, err)

	input := &VerifyInput{OrderID: order.OrderID, PaymentID: "pay_1", Signature: sign(order.OrderID, "pay_1")}
	_, err = env.payments.Verify(ctx, employer, input)
	require.NoError(t, err)

	res, err := env.payments.Verify(ctx, employer, input)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Payment already verified", res.Message)

	_, err = env.payments.Verify(ctx, employer, &VerifyInput{OrderID: order.OrderID, PaymentID: "pay_2", Signature: sign(order.OrderID, "pay_2")})
	assert.ErrorIs(t, err, ErrPaymentReverified)

	assert.Equal(t, domain.JobPaid, env.reloadJob(t, job.ID).Status)
}

func TestVerify_ConcurrentSameCallback(t *testing.T) {
	env := newTestEnv(t, domain.LifecyclePolicy{})
	ctx := context.Background()
	_, employer := env.user(t, "emp", domain.RoleEmployer)
	_, worker := env.user(t, "wrk", domain.RoleWorker)
	job := env.awaitingPayment(t, employer, worker)
	order, err := env.payments.CreateOrder(ctx, employer, job.ID)
	require.NoError(t, err)
	input := &VerifyInput{OrderID: order.OrderID, PaymentID: "pay_1", Signature: sign(order.OrderID, "pay_1")}

	// the other callback settles the payment between our read and our write
	env.gateway.onVerify = func() {
		res, err := env.payments.Verify(ctx, employer, input)
		require.NoError(t, err)
		assert.Equal(t, "Payment verified successfully", res.Message)
	}

	res, err := env.payments.Verify(ctx, employer, input)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Payment already verified", res.Message)
	assert.Equal(t, domain.JobPaid, env.reloadJob(t, job.ID).Status)
}

func TestVerify_ConcurrentDifferentPaymentID(t *testing.T) {
	env := newTestEnv(t, domain.LifecyclePolicy{})
	ctx := context.Background()
	_, employer := env.user(t, "emp", domain.RoleEmployer)
	_, worker := env.user(t, "wrk", domain.RoleWorker)
	job := env.awaitingPayment(t, employer, worker)
	order, err := env.payments.CreateOrder(ctx, employer, job.ID)
	require.NoError(t, err)

	env.gateway.onVerify = func() {
		_, err := env.payments.Verify(ctx, employer, &VerifyInput{OrderID: order.OrderID, PaymentID: "pay_1", Signature: sign(order.OrderID, "pay_1")})
		require.NoError(t, err)
	}

	_, err = env.payments.Verify(ctx, employer, &VerifyInput{OrderID: order.OrderID, PaymentID: "pay_2", Signature: sign(order.OrderID, "pay_2")})
	assert.ErrorIs(t, err, ErrPaymentReverified)

	got, err := env.payments.GetForJob(ctx, employer, job.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RazorpayPaymentID)
	assert.Equal(t, "pay_1", *got.RazorpayPaymentID)
}

func TestVerify_Access(t *testing.T) {
	env := newTestEnv(t, domain.LifecyclePolicy{})
	ctx := context.Background()
	_, employer := env.user(t, "emp", domain.RoleEmployer)
	_, other := env.user(t, "emp2", domain.RoleEmployer)
	_, worker := env.user(t, "wrk", domain.RoleWorker)
	job := env.awaitingPayment(t, employer, worker)
	order, err := env.payments.CreateOrder(ctx, employer, job.ID)
	require.NoError(t, err)

	input := &VerifyInput{OrderID: order.OrderID, PaymentID: "pay_1", Signature: sign(order.OrderID, "pay_1")}
	_, err = env.payments.Verify(ctx, other, input)
	assert.ErrorIs(t, err, ErrPaymentForbidden)

	_, err = env.payments.Verify(ctx, employer, &VerifyInput{OrderID: "order_missing", PaymentID: "pay_1", Signature: "x"})
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestMarkFailed_AllowsNewOrder(t *testing.T) {
	env := newTestEnv(t, domain.LifecyclePolicy{})
	ctx := context.Background()
	_, employer := env.user(t, "emp", domain.RoleEmployer)
	_, worker := env.user(t, "wrk", domain.RoleWorker)
	job := env.awaitingPayment(t, employer, worker)

	first, err := env.payments.CreateOrder(ctx, employer, job.ID)
	require.NoError(t, err)

	failed, err := env.payments.MarkFailed(ctx, employer, &FailureInput{OrderID: first.OrderID, Reason: "card declined"})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentFailed, failed.Status)
	require.NotNil(t, failed.FailureReason)
	assert.Equal(t, "card declined", *failed.FailureReason)

	_, err = env.payments.MarkFailed(ctx, employer, &FailureInput{OrderID: first.OrderID})
	assert.ErrorIs(t, err, ErrPaymentNotActive)

	// a failed payment cannot be verified
	_, err = env.payments.Verify(ctx, employer, &VerifyInput{OrderID: first.OrderID, PaymentID: "pay_1", Signature: sign(first.OrderID, "pay_1")})
	assert.ErrorIs(t, err, ErrPaymentNotActive)

	second, err := env.payments.CreateOrder(ctx, employer, job.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.OrderID, second.OrderID)

	// the latest attempt is the job's payment
	latest, err := env.payments.GetForJob(ctx, employer, job.ID)
	require.NoError(t, err)
	assert.Equal(t, second.OrderID, latest.RazorpayOrderID)
}

func TestGetForJob_Access(t *testing.T) {
	env := newTestEnv(t, domain.LifecyclePolicy{})
	ctx := context.Background()
	_, employer := env.user(t, "emp", domain.RoleEmployer)
	_, worker := env.user(t, "wrk", domain.RoleWorker)
	_, stranger := env.user(t, "wrk2", domain.RoleWorker)
	job := env.awaitingPayment(t, employer, worker)

	_, err := env.payments.GetForJob(ctx, employer, job.ID)
	assert.ErrorIs(t, err, ErrPaymentNotFound)

	_, err = env.payments.CreateOrder(ctx, employer, job.ID)
	require.NoError(t, err)

	_, err = env.payments.GetForJob(ctx, worker, job.ID)
	assert.NoError(t, err)
	_, err = env.payments.GetForJob(ctx, stranger, job.ID)
	assert.ErrorIs(t, err, ErrPaymentForbidden)
}

// signingGateway is a fakeGateway that can complete checkouts itself
type signingGateway struct {
	*fakeGateway
}

func (g signingGateway) Sign(orderID, paymentID string) string {
	return signature.Sign(gatewaySecret, orderID, paymentID)
}

func TestOfflineCheckout_SignsVerifiableCallback(t *testing.T) {
	env := newTestEnv(t, domain.LifecyclePolicy{})
	ctx := context.Background()
	payments := NewPaymentService(env.store, signingGateway{env.gateway}, PaymentOptions{Currency: "INR", PeriodMultiplier: 3, GatewayTimeout: time.Second}, zap.NewNop())
	_, employer := env.user(t, "emp", domain.RoleEmployer)
	_, worker := env.user(t, "wrk", domain.RoleWorker)
	_, stranger := env.user(t, "other", domain.RoleEmployer)
	job := env.awaitingPayment(t, employer, worker)

	order, err := payments.CreateOrder(ctx, employer, job.ID)
	require.NoError(t, err)

	_, err = payments.OfflineCheckout(ctx, stranger, order.OrderID)
	assert.ErrorIs(t, err, ErrPaymentForbidden)
	_, err = payments.OfflineCheckout(ctx, employer, "order_missing")
	requireKind(t, err, domain.KindNotFound)

	callback, err := payments.OfflineCheckout(ctx, employer, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderID, callback.OrderID)
	assert.Contains(t, callback.PaymentID, "pay_")

	res, err := payments.Verify(ctx, employer, callback)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, domain.JobPaid, env.reloadJob(t, job.ID).Status)

	_, err = payments.OfflineCheckout(ctx, employer, order.OrderID)
	assert.ErrorIs(t, err, ErrPaymentNotActive)
}

func TestOfflineCheckout_UnavailableWithRealGateway(t *testing.T) {
	env := newTestEnv(t, domain.LifecyclePolicy{})
	ctx := context.Background()
	_, employer := env.user(t, "emp", domain.RoleEmployer)
	_, worker := env.user(t, "wrk", domain.RoleWorker)
	job := env.awaitingPayment(t, employer, worker)
	order, err := env.payments.CreateOrder(ctx, employer, job.ID)
	require.NoError(t, err)

	_, err = env.payments.OfflineCheckout(ctx, employer, order.OrderID)
	assert.ErrorIs(t, err, ErrCheckoutUnavailable)
}
