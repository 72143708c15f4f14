package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"dailywage-hub/internal/adapters/persistence/models"
	"dailywage-hub/internal/adapters/persistence/repositories"
	"dailywage-hub/internal/core/domain"
	"dailywage-hub/internal/pkg/password"
	"dailywage-hub/internal/pkg/signature"

	"github.com/cockroachdb/errors"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const gatewaySecret = "test_gateway_secret"

// fakeGateway is an in-process PaymentGateway
type fakeGateway struct {
	mu    sync.Mutex
	calls int
	fail  error
	delay time.Duration
	// onVerify runs once, after the signature is checked
	onVerify func()
}

func (g *fakeGateway) CreateOrder(ctx context.Context, req OrderRequest) (*GatewayOrder, error) {
	g.mu.Lock()
	g.calls++
	n, fail, delay := g.calls, g.fail, g.delay
	g.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if fail != nil {
		return nil, fail
	}
	return &GatewayOrder{ID: fmt.Sprintf("order_test%04d", n), Amount: req.Amount, Currency: req.Currency, Status: "created"}, nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, sig string) bool {
	g.mu.Lock()
	hook := g.onVerify
	g.onVerify = nil
	g.mu.Unlock()

	ok := signature.Verify(gatewaySecret, orderID, paymentID, sig)
	if hook != nil {
		hook()
	}
	return ok
}

func (g *fakeGateway) KeyID() string { return "rzp_test_key" }

func (g *fakeGateway) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// testEnv wires every service over one in-memory database
type testEnv struct {
	store    *repositories.Store
	gateway  *fakeGateway
	auth     *AuthService
	users    *UserService
	jobs     *JobService
	apps     *ApplicationService
	payments *PaymentService
	messages *MessageService
}

func newTestEnv(t *testing.T, policy domain.LifecyclePolicy) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, models.AutoMigrate(db))

	store := repositories.NewStore(db)
	gw := &fakeGateway{}
	log := zap.NewNop()
	fastHash := func(p string) (string, error) { return password.HashWithCost(p, bcrypt.MinCost) }

	auth := NewAuthService(store.Users, store.Sessions, "test_secret", time.Hour, log)
	auth.hashPassword = fastHash
	users := NewUserService(store.Users, log)
	users.hashPassword = fastHash

	return &testEnv{
		store:    store,
		gateway:  gw,
		auth:     auth,
		users:    users,
		jobs:     NewJobService(store, policy, log),
		apps:     NewApplicationService(store, policy, log),
		payments: NewPaymentService(store, gw, PaymentOptions{Currency: "INR", PeriodMultiplier: 3, GatewayTimeout: time.Second}, log),
		messages: NewMessageService(store, log),
	}
}

func (e *testEnv) user(t *testing.T, username string, role domain.Role) (*models.User, domain.Principal) {
	t.Helper()
	hash, err := password.HashWithCost("password123", bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{Username: username, Password: hash, Role: role, Name: username}
	require.NoError(t, e.store.Users.Create(context.Background(), u))
	return u, domain.Principal{UserID: u.ID, Role: role}
}

func (e *testEnv) openJob(t *testing.T, employer domain.Principal) *models.Job {
	t.Helper()
	job, err := e.jobs.Create(context.Background(), employer, &CreateJobInput{
		Title:      "Brick carrying",
		WorkType:   "construction",
		Location:   "Pune",
		WageAmount: 800,
		WageUnit:   domain.WageDaily,
	})
	require.NoError(t, err)
	return job
}

func (e *testEnv) apply(t *testing.T, worker domain.Principal, jobID uuid.UUID) *models.JobApplication {
	t.Helper()
	app, err := e.apps.Apply(context.Background(), worker, &ApplyInput{JobID: jobID})
	require.NoError(t, err)
	return app
}

func (e *testEnv) reloadJob(t *testing.T, id uuid.UUID) *models.Job {
	t.Helper()
	job, err := e.store.Jobs.GetByID(context.Background(), id)
	require.NoError(t, err)
	return job
}

// awaitingPayment drives a fresh job through accept and complete
func (e *testEnv) awaitingPayment(t *testing.T, employer, worker domain.Principal) *models.Job {
	t.Helper()
	ctx := context.Background()
	job := e.openJob(t, employer)
	app := e.apply(t, worker, job.ID)
	_, err := e.apps.UpdateStatus(ctx, employer, app.ID, domain.ApplicationAccepted)
	require.NoError(t, err)
	job, err = e.jobs.Complete(ctx, employer, job.ID)
	require.NoError(t, err)
	return job
}

// sign produces the callback signature the gateway would send
func sign(orderID, paymentID string) string {
	return signature.Sign(gatewaySecret, orderID, paymentID)
}

func requireKind(t *testing.T, err error, kind domain.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind.String(), domain.KindOf(err).String(), "error: %v", err)
}

var errGatewayDown = errors.New("dial tcp: connection refused")
