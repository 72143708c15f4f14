package repositories

import (
	"context"
	"errors"

	"dailywage-hub/internal/adapters/persistence/models"
	"dailywage-hub/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// paymentRepository implements PaymentRepository interface
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Create creates a new payment. A second active payment for the same job
// fails with gorm.ErrDuplicatedKey.
func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// GetByOrderID gets a payment by its gateway order ID
func (r *paymentRepository) GetByOrderID(ctx context.Context, orderID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).Where("razorpay_order_id = ?", orderID).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetLatestByJob returns the payment of a job: its completed payment if
// there is one, otherwise the most recently created attempt.
func (r *paymentRepository) GetLatestByJob(ctx context.Context, jobID uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order(clause.OrderBy{Expression: clause.Expr{
			SQL:                "CASE WHEN status = ? THEN 0 ELSE 1 END, created_at DESC",
			Vars:               []interface{}{domain.PaymentCompleted},
			WithoutParentheses: true,
		}}).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetActiveByJob returns the pending/processing payment of a job, or nil
func (r *paymentRepository) GetActiveByJob(ctx context.Context, jobID uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("job_id = ? AND status IN ?", jobID, domain.ActivePaymentStatuses).
		Order("created_at DESC").
		First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// TransitionStatus moves a payment to status to only if it currently has
// one of the from statuses. Leaving the active statuses releases the job's
// active-payment slot.
func (r *paymentRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from []domain.PaymentStatus, to domain.PaymentStatus, fields map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{"status": to}
	for k, v := range fields {
		updates[k] = v
	}
	if !to.IsActive() {
		updates["active_job_id"] = nil
	}

	res := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
