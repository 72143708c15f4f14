package repositories

import (
	"context"
	"errors"

	"dailywage-hub/internal/adapters/persistence/models"
	"dailywage-hub/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// applicationRepository implements ApplicationRepository interface
type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new job application repository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// Create creates a new application
func (r *applicationRepository) Create(ctx context.Context, app *models.JobApplication) error {
	return r.db.WithContext(ctx).Create(app).Error
}

// GetByID gets an application by ID
func (r *applicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.JobApplication, error) {
	var app models.JobApplication
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// ListByJob returns all applications for a job, oldest first
func (r *applicationRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]*models.JobApplication, error) {
	var apps []*models.JobApplication
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at ASC").
		Find(&apps).Error
	return apps, err
}

// ListByWorker returns all applications made by a worker, newest first
func (r *applicationRepository) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*models.JobApplication, error) {
	var apps []*models.JobApplication
	err := r.db.WithContext(ctx).
		Where("worker_id = ?", workerID).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}

// FindActive returns the worker's pending or accepted application for a job,
// or nil when there is none
func (r *applicationRepository) FindActive(ctx context.Context, jobID, workerID uuid.UUID) (*models.JobApplication, error) {
	var app models.JobApplication
	err := r.db.WithContext(ctx).
		Where("job_id = ? AND worker_id = ? AND status IN ?", jobID, workerID,
			[]domain.ApplicationStatus{domain.ApplicationPending, domain.ApplicationAccepted}).
		Order("created_at DESC").
		First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// GetAcceptedForJob returns the accepted application of a job, or nil
func (r *applicationRepository) GetAcceptedForJob(ctx context.Context, jobID uuid.UUID) (*models.JobApplication, error) {
	var app models.JobApplication
	err := r.db.WithContext(ctx).
		Where("job_id = ? AND status = ?", jobID, domain.ApplicationAccepted).
		First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// TransitionStatus updates an application's status only if it is still in from
func (r *applicationRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to domain.ApplicationStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.JobApplication{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// RejectPendingForJob rejects every pending application of a job except one
func (r *applicationRepository) RejectPendingForJob(ctx context.Context, jobID, exceptID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.JobApplication{}).
		Where("job_id = ? AND id <> ? AND status = ?", jobID, exceptID, domain.ApplicationPending).
		Update("status", domain.ApplicationRejected)
	return res.RowsAffected, res.Error
}
