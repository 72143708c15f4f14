package repositories

import (
	"context"

	"dailywage-hub/internal/adapters/persistence/models"
	"dailywage-hub/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// jobRepository implements JobRepository interface
type jobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new job repository
func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

// Create creates a new job
func (r *jobRepository) Create(ctx context.Context, job *models.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

// GetByID gets a job by ID
func (r *jobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// List lists jobs matching the filter, newest first
func (r *jobRepository) List(ctx context.Context, filter JobFilter) ([]*models.Job, int64, error) {
	var jobs []*models.Job
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Job{})
	if filter.WorkType != "" {
		query = query.Where("work_type = ?", filter.WorkType)
	}
	if filter.Location != "" {
		query = query.Where("location LIKE ?", "%"+filter.Location+"%")
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.EmployerID != nil {
		query = query.Where("employer_id = ?", *filter.EmployerID)
	}
	if filter.AssignedWorkerID != nil {
		query = query.Where("assigned_worker_id = ?", *filter.AssignedWorkerID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Offset(filter.Offset).Limit(filter.Limit)
	}
	if err := query.Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, 0, err
	}

	return jobs, total, nil
}

// Transition runs UPDATE jobs SET status = to, ... WHERE id = ? AND status = from.
// The status predicate makes the check and the write one statement, so two
// concurrent callers racing on the same job cannot both succeed. Edges
// missing from the domain transition table are refused without a query.
func (r *jobRepository) Transition(ctx context.Context, id uuid.UUID, from, to domain.JobStatus, fields map[string]interface{}) (bool, error) {
	if !domain.CanTransition(from, to) {
		return false, domain.IllegalTransition(from, to)
	}

	updates := map[string]interface{}{"status": to}
	for k, v := range fields {
		updates[k] = v
	}

	res := r.db.WithContext(ctx).
		Model(&models.Job{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
