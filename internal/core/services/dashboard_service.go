package services

import (
	"context"
	"time"

	"dailywage-hub/internal/adapters/persistence/models"
	"dailywage-hub/internal/core/domain"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DashboardService aggregates marketplace statistics
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// Dashboard is the caller's overview. Which fields are filled depends on
// the caller's role.
type Dashboard struct {
	Role domain.Role `json:"role"`

	// Admin only
	UsersByRole map[domain.Role]int64 `json:"usersByRole,omitempty"`

	JobsByStatus         map[domain.JobStatus]int64         `json:"jobsByStatus"`
	ApplicationsByStatus map[domain.ApplicationStatus]int64 `json:"applicationsByStatus,omitempty"`

	// Completed payments, minor currency units
	PaidTotal     int64 `json:"paidTotal"`
	PaidThisMonth int64 `json:"paidThisMonth"`

	RecentJobs []*models.Job `json:"recentJobs"`
}

type statusCount struct {
	Status string
	Count  int64
}

// Get returns the dashboard for the caller's role
func (s *DashboardService) Get(ctx context.Context, principal domain.Principal) (*Dashboard, error) {
	switch principal.Role {
	case domain.RoleAdmin:
		return s.admin(ctx)
	case domain.RoleEmployer:
		return s.scoped(ctx, principal, "employer_id")
	case domain.RoleWorker:
		return s.scoped(ctx, principal, "worker_id")
	}
	// NGOs see the marketplace-wide job picture
	return s.marketplace(ctx, principal.Role)
}

func (s *DashboardService) admin(ctx context.Context) (*Dashboard, error) {
	data, err := s.marketplace(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}

	var roles []struct {
		Role  string
		Count int64
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Scan(&roles).Error; err != nil {
		return nil, errors.Wrap(err, "count users")
	}
	data.UsersByRole = make(map[domain.Role]int64, len(roles))
	for _, r := range roles {
		data.UsersByRole[domain.Role(r.Role)] = r.Count
	}

	if err := s.paidTotals(ctx, s.db.WithContext(ctx).Model(&models.Payment{}), data); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *DashboardService) marketplace(ctx context.Context, role domain.Role) (*Dashboard, error) {
	data := &Dashboard{Role: role}

	var err error
	if data.JobsByStatus, err = s.jobCounts(s.db.WithContext(ctx).Model(&models.Job{})); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Order("created_at DESC").Limit(5).Find(&data.RecentJobs).Error; err != nil {
		return nil, errors.Wrap(err, "recent jobs")
	}
	return data, nil
}

// scoped builds an employer's or worker's own dashboard. column is the
// payments column that names the caller.
func (s *DashboardService) scoped(ctx context.Context, principal domain.Principal, column string) (*Dashboard, error) {
	data := &Dashboard{Role: principal.Role}
	db := s.db.WithContext(ctx)

	jobs := db.Model(&models.Job{}).Where("employer_id = ?", principal.UserID)
	recent := db.Where("employer_id = ?", principal.UserID)
	if principal.Role == domain.RoleWorker {
		jobs = db.Model(&models.Job{}).Where("assigned_worker_id = ?", principal.UserID)
		recent = db.Where("assigned_worker_id = ?", principal.UserID)

		var err error
		if data.ApplicationsByStatus, err = s.applicationCounts(ctx, principal.UserID); err != nil {
			return nil, err
		}
	}

	var err error
	if data.JobsByStatus, err = s.jobCounts(jobs); err != nil {
		return nil, err
	}
	if err := recent.Order("created_at DESC").Limit(5).Find(&data.RecentJobs).Error; err != nil {
		return nil, errors.Wrap(err, "recent jobs")
	}

	payments := db.Model(&models.Payment{}).Where(column+" = ?", principal.UserID)
	if err := s.paidTotals(ctx, payments, data); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *DashboardService) jobCounts(query *gorm.DB) (map[domain.JobStatus]int64, error) {
	var rows []statusCount
	if err := query.Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "count jobs")
	}
	counts := make(map[domain.JobStatus]int64, len(rows))
	for _, r := range rows {
		counts[domain.JobStatus(r.Status)] = r.Count
	}
	return counts, nil
}

func (s *DashboardService) applicationCounts(ctx context.Context, workerID uuid.UUID) (map[domain.ApplicationStatus]int64, error) {
	var rows []statusCount
	if err := s.db.WithContext(ctx).Model(&models.JobApplication{}).
		Where("worker_id = ?", workerID).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "count applications")
	}
	counts := make(map[domain.ApplicationStatus]int64, len(rows))
	for _, r := range rows {
		counts[domain.ApplicationStatus(r.Status)] = r.Count
	}
	return counts, nil
}

func (s *DashboardService) paidTotals(ctx context.Context, payments *gorm.DB, data *Dashboard) error {
	completed := payments.Where("status = ?", domain.PaymentCompleted)

	if err := completed.Session(&gorm.Session{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&data.PaidTotal).Error; err != nil {
		return errors.Wrap(err, "sum payments")
	}

	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if err := completed.Session(&gorm.Session{}).
		Where("paid_at >= ?", startOfMonth).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&data.PaidThisMonth).Error; err != nil {
		return errors.Wrap(err, "sum payments this month")
	}
	return nil
}
