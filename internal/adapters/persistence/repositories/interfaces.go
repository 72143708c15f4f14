package repositories

import (
	"context"

	"dailywage-hub/internal/adapters/persistence/models"
	"dailywage-hub/internal/core/domain"

	"github.com/google/uuid"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	List(ctx context.Context, filter UserFilter) ([]*models.User, int64, error)
}

// UserFilter narrows user listings
type UserFilter struct {
	Role   domain.Role
	Skill  string
	Offset int
	Limit  int
}

// SessionRepository defines session store interface
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error)
	Revoke(ctx context.Context, id uuid.UUID) error
	RevokeAllByUserID(ctx context.Context, userID uuid.UUID) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// JobRepository defines job repository interface
type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	List(ctx context.Context, filter JobFilter) ([]*models.Job, int64, error)
	// Transition moves a job from one status to another in a single
	// conditional update. It reports false when the job was not in from.
	Transition(ctx context.Context, id uuid.UUID, from, to domain.JobStatus, fields map[string]interface{}) (bool, error)
}

// JobFilter narrows job listings
type JobFilter struct {
	WorkType         string
	Location         string
	Status           domain.JobStatus
	EmployerID       *uuid.UUID
	AssignedWorkerID *uuid.UUID
	Offset           int
	Limit            int
}

// ApplicationRepository defines job application repository interface
type ApplicationRepository interface {
	Create(ctx context.Context, app *models.JobApplication) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.JobApplication, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]*models.JobApplication, error)
	ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*models.JobApplication, error)
	FindActive(ctx context.Context, jobID, workerID uuid.UUID) (*models.JobApplication, error)
	GetAcceptedForJob(ctx context.Context, jobID uuid.UUID) (*models.JobApplication, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to domain.ApplicationStatus) (bool, error)
	RejectPendingForJob(ctx context.Context, jobID, exceptID uuid.UUID) (int64, error)
}

// MessageRepository defines message repository interface
type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Message, error)
	ListConversation(ctx context.Context, userA, userB uuid.UUID) ([]*models.Message, error)
	MarkRead(ctx context.Context, id uuid.UUID) (bool, error)
	CountUnread(ctx context.Context, receiverID uuid.UUID) (int64, error)
}

// PaymentRepository defines payment repository interface
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByOrderID(ctx context.Context, orderID string) (*models.Payment, error)
	GetLatestByJob(ctx context.Context, jobID uuid.UUID) (*models.Payment, error)
	GetActiveByJob(ctx context.Context, jobID uuid.UUID) (*models.Payment, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from []domain.PaymentStatus, to domain.PaymentStatus, fields map[string]interface{}) (bool, error)
}
