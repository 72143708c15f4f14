package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dailywage-hub/internal/adapters/persistence/models"
	"dailywage-hub/internal/adapters/persistence/repositories"
	"dailywage-hub/internal/core/domain"
	"dailywage-hub/internal/pkg/logger"
	"dailywage-hub/internal/pkg/pagination"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Job service errors
var (
	ErrUseAssign         = domain.Validation("Use the assign endpoint or accept an application to start a job")
	ErrPaidByGatewayOnly = domain.BusinessRule("Only payment verification may mark a job paid")
	ErrPaymentInFlight   = domain.Conflict("A gateway payment is in progress for this job")
	ErrNotAWorker        = domain.Validation("Assigned user must be a worker",
		domain.FieldError{Field: "workerId", Message: "must reference a worker"})
)

// JobService is the job half of the lifecycle engine. Every status change
// goes through JobRepository.Transition so the guard and the write are a
// single conditional update.
type JobService struct {
	store  *repositories.Store
	policy domain.LifecyclePolicy
	log    *zap.Logger
	now    func() time.Time
}

// NewJobService creates a new job service
func NewJobService(store *repositories.Store, policy domain.LifecyclePolicy, log *zap.Logger) *JobService {
	return &JobService{
		store:  store,
		policy: policy,
		log:    log,
		now:    time.Now,
	}
}

// CreateJobInput represents job posting input
type CreateJobInput struct {
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	WorkType       string          `json:"workType"`
	Location       string          `json:"location"`
	Latitude       *float64        `json:"latitude"`
	Longitude      *float64        `json:"longitude"`
	WageAmount     int64           `json:"wageAmount"`
	WageUnit       domain.WageUnit `json:"wageUnit"`
	WorkersNeeded  int             `json:"workersNeeded"`
	RequiredSkills []string        `json:"requiredSkills"`
}

// ListJobsInput represents job search input
type ListJobsInput struct {
	WorkType         string
	Location         string
	Status           domain.JobStatus
	EmployerID       *uuid.UUID
	AssignedWorkerID *uuid.UUID
	Page             int
	Limit            int
}

// Create posts a new open job owned by the caller
func (s *JobService) Create(ctx context.Context, principal domain.Principal, input *CreateJobInput) (*models.Job, error) {
	workers := input.WorkersNeeded
	if workers == 0 {
		workers = 1
	}

	var fields []domain.FieldError
	if input.WageAmount < 1 || input.WageAmount > domain.MaxWageAmount {
		fields = append(fields, domain.FieldError{Field: "wageAmount",
			Message: fmt.Sprintf("must be between 1 and %d", domain.MaxWageAmount)})
	}
	if !input.WageUnit.Valid() {
		fields = append(fields, domain.FieldError{Field: "wageUnit", Message: "must be one of daily, hourly, fixed"})
	}
	if workers < 1 || workers > domain.MaxWorkersNeeded {
		fields = append(fields, domain.FieldError{Field: "workersNeeded",
			Message: fmt.Sprintf("must be between 1 and %d", domain.MaxWorkersNeeded)})
	}
	if len(fields) > 0 {
		return nil, domain.Validation("Request validation failed", fields...)
	}

	job := &models.Job{
		EmployerID:     principal.UserID,
		Title:          strings.TrimSpace(input.Title),
		Description:    input.Description,
		WorkType:       input.WorkType,
		Location:       input.Location,
		Latitude:       input.Latitude,
		Longitude:      input.Longitude,
		WageAmount:     input.WageAmount,
		WageUnit:       input.WageUnit,
		WorkersNeeded:  workers,
		RequiredSkills: input.RequiredSkills,
		Status:         domain.JobOpen,
	}

	if err := s.store.Jobs.Create(ctx, job); err != nil {
		return nil, errors.Wrap(err, "create job")
	}

	s.log.Info("✅ Job posted",
		zap.String(logger.FieldJobID, job.ID.String()),
		zap.String(logger.FieldUserID, principal.UserID.String()))
	return job, nil
}

// Get gets a job by ID
func (s *JobService) Get(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	job, err := s.store.Jobs.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrJobNotFound, "get job")
	}
	return job, nil
}

// List searches jobs, newest first
func (s *JobService) List(ctx context.Context, input *ListJobsInput) ([]*models.Job, int64, error) {
	if input.Status != "" && !input.Status.Valid() {
		return nil, 0, domain.Validation("Invalid status",
			domain.FieldError{Field: "status", Message: "unknown job status"})
	}

	params := pagination.NewParams(input.Page, input.Limit)
	jobs, total, err := s.store.Jobs.List(ctx, repositories.JobFilter{
		WorkType:         input.WorkType,
		Location:         input.Location,
		Status:           input.Status,
		EmployerID:       input.EmployerID,
		AssignedWorkerID: input.AssignedWorkerID,
		Offset:           params.Offset,
		Limit:            params.Limit,
	})
	if err != nil {
		return nil, 0, errors.Wrap(err, "list jobs")
	}
	return jobs, total, nil
}

// Assign starts an open job with the given worker. The worker's pending
// application for the job, if any, is accepted in the same transaction.
func (s *JobService) Assign(ctx context.Context, principal domain.Principal, jobID, workerID uuid.UUID) (*models.Job, error) {
	if _, err := s.ownedJob(ctx, principal, jobID); err != nil {
		return nil, err
	}

	worker, err := s.store.Users.GetByID(ctx, workerID)
	if err != nil {
		return nil, notFoundOr(err, ErrUserNotFound, "get worker")
	}
	if worker.Role != domain.RoleWorker {
		return nil, ErrNotAWorker
	}

	var job *models.Job
	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		ok, err := tx.Jobs.Transition(ctx, jobID, domain.JobOpen, domain.JobInProgress, map[string]interface{}{
			"assigned_worker_id": workerID,
			"started_at":         s.now(),
		})
		if err != nil {
			return errors.Wrap(err, "assign job")
		}
		if !ok {
			return domain.JobStatusGuard(domain.JobOpen)
		}

		app, err := tx.Applications.FindActive(ctx, jobID, workerID)
		if err != nil {
			return errors.Wrap(err, "find application")
		}
		exceptID := uuid.Nil
		if app != nil && app.Status == domain.ApplicationPending {
			if _, err := tx.Applications.TransitionStatus(ctx, app.ID, domain.ApplicationPending, domain.ApplicationAccepted); err != nil {
				return errors.Wrap(err, "accept application")
			}
			exceptID = app.ID
		}

		if err := s.settleCompetitors(ctx, tx, jobID, exceptID); err != nil {
			return err
		}

		job, err = tx.Jobs.GetByID(ctx, jobID)
		return errors.Wrap(err, "reload job")
	})
	if err != nil {
		return nil, err
	}

	s.logTransition(jobID, domain.JobOpen, domain.JobInProgress, zap.String(logger.FieldWorkerID, workerID.String()))
	return job, nil
}

// Complete marks the work done; the job then awaits payment
func (s *JobService) Complete(ctx context.Context, principal domain.Principal, jobID uuid.UUID) (*models.Job, error) {
	if _, err := s.ownedJob(ctx, principal, jobID); err != nil {
		return nil, err
	}

	ok, err := s.store.Jobs.Transition(ctx, jobID, domain.JobInProgress, domain.JobAwaitingPayment, map[string]interface{}{
		"completed_at": s.now(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "complete job")
	}
	if !ok {
		return nil, domain.JobStatusGuard(domain.JobInProgress)
	}

	s.logTransition(jobID, domain.JobInProgress, domain.JobAwaitingPayment)
	return s.Get(ctx, jobID)
}

// Cancel cancels an open job. An in-progress job can be cancelled only
// when the policy allows it; the assignment is then cleared and the
// accepted application rejected.
func (s *JobService) Cancel(ctx context.Context, principal domain.Principal, jobID uuid.UUID) (*models.Job, error) {
	job, err := s.ownedJob(ctx, principal, jobID)
	if err != nil {
		return nil, err
	}

	if job.Status == domain.JobInProgress && s.policy.AllowCancelInProgress {
		return s.cancelInProgress(ctx, jobID)
	}

	ok, err := s.store.Jobs.Transition(ctx, jobID, domain.JobOpen, domain.JobCancelled, nil)
	if err != nil {
		return nil, errors.Wrap(err, "cancel job")
	}
	if !ok {
		return nil, domain.JobStatusGuard(domain.JobOpen)
	}

	s.logTransition(jobID, domain.JobOpen, domain.JobCancelled)
	return s.Get(ctx, jobID)
}

func (s *JobService) cancelInProgress(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	var job *models.Job
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		ok, err := tx.Jobs.Transition(ctx, jobID, domain.JobInProgress, domain.JobCancelled, map[string]interface{}{
			"assigned_worker_id": nil,
		})
		if err != nil {
			return errors.Wrap(err, "cancel job")
		}
		if !ok {
			return domain.JobStatusGuard(domain.JobInProgress)
		}

		accepted, err := tx.Applications.GetAcceptedForJob(ctx, jobID)
		if err != nil {
			return errors.Wrap(err, "find accepted application")
		}
		if accepted != nil {
			if _, err := tx.Applications.TransitionStatus(ctx, accepted.ID, domain.ApplicationAccepted, domain.ApplicationRejected); err != nil {
				return errors.Wrap(err, "reject accepted application")
			}
		}

		job, err = tx.Jobs.GetByID(ctx, jobID)
		return errors.Wrap(err, "reload job")
	})
	if err != nil {
		return nil, err
	}

	s.logTransition(jobID, domain.JobInProgress, domain.JobCancelled)
	return job, nil
}

// SettleOffline closes a job that was paid outside the gateway
func (s *JobService) SettleOffline(ctx context.Context, principal domain.Principal, jobID uuid.UUID) (*models.Job, error) {
	if _, err := s.ownedJob(ctx, principal, jobID); err != nil {
		return nil, err
	}

	active, err := s.store.Payments.GetActiveByJob(ctx, jobID)
	if err != nil {
		return nil, errors.Wrap(err, "find active payment")
	}
	if active != nil {
		return nil, ErrPaymentInFlight
	}

	ok, err := s.store.Jobs.Transition(ctx, jobID, domain.JobAwaitingPayment, domain.JobCompleted, nil)
	if err != nil {
		return nil, errors.Wrap(err, "settle job")
	}
	if !ok {
		return nil, domain.JobStatusGuard(domain.JobAwaitingPayment)
	}

	s.logTransition(jobID, domain.JobAwaitingPayment, domain.JobCompleted)
	return s.Get(ctx, jobID)
}

// UpdateStatus routes a requested target status to the operation that
// owns that edge of the state machine
func (s *JobService) UpdateStatus(ctx context.Context, principal domain.Principal, jobID uuid.UUID, status domain.JobStatus) (*models.Job, error) {
	if !status.Valid() {
		return nil, domain.Validation("Invalid status",
			domain.FieldError{Field: "status", Message: "unknown job status"})
	}

	job, err := s.ownedJob(ctx, principal, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status.IsTerminal() {
		return nil, domain.BusinessRule(fmt.Sprintf("Job is already '%s'", job.Status))
	}

	switch status {
	case domain.JobAwaitingPayment:
		return s.Complete(ctx, principal, jobID)
	case domain.JobCancelled:
		return s.Cancel(ctx, principal, jobID)
	case domain.JobCompleted:
		return s.SettleOffline(ctx, principal, jobID)
	case domain.JobInProgress:
		return nil, ErrUseAssign
	case domain.JobPaid:
		return nil, ErrPaidByGatewayOnly
	}
	return nil, domain.IllegalTransition(job.Status, status)
}

// ownedJob loads a job the caller may mutate
func (s *JobService) ownedJob(ctx context.Context, principal domain.Principal, jobID uuid.UUID) (*models.Job, error) {
	job, err := s.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !job.IsOwnedBy(principal.UserID) && !principal.IsAdmin() {
		return nil, ErrNotJobOwner
	}
	return job, nil
}

// settleCompetitors applies the competing-application policy after a job
// has been assigned
func (s *JobService) settleCompetitors(ctx context.Context, tx *repositories.Store, jobID, acceptedID uuid.UUID) error {
	return rejectCompetitors(ctx, tx, s.policy, s.log, jobID, acceptedID)
}

func (s *JobService) logTransition(jobID uuid.UUID, from, to domain.JobStatus, fields ...zap.Field) {
	s.log.Info("🔁 Job status changed", append([]zap.Field{
		zap.String(logger.FieldJobID, jobID.String()),
		zap.String(logger.FieldFrom, string(from)),
		zap.String(logger.FieldTo, string(to)),
	}, fields...)...)
}

// rejectCompetitors rejects the job's other pending applications when the
// policy asks for it
func rejectCompetitors(ctx context.Context, tx *repositories.Store, policy domain.LifecyclePolicy, log *zap.Logger, jobID, acceptedID uuid.UUID) error {
	if !policy.AutoRejectOnAccept {
		return nil
	}

	n, err := tx.Applications.RejectPendingForJob(ctx, jobID, acceptedID)
	if err != nil {
		return errors.Wrap(err, "reject competing applications")
	}
	if n > 0 {
		log.Info("Competing applications rejected",
			zap.String(logger.FieldJobID, jobID.String()),
			zap.Int64("count", n))
	}
	return nil
}
