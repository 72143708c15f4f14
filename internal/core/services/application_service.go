package services

import (
	"context"
	"time"

	"dailywage-hub/internal/adapters/persistence/models"
	"dailywage-hub/internal/adapters/persistence/repositories"
	"dailywage-hub/internal/core/domain"
	"dailywage-hub/internal/pkg/logger"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Application service errors
var (
	ErrDuplicateApplication = domain.Conflict("You already have an active application for this job")
	ErrApplyForSelf         = domain.Forbidden("Workers may only apply on their own behalf")
	ErrNotApplicant         = domain.Forbidden("Only the applicant may withdraw an application")
)

// ApplicationService is the application half of the lifecycle engine
type ApplicationService struct {
	store  *repositories.Store
	policy domain.LifecyclePolicy
	log    *zap.Logger
	now    func() time.Time
}

// NewApplicationService creates a new application service
func NewApplicationService(store *repositories.Store, policy domain.LifecyclePolicy, log *zap.Logger) *ApplicationService {
	return &ApplicationService{
		store:  store,
		policy: policy,
		log:    log,
		now:    time.Now,
	}
}

// ApplyInput represents a job application. WorkerID defaults to the caller.
type ApplyInput struct {
	JobID    uuid.UUID
	WorkerID uuid.UUID
	Message  string
}

// Apply files a pending application for an open job
func (s *ApplicationService) Apply(ctx context.Context, principal domain.Principal, input *ApplyInput) (*models.JobApplication, error) {
	workerID := input.WorkerID
	if workerID == uuid.Nil {
		workerID = principal.UserID
	}
	if !principal.Is(workerID) && !principal.IsAdmin() {
		return nil, ErrApplyForSelf
	}

	job, err := s.store.Jobs.GetByID(ctx, input.JobID)
	if err != nil {
		return nil, notFoundOr(err, ErrJobNotFound, "get job")
	}
	if job.Status != domain.JobOpen {
		return nil, domain.JobStatusGuard(domain.JobOpen)
	}

	active, err := s.store.Applications.FindActive(ctx, job.ID, workerID)
	if err != nil {
		return nil, errors.Wrap(err, "find application")
	}
	if active != nil {
		return nil, ErrDuplicateApplication
	}

	app := &models.JobApplication{
		JobID:    job.ID,
		WorkerID: workerID,
		Status:   domain.ApplicationPending,
		Message:  input.Message,
	}
	if err := s.store.Applications.Create(ctx, app); err != nil {
		return nil, errors.Wrap(err, "create application")
	}

	s.log.Info("✅ Application filed",
		zap.String(logger.FieldApplicationID, app.ID.String()),
		zap.String(logger.FieldJobID, job.ID.String()),
		zap.String(logger.FieldWorkerID, workerID.String()))
	return app, nil
}

// Get returns an application visible to the applicant, the job's employer
// or an admin
func (s *ApplicationService) Get(ctx context.Context, principal domain.Principal, id uuid.UUID) (*models.JobApplication, error) {
	app, job, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !principal.Is(app.WorkerID) && !job.IsOwnedBy(principal.UserID) && !principal.IsAdmin() {
		return nil, domain.Forbidden("You cannot view this application")
	}
	return app, nil
}

// ListByJob lists a job's applications for its employer
func (s *ApplicationService) ListByJob(ctx context.Context, principal domain.Principal, jobID uuid.UUID) ([]*models.JobApplication, error) {
	job, err := s.store.Jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, notFoundOr(err, ErrJobNotFound, "get job")
	}
	if !job.IsOwnedBy(principal.UserID) && !principal.IsAdmin() {
		return nil, ErrNotJobOwner
	}

	apps, err := s.store.Applications.ListByJob(ctx, jobID)
	if err != nil {
		return nil, errors.Wrap(err, "list applications")
	}
	return apps, nil
}

// ListByWorker lists a worker's own applications
func (s *ApplicationService) ListByWorker(ctx context.Context, principal domain.Principal, workerID uuid.UUID) ([]*models.JobApplication, error) {
	if !principal.Is(workerID) && !principal.IsAdmin() {
		return nil, domain.Forbidden("You can only list your own applications")
	}

	apps, err := s.store.Applications.ListByWorker(ctx, workerID)
	if err != nil {
		return nil, errors.Wrap(err, "list applications")
	}
	return apps, nil
}

// UpdateStatus moves a pending application to accepted, rejected or
// withdrawn. Accepting assigns the job in the same transaction; of two
// concurrent accepts on one job exactly one wins and the other gets
// ErrJobTaken.
func (s *ApplicationService) UpdateStatus(ctx context.Context, principal domain.Principal, id uuid.UUID, status domain.ApplicationStatus) (*models.JobApplication, error) {
	if status == domain.ApplicationPending || !status.Valid() {
		return nil, domain.Validation("Invalid status",
			domain.FieldError{Field: "status", Message: "must be one of accepted, rejected, withdrawn"})
	}

	app, job, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	switch status {
	case domain.ApplicationWithdrawn:
		if !principal.Is(app.WorkerID) && !principal.IsAdmin() {
			return nil, ErrNotApplicant
		}
	default:
		if !job.IsOwnedBy(principal.UserID) && !principal.IsAdmin() {
			return nil, ErrNotJobOwner
		}
	}

	if app.Status != domain.ApplicationPending {
		return nil, domain.ApplicationStatusGuard(domain.ApplicationPending)
	}

	if status == domain.ApplicationAccepted {
		return s.accept(ctx, app)
	}

	ok, err := s.store.Applications.TransitionStatus(ctx, app.ID, domain.ApplicationPending, status)
	if err != nil {
		return nil, errors.Wrap(err, "update application")
	}
	if !ok {
		return nil, domain.ApplicationStatusGuard(domain.ApplicationPending)
	}

	s.log.Info("✅ Application updated",
		zap.String(logger.FieldApplicationID, app.ID.String()),
		zap.String(logger.FieldTo, string(status)))
	return s.reload(ctx, app.ID)
}

// accept assigns the job to the applicant and accepts the application as
// one unit. The job's open -> in_progress update runs first: its status
// predicate is what serialises competing accepts.
func (s *ApplicationService) accept(ctx context.Context, app *models.JobApplication) (*models.JobApplication, error) {
	var accepted *models.JobApplication
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		ok, err := tx.Jobs.Transition(ctx, app.JobID, domain.JobOpen, domain.JobInProgress, map[string]interface{}{
			"assigned_worker_id": app.WorkerID,
			"started_at":         s.now(),
		})
		if err != nil {
			return errors.Wrap(err, "assign job")
		}
		if !ok {
			return ErrJobTaken
		}

		ok, err = tx.Applications.TransitionStatus(ctx, app.ID, domain.ApplicationPending, domain.ApplicationAccepted)
		if err != nil {
			return errors.Wrap(err, "accept application")
		}
		if !ok {
			// withdrawn meanwhile; roll the assignment back
			return domain.ApplicationStatusGuard(domain.ApplicationPending)
		}

		if err := rejectCompetitors(ctx, tx, s.policy, s.log, app.JobID, app.ID); err != nil {
			return err
		}

		accepted, err = tx.Applications.GetByID(ctx, app.ID)
		return errors.Wrap(err, "reload application")
	})
	if err != nil {
		if errors.Is(err, ErrJobTaken) {
			s.log.Info("Accept lost to a concurrent assignment",
				zap.String(logger.FieldApplicationID, app.ID.String()),
				zap.String(logger.FieldJobID, app.JobID.String()))
		}
		return nil, err
	}

	s.log.Info("✅ Application accepted",
		zap.String(logger.FieldApplicationID, app.ID.String()),
		zap.String(logger.FieldJobID, app.JobID.String()),
		zap.String(logger.FieldWorkerID, app.WorkerID.String()))
	return accepted, nil
}

func (s *ApplicationService) load(ctx context.Context, id uuid.UUID) (*models.JobApplication, *models.Job, error) {
	app, err := s.store.Applications.GetByID(ctx, id)
	if err != nil {
		return nil, nil, notFoundOr(err, ErrApplicationNotFound, "get application")
	}
	job, err := s.store.Jobs.GetByID(ctx, app.JobID)
	if err != nil {
		return nil, nil, notFoundOr(err, ErrJobNotFound, "get job")
	}
	return app, job, nil
}

func (s *ApplicationService) reload(ctx context.Context, id uuid.UUID) (*models.JobApplication, error) {
	app, err := s.store.Applications.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrApplicationNotFound, "get application")
	}
	return app, nil
}
