package services

import (
	"context"
	"time"

	"dailywage-hub/internal/adapters/persistence/repositories"

	"github.com/cockroachdb/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// CronService runs housekeeping jobs. It never touches jobs or payments.
type CronService struct {
	cron        *cron.Cron
	sessionRepo repositories.SessionRepository
	schedule    string
	log         *zap.Logger
}

// NewCronService creates a new cron service
func NewCronService(sessionRepo repositories.SessionRepository, schedule string, log *zap.Logger) *CronService {
	return &CronService{
		cron:        cron.New(),
		sessionRepo: sessionRepo,
		schedule:    schedule,
		log:         log,
	}
}

// Start registers the jobs and starts the scheduler
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runSessionCleanup); err != nil {
		return errors.Wrapf(err, "schedule session cleanup %q", s.schedule)
	}

	s.cron.Start()
	s.log.Info("🚀 CronService started", zap.String("session_cleanup", s.schedule))
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("🛑 CronService stopped")
}

// CleanupSessions deletes expired and revoked sessions
func (s *CronService) CleanupSessions(ctx context.Context) (int64, error) {
	n, err := s.sessionRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "delete expired sessions")
	}
	return n, nil
}

func (s *CronService) runSessionCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.CleanupSessions(ctx)
	if err != nil {
		s.log.Error("❌ Session cleanup failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.log.Info("🗑️ Expired sessions removed", zap.Int64("count", n))
	}
}
