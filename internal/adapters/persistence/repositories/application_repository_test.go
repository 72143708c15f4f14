package repositories

import (
	"context"
	"testing"

	"dailywage-hub/internal/adapters/persistence/models"
	"dailywage-hub/internal/core/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationTransitionStatus_ConditionalUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepository(db)

	mock.ExpectExec("UPDATE `job_applications` SET .*`status`=.* WHERE id = \\? AND status = \\?").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.TransitionStatus(context.Background(), uuid.New(), domain.ApplicationPending, domain.ApplicationAccepted)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplications_ActiveAndReject(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	employer := seedUser(t, s, "emp", domain.RoleEmployer)
	w1 := seedUser(t, s, "w1", domain.RoleWorker)
	w2 := seedUser(t, s, "w2", domain.RoleWorker)
	w3 := seedUser(t, s, "w3", domain.RoleWorker)
	job := seedJob(t, s, employer)

	apply := func(w *models.User, status domain.ApplicationStatus) *models.JobApplication {
		app := &models.JobApplication{JobID: job.ID, WorkerID: w.ID, Status: status}
		require.NoError(t, s.Applications.Create(ctx, app))
		return app
	}
	a1 := apply(w1, domain.ApplicationPending)
	a2 := apply(w2, domain.ApplicationPending)
	apply(w3, domain.ApplicationWithdrawn)

	active, err := s.Applications.FindActive(ctx, job.ID, w1.ID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, a1.ID, active.ID)

	active, err = s.Applications.FindActive(ctx, job.ID, w3.ID)
	require.NoError(t, err)
	assert.Nil(t, active, "withdrawn applications are not active")

	ok, err := s.Applications.TransitionStatus(ctx, a1.ID, domain.ApplicationPending, domain.ApplicationAccepted)
	require.NoError(t, err)
	require.True(t, ok)

	n, err := s.Applications.RejectPendingForJob(ctx, job.ID, a1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := s.Applications.GetByID(ctx, a2.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationRejected, got.Status)

	accepted, err := s.Applications.GetAcceptedForJob(ctx, job.ID)
	require.NoError(t, err)
	require.NotNil(t, accepted)
	assert.Equal(t, a1.ID, accepted.ID)

	byJob, err := s.Applications.ListByJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Len(t, byJob, 3)

	byWorker, err := s.Applications.ListByWorker(ctx, w2.ID)
	require.NoError(t, err)
	assert.Len(t, byWorker, 1)
}
