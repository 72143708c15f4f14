package repositories

import (
	"context"
	"testing"
	"time"

	"dailywage-hub/internal/adapters/persistence/models"
	"dailywage-hub/internal/core/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestStore opens a migrated in-memory sqlite store
func newTestStore(t *testing.T) *Store {
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
	return NewStore(db)
}

func seedUser(t *testing.T, s *Store, username string, role domain.Role, skills ...string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Password: "x", Role: role, Name: username, Skills: skills}
	require.NoError(t, s.Users.Create(context.Background(), u))
	return u
}

func seedJob(t *testing.T, s *Store, employer *models.User, mutate ...func(j *models.Job)) *models.Job {
	t.Helper()
	j := &models.Job{
		EmployerID:    employer.ID,
		Title:         "Harvest help",
		WorkType:      "farming",
		Location:      "Nashik",
		WageAmount:    500,
		WageUnit:      domain.WageDaily,
		WorkersNeeded: 1,
		Status:        domain.JobOpen,
	}
	for _, m := range mutate {
		m(j)
	}
	require.NoError(t, s.Jobs.Create(context.Background(), j))
	// keep created_at ordering deterministic
	time.Sleep(2 * time.Millisecond)
	return j
}
