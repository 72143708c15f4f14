package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store bundles the repositories over one *gorm.DB handle. Inside
// Transaction the handle is the transaction, so every repository used
// through the callback's Store joins it.
type Store struct {
	db *gorm.DB

	Users        UserRepository
	Sessions     SessionRepository
	Jobs         JobRepository
	Applications ApplicationRepository
	Messages     MessageRepository
	Payments     PaymentRepository
}

// NewStore creates a store over db
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:           db,
		Users:        NewUserRepository(db),
		Sessions:     NewSessionRepository(db),
		Jobs:         NewJobRepository(db),
		Applications: NewApplicationRepository(db),
		Messages:     NewMessageRepository(db),
		Payments:     NewPaymentRepository(db),
	}
}

// Transaction runs fn inside a database transaction. A returned error
// rolls everything back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// DB exposes the underlying handle (health checks, migrations)
func (s *Store) DB() *gorm.DB {
	return s.db
}
