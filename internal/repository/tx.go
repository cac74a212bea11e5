package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxRepos bundles the repositories a transactional unit of work may touch,
// all bound to the same database transaction.
type TxRepos struct {
	Users         UserRepository
	Mechanics     MechanicRepository
	Bookings      BookingRepository
	Notifications NotificationRepository
	Reviews       ReviewRepository
}

// TxManager executes a function within a single database transaction. Either
// everything the function does commits, or none of it does.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repos TxRepos) error) error
}

type txManager struct {
	db *gorm.DB
}

// NewTxManager creates a transaction manager over the given database handle.
func NewTxManager(db *gorm.DB) TxManager {
	return &txManager{db: db}
}

// WithTransaction runs fn inside a transaction, handing it repositories bound
// to the transaction connection.
func (m *txManager) WithTransaction(ctx context.Context, fn func(ctx context.Context, repos TxRepos) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := TxRepos{
			Users:         NewUserRepository(tx),
			Mechanics:     NewMechanicRepository(tx),
			Bookings:      NewBookingRepository(tx),
			Notifications: NewNotificationRepository(tx),
			Reviews:       NewReviewRepository(tx),
		}
		return fn(ctx, repos)
	})
}
