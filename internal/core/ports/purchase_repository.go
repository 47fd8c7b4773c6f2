package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/learnhub/course-marketplace/internal/core/domain"
)

// PurchaseRepository persists ledger rows. Both write paths translate a
// (user, course) unique violation into domain.ErrAlreadyPurchased.
type PurchaseRepository interface {
	Exists(ctx context.Context, userID int64, courseID uuid.UUID) (bool, error)
	// Create inserts a purchase without touching the balance.
	Create(ctx context.Context, purchase *domain.Purchase) error
	// DebitAndCreate locks the user row, verifies balance >= price, debits it
	// and inserts the purchase in one transaction. It returns the new balance.
	DebitAndCreate(ctx context.Context, purchase *domain.Purchase, price int64) (int64, error)
	// ListByUser returns purchases with Course loaded, newest first. Query
	// filters on course title.
	ListByUser(ctx context.Context, userID int64, page PageRequest) ([]*domain.Purchase, int64, error)
}
