package ports

import (
	"context"

	"github.com/learnhub/course-marketplace/internal/core/domain"
)

// UserRepository defines persistence operations for marketplace users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// FindByIdentifier matches either the username or the (lowercased) email.
	FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
	// UsernameTaken and EmailTaken ignore the user with excludeID (0 = none).
	UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error)
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	// Update persists profile fields, password hash and flags. Balance is
	// never written here; use AdjustBalance.
	Update(ctx context.Context, user *domain.User) error
	// AdjustBalance adds delta to the balance under a row lock and returns the
	// updated user. A result below zero fails with ErrInsufficientBalance.
	AdjustBalance(ctx context.Context, id int64, delta int64) (*domain.User, error)
	List(ctx context.Context, page PageRequest) ([]*domain.User, int64, error)
}
