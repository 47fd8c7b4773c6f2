package ports

import (
	"context"

	"github.com/learnhub/course-marketplace/internal/core/domain"
)

// UpdateUserInput is merged onto the stored user; nil fields are kept. A
// non-empty Password is re-hashed.
type UpdateUserInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Password  *string
}

type UserService interface {
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	ListUsers(ctx context.Context, page PageRequest) (*PageResult[*domain.User], error)
	UpdateUser(ctx context.Context, id int64, input UpdateUserInput) (*domain.User, error)
	// DeactivateUser soft-deletes a learner account.
	DeactivateUser(ctx context.Context, id int64) error
	ChangeBalance(ctx context.Context, id int64, increment int64) (*domain.User, error)
	Promote(ctx context.Context, id int64) (*domain.User, error)
}
