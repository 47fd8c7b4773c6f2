package ports

import (
	"context"

	"github.com/learnhub/course-marketplace/internal/core/domain"
)

// RegisterInput is the raw registration payload. Fields are trimmed and the
// email lowercased by the service.
type RegisterInput struct {
	Username        string
	Email           string
	FirstName       string
	LastName        string
	Password        string
	ConfirmPassword string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	// Login accepts a username or an email as identifier.
	Login(ctx context.Context, identifier, password string) (string, *domain.User, error)
}
