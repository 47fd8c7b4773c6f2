package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/learnhub/course-marketplace/internal/core/domain"
	"github.com/learnhub/course-marketplace/internal/core/ports"
)

type UserService struct {
	repo     ports.UserRepository
	activity ports.ActivityRecorder
	log      zerolog.Logger
}

// NewUserService returns a UserService. activity may be nil.
func NewUserService(repo ports.UserRepository, activity ports.ActivityRecorder, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, activity: activity, log: log}
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context, page ports.PageRequest) (*ports.PageResult[*domain.User], error) {
	page = page.Normalize()
	page.Query = strings.TrimSpace(page.Query)

	users, total, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return ports.NewPageResult(users, total, page), nil
}

// UpdateUser merges profile changes onto a learner account.
func (s *UserService) UpdateUser(ctx context.Context, id int64, in ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.IsAdministrator {
		return nil, domain.ErrAdminProtected
	}

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username == "" {
			return nil, domain.NewValidationError("username must not be empty")
		}
		user.Username = username
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email == "" {
			return nil, domain.NewValidationError("email must not be empty")
		}
		user.Email = email
	}
	if in.FirstName != nil {
		user.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		user.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Password != nil && *in.Password != "" {
		if err := domain.ValidatePassword(*in.Password); err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	if err := ensureUnique(ctx, s.repo, user.Username, user.Email, user.ID); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// DeactivateUser clears the active flag; rows are kept so purchase and
// progress history stay intact.
func (s *UserService) DeactivateUser(ctx context.Context, id int64) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user.IsAdministrator {
		return domain.ErrAdminProtected
	}
	if !user.IsActive {
		return nil
	}

	user.IsActive = false
	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	s.log.Info().Int64("user_id", id).Msg("user deactivated")
	return nil
}

// ChangeBalance adds increment (which may be negative) to the user's balance.
func (s *UserService) ChangeBalance(ctx context.Context, id int64, increment int64) (*domain.User, error) {
	user, err := s.repo.AdjustBalance(ctx, id, increment)
	if err != nil {
		return nil, fmt.Errorf("change balance: %w", err)
	}

	if s.activity != nil {
		balance := user.Balance
		s.activity.Record(domain.ActivityEvent{
			Type:       domain.ActivityBalanceAdjusted,
			UserID:     id,
			Amount:     increment,
			Balance:    &balance,
			OccurredAt: time.Now().UTC(),
		})
	}

	s.log.Info().Int64("user_id", id).Int64("increment", increment).Int64("balance", user.Balance).Msg("balance changed")
	return user, nil
}

// Promote grants administrator rights. It is only reachable from the admin CLI.
func (s *UserService) Promote(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.IsAdministrator {
		return user, nil
	}
	user.IsAdministrator = true
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("promote user: %w", err)
	}
	return user, nil
}
