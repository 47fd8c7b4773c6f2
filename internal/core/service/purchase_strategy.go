package service

import (
	"context"
	"fmt"
	"time"

	"github.com/learnhub/course-marketplace/internal/core/domain"
	"github.com/learnhub/course-marketplace/internal/core/ports"
)

const (
	StrategyFree    = "free"
	StrategyBalance = "balance"
)

// PurchaseStrategy decides eligibility for, and executes, one pricing model.
type PurchaseStrategy interface {
	Name() string
	// Validate is a pre-check only; Execute enforces the same rules again at
	// the storage layer.
	Validate(ctx context.Context, user *domain.User, course *domain.Course) error
	Execute(ctx context.Context, user *domain.User, course *domain.Course) (*ports.PurchaseResult, error)
}

// SelectStrategy picks the free strategy for zero-priced courses and the
// balance strategy otherwise.
func SelectStrategy(course *domain.Course, repo ports.PurchaseRepository) PurchaseStrategy {
	if course.IsFree() {
		return freeStrategy{repo: repo}
	}
	return balanceStrategy{repo: repo}
}

type freeStrategy struct {
	repo ports.PurchaseRepository
}

func (freeStrategy) Name() string { return StrategyFree }

func (s freeStrategy) Validate(ctx context.Context, user *domain.User, course *domain.Course) error {
	return checkNotPurchased(ctx, s.repo, user, course)
}

func (s freeStrategy) Execute(ctx context.Context, user *domain.User, course *domain.Course) (*ports.PurchaseResult, error) {
	p := newPurchase(user, course)
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("free purchase: %w", err)
	}
	return &ports.PurchaseResult{Purchase: p, Balance: user.Balance, Strategy: StrategyFree}, nil
}

type balanceStrategy struct {
	repo ports.PurchaseRepository
}

func (balanceStrategy) Name() string { return StrategyBalance }

func (s balanceStrategy) Validate(ctx context.Context, user *domain.User, course *domain.Course) error {
	if err := checkNotPurchased(ctx, s.repo, user, course); err != nil {
		return err
	}
	if user.Balance < course.Price {
		return domain.ErrInsufficientBalance
	}
	return nil
}

func (s balanceStrategy) Execute(ctx context.Context, user *domain.User, course *domain.Course) (*ports.PurchaseResult, error) {
	p := newPurchase(user, course)
	balance, err := s.repo.DebitAndCreate(ctx, p, course.Price)
	if err != nil {
		return nil, fmt.Errorf("balance purchase: %w", err)
	}
	return &ports.PurchaseResult{Purchase: p, Balance: balance, Strategy: StrategyBalance}, nil
}

func checkNotPurchased(ctx context.Context, repo ports.PurchaseRepository, user *domain.User, course *domain.Course) error {
	exists, err := repo.Exists(ctx, user.ID, course.ID)
	if err != nil {
		return fmt.Errorf("check purchase: %w", err)
	}
	if exists {
		return domain.ErrAlreadyPurchased
	}
	return nil
}

func newPurchase(user *domain.User, course *domain.Course) *domain.Purchase {
	return &domain.Purchase{
		UserID:      user.ID,
		CourseID:    course.ID,
		PurchasedAt: time.Now().UTC(),
	}
}
