package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/learnhub/course-marketplace/internal/core/domain"
	"github.com/learnhub/course-marketplace/internal/core/ports"
)

var _ ports.PurchaseRepository = (*PurchaseRepository)(nil)

type PurchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

func (r *PurchaseRepository) Exists(ctx context.Context, userID int64, courseID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&domain.Purchase{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check purchase: %w", err)
	}
	return n > 0, nil
}

func (r *PurchaseRepository) Create(ctx context.Context, purchase *domain.Purchase) error {
	prepare(purchase)
	if err := r.db.WithContext(ctx).Create(purchase).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyPurchased
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// DebitAndCreate holds the user row lock from the ownership and balance checks
// until the purchase row is written, so two paid purchases cannot both pass
// them. A request that lost the race for the same course sees the winner's
// row and reports ErrAlreadyPurchased rather than the reduced balance.
func (r *PurchaseRepository) DebitAndCreate(ctx context.Context, purchase *domain.Purchase, price int64) (int64, error) {
	prepare(purchase)

	var balance int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user domain.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, "id = ?", purchase.UserID).Error; err != nil {
			if isNotFound(err) {
				return domain.ErrUserNotFound
			}
			return err
		}

		var owned int64
		if err := tx.Model(&domain.Purchase{}).
			Where("user_id = ? AND course_id = ?", purchase.UserID, purchase.CourseID).
			Count(&owned).Error; err != nil {
			return err
		}
		if owned > 0 {
			return domain.ErrAlreadyPurchased
		}
		if user.Balance < price {
			return domain.ErrInsufficientBalance
		}

		if err := tx.Model(&domain.User{}).
			Where("id = ?", user.ID).
			Update("balance", gorm.Expr("balance - ?", price)).Error; err != nil {
			return err
		}
		if err := tx.Create(purchase).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrAlreadyPurchased
			}
			return err
		}

		balance = user.Balance - price
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientBalance) || errors.Is(err, domain.ErrAlreadyPurchased) || errors.Is(err, domain.ErrUserNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("debit and create purchase: %w", err)
	}
	return balance, nil
}

func (r *PurchaseRepository) ListByUser(ctx context.Context, userID int64, page ports.PageRequest) ([]*domain.Purchase, int64, error) {
	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).
			Model(&domain.Purchase{}).
			Joins("JOIN courses ON courses.id = purchases.course_id").
			Where("purchases.user_id = ?", userID)
		if page.Query != "" {
			q = q.Where("LOWER(courses.title) LIKE ?", likePattern(page.Query))
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count purchases: %w", err)
	}

	var purchases []*domain.Purchase
	err := base().
		Preload("Course").
		Order("purchases.purchased_at DESC").
		Order("purchases.id DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&purchases).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list purchases: %w", err)
	}
	return purchases, total, nil
}

// prepare drops loaded associations so Create never upserts them.
func prepare(p *domain.Purchase) {
	p.User = nil
	p.Course = nil
	if p.PurchasedAt.IsZero() {
		p.PurchasedAt = time.Now().UTC()
	}
}
