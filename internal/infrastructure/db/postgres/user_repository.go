package postgres

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/learnhub/course-marketplace/internal/core/domain"
	"github.com/learnhub/course-marketplace/internal/core/ports"
)

const (
	uniqUsersUsername = "uniq_users_username"
	uniqUsersEmail    = "uniq_users_email"
)

var _ ports.UserRepository = (*UserRepository)(nil)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return mapUserConflict(err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, strings.ToLower(identifier)).
		Order("id ASC").
		First(&u).Error
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error) {
	return r.taken(ctx, "username", username, excludeID)
}

func (r *UserRepository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	return r.taken(ctx, "email", email, excludeID)
}

func (r *UserRepository) taken(ctx context.Context, column, value string, excludeID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where(column+" = ? AND id <> ?", value, excludeID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check %s: %w", column, err)
	}
	return n > 0, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	res := r.db.WithContext(ctx).
		Model(user).
		Select("username", "email", "first_name", "last_name", "password_hash", "is_administrator", "is_active", "updated_at").
		Updates(user)
	if res.Error != nil {
		return mapUserConflict(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) AdjustBalance(ctx context.Context, id int64, delta int64) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, "id = ?", id).Error; err != nil {
			if isNotFound(err) {
				return domain.ErrUserNotFound
			}
			return err
		}
		if user.Balance+delta < 0 {
			return domain.ErrInsufficientBalance
		}
		if err := tx.Model(&domain.User{}).
			Where("id = ?", id).
			Update("balance", gorm.Expr("balance + ?", delta)).Error; err != nil {
			return err
		}
		user.Balance += delta
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context, page ports.PageRequest) ([]*domain.User, int64, error) {
	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&domain.User{})
		if page.Query != "" {
			p := likePattern(page.Query)
			q = q.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", p, p, p, p)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	var users []*domain.User
	err := base().
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// mapUserConflict turns a unique violation into the per-field domain error.
func mapUserConflict(err error) error {
	if !isUniqueViolation(err) {
		return err
	}
	name := violatedConstraint(err)
	switch {
	case name == uniqUsersUsername || strings.Contains(name, "users.username"):
		return domain.ErrUsernameTaken
	case name == uniqUsersEmail || strings.Contains(name, "users.email"):
		return domain.ErrEmailTaken
	}
	return domain.ErrUserExists
}
