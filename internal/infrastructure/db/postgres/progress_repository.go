package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/learnhub/course-marketplace/internal/core/domain"
	"github.com/learnhub/course-marketplace/internal/core/ports"
)

var _ ports.ProgressRepository = (*ProgressRepository)(nil)

type ProgressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// MarkCompleted sets is_completed on the (user_id, module_id) row, creating it
// when missing, and reports whether this call was the one that completed it.
// The first completion time is kept on repeated calls.
func (r *ProgressRepository) MarkCompleted(ctx context.Context, userID int64, moduleID uuid.UUID) (bool, error) {
	now := time.Now().UTC()
	db := r.db.WithContext(ctx)

	res := db.Model(&domain.Progress{}).
		Where("user_id = ? AND module_id = ? AND is_completed = ?", userID, moduleID, false).
		Updates(map[string]interface{}{
			"is_completed": true,
			"completed_at": gorm.Expr("COALESCE(completed_at, ?)", now),
			"updated_at":   now,
		})
	if res.Error != nil {
		return false, fmt.Errorf("mark module completed: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	row := domain.Progress{
		UserID:      userID,
		ModuleID:    moduleID,
		IsCompleted: true,
		CompletedAt: &now,
	}
	res = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "module_id"}},
		DoNothing: true,
	}).Create(&row)
	if res.Error != nil {
		return false, fmt.Errorf("mark module completed: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *ProgressRepository) IsCompleted(ctx context.Context, userID int64, moduleID uuid.UUID) (bool, error) {
	var row domain.Progress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND module_id = ?", userID, moduleID).
		First(&row).Error
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("find progress: %w", err)
	}
	return row.IsCompleted, nil
}

func (r *ProgressRepository) completedInCourse(ctx context.Context, userID int64, courseID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&domain.Progress{}).
		Joins("JOIN modules ON modules.id = module_progress.module_id").
		Where("module_progress.user_id = ? AND modules.course_id = ? AND module_progress.is_completed = ?", userID, courseID, true)
}

func (r *ProgressRepository) CompletedCount(ctx context.Context, userID int64, courseID uuid.UUID) (int64, error) {
	var n int64
	if err := r.completedInCourse(ctx, userID, courseID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count completed modules: %w", err)
	}
	return n, nil
}

func (r *ProgressRepository) LastCompletedAt(ctx context.Context, userID int64, courseID uuid.UUID) (time.Time, error) {
	var row domain.Progress
	err := r.completedInCourse(ctx, userID, courseID).
		Where("module_progress.completed_at IS NOT NULL").
		Order("module_progress.completed_at DESC").
		First(&row).Error
	if err != nil {
		if isNotFound(err) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("last completion: %w", err)
	}
	return *row.CompletedAt, nil
}
