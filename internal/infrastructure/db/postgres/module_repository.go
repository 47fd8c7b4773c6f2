package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnhub/course-marketplace/internal/core/domain"
	"github.com/learnhub/course-marketplace/internal/core/ports"
)

var _ ports.ModuleRepository = (*ModuleRepository)(nil)

type ModuleRepository struct {
	db *gorm.DB
}

func NewModuleRepository(db *gorm.DB) *ModuleRepository {
	return &ModuleRepository{db: db}
}

func (r *ModuleRepository) Create(ctx context.Context, module *domain.Module) error {
	if module.ID == uuid.Nil {
		module.ID = uuid.New()
	}
	module.Course = nil
	if err := r.db.WithContext(ctx).Create(module).Error; err != nil {
		return fmt.Errorf("insert module: %w", err)
	}
	return nil
}

func (r *ModuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Module, error) {
	var m domain.Module
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrModuleNotFound
		}
		return nil, fmt.Errorf("find module: %w", err)
	}
	return &m, nil
}

func (r *ModuleRepository) Update(ctx context.Context, module *domain.Module) error {
	res := r.db.WithContext(ctx).
		Model(module).
		Select("title", "description", "sort_order", "pdf_content", "video_content", "updated_at").
		Updates(module)
	if res.Error != nil {
		return fmt.Errorf("update module: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrModuleNotFound
	}
	return nil
}

// Delete removes the module and the progress rows pointing at it.
func (r *ModuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("module_id = ?", id).Delete(&domain.Progress{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&domain.Module{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrModuleNotFound
		}
		return nil
	})
}

func (r *ModuleRepository) ListByCourse(ctx context.Context, courseID uuid.UUID, page ports.PageRequest) ([]*domain.Module, int64, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&domain.Module{}).Where("course_id = ?", courseID)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count modules: %w", err)
	}

	var modules []*domain.Module
	err := base().
		Order("sort_order ASC").
		Order("created_at ASC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&modules).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list modules: %w", err)
	}
	return modules, total, nil
}

func (r *ModuleRepository) CountByCourse(ctx context.Context, courseID uuid.UUID) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&domain.Module{}).Where("course_id = ?", courseID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count modules: %w", err)
	}
	return n, nil
}

func (r *ModuleRepository) CountByCourses(ctx context.Context, courseIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(courseIDs))
	if len(courseIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		CourseID uuid.UUID
		Total    int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Module{}).
		Select("course_id, COUNT(*) AS total").
		Where("course_id IN ?", courseIDs).
		Group("course_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count modules: %w", err)
	}
	for _, row := range rows {
		out[row.CourseID] = row.Total
	}
	return out, nil
}

// ApplyOrder updates all matching modules in one transaction. Ids that do not
// belong to courseID match no row and are left out of the result.
func (r *ModuleRepository) ApplyOrder(ctx context.Context, courseID uuid.UUID, orders []domain.ModuleOrder) ([]domain.ModuleOrder, error) {
	applied := make([]domain.ModuleOrder, 0, len(orders))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, o := range orders {
			res := tx.Model(&domain.Module{}).
				Where("id = ? AND course_id = ?", o.ID, courseID).
				Update("sort_order", o.Order)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				applied = append(applied, o)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("apply module order: %w", err)
	}
	return applied, nil
}
