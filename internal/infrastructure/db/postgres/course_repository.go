package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnhub/course-marketplace/internal/core/domain"
	"github.com/learnhub/course-marketplace/internal/core/ports"
)

var _ ports.CourseRepository = (*CourseRepository)(nil)

type CourseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) Create(ctx context.Context, course *domain.Course) error {
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(course).Error; err != nil {
		return fmt.Errorf("insert course: %w", err)
	}
	return nil
}

func (r *CourseRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	var c domain.Course
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	return &c, nil
}

func (r *CourseRepository) Update(ctx context.Context, course *domain.Course) error {
	res := r.db.WithContext(ctx).
		Model(course).
		Select("title", "description", "instructor", "topics", "price", "thumbnail_image", "updated_at").
		Updates(course)
	if res.Error != nil {
		return fmt.Errorf("update course: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrCourseNotFound
	}
	return nil
}

func (r *CourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		moduleIDs := tx.Model(&domain.Module{}).Select("id").Where("course_id = ?", id)
		if err := tx.Where("module_id IN (?)", moduleIDs).Delete(&domain.Progress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&domain.Module{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&domain.Purchase{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&domain.Course{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrCourseNotFound
		}
		return nil
	})
}

func (r *CourseRepository) List(ctx context.Context, page ports.PageRequest) ([]*domain.Course, int64, error) {
	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&domain.Course{})
		if page.Query != "" {
			p := likePattern(page.Query)
			q = q.Where("LOWER(title) LIKE ? OR LOWER(instructor) LIKE ? OR LOWER(CAST(topics AS TEXT)) LIKE ?", p, p, p)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}

	var courses []*domain.Course
	err := base().
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&courses).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}
	return courses, total, nil
}
