package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/learnhub/course-marketplace/internal/core/domain"
)

// CourseRepository defines persistence operations for courses.
type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Course, error)
	Update(ctx context.Context, course *domain.Course) error
	// Delete removes the course together with its modules, their progress
	// rows and the purchases of the course.
	Delete(ctx context.Context, id uuid.UUID) error
	// List matches Query against title, instructor and topics, newest first.
	List(ctx context.Context, page PageRequest) ([]*domain.Course, int64, error)
}
