package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/learnhub/course-marketplace/internal/core/domain"
)

// ModuleRepository defines persistence operations for course modules.
type ModuleRepository interface {
	Create(ctx context.Context, module *domain.Module) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Module, error)
	Update(ctx context.Context, module *domain.Module) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ListByCourse returns a page sorted by (order, created_at).
	ListByCourse(ctx context.Context, courseID uuid.UUID, page PageRequest) ([]*domain.Module, int64, error)
	CountByCourse(ctx context.Context, courseID uuid.UUID) (int64, error)
	// CountByCourses returns module totals keyed by course; courses without
	// modules are absent from the map.
	CountByCourses(ctx context.Context, courseIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	// ApplyOrder writes each order onto the module with that id if it belongs
	// to courseID, and returns the pairs actually written.
	ApplyOrder(ctx context.Context, courseID uuid.UUID, orders []domain.ModuleOrder) ([]domain.ModuleOrder, error)
}
