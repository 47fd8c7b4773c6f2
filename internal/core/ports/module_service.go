package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/learnhub/course-marketplace/internal/core/domain"
)

// CreateModuleInput carries the fields of a new module. A nil Order falls
// back to domain.DefaultModuleOrder.
type CreateModuleInput struct {
	Title        string
	Description  string
	Order        *int
	PDFContent   string
	VideoContent string
}

// UpdateModuleInput is merged onto the stored module; nil fields are kept.
type UpdateModuleInput struct {
	Title        *string
	Description  *string
	Order        *int
	PDFContent   *string
	VideoContent *string
}

// ModuleOrderInput is one raw reorder entry. Entries missing either field
// are skipped.
type ModuleOrderInput struct {
	ID    *string
	Order *int
}

type ModuleService interface {
	CreateModule(ctx context.Context, courseID uuid.UUID, input CreateModuleInput) (*domain.Module, error)
	GetModule(ctx context.Context, id uuid.UUID) (*domain.Module, error)
	UpdateModule(ctx context.Context, id uuid.UUID, input UpdateModuleInput) (*domain.Module, error)
	DeleteModule(ctx context.Context, id uuid.UUID) error
	ListModules(ctx context.Context, courseID uuid.UUID, page PageRequest) (*PageResult[*domain.Module], error)
	Reorder(ctx context.Context, courseID uuid.UUID, entries []ModuleOrderInput) ([]domain.ModuleOrder, error)
}
