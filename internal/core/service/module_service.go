package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/learnhub/course-marketplace/internal/core/domain"
	"github.com/learnhub/course-marketplace/internal/core/ports"
)

type ModuleService struct {
	courses ports.CourseRepository
	modules ports.ModuleRepository
	log     zerolog.Logger
}

func NewModuleService(courses ports.CourseRepository, modules ports.ModuleRepository, log zerolog.Logger) *ModuleService {
	return &ModuleService{courses: courses, modules: modules, log: log}
}

func (s *ModuleService) CreateModule(ctx context.Context, courseID uuid.UUID, in ports.CreateModuleInput) (*domain.Module, error) {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.NewValidationError("Module title is required")
	}
	order := domain.DefaultModuleOrder
	if in.Order != nil {
		order = *in.Order
	}

	module := &domain.Module{
		ID:           uuid.New(),
		CourseID:     courseID,
		Title:        title,
		Description:  strings.TrimSpace(in.Description),
		Order:        order,
		PDFContent:   strings.TrimSpace(in.PDFContent),
		VideoContent: strings.TrimSpace(in.VideoContent),
	}
	if err := s.modules.Create(ctx, module); err != nil {
		return nil, fmt.Errorf("create module: %w", err)
	}

	s.log.Info().Str("course_id", courseID.String()).Str("module_id", module.ID.String()).Msg("module created")
	return module, nil
}

func (s *ModuleService) GetModule(ctx context.Context, id uuid.UUID) (*domain.Module, error) {
	return s.modules.FindByID(ctx, id)
}

func (s *ModuleService) UpdateModule(ctx context.Context, id uuid.UUID, in ports.UpdateModuleInput) (*domain.Module, error) {
	module, err := s.modules.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, domain.NewValidationError("Module title is required")
		}
		module.Title = title
	}
	if in.Description != nil {
		module.Description = strings.TrimSpace(*in.Description)
	}
	if in.Order != nil {
		module.Order = *in.Order
	}
	if in.PDFContent != nil {
		module.PDFContent = strings.TrimSpace(*in.PDFContent)
	}
	if in.VideoContent != nil {
		module.VideoContent = strings.TrimSpace(*in.VideoContent)
	}

	if err := s.modules.Update(ctx, module); err != nil {
		return nil, fmt.Errorf("update module: %w", err)
	}
	return module, nil
}

func (s *ModuleService) DeleteModule(ctx context.Context, id uuid.UUID) error {
	if err := s.modules.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete module: %w", err)
	}
	return nil
}

func (s *ModuleService) ListModules(ctx context.Context, courseID uuid.UUID, page ports.PageRequest) (*ports.PageResult[*domain.Module], error) {
	page = page.Normalize()
	modules, total, err := s.modules.ListByCourse(ctx, courseID, page)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	return ports.NewPageResult(modules, total, page), nil
}

// Reorder applies new order values to modules of one course. Entries with a
// missing or malformed id, a missing order, or an id from another course are
// skipped. Duplicate and gapped orders are allowed.
func (s *ModuleService) Reorder(ctx context.Context, courseID uuid.UUID, entries []ports.ModuleOrderInput) ([]domain.ModuleOrder, error) {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		return nil, err
	}

	pairs := make([]domain.ModuleOrder, 0, len(entries))
	for _, e := range entries {
		if e.ID == nil || e.Order == nil {
			continue
		}
		id, err := uuid.Parse(strings.TrimSpace(*e.ID))
		if err != nil {
			continue
		}
		pairs = append(pairs, domain.ModuleOrder{ID: id, Order: *e.Order})
	}
	if len(pairs) == 0 {
		return []domain.ModuleOrder{}, nil
	}

	applied, err := s.modules.ApplyOrder(ctx, courseID, pairs)
	if err != nil {
		return nil, fmt.Errorf("reorder modules: %w", err)
	}

	s.log.Info().
		Str("course_id", courseID.String()).
		Int("requested", len(entries)).
		Int("applied", len(applied)).
		Msg("modules reordered")

	return applied, nil
}
