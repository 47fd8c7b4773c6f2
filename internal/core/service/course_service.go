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

type CourseService struct {
	courses ports.CourseRepository
	modules ports.ModuleRepository
	log     zerolog.Logger
}

func NewCourseService(courses ports.CourseRepository, modules ports.ModuleRepository, log zerolog.Logger) *CourseService {
	return &CourseService{courses: courses, modules: modules, log: log}
}

func (s *CourseService) CreateCourse(ctx context.Context, in ports.CreateCourseInput) (*domain.Course, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.NewValidationError("Course title is required")
	}

	var price int64
	if in.Price != nil {
		price = *in.Price
	}
	if price < 0 {
		return nil, domain.NewValidationError("Course price must not be negative")
	}

	course := &domain.Course{
		ID:             uuid.New(),
		Title:          title,
		Description:    strings.TrimSpace(in.Description),
		Instructor:     strings.TrimSpace(in.Instructor),
		Topics:         cleanTopics(in.Topics),
		Price:          price,
		ThumbnailImage: strings.TrimSpace(in.ThumbnailImage),
	}

	if err := s.courses.Create(ctx, course); err != nil {
		s.log.Error().Err(err).Msg("failed to create course")
		return nil, fmt.Errorf("create course: %w", err)
	}

	s.log.Info().Str("course_id", course.ID.String()).Int64("price", course.Price).Msg("course created")
	return course, nil
}

func (s *CourseService) GetCourse(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	return s.courses.FindByID(ctx, id)
}

// UpdateCourse merges the non-nil input fields onto the stored course.
func (s *CourseService) UpdateCourse(ctx context.Context, id uuid.UUID, in ports.UpdateCourseInput) (*domain.Course, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, domain.NewValidationError("Course title is required")
		}
		course.Title = title
	}
	if in.Description != nil {
		course.Description = strings.TrimSpace(*in.Description)
	}
	if in.Instructor != nil {
		course.Instructor = strings.TrimSpace(*in.Instructor)
	}
	if in.Topics != nil {
		course.Topics = cleanTopics(in.Topics)
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, domain.NewValidationError("Course price must not be negative")
		}
		course.Price = *in.Price
	}
	if in.ThumbnailImage != nil {
		course.ThumbnailImage = strings.TrimSpace(*in.ThumbnailImage)
	}

	if err := s.courses.Update(ctx, course); err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}
	return course, nil
}

func (s *CourseService) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	if err := s.courses.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	s.log.Info().Str("course_id", id.String()).Msg("course deleted")
	return nil
}

// ListCourses returns a page of courses with their module totals.
func (s *CourseService) ListCourses(ctx context.Context, page ports.PageRequest) (*ports.PageResult[ports.CourseSummary], error) {
	page = page.Normalize()
	page.Query = strings.TrimSpace(page.Query)

	courses, total, err := s.courses.List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	ids := make([]uuid.UUID, len(courses))
	for i, c := range courses {
		ids[i] = c.ID
	}
	counts, err := s.modules.CountByCourses(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	items := make([]ports.CourseSummary, len(courses))
	for i, c := range courses {
		items[i] = ports.CourseSummary{Course: c, TotalModules: counts[c.ID]}
	}
	return ports.NewPageResult(items, total, page), nil
}

func cleanTopics(topics []string) []string {
	out := make([]string, 0, len(topics))
	for _, t := range topics {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
