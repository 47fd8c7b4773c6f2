package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/learnhub/course-marketplace/internal/core/domain"
)

// CreateCourseInput carries the fields of a new course. A nil Price means free.
type CreateCourseInput struct {
	Title          string
	Description    string
	Instructor     string
	Topics         []string
	Price          *int64
	ThumbnailImage string
}

// UpdateCourseInput is merged onto the stored course; nil fields are kept.
type UpdateCourseInput struct {
	Title          *string
	Description    *string
	Instructor     *string
	Topics         []string
	Price          *int64
	ThumbnailImage *string
}

// CourseSummary is a list item: the course plus its module total.
type CourseSummary struct {
	Course       *domain.Course
	TotalModules int64
}

type CourseService interface {
	CreateCourse(ctx context.Context, input CreateCourseInput) (*domain.Course, error)
	GetCourse(ctx context.Context, id uuid.UUID) (*domain.Course, error)
	UpdateCourse(ctx context.Context, id uuid.UUID, input UpdateCourseInput) (*domain.Course, error)
	DeleteCourse(ctx context.Context, id uuid.UUID) error
	ListCourses(ctx context.Context, page PageRequest) (*PageResult[CourseSummary], error)
}
