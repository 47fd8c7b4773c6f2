package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/learnhub/course-marketplace/internal/core/domain"
)

// CompletionResult is returned by MarkCompleted. CertificateURL is set only
// when the course is fully completed. Newly is false when the module was
// already completed before the call.
type CompletionResult struct {
	ModuleID       uuid.UUID
	CourseID       uuid.UUID
	Progress       domain.ProgressSummary
	CertificateURL *string
	Newly          bool
}

// Certificate is the data printed on a completion certificate.
type Certificate struct {
	CourseID     uuid.UUID
	CourseTitle  string
	Instructor   string
	UserID       int64
	Username     string
	FullName     string
	TotalModules int64
	IssuedAt     time.Time
}

type ProgressService interface {
	MarkCompleted(ctx context.Context, user *domain.User, module *domain.Module) (*CompletionResult, error)
	// GetStatus is read-only; a nil user yields false.
	GetStatus(ctx context.Context, user *domain.User, moduleID uuid.UUID) (bool, error)
	CompletedCount(ctx context.Context, userID int64, courseID uuid.UUID) (int64, error)
	TotalModules(ctx context.Context, courseID uuid.UUID) (int64, error)
	Summary(ctx context.Context, userID int64, courseID uuid.UUID) (domain.ProgressSummary, error)
	Certificate(ctx context.Context, user *domain.User, course *domain.Course) (*Certificate, error)
}
