package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/learnhub/course-marketplace/internal/core/domain"
	"github.com/learnhub/course-marketplace/internal/core/ports"
)

type ProgressService struct {
	progress ports.ProgressRepository
	modules  ports.ModuleRepository
	activity ports.ActivityRecorder
	log      zerolog.Logger
}

// NewProgressService returns a ProgressService. activity may be nil.
func NewProgressService(
	progress ports.ProgressRepository,
	modules ports.ModuleRepository,
	activity ports.ActivityRecorder,
	log zerolog.Logger,
) *ProgressService {
	return &ProgressService{
		progress: progress,
		modules:  modules,
		activity: activity,
		log:      log,
	}
}

// MarkCompleted records the module as completed for user and returns the
// recomputed course summary. Marking an already completed module changes
// nothing and records no activity.
func (s *ProgressService) MarkCompleted(ctx context.Context, user *domain.User, module *domain.Module) (*ports.CompletionResult, error) {
	if user == nil || module == nil {
		return nil, domain.NewValidationError("user and module are required")
	}

	newly, err := s.progress.MarkCompleted(ctx, user.ID, module.ID)
	if err != nil {
		return nil, fmt.Errorf("mark completed: %w", err)
	}

	summary, err := s.Summary(ctx, user.ID, module.CourseID)
	if err != nil {
		return nil, fmt.Errorf("mark completed: %w", err)
	}

	if newly {
		s.record(domain.ActivityEvent{
			Type:       domain.ActivityModuleCompleted,
			UserID:     user.ID,
			CourseID:   module.CourseID.String(),
			ModuleID:   module.ID.String(),
			OccurredAt: time.Now().UTC(),
		})
	}

	result := &ports.CompletionResult{
		ModuleID: module.ID,
		CourseID: module.CourseID,
		Progress: summary,
		Newly:    newly,
	}
	if summary.Complete() {
		url := domain.CertificateURL(module.CourseID)
		result.CertificateURL = &url
	}

	s.log.Debug().
		Int64("user_id", user.ID).
		Str("module_id", module.ID.String()).
		Int("percentage", summary.Percentage).
		Bool("newly", newly).
		Msg("module completed")

	return result, nil
}

// GetStatus reports whether user has completed the module. It never writes.
func (s *ProgressService) GetStatus(ctx context.Context, user *domain.User, moduleID uuid.UUID) (bool, error) {
	if user == nil || user.ID == 0 {
		return false, nil
	}
	done, err := s.progress.IsCompleted(ctx, user.ID, moduleID)
	if err != nil {
		return false, fmt.Errorf("get status: %w", err)
	}
	return done, nil
}

func (s *ProgressService) CompletedCount(ctx context.Context, userID int64, courseID uuid.UUID) (int64, error) {
	return s.progress.CompletedCount(ctx, userID, courseID)
}

func (s *ProgressService) TotalModules(ctx context.Context, courseID uuid.UUID) (int64, error) {
	return s.modules.CountByCourse(ctx, courseID)
}

// Summary is the single place the course percentage is computed.
func (s *ProgressService) Summary(ctx context.Context, userID int64, courseID uuid.UUID) (domain.ProgressSummary, error) {
	total, err := s.TotalModules(ctx, courseID)
	if err != nil {
		return domain.ProgressSummary{}, fmt.Errorf("count modules: %w", err)
	}
	if total == 0 {
		return domain.NewProgressSummary(0, 0), nil
	}
	completed, err := s.CompletedCount(ctx, userID, courseID)
	if err != nil {
		return domain.ProgressSummary{}, fmt.Errorf("count completed: %w", err)
	}
	return domain.NewProgressSummary(total, completed), nil
}

// Certificate returns the certificate data when every module of the course is
// completed, and ErrCertificateUnavailable otherwise.
func (s *ProgressService) Certificate(ctx context.Context, user *domain.User, course *domain.Course) (*ports.Certificate, error) {
	if user == nil || course == nil {
		return nil, domain.NewValidationError("user and course are required")
	}

	summary, err := s.Summary(ctx, user.ID, course.ID)
	if err != nil {
		return nil, fmt.Errorf("certificate: %w", err)
	}
	if !summary.Complete() {
		return nil, domain.ErrCertificateUnavailable
	}

	issuedAt, err := s.progress.LastCompletedAt(ctx, user.ID, course.ID)
	if err != nil {
		return nil, fmt.Errorf("certificate: %w", err)
	}

	s.record(domain.ActivityEvent{
		Type:       domain.ActivityCertificateIssued,
		UserID:     user.ID,
		CourseID:   course.ID.String(),
		OccurredAt: time.Now().UTC(),
	})

	return &ports.Certificate{
		CourseID:     course.ID,
		CourseTitle:  course.Title,
		Instructor:   course.Instructor,
		UserID:       user.ID,
		Username:     user.Username,
		FullName:     user.FullName(),
		TotalModules: summary.TotalModules,
		IssuedAt:     issuedAt,
	}, nil
}

func (s *ProgressService) record(event domain.ActivityEvent) {
	if s.activity != nil {
		s.activity.Record(event)
	}
}
