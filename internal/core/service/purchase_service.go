package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/learnhub/course-marketplace/internal/core/domain"
	"github.com/learnhub/course-marketplace/internal/core/ports"
)

// PurchaseLock abstracts the in-flight purchase guard (Redis). Acquire
// returns a holder token; Release only drops the lock while that token still
// owns it.
type PurchaseLock interface {
	Acquire(ctx context.Context, userID int64, courseID uuid.UUID) (token string, acquired bool, err error)
	Release(ctx context.Context, userID int64, courseID uuid.UUID, token string) error
}

type PurchaseService struct {
	purchases ports.PurchaseRepository
	progress  ports.ProgressService
	lock      PurchaseLock
	activity  ports.ActivityRecorder
	log       zerolog.Logger
}

// NewPurchaseService wires the purchase policy. lock and activity may be nil.
func NewPurchaseService(
	purchases ports.PurchaseRepository,
	progress ports.ProgressService,
	lock PurchaseLock,
	activity ports.ActivityRecorder,
	log zerolog.Logger,
) *PurchaseService {
	return &PurchaseService{
		purchases: purchases,
		progress:  progress,
		lock:      lock,
		activity:  activity,
		log:       log,
	}
}

// Purchase grants user access to course using the strategy chosen by price.
// Failures are reported once; nothing is retried.
func (s *PurchaseService) Purchase(ctx context.Context, user *domain.User, course *domain.Course) (*ports.PurchaseResult, error) {
	if user == nil || course == nil {
		return nil, domain.NewValidationError("user and course are required")
	}

	// 1. Reject a concurrent duplicate early. The database transaction stays
	//    the safety mechanism, so a lock failure is logged and ignored.
	if s.lock != nil {
		token, acquired, err := s.lock.Acquire(ctx, user.ID, course.ID)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Int64("user_id", user.ID).Str("course_id", course.ID.String()).Msg("purchase lock unavailable, continuing")
		case !acquired:
			return nil, domain.ErrPurchaseInProgress
		default:
			defer func() {
				if err := s.lock.Release(context.WithoutCancel(ctx), user.ID, course.ID, token); err != nil {
					s.log.Warn().Err(err).Int64("user_id", user.ID).Msg("failed to release purchase lock")
				}
			}()
		}
	}

	// 2. Pick the strategy and run its pre-check.
	strategy := SelectStrategy(course, s.purchases)
	if err := strategy.Validate(ctx, user, course); err != nil {
		return nil, fmt.Errorf("purchase: %w", err)
	}

	// 3. Execute. Unique violations surface as ErrAlreadyPurchased.
	result, err := strategy.Execute(ctx, user, course)
	if err != nil {
		if !errors.Is(err, domain.ErrAlreadyPurchased) && !errors.Is(err, domain.ErrInsufficientBalance) {
			s.log.Error().Err(err).Int64("user_id", user.ID).Str("course_id", course.ID.String()).Msg("purchase failed")
		}
		return nil, fmt.Errorf("purchase: %w", err)
	}
	user.Balance = result.Balance

	s.record(domain.ActivityEvent{
		Type:       domain.ActivityCoursePurchased,
		UserID:     user.ID,
		CourseID:   course.ID.String(),
		Amount:     course.Price,
		Balance:    &result.Balance,
		OccurredAt: result.Purchase.PurchasedAt,
	})

	s.log.Info().
		Int64("user_id", user.ID).
		Str("course_id", course.ID.String()).
		Str("strategy", strategy.Name()).
		Int64("transaction_id", result.Purchase.ID).
		Int64("balance", result.Balance).
		Msg("course purchased")

	return result, nil
}

// HasPurchased reports ownership; a nil user owns nothing.
func (s *PurchaseService) HasPurchased(ctx context.Context, user *domain.User, courseID uuid.UUID) (bool, error) {
	if user == nil {
		return false, nil
	}
	return s.purchases.Exists(ctx, user.ID, courseID)
}

// ListOwnedCourses returns the user's purchases with their progress percentage.
func (s *PurchaseService) ListOwnedCourses(ctx context.Context, user *domain.User, page ports.PageRequest) (*ports.PageResult[ports.OwnedCourse], error) {
	page = page.Normalize()

	purchases, total, err := s.purchases.ListByUser(ctx, user.ID, page)
	if err != nil {
		return nil, fmt.Errorf("list owned courses: %w", err)
	}

	items := make([]ports.OwnedCourse, 0, len(purchases))
	for _, p := range purchases {
		if p.Course == nil {
			continue
		}
		summary, err := s.progress.Summary(ctx, user.ID, p.CourseID)
		if err != nil {
			return nil, fmt.Errorf("list owned courses: %w", err)
		}
		items = append(items, ports.OwnedCourse{
			Course:             p.Course,
			PurchasedAt:        p.PurchasedAt,
			ProgressPercentage: summary.Percentage,
		})
	}

	return ports.NewPageResult(items, total, page), nil
}

func (s *PurchaseService) record(event domain.ActivityEvent) {
	if s.activity == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	s.activity.Record(event)
}
