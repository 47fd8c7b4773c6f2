package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/learnhub/course-marketplace/internal/core/domain"
)

// PurchaseResult is returned after a successful purchase.
type PurchaseResult struct {
	Purchase *domain.Purchase
	// Balance is the user's balance after the purchase.
	Balance  int64
	Strategy string
}

// OwnedCourse is a "my courses" entry.
type OwnedCourse struct {
	Course             *domain.Course
	PurchasedAt        time.Time
	ProgressPercentage int
}

type PurchaseService interface {
	Purchase(ctx context.Context, user *domain.User, course *domain.Course) (*PurchaseResult, error)
	HasPurchased(ctx context.Context, user *domain.User, courseID uuid.UUID) (bool, error)
	ListOwnedCourses(ctx context.Context, user *domain.User, page PageRequest) (*PageResult[OwnedCourse], error)
}
