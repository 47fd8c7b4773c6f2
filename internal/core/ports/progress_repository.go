package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ProgressRepository stores per-user module completion.
type ProgressRepository interface {
	// MarkCompleted creates or updates the (user, module) row with
	// is_completed=true. Repeated calls leave a single completed row; newly
	// is true only for the call that changed it.
	MarkCompleted(ctx context.Context, userID int64, moduleID uuid.UUID) (newly bool, err error)
	IsCompleted(ctx context.Context, userID int64, moduleID uuid.UUID) (bool, error)
	// CompletedCount counts completed rows for modules of courseID.
	CompletedCount(ctx context.Context, userID int64, courseID uuid.UUID) (int64, error)
	// LastCompletedAt is the most recent completion time within the course.
	LastCompletedAt(ctx context.Context, userID int64, courseID uuid.UUID) (time.Time, error)
}
