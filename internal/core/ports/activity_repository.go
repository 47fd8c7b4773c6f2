package ports

import (
	"context"

	"github.com/learnhub/course-marketplace/internal/core/domain"
)

// ActivityRepository appends events to the activity audit log.
type ActivityRepository interface {
	Insert(ctx context.Context, event *domain.ActivityEvent) error
}

// ActivityRecorder accepts events for asynchronous persistence. Record must
// not block the caller.
type ActivityRecorder interface {
	Record(event domain.ActivityEvent)
}
