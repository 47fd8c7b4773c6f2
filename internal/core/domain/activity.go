package domain

import "time"

// ActivityType names a learner-visible event kept in the activity log.
type ActivityType string

const (
	ActivityCoursePurchased   ActivityType = "course_purchased"
	ActivityModuleCompleted   ActivityType = "module_completed"
	ActivityCertificateIssued ActivityType = "certificate_issued"
	ActivityBalanceAdjusted   ActivityType = "balance_adjusted"
)

// ActivityEvent is an append-only audit record. It never feeds back into
// purchase or progress decisions.
type ActivityEvent struct {
	Type       ActivityType `json:"type" bson:"type"`
	UserID     int64        `json:"user_id" bson:"user_id"`
	CourseID   string       `json:"course_id,omitempty" bson:"course_id,omitempty"`
	ModuleID   string       `json:"module_id,omitempty" bson:"module_id,omitempty"`
	Amount     int64        `json:"amount,omitempty" bson:"amount,omitempty"`
	Balance    *int64       `json:"balance,omitempty" bson:"balance,omitempty"`
	OccurredAt time.Time    `json:"occurred_at" bson:"occurred_at"`
}
