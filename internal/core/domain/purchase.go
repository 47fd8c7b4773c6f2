package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAlreadyPurchased    = errors.New("course already purchased")
	ErrInsufficientBalance = errors.New("balance not enough")
	ErrPurchaseInProgress  = errors.New("purchase already in progress")
	ErrCourseNotPurchased  = errors.New("course not purchased")
)

// Purchase is the ledger row granting a user access to a course. At most one
// exists per (user, course).
type Purchase struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	UserID      int64     `json:"user_id" gorm:"not null;uniqueIndex:uniq_purchases_user_course"`
	CourseID    uuid.UUID `json:"course_id" gorm:"type:uuid;not null;uniqueIndex:uniq_purchases_user_course;index"`
	User        *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Course      *Course   `json:"course,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	PurchasedAt time.Time `json:"purchased_at" gorm:"not null"`
}
