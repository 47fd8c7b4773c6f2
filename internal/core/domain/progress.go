package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrCertificateUnavailable = errors.New("certificate not available")

// Progress marks one module as touched by one user. IsCompleted only ever
// moves from false to true.
type Progress struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	UserID      int64      `json:"user_id" gorm:"not null;uniqueIndex:uniq_progress_user_module"`
	ModuleID    uuid.UUID  `json:"module_id" gorm:"type:uuid;not null;uniqueIndex:uniq_progress_user_module;index"`
	User        *User      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Module      *Module    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	IsCompleted bool       `json:"is_completed" gorm:"not null"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Progress) TableName() string { return "module_progress" }

// ProgressSummary aggregates a user's completion of one course.
type ProgressSummary struct {
	TotalModules     int64 `json:"total_modules"`
	CompletedModules int64 `json:"completed_modules"`
	Percentage       int   `json:"percentage"`
}

// NewProgressSummary derives the percentage from the two counts.
func NewProgressSummary(total, completed int64) ProgressSummary {
	return ProgressSummary{
		TotalModules:     total,
		CompletedModules: completed,
		Percentage:       Percentage(completed, total),
	}
}

// Complete reports certificate eligibility.
func (s ProgressSummary) Complete() bool {
	return s.Percentage == 100
}

// Percentage is floor(100*completed/total), or 0 for a course with no modules.
func Percentage(completed, total int64) int {
	if total <= 0 {
		return 0
	}
	if completed > total {
		completed = total
	}
	return int(completed * 100 / total)
}

// CertificateURL is the download location for a course certificate.
func CertificateURL(courseID uuid.UUID) string {
	return "/api/courses/" + courseID.String() + "/certificate"
}
