package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var (
	ErrCourseNotFound = errors.New("course not found")
	ErrModuleNotFound = errors.New("module not found")
)

// DefaultModuleOrder is assigned to modules created without an explicit order.
const DefaultModuleOrder = 1

// Course is a purchasable unit of content. A zero price marks the course free.
type Course struct {
	ID             uuid.UUID                   `json:"id" gorm:"type:uuid;primaryKey"`
	Title          string                      `json:"title" gorm:"size:255;not null"`
	Description    string                      `json:"description"`
	Instructor     string                      `json:"instructor" gorm:"size:255"`
	Topics         datatypes.JSONSlice[string] `json:"topics"`
	Price          int64                       `json:"price" gorm:"not null"`
	ThumbnailImage string                      `json:"thumbnail_image"`
	CreatedAt      time.Time                   `json:"created_at" gorm:"index"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

// IsFree reports whether the course can be claimed without a balance debit.
func (c *Course) IsFree() bool {
	return c.Price == 0
}

// Module is a single content item within a course. Order is not unique inside
// a course; listings break ties on CreatedAt.
type Module struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	CourseID     uuid.UUID `json:"course_id" gorm:"type:uuid;not null;index"`
	Course       *Course   `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Title        string    `json:"title" gorm:"size:255;not null"`
	Description  string    `json:"description"`
	Order        int       `json:"order" gorm:"column:sort_order;not null"`
	PDFContent   string    `json:"pdf_content"`
	VideoContent string    `json:"video_content"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ModuleOrder is one applied {id, order} pair from a reorder request.
type ModuleOrder struct {
	ID    uuid.UUID `json:"id"`
	Order int       `json:"order"`
}
