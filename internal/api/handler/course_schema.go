package handler

import (
	"github.com/learnhub/course-marketplace/internal/core/domain"
	"github.com/learnhub/course-marketplace/internal/core/ports"
)

type createCourseRequest struct {
	Title          string   `json:"title"           validate:"required,max=255"`
	Description    string   `json:"description"`
	Instructor     string   `json:"instructor"      validate:"max=255"`
	Topics         []string `json:"topics"`
	Price          *int64   `json:"price"           validate:"omitempty,gte=0"`
	ThumbnailImage string   `json:"thumbnail_image"`
}

type updateCourseRequest struct {
	Title          *string  `json:"title"           validate:"omitempty,max=255"`
	Description    *string  `json:"description"`
	Instructor     *string  `json:"instructor"      validate:"omitempty,max=255"`
	Topics         []string `json:"topics"`
	Price          *int64   `json:"price"           validate:"omitempty,gte=0"`
	ThumbnailImage *string  `json:"thumbnail_image"`
}

type courseResponse struct {
	*domain.Course
	TotalModules int64 `json:"total_modules"`
}

type purchaseResponse struct {
	CourseID      string `json:"course_id"`
	UserBalance   int64  `json:"user_balance"`
	TransactionID int64  `json:"transaction_id"`
	Strategy      string `json:"strategy"`
}

type certificateResponse struct {
	CourseID     string `json:"course_id"`
	CourseTitle  string `json:"course_title"`
	Instructor   string `json:"instructor"`
	UserID       int64  `json:"user_id"`
	Username     string `json:"username"`
	FullName     string `json:"full_name"`
	TotalModules int64  `json:"total_modules"`
	IssuedAt     string `json:"issued_at"`
}

type createModuleRequest struct {
	Title        string `json:"title"         validate:"required,max=255"`
	Description  string `json:"description"`
	Order        *int   `json:"order"`
	PDFContent   string `json:"pdf_content"`
	VideoContent string `json:"video_content"`
}

type updateModuleRequest struct {
	Title        *string `json:"title"         validate:"omitempty,max=255"`
	Description  *string `json:"description"`
	Order        *int    `json:"order"`
	PDFContent   *string `json:"pdf_content"`
	VideoContent *string `json:"video_content"`
}

// reorderRequest entries are kept raw; incomplete ones are skipped by the
// service. A missing module_order is an empty list.
type reorderRequest struct {
	ModuleOrder []reorderEntry `json:"module_order"`
}

type reorderEntry struct {
	ID    *string `json:"id"`
	Order *int    `json:"order"`
}

type reorderResponse struct {
	ModuleOrder []domain.ModuleOrder `json:"module_order"`
}

type moduleResponse struct {
	*domain.Module
	IsCompleted bool `json:"is_completed"`
}

type completionResponse struct {
	ModuleID       string                 `json:"module_id"`
	IsCompleted    bool                   `json:"is_completed"`
	CourseProgress domain.ProgressSummary `json:"course_progress"`
	CertificateURL *string                `json:"certificate_url"`
}

func toCourseResponses(items []ports.CourseSummary) []courseResponse {
	out := make([]courseResponse, len(items))
	for i, item := range items {
		out[i] = courseResponse{Course: item.Course, TotalModules: item.TotalModules}
	}
	return out
}

func toOwnedCourseResponses(items []ports.OwnedCourse) []ownedCourseResponse {
	out := make([]ownedCourseResponse, len(items))
	for i, item := range items {
		out[i] = ownedCourseResponse{
			Course:             item.Course,
			PurchasedAt:        item.PurchasedAt,
			ProgressPercentage: item.ProgressPercentage,
		}
	}
	return out
}

func toReorderInput(entries []reorderEntry) []ports.ModuleOrderInput {
	out := make([]ports.ModuleOrderInput, len(entries))
	for i, e := range entries {
		out[i] = ports.ModuleOrderInput{ID: e.ID, Order: e.Order}
	}
	return out
}

func toCertificateResponse(cert *ports.Certificate) certificateResponse {
	return certificateResponse{
		CourseID:     cert.CourseID.String(),
		CourseTitle:  cert.CourseTitle,
		Instructor:   cert.Instructor,
		UserID:       cert.UserID,
		Username:     cert.Username,
		FullName:     cert.FullName,
		TotalModules: cert.TotalModules,
		IssuedAt:     cert.IssuedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}
