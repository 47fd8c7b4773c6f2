package handler

import (
	"time"

	"github.com/learnhub/course-marketplace/internal/core/domain"
)

type registerRequest struct {
	Username        string `json:"username"         validate:"max=150"`
	Email           string `json:"email"            validate:"omitempty,email,max=254"`
	FirstName       string `json:"first_name"       validate:"max=150"`
	LastName        string `json:"last_name"        validate:"max=150"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// loginRequest accepts the identifier under any of its three names.
type loginRequest struct {
	Identifier string `json:"identifier"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

func (r loginRequest) identifier() string {
	switch {
	case r.Identifier != "":
		return r.Identifier
	case r.Username != "":
		return r.Username
	}
	return r.Email
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type updateUserRequest struct {
	Username  *string `json:"username"   validate:"omitempty,max=150"`
	Email     *string `json:"email"      validate:"omitempty,email,max=254"`
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name"  validate:"omitempty,max=150"`
	Password  *string `json:"password"   validate:"omitempty,password"`
}

type balanceRequest struct {
	Increment *int64 `json:"increment" validate:"required"`
}

// userDetailResponse is a profile plus the courses the user owns.
type userDetailResponse struct {
	*domain.User
	Courses []ownedCourseResponse `json:"courses"`
}

type ownedCourseResponse struct {
	*domain.Course
	PurchasedAt        time.Time `json:"purchased_at"`
	ProgressPercentage int       `json:"progress_percentage"`
}
