package domain

import (
	"errors"
	"time"
	"unicode"
)

const (
	RoleAdmin   = "admin"
	RoleLearner = "learner"
)

// MinPasswordLength is the shortest password accepted at registration or reset.
const MinPasswordLength = 8

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid username/email or password")
	ErrInactiveUser       = errors.New("account is disabled")
	ErrAdminProtected     = errors.New("administrator accounts cannot be modified")
)

// User models an authenticated actor in the marketplace. Balance is an
// integer amount of internal currency.
type User struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	Username        string    `json:"username" gorm:"size:150;not null;uniqueIndex:uniq_users_username"`
	Email           string    `json:"email" gorm:"size:254;not null;uniqueIndex:uniq_users_email"`
	FirstName       string    `json:"first_name" gorm:"size:150"`
	LastName        string    `json:"last_name" gorm:"size:150"`
	PasswordHash    string    `json:"-" gorm:"not null"`
	Balance         int64     `json:"balance" gorm:"not null"`
	IsAdministrator bool      `json:"is_administrator" gorm:"not null"`
	IsActive        bool      `json:"is_active" gorm:"not null"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Role maps the administrator flag onto the role names carried in tokens.
func (u *User) Role() string {
	if u.IsAdministrator {
		return RoleAdmin
	}
	return RoleLearner
}

// FullName joins first and last name, falling back to the username.
func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	}
	return u.Username
}

// ValidatePassword enforces the password policy: at least MinPasswordLength
// characters, and not made up only of letters or only of digits.
func ValidatePassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return NewValidationError("password must be at least %d characters", MinPasswordLength)
	}

	allLetters, allDigits := true, true
	for _, r := range password {
		if !unicode.IsLetter(r) {
			allLetters = false
		}
		if !unicode.IsDigit(r) {
			allDigits = false
		}
	}
	if allLetters {
		return NewValidationError("password must not be entirely alphabetic")
	}
	if allDigits {
		return NewValidationError("password must not be entirely numeric")
	}
	return nil
}
