package user

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/car-rental-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.Wrap(apperror.ErrNotFound, http.StatusNotFound, "user not found")
	ErrEmailAlreadyUsed   = apperror.Wrap(apperror.ErrConflict, http.StatusConflict, "email already used")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid email or password")
	ErrInactiveUser       = apperror.Wrap(apperror.ErrForbidden, http.StatusForbidden, "user is inactive")
	ErrEmailRequired      = apperror.Wrap(apperror.ErrValidation, http.StatusBadRequest, "email is required")
	ErrPasswordTooShort   = apperror.Wrap(apperror.ErrValidation, http.StatusBadRequest, "password is too short")
)

// User represents a customer or staff account.
type User struct {
	ID            string // UUID
	Email         string
	PasswordHash  string
	DisplayName   *string
	Phone         *string
	CreatedAt     time.Time
	LastLoginAt   *time.Time
	IsActive      bool
	IsSystemAdmin bool
}

// UserFilter defines filter options for listing users.
type UserFilter struct {
	Email       string
	DisplayName string
	IsActive    *bool // nil means "not filtered"

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
