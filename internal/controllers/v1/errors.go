package v1

import (
	"errors"
	"net/http"

	"github.com/staffplan/backend/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"An ID specified in the query string was not a valid UUID"`
}

// status returns the appropriate status for an error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	if errors.Is(err, models.ErrNotAuthenticated) || errors.Is(err, errLoginInvalid) {
		return http.StatusUnauthorized
	}

	if errors.Is(err, models.ErrNoPermission) || errors.Is(err, errAccountInactive) || errors.Is(err, errReviewOwnRequest) || errors.Is(err, errDeleteSelf) {
		return http.StatusForbidden
	}

	if errors.Is(err, errTooManyAttempts) {
		return http.StatusTooManyRequests
	}

	return http.StatusBadRequest
}

// Auth errors
var (
	errLoginInvalid     = errors.New("the email or password is incorrect")
	errAccountInactive  = errors.New("this account has been deactivated")
	errTooManyAttempts  = errors.New("too many failed login attempts, try again later")
	errPasswordTooShort = errors.New("the password must be at least 8 characters long")
)

// User errors
var errDeleteSelf = errors.New("you cannot delete your own account")

// Leave request errors
var errReviewOwnRequest = errors.New("you cannot review your own leave request")

// Schedule errors
var (
	errUserIDsRequired   = errors.New("the userIds parameter must be set")
	errDateRequired      = errors.New("the date parameter must be set")
	errDateRangeRequired = errors.New("the from and to parameters must be set")
)
