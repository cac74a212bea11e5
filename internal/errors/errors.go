package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation is returned when request input is missing or out of range.
	ErrValidation = errors.New("validation failed")
	// ErrMechanicUnavailable is returned when booking a mechanic that is not
	// available or not verified.
	ErrMechanicUnavailable = errors.New("mechanic is not available or not verified")
	// ErrAuthorization is returned when the actor is not permitted to act on the resource.
	ErrAuthorization = errors.New("actor not permitted")
	// ErrInvalidState is returned when a booking has no outgoing edge for the requested action.
	ErrInvalidState = errors.New("illegal booking state transition")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrMechanicNotFound is returned when a mechanic profile is not found.
	ErrMechanicNotFound = errors.New("mechanic not found")
	// ErrBookingNotFound is returned when a booking is not found.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrNotificationNotFound is returned when a notification is not found.
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrProfileExists is returned when a mechanic already has a profile.
	ErrProfileExists = errors.New("mechanic profile already exists")
	// ErrReviewExists is returned when a booking has already been reviewed.
	ErrReviewExists = errors.New("booking already reviewed")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserAlreadyExists is returned when trying to register an existing user.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrInvalidRefreshToken is returned when a refresh token is invalid or expired.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Wrapped errors are matched
// with errors.Is so services can annotate them with context.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrMechanicUnavailable):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "MECHANIC_UNAVAILABLE")
	case errors.Is(err, ErrAuthorization):
		return NewHTTPError(http.StatusForbidden, err.Error(), "AUTHORIZATION_ERROR")
	case errors.Is(err, ErrInvalidState):
		return NewHTTPError(http.StatusConflict, err.Error(), "INVALID_STATE")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrMechanicNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "MECHANIC_NOT_FOUND")
	case errors.Is(err, ErrBookingNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "BOOKING_NOT_FOUND")
	case errors.Is(err, ErrNotificationNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOTIFICATION_NOT_FOUND")
	case errors.Is(err, ErrProfileExists):
		return NewHTTPError(http.StatusConflict, err.Error(), "PROFILE_EXISTS")
	case errors.Is(err, ErrReviewExists):
		return NewHTTPError(http.StatusConflict, err.Error(), "REVIEW_EXISTS")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrUserAlreadyExists):
		return NewHTTPError(http.StatusConflict, err.Error(), "USER_EXISTS")
	case errors.Is(err, ErrInvalidRefreshToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_REFRESH_TOKEN")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
