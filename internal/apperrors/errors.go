package apperrors

import (
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrDuplicateEmail is returned when registering an email that already exists.
	ErrDuplicateEmail = errors.New("user with this email already exists")
	// ErrInvalidCredentials is returned for both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountInactive is returned when the account has been deactivated.
	ErrAccountInactive = errors.New("account is deactivated")
	// ErrInvalidRefreshToken is returned when a refresh token fails verification
	// or is not present in the account's token set.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	// ErrInvalidOrExpiredToken is returned for verification/reset tokens that
	// do not resolve to an account or are past expiry.
	ErrInvalidOrExpiredToken = errors.New("token is invalid or has expired")
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyVerified is returned when requesting verification for a verified account.
	ErrAlreadyVerified = errors.New("email is already verified")
	// ErrForbidden is returned on ownership or role check failure.
	ErrForbidden = errors.New("access denied")
	// ErrPostUnavailable is returned when applying to a post that is not open for adoption.
	ErrPostUnavailable = errors.New("post is not available for adoption applications")
	// ErrOwnPost is returned when applying to one's own post.
	ErrOwnPost = errors.New("cannot apply for your own post")
	// ErrDuplicateInterest is returned when an applicant already has a live application for a post.
	ErrDuplicateInterest = errors.New("application for this post already exists")
	// ErrInvalidTransition is returned on an illegal status change.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// WeakPasswordError carries every strength rule the candidate password violated.
type WeakPasswordError struct {
	Violations []string
}

func (e *WeakPasswordError) Error() string {
	return "password validation failed: " + strings.Join(e.Violations, ", ")
}

// NewWeakPassword builds a WeakPasswordError from the collected violations.
func NewWeakPassword(violations []string) *WeakPasswordError {
	return &WeakPasswordError{Violations: violations}
}

// HTTPStatus maps an operational error to its response status code.
// Unknown errors map to 500 and must not leak details to the client.
func HTTPStatus(err error) int {
	var weak *WeakPasswordError
	switch {
	case errors.As(err, &weak):
		return http.StatusBadRequest
	case errors.Is(err, ErrDuplicateEmail),
		errors.Is(err, ErrAlreadyVerified),
		errors.Is(err, ErrInvalidOrExpiredToken):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidRefreshToken),
		errors.Is(err, ErrAccountInactive):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrPostUnavailable),
		errors.Is(err, ErrOwnPost),
		errors.Is(err, ErrDuplicateInterest),
		errors.Is(err, ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// IsOperational reports whether the error is an expected, user-facing failure.
func IsOperational(err error) bool {
	return HTTPStatus(err) != http.StatusInternalServerError
}
