package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/farbari/farbari-api/internal/apperrors"
	"github.com/farbari/farbari-api/pkg/response"
)

// fail maps a service error onto the JSON envelope. Operational errors keep
// their message; anything unexpected collapses to a generic 500 so internals
// never leak.
func fail(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)

	var weak *apperrors.WeakPasswordError
	if errors.As(err, &weak) {
		response.Error[any](c, status, "password does not meet requirements", weak.Violations)
		return
	}
	if !apperrors.IsOperational(err) {
		response.Error[any](c, status, "internal server error", nil)
		return
	}
	response.Error[any](c, status, err.Error(), nil)
}
