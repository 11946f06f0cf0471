package handlers

import (
	"errors"
	"net/http"

	"tutorlink/services/tuition"
	"tutorlink/utils"

	"github.com/gin-gonic/gin"
)

// statusFor maps service error kinds onto HTTP status codes.
func statusFor(kind tuition.ErrorKind) int {
	switch kind {
	case tuition.KindValidation:
		return http.StatusUnprocessableEntity
	case tuition.KindUnauthorized:
		return http.StatusForbidden
	case tuition.KindConflict:
		return http.StatusConflict
	case tuition.KindNotFound:
		return http.StatusNotFound
	case tuition.KindSignature:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError translates a service failure into a JSON error
// response without leaking storage internals.
func respondServiceError(c *gin.Context, err error) {
	var se *tuition.ServiceError
	if errors.As(err, &se) {
		c.JSON(statusFor(se.Kind), utils.ErrorResponse{Message: se.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, utils.ErrorResponse{
		Message: "Internal Server Error",
	})
}
