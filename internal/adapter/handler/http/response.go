package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/japezoa/bike-manager/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Message string `json:"message"`
}

func newErrorResponse(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: message})
}

// respondError maps the error taxonomy onto HTTP codes. Backend errors reach
// the client as an opaque 500; the detail stays in the logs.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		newErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrConflict):
		newErrorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrConstraint):
		newErrorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		newErrorResponse(c, http.StatusNotFound, "Not found")
	default:
		newErrorResponse(c, http.StatusInternalServerError, "Internal server error")
	}
}
