package handler

import (
	"errors"
	"net/http"

	"github.com/gdugdh24/devmatch-backend/internal/domain"
	"github.com/gin-gonic/gin"
)

// ErrorResponse represents error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain errors to status codes. Anything unknown is a 500
// with fallback as the message.
func writeError(c *gin.Context, err error, fallback string) {
	status, message := http.StatusInternalServerError, fallback

	switch {
	case errors.Is(err, domain.ErrMatchNotFound):
		status, message = http.StatusNotFound, "match not found"
	case errors.Is(err, domain.ErrNotMatchMember):
		status, message = http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrInvalidTransition):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrBatchInProgress):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrInvalidInput):
		status, message = http.StatusBadRequest, "invalid request"
	}

	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, ErrorResponse{Error: message})
}
