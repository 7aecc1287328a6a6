package handlers

import (
	"errors"
	"net/http"

	"rentsplit-backend/services"
	"rentsplit-backend/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps the service error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrInvalidOperation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrUpstream):
		status = http.StatusBadGateway
	}
	utils.ErrorResponse(c, status, err.Error())
}
