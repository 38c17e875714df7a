package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/socialverse/internal/relay"
	"github.com/d60-Lab/socialverse/internal/service"
	"github.com/d60-Lab/socialverse/pkg/response"
)

type Handler struct {
	authService    service.AuthService
	contentService service.ContentService
	hub            *relay.Hub
}

func NewHandler(authService service.AuthService, contentService service.ContentService, hub *relay.Hub) *Handler {
	return &Handler{authService: authService, contentService: contentService, hub: hub}
}

// fail maps service errors onto HTTP statuses. Unknown errors are store
// failures: logged, reported and hidden behind a generic 500.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		response.BadRequest(c, "ValidationError", err.Error())
	case errors.Is(err, service.ErrDuplicateUsername):
		response.BadRequest(c, "DuplicateUsername", "Username already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		response.BadRequest(c, "InvalidCredentials", "Invalid credentials")
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrUnauthenticated):
		response.Unauthorized(c, "invalid token")
	default:
		response.InternalError(c, err)
	}
}

// bindFailed answers a request whose JSON body could not be decoded/validated.
func bindFailed(c *gin.Context, err error) {
	response.Fail(c, http.StatusBadRequest, "ValidationError", bindMessage(err))
}
