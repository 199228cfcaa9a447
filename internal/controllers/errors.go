package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trackit-be/internal/models"
	"trackit-be/internal/service"
)

type errorKind struct {
	err     error
	name    string
	status  int
	message string // used when the error carries no public message
}

var errorKinds = []errorKind{
	{service.ErrValidation, "ValidationError", http.StatusBadRequest, "Invalid request"},
	{service.ErrConflict, "Conflict", http.StatusBadRequest, "Already exists"},
	{service.ErrInvalidCredentials, "InvalidCredentials", http.StatusUnauthorized, "Invalid credentials"},
	{service.ErrUnauthorized, "Unauthorized", http.StatusUnauthorized, "Unauthorized"},
	{service.ErrNotFoundOrUnauthorized, "NotFoundOrUnauthorized", http.StatusNotFound, "Not found or unauthorized"},
	{service.ErrNotFound, "NotFound", http.StatusNotFound, "Not found"},
	{service.ErrRateLimited, "RateLimited", http.StatusTooManyRequests, "Too many requests"},
	{service.ErrMailDeliveryFailed, "MailDeliveryFailed", http.StatusInternalServerError, "Failed to send email"},
	{service.ErrStoreUnavailable, "StoreUnavailable", http.StatusInternalServerError, "Service temporarily unavailable"}, // must stay last
}

// respondError maps a service error to its status and writes the JSON error body.
// Internal details are logged, never returned.
func respondError(c *gin.Context, log *zap.SugaredLogger, err error) {
	// anything unclassified is reported as the generic 500 kind
	kind := errorKinds[len(errorKinds)-1]
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			kind = k
			break
		}
	}

	msg := service.PublicMessage(err)
	if msg == "" {
		msg = kind.message
	}

	if kind.status >= http.StatusInternalServerError {
		log.Errorw("request failed", "path", c.FullPath(), "kind", kind.name, "error", err)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(kind.status, models.ErrorResponse{Error: kind.name, Message: msg})
}

// badRequest answers a body that failed to bind.
func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "ValidationError", Message: msg})
}
