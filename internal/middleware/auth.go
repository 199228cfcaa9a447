package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trackit-be/internal/models"
)

// UserIDKey is the gin context key holding the authenticated user id
const UserIDKey = "user_id"

type contextKey struct{}

// SessionVerifier checks a session token and returns the user id it carries
type SessionVerifier interface {
	VerifySessionToken(raw string) (string, error)
}

// AuthMiddleware rejects requests without a valid "Authorization: Bearer <token>"
// header. Every failure produces the same 401 body.
func AuthMiddleware(verifier SessionVerifier, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			unauthorized(c)
			return
		}

		userID, err := verifier.VerifySessionToken(token)
		if err != nil {
			log.Debugw("token rejected", "path", c.Request.URL.Path, "reason", err)
			unauthorized(c)
			return
		}

		c.Set(UserIDKey, userID)
		c.Request = c.Request.WithContext(WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
		Error:   "Unauthorized",
		Message: "Unauthorized",
	})
}

// UserID returns the authenticated user id set by AuthMiddleware
func UserID(c *gin.Context) (string, bool) {
	id := c.GetString(UserIDKey)
	return id, id != ""
}

// WithUserID stores the authenticated user id in ctx
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserIDFromContext extracts the id stored by WithUserID
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextKey{}).(string)
	return id, ok && id != ""
}
