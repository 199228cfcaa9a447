package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"trackit-be/internal/controllers"
	"trackit-be/internal/middleware"
)

// Deps are the collaborators the route table needs
type Deps struct {
	Auth        *controllers.AuthController
	Expenses    *controllers.ExpenseController
	Verifier    middleware.SessionVerifier
	GeneralRate *middleware.RateLimiter
	AuthRate    *middleware.RateLimiter
	Log         *zap.SugaredLogger

	// TrustedProxies lists the addresses allowed to set X-Forwarded-For.
	// Empty means the socket address is the client address.
	TrustedProxies []string
}

// New builds the gin engine with every route registered
func New(d Deps) (*gin.Engine, error) {
	r := gin.New()

	var proxies []string
	if len(d.TrustedProxies) > 0 {
		proxies = d.TrustedProxies
	}
	if err := r.SetTrustedProxies(proxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	r.Use(middleware.RequestLogger(d.Log), gin.Recovery(), middleware.SecurityHeaders())

	// Health check endpoint (no rate limiting)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("")
	api.Use(d.GeneralRate.LimitMiddleware())
	{
		// Auth routes with stricter rate limiting
		auth := api.Group("/auth")
		auth.Use(d.AuthRate.LimitMiddleware())
		{
			auth.POST("/signup", d.Auth.Signup)
			auth.POST("/login", d.Auth.Login)
			auth.POST("/forgot-password", d.Auth.ForgotPassword)
		}

		expenses := api.Group("/expenses")
		expenses.Use(middleware.AuthMiddleware(d.Verifier, d.Log))
		{
			expenses.GET("", d.Expenses.ListExpenses)
			expenses.POST("", d.Expenses.CreateExpense)
			expenses.PUT("/:id", d.Expenses.UpdateExpense)
			expenses.DELETE("/:id", d.Expenses.DeleteExpense)
		}
	}

	return r, nil
}

// WithCORS wraps h with the CORS policy for the given origins
func WithCORS(h http.Handler, allowedOrigins []string) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	})(h)
}
