package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"trackit-be/internal/cache"
	"trackit-be/internal/config"
	"trackit-be/internal/controllers"
	"trackit-be/internal/database"
	"trackit-be/internal/idgen"
	"trackit-be/internal/jwt"
	"trackit-be/internal/logger"
	"trackit-be/internal/mail"
	"trackit-be/internal/middleware"
	"trackit-be/internal/password"
	"trackit-be/internal/repository"
	"trackit-be/internal/router"
	"trackit-be/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zl, err := logger.New(logger.Config{Level: cfg.LogLevel, Dev: cfg.LogDev, File: cfg.LogFile})
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()
	sugar := zl.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ids, err := idgen.New(cfg.SnowflakeNode)
	if err != nil {
		sugar.Fatalw("invalid snowflake node", "error", err)
	}

	// Connect to the store selected by the URL scheme
	userRepo, expenseRepo, closeStore, err := openStore(ctx, cfg, ids, sugar)
	if err != nil {
		sugar.Fatalw("failed to open store", "error", err)
	}
	defer closeStore()

	// Redis is optional: without it the reset cooldown is kept in memory
	var cacheClient cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			sugar.Warnw("failed to connect to Redis, using in-memory cooldown", "error", err)
		} else {
			sugar.Info("connected to Redis cache")
		}
	}
	if cacheClient == nil {
		cacheClient = cache.NewMemory()
	}

	jwtService := jwt.NewJWTService(
		cfg.JWTSecret,
		time.Duration(cfg.JWTTTL)*time.Hour,
		time.Duration(cfg.ResetTokenTTLMinutes)*time.Minute,
	)

	mailer := mail.NewMailer(newMailSender(cfg, sugar))

	// Initialize services
	authService := service.NewAuthService(userRepo, password.NewBcryptHasher(), jwtService, mailer, cacheClient,
		service.AuthConfig{
			FrontendURL:   cfg.FrontendURL,
			ResetCooldown: time.Duration(cfg.ResetCooldownSeconds) * time.Second,
		}, sugar)
	expenseService := service.NewExpenseService(expenseRepo, sugar)

	// Initialize rate limiters
	generalRateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	authRateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitAuthRPS), cfg.RateLimitAuthBurst)
	go generalRateLimiter.Run(ctx)
	go authRateLimiter.Run(ctx)

	if !cfg.LogDev {
		gin.SetMode(gin.ReleaseMode)
	}
	engine, err := router.New(router.Deps{
		Auth:        controllers.NewAuthController(authService, sugar),
		Expenses:    controllers.NewExpenseController(expenseService, sugar),
		Verifier:    jwtService,
		GeneralRate: generalRateLimiter,
		AuthRate:    authRateLimiter,
		Log:         sugar,

		TrustedProxies: cfg.TrustedProxies,
	})
	if err != nil {
		sugar.Fatalw("failed to build router", "error", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.WithCORS(engine, cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		sugar.Infow("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	sugar.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("graceful shutdown failed", "error", err)
	}
}

func openStore(ctx context.Context, cfg *config.Config, ids *idgen.Generator, log *zap.SugaredLogger) (repository.UserRepository, repository.ExpenseRepository, func(), error) {
	backend, err := database.BackendFor(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}

	if backend == database.BackendMongo {
		client, db, err := database.NewMongoClient(ctx, cfg.DatabaseURL, cfg.MongoDatabase, log)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := repository.EnsureMongoIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, nil, err
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }
		return repository.NewMongoUserRepository(db), repository.NewMongoExpenseRepository(db, ids), closeFn, nil
	}

	db, err := database.NewConnection(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	log.Info("database migrations completed")
	closeFn := func() { db.Close() }
	return repository.NewUserRepository(db), repository.NewExpenseRepository(db, ids), closeFn, nil
}

// newMailSender prefers Postmark, then SMTP. A nil sender leaves password
// reset emails failing with MailDeliveryFailed.
func newMailSender(cfg *config.Config, log *zap.SugaredLogger) mail.Sender {
	switch {
	case cfg.PostmarkToken != "" && cfg.EmailUser != "":
		log.Info("mail transport: postmark")
		return mail.NewPostmarkSender(cfg.PostmarkToken, cfg.MailFromName, cfg.EmailUser)
	case cfg.EmailUser != "":
		log.Infow("mail transport: smtp", "host", cfg.SMTPHost)
		return mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.EmailUser,
			Password: cfg.EmailPass,
			FromName: cfg.MailFromName,
		})
	}
	log.Warn("no mail transport configured, password reset emails will fail")
	return nil
}
