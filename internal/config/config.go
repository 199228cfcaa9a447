package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL   string // postgres://, sqlite: or mongodb:// connection string
	MongoDatabase string // Database name used when DatabaseURL points at MongoDB
	Port          string
	FrontendURL   string // Frontend base URL (for password reset links)
	RedisURL      string

	JWTSecret            string // Secret key for JWT token signing
	JWTTTL               int    // Session token expiration time in hours
	ResetTokenTTLMinutes int    // Password reset token expiration time in minutes
	ResetCooldownSeconds int    // Minimum interval between reset emails to one address

	EmailUser     string // SMTP account, also used as the From address
	EmailPass     string
	SMTPHost      string
	SMTPPort      int
	MailFromName  string
	PostmarkToken string // When set, mail goes through Postmark instead of SMTP

	RateLimitRPS       float64 // Rate limit for general API endpoints (requests per second)
	RateLimitBurst     int     // Burst size for rate limiting
	RateLimitAuthRPS   float64 // Rate limit for auth endpoints (stricter)
	RateLimitAuthBurst int     // Burst size for auth endpoints

	CORSAllowedOrigins []string
	TrustedProxies     []string // proxies whose X-Forwarded-For is believed; empty trusts none

	LogLevel string
	LogDev   bool
	LogFile  string

	SnowflakeNode int64
}

func Load() *Config {
	// Try to load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or defaults")
	}

	databaseURL := getEnv("DATABASE_URL", "")
	if databaseURL == "" {
		databaseURL = getEnv("MONGO_URI", "")
	}

	return &Config{
		DatabaseURL:   databaseURL,
		MongoDatabase: getEnv("MONGO_DATABASE", "trackit"),
		Port:          getEnv("PORT", "5000"),
		FrontendURL:   strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		RedisURL:      getEnv("REDIS_URL", ""),

		JWTSecret:            getEnv("JWT_SECRET", ""),
		JWTTTL:               getEnvInt("JWT_TTL_HOURS", 48),
		ResetTokenTTLMinutes: getEnvInt("RESET_TOKEN_TTL_MINUTES", 15),
		ResetCooldownSeconds: getEnvInt("RESET_COOLDOWN_SECONDS", 60),

		EmailUser:     getEnv("EMAIL_USER", ""),
		EmailPass:     getEnv("EMAIL_PASS", ""),
		SMTPHost:      getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:      getEnvInt("SMTP_PORT", 587),
		MailFromName:  getEnv("MAIL_FROM_NAME", "TrackIt"),
		PostmarkToken: getEnv("POSTMARK_TOKEN", ""),

		RateLimitRPS:       getEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 20),
		RateLimitAuthRPS:   getEnvFloat("RATE_LIMIT_AUTH_RPS", 5),
		RateLimitAuthBurst: getEnvInt("RATE_LIMIT_AUTH_BURST", 10),

		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		TrustedProxies:     getEnvList("TRUSTED_PROXIES", nil),

		LogLevel: getEnv("LOG_LEVEL", ""),
		LogDev:   getEnv("LOG_DEV", "") == "1",
		LogFile:  getEnv("LOG_FILE", ""),

		SnowflakeNode: int64(getEnvInt("SNOWFLAKE_NODE", 1)),
	}
}

// Validate reports settings the service cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL_HOURS must be positive"))
	}
	if c.ResetTokenTTLMinutes <= 0 {
		errs = append(errs, errors.New("RESET_TOKEN_TTL_MINUTES must be positive"))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
