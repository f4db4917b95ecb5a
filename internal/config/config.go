package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env         string
	Port        int
	DBURL       string
	ServiceName string

	JWTSecret           string
	JWTAccessTTLMinutes int
	JWTRefreshTTLDays   int

	ResetTokenMinutes int
	ResetURLBase      string

	AdminEmail      string
	AdminPassword   string
	AdminName       string
	SeedSampleUsers bool

	UseBothSources   bool
	MetadataPath     string
	AccessPolicyPath string

	CORSOrigins []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	OTELEndpoint string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	LoginRateLimit  int
	LoginRateWindow time.Duration

	SubmitRateLimit  int
	SubmitRateWindow time.Duration
}

// Load reads the process environment. A .env file in the working directory, if present,
// fills in variables that are not already set.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Env:         getEnv("APP_ENV", "dev"),
		Port:        getEnvInt("PORT", 5000),
		DBURL:       buildDBURL(),
		ServiceName: getEnv("SERVICE_NAME", "ivms3-api"),

		JWTSecret:           getEnv("JWT_SECRET_KEY", "change-this-secret-in-prod"),
		JWTAccessTTLMinutes: getEnvInt("JWT_ACCESS_TTL_MINUTES", 60),
		JWTRefreshTTLDays:   getEnvInt("JWT_REFRESH_TTL_DAYS", 7),

		ResetTokenMinutes: getEnvInt("RESET_TOKEN_MINUTES", 30),
		ResetURLBase:      getEnv("RESET_URL_BASE", "http://localhost:5173/reset-password"),

		AdminEmail:      getEnv("ADMIN_EMAIL", "admin@aidash.com"),
		AdminPassword:   getEnv("ADMIN_PASSWORD", ""),
		AdminName:       getEnv("ADMIN_NAME", "System Admin"),
		SeedSampleUsers: getEnvBool("SEED_SAMPLE_USERS", false),

		UseBothSources:   getEnvBool("USE_BOTH_SOURCES", true),
		MetadataPath:     getEnv("METADATA_PATH", "metadata.json"),
		AccessPolicyPath: getEnv("ACCESS_POLICY_FILE", ""),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      getEnvDuration("CACHE_TTL", 30*time.Second),

		OTELEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", "no-reply@aidash.com"),

		LoginRateLimit:  getEnvInt("LOGIN_RATE_LIMIT", 10),
		LoginRateWindow: getEnvDuration("LOGIN_RATE_WINDOW", time.Minute),

		SubmitRateLimit:  getEnvInt("SUBMIT_RATE_LIMIT", 60),
		SubmitRateWindow: getEnvDuration("SUBMIT_RATE_WINDOW", time.Minute),
	}
}

func (c Config) AccessTTL() time.Duration {
	return time.Duration(c.JWTAccessTTLMinutes) * time.Minute
}

func (c Config) RefreshTTL() time.Duration {
	return time.Duration(c.JWTRefreshTTLDays) * 24 * time.Hour
}

func (c Config) ResetTTL() time.Duration {
	return time.Duration(c.ResetTokenMinutes) * time.Minute
}

// DATABASE_URL wins over the discrete DB_* variables.
func buildDBURL() string {
	if url := getEnv("DATABASE_URL", ""); url != "" {
		if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
			return url
		}
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	pass := getEnv("DB_PASSWORD", "postgres")
	name := getEnv("DB_NAME", "postgres")
	ssl := getEnv("DB_SSLMODE", "prefer")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl + "&connect_timeout=3"
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %s=%q is not an integer, using %d\n", key, v, fallback)
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "":
		return fallback
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %s=%q is not a duration, using %s\n", key, v, fallback)
			return fallback
		}
		return d
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
