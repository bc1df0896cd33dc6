package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Storage    StorageConfig
	FaceVerify FaceVerifyConfig
	Attendance AttendanceConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	LogLevel           string
	Timezone           string
	CORSAllowedOrigins []string
}

type StorageConfig struct {
	Type     string
	BasePath string
	BaseURL  string
}

// FaceVerifyConfig points at the external face verification service.
type FaceVerifyConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// AttendanceConfig holds the attendance rules.
type AttendanceConfig struct {
	StandardHours      float64
	LateAfter          string // HH:MM local time; arrivals strictly after are late
	FallbackHourlyRate decimal.Decimal
	ReminderAfter      time.Duration
	ReminderInterval   time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded, using process environment", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	maxConns, err := strconv.ParseInt(getEnv("DB_MAX_CONNS", "25"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.ParseInt(getEnv("DB_MIN_CONNS", "5"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "cmlabs-attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:               appPort,
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Timezone:           getEnv("APP_TIMEZONE", "Asia/Jakarta"),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	config.Storage = StorageConfig{
		Type:     getEnv("STORAGE_TYPE", "local"),
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "http://localhost:8080/uploads"),
	}

	// Face verification
	faceTimeout, err := time.ParseDuration(getEnv("FACE_VERIFY_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid FACE_VERIFY_TIMEOUT: %w", err)
	}

	config.FaceVerify = FaceVerifyConfig{
		URL:     getEnv("FACE_VERIFY_URL", ""),
		APIKey:  getEnv("FACE_VERIFY_API_KEY", ""),
		Timeout: faceTimeout,
	}

	// Attendance rules
	standardHours, err := strconv.ParseFloat(getEnv("ATTENDANCE_STANDARD_HOURS", "8"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_STANDARD_HOURS: %w", err)
	}

	fallbackRate, err := decimal.NewFromString(getEnv("ATTENDANCE_FALLBACK_HOURLY_RATE", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_FALLBACK_HOURLY_RATE: %w", err)
	}

	reminderAfter, err := time.ParseDuration(getEnv("ATTENDANCE_REMINDER_AFTER", "10h"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_REMINDER_AFTER: %w", err)
	}

	reminderInterval, err := time.ParseDuration(getEnv("ATTENDANCE_REMINDER_INTERVAL", "30m"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_REMINDER_INTERVAL: %w", err)
	}

	config.Attendance = AttendanceConfig{
		StandardHours:      standardHours,
		LateAfter:          getEnv("ATTENDANCE_LATE_AFTER", "09:05"),
		FallbackHourlyRate: fallbackRate,
		ReminderAfter:      reminderAfter,
		ReminderInterval:   reminderInterval,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return errors.New("DB_PASSWORD is required")
	}
	if c.Database.MaxConns <= 0 || c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
		return errors.New("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS")
	}
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET_KEY is required")
	}
	if c.FaceVerify.URL == "" {
		return errors.New("FACE_VERIFY_URL is required")
	}
	if c.Storage.Type != "local" {
		return fmt.Errorf("unsupported STORAGE_TYPE %q", c.Storage.Type)
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	if c.Attendance.StandardHours <= 0 {
		return errors.New("ATTENDANCE_STANDARD_HOURS must be greater than 0")
	}
	if !validator.IsValidClock(c.Attendance.LateAfter) {
		return errors.New("ATTENDANCE_LATE_AFTER must be in HH:MM format")
	}
	if !c.Attendance.FallbackHourlyRate.IsPositive() {
		return errors.New("ATTENDANCE_FALLBACK_HOURLY_RATE must be greater than 0")
	}
	return nil
}

// Location returns the server's local time zone used to key work dates.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// LateAfterClock splits LateAfter into hour and minute.
func (a AttendanceConfig) LateAfterClock() (hour, minute int) {
	t, err := time.Parse("15:04", a.LateAfter)
	if err != nil {
		return 9, 5
	}
	return t.Hour(), t.Minute()
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
