package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Development signing secrets. Validate refuses them in production.
const (
	devAuthTokenSecret  = "dev_secret"
	devSessionSecret    = "dev_session_secret"
	devAdminTokenSecret = "dev_admin_secret"
)

// Days is the closed set of weekdays a schedule block may fall on.
var Days = []string{"lun", "mar", "mie", "jue", "vie"}

// MaxPriority is the highest value on the preference scale.
const MaxPriority = 3

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Session  SessionConfig
	Admin    AdminConfig
	CORS     CORSConfig
	Log      LogConfig
	Schedule ScheduleConfig
	Metrics  MetricsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	AutoMigrate  bool
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// AuthConfig describes how tokens issued by the university portal are verified.
type AuthConfig struct {
	TokenSecret       string
	Audience          string
	RequireAudience   bool
	RequireExpiration bool
}

// SessionConfig controls the cookie-backed session established after login.
type SessionConfig struct {
	Secret       string
	TTL          time.Duration
	CookieName   string
	CookieSecure bool
}

// AdminConfig governs administrator access tokens.
type AdminConfig struct {
	TokenSecret string
	TokenTTL    time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// ScheduleConfig holds the weekday ordering and preference scale loaded once at start.
type ScheduleConfig struct {
	Days        []string
	PriorityMax int
	CacheTTL    time.Duration
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		AutoMigrate:  v.GetBool("DB_AUTO_MIGRATE"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Auth = AuthConfig{
		TokenSecret:       v.GetString("AUTH_TOKEN_SECRET"),
		Audience:          v.GetString("AUTH_AUDIENCE"),
		RequireAudience:   v.GetBool("AUTH_REQUIRE_AUDIENCE"),
		RequireExpiration: v.GetBool("AUTH_REQUIRE_EXPIRATION"),
	}

	cfg.Session = SessionConfig{
		Secret:       v.GetString("SESSION_SECRET"),
		TTL:          parseDuration(v.GetString("SESSION_TTL"), 30*time.Minute),
		CookieName:   v.GetString("SESSION_COOKIE_NAME"),
		CookieSecure: v.GetBool("SESSION_COOKIE_SECURE"),
	}

	cfg.Admin = AdminConfig{
		TokenSecret: v.GetString("ADMIN_TOKEN_SECRET"),
		TokenTTL:    parseDuration(v.GetString("ADMIN_TOKEN_TTL"), time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Schedule = ScheduleConfig{
		Days:        splitAndTrim(v.GetString("SCHEDULE_DAYS")),
		PriorityMax: v.GetInt("SCHEDULE_PRIORITY_MAX"),
		CacheTTL:    parseDuration(v.GetString("SCHEDULE_CACHE_TTL"), 10*time.Minute),
	}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that cannot be defaulted safely.
func (c *Config) Validate() error {
	if len(c.Schedule.Days) == 0 {
		c.Schedule.Days = append([]string(nil), Days...)
	}
	for _, day := range c.Schedule.Days {
		if !IsValidDay(day) {
			return fmt.Errorf("SCHEDULE_DAYS: unknown day %q", day)
		}
	}
	if c.Schedule.PriorityMax <= 0 || c.Schedule.PriorityMax > MaxPriority {
		c.Schedule.PriorityMax = MaxPriority
	}
	if c.Session.TTL <= 0 {
		c.Session.TTL = 30 * time.Minute
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "horarios_session"
	}

	if c.Env == EnvProduction {
		secrets := []struct {
			key, value, devDefault string
		}{
			{"AUTH_TOKEN_SECRET", c.Auth.TokenSecret, devAuthTokenSecret},
			{"SESSION_SECRET", c.Session.Secret, devSessionSecret},
			{"ADMIN_TOKEN_SECRET", c.Admin.TokenSecret, devAdminTokenSecret},
		}
		for _, s := range secrets {
			if s.value == "" || s.value == s.devDefault {
				return fmt.Errorf("%s must be set to a non-default value in production", s.key)
			}
		}
	}
	return nil
}

// IsValidDay reports whether day belongs to the closed weekday set.
func IsValidDay(day string) bool {
	for _, d := range Days {
		if d == day {
			return true
		}
	}
	return false
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 5000)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "horarios")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_AUTO_MIGRATE", false)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("AUTH_TOKEN_SECRET", devAuthTokenSecret)
	v.SetDefault("AUTH_AUDIENCE", "horariosFIUM2025")
	v.SetDefault("AUTH_REQUIRE_AUDIENCE", true)
	v.SetDefault("AUTH_REQUIRE_EXPIRATION", false)

	v.SetDefault("SESSION_SECRET", devSessionSecret)
	v.SetDefault("SESSION_TTL", "30m")
	v.SetDefault("SESSION_COOKIE_NAME", "horarios_session")
	v.SetDefault("SESSION_COOKIE_SECURE", false)

	v.SetDefault("ADMIN_TOKEN_SECRET", devAdminTokenSecret)
	v.SetDefault("ADMIN_TOKEN_TTL", "1h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SCHEDULE_DAYS", strings.Join(Days, ","))
	v.SetDefault("SCHEDULE_PRIORITY_MAX", MaxPriority)
	v.SetDefault("SCHEDULE_CACHE_TTL", "10m")

	v.SetDefault("ENABLE_METRICS", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
