// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// EnvKeyJWTSecret is the environment variable holding the HMAC signing secret.
	EnvKeyJWTSecret = "JWT_SECRET"

	defaultMaxUploadBytes     = 20 << 20
	defaultMaxChartImageBytes = 5 << 20
	defaultMaxRows            = 100_000
	defaultMaxCells           = 2_000_000
	defaultMaxUnzipBytes      = 256 << 20
)

// Config holds every setting the server needs.
type Config struct {
	Port     string
	AppEnv   string // "development" relaxes secret checks and switches to text logs
	LogLevel slog.Level

	JWTSecret     string
	JWTExpiration time.Duration

	DB    DBConfig
	Redis RedisConfig
	S3    S3Config

	CacheTTL           time.Duration
	MaxUploadBytes     int64
	AllowedExtensions  []string
	MaxRows            int   // data rows per sheet
	MaxCells           int   // cells per sheet, header included
	MaxUnzipBytes      int64 // decompressed xlsx package size
	MaxChartImageBytes int
	FrontendURL        string

	SummaryEnabled   bool
	GeminiAPIKey     string
	GeminiModel      string
	SummaryRateLimit int // summaries per minute
	HTTPTimeout      time.Duration
}

// DBConfig selects and configures the SQL backend.
type DBConfig struct {
	Driver        string // mysql | postgres | sqlite
	User          string
	Password      string
	Name          string
	Host          string
	Port          string
	InstanceName  string // Cloud SQL instance; takes precedence over Host/Port
	SQLitePath    string
	RunMigrations bool
	MaxOpenConns  int
	MaxIdleConns  int
}

// RedisConfig configures the optional read cache.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

// Enabled reports whether a Redis host was configured.
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

// S3Config configures the optional raw-file archive.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// Enabled reports whether a bucket was configured.
func (s S3Config) Enabled() bool {
	return s.Bucket != ""
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Load reads .env (if present) and the process environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	var errs []string

	durationVar := func(key string, def time.Duration) time.Duration {
		d, err := getDuration(key, def)
		if err != nil {
			errs = append(errs, err.Error())
		}
		return d
	}
	intVar := func(key string, def int) int {
		n, err := getInt(key, def)
		if err != nil {
			errs = append(errs, err.Error())
		}
		return n
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		AppEnv:        getEnv("APP_ENV", "production"),
		LogLevel:      parseLevel(getEnv("LOG_LEVEL", "info")),
		JWTSecret:     os.Getenv(EnvKeyJWTSecret),
		JWTExpiration: durationVar("JWT_EXPIRATION", 24*time.Hour),
		DB: DBConfig{
			Driver:        strings.ToLower(getEnv("DB_DRIVER", "mysql")),
			User:          os.Getenv("DB_USER"),
			Password:      os.Getenv("DB_PASSWORD"),
			Name:          os.Getenv("DB_NAME"),
			Host:          getEnv("DB_HOST", "127.0.0.1"),
			Port:          os.Getenv("DB_PORT"),
			InstanceName:  os.Getenv("INSTANCE_CONNECTION_NAME"),
			SQLitePath:    getEnv("DB_SQLITE_PATH", "./analytics.db"),
			RunMigrations: os.Getenv("RUN_MIGRATIONS") == "true",
			MaxOpenConns:  intVar("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:  intVar("DB_MAX_IDLE_CONNS", 10),
		},
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		S3: S3Config{
			Bucket:    os.Getenv("S3_BUCKET"),
			Region:    getEnv("S3_REGION", "us-east-1"),
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
		},
		CacheTTL:           durationVar("CACHE_TTL", 10*time.Minute),
		MaxUploadBytes:     int64(intVar("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)),
		AllowedExtensions:  parseExtensions(getEnv("ALLOWED_EXTENSIONS", ".xlsx,.xlsm,.xls,.csv")),
		MaxRows:            intVar("MAX_ROWS", defaultMaxRows),
		MaxCells:           intVar("MAX_CELLS", defaultMaxCells),
		MaxUnzipBytes:      int64(intVar("MAX_UNZIP_BYTES", defaultMaxUnzipBytes)),
		MaxChartImageBytes: intVar("MAX_CHART_IMAGE_BYTES", defaultMaxChartImageBytes),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:5173"),
		SummaryEnabled:     os.Getenv("SUMMARY_ENABLED") == "true",
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		SummaryRateLimit:   intVar("SUMMARY_RATE_LIMIT", 10),
		HTTPTimeout:        durationVar("HTTP_TIMEOUT", 30*time.Second),
	}

	if cfg.DB.Port == "" {
		if cfg.DB.Driver == "postgres" {
			cfg.DB.Port = "5432"
		} else {
			cfg.DB.Port = "3306"
		}
	}

	errs = append(errs, cfg.validate()...)
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

func (c *Config) validate() []string {
	var errs []string
	switch c.DB.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Sprintf("DB_DRIVER %q is not one of mysql, postgres, sqlite", c.DB.Driver))
	}
	if c.JWTSecret == "" && !c.IsDevelopment() {
		errs = append(errs, EnvKeyJWTSecret+" must be set outside development")
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, "MAX_UPLOAD_BYTES must be positive")
	}
	if c.MaxRows <= 0 || c.MaxCells <= 0 || c.MaxUnzipBytes <= 0 {
		errs = append(errs, "MAX_ROWS, MAX_CELLS and MAX_UNZIP_BYTES must be positive")
	}
	if len(c.AllowedExtensions) == 0 {
		errs = append(errs, "ALLOWED_EXTENSIONS must list at least one extension")
	}
	if c.JWTExpiration <= 0 {
		errs = append(errs, "JWT_EXPIRATION must be positive")
	}
	return errs
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback, fmt.Errorf("%s must be an integer: %q", key, raw)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback, fmt.Errorf("%s must be a duration: %q", key, raw)
	}
	return d, nil
}

func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// parseExtensions normalizes a comma separated list such as "xlsx, .CSV"
// into lower-case, dot-prefixed extensions.
func parseExtensions(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		ext := strings.ToLower(strings.TrimSpace(part))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}
