package db

import (
	"fmt"
	"log/slog"
	"time"

	gmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	connectTimeout = 60 * time.Second
	retryInterval  = 3 * time.Second
)

// Config describes how to reach the SQL backend.
type Config struct {
	Driver        string
	User          string
	Password      string
	Name          string
	Host          string
	Port          string
	InstanceName  string
	SQLitePath    string
	RunMigrations bool
	MaxOpenConns  int
	MaxIdleConns  int
}

// Opener opens a gorm connection for a DSN. Swapped out in tests.
type Opener func(dsn string) (*gorm.DB, error)

// BuildDSN returns the MySQL DSN. Cloud SQL unix sockets take precedence over TCP.
func BuildDSN(cfg Config) string {
	if cfg.InstanceName != "" {
		return fmt.Sprintf("%s:%s@unix(/cloudsql/%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
			cfg.User, cfg.Password, cfg.InstanceName, cfg.Name)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
}

// BuildPostgresDSN returns a libpq style DSN for the pgx driver.
func BuildPostgresDSN(cfg Config) string {
	host := cfg.Host
	if cfg.InstanceName != "" {
		host = "/cloudsql/" + cfg.InstanceName
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		host, cfg.User, cfg.Password, cfg.Name, cfg.Port)
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
}

// openerFor picks the dialector for cfg.Driver and returns its DSN.
func openerFor(cfg Config) (Opener, string, error) {
	switch cfg.Driver {
	case DriverMySQL, "":
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(gmysql.Open(dsn), gormConfig())
		}, BuildDSN(cfg), nil
	case DriverPostgres:
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), gormConfig())
		}, BuildPostgresDSN(cfg), nil
	case DriverSQLite:
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(sqlite.Open(dsn), gormConfig())
		}, cfg.SQLitePath, nil
	default:
		return nil, "", fmt.Errorf("unsupported DB driver %q", cfg.Driver)
	}
}

// ConnectWithRetry keeps calling open until it succeeds or timeout elapses.
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %s: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err)
		time.Sleep(retryInterval)
	}
}

// OpenDB connects to the configured backend, applies pool limits and, when
// enabled, migrates the given models.
func OpenDB(cfg Config, models ...any) (*gorm.DB, error) {
	open, dsn, err := openerFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := ConnectWithRetry(dsn, connectTimeout, open)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access sql pool: %w", err)
	}
	if cfg.Driver == DriverSQLite {
		// sqlite serializes writers; one connection avoids "database is locked".
		sqlDB.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if cfg.RunMigrations && len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
		slog.Info("database migrated", "driver", cfg.Driver, "models", len(models))
	}

	return db, nil
}

// OpenSQLiteMemory opens a private in-memory database with the given models
// migrated. Used by repository tests and local runs without a server.
func OpenSQLiteMemory(models ...any) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(models...); err != nil {
		return nil, err
	}
	return db, nil
}
