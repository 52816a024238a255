package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	// Registers the pure-Go "sqlite" driver used by the SQLite dialector
	_ "modernc.org/sqlite"

	"github.com/quillpress/api-backend/internal/models"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds database configuration options
type Config struct {
	// Driver selects the dialect: "sqlite" or "postgres"
	Driver string

	// DatabasePath is the SQLite file path, ":memory:" for an in-memory database
	DatabasePath string

	// DSN is the PostgreSQL connection string
	DSN string

	// LogLevel sets GORM logging verbosity
	LogLevel logger.LogLevel

	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns sensible default configuration for production
func DefaultConfig(dbPath string) *Config {
	return &Config{
		Driver:          DriverSQLite,
		DatabasePath:    dbPath,
		LogLevel:        logger.Warn,
		MaxIdleConns:    10,
		MaxOpenConns:    100,
		ConnMaxLifetime: time.Hour,
	}
}

// TestConfig returns configuration suitable for testing (in-memory database).
// A single connection keeps every statement on the same in-memory database.
func TestConfig() *Config {
	return &Config{
		Driver:          DriverSQLite,
		DatabasePath:    ":memory:",
		LogLevel:        logger.Silent,
		MaxIdleConns:    1,
		MaxOpenConns:    1,
		ConnMaxLifetime: 0,
	}
}

// InitDB initializes the database connection and runs migrations
func InitDB(config *Config, log *zap.Logger) (*gorm.DB, error) {
	if config == nil {
		config = DefaultConfig("./data/blog.db")
	}
	if log == nil {
		log = zap.NewNop()
	}

	dialector, err := openDialector(config, log)
	if err != nil {
		return nil, err
	}

	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(config.LogLevel),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", config.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL database: %w", err)
	}

	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)

	if config.Driver == DriverSQLite {
		// Applies to the pooled connection that runs it; the DSN pragma covers the rest
		if err := db.Exec("PRAGMA foreign_keys = ON;").Error; err != nil {
			return nil, fmt.Errorf("failed to enable foreign key constraints: %w", err)
		}
		if config.DatabasePath != ":memory:" {
			if err := db.Exec("PRAGMA journal_mode = WAL;").Error; err != nil {
				log.Warn("failed to enable WAL mode", zap.Error(err))
			}
		}
	}

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("database initialized", zap.String("driver", config.Driver))
	return db, nil
}

func openDialector(config *Config, log *zap.Logger) (gorm.Dialector, error) {
	switch config.Driver {
	case DriverPostgres:
		if config.DSN == "" {
			return nil, fmt.Errorf("postgres DSN is required")
		}
		return postgres.Open(config.DSN), nil

	case DriverSQLite, "":
		config.Driver = DriverSQLite
		dsn := config.DatabasePath
		if dsn != ":memory:" {
			if err := ensureDBDirectory(dsn); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
			log.Info("opening SQLite database", zap.String("path", dsn))
			dsn += "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
		}
		return sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", config.Driver)
	}
}

// runMigrations executes GORM AutoMigrate for all models
func runMigrations(db *gorm.DB) error {
	// Order matters: referenced tables first
	if err := db.AutoMigrate(
		&models.AdminUser{},
		&models.OTPChallenge{},
		&models.User{},
		&models.Category{},
		&models.Blog{},
		&models.FAQ{},
		&models.Comment{},
		&models.Like{},
		&models.Favorite{},
		&models.BlogRelation{},
		&models.InformationPage{},
	); err != nil {
		return fmt.Errorf("AutoMigrate failed: %w", err)
	}

	if err := createCustomIndexes(db); err != nil {
		return fmt.Errorf("failed to create custom indexes: %w", err)
	}

	return nil
}

// createCustomIndexes creates indexes that aren't automatically created by GORM tags
func createCustomIndexes(db *gorm.DB) error {
	indexes := []string{
		// Listing published blogs newest first
		"CREATE INDEX IF NOT EXISTS idx_blogs_status_created ON blogs(status, created_at);",

		// Resend cooldown lookups
		"CREATE INDEX IF NOT EXISTS idx_otp_challenges_mobile_created ON otp_challenges(mobile, created_at);",

		// Category pages join through the link table from the category side
		"CREATE INDEX IF NOT EXISTS idx_blog_categories_category ON blog_categories(category_id);",
	}

	for _, indexSQL := range indexes {
		if err := db.Exec(indexSQL).Error; err != nil {
			return fmt.Errorf("failed to create index: %w (SQL: %s)", err, indexSQL)
		}
	}

	return nil
}

// Close gracefully closes the database connection
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL database: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	return nil
}

// Ping checks if the database connection is alive
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL database: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}

// ensureDBDirectory creates the directory for the database file if it doesn't exist
func ensureDBDirectory(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s exists but is not a directory", dir)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}

	return os.MkdirAll(dir, 0o755)
}
