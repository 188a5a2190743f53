// Package db is the data-access layer of the tracker. It opens the
// relational store, migrates the schema and exposes typed save/load
// operations for every entity.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/team16/easytracker/internal/tracker/db/models"
	e "github.com/team16/easytracker/internal/tracker/errors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Repository struct {
	db *gorm.DB
}

type Config struct {
	Driver string
	// Path is the SQLite database file, or ":memory:".
	Path     string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	// ConnectTimeout bounds NewRepositoryWithRetry.
	ConnectTimeout time.Duration
}

func (cfg *Config) dialector() (gorm.Dialector, error) {
	switch cfg.Driver {
	case DriverSQLite, "":
		path := cfg.Path
		if path == "" {
			path = "easytracker.db"
		}
		return sqlite.Open(path), nil
	case DriverPostgres:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("%w: unknown database driver %q", e.ErrInvalidInput, cfg.Driver)
	}
}

func NewRepository(cfg *Config) (*Repository, error) {
	dialector, err := cfg.dialector()
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if dialector.Name() == DriverSQLite {
		// SQLite has a single writer; one connection also keeps ":memory:" stores alive.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access database handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{db: db}, nil
}

// NewRepositoryWithRetry keeps calling NewRepository with exponential
// backoff until it succeeds or cfg.ConnectTimeout elapses.
func NewRepositoryWithRetry(cfg *Config, log *zap.Logger) (*Repository, error) {
	policy := backoff.NewExponentialBackOff()
	if cfg.ConnectTimeout > 0 {
		policy.MaxElapsedTime = cfg.ConnectTimeout
	}

	var repo *Repository
	err := backoff.RetryNotify(func() error {
		var err error
		repo, err = NewRepository(cfg)
		if errors.Is(err, e.ErrInvalidInput) {
			return backoff.Permanent(err)
		}
		return err
	}, policy, func(err error, wait time.Duration) {
		log.Warn("database not ready, retrying",
			zap.Error(err),
			zap.Duration("wait", wait),
		)
	})
	if err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) Exec(ctx context.Context, query string, params ...interface{}) error {
	result := r.db.WithContext(ctx).Exec(query, params...)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// HasColumn reports whether table currently has the named column.
func (r *Repository) HasColumn(table, column string) bool {
	return r.db.Migrator().HasColumn(table, column)
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

// first loads a single row into dst, translating a missing row to ErrNotFound.
func (r *Repository) first(ctx context.Context, dst interface{}, id int64) error {
	result := r.db.WithContext(ctx).First(dst, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return e.ErrNotFound
		}
		return result.Error
	}
	return nil
}

// create inserts row, translating unique violations to ErrDuplicate.
func (r *Repository) create(ctx context.Context, row interface{}) error {
	result := r.db.WithContext(ctx).Create(row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicate
		}
		return result.Error
	}
	return nil
}
