package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"wishbot/internal/config"

	sq "github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"
)

//go:embed migrations
var migrationsFS embed.FS

// DB is the relational store behind categories, items, tags, locations and
// shared access grants.
type DB struct {
	*sqlx.DB
	driver  string
	builder sq.StatementBuilderType
	logger  *zerolog.Logger
}

// NewDB opens the configured database, applies migrations and returns the store.
func NewDB(cfg config.DatabaseConfig, logger *zerolog.Logger) (*DB, error) {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	driver := cfg.Driver
	if driver == "" {
		driver = config.DriverSQLite
	}

	var (
		conn *sqlx.DB
		err  error
	)
	switch driver {
	case config.DriverSQLite:
		// Создаем директорию для БД, если её нет
		if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		conn, err = sqlx.Open(driver, cfg.Path+"?_foreign_keys=on&_busy_timeout=5000")
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		// sqlite serializes writers; a single connection keeps transactions and
		// in-memory databases consistent
		conn.SetMaxOpenConns(1)
	case config.DriverPostgres:
		conn, err = sqlx.Open(driver, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		maxOpen := cfg.MaxOpenConns
		if maxOpen <= 0 {
			maxOpen = 25
		}
		conn.SetMaxOpenConns(maxOpen)
		conn.SetMaxIdleConns(5)
		conn.SetConnMaxLifetime(5 * time.Minute)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	// Проверяем соединение
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := newDB(conn, logger)
	if err := db.Migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	logger.Info().Str("driver", driver).Msg("Database initialized")
	return db, nil
}

// NewFromConn wraps an already opened connection without running migrations.
func NewFromConn(conn *sqlx.DB, logger *zerolog.Logger) *DB {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return newDB(conn, logger)
}

func newDB(conn *sqlx.DB, logger *zerolog.Logger) *DB {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Question)
	if conn.DriverName() == config.DriverPostgres {
		builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return &DB{
		DB:      conn,
		driver:  conn.DriverName(),
		builder: builder,
		logger:  logger,
	}
}

// Migrate applies the embedded schema migrations for the active driver.
func (db *DB) Migrate() error {
	var (
		dir  string
		name string
	)
	switch db.driver {
	case config.DriverPostgres:
		dir, name = "migrations/postgres", "postgres"
	default:
		dir, name = "migrations/sqlite", "sqlite3"
	}

	src, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	var m *migrate.Migrate
	switch db.driver {
	case config.DriverPostgres:
		driver, err := migratepg.WithInstance(db.DB.DB, &migratepg.Config{})
		if err != nil {
			return fmt.Errorf("failed to create migration driver: %w", err)
		}
		m, err = migrate.NewWithInstance("iofs", src, name, driver)
		if err != nil {
			return fmt.Errorf("failed to create migration instance: %w", err)
		}
	default:
		driver, err := migratesqlite.WithInstance(db.DB.DB, &migratesqlite.Config{})
		if err != nil {
			return fmt.Errorf("failed to create migration driver: %w", err)
		}
		m, err = migrate.NewWithInstance("iofs", src, name, driver)
		if err != nil {
			return fmt.Errorf("failed to create migration instance: %w", err)
		}
	}

	// m.Close would close the shared *sql.DB, so only the source is released
	defer src.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err == nil {
		db.logger.Debug().Uint("version", version).Bool("dirty", dirty).Msg("Database migrations applied")
	}
	return nil
}

// Driver returns the sql driver name ("sqlite3" or "postgres").
func (db *DB) Driver() string {
	return db.driver
}

// Builder returns a squirrel builder with the placeholder format of the driver.
func (db *DB) Builder() sq.StatementBuilderType {
	return db.builder
}

// WithTx runs fn inside a transaction, committing on success.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			db.logger.Error().Err(rbErr).Msg("Rollback failed")
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (db *DB) Ping(ctx context.Context) error {
	return db.PingContext(ctx)
}

func (db *DB) Close() error {
	if db == nil || db.DB == nil {
		return nil
	}
	return db.DB.Close()
}

func now() time.Time {
	return time.Now().UTC()
}
