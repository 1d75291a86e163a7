package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	MaxConns int
}

func (c Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}

func NewPostgresDB(cfg Config, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error
	maxRetries := 10

	for i := 1; i <= maxRetries; i++ {
		logger.Info("connecting to database", zap.Int("attempt", i), zap.Int("max_attempts", maxRetries))
		db, err = sql.Open("postgres", cfg.DSN())
		if err == nil {
			err = db.Ping()
		}

		if err == nil {
			logger.Info("database connected")

			maxConns := cfg.MaxConns
			if maxConns <= 0 {
				maxConns = 25
			}
			db.SetMaxOpenConns(maxConns)
			db.SetMaxIdleConns(maxConns)
			db.SetConnMaxLifetime(5 * time.Minute)

			return db, nil
		}

		logger.Warn("database not ready yet, retrying", zap.Error(err))
		time.Sleep(2 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect to database: %w", err)
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d failed: %w", i+1, err)
		}
	}

	return nil
}
