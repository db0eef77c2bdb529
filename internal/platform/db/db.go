package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
)

// Open connects to Postgres, retrying while the database comes up.
func Open(ctx context.Context, dsn string, attempts int, logger zerolog.Logger) (*sql.DB, error) {
	if attempts < 1 {
		attempts = 1
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	for i := 1; i <= attempts; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err == nil {
			logger.Info().Msg("connected to database")
			return db, nil
		}
		logger.Warn().Err(err).Int("attempt", i).Int("of", attempts).Msg("waiting for database")
		if i < attempts {
			select {
			case <-ctx.Done():
				db.Close()
				return nil, ctx.Err()
			case <-time.After(time.Second):
			}
		}
	}
	db.Close()
	return nil, fmt.Errorf("ping database: %w", err)
}
