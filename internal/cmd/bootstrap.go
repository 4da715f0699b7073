package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"

	"backoffice-service/internal/config"
	"backoffice-service/internal/service"
)

const connectRetryInterval = 3 * time.Second

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// setup loads the configuration and points every package logger at the
// configured level and format.
func setup() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log.level %q: %w", cfg.Log.Level, err)
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Log.Pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}
	service.SetLogger(logger)

	return cfg, nil
}

func connectDB(ctx context.Context, cfg config.DBConfig) (*sql.DB, error) {
	retries := cfg.ConnectRetries
	if retries < 1 {
		retries = 1
	}

	var (
		db  *sql.DB
		err error
	)
	for i := 0; i < retries; i++ {
		db, err = sql.Open("mysql", cfg.DSN)
		if err == nil {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
			err = db.PingContext(ctx)
			if err == nil {
				logger.Info().Msg("Connected to DB")
				return db, nil
			}
			db.Close()
		}
		logger.Warn().Err(err).Msgf("Retry %d: failed to connect to DB", i+1)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(connectRetryInterval):
		}
	}
	return nil, fmt.Errorf("failed to connect to DB after %d retries: %w", retries, err)
}
