// Package server parses server command flags and starts the HTTP runtime.
package server

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	entrypoint "github.com/louisbranch/what2pick/internal/platform/cmd"
	"github.com/louisbranch/what2pick/internal/platform/storage/sqlspec"
	"github.com/louisbranch/what2pick/internal/services/picker"
	"github.com/louisbranch/what2pick/internal/services/user"
	"github.com/louisbranch/what2pick/internal/services/web"
)

const shutdownTimeout = 10 * time.Second

// Config holds server command configuration.
type Config struct {
	Port     int    `env:"WHAT2PICK_PORT" envDefault:"5000"`
	Addr     string `env:"WHAT2PICK_ADDR"`
	DBPath   string `env:"WHAT2PICK_DB_PATH" envDefault:"what2pick.db"`
	LogLevel string `env:"WHAT2PICK_LOG_LEVEL" envDefault:"info"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The server listen address (overrides -port)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the sqlite database file")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (trace|debug|info|warn|error)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the what2pick web service.
func Run(ctx context.Context, cfg Config) error {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceServer, func(ctx context.Context) error {
		store, err := sqlspec.Open(cfg.DBPath, logger)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Warn().Err(err).Msg("close store")
			}
		}()

		users, err := user.NewService(ctx, store)
		if err != nil {
			return fmt.Errorf("init user service: %w", err)
		}
		games, err := picker.NewService(ctx, store, logger)
		if err != nil {
			return fmt.Errorf("init picker service: %w", err)
		}

		addr := cfg.Addr
		if addr == "" {
			addr = net.JoinHostPort("", strconv.Itoa(cfg.Port))
		}
		srv := &http.Server{
			Addr:    addr,
			Handler: web.New(users, games, logger).Router(),
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info().Str("addr", addr).Msg("listening")
			errCh <- srv.ListenAndServe()
		}()

		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown server: %w", err)
			}
			return nil
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("serve: %w", err)
		}
	})
}
