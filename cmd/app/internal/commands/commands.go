package commands

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bagdasarian/org-service/internal/config"
	"github.com/bagdasarian/org-service/internal/db"
	"github.com/bagdasarian/org-service/internal/logger"
	"github.com/bagdasarian/org-service/internal/telemetry"
	"github.com/rs/zerolog/log"
)

type Globals struct {
	Version string
}

// app - окружение, общее для всех команд
type app struct {
	cfg      *config.Config
	db       *sql.DB
	shutdown telemetry.ShutdownFunc
}

func bootstrap(ctx context.Context, globals *Globals) (*app, error) {
	cfg := config.Load()
	logger.Setup(cfg.Log.Level, cfg.Log.Format)

	rt := &app{
		cfg:      cfg,
		shutdown: func(context.Context) error { return nil },
	}

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Init(ctx, cfg.Telemetry.ServiceName, globals.Version, cfg.Telemetry.ExportInterval)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize telemetry, continuing without it")
		} else {
			rt.shutdown = shutdown
		}
	}

	database, err := db.NewPostgres(ctx, cfg.Database)
	if err != nil {
		rt.close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	rt.db = database
	log.Info().Str("host", cfg.Database.Host).Str("database", cfg.Database.DBName).Msg("connected to database")

	return rt, nil
}

func (rt *app) close() {
	if rt.db != nil {
		if err := rt.db.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rt.shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("failed to shutdown telemetry")
	}
}
