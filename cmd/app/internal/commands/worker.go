package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/bagdasarian/org-service/internal/notify"
	"github.com/bagdasarian/org-service/internal/repository/postgres"
	"github.com/bagdasarian/org-service/internal/service"
	"github.com/bagdasarian/org-service/internal/worker"
	"github.com/rs/zerolog/log"
)

type WorkerCmd struct {
	Interval time.Duration `help:"Sweep interval, overrides SWEEP_INTERVAL." default:"0s"`
	Timeout  time.Duration `help:"Timeout of a single sweep." default:"1m"`
}

func (c *WorkerCmd) Run(ctx context.Context, globals *Globals) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap(ctx, globals)
	if err != nil {
		return err
	}
	defer rt.close()

	interval := rt.cfg.Sweep.Interval
	if c.Interval > 0 {
		interval = c.Interval
	}
	if interval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be positive, got %s", interval)
	}

	log.Info().Str("version", globals.Version).Msg("starting sweep worker")
	return newSweeper(rt, c.Timeout).Run(ctx, interval)
}

type SweepCmd struct {
	Timeout time.Duration `help:"Timeout of the sweep." default:"1m"`
}

func (c *SweepCmd) Run(ctx context.Context, globals *Globals) error {
	rt, err := bootstrap(ctx, globals)
	if err != nil {
		return err
	}
	defer rt.close()

	_, err = newSweeper(rt, c.Timeout).RunOnce(ctx)
	return err
}

// Очистка не рассылает уведомлений
func newSweeper(rt *app, timeout time.Duration) *worker.Sweeper {
	store := postgres.NewStore(rt.db)
	transfers := service.NewTransferService(store, notify.Nop{}, rt.cfg.Notifications.BaseURL)
	return worker.NewSweeper(transfers, timeout)
}
