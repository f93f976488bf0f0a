package worker

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

// ExpiredTransferSweeper удаляет истекшие передачи
type ExpiredTransferSweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// ErrInvalidInterval возвращается, если интервал прохода не положительный
var ErrInvalidInterval = errors.New("sweep interval must be positive")

// Sweeper периодически удаляет истекшие передачи владения.
// Проход идемпотентен, поэтому несколько воркеров могут работать одновременно.
type Sweeper struct {
	transfers ExpiredTransferSweeper
	timeout   time.Duration
}

func NewSweeper(transfers ExpiredTransferSweeper, timeout time.Duration) *Sweeper {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Sweeper{transfers: transfers, timeout: timeout}
}

// RunOnce выполняет один проход
func (s *Sweeper) RunOnce(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	count, err := s.transfers.SweepExpired(ctx)
	if err != nil {
		log.Error().Err(err).Msg("expired transfer sweep failed")
		return 0, err
	}

	log.Info().
		Int64("deleted", count).
		Dur("duration", time.Since(started)).
		Msg("expired transfer sweep completed")
	return count, nil
}

// Run выполняет проход сразу и затем каждые interval до отмены ctx.
// Ошибка прохода не останавливает цикл.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}

	log.Info().Dur("interval", interval).Msg("sweeper started")

	_, _ = s.RunOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("sweeper stopped")
			return nil
		case <-ticker.C:
			_, _ = s.RunOnce(ctx)
		}
	}
}
