package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bagdasarian/org-service/internal/telemetry"
	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type DispatcherConfig struct {
	Workers         int
	QueueSize       int
	MaxAttempts     uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
	DeliveryTimeout time.Duration
}

// Dispatcher - ограниченная очередь сообщений и пул воркеров доставки
type Dispatcher struct {
	sender  Sender
	cfg     DispatcherConfig
	metrics *telemetry.Metrics

	queue chan Message
	wg    sync.WaitGroup

	mu      sync.RWMutex
	stopped bool
}

func NewDispatcher(sender Sender, cfg DispatcherConfig, metrics *telemetry.Metrics) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = 500 * time.Millisecond
	}
	if cfg.MaxInterval <= 0 {
		cfg.MaxInterval = 30 * time.Second
	}
	if cfg.DeliveryTimeout <= 0 {
		cfg.DeliveryTimeout = 30 * time.Second
	}

	return &Dispatcher{
		sender:  sender,
		cfg:     cfg,
		metrics: metrics,
		queue:   make(chan Message, cfg.QueueSize),
	}
}

// Start запускает воркеры; они работают до Stop
func (d *Dispatcher) Start() {
	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.work(i)
	}
	log.Info().Int("workers", d.cfg.Workers).Int("queue_size", d.cfg.QueueSize).Msg("notification dispatcher started")
}

// Send не блокируется: при заполненной очереди сообщение отбрасывается
func (d *Dispatcher) Send(ctx context.Context, msg Message) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	logger := log.Ctx(ctx)
	if d.stopped {
		logger.Warn().Str("template", msg.Template).Msg("dispatcher stopped, notification dropped")
		d.metrics.NotificationsDropped.Add(ctx, 1, templateAttr(msg))
		return
	}

	select {
	case d.queue <- msg:
	default:
		logger.Warn().
			Str("template", msg.Template).
			Strs("recipients", msg.Recipients).
			Msg("notification queue full, message dropped")
		d.metrics.NotificationsDropped.Add(ctx, 1, templateAttr(msg))
	}
}

// Stop закрывает очередь и ждет, пока воркеры доставят оставшиеся сообщения
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info().Msg("notification dispatcher stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) work(id int) {
	defer d.wg.Done()

	for msg := range d.queue {
		d.deliver(id, msg)
	}
}

func (d *Dispatcher) deliver(worker int, msg Message) {
	ctx := context.Background()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = d.cfg.InitialInterval
	bo.MaxInterval = d.cfg.MaxInterval

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		attemptCtx, cancel := context.WithTimeout(ctx, d.cfg.DeliveryTimeout)
		defer cancel()

		err := d.sender.Deliver(attemptCtx, msg)
		if errors.Is(err, ErrUnknownTemplate) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(d.cfg.MaxAttempts),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Warn().
				Err(err).
				Int("worker", worker).
				Str("template", msg.Template).
				Dur("retry_in", next).
				Msg("notification delivery failed, retrying")
		}),
	)

	if err != nil {
		log.Error().
			Err(err).
			Int("worker", worker).
			Int("attempts", attempt).
			Str("template", msg.Template).
			Strs("recipients", msg.Recipients).
			Msg("notification delivery failed")
		d.metrics.NotificationsFailed.Add(ctx, 1, templateAttr(msg))
		return
	}

	d.metrics.NotificationsSent.Add(ctx, 1, templateAttr(msg))
}

func templateAttr(msg Message) metric.AddOption {
	return metric.WithAttributes(attribute.String("template", msg.Template))
}
