package telemetry

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/bagdasarian/org-service"

// Metrics holds the OpenTelemetry instruments of the service
type Metrics struct {
	// Ownership transfer lifecycle
	TransfersInitiated metric.Int64Counter
	TransfersAccepted  metric.Int64Counter
	TransfersRejected  metric.Int64Counter
	TransfersCancelled metric.Int64Counter
	TransfersExpired   metric.Int64Counter

	// Notification delivery
	NotificationsSent    metric.Int64Counter
	NotificationsFailed  metric.Int64Counter
	NotificationsDropped metric.Int64Counter
}

var (
	once    sync.Once
	metrics *Metrics
)

// GetMetrics returns the singleton Metrics instance. Instruments created before
// Init are bound to the global delegating provider and start exporting once it is set.
func GetMetrics() *Metrics {
	once.Do(func() {
		metrics = NewMetrics(otel.GetMeterProvider().Meter(meterName))
	})
	return metrics
}

// NewMetrics creates the instruments on the given meter
func NewMetrics(meter metric.Meter) *Metrics {
	m := &Metrics{}

	m.TransfersInitiated = counter(meter, "org.transfers.initiated", "Ownership transfers initiated", "{transfer}")
	m.TransfersAccepted = counter(meter, "org.transfers.accepted", "Ownership transfers accepted", "{transfer}")
	m.TransfersRejected = counter(meter, "org.transfers.rejected", "Ownership transfers rejected", "{transfer}")
	m.TransfersCancelled = counter(meter, "org.transfers.cancelled", "Ownership transfers cancelled by the owner", "{transfer}")
	m.TransfersExpired = counter(meter, "org.transfers.expired", "Expired ownership transfers removed", "{transfer}")

	m.NotificationsSent = counter(meter, "org.notifications.sent", "Notifications delivered", "{message}")
	m.NotificationsFailed = counter(meter, "org.notifications.failed", "Notifications that exhausted delivery attempts", "{message}")
	m.NotificationsDropped = counter(meter, "org.notifications.dropped", "Notifications dropped because the queue was full", "{message}")

	return m
}

// counter falls back to a no-op instrument on registration errors
func counter(meter metric.Meter, name, description, unit string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		otel.Handle(err)
	}
	return c
}
