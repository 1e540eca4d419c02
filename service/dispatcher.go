package service

import (
	"context"
	"time"

	"gala/client"
	"gala/logging"
	"gala/metrics"

	"github.com/sirupsen/logrus"
)

type EventPublisher interface {
	Publish(ctx context.Context, event *client.Event) error
}

type Notifier interface {
	Notify(ctx context.Context, message string) error
}

const dispatchTimeout = 5 * time.Second

// Dispatcher runs the side effects of a committed scoring mutation. Failures are logged
// and never reach the caller.
type Dispatcher struct {
	publisher EventPublisher
	notifier  Notifier
	results   *ResultsCache
}

func NewDispatcher(publisher EventPublisher, notifier Notifier, results *ResultsCache) *Dispatcher {
	if publisher == nil {
		publisher = client.NoopPublisher{}
	}
	if notifier == nil {
		notifier = client.NoopNotifier{}
	}
	return &Dispatcher{publisher: publisher, notifier: notifier, results: results}
}

func (d *Dispatcher) Dispatch(ctx context.Context, event *client.Event, announcement string) {
	if d.results != nil {
		d.results.Invalidate(event.GalaId)
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dispatchTimeout)
	defer cancel()

	outcome := "ok"
	if err := d.publisher.Publish(ctx, event); err != nil {
		outcome = "error"
		logging.Log.WithFields(logrus.Fields{
			"event_id":   event.Id,
			"event_type": event.Type,
			"gala_id":    event.GalaId,
		}).WithError(err).Warn("failed to publish event")
	}
	metrics.EventsPublishedCounter.WithLabelValues(string(event.Type), outcome).Inc()

	if announcement == "" {
		return
	}
	if err := d.notifier.Notify(ctx, announcement); err != nil {
		logging.Log.WithField("gala_id", event.GalaId).WithError(err).Warn("failed to send notification")
	}
}
