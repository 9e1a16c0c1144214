package relay

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nerrad567/point-relay/internal/deadletter"
	"github.com/nerrad567/point-relay/internal/infrastructure/config"
	"github.com/nerrad567/point-relay/internal/infrastructure/logging"
	"github.com/nerrad567/point-relay/internal/infrastructure/mqtt"
	"github.com/nerrad567/point-relay/internal/store"
	"github.com/nerrad567/point-relay/internal/translate"
)

// Bus is the transport surface the relay needs. *mqtt.Client satisfies it.
type Bus interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topic string) error
	Publish(topic string, payload []byte, qos byte, retained bool) error
	PublishRetained(topic string, payload []byte) error
}

// Submitter resolves the store handle. *store.Resolver satisfies it.
type Submitter interface {
	Acquire(ctx context.Context) (store.Handle, error)
	Release()
}

// Relay subscribes to the configured ingest routes and drives each message
// through decode, translate and store submission.
//
// Outcomes:
//   - success: badge shows "written", the original payload is forwarded to
//     the route's forward topic (if configured)
//   - failure: badge shows "error", the original payload is preserved as a
//     dead letter with the failure reason
//
// When the store is disabled in configuration the relay is inert: Start
// subscribes to nothing and reports nothing.
type Relay struct {
	cfg         *config.Config
	bus         Bus
	submitter   Submitter
	deadletters *deadletter.Store
	tracker     *Tracker
	logger      *logging.Logger
	qos         byte
}

// New creates a relay.
//
// Parameters:
//   - cfg: Full service configuration (routes, store defaults, QoS)
//   - bus: Message transport for subscriptions, forwarding and the badge
//   - submitter: Lazy store handle resolver
//   - deadletters: Failed-message store (may be nil to disable recording)
//   - logger: Structured logger
func New(cfg *config.Config, bus Bus, submitter Submitter, deadletters *deadletter.Store, logger *logging.Logger) *Relay {
	r := &Relay{
		cfg:         cfg,
		bus:         bus,
		submitter:   submitter,
		deadletters: deadletters,
		logger:      logger,
		qos:         byte(cfg.MQTT.QoS),
	}
	r.tracker = NewTracker(cfg.StatusResetDelay(), r.publishBadge)
	return r
}

// Start subscribes to all configured ingest routes.
//
// With the store disabled this is a no-op: no subscriptions are made and
// incoming traffic is never inspected.
//
// Parameters:
//   - ctx: Context passed through to per-message processing
//
// Returns:
//   - error: If any route subscription fails; earlier subscriptions stay
//     active
func (r *Relay) Start(ctx context.Context) error {
	if !r.cfg.Store.Enabled {
		r.logger.Info("relay disabled, not subscribing", "routes", len(r.cfg.Relay.Routes))
		return nil
	}

	for _, route := range r.cfg.Relay.Routes {
		route := route
		handler := func(topic string, payload []byte) error {
			return r.handle(ctx, route, topic, payload)
		}
		if err := r.bus.Subscribe(route.Topic, r.qos, handler); err != nil {
			return fmt.Errorf("subscribing route %q: %w", route.Name, err)
		}
		r.logger.Info("route subscribed",
			"route", route.Name,
			"topic", route.Topic,
			"forward", route.ForwardTopic,
		)
	}

	return nil
}

// Stop unsubscribes all routes and cancels the pending badge reset.
func (r *Relay) Stop() {
	for _, route := range r.cfg.Relay.Routes {
		if err := r.bus.Unsubscribe(route.Topic); err != nil {
			r.logger.Warn("unsubscribe failed", "route", route.Name, "error", err)
		}
	}
	r.tracker.Stop()
}

// Status returns the current badge state and counters.
func (r *Relay) Status() Status {
	return r.tracker.Snapshot()
}

// handle processes one delivered message end to end.
func (r *Relay) handle(ctx context.Context, route config.RouteConfig, topic string, payload []byte) error {
	msg, err := translate.DecodeMessage(payload)
	if err != nil {
		return r.fail(ctx, route, topic, payload, err)
	}

	defaults := translate.Defaults{
		Measurement: route.Measurement,
		Database:    route.Database,
	}
	result, err := translate.Translate(msg, defaults, r.cfg.Store.Database)
	if err != nil {
		return r.fail(ctx, route, topic, payload, err)
	}

	handle, err := r.submitter.Acquire(ctx)
	if err != nil {
		return r.fail(ctx, route, topic, payload, err)
	}

	if err := handle.Write(ctx, result.Database, result.Line); err != nil {
		// Drop the handle so the next message reconnects rather than
		// reusing a connection that just failed.
		r.submitter.Release()
		return r.fail(ctx, route, topic, payload, fmt.Errorf("%w: %w", ErrSubmission, err))
	}

	r.tracker.Written()
	r.logger.Debug("point written",
		"route", route.Name,
		"database", result.Database,
	)

	r.forward(route, payload)

	return nil
}

// fail records one failed message: badge, dead letter, log.
func (r *Relay) fail(ctx context.Context, route config.RouteConfig, topic string, payload []byte, err error) error {
	r.tracker.Errored(err)

	if r.deadletters != nil {
		if recErr := r.deadletters.Record(ctx, route.Name, topic, err.Error(), payload); recErr != nil {
			r.logger.Error("dead-letter record failed",
				"route", route.Name,
				"error", recErr,
			)
		}
	}

	r.logger.Warn("message not relayed",
		"route", route.Name,
		"topic", topic,
		"error", err,
	)

	return err
}

// forward republishes the original payload after a successful write.
func (r *Relay) forward(route config.RouteConfig, payload []byte) {
	if route.ForwardTopic == "" {
		return
	}
	if err := r.bus.Publish(route.ForwardTopic, payload, r.qos, false); err != nil {
		// Forwarding is best effort: the point is already stored.
		r.logger.Warn("forward failed",
			"route", route.Name,
			"topic", route.ForwardTopic,
			"error", err,
		)
	}
}

// publishBadge publishes a retained badge snapshot to the node status topic.
func (r *Relay) publishBadge(s Status) {
	payload, err := json.Marshal(s)
	if err != nil {
		return
	}

	topic := mqtt.Topics{}.NodeStatus(r.cfg.Service.ID)
	if err := r.bus.PublishRetained(topic, payload); err != nil {
		r.logger.Debug("status badge publish failed", "error", err)
	}
}
