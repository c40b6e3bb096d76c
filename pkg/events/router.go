package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/ghuser/hmjoarksink/pkg/logger"
)

// Metadata keys set on outgoing events.
const (
	MetadataKey       = "key"
	MetadataEventName = "event_name"
)

// Publisher is the outbound side of the rapid. *EventBus satisfies it.
type Publisher interface {
	Publish(ctx context.Context, topic string, msgs ...*message.Message) error
}

// Subscriber is the inbound side of the rapid. *EventBus satisfies it.
type Subscriber interface {
	Subscribe(ctx context.Context, topic, consumerGroup string, handler func(context.Context, *message.Message) error) (<-chan error, error)
	ConsumerGroup(listener string) string
}

// FailureHook is called when a workflow fails and the failure propagates.
type FailureHook func(ctx context.Context, listener, eventName string, err error)

// Router dispatches rapid events to listeners.
//
// Per message and listener: precondition, skip list, decode and validate,
// workflow under the event's Policy, then synchronous publishing of the
// outcomes. Invalid events are logged to the secure log and acked. A failing
// workflow is retried within the delivery and then either absorbed (ack) or
// propagated so the bus redelivers.
type Router struct {
	topic     string
	pub       Publisher
	log       logger.Logger
	secureLog logger.Logger
	policies  *PolicyTable
	skip      SkipList
	onFailure FailureHook
	listeners []Listener
	discarded metric.Int64Counter
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithPolicies sets the per-event policy table.
func WithPolicies(t *PolicyTable) RouterOption {
	return func(r *Router) { r.policies = t }
}

// WithSkipList sets the skip list.
func WithSkipList(s SkipList) RouterOption {
	return func(r *Router) { r.skip = s }
}

// WithFailureHook registers a hook for propagated failures.
func WithFailureHook(h FailureHook) RouterOption {
	return func(r *Router) { r.onFailure = h }
}

// WithSecureLogger sets the logger used for payload-level reports.
func WithSecureLogger(l logger.Logger) RouterOption {
	return func(r *Router) { r.secureLog = l }
}

// NewRouter returns a Router publishing outcomes to topic through pub.
func NewRouter(topic string, pub Publisher, log logger.Logger, opts ...RouterOption) *Router {
	r := &Router{
		topic:     topic,
		pub:       pub,
		log:       log,
		secureLog: log,
		policies:  NewPolicyTable(DefaultPolicy),
		skip:      SkipList{},
	}
	for _, opt := range opts {
		opt(r)
	}
	discarded, err := otel.Meter("events").Int64Counter("hm_events_discarded",
		metric.WithDescription("Events discarded by validation or the skip list"))
	if err != nil {
		log.Warn("events: create discarded counter", "error", err)
	}
	r.discarded = discarded
	return r
}

// Register adds listeners.
func (r *Router) Register(ls ...Listener) {
	r.listeners = append(r.listeners, ls...)
}

// Listeners returns the registered listeners.
func (r *Router) Listeners() []Listener {
	return r.listeners
}

// Run subscribes every listener to the rapid in its own consumer group and
// drains subscription errors into the log.
func (r *Router) Run(ctx context.Context, sub Subscriber) error {
	for _, l := range r.listeners {
		group := sub.ConsumerGroup(l.Name())
		errCh, err := sub.Subscribe(ctx, r.topic, group, r.Handler(l))
		if err != nil {
			return fmt.Errorf("events: subscribe listener %s: %w", l.Name(), err)
		}
		go func(name string) {
			for err := range errCh {
				r.log.ErrorContext(ctx, "listener failed, message will be redelivered",
					"listener", name, "error", err)
			}
		}(l.Name())
	}
	r.log.Info("rapid listeners registered", "topic", r.topic, "count", len(r.listeners))
	return nil
}

// Handler returns the message handler for one listener. A nil return acks
// the message; an error nacks it.
func (r *Router) Handler(l Listener) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		env, err := ParseEnvelope(msg.Payload)
		if err != nil {
			r.log.WarnContext(ctx, "discarding message that is not a JSON object",
				"listener", l.Name(), "message_uuid", msg.UUID, "error", err)
			return nil
		}
		if !l.Accepts(env) {
			return nil
		}
		return r.dispatch(ctx, l, env)
	}
}

func (r *Router) dispatch(ctx context.Context, l Listener, env Envelope) error {
	log := r.log.With("listener", l.Name(), "event_name", env.Name, "event_id", env.ID)

	if key := l.SkipKey(); key != "" {
		if id := env.String(key); r.skip.Contains(env.Name, id) {
			log.WarnContext(ctx, "skipping event on skip list", "skip_key", key, "skip_id", id)
			r.countDiscarded(ctx, l, env, "skip_list")
			return nil
		}
	}

	ctx, span := otel.Tracer("events").Start(ctx, "listener "+l.Name())
	defer span.End()
	span.SetAttributes(attribute.String("event.name", env.Name), attribute.String("event.id", env.ID))

	policy := r.policies.For(env.Name)
	var outcomes []Outcome
	attempt := 0
	b := retry.WithMaxRetries(policy.attempts()-1, retry.NewExponential(policy.delay()))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		out, err := l.Handle(ctx, env)
		if err == nil {
			outcomes = out
			return nil
		}
		if policy.permanent(err) || policy.absorbs(err) {
			return err
		}
		log.WarnContext(ctx, "workflow failed, retrying",
			"attempt", attempt, "max_attempts", policy.attempts(), "error", err)
		return retry.RetryableError(err)
	})

	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidEvent):
		log.InfoContext(ctx, "validering av melding feilet, hopper over", "error_kind", "invalid_event")
		r.secureLog.InfoContext(ctx, "validering av melding feilet",
			"listener", l.Name(), "event_name", env.Name, "report", validationReport(err),
			"payload", string(env.Raw))
		r.countDiscarded(ctx, l, env, "invalid")
		return nil
	case policy.absorbs(err):
		log.WarnContext(ctx, "workflow failure absorbed by policy", "error", err)
		return nil
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, "workflow failed")
		if r.onFailure != nil {
			r.onFailure(ctx, l.Name(), env.Name, err)
		}
		return fmt.Errorf("events: listener %s on %s: %w", l.Name(), env.Name, err)
	}

	if err := r.publish(ctx, outcomes); err != nil {
		span.RecordError(err)
		return err
	}
	log.InfoContext(ctx, "event handled", "outcomes", len(outcomes), "attempts", attempt)
	return nil
}

func (r *Router) publish(ctx context.Context, outcomes []Outcome) error {
	if len(outcomes) == 0 {
		return nil
	}
	msgs := make([]*message.Message, 0, len(outcomes))
	for _, o := range outcomes {
		msg, err := o.Message()
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	if err := r.pub.Publish(ctx, r.topic, msgs...); err != nil {
		return fmt.Errorf("events: publish outcomes: %w", err)
	}
	return nil
}

func (r *Router) countDiscarded(ctx context.Context, l Listener, env Envelope, reason string) {
	if r.discarded == nil {
		return
	}
	r.discarded.Add(ctx, 1, metric.WithAttributes(
		attribute.String("listener", l.Name()),
		attribute.String("event_name", env.Name),
		attribute.String("reason", reason),
	))
}

func validationReport(err error) map[string]string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return map[string]string{"$": err.Error()}
}
