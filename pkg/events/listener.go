package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	pkgvalidator "github.com/ghuser/hmjoarksink/pkg/validator"
)

// ErrInvalidEvent marks an event that failed decoding or validation. Such
// events are logged and discarded; they are never retried.
var ErrInvalidEvent = errors.New("invalid event")

// ValidationError reports which fields of an event were rejected.
type ValidationError struct {
	Listener  string
	EventName string
	Fields    map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%s: %s for %q: %s", ErrInvalidEvent, e.Listener, e.EventName, strings.Join(parts, "; "))
}

// Is makes errors.Is(err, ErrInvalidEvent) true.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidEvent
}

// Listener is one subscriber on the rapid.
type Listener interface {
	// Name identifies the listener and its consumer group.
	Name() string
	// Accepts is the precondition: events it rejects are acked silently.
	Accepts(env Envelope) bool
	// SkipKey names the field looked up in the SkipList, or "".
	SkipKey() string
	// Handle validates the event and runs the workflow.
	Handle(ctx context.Context, env Envelope) ([]Outcome, error)
}

// selfValidating payloads get a final check after tag validation.
type selfValidating interface {
	Validate() error
}

type listenerConfig struct {
	eventNames []string
	skipKey    string
	accept     func(Envelope) bool
}

// ListenerOption configures a listener built with Listen.
type ListenerOption func(*listenerConfig)

// OnEvents restricts the listener to events whose name is one of names.
func OnEvents(names ...string) ListenerOption {
	return func(c *listenerConfig) { c.eventNames = append(c.eventNames, names...) }
}

// SkipBy names the payload field matched against the SkipList.
func SkipBy(field string) ListenerOption {
	return func(c *listenerConfig) { c.skipKey = field }
}

// AcceptWhen adds a precondition evaluated after the event-name check.
func AcceptWhen(fn func(Envelope) bool) ListenerOption {
	return func(c *listenerConfig) { c.accept = fn }
}

type typedListener[T any] struct {
	name string
	cfg  listenerConfig
	fn   func(context.Context, *T) ([]Outcome, error)
}

// Listen builds a Listener that decodes events into T, validates them with
// the struct's `validate` tags (and T's Validate method, if any) and passes
// the result to fn. Decode and validation failures are *ValidationError.
func Listen[T any](name string, fn func(context.Context, *T) ([]Outcome, error), opts ...ListenerOption) Listener {
	l := &typedListener[T]{name: name, fn: fn}
	for _, opt := range opts {
		opt(&l.cfg)
	}
	return l
}

func (l *typedListener[T]) Name() string    { return l.name }
func (l *typedListener[T]) SkipKey() string { return l.cfg.skipKey }

func (l *typedListener[T]) Accepts(env Envelope) bool {
	if len(l.cfg.eventNames) > 0 && !slices.Contains(l.cfg.eventNames, env.Name) {
		return false
	}
	if l.cfg.accept != nil {
		return l.cfg.accept(env)
	}
	return true
}

func (l *typedListener[T]) Handle(ctx context.Context, env Envelope) ([]Outcome, error) {
	payload, err := l.decode(env)
	if err != nil {
		return nil, err
	}
	return l.fn(ctx, payload)
}

func (l *typedListener[T]) decode(env Envelope) (*T, error) {
	var payload T
	if err := json.Unmarshal(env.Raw, &payload); err != nil {
		return nil, &ValidationError{
			Listener:  l.name,
			EventName: env.Name,
			Fields:    map[string]string{"$": err.Error()},
		}
	}
	if err := pkgvalidator.Validate(&payload); err != nil {
		fields := pkgvalidator.FormatValidationErrors(err)
		if len(fields) == 0 {
			fields = map[string]string{"$": err.Error()}
		}
		return nil, &ValidationError{Listener: l.name, EventName: env.Name, Fields: fields}
	}
	if sv, ok := any(&payload).(selfValidating); ok {
		if err := sv.Validate(); err != nil {
			return nil, &ValidationError{
				Listener:  l.name,
				EventName: env.Name,
				Fields:    map[string]string{"$": err.Error()},
			}
		}
	}
	return &payload, nil
}
