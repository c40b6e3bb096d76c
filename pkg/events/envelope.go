package events

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// Rapid events are flat JSON objects. The event name lives in "eventName";
// older producers use "@event_name".
const (
	fieldEventName       = "eventName"
	fieldLegacyEventName = "@event_name"
	fieldEventID         = "eventId"
)

// Envelope is a parsed rapid message. Fields are kept raw so listeners can
// decode the payload into their own typed struct.
type Envelope struct {
	Name   string
	ID     string
	Raw    []byte
	fields map[string]json.RawMessage
}

// ParseEnvelope reads the top-level keys of payload. It fails when payload is
// not a JSON object.
func ParseEnvelope(payload []byte) (Envelope, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return Envelope{}, fmt.Errorf("events: payload is not a JSON object: %w", err)
	}
	if fields == nil {
		return Envelope{}, fmt.Errorf("events: payload is null")
	}
	env := Envelope{Raw: payload, fields: fields}
	env.Name = env.String(fieldEventName)
	if env.Name == "" {
		env.Name = env.String(fieldLegacyEventName)
	}
	env.ID = env.String(fieldEventID)
	return env, nil
}

// Has reports whether key is present with a non-null value.
func (e Envelope) Has(key string) bool {
	raw, ok := e.fields[key]
	return ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// String returns the value of key as a string. Numbers are returned in their
// JSON text form; missing, null and composite values yield "".
func (e Envelope) String(key string) string {
	raw, ok := e.fields[key]
	if !ok {
		return ""
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '{', '[', 'n':
		return ""
	default:
		return strings.TrimSpace(string(raw))
	}
}

// Header is embedded in every outgoing event.
type Header struct {
	EventID   uuid.UUID `json:"eventId"`
	EventName string    `json:"eventName"`
	Opprettet time.Time `json:"opprettet"`
}

// NewHeader returns a Header with a fresh event id.
func NewHeader(eventName string) Header {
	return Header{
		EventID:   uuid.New(),
		EventName: eventName,
		Opprettet: time.Now(),
	}
}

// Outcome is an event produced by a successful workflow. Key is the
// partitioning key (usually the user's national identity number) and Event
// must marshal to a JSON object carrying its event name.
type Outcome struct {
	Key   string
	Event any
}

// Message encodes o as a watermill message. The key and the event name are
// copied into the metadata.
func (o Outcome) Message() (*message.Message, error) {
	payload, err := json.Marshal(o.Event)
	if err != nil {
		return nil, fmt.Errorf("events: marshal outcome: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if o.Key != "" {
		msg.Metadata.Set(MetadataKey, o.Key)
	}
	if env, err := ParseEnvelope(payload); err == nil && env.Name != "" {
		msg.Metadata.Set(MetadataEventName, env.Name)
	}
	return msg, nil
}
