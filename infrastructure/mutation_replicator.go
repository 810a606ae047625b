package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"clubledger/events"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// MessagePublisher sends raw payloads to a subject
type MessagePublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// MutationEnvelope is the wire form of a replicated mutation
type MutationEnvelope struct {
	ID         string           `json:"id"`
	Type       events.EventType `json:"type"`
	Sequence   uint64           `json:"sequence"`
	OccurredAt time.Time        `json:"occurred_at"`
	Payload    events.Event     `json:"payload"`
}

// MutationReplicator forwards committed mutations to the message bus.
// Bus subscribers run on one goroutine, so sequence numbers follow commit order.
type MutationReplicator struct {
	publisher MessagePublisher
	clock     clockwork.Clock
	sequence  uint64
}

// NewMutationReplicator creates a replicator
func NewMutationReplicator(publisher MessagePublisher, clock clockwork.Clock) *MutationReplicator {
	return &MutationReplicator{publisher: publisher, clock: clock}
}

// SubjectFor returns the subject an event type is published on
func SubjectFor(t events.EventType) string {
	return fmt.Sprintf("%s.%s", MutationSubject, t)
}

// Envelope wraps an event with its id and next sequence number. Call it once
// per event and retry Send with the result so redeliveries stay identical.
func (r *MutationReplicator) Envelope(event events.Event) MutationEnvelope {
	r.sequence++
	return MutationEnvelope{
		ID:         uuid.NewString(),
		Type:       event.Type(),
		Sequence:   r.sequence,
		OccurredAt: r.clock.Now().UTC(),
		Payload:    event,
	}
}

// Send publishes a prepared envelope
func (r *MutationReplicator) Send(ctx context.Context, envelope MutationEnvelope) error {
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", envelope.Type, err)
	}

	return r.publisher.Publish(ctx, SubjectFor(envelope.Type), data)
}

// OnMutation publishes one event
func (r *MutationReplicator) OnMutation(ctx context.Context, event events.Event) error {
	return r.Send(ctx, r.Envelope(event))
}
