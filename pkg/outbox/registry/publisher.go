package registry

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/dimasprakoso/lokalive-backend/pkg/config"
	"github.com/dimasprakoso/lokalive-backend/pkg/db/models"
	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
	"github.com/dimasprakoso/lokalive-backend/pkg/outbox"
	"github.com/dimasprakoso/lokalive-backend/pkg/outbox/payloads"
)

// EventDescriptor links an event type to its aggregate, target topics, and payload schema.
// Events routed to more than one topic are published to each; the domain topic
// feeds the audit/push worker while the live and orders topics serve realtime
// and buyer-facing consumers.
type EventDescriptor struct {
	EventType      enums.OutboxEventType
	AggregateType  enums.OutboxAggregateType
	Topics         []string
	PayloadFactory func() interface{}
}

// ResolvedEvent is the result of decoding an outbox row.
type ResolvedEvent struct {
	Descriptor EventDescriptor
	Envelope   outbox.PayloadEnvelope
	Payload    interface{}
}

// EventRegistry maps each supported event type to its descriptor.
type EventRegistry struct {
	entries map[enums.OutboxEventType]EventDescriptor
}

// NonRetryableError signals the dispatcher should stop retrying a row.
type NonRetryableError struct {
	Err error
}

// Error implements error.
func (e NonRetryableError) Error() string {
	if e.Err == nil {
		return "non-retryable error"
	}
	return e.Err.Error()
}

// Unwrap exposes the wrapped error.
func (e NonRetryableError) Unwrap() error {
	return e.Err
}

// NewEventRegistry builds the registry with the configured topic names.
func NewEventRegistry(cfg config.PubSubConfig) (*EventRegistry, error) {
	if cfg.DomainTopic == "" {
		return nil, fmt.Errorf("domain topic is required")
	}
	if cfg.LiveTopic == "" {
		return nil, fmt.Errorf("live topic is required")
	}
	if cfg.OrdersTopic == "" {
		return nil, fmt.Errorf("orders topic is required")
	}

	reg := &EventRegistry{entries: make(map[enums.OutboxEventType]EventDescriptor)}
	domainTopic := cfg.DomainTopic
	liveTopic := cfg.LiveTopic
	ordersTopic := cfg.OrdersTopic

	for _, desc := range []EventDescriptor{
		{
			EventType:      enums.EventOrderStatusChanged,
			AggregateType:  enums.AggregateOrder,
			Topics:         []string{domainTopic, ordersTopic},
			PayloadFactory: func() interface{} { return &payloads.OrderStatusChangedEvent{} },
		},
		{
			EventType:      enums.EventOrderShippingStatusChanged,
			AggregateType:  enums.AggregateOrder,
			Topics:         []string{domainTopic, ordersTopic},
			PayloadFactory: func() interface{} { return &payloads.OrderShippingStatusChangedEvent{} },
		},
		{
			EventType:      enums.EventOrderCompleted,
			AggregateType:  enums.AggregateOrder,
			Topics:         []string{domainTopic, ordersTopic},
			PayloadFactory: func() interface{} { return &payloads.OrderCompletedEvent{} },
		},
		{
			EventType:      enums.EventOrderCanceled,
			AggregateType:  enums.AggregateOrder,
			Topics:         []string{domainTopic, ordersTopic},
			PayloadFactory: func() interface{} { return &payloads.OrderCanceledEvent{} },
		},
		{
			EventType:      enums.EventShipmentStatusChanged,
			AggregateType:  enums.AggregateShipment,
			Topics:         []string{domainTopic, ordersTopic},
			PayloadFactory: func() interface{} { return &payloads.ShipmentStatusChangedEvent{} },
		},
	} {
		reg.register(desc)
	}
	for _, desc := range []EventDescriptor{
		{
			EventType:      enums.EventPaymentVerified,
			AggregateType:  enums.AggregatePayment,
			Topics:         []string{domainTopic, ordersTopic},
			PayloadFactory: func() interface{} { return &payloads.PaymentDecisionEvent{} },
		},
		{
			EventType:      enums.EventPaymentRejected,
			AggregateType:  enums.AggregatePayment,
			Topics:         []string{domainTopic, ordersTopic},
			PayloadFactory: func() interface{} { return &payloads.PaymentDecisionEvent{} },
		},
		{
			EventType:      enums.EventPaymentProofVerified,
			AggregateType:  enums.AggregatePaymentProof,
			Topics:         []string{domainTopic, ordersTopic},
			PayloadFactory: func() interface{} { return &payloads.PaymentProofDecisionEvent{} },
		},
		{
			EventType:      enums.EventPaymentProofRejected,
			AggregateType:  enums.AggregatePaymentProof,
			Topics:         []string{domainTopic, ordersTopic},
			PayloadFactory: func() interface{} { return &payloads.PaymentProofDecisionEvent{} },
		},
		{
			EventType:      enums.EventComplaintStatusChanged,
			AggregateType:  enums.AggregateComplaint,
			Topics:         []string{domainTopic},
			PayloadFactory: func() interface{} { return &payloads.ComplaintStatusChangedEvent{} },
		},
	} {
		reg.register(desc)
	}
	for _, desc := range []EventDescriptor{
		{
			EventType:      enums.EventLiveStreamStarted,
			AggregateType:  enums.AggregateLiveStream,
			Topics:         []string{domainTopic, liveTopic},
			PayloadFactory: func() interface{} { return &payloads.LiveStreamLifecycleEvent{} },
		},
		{
			EventType:      enums.EventLiveStreamEnded,
			AggregateType:  enums.AggregateLiveStream,
			Topics:         []string{domainTopic, liveTopic},
			PayloadFactory: func() interface{} { return &payloads.LiveStreamLifecycleEvent{} },
		},
		{
			EventType:      enums.EventLiveOrderCreated,
			AggregateType:  enums.AggregateLiveOrder,
			Topics:         []string{domainTopic, liveTopic},
			PayloadFactory: func() interface{} { return &payloads.LiveOrderCreatedEvent{} },
		},
		{
			EventType:      enums.EventLiveOrderConfirmed,
			AggregateType:  enums.AggregateLiveOrder,
			Topics:         []string{domainTopic, liveTopic},
			PayloadFactory: func() interface{} { return &payloads.LiveOrderConfirmedEvent{} },
		},
		{
			EventType:      enums.EventLiveCommentPosted,
			AggregateType:  enums.AggregateLiveComment,
			Topics:         []string{liveTopic},
			PayloadFactory: func() interface{} { return &payloads.LiveCommentPostedEvent{} },
		},
	} {
		reg.register(desc)
	}
	for _, desc := range []EventDescriptor{
		{
			EventType:      enums.EventAdminStatusToggled,
			AggregateType:  enums.AggregateAdmin,
			Topics:         []string{domainTopic},
			PayloadFactory: func() interface{} { return &payloads.AdminStatusToggledEvent{} },
		},
		{
			EventType:      enums.EventAdminMutated,
			AggregateType:  enums.AggregateAdmin,
			Topics:         []string{domainTopic},
			PayloadFactory: func() interface{} { return &payloads.AdminMutatedEvent{} },
		},
	} {
		reg.register(desc)
	}

	return reg, nil
}

func (r *EventRegistry) register(desc EventDescriptor) {
	if desc.PayloadFactory == nil || len(desc.Topics) == 0 {
		return
	}
	r.entries[desc.EventType] = desc
}

// Resolve validates the row and decodes its typed payload.
func (r *EventRegistry) Resolve(event models.OutboxEvent) (*ResolvedEvent, error) {
	desc, ok := r.entries[event.EventType]
	if !ok {
		return nil, NewNonRetryableError(fmt.Errorf("unsupported event type %s", event.EventType))
	}
	if desc.AggregateType != event.AggregateType {
		return nil, NewNonRetryableError(fmt.Errorf("aggregate mismatch: expected %s got %s", desc.AggregateType, event.AggregateType))
	}
	if event.AggregateID == uuid.Nil {
		return nil, NewNonRetryableError(fmt.Errorf("missing aggregate_id"))
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(event.Payload, &envelope); err != nil {
		return nil, NewNonRetryableError(fmt.Errorf("decode envelope: %w", err))
	}

	trimmed := bytes.TrimSpace(envelope.Data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, NewNonRetryableError(fmt.Errorf("payload missing for %s", event.EventType))
	}

	payload := desc.PayloadFactory()
	if payload == nil {
		return nil, NewNonRetryableError(fmt.Errorf("payload factory not configured for %s", event.EventType))
	}
	if err := json.Unmarshal(envelope.Data, payload); err != nil {
		return nil, NewNonRetryableError(fmt.Errorf("decode %s payload: %w", event.EventType, err))
	}

	return &ResolvedEvent{
		Descriptor: desc,
		Envelope:   envelope,
		Payload:    payload,
	}, nil
}

// NewNonRetryableError wraps an error to signal no retries.
func NewNonRetryableError(err error) NonRetryableError {
	return NonRetryableError{Err: err}
}
