package audit

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
	pkgerrors "github.com/dimasprakoso/lokalive-backend/pkg/errors"
	"github.com/dimasprakoso/lokalive-backend/pkg/logger"
	"github.com/dimasprakoso/lokalive-backend/pkg/outbox"
	"github.com/dimasprakoso/lokalive-backend/pkg/pagination"
)

func TestConsumerProcessRecordsDomainEvent(t *testing.T) {
	svc := &fakeAuditService{}
	consumer := &Consumer{svc: svc, logg: testConsumerLogger()}

	aggregateID := uuid.New()
	eventID := uuid.New()
	msg := &pubsub.Message{
		Data: mustEnvelopeJSON(t, eventID.String()),
		Attributes: map[string]string{
			"event_id":       eventID.String(),
			"event_type":     string(enums.EventOrderStatusChanged),
			"aggregate_type": string(enums.AggregateOrder),
			"aggregate_id":   aggregateID.String(),
		},
	}

	result := consumer.process(context.Background(), msg)
	if !result.ack || result.nack {
		t.Fatalf("expected ack, got %+v", result)
	}
	if len(svc.recorded) != 1 {
		t.Fatalf("expected one recorded event, got %d", len(svc.recorded))
	}
	event := svc.recorded[0]
	if event.EventType != enums.EventOrderStatusChanged {
		t.Fatalf("unexpected event type: %s", event.EventType)
	}
	if event.AggregateType != enums.AggregateOrder {
		t.Fatalf("unexpected aggregate type: %s", event.AggregateType)
	}
	if event.AggregateID != aggregateID {
		t.Fatalf("aggregate id mismatch")
	}
	if event.Envelope.EventID != eventID.String() {
		t.Fatalf("envelope event id mismatch: %s", event.Envelope.EventID)
	}
}

func TestConsumerProcessDropsUnrecognizedEventType(t *testing.T) {
	svc := &fakeAuditService{}
	consumer := &Consumer{svc: svc, logg: testConsumerLogger()}

	msg := &pubsub.Message{
		Data: mustEnvelopeJSON(t, uuid.NewString()),
		Attributes: map[string]string{
			"event_type":     "something_else",
			"aggregate_type": string(enums.AggregateOrder),
			"aggregate_id":   uuid.NewString(),
		},
	}

	result := consumer.process(context.Background(), msg)
	if !result.ack || result.nack {
		t.Fatalf("expected ack for unrecognized event, got %+v", result)
	}
	if len(svc.recorded) != 0 {
		t.Fatalf("expected no recorded events")
	}
}

func TestConsumerProcessDropsMalformedEnvelope(t *testing.T) {
	svc := &fakeAuditService{}
	consumer := &Consumer{svc: svc, logg: testConsumerLogger()}

	msg := &pubsub.Message{
		Data: []byte("{not json"),
		Attributes: map[string]string{
			"event_type":     string(enums.EventOrderStatusChanged),
			"aggregate_type": string(enums.AggregateOrder),
			"aggregate_id":   uuid.NewString(),
		},
	}

	result := consumer.process(context.Background(), msg)
	if !result.ack || result.nack {
		t.Fatalf("expected ack for malformed envelope, got %+v", result)
	}
	if len(svc.recorded) != 0 {
		t.Fatalf("expected no recorded events")
	}
}

func TestConsumerProcessDropsOnValidationError(t *testing.T) {
	svc := &fakeAuditService{err: pkgerrors.New(pkgerrors.CodeValidation, "event id required")}
	consumer := &Consumer{svc: svc, logg: testConsumerLogger()}

	result := consumer.process(context.Background(), validAuditMessage(t))
	if !result.ack || result.nack {
		t.Fatalf("expected ack on validation failure, got %+v", result)
	}
}

func TestConsumerProcessNacksOnTransientError(t *testing.T) {
	svc := &fakeAuditService{err: pkgerrors.Wrap(pkgerrors.CodeInternal, errors.New("db down"), "write audit row")}
	consumer := &Consumer{svc: svc, logg: testConsumerLogger()}

	result := consumer.process(context.Background(), validAuditMessage(t))
	if !result.nack {
		t.Fatalf("expected nack on transient failure, got %+v", result)
	}
}

func validAuditMessage(t *testing.T) *pubsub.Message {
	t.Helper()
	return &pubsub.Message{
		Data: mustEnvelopeJSON(t, uuid.NewString()),
		Attributes: map[string]string{
			"event_type":     string(enums.EventOrderStatusChanged),
			"aggregate_type": string(enums.AggregateOrder),
			"aggregate_id":   uuid.NewString(),
		},
	}
}

func mustEnvelopeJSON(t *testing.T, eventID string) []byte {
	t.Helper()
	envelope := outbox.PayloadEnvelope{
		Version:    1,
		EventID:    eventID,
		OccurredAt: time.Now(),
		Data:       json.RawMessage(`{"status":"diproses"}`),
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return data
}

func testConsumerLogger() *logger.Logger {
	return logger.New(logger.Options{
		ServiceName: "audit-consumer-test",
		Level:       logger.ParseLevel("debug"),
		Output:      io.Discard,
	})
}

type fakeAuditService struct {
	recorded []ConsumedEvent
	err      error
}

func (f *fakeAuditService) Record(_ context.Context, event ConsumedEvent) error {
	if f.err != nil {
		return f.err
	}
	f.recorded = append(f.recorded, event)
	return nil
}

func (f *fakeAuditService) List(context.Context, pagination.Params, Filters) (*ActivityList, error) {
	return &ActivityList{}, nil
}
