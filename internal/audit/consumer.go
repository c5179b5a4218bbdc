package audit

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
	pkgerrors "github.com/dimasprakoso/lokalive-backend/pkg/errors"
	"github.com/dimasprakoso/lokalive-backend/pkg/logger"
	"github.com/dimasprakoso/lokalive-backend/pkg/outbox"
)

// Consumer watches the domain subscription and writes an audit row for every
// recognized event.
type Consumer struct {
	svc          Service
	subscription *pubsub.Subscriber
	logg         *logger.Logger
}

// NewConsumer builds an audit trail consumer.
func NewConsumer(svc Service, subscription *pubsub.Subscriber, logg *logger.Logger) (*Consumer, error) {
	if svc == nil {
		return nil, fmt.Errorf("audit service required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("domain subscription required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		svc:          svc,
		subscription: subscription,
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	eventType := enums.OutboxEventType(msg.Attributes["event_type"])
	fields := map[string]any{
		"message_id": msg.ID,
		"event_type": eventType,
	}
	logCtx := c.logg.WithFields(ctx, fields)

	if !eventType.IsValid() {
		c.logg.Info(logCtx, "skipping unrecognized event")
		return processResult{ack: true}
	}

	aggregateType := enums.OutboxAggregateType(msg.Attributes["aggregate_type"])
	aggregateID, err := uuid.Parse(msg.Attributes["aggregate_id"])
	if err != nil {
		c.logg.Error(logCtx, "invalid aggregate id", err)
		return processResult{ack: true}
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return processResult{ack: true}
	}
	if envelope.EventID == "" {
		envelope.EventID = msg.Attributes["event_id"]
	}

	event := ConsumedEvent{
		EventType:     eventType,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		Envelope:      envelope,
	}

	if err := c.svc.Record(ctx, event); err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeValidation {
			c.logg.Error(logCtx, "dropping malformed event", err)
			return processResult{ack: true}
		}
		c.logg.Error(logCtx, "audit recording failed", err)
		return processResult{nack: true}
	}

	return processResult{ack: true}
}
