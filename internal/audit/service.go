package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dimasprakoso/lokalive-backend/pkg/db/models"
	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
	pkgerrors "github.com/dimasprakoso/lokalive-backend/pkg/errors"
	"github.com/dimasprakoso/lokalive-backend/pkg/logger"
	"github.com/dimasprakoso/lokalive-backend/pkg/outbox"
	"github.com/dimasprakoso/lokalive-backend/pkg/pagination"
	"github.com/dimasprakoso/lokalive-backend/pkg/types"
)

// ConsumerName identifies this consumer in idempotency keys.
const ConsumerName = "audit"

type idempotencyGuard interface {
	CheckAndMarkProcessed(ctx context.Context, consumer string, eventID uuid.UUID) (bool, error)
}

// ConsumedEvent is one domain event pulled off the subscription.
type ConsumedEvent struct {
	EventType     enums.OutboxEventType
	AggregateType enums.OutboxAggregateType
	AggregateID   uuid.UUID
	Envelope      outbox.PayloadEnvelope
}

// Service turns consumed domain events into audit rows and serves the
// activity listing.
type Service interface {
	Record(ctx context.Context, event ConsumedEvent) error
	List(ctx context.Context, params pagination.Params, filters Filters) (*ActivityList, error)
}

type service struct {
	repo  Repository
	guard idempotencyGuard
	logg  *logger.Logger
}

// NewService builds an audit service. The guard may be nil; the unique
// event_id index still keeps inserts idempotent.
func NewService(repo Repository, guard idempotencyGuard, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("audit repository required")
	}
	return &service{repo: repo, guard: guard, logg: logg}, nil
}

// Record appends one audit row for the event. Redelivered events are skipped
// through the Redis guard first and the unique index second.
func (s *service) Record(ctx context.Context, event ConsumedEvent) error {
	if !event.EventType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown event type %q", event.EventType))
	}
	if event.Envelope.EventID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "event id required")
	}

	if s.guard != nil {
		if eventUUID, err := uuid.Parse(event.Envelope.EventID); err == nil {
			processed, err := s.guard.CheckAndMarkProcessed(ctx, ConsumerName, eventUUID)
			if err != nil {
				if s.logg != nil {
					s.logg.Warn(ctx, "audit idempotency check failed, relying on unique index")
				}
			} else if processed {
				return nil
			}
		}
	}

	activity := &models.AdminActivity{
		EventID:     event.Envelope.EventID,
		Action:      string(event.EventType),
		Description: describe(event.EventType),
		SubjectType: string(event.AggregateType),
		SubjectID:   event.AggregateID,
		OccurredAt:  event.Envelope.OccurredAt,
	}
	if actor := event.Envelope.Actor; actor != nil {
		if actor.AdminID != uuid.Nil {
			adminID := actor.AdminID
			activity.AdminID = &adminID
		}
		if actor.IP != "" {
			ip := actor.IP
			activity.IPAddress = &ip
		}
		if actor.UserAgent != "" {
			ua := actor.UserAgent
			activity.UserAgent = &ua
		}
	}
	if len(event.Envelope.Data) > 0 {
		var after types.JSONMap
		if err := json.Unmarshal(event.Envelope.Data, &after); err == nil {
			activity.AfterValues = after
		}
	}

	if err := s.repo.CreateActivity(ctx, activity); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write audit row")
	}
	return nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters Filters) (*ActivityList, error) {
	list, err := s.repo.ListActivities(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list activities")
	}
	return list, nil
}

func describe(eventType enums.OutboxEventType) string {
	return strings.ReplaceAll(string(eventType), "_", " ")
}
