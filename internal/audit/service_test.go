package audit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dimasprakoso/lokalive-backend/pkg/db/models"
	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
	"github.com/dimasprakoso/lokalive-backend/pkg/outbox"
	"github.com/dimasprakoso/lokalive-backend/pkg/pagination"
)

type stubAuditRepo struct {
	rows []models.AdminActivity
}

func (s *stubAuditRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubAuditRepo) CreateActivity(ctx context.Context, activity *models.AdminActivity) error {
	for _, row := range s.rows {
		if row.EventID == activity.EventID {
			return nil
		}
	}
	s.rows = append(s.rows, *activity)
	return nil
}

func (s *stubAuditRepo) ListActivities(ctx context.Context, params pagination.Params, filters Filters) (*ActivityList, error) {
	return &ActivityList{Activities: s.rows}, nil
}

type stubGuard struct {
	seen map[uuid.UUID]bool
}

func (s *stubGuard) CheckAndMarkProcessed(ctx context.Context, consumer string, eventID uuid.UUID) (bool, error) {
	if s.seen == nil {
		s.seen = map[uuid.UUID]bool{}
	}
	if s.seen[eventID] {
		return true, nil
	}
	s.seen[eventID] = true
	return false, nil
}

func consumedEvent(t *testing.T, eventType enums.OutboxEventType) ConsumedEvent {
	t.Helper()
	data, err := json.Marshal(map[string]any{"order_id": uuid.NewString(), "to_status": "Diproses"})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	adminID := uuid.New()
	return ConsumedEvent{
		EventType:     eventType,
		AggregateType: enums.AggregateOrder,
		AggregateID:   uuid.New(),
		Envelope: outbox.PayloadEnvelope{
			Version:    1,
			EventID:    uuid.NewString(),
			OccurredAt: time.Now().UTC(),
			Actor: &outbox.ActorRef{
				AdminID:   adminID,
				Role:      "admin",
				IP:        "203.0.113.7",
				UserAgent: "lokalive-admin/2.4",
			},
			Data: data,
		},
	}
}

func TestRecordWritesActivityRow(t *testing.T) {
	repo := &stubAuditRepo{}
	svc, err := NewService(repo, &stubGuard{}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	event := consumedEvent(t, enums.EventOrderStatusChanged)
	if err := svc.Record(context.Background(), event); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(repo.rows) != 1 {
		t.Fatalf("expected one row, got %d", len(repo.rows))
	}
	row := repo.rows[0]
	if row.EventID != event.Envelope.EventID {
		t.Fatalf("expected event id carried over, got %s", row.EventID)
	}
	if row.Action != "order_status_changed" || row.Description != "order status changed" {
		t.Fatalf("unexpected action/description: %s / %s", row.Action, row.Description)
	}
	if row.AdminID == nil || *row.AdminID != event.Envelope.Actor.AdminID {
		t.Fatal("expected actor admin id on the row")
	}
	if row.AfterValues["to_status"] != "Diproses" {
		t.Fatalf("expected payload captured, got %v", row.AfterValues)
	}
}

func TestRecordSkipsRedeliveredEvent(t *testing.T) {
	repo := &stubAuditRepo{}
	svc, err := NewService(repo, &stubGuard{}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	event := consumedEvent(t, enums.EventPaymentProofVerified)
	if err := svc.Record(context.Background(), event); err != nil {
		t.Fatalf("first Record: %v", err)
	}
	if err := svc.Record(context.Background(), event); err != nil {
		t.Fatalf("second Record: %v", err)
	}
	if len(repo.rows) != 1 {
		t.Fatalf("expected one row after redelivery, got %d", len(repo.rows))
	}
}

func TestRecordWithoutGuardStillIdempotent(t *testing.T) {
	repo := &stubAuditRepo{}
	svc, err := NewService(repo, nil, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	event := consumedEvent(t, enums.EventAdminStatusToggled)
	if err := svc.Record(context.Background(), event); err != nil {
		t.Fatalf("first Record: %v", err)
	}
	if err := svc.Record(context.Background(), event); err != nil {
		t.Fatalf("second Record: %v", err)
	}
	if len(repo.rows) != 1 {
		t.Fatalf("expected one row, got %d", len(repo.rows))
	}
}

func TestRecordRejectsUnknownEventType(t *testing.T) {
	repo := &stubAuditRepo{}
	svc, err := NewService(repo, nil, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	event := consumedEvent(t, enums.OutboxEventType("order_teleported"))
	if err := svc.Record(context.Background(), event); err == nil {
		t.Fatal("expected error for unknown event type")
	}
	if len(repo.rows) != 0 {
		t.Fatal("expected no rows written")
	}
}
