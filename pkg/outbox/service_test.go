package outbox

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dimasprakoso/lokalive-backend/pkg/db/models"
	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
)

func setupOutboxTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS outbox_events (
  id TEXT,
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  actor_id TEXT,
  payload TEXT NOT NULL,
  created_at DATETIME,
  published_at DATETIME,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  last_error TEXT
);`
	require.NoError(t, db.Exec(schema).Error)
	require.NoError(t, db.Exec("DELETE FROM outbox_events").Error)
	return db
}

func countEvents(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.OutboxEvent{}).Count(&count).Error)
	return count
}

func TestServiceEmitIfNotExistsSuppressesDuplicates(t *testing.T) {
	db := setupOutboxTestDB(t)
	svc := NewService(NewRepository(db), nil)

	proofID := uuid.New()
	event := DomainEvent{
		EventType:     enums.EventPaymentProofVerified,
		AggregateType: enums.AggregatePaymentProof,
		AggregateID:   proofID,
		Data:          map[string]any{"proof_id": proofID.String()},
	}

	require.NoError(t, svc.EmitIfNotExists(context.Background(), db, event))
	require.NoError(t, svc.EmitIfNotExists(context.Background(), db, event))
	assert.Equal(t, int64(1), countEvents(t, db))

	// A different aggregate is a different fact.
	other := event
	other.AggregateID = uuid.New()
	require.NoError(t, svc.EmitIfNotExists(context.Background(), db, other))
	assert.Equal(t, int64(2), countEvents(t, db))

	// Emit stays unconditional.
	require.NoError(t, svc.Emit(context.Background(), db, event))
	assert.Equal(t, int64(3), countEvents(t, db))
}

func TestServiceEmitIfNotExistsRequiresTransaction(t *testing.T) {
	db := setupOutboxTestDB(t)
	svc := NewService(NewRepository(db), nil)

	err := svc.EmitIfNotExists(context.Background(), nil, DomainEvent{
		EventType:     enums.EventPaymentProofVerified,
		AggregateType: enums.AggregatePaymentProof,
		AggregateID:   uuid.New(),
	})
	assert.Error(t, err)
}
