package idempotency

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockIdempotencyStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMockIdempotencyStore() *mockIdempotencyStore {
	return &mockIdempotencyStore{data: make(map[string]string)}
}

func (m *mockIdempotencyStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *mockIdempotencyStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.data[key]; exists {
		return false, nil
	}
	m.data[key] = "1"
	return true, nil
}

func (m *mockIdempotencyStore) IdempotencyKey(scope, id string) string {
	return strings.Join([]string{"lkv", "idempotency", scope, id}, ":")
}

func (m *mockIdempotencyStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func TestCheckAndMarkProcessed(t *testing.T) {
	ctx := context.Background()
	mgr, err := NewManager(newMockIdempotencyStore(), time.Hour)
	if err != nil {
		t.Fatalf("manager build failed: %v", err)
	}

	eventID := uuid.New()
	seen, err := mgr.CheckAndMarkProcessed(ctx, "audit", eventID)
	if err != nil {
		t.Fatalf("first check failed: %v", err)
	}
	if seen {
		t.Fatalf("first delivery must not be marked as seen")
	}

	seen, err = mgr.CheckAndMarkProcessed(ctx, "audit", eventID)
	if err != nil {
		t.Fatalf("second check failed: %v", err)
	}
	if !seen {
		t.Fatalf("duplicate delivery must be detected")
	}
}

func TestConsumersAreIsolated(t *testing.T) {
	ctx := context.Background()
	mgr, _ := NewManager(newMockIdempotencyStore(), time.Hour)

	eventID := uuid.New()
	if seen, _ := mgr.CheckAndMarkProcessed(ctx, "audit", eventID); seen {
		t.Fatalf("first consumer should not see the event")
	}
	if seen, _ := mgr.CheckAndMarkProcessed(ctx, "push", eventID); seen {
		t.Fatalf("a different consumer must track the event independently")
	}
}

func TestDeleteAllowsReplay(t *testing.T) {
	ctx := context.Background()
	mgr, _ := NewManager(newMockIdempotencyStore(), time.Hour)

	eventID := uuid.New()
	if _, err := mgr.CheckAndMarkProcessed(ctx, "audit", eventID); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	if err := mgr.Delete(ctx, "audit", eventID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if seen, _ := mgr.CheckAndMarkProcessed(ctx, "audit", eventID); seen {
		t.Fatalf("deleted marker must allow reprocessing")
	}
}

func TestProcessedKeyValidation(t *testing.T) {
	ctx := context.Background()
	mgr, _ := NewManager(newMockIdempotencyStore(), time.Hour)

	if _, err := mgr.CheckAndMarkProcessed(ctx, "", uuid.New()); err == nil {
		t.Fatalf("expected error for empty consumer")
	}
	if _, err := mgr.CheckAndMarkProcessed(ctx, "audit", uuid.Nil); err == nil {
		t.Fatalf("expected error for nil event id")
	}
}
