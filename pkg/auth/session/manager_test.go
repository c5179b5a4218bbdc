package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string)}
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	return nil
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

type mockKeyer struct{}

func (mockKeyer) AccessSessionKey(accessID string) string {
	return "session:access:" + accessID
}

func newTestManager() (*Manager, *mockStore) {
	store := newMockStore()
	return &Manager{store: store, keyer: mockKeyer{}, ttl: time.Hour}, store
}

func TestGenerateAndHasSession(t *testing.T) {
	ctx := context.Background()
	mgr, _ := newTestManager()

	accessID := NewAccessID()
	token, err := mgr.Generate(ctx, accessID)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected non-empty refresh token")
	}

	ok, err := mgr.HasSession(ctx, accessID)
	if err != nil {
		t.Fatalf("has session failed: %v", err)
	}
	if !ok {
		t.Fatalf("expected an active session")
	}
}

func TestRotateInvalidatesOldSession(t *testing.T) {
	ctx := context.Background()
	mgr, _ := newTestManager()

	accessID := NewAccessID()
	token, err := mgr.Generate(ctx, accessID)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	newAccessID, newToken, err := mgr.Rotate(ctx, accessID, token)
	if err != nil {
		t.Fatalf("rotate failed: %v", err)
	}
	if newAccessID == accessID || newToken == token {
		t.Fatalf("rotate must issue a new pair")
	}

	if ok, _ := mgr.HasSession(ctx, accessID); ok {
		t.Fatalf("old session must be revoked after rotation")
	}
	if ok, _ := mgr.HasSession(ctx, newAccessID); !ok {
		t.Fatalf("new session must be active")
	}
}

func TestRotateRejectsWrongToken(t *testing.T) {
	ctx := context.Background()
	mgr, _ := newTestManager()

	accessID := NewAccessID()
	if _, err := mgr.Generate(ctx, accessID); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, _, err := mgr.Rotate(ctx, accessID, "forged-token"); err != ErrInvalidRefreshToken {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestRotateUnknownAccessID(t *testing.T) {
	ctx := context.Background()
	mgr, _ := newTestManager()

	if _, _, err := mgr.Rotate(ctx, NewAccessID(), "anything"); err != ErrInvalidRefreshToken {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	mgr, _ := newTestManager()

	accessID := NewAccessID()
	if _, err := mgr.Generate(ctx, accessID); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if err := mgr.Revoke(ctx, accessID); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if ok, _ := mgr.HasSession(ctx, accessID); ok {
		t.Fatalf("session should be gone after revoke")
	}
}
