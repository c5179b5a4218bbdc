package cron

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/dimasprakoso/lokalive-backend/pkg/logger"
)

func TestOutboxRetentionJobDeletesEventsAndDLQRows(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	repo := &fakeOutboxRetentionRepo{}
	dlq := &fakeDLQRetentionRepo{}
	job := newOutboxRetentionJob(t, repo, dlq)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	expectedEventCutoff := now.Add(-outboxRetentionDays * 24 * time.Hour)
	if !repo.lastCutoff.Equal(expectedEventCutoff) {
		t.Fatalf("expected event cutoff %s, got %s", expectedEventCutoff, repo.lastCutoff)
	}
	if repo.minAttempts != outboxMinAttempts {
		t.Fatalf("expected min attempts %d, got %d", outboxMinAttempts, repo.minAttempts)
	}
	expectedDLQCutoff := now.Add(-dlqRetentionDays * 24 * time.Hour)
	if !dlq.lastCutoff.Equal(expectedDLQCutoff) {
		t.Fatalf("expected dlq cutoff %s, got %s", expectedDLQCutoff, dlq.lastCutoff)
	}
	if repo.called != 1 || dlq.called != 1 {
		t.Fatalf("expected one call each, got %d and %d", repo.called, dlq.called)
	}
}

func TestOutboxRetentionJobContinuesPastEventFailure(t *testing.T) {
	repo := &fakeOutboxRetentionRepo{err: errors.New("events table locked")}
	dlq := &fakeDLQRetentionRepo{}
	job := newOutboxRetentionJob(t, repo, dlq)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if dlq.called != 1 {
		t.Fatalf("dlq cleanup should still run, called %d times", dlq.called)
	}
}

func TestOutboxRetentionJobCombinesErrors(t *testing.T) {
	repo := &fakeOutboxRetentionRepo{err: errors.New("events boom")}
	dlq := &fakeDLQRetentionRepo{err: errors.New("dlq boom")}
	job := newOutboxRetentionJob(t, repo, dlq)

	err := job.Run(context.Background())
	if err == nil {
		t.Fatal("expected combined error")
	}
}

func newOutboxRetentionJob(t *testing.T, repo *fakeOutboxRetentionRepo, dlq *fakeDLQRetentionRepo) *outboxRetentionJob {
	t.Helper()
	jobIface, err := NewOutboxRetentionJob(OutboxRetentionJobParams{
		Logger:        testCronLogger(),
		DB:            passthroughTxRunner{},
		Repository:    repo,
		DLQRepository: dlq,
	})
	if err != nil {
		t.Fatalf("NewOutboxRetentionJob: %v", err)
	}
	job, ok := jobIface.(*outboxRetentionJob)
	if !ok {
		t.Fatalf("expected outboxRetentionJob, got %T", jobIface)
	}
	return job
}

type fakeOutboxRetentionRepo struct {
	lastCutoff  time.Time
	minAttempts int
	called      int
	err         error
}

func (f *fakeOutboxRetentionRepo) DeletePublishedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time, minAttemptCount int) (int64, error) {
	f.called++
	f.lastCutoff = cutoff
	f.minAttempts = minAttemptCount
	if f.err != nil {
		return 0, f.err
	}
	return 12, nil
}

type fakeDLQRetentionRepo struct {
	lastCutoff time.Time
	called     int
	err        error
}

func (f *fakeDLQRetentionRepo) DeleteFailedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	f.called++
	f.lastCutoff = cutoff
	if f.err != nil {
		return 0, f.err
	}
	return 3, nil
}

type passthroughTxRunner struct{}

func (passthroughTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func testCronLogger() *logger.Logger {
	return logger.New(logger.Options{
		ServiceName: "cron-test",
		Output:      io.Discard,
	})
}
