package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"
)

func TestSnapshotRetentionJobUsesConfiguredRetention(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	repo := &fakeSnapshotRetentionRepo{}
	jobIface, err := NewSnapshotRetentionJob(SnapshotRetentionJobParams{
		Logger:     testCronLogger(),
		DB:         passthroughTxRunner{},
		Repository: repo,
		Retention:  7,
	})
	if err != nil {
		t.Fatalf("NewSnapshotRetentionJob: %v", err)
	}
	job := jobIface.(*snapshotRetentionJob)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	expected := now.Add(-7 * 24 * time.Hour)
	if !repo.lastCutoff.Equal(expected) {
		t.Fatalf("expected cutoff %s, got %s", expected, repo.lastCutoff)
	}
}

func TestSnapshotRetentionJobPropagatesError(t *testing.T) {
	repo := &fakeSnapshotRetentionRepo{err: errors.New("boom")}
	jobIface, err := NewSnapshotRetentionJob(SnapshotRetentionJobParams{
		Logger:     testCronLogger(),
		DB:         passthroughTxRunner{},
		Repository: repo,
	})
	if err != nil {
		t.Fatalf("NewSnapshotRetentionJob: %v", err)
	}
	if err := jobIface.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

type fakeSnapshotRetentionRepo struct {
	lastCutoff time.Time
	err        error
}

func (f *fakeSnapshotRetentionRepo) DeleteSnapshotsBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	f.lastCutoff = cutoff
	if f.err != nil {
		return 0, f.err
	}
	return 5, nil
}
