package cron

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/dimasprakoso/lokalive-backend/pkg/logger"
)

const snapshotRetentionDays = 90

type snapshotRetentionRepo interface {
	DeleteSnapshotsBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
}

// SnapshotRetentionJobParams configure the live analytics cleanup job.
type SnapshotRetentionJobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Repository snapshotRetentionRepo
	Retention  int
}

// NewSnapshotRetentionJob builds the job that trims interval analytics
// snapshots of ended streams.
func NewSnapshotRetentionJob(params SnapshotRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("live repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = snapshotRetentionDays
	}
	return &snapshotRetentionJob{
		logg:      params.Logger,
		db:        params.DB,
		repo:      params.Repository,
		retention: retention,
		now:       time.Now,
	}, nil
}

type snapshotRetentionJob struct {
	logg      *logger.Logger
	db        txRunner
	repo      snapshotRetentionRepo
	retention int
	now       func() time.Time
}

func (j *snapshotRetentionJob) Name() string { return "live-snapshot-retention" }

func (j *snapshotRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.retention) * 24 * time.Hour)
	var deleted int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := j.repo.DeleteSnapshotsBefore(ctx, tx, cutoff)
		if err != nil {
			return err
		}
		deleted = rows
		return nil
	})
	if err != nil {
		return fmt.Errorf("snapshot retention: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"retention_days": j.retention,
		"rows_deleted":   deleted,
	})
	j.logg.Info(logCtx, "live snapshot retention cleanup complete")
	return nil
}
