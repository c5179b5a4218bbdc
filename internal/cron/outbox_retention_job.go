package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/dimasprakoso/lokalive-backend/pkg/logger"
)

const (
	outboxRetentionDays = 30
	dlqRetentionDays    = 90
	outboxMinAttempts   = 5
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxRetentionRepo interface {
	DeletePublishedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time, minAttemptCount int) (int64, error)
}

type dlqRetentionRepo interface {
	DeleteFailedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
}

// OutboxRetentionJobParams configure the outbox cleanup job.
type OutboxRetentionJobParams struct {
	Logger        *logger.Logger
	DB            txRunner
	Repository    outboxRetentionRepo
	DLQRepository dlqRetentionRepo
	Retention     int
	DLQRetention  int
	MinAttempts   int
}

// NewOutboxRetentionJob builds the job that trims published outbox rows and
// aged dead-letter entries.
func NewOutboxRetentionJob(params OutboxRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("outbox repository required")
	}
	if params.DLQRepository == nil {
		return nil, fmt.Errorf("dlq repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = outboxRetentionDays
	}
	dlqRetention := params.DLQRetention
	if dlqRetention <= 0 {
		dlqRetention = dlqRetentionDays
	}
	minAttempts := params.MinAttempts
	if minAttempts <= 0 {
		minAttempts = outboxMinAttempts
	}
	return &outboxRetentionJob{
		logg:         params.Logger,
		db:           params.DB,
		repo:         params.Repository,
		dlq:          params.DLQRepository,
		retention:    retention,
		dlqRetention: dlqRetention,
		minAttempts:  minAttempts,
		now:          time.Now,
	}, nil
}

type outboxRetentionJob struct {
	logg         *logger.Logger
	db           txRunner
	repo         outboxRetentionRepo
	dlq          dlqRetentionRepo
	retention    int
	dlqRetention int
	minAttempts  int
	now          func() time.Time
}

func (j *outboxRetentionJob) Name() string { return "outbox-retention" }

// Run purges published events and aged DLQ rows. The two deletes run in
// separate transactions; a failure in one does not block the other.
func (j *outboxRetentionJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	eventCutoff := now.Add(-time.Duration(j.retention) * 24 * time.Hour)
	dlqCutoff := now.Add(-time.Duration(j.dlqRetention) * 24 * time.Hour)

	var errs []error
	var eventsDeleted, dlqDeleted int64

	if err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := j.repo.DeletePublishedBefore(ctx, tx, eventCutoff, j.minAttempts)
		if err != nil {
			return err
		}
		eventsDeleted = rows
		return nil
	}); err != nil {
		errs = append(errs, fmt.Errorf("outbox retention: %w", err))
	}

	if err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := j.dlq.DeleteFailedBefore(ctx, tx, dlqCutoff)
		if err != nil {
			return err
		}
		dlqDeleted = rows
		return nil
	}); err != nil {
		errs = append(errs, fmt.Errorf("dlq retention: %w", err))
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"event_cutoff":   eventCutoff,
		"dlq_cutoff":     dlqCutoff,
		"events_deleted": eventsDeleted,
		"dlq_deleted":    dlqDeleted,
	})
	j.logg.Info(logCtx, "outbox retention cleanup complete")
	return multierr.Combine(errs...)
}
