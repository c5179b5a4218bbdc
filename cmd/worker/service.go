package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dimasprakoso/lokalive-backend/internal/audit"
	"github.com/dimasprakoso/lokalive-backend/internal/cron"
	"github.com/dimasprakoso/lokalive-backend/pkg/config"
	"github.com/dimasprakoso/lokalive-backend/pkg/db"
	"github.com/dimasprakoso/lokalive-backend/pkg/logger"
	"github.com/dimasprakoso/lokalive-backend/pkg/pubsub"
	"github.com/dimasprakoso/lokalive-backend/pkg/redis"
)

type ServiceParams struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            *db.Client
	Redis         *redis.Client
	PubSub        *pubsub.Client
	AuditConsumer *audit.Consumer
	Housekeeping  *cron.Service
}

type Service struct {
	cfg           *config.Config
	logg          *logger.Logger
	db            *db.Client
	redis         *redis.Client
	pubsub        *pubsub.Client
	auditConsumer *audit.Consumer
	housekeeping  *cron.Service
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Config == nil {
		return nil, errors.New("config is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if params.DB == nil {
		return nil, errors.New("database client is required")
	}
	if params.Redis == nil {
		return nil, errors.New("redis client is required")
	}
	if params.PubSub == nil {
		return nil, errors.New("pubsub client is required")
	}
	if params.AuditConsumer == nil {
		return nil, errors.New("audit consumer is required")
	}
	if params.Housekeeping == nil {
		return nil, errors.New("housekeeping service is required")
	}

	return &Service{
		cfg:           params.Config,
		logg:          params.Logger,
		db:            params.DB,
		redis:         params.Redis,
		pubsub:        params.PubSub,
		auditConsumer: params.AuditConsumer,
		housekeeping:  params.Housekeeping,
	}, nil
}

func (s *Service) ensureReadiness(ctx context.Context) error {
	if err := pingDependency(ctx, s.logg, "database", s.db.Ping); err != nil {
		return err
	}
	if err := pingDependency(ctx, s.logg, "redis", s.redis.Ping); err != nil {
		return err
	}
	if err := pingDependency(ctx, s.logg, "pubsub", s.pubsub.Ping); err != nil {
		return err
	}
	s.logg.Info(ctx, "all worker dependencies are ready")
	return nil
}

func pingDependency(ctx context.Context, logg *logger.Logger, name string, fn func(context.Context) error) error {
	if err := fn(ctx); err != nil {
		logg.Error(ctx, fmt.Sprintf("%s ping failed", name), err)
		return fmt.Errorf("%s ping failed: %w", name, err)
	}
	return nil
}

func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if err := s.ensureReadiness(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	errCh := make(chan error, 2)
	go func() {
		errCh <- s.auditConsumer.Run(ctx)
	}()
	go func() {
		errCh <- s.housekeeping.Run(ctx)
	}()

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "worker context canceled")
			return ctx.Err()
		case err := <-errCh:
			if err != nil && !errors.Is(err, context.Canceled) {
				s.logg.Error(ctx, "worker loop stopped unexpectedly", err)
				return err
			}
			return err
		case <-ticker.C:
		}
	}
}
