package live

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dimasprakoso/lokalive-backend/pkg/config"
	"github.com/dimasprakoso/lokalive-backend/pkg/db/models"
	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
	"github.com/dimasprakoso/lokalive-backend/pkg/logger"
	"github.com/dimasprakoso/lokalive-backend/pkg/outbox"
	"github.com/dimasprakoso/lokalive-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// viewerStore tracks realtime viewer presence per stream.
type viewerStore interface {
	JoinStream(ctx context.Context, streamID string) (int64, error)
	LeaveStream(ctx context.Context, streamID string) (int64, error)
	StreamViewerCount(ctx context.Context, streamID string) (int64, error)
	ResetStreamViewers(ctx context.Context, streamID string) error
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
}

// Service defines the live-commerce operations: streams, vouchers, live
// orders, comments, and analytics.
type Service interface {
	CreateStream(ctx context.Context, input CreateStreamInput) (*models.LiveStream, error)
	GetStream(ctx context.Context, streamID uuid.UUID) (*models.LiveStream, error)
	ListStreams(ctx context.Context, params pagination.Params, filters StreamFilters) (*StreamList, error)
	StartStream(ctx context.Context, input StreamLifecycleInput) (*StreamSession, error)
	EndStream(ctx context.Context, input StreamLifecycleInput) (*models.LiveStream, error)
	PinProduct(ctx context.Context, input PinInput) error
	UnpinProduct(ctx context.Context, input PinInput) error
	IssueViewerToken(ctx context.Context, input ViewerTokenInput) (*ViewerSession, error)

	CreateVoucher(ctx context.Context, input VoucherInput) (*models.LiveVoucher, error)
	ListVouchers(ctx context.Context, streamID uuid.UUID) ([]models.LiveVoucher, error)
	UpdateVoucher(ctx context.Context, voucherID uuid.UUID, input VoucherInput) (*models.LiveVoucher, error)
	DeleteVoucher(ctx context.Context, voucherID uuid.UUID) error

	CreateLiveOrder(ctx context.Context, input CreateLiveOrderInput) (*LiveOrderView, error)
	ConfirmLiveOrder(ctx context.Context, input LiveOrderDecisionInput) (*LiveOrderView, error)
	UpdateLiveOrderStatus(ctx context.Context, input LiveOrderStatusInput) (*LiveOrderView, error)
	GetLiveOrder(ctx context.Context, liveOrderID uuid.UUID) (*LiveOrderView, error)
	ListLiveOrders(ctx context.Context, streamID uuid.UUID) ([]LiveOrderView, error)

	PostComment(ctx context.Context, input CommentInput) (*models.LiveComment, error)
	ListComments(ctx context.Context, streamID uuid.UUID, params pagination.Params) ([]models.LiveComment, string, error)

	RecordSnapshot(ctx context.Context, streamID uuid.UUID) (*models.LiveAnalyticsSnapshot, error)
	ListSnapshots(ctx context.Context, streamID uuid.UUID) ([]models.LiveAnalyticsSnapshot, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	outbox   outboxPublisher
	viewers  viewerStore
	videoCfg config.VideoConfig
	logg     *logger.Logger
}

// ActorInput identifies the admin performing a mutation, for audit events.
type ActorInput struct {
	ActorAdminID   uuid.UUID
	ActorRole      enums.AdminRole
	ActorIP        string
	ActorUserAgent string
}

// StreamFilters describe the inputs supported by the stream list.
type StreamFilters struct {
	Status      *enums.LiveStreamStatus
	HostAdminID *uuid.UUID
}

// StreamList wraps the paginated streams plus the next page cursor.
type StreamList struct {
	Streams    []models.LiveStream `json:"streams"`
	NextCursor string              `json:"next_cursor,omitempty"`
}

// NewService builds a live-commerce service with the required dependencies.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher, viewers viewerStore, videoCfg config.VideoConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("live repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if viewers == nil {
		return nil, fmt.Errorf("viewer store required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		outbox:   outboxSvc,
		viewers:  viewers,
		videoCfg: videoCfg,
		logg:     logg,
	}, nil
}

func buildActor(input ActorInput) *outbox.ActorRef {
	if input.ActorAdminID == uuid.Nil {
		return nil
	}
	return &outbox.ActorRef{
		AdminID:   input.ActorAdminID,
		Role:      string(input.ActorRole),
		IP:        input.ActorIP,
		UserAgent: input.ActorUserAgent,
	}
}
