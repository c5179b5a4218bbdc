package live

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dimasprakoso/lokalive-backend/pkg/db/models"
	"github.com/dimasprakoso/lokalive-backend/pkg/pagination"
)

// LiveOrderTotals aggregates the money columns of a stream's live orders.
type LiveOrderTotals struct {
	OrderCount    int64
	GrossRevenue  decimal.Decimal
	TotalDiscount decimal.Decimal
}

// Repository defines persistence operations for the live-commerce tables.
// The backing orders table is included because live order operations write
// through to it in the same transaction.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateStream(ctx context.Context, stream *models.LiveStream) (*models.LiveStream, error)
	FindStream(ctx context.Context, streamID uuid.UUID) (*models.LiveStream, error)
	ListStreams(ctx context.Context, params pagination.Params, filters StreamFilters) (*StreamList, error)
	UpdateStream(ctx context.Context, streamID uuid.UUID, updates map[string]any) error

	CreatePin(ctx context.Context, pin *models.LiveStreamProduct) error
	DeletePin(ctx context.Context, streamID, productID uuid.UUID) error
	ListPins(ctx context.Context, streamID uuid.UUID) ([]models.LiveStreamProduct, error)

	CreateVoucher(ctx context.Context, voucher *models.LiveVoucher) (*models.LiveVoucher, error)
	FindVoucher(ctx context.Context, voucherID uuid.UUID) (*models.LiveVoucher, error)
	FindVoucherByCode(ctx context.Context, streamID uuid.UUID, code string) (*models.LiveVoucher, error)
	ListVouchersByStream(ctx context.Context, streamID uuid.UUID) ([]models.LiveVoucher, error)
	UpdateVoucher(ctx context.Context, voucherID uuid.UUID, updates map[string]any) error
	DeleteVoucher(ctx context.Context, voucherID uuid.UUID) error
	CountLiveOrdersByVoucher(ctx context.Context, voucherID uuid.UUID) (int64, error)

	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	CreateLiveOrder(ctx context.Context, liveOrder *models.LiveOrder) (*models.LiveOrder, error)
	FindLiveOrder(ctx context.Context, liveOrderID uuid.UUID) (*models.LiveOrder, error)
	ListLiveOrdersByStream(ctx context.Context, streamID uuid.UUID) ([]models.LiveOrder, error)
	LiveOrderTotals(ctx context.Context, streamID uuid.UUID) (*LiveOrderTotals, error)

	CreateComment(ctx context.Context, comment *models.LiveComment) (*models.LiveComment, error)
	ListCommentsByStream(ctx context.Context, streamID uuid.UUID, params pagination.Params) ([]models.LiveComment, string, error)
	CountCommentsByStream(ctx context.Context, streamID uuid.UUID) (int64, error)

	CreateSnapshot(ctx context.Context, snapshot *models.LiveAnalyticsSnapshot) (*models.LiveAnalyticsSnapshot, error)
	ListSnapshotsByStream(ctx context.Context, streamID uuid.UUID) ([]models.LiveAnalyticsSnapshot, error)
	DeleteSnapshotsBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
}
