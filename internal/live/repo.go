package live

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dimasprakoso/lokalive-backend/pkg/db/models"
	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
	"github.com/dimasprakoso/lokalive-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a live-commerce repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateStream(ctx context.Context, stream *models.LiveStream) (*models.LiveStream, error) {
	if err := r.db.WithContext(ctx).Create(stream).Error; err != nil {
		return nil, err
	}
	return stream, nil
}

func (r *repository) FindStream(ctx context.Context, streamID uuid.UUID) (*models.LiveStream, error) {
	var stream models.LiveStream
	err := r.db.WithContext(ctx).
		Preload("PinnedProducts").
		Preload("Vouchers").
		Where("id = ?", streamID).
		First(&stream).Error
	if err != nil {
		return nil, err
	}
	return &stream, nil
}

func (r *repository) ListStreams(ctx context.Context, params pagination.Params, filters StreamFilters) (*StreamList, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Model(&models.LiveStream{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.HostAdminID != nil {
		query = query.Where("host_admin_id = ?", *filters.HostAdminID)
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.LiveStream
	err = query.
		Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	rows, nextCursor := pagination.NextCursorFrom(rows, limit, func(s models.LiveStream) pagination.Cursor {
		return pagination.Cursor{CreatedAt: s.CreatedAt, ID: s.ID}
	})
	return &StreamList{Streams: rows, NextCursor: nextCursor}, nil
}

func (r *repository) UpdateStream(ctx context.Context, streamID uuid.UUID, updates map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&models.LiveStream{}).
		Where("id = ?", streamID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CreatePin(ctx context.Context, pin *models.LiveStreamProduct) error {
	return r.db.WithContext(ctx).Create(pin).Error
}

func (r *repository) DeletePin(ctx context.Context, streamID, productID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("live_stream_id = ? AND product_id = ?", streamID, productID).
		Delete(&models.LiveStreamProduct{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ListPins(ctx context.Context, streamID uuid.UUID) ([]models.LiveStreamProduct, error) {
	var pins []models.LiveStreamProduct
	err := r.db.WithContext(ctx).
		Where("live_stream_id = ?", streamID).
		Order("position ASC, pinned_at ASC").
		Find(&pins).Error
	if err != nil {
		return nil, err
	}
	return pins, nil
}

func (r *repository) CreateVoucher(ctx context.Context, voucher *models.LiveVoucher) (*models.LiveVoucher, error) {
	if err := r.db.WithContext(ctx).Create(voucher).Error; err != nil {
		return nil, err
	}
	return voucher, nil
}

func (r *repository) FindVoucher(ctx context.Context, voucherID uuid.UUID) (*models.LiveVoucher, error) {
	var voucher models.LiveVoucher
	err := r.db.WithContext(ctx).Where("id = ?", voucherID).First(&voucher).Error
	if err != nil {
		return nil, err
	}
	return &voucher, nil
}

func (r *repository) FindVoucherByCode(ctx context.Context, streamID uuid.UUID, code string) (*models.LiveVoucher, error) {
	var voucher models.LiveVoucher
	err := r.db.WithContext(ctx).
		Where("live_stream_id = ? AND code = ?", streamID, code).
		First(&voucher).Error
	if err != nil {
		return nil, err
	}
	return &voucher, nil
}

func (r *repository) ListVouchersByStream(ctx context.Context, streamID uuid.UUID) ([]models.LiveVoucher, error) {
	var vouchers []models.LiveVoucher
	err := r.db.WithContext(ctx).
		Where("live_stream_id = ?", streamID).
		Order("created_at ASC").
		Find(&vouchers).Error
	if err != nil {
		return nil, err
	}
	return vouchers, nil
}

func (r *repository) UpdateVoucher(ctx context.Context, voucherID uuid.UUID, updates map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&models.LiveVoucher{}).
		Where("id = ?", voucherID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) DeleteVoucher(ctx context.Context, voucherID uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", voucherID).Delete(&models.LiveVoucher{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CountLiveOrdersByVoucher(ctx context.Context, voucherID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.LiveOrder{}).
		Where("voucher_id = ?", voucherID).
		Count(&count).Error
	return count, err
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CreateLiveOrder(ctx context.Context, liveOrder *models.LiveOrder) (*models.LiveOrder, error) {
	if err := r.db.WithContext(ctx).Create(liveOrder).Error; err != nil {
		return nil, err
	}
	return liveOrder, nil
}

func (r *repository) FindLiveOrder(ctx context.Context, liveOrderID uuid.UUID) (*models.LiveOrder, error) {
	var liveOrder models.LiveOrder
	err := r.db.WithContext(ctx).
		Preload("Order").
		Preload("Voucher").
		Where("id = ?", liveOrderID).
		First(&liveOrder).Error
	if err != nil {
		return nil, err
	}
	return &liveOrder, nil
}

func (r *repository) ListLiveOrdersByStream(ctx context.Context, streamID uuid.UUID) ([]models.LiveOrder, error) {
	var liveOrders []models.LiveOrder
	err := r.db.WithContext(ctx).
		Preload("Order").
		Where("live_stream_id = ?", streamID).
		Order("created_at DESC").
		Find(&liveOrders).Error
	if err != nil {
		return nil, err
	}
	return liveOrders, nil
}

func (r *repository) LiveOrderTotals(ctx context.Context, streamID uuid.UUID) (*LiveOrderTotals, error) {
	var row struct {
		OrderCount    int64
		GrossRevenue  decimal.Decimal
		TotalDiscount decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.LiveOrder{}).
		Select("COUNT(*) AS order_count, COALESCE(SUM(total), 0) AS gross_revenue, COALESCE(SUM(discount), 0) AS total_discount").
		Where("live_stream_id = ?", streamID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &LiveOrderTotals{
		OrderCount:    row.OrderCount,
		GrossRevenue:  row.GrossRevenue,
		TotalDiscount: row.TotalDiscount,
	}, nil
}

func (r *repository) CreateComment(ctx context.Context, comment *models.LiveComment) (*models.LiveComment, error) {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

func (r *repository) ListCommentsByStream(ctx context.Context, streamID uuid.UUID, params pagination.Params) ([]models.LiveComment, string, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}

	query := r.db.WithContext(ctx).
		Model(&models.LiveComment{}).
		Where("live_stream_id = ?", streamID)
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.LiveComment
	err = query.
		Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&rows).Error
	if err != nil {
		return nil, "", err
	}

	rows, nextCursor := pagination.NextCursorFrom(rows, limit, func(c models.LiveComment) pagination.Cursor {
		return pagination.Cursor{CreatedAt: c.CreatedAt, ID: c.ID}
	})
	return rows, nextCursor, nil
}

func (r *repository) CountCommentsByStream(ctx context.Context, streamID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.LiveComment{}).
		Where("live_stream_id = ?", streamID).
		Count(&count).Error
	return count, err
}

func (r *repository) CreateSnapshot(ctx context.Context, snapshot *models.LiveAnalyticsSnapshot) (*models.LiveAnalyticsSnapshot, error) {
	if err := r.db.WithContext(ctx).Create(snapshot).Error; err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (r *repository) ListSnapshotsByStream(ctx context.Context, streamID uuid.UUID) ([]models.LiveAnalyticsSnapshot, error) {
	var snapshots []models.LiveAnalyticsSnapshot
	err := r.db.WithContext(ctx).
		Where("live_stream_id = ?", streamID).
		Order("captured_at DESC").
		Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}

// DeleteSnapshotsBefore purges interval snapshots of ended streams captured
// before the cutoff. Snapshots of scheduled or running streams are kept.
func (r *repository) DeleteSnapshotsBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	result := db.WithContext(ctx).
		Where("captured_at < ?", cutoff).
		Where("live_stream_id IN (?)", db.Model(&models.LiveStream{}).
			Select("id").
			Where("status = ?", enums.LiveStreamStatusEnded)).
		Delete(&models.LiveAnalyticsSnapshot{})
	return result.RowsAffected, result.Error
}
