package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
	"github.com/dimasprakoso/lokalive-backend/pkg/types"
)

// LiveOrder records an order placed during a stream. It mirrors the backing
// Order row one-to-one and carries a denormalized discount/total so voucher
// math survives later edits to the voucher row. Status is never stored here:
// readers project it from the backing order.
type LiveOrder struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	LiveStreamID uuid.UUID       `gorm:"column:live_stream_id;type:uuid;not null;index" json:"live_stream_id"`
	OrderID      uuid.UUID       `gorm:"column:order_id;type:uuid;not null;uniqueIndex" json:"order_id"`
	VoucherID    *uuid.UUID      `gorm:"column:voucher_id;type:uuid" json:"voucher_id,omitempty"`
	BuyerName    string          `gorm:"column:buyer_name;type:text;not null" json:"buyer_name"`
	BuyerPhone   string          `gorm:"column:buyer_phone;type:text;not null" json:"buyer_phone"`
	Subtotal     decimal.Decimal `gorm:"column:subtotal;type:decimal(20,2);not null" json:"subtotal"`
	Discount     decimal.Decimal `gorm:"column:discount;type:decimal(20,2);not null;default:0" json:"discount"`
	Total        decimal.Decimal `gorm:"column:total;type:decimal(20,2);not null" json:"total"`
	ItemSnapshot types.JSONMap   `gorm:"column:item_snapshot;type:jsonb;serializer:json" json:"item_snapshot,omitempty"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Order   *Order       `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	Voucher *LiveVoucher `gorm:"foreignKey:VoucherID" json:"voucher,omitempty"`
}

// ProjectedStatus returns the lifecycle status of the backing order, or the
// initial awaiting-payment status when the association is not loaded.
func (lo *LiveOrder) ProjectedStatus() enums.OrderStatus {
	if lo.Order == nil {
		return enums.OrderStatusAwaitingPayment
	}
	return lo.Order.Status
}
