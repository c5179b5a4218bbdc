package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
)

// LiveVoucher is a time-bounded discount scoped to one stream. The row stores
// policy only; the computed discount is denormalized onto the live order that
// redeems it. A voucher referenced by any live order cannot be deleted.
type LiveVoucher struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	LiveStreamID uuid.UUID         `gorm:"column:live_stream_id;type:uuid;not null;index" json:"live_stream_id"`
	Code         string            `gorm:"column:code;type:text;not null" json:"code"`
	Type         enums.VoucherType `gorm:"column:type;type:text;not null" json:"type"`
	Value        decimal.Decimal   `gorm:"column:value;type:decimal(20,2);not null" json:"value"`
	StartTime    time.Time         `gorm:"column:start_time;type:timestamptz;not null" json:"start_time"`
	EndTime      time.Time         `gorm:"column:end_time;type:timestamptz;not null" json:"end_time"`
	IsActive     bool              `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// IsValid reports whether the voucher is redeemable at the given instant:
// active and inside the [start, end] window, bounds inclusive.
func (v *LiveVoucher) IsValid(now time.Time) bool {
	if !v.IsActive {
		return false
	}
	if now.Before(v.StartTime) {
		return false
	}
	return !now.After(v.EndTime)
}

// Discount computes the reduction this voucher applies to the given total.
// Percentage vouchers scale the total; amount vouchers subtract a fixed value
// capped at the total.
func (v *LiveVoucher) Discount(total decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch v.Type {
	case enums.VoucherTypePercentage:
		discount = total.Mul(v.Value).Div(decimal.NewFromInt(100)).Round(2)
	case enums.VoucherTypeAmount:
		discount = v.Value
	default:
		return decimal.Zero
	}
	if discount.GreaterThan(total) {
		return total
	}
	return discount
}
