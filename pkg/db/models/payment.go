package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
)

// Payment is a standalone payment record (bank transfer, card) verified or
// rejected by an admin. It is decoupled from the payment-proof image flow and
// carries no order side effects.
type Payment struct {
	ID         uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID    *uuid.UUID          `gorm:"column:order_id;type:uuid;index" json:"order_id,omitempty"`
	Method     string              `gorm:"column:method;type:text;not null" json:"method"`
	Reference  string              `gorm:"column:reference;type:text;not null" json:"reference"`
	Amount     decimal.Decimal     `gorm:"column:amount;type:decimal(20,2);not null" json:"amount"`
	Status     enums.PaymentStatus `gorm:"column:status;type:text;not null;default:'pending'" json:"status"`
	VerifiedBy *uuid.UUID          `gorm:"column:verified_by;type:uuid" json:"verified_by,omitempty"`
	VerifiedAt *time.Time          `gorm:"column:verified_at;type:timestamptz" json:"verified_at,omitempty"`
	Notes      *string             `gorm:"column:notes;type:text" json:"notes,omitempty"`
	CreatedAt  time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
