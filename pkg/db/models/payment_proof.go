package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
)

// PaymentProof is the single uploaded payment evidence image scoped 1:1 to an
// order. Verifying it advances the order toward processing; rejecting it
// reverts the order to awaiting payment.
type PaymentProof struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID        uuid.UUID           `gorm:"column:order_id;type:uuid;not null;uniqueIndex" json:"order_id"`
	FileURL        string              `gorm:"column:file_url;type:text;not null" json:"file_url"`
	Status         enums.PaymentStatus `gorm:"column:status;type:text;not null;default:'pending'" json:"status"`
	VerifiedBy     *uuid.UUID          `gorm:"column:verified_by;type:uuid" json:"verified_by,omitempty"`
	VerifiedAt     *time.Time          `gorm:"column:verified_at;type:timestamptz" json:"verified_at,omitempty"`
	RejectionNotes *string             `gorm:"column:rejection_notes;type:text" json:"rejection_notes,omitempty"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
