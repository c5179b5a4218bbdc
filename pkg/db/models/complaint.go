package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
)

// Complaint is a post-purchase ticket attached to an order. An order with a
// complaint still in Pending cannot be completed.
type Complaint struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID         uuid.UUID             `gorm:"column:order_id;type:uuid;not null;index" json:"order_id"`
	Subject         string                `gorm:"column:subject;type:text;not null" json:"subject"`
	Description     string                `gorm:"column:description;type:text;not null" json:"description"`
	Status          enums.ComplaintStatus `gorm:"column:status;type:text;not null;default:'Pending'" json:"status"`
	HandledBy       *uuid.UUID            `gorm:"column:handled_by;type:uuid" json:"handled_by,omitempty"`
	ResolutionNotes *string               `gorm:"column:resolution_notes;type:text" json:"resolution_notes,omitempty"`
	ResolvedAt      *time.Time            `gorm:"column:resolved_at;type:timestamptz" json:"resolved_at,omitempty"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
