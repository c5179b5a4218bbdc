package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dimasprakoso/lokalive-backend/pkg/types"
)

// AdminActivity is one append-only audit entry. Rows are written exclusively
// by the domain-event consumer; nothing updates or deletes them.
type AdminActivity struct {
	ID           uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EventID      string        `gorm:"column:event_id;type:text;not null;uniqueIndex" json:"event_id"`
	AdminID      *uuid.UUID    `gorm:"column:admin_id;type:uuid;index" json:"admin_id,omitempty"`
	Action       string        `gorm:"column:action;type:text;not null" json:"action"`
	Description  string        `gorm:"column:description;type:text;not null" json:"description"`
	SubjectType  string        `gorm:"column:subject_type;type:text;not null;index" json:"subject_type"`
	SubjectID    uuid.UUID     `gorm:"column:subject_id;type:uuid;not null;index" json:"subject_id"`
	BeforeValues types.JSONMap `gorm:"column:before_values;type:jsonb;serializer:json" json:"before_values,omitempty"`
	AfterValues  types.JSONMap `gorm:"column:after_values;type:jsonb;serializer:json" json:"after_values,omitempty"`
	IPAddress    *string       `gorm:"column:ip_address;type:text" json:"ip_address,omitempty"`
	UserAgent    *string       `gorm:"column:user_agent;type:text" json:"user_agent,omitempty"`
	OccurredAt   time.Time     `gorm:"column:occurred_at;type:timestamptz;not null" json:"occurred_at"`
	CreatedAt    time.Time     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
