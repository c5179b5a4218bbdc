package models

import (
	"time"

	"github.com/google/uuid"
)

// LiveComment is a chat line posted during a stream. Comments are append-only
// and survive the stream ending.
type LiveComment struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	LiveStreamID uuid.UUID `gorm:"column:live_stream_id;type:uuid;not null;index" json:"live_stream_id"`
	AuthorName   string    `gorm:"column:author_name;type:text;not null" json:"author_name"`
	AdminID      *uuid.UUID `gorm:"column:admin_id;type:uuid" json:"admin_id,omitempty"`
	Body         string    `gorm:"column:body;type:text;not null" json:"body"`
	IsPinned     bool      `gorm:"column:is_pinned;not null;default:false" json:"is_pinned"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
}
