package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
)

// LiveStream is one live-selling session. Media transport is handled by the
// external video provider; the backend persists session metadata and issues
// room tokens.
type LiveStream struct {
	ID              uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title           string                 `gorm:"column:title;type:text;not null" json:"title"`
	Description     *string                `gorm:"column:description;type:text" json:"description,omitempty"`
	RoomID          string                 `gorm:"column:room_id;type:text;not null;uniqueIndex" json:"room_id"`
	HostAdminID     uuid.UUID              `gorm:"column:host_admin_id;type:uuid;not null" json:"host_admin_id"`
	Status          enums.LiveStreamStatus `gorm:"column:status;type:text;not null;default:'scheduled'" json:"status"`
	ScheduledAt     *time.Time             `gorm:"column:scheduled_at;type:timestamptz" json:"scheduled_at,omitempty"`
	StartedAt       *time.Time             `gorm:"column:started_at;type:timestamptz" json:"started_at,omitempty"`
	EndedAt         *time.Time             `gorm:"column:ended_at;type:timestamptz" json:"ended_at,omitempty"`
	PeakViewerCount int                    `gorm:"column:peak_viewer_count;not null;default:0" json:"peak_viewer_count"`

	PinnedProducts []LiveStreamProduct `gorm:"foreignKey:LiveStreamID;constraint:OnDelete:CASCADE" json:"pinned_products,omitempty"`
	Vouchers       []LiveVoucher       `gorm:"foreignKey:LiveStreamID;constraint:OnDelete:CASCADE" json:"vouchers,omitempty"`
	Orders         []LiveOrder         `gorm:"foreignKey:LiveStreamID" json:"orders,omitempty"`
	Comments       []LiveComment       `gorm:"foreignKey:LiveStreamID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	Analytics      []LiveAnalyticsSnapshot `gorm:"foreignKey:LiveStreamID;constraint:OnDelete:CASCADE" json:"analytics,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// LiveStreamProduct pins a catalog product to a stream.
type LiveStreamProduct struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	LiveStreamID uuid.UUID `gorm:"column:live_stream_id;type:uuid;not null;index" json:"live_stream_id"`
	ProductID    uuid.UUID `gorm:"column:product_id;type:uuid;not null;index" json:"product_id"`
	PinnedAt     time.Time `gorm:"column:pinned_at;type:timestamptz;not null" json:"pinned_at"`
	Position     int       `gorm:"column:position;not null;default:0" json:"position"`
}
