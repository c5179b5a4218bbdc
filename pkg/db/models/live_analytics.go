package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LiveAnalyticsSnapshot is a periodic rollup for one stream. The worker writes
// a row per interval; reporting reads the latest row per stream.
type LiveAnalyticsSnapshot struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	LiveStreamID  uuid.UUID       `gorm:"column:live_stream_id;type:uuid;not null;index" json:"live_stream_id"`
	ViewerCount   int             `gorm:"column:viewer_count;not null;default:0" json:"viewer_count"`
	CommentCount  int             `gorm:"column:comment_count;not null;default:0" json:"comment_count"`
	OrderCount    int             `gorm:"column:order_count;not null;default:0" json:"order_count"`
	GrossRevenue  decimal.Decimal `gorm:"column:gross_revenue;type:decimal(20,2);not null;default:0" json:"gross_revenue"`
	TotalDiscount decimal.Decimal `gorm:"column:total_discount;type:decimal(20,2);not null;default:0" json:"total_discount"`
	CapturedAt    time.Time       `gorm:"column:captured_at;type:timestamptz;not null;index" json:"captured_at"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
