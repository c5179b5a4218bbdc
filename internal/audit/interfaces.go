package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dimasprakoso/lokalive-backend/pkg/db/models"
	"github.com/dimasprakoso/lokalive-backend/pkg/pagination"
)

// Filters narrows activity listings.
type Filters struct {
	AdminID     *uuid.UUID
	Action      string
	SubjectType string
	DateFrom    *time.Time
	DateTo      *time.Time
}

// ActivityList is one page of audit entries.
type ActivityList struct {
	Activities []models.AdminActivity `json:"activities"`
	NextCursor string                 `json:"next_cursor,omitempty"`
}

// Repository defines persistence operations for the audit log.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	// CreateActivity inserts an audit row. A duplicate event_id is a no-op.
	CreateActivity(ctx context.Context, activity *models.AdminActivity) error
	ListActivities(ctx context.Context, params pagination.Params, filters Filters) (*ActivityList, error)
}
