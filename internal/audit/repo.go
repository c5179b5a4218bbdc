package audit

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dimasprakoso/lokalive-backend/pkg/db/models"
	"github.com/dimasprakoso/lokalive-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an audit repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateActivity(ctx context.Context, activity *models.AdminActivity) error {
	// The unique index on event_id makes redelivered events a no-op.
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoNothing: true,
		}).
		Create(activity).Error
}

func (r *repository) ListActivities(ctx context.Context, params pagination.Params, filters Filters) (*ActivityList, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Model(&models.AdminActivity{})

	if filters.AdminID != nil {
		query = query.Where("admin_id = ?", *filters.AdminID)
	}
	if filters.Action != "" {
		query = query.Where("action = ?", filters.Action)
	}
	if filters.SubjectType != "" {
		query = query.Where("subject_type = ?", filters.SubjectType)
	}
	if filters.DateFrom != nil {
		query = query.Where("occurred_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("occurred_at <= ?", *filters.DateTo)
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.AdminActivity
	err = query.
		Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	rows, nextCursor := pagination.NextCursorFrom(rows, limit, func(a models.AdminActivity) pagination.Cursor {
		return pagination.Cursor{CreatedAt: a.CreatedAt, ID: a.ID}
	})

	return &ActivityList{Activities: rows, NextCursor: nextCursor}, nil
}
