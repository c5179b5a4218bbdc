package complaints

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dimasprakoso/lokalive-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a complaints repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindComplaint(ctx context.Context, complaintID uuid.UUID) (*models.Complaint, error) {
	var complaint models.Complaint
	err := r.db.WithContext(ctx).Where("id = ?", complaintID).First(&complaint).Error
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *repository) ListComplaintsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&complaints).Error
	if err != nil {
		return nil, err
	}
	return complaints, nil
}

func (r *repository) UpdateComplaint(ctx context.Context, complaintID uuid.UUID, updates map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&models.Complaint{}).
		Where("id = ?", complaintID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
