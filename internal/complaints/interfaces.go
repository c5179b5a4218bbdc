package complaints

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dimasprakoso/lokalive-backend/pkg/db/models"
)

// Repository defines persistence operations for complaint tickets.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindComplaint(ctx context.Context, complaintID uuid.UUID) (*models.Complaint, error)
	ListComplaintsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Complaint, error)
	UpdateComplaint(ctx context.Context, complaintID uuid.UUID, updates map[string]any) error
}
