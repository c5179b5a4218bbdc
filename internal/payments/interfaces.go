package payments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dimasprakoso/lokalive-backend/pkg/db/models"
)

// Repository defines persistence operations for payment records and proofs.
// Order access is included because proof decisions write through to the
// owning order in the same transaction.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindPaymentProof(ctx context.Context, proofID uuid.UUID) (*models.PaymentProof, error)
	FindPaymentProofByOrder(ctx context.Context, orderID uuid.UUID) (*models.PaymentProof, error)
	UpdatePaymentProof(ctx context.Context, proofID uuid.UUID, updates map[string]any) error
	FindPayment(ctx context.Context, paymentID uuid.UUID) (*models.Payment, error)
	UpdatePayment(ctx context.Context, paymentID uuid.UUID, updates map[string]any) error
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
}
