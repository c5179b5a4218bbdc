package shipments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dimasprakoso/lokalive-backend/pkg/db/models"
)

// Repository defines persistence operations across the shipment and order
// tables. Order access is included because every shipment transition writes
// through to the owning order in the same transaction.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateShipment(ctx context.Context, shipment *models.Shipment) (*models.Shipment, error)
	FindShipment(ctx context.Context, shipmentID uuid.UUID) (*models.Shipment, error)
	ListShipmentsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Shipment, error)
	UpdateShipment(ctx context.Context, shipmentID uuid.UUID, updates map[string]any) error
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
}
