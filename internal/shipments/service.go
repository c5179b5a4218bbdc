package shipments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dimasprakoso/lokalive-backend/pkg/db/models"
	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
	pkgerrors "github.com/dimasprakoso/lokalive-backend/pkg/errors"
	"github.com/dimasprakoso/lokalive-backend/pkg/outbox"
	"github.com/dimasprakoso/lokalive-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service defines shipment operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Shipment, error)
	Get(ctx context.Context, shipmentID uuid.UUID) (*models.Shipment, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Shipment, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Shipment, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
}

// ActorInput identifies the admin performing a mutation, for audit events.
type ActorInput struct {
	ActorAdminID   uuid.UUID
	ActorRole      enums.AdminRole
	ActorIP        string
	ActorUserAgent string
}

// CreateItemInput is one packed line of a new shipment.
type CreateItemInput struct {
	Name     string
	Quantity int
	Weight   decimal.Decimal
}

// CreateInput carries the data needed to register a shipment for an order.
type CreateInput struct {
	OrderID        uuid.UUID
	AddressLine    string
	City           string
	PostalCode     *string
	Courier        string
	CourierService *string
	TrackingNumber *string
	Items          []CreateItemInput
	ActorInput
}

// UpdateStatusInput moves a shipment through its delivery stages.
type UpdateStatusInput struct {
	ShipmentID uuid.UUID
	Status     enums.ShipmentStatus
	ActorInput
}

// NewService builds a shipments service with the required dependencies.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("shipments repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{repo: repo, tx: tx, outbox: outboxSvc}, nil
}

// Create registers a shipment and mirrors the courier fields onto the order in
// the same transaction.
func (s *service) Create(ctx context.Context, input CreateInput) (*models.Shipment, error) {
	if input.AddressLine == "" || input.City == "" || input.Courier == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address line, city, and courier are required")
	}

	var shipment *models.Shipment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find order")
		}

		totalWeight := decimal.Zero
		items := make([]models.ShipmentItem, 0, len(input.Items))
		for _, item := range input.Items {
			if item.Quantity <= 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, "shipment item quantity must be positive")
			}
			lineWeight := item.Weight.Mul(decimal.NewFromInt(int64(item.Quantity)))
			totalWeight = totalWeight.Add(lineWeight)
			items = append(items, models.ShipmentItem{
				Name:     item.Name,
				Quantity: item.Quantity,
				Weight:   item.Weight,
			})
		}

		shipment = &models.Shipment{
			OrderID:        order.ID,
			AddressLine:    input.AddressLine,
			City:           input.City,
			PostalCode:     input.PostalCode,
			Courier:        input.Courier,
			CourierService: input.CourierService,
			TrackingNumber: input.TrackingNumber,
			TotalWeight:    totalWeight,
			Status:         enums.ShipmentStatusProcessing,
			Items:          items,
		}
		if _, err := repo.CreateShipment(ctx, shipment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create shipment")
		}

		orderUpdates := map[string]any{"shipping_courier": input.Courier}
		if input.TrackingNumber != nil {
			orderUpdates["tracking_number"] = *input.TrackingNumber
		}
		if err := repo.UpdateOrder(ctx, order.ID, orderUpdates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mirror courier onto order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return shipment, nil
}

func (s *service) Get(ctx context.Context, shipmentID uuid.UUID) (*models.Shipment, error) {
	shipment, err := s.repo.FindShipment(ctx, shipmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shipment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find shipment")
	}
	return shipment, nil
}

func (s *service) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Shipment, error) {
	shipments, err := s.repo.ListShipmentsByOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list shipments")
	}
	return shipments, nil
}

// UpdateStatus persists the shipment transition and applies the order
// projection inside one transaction.
func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Shipment, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid shipment status %q", input.Status))
	}

	var shipment *models.Shipment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		var err error
		shipment, err = repo.FindShipment(ctx, input.ShipmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "shipment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find shipment")
		}

		fromStatus := shipment.Status
		if fromStatus == input.Status {
			return nil
		}

		now := time.Now().UTC()
		updates := map[string]any{"status": input.Status}
		if input.Status == enums.ShipmentStatusInTransit && shipment.ShippedAt == nil {
			updates["shipped_at"] = now
			shipment.ShippedAt = &now
		}
		if input.Status == enums.ShipmentStatusDelivered && shipment.DeliveredAt == nil {
			updates["delivered_at"] = now
			shipment.DeliveredAt = &now
		}
		if err := repo.UpdateShipment(ctx, shipment.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update shipment status")
		}
		shipment.Status = input.Status

		order, err := repo.FindOrder(ctx, shipment.OrderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find owning order")
		}

		projection := ProjectOrder(input.Status)
		orderShippingStatus := order.ShippingStatus
		if !projection.Empty() {
			orderUpdates := map[string]any{}
			if projection.OrderStatus != nil {
				orderUpdates["status"] = *projection.OrderStatus
			}
			if projection.ShippingStatus != nil {
				orderUpdates["shipping_status"] = *projection.ShippingStatus
				orderShippingStatus = *projection.ShippingStatus
			}
			if projection.StampDeliveredAt && order.DeliveredAt == nil {
				orderUpdates["delivered_at"] = now
			}
			if err := repo.UpdateOrder(ctx, order.ID, orderUpdates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "project shipment onto order")
			}
		}

		trackingNumber := ""
		if shipment.TrackingNumber != nil {
			trackingNumber = *shipment.TrackingNumber
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventShipmentStatusChanged,
			AggregateType: enums.AggregateShipment,
			AggregateID:   shipment.ID,
			Actor:         buildActor(input.ActorInput),
			Data: payloads.ShipmentStatusChangedEvent{
				ShipmentID:          shipment.ID,
				OrderID:             shipment.OrderID,
				TrackingNumber:      trackingNumber,
				FromStatus:          fromStatus,
				ToStatus:            input.Status,
				OrderShippingStatus: orderShippingStatus,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return shipment, nil
}

func buildActor(input ActorInput) *outbox.ActorRef {
	if input.ActorAdminID == uuid.Nil {
		return nil
	}
	return &outbox.ActorRef{
		AdminID:   input.ActorAdminID,
		Role:      string(input.ActorRole),
		IP:        input.ActorIP,
		UserAgent: input.ActorUserAgent,
	}
}
