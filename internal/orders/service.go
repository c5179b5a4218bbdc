package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dimasprakoso/lokalive-backend/pkg/db/models"
	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
	pkgerrors "github.com/dimasprakoso/lokalive-backend/pkg/errors"
	"github.com/dimasprakoso/lokalive-backend/pkg/logger"
	"github.com/dimasprakoso/lokalive-backend/pkg/outbox"
	"github.com/dimasprakoso/lokalive-backend/pkg/outbox/payloads"
	"github.com/dimasprakoso/lokalive-backend/pkg/pagination"
	"github.com/dimasprakoso/lokalive-backend/pkg/push"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type pushSender interface {
	Send(ctx context.Context, notification push.Notification) error
}

// Service defines order-level operations beyond repository reads.
type Service interface {
	Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, params pagination.Params, filters Filters) (*OrderList, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Order, error)
	UpdateShippingStatus(ctx context.Context, input UpdateShippingStatusInput) (*models.Order, error)
	UpdateShippingInfo(ctx context.Context, input UpdateShippingInfoInput) (*models.Order, error)
	Complete(ctx context.Context, input CompleteInput) (*models.Order, error)
	Delete(ctx context.Context, input DeleteInput) error
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
	push   pushSender
	logg   *logger.Logger
}

// NewService builds an orders service with the required dependencies. The push
// sender is optional; when nil, notifications are skipped.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher, pushSvc pushSender, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		repo:   repo,
		tx:     tx,
		outbox: outboxSvc,
		push:   pushSvc,
		logg:   logg,
	}, nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters Filters) (*OrderList, error) {
	list, err := s.repo.ListOrders(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return list, nil
}

// UpdateStatus overwrites the commercial lifecycle state. Any known status is
// accepted regardless of the current one; the advisory guards on the model are
// surfaced to clients but not enforced here.
func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Order, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", input.Status))
	}

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		var err error
		order, err = repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find order")
		}

		fromStatus := order.Status
		if fromStatus == input.Status {
			return nil
		}

		now := time.Now().UTC()
		updates := map[string]any{"status": input.Status}
		if input.Status == enums.OrderStatusCompleted && order.DeliveredAt == nil {
			updates["delivered_at"] = now
			order.DeliveredAt = &now
		}
		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
		}
		order.Status = input.Status

		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         buildActor(input.ActorInput),
			Data: payloads.OrderStatusChangedEvent{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				FromStatus:  fromStatus,
				ToStatus:    input.Status,
				ChangedAt:   now,
			},
		}); err != nil {
			return err
		}

		if input.Status == enums.OrderStatusCanceled {
			return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventOrderCanceled,
				AggregateType: enums.AggregateOrder,
				AggregateID:   order.ID,
				Actor:         buildActor(input.ActorInput),
				Data: payloads.OrderCanceledEvent{
					OrderID:     order.ID,
					OrderNumber: order.OrderNumber,
					Reason:      input.Reason,
					CanceledAt:  now,
				},
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Complete is the one guarded transition: the order must be shipped and carry
// no pending complaint.
func (s *service) Complete(ctx context.Context, input CompleteInput) (*models.Order, error) {
	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		var err error
		order, err = repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find order")
		}

		if !order.CanBeCompleted() {
			return pkgerrors.New(pkgerrors.CodeValidation, "order cannot be completed in its current state")
		}

		now := time.Now().UTC()
		updates := map[string]any{"status": enums.OrderStatusCompleted}
		if order.DeliveredAt == nil {
			updates["delivered_at"] = now
			order.DeliveredAt = &now
		}
		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "complete order")
		}
		order.Status = enums.OrderStatusCompleted

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCompleted,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         buildActor(input.ActorInput),
			Data: payloads.OrderCompletedEvent{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				TotalAmount: order.TotalAmount,
				DeliveredAt: order.DeliveredAt,
				CompletedAt: now,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, order, "Pesanan Selesai",
		fmt.Sprintf("Pesanan %s telah selesai. Terima kasih sudah berbelanja!", order.OrderNumber))
	return order, nil
}

// UpdateShippingStatus moves the coarse shipping indicator. The delivered
// value stamps delivered_at on the order.
func (s *service) UpdateShippingStatus(ctx context.Context, input UpdateShippingStatusInput) (*models.Order, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid shipping status %q", input.Status))
	}

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		var err error
		order, err = repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find order")
		}

		fromStatus := order.ShippingStatus
		if fromStatus == input.Status {
			return nil
		}

		updates := map[string]any{"shipping_status": input.Status}
		if input.Status == enums.OrderShippingStatusDelivered && order.DeliveredAt == nil {
			now := time.Now().UTC()
			updates["delivered_at"] = now
			order.DeliveredAt = &now
		}
		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update shipping status")
		}
		order.ShippingStatus = input.Status

		pushToken := ""
		if order.PushToken != nil {
			pushToken = *order.PushToken
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderShippingStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         buildActor(input.ActorInput),
			Data: payloads.OrderShippingStatusChangedEvent{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				FromStatus:  fromStatus,
				ToStatus:    input.Status,
				PushToken:   pushToken,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	if title, body, ok := shippingPushMessage(order.ShippingStatus, order.OrderNumber); ok {
		s.notify(ctx, order, title, body)
	}
	return order, nil
}

func (s *service) UpdateShippingInfo(ctx context.Context, input UpdateShippingInfoInput) (*models.Order, error) {
	updates := map[string]any{}
	if input.ShippingCourier != nil {
		updates["shipping_courier"] = *input.ShippingCourier
	}
	if input.TrackingNumber != nil {
		updates["tracking_number"] = *input.TrackingNumber
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no shipping fields provided")
	}

	if err := s.repo.UpdateOrder(ctx, input.OrderID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update shipping info")
	}
	return s.Get(ctx, input.OrderID)
}

// Delete removes the order; items, proof, shipments, and complaints go with it
// through the cascade constraints.
func (s *service) Delete(ctx context.Context, input DeleteInput) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteOrder(ctx, input.OrderID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete order")
		}
		return nil
	})
}

// notify sends a push notification when the order has a token. Failures are
// logged, never surfaced.
func (s *service) notify(ctx context.Context, order *models.Order, title, body string) {
	if s.push == nil || order == nil || order.PushToken == nil || *order.PushToken == "" {
		return
	}
	err := s.push.Send(ctx, push.Notification{
		Token: *order.PushToken,
		Title: title,
		Body:  body,
		Data: map[string]string{
			"order_id":     order.ID.String(),
			"order_number": order.OrderNumber,
		},
	})
	if err != nil && s.logg != nil {
		ctx = s.logg.WithOrderID(ctx, order.ID.String())
		s.logg.Warn(ctx, "push notification failed")
	}
}

func shippingPushMessage(status enums.OrderShippingStatus, orderNumber string) (string, string, bool) {
	switch status {
	case enums.OrderShippingStatusInTransit:
		return "Pesanan Dikirim", fmt.Sprintf("Pesanan %s sedang dalam perjalanan.", orderNumber), true
	case enums.OrderShippingStatusOutForDelivery:
		return "Pesanan Segera Tiba", fmt.Sprintf("Pesanan %s sedang diantar kurir.", orderNumber), true
	case enums.OrderShippingStatusDelivered:
		return "Pesanan Tiba", fmt.Sprintf("Pesanan %s telah sampai di tujuan.", orderNumber), true
	default:
		return "", "", false
	}
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
