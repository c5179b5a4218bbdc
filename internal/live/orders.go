package live

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dimasprakoso/lokalive-backend/pkg/db/models"
	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
	pkgerrors "github.com/dimasprakoso/lokalive-backend/pkg/errors"
	"github.com/dimasprakoso/lokalive-backend/pkg/outbox"
	"github.com/dimasprakoso/lokalive-backend/pkg/outbox/payloads"
	"github.com/dimasprakoso/lokalive-backend/pkg/types"
)

const createIdempotencyTTL = 24 * time.Hour

// LiveOrderItemInput is one purchased line captured during the stream.
type LiveOrderItemInput struct {
	ProductID uuid.UUID
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// CreateLiveOrderInput places an order on behalf of a live viewer.
type CreateLiveOrderInput struct {
	StreamID        uuid.UUID
	BuyerName       string
	BuyerPhone      string
	ShippingAddress string
	PaymentMethod   string
	VoucherCode     string
	Items           []LiveOrderItemInput
	IdempotencyKey  string
	ActorInput
}

// LiveOrderDecisionInput confirms a live order.
type LiveOrderDecisionInput struct {
	LiveOrderID uuid.UUID
	ActorInput
}

// LiveOrderStatusInput forwards a lifecycle overwrite onto the backing order.
type LiveOrderStatusInput struct {
	LiveOrderID uuid.UUID
	Status      enums.OrderStatus
	ActorInput
}

// LiveOrderView is the read model: the live order row plus the status
// projected from the backing order.
type LiveOrderView struct {
	LiveOrder *models.LiveOrder `json:"live_order"`
	Status    enums.OrderStatus `json:"status"`
}

// CreateLiveOrder validates the voucher window, computes the discount at
// creation time, and writes the backing order plus the live order row in one
// transaction. A repeated idempotency key is rejected before any write.
func (s *service) CreateLiveOrder(ctx context.Context, input CreateLiveOrderInput) (*LiveOrderView, error) {
	if strings.TrimSpace(input.BuyerName) == "" || strings.TrimSpace(input.BuyerPhone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer name and phone required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item required")
	}

	if input.IdempotencyKey != "" {
		ok, err := s.viewers.SetNX(ctx,
			fmt.Sprintf("idempotency:live_order:%s", input.IdempotencyKey),
			input.StreamID.String(), createIdempotencyTTL)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency key")
		}
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeIdempotency, "live order already submitted")
		}
	}

	var liveOrder *models.LiveOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		stream, err := repo.FindStream(ctx, input.StreamID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "stream not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find stream")
		}
		if stream.Status != enums.LiveStreamStatusLive {
			return pkgerrors.New(pkgerrors.CodeBusinessRule, "stream is not live")
		}

		now := time.Now().UTC()
		subtotal := decimal.Zero
		items := make([]models.OrderItem, 0, len(input.Items))
		snapshot := make([]map[string]any, 0, len(input.Items))
		for _, item := range input.Items {
			if item.Quantity <= 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
			}
			lineSubtotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
			subtotal = subtotal.Add(lineSubtotal)
			items = append(items, models.OrderItem{
				ProductID:   item.ProductID,
				ProductName: item.Name,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				Subtotal:    lineSubtotal,
			})
			snapshot = append(snapshot, map[string]any{
				"product_id": item.ProductID.String(),
				"name":       item.Name,
				"quantity":   item.Quantity,
				"unit_price": item.UnitPrice.String(),
			})
		}

		discount := decimal.Zero
		var voucherID *uuid.UUID
		if code := strings.ToUpper(strings.TrimSpace(input.VoucherCode)); code != "" {
			voucher, err := repo.FindVoucherByCode(ctx, stream.ID, code)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeValidation, "unknown voucher code")
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find voucher")
			}
			if !voucher.IsValid(now) {
				return pkgerrors.New(pkgerrors.CodeBusinessRule, "voucher is not redeemable")
			}
			discount = voucher.Discount(subtotal)
			voucherID = &voucher.ID
		}
		total := subtotal.Sub(discount)

		order := &models.Order{
			OrderNumber:     newLiveOrderNumber(),
			UserID:          uuid.New(),
			CustomerName:    input.BuyerName,
			CustomerPhone:   &input.BuyerPhone,
			TotalAmount:     total,
			ShippingAddress: input.ShippingAddress,
			PaymentMethod:   input.PaymentMethod,
			Status:          enums.OrderStatusAwaitingPayment,
			ShippingStatus:  enums.OrderShippingStatusProcessing,
			Items:           items,
		}
		if _, err := repo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create backing order")
		}

		liveOrder = &models.LiveOrder{
			LiveStreamID: stream.ID,
			OrderID:      order.ID,
			VoucherID:    voucherID,
			BuyerName:    input.BuyerName,
			BuyerPhone:   input.BuyerPhone,
			Subtotal:     subtotal,
			Discount:     discount,
			Total:        total,
			ItemSnapshot: types.JSONMap{"items": snapshot},
			Order:        order,
		}
		if _, err := repo.CreateLiveOrder(ctx, liveOrder); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create live order")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventLiveOrderCreated,
			AggregateType: enums.AggregateLiveOrder,
			AggregateID:   liveOrder.ID,
			Actor:         buildActor(input.ActorInput),
			Data: payloads.LiveOrderCreatedEvent{
				LiveOrderID: liveOrder.ID,
				StreamID:    stream.ID,
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				BuyerName:   input.BuyerName,
				VoucherID:   voucherID,
				Discount:    discount,
				Total:       total,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return &LiveOrderView{LiveOrder: liveOrder, Status: liveOrder.ProjectedStatus()}, nil
}

// ConfirmLiveOrder forwards the awaiting-confirmation to processing transition
// onto the backing order. The live order row itself is never mutated.
func (s *service) ConfirmLiveOrder(ctx context.Context, input LiveOrderDecisionInput) (*LiveOrderView, error) {
	var liveOrder *models.LiveOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		var err error
		liveOrder, err = repo.FindLiveOrder(ctx, input.LiveOrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "live order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find live order")
		}
		if liveOrder.Order == nil {
			return pkgerrors.New(pkgerrors.CodeInternal, "live order missing backing order")
		}
		if liveOrder.Order.Status != enums.OrderStatusAwaitingConfirmation {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("backing order in %s cannot be confirmed", liveOrder.Order.Status))
		}

		if err := repo.UpdateOrder(ctx, liveOrder.OrderID, map[string]any{
			"status": enums.OrderStatusProcessing,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "confirm backing order")
		}
		liveOrder.Order.Status = enums.OrderStatusProcessing

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventLiveOrderConfirmed,
			AggregateType: enums.AggregateLiveOrder,
			AggregateID:   liveOrder.ID,
			Actor:         buildActor(input.ActorInput),
			Data: payloads.LiveOrderConfirmedEvent{
				LiveOrderID: liveOrder.ID,
				StreamID:    liveOrder.LiveStreamID,
				OrderID:     liveOrder.OrderID,
				ConfirmedBy: input.ActorAdminID,
				ConfirmedAt: time.Now().UTC(),
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return &LiveOrderView{LiveOrder: liveOrder, Status: liveOrder.ProjectedStatus()}, nil
}

// UpdateLiveOrderStatus forwards any known lifecycle value onto the backing
// order, mirroring the permissive order endpoint.
func (s *service) UpdateLiveOrderStatus(ctx context.Context, input LiveOrderStatusInput) (*LiveOrderView, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", input.Status))
	}

	var liveOrder *models.LiveOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		var err error
		liveOrder, err = repo.FindLiveOrder(ctx, input.LiveOrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "live order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find live order")
		}
		if liveOrder.Order == nil {
			return pkgerrors.New(pkgerrors.CodeInternal, "live order missing backing order")
		}

		fromStatus := liveOrder.Order.Status
		if fromStatus == input.Status {
			return nil
		}
		if err := repo.UpdateOrder(ctx, liveOrder.OrderID, map[string]any{"status": input.Status}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update backing order")
		}
		liveOrder.Order.Status = input.Status

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   liveOrder.OrderID,
			Actor:         buildActor(input.ActorInput),
			Data: payloads.OrderStatusChangedEvent{
				OrderID:     liveOrder.OrderID,
				OrderNumber: liveOrder.Order.OrderNumber,
				FromStatus:  fromStatus,
				ToStatus:    input.Status,
				ChangedAt:   time.Now().UTC(),
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return &LiveOrderView{LiveOrder: liveOrder, Status: liveOrder.ProjectedStatus()}, nil
}

func (s *service) GetLiveOrder(ctx context.Context, liveOrderID uuid.UUID) (*LiveOrderView, error) {
	liveOrder, err := s.repo.FindLiveOrder(ctx, liveOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "live order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find live order")
	}
	return &LiveOrderView{LiveOrder: liveOrder, Status: liveOrder.ProjectedStatus()}, nil
}

func (s *service) ListLiveOrders(ctx context.Context, streamID uuid.UUID) ([]LiveOrderView, error) {
	liveOrders, err := s.repo.ListLiveOrdersByStream(ctx, streamID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list live orders")
	}
	views := make([]LiveOrderView, 0, len(liveOrders))
	for i := range liveOrders {
		views = append(views, LiveOrderView{
			LiveOrder: &liveOrders[i],
			Status:    liveOrders[i].ProjectedStatus(),
		})
	}
	return views, nil
}

func newLiveOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:10]
	return fmt.Sprintf("LIVE-%s", suffix)
}
