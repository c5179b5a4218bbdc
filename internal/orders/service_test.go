package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dimasprakoso/lokalive-backend/pkg/db/models"
	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
	pkgerrors "github.com/dimasprakoso/lokalive-backend/pkg/errors"
	"github.com/dimasprakoso/lokalive-backend/pkg/outbox"
	"github.com/dimasprakoso/lokalive-backend/pkg/pagination"
	"github.com/dimasprakoso/lokalive-backend/pkg/push"
)

type stubOrdersRepo struct {
	order   *models.Order
	updates map[string]any
	deleted bool
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubOrdersRepo) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if s.order == nil || s.order.ID != orderID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.order, nil
}

func (s *stubOrdersRepo) FindOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	panic("not implemented")
}

func (s *stubOrdersRepo) ListOrders(ctx context.Context, params pagination.Params, filters Filters) (*OrderList, error) {
	panic("not implemented")
}

func (s *stubOrdersRepo) UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	if s.order == nil || s.order.ID != orderID {
		return gorm.ErrRecordNotFound
	}
	s.updates = updates
	return nil
}

func (s *stubOrdersRepo) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	if s.order == nil || s.order.ID != orderID {
		return gorm.ErrRecordNotFound
	}
	s.deleted = true
	return nil
}

type stubOutboxPublisher struct {
	events []outbox.DomainEvent
	err    error
}

func (s *stubOutboxPublisher) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

type stubPushSender struct {
	sent []push.Notification
	err  error
}

func (s *stubPushSender) Send(ctx context.Context, notification push.Notification) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, notification)
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestOrder(status enums.OrderStatus) *models.Order {
	return &models.Order{
		ID:           uuid.New(),
		OrderNumber:  "ORD-2026-0001",
		UserID:       uuid.New(),
		CustomerName: "Siti Rahma",
		TotalAmount:  decimal.NewFromInt(150000),
		Status:       status,
	}
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	var appErr *pkgerrors.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *pkgerrors.Error, got %T: %v", err, err)
	}
	if appErr.Code() != code {
		t.Fatalf("expected code %s, got %s", code, appErr.Code())
	}
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	repo := &stubOrdersRepo{order: newTestOrder(enums.OrderStatusAwaitingPayment)}
	pub := &stubOutboxPublisher{}
	svc, err := NewService(repo, stubTxRunner{}, pub, nil, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.UpdateStatus(context.Background(), UpdateStatusInput{
		OrderID: repo.order.ID,
		Status:  enums.OrderStatus("Terkirim"),
	})
	assertCode(t, err, pkgerrors.CodeValidation)
	if repo.updates != nil {
		t.Fatalf("expected no repo update, got %v", repo.updates)
	}
	if len(pub.events) != 0 {
		t.Fatalf("expected no events, got %d", len(pub.events))
	}
}

func TestUpdateStatusOverwritesAnyTransition(t *testing.T) {
	repo := &stubOrdersRepo{order: newTestOrder(enums.OrderStatusAwaitingPayment)}
	pub := &stubOutboxPublisher{}
	svc, _ := NewService(repo, stubTxRunner{}, pub, nil, nil)

	adminID := uuid.New()
	order, err := svc.UpdateStatus(context.Background(), UpdateStatusInput{
		OrderID: repo.order.ID,
		Status:  enums.OrderStatusCompleted,
		ActorInput: ActorInput{
			ActorAdminID: adminID,
			ActorRole:    enums.AdminRoleSuperAdmin,
		},
	})
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if order.Status != enums.OrderStatusCompleted {
		t.Fatalf("expected status %s, got %s", enums.OrderStatusCompleted, order.Status)
	}
	if _, ok := repo.updates["delivered_at"]; !ok {
		t.Fatal("expected delivered_at stamp when jumping to completed")
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(pub.events))
	}
	event := pub.events[0]
	if event.EventType != enums.EventOrderStatusChanged {
		t.Fatalf("expected %s, got %s", enums.EventOrderStatusChanged, event.EventType)
	}
	if event.Actor == nil || event.Actor.AdminID != adminID {
		t.Fatal("expected actor on event")
	}
}

func TestUpdateStatusCanceledEmitsCancellation(t *testing.T) {
	repo := &stubOrdersRepo{order: newTestOrder(enums.OrderStatusAwaitingConfirmation)}
	pub := &stubOutboxPublisher{}
	svc, _ := NewService(repo, stubTxRunner{}, pub, nil, nil)

	_, err := svc.UpdateStatus(context.Background(), UpdateStatusInput{
		OrderID: repo.order.ID,
		Status:  enums.OrderStatusCanceled,
		Reason:  "buyer request",
	})
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if len(pub.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(pub.events))
	}
	if pub.events[1].EventType != enums.EventOrderCanceled {
		t.Fatalf("expected %s, got %s", enums.EventOrderCanceled, pub.events[1].EventType)
	}
}

func TestUpdateStatusNoopWhenUnchanged(t *testing.T) {
	repo := &stubOrdersRepo{order: newTestOrder(enums.OrderStatusProcessing)}
	pub := &stubOutboxPublisher{}
	svc, _ := NewService(repo, stubTxRunner{}, pub, nil, nil)

	_, err := svc.UpdateStatus(context.Background(), UpdateStatusInput{
		OrderID: repo.order.ID,
		Status:  enums.OrderStatusProcessing,
	})
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if len(pub.events) != 0 {
		t.Fatalf("expected no events for unchanged status, got %d", len(pub.events))
	}
}

func TestCompleteBlockedByPendingComplaint(t *testing.T) {
	order := newTestOrder(enums.OrderStatusShipped)
	order.Complaints = []models.Complaint{{Status: enums.ComplaintStatusPending}}
	repo := &stubOrdersRepo{order: order}
	pub := &stubOutboxPublisher{}
	svc, _ := NewService(repo, stubTxRunner{}, pub, nil, nil)

	_, err := svc.Complete(context.Background(), CompleteInput{OrderID: order.ID})
	assertCode(t, err, pkgerrors.CodeValidation)
	if repo.updates != nil {
		t.Fatal("expected no update when completion is blocked")
	}
	if order.Status != enums.OrderStatusShipped {
		t.Fatalf("expected status unchanged, got %s", order.Status)
	}
}

func TestCompleteHappyPathSendsPush(t *testing.T) {
	order := newTestOrder(enums.OrderStatusShipped)
	token := "expo-token-123"
	order.PushToken = &token
	order.Complaints = []models.Complaint{{Status: enums.ComplaintStatusResolved}}
	repo := &stubOrdersRepo{order: order}
	pub := &stubOutboxPublisher{}
	sender := &stubPushSender{}
	svc, _ := NewService(repo, stubTxRunner{}, pub, sender, nil)

	updated, err := svc.Complete(context.Background(), CompleteInput{OrderID: order.ID})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if updated.Status != enums.OrderStatusCompleted {
		t.Fatalf("expected %s, got %s", enums.OrderStatusCompleted, updated.Status)
	}
	if updated.DeliveredAt == nil {
		t.Fatal("expected delivered_at stamped")
	}
	if len(pub.events) != 1 || pub.events[0].EventType != enums.EventOrderCompleted {
		t.Fatalf("expected single order_completed event, got %v", pub.events)
	}
	if len(sender.sent) != 1 || sender.sent[0].Token != token {
		t.Fatalf("expected one push to %s, got %v", token, sender.sent)
	}
}

func TestCompletePushFailureIsNonFatal(t *testing.T) {
	order := newTestOrder(enums.OrderStatusShipped)
	token := "expo-token-123"
	order.PushToken = &token
	repo := &stubOrdersRepo{order: order}
	sender := &stubPushSender{err: errors.New("gateway down")}
	svc, _ := NewService(repo, stubTxRunner{}, &stubOutboxPublisher{}, sender, nil)

	if _, err := svc.Complete(context.Background(), CompleteInput{OrderID: order.ID}); err != nil {
		t.Fatalf("expected push failure to be swallowed, got %v", err)
	}
}

func TestUpdateShippingStatusDelivered(t *testing.T) {
	order := newTestOrder(enums.OrderStatusShipped)
	order.ShippingStatus = enums.OrderShippingStatusInTransit
	token := "expo-token-456"
	order.PushToken = &token
	repo := &stubOrdersRepo{order: order}
	pub := &stubOutboxPublisher{}
	sender := &stubPushSender{}
	svc, _ := NewService(repo, stubTxRunner{}, pub, sender, nil)

	updated, err := svc.UpdateShippingStatus(context.Background(), UpdateShippingStatusInput{
		OrderID: order.ID,
		Status:  enums.OrderShippingStatusDelivered,
	})
	if err != nil {
		t.Fatalf("UpdateShippingStatus: %v", err)
	}
	if updated.ShippingStatus != enums.OrderShippingStatusDelivered {
		t.Fatalf("expected delivered, got %s", updated.ShippingStatus)
	}
	if updated.DeliveredAt == nil {
		t.Fatal("expected delivered_at stamped")
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(pub.events))
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 push, got %d", len(sender.sent))
	}
}

func TestUpdateShippingStatusRejectsUnknownValue(t *testing.T) {
	repo := &stubOrdersRepo{order: newTestOrder(enums.OrderStatusShipped)}
	svc, _ := NewService(repo, stubTxRunner{}, &stubOutboxPublisher{}, nil, nil)

	_, err := svc.UpdateShippingStatus(context.Background(), UpdateShippingStatusInput{
		OrderID: repo.order.ID,
		Status:  enums.OrderShippingStatus("shipped"),
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestDeleteMissingOrder(t *testing.T) {
	repo := &stubOrdersRepo{}
	svc, _ := NewService(repo, stubTxRunner{}, &stubOutboxPublisher{}, nil, nil)

	err := svc.Delete(context.Background(), DeleteInput{OrderID: uuid.New()})
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestUpdateShippingInfoRequiresFields(t *testing.T) {
	repo := &stubOrdersRepo{order: newTestOrder(enums.OrderStatusProcessing)}
	svc, _ := NewService(repo, stubTxRunner{}, &stubOutboxPublisher{}, nil, nil)

	_, err := svc.UpdateShippingInfo(context.Background(), UpdateShippingInfoInput{OrderID: repo.order.ID})
	assertCode(t, err, pkgerrors.CodeValidation)
}
