package live

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dimasprakoso/lokalive-backend/pkg/config"
	"github.com/dimasprakoso/lokalive-backend/pkg/db/models"
	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
	pkgerrors "github.com/dimasprakoso/lokalive-backend/pkg/errors"
	"github.com/dimasprakoso/lokalive-backend/pkg/outbox"
	"github.com/dimasprakoso/lokalive-backend/pkg/pagination"
)

type stubLiveRepo struct {
	stream        *models.LiveStream
	voucher       *models.LiveVoucher
	liveOrder     *models.LiveOrder
	voucherRefs    int64
	voucherUpdates map[string]any
	streamUpdates  map[string]any
	orderUpdates  map[string]any
	createdOrder  *models.Order
	createdLive   *models.LiveOrder
	comment       *models.LiveComment
	voucherGone   bool
}

func (s *stubLiveRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubLiveRepo) CreateStream(ctx context.Context, stream *models.LiveStream) (*models.LiveStream, error) {
	stream.ID = uuid.New()
	s.stream = stream
	return stream, nil
}

func (s *stubLiveRepo) FindStream(ctx context.Context, streamID uuid.UUID) (*models.LiveStream, error) {
	if s.stream == nil || s.stream.ID != streamID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.stream, nil
}

func (s *stubLiveRepo) ListStreams(ctx context.Context, params pagination.Params, filters StreamFilters) (*StreamList, error) {
	panic("not implemented")
}

func (s *stubLiveRepo) UpdateStream(ctx context.Context, streamID uuid.UUID, updates map[string]any) error {
	if s.stream == nil || s.stream.ID != streamID {
		return gorm.ErrRecordNotFound
	}
	s.streamUpdates = updates
	return nil
}

func (s *stubLiveRepo) CreatePin(ctx context.Context, pin *models.LiveStreamProduct) error { return nil }

func (s *stubLiveRepo) DeletePin(ctx context.Context, streamID, productID uuid.UUID) error {
	return nil
}

func (s *stubLiveRepo) ListPins(ctx context.Context, streamID uuid.UUID) ([]models.LiveStreamProduct, error) {
	panic("not implemented")
}

func (s *stubLiveRepo) CreateVoucher(ctx context.Context, voucher *models.LiveVoucher) (*models.LiveVoucher, error) {
	voucher.ID = uuid.New()
	s.voucher = voucher
	return voucher, nil
}

func (s *stubLiveRepo) FindVoucher(ctx context.Context, voucherID uuid.UUID) (*models.LiveVoucher, error) {
	if s.voucher == nil || s.voucher.ID != voucherID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.voucher, nil
}

func (s *stubLiveRepo) FindVoucherByCode(ctx context.Context, streamID uuid.UUID, code string) (*models.LiveVoucher, error) {
	if s.voucher == nil || s.voucher.Code != code {
		return nil, gorm.ErrRecordNotFound
	}
	return s.voucher, nil
}

func (s *stubLiveRepo) ListVouchersByStream(ctx context.Context, streamID uuid.UUID) ([]models.LiveVoucher, error) {
	panic("not implemented")
}

func (s *stubLiveRepo) UpdateVoucher(ctx context.Context, voucherID uuid.UUID, updates map[string]any) error {
	if s.voucher == nil || s.voucher.ID != voucherID {
		return gorm.ErrRecordNotFound
	}
	s.voucherUpdates = updates
	return nil
}

func (s *stubLiveRepo) DeleteVoucher(ctx context.Context, voucherID uuid.UUID) error {
	if s.voucher == nil || s.voucher.ID != voucherID {
		return gorm.ErrRecordNotFound
	}
	s.voucherGone = true
	return nil
}

func (s *stubLiveRepo) CountLiveOrdersByVoucher(ctx context.Context, voucherID uuid.UUID) (int64, error) {
	return s.voucherRefs, nil
}

func (s *stubLiveRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	order.ID = uuid.New()
	s.createdOrder = order
	return order, nil
}

func (s *stubLiveRepo) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	panic("not implemented")
}

func (s *stubLiveRepo) UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	s.orderUpdates = updates
	return nil
}

func (s *stubLiveRepo) CreateLiveOrder(ctx context.Context, liveOrder *models.LiveOrder) (*models.LiveOrder, error) {
	liveOrder.ID = uuid.New()
	s.createdLive = liveOrder
	return liveOrder, nil
}

func (s *stubLiveRepo) FindLiveOrder(ctx context.Context, liveOrderID uuid.UUID) (*models.LiveOrder, error) {
	if s.liveOrder == nil || s.liveOrder.ID != liveOrderID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.liveOrder, nil
}

func (s *stubLiveRepo) ListLiveOrdersByStream(ctx context.Context, streamID uuid.UUID) ([]models.LiveOrder, error) {
	panic("not implemented")
}

func (s *stubLiveRepo) LiveOrderTotals(ctx context.Context, streamID uuid.UUID) (*LiveOrderTotals, error) {
	return &LiveOrderTotals{
		OrderCount:    2,
		GrossRevenue:  decimal.NewFromInt(250000),
		TotalDiscount: decimal.NewFromInt(25000),
	}, nil
}

func (s *stubLiveRepo) CreateComment(ctx context.Context, comment *models.LiveComment) (*models.LiveComment, error) {
	comment.ID = uuid.New()
	s.comment = comment
	return comment, nil
}

func (s *stubLiveRepo) ListCommentsByStream(ctx context.Context, streamID uuid.UUID, params pagination.Params) ([]models.LiveComment, string, error) {
	panic("not implemented")
}

func (s *stubLiveRepo) CountCommentsByStream(ctx context.Context, streamID uuid.UUID) (int64, error) {
	return 12, nil
}

func (s *stubLiveRepo) CreateSnapshot(ctx context.Context, snapshot *models.LiveAnalyticsSnapshot) (*models.LiveAnalyticsSnapshot, error) {
	snapshot.ID = uuid.New()
	return snapshot, nil
}

func (s *stubLiveRepo) ListSnapshotsByStream(ctx context.Context, streamID uuid.UUID) ([]models.LiveAnalyticsSnapshot, error) {
	panic("not implemented")
}

func (s *stubLiveRepo) DeleteSnapshotsBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	panic("not implemented")
}

type stubViewerStore struct {
	count     int64
	resets    int
	setnxKeys map[string]bool
}

func (s *stubViewerStore) JoinStream(ctx context.Context, streamID string) (int64, error) {
	s.count++
	return s.count, nil
}

func (s *stubViewerStore) LeaveStream(ctx context.Context, streamID string) (int64, error) {
	if s.count > 0 {
		s.count--
	}
	return s.count, nil
}

func (s *stubViewerStore) StreamViewerCount(ctx context.Context, streamID string) (int64, error) {
	return s.count, nil
}

func (s *stubViewerStore) ResetStreamViewers(ctx context.Context, streamID string) error {
	s.count = 0
	s.resets++
	return nil
}

func (s *stubViewerStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if s.setnxKeys == nil {
		s.setnxKeys = map[string]bool{}
	}
	if s.setnxKeys[key] {
		return false, nil
	}
	s.setnxKeys[key] = true
	return true, nil
}

type stubOutboxPublisher struct {
	events []outbox.DomainEvent
}

func (s *stubOutboxPublisher) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func testVideoConfig() config.VideoConfig {
	return config.VideoConfig{
		TokenSecret:   "test-video-secret",
		TokenIssuer:   "lokalive",
		TokenValidity: time.Hour,
	}
}

func newLiveService(t *testing.T, repo *stubLiveRepo, viewers *stubViewerStore, pub *stubOutboxPublisher) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{}, pub, viewers, testVideoConfig(), nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func liveStreamFixture(status enums.LiveStreamStatus) *models.LiveStream {
	return &models.LiveStream{
		ID:          uuid.New(),
		Title:       "Flash Sale Malam",
		RoomID:      "live-" + uuid.NewString(),
		HostAdminID: uuid.New(),
		Status:      status,
	}
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	var appErr *pkgerrors.Error
	if !errors.As(err, &appErr) || appErr.Code() != code {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func TestStartStreamIssuesHostToken(t *testing.T) {
	repo := &stubLiveRepo{stream: liveStreamFixture(enums.LiveStreamStatusScheduled)}
	viewers := &stubViewerStore{count: 7}
	pub := &stubOutboxPublisher{}
	svc := newLiveService(t, repo, viewers, pub)

	session, err := svc.StartStream(context.Background(), StreamLifecycleInput{
		StreamID:   repo.stream.ID,
		ActorInput: ActorInput{ActorAdminID: repo.stream.HostAdminID},
	})
	if err != nil {
		t.Fatalf("StartStream: %v", err)
	}
	if session.Stream.Status != enums.LiveStreamStatusLive {
		t.Fatalf("expected live, got %s", session.Stream.Status)
	}
	if session.Stream.StartedAt == nil {
		t.Fatal("expected started_at stamped")
	}
	if session.RoomToken == "" {
		t.Fatal("expected host room token")
	}
	if viewers.resets != 1 || viewers.count != 0 {
		t.Fatal("expected viewer counter reset")
	}
	if len(pub.events) != 1 || pub.events[0].EventType != enums.EventLiveStreamStarted {
		t.Fatalf("expected stream started event, got %v", pub.events)
	}
}

func TestStartStreamRequiresScheduled(t *testing.T) {
	for _, status := range []enums.LiveStreamStatus{enums.LiveStreamStatusLive, enums.LiveStreamStatusEnded} {
		repo := &stubLiveRepo{stream: liveStreamFixture(status)}
		svc := newLiveService(t, repo, &stubViewerStore{}, &stubOutboxPublisher{})

		_, err := svc.StartStream(context.Background(), StreamLifecycleInput{StreamID: repo.stream.ID})
		assertCode(t, err, pkgerrors.CodeValidation)
	}
}

func TestEndStreamFoldsViewerPeak(t *testing.T) {
	stream := liveStreamFixture(enums.LiveStreamStatusLive)
	stream.PeakViewerCount = 3
	repo := &stubLiveRepo{stream: stream}
	viewers := &stubViewerStore{count: 9}
	pub := &stubOutboxPublisher{}
	svc := newLiveService(t, repo, viewers, pub)

	ended, err := svc.EndStream(context.Background(), StreamLifecycleInput{StreamID: stream.ID})
	if err != nil {
		t.Fatalf("EndStream: %v", err)
	}
	if ended.Status != enums.LiveStreamStatusEnded {
		t.Fatalf("expected ended, got %s", ended.Status)
	}
	if ended.PeakViewerCount != 9 {
		t.Fatalf("expected peak 9, got %d", ended.PeakViewerCount)
	}
	if len(pub.events) != 1 || pub.events[0].EventType != enums.EventLiveStreamEnded {
		t.Fatalf("expected stream ended event, got %v", pub.events)
	}
}

func TestCreateVoucherWindowValidation(t *testing.T) {
	repo := &stubLiveRepo{stream: liveStreamFixture(enums.LiveStreamStatusScheduled)}
	svc := newLiveService(t, repo, &stubViewerStore{}, &stubOutboxPublisher{})

	value := decimal.NewFromInt(10)
	start := time.Now()
	end := start.Add(-time.Hour)
	_, err := svc.CreateVoucher(context.Background(), VoucherInput{
		StreamID:  repo.stream.ID,
		Code:      "DISKON10",
		Type:      enums.VoucherTypePercentage,
		Value:     &value,
		StartTime: &start,
		EndTime:   &end,
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdateVoucherWindowChecksStoredBounds(t *testing.T) {
	start := time.Date(2026, 1, 10, 19, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	repo := &stubLiveRepo{
		voucher: &models.LiveVoucher{ID: uuid.New(), Code: "DISKON10", StartTime: start, EndTime: end},
	}
	svc := newLiveService(t, repo, &stubViewerStore{}, &stubOutboxPublisher{})

	// Moving start past the stored end must fail even when end is untouched.
	badStart := end.Add(time.Hour)
	_, err := svc.UpdateVoucher(context.Background(), repo.voucher.ID, VoucherInput{StartTime: &badStart})
	assertCode(t, err, pkgerrors.CodeValidation)
	if repo.voucherUpdates != nil {
		t.Fatal("expected no write on invalid window")
	}

	badEnd := start.Add(-time.Minute)
	_, err = svc.UpdateVoucher(context.Background(), repo.voucher.ID, VoucherInput{EndTime: &badEnd})
	assertCode(t, err, pkgerrors.CodeValidation)

	goodStart := start.Add(time.Hour)
	if _, err := svc.UpdateVoucher(context.Background(), repo.voucher.ID, VoucherInput{StartTime: &goodStart}); err != nil {
		t.Fatalf("UpdateVoucher: %v", err)
	}
	if repo.voucherUpdates["start_time"] != goodStart {
		t.Fatalf("expected start_time persisted, got %v", repo.voucherUpdates)
	}
}

func TestDeleteRedeemedVoucherBlocked(t *testing.T) {
	repo := &stubLiveRepo{
		voucher:     &models.LiveVoucher{ID: uuid.New(), Code: "DISKON10"},
		voucherRefs: 2,
	}
	svc := newLiveService(t, repo, &stubViewerStore{}, &stubOutboxPublisher{})

	err := svc.DeleteVoucher(context.Background(), repo.voucher.ID)
	assertCode(t, err, pkgerrors.CodeConflict)
	if repo.voucherGone {
		t.Fatal("expected voucher row untouched")
	}
}

func TestCreateLiveOrderAppliesVoucherDiscount(t *testing.T) {
	stream := liveStreamFixture(enums.LiveStreamStatusLive)
	now := time.Now().UTC()
	repo := &stubLiveRepo{
		stream: stream,
		voucher: &models.LiveVoucher{
			ID:           uuid.New(),
			LiveStreamID: stream.ID,
			Code:         "DISKON10",
			Type:         enums.VoucherTypePercentage,
			Value:        decimal.NewFromInt(10),
			StartTime:    now.Add(-time.Hour),
			EndTime:      now.Add(time.Hour),
			IsActive:     true,
		},
	}
	pub := &stubOutboxPublisher{}
	svc := newLiveService(t, repo, &stubViewerStore{}, pub)

	view, err := svc.CreateLiveOrder(context.Background(), CreateLiveOrderInput{
		StreamID:        stream.ID,
		BuyerName:       "Budi",
		BuyerPhone:      "+6281234567890",
		ShippingAddress: "Jl. Melati No. 2, Bandung",
		PaymentMethod:   "bank_transfer",
		VoucherCode:     "diskon10",
		Items: []LiveOrderItemInput{
			{ProductID: uuid.New(), Name: "Kaos Polos", Quantity: 2, UnitPrice: decimal.NewFromInt(50000)},
		},
	})
	if err != nil {
		t.Fatalf("CreateLiveOrder: %v", err)
	}
	if !view.LiveOrder.Subtotal.Equal(decimal.NewFromInt(100000)) {
		t.Fatalf("expected subtotal 100000, got %s", view.LiveOrder.Subtotal)
	}
	if !view.LiveOrder.Discount.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("expected discount 10000, got %s", view.LiveOrder.Discount)
	}
	if !view.LiveOrder.Total.Equal(decimal.NewFromInt(90000)) {
		t.Fatalf("expected total 90000, got %s", view.LiveOrder.Total)
	}
	if view.Status != enums.OrderStatusAwaitingPayment {
		t.Fatalf("expected projected status awaiting payment, got %s", view.Status)
	}
	if len(pub.events) != 1 || pub.events[0].EventType != enums.EventLiveOrderCreated {
		t.Fatalf("expected live order created event, got %v", pub.events)
	}
}

func TestCreateLiveOrderExpiredVoucher(t *testing.T) {
	stream := liveStreamFixture(enums.LiveStreamStatusLive)
	now := time.Now().UTC()
	repo := &stubLiveRepo{
		stream: stream,
		voucher: &models.LiveVoucher{
			ID:           uuid.New(),
			LiveStreamID: stream.ID,
			Code:         "DISKON10",
			Type:         enums.VoucherTypePercentage,
			Value:        decimal.NewFromInt(10),
			StartTime:    now.Add(-2 * time.Hour),
			EndTime:      now.Add(-time.Hour),
			IsActive:     true,
		},
	}
	svc := newLiveService(t, repo, &stubViewerStore{}, &stubOutboxPublisher{})

	_, err := svc.CreateLiveOrder(context.Background(), CreateLiveOrderInput{
		StreamID:    stream.ID,
		BuyerName:   "Budi",
		BuyerPhone:  "+6281234567890",
		VoucherCode: "DISKON10",
		Items: []LiveOrderItemInput{
			{ProductID: uuid.New(), Name: "Kaos Polos", Quantity: 1, UnitPrice: decimal.NewFromInt(50000)},
		},
	})
	assertCode(t, err, pkgerrors.CodeBusinessRule)
}

func TestCreateLiveOrderDuplicateIdempotencyKey(t *testing.T) {
	stream := liveStreamFixture(enums.LiveStreamStatusLive)
	repo := &stubLiveRepo{stream: stream}
	viewers := &stubViewerStore{}
	svc := newLiveService(t, repo, viewers, &stubOutboxPublisher{})

	input := CreateLiveOrderInput{
		StreamID:       stream.ID,
		BuyerName:      "Budi",
		BuyerPhone:     "+6281234567890",
		IdempotencyKey: "req-abc-123",
		Items: []LiveOrderItemInput{
			{ProductID: uuid.New(), Name: "Kaos Polos", Quantity: 1, UnitPrice: decimal.NewFromInt(50000)},
		},
	}
	if _, err := svc.CreateLiveOrder(context.Background(), input); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.CreateLiveOrder(context.Background(), input)
	assertCode(t, err, pkgerrors.CodeIdempotency)
}

func TestCreateLiveOrderStreamNotLive(t *testing.T) {
	repo := &stubLiveRepo{stream: liveStreamFixture(enums.LiveStreamStatusEnded)}
	svc := newLiveService(t, repo, &stubViewerStore{}, &stubOutboxPublisher{})

	_, err := svc.CreateLiveOrder(context.Background(), CreateLiveOrderInput{
		StreamID:   repo.stream.ID,
		BuyerName:  "Budi",
		BuyerPhone: "+6281234567890",
		Items: []LiveOrderItemInput{
			{ProductID: uuid.New(), Name: "Kaos Polos", Quantity: 1, UnitPrice: decimal.NewFromInt(50000)},
		},
	})
	assertCode(t, err, pkgerrors.CodeBusinessRule)
}

func TestConfirmLiveOrderForwardsToBackingOrder(t *testing.T) {
	stream := liveStreamFixture(enums.LiveStreamStatusLive)
	order := &models.Order{
		ID:          uuid.New(),
		OrderNumber: "LIVE-ABCDEF1234",
		Status:      enums.OrderStatusAwaitingConfirmation,
	}
	repo := &stubLiveRepo{
		stream: stream,
		liveOrder: &models.LiveOrder{
			ID:           uuid.New(),
			LiveStreamID: stream.ID,
			OrderID:      order.ID,
			Order:        order,
		},
	}
	pub := &stubOutboxPublisher{}
	svc := newLiveService(t, repo, &stubViewerStore{}, pub)

	view, err := svc.ConfirmLiveOrder(context.Background(), LiveOrderDecisionInput{
		LiveOrderID: repo.liveOrder.ID,
		ActorInput:  ActorInput{ActorAdminID: uuid.New()},
	})
	if err != nil {
		t.Fatalf("ConfirmLiveOrder: %v", err)
	}
	if view.Status != enums.OrderStatusProcessing {
		t.Fatalf("expected projected status %s, got %s", enums.OrderStatusProcessing, view.Status)
	}
	if repo.orderUpdates["status"] != enums.OrderStatusProcessing {
		t.Fatalf("expected backing order updated, got %v", repo.orderUpdates)
	}
	if len(pub.events) != 1 || pub.events[0].EventType != enums.EventLiveOrderConfirmed {
		t.Fatalf("expected confirm event, got %v", pub.events)
	}
}

func TestConfirmLiveOrderWrongState(t *testing.T) {
	order := &models.Order{ID: uuid.New(), Status: enums.OrderStatusProcessing}
	repo := &stubLiveRepo{
		liveOrder: &models.LiveOrder{ID: uuid.New(), OrderID: order.ID, Order: order},
	}
	svc := newLiveService(t, repo, &stubViewerStore{}, &stubOutboxPublisher{})

	_, err := svc.ConfirmLiveOrder(context.Background(), LiveOrderDecisionInput{
		LiveOrderID: repo.liveOrder.ID,
		ActorInput:  ActorInput{ActorAdminID: uuid.New()},
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestPostCommentEmitsEvent(t *testing.T) {
	repo := &stubLiveRepo{stream: liveStreamFixture(enums.LiveStreamStatusLive)}
	pub := &stubOutboxPublisher{}
	svc := newLiveService(t, repo, &stubViewerStore{}, pub)

	comment, err := svc.PostComment(context.Background(), CommentInput{
		StreamID:   repo.stream.ID,
		AuthorName: "Budi",
		Body:       "  gan, ready warna merah?  ",
	})
	if err != nil {
		t.Fatalf("PostComment: %v", err)
	}
	if comment.Body != "gan, ready warna merah?" {
		t.Fatalf("expected trimmed body, got %q", comment.Body)
	}
	if len(pub.events) != 1 || pub.events[0].EventType != enums.EventLiveCommentPosted {
		t.Fatalf("expected comment event, got %v", pub.events)
	}
}

func TestPostCommentStreamNotLive(t *testing.T) {
	repo := &stubLiveRepo{stream: liveStreamFixture(enums.LiveStreamStatusEnded)}
	svc := newLiveService(t, repo, &stubViewerStore{}, &stubOutboxPublisher{})

	_, err := svc.PostComment(context.Background(), CommentInput{
		StreamID:   repo.stream.ID,
		AuthorName: "Budi",
		Body:       "halo",
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestRecordSnapshotAggregates(t *testing.T) {
	repo := &stubLiveRepo{stream: liveStreamFixture(enums.LiveStreamStatusLive)}
	viewers := &stubViewerStore{count: 42}
	svc := newLiveService(t, repo, viewers, &stubOutboxPublisher{})

	snapshot, err := svc.RecordSnapshot(context.Background(), repo.stream.ID)
	if err != nil {
		t.Fatalf("RecordSnapshot: %v", err)
	}
	if snapshot.ViewerCount != 42 || snapshot.CommentCount != 12 || snapshot.OrderCount != 2 {
		t.Fatalf("unexpected counters: %+v", snapshot)
	}
	if !snapshot.GrossRevenue.Equal(decimal.NewFromInt(250000)) {
		t.Fatalf("expected gross 250000, got %s", snapshot.GrossRevenue)
	}
}

func TestIssueViewerTokenJoinsCounter(t *testing.T) {
	stream := liveStreamFixture(enums.LiveStreamStatusLive)
	repo := &stubLiveRepo{stream: stream}
	viewers := &stubViewerStore{count: 4}
	svc := newLiveService(t, repo, viewers, &stubOutboxPublisher{})

	session, err := svc.IssueViewerToken(context.Background(), ViewerTokenInput{
		StreamID: stream.ID,
		Identity: "viewer-88",
	})
	if err != nil {
		t.Fatalf("IssueViewerToken: %v", err)
	}
	if session.ViewerCount != 5 {
		t.Fatalf("expected viewer count 5, got %d", session.ViewerCount)
	}
	if session.RoomToken == "" {
		t.Fatal("expected room token")
	}
	if repo.streamUpdates["peak_viewer_count"] == nil {
		t.Fatal("expected peak viewer count bumped")
	}
}
