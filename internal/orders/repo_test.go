package orders

import (
	"context"
	"testing"
	"time"

	"github.com/dimasprakoso/lokalive-backend/pkg/db/models"
	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
	"github.com/dimasprakoso/lokalive-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  user_id TEXT NOT NULL,
  customer_name TEXT NOT NULL,
  customer_phone TEXT,
  total_amount TEXT NOT NULL,
  shipping_address TEXT NOT NULL,
  payment_method TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'Menunggu Pembayaran',
  shipping_status TEXT NOT NULL DEFAULT 'processing',
  shipping_courier TEXT,
  tracking_number TEXT,
  push_token TEXT,
  delivered_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price TEXT NOT NULL,
  subtotal TEXT NOT NULL,
  created_at DATETIME
);`
	paymentProofs := `
CREATE TABLE IF NOT EXISTS payment_proofs (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL UNIQUE,
  file_url TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  verified_by TEXT,
  verified_at DATETIME,
  rejection_notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	shipments := `
CREATE TABLE IF NOT EXISTS shipments (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  address_line TEXT NOT NULL,
  city TEXT NOT NULL,
  postal_code TEXT,
  courier TEXT NOT NULL,
  courier_service TEXT,
  tracking_number TEXT,
  total_weight TEXT NOT NULL DEFAULT '0',
  status TEXT NOT NULL DEFAULT 'processing',
  shipped_at DATETIME,
  delivered_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	complaints := `
CREATE TABLE IF NOT EXISTS complaints (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  subject TEXT NOT NULL,
  description TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'Pending',
  handled_by TEXT,
  resolution_notes TEXT,
  resolved_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderItems).Error)
	require.NoError(t, db.Exec(paymentProofs).Error)
	require.NoError(t, db.Exec(shipments).Error)
	require.NoError(t, db.Exec(complaints).Error)

	// The shared in-memory database survives across tests in this package.
	for _, table := range []string{"orders", "order_items", "payment_proofs", "shipments", "complaints"} {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}
	return db
}

func createOrder(t *testing.T, db *gorm.DB, number, customer string, created time.Time, qty int, status enums.OrderStatus, shipping enums.OrderShippingStatus) *models.Order {
	t.Helper()

	total := decimal.NewFromInt(int64(qty) * 15000)
	order := &models.Order{
		ID:              uuid.New(),
		OrderNumber:     number,
		UserID:          uuid.New(),
		CustomerName:    customer,
		TotalAmount:     total,
		ShippingAddress: "Jl. Sudirman No. 1, Jakarta",
		PaymentMethod:   "transfer_bank",
		Status:          status,
		ShippingStatus:  shipping,
		CreatedAt:       created,
		UpdatedAt:       created,
	}
	require.NoError(t, db.Create(order).Error)

	item := &models.OrderItem{
		ID:          uuid.New(),
		OrderID:     order.ID,
		ProductID:   uuid.New(),
		ProductName: "Kaos Polos",
		Quantity:    qty,
		UnitPrice:   decimal.NewFromInt(15000),
		Subtotal:    total,
		CreatedAt:   created,
	}
	require.NoError(t, db.Create(item).Error)
	return order
}

func TestRepositoryListOrders_pagination(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	createOrder(t, db, "ORD-001", "Budi Santoso", now.Add(-time.Hour), 2, enums.OrderStatusProcessing, enums.OrderShippingStatusProcessing)
	createOrder(t, db, "ORD-002", "Siti Rahma", now, 3, enums.OrderStatusAwaitingPayment, enums.OrderShippingStatusProcessing)

	list, err := repo.ListOrders(context.Background(), pagination.Params{Limit: 1}, Filters{})
	require.NoError(t, err)
	require.Len(t, list.Orders, 1)
	assert.NotEmpty(t, list.NextCursor)
	assert.Equal(t, "ORD-002", list.Orders[0].OrderNumber)
	assert.Equal(t, "Siti Rahma", list.Orders[0].CustomerName)
	assert.Equal(t, 3, list.Orders[0].TotalItems)

	second, err := repo.ListOrders(context.Background(), pagination.Params{Limit: 1, Cursor: list.NextCursor}, Filters{})
	require.NoError(t, err)
	require.Len(t, second.Orders, 1)
	assert.Equal(t, "ORD-001", second.Orders[0].OrderNumber)
	assert.Equal(t, enums.OrderStatusProcessing, second.Orders[0].Status)
	assert.Empty(t, second.NextCursor)
}

func TestRepositoryListOrders_filtersAndSearch(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	createOrder(t, db, "ORD-100", "Dewi Lestari", now, 4, enums.OrderStatusShipped, enums.OrderShippingStatusInTransit)
	createOrder(t, db, "ORD-101", "Agus Wijaya", now.Add(-48*time.Hour), 1, enums.OrderStatusCompleted, enums.OrderShippingStatusDelivered)

	filters := Filters{
		Status:         ptr(enums.OrderStatusShipped),
		ShippingStatus: ptr(enums.OrderShippingStatusInTransit),
		DateFrom:       ptr(now.Add(-time.Hour)),
		Query:          "dewi",
	}
	list, err := repo.ListOrders(context.Background(), pagination.Params{Limit: 10}, filters)
	require.NoError(t, err)
	require.Len(t, list.Orders, 1)
	assert.Equal(t, "Dewi Lestari", list.Orders[0].CustomerName)
	assert.Equal(t, 4, list.Orders[0].TotalItems)
	assert.Empty(t, list.NextCursor)

	none, err := repo.ListOrders(context.Background(), pagination.Params{Limit: 10}, Filters{Query: "tidak ada"})
	require.NoError(t, err)
	assert.Empty(t, none.Orders)
}

func TestRepositoryFindOrder_preloadsAssociations(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	order := createOrder(t, db, "ORD-200", "Rina Hartati", now, 2, enums.OrderStatusAwaitingConfirmation, enums.OrderShippingStatusProcessing)

	proof := &models.PaymentProof{
		ID:      uuid.New(),
		OrderID: order.ID,
		FileURL: "https://cdn.example.com/proofs/ord-200.jpg",
		Status:  enums.PaymentStatusPending,
	}
	require.NoError(t, db.Create(proof).Error)

	found, err := repo.FindOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	require.NotNil(t, found.PaymentProof)
	assert.Equal(t, enums.PaymentStatusPending, found.PaymentProof.Status)

	byNumber, err := repo.FindOrderByNumber(context.Background(), "ORD-200")
	require.NoError(t, err)
	assert.Equal(t, order.ID, byNumber.ID)

	_, err = repo.FindOrder(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryUpdateAndDeleteOrder(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	order := createOrder(t, db, "ORD-300", "Hendra Gunawan", now, 1, enums.OrderStatusProcessing, enums.OrderShippingStatusProcessing)

	err := repo.UpdateOrder(context.Background(), order.ID, map[string]any{"status": enums.OrderStatusShipped})
	require.NoError(t, err)

	updated, err := repo.FindOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, updated.Status)

	err = repo.UpdateOrder(context.Background(), uuid.New(), map[string]any{"status": enums.OrderStatusShipped})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.DeleteOrder(context.Background(), order.ID))
	assert.ErrorIs(t, repo.DeleteOrder(context.Background(), order.ID), gorm.ErrRecordNotFound)
}

func ptr[T any](v T) *T {
	return &v
}
