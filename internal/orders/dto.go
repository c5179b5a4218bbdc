package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
)

// Filters describe the inputs supported by the admin orders list.
type Filters struct {
	Status         *enums.OrderStatus
	ShippingStatus *enums.OrderShippingStatus
	DateFrom       *time.Time
	DateTo         *time.Time
	Query          string
}

// OrderSummary exposes the aggregated fields returned in the list.
type OrderSummary struct {
	ID             uuid.UUID                 `json:"id"`
	OrderNumber    string                    `json:"order_number"`
	CustomerName   string                    `json:"customer_name"`
	TotalAmount    decimal.Decimal           `json:"total_amount"`
	Status         enums.OrderStatus         `json:"status"`
	ShippingStatus enums.OrderShippingStatus `json:"shipping_status"`
	TotalItems     int                       `json:"total_items"`
	CreatedAt      time.Time                 `json:"created_at"`
}

// OrderList wraps the paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderSummary `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// ActorInput identifies the admin performing a mutation, for audit events.
type ActorInput struct {
	ActorAdminID   uuid.UUID
	ActorRole      enums.AdminRole
	ActorIP        string
	ActorUserAgent string
}

// UpdateStatusInput carries an order lifecycle overwrite request.
type UpdateStatusInput struct {
	OrderID uuid.UUID
	Status  enums.OrderStatus
	Reason  string
	ActorInput
}

// UpdateShippingStatusInput carries a coarse shipping indicator change.
type UpdateShippingStatusInput struct {
	OrderID uuid.UUID
	Status  enums.OrderShippingStatus
	ActorInput
}

// UpdateShippingInfoInput updates courier metadata on the order.
type UpdateShippingInfoInput struct {
	OrderID         uuid.UUID
	ShippingCourier *string
	TrackingNumber  *string
	ActorInput
}

// CompleteInput marks an order delivered and settled.
type CompleteInput struct {
	OrderID uuid.UUID
	ActorInput
}

// DeleteInput removes an order and its dependent rows.
type DeleteInput struct {
	OrderID uuid.UUID
	ActorInput
}
