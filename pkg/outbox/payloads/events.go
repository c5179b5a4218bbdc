package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
)

// OrderStatusChangedEvent is emitted for every order lifecycle edit.
type OrderStatusChangedEvent struct {
	OrderID     uuid.UUID         `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	FromStatus  enums.OrderStatus `json:"from_status"`
	ToStatus    enums.OrderStatus `json:"to_status"`
	ChangedAt   time.Time         `json:"changed_at"`
}

// OrderShippingStatusChangedEvent mirrors the coarse shipping indicator edits.
type OrderShippingStatusChangedEvent struct {
	OrderID     uuid.UUID                 `json:"order_id"`
	OrderNumber string                    `json:"order_number"`
	FromStatus  enums.OrderShippingStatus `json:"from_status"`
	ToStatus    enums.OrderShippingStatus `json:"to_status"`
	PushToken   string                    `json:"push_token,omitempty"`
}

// OrderCompletedEvent is emitted once when an order reaches its terminal success state.
type OrderCompletedEvent struct {
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	DeliveredAt *time.Time      `json:"delivered_at,omitempty"`
	CompletedAt time.Time       `json:"completed_at"`
}

// OrderCanceledEvent is emitted when an awaiting order is canceled.
type OrderCanceledEvent struct {
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Reason      string    `json:"reason,omitempty"`
	CanceledAt  time.Time `json:"canceled_at"`
}

// ShipmentStatusChangedEvent follows courier progress including the order projection result.
type ShipmentStatusChangedEvent struct {
	ShipmentID          uuid.UUID                 `json:"shipment_id"`
	OrderID             uuid.UUID                 `json:"order_id"`
	TrackingNumber      string                    `json:"tracking_number,omitempty"`
	FromStatus          enums.ShipmentStatus      `json:"from_status"`
	ToStatus            enums.ShipmentStatus      `json:"to_status"`
	OrderShippingStatus enums.OrderShippingStatus `json:"order_shipping_status"`
}

// PaymentDecisionEvent covers manual verification and rejection of payment records.
type PaymentDecisionEvent struct {
	PaymentID  uuid.UUID           `json:"payment_id"`
	OrderID    uuid.UUID           `json:"order_id"`
	Status     enums.PaymentStatus `json:"status"`
	VerifiedBy uuid.UUID           `json:"verified_by"`
	Notes      string              `json:"notes,omitempty"`
	DecidedAt  time.Time           `json:"decided_at"`
}

// PaymentProofDecisionEvent is emitted when an admin verifies or rejects an uploaded proof.
type PaymentProofDecisionEvent struct {
	ProofID     uuid.UUID           `json:"proof_id"`
	OrderID     uuid.UUID           `json:"order_id"`
	OrderNumber string              `json:"order_number"`
	Status      enums.PaymentStatus `json:"status"`
	VerifiedBy  uuid.UUID           `json:"verified_by"`
	Notes       string              `json:"notes,omitempty"`
	DecidedAt   time.Time           `json:"decided_at"`
}

// ComplaintStatusChangedEvent follows the complaint workflow transitions.
type ComplaintStatusChangedEvent struct {
	ComplaintID     uuid.UUID             `json:"complaint_id"`
	OrderID         uuid.UUID             `json:"order_id"`
	FromStatus      enums.ComplaintStatus `json:"from_status"`
	ToStatus        enums.ComplaintStatus `json:"to_status"`
	HandledBy       *uuid.UUID            `json:"handled_by,omitempty"`
	ResolutionNotes string                `json:"resolution_notes,omitempty"`
}

// LiveStreamLifecycleEvent covers both stream start and end.
type LiveStreamLifecycleEvent struct {
	StreamID        uuid.UUID              `json:"stream_id"`
	RoomID          string                 `json:"room_id"`
	HostAdminID     uuid.UUID              `json:"host_admin_id"`
	Status          enums.LiveStreamStatus `json:"status"`
	StartedAt       *time.Time             `json:"started_at,omitempty"`
	EndedAt         *time.Time             `json:"ended_at,omitempty"`
	PeakViewerCount int                    `json:"peak_viewer_count,omitempty"`
}

// LiveOrderCreatedEvent announces an order placed during a stream.
type LiveOrderCreatedEvent struct {
	LiveOrderID uuid.UUID       `json:"live_order_id"`
	StreamID    uuid.UUID       `json:"stream_id"`
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	BuyerName   string          `json:"buyer_name"`
	VoucherID   *uuid.UUID      `json:"voucher_id,omitempty"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
}

// LiveOrderConfirmedEvent is emitted when the host confirms a live order.
type LiveOrderConfirmedEvent struct {
	LiveOrderID uuid.UUID `json:"live_order_id"`
	StreamID    uuid.UUID `json:"stream_id"`
	OrderID     uuid.UUID `json:"order_id"`
	ConfirmedBy uuid.UUID `json:"confirmed_by"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

// LiveCommentPostedEvent fans comments out to viewers.
type LiveCommentPostedEvent struct {
	CommentID  uuid.UUID `json:"comment_id"`
	StreamID   uuid.UUID `json:"stream_id"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	PostedAt   time.Time `json:"posted_at"`
}

// AdminStatusToggledEvent records activation flips on admin accounts.
type AdminStatusToggledEvent struct {
	AdminID   uuid.UUID `json:"admin_id"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	ToggledBy uuid.UUID `json:"toggled_by"`
}

// AdminMutatedEvent records create/update/delete mutations on admin accounts.
type AdminMutatedEvent struct {
	AdminID   uuid.UUID       `json:"admin_id"`
	Email     string          `json:"email"`
	Action    string          `json:"action"`
	Role      enums.AdminRole `json:"role,omitempty"`
	MutatedBy uuid.UUID       `json:"mutated_by"`
}
