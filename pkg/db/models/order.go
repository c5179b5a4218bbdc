package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
)

// Order is the aggregate root of a purchase. Status and ShippingStatus are
// independent state machines; ShippingStatus mirrors logistics progress while
// Status tracks the commercial lifecycle.
type Order struct {
	ID              uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber     string                    `gorm:"column:order_number;type:text;not null;uniqueIndex" json:"order_number"`
	UserID          uuid.UUID                 `gorm:"column:user_id;type:uuid;not null" json:"user_id"`
	CustomerName    string                    `gorm:"column:customer_name;type:text;not null" json:"customer_name"`
	CustomerPhone   *string                   `gorm:"column:customer_phone;type:text" json:"customer_phone,omitempty"`
	TotalAmount     decimal.Decimal           `gorm:"column:total_amount;type:decimal(20,2);not null" json:"total_amount"`
	ShippingAddress string                    `gorm:"column:shipping_address;type:text;not null" json:"shipping_address"`
	PaymentMethod   string                    `gorm:"column:payment_method;type:text;not null" json:"payment_method"`
	Status          enums.OrderStatus         `gorm:"column:status;type:text;not null;default:'Menunggu Pembayaran'" json:"status"`
	ShippingStatus  enums.OrderShippingStatus `gorm:"column:shipping_status;type:text;not null;default:'processing'" json:"shipping_status"`
	ShippingCourier *string                   `gorm:"column:shipping_courier;type:text" json:"shipping_courier,omitempty"`
	TrackingNumber  *string                   `gorm:"column:tracking_number;type:text" json:"tracking_number,omitempty"`
	PushToken       *string                   `gorm:"column:push_token;type:text" json:"-"`
	DeliveredAt     *time.Time                `gorm:"column:delivered_at;type:timestamptz" json:"delivered_at,omitempty"`

	Items        []OrderItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	PaymentProof *PaymentProof `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"payment_proof,omitempty"`
	Shipments    []Shipment    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"shipments,omitempty"`
	Complaints   []Complaint   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"complaints,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// CanBeCancelled reports whether the order still waits on payment or
// confirmation. Advisory only: UpdateStatus does not consult it.
func (o *Order) CanBeCancelled() bool {
	return o.Status.IsAwaiting()
}

// CanBeProcessed requires awaiting-confirmation state and a verified payment
// proof. The proof association must be loaded.
func (o *Order) CanBeProcessed() bool {
	if o.Status != enums.OrderStatusAwaitingConfirmation {
		return false
	}
	return o.PaymentProof != nil && o.PaymentProof.Status == enums.PaymentStatusVerified
}

// CanBeShipped requires processing state and at least one shipment that has
// not left the warehouse yet. The shipments association must be loaded.
func (o *Order) CanBeShipped() bool {
	if o.Status != enums.OrderStatusProcessing {
		return false
	}
	for _, shipment := range o.Shipments {
		if shipment.Status == enums.ShipmentStatusProcessing {
			return true
		}
	}
	return false
}

// CanBeCompleted requires shipped state and no complaint still pending. The
// complaints association must be loaded.
func (o *Order) CanBeCompleted() bool {
	if o.Status != enums.OrderStatusShipped {
		return false
	}
	for _, complaint := range o.Complaints {
		if complaint.Status == enums.ComplaintStatusPending {
			return false
		}
	}
	return true
}

// OrderItem is a line of an order with price snapshots taken at checkout.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID     uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index" json:"order_id"`
	ProductID   uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index" json:"product_id"`
	ProductName string          `gorm:"column:product_name;type:text;not null" json:"product_name"`
	Quantity    int             `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:decimal(20,2);not null" json:"unit_price"`
	Subtotal    decimal.Decimal `gorm:"column:subtotal;type:decimal(20,2);not null" json:"subtotal"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
