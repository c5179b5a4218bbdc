package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
)

// Shipment is the logistics record for one order's physical delivery, with an
// address snapshot taken at creation and its own four-stage status machine.
// Every status transition is projected back onto the owning order.
type Shipment struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID        uuid.UUID            `gorm:"column:order_id;type:uuid;not null;index" json:"order_id"`
	AddressLine    string               `gorm:"column:address_line;type:text;not null" json:"address_line"`
	City           string               `gorm:"column:city;type:text;not null" json:"city"`
	PostalCode     *string              `gorm:"column:postal_code;type:text" json:"postal_code,omitempty"`
	Courier        string               `gorm:"column:courier;type:text;not null" json:"courier"`
	CourierService *string              `gorm:"column:courier_service;type:text" json:"courier_service,omitempty"`
	TrackingNumber *string              `gorm:"column:tracking_number;type:text" json:"tracking_number,omitempty"`
	TotalWeight    decimal.Decimal      `gorm:"column:total_weight;type:decimal(10,2);not null;default:0" json:"total_weight"`
	Status         enums.ShipmentStatus `gorm:"column:status;type:text;not null;default:'processing'" json:"status"`
	ShippedAt      *time.Time           `gorm:"column:shipped_at;type:timestamptz" json:"shipped_at,omitempty"`
	DeliveredAt    *time.Time           `gorm:"column:delivered_at;type:timestamptz" json:"delivered_at,omitempty"`

	Items []ShipmentItem `gorm:"foreignKey:ShipmentID;constraint:OnDelete:CASCADE" json:"items,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// ShipmentItem is one packed line of a shipment.
type ShipmentItem struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ShipmentID uuid.UUID       `gorm:"column:shipment_id;type:uuid;not null;index" json:"shipment_id"`
	Name       string          `gorm:"column:name;type:text;not null" json:"name"`
	Quantity   int             `gorm:"column:quantity;not null" json:"quantity"`
	Weight     decimal.Decimal `gorm:"column:weight;type:decimal(10,2);not null;default:0" json:"weight"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
