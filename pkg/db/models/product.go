package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category groups products. Deletion is blocked while products reference it.
type Category struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"column:name;type:text;not null;uniqueIndex" json:"name"`
	Description *string   `gorm:"column:description;type:text" json:"description,omitempty"`
	IconURL     *string   `gorm:"column:icon_url;type:text" json:"icon_url,omitempty"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// Product holds catalog and inventory data. Deletion is blocked while order
// items reference it.
type Product struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CategoryID  uuid.UUID       `gorm:"column:category_id;type:uuid;not null;index" json:"category_id"`
	Name        string          `gorm:"column:name;type:text;not null" json:"name"`
	Description *string         `gorm:"column:description;type:text" json:"description,omitempty"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(20,2);not null" json:"price"`
	Stock       int             `gorm:"column:stock;not null;default:0" json:"stock"`
	ImageURL    *string         `gorm:"column:image_url;type:text" json:"image_url,omitempty"`
	IsActive    bool            `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
