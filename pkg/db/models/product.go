package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is one catalog entry scoped to a store. Prices are integer rupiah.
// StockQuantity is only ever lowered through the conditional decrement in the
// checkout flow, so it cannot go negative.
type Product struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID       uuid.UUID `gorm:"column:store_id;type:uuid;not null;index"`
	Name          string    `gorm:"column:name;not null"`
	Description   *string   `gorm:"column:description"`
	Price         int64     `gorm:"column:price;not null"`
	Cost          int64     `gorm:"column:cost;not null;default:0"`
	StockQuantity int       `gorm:"column:stock_quantity;not null;default:0"`
	MinStockLevel int       `gorm:"column:min_stock_level;not null;default:0"`
	Category      string    `gorm:"column:category;not null"`
	Unit          string    `gorm:"column:unit;not null"`
	IsActive      bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
