package models

import (
	"github.com/google/uuid"
)

// TransactionItem is one sold line. Immutable once created.
type TransactionItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TransactionID  uuid.UUID `gorm:"column:transaction_id;type:uuid;not null;index"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Quantity       int       `gorm:"column:quantity;not null"`
	UnitPrice      int64     `gorm:"column:unit_price;not null"`
	TotalPrice     int64     `gorm:"column:total_price;not null"`
	DiscountAmount int64     `gorm:"column:discount_amount;not null;default:0"`
}
