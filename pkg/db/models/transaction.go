package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/warungkita/warung-pos-backend/pkg/enums"
)

// Transaction is the persisted sale header. It is written once, with
// payment_status already completed, inside the same database transaction as its
// items and the stock decrements.
type Transaction struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID           uuid.UUID           `gorm:"column:store_id;type:uuid;not null;index"`
	CashierID         uuid.UUID           `gorm:"column:cashier_id;type:uuid;not null"`
	TransactionNumber string              `gorm:"column:transaction_number;not null;uniqueIndex"`
	TotalAmount       int64               `gorm:"column:total_amount;not null"`
	TaxAmount         int64               `gorm:"column:tax_amount;not null;default:0"`
	DiscountAmount    int64               `gorm:"column:discount_amount;not null;default:0"`
	PaymentMethod     enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	PaymentStatus     enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'completed'"`
	Notes             *string             `gorm:"column:notes"`
	Items             []TransactionItem   `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
}
