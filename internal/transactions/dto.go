package transactions

import (
	"time"

	"github.com/google/uuid"

	"github.com/warungkita/warung-pos-backend/pkg/db/models"
	"github.com/warungkita/warung-pos-backend/pkg/enums"
)

// TransactionDTO is the ledger payload returned to clients, items included.
type TransactionDTO struct {
	ID                uuid.UUID            `json:"id"`
	StoreID           uuid.UUID            `json:"store_id"`
	CashierID         uuid.UUID            `json:"cashier_id"`
	TransactionNumber string               `json:"transaction_number"`
	TotalAmount       int64                `json:"total_amount"`
	TaxAmount         int64                `json:"tax_amount"`
	DiscountAmount    int64                `json:"discount_amount"`
	PaymentMethod     enums.PaymentMethod  `json:"payment_method"`
	PaymentStatus     enums.PaymentStatus  `json:"payment_status"`
	Notes             *string              `json:"notes,omitempty"`
	Items             []TransactionItemDTO `json:"items"`
	CreatedAt         time.Time            `json:"created_at"`
}

// TransactionItemDTO is one sold line inside a ledger entry.
type TransactionItemDTO struct {
	ID             uuid.UUID `json:"id"`
	ProductID      uuid.UUID `json:"product_id"`
	Quantity       int       `json:"quantity"`
	UnitPrice      int64     `json:"unit_price"`
	TotalPrice     int64     `json:"total_price"`
	DiscountAmount int64     `json:"discount_amount"`
}

// ListResult pages ledger entries with a cursor for the next page.
type ListResult struct {
	Transactions []TransactionDTO `json:"transactions"`
	NextCursor   string           `json:"next_cursor,omitempty"`
}

// PeriodStats aggregates the ledger over one reporting window.
type PeriodStats struct {
	Count   int64 `json:"count"`
	Revenue int64 `json:"revenue"`
}

// Stats is the dashboard summary: today, the current month, and how many
// active products sit at or below their minimum stock level.
type Stats struct {
	Today         PeriodStats `json:"today"`
	Month         PeriodStats `json:"month"`
	LowStockCount int64       `json:"low_stock_count"`
}

// NewTransactionDTO maps the persisted model, preserving item order.
func NewTransactionDTO(trx *models.Transaction) *TransactionDTO {
	dto := &TransactionDTO{
		ID:                trx.ID,
		StoreID:           trx.StoreID,
		CashierID:         trx.CashierID,
		TransactionNumber: trx.TransactionNumber,
		TotalAmount:       trx.TotalAmount,
		TaxAmount:         trx.TaxAmount,
		DiscountAmount:    trx.DiscountAmount,
		PaymentMethod:     trx.PaymentMethod,
		PaymentStatus:     trx.PaymentStatus,
		Notes:             trx.Notes,
		Items:             make([]TransactionItemDTO, len(trx.Items)),
		CreatedAt:         trx.CreatedAt,
	}
	for i, item := range trx.Items {
		dto.Items[i] = TransactionItemDTO{
			ID:             item.ID,
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			TotalPrice:     item.TotalPrice,
			DiscountAmount: item.DiscountAmount,
		}
	}
	return dto
}
