package checkout

import (
	"github.com/google/uuid"

	"github.com/warungkita/warung-pos-backend/pkg/enums"
)

// CartLineInput is one line of the cart being committed.
type CartLineInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CommitSaleInput carries the cart and payment context for one sale.
// CashTendered is required for cash payments and must cover the total.
type CommitSaleInput struct {
	Lines         []CartLineInput
	PaymentMethod enums.PaymentMethod
	CashTendered  *int64
	Notes         *string
}

// StockOutcome reports how the stock decrement went for one line. A sale only
// commits when every line decremented, but the outcomes are returned either
// way so the caller can see exactly which product blocked the sale.
type StockOutcome struct {
	ProductID   uuid.UUID `json:"product_id"`
	Requested   int       `json:"requested"`
	Decremented bool      `json:"decremented"`
	Reason      string    `json:"reason,omitempty"`
}

// SaleResult is returned to the caller after a committed sale.
type SaleResult struct {
	TransactionID     uuid.UUID           `json:"transaction_id"`
	TransactionNumber string              `json:"transaction_number"`
	TotalAmount       int64               `json:"total_amount"`
	PaymentMethod     enums.PaymentMethod `json:"payment_method"`
	ChangeAmount      *int64              `json:"change_amount,omitempty"`
	StockOutcomes     []StockOutcome      `json:"stock_outcomes"`
}
