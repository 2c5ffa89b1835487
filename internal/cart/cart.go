package cart

import (
	"time"

	"github.com/google/uuid"
)

// Line is one selected product inside a cashier's open cart. UnitPrice is
// captured when the product is added; Subtotal is always recomputed as
// Quantity times UnitPrice, never stored independently.
type Line struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Unit      string    `json:"unit"`
	UnitPrice int64     `json:"unit_price"`
	Quantity  int       `json:"quantity"`
	Subtotal  int64     `json:"subtotal"`
}

// Cart aggregates a cashier's current selection. It lives in Redis under the
// cashier's key and expires with the configured TTL; commit clears it.
type Cart struct {
	CashierID uuid.UUID `json:"cashier_id"`
	StoreID   uuid.UUID `json:"store_id"`
	Lines     []Line    `json:"lines"`
	Subtotal  int64     `json:"subtotal"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Cart) recompute() {
	var total int64
	for i := range c.Lines {
		c.Lines[i].Subtotal = int64(c.Lines[i].Quantity) * c.Lines[i].UnitPrice
		total += c.Lines[i].Subtotal
	}
	c.Subtotal = total
	c.UpdatedAt = time.Now().UTC()
}

func (c *Cart) lineIndex(productID uuid.UUID) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}
