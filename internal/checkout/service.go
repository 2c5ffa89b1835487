package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	product "github.com/warungkita/warung-pos-backend/internal/products"
	"github.com/warungkita/warung-pos-backend/internal/transactions"
	"github.com/warungkita/warung-pos-backend/pkg/db"
	"github.com/warungkita/warung-pos-backend/pkg/db/models"
	"github.com/warungkita/warung-pos-backend/pkg/enums"
	pkgerrors "github.com/warungkita/warung-pos-backend/pkg/errors"
	"github.com/warungkita/warung-pos-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cashierLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type productLoader interface {
	FindByIDs(ctx context.Context, storeID uuid.UUID, ids []uuid.UUID) ([]models.Product, error)
}

type ledgerWriter interface {
	WithTx(tx *gorm.DB) *transactions.Repository
}

type refreshPublisher interface {
	Publish(ctx context.Context, channel string, payload any) error
	RefreshChannel(storeID string) string
}

// Service commits sales: one call persists the header, its lines, and the
// stock decrements as a single atomic unit.
type Service interface {
	CommitSale(ctx context.Context, cashierID uuid.UUID, input CommitSaleInput) (*SaleResult, error)
}

type service struct {
	tx        txRunner
	users     cashierLoader
	products  productLoader
	ledger    ledgerWriter
	publisher refreshPublisher
	logg      *logger.Logger
	now       func() time.Time
}

// NewService builds the checkout service.
func NewService(
	tx txRunner,
	users cashierLoader,
	products productLoader,
	ledger ledgerWriter,
	publisher refreshPublisher,
	logg *logger.Logger,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("transactions repository required")
	}
	return &service{
		tx:        tx,
		users:     users,
		products:  products,
		ledger:    ledger,
		publisher: publisher,
		logg:      logg,
		now:       time.Now,
	}, nil
}

func (s *service) CommitSale(ctx context.Context, cashierID uuid.UUID, input CommitSaleInput) (*SaleResult, error) {
	if err := validateInput(cashierID, input); err != nil {
		return nil, err
	}

	cashier, err := s.loadCashier(ctx, cashierID)
	if err != nil {
		return nil, err
	}
	storeID := cashier.StoreID

	priced, total, err := s.priceLines(ctx, storeID, input.Lines)
	if err != nil {
		return nil, err
	}

	var change *int64
	if input.PaymentMethod == enums.PaymentMethodCash {
		if input.CashTendered == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cash tendered is required for cash payments")
		}
		if *input.CashTendered < total {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cash tendered is less than the total").
				WithDetails(map[string]any{"total": total, "tendered": *input.CashTendered})
		}
		diff := *input.CashTendered - total
		change = &diff
	}

	trx := &models.Transaction{
		ID:                uuid.New(),
		StoreID:           storeID,
		CashierID:         cashierID,
		TransactionNumber: newTransactionNumber(s.now()),
		TotalAmount:       total,
		PaymentMethod:     input.PaymentMethod,
		PaymentStatus:     enums.PaymentStatusCompleted,
		Notes:             buildNotes(input, change),
	}

	outcomes := make([]StockOutcome, 0, len(priced))
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ledger := s.ledger.WithTx(tx)

		// Postgres aborts the transaction on the first failed statement,
		// so the header insert runs under a savepoint the retry can roll
		// back to.
		if err := tx.SavePoint("sale_header").Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open savepoint")
		}
		if err := ledger.CreateHeader(ctx, trx); err != nil {
			if !db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert transaction header")
			}
			if err := tx.RollbackTo("sale_header").Error; err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "roll back to savepoint")
			}
			trx.TransactionNumber = saltedTransactionNumber(s.now())
			if err := ledger.CreateHeader(ctx, trx); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert transaction header")
			}
		}

		items := make([]models.TransactionItem, len(priced))
		for i, line := range priced {
			items[i] = models.TransactionItem{
				ID:            uuid.New(),
				TransactionID: trx.ID,
				ProductID:     line.productID,
				Quantity:      line.quantity,
				UnitPrice:     line.unitPrice,
				TotalPrice:    line.total,
			}
		}
		if err := ledger.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert transaction items")
		}

		for _, line := range priced {
			affected, err := product.DecrementStock(ctx, tx, line.productID, line.quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
			}
			if affected == 0 {
				outcomes = append(outcomes, StockOutcome{
					ProductID: line.productID,
					Requested: line.quantity,
					Reason:    "insufficient stock",
				})
				return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock").
					WithDetails(map[string]any{"product_id": line.productID.String()})
			}
			outcomes = append(outcomes, StockOutcome{
				ProductID:   line.productID,
				Requested:   line.quantity,
				Decremented: true,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyRefresh(ctx, storeID)

	return &SaleResult{
		TransactionID:     trx.ID,
		TransactionNumber: trx.TransactionNumber,
		TotalAmount:       total,
		PaymentMethod:     input.PaymentMethod,
		ChangeAmount:      change,
		StockOutcomes:     outcomes,
	}, nil
}

type pricedLine struct {
	productID uuid.UUID
	quantity  int
	unitPrice int64
	total     int64
}

// priceLines loads the cart's products and prices every line at the product's
// current price. Totals go through decimal to keep the arithmetic exact.
func (s *service) priceLines(ctx context.Context, storeID uuid.UUID, lines []CartLineInput) ([]pricedLine, int64, error) {
	ids := make([]uuid.UUID, len(lines))
	for i, line := range lines {
		ids[i] = line.ProductID
	}

	rows, err := s.products.FindByIDs(ctx, storeID, ids)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}
	byID := make(map[uuid.UUID]*models.Product, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}

	priced := make([]pricedLine, len(lines))
	grandTotal := decimal.Zero
	for i, line := range lines {
		p, ok := byID[line.ProductID]
		if !ok || !p.IsActive {
			return nil, 0, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
				WithDetails(map[string]any{"product_id": line.ProductID.String()})
		}
		lineTotal := decimal.NewFromInt(p.Price).Mul(decimal.NewFromInt(int64(line.Quantity)))
		priced[i] = pricedLine{
			productID: p.ID,
			quantity:  line.Quantity,
			unitPrice: p.Price,
			total:     lineTotal.IntPart(),
		}
		grandTotal = grandTotal.Add(lineTotal)
	}
	return priced, grandTotal.IntPart(), nil
}

func (s *service) loadCashier(ctx context.Context, cashierID uuid.UUID) (*models.User, error) {
	cashier, err := s.users.FindByID(ctx, cashierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cashier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cashier")
	}
	if !cashier.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cashier is deactivated")
	}
	if cashier.StoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cashier has no store")
	}
	return cashier, nil
}

// notifyRefresh tells listing subscribers to refetch. The sale is already
// committed, so a publish failure is only logged.
func (s *service) notifyRefresh(ctx context.Context, storeID uuid.UUID) {
	if s.publisher == nil {
		return
	}
	channel := s.publisher.RefreshChannel(storeID.String())
	if err := s.publisher.Publish(ctx, channel, "sale-committed"); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "refresh publish failed: "+err.Error())
	}
}

func validateInput(cashierID uuid.UUID, input CommitSaleInput) error {
	if cashierID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "cashier id required")
	}
	if len(input.Lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart contains no items")
	}
	for _, line := range input.Lines {
		if line.ProductID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "product id required on every line")
		}
		if line.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
		}
	}
	if !input.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	return nil
}

// buildNotes composes the persisted note. Cash sales record the tendered
// amount and change in the id-ID format the receipts use.
func buildNotes(input CommitSaleInput, change *int64) *string {
	var parts []string
	if input.PaymentMethod == enums.PaymentMethodCash && input.CashTendered != nil {
		note := "Tunai: Rp " + formatRupiah(*input.CashTendered)
		if change != nil && *change > 0 {
			note += ", Kembalian: Rp " + formatRupiah(*change)
		}
		parts = append(parts, note)
	}
	if input.Notes != nil && strings.TrimSpace(*input.Notes) != "" {
		parts = append(parts, strings.TrimSpace(*input.Notes))
	}
	if len(parts) == 0 {
		return nil
	}
	joined := strings.Join(parts, " - ")
	return &joined
}

// formatRupiah renders an amount with id-ID thousand separators: 25000 -> "25.000".
func formatRupiah(amount int64) string {
	digits := fmt.Sprintf("%d", amount)
	negative := false
	if strings.HasPrefix(digits, "-") {
		negative = true
		digits = digits[1:]
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
		if len(digits) > lead {
			b.WriteString(".")
		}
	}
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteString(".")
		}
	}
	if negative {
		return "-" + b.String()
	}
	return b.String()
}
