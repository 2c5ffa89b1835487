package transactions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/warungkita/warung-pos-backend/pkg/db/models"
	pkgerrors "github.com/warungkita/warung-pos-backend/pkg/errors"
	"github.com/warungkita/warung-pos-backend/pkg/pagination"
)

type ledgerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	ListByStore(ctx context.Context, storeID uuid.UUID, params pagination.Params) ([]models.Transaction, string, error)
	StatsSince(ctx context.Context, storeID uuid.UUID, since time.Time) (int64, int64, error)
}

type lowStockCounter interface {
	CountLowStock(ctx context.Context, storeID uuid.UUID) (int64, error)
}

// Service exposes read access to the sale ledger and dashboard stats.
type Service interface {
	GetByID(ctx context.Context, storeID, transactionID uuid.UUID) (*TransactionDTO, error)
	List(ctx context.Context, storeID uuid.UUID, params pagination.Params) (*ListResult, error)
	Stats(ctx context.Context, storeID uuid.UUID) (*Stats, error)
}

type service struct {
	repo     ledgerRepository
	products lowStockCounter
	now      func() time.Time
}

// NewService builds the ledger service.
func NewService(repo ledgerRepository, products lowStockCounter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("transactions repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{repo: repo, products: products, now: time.Now}, nil
}

func (s *service) GetByID(ctx context.Context, storeID, transactionID uuid.UUID) (*TransactionDTO, error) {
	trx, err := s.repo.FindByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load transaction")
	}
	if trx.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
	}
	return NewTransactionDTO(trx), nil
}

func (s *service) List(ctx context.Context, storeID uuid.UUID, params pagination.Params) (*ListResult, error) {
	rows, nextCursor, err := s.repo.ListByStore(ctx, storeID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list transactions")
	}

	result := &ListResult{
		Transactions: make([]TransactionDTO, len(rows)),
		NextCursor:   nextCursor,
	}
	for i := range rows {
		result.Transactions[i] = *NewTransactionDTO(&rows[i])
	}
	return result, nil
}

// Stats returns today's and this month's totals plus the low-stock count.
// Windows are computed in the server's local time, matching how the warung
// reads its own business day.
func (s *service) Stats(ctx context.Context, storeID uuid.UUID) (*Stats, error) {
	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	todayCount, todayRevenue, err := s.repo.StatsSince(ctx, storeID, startOfDay)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate today stats")
	}
	monthCount, monthRevenue, err := s.repo.StatsSince(ctx, storeID, startOfMonth)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate month stats")
	}
	lowStock, err := s.products.CountLowStock(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count low stock")
	}

	return &Stats{
		Today:         PeriodStats{Count: todayCount, Revenue: todayRevenue},
		Month:         PeriodStats{Count: monthCount, Revenue: monthRevenue},
		LowStockCount: lowStock,
	}, nil
}
