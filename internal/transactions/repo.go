package transactions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/warungkita/warung-pos-backend/pkg/db/models"
	"github.com/warungkita/warung-pos-backend/pkg/enums"
	"github.com/warungkita/warung-pos-backend/pkg/pagination"
)

// Repository handles the sale ledger persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to ledger operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// CreateHeader inserts the sale header row.
func (r *Repository) CreateHeader(ctx context.Context, trx *models.Transaction) error {
	return r.db.WithContext(ctx).Omit("Items").Create(trx).Error
}

// CreateItems batch-inserts the sale lines.
func (r *Repository) CreateItems(ctx context.Context, items []models.TransactionItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// FindByID loads one ledger entry with its items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var trx models.Transaction
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&trx, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &trx, nil
}

// ListByStore pages the store's ledger newest-first with a cursor.
func (r *Repository) ListByStore(ctx context.Context, storeID uuid.UUID, params pagination.Params) ([]models.Transaction, string, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).
		Preload("Items").
		Where("store_id = ?", storeID)
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Transaction
	if err := qb.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, nextCursor, nil
}

// StatsSince aggregates completed sales created at or after the cutoff.
func (r *Repository) StatsSince(ctx context.Context, storeID uuid.UUID, since time.Time) (count int64, revenue int64, err error) {
	type aggregate struct {
		Count   int64
		Revenue int64
	}
	var agg aggregate
	err = r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS revenue").
		Where("store_id = ? AND payment_status = ? AND created_at >= ?", storeID, enums.PaymentStatusCompleted, since).
		Scan(&agg).Error
	return agg.Count, agg.Revenue, err
}
