package product

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/warungkita/warung-pos-backend/pkg/db/models"
)

// Repository handles product persistence, always scoped by store.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
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

// ListByStore returns every product row for the store, active or not.
// Filtering on the active flag is the caller's responsibility.
func (r *Repository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// FindByID loads the product without scoping; callers check store ownership.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByIDs loads the given products belonging to the store in one query.
func (r *Repository) FindByIDs(ctx context.Context, storeID uuid.UUID, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND id IN ?", storeID, ids).
		Find(&rows).
		Error
	return rows, err
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// Update saves the full product row.
func (r *Repository) Update(ctx context.Context, p *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// SoftDelete flags the product inactive. The row is never removed so that
// historical transaction lines keep a valid product reference.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("is_active", false).
		Error
}

// FindUsagesByCategory returns the store's products carrying the category.
func (r *Repository) FindUsagesByCategory(ctx context.Context, storeID uuid.UUID, category string) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND category = ?", storeID, category).
		Find(&rows).
		Error
	return rows, err
}

// FindUsagesByUnit returns the store's products carrying the unit.
func (r *Repository) FindUsagesByUnit(ctx context.Context, storeID uuid.UUID, unit string) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND unit = ?", storeID, unit).
		Find(&rows).
		Error
	return rows, err
}

// CountLowStock counts active products at or below their minimum stock level.
func (r *Repository) CountLowStock(ctx context.Context, storeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("store_id = ? AND is_active = ? AND stock_quantity <= min_stock_level", storeID, true).
		Count(&count).
		Error
	return count, err
}

// DecrementStock performs a conditional stock decrement inside the caller's
// transaction. It returns the number of affected rows: zero means the product
// either does not exist or has insufficient stock, and nothing was written.
func DecrementStock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) (int64, error) {
	if tx == nil {
		return 0, gorm.ErrInvalidTransaction
	}
	res := tx.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", productID, qty).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
