package product

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/warungkita/warung-pos-backend/pkg/db/models"
)

func mustInsertProduct(t *testing.T, db *gorm.DB, storeID uuid.UUID, name, category, unit string, stock int, active bool) *models.Product {
	t.Helper()
	p := &models.Product{
		ID:            uuid.New(),
		StoreID:       storeID,
		Name:          name,
		Price:         10000,
		Cost:          7000,
		StockQuantity: stock,
		MinStockLevel: 5,
		Category:      category,
		Unit:          unit,
		IsActive:      active,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("insert product: %v", err)
	}
	return p
}

func TestRepositoryProductFlow(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	storeID := uuid.New()

	created, err := repo.Create(ctx, &models.Product{
		ID:            uuid.New(),
		StoreID:       storeID,
		Name:          "Kopi Sachet",
		Price:         2000,
		Cost:          1500,
		StockQuantity: 50,
		MinStockLevel: 10,
		Category:      "Minuman",
		Unit:          "pcs",
		IsActive:      true,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	created.Name = "Kopi Sachet Hitam"
	if _, err := repo.Update(ctx, created); err != nil {
		t.Fatalf("update product: %v", err)
	}

	fetched, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find product: %v", err)
	}
	if fetched.Name != "Kopi Sachet Hitam" {
		t.Fatalf("expected updated name, got %s", fetched.Name)
	}

	if err := repo.SoftDelete(ctx, created.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	deleted, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find after soft delete: %v", err)
	}
	if deleted.IsActive {
		t.Fatal("expected product to be inactive after soft delete")
	}
}

func TestRepositoryListIncludesInactive(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	storeID := uuid.New()

	mustInsertProduct(t, db, storeID, "Aktif", "Makanan", "pcs", 10, true)
	mustInsertProduct(t, db, storeID, "Nonaktif", "Makanan", "pcs", 0, false)
	mustInsertProduct(t, db, uuid.New(), "Toko Lain", "Makanan", "pcs", 3, true)

	rows, err := repo.ListByStore(ctx, storeID)
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 products for store, got %d", len(rows))
	}
}

func TestRepositoryUsageQueries(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	storeID := uuid.New()

	mustInsertProduct(t, db, storeID, "Teh Botol", "Minuman", "botol", 12, true)
	mustInsertProduct(t, db, storeID, "Air Mineral", "Minuman", "botol", 24, true)
	mustInsertProduct(t, db, storeID, "Kerupuk", "Makanan", "bungkus", 8, true)

	byCategory, err := repo.FindUsagesByCategory(ctx, storeID, "Minuman")
	if err != nil {
		t.Fatalf("usages by category: %v", err)
	}
	if len(byCategory) != 2 {
		t.Fatalf("expected 2 Minuman products, got %d", len(byCategory))
	}

	byUnit, err := repo.FindUsagesByUnit(ctx, storeID, "bungkus")
	if err != nil {
		t.Fatalf("usages by unit: %v", err)
	}
	if len(byUnit) != 1 {
		t.Fatalf("expected 1 bungkus product, got %d", len(byUnit))
	}
}

func TestRepositoryCountLowStock(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	storeID := uuid.New()

	mustInsertProduct(t, db, storeID, "Habis", "Makanan", "pcs", 2, true)
	mustInsertProduct(t, db, storeID, "Pas", "Makanan", "pcs", 5, true)
	mustInsertProduct(t, db, storeID, "Cukup", "Makanan", "pcs", 20, true)
	mustInsertProduct(t, db, storeID, "Nonaktif", "Makanan", "pcs", 0, false)

	count, err := repo.CountLowStock(ctx, storeID)
	if err != nil {
		t.Fatalf("count low stock: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 low-stock products, got %d", count)
	}
}

func TestDecrementStockConditional(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	p := mustInsertProduct(t, db, uuid.New(), "Gula", "Sembako", "kg", 5, true)

	affected, err := DecrementStock(ctx, db, p.ID, 3)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 affected row, got %d", affected)
	}

	affected, err = DecrementStock(ctx, db, p.ID, 3)
	if err != nil {
		t.Fatalf("second decrement: %v", err)
	}
	if affected != 0 {
		t.Fatalf("expected conditional decrement to reject, got %d affected", affected)
	}

	var current models.Product
	if err := db.First(&current, "id = ?", p.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if current.StockQuantity != 2 {
		t.Fatalf("expected stock 2, got %d", current.StockQuantity)
	}
}
