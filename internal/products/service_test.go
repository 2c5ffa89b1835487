package product

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/warungkita/warung-pos-backend/pkg/db/models"
	pkgerrors "github.com/warungkita/warung-pos-backend/pkg/errors"
)

type stubProductRepo struct {
	products    map[uuid.UUID]*models.Product
	listErr     error
	softDeleted []uuid.UUID
}

func newStubProductRepo(products ...*models.Product) *stubProductRepo {
	repo := &stubProductRepo{products: map[uuid.UUID]*models.Product{}}
	for _, p := range products {
		repo.products[p.ID] = p
	}
	return repo
}

func (s *stubProductRepo) ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.Product, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var rows []models.Product
	for _, p := range s.products {
		if p.StoreID == storeID {
			rows = append(rows, *p)
		}
	}
	return rows, nil
}

func (s *stubProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cpy := *p
	return &cpy, nil
}

func (s *stubProductRepo) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	s.products[p.ID] = p
	return p, nil
}

func (s *stubProductRepo) Update(ctx context.Context, p *models.Product) (*models.Product, error) {
	s.products[p.ID] = p
	return p, nil
}

func (s *stubProductRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if p, ok := s.products[id]; ok {
		p.IsActive = false
	}
	s.softDeleted = append(s.softDeleted, id)
	return nil
}

func (s *stubProductRepo) FindUsagesByCategory(ctx context.Context, storeID uuid.UUID, category string) ([]models.Product, error) {
	var rows []models.Product
	for _, p := range s.products {
		if p.StoreID == storeID && p.Category == category {
			rows = append(rows, *p)
		}
	}
	return rows, nil
}

func (s *stubProductRepo) FindUsagesByUnit(ctx context.Context, storeID uuid.UUID, unit string) ([]models.Product, error) {
	var rows []models.Product
	for _, p := range s.products {
		if p.StoreID == storeID && p.Unit == unit {
			rows = append(rows, *p)
		}
	}
	return rows, nil
}

func (s *stubProductRepo) CountLowStock(ctx context.Context, storeID uuid.UUID) (int64, error) {
	var count int64
	for _, p := range s.products {
		if p.StoreID == storeID && p.IsActive && p.StockQuantity <= p.MinStockLevel {
			count++
		}
	}
	return count, nil
}

func testProduct(storeID uuid.UUID) *models.Product {
	return &models.Product{
		ID:            uuid.New(),
		StoreID:       storeID,
		Name:          "Indomie Goreng",
		Price:         3500,
		Cost:          2800,
		StockQuantity: 40,
		MinStockLevel: 10,
		Category:      "Makanan",
		Unit:          "pcs",
		IsActive:      true,
	}
}

func TestNewServiceRequiresRepo(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error creating service without repo")
	}
}

func TestServiceCreateValidation(t *testing.T) {
	svc, err := NewService(newStubProductRepo())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	cases := []struct {
		name  string
		input CreateProductInput
	}{
		{"empty name", CreateProductInput{Name: "  ", Price: 100}},
		{"negative price", CreateProductInput{Name: "x", Price: -1}},
		{"negative stock", CreateProductInput{Name: "x", StockQuantity: -2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, gotErr := svc.Create(context.Background(), uuid.New(), tc.input)
			if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", gotErr)
			}
		})
	}
}

func TestServiceCreateSuccess(t *testing.T) {
	repo := newStubProductRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	storeID := uuid.New()
	dto, err := svc.Create(context.Background(), storeID, CreateProductInput{
		Name:          "  Teh Manis  ",
		Price:         3000,
		Cost:          1000,
		StockQuantity: 20,
		Category:      "Minuman",
		Unit:          "gelas",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Name != "Teh Manis" {
		t.Fatalf("expected trimmed name, got %q", dto.Name)
	}
	if !dto.IsActive {
		t.Fatal("expected new product to be active")
	}
	if dto.StoreID != storeID {
		t.Fatalf("expected store %s, got %s", storeID, dto.StoreID)
	}
}

func TestServiceUpdateScopedToStore(t *testing.T) {
	storeID := uuid.New()
	p := testProduct(storeID)
	svc, err := NewService(newStubProductRepo(p))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.Update(context.Background(), uuid.New(), p.ID, UpdateProductInput{})
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign store, got %v", gotErr)
	}
}

func TestServiceUpdateAppliesPartialFields(t *testing.T) {
	storeID := uuid.New()
	p := testProduct(storeID)
	repo := newStubProductRepo(p)
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	newPrice := int64(4000)
	dto, err := svc.Update(context.Background(), storeID, p.ID, UpdateProductInput{Price: &newPrice})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.Price != 4000 {
		t.Fatalf("expected price 4000, got %d", dto.Price)
	}
	if dto.Name != p.Name {
		t.Fatalf("expected name unchanged, got %q", dto.Name)
	}
}

func TestServiceDeleteSoft(t *testing.T) {
	storeID := uuid.New()
	p := testProduct(storeID)
	repo := newStubProductRepo(p)
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if err := svc.Delete(context.Background(), storeID, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(repo.softDeleted) != 1 || repo.softDeleted[0] != p.ID {
		t.Fatalf("expected soft delete of %s, got %v", p.ID, repo.softDeleted)
	}
	if _, ok := repo.products[p.ID]; !ok {
		t.Fatal("expected row to remain after soft delete")
	}
}
