package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/warungkita/warung-pos-backend/pkg/db/models"
	pkgerrors "github.com/warungkita/warung-pos-backend/pkg/errors"
)

type productRepository interface {
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) (*models.Product, error)
	Update(ctx context.Context, p *models.Product) (*models.Product, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	FindUsagesByCategory(ctx context.Context, storeID uuid.UUID, category string) ([]models.Product, error)
	FindUsagesByUnit(ctx context.Context, storeID uuid.UUID, unit string) ([]models.Product, error)
	CountLowStock(ctx context.Context, storeID uuid.UUID) (int64, error)
}

// Service exposes catalog operations scoped to one store.
type Service interface {
	List(ctx context.Context, storeID uuid.UUID) ([]ProductDTO, error)
	Create(ctx context.Context, storeID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	Update(ctx context.Context, storeID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, storeID, productID uuid.UUID) error
	UsagesByCategory(ctx context.Context, storeID uuid.UUID, category string) ([]ProductDTO, error)
	UsagesByUnit(ctx context.Context, storeID uuid.UUID, unit string) ([]ProductDTO, error)
	LowStockCount(ctx context.Context, storeID uuid.UUID) (int64, error)
}

type service struct {
	repo productRepository
}

// NewService builds a product service with the provided repository.
func NewService(repo productRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

// List returns every product of the store, inactive rows included.
func (s *service) List(ctx context.Context, storeID uuid.UUID) ([]ProductDTO, error) {
	rows, err := s.repo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return NewProductDTOs(rows), nil
}

func (s *service) Create(ctx context.Context, storeID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	p := &models.Product{
		ID:            uuid.New(),
		StoreID:       storeID,
		Name:          strings.TrimSpace(input.Name),
		Description:   input.Description,
		Price:         input.Price,
		Cost:          input.Cost,
		StockQuantity: input.StockQuantity,
		MinStockLevel: input.MinStockLevel,
		Category:      strings.TrimSpace(input.Category),
		Unit:          strings.TrimSpace(input.Unit),
		IsActive:      true,
	}
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return NewProductDTO(created), nil
}

func (s *service) Update(ctx context.Context, storeID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	p, err := s.loadStoreProduct(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		p.Name = name
	}
	if input.Description != nil {
		p.Description = input.Description
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		p.Price = *input.Price
	}
	if input.Cost != nil {
		if *input.Cost < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cost cannot be negative")
		}
		p.Cost = *input.Cost
	}
	if input.StockQuantity != nil {
		if *input.StockQuantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock quantity cannot be negative")
		}
		p.StockQuantity = *input.StockQuantity
	}
	if input.MinStockLevel != nil {
		if *input.MinStockLevel < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum stock level cannot be negative")
		}
		p.MinStockLevel = *input.MinStockLevel
	}
	if input.Category != nil {
		p.Category = strings.TrimSpace(*input.Category)
	}
	if input.Unit != nil {
		p.Unit = strings.TrimSpace(*input.Unit)
	}
	if input.IsActive != nil {
		p.IsActive = *input.IsActive
	}

	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return NewProductDTO(updated), nil
}

// Delete flags the product inactive; the row stays for the ledger.
func (s *service) Delete(ctx context.Context, storeID, productID uuid.UUID) error {
	if _, err := s.loadStoreProduct(ctx, storeID, productID); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "soft delete product")
	}
	return nil
}

func (s *service) UsagesByCategory(ctx context.Context, storeID uuid.UUID, category string) ([]ProductDTO, error) {
	rows, err := s.repo.FindUsagesByCategory(ctx, storeID, strings.TrimSpace(category))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find category usages")
	}
	return NewProductDTOs(rows), nil
}

func (s *service) UsagesByUnit(ctx context.Context, storeID uuid.UUID, unit string) ([]ProductDTO, error) {
	rows, err := s.repo.FindUsagesByUnit(ctx, storeID, strings.TrimSpace(unit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find unit usages")
	}
	return NewProductDTOs(rows), nil
}

func (s *service) LowStockCount(ctx context.Context, storeID uuid.UUID) (int64, error) {
	count, err := s.repo.CountLowStock(ctx, storeID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count low stock")
	}
	return count, nil
}

func (s *service) loadStoreProduct(ctx context.Context, storeID, productID uuid.UUID) (*models.Product, error) {
	p, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if p.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return p, nil
}

func validateCreateInput(input CreateProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.Price < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.Cost < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cost cannot be negative")
	}
	if input.StockQuantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock quantity cannot be negative")
	}
	if input.MinStockLevel < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "minimum stock level cannot be negative")
	}
	return nil
}
