package product

import (
	"time"

	"github.com/google/uuid"

	"github.com/warungkita/warung-pos-backend/pkg/db/models"
)

// ProductDTO represents the catalog product payload returned to clients.
type ProductDTO struct {
	ID            uuid.UUID `json:"id"`
	StoreID       uuid.UUID `json:"store_id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description,omitempty"`
	Price         int64     `json:"price"`
	Cost          int64     `json:"cost"`
	StockQuantity int       `json:"stock_quantity"`
	MinStockLevel int       `json:"min_stock_level"`
	Category      string    `json:"category"`
	Unit          string    `json:"unit"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(p *models.Product) *ProductDTO {
	return &ProductDTO{
		ID:            p.ID,
		StoreID:       p.StoreID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Cost:          p.Cost,
		StockQuantity: p.StockQuantity,
		MinStockLevel: p.MinStockLevel,
		Category:      p.Category,
		Unit:          p.Unit,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// NewProductDTOs maps a slice of models preserving order.
func NewProductDTOs(rows []models.Product) []ProductDTO {
	dtos := make([]ProductDTO, len(rows))
	for i := range rows {
		dtos[i] = *NewProductDTO(&rows[i])
	}
	return dtos
}

// CreateProductInput captures the fields accepted when creating a product.
type CreateProductInput struct {
	Name          string
	Description   *string
	Price         int64
	Cost          int64
	StockQuantity int
	MinStockLevel int
	Category      string
	Unit          string
}

// UpdateProductInput captures the mutable product fields; nil means unchanged.
type UpdateProductInput struct {
	Name          *string
	Description   *string
	Price         *int64
	Cost          *int64
	StockQuantity *int
	MinStockLevel *int
	Category      *string
	Unit          *string
	IsActive      *bool
}
