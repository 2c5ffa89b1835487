package controllers

import (
	"net/http"

	"github.com/warungkita/warung-pos-backend/api/responses"
	"github.com/warungkita/warung-pos-backend/api/validators"
	productsvc "github.com/warungkita/warung-pos-backend/internal/products"
	pkgerrors "github.com/warungkita/warung-pos-backend/pkg/errors"
	"github.com/warungkita/warung-pos-backend/pkg/logger"
)

// ListProducts returns the full catalog for the caller's store.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		storeID, err := storeIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.List(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"products": items})
	}
}

// ListProductUsages returns the products using a given category or unit,
// so the client can warn before renaming either one.
func ListProductUsages(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		storeID, err := storeIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category := r.URL.Query().Get("category")
		unit := r.URL.Query().Get("unit")

		var items []productsvc.ProductDTO
		switch {
		case category != "" && unit != "":
			err = pkgerrors.New(pkgerrors.CodeValidation, "provide either category or unit, not both")
		case category != "":
			items, err = svc.UsagesByCategory(r.Context(), storeID, category)
		case unit != "":
			items, err = svc.UsagesByUnit(r.Context(), storeID, unit)
		default:
			err = pkgerrors.New(pkgerrors.CodeValidation, "category or unit query parameter required")
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"products": items})
	}
}

// CreateProduct handles catalog creation for the caller's store.
func CreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		storeID, err := storeIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), storeID, payload.toCreateInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// UpdateProduct applies a partial update to one product.
func UpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		storeID, err := storeIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuidURLParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), storeID, productID, payload.toUpdateInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// DeleteProduct soft deletes a product so past sales keep their rows.
func DeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		storeID, err := storeIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuidURLParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), storeID, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type createProductRequest struct {
	Name          string  `json:"name" validate:"required"`
	Description   *string `json:"description,omitempty"`
	Price         int64   `json:"price" validate:"required,gt=0"`
	Cost          int64   `json:"cost" validate:"omitempty,gte=0"`
	StockQuantity int     `json:"stock_quantity" validate:"omitempty,gte=0"`
	MinStockLevel int     `json:"min_stock_level" validate:"omitempty,gte=0"`
	Category      string  `json:"category" validate:"required"`
	Unit          string  `json:"unit" validate:"required"`
}

func (r createProductRequest) toCreateInput() productsvc.CreateProductInput {
	return productsvc.CreateProductInput{
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		Cost:          r.Cost,
		StockQuantity: r.StockQuantity,
		MinStockLevel: r.MinStockLevel,
		Category:      r.Category,
		Unit:          r.Unit,
	}
}

type updateProductRequest struct {
	Name          *string `json:"name,omitempty"`
	Description   *string `json:"description,omitempty"`
	Price         *int64  `json:"price,omitempty" validate:"omitempty,gt=0"`
	Cost          *int64  `json:"cost,omitempty" validate:"omitempty,gte=0"`
	StockQuantity *int    `json:"stock_quantity,omitempty" validate:"omitempty,gte=0"`
	MinStockLevel *int    `json:"min_stock_level,omitempty" validate:"omitempty,gte=0"`
	Category      *string `json:"category,omitempty"`
	Unit          *string `json:"unit,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

func (r updateProductRequest) toUpdateInput() productsvc.UpdateProductInput {
	return productsvc.UpdateProductInput{
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		Cost:          r.Cost,
		StockQuantity: r.StockQuantity,
		MinStockLevel: r.MinStockLevel,
		Category:      r.Category,
		Unit:          r.Unit,
		IsActive:      r.IsActive,
	}
}
