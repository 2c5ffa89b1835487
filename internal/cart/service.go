package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/warungkita/warung-pos-backend/pkg/config"
	"github.com/warungkita/warung-pos-backend/pkg/db/models"
	pkgerrors "github.com/warungkita/warung-pos-backend/pkg/errors"
)

type cartStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(cashierID string) string
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes the cashier's open-cart operations.
type Service interface {
	Get(ctx context.Context, cashierID, storeID uuid.UUID) (*Cart, error)
	AddLine(ctx context.Context, cashierID, storeID, productID uuid.UUID, quantity int) (*Cart, error)
	SetQuantity(ctx context.Context, cashierID, storeID, productID uuid.UUID, quantity int) (*Cart, error)
	RemoveLine(ctx context.Context, cashierID, storeID, productID uuid.UUID) (*Cart, error)
	Clear(ctx context.Context, cashierID uuid.UUID) error
}

type service struct {
	store    cartStore
	products productLoader
	ttl      time.Duration
}

// NewService builds a cart service backed by Redis and the product catalog.
func NewService(store cartStore, products productLoader, cfg config.CartConfig) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("cart ttl must be positive")
	}
	return &service{store: store, products: products, ttl: cfg.TTL}, nil
}

func (s *service) Get(ctx context.Context, cashierID, storeID uuid.UUID) (*Cart, error) {
	return s.load(ctx, cashierID, storeID)
}

func (s *service) AddLine(ctx context.Context, cashierID, storeID, productID uuid.UUID, quantity int) (*Cart, error) {
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.loadProduct(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.load(ctx, cashierID, storeID)
	if err != nil {
		return nil, err
	}

	idx := cart.lineIndex(productID)
	requested := quantity
	if idx >= 0 {
		requested += cart.Lines[idx].Quantity
	}
	// Soft cap against the stock known right now; commit re-validates
	// atomically against the row.
	if requested > product.StockQuantity {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "quantity exceeds available stock").
			WithDetails(map[string]any{"available": product.StockQuantity})
	}

	if idx >= 0 {
		cart.Lines[idx].Quantity = requested
	} else {
		cart.Lines = append(cart.Lines, Line{
			ProductID: product.ID,
			Name:      product.Name,
			Unit:      product.Unit,
			UnitPrice: product.Price,
			Quantity:  quantity,
		})
	}

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *service) SetQuantity(ctx context.Context, cashierID, storeID, productID uuid.UUID, quantity int) (*Cart, error) {
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	if quantity == 0 {
		return s.RemoveLine(ctx, cashierID, storeID, productID)
	}

	cart, err := s.load(ctx, cashierID, storeID)
	if err != nil {
		return nil, err
	}
	idx := cart.lineIndex(productID)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart")
	}

	product, err := s.loadProduct(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}
	if quantity > product.StockQuantity {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "quantity exceeds available stock").
			WithDetails(map[string]any{"available": product.StockQuantity})
	}

	cart.Lines[idx].Quantity = quantity
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *service) RemoveLine(ctx context.Context, cashierID, storeID, productID uuid.UUID) (*Cart, error) {
	cart, err := s.load(ctx, cashierID, storeID)
	if err != nil {
		return nil, err
	}
	idx := cart.lineIndex(productID)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart")
	}

	cart.Lines = append(cart.Lines[:idx], cart.Lines[idx+1:]...)
	if len(cart.Lines) == 0 {
		if err := s.Clear(ctx, cashierID); err != nil {
			return nil, err
		}
		cart.recompute()
		return cart, nil
	}
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *service) Clear(ctx context.Context, cashierID uuid.UUID) error {
	if err := s.store.Del(ctx, s.store.CartKey(cashierID.String())); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) load(ctx context.Context, cashierID, storeID uuid.UUID) (*Cart, error) {
	raw, err := s.store.Get(ctx, s.store.CartKey(cashierID.String()))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return &Cart{CashierID: cashierID, StoreID: storeID, Lines: []Line{}}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode cart")
	}
	// A cart written under a previous store binding must not leak into the
	// current one.
	if cart.StoreID != storeID {
		if err := s.Clear(ctx, cashierID); err != nil {
			return nil, err
		}
		return &Cart{CashierID: cashierID, StoreID: storeID, Lines: []Line{}}, nil
	}
	return &cart, nil
}

func (s *service) save(ctx context.Context, cart *Cart) error {
	cart.recompute()
	payload, err := json.Marshal(cart)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.store.Set(ctx, s.store.CartKey(cart.CashierID.String()), payload, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

func (s *service) loadProduct(ctx context.Context, storeID, productID uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product.StoreID != storeID || !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}
