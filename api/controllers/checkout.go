package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/warungkita/warung-pos-backend/api/responses"
	"github.com/warungkita/warung-pos-backend/api/validators"
	cartsvc "github.com/warungkita/warung-pos-backend/internal/cart"
	checkoutsvc "github.com/warungkita/warung-pos-backend/internal/checkout"
	"github.com/warungkita/warung-pos-backend/pkg/enums"
	pkgerrors "github.com/warungkita/warung-pos-backend/pkg/errors"
	"github.com/warungkita/warung-pos-backend/pkg/logger"
)

// Checkout commits the cart as a sale. The decrement and the ledger rows land
// in one transaction, so a replayed or raced request can never oversell.
func Checkout(svc checkoutsvc.Service, carts cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		cashierID, err := userIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCommitInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CommitSale(r.Context(), cashierID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// The sale is committed; a stale cart is cosmetic, not worth a 500.
		if carts != nil {
			if clearErr := carts.Clear(r.Context(), cashierID); clearErr != nil && logg != nil {
				logg.Warn(logg.WithField(r.Context(), "cashier_id", cashierID.String()), "cart.clear_after_sale_failed")
			}
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

type checkoutRequest struct {
	Lines         []checkoutLineRequest `json:"lines" validate:"required,min=1,dive"`
	PaymentMethod string                `json:"payment_method" validate:"required"`
	CashTendered  *int64                `json:"cash_tendered,omitempty" validate:"omitempty,gte=0"`
	Notes         *string               `json:"notes,omitempty"`
}

type checkoutLineRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

func (r checkoutRequest) toCommitInput() (checkoutsvc.CommitSaleInput, error) {
	method, err := enums.ParsePaymentMethod(r.PaymentMethod)
	if err != nil {
		return checkoutsvc.CommitSaleInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
	}

	lines := make([]checkoutsvc.CartLineInput, 0, len(r.Lines))
	for _, line := range r.Lines {
		lines = append(lines, checkoutsvc.CartLineInput{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}

	return checkoutsvc.CommitSaleInput{
		Lines:         lines,
		PaymentMethod: method,
		CashTendered:  r.CashTendered,
		Notes:         r.Notes,
	}, nil
}
