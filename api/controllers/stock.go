package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/inventory-service/api/responses"
	"github.com/angelmondragon/inventory-service/api/validators"
	product "github.com/angelmondragon/inventory-service/internal/products"
	pkgerrors "github.com/angelmondragon/inventory-service/pkg/errors"
	"github.com/angelmondragon/inventory-service/pkg/logger"
)

type stockAdjuster func(ctx context.Context, id string, quantity int) (*product.Product, error)

// IncreaseStock handles POST /api/stock/{id}/increase.
func IncreaseStock(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return unavailable(logg)
	}
	return adjustStock(svc.IncreaseStock, logg, "Stock increased successfully")
}

// DecreaseStock handles POST /api/stock/{id}/decrease. A quantity larger
// than the current stock is rejected with 400 "Insufficient stock".
func DecreaseStock(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return unavailable(logg)
	}
	return adjustStock(svc.DecreaseStock, logg, "Stock decreased successfully")
}

func adjustStock(adjust stockAdjuster, logg *logger.Logger, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := withProductID(r, logg)

		body, ok := validators.BodyFrom[validators.StockOperationBody](ctx)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "request body missing"))
			return
		}

		updated, err := adjust(ctx, chi.URLParam(r, "id"), body.Amount())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, http.StatusOK, message, updated)
	}
}

func unavailable(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
	}
}
