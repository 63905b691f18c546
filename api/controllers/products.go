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

// CreateProduct handles POST /api/products. The body has already been
// validated by validators.Body[validators.CreateProductBody].
func CreateProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !serviceReady(w, r, svc, logg) {
			return
		}
		body, ok := validators.BodyFrom[validators.CreateProductBody](r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "request body missing"))
			return
		}

		created, err := svc.CreateProduct(r.Context(), body.Input())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusCreated, "Product created successfully", created)
	}
}

func ListProducts(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !serviceReady(w, r, svc, logg) {
			return
		}
		items, err := svc.ListProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, http.StatusOK, "Products fetched successfully", items)
	}
}

func GetProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !serviceReady(w, r, svc, logg) {
			return
		}
		ctx := withProductID(r, logg)

		item, err := svc.GetProduct(ctx, chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, http.StatusOK, "Product fetched successfully", item)
	}
}

// UpdateProduct applies a partial update; omitted fields keep their values.
func UpdateProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !serviceReady(w, r, svc, logg) {
			return
		}
		ctx := withProductID(r, logg)

		body, ok := validators.BodyFrom[validators.UpdateProductBody](ctx)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "request body missing"))
			return
		}

		updated, err := svc.UpdateProduct(ctx, chi.URLParam(r, "id"), body.Update())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, http.StatusOK, "Product updated successfully", updated)
	}
}

func DeleteProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !serviceReady(w, r, svc, logg) {
			return
		}
		ctx := withProductID(r, logg)

		if err := svc.DeleteProduct(ctx, chi.URLParam(r, "id")); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, http.StatusOK, "Product deleted successfully", nil)
	}
}

// LowStockProducts lists products whose stock is strictly below their threshold.
func LowStockProducts(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !serviceReady(w, r, svc, logg) {
			return
		}
		items, err := svc.ListLowStockProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, http.StatusOK, "Low stock products fetched successfully", items)
	}
}

func serviceReady(w http.ResponseWriter, r *http.Request, svc product.Service, logg *logger.Logger) bool {
	if svc != nil {
		return true
	}
	unavailable(logg)(w, r)
	return false
}

func withProductID(r *http.Request, logg *logger.Logger) context.Context {
	if logg == nil {
		return r.Context()
	}
	return logg.WithProductID(r.Context(), chi.URLParam(r, "id"))
}
