package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/inventory-service/pkg/db"
	pkgerrors "github.com/angelmondragon/inventory-service/pkg/errors"
	"github.com/angelmondragon/inventory-service/pkg/metrics"
)

const (
	msgNotFound          = "Product not found"
	msgInsufficientStock = "Insufficient stock"
	msgStockLimit        = "Stock quantity limit exceeded"
)

// Service exposes product and stock operations.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*Product, error)
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	UpdateProduct(ctx context.Context, id string, update ProductUpdate) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ListLowStockProducts(ctx context.Context) ([]Product, error)
	IncreaseStock(ctx context.Context, id string, quantity int) (*Product, error)
	DecreaseStock(ctx context.Context, id string, quantity int) (*Product, error)
}

// CreateProductInput holds the validated payload to create a product.
// Omitted counters default to zero.
type CreateProductInput struct {
	Name              string
	Description       *string
	StockQuantity     *int
	LowStockThreshold *int
}

func (in CreateProductInput) toProduct() *Product {
	p := &Product{Name: in.Name}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.StockQuantity != nil {
		p.StockQuantity = *in.StockQuantity
	}
	if in.LowStockThreshold != nil {
		p.LowStockThreshold = *in.LowStockThreshold
	}
	return p
}

type service struct {
	repo  Repository
	stock *metrics.StockMetrics
}

// NewService constructs a product service. stockMetrics may be nil.
func NewService(repo Repository, stockMetrics *metrics.StockMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo, stock: stockMetrics}, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*Product, error) {
	created, err := s.repo.Insert(ctx, input.toProduct())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to create product")
	}
	return created, nil
}

func (s *service) ListProducts(ctx context.Context) ([]Product, error) {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to fetch products")
	}
	return nonNil(items), nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, classify(err, "Failed to fetch product")
	}
	return found, nil
}

func (s *service) UpdateProduct(ctx context.Context, id string, update ProductUpdate) (*Product, error) {
	updated, err := s.repo.FindByIDAndUpdate(ctx, id, update)
	if err != nil {
		return nil, classify(err, "Failed to update product")
	}
	return updated, nil
}

func (s *service) DeleteProduct(ctx context.Context, id string) error {
	if _, err := s.repo.FindByIDAndDelete(ctx, id); err != nil {
		return classify(err, "Failed to delete product")
	}
	return nil
}

func (s *service) ListLowStockProducts(ctx context.Context) ([]Product, error) {
	items, err := s.repo.Find(ctx, Filter{LowStock: true})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to fetch low stock products")
	}
	return nonNil(items), nil
}

func (s *service) IncreaseStock(ctx context.Context, id string, quantity int) (*Product, error) {
	const fallback = "Failed to increase stock"
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, classify(err, fallback)
	}

	if quantity > MaxCounter-current.StockQuantity {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgStockLimit).
			WithDetails(map[string]int{"available": current.StockQuantity, "requested": quantity, "limit": MaxCounter})
	}

	next := current.StockQuantity + quantity
	updated, err := s.repo.FindByIDAndUpdate(ctx, id, ProductUpdate{StockQuantity: &next})
	if err != nil {
		return nil, classify(err, fallback)
	}
	s.stock.Applied(metrics.DirectionIncrease, quantity)
	return updated, nil
}

func (s *service) DecreaseStock(ctx context.Context, id string, quantity int) (*Product, error) {
	const fallback = "Failed to decrease stock"
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, classify(err, fallback)
	}

	if quantity > current.StockQuantity {
		s.stock.Rejected(metrics.DirectionDecrease)
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, msgInsufficientStock).
			WithDetails(map[string]int{"available": current.StockQuantity, "requested": quantity})
	}

	next := current.StockQuantity - quantity
	updated, err := s.repo.FindByIDAndUpdate(ctx, id, ProductUpdate{StockQuantity: &next})
	if err != nil {
		return nil, classify(err, fallback)
	}
	s.stock.Applied(metrics.DirectionDecrease, quantity)
	return updated, nil
}

// classify turns a repository failure into the error handed to the HTTP
// layer. Store failures the error middleware knows how to describe are
// forwarded as they are; everything else collapses into fallback.
func classify(err error, fallback string) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, msgNotFound)
	case pkgerrors.As(err) != nil:
		return err
	case errors.Is(err, db.ErrInvalidID),
		db.IsUniqueViolation(err, ""),
		len(pkgerrors.FieldMessages(err)) > 0:
		return err
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fallback)
	}
}

func nonNil(items []Product) []Product {
	if items == nil {
		return []Product{}
	}
	return items
}
