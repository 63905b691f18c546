package product

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/inventory-service/pkg/db"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when no product matches the requested id.
var ErrNotFound = errors.New("product not found")

// Filter narrows Find. The zero value matches every product.
type Filter struct {
	// LowStock keeps products whose stock is strictly below their threshold.
	LowStock bool
}

// Matches evaluates the filter in memory.
func (f Filter) Matches(p Product) bool {
	if f.LowStock && !p.IsLowStock() {
		return false
	}
	return true
}

// Repository is the persistence surface the service is written against.
// Implementations apply the stock floor before every write and re-validate
// partial updates.
type Repository interface {
	Insert(ctx context.Context, p *Product) (*Product, error)
	FindAll(ctx context.Context) ([]Product, error)
	FindByID(ctx context.Context, id string) (*Product, error)
	FindByIDAndUpdate(ctx context.Context, id string, update ProductUpdate) (*Product, error)
	FindByIDAndDelete(ctx context.Context, id string) (*Product, error)
	Find(ctx context.Context, filter Filter) ([]Product, error)
}

// parseID decodes a hex object id, mapping malformed ids to db.ErrInvalidID.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, db.ErrInvalidID
	}
	return oid, nil
}

// prepareInsert stamps a new record and checks it the way every store does.
func prepareInsert(p *Product, now time.Time) error {
	p.Normalize()
	p.EnforceStockFloor()
	if err := p.Validate(); err != nil {
		return err
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

// applyUpdate mutates existing in place after re-validating the update.
func applyUpdate(existing *Product, update ProductUpdate, now time.Time) error {
	if err := update.Validate(); err != nil {
		return err
	}
	update.Apply(existing)
	existing.EnforceStockFloor()
	existing.UpdatedAt = now
	return nil
}
