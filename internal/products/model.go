package product

import (
	"math"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/inventory-service/pkg/errors"
	"go.uber.org/multierr"
)

// MaxCounter bounds stock_quantity and low_stock_threshold. It matches the
// INTEGER columns of the products table.
const MaxCounter = math.MaxInt32

// Product is the only entity the service stores.
type Product struct {
	ID                string    `json:"id" gorm:"primaryKey;type:char(24)"`
	Name              string    `json:"name" gorm:"not null"`
	Description       string    `json:"description,omitempty"`
	StockQuantity     int       `json:"stock_quantity" gorm:"not null;default:0"`
	LowStockThreshold int       `json:"low_stock_threshold" gorm:"not null;default:0"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// EnforceStockFloor clamps a negative stock quantity to zero. Stores call it
// immediately before every write.
func (p *Product) EnforceStockFloor() {
	if p.StockQuantity < 0 {
		p.StockQuantity = 0
	}
}

// Normalize trims the free-text fields.
func (p *Product) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
}

// IsLowStock reports whether stock has fallen strictly below the threshold.
func (p Product) IsLowStock() bool {
	return p.StockQuantity < p.LowStockThreshold
}

// Validate checks the constraints a store enforces on a full record.
// Stock is not checked here because the floor clamp runs first.
func (p Product) Validate() error {
	var err error
	if strings.TrimSpace(p.Name) == "" {
		err = multierr.Append(err, pkgerrors.NewFieldError("name", "name is required"))
	}
	if p.StockQuantity > MaxCounter {
		err = multierr.Append(err, maximumError("stock_quantity", p.StockQuantity))
	}
	err = multierr.Append(err, checkCounter("low_stock_threshold", p.LowStockThreshold))
	return err
}

// ProductUpdate is a partial replacement. Nil fields are left untouched.
type ProductUpdate struct {
	Name              *string
	Description       *string
	StockQuantity     *int
	LowStockThreshold *int
}

// Validate re-runs the record constraints against the fields being replaced.
func (u ProductUpdate) Validate() error {
	var err error
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		err = multierr.Append(err, pkgerrors.NewFieldError("name", "name is required"))
	}
	if u.StockQuantity != nil {
		err = multierr.Append(err, checkCounter("stock_quantity", *u.StockQuantity))
	}
	if u.LowStockThreshold != nil {
		err = multierr.Append(err, checkCounter("low_stock_threshold", *u.LowStockThreshold))
	}
	return err
}

// Apply copies the set fields onto p and normalizes the result.
func (u ProductUpdate) Apply(p *Product) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.StockQuantity != nil {
		p.StockQuantity = *u.StockQuantity
	}
	if u.LowStockThreshold != nil {
		p.LowStockThreshold = *u.LowStockThreshold
	}
	p.Normalize()
}

func checkCounter(field string, value int) error {
	switch {
	case value < 0:
		return minimumError(field, value)
	case value > MaxCounter:
		return maximumError(field, value)
	}
	return nil
}

func minimumError(field string, value int) *pkgerrors.FieldError {
	return pkgerrors.NewFieldError(field, "%s (%d) is less than minimum allowed value (0)", field, value)
}

func maximumError(field string, value int) *pkgerrors.FieldError {
	return pkgerrors.NewFieldError(field, "%s (%d) is more than maximum allowed value (%d)", field, value, MaxCounter)
}
