package product

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// SQLRepository stores products in the products table through GORM. Ids keep
// the 24-hex object id format so routes behave the same on every store.
type SQLRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSQLRepository builds a repository tied to the provided GORM DB.
func NewSQLRepository(db *gorm.DB) *SQLRepository {
	return &SQLRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (r *SQLRepository) Insert(ctx context.Context, p *Product) (*Product, error) {
	record := *p
	if err := prepareInsert(&record, r.now()); err != nil {
		return nil, err
	}
	record.ID = primitive.NewObjectID().Hex()
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *SQLRepository) FindAll(ctx context.Context) ([]Product, error) {
	return r.Find(ctx, Filter{})
}

// FindByID loads a single product.
func (r *SQLRepository) FindByID(ctx context.Context, id string) (*Product, error) {
	if _, err := parseID(id); err != nil {
		return nil, err
	}
	var record Product
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByIDAndUpdate reads, applies and saves. Concurrent writers on the same
// row can overwrite each other.
func (r *SQLRepository) FindByIDAndUpdate(ctx context.Context, id string, update ProductUpdate) (*Product, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}
	record, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyUpdate(record, update, r.now()); err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Save(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (r *SQLRepository) FindByIDAndDelete(ctx context.Context, id string) (*Product, error) {
	record, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	res := r.db.WithContext(ctx).Delete(&Product{}, "id = ?", id)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return record, nil
}

func (r *SQLRepository) Find(ctx context.Context, filter Filter) ([]Product, error) {
	query := r.db.WithContext(ctx).Model(&Product{})
	if filter.LowStock {
		query = query.Where("stock_quantity < low_stock_threshold")
	}
	out := make([]Product, 0)
	if err := query.Order("created_at ASC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
