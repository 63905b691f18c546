package product

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepository keeps products in process. It backs tests and local runs
// without a database.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]Product
	order []string
	now   func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		items: make(map[string]Product),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryRepository) Insert(_ context.Context, p *Product) (*Product, error) {
	record := *p
	if err := prepareInsert(&record, r.now()); err != nil {
		return nil, err
	}
	record.ID = primitive.NewObjectID().Hex()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[record.ID] = record
	r.order = append(r.order, record.ID)
	return &record, nil
}

func (r *MemoryRepository) FindAll(ctx context.Context) ([]Product, error) {
	return r.Find(ctx, Filter{})
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (*Product, error) {
	if _, err := parseID(id); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &record, nil
}

func (r *MemoryRepository) FindByIDAndUpdate(_ context.Context, id string, update ProductUpdate) (*Product, error) {
	if _, err := parseID(id); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := applyUpdate(&record, update, r.now()); err != nil {
		return nil, err
	}
	r.items[id] = record
	return &record, nil
}

func (r *MemoryRepository) FindByIDAndDelete(_ context.Context, id string) (*Product, error) {
	if _, err := parseID(id); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(r.items, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return &record, nil
}

func (r *MemoryRepository) Find(_ context.Context, filter Filter) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Product, 0, len(r.order))
	for _, id := range r.order {
		if record := r.items[id]; filter.Matches(record) {
			out = append(out, record)
		}
	}
	return out, nil
}

// Ping always succeeds.
func (r *MemoryRepository) Ping(context.Context) error {
	return nil
}
