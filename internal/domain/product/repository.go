// Package product implements the catalog: product records, their
// validation rules and the code uniqueness constraint.
package product

import (
	"context"
	"fmt"
	"sync"

	"github.com/ignaciociccioli3-cmd/Backend1/internal/domain"
	"github.com/ignaciociccioli3-cmd/Backend1/internal/store"
)

var requiredFields = []string{"title", "description", "code", "price", "stock", "category"}

// Repository owns the product collection. All mutations run a full
// load-mutate-save cycle under mu, so one Repository per collection must be
// shared by every caller in the process.
type Repository struct {
	mu       sync.Mutex
	products store.Collection[Product]
}

// NewRepository returns a Repository persisting to products.
func NewRepository(products store.Collection[Product]) *Repository {
	return &Repository{products: products}
}

// GetAll returns every product in insertion order.
func (r *Repository) GetAll(ctx context.Context) ([]Product, error) {
	products, err := r.products.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	return products, nil
}

// GetByID returns the product with the given id, or nil if there is none.
func (r *Repository) GetByID(ctx context.Context, id store.ID) (*Product, error) {
	products, err := r.products.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	if i := indexOf(products, id); i >= 0 {
		p := products[i]
		return &p, nil
	}
	return nil, nil
}

// Create validates in, assigns the next id and appends the product.
func (r *Repository) Create(ctx context.Context, in Input) (*Product, error) {
	p, err := newProduct(in)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.products.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	if codeTaken(products, p.Code, 0) {
		return nil, &domain.ConflictError{Field: "code", Value: p.Code}
	}

	p.ID = store.NextID(products)
	products = append(products, p)
	if err := r.products.Save(ctx, products); err != nil {
		return nil, fmt.Errorf("save products: %w", err)
	}
	return &p, nil
}

// Update applies the fields present in in to the product with the given id
// and returns the result, or nil if there is no such product. The id is
// never changed.
func (r *Repository) Update(ctx context.Context, id store.ID, in Input) (*Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.products.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	i := indexOf(products, id)
	if i < 0 {
		return nil, nil
	}

	updated, err := applyUpdate(products[i].clone(), in)
	if err != nil {
		return nil, err
	}
	if in.Code.Set && codeTaken(products, updated.Code, id) {
		return nil, &domain.ConflictError{Field: "code", Value: updated.Code}
	}
	updated.ID = products[i].ID

	products[i] = updated
	if err := r.products.Save(ctx, products); err != nil {
		return nil, fmt.Errorf("save products: %w", err)
	}
	return &updated, nil
}

// Delete removes the product with the given id and reports whether it
// existed. Carts referencing the product are left untouched.
func (r *Repository) Delete(ctx context.Context, id store.ID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.products.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("load products: %w", err)
	}

	kept := make([]Product, 0, len(products))
	for _, p := range products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(products) {
		return false, nil
	}

	if err := r.products.Save(ctx, kept); err != nil {
		return false, fmt.Errorf("save products: %w", err)
	}
	return true, nil
}

func indexOf(products []Product, id store.ID) int {
	for i := range products {
		if products[i].ID == id {
			return i
		}
	}
	return -1
}

// codeTaken reports whether any product other than self uses code.
func codeTaken(products []Product, code string, self store.ID) bool {
	for _, p := range products {
		if p.Code == code && (self == 0 || p.ID != self) {
			return true
		}
	}
	return false
}
