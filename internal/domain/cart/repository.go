package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/ignaciociccioli3-cmd/Backend1/internal/domain"
	"github.com/ignaciociccioli3-cmd/Backend1/internal/store"
)

// Repository owns the cart collection.
type Repository struct {
	mu    sync.Mutex
	carts store.Collection[Cart]
}

// NewRepository returns a Repository persisting to carts.
func NewRepository(carts store.Collection[Cart]) *Repository {
	return &Repository{carts: carts}
}

// Create appends an empty cart with the next free id.
func (r *Repository) Create(ctx context.Context) (*Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	carts, err := r.carts.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load carts: %w", err)
	}

	c := Cart{ID: store.NextID(carts), Products: []Line{}}
	carts = append(carts, c)
	if err := r.carts.Save(ctx, carts); err != nil {
		return nil, fmt.Errorf("save carts: %w", err)
	}
	return &c, nil
}

// GetByID returns the cart with the given id, or nil if there is none.
func (r *Repository) GetByID(ctx context.Context, id store.ID) (*Cart, error) {
	carts, err := r.carts.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load carts: %w", err)
	}
	if i := indexOf(carts, id); i >= 0 {
		c := carts[i]
		return &c, nil
	}
	return nil, nil
}

// AddProduct adds one unit of productID to the cart. The product must exist
// according to products at call time. An existing line is incremented
// instead of duplicated.
func (r *Repository) AddProduct(ctx context.Context, cartID, productID store.ID, products ProductLookup) (*Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	carts, err := r.carts.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load carts: %w", err)
	}
	i := indexOf(carts, cartID)
	if i < 0 {
		return nil, &domain.NotFoundError{Entity: "Cart", ID: int64(cartID)}
	}

	p, err := products.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("lookup product %d: %w", productID, err)
	}
	if p == nil {
		return nil, &domain.NotFoundError{Entity: "Product", ID: int64(productID)}
	}

	c := &carts[i]
	if c.Products == nil {
		c.Products = []Line{}
	}
	if j := lineOf(c.Products, productID); j >= 0 {
		c.Products[j].Quantity++
	} else {
		c.Products = append(c.Products, Line{Product: productID, Quantity: 1})
	}

	if err := r.carts.Save(ctx, carts); err != nil {
		return nil, fmt.Errorf("save carts: %w", err)
	}
	out := *c
	return &out, nil
}

func indexOf(carts []Cart, id store.ID) int {
	for i := range carts {
		if carts[i].ID == id {
			return i
		}
	}
	return -1
}

func lineOf(lines []Line, productID store.ID) int {
	for i := range lines {
		if lines[i].Product == productID {
			return i
		}
	}
	return -1
}
