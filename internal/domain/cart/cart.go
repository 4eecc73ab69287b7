// Package cart implements shopping carts whose lines reference catalog
// products by id.
package cart

import (
	"context"

	"github.com/ignaciociccioli3-cmd/Backend1/internal/domain/product"
	"github.com/ignaciociccioli3-cmd/Backend1/internal/store"
)

// Cart is an ordered list of lines, at most one per product.
type Cart struct {
	ID       store.ID `json:"id"`
	Products []Line   `json:"products"`
}

// Line links a product id to a quantity. The product is only checked for
// existence when the line is first added or incremented.
type Line struct {
	Product  store.ID `json:"product"`
	Quantity int      `json:"quantity"`
}

// RecordID implements store.Record.
func (c Cart) RecordID() store.ID {
	return c.ID
}

// ProductLookup resolves product ids. GetByID returns nil when the product
// does not exist.
type ProductLookup interface {
	GetByID(ctx context.Context, id store.ID) (*product.Product, error)
}

var _ ProductLookup = (*product.Repository)(nil)
