package product

import (
	"math"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/ignaciociccioli3-cmd/Backend1/internal/domain"
)

// newProduct builds a product from creation input. The id is left unset.
func newProduct(in Input) (Product, error) {
	var missing []string
	for _, name := range requiredFields {
		if in.field(name).blank() {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return Product{}, domain.MissingFields(missing...)
	}

	price, priceOK := in.Price.number()
	stock, stockOK := in.Stock.number()
	if !priceOK || !stockOK {
		return Product{}, domain.Invalid("price and stock must be numbers", "price", "stock")
	}

	p := Product{Status: true, Thumbnails: []string{}}
	for _, t := range []struct {
		name string
		dst  *string
	}{
		{"title", &p.Title},
		{"description", &p.Description},
		{"code", &p.Code},
		{"category", &p.Category},
	} {
		s, ok := in.field(t.name).text()
		if !ok {
			return Product{}, domain.Invalid(t.name+" must be a string", t.name)
		}
		*t.dst = s
	}

	var err error
	if p.Price, err = checkPrice(price); err != nil {
		return Product{}, err
	}
	if p.Stock, err = checkStock(stock); err != nil {
		return Product{}, err
	}
	if v, ok := in.Status.boolean(); ok {
		p.Status = v
	}
	if in.Thumbnails.kind() == jx.Array {
		thumbs, ok := in.Thumbnails.list()
		if !ok {
			return Product{}, invalidThumbnails()
		}
		p.Thumbnails = thumbs
	}
	return p, nil
}

// applyUpdate merges the fields present in in over p. Each attribute has
// its own rule; absent fields keep their stored value.
func applyUpdate(p Product, in Input) (Product, error) {
	for _, t := range []struct {
		name string
		dst  *string
	}{
		{"code", &p.Code},
		{"title", &p.Title},
		{"description", &p.Description},
		{"category", &p.Category},
	} {
		f := in.field(t.name)
		if !f.Set {
			continue
		}
		s, ok := f.text()
		if !ok {
			return Product{}, domain.Invalid(t.name+" must be a string", t.name)
		}
		*t.dst = s
	}

	if in.Price.Set {
		price, ok := in.Price.number()
		if !ok {
			return Product{}, domain.Invalid("price must be a number", "price")
		}
		v, err := checkPrice(price)
		if err != nil {
			return Product{}, err
		}
		p.Price = v
	}
	if in.Stock.Set {
		stock, ok := in.Stock.number()
		if !ok {
			return Product{}, domain.Invalid("stock must be a number", "stock")
		}
		v, err := checkStock(stock)
		if err != nil {
			return Product{}, err
		}
		p.Stock = v
	}
	if in.Status.Set {
		v, ok := in.Status.boolean()
		if !ok {
			return Product{}, domain.Invalid("status must be a boolean", "status")
		}
		p.Status = v
	}
	if in.Thumbnails.Set {
		thumbs, ok := in.Thumbnails.list()
		if !ok {
			return Product{}, invalidThumbnails()
		}
		p.Thumbnails = thumbs
	}
	return p, nil
}

func invalidThumbnails() error {
	return domain.Invalid("thumbnails must be an array of strings", "thumbnails")
}

func checkPrice(d decimal.Decimal) (float64, error) {
	if d.IsNegative() {
		return 0, domain.Invalid("price must not be negative", "price")
	}
	f := d.InexactFloat64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, domain.Invalid("price is out of range", "price")
	}
	return f, nil
}

func checkStock(d decimal.Decimal) (int64, error) {
	if d.IsNegative() || !d.IsInteger() || d.GreaterThan(maxStock) {
		return 0, domain.Invalid("stock must be a non-negative integer", "stock")
	}
	return d.IntPart(), nil
}
