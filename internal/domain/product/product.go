package product

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/ignaciociccioli3-cmd/Backend1/internal/store"
)

// Product represents a catalog item. Field order matches the on-disk layout.
type Product struct {
	ID          store.ID `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Code        string   `json:"code"`
	Price       float64  `json:"price"`
	Status      bool     `json:"status"`
	Stock       int64    `json:"stock"`
	Category    string   `json:"category"`
	Thumbnails  []string `json:"thumbnails"`
}

// RecordID implements store.Record.
func (p Product) RecordID() store.ID {
	return p.ID
}

func (p Product) clone() Product {
	p.Thumbnails = append([]string{}, p.Thumbnails...)
	return p
}

// UnmarshalJSON reads a stored product. Hand-edited collections may hold
// price and stock as numeric strings; those are converted, and values that
// are not numbers at all read as 0.
func (p *Product) UnmarshalJSON(data []byte) error {
	type plain Product
	aux := struct {
		*plain
		Price storedNumber `json:"price"`
		Stock storedNumber `json:"stock"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	p.Price = 0
	if f := aux.Price.InexactFloat64(); !math.IsInf(f, 0) && !math.IsNaN(f) {
		p.Price = f
	}
	p.Stock = 0
	if aux.Stock.LessThanOrEqual(maxStock) && aux.Stock.GreaterThanOrEqual(minStock) {
		p.Stock = aux.Stock.IntPart()
	}
	return nil
}

var (
	maxStock = decimal.NewFromInt(math.MaxInt64)
	minStock = decimal.NewFromInt(math.MinInt64)
)

// storedNumber is a leniently decoded number: a JSON number or a numeric
// string, with anything else read as zero.
type storedNumber struct {
	decimal.Decimal
}

func (n *storedNumber) UnmarshalJSON(data []byte) error {
	n.Decimal = decimal.Zero

	d := jx.DecodeBytes(data)
	switch d.Next() {
	case jx.Number:
		num, err := d.Num()
		if err != nil {
			return err
		}
		if v, err := decimal.NewFromString(num.String()); err == nil {
			n.Decimal = v
		}
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return err
		}
		if v, err := decimal.NewFromString(strings.TrimSpace(s)); err == nil {
			n.Decimal = v
		}
	default:
		return d.Skip()
	}
	return nil
}
