package product

import (
	"bytes"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// ErrNotObject is returned by DecodeInput when the payload is not a JSON object.
var ErrNotObject = errors.New("product input must be a JSON object")

// Field is one attribute of client input, kept as raw JSON until the
// repository decides how to interpret it.
type Field struct {
	Set bool
	Raw jx.Raw
}

// Value returns a Field holding the JSON encoding of a literal, for callers
// building input in code rather than decoding it.
func Value(raw string) Field {
	return Field{Set: true, Raw: jx.Raw(raw)}
}

// Input is the whitelist of product attributes a client may send. Keys
// outside this list are discarded while decoding; ID is accepted but never
// applied.
type Input struct {
	ID          Field
	Title       Field
	Description Field
	Code        Field
	Price       Field
	Status      Field
	Stock       Field
	Category    Field
	Thumbnails  Field
}

// DecodeInput decodes a JSON object into an Input.
func DecodeInput(data []byte) (Input, error) {
	var in Input

	d := jx.DecodeBytes(data)
	if d.Next() != jx.Object {
		return in, ErrNotObject
	}
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		raw, err := d.Raw()
		if err != nil {
			return err
		}
		if f := in.field(string(key)); f != nil {
			*f = Field{Set: true, Raw: append(jx.Raw(nil), raw...)}
		}
		return nil
	})
	if err != nil {
		return Input{}, errors.Wrap(err, "decode product input")
	}
	return in, nil
}

func (in *Input) field(key string) *Field {
	switch key {
	case "id":
		return &in.ID
	case "title":
		return &in.Title
	case "description":
		return &in.Description
	case "code":
		return &in.Code
	case "price":
		return &in.Price
	case "status":
		return &in.Status
	case "stock":
		return &in.Stock
	case "category":
		return &in.Category
	case "thumbnails":
		return &in.Thumbnails
	default:
		return nil
	}
}

func (f Field) kind() jx.Type {
	if !f.Set {
		return jx.Invalid
	}
	return jx.DecodeBytes(f.Raw).Next()
}

// blank reports an absent, null or empty-string value.
func (f Field) blank() bool {
	switch f.kind() {
	case jx.Invalid, jx.Null:
		return true
	case jx.String:
		s, ok := f.text()
		return ok && s == ""
	default:
		return false
	}
}

func (f Field) text() (string, bool) {
	if f.kind() != jx.String {
		return "", false
	}
	s, err := jx.DecodeBytes(f.Raw).Str()
	if err != nil {
		return "", false
	}
	return s, true
}

func (f Field) boolean() (bool, bool) {
	if f.kind() != jx.Bool {
		return false, false
	}
	v, err := jx.DecodeBytes(f.Raw).Bool()
	if err != nil {
		return false, false
	}
	return v, true
}

// number accepts a JSON number or a string holding one.
func (f Field) number() (decimal.Decimal, bool) {
	var s string
	switch f.kind() {
	case jx.Number:
		s = string(bytes.TrimSpace(f.Raw))
	case jx.String:
		s, _ = f.text()
		s = strings.TrimSpace(s)
	default:
		return decimal.Zero, false
	}
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// list accepts a JSON array whose elements are all strings.
func (f Field) list() ([]string, bool) {
	if f.kind() != jx.Array {
		return nil, false
	}
	out := []string{}
	err := jx.DecodeBytes(f.Raw).Arr(func(d *jx.Decoder) error {
		s, err := d.Str()
		if err != nil {
			return err
		}
		out = append(out, s)
		return nil
	})
	if err != nil {
		return nil, false
	}
	return out, true
}
