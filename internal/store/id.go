package store

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-faster/jx"
)

// ID is a record identifier. Collections written by older tooling may hold
// ids as strings; numeric strings are accepted and anything else reads as 0.
type ID int64

// Record is implemented by every type stored in a collection.
type Record interface {
	RecordID() ID
}

// ParseID parses a positive identifier taken from outside the store.
func ParseID(s string) (ID, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return ID(n), true
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	d := jx.DecodeBytes(data)
	switch d.Next() {
	case jx.Number:
		f, err := d.Float64()
		if err != nil {
			return err
		}
		*id = ID(f)
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return err
		}
		*id = legacyID(s)
	default:
		if err := d.Skip(); err != nil {
			return err
		}
		*id = 0
	}
	return nil
}

func legacyID(s string) ID {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return ID(f)
}

// NextID returns the identifier for a new record: one past the highest
// existing id, or 1 for an empty collection. Freed ids are never reused.
func NextID[T Record](records []T) ID {
	var highest ID
	for _, r := range records {
		if id := r.RecordID(); id > highest {
			highest = id
		}
	}
	return highest + 1
}
