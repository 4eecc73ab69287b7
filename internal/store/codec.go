package store

import (
	"bytes"
	"encoding/json"

	"github.com/go-faster/jx"
)

// Decode parses a collection document. Blank content and well-formed JSON
// that is not an array both yield an empty collection; anything else that
// fails to parse is returned as a *StorageError naming source.
func Decode[T any](data []byte, source string) ([]T, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}
	if err := jx.DecodeBytes(data).Validate(); err != nil {
		return nil, &StorageError{Op: "parse", Path: source, Err: err}
	}
	if jx.DecodeBytes(data).Next() != jx.Array {
		return []T{}, nil
	}

	records := []T{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &StorageError{Op: "parse", Path: source, Err: err}
	}
	return records, nil
}

// Encode renders records as a pretty-printed JSON array. A nil slice is
// encoded as an empty array.
func Encode[T any](records []T) ([]byte, error) {
	if records == nil {
		records = []T{}
	}
	return json.MarshalIndent(records, "", "  ")
}
