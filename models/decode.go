package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

var null = []byte("null")

// FieldError reports a required field that was absent or null.
type FieldError struct {
	Object string
	Field  string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("models: %s: missing required field %q", e.Object, e.Field)
}

func isNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), null)
}

// requireFields checks that data is an object carrying every field in fields with a non-null value.
func requireFields(data []byte, object string, fields []string) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("models: %s: %w", object, err)
	}

	for _, f := range fields {
		v, ok := raw[f]
		if !ok || isNull(v) {
			return &FieldError{Object: object, Field: f}
		}
	}
	return nil
}

// decodeObject validates the required fields of data and decodes it into v.
//
// v must not implement [json.Unmarshaler] itself; callers pass a method-less alias.
// A bare null is a no-op, the parent object decides whether null is allowed.
func decodeObject(data []byte, v any, object string, fields []string) error {
	if isNull(data) {
		return nil
	}
	if err := requireFields(data, object, fields); err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// Keyed decodes the single-field envelopes of the batch endpoints, such as {"tracks": [...]}.
//
// Key must be set before decoding; the field is required and may not be null.
type Keyed[T any] struct {
	Key   string
	Value T
}

func (k *Keyed[T]) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("models: %s envelope: %w", k.Key, err)
	}
	v, ok := raw[k.Key]
	if !ok || isNull(v) {
		return &FieldError{Object: k.Key + " envelope", Field: k.Key}
	}
	return json.Unmarshal(v, &k.Value)
}
