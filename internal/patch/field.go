// Package patch provides a tri-state field used by partial-update payloads.
//
// A Field distinguishes three cases that a plain pointer cannot:
// the key was omitted (leave the stored value alone), the key was sent as
// null (clear the stored value), or the key carried a value (replace it).
package patch

import (
	"bytes"
	"encoding/json"
)

type state uint8

const (
	unset state = iota
	null
	value
)

// Field is the zero-value-is-Unset tri-state wrapper.
type Field[T any] struct {
	state state
	v     T
}

// Unset returns a field that leaves the target untouched.
func Unset[T any]() Field[T] { return Field[T]{} }

// Null returns a field that clears the target.
func Null[T any]() Field[T] { return Field[T]{state: null} }

// Set returns a field that replaces the target with v.
func Set[T any](v T) Field[T] { return Field[T]{state: value, v: v} }

// FromPtr maps nil to Null and a non-nil pointer to Set.
func FromPtr[T any](p *T) Field[T] {
	if p == nil {
		return Null[T]()
	}
	return Set(*p)
}

func (f Field[T]) IsUnset() bool { return f.state == unset }
func (f Field[T]) IsNull() bool  { return f.state == null }
func (f Field[T]) IsSet() bool   { return f.state == value }

// Value returns the carried value and whether one is present.
func (f Field[T]) Value() (T, bool) {
	return f.v, f.state == value
}

// Apply folds the field into a nullable target.
func (f Field[T]) Apply(dst **T) {
	switch f.state {
	case null:
		*dst = nil
	case value:
		v := f.v
		*dst = &v
	}
}

// ApplyValue folds the field into a non-nullable target; Null resets it to
// the zero value.
func (f Field[T]) ApplyValue(dst *T) {
	switch f.state {
	case null:
		var zero T
		*dst = zero
	case value:
		*dst = f.v
	}
}

// Or returns the carried value, or fallback when the field is unset. A null
// field yields nil.
func (f Field[T]) Or(fallback *T) *T {
	switch f.state {
	case null:
		return nil
	case value:
		v := f.v
		return &v
	}
	return fallback
}

// MarshalJSON encodes Null and Unset as null. Use the omitzero struct tag so
// unset fields are dropped from the payload entirely.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if f.state != value {
		return []byte("null"), nil
	}
	return json.Marshal(f.v)
}

// UnmarshalJSON is only invoked for keys present in the payload, so a
// missing key keeps the zero (Unset) state.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = Null[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Set(v)
	return nil
}

// IsZero reports whether the field is Unset; encoding/json consults it for
// the omitzero tag option.
func (f Field[T]) IsZero() bool {
	return f.state == unset
}
