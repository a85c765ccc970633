package model

import (
	"bytes"
	"encoding/json"
	"reflect"

	"go-household-inventory/pkg/validator"
)

// NullableString tells an absent JSON field apart from an explicit null.
// Set is true whenever the key was present; Value is nil for null.
type NullableString struct {
	Set   bool
	Value *string
}

func SetString(v string) NullableString { return NullableString{Set: true, Value: &v} }

func NullString() NullableString { return NullableString{Set: true} }

func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

func init() {
	// Validate the carried string; absent and null both count as empty.
	validator.RegisterCustomType(func(field reflect.Value) interface{} {
		n, ok := field.Interface().(NullableString)
		if !ok || n.Value == nil {
			return nil
		}
		return *n.Value
	}, NullableString{})
}
