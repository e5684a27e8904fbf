package domain

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Optional fields distinguish "key absent" from "key present with null" from
// "key present with a value". Partial updates need all three states: an
// explicit null clears a nullable column, absence leaves it untouched.

var jsonNull = []byte("null")

// OptionalUUID is a tri-state nullable UUID for partial-update payloads.
type OptionalUUID struct {
	Set   bool
	Valid bool
	Value uuid.UUID
}

func (o *OptionalUUID) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(b, jsonNull) {
		o.Valid = false
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	o.Valid = true
	o.Value = id
	return nil
}

// Ptr returns the value as a nullable pointer, nil when null.
func (o OptionalUUID) Ptr() *uuid.UUID {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

// OptionalString is a tri-state nullable string for partial-update payloads.
type OptionalString struct {
	Set   bool
	Valid bool
	Value string
}

func (o *OptionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(b, jsonNull) {
		o.Valid = false
		return nil
	}
	if err := json.Unmarshal(b, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// Ptr returns the value as a nullable pointer, nil when null.
func (o OptionalString) Ptr() *string {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

// OptionalTime is a tri-state nullable timestamp for partial-update payloads.
type OptionalTime struct {
	Set   bool
	Valid bool
	Value time.Time
}

func (o *OptionalTime) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(b, jsonNull) {
		o.Valid = false
		return nil
	}
	if err := json.Unmarshal(b, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// Ptr returns the value as a nullable pointer, nil when null.
func (o OptionalTime) Ptr() *time.Time {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}
