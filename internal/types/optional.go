package types

import (
	"bytes"
	"encoding/json"
)

// Optional scalars used by the session document schema. Client
// documents are best-effort: a field that is missing, null, or of the
// wrong JSON type decodes to absent instead of failing the whole
// document.

var jsonNull = []byte("null")

func isNull(b []byte) bool { return bytes.Equal(bytes.TrimSpace(b), jsonNull) }

type OptString struct {
	value *string
}

func (o *OptString) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		o.value = nil
		return nil
	}
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		o.value = nil
		return nil
	}
	o.value = &v
	return nil
}

func (o OptString) MarshalJSON() ([]byte, error) { return json.Marshal(o.value) }

// Ptr returns the decoded value, or nil when absent.
func (o OptString) Ptr() *string { return o.value }

// Value returns the decoded value and whether it was present.
func (o OptString) Value() (string, bool) {
	if o.value == nil {
		return "", false
	}
	return *o.value, true
}

type OptInt struct {
	value *int
}

func (o *OptInt) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		o.value = nil
		return nil
	}
	var v int
	if err := json.Unmarshal(b, &v); err != nil {
		o.value = nil
		return nil
	}
	o.value = &v
	return nil
}

func (o OptInt) MarshalJSON() ([]byte, error) { return json.Marshal(o.value) }

func (o OptInt) Ptr() *int { return o.value }

type OptInt64 struct {
	value *int64
}

func (o *OptInt64) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		o.value = nil
		return nil
	}
	var v int64
	if err := json.Unmarshal(b, &v); err != nil {
		o.value = nil
		return nil
	}
	o.value = &v
	return nil
}

func (o OptInt64) MarshalJSON() ([]byte, error) { return json.Marshal(o.value) }

func (o OptInt64) Ptr() *int64 { return o.value }

type OptFloat struct {
	value *float64
}

func (o *OptFloat) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		o.value = nil
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		o.value = nil
		return nil
	}
	o.value = &v
	return nil
}

func (o OptFloat) MarshalJSON() ([]byte, error) { return json.Marshal(o.value) }

func (o OptFloat) Ptr() *float64 { return o.value }
