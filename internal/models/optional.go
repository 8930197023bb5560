package models

import (
	"bytes"
	"encoding/json"
)

// OptionalFloat distinguishes the three states a patch field can be in:
// absent from the body, explicitly null, or set to a value. A plain pointer
// field cannot tell "absent" from "null", which matters for clearing
// compareAtPrice.
type OptionalFloat struct {
	Set   bool
	Valid bool
	Value float64
}

func (o *OptionalFloat) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		o.Valid = false
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}
