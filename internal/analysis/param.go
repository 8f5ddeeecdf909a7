// SPDX-License-Identifier: MIT
package analysis

import (
	"encoding/json"
	"math"
)

// Param is an optional real-valued parameter. The zero value is unset, which
// keeps a deliberate 0 distinguishable from "not provided".
type Param struct {
	value float64
	set   bool
}

// Value returns a Param holding v.
func Value(v float64) Param {
	return Param{value: v, set: true}
}

// Unset returns an empty Param.
func Unset() Param {
	return Param{}
}

// Get returns the value and whether it was provided.
func (p Param) Get() (float64, bool) {
	return p.value, p.set
}

// IsSet reports whether a value was provided.
func (p Param) IsSet() bool {
	return p.set
}

// Or returns the value if it was provided and finite, otherwise def.
func (p Param) Or(def float64) float64 {
	if !p.set || math.IsNaN(p.value) || math.IsInf(p.value, 0) {
		return def
	}
	return p.value
}

// MarshalJSON encodes an unset Param as null.
func (p Param) MarshalJSON() ([]byte, error) {
	if !p.set {
		return []byte("null"), nil
	}
	return json.Marshal(p.value)
}

// UnmarshalJSON decodes null as unset and any number as set.
func (p *Param) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*p = Param{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = Value(v)
	return nil
}
