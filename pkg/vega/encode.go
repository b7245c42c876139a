package vega

import (
	"github.com/goccy/go-json"
)

// Encode maps data fields to visual channels, split into the initial enter
// phase and the reactive update phase.
type Encode struct {
	Enter  Set `json:"enter,omitempty"`
	Update Set `json:"update,omitempty"`
	Hover  Set `json:"hover,omitempty"`
}

// Set maps channel names (x, y, fill, ...) to channel values. Maps marshal
// with sorted keys, keeping spec bytes deterministic.
type Set map[string]Channel

// Channel is the value bound to one visual channel. A single entry marshals
// as an object; multiple entries marshal as a conditional array where every
// entry except the last carries a test expression.
type Channel []Value

// Value is one entry of a channel binding. Exactly one of Value, Field,
// Band, or Signal is normally set; Scale and Test modify the binding.
type Value struct {
	Test   string  `json:"test,omitempty"`
	Value  any     `json:"value,omitempty"`
	Field  any     `json:"field,omitempty"`
	Scale  string  `json:"scale,omitempty"`
	Band   any     `json:"band,omitempty"`
	Signal string  `json:"signal,omitempty"`
	Offset float64 `json:"offset,omitempty"`
	Mult   float64 `json:"mult,omitempty"`
}

// MarshalJSON collapses single-entry channels to a bare object.
func (c Channel) MarshalJSON() ([]byte, error) {
	if len(c) == 1 {
		return json.Marshal(c[0])
	}
	return json.Marshal([]Value(c))
}

// UnmarshalJSON accepts both the object and the conditional-array form.
func (c *Channel) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '[' {
		return json.Unmarshal(b, (*[]Value)(c))
	}
	var v Value
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*c = Channel{v}
	return nil
}

// =============================================================================
// Channel Constructors
// =============================================================================

// V binds a literal value.
func V(v any) Channel { return Channel{{Value: v}} }

// F binds a data field.
func F(field string) Channel { return Channel{{Field: field}} }

// SF binds a data field through a scale.
func SF(scale, field string) Channel { return Channel{{Scale: scale, Field: field}} }

// SV binds a literal value through a scale.
func SV(scale string, v any) Channel { return Channel{{Scale: scale, Value: v}} }

// Sig binds a renderer-evaluated expression.
func Sig(expr string) Channel { return Channel{{Signal: expr}} }

// GroupField binds a field of the enclosing group datum (facet key access
// inside nested marks).
func GroupField(field string) Channel {
	return Channel{{Field: map[string]any{"parent": field}}}
}

// BandWidth binds the full band width of a band scale.
func BandWidth(scale string) Channel { return Channel{{Scale: scale, Band: 1.0}} }
