package vega

import (
	"github.com/goccy/go-json"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Schema is the Vega schema URL stamped on every emitted spec.
const Schema = "https://vega.github.io/schema/vega/v5.json"

// TableName is the reserved name of the primary per-observation data source.
// It is present exactly once in every merged spec.
const TableName = "table"

// Scale kinds.
const (
	ScaleLinear     = "linear"
	ScaleBand       = "band"
	ScaleOrdinal    = "ordinal"
	ScaleSequential = "sequential"
)

// Mark types.
const (
	MarkSymbol = "symbol"
	MarkLine   = "line"
	MarkRect   = "rect"
	MarkRule   = "rule"
	MarkArea   = "area"
	MarkGroup  = "group"
)

// Canonical scale names shared by all layer fragments. The merge engine
// deduplicates by name so independently-built layers land on the same axes.
const (
	XScaleName     = "xscale"
	YScaleName     = "yscale"
	ColorScaleName = "color"
)

// =============================================================================
// Spec - Final Artifact
// =============================================================================

// Spec is the complete renderer-ready scene-graph specification.
// It is immutable once produced by the merge engine.
type Spec struct {
	Schema   string   `json:"$schema"`
	Width    float64  `json:"width"`
	Height   float64  `json:"height"`
	Padding  *Padding `json:"padding,omitempty"`
	Autosize string   `json:"autosize,omitempty"`
	Title    *Title   `json:"title,omitempty"`
	Data     []Data   `json:"data"`
	Signals  []Signal `json:"signals,omitempty"`
	Scales   []Scale  `json:"scales"`
	Axes     []Axis   `json:"axes"`
	Legends  []Legend `json:"legends,omitempty"`
	Marks    []Mark   `json:"marks"`
}

// Padding is the fixed pixel padding around the plotting area.
type Padding struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// Title is the optional plot title.
type Title struct {
	Text     string  `json:"text"`
	FontSize float64 `json:"fontSize,omitempty"`
	Anchor   string  `json:"anchor,omitempty"`
}

// =============================================================================
// Data Sources
// =============================================================================

// Data is a named data source. Exactly one of Values or Source is set for
// derived sources; the primary table carries Values directly.
type Data struct {
	Name      string      `json:"name"`
	Source    string      `json:"source,omitempty"`
	Values    any         `json:"values,omitempty"`
	Transform []Transform `json:"transform,omitempty"`
	On        []Trigger   `json:"on,omitempty"`
}

// Transform is a declarative data-space operation applied in order.
type Transform struct {
	Type  string   `json:"type"`
	Expr  string   `json:"expr,omitempty"`
	Field string   `json:"field,omitempty"`
	Sort  *Compare `json:"sort,omitempty"`
	As    []string `json:"as,omitempty"`
}

// Compare orders rows by a field.
type Compare struct {
	Field string `json:"field"`
	Order string `json:"order,omitempty"`
}

// Trigger mutates a stateful data source in response to a signal. Used by
// the interactive legend's selected-set protocol.
type Trigger struct {
	Trigger string `json:"trigger"`
	Insert  string `json:"insert,omitempty"`
	Remove  any    `json:"remove,omitempty"`
	Toggle  string `json:"toggle,omitempty"`
}

// =============================================================================
// Scales and Axes
// =============================================================================

// Scale maps a data domain to a visual range.
type Scale struct {
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Domain  *Domain `json:"domain,omitempty"`
	Range   any     `json:"range,omitempty"`
	Padding float64 `json:"padding,omitempty"`
	Round   bool    `json:"round,omitempty"`
	Nice    bool    `json:"nice,omitempty"`
	Zero    *bool   `json:"zero,omitempty"`
}

// Domain is either a declarative reference against a named data source or a
// literal value range (used only where builders force explicit floors, e.g.
// histogram count axes).
type Domain struct {
	Data   string `json:"data,omitempty"`
	Field  string `json:"field,omitempty"`
	Values []any  `json:"-"`
}

// MarshalJSON emits literal domains as a bare array and references as an
// object, matching the Vega grammar.
func (d Domain) MarshalJSON() ([]byte, error) {
	if d.Values != nil {
		return json.Marshal(d.Values)
	}
	type ref struct {
		Data  string `json:"data"`
		Field string `json:"field"`
	}
	return json.Marshal(ref{Data: d.Data, Field: d.Field})
}

// UnmarshalJSON accepts both domain forms for round-trip tests.
func (d *Domain) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '[' {
		return json.Unmarshal(b, &d.Values)
	}
	var ref struct {
		Data  string `json:"data"`
		Field string `json:"field"`
	}
	if err := json.Unmarshal(b, &ref); err != nil {
		return err
	}
	d.Data, d.Field = ref.Data, ref.Field
	return nil
}

// RefDomain builds a domain reference against a named source field.
func RefDomain(data, field string) *Domain {
	return &Domain{Data: data, Field: field}
}

// LiteralDomain builds an explicit value-range domain.
func LiteralDomain(values ...any) *Domain {
	return &Domain{Values: values}
}

// Axis draws a scale against one side of the plotting area.
type Axis struct {
	Orient     string  `json:"orient"`
	Scale      string  `json:"scale"`
	Title      string  `json:"title,omitempty"`
	Grid       bool    `json:"grid,omitempty"`
	TickCount  int     `json:"tickCount,omitempty"`
	LabelAngle float64 `json:"labelAngle,omitempty"`
	Zindex     int     `json:"zindex,omitempty"`
}

// =============================================================================
// Marks
// =============================================================================

// Mark is a renderable visual primitive bound to a data source and an
// encoding. Group marks nest a facet partition and inner marks; they may
// also carry group-local scales (grouped-bar inner positioning).
type Mark struct {
	Type        string   `json:"type"`
	Name        string   `json:"name,omitempty"`
	Interactive bool     `json:"interactive,omitempty"`
	From        *From    `json:"from,omitempty"`
	Sort        *Compare `json:"sort,omitempty"`
	Encode      *Encode  `json:"encode,omitempty"`
	Signals     []Signal `json:"signals,omitempty"`
	Scales      []Scale  `json:"scales,omitempty"`
	Marks       []Mark   `json:"marks,omitempty"`
}

// From binds a mark to a flat data source or to a facet partition.
type From struct {
	Data  string `json:"data,omitempty"`
	Facet *Facet `json:"facet,omitempty"`
}

// Facet partitions a data source into per-key groups for nested marks.
type Facet struct {
	Name    string `json:"name"`
	Data    string `json:"data"`
	GroupBy string `json:"groupby"`
}

// =============================================================================
// Legends and Signals
// =============================================================================

// Legend describes legend chrome bound to a color scale. The interactive
// variant names its symbol and label marks so click events can be captured
// by signals.
type Legend struct {
	Fill   string        `json:"fill,omitempty"`
	Stroke string        `json:"stroke,omitempty"`
	Title  string        `json:"title,omitempty"`
	Orient string        `json:"orient,omitempty"`
	Encode *LegendEncode `json:"encode,omitempty"`
}

// LegendEncode customizes legend sub-elements.
type LegendEncode struct {
	Symbols *LegendBlock `json:"symbols,omitempty"`
	Labels  *LegendBlock `json:"labels,omitempty"`
}

// LegendBlock is the encode block for one legend sub-element.
type LegendBlock struct {
	Name        string `json:"name,omitempty"`
	Interactive bool   `json:"interactive,omitempty"`
	Enter       Set    `json:"enter,omitempty"`
	Update      Set    `json:"update,omitempty"`
}

// Signal is a reactive variable evaluated by the renderer.
type Signal struct {
	Name   string        `json:"name"`
	Value  any           `json:"value,omitempty"`
	Update string        `json:"update,omitempty"`
	On     []SignalEvent `json:"on,omitempty"`
}

// SignalEvent updates a signal in response to an event stream.
type SignalEvent struct {
	Events string `json:"events"`
	Update string `json:"update"`
	Force  bool   `json:"force,omitempty"`
}
