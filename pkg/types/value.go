package types

import "encoding/json"

// ExpressionKind classifies the syntactic shape of an expression value
type ExpressionKind string

const (
	ExprTraversal    ExpressionKind = "traversal"
	ExprFunctionCall ExpressionKind = "function_call"
	ExprTemplate     ExpressionKind = "template"
	ExprForExpr      ExpressionKind = "for_expr"
	ExprConditional  ExpressionKind = "conditional"
	ExprSplat        ExpressionKind = "splat"
	ExprUnknown      ExpressionKind = "unknown"
)

// Value is a classified HCL attribute value. The concrete types form a
// closed set: LiteralValue, ArrayValue, ObjectValue and ExpressionValue.
type Value interface {
	// Refs returns the references carried directly by this value. Array
	// and object values carry the union of their elements' references;
	// literals carry none.
	Refs() []Reference
	value()
}

// LiteralValue is a scalar: bool, int64, float64, string, or nil for null
type LiteralValue struct {
	Value interface{}
	Raw   string
}

// ArrayValue is an ordered sequence of values
type ArrayValue struct {
	Elements   []Value
	Raw        string
	References []Reference
}

// ObjectValue is a string-keyed mapping where a repeated key keeps the
// last assignment
type ObjectValue struct {
	Entries    map[string]Value
	Raw        string
	References []Reference
}

// ExpressionValue is an unevaluated expression span with a detected kind
type ExpressionValue struct {
	Kind       ExpressionKind
	Raw        string
	References []Reference
}

func (*LiteralValue) value()    {}
func (*ArrayValue) value()      {}
func (*ObjectValue) value()     {}
func (*ExpressionValue) value() {}

func (v *LiteralValue) Refs() []Reference    { return nil }
func (v *ArrayValue) Refs() []Reference      { return v.References }
func (v *ObjectValue) Refs() []Reference     { return v.References }
func (v *ExpressionValue) Refs() []Reference { return v.References }

func (v *LiteralValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string      `json:"type"`
		Value interface{} `json:"value"`
		Raw   string      `json:"raw"`
	}{"literal", v.Value, v.Raw})
}

func (v *ArrayValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string      `json:"type"`
		Value      []Value     `json:"value,omitempty"`
		Raw        string      `json:"raw"`
		References []Reference `json:"references,omitempty"`
	}{"array", v.Elements, v.Raw, v.References})
}

func (v *ObjectValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string           `json:"type"`
		Value      map[string]Value `json:"value,omitempty"`
		Raw        string           `json:"raw"`
		References []Reference      `json:"references,omitempty"`
	}{"object", v.Entries, v.Raw, v.References})
}

func (v *ExpressionValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string         `json:"type"`
		Kind       ExpressionKind `json:"kind"`
		Raw        string         `json:"raw"`
		References []Reference    `json:"references,omitempty"`
	}{"expression", v.Kind, v.Raw, v.References})
}

// RawText returns the raw source span behind any value
func RawText(v Value) string {
	switch t := v.(type) {
	case *LiteralValue:
		return t.Raw
	case *ArrayValue:
		return t.Raw
	case *ObjectValue:
		return t.Raw
	case *ExpressionValue:
		return t.Raw
	}
	return ""
}

// LiteralString extracts the string payload of a literal value
func LiteralString(v Value) (string, bool) {
	lit, ok := v.(*LiteralValue)
	if !ok {
		return "", false
	}
	s, ok := lit.Value.(string)
	return s, ok
}

// LiteralBool extracts the boolean payload of a literal value
func LiteralBool(v Value) (bool, bool) {
	lit, ok := v.(*LiteralValue)
	if !ok {
		return false, false
	}
	b, ok := lit.Value.(bool)
	return b, ok
}

// LiteralInt extracts the integer payload of a literal value
func LiteralInt(v Value) (int64, bool) {
	lit, ok := v.(*LiteralValue)
	if !ok {
		return 0, false
	}
	n, ok := lit.Value.(int64)
	return n, ok
}

// LiteralFloat extracts the float payload of a literal value. Integer
// literals do not qualify.
func LiteralFloat(v Value) (float64, bool) {
	lit, ok := v.(*LiteralValue)
	if !ok {
		return 0, false
	}
	f, ok := lit.Value.(float64)
	return f, ok
}

// LiteralNumber extracts a numeric payload, integer or float, as float64
func LiteralNumber(v Value) (float64, bool) {
	lit, ok := v.(*LiteralValue)
	if !ok {
		return 0, false
	}
	switch n := lit.Value.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
