package types

import (
	"encoding/json"
	"strings"
)

// Reference identifies a configuration element mentioned by an expression.
// The concrete types form a closed set: VariableRef, LocalRef,
// ModuleOutputRef, DataRef, ResourceRef, PathRef, EachRef, CountRef and
// SelfRef. All of them are comparable value types, so two references are
// equal exactly when they are structurally identical.
type Reference interface {
	// Key returns a canonical string form used for deduplication and
	// edge identity.
	Key() string
	reference()
}

// VariableRef references an input variable (var.name)
type VariableRef struct {
	Name string
}

// LocalRef references a local value (local.name)
type LocalRef struct {
	Name string
}

// ModuleOutputRef references a module output (module.name.output)
type ModuleOutputRef struct {
	Module string
	Name   string
}

// DataRef references a data source (data.type.name.attribute)
type DataRef struct {
	DataType  string
	Name      string
	Attribute string
	Splat     bool
}

// ResourceRef references a managed resource (type.name.attribute)
type ResourceRef struct {
	ResourceType string
	Name         string
	Attribute    string
	Splat        bool
}

// PathRef references a path value (path.module, path.root, path.cwd)
type PathRef struct {
	Name string
}

// EachRef references each.key or each.value inside a for_each body
type EachRef struct {
	Property string // "key" or "value"
}

// CountRef references count.index
type CountRef struct {
	Property string // always "index"
}

// SelfRef references self.attribute inside provisioners and connections
type SelfRef struct {
	Attribute string
}

func (VariableRef) reference()     {}
func (LocalRef) reference()        {}
func (ModuleOutputRef) reference() {}
func (DataRef) reference()         {}
func (ResourceRef) reference()     {}
func (PathRef) reference()         {}
func (EachRef) reference()         {}
func (CountRef) reference()        {}
func (SelfRef) reference()         {}

func (r VariableRef) Key() string { return "variable:" + r.Name }
func (r LocalRef) Key() string    { return "local:" + r.Name }

func (r ModuleOutputRef) Key() string {
	return "module_output:" + r.Module + ":" + r.Name
}

func (r DataRef) Key() string {
	return refKey("data", r.DataType, r.Name, r.Attribute, r.Splat)
}

func (r ResourceRef) Key() string {
	return refKey("resource", r.ResourceType, r.Name, r.Attribute, r.Splat)
}

func (r PathRef) Key() string  { return "path:" + r.Name }
func (r EachRef) Key() string  { return "each:" + r.Property }
func (r CountRef) Key() string { return "count:" + r.Property }
func (r SelfRef) Key() string  { return "self:" + r.Attribute }

func refKey(kind, typ, name, attribute string, splat bool) string {
	parts := []string{kind, typ, name}
	if attribute != "" {
		parts = append(parts, attribute)
	}
	if splat {
		parts = append(parts, "*")
	}
	return strings.Join(parts, ":")
}

func (r VariableRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string `json:"kind"`
		Name string `json:"name"`
	}{"variable", r.Name})
}

func (r LocalRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string `json:"kind"`
		Name string `json:"name"`
	}{"local", r.Name})
}

func (r ModuleOutputRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind   string `json:"kind"`
		Module string `json:"module"`
		Name   string `json:"name"`
	}{"module_output", r.Module, r.Name})
}

func (r DataRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind      string `json:"kind"`
		DataType  string `json:"data_type"`
		Name      string `json:"name"`
		Attribute string `json:"attribute,omitempty"`
		Splat     bool   `json:"splat,omitempty"`
	}{"data", r.DataType, r.Name, r.Attribute, r.Splat})
}

func (r ResourceRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind         string `json:"kind"`
		ResourceType string `json:"resource_type"`
		Name         string `json:"name"`
		Attribute    string `json:"attribute,omitempty"`
		Splat        bool   `json:"splat,omitempty"`
	}{"resource", r.ResourceType, r.Name, r.Attribute, r.Splat})
}

func (r PathRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string `json:"kind"`
		Name string `json:"name"`
	}{"path", r.Name})
}

func (r EachRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind     string `json:"kind"`
		Property string `json:"property"`
	}{"each", r.Property})
}

func (r CountRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind     string `json:"kind"`
		Property string `json:"property"`
	}{"count", r.Property})
}

func (r SelfRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind      string `json:"kind"`
		Attribute string `json:"attribute"`
	}{"self", r.Attribute})
}

// UniqueReferences removes structural duplicates while preserving the order
// of first occurrence.
func UniqueReferences(refs []Reference) []Reference {
	if len(refs) == 0 {
		return nil
	}

	seen := make(map[Reference]struct{}, len(refs))
	var unique []Reference
	for _, ref := range refs {
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		unique = append(unique, ref)
	}
	return unique
}

// ReferenceString renders a reference in a short human-readable form for
// log messages.
func ReferenceString(ref Reference) string {
	if ref == nil {
		return "<nil>"
	}
	return ref.Key()
}
