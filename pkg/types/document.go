package types

// TerraformSettings is a terraform { ... } settings block
type TerraformSettings struct {
	Properties map[string]Value `json:"properties,omitempty"`
	Raw        string           `json:"raw,omitempty"`
	Source     string           `json:"source,omitempty"`
}

// Provider is a provider configuration block
type Provider struct {
	Name       string           `json:"name"`
	Alias      string           `json:"alias,omitempty"`
	Properties map[string]Value `json:"properties,omitempty"`
	Raw        string           `json:"raw,omitempty"`
	Source     string           `json:"source,omitempty"`
}

// TypeConstraint is a parsed variable type expression. Primitive types
// carry only Base; collections carry Element, tuples Elements, objects
// Attributes.
type TypeConstraint struct {
	Base       string                     `json:"base"`
	Element    *TypeConstraint            `json:"element,omitempty"`
	Elements   []*TypeConstraint          `json:"elements,omitempty"`
	Attributes map[string]*TypeConstraint `json:"attributes,omitempty"`
	Optional   bool                       `json:"optional,omitempty"`
	Raw        string                     `json:"raw"`
}

// Validation is a variable validation rule
type Validation struct {
	Condition    Value `json:"condition,omitempty"`
	ErrorMessage Value `json:"error_message,omitempty"`
}

// Variable is an input variable declaration
type Variable struct {
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Type           string          `json:"type,omitempty"`
	TypeConstraint *TypeConstraint `json:"type_constraint,omitempty"`
	Default        Value           `json:"default,omitempty"`
	Validation     *Validation     `json:"validation,omitempty"`
	Sensitive      *bool           `json:"sensitive,omitempty"`
	Nullable       *bool           `json:"nullable,omitempty"`
	Raw            string          `json:"raw,omitempty"`
	Source         string          `json:"source,omitempty"`
}

// Output is an output value declaration
type Output struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Value       Value  `json:"value,omitempty"`
	Sensitive   *bool  `json:"sensitive,omitempty"`
	Raw         string `json:"raw,omitempty"`
	Source      string `json:"source,omitempty"`
}

// Local is a single entry of a locals block
type Local struct {
	Name   string `json:"name"`
	Value  Value  `json:"value,omitempty"`
	Raw    string `json:"raw,omitempty"`
	Source string `json:"source,omitempty"`
}

// Module is a module call block
type Module struct {
	Name       string           `json:"name"`
	Properties map[string]Value `json:"properties,omitempty"`
	Raw        string           `json:"raw,omitempty"`
	Source     string           `json:"source,omitempty"`
}

// DynamicBlock is a dynamic { ... } definition inside a resource
type DynamicBlock struct {
	Label    string           `json:"label"`
	ForEach  Value            `json:"for_each,omitempty"`
	Iterator string           `json:"iterator,omitempty"`
	Content  map[string]Value `json:"content,omitempty"`
	Raw      string           `json:"raw,omitempty"`
}

// Resource is a managed resource definition. Meta-arguments (count,
// for_each, provider, depends_on, lifecycle) are split out of Properties
// into Meta.
type Resource struct {
	Type          string           `json:"type"`
	Name          string           `json:"name"`
	Properties    map[string]Value `json:"properties,omitempty"`
	Blocks        []*NestedBlock   `json:"blocks,omitempty"`
	DynamicBlocks []*DynamicBlock  `json:"dynamic_blocks,omitempty"`
	Meta          map[string]Value `json:"meta,omitempty"`
	Raw           string           `json:"raw,omitempty"`
	Source        string           `json:"source,omitempty"`
}

// Data is a data source definition
type Data struct {
	DataType   string           `json:"data_type"`
	Name       string           `json:"name"`
	Properties map[string]Value `json:"properties,omitempty"`
	Blocks     []*NestedBlock   `json:"blocks,omitempty"`
	Raw        string           `json:"raw,omitempty"`
	Source     string           `json:"source,omitempty"`
}

// GenericBlock covers the less common block types: moved, import, check,
// terraform_data and anything unrecognized.
type GenericBlock struct {
	Type       string           `json:"type"`
	Labels     []string         `json:"labels,omitempty"`
	Properties map[string]Value `json:"properties,omitempty"`
	Blocks     []*NestedBlock   `json:"blocks,omitempty"`
	Raw        string           `json:"raw,omitempty"`
	Source     string           `json:"source,omitempty"`
}

// Document aggregates every parsed block of one or more configuration
// files, one slice per block kind.
type Document struct {
	Terraform     []*TerraformSettings `json:"terraform,omitempty"`
	Provider      []*Provider          `json:"provider,omitempty"`
	Variable      []*Variable          `json:"variable,omitempty"`
	Output        []*Output            `json:"output,omitempty"`
	Module        []*Module            `json:"module,omitempty"`
	Resource      []*Resource          `json:"resource,omitempty"`
	Data          []*Data              `json:"data,omitempty"`
	Locals        []*Local             `json:"locals,omitempty"`
	Moved         []*GenericBlock      `json:"moved,omitempty"`
	Import        []*GenericBlock      `json:"import,omitempty"`
	Check         []*GenericBlock      `json:"check,omitempty"`
	TerraformData []*GenericBlock      `json:"terraform_data,omitempty"`
	Unknown       []*GenericBlock      `json:"unknown,omitempty"`
}

// NewDocument returns an empty document
func NewDocument() *Document {
	return &Document{}
}

// Merge appends every block of other into d, preserving order
func (d *Document) Merge(other *Document) {
	if other == nil {
		return
	}
	d.Terraform = append(d.Terraform, other.Terraform...)
	d.Provider = append(d.Provider, other.Provider...)
	d.Variable = append(d.Variable, other.Variable...)
	d.Output = append(d.Output, other.Output...)
	d.Module = append(d.Module, other.Module...)
	d.Resource = append(d.Resource, other.Resource...)
	d.Data = append(d.Data, other.Data...)
	d.Locals = append(d.Locals, other.Locals...)
	d.Moved = append(d.Moved, other.Moved...)
	d.Import = append(d.Import, other.Import...)
	d.Check = append(d.Check, other.Check...)
	d.TerraformData = append(d.TerraformData, other.TerraformData...)
	d.Unknown = append(d.Unknown, other.Unknown...)
}
