package types

// BlockKind identifies a recognized top-level block keyword
type BlockKind string

const (
	BlockTerraform     BlockKind = "terraform"
	BlockLocals        BlockKind = "locals"
	BlockProvider      BlockKind = "provider"
	BlockVariable      BlockKind = "variable"
	BlockOutput        BlockKind = "output"
	BlockModule        BlockKind = "module"
	BlockResource      BlockKind = "resource"
	BlockData          BlockKind = "data"
	BlockMoved         BlockKind = "moved"
	BlockImport        BlockKind = "import"
	BlockCheck         BlockKind = "check"
	BlockTerraformData BlockKind = "terraform_data"
	BlockUnknown       BlockKind = "unknown"
)

// HclBlock is a raw top-level block as produced by the scanner. It is
// created once and consumed once; nothing mutates it after scanning.
type HclBlock struct {
	Kind    BlockKind `json:"kind"`
	Keyword string    `json:"keyword"`
	Labels  []string  `json:"labels,omitempty"`
	Body    string    `json:"body"`
	Raw     string    `json:"raw"`
	Source  string    `json:"source,omitempty"`
}

// NestedBlock is a block found inside another block's body
type NestedBlock struct {
	Type       string           `json:"type"`
	Labels     []string         `json:"labels,omitempty"`
	Attributes map[string]Value `json:"attributes,omitempty"`
	Blocks     []*NestedBlock   `json:"blocks,omitempty"`
	Raw        string           `json:"raw,omitempty"`
}

// ParsedBody holds the attributes and nested blocks of one block body.
// A later assignment to an attribute name overwrites an earlier one;
// repeated nested blocks of the same type are all preserved in order.
type ParsedBody struct {
	Attributes map[string]Value `json:"attributes,omitempty"`
	Blocks     []*NestedBlock   `json:"blocks,omitempty"`
}
