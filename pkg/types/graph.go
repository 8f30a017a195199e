package types

// GraphNodeKind extends BlockKind with the node kinds that only appear as
// reference targets.
type GraphNodeKind string

const (
	NodeTerraform    GraphNodeKind = "terraform"
	NodeProvider     GraphNodeKind = "provider"
	NodeVariable     GraphNodeKind = "variable"
	NodeOutput       GraphNodeKind = "output"
	NodeModule       GraphNodeKind = "module"
	NodeResource     GraphNodeKind = "resource"
	NodeData         GraphNodeKind = "data"
	NodeLocals       GraphNodeKind = "locals"
	NodeModuleOutput GraphNodeKind = "module_output"
	NodePath         GraphNodeKind = "path"
	NodeEach         GraphNodeKind = "each"
	NodeCount        GraphNodeKind = "count"
	NodeSelf         GraphNodeKind = "self"
	NodeExternal     GraphNodeKind = "external"
)

// GraphNode is one element of the dependency graph. Placeholder nodes are
// synthesized for referenced-but-undeclared elements so that every
// reference resolves to some node.
type GraphNode struct {
	ID     string        `json:"id"`
	Kind   GraphNodeKind `json:"kind"`
	Name   string        `json:"name"`
	Type   string        `json:"type,omitempty"`
	Source string        `json:"source,omitempty"`
}

// GraphEdge is a directed dependency carrying the reference that caused it
type GraphEdge struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Reference Reference `json:"reference"`
	Source    string    `json:"source,omitempty"`
}

// DependencyGraph is the result of graph construction: nodes in discovery
// order, deduplicated edges in discovery order, and any references that
// could not be resolved to a node. With the current reference kinds every
// reference yields a real or placeholder node, so OrphanReferences stays
// empty; the field is kept so future reference kinds can opt out of
// placeholder synthesis without changing the export shape.
type DependencyGraph struct {
	Nodes            []*GraphNode `json:"nodes"`
	Edges            []*GraphEdge `json:"edges"`
	OrphanReferences []Reference  `json:"orphan_references"`
}

// Node returns the node with the given id, or nil
func (g *DependencyGraph) Node(id string) *GraphNode {
	for _, node := range g.Nodes {
		if node.ID == id {
			return node
		}
	}
	return nil
}
