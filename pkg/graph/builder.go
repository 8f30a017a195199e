// Package graph builds directed dependency graphs from parsed documents
// by resolving the references carried in attribute values.
package graph

import (
	"sort"

	"github.com/hclgraph/hclgraph/pkg/types"
)

// Version of the export envelope format
const Version = "1.0.0"

// Export bundles a document with its dependency graph
type Export struct {
	Version  string                 `json:"version"`
	Document *types.Document        `json:"document"`
	Graph    *types.DependencyGraph `json:"graph"`
}

// NewExport builds the graph for a document and wraps both in an export
func NewExport(document *types.Document) *Export {
	return &Export{
		Version:  Version,
		Document: document,
		Graph:    Build(document),
	}
}

// builder accumulates nodes and deduplicated edges during one build
type builder struct {
	nodes     map[string]*types.GraphNode
	nodeOrder []string
	edges     []*types.GraphEdge
	edgeKeys  map[string]struct{}
	orphans   []types.Reference
}

// Build constructs the dependency graph of a document. Every declared
// element becomes a node; every reference becomes an edge, with placeholder
// nodes synthesized for referenced-but-undeclared targets. Nodes and edges
// come out in discovery order, edges deduplicated on (from, to, reference).
func Build(document *types.Document) *types.DependencyGraph {
	b := &builder{
		nodes:    map[string]*types.GraphNode{},
		edgeKeys: map[string]struct{}{},
	}

	b.populateNodes(document)

	for _, block := range document.Terraform {
		node := b.nodes[nodeID("terraform", "settings")]
		b.addEdges(node, referencesFromAttributes(block.Properties), block.Source)
	}

	for _, provider := range document.Provider {
		node := b.nodes[nodeID("provider", provider.Name, provider.Alias)]
		b.addEdges(node, referencesFromAttributes(provider.Properties), provider.Source)
	}

	for _, variable := range document.Variable {
		node := b.nodes[nodeID("variable", variable.Name)]
		b.addEdges(node, referencesFromValue(variable.Default), variable.Source)
	}

	for _, output := range document.Output {
		node := b.nodes[nodeID("output", output.Name)]
		b.addEdges(node, referencesFromValue(output.Value), output.Source)
	}

	for _, module := range document.Module {
		node := b.nodes[nodeID("module", module.Name)]
		b.addEdges(node, referencesFromAttributes(module.Properties), module.Source)
	}

	for _, resource := range document.Resource {
		node := b.nodes[nodeID("resource", resource.Type, resource.Name)]
		b.addEdges(node, referencesFromAttributes(resource.Properties), resource.Source)
		b.addEdges(node, referencesFromAttributes(resource.Meta), resource.Source)

		for _, dynamic := range resource.DynamicBlocks {
			b.addEdges(node, referencesFromValue(dynamic.ForEach), resource.Source)
			b.addEdges(node, referencesFromAttributes(dynamic.Content), resource.Source)
		}

		b.addEdges(node, referencesFromNestedBlocks(resource.Blocks), resource.Source)
	}

	for _, data := range document.Data {
		node := b.nodes[nodeID("data", data.DataType, data.Name)]
		b.addEdges(node, referencesFromAttributes(data.Properties), data.Source)
		b.addEdges(node, referencesFromNestedBlocks(data.Blocks), data.Source)
	}

	for _, local := range document.Locals {
		node := b.nodes[nodeID("locals", local.Name)]
		b.addEdges(node, referencesFromValue(local.Value), local.Source)
	}

	var others []*types.GenericBlock
	others = append(others, document.Moved...)
	others = append(others, document.Import...)
	others = append(others, document.Check...)
	others = append(others, document.TerraformData...)
	others = append(others, document.Unknown...)

	for _, block := range others {
		refs := append(
			referencesFromAttributes(block.Properties),
			referencesFromNestedBlocks(block.Blocks)...,
		)

		name := "default"
		if len(block.Labels) > 0 {
			name = block.Labels[0]
		}

		id := nodeID(block.Type, name)
		node, exists := b.nodes[id]
		if !exists {
			node = &types.GraphNode{
				ID:     id,
				Kind:   types.GraphNodeKind(block.Type),
				Name:   name,
				Source: block.Source,
			}
			b.insertNode(node)
		}
		b.addEdges(node, refs, block.Source)
	}

	graph := &types.DependencyGraph{
		Nodes:            make([]*types.GraphNode, 0, len(b.nodeOrder)),
		Edges:            b.edges,
		OrphanReferences: b.orphans,
	}
	if graph.Edges == nil {
		graph.Edges = []*types.GraphEdge{}
	}
	for _, id := range b.nodeOrder {
		graph.Nodes = append(graph.Nodes, b.nodes[id])
	}
	return graph
}

// insertNode registers a node unless its ID is already taken; the first
// writer wins.
func (b *builder) insertNode(node *types.GraphNode) {
	if node.ID == "" {
		return
	}
	if _, exists := b.nodes[node.ID]; exists {
		return
	}
	b.nodes[node.ID] = node
	b.nodeOrder = append(b.nodeOrder, node.ID)
}

func (b *builder) populateNodes(document *types.Document) {
	// the settings node always exists, declared or not
	b.insertNode(&types.GraphNode{
		ID:   nodeID("terraform", "settings"),
		Kind: types.NodeTerraform,
		Name: "settings",
	})

	for _, provider := range document.Provider {
		name := provider.Alias
		if name == "" {
			name = provider.Name
		}
		b.insertNode(&types.GraphNode{
			ID:     nodeID("provider", provider.Name, provider.Alias),
			Kind:   types.NodeProvider,
			Name:   name,
			Type:   provider.Name,
			Source: provider.Source,
		})
	}

	for _, variable := range document.Variable {
		b.insertNode(&types.GraphNode{
			ID:     nodeID("variable", variable.Name),
			Kind:   types.NodeVariable,
			Name:   variable.Name,
			Source: variable.Source,
		})
	}

	for _, output := range document.Output {
		b.insertNode(&types.GraphNode{
			ID:     nodeID("output", output.Name),
			Kind:   types.NodeOutput,
			Name:   output.Name,
			Source: output.Source,
		})
	}

	for _, module := range document.Module {
		b.insertNode(&types.GraphNode{
			ID:     nodeID("module", module.Name),
			Kind:   types.NodeModule,
			Name:   module.Name,
			Source: module.Source,
		})
	}

	for _, resource := range document.Resource {
		b.insertNode(&types.GraphNode{
			ID:     nodeID("resource", resource.Type, resource.Name),
			Kind:   types.NodeResource,
			Name:   resource.Name,
			Type:   resource.Type,
			Source: resource.Source,
		})
	}

	for _, data := range document.Data {
		b.insertNode(&types.GraphNode{
			ID:     nodeID("data", data.DataType, data.Name),
			Kind:   types.NodeData,
			Name:   data.Name,
			Type:   data.DataType,
			Source: data.Source,
		})
	}

	for _, local := range document.Locals {
		b.insertNode(&types.GraphNode{
			ID:     nodeID("locals", local.Name),
			Kind:   types.NodeLocals,
			Name:   local.Name,
			Source: local.Source,
		})
	}
}

func (b *builder) addEdges(from *types.GraphNode, refs []types.Reference, source string) {
	if from == nil || len(refs) == 0 {
		return
	}
	for _, ref := range refs {
		target := b.ensureTargetNode(ref)
		if target == nil {
			b.orphans = append(b.orphans, ref)
			continue
		}
		key := from.ID + "->" + target.ID + ":" + ref.Key()
		if _, seen := b.edgeKeys[key]; seen {
			continue
		}
		b.edgeKeys[key] = struct{}{}
		b.edges = append(b.edges, &types.GraphEdge{
			From:      from.ID,
			To:        target.ID,
			Reference: ref,
			Source:    source,
		})
	}
}

// ensureTargetNode resolves a reference to its node, synthesizing a
// placeholder when the target was never declared.
func (b *builder) ensureTargetNode(ref types.Reference) *types.GraphNode {
	id := referenceToID(ref)
	if node, exists := b.nodes[id]; exists {
		return node
	}

	placeholder := referenceToNode(ref, id)
	if placeholder != nil {
		b.insertNode(placeholder)
		return placeholder
	}
	return nil
}

// referenceToID maps a reference onto the node ID it points at
func referenceToID(ref types.Reference) string {
	switch r := ref.(type) {
	case types.VariableRef:
		return nodeID("variable", r.Name)
	case types.LocalRef:
		return nodeID("locals", r.Name)
	case types.ModuleOutputRef:
		return nodeID("module_output", r.Module, r.Name)
	case types.DataRef:
		return nodeID("data", r.DataType, r.Name)
	case types.ResourceRef:
		return nodeID("resource", r.ResourceType, r.Name)
	case types.PathRef:
		return nodeID("path", r.Name)
	case types.EachRef:
		return nodeID("each", r.Property)
	case types.CountRef:
		return nodeID("count", r.Property)
	case types.SelfRef:
		return nodeID("self", r.Attribute)
	}
	return ""
}

// referenceToNode synthesizes a placeholder node for a reference whose
// target is not declared in the document. Unrecognized references fall back
// to an external node keyed by the reference itself.
func referenceToNode(ref types.Reference, id string) *types.GraphNode {
	switch r := ref.(type) {
	case types.VariableRef:
		return &types.GraphNode{ID: id, Kind: types.NodeVariable, Name: r.Name}
	case types.LocalRef:
		return &types.GraphNode{ID: id, Kind: types.NodeLocals, Name: r.Name}
	case types.ModuleOutputRef:
		return &types.GraphNode{ID: id, Kind: types.NodeModuleOutput, Name: r.Name, Type: r.Module}
	case types.DataRef:
		return &types.GraphNode{ID: id, Kind: types.NodeData, Name: r.Name, Type: r.DataType}
	case types.ResourceRef:
		return &types.GraphNode{ID: id, Kind: types.NodeResource, Name: r.Name, Type: r.ResourceType}
	case types.PathRef:
		return &types.GraphNode{ID: id, Kind: types.NodePath, Name: r.Name}
	case types.EachRef:
		return &types.GraphNode{ID: id, Kind: types.NodeEach, Name: r.Property}
	case types.CountRef:
		return &types.GraphNode{ID: id, Kind: types.NodeCount, Name: r.Property}
	case types.SelfRef:
		return &types.GraphNode{ID: id, Kind: types.NodeSelf, Name: r.Attribute}
	}
	return &types.GraphNode{
		ID:   "external." + ref.Key(),
		Kind: types.NodeExternal,
		Name: "external",
	}
}

// referencesFromAttributes gathers references from every attribute value,
// visiting attributes in sorted name order so edge output is stable.
func referencesFromAttributes(attributes map[string]types.Value) []types.Reference {
	if len(attributes) == 0 {
		return nil
	}
	names := make([]string, 0, len(attributes))
	for name := range attributes {
		names = append(names, name)
	}
	sort.Strings(names)

	var refs []types.Reference
	for _, name := range names {
		refs = append(refs, referencesFromValue(attributes[name])...)
	}
	return refs
}

func referencesFromNestedBlocks(blocks []*types.NestedBlock) []types.Reference {
	var refs []types.Reference
	for _, block := range blocks {
		refs = append(refs, referencesFromAttributes(block.Attributes)...)
		refs = append(refs, referencesFromNestedBlocks(block.Blocks)...)
	}
	return refs
}

// referencesFromValue returns a value's own references plus those of any
// values nested inside arrays and objects.
func referencesFromValue(value types.Value) []types.Reference {
	if value == nil {
		return nil
	}

	direct := append([]types.Reference(nil), value.Refs()...)

	switch v := value.(type) {
	case *types.ObjectValue:
		return append(direct, referencesFromAttributes(v.Entries)...)
	case *types.ArrayValue:
		for _, element := range v.Elements {
			direct = append(direct, referencesFromValue(element)...)
		}
	}

	return direct
}

func nodeID(parts ...string) string {
	id := ""
	for _, part := range parts {
		if part == "" {
			continue
		}
		if id != "" {
			id += "."
		}
		id += part
	}
	return id
}
