package terraform

import (
	"github.com/hclgraph/hclgraph/pkg/parser"
	"github.com/hclgraph/hclgraph/pkg/types"
)

// metaKeys are resource arguments split out of Properties into Meta
var metaKeys = map[string]struct{}{
	"count":      {},
	"for_each":   {},
	"provider":   {},
	"depends_on": {},
	"lifecycle":  {},
}

// stringOrRaw extracts a non-empty literal string, falling back to the
// value's raw text for anything else.
func stringOrRaw(v types.Value) string {
	if v == nil {
		return ""
	}
	if s, ok := types.LiteralString(v); ok && s != "" {
		return s
	}
	return types.RawText(v)
}

func firstLabel(block *types.HclBlock, fallback string) string {
	if len(block.Labels) > 0 {
		return block.Labels[0]
	}
	return fallback
}

func assembleSettings(block *types.HclBlock) *types.TerraformSettings {
	parsed := parser.ParseBody(block.Body)
	return &types.TerraformSettings{
		Properties: parsed.Attributes,
		Raw:        block.Raw,
		Source:     block.Source,
	}
}

func assembleProvider(block *types.HclBlock) *types.Provider {
	parsed := parser.ParseBody(block.Body)
	return &types.Provider{
		Name:       firstLabel(block, "default"),
		Alias:      stringOrRaw(parsed.Attributes["alias"]),
		Properties: parsed.Attributes,
		Raw:        block.Raw,
		Source:     block.Source,
	}
}

func assembleVariable(block *types.HclBlock) *types.Variable {
	parsed := parser.ParseBody(block.Body)

	typeRaw := stringOrRaw(parsed.Attributes["type"])
	var constraint *types.TypeConstraint
	if typeRaw != "" {
		constraint = ParseTypeConstraint(typeRaw)
	}

	return &types.Variable{
		Name:           firstLabel(block, "unknown"),
		Description:    stringOrRaw(parsed.Attributes["description"]),
		Type:           typeRaw,
		TypeConstraint: constraint,
		Default:        parsed.Attributes["default"],
		Validation:     extractValidation(parsed.Blocks),
		Sensitive:      literalBoolPtr(parsed.Attributes["sensitive"]),
		Nullable:       literalBoolPtr(parsed.Attributes["nullable"]),
		Raw:            block.Raw,
		Source:         block.Source,
	}
}

func extractValidation(blocks []*types.NestedBlock) *types.Validation {
	for _, block := range blocks {
		if block.Type != "validation" {
			continue
		}
		condition := block.Attributes["condition"]
		errorMessage := block.Attributes["error_message"]
		if condition == nil && errorMessage == nil {
			return nil
		}
		return &types.Validation{Condition: condition, ErrorMessage: errorMessage}
	}
	return nil
}

func literalBoolPtr(v types.Value) *bool {
	if v == nil {
		return nil
	}
	b, ok := types.LiteralBool(v)
	if !ok {
		return nil
	}
	return &b
}

func assembleOutput(block *types.HclBlock) *types.Output {
	parsed := parser.ParseBody(block.Body)
	return &types.Output{
		Name:        firstLabel(block, "unknown"),
		Description: stringOrRaw(parsed.Attributes["description"]),
		Value:       parsed.Attributes["value"],
		Sensitive:   literalBoolPtr(parsed.Attributes["sensitive"]),
		Raw:         block.Raw,
		Source:      block.Source,
	}
}

// assembleLocals expands a locals block into one Local per assignment, in
// body order.
func assembleLocals(block *types.HclBlock) []*types.Local {
	parsed := parser.ParseBody(block.Body)
	var locals []*types.Local
	for _, name := range attributeOrder(block.Body, parsed.Attributes) {
		value := parsed.Attributes[name]
		locals = append(locals, &types.Local{
			Name:   name,
			Value:  value,
			Raw:    types.RawText(value),
			Source: block.Source,
		})
	}
	return locals
}

// attributeOrder recovers the body order of attribute names, since the
// parsed attribute map does not preserve it. Names missing from the map
// are skipped; names assigned twice appear once, at their first position.
func attributeOrder(body string, attributes map[string]types.Value) []string {
	var order []string
	seen := map[string]struct{}{}
	for _, name := range parser.AttributeNames(body) {
		if _, ok := attributes[name]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		order = append(order, name)
	}
	return order
}

func assembleModule(block *types.HclBlock) *types.Module {
	parsed := parser.ParseBody(block.Body)
	return &types.Module{
		Name:       firstLabel(block, "unnamed"),
		Properties: parsed.Attributes,
		Raw:        block.Raw,
		Source:     block.Source,
	}
}

func assembleResource(block *types.HclBlock) *types.Resource {
	resourceType := "unknown"
	name := "unnamed"
	if len(block.Labels) > 0 {
		resourceType = block.Labels[0]
	}
	if len(block.Labels) > 1 {
		name = block.Labels[1]
	}

	parsed := parser.ParseBody(block.Body)

	meta := map[string]types.Value{}
	properties := map[string]types.Value{}
	for key, value := range parsed.Attributes {
		if _, isMeta := metaKeys[key]; isMeta {
			meta[key] = value
		} else {
			properties[key] = value
		}
	}

	var blocks []*types.NestedBlock
	for _, child := range parsed.Blocks {
		if child.Type != "dynamic" {
			blocks = append(blocks, child)
		}
	}

	return &types.Resource{
		Type:          resourceType,
		Name:          name,
		Properties:    properties,
		Blocks:        blocks,
		DynamicBlocks: extractDynamicBlocks(parsed.Blocks),
		Meta:          meta,
		Raw:           block.Raw,
		Source:        block.Source,
	}
}

// extractDynamicBlocks pulls every dynamic child out into its own
// structure: label, for_each, optional iterator name, and the attributes
// of the content block.
func extractDynamicBlocks(blocks []*types.NestedBlock) []*types.DynamicBlock {
	var dynamics []*types.DynamicBlock
	for _, child := range blocks {
		if child.Type != "dynamic" {
			continue
		}

		label := "dynamic"
		if len(child.Labels) > 0 {
			label = child.Labels[0]
		}

		iterator := ""
		if v, ok := child.Attributes["iterator"]; ok {
			iterator, _ = types.LiteralString(v)
		}

		content := map[string]types.Value{}
		for _, nested := range child.Blocks {
			if nested.Type == "content" {
				content = nested.Attributes
				break
			}
		}

		dynamics = append(dynamics, &types.DynamicBlock{
			Label:    label,
			ForEach:  child.Attributes["for_each"],
			Iterator: iterator,
			Content:  content,
			Raw:      child.Raw,
		})
	}
	return dynamics
}

func assembleData(block *types.HclBlock) *types.Data {
	dataType := "unknown"
	name := "unnamed"
	if len(block.Labels) > 0 {
		dataType = block.Labels[0]
	}
	if len(block.Labels) > 1 {
		name = block.Labels[1]
	}

	parsed := parser.ParseBody(block.Body)
	return &types.Data{
		DataType:   dataType,
		Name:       name,
		Properties: parsed.Attributes,
		Blocks:     parsed.Blocks,
		Raw:        block.Raw,
		Source:     block.Source,
	}
}

func assembleGeneric(block *types.HclBlock) *types.GenericBlock {
	parsed := parser.ParseBody(block.Body)
	return &types.GenericBlock{
		Type:       block.Keyword,
		Labels:     block.Labels,
		Properties: parsed.Attributes,
		Blocks:     parsed.Blocks,
		Raw:        block.Raw,
		Source:     block.Source,
	}
}
