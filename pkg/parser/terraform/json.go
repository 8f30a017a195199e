package terraform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/hclgraph/hclgraph/pkg/parser"
	"github.com/hclgraph/hclgraph/pkg/types"
)

var (
	jsonFunctionCallPattern = regexp.MustCompile(`^[\w.]+\(`)
	jsonTraversalPattern    = regexp.MustCompile(`^[\w.]+$`)
)

// JSONParser handles the JSON configuration variant (.tf.json). The block
// kinds that only exist in HCL form (moved, import, check) are not part of
// the JSON surface and are ignored.
type JSONParser struct{}

// ParseFile reads and parses a .tf.json file
func (p *JSONParser) ParseFile(path string) (*types.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	decoder := json.NewDecoder(bytes.NewReader(content))
	decoder.UseNumber()
	var data map[string]interface{}
	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	return p.Parse(data, path), nil
}

// Parse converts a decoded JSON configuration tree into a document. Keyed
// sections (variable, output, locals, module, provider, resource, data)
// are emitted in sorted key order for deterministic output.
func (p *JSONParser) Parse(data map[string]interface{}, source string) *types.Document {
	document := types.NewDocument()
	p.parseTerraform(data["terraform"], document, source)
	p.parseProviders(data["provider"], document, source)
	p.parseVariables(data["variable"], document, source)
	p.parseOutputs(data["output"], document, source)
	p.parseLocals(data["locals"], document, source)
	p.parseModules(data["module"], document, source)
	p.parseResources(data["resource"], document, source)
	p.parseData(data["data"], document, source)
	return document
}

func (p *JSONParser) parseTerraform(value interface{}, document *types.Document, source string) {
	for _, item := range asList(value) {
		config, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		document.Terraform = append(document.Terraform, &types.TerraformSettings{
			Properties: convertAttributes(config, nil),
			Raw:        stringify(config),
			Source:     source,
		})
	}
}

func (p *JSONParser) parseProviders(value interface{}, document *types.Document, source string) {
	byName, ok := value.(map[string]interface{})
	if !ok {
		return
	}
	for _, name := range sortedKeys(byName) {
		for _, item := range asList(byName[name]) {
			config, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			alias, _ := config["alias"].(string)
			document.Provider = append(document.Provider, &types.Provider{
				Name:       name,
				Alias:      alias,
				Properties: convertAttributes(config, map[string]struct{}{"alias": {}}),
				Raw:        stringify(config),
				Source:     source,
			})
		}
	}
}

func (p *JSONParser) parseVariables(value interface{}, document *types.Document, source string) {
	byName, ok := value.(map[string]interface{})
	if !ok {
		return
	}
	for _, name := range sortedKeys(byName) {
		config, ok := byName[name].(map[string]interface{})
		if !ok {
			continue
		}

		description, _ := config["description"].(string)
		typeRaw, _ := config["type"].(string)

		var defaultValue types.Value
		if raw, present := config["default"]; present {
			defaultValue = convertJSONValue(raw)
		}

		var constraint *types.TypeConstraint
		if typeRaw != "" {
			constraint = ParseTypeConstraint(typeRaw)
		}

		document.Variable = append(document.Variable, &types.Variable{
			Name:           name,
			Description:    description,
			Type:           typeRaw,
			TypeConstraint: constraint,
			Default:        defaultValue,
			Sensitive:      boolPtr(config["sensitive"]),
			Raw:            stringify(config),
			Source:         source,
		})
	}
}

func (p *JSONParser) parseOutputs(value interface{}, document *types.Document, source string) {
	byName, ok := value.(map[string]interface{})
	if !ok {
		return
	}
	for _, name := range sortedKeys(byName) {
		config, ok := byName[name].(map[string]interface{})
		if !ok {
			continue
		}
		description, _ := config["description"].(string)
		document.Output = append(document.Output, &types.Output{
			Name:        name,
			Description: description,
			Value:       convertJSONValue(config["value"]),
			Sensitive:   boolPtr(config["sensitive"]),
			Raw:         stringify(config),
			Source:      source,
		})
	}
}

func (p *JSONParser) parseLocals(value interface{}, document *types.Document, source string) {
	byName, ok := value.(map[string]interface{})
	if !ok {
		return
	}
	for _, name := range sortedKeys(byName) {
		converted := convertJSONValue(byName[name])
		document.Locals = append(document.Locals, &types.Local{
			Name:   name,
			Value:  converted,
			Raw:    types.RawText(converted),
			Source: source,
		})
	}
}

func (p *JSONParser) parseModules(value interface{}, document *types.Document, source string) {
	byName, ok := value.(map[string]interface{})
	if !ok {
		return
	}
	for _, name := range sortedKeys(byName) {
		config, ok := byName[name].(map[string]interface{})
		if !ok {
			continue
		}
		document.Module = append(document.Module, &types.Module{
			Name:       name,
			Properties: convertAttributes(config, nil),
			Raw:        stringify(config),
			Source:     source,
		})
	}
}

func (p *JSONParser) parseResources(value interface{}, document *types.Document, source string) {
	byType, ok := value.(map[string]interface{})
	if !ok {
		return
	}
	for _, resourceType := range sortedKeys(byType) {
		byName, ok := byType[resourceType].(map[string]interface{})
		if !ok {
			continue
		}
		for _, name := range sortedKeys(byName) {
			for _, item := range asList(byName[name]) {
				config, ok := item.(map[string]interface{})
				if !ok {
					continue
				}
				document.Resource = append(document.Resource, &types.Resource{
					Type:       resourceType,
					Name:       name,
					Properties: convertAttributes(config, nil),
					Meta:       map[string]types.Value{},
					Raw:        stringify(config),
					Source:     source,
				})
			}
		}
	}
}

func (p *JSONParser) parseData(value interface{}, document *types.Document, source string) {
	byType, ok := value.(map[string]interface{})
	if !ok {
		return
	}
	for _, dataType := range sortedKeys(byType) {
		byName, ok := byType[dataType].(map[string]interface{})
		if !ok {
			continue
		}
		for _, name := range sortedKeys(byName) {
			for _, item := range asList(byName[name]) {
				config, ok := item.(map[string]interface{})
				if !ok {
					continue
				}
				document.Data = append(document.Data, &types.Data{
					DataType:   dataType,
					Name:       name,
					Properties: convertAttributes(config, nil),
					Raw:        stringify(config),
					Source:     source,
				})
			}
		}
	}
}

// ConvertJSONAttributes converts a decoded JSON object's entries into
// classified values. Used for artifacts that share the JSON value model,
// such as .tfvars.json files.
func ConvertJSONAttributes(obj map[string]interface{}) map[string]types.Value {
	return convertAttributes(obj, nil)
}

// convertAttributes converts a JSON object's entries into classified
// values, skipping the given keys.
func convertAttributes(obj map[string]interface{}, skip map[string]struct{}) map[string]types.Value {
	attributes := make(map[string]types.Value, len(obj))
	for key, value := range obj {
		if _, skipped := skip[key]; skipped {
			continue
		}
		attributes[key] = convertJSONValue(value)
	}
	return attributes
}

// convertJSONValue maps a decoded JSON value onto the value model. Strings
// that look like expressions (interpolations, calls, bare traversals) run
// through the classifier so their references are extracted.
func convertJSONValue(input interface{}) types.Value {
	switch v := input.(type) {
	case nil:
		return &types.LiteralValue{Value: nil, Raw: "null"}
	case string:
		if looksLikeExpression(v) {
			return parser.ClassifyValue(v)
		}
		return &types.LiteralValue{Value: v, Raw: v}
	case bool:
		return &types.LiteralValue{Value: v, Raw: fmt.Sprintf("%v", v)}
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return &types.LiteralValue{Value: n, Raw: v.String()}
		}
		f, _ := v.Float64()
		return &types.LiteralValue{Value: f, Raw: v.String()}
	case float64:
		return &types.LiteralValue{Value: v, Raw: fmt.Sprintf("%v", v)}
	case []interface{}:
		var elements []types.Value
		for _, item := range v {
			elements = append(elements, convertJSONValue(item))
		}
		return &types.ArrayValue{Elements: elements, Raw: stringify(v)}
	case map[string]interface{}:
		entries := make(map[string]types.Value, len(v))
		for key, item := range v {
			entries[key] = convertJSONValue(item)
		}
		return &types.ObjectValue{Entries: entries, Raw: stringify(v)}
	}
	return &types.LiteralValue{Value: fmt.Sprintf("%v", input), Raw: fmt.Sprintf("%v", input)}
}

func looksLikeExpression(value string) bool {
	return strings.Contains(value, "${") ||
		jsonFunctionCallPattern.MatchString(value) ||
		jsonTraversalPattern.MatchString(value)
}

func boolPtr(value interface{}) *bool {
	b, ok := value.(bool)
	if !ok {
		return nil
	}
	return &b
}

func asList(value interface{}) []interface{} {
	if list, ok := value.([]interface{}); ok {
		return list
	}
	if value == nil {
		return nil
	}
	return []interface{}{value}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func stringify(value interface{}) string {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(encoded)
}
