package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// StateOutput is one entry of the state's outputs section
type StateOutput struct {
	Value     interface{} `json:"value"`
	Type      interface{} `json:"type,omitempty"`
	Sensitive bool        `json:"sensitive"`
}

// StateInstance is one instance of a state resource
type StateInstance struct {
	IndexKey   interface{}            `json:"index_key,omitempty"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
	Status     string                 `json:"status,omitempty"`
}

// StateResource is a managed or data resource recorded in state
type StateResource struct {
	Module    string           `json:"module,omitempty"`
	Mode      string           `json:"mode"`
	Type      string           `json:"type"`
	Name      string           `json:"name"`
	Provider  string           `json:"provider,omitempty"`
	Instances []*StateInstance `json:"instances"`
}

// State is a normalized state snapshot
type State struct {
	Version          int                     `json:"version"`
	TerraformVersion string                  `json:"terraform_version,omitempty"`
	Serial           *int64                  `json:"serial,omitempty"`
	Lineage          string                  `json:"lineage,omitempty"`
	Outputs          map[string]*StateOutput `json:"outputs"`
	Resources        []*StateResource        `json:"resources"`
	Raw              interface{}             `json:"raw,omitempty"`
	Source           string                  `json:"source,omitempty"`
}

// StateParser parses .tfstate files
type StateParser struct{}

// ParseFile reads and normalizes a state snapshot
func (p *StateParser) ParseFile(path string) (*State, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	decoder := json.NewDecoder(bytes.NewReader(content))
	decoder.UseNumber()
	var raw interface{}
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	return p.Parse(raw, path), nil
}

// Parse normalizes a decoded state tree. Unrecognized shapes produce an
// empty snapshot rather than an error.
func (p *StateParser) Parse(raw interface{}, source string) *State {
	data, _ := raw.(map[string]interface{})

	state := &State{
		Version:          parseVersion(data["version"]),
		TerraformVersion: stringField(data, "terraform_version"),
		Lineage:          stringField(data, "lineage"),
		Outputs:          normalizeStateOutputs(data["outputs"]),
		Resources:        []*StateResource{},
		Raw:              raw,
		Source:           source,
	}

	if serial, ok := intField(data, "serial"); ok {
		state.Serial = &serial
	}

	if resources, ok := data["resources"].([]interface{}); ok {
		for _, item := range resources {
			state.Resources = append(state.Resources, normalizeStateResource(item))
		}
	}

	return state
}

func normalizeStateResource(resource interface{}) *StateResource {
	data, _ := resource.(map[string]interface{})

	result := &StateResource{
		Module:    stringField(data, "module"),
		Mode:      resourceMode(data),
		Type:      stringFieldOr(data, "type", "unknown"),
		Name:      stringFieldOr(data, "name", "unknown"),
		Provider:  stringField(data, "provider"),
		Instances: []*StateInstance{},
	}

	if instances, ok := data["instances"].([]interface{}); ok {
		for _, item := range instances {
			result.Instances = append(result.Instances, normalizeStateInstance(item))
		}
	}

	return result
}

func normalizeStateInstance(instance interface{}) *StateInstance {
	data, _ := instance.(map[string]interface{})

	var indexKey interface{}
	if key, ok := indexValue(data["index_key"]); ok {
		indexKey = key
	} else if key, ok := indexValue(data["index"]); ok {
		indexKey = key
	}

	attributes, ok := data["attributes"].(map[string]interface{})
	if !ok {
		attributes, _ = data["attributes_flat"].(map[string]interface{})
	}

	return &StateInstance{
		IndexKey:   indexKey,
		Attributes: attributes,
		Status:     stringField(data, "status"),
	}
}

func normalizeStateOutputs(value interface{}) map[string]*StateOutput {
	result := map[string]*StateOutput{}
	outputs, ok := value.(map[string]interface{})
	if !ok {
		return result
	}

	for name, entry := range outputs {
		output, ok := entry.(map[string]interface{})
		if !ok {
			// a bare value stands in for the whole output entry
			result[name] = &StateOutput{Value: entry}
			continue
		}
		sensitive, _ := output["sensitive"].(bool)
		value, present := output["value"]
		if !present {
			value = entry
		}
		result[name] = &StateOutput{
			Value:     value,
			Type:      output["type"],
			Sensitive: sensitive,
		}
	}

	return result
}

// indexValue accepts the string and integer index forms
func indexValue(value interface{}) (interface{}, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, true
		}
	}
	return nil, false
}

func parseVersion(value interface{}) int {
	switch v := value.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}

func stringField(data map[string]interface{}, key string) string {
	s, _ := data[key].(string)
	return s
}

func stringFieldOr(data map[string]interface{}, key, fallback string) string {
	if s, ok := data[key].(string); ok {
		return s
	}
	return fallback
}

func intField(data map[string]interface{}, key string) (int64, bool) {
	if n, ok := data[key].(json.Number); ok {
		if v, err := n.Int64(); err == nil {
			return v, true
		}
	}
	return 0, false
}

func resourceMode(data map[string]interface{}) string {
	if data["mode"] == "data" {
		return "data"
	}
	return "managed"
}
