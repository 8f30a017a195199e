package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// PlanResource is a resource in the plan's planned values
type PlanResource struct {
	Address      string                 `json:"address"`
	Mode         string                 `json:"mode"`
	Type         string                 `json:"type"`
	Name         string                 `json:"name"`
	ProviderName string                 `json:"provider_name,omitempty"`
	Values       map[string]interface{} `json:"values,omitempty"`
}

// PlanModule is a module subtree of the planned values
type PlanModule struct {
	Address      string          `json:"address,omitempty"`
	Resources    []*PlanResource `json:"resources"`
	ChildModules []*PlanModule   `json:"child_modules"`
}

// PlannedValues is the plan's projected configuration state
type PlannedValues struct {
	RootModule *PlanModule `json:"root_module"`
}

// PlanChange describes the before and after of one resource change
type PlanChange struct {
	Actions         []string               `json:"actions"`
	Before          interface{}            `json:"before,omitempty"`
	After           interface{}            `json:"after,omitempty"`
	AfterUnknown    map[string]interface{} `json:"after_unknown,omitempty"`
	BeforeSensitive map[string]interface{} `json:"before_sensitive,omitempty"`
	AfterSensitive  map[string]interface{} `json:"after_sensitive,omitempty"`
}

// ResourceChange is one entry of the plan's resource_changes list
type ResourceChange struct {
	Address       string      `json:"address"`
	ModuleAddress string      `json:"module_address,omitempty"`
	Mode          string      `json:"mode"`
	Type          string      `json:"type"`
	Name          string      `json:"name"`
	ProviderName  string      `json:"provider_name,omitempty"`
	Change        *PlanChange `json:"change"`
}

// Plan is a normalized plan JSON export
type Plan struct {
	FormatVersion    string            `json:"format_version,omitempty"`
	TerraformVersion string            `json:"terraform_version,omitempty"`
	PlannedValues    *PlannedValues    `json:"planned_values,omitempty"`
	ResourceChanges  []*ResourceChange `json:"resource_changes"`
	Raw              interface{}       `json:"raw,omitempty"`
	Source           string            `json:"source,omitempty"`
}

// PlanParser parses plan JSON exports
type PlanParser struct{}

// ParseFile reads and normalizes a plan JSON export
func (p *PlanParser) ParseFile(path string) (*Plan, error) {
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

// Parse normalizes a decoded plan tree
func (p *PlanParser) Parse(raw interface{}, source string) *Plan {
	data, _ := raw.(map[string]interface{})

	plan := &Plan{
		FormatVersion:    stringField(data, "format_version"),
		TerraformVersion: stringField(data, "terraform_version"),
		ResourceChanges:  []*ResourceChange{},
		Raw:              raw,
		Source:           source,
	}

	if plannedValues, ok := data["planned_values"].(map[string]interface{}); ok {
		rootModule, _ := plannedValues["root_module"].(map[string]interface{})
		plan.PlannedValues = &PlannedValues{RootModule: normalizePlanModule(rootModule)}
	}

	if changes, ok := data["resource_changes"].([]interface{}); ok {
		for _, item := range changes {
			plan.ResourceChanges = append(plan.ResourceChanges, normalizeResourceChange(item))
		}
	}

	return plan
}

func normalizePlanModule(module map[string]interface{}) *PlanModule {
	result := &PlanModule{
		Address:      stringField(module, "address"),
		Resources:    []*PlanResource{},
		ChildModules: []*PlanModule{},
	}

	if resources, ok := module["resources"].([]interface{}); ok {
		for _, item := range resources {
			result.Resources = append(result.Resources, normalizePlanResource(item))
		}
	}

	if children, ok := module["child_modules"].([]interface{}); ok {
		for _, item := range children {
			child, _ := item.(map[string]interface{})
			result.ChildModules = append(result.ChildModules, normalizePlanModule(child))
		}
	}

	return result
}

func normalizePlanResource(resource interface{}) *PlanResource {
	data, _ := resource.(map[string]interface{})

	address := stringField(data, "address")
	if address == "" {
		address = buildAddress(data)
	}

	values, _ := data["values"].(map[string]interface{})
	return &PlanResource{
		Address:      address,
		Mode:         resourceMode(data),
		Type:         stringFieldOr(data, "type", "unknown"),
		Name:         stringFieldOr(data, "name", "unknown"),
		ProviderName: stringField(data, "provider_name"),
		Values:       values,
	}
}

func normalizeResourceChange(change interface{}) *ResourceChange {
	data, _ := change.(map[string]interface{})
	changeData, _ := data["change"].(map[string]interface{})

	address := stringField(data, "address")
	if address == "" {
		address = buildAddress(data)
	}

	actions := []string{}
	if list, ok := changeData["actions"].([]interface{}); ok {
		for _, item := range list {
			if action, ok := item.(string); ok {
				actions = append(actions, action)
			}
		}
	}

	afterUnknown, _ := changeData["after_unknown"].(map[string]interface{})
	beforeSensitive, _ := changeData["before_sensitive"].(map[string]interface{})
	afterSensitive, _ := changeData["after_sensitive"].(map[string]interface{})

	return &ResourceChange{
		Address:       address,
		ModuleAddress: stringField(data, "module_address"),
		Mode:          resourceMode(data),
		Type:          stringFieldOr(data, "type", "unknown"),
		Name:          stringFieldOr(data, "name", "unknown"),
		ProviderName:  stringField(data, "provider_name"),
		Change: &PlanChange{
			Actions:         actions,
			Before:          changeData["before"],
			After:           changeData["after"],
			AfterUnknown:    afterUnknown,
			BeforeSensitive: beforeSensitive,
			AfterSensitive:  afterSensitive,
		},
	}
}

// buildAddress falls back to mode.type.name when the plan omits an address
func buildAddress(data map[string]interface{}) string {
	mode := "resource"
	if data["mode"] == "data" {
		mode = "data"
	}
	return mode + "." + stringFieldOr(data, "type", "unknown") + "." + stringFieldOr(data, "name", "unknown")
}
