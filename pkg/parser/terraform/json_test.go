package terraform

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hclgraph/hclgraph/pkg/types"
)

func TestJSONParseVariables(t *testing.T) {
	data := map[string]interface{}{
		"variable": map[string]interface{}{
			"zone": map[string]interface{}{
				"type":    "string",
				"default": "us-east-1a",
			},
			"count": map[string]interface{}{
				"type":        "number",
				"default":     json.Number("3"),
				"description": "Instance count",
				"sensitive":   false,
			},
		},
	}

	document := (&JSONParser{}).Parse(data, "main.tf.json")

	if len(document.Variable) != 2 {
		t.Fatalf("len(Variable) = %d, want 2", len(document.Variable))
	}
	// sorted key order
	if document.Variable[0].Name != "count" || document.Variable[1].Name != "zone" {
		t.Errorf("variable order = %s, %s, want count, zone", document.Variable[0].Name, document.Variable[1].Name)
	}

	count := document.Variable[0]
	if count.TypeConstraint == nil || count.TypeConstraint.Base != "number" {
		t.Errorf("count constraint = %+v, want base number", count.TypeConstraint)
	}
	def, ok := types.LiteralInt(count.Default)
	if !ok || def != 3 {
		t.Errorf("count default = %v, want 3", count.Default)
	}
	if count.Sensitive == nil || *count.Sensitive {
		t.Errorf("count sensitive = %v, want false", count.Sensitive)
	}
	if count.Source != "main.tf.json" {
		t.Errorf("source = %q, want main.tf.json", count.Source)
	}
}

func TestJSONParseResources(t *testing.T) {
	data := map[string]interface{}{
		"resource": map[string]interface{}{
			"aws_instance": map[string]interface{}{
				"web": map[string]interface{}{
					"ami":       "ami-123456",
					"subnet_id": "${aws_subnet.main.id}",
				},
			},
			"aws_s3_bucket": map[string]interface{}{
				"logs": map[string]interface{}{
					"bucket": "my-logs",
				},
			},
		},
	}

	document := (&JSONParser{}).Parse(data, "main.tf.json")

	if len(document.Resource) != 2 {
		t.Fatalf("len(Resource) = %d, want 2", len(document.Resource))
	}
	if document.Resource[0].Type != "aws_instance" || document.Resource[1].Type != "aws_s3_bucket" {
		t.Errorf("resource order = %s, %s, want aws_instance, aws_s3_bucket",
			document.Resource[0].Type, document.Resource[1].Type)
	}

	web := document.Resource[0]
	ami, ok := types.LiteralString(web.Properties["ami"])
	if !ok || ami != "ami-123456" {
		t.Errorf("ami = %v, want literal ami-123456", web.Properties["ami"])
	}

	wantRefs := []types.Reference{
		types.ResourceRef{ResourceType: "aws_subnet", Name: "main", Attribute: "id"},
	}
	if diff := cmp.Diff(wantRefs, web.Properties["subnet_id"].Refs()); diff != "" {
		t.Errorf("subnet_id references mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONParseProviderAlias(t *testing.T) {
	data := map[string]interface{}{
		"provider": map[string]interface{}{
			"aws": []interface{}{
				map[string]interface{}{
					"region": "us-west-2",
					"alias":  "west",
				},
			},
		},
	}

	document := (&JSONParser{}).Parse(data, "providers.tf.json")

	if len(document.Provider) != 1 {
		t.Fatalf("len(Provider) = %d, want 1", len(document.Provider))
	}
	provider := document.Provider[0]
	if provider.Name != "aws" || provider.Alias != "west" {
		t.Errorf("provider = %s/%s, want aws/west", provider.Name, provider.Alias)
	}
	if _, present := provider.Properties["alias"]; present {
		t.Error("alias should not appear in Properties")
	}
}

func TestJSONParseLocalsAndOutputs(t *testing.T) {
	data := map[string]interface{}{
		"locals": map[string]interface{}{
			"b_suffix": "tail",
			"a_prefix": "head",
		},
		"output": map[string]interface{}{
			"ip": map[string]interface{}{
				"value":       "${aws_instance.web.private_ip}",
				"description": "Primary IP",
			},
		},
	}

	document := (&JSONParser{}).Parse(data, "main.tf.json")

	if len(document.Locals) != 2 {
		t.Fatalf("len(Locals) = %d, want 2", len(document.Locals))
	}
	if document.Locals[0].Name != "a_prefix" || document.Locals[1].Name != "b_suffix" {
		t.Errorf("locals order = %s, %s, want a_prefix, b_suffix",
			document.Locals[0].Name, document.Locals[1].Name)
	}

	if len(document.Output) != 1 {
		t.Fatalf("len(Output) = %d, want 1", len(document.Output))
	}
	output := document.Output[0]
	if output.Description != "Primary IP" {
		t.Errorf("description = %q, want Primary IP", output.Description)
	}
	wantRefs := []types.Reference{
		types.ResourceRef{ResourceType: "aws_instance", Name: "web", Attribute: "private_ip"},
	}
	if diff := cmp.Diff(wantRefs, output.Value.Refs()); diff != "" {
		t.Errorf("output references mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertJSONValue(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		check func(t *testing.T, value types.Value)
	}{
		{
			name:  "null",
			input: nil,
			check: func(t *testing.T, value types.Value) {
				lit, ok := value.(*types.LiteralValue)
				if !ok || lit.Value != nil {
					t.Errorf("got %v, want nil literal", value)
				}
			},
		},
		{
			name:  "integer number",
			input: json.Number("42"),
			check: func(t *testing.T, value types.Value) {
				n, ok := types.LiteralInt(value)
				if !ok || n != 42 {
					t.Errorf("got %v, want 42", value)
				}
			},
		},
		{
			name:  "float number",
			input: json.Number("2.5"),
			check: func(t *testing.T, value types.Value) {
				f, ok := types.LiteralFloat(value)
				if !ok || f != 2.5 {
					t.Errorf("got %v, want 2.5", value)
				}
			},
		},
		{
			name:  "bool",
			input: true,
			check: func(t *testing.T, value types.Value) {
				b, ok := types.LiteralBool(value)
				if !ok || !b {
					t.Errorf("got %v, want true", value)
				}
			},
		},
		{
			name:  "nested list",
			input: []interface{}{json.Number("1"), "${var.x}"},
			check: func(t *testing.T, value types.Value) {
				array, ok := value.(*types.ArrayValue)
				if !ok {
					t.Fatalf("got %T, want *types.ArrayValue", value)
				}
				if len(array.Elements) != 2 {
					t.Fatalf("len(Elements) = %d, want 2", len(array.Elements))
				}
				want := []types.Reference{types.VariableRef{Name: "x"}}
				if diff := cmp.Diff(want, array.Elements[1].Refs()); diff != "" {
					t.Errorf("references mismatch (-want +got):\n%s", diff)
				}
			},
		},
		{
			name:  "nested object",
			input: map[string]interface{}{"inner": "plain-text"},
			check: func(t *testing.T, value types.Value) {
				object, ok := value.(*types.ObjectValue)
				if !ok {
					t.Fatalf("got %T, want *types.ObjectValue", value)
				}
				s, ok := types.LiteralString(object.Entries["inner"])
				if !ok || s != "plain-text" {
					t.Errorf("inner = %v, want plain-text", object.Entries["inner"])
				}
			},
		},
		{
			name:  "function call string",
			input: "max(1, 2)",
			check: func(t *testing.T, value types.Value) {
				expr, ok := value.(*types.ExpressionValue)
				if !ok || expr.Kind != types.ExprFunctionCall {
					t.Errorf("got %v, want function_call expression", value)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, convertJSONValue(tt.input))
		})
	}
}
