package artifact

import (
	"bytes"
	"encoding/json"
	"testing"
)

func decodeJSON(t *testing.T, raw string) interface{} {
	t.Helper()
	decoder := json.NewDecoder(bytes.NewReader([]byte(raw)))
	decoder.UseNumber()
	var data interface{}
	if err := decoder.Decode(&data); err != nil {
		t.Fatal(err)
	}
	return data
}

func TestStateParse(t *testing.T) {
	raw := decodeJSON(t, `{
  "version": 4,
  "terraform_version": "1.6.2",
  "serial": 17,
  "lineage": "abc-123",
  "outputs": {
    "vpc_id": {"value": "vpc-0a1b2c", "type": "string"},
    "secret": {"value": "hidden", "sensitive": true}
  },
  "resources": [
    {
      "mode": "managed",
      "type": "aws_instance",
      "name": "web",
      "provider": "provider[\"registry.terraform.io/hashicorp/aws\"]",
      "instances": [
        {"index_key": 0, "attributes": {"id": "i-111"}},
        {"index_key": "blue", "attributes": {"id": "i-222"}, "status": "tainted"}
      ]
    },
    {
      "mode": "data",
      "type": "aws_ami",
      "name": "ubuntu",
      "instances": [{"attributes": {"id": "ami-999"}}]
    }
  ]
}`)

	state := (&StateParser{}).Parse(raw, "terraform.tfstate")

	if state.Version != 4 {
		t.Errorf("Version = %d, want 4", state.Version)
	}
	if state.TerraformVersion != "1.6.2" {
		t.Errorf("TerraformVersion = %q, want 1.6.2", state.TerraformVersion)
	}
	if state.Serial == nil || *state.Serial != 17 {
		t.Errorf("Serial = %v, want 17", state.Serial)
	}
	if state.Lineage != "abc-123" {
		t.Errorf("Lineage = %q, want abc-123", state.Lineage)
	}
	if state.Source != "terraform.tfstate" {
		t.Errorf("Source = %q, want terraform.tfstate", state.Source)
	}

	if len(state.Outputs) != 2 {
		t.Fatalf("len(Outputs) = %d, want 2", len(state.Outputs))
	}
	if state.Outputs["vpc_id"].Value != "vpc-0a1b2c" {
		t.Errorf("vpc_id = %v, want vpc-0a1b2c", state.Outputs["vpc_id"].Value)
	}
	if !state.Outputs["secret"].Sensitive {
		t.Error("secret output should be sensitive")
	}

	if len(state.Resources) != 2 {
		t.Fatalf("len(Resources) = %d, want 2", len(state.Resources))
	}

	web := state.Resources[0]
	if web.Mode != "managed" || web.Type != "aws_instance" || web.Name != "web" {
		t.Errorf("resource = %s %s.%s, want managed aws_instance.web", web.Mode, web.Type, web.Name)
	}
	if len(web.Instances) != 2 {
		t.Fatalf("len(Instances) = %d, want 2", len(web.Instances))
	}
	if key, ok := web.Instances[0].IndexKey.(int64); !ok || key != 0 {
		t.Errorf("first index key = %v, want int64 0", web.Instances[0].IndexKey)
	}
	if key, ok := web.Instances[1].IndexKey.(string); !ok || key != "blue" {
		t.Errorf("second index key = %v, want blue", web.Instances[1].IndexKey)
	}
	if web.Instances[1].Status != "tainted" {
		t.Errorf("status = %q, want tainted", web.Instances[1].Status)
	}

	if state.Resources[1].Mode != "data" {
		t.Errorf("second resource mode = %q, want data", state.Resources[1].Mode)
	}
}

func TestStateParseBareOutputValue(t *testing.T) {
	raw := decodeJSON(t, `{"version": 3, "outputs": {"region": "us-east-1"}}`)
	state := (&StateParser{}).Parse(raw, "legacy.tfstate")

	if state.Version != 3 {
		t.Errorf("Version = %d, want 3", state.Version)
	}
	if state.Outputs["region"].Value != "us-east-1" {
		t.Errorf("region = %v, want us-east-1", state.Outputs["region"].Value)
	}
}

func TestStateParseDegradesOnGarbage(t *testing.T) {
	state := (&StateParser{}).Parse("not a state", "bad.tfstate")

	if state.Version != 0 {
		t.Errorf("Version = %d, want 0", state.Version)
	}
	if state.Outputs == nil || len(state.Outputs) != 0 {
		t.Errorf("Outputs = %v, want empty map", state.Outputs)
	}
	if state.Resources == nil || len(state.Resources) != 0 {
		t.Errorf("Resources = %v, want empty slice", state.Resources)
	}
}

func TestStateParseStringVersion(t *testing.T) {
	raw := decodeJSON(t, `{"version": "4"}`)
	if got := (&StateParser{}).Parse(raw, "s.tfstate").Version; got != 4 {
		t.Errorf("Version = %d, want 4", got)
	}
}
