package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hclgraph/hclgraph/pkg/types"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTfVarsParseHCL(t *testing.T) {
	path := writeTemp(t, "terraform.tfvars", `
region         = "us-east-1"
instance_count = 3
subnets        = ["a", "b"]
ami_override   = var.custom_ami
`)

	result, err := (&TfVarsParser{}).ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}

	if len(result.Assignments) != 4 {
		t.Fatalf("len(Assignments) = %d, want 4", len(result.Assignments))
	}

	region, ok := types.LiteralString(result.Assignments["region"])
	if !ok || region != "us-east-1" {
		t.Errorf("region = %v, want us-east-1", result.Assignments["region"])
	}

	count, ok := types.LiteralInt(result.Assignments["instance_count"])
	if !ok || count != 3 {
		t.Errorf("instance_count = %v, want 3", result.Assignments["instance_count"])
	}

	if _, ok := result.Assignments["subnets"].(*types.ArrayValue); !ok {
		t.Errorf("subnets = %T, want *types.ArrayValue", result.Assignments["subnets"])
	}

	wantRefs := []types.Reference{types.VariableRef{Name: "custom_ami"}}
	if diff := cmp.Diff(wantRefs, result.Assignments["ami_override"].Refs()); diff != "" {
		t.Errorf("ami_override references mismatch (-want +got):\n%s", diff)
	}
}

func TestTfVarsParseJSON(t *testing.T) {
	path := writeTemp(t, "prod.tfvars.json", `{
  "region": "us-west-2",
  "instance_count": 5,
  "tags": {"env": "prod-east"}
}`)

	result, err := (&TfVarsParser{}).ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}

	count, ok := types.LiteralInt(result.Assignments["instance_count"])
	if !ok || count != 5 {
		t.Errorf("instance_count = %v, want 5", result.Assignments["instance_count"])
	}

	tags, ok := result.Assignments["tags"].(*types.ObjectValue)
	if !ok {
		t.Fatalf("tags = %T, want *types.ObjectValue", result.Assignments["tags"])
	}
	env, ok := types.LiteralString(tags.Entries["env"])
	if !ok || env != "prod-east" {
		t.Errorf("tags.env = %v, want prod-east", tags.Entries["env"])
	}
}

func TestTfVarsParseMissingFile(t *testing.T) {
	if _, err := (&TfVarsParser{}).ParseFile(filepath.Join(t.TempDir(), "absent.tfvars")); err == nil {
		t.Error("ParseFile() expected error for missing file, got nil")
	}
}
