package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hclgraph/hclgraph/pkg/parser/terraform"
	"github.com/hclgraph/hclgraph/pkg/types"
)

func parseDocument(t *testing.T, content string) *types.Document {
	t.Helper()
	document, err := terraform.New(true).Parse(content, "main.tf")
	require.NoError(t, err)
	return document
}

func TestBuildNodes(t *testing.T) {
	document := parseDocument(t, `
provider "aws" {
  alias = "west"
}

variable "region" {}

output "ip" {
  value = "static"
}

locals {
  prefix = "app"
}

module "vpc" {
  source = "./modules/vpc"
}

resource "aws_instance" "web" {}

data "aws_ami" "ubuntu" {}
`)

	graph := Build(document)

	// the settings node leads even without a terraform block
	require.NotEmpty(t, graph.Nodes)
	assert.Equal(t, "terraform.settings", graph.Nodes[0].ID)
	assert.Equal(t, types.NodeTerraform, graph.Nodes[0].Kind)

	tests := []struct {
		id   string
		kind types.GraphNodeKind
		name string
	}{
		{"provider.aws.west", types.NodeProvider, "west"},
		{"variable.region", types.NodeVariable, "region"},
		{"output.ip", types.NodeOutput, "ip"},
		{"locals.prefix", types.NodeLocals, "prefix"},
		{"module.vpc", types.NodeModule, "vpc"},
		{"resource.aws_instance.web", types.NodeResource, "web"},
		{"data.aws_ami.ubuntu", types.NodeData, "ubuntu"},
	}

	for _, tt := range tests {
		node := graph.Node(tt.id)
		require.NotNil(t, node, "node %s missing", tt.id)
		assert.Equal(t, tt.kind, node.Kind, "node %s kind", tt.id)
		assert.Equal(t, tt.name, node.Name, "node %s name", tt.id)
	}
}

func TestBuildProviderWithoutAlias(t *testing.T) {
	document := parseDocument(t, `provider "aws" {}`)
	graph := Build(document)

	node := graph.Node("provider.aws")
	require.NotNil(t, node)
	assert.Equal(t, "aws", node.Name)
	assert.Equal(t, "aws", node.Type)
}

func TestBuildEdges(t *testing.T) {
	document := parseDocument(t, `
variable "ami" {}

locals {
  name = "web"
}

resource "aws_instance" "web" {
  ami  = var.ami
  tags = {Name = local.name}
}

output "ip" {
  value = aws_instance.web.private_ip
}
`)

	graph := Build(document)

	type link struct{ from, to string }
	var links []link
	for _, edge := range graph.Edges {
		links = append(links, link{edge.From, edge.To})
	}

	assert.Contains(t, links, link{"resource.aws_instance.web", "variable.ami"})
	assert.Contains(t, links, link{"resource.aws_instance.web", "locals.name"})
	assert.Contains(t, links, link{"output.ip", "resource.aws_instance.web"})
	assert.Empty(t, graph.OrphanReferences)
}

func TestBuildEdgeDeduplication(t *testing.T) {
	document := parseDocument(t, `
variable "ami" {}

resource "aws_instance" "web" {
  ami          = var.ami
  ami_fallback = var.ami
}
`)

	graph := Build(document)

	count := 0
	for _, edge := range graph.Edges {
		if edge.From == "resource.aws_instance.web" && edge.To == "variable.ami" {
			count++
		}
	}
	assert.Equal(t, 1, count, "identical references should collapse to one edge")
}

func TestBuildPlaceholderNodes(t *testing.T) {
	document := parseDocument(t, `
output "subnet" {
  value = aws_subnet.main.id
}

output "workdir" {
  value = path.module
}
`)

	graph := Build(document)

	subnet := graph.Node("resource.aws_subnet.main")
	require.NotNil(t, subnet, "undeclared resource should get a placeholder")
	assert.Equal(t, types.NodeResource, subnet.Kind)
	assert.Equal(t, "aws_subnet", subnet.Type)
	assert.Empty(t, subnet.Source)

	workdir := graph.Node("path.module")
	require.NotNil(t, workdir)
	assert.Equal(t, types.NodePath, workdir.Kind)
}

func TestBuildSplatReferenceEdge(t *testing.T) {
	document := parseDocument(t, `
resource "aws_instance" "web" {
  count = 2
}

output "ids" {
  value = aws_instance.web[*].id
}
`)

	graph := Build(document)

	found := false
	for _, edge := range graph.Edges {
		if edge.From == "output.ids" && edge.To == "resource.aws_instance.web" {
			found = true
			ref, ok := edge.Reference.(types.ResourceRef)
			require.True(t, ok)
			assert.True(t, ref.Splat)
		}
	}
	assert.True(t, found, "splat reference should resolve to the declared resource")
}

func TestBuildDynamicBlockEdges(t *testing.T) {
	document := parseDocument(t, `
variable "rules" {}

resource "aws_security_group" "main" {
  dynamic "ingress" {
    for_each = var.rules
    content {
      from_port = ingress.value.port
    }
  }
}
`)

	graph := Build(document)

	found := false
	for _, edge := range graph.Edges {
		if edge.From == "resource.aws_security_group.main" && edge.To == "variable.rules" {
			found = true
		}
	}
	assert.True(t, found, "dynamic for_each should produce an edge")
}

func TestBuildMetaArgumentEdges(t *testing.T) {
	document := parseDocument(t, `
resource "aws_s3_bucket" "logs" {}

resource "aws_instance" "web" {
  depends_on = [aws_s3_bucket.logs]
}
`)

	graph := Build(document)

	found := false
	for _, edge := range graph.Edges {
		if edge.From == "resource.aws_instance.web" && edge.To == "resource.aws_s3_bucket.logs" {
			found = true
		}
	}
	assert.True(t, found, "depends_on should produce an edge")
}

func TestBuildGenericBlocks(t *testing.T) {
	document := parseDocument(t, `
resource "aws_instance" "web" {}

moved {
  from = aws_instance.old
  to   = aws_instance.web
}
`)

	graph := Build(document)

	moved := graph.Node("moved.default")
	require.NotNil(t, moved)
	assert.Equal(t, types.GraphNodeKind("moved"), moved.Kind)

	var targets []string
	for _, edge := range graph.Edges {
		if edge.From == "moved.default" {
			targets = append(targets, edge.To)
		}
	}
	assert.Contains(t, targets, "resource.aws_instance.web")
	assert.Contains(t, targets, "resource.aws_instance.old")
}

func TestBuildEmptyDocument(t *testing.T) {
	graph := Build(types.NewDocument())

	require.Len(t, graph.Nodes, 1)
	assert.Equal(t, "terraform.settings", graph.Nodes[0].ID)
	require.NotNil(t, graph.Edges)
	assert.Empty(t, graph.Edges)
}

func TestNewExport(t *testing.T) {
	document := parseDocument(t, `variable "region" {}`)
	export := NewExport(document)

	assert.Equal(t, Version, export.Version)
	assert.Same(t, document, export.Document)
	require.NotNil(t, export.Graph)
	assert.NotNil(t, export.Graph.Node("variable.region"))
}
