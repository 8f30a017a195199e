package serializer

import (
	"encoding/json"
	"strings"
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

func decode(t *testing.T, encoded string) map[string]interface{} {
	t.Helper()
	var tree map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(encoded), &tree))
	return tree
}

func TestToJSONPrunesDocument(t *testing.T) {
	document := parseDocument(t, `
variable "region" {
  default = null
}
`)

	defaultTree := func(encoded string) map[string]interface{} {
		tree := decode(t, encoded)
		variables, ok := tree["variable"].([]interface{})
		require.True(t, ok)
		require.Len(t, variables, 1)
		variable, ok := variables[0].(map[string]interface{})
		require.True(t, ok)
		def, ok := variable["default"].(map[string]interface{})
		require.True(t, ok)
		return def
	}

	full, err := ToJSON(document, false)
	require.NoError(t, err)
	assert.Contains(t, defaultTree(full), "value")

	pruned, err := ToJSON(document, true)
	require.NoError(t, err)
	// the null payload prunes away, the raw text stays
	def := defaultTree(pruned)
	assert.NotContains(t, def, "value")
	assert.Equal(t, "null", def["raw"])
}

func TestToJSONLeavesNonDocumentsAlone(t *testing.T) {
	value := map[string]interface{}{
		"kept":  "x",
		"empty": map[string]interface{}{},
	}

	encoded, err := ToJSON(value, true)
	require.NoError(t, err)

	tree := decode(t, encoded)
	assert.Contains(t, tree, "empty", "pruning applies to documents only")
}

func TestToJSONExportEnvelope(t *testing.T) {
	document := parseDocument(t, `
variable "ami" {}

resource "aws_instance" "web" {
  ami = var.ami
}
`)

	encoded, err := ToJSONExport(document, true)
	require.NoError(t, err)

	tree := decode(t, encoded)
	assert.Equal(t, "1.0.0", tree["version"])
	require.Contains(t, tree, "document")
	require.Contains(t, tree, "graph")

	// the document section is pruned, the graph is not
	documentTree, ok := tree["document"].(map[string]interface{})
	require.True(t, ok)
	assert.NotContains(t, documentTree, "output")

	graphTree, ok := tree["graph"].(map[string]interface{})
	require.True(t, ok)
	nodes, ok := graphTree["nodes"].([]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, nodes)
	assert.Contains(t, graphTree, "edges")
}

func TestToYAML(t *testing.T) {
	document := parseDocument(t, `
variable "count" {
  default = 3
}
`)

	encoded, err := ToYAML(document, true)
	require.NoError(t, err)

	assert.Contains(t, encoded, "variable:")
	assert.Contains(t, encoded, "name: count")
	// numbers render natively, not as quoted strings
	assert.Contains(t, encoded, "value: 3")
	assert.False(t, strings.HasSuffix(encoded, "\n"))
}

func TestToYAMLExport(t *testing.T) {
	document := parseDocument(t, `variable "region" {}`)

	encoded, err := ToYAMLExport(document, true)
	require.NoError(t, err)

	assert.NotEqual(t, "{}", encoded)
	assert.Contains(t, encoded, "version: 1.0.0")
	assert.Contains(t, encoded, "document:")
	assert.Contains(t, encoded, "graph:")
	// the envelope carries real content, not just section keys
	assert.Contains(t, encoded, "name: region")
	assert.Contains(t, encoded, "id: variable.region")
}

func TestPrune(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  interface{}
	}{
		{"nil", nil, nil},
		{"scalar", "x", "x"},
		{"zero stays", json.Number("0"), json.Number("0")},
		{"false stays", false, false},
		{"empty list", []interface{}{}, nil},
		{"empty map", map[string]interface{}{}, nil},
		{
			name:  "nested empties collapse",
			input: map[string]interface{}{"a": map[string]interface{}{"b": nil}},
			want:  nil,
		},
		{
			name:  "survivors kept",
			input: map[string]interface{}{"a": nil, "b": "kept"},
			want:  map[string]interface{}{"b": "kept"},
		},
		{
			name:  "list of empties collapses",
			input: []interface{}{nil, map[string]interface{}{}, "kept"},
			want:  []interface{}{"kept"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Prune(tt.input))
		})
	}
}
