// Package serializer renders parse results as JSON or YAML, with optional
// pruning of empty containers and null values.
package serializer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hclgraph/hclgraph/pkg/graph"
	"github.com/hclgraph/hclgraph/pkg/types"
)

// ToJSON serializes a value as indented JSON. Documents are pruned when
// pruneEmpty is set; other values pass through untouched.
func ToJSON(value interface{}, pruneEmpty bool) (string, error) {
	tree, err := jsonTree(value)
	if err != nil {
		return "", err
	}
	if pruneEmpty && isDocument(value) {
		tree = pruneOrEmpty(tree)
	}
	return marshalIndented(tree)
}

// ToJSONExport serializes a document together with its dependency graph.
// Pruning applies to the document section only; the graph keeps its full
// shape.
func ToJSONExport(document *types.Document, pruneEmpty bool) (string, error) {
	tree, err := exportTree(document, pruneEmpty)
	if err != nil {
		return "", err
	}
	return marshalIndented(tree)
}

// ToYAML serializes a value as YAML with the same pruning rules as ToJSON
func ToYAML(value interface{}, pruneEmpty bool) (string, error) {
	tree, err := yamlTree(value)
	if err != nil {
		return "", err
	}
	if pruneEmpty && isDocument(value) {
		tree = pruneOrEmpty(tree)
	}
	return encodeYAML(tree)
}

// ToYAMLExport serializes an export envelope as YAML. Pruning applies to
// the document section only, matching the JSON export.
func ToYAMLExport(document *types.Document, pruneEmpty bool) (string, error) {
	tree, err := yamlTree(graph.NewExport(document))
	if err != nil {
		return "", err
	}
	if pruneEmpty {
		pruneExportDocument(tree)
	}
	return encodeYAML(tree)
}

func encodeYAML(tree interface{}) (string, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(tree); err != nil {
		return "", fmt.Errorf("encoding yaml: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func exportTree(document *types.Document, pruneEmpty bool) (interface{}, error) {
	export := graph.NewExport(document)
	tree, err := jsonTree(export)
	if err != nil {
		return nil, err
	}
	if pruneEmpty {
		pruneExportDocument(tree)
	}
	return tree, nil
}

func pruneExportDocument(tree interface{}) {
	envelope, ok := tree.(map[string]interface{})
	if !ok {
		return
	}
	envelope["document"] = pruneOrEmpty(envelope["document"])
}

// jsonTree round-trips a value through its JSON encoding into a generic
// tree, preserving number text via json.Number.
func jsonTree(value interface{}) (interface{}, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encoding json: %w", err)
	}
	decoder := json.NewDecoder(bytes.NewReader(encoded))
	decoder.UseNumber()
	var tree interface{}
	if err := decoder.Decode(&tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// yamlTree builds the generic tree with native numbers, which YAML renders
// cleanly.
func yamlTree(value interface{}) (interface{}, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encoding json: %w", err)
	}
	var tree interface{}
	if err := json.Unmarshal(encoded, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

func marshalIndented(tree interface{}) (string, error) {
	encoded, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func isDocument(value interface{}) bool {
	_, ok := value.(*types.Document)
	return ok
}

func pruneOrEmpty(tree interface{}) interface{} {
	pruned := Prune(tree)
	if pruned == nil {
		return map[string]interface{}{}
	}
	return pruned
}

// Prune removes null values and empty containers from a generic tree,
// recursively. A list or map whose every entry prunes away becomes nil.
func Prune(value interface{}) interface{} {
	switch v := value.(type) {
	case nil:
		return nil
	case []interface{}:
		var items []interface{}
		for _, item := range v {
			next := Prune(item)
			if isEmpty(next) {
				continue
			}
			items = append(items, next)
		}
		if len(items) == 0 {
			return nil
		}
		return items
	case map[string]interface{}:
		pruned := map[string]interface{}{}
		for key, item := range v {
			next := Prune(item)
			if isEmpty(next) {
				continue
			}
			pruned[key] = next
		}
		if len(pruned) == 0 {
			return nil
		}
		return pruned
	}
	return value
}

func isEmpty(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case []interface{}:
		return len(v) == 0
	case map[string]interface{}:
		return len(v) == 0
	}
	return false
}
