package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/hclgraph/hclgraph/pkg/parser"
	"github.com/hclgraph/hclgraph/pkg/parser/terraform"
	"github.com/hclgraph/hclgraph/pkg/types"
)

// TfVars holds the assignments of a variable definitions file
type TfVars struct {
	Source      string                 `json:"source"`
	Raw         string                 `json:"raw"`
	Assignments map[string]types.Value `json:"assignments"`
}

// TfVarsParser parses .tfvars and .tfvars.json files
type TfVarsParser struct{}

// ParseFile reads a variable definitions file. The JSON form is converted
// through the JSON value model; the HCL form parses as a bare block body.
func (p *TfVarsParser) ParseFile(path string) (*TfVars, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if strings.HasSuffix(path, ".json") {
		decoder := json.NewDecoder(bytes.NewReader(content))
		decoder.UseNumber()
		var data map[string]interface{}
		if err := decoder.Decode(&data); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
		return &TfVars{
			Source:      path,
			Raw:         string(content),
			Assignments: terraform.ConvertJSONAttributes(data),
		}, nil
	}

	parsed := parser.ParseBody(string(content))
	return &TfVars{
		Source:      path,
		Raw:         string(content),
		Assignments: parsed.Attributes,
	}, nil
}
