// Package terraform assembles scanned HCL blocks into typed documents.
// It handles both native HCL (.tf) and the JSON configuration variant
// (.tf.json), single files and whole directories.
package terraform

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hclgraph/hclgraph/pkg/lexer"
	"github.com/hclgraph/hclgraph/pkg/logger"
	"github.com/hclgraph/hclgraph/pkg/types"
)

// ignoredDirs are skipped during directory discovery
var ignoredDirs = map[string]struct{}{
	".terraform":   {},
	".git":         {},
	"node_modules": {},
}

// Parser turns Terraform configuration into types.Document values
type Parser struct {
	scanner *lexer.Scanner
	json    *JSONParser
}

// New returns a parser. Pass strict=true to fail on syntax errors instead
// of logging and continuing.
func New(strict bool) *Parser {
	return &Parser{
		scanner: lexer.NewScanner(strict),
		json:    &JSONParser{},
	}
}

// Parse scans HCL content and assembles every top-level block into a
// document. The source string is carried into each block for diagnostics.
func (p *Parser) Parse(content, source string) (*types.Document, error) {
	blocks, err := p.scanner.Scan(content, source)
	if err != nil {
		return nil, err
	}

	document := types.NewDocument()
	for _, block := range blocks {
		switch block.Kind {
		case types.BlockVariable:
			document.Variable = append(document.Variable, assembleVariable(block))
		case types.BlockOutput:
			document.Output = append(document.Output, assembleOutput(block))
		case types.BlockLocals:
			document.Locals = append(document.Locals, assembleLocals(block)...)
		case types.BlockModule:
			document.Module = append(document.Module, assembleModule(block))
		case types.BlockProvider:
			document.Provider = append(document.Provider, assembleProvider(block))
		case types.BlockResource:
			document.Resource = append(document.Resource, assembleResource(block))
		case types.BlockData:
			document.Data = append(document.Data, assembleData(block))
		case types.BlockTerraform:
			document.Terraform = append(document.Terraform, assembleSettings(block))
		case types.BlockMoved:
			document.Moved = append(document.Moved, assembleGeneric(block))
		case types.BlockImport:
			document.Import = append(document.Import, assembleGeneric(block))
		case types.BlockCheck:
			document.Check = append(document.Check, assembleGeneric(block))
		case types.BlockTerraformData:
			document.TerraformData = append(document.TerraformData, assembleGeneric(block))
		default:
			document.Unknown = append(document.Unknown, assembleGeneric(block))
		}
	}

	return document, nil
}

// ParseFile parses one configuration file, routing .tf.json through the
// JSON variant parser.
func (p *Parser) ParseFile(path string) (*types.Document, error) {
	if strings.HasSuffix(path, ".tf.json") {
		logger.Info("Parsing Terraform JSON file: %s", path)
		return p.json.ParseFile(path)
	}

	logger.Info("Parsing Terraform file: %s", path)
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return p.Parse(string(content), path)
}

// FileResult pairs a parsed document with the file it came from
type FileResult struct {
	Path     string          `json:"path"`
	Document *types.Document `json:"document"`
}

// DirectoryResult is the outcome of parsing a directory tree
type DirectoryResult struct {
	Files    []*FileResult   `json:"files"`
	Combined *types.Document `json:"combined,omitempty"`
}

// ParseDirectory recursively parses every .tf and .tf.json file under dir,
// skipping the .terraform, .git and node_modules directories. Files are
// processed in sorted path order.
func (p *Parser) ParseDirectory(dir string) (*DirectoryResult, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("invalid directory path: %s", dir)
	}

	files, err := listConfigFiles(dir)
	if err != nil {
		return nil, err
	}

	result := &DirectoryResult{}
	var documents []*types.Document
	for _, path := range files {
		document, err := p.ParseFile(path)
		if err != nil {
			return nil, err
		}
		result.Files = append(result.Files, &FileResult{Path: path, Document: document})
		documents = append(documents, document)
	}

	result.Combined = p.Combine(documents)
	return result, nil
}

// Combine merges multiple documents into one, preserving input order
func (p *Parser) Combine(documents []*types.Document) *types.Document {
	combined := types.NewDocument()
	for _, document := range documents {
		combined.Merge(document)
	}
	return combined
}

func listConfigFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if _, ignored := ignoredDirs[entry.Name()]; ignored && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".tf") || strings.HasSuffix(name, ".tf.json") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
