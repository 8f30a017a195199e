package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hclgraph/hclgraph/pkg/logger"
	"github.com/hclgraph/hclgraph/pkg/parser/artifact"
	"github.com/hclgraph/hclgraph/pkg/parser/terraform"
	"github.com/hclgraph/hclgraph/pkg/serializer"
	"github.com/hclgraph/hclgraph/pkg/types"
)

var (
	version = "0.1.0"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "hclgraph",
		Short: "Terraform configuration parser and dependency graph builder",
		Long: `hclgraph parses Terraform configuration (.tf, .tf.json) along with
tfvars, state and plan artifacts, and builds a dependency graph of the
references between configuration elements.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.SetLevel(logger.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(
		newParseCmd(),
		newGraphCmd(),
	)

	return rootCmd
}

// emitOptions carry the output flags shared by the commands
type emitOptions struct {
	format string
	output string
	prune  bool
}

func newParseCmd() *cobra.Command {
	var (
		format  string
		output  string
		noPrune bool
		strict  bool
	)

	cmd := &cobra.Command{
		Use:   "parse [path]",
		Short: "Parse configuration or artifacts into a structured document",
		Long: `Parse a Terraform file, a directory of configuration, or an artifact
(.tfvars, .tfstate, plan JSON) and emit the structured result.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := emitOptions{format: format, output: output, prune: !noPrune}

			result, err := parseTarget(args[0], strict)
			if err != nil {
				return err
			}
			return emit(result, opts)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format (json, yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&noPrune, "no-prune", false, "keep empty values in the output")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on syntax errors instead of warning")

	return cmd
}

func newGraphCmd() *cobra.Command {
	var (
		format  string
		output  string
		noPrune bool
		strict  bool
	)

	cmd := &cobra.Command{
		Use:   "graph [path]",
		Short: "Build the dependency graph of a configuration",
		Long: `Parse a Terraform file or directory and emit an export containing the
document and its dependency graph.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := emitOptions{format: format, output: output, prune: !noPrune}

			document, err := loadDocument(args[0], strict)
			if err != nil {
				return err
			}
			return emitExport(document, opts)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format (json, yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&noPrune, "no-prune", false, "keep empty values in the output")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on syntax errors instead of warning")

	return cmd
}

// parseTarget parses a file or directory, routing artifact files to their
// dedicated parsers.
func parseTarget(path string, strict bool) (interface{}, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot access %s: %w", path, err)
	}

	parser := terraform.New(strict)
	if info.IsDir() {
		return parser.ParseDirectory(path)
	}

	switch artifact.Detect(path) {
	case artifact.KindTfVars:
		return (&artifact.TfVarsParser{}).ParseFile(path)
	case artifact.KindState:
		return (&artifact.StateParser{}).ParseFile(path)
	case artifact.KindPlan:
		return (&artifact.PlanParser{}).ParseFile(path)
	}

	return parser.ParseFile(path)
}

// loadDocument parses a file or directory down to a single combined
// document, rejecting artifact inputs that have no configuration to graph.
func loadDocument(path string, strict bool) (*types.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot access %s: %w", path, err)
	}

	parser := terraform.New(strict)
	if info.IsDir() {
		result, err := parser.ParseDirectory(path)
		if err != nil {
			return nil, err
		}
		return result.Combined, nil
	}

	if kind := artifact.Detect(path); kind != artifact.KindConfig {
		return nil, fmt.Errorf("graph export requires Terraform configuration, got %s input", kind)
	}

	return parser.ParseFile(path)
}

func emit(value interface{}, opts emitOptions) error {
	var rendered string
	var err error

	if opts.format == "yaml" {
		rendered, err = serializer.ToYAML(value, opts.prune)
	} else {
		rendered, err = serializer.ToJSON(value, opts.prune)
	}
	if err != nil {
		return err
	}
	return writeOutput(rendered, opts.output)
}

func emitExport(document *types.Document, opts emitOptions) error {
	var rendered string
	var err error

	if opts.format == "yaml" {
		rendered, err = serializer.ToYAMLExport(document, opts.prune)
	} else {
		rendered, err = serializer.ToJSONExport(document, opts.prune)
	}
	if err != nil {
		return err
	}
	return writeOutput(rendered, opts.output)
}

func writeOutput(rendered, output string) error {
	if output == "" {
		fmt.Println(rendered)
		return nil
	}
	if err := os.WriteFile(output, []byte(rendered+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	logger.Info("Output written to %s", output)
	return nil
}
