// Package artifact parses the Terraform artifacts that accompany
// configuration: variable definition files (.tfvars), state snapshots
// (.tfstate), and plan JSON exports. Missing or mistyped fields degrade
// to zero values instead of failing.
package artifact

import (
	"path/filepath"
	"strings"
)

// Kind identifies what a file path holds
type Kind string

const (
	// KindConfig is regular configuration (.tf, .tf.json)
	KindConfig Kind = "config"
	// KindTfVars is a variable definitions file
	KindTfVars Kind = "tfvars"
	// KindState is a state snapshot
	KindState Kind = "state"
	// KindPlan is a plan JSON export
	KindPlan Kind = "plan"
)

// Detect classifies a file path by name. Any path containing "tfvars" is a
// variable definitions file, a .tfstate extension is state, a .json file
// ending in plan.json is a plan, and everything else is configuration.
func Detect(path string) Kind {
	if strings.Contains(path, "tfvars") {
		return KindTfVars
	}
	ext := filepath.Ext(path)
	if ext == ".tfstate" {
		return KindState
	}
	if ext == ".json" && strings.HasSuffix(path, "plan.json") {
		return KindPlan
	}
	return KindConfig
}
