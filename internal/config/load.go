package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/depdiffgo/internal/ctxlog"
)

// Load parses the settings file at path. An empty path yields an empty
// File so callers can treat the settings file as optional.
//
// Expressions in the file may reference the process environment through
// the `env` object, so per-instance values like server URLs stay out of
// the repository:
//
//	governance {
//	  server_url     = env.GOVERNANCE_URL
//	  application_id = "billing-service"
//	}
func Load(ctx context.Context, path string) (*File, error) {
	logger := ctxlog.FromContext(ctx)

	if path == "" {
		logger.Debug("No settings file given, using defaults.")
		return &File{}, nil
	}

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, diags)
	}

	var file File
	diags = gohcl.DecodeBody(hclFile.Body, evalContext(), &file)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode settings file %s: %w", path, diags)
	}

	logger.Debug("Settings file loaded.",
		"path", path,
		"hasReport", file.Report != nil,
		"hasGovernance", file.Governance != nil,
		"hasBitbucket", file.Bitbucket != nil,
	)
	return &file, nil
}

// evalContext exposes the process environment as an `env` object value.
func evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, pair := range os.Environ() {
		if key, value, ok := strings.Cut(pair, "="); ok && key != "" {
			vars[key] = cty.StringVal(value)
		}
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
	}
}
