package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/flowblock/internal/config"
	"github.com/specialistvlad/flowblock/internal/ctxlog"
	"github.com/specialistvlad/flowblock/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load orchestrates the entire HCL configuration loading process. It is
// agnostic to the origin of the paths and parses any valid block from any file.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	model := &config.Model{}

	hclFiles, err := fsutil.FindFilesByExtension(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()
	t := &translator{files: parser.Files()}

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, def := range root.Blocks {
			n, err := t.translateBlockDefinition(ctx, def)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			model.Definitions = append(model.Definitions, n)
		}
		for _, in := range root.Instances {
			n, err := t.translateInstance(ctx, in)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			model.Instances = append(model.Instances, n)
		}
		for _, c := range root.Connections {
			conn, err := translateConnection(c)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			model.Connections = append(model.Connections, conn)
		}
	}

	logger.Debug("HCL loading complete.",
		"definitions", len(model.Definitions),
		"instances", len(model.Instances),
		"connections", len(model.Connections),
	)
	return model, nil
}
