package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/nestml/internal/config"
	"github.com/specialistvlad/nestml/internal/ctxlog"
	"github.com/specialistvlad/nestml/internal/events"
	"github.com/specialistvlad/nestml/internal/fsutil"
)

// Loader reads `.hcl` configuration files.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates an HCL loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load implements config.Loader. Directories are searched recursively for
// `.hcl` files.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.ExpandPaths(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 && len(paths) > 0 {
		logger.Warn("No .hcl configuration files found.", "paths", paths)
	}

	parser := hclparse.NewParser()
	model := &config.Model{}
	for _, path := range files {
		hclFile, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
		}

		var fs fileSchema
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &fs); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
		}

		part, err := translateFile(&fs, path)
		if err != nil {
			return nil, err
		}
		model.Merge(part)
		logger.Debug("Loaded configuration file.", "file", path, "events", len(part.Events))
	}

	if err := validate(model); err != nil {
		return nil, err
	}
	return model, nil
}

// validate checks the merged model for duplicate event names.
func validate(m *config.Model) error {
	seen := make(map[string]string)
	for _, ev := range m.Events {
		name := events.NormalizeName(ev.Name)
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("event %q declared twice (%s and %s)", name, prev, ev.Source)
		}
		seen[name] = ev.Source
	}
	return nil
}
