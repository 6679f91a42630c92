package app

import (
	"errors"
	"strings"

	"github.com/specialistvlad/nestml/internal/render"
)

// StdinPath is the template path that reads from standard input.
const StdinPath = "-"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	TemplatePath string   // template file, or "-" for stdin
	ConfigPaths  []string // hcl files or directories

	Format       string
	ContainerTag string
	// Dispatch lists "id:type" events fired after each compile.
	Dispatch []string
	Watch    bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.TemplatePath == "" {
		return nil, errors.New("TemplatePath is a required configuration field and cannot be empty")
	}
	if cfg.Watch && cfg.TemplatePath == StdinPath {
		return nil, errors.New("watch mode needs a template file, not stdin")
	}
	if cfg.Format == "" {
		cfg.Format = string(render.FormatHTML)
	}
	format, err := render.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	cfg.Format = string(format)
	if cfg.ContainerTag == "" {
		cfg.ContainerTag = "body"
	}
	for _, d := range cfg.Dispatch {
		id, typ, ok := strings.Cut(d, ":")
		if !ok || id == "" || typ == "" {
			return nil, errors.New("dispatch entries must look like 'id:type', got '" + d + "'")
		}
	}
	return &cfg, nil
}
