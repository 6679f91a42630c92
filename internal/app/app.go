package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/nestml/internal/builder"
	"github.com/specialistvlad/nestml/internal/config"
	"github.com/specialistvlad/nestml/internal/ctxlog"
	"github.com/specialistvlad/nestml/internal/dom"
	"github.com/specialistvlad/nestml/internal/events"
	"github.com/specialistvlad/nestml/internal/htmldom"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	in     io.Reader
	outW   io.Writer
	logger *slog.Logger
	config *Config
	model  *config.Model
}

// NewApp is the constructor for the main application. It configures an
// isolated logger writing to logW and loads the compiler configuration.
func NewApp(in io.Reader, outW, logW io.Writer, appConfig *Config, loader config.Loader) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, appConfig.ConfigPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Debug("Configuration loaded.", "events", len(model.Events))

	return &App{
		in:     in,
		outW:   outW,
		logger: logger,
		config: appConfig,
		model:  model,
	}, nil
}

// Logger returns the application's logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// newBuilder creates a builder with a fresh document and container, and
// applies the loaded configuration to it.
func (a *App) newBuilder(ctx context.Context) (*builder.Builder, *htmldom.Element, error) {
	logger := ctxlog.FromContext(ctx)
	doc := htmldom.NewDocument()
	container := doc.NewElement(a.config.ContainerTag)
	b := builder.New(doc, builder.WithContainer(container), builder.WithFilename(a.config.TemplatePath))

	if r, ok, err := a.model.MarkerRune(); err != nil {
		return nil, nil, err
	} else if ok {
		if err := b.SetMarker(r); err != nil {
			return nil, nil, err
		}
	}
	if sep := a.model.AttributeSeparator; sep != "" {
		if err := b.SetAttributeSeparator(sep); err != nil {
			return nil, nil, err
		}
	}

	for _, def := range a.model.Events {
		err := b.RegisterEvent(ctx, events.Binding{
			Name:     def.Name,
			Type:     def.Type,
			Callback: logCallback(logger, def),
			Options:  def.Options,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", def.Source, err)
		}
	}
	logger.Debug("Builder configured.", "container", a.config.ContainerTag, "marker", string(b.Marker()), "separator", b.AttributeSeparator(), "events", len(a.model.Events))
	return b, container, nil
}

// logCallback is the callback of a configuration-declared event.
func logCallback(logger *slog.Logger, def *config.EventDefinition) dom.Handler {
	return func(ev dom.Event) {
		var target string
		if el, ok := ev.Target.(*htmldom.Element); ok {
			target = el.ID()
		}
		msg := def.Message
		if msg == "" {
			msg = "Event fired."
		}
		logger.Info(msg, "event", def.Name, "type", ev.Type, "target", target)
	}
}
