package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/specialistvlad/nestml/internal/ctxlog"
	"github.com/specialistvlad/nestml/internal/dom"
	"github.com/specialistvlad/nestml/internal/htmldom"
	"github.com/specialistvlad/nestml/internal/render"
)

// Run compiles the template and renders it. In watch mode it keeps
// recompiling whenever the template file changes until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if !a.config.Watch {
		return a.compileOnce(ctx)
	}

	if err := a.compileOnce(ctx); err != nil {
		a.logger.Error("Compilation failed; waiting for changes.", "error", err)
	}
	return a.watch(ctx, a.config.TemplatePath, func() {
		if err := a.compileOnce(ctx); err != nil {
			a.logger.Error("Compilation failed; waiting for changes.", "error", err)
		}
	})
}

// compileOnce reads, compiles, dispatches and renders the template.
func (a *App) compileOnce(ctx context.Context) error {
	src, err := a.readTemplate()
	if err != nil {
		return err
	}

	b, container, err := a.newBuilder(ctx)
	if err != nil {
		return err
	}
	if _, err := b.Compile(ctx, src); err != nil {
		return fmt.Errorf("failed to compile %s: %w", a.config.TemplatePath, err)
	}
	a.logger.Info("Template compiled.", "path", a.config.TemplatePath, "roots", len(container.Children()))

	a.dispatch(container)

	format, err := render.ParseFormat(a.config.Format)
	if err != nil {
		return err
	}
	return render.Write(a.outW, format, container.Children())
}

func (a *App) readTemplate() (string, error) {
	var (
		data []byte
		err  error
	)
	if a.config.TemplatePath == StdinPath {
		data, err = io.ReadAll(a.in)
	} else {
		data, err = os.ReadFile(a.config.TemplatePath)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read template %s: %w", a.config.TemplatePath, err)
	}
	return string(data), nil
}

// dispatch fires the configured "id:type" events on the compiled tree.
func (a *App) dispatch(container *htmldom.Element) {
	for _, d := range a.config.Dispatch {
		id, typ, _ := strings.Cut(d, ":")
		el := container.FindByID(id)
		if el == nil {
			a.logger.Warn("Dispatch target not found.", "id", id, "type", typ)
			continue
		}
		n := el.Dispatch(dom.Event{Type: typ})
		a.logger.Debug("Event dispatched.", "id", id, "type", typ, "listeners", n)
	}
}
