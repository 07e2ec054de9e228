package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/vuehelper/internal/assets"
	"github.com/conneroisu/vuehelper/internal/component"
	"github.com/conneroisu/vuehelper/internal/config"
	"github.com/conneroisu/vuehelper/internal/logging"
	"github.com/conneroisu/vuehelper/internal/registry"
	"github.com/conneroisu/vuehelper/internal/view"
	"github.com/conneroisu/vuehelper/internal/watcher"
)

var renderCmd = &cobra.Command{
	Use:   "render NAME",
	Short: "Render a page template with a component as its default",
	Long: `Render a page template from the view directory with NAME registered as
the default component, the way a controller returns a Vue page.

Templates are read from view.dir and named by their path without the
view.extension suffix. The template defaults to view.default_template.

With --watch the page is rendered again whenever a template, the Mix
manifest or the hot file changes. --out is required in watch mode.

Examples:
  vuehelper render AComponent
  vuehelper render AComponent --template pages/show --data page.yaml
  vuehelper render AComponent --dep js/vendor.js --dep js/app.js
  vuehelper render AComponent --props '{"id":1}' --out public/index.html --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

var (
	renderFlags    *StandardFlags
	renderTemplate string
	renderData     string
	renderOut      string
	renderWatch    bool
	renderDeps     []string
)

func init() {
	rootCmd.AddCommand(renderCmd)

	renderFlags = AddStandardFlags(renderCmd, "component")
	renderCmd.Flags().StringVarP(&renderTemplate, "template", "t", "", "Template to render (default view.default_template)")
	renderCmd.Flags().StringVarP(&renderData, "data", "d", "", "Template data file (YAML or JSON)")
	renderCmd.Flags().StringVar(&renderOut, "out", "", "Write the page to a file instead of stdout")
	renderCmd.Flags().BoolVarP(&renderWatch, "watch", "w", false, "Render again when templates or the manifest change")
	renderCmd.Flags().StringSliceVar(&renderDeps, "dep", nil, "JavaScript dependency of the component (repeatable)")
	AddFlagValidation(renderCmd, "data", ValidateFileExists)
}

// pageRenderer renders one page from a fresh registry per render, since a
// registry only lives for a single request.
type pageRenderer struct {
	cfg    *config.Config
	engine *view.TemplateEngine
	mix    *assets.Mix
	logger logging.Logger

	name     string
	props    *component.Props
	deps     []string
	template string
	data     map[string]interface{}
}

func (p *pageRenderer) render(ctx context.Context, w io.Writer) error {
	reg := registry.New(p.cfg,
		registry.WithView(p.engine),
		registry.WithAssets(p.mix),
		registry.WithLogger(p.logger),
	)
	if len(p.deps) > 0 {
		reg.Register(p.name, p.props, p.deps...)
	}
	// an empty template falls back to the default and still gets the data
	reg.PrepareTemplate(p.template, p.data)
	if err := reg.Render(ctx, w, p.name, p.props); err != nil {
		return err
	}
	p.logger.Debug(ctx, "Rendered components", "components", reg.Names(), "dependencies", len(reg.Dependencies()))
	return nil
}

// renderToFile renders into a buffer first so a failed render leaves the
// previous output in place.
func (p *pageRenderer) renderToFile(ctx context.Context, path string) error {
	var buf bytes.Buffer
	if err := p.render(ctx, &buf); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func runRender(cmd *cobra.Command, args []string) error {
	if err := renderFlags.ValidateFlags(); err != nil {
		return err
	}
	if renderWatch && renderOut == "" {
		return fmt.Errorf("--watch requires --out")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	props, err := renderFlags.ParseProps()
	if err != nil {
		return err
	}

	data, err := readDataFile(renderData)
	if err != nil {
		return err
	}

	logger := newLogger()
	engine := view.NewTemplateEngine(cfg.View, logger)
	if err := engine.Load(); err != nil {
		return err
	}

	page := &pageRenderer{
		cfg:      cfg,
		engine:   engine,
		mix:      assets.NewMix(cfg.Assets),
		logger:   logger,
		name:     args[0],
		props:    props,
		deps:     renderDeps,
		template: renderTemplate,
		data:     data,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if renderOut == "" {
		return page.render(ctx, cmd.OutOrStdout())
	}

	if err := page.renderToFile(ctx, renderOut); err != nil {
		return err
	}
	logger.Info(ctx, "Rendered page", "component", page.name, "out", renderOut)

	if !renderWatch {
		return nil
	}
	return watchPage(ctx, page, logger)
}

// watchPage re-renders page until interrupted. Template changes reload the
// engine, manifest and hot file changes drop the cached manifest.
func watchPage(ctx context.Context, page *pageRenderer, logger logging.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fw, err := watcher.NewFileWatcher(300*time.Millisecond, logger)
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fw.Stop()

	manifest := filepath.Base(page.mix.ManifestPath())
	hot := filepath.Base(page.mix.HotPath())

	fw.AddFilter(watcher.NoNodeModulesFilter)
	fw.AddFilter(watcher.AnyFilter(
		watcher.ExtensionFilter(page.cfg.View.Extension),
		watcher.NameFilter(manifest, hot),
	))
	fw.AddHandler(func(events []watcher.ChangeEvent) error {
		reloadTemplates := false
		for _, event := range events {
			switch filepath.Base(event.Path) {
			case manifest, hot:
				if err := page.mix.Reload(); err != nil {
					logger.Warn(ctx, err, "Reloading manifest failed", "path", event.Path)
				}
			default:
				reloadTemplates = true
			}
		}

		if reloadTemplates {
			if err := page.engine.Load(); err != nil {
				return err
			}
		}

		if err := page.renderToFile(ctx, renderOut); err != nil {
			return err
		}
		logger.Info(ctx, "Rendered page", "component", page.name, "out", renderOut, "changes", len(events))
		return nil
	})

	if err := fw.AddRecursive(page.cfg.View.Dir); err != nil {
		return fmt.Errorf("watching %s: %w", page.cfg.View.Dir, err)
	}
	if err := fw.AddPath(page.cfg.Assets.PublicPath); err != nil {
		logger.Warn(ctx, err, "Not watching public path", "path", page.cfg.Assets.PublicPath)
	}

	if err := fw.Start(ctx); err != nil {
		return err
	}
	logger.Info(ctx, "Watching for changes", "views", page.cfg.View.Dir, "public", page.cfg.Assets.PublicPath)

	<-ctx.Done()
	return nil
}
