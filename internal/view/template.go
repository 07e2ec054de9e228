// Package view renders page templates for a registry. It is the view
// collaborator behind registry.Render.
//
// TemplateEngine loads html/template files containing directives, compiles
// the directives into template actions and binds the directive functions to
// the registry of each render. TemplEngine renders templ components.
package view

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/conneroisu/vuehelper/internal/config"
	"github.com/conneroisu/vuehelper/internal/directive"
	"github.com/conneroisu/vuehelper/internal/errors"
	"github.com/conneroisu/vuehelper/internal/logging"
	"github.com/conneroisu/vuehelper/internal/registry"
)

// TemplateEngine renders directive templates with html/template.
type TemplateEngine struct {
	dir       string
	extension string
	logger    logging.Logger

	mutex     sync.RWMutex
	templates *template.Template
}

var _ registry.View = (*TemplateEngine)(nil)

// NewTemplateEngine creates an engine for the templates below cfg.Dir.
// Call Load to read them.
func NewTemplateEngine(cfg config.ViewConfig, logger logging.Logger) *TemplateEngine {
	if logger == nil {
		logger = logging.Nop()
	}
	return &TemplateEngine{
		dir:       cfg.Dir,
		extension: cfg.Extension,
		logger:    logger.WithComponent("view"),
		templates: template.New("").Funcs(parseFuncs()),
	}
}

// Load reads every template below the view directory. Templates are named
// by their path relative to the directory without the extension, using
// forward slashes: views/partials/nav.vue.html is "partials/nav". The
// loaded set replaces the previous one only when every file compiles.
func (e *TemplateEngine) Load() error {
	set := template.New("").Funcs(parseFuncs())
	count := 0

	err := filepath.WalkDir(e.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), e.extension) {
			return nil
		}

		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading template %s: %w", path, err)
		}

		rel, err := filepath.Rel(e.dir, path)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.ToSlash(rel), e.extension)

		if err := parseInto(set, name, string(src)); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		count++
		return nil
	})
	if err != nil {
		return err
	}

	e.mutex.Lock()
	e.templates = set
	e.mutex.Unlock()

	e.logger.Info(context.Background(), "Loaded templates", "dir", e.dir, "count", count)
	return nil
}

// Parse compiles src and adds it to the set under name, replacing any
// template of the same name.
func (e *TemplateEngine) Parse(name, src string) error {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	return parseInto(e.templates, name, src)
}

func parseInto(set *template.Template, name, src string) error {
	compiled, err := directive.CompileTemplate(src)
	if err != nil {
		return err
	}
	if _, err := set.New(name).Parse(compiled); err != nil {
		return errors.NewViewError(errors.ErrCodeTemplateFailed, fmt.Sprintf("parsing template %q", name), err)
	}
	return nil
}

// Names returns the loaded template names in sorted order.
func (e *TemplateEngine) Names() []string {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	var names []string
	for _, t := range e.templates.Templates() {
		if t.Name() != "" {
			names = append(names, t.Name())
		}
	}
	sort.Strings(names)
	return names
}

// Render executes the named template with data, with the directive
// functions bound to reg. Nothing is written to w if execution fails.
// Registry and asset errors raised by directives are returned unchanged.
func (e *TemplateEngine) Render(ctx context.Context, w io.Writer, name string, data map[string]interface{}, reg *registry.Registry) error {
	e.mutex.RLock()
	set, err := e.templates.Clone()
	e.mutex.RUnlock()
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeInternalError, "cloning templates", err)
	}

	tmpl := set.Lookup(name)
	if tmpl == nil {
		return errors.NewViewError(errors.ErrCodeTemplateMissing, fmt.Sprintf("template %q not found", name), nil)
	}
	tmpl.Funcs(Funcs(reg))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		if he, ok := directiveError(err); ok {
			return he
		}
		return errors.NewViewError(errors.ErrCodeTemplateFailed, fmt.Sprintf("executing template %q", name), err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	e.logger.Debug(ctx, "Rendered template", "template", name, "bytes", buf.Len())
	_, err = buf.WriteTo(w)
	return err
}

func directiveError(err error) (*errors.HelperError, bool) {
	var he *errors.HelperError
	if !stderrors.As(err, &he) {
		return nil, false
	}
	if errors.IsNotRegistered(he) || he.Type == errors.ErrorTypeAsset {
		return he, true
	}
	return nil, false
}
