package view

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/a-h/templ"

	"github.com/conneroisu/vuehelper/internal/errors"
	"github.com/conneroisu/vuehelper/internal/registry"
	"github.com/conneroisu/vuehelper/internal/renderer"
)

// Page builds the templ component for a page from the registry being
// rendered and the prepared template data.
type Page func(reg *registry.Registry, data map[string]interface{}) templ.Component

// TemplEngine renders registered templ pages by name.
type TemplEngine struct {
	mutex sync.RWMutex
	pages map[string]Page
}

var _ registry.View = (*TemplEngine)(nil)

func NewTemplEngine() *TemplEngine {
	return &TemplEngine{pages: make(map[string]Page)}
}

// Add registers page under name.
func (e *TemplEngine) Add(name string, page Page) *TemplEngine {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	e.pages[name] = page
	return e
}

// Names returns the registered page names in sorted order.
func (e *TemplEngine) Names() []string {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	names := make([]string, 0, len(e.pages))
	for name := range e.pages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *TemplEngine) Render(ctx context.Context, w io.Writer, name string, data map[string]interface{}, reg *registry.Registry) error {
	e.mutex.RLock()
	page, ok := e.pages[name]
	e.mutex.RUnlock()
	if !ok {
		return errors.NewViewError(errors.ErrCodeTemplateMissing, fmt.Sprintf("template %q not found", name), nil)
	}
	return page(reg, data).Render(ctx, w)
}

// Inject is the templ form of @vue_component.
func Inject(reg *registry.Registry, name string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		injector, err := reg.Injector(name)
		if err != nil {
			return err
		}
		return injector.Component().Render(ctx, w)
	})
}

// Mount is the templ form of @vue_mount.
func Mount(reg *registry.Registry, name string, opts ...renderer.MountOption) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		mounter, err := reg.Mounter(name, opts...)
		if err != nil {
			return err
		}
		return mounter.Component().Render(ctx, w)
	})
}

// Dependencies is the templ form of @vue_dependencies.
func Dependencies(reg *registry.Registry) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return reg.DependencyRenderer().Component().Render(ctx, w)
	})
}
