// Package registry holds the components a request has registered, the
// designated default component and the JavaScript dependencies they need.
//
// A Registry is request scoped: create one per request and pass it to
// whatever renders the page. Templates reach it through the view engine,
// which binds the directive functions to the registry being rendered.
package registry

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/conneroisu/vuehelper/internal/assets"
	"github.com/conneroisu/vuehelper/internal/component"
	"github.com/conneroisu/vuehelper/internal/config"
	"github.com/conneroisu/vuehelper/internal/errors"
	"github.com/conneroisu/vuehelper/internal/logging"
	"github.com/conneroisu/vuehelper/internal/renderer"
)

// View renders a named template for a registry.
type View interface {
	Render(ctx context.Context, w io.Writer, template string, data map[string]interface{}, reg *Registry) error
}

// Registry manages the components registered for a page
type Registry struct {
	components   map[string]*component.Component
	defaultName  string
	dependencies []string
	template     string
	templateData map[string]interface{}

	config *config.Config
	view   View
	assets renderer.AssetResolver
	logger logging.Logger
	mutex  sync.RWMutex
}

// Option configures a Registry.
type Option func(*Registry)

// WithView sets the view renderer used by Render.
func WithView(view View) Option {
	return func(r *Registry) {
		r.view = view
	}
}

// WithAssets sets the resolver used for dependencies when Mix is enabled.
func WithAssets(resolver renderer.AssetResolver) Option {
	return func(r *Registry) {
		r.assets = resolver
	}
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// New creates an empty registry. A nil cfg uses the defaults. Unless
// WithAssets is given, dependencies resolve through a Mix manifest located
// by cfg.Assets.
func New(cfg *config.Config, opts ...Option) *Registry {
	if cfg == nil {
		cfg = config.Default()
	}

	r := &Registry{
		components: make(map[string]*component.Component),
		config:     cfg,
		logger:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.assets == nil {
		r.assets = assets.NewMix(cfg.Assets)
	}
	r.logger = r.logger.WithComponent("registry")

	return r
}

// Config returns the configuration the registry renders with.
func (r *Registry) Config() *config.Config {
	return r.config
}

// Register adds or replaces the component called name and appends deps to
// the dependency list. Dependencies are kept in registration order and are
// never deduplicated.
func (r *Registry) Register(name string, props *component.Props, deps ...string) *Registry {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.register(name, props, deps)
	return r
}

// RegisterDefault registers the component and makes it the default, used
// when a lookup names no component.
func (r *Registry) RegisterDefault(name string, props *component.Props, deps ...string) *Registry {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.register(name, props, deps)
	r.defaultName = name
	return r
}

func (r *Registry) register(name string, props *component.Props, deps []string) {
	_, replaced := r.components[name]
	r.components[name] = component.New(name, props)
	r.dependencies = append(r.dependencies, deps...)

	r.logger.Debug(context.Background(), "Registered component",
		"name", name,
		"props", props.Len(),
		"dependencies", len(deps),
		"replaced", replaced)
}

// Lookup returns the component called name, or the default component when
// name is empty. The returned record is shared and must not be modified.
func (r *Registry) Lookup(name string) (*component.Component, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if name == "" {
		if r.defaultName == "" {
			return nil, errors.NotRegistered(errors.DefaultComponent)
		}
		name = r.defaultName
	}

	c, ok := r.components[name]
	if !ok {
		return nil, errors.NotRegistered(name)
	}
	return c, nil
}

// DefaultName returns the name of the default component, or "" if none.
func (r *Registry) DefaultName() string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.defaultName
}

// Names returns the registered component names in sorted order.
func (r *Registry) Names() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dependencies returns a copy of the dependency list, duplicates included.
func (r *Registry) Dependencies() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	deps := make([]string, len(r.dependencies))
	copy(deps, r.dependencies)
	return deps
}
