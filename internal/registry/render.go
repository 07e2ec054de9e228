package registry

import (
	"context"
	"io"

	"github.com/conneroisu/vuehelper/internal/component"
	"github.com/conneroisu/vuehelper/internal/errors"
	"github.com/conneroisu/vuehelper/internal/renderer"
)

// PrepareTemplate sets the template Render will use and the data passed to
// it unchanged.
func (r *Registry) PrepareTemplate(template string, data map[string]interface{}) *Registry {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.template = template
	r.templateData = data
	return r
}

// Template returns the template Render will use, falling back to the
// configured default, and the prepared data.
func (r *Registry) Template() (string, map[string]interface{}) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	template := r.template
	if template == "" {
		template = r.config.View.DefaultTemplate
	}
	return template, r.templateData
}

// Render makes name the default component and renders the prepared
// template through the view.
func (r *Registry) Render(ctx context.Context, w io.Writer, name string, props *component.Props) error {
	if r.view == nil {
		return errors.NewViewError(errors.ErrCodeTemplateFailed, "no view renderer configured", nil)
	}

	r.RegisterDefault(name, props)

	template, data := r.Template()
	r.logger.Debug(ctx, "Rendering template", "template", template, "component", name)

	return r.view.Render(ctx, w, template, data, r)
}

// Vue is the one-call entry point for controllers. Without a component
// name it only returns the registry. Otherwise it prepares template, when
// given, and renders the page with name as the default component.
func (r *Registry) Vue(ctx context.Context, w io.Writer, name string, props *component.Props, template string, data map[string]interface{}) (*Registry, error) {
	if name == "" {
		return r, nil
	}
	if template != "" {
		r.PrepareTemplate(template, data)
	}
	return r, r.Render(ctx, w, name, props)
}

// Injector returns an injector for the named component.
func (r *Registry) Injector(name string) (*renderer.Injector, error) {
	c, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return renderer.NewInjector(c), nil
}

// Mounter returns a mounter for the named component.
func (r *Registry) Mounter(name string, opts ...renderer.MountOption) (*renderer.Mounter, error) {
	c, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return renderer.NewMounter(c, r.config.Mount, opts...), nil
}

// DependencyRenderer returns a renderer for the current dependency list.
func (r *Registry) DependencyRenderer() *renderer.DependencyRenderer {
	return renderer.NewDependencyRenderer(r.Dependencies(), r.config.Assets.UseMix, r.assets)
}

// Inject renders the named component as an inline custom element.
func (r *Registry) Inject(name string) (string, error) {
	injector, err := r.Injector(name)
	if err != nil {
		return "", err
	}
	return injector.Render()
}

// Mount renders the bootstrap script for the named component.
func (r *Registry) Mount(name string, opts ...renderer.MountOption) (string, error) {
	mounter, err := r.Mounter(name, opts...)
	if err != nil {
		return "", err
	}
	return mounter.Render()
}

// RenderDependencies renders a script tag for every dependency. Resolver
// errors are returned as is.
func (r *Registry) RenderDependencies() (string, error) {
	return r.DependencyRenderer().Render()
}
