// Package renderer turns component records into the markup and script a
// Vue runtime picks up on the page.
//
// Three renderers are provided. The Injector emits an inline custom element
// with the props bound through v-bind. The Mounter emits a <script> block
// that bootstraps a root Vue instance rendering the component. The
// DependencyRenderer emits one <script src> tag per registered dependency,
// optionally resolved through a Laravel Mix manifest.
//
// Every renderer offers a string form through Render and a templ form
// through Component, so output can be embedded in templ layouts as well as
// in compiled directive templates.
package renderer

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Renderer produces a fragment of page output.
type Renderer interface {
	Render() (string, error)
	Component() templ.Component
}

// AssetResolver maps a dependency identifier to the URL it is served from.
type AssetResolver interface {
	Resolve(identifier string) (string, error)
}

// Render writes the output of r to w.
func Render(r Renderer, w io.Writer) error {
	out, err := r.Render()
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// asComponent adapts a renderer's string output into a templ component. The
// output is written unescaped; each renderer is responsible for its own
// escaping.
func asComponent(r Renderer) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return Render(r, w)
	})
}
