package renderer

import (
	"strings"

	"github.com/a-h/templ"
	"github.com/conneroisu/vuehelper/internal/component"
	"github.com/conneroisu/vuehelper/internal/errors"
)

// DependencyRenderer renders registered JavaScript dependencies as script
// tags, in registration order and without deduplication.
type DependencyRenderer struct {
	dependencies []string
	useMix       bool
	resolver     AssetResolver
}

// NewDependencyRenderer creates a renderer for deps. When useMix is set each
// identifier is resolved through resolver; otherwise it is HTML-escaped and
// used as the source directly.
func NewDependencyRenderer(deps []string, useMix bool, resolver AssetResolver) *DependencyRenderer {
	return &DependencyRenderer{
		dependencies: deps,
		useMix:       useMix,
		resolver:     resolver,
	}
}

// Render returns one `<script src="..."></script>` line per dependency.
// Resolution errors, ManifestMissing included, are returned unchanged.
func (d *DependencyRenderer) Render() (string, error) {
	var b strings.Builder
	for _, dep := range d.dependencies {
		src, err := d.source(dep)
		if err != nil {
			return "", err
		}
		b.WriteString(`<script src="`)
		b.WriteString(src)
		b.WriteString("\"></script>\n")
	}
	return b.String(), nil
}

func (d *DependencyRenderer) source(dep string) (string, error) {
	if !d.useMix {
		return component.EscapeHTML(dep), nil
	}
	if d.resolver == nil {
		return "", errors.ManifestMissing("", nil)
	}
	return d.resolver.Resolve(dep)
}

func (d *DependencyRenderer) Component() templ.Component {
	return asComponent(d)
}
