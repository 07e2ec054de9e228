package renderer

import (
	"strings"

	"github.com/a-h/templ"
	"github.com/conneroisu/vuehelper/internal/component"
)

// Injector renders a component as an inline custom element, for pages where
// the Vue root already exists and compiles the tag at runtime.
type Injector struct {
	component *component.Component
}

// NewInjector creates an injector for c.
func NewInjector(c *component.Component) *Injector {
	return &Injector{component: c}
}

// Render returns `<tag v-bind="..."></tag>`. The v-bind attribute is left
// out when the component has no props.
func (i *Injector) Render() (string, error) {
	tag := i.component.TagName()

	var b strings.Builder
	b.WriteString("<")
	b.WriteString(tag)

	if i.component.HasProps() {
		props, err := i.component.PropsJSON(true)
		if err != nil {
			return "", err
		}
		b.WriteString(` v-bind="`)
		b.WriteString(props)
		b.WriteString(`"`)
	}

	b.WriteString("></")
	b.WriteString(tag)
	b.WriteString(">")

	return b.String(), nil
}

func (i *Injector) Component() templ.Component {
	return asComponent(i)
}
