package renderer

import (
	"strings"

	"github.com/a-h/templ"
	"github.com/conneroisu/vuehelper/internal/component"
	"github.com/conneroisu/vuehelper/internal/config"
)

// Mounter renders a script block that creates a root Vue instance whose
// render function draws the component, then mounts it onto an element.
type Mounter struct {
	component *component.Component
	config    config.MountConfig
	selector  *string
	variable  *string
}

// MountOption overrides a configured mount default.
type MountOption func(*Mounter)

// WithSelector mounts onto selector instead of the configured element.
func WithSelector(selector string) MountOption {
	return func(m *Mounter) {
		m.selector = &selector
	}
}

// WithVariable assigns the root instance to the named global instead of the
// configured variable. An empty name disables the assignment.
func WithVariable(name string) MountOption {
	return func(m *Mounter) {
		m.variable = &name
	}
}

// NewMounter creates a mounter for c. Options left unset fall back to cfg.
func NewMounter(c *component.Component, cfg config.MountConfig, opts ...MountOption) *Mounter {
	m := &Mounter{
		component: c,
		config:    cfg,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Selector returns the element selector the instance is mounted onto.
func (m *Mounter) Selector() string {
	if m.selector != nil {
		return *m.selector
	}
	return m.config.DefaultElement
}

// Variable returns the global the instance is assigned to, or "" for none.
func (m *Mounter) Variable() string {
	if m.variable != nil {
		return *m.variable
	}
	return m.config.DefaultVariable
}

// Render returns the bootstrap script:
//
//	<script>
//	var vm = new Vue({ router: router, render: function (h) { return h('Name', { props: {...} }) } }).$mount('#app')
//	</script>
//
// Props are raw JSON since they live inside a script element. Additional
// constructor entries are written verbatim, in key order.
func (m *Mounter) Render() (string, error) {
	var b strings.Builder
	b.WriteString("<script>\n")

	if variable := m.Variable(); variable != "" {
		b.WriteString("var ")
		b.WriteString(variable)
		b.WriteString(" = ")
	}

	var propClause string
	if m.component.HasProps() {
		props, err := m.component.PropsJSON(false)
		if err != nil {
			return "", err
		}
		propClause = ", { props: " + props + " }"
	}

	b.WriteString("new ")
	b.WriteString(m.config.VueGlobal)
	b.WriteString("({ ")

	for _, key := range m.config.AdditionalKeys() {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(m.config.AdditionalConfig[key])
		b.WriteString(", ")
	}

	b.WriteString("render: function (h) { return h('")
	b.WriteString(m.component.Name())
	b.WriteString("'")
	b.WriteString(propClause)
	b.WriteString(") } ")

	b.WriteString("}).")
	b.WriteString(m.config.Method)
	b.WriteString("('")
	b.WriteString(m.Selector())
	b.WriteString("')\n")
	b.WriteString("</script>\n")

	return b.String(), nil
}

func (m *Mounter) Component() templ.Component {
	return asComponent(m)
}
