// Package component defines the component record handed from the registry
// to the renderers: a Vue component name plus its prop bag.
package component

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Component is an immutable Vue component record. The registry hands out
// shared pointers, so callers must treat the record as read-only.
type Component struct {
	name  string
	props *Props
}

// New creates a component record. The prop bag is copied so later changes
// to props do not leak into the record.
func New(name string, props *Props) *Component {
	return &Component{
		name:  name,
		props: props.Clone(),
	}
}

// Name returns the component name exactly as it was registered.
func (c *Component) Name() string {
	return c.name
}

// TagName returns the name in kebab-case, suitable for an inline custom tag.
func (c *Component) TagName() string {
	return KebabCase(c.name)
}

// Props returns the component's prop bag. It is never nil.
func (c *Component) Props() *Props {
	return c.props
}

// HasProps reports whether the prop bag holds at least one entry.
func (c *Component) HasProps() bool {
	return c.props.Len() > 0
}

// PropsJSON encodes the props. With escape set the result is HTML-escaped
// for use inside an attribute: JSON escaping happens first, then every
// remaining quote (including backslash-escaped ones) becomes &quot;.
func (c *Component) PropsJSON(escape bool) (string, error) {
	data, err := json.Marshal(c.props)
	if err != nil {
		return "", fmt.Errorf("encoding props for %s: %w", c.name, err)
	}
	if escape {
		return EscapeHTML(string(data)), nil
	}
	return string(data), nil
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#039;",
	"<", "&lt;",
	">", "&gt;",
)

// EscapeHTML escapes s for an HTML attribute or text node using named
// entities, so a double quote always becomes &quot;.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
