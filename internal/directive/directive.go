// Package directive compiles the @vue_component, @vue_mount and
// @vue_dependencies markers embedded in view templates.
//
// Compilation happens in two steps. Parse scans the source into text
// segments and Directive values, each holding the marker kind and its
// trimmed argument expressions. An Emitter then turns every Directive into
// target template syntax; TemplateEmitter produces html/template actions.
//
// Markers follow Blade conventions. A marker preceded by a word character
// is plain text, so e-mail addresses survive. Writing @@vue_mount produces
// the literal text @vue_mount. Arguments are separated by top-level commas;
// commas inside quotes or nested brackets belong to the argument.
package directive

import (
	"fmt"
	"strings"
)

// Kind identifies a directive marker.
type Kind int

const (
	KindComponent Kind = iota
	KindMount
	KindDependencies
)

var kindNames = map[Kind]string{
	KindComponent:    "vue_component",
	KindMount:        "vue_mount",
	KindDependencies: "vue_dependencies",
}

var kindsByName = map[string]Kind{
	"vue_component":    KindComponent,
	"vue_mount":        KindMount,
	"vue_dependencies": KindDependencies,
}

// String returns the marker name without the leading @.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MaxArgs returns how many arguments the marker accepts.
func (k Kind) MaxArgs() int {
	switch k {
	case KindComponent:
		return 1
	case KindMount:
		return 3
	default:
		return 0
	}
}

// LookupKind returns the kind for a marker name such as "vue_mount".
func LookupKind(name string) (Kind, bool) {
	k, ok := kindsByName[name]
	return k, ok
}

// Position locates a marker in the source. Line and Column are 1-based.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Directive is a parsed marker with its argument expressions, trimmed but
// otherwise exactly as written.
type Directive struct {
	Kind Kind
	Args []string
	Pos  Position
}

// Arg returns the i-th argument, or "" when it was omitted.
func (d Directive) Arg(i int) string {
	if i < len(d.Args) {
		return d.Args[i]
	}
	return ""
}

func (d Directive) String() string {
	if len(d.Args) == 0 {
		return "@" + d.Kind.String()
	}
	return "@" + d.Kind.String() + "(" + strings.Join(d.Args, ", ") + ")"
}

// Segment is a piece of parsed source: either literal text or a directive.
type Segment struct {
	Text      string
	Directive *Directive
}
