package directive

import (
	"fmt"
	"strings"
)

// Names of the template functions TemplateEmitter calls. The view engine
// binds them to the registry being rendered.
const (
	FuncComponent    = "vueComponent"
	FuncMount        = "vueMount"
	FuncDependencies = "vueDependencies"
)

// NullArg stands in for an omitted argument so the callee applies its
// configured default.
const NullArg = "nil"

// Emitter turns a directive into target template source.
type Emitter interface {
	Emit(d Directive) (string, error)
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(d Directive) (string, error)

func (f EmitterFunc) Emit(d Directive) (string, error) {
	return f(d)
}

// TemplateEmitter emits html/template actions:
//
//	@vue_component              {{ vueComponent }}
//	@vue_component("Name")      {{ vueComponent "Name" }}
//	@vue_mount("Name")          {{ vueMount "Name" nil nil }}
//	@vue_mount("Name", "#app")  {{ vueMount "Name" "#app" nil }}
//	@vue_dependencies           {{ vueDependencies }}
//
// Arguments must therefore be template operands: string literals, fields,
// variables or parenthesised pipelines.
type TemplateEmitter struct{}

func (TemplateEmitter) Emit(d Directive) (string, error) {
	switch d.Kind {
	case KindComponent:
		return action(FuncComponent, d.Args...), nil
	case KindMount:
		args := []string{NullArg, NullArg, NullArg}
		copy(args, d.Args)
		return action(FuncMount, args...), nil
	case KindDependencies:
		return action(FuncDependencies), nil
	default:
		return "", fmt.Errorf("unknown directive kind %s", d.Kind)
	}
}

func action(fn string, args ...string) string {
	if len(args) == 0 {
		return "{{ " + fn + " }}"
	}
	return "{{ " + fn + " " + strings.Join(args, " ") + " }}"
}
