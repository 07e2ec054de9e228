package view

import (
	"fmt"
	"html/template"

	"github.com/conneroisu/vuehelper/internal/directive"
	"github.com/conneroisu/vuehelper/internal/registry"
	"github.com/conneroisu/vuehelper/internal/renderer"
)

// Funcs returns the directive functions bound to reg. An argument given
// as nil falls back to the registry default or the configured value.
func Funcs(reg *registry.Registry) template.FuncMap {
	return template.FuncMap{
		directive.FuncComponent: func(args ...interface{}) (template.HTML, error) {
			var name string
			if len(args) > 0 {
				name = argString(args[0])
			}
			out, err := reg.Inject(name)
			return template.HTML(out), err
		},
		directive.FuncMount: func(name, to, variable interface{}) (template.HTML, error) {
			var opts []renderer.MountOption
			if to != nil {
				opts = append(opts, renderer.WithSelector(argString(to)))
			}
			if variable != nil {
				opts = append(opts, renderer.WithVariable(argString(variable)))
			}
			out, err := reg.Mount(argString(name), opts...)
			return template.HTML(out), err
		},
		directive.FuncDependencies: func() (template.HTML, error) {
			out, err := reg.RenderDependencies()
			return template.HTML(out), err
		},
	}
}

// parseFuncs declares the directive functions so templates parse before a
// registry is bound.
func parseFuncs() template.FuncMap {
	return Funcs(nil)
}

func argString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}
