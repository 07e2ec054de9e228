package directive

import "strings"

// Compile parses src and replaces every directive with the output of e.
func Compile(src string, e Emitter) (string, error) {
	segments, err := Parse(src)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(len(src))
	for _, seg := range segments {
		if seg.Directive == nil {
			b.WriteString(seg.Text)
			continue
		}
		out, err := e.Emit(*seg.Directive)
		if err != nil {
			return "", withPosition(asCompileError(err), seg.Directive.Pos)
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

// CompileTemplate compiles src for html/template.
func CompileTemplate(src string) (string, error) {
	return Compile(src, TemplateEmitter{})
}
