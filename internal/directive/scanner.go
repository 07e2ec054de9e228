package directive

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/conneroisu/vuehelper/internal/errors"
)

// Parse splits src into literal text and directives.
func Parse(src string) ([]Segment, error) {
	s := &scanner{src: src}
	if err := s.run(); err != nil {
		return nil, err
	}
	return s.segments, nil
}

type scanner struct {
	src      string
	text     strings.Builder
	segments []Segment
}

func (s *scanner) run() error {
	i := 0
	for i < len(s.src) {
		at := strings.IndexByte(s.src[i:], '@')
		if at < 0 {
			s.text.WriteString(s.src[i:])
			break
		}
		at += i
		s.text.WriteString(s.src[i:at])

		// @@name is an escaped marker
		if at+1 < len(s.src) && s.src[at+1] == '@' {
			name := readWord(s.src, at+2)
			if _, ok := LookupKind(name); ok {
				s.text.WriteString("@" + name)
				i = at + 2 + len(name)
				continue
			}
			s.text.WriteByte('@')
			i = at + 1
			continue
		}

		name := readWord(s.src, at+1)
		kind, ok := LookupKind(name)
		if !ok || (at > 0 && isWordByte(s.src[at-1])) {
			s.text.WriteByte('@')
			i = at + 1
			continue
		}

		next, err := s.directive(kind, at, at+1+len(name))
		if err != nil {
			return err
		}
		i = next
	}

	s.flush()
	return nil
}

// directive parses the optional argument list of a marker starting at
// start, whose name ends at end. It returns the offset after the marker.
func (s *scanner) directive(kind Kind, start, end int) (int, error) {
	d := Directive{Kind: kind, Pos: position(s.src, start)}

	open := end
	for open < len(s.src) && (s.src[open] == ' ' || s.src[open] == '\t') {
		open++
	}

	next := end
	if open < len(s.src) && s.src[open] == '(' {
		closing, err := matchParen(s.src, open)
		if err != nil {
			return 0, withPosition(asCompileError(err), d.Pos)
		}
		args, err := splitArgs(s.src[open+1 : closing])
		if err != nil {
			return 0, withPosition(asCompileError(err), d.Pos)
		}
		d.Args = args
		next = closing + 1
	}

	if len(d.Args) > kind.MaxArgs() {
		err := errors.NewCompileError(errors.ErrCodeTooManyArgs,
			fmt.Sprintf("@%s accepts at most %d argument(s), got %d", kind, kind.MaxArgs(), len(d.Args)))
		return 0, withPosition(err, d.Pos)
	}

	s.flush()
	s.segments = append(s.segments, Segment{Directive: &d})
	return next, nil
}

func (s *scanner) flush() {
	if s.text.Len() == 0 {
		return
	}
	s.segments = append(s.segments, Segment{Text: s.text.String()})
	s.text.Reset()
}

// matchParen returns the offset of the parenthesis closing the one at open.
// Quoted strings are skipped so parentheses inside them do not count.
func matchParen(src string, open int) (int, error) {
	depth := 0
	for i := open; i < len(src); i++ {
		switch c := src[i]; c {
		case '"', '\'', '`':
			end, err := skipQuoted(src, i)
			if err != nil {
				return 0, err
			}
			i = end
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, errors.NewCompileError(errors.ErrCodeMalformed, "unbalanced parentheses in directive arguments")
}

// skipQuoted returns the offset of the quote closing the one at start.
// Backslash escapes are honoured except in backquoted strings.
func skipQuoted(src string, start int) (int, error) {
	quote := src[start]
	for i := start + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			if quote != '`' {
				i++
			}
		case quote:
			return i, nil
		}
	}
	return 0, errors.NewCompileError(errors.ErrCodeMalformed, "unterminated string in directive arguments")
}

// splitArgs splits an argument list on top-level commas and trims each
// argument. An empty list yields no arguments.
func splitArgs(list string) ([]string, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}

	var args []string
	depth := 0
	start := 0
	for i := 0; i < len(list); i++ {
		switch list[i] {
		case '"', '\'', '`':
			end, err := skipQuoted(list, i)
			if err != nil {
				return nil, err
			}
			i = end
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(list[start:i]))
				start = i + 1
			}
		}
	}
	args = append(args, strings.TrimSpace(list[start:]))

	for i, arg := range args {
		if arg == "" {
			return nil, errors.NewCompileError(errors.ErrCodeMalformed, fmt.Sprintf("argument %d is empty", i+1))
		}
	}
	return args, nil
}

func readWord(src string, start int) string {
	end := start
	for end < len(src) && isWordByte(src[end]) {
		end++
	}
	return src[start:end]
}

func isWordByte(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

func position(src string, offset int) Position {
	line := 1 + strings.Count(src[:offset], "\n")
	column := offset + 1
	if nl := strings.LastIndexByte(src[:offset], '\n'); nl >= 0 {
		column = offset - nl
	}
	return Position{Offset: offset, Line: line, Column: column}
}

func withPosition(err *errors.HelperError, pos Position) *errors.HelperError {
	return err.WithContext("line", pos.Line).WithContext("column", pos.Column)
}

// ErrorPosition returns the source position recorded on a compile error.
func ErrorPosition(err error) (Position, bool) {
	var he *errors.HelperError
	if !stderrors.As(err, &he) || he.Context == nil {
		return Position{}, false
	}
	line, lok := he.Context["line"].(int)
	column, cok := he.Context["column"].(int)
	if !lok || !cok {
		return Position{}, false
	}
	return Position{Line: line, Column: column}, true
}

func asCompileError(err error) *errors.HelperError {
	var he *errors.HelperError
	if stderrors.As(err, &he) {
		return he
	}
	return &errors.HelperError{
		Type:    errors.ErrorTypeCompile,
		Code:    errors.ErrCodeMalformed,
		Message: "emitting directive",
		Cause:   err,
	}
}
