// Package codegen holds the descriptors of a generated builder and renders
// them to Go source with jennifer.
package codegen

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/printer"
	"go/token"
	"strings"

	"github.com/dave/jennifer/jen"
)

// RuntimePath is the import path of the runtime used by std bindings.
const RuntimePath = "github.com/calumari/forge"

// Pattern selects how setters receive and return the builder.
type Pattern uint8

const (
	// PatternOwned setters take the builder by value and return the updated value.
	PatternOwned Pattern = iota
	// PatternMutable setters update the builder in place and return it.
	PatternMutable
	// PatternImmutable setters return an updated copy and leave the receiver untouched.
	PatternImmutable
)

// ParsePattern accepts owned, mutable and immutable.
func ParsePattern(s string) (Pattern, error) {
	switch s {
	case "owned":
		return PatternOwned, nil
	case "mutable":
		return PatternMutable, nil
	case "immutable":
		return PatternImmutable, nil
	}
	return 0, fmt.Errorf("unknown pattern %q", s)
}

func (p Pattern) String() string {
	switch p {
	case PatternOwned:
		return "owned"
	case PatternMutable:
		return "mutable"
	case PatternImmutable:
		return "immutable"
	}
	return "unknown"
}

func (p Pattern) pointer() bool { return p != PatternOwned }

// Bindings selects the support code the generated source depends on.
type Bindings uint8

const (
	// BindingsStd uses the forge runtime package.
	BindingsStd Bindings = iota
	// BindingsNoStd generates self-contained code using the standard library only.
	BindingsNoStd
)

func (b Bindings) String() string {
	if b == BindingsNoStd {
		return "no_std"
	}
	return "std"
}

// TypeParam is a type parameter of the target struct.
type TypeParam struct {
	Name       string
	Constraint jen.Code
}

func typeParamDecls(params []TypeParam) []jen.Code {
	out := make([]jen.Code, 0, len(params))
	for _, p := range params {
		out = append(out, jen.Id(p.Name).Add(p.Constraint))
	}
	return out
}

// Instantiate returns name[P1, P2] for the given type parameters.
func Instantiate(name string, params []TypeParam) *jen.Statement {
	s := jen.Id(name)
	if len(params) == 0 {
		return s
	}
	args := make([]jen.Code, 0, len(params))
	for _, p := range params {
		args = append(args, jen.Id(p.Name))
	}
	return s.Types(args...)
}

// Fragment prints a source expression so it can be embedded verbatim.
func Fragment(fset *token.FileSet, expr ast.Expr) jen.Code {
	return jen.Id(ExprString(fset, expr))
}

// ExprString prints expr as Go source.
func ExprString(fset *token.FileSet, expr ast.Expr) string {
	if fset == nil {
		fset = token.NewFileSet()
	}
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, expr); err != nil {
		return fmt.Sprintf("%v", expr)
	}
	return buf.String()
}

// TraitDefault is the default value of a type: its Default method when it
// has one, otherwise its zero value.
func TraitDefault(b Bindings, typ jen.Code) jen.Code {
	if b == BindingsStd {
		return jen.Qual(RuntimePath, "Default").Types(typ).Call()
	}
	// func() (v T) { if d, ok := any(v).(interface{ Default() T }); ok { v = d.Default() }; return }()
	return jen.Func().Params().Params(jen.Id("v").Add(typ)).Block(
		jen.If(
			jen.List(jen.Id("d"), jen.Id("ok")).Op(":=").Any().Call(jen.Id("v")).Assert(
				jen.Interface(jen.Id("Default").Params().Add(typ)),
			),
			jen.Id("ok"),
		).Block(jen.Id("v").Op("=").Id("d").Dot("Default").Call()),
		jen.Return(),
	).Call()
}

// comments renders each line as a // comment followed by a newline.
func comments(lines []string) *jen.Statement {
	s := jen.Null()
	for _, line := range lines {
		s.Comment(commentLine(line)).Line()
	}
	return s
}

func commentLine(line string) string {
	if strings.HasPrefix(line, "//") || strings.HasPrefix(line, "/*") {
		return line
	}
	if line == "" {
		return "//"
	}
	return "// " + line
}

// IsDoc reports whether a comment line is documentation rather than a
// directive such as //nolint or //go:generate.
func IsDoc(line string) bool {
	text, ok := strings.CutPrefix(line, "//")
	if !ok {
		return strings.HasPrefix(line, "/*")
	}
	return text == "" || text[0] == ' ' || text[0] == '\t'
}

// IsLintDirective reports //nolint and //lint:ignore lines.
func IsLintDirective(line string) bool {
	return strings.HasPrefix(line, "//nolint") || strings.HasPrefix(line, "//lint:")
}
