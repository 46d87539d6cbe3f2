package options

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/calumari/forge/internal/codegen"
)

// DefaultConfig is a raw default option: bare (the type's default) or an
// explicit expression.
type DefaultConfig struct {
	Expr     string
	Explicit bool
	Pos      token.Position
}

// DefaultExpression is a validated default. A nil Expr stands for the
// default of the target type.
type DefaultExpression struct {
	Expr ast.Expr
	Text string
	Pos  token.Position
}

// ParseDefault validates the raw option.
func ParseDefault(cfg DefaultConfig) (*DefaultExpression, error) {
	if !cfg.Explicit {
		return &DefaultExpression{Pos: cfg.Pos}, nil
	}
	if strings.TrimSpace(cfg.Expr) == "" {
		return nil, errorAt(cfg.Pos, "default", ErrEmptyDefault)
	}
	expr, err := parser.ParseExpr(cfg.Expr)
	if err != nil {
		return nil, errorAt(cfg.Pos, "default", fmt.Errorf("%w %q: %v", ErrInvalidDefault, cfg.Expr, err))
	}
	return &DefaultExpression{Expr: expr, Text: strings.TrimSpace(cfg.Expr), Pos: cfg.Pos}, nil
}

// IsTrait reports whether the default is the target type's own default.
func (d *DefaultExpression) IsTrait() bool { return d.Expr == nil }

// Resolve returns the code producing the default value of typ.
func (d *DefaultExpression) Resolve(bindings codegen.Bindings, typ jen.Code) jen.Code {
	if d.Expr == nil {
		return codegen.TraitDefault(bindings, typ)
	}
	return jen.Id(d.Text)
}

func (d *DefaultExpression) String() string {
	if d == nil {
		return "<none>"
	}
	if d.Expr == nil {
		return "default"
	}
	return d.Text
}
