package options

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"

	"github.com/dave/jennifer/jen"

	"github.com/calumari/forge/internal/codegen"
)

// StructDecl is an annotated struct declaration.
type StructDecl struct {
	Fset *token.FileSet
	Spec *ast.TypeSpec
	// Doc holds the comment lines of the declaration that are not annotations.
	Doc []string
}

// BuildFnOptions control the build method.
type BuildFnOptions struct {
	Skip bool
	// Name is uncased; its visibility follows the builder.
	Name     string
	Validate string
}

// StructOptions are the resolved options of an annotated struct.
type StructOptions struct {
	Ident      string
	Pos        token.Position
	Declared   codegen.Visibility
	TypeParams []codegen.TypeParam
	Attrs      []string
	Struct     *ast.StructType

	Pattern     codegen.Pattern
	Derives     []string
	Name        *string
	BuildFn     BuildFnOptions
	Setter      StructSetterOptions
	TrySetter   bool
	Default     *DefaultExpression
	FieldPolicy *codegen.Visibility
	Legacy      *codegen.Visibility
	Bindings    codegen.Bindings

	// Notes are deprecation notices for the generated docs and the log.
	Notes []string
}

// ResolveStruct validates cfg against the declaration.
func ResolveStruct(decl StructDecl, cfg StructConfig) (*StructOptions, error) {
	ident := decl.Spec.Name.Name
	pos := decl.Fset.Position(decl.Spec.Name.Pos())
	at := func(option string) token.Position { return position(cfg.pos, option, pos) }

	st, ok := decl.Spec.Type.(*ast.StructType)
	if !ok || st.Fields == nil {
		return nil, errorAt(pos, ident, ErrNotStruct)
	}

	opts := &StructOptions{
		Ident:     ident,
		Pos:       pos,
		Declared:  codegen.VisibilityOf(ident),
		Attrs:     lintAttrs(decl.Doc),
		Struct:    st,
		Name:      cfg.Name,
		TrySetter: deref(cfg.TrySetter),
		BuildFn: BuildFnOptions{
			Skip:     deref(cfg.BuildFn.Skip),
			Name:     "build",
			Validate: deref(cfg.BuildFn.Validate),
		},
	}
	if cfg.BuildFn.Name != nil {
		opts.BuildFn.Name = *cfg.BuildFn.Name
	}
	if isTrue(cfg.NoStd) {
		opts.Bindings = codegen.BindingsNoStd
	}
	if decl.Spec.TypeParams != nil {
		for _, field := range decl.Spec.TypeParams.List {
			for _, name := range field.Names {
				opts.TypeParams = append(opts.TypeParams, codegen.TypeParam{
					Name:       name.Name,
					Constraint: codegen.Fragment(decl.Fset, field.Type),
				})
			}
		}
	}

	if cfg.Pattern != nil {
		p, err := codegen.ParsePattern(*cfg.Pattern)
		if err != nil {
			return nil, invalid(at("pattern"), "pattern", "%v", err)
		}
		opts.Pattern = p
	}
	for _, name := range cfg.Derive {
		if !codegen.KnownDerive(name) {
			return nil, invalid(at("derive"), "derive", "cannot derive %s", name)
		}
		opts.Derives = append(opts.Derives, name)
	}
	if opts.BuildFn.Validate != "" {
		if _, err := parser.ParseExpr(opts.BuildFn.Validate); err != nil {
			return nil, invalid(at("build_fn"), "build_fn.validate", "%q is not a function path", opts.BuildFn.Validate)
		}
	}

	setter, err := resolveStructSetter(at("setter"), cfg.Setter)
	if err != nil {
		return nil, err
	}
	opts.Setter = setter

	if cfg.Default != nil {
		def, err := ParseDefault(*cfg.Default)
		if err != nil {
			return nil, err
		}
		opts.Default = def
	}

	if cfg.Field != nil {
		vis, ok, err := legacyVisibility(at("field"), "field", *cfg.Field)
		if err != nil {
			return nil, err
		}
		if ok {
			opts.FieldPolicy = &vis
		}
	}
	legacy, ok, err := legacyVisibility(pos, ident, cfg.Legacy)
	if err != nil {
		return nil, err
	}
	if ok {
		opts.Legacy = &legacy
	}

	opts.finish()
	return opts, nil
}

// finish records the deprecation notes.
func (s *StructOptions) finish() {
	if s.Default != nil {
		s.Notes = append(s.Notes, fmt.Sprintf(
			"unset fields are read from a default %s; prefer defaults on the fields", s.Ident))
	}
	if s.FieldPolicy == nil {
		s.Notes = append(s.Notes,
			"builder fields are private unless field(public) is set; set field(...) explicitly")
	}
	if s.Legacy != nil {
		s.Notes = append(s.Notes,
			"the bare public and private options are deprecated; use field(...) or setter(public|private)")
	}
}

// BuilderVisibility resolves the builder type visibility: legacy marker,
// then the field policy, then the struct itself.
func (s *StructOptions) BuilderVisibility() codegen.Visibility {
	switch {
	case s.Legacy != nil:
		return *s.Legacy
	case s.FieldPolicy != nil:
		return *s.FieldPolicy
	}
	return s.Declared
}

// BuilderIdent is the name of the generated builder type.
func (s *StructOptions) BuilderIdent() string {
	name := s.Ident + "Builder"
	if s.Name != nil {
		name = *s.Name
	}
	return s.BuilderVisibility().Apply(name)
}

// Target returns the annotated type instantiated with its type parameters.
func (s *StructOptions) Target() *jen.Statement {
	return codegen.Instantiate(s.Ident, s.TypeParams)
}

// AsBuilder returns the builder skeleton; fields, setters and the build
// method are pushed by the caller.
func (s *StructOptions) AsBuilder() *codegen.Builder {
	return &codegen.Builder{
		Ident:      s.BuilderIdent(),
		Pattern:    s.Pattern,
		Bindings:   s.Bindings,
		TypeParams: s.TypeParams,
		Derives:    s.Derives,
		Attrs:      s.Attrs,
	}
}

// AsBuildMethod returns the build method skeleton.
func (s *StructOptions) AsBuildMethod() *codegen.BuildMethod {
	m := &codegen.BuildMethod{
		Enabled:    !s.BuildFn.Skip,
		Ident:      s.BuildFn.Name,
		Visibility: s.BuilderVisibility(),
		Pattern:    s.Pattern,
		Target:     s.Ident,
		TypeParams: s.TypeParams,
		Bindings:   s.Bindings,
	}
	if s.Default != nil {
		m.DefaultStruct = s.Default.Resolve(s.Bindings, s.Target())
	}
	if s.BuildFn.Validate != "" {
		m.ValidateFn = jen.Id(s.BuildFn.Validate)
	}
	return m
}
