package options

import (
	"go/ast"
	"go/token"

	"github.com/dave/jennifer/jen"

	"github.com/calumari/forge/internal/codegen"
	"github.com/calumari/forge/internal/meta"
)

// FieldDecl is one named field of an annotated struct. Fields declared
// together (a, b int) produce one FieldDecl each.
type FieldDecl struct {
	Fset  *token.FileSet
	Field *ast.Field
	Name  string
	// Doc holds the comment lines of the field that are not annotations.
	Doc  []string
	Tags map[string]string
}

// FieldOptions are the options of one field. ResolveField fills what the
// field declares itself; WithDefaults adds what it inherits.
type FieldOptions struct {
	Ident    string
	Pos      token.Position
	Type     jen.Code
	Declared codegen.Visibility
	Attrs    []string
	Tags     map[string]string

	Setter      SetterOptions
	TrySetter   *bool
	Default     *DefaultExpression
	Pattern     *codegen.Pattern
	FieldPolicy *codegen.Visibility
	Legacy      *codegen.Visibility

	// Inherited.
	Bindings         codegen.Bindings
	UseDefaultStruct bool
	SetterVisibility *codegen.Visibility

	Notes []string
}

// ReadField collects the annotation of a field from its doc comment and its
// tag, along with the attributes to forward.
func ReadField(fset *token.FileSet, field *ast.Field) (items []meta.Item, doc []string, tags map[string]string, err error) {
	items, doc, _, err = ReadComments(fset, field.Doc)
	if err != nil {
		return nil, nil, nil, err
	}
	tagItems, tags, err := ReadTag(fset, field.Tag)
	if err != nil {
		return nil, nil, nil, err
	}
	return append(items, tagItems...), doc, tags, nil
}

// FieldNames returns the names declared by a field; an embedded field is
// named after its type. Blank fields cannot be assigned and are left out.
func FieldNames(field *ast.Field) []string {
	if len(field.Names) > 0 {
		names := make([]string, 0, len(field.Names))
		for _, n := range field.Names {
			if n.Name == "_" {
				continue
			}
			names = append(names, n.Name)
		}
		return names
	}
	if name := embeddedName(field.Type); name != "" {
		return []string{name}
	}
	return nil
}

func embeddedName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return embeddedName(t.X)
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.IndexExpr:
		return embeddedName(t.X)
	case *ast.IndexListExpr:
		return embeddedName(t.X)
	}
	return ""
}

// ResolveField validates cfg against one field.
func ResolveField(decl FieldDecl, cfg FieldConfig) (FieldOptions, error) {
	pos := decl.Fset.Position(decl.Field.Pos())
	at := func(option string) token.Position { return position(cfg.pos, option, pos) }

	opts := FieldOptions{
		Ident:     decl.Name,
		Pos:       pos,
		Type:      codegen.Fragment(decl.Fset, decl.Field.Type),
		Declared:  codegen.VisibilityOf(decl.Name),
		Attrs:     decl.Doc,
		Tags:      decl.Tags,
		Setter:    resolveSetter(cfg.Setter),
		TrySetter: cfg.TrySetter,
	}

	if cfg.Default != nil {
		def, err := ParseDefault(*cfg.Default)
		if err != nil {
			return FieldOptions{}, err
		}
		opts.Default = def
	}
	if cfg.Pattern != nil {
		p, err := codegen.ParsePattern(*cfg.Pattern)
		if err != nil {
			return FieldOptions{}, invalid(at("pattern"), "pattern", "%v", err)
		}
		opts.Pattern = &p
	}
	if cfg.Field != nil {
		vis, ok, err := legacyVisibility(at("field"), "field", *cfg.Field)
		if err != nil {
			return FieldOptions{}, err
		}
		if ok {
			opts.FieldPolicy = &vis
		}
	}
	legacy, ok, err := legacyVisibility(pos, decl.Name, cfg.Legacy)
	if err != nil {
		return FieldOptions{}, err
	}
	if ok {
		opts.Legacy = &legacy
		opts.Notes = append(opts.Notes, "the bare public and private options are deprecated on "+decl.Name)
	}
	return opts, nil
}

// WithDefaults returns the options with every unset key inherited from the
// struct.
func (f FieldOptions) WithDefaults(parent *StructOptions) FieldOptions {
	out := f
	if out.TrySetter == nil {
		out.TrySetter = ptr(parent.TrySetter)
	}
	out.UseDefaultStruct = f.Default == nil && parent.Default != nil
	if out.Pattern == nil {
		out.Pattern = ptr(parent.Pattern)
	}
	out.Setter = f.Setter.WithDefaults(parent.Setter)
	out.Bindings = parent.Bindings
	if out.FieldPolicy == nil {
		out.FieldPolicy = parent.FieldPolicy
	}
	if out.Legacy == nil {
		out.SetterVisibility = parent.Setter.Visibility
	}
	return out
}

// SetterEnabled reports whether the field gets a setter and builder storage.
func (f FieldOptions) SetterEnabled() bool { return !deref(f.Setter.Skip) }

// SetterName resolves the setter name and cases it: a legacy marker on the
// field, then the struct setter visibility, then the field's own.
func (f FieldOptions) SetterName() string {
	vis := f.Declared
	switch {
	case f.Legacy != nil:
		vis = *f.Legacy
	case f.SetterVisibility != nil:
		vis = *f.SetterVisibility
	}
	return vis.Apply(f.Setter.Ident(f.Ident))
}

// AsBuilderField projects the builder storage. Its visibility is the legacy
// marker of the field, then the field policy, then unexported.
func (f FieldOptions) AsBuilderField() codegen.BuilderField {
	vis := codegen.Unexported
	switch {
	case f.Legacy != nil:
		vis = *f.Legacy
	case f.FieldPolicy != nil:
		vis = *f.FieldPolicy
	}
	return codegen.BuilderField{
		Ident:         f.Ident,
		Visibility:    vis,
		Type:          f.Type,
		Attrs:         f.Attrs,
		Tags:          f.Tags,
		SetterEnabled: f.SetterEnabled(),
	}
}

// AsSetter projects the setter.
func (f FieldOptions) AsSetter() codegen.Setter {
	return codegen.Setter{
		Ident:     f.Ident,
		Name:      f.SetterName(),
		Type:      f.Type,
		Pattern:   deref(f.Pattern),
		Bindings:  f.Bindings,
		Enabled:   f.SetterEnabled(),
		Into:      deref(f.Setter.Into),
		TrySetter: deref(f.TrySetter),
		Attrs:     setterAttrs(f.Attrs),
	}
}

// AsInitializer projects the assignment made by the build method.
func (f FieldOptions) AsInitializer() codegen.Initializer {
	init := codegen.Initializer{
		Ident:            f.Ident,
		Type:             f.Type,
		SetterEnabled:    f.SetterEnabled(),
		UseDefaultStruct: f.UseDefaultStruct,
		Bindings:         f.Bindings,
	}
	if f.Default != nil {
		init.DefaultValue = f.Default.Resolve(f.Bindings, f.Type)
	}
	return init
}
