package generator

import (
	"fmt"
	"go/ast"
	"go/token"
	"io"
	"os"

	"github.com/dave/jennifer/jen"
	"github.com/davecgh/go-spew/spew"

	"github.com/calumari/forge/internal/codegen"
	"github.com/calumari/forge/internal/logger"
	"github.com/calumari/forge/internal/options"
)

// generator holds transient state while expanding a package.
type generator struct {
	fset     *token.FileSet
	defaults options.StructConfig
	log      logger.Logger
	debug    bool
	debugOut io.Writer
}

// Run generates the builders of one package directory.
func Run(cfg Config) error { return newGenerator(cfg).run(cfg) }

func newGenerator(cfg Config) *generator {
	g := &generator{
		fset:     token.NewFileSet(),
		log:      cfg.Logger,
		debug:    cfg.Debug,
		debugOut: cfg.DebugOut,
	}
	if g.log == nil {
		g.log = logger.Discard()
	}
	if g.debugOut == nil {
		g.debugOut = os.Stderr
	}
	return g
}

// expansion is the generated code of one struct.
type expansion struct {
	Ident string
	Code  []jen.Code
	Notes []string
}

// expand resolves the options of one annotated struct and synthesizes its builder.
func (g *generator) expand(s annotatedStruct) (*expansion, error) {
	items, doc, _, err := options.ReadComments(g.fset, s.Doc)
	if err != nil {
		return nil, err
	}
	cfg, err := options.ParseStructConfig(items)
	if err != nil {
		return nil, err
	}
	if cfg, err = cfg.Merge(g.defaults); err != nil {
		return nil, err
	}
	parent, err := options.ResolveStruct(options.StructDecl{Fset: g.fset, Spec: s.Spec, Doc: doc}, cfg)
	if err != nil {
		return nil, err
	}

	builder := parent.AsBuilder()
	buildFn := parent.AsBuildMethod()
	notes := append([]string(nil), parent.Notes...)
	var fields []options.FieldOptions
	for _, field := range parent.Struct.Fields.List {
		fo, err := g.resolveFields(parent, field)
		if err != nil {
			return nil, err
		}
		for _, f := range fo {
			builder.PushField(f.AsBuilderField())
			builder.PushSetter(f.AsSetter())
			buildFn.PushInitializer(f.AsInitializer())
			notes = append(notes, f.Notes...)
		}
		fields = append(fields, fo...)
	}
	if g.debug {
		g.dump(parent, fields)
	}

	builder.Doc, err = docLines(tmplBuilderDoc, builderDocModel{
		Builder:     builder.Ident,
		Target:      parent.Ident,
		Constructor: builder.ConstructorName(),
		Build:       buildName(buildFn),
		Notes:       notes,
	})
	if err != nil {
		return nil, err
	}
	buildFn.Doc, err = docLines(tmplBuildDoc, buildDocModel{
		Build:    buildFn.Name(),
		Target:   parent.Ident,
		Required: requiredFields(buildFn),
		Validate: parent.BuildFn.Validate,
	})
	if err != nil {
		return nil, err
	}
	builder.PushBuildFn(buildFn)

	if err := builder.Check(); err != nil {
		return nil, &options.Error{Pos: parent.Pos, Option: parent.Ident, Err: err}
	}
	code, err := builder.Code()
	if err != nil {
		return nil, err
	}
	return &expansion{Ident: parent.Ident, Code: code, Notes: notes}, nil
}

// resolveFields resolves every name declared by one field.
func (g *generator) resolveFields(parent *options.StructOptions, field *ast.Field) ([]options.FieldOptions, error) {
	items, doc, tags, err := options.ReadField(g.fset, field)
	if err != nil {
		return nil, err
	}
	cfg, err := options.ParseFieldConfig(items)
	if err != nil {
		return nil, err
	}
	var out []options.FieldOptions
	for _, name := range options.FieldNames(field) {
		fo, err := options.ResolveField(options.FieldDecl{
			Fset:  g.fset,
			Field: field,
			Name:  name,
			Doc:   doc,
			Tags:  tags,
		}, cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, fo.WithDefaults(parent))
	}
	return out, nil
}

func buildName(m *codegen.BuildMethod) string {
	if !m.Enabled {
		return ""
	}
	return m.Name()
}

func requiredFields(m *codegen.BuildMethod) []string {
	var out []string
	for _, init := range m.Initializers() {
		if init.SetterEnabled && init.DefaultValue == nil && !init.UseDefaultStruct {
			out = append(out, init.Ident)
		}
	}
	return out
}

// debugField is the dumped view of a resolved field.
type debugField struct {
	Ident            string
	Setter           string
	Enabled          bool
	Into             bool
	TrySetter        bool
	Pattern          string
	Default          string
	UseDefaultStruct bool
	Attrs            []string
	Tags             map[string]string
}

// debugStruct is the dumped view of resolved struct options.
type debugStruct struct {
	Ident    string
	Builder  string
	Pattern  string
	Bindings string
	Derives  []string
	BuildFn  options.BuildFnOptions
	Setter   options.StructSetterOptions
	Default  string
	Notes    []string
	Fields   []debugField
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func (g *generator) dump(parent *options.StructOptions, fields []options.FieldOptions) {
	view := debugStruct{
		Ident:    parent.Ident,
		Builder:  parent.BuilderIdent(),
		Pattern:  parent.Pattern.String(),
		Bindings: parent.Bindings.String(),
		Derives:  parent.Derives,
		BuildFn:  parent.BuildFn,
		Setter:   parent.Setter,
		Default:  parent.Default.String(),
		Notes:    parent.Notes,
	}
	for _, f := range fields {
		setter := f.AsSetter()
		view.Fields = append(view.Fields, debugField{
			Ident:            f.Ident,
			Setter:           setter.Name,
			Enabled:          setter.Enabled,
			Into:             setter.Into,
			TrySetter:        setter.TrySetter,
			Pattern:          setter.Pattern.String(),
			Default:          f.Default.String(),
			UseDefaultStruct: f.UseDefaultStruct,
			Attrs:            f.Attrs,
			Tags:             f.Tags,
		})
	}
	fmt.Fprintf(g.debugOut, "// forgegen: resolved options of %s\n", parent.Ident)
	dumpConfig.Fdump(g.debugOut, view)
}
