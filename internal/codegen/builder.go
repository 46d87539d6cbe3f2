package codegen

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/dave/jennifer/jen"
)

// ErrNameCollision reports two generated members sharing one name.
var ErrNameCollision = errors.New("name collision")

// Derive names understood by the builder.
const (
	DeriveClone   = "Clone"
	DeriveDebug   = "Debug"
	DeriveDefault = "Default"
	DeriveEqual   = "Equal"
)

// KnownDerive reports whether name can be listed in derive(...).
func KnownDerive(name string) bool {
	switch name {
	case DeriveClone, DeriveDebug, DeriveDefault, DeriveEqual:
		return true
	}
	return false
}

// Builder describes the builder of one struct.
type Builder struct {
	// Ident is the builder type name, already cased.
	Ident      string
	Pattern    Pattern
	Bindings   Bindings
	TypeParams []TypeParam
	Derives    []string
	Doc        []string
	Attrs      []string // forwarded lint directives

	fields  []BuilderField
	setters []Setter
	buildFn *BuildMethod
}

// PushField appends the storage of one target field.
func (b *Builder) PushField(f BuilderField) { b.fields = append(b.fields, f) }

// PushSetter appends the setter of one target field.
func (b *Builder) PushSetter(s Setter) { b.setters = append(b.setters, s) }

// PushBuildFn sets the build method.
func (b *Builder) PushBuildFn(m *BuildMethod) { b.buildFn = m }

// Fields returns the pushed fields in order.
func (b *Builder) Fields() []BuilderField { return b.fields }

// Setters returns the pushed setters in order.
func (b *Builder) Setters() []Setter { return b.setters }

func (b *Builder) self() *jen.Statement { return Instantiate(b.Ident, b.TypeParams) }

func (b *Builder) derives(name string) bool { return slices.Contains(b.Derives, name) }

// ConstructorName is the name of the function returning an empty builder.
func (b *Builder) ConstructorName() string {
	return VisibilityOf(b.Ident).Apply(Join("new", b.Ident))
}

// methods lists every generated method name.
func (b *Builder) methods() ([]string, error) {
	names := []string{"Clone"}
	if b.derives(DeriveDebug) {
		names = append(names, "String")
	}
	if b.derives(DeriveEqual) {
		names = append(names, "Equal")
	}
	if b.buildFn != nil && b.buildFn.Enabled {
		names = append(names, b.buildFn.Name())
	}
	for _, s := range b.setters {
		if !s.Enabled {
			continue
		}
		names = append(names, s.Name)
		if s.TrySetter {
			names = append(names, s.TryName())
		}
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if isKeyword(name) {
			return nil, fmt.Errorf("%w: %s: method name %q is a Go keyword", ErrNameCollision, b.Ident, name)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: %s: method %s is generated twice", ErrNameCollision, b.Ident, name)
		}
		seen[name] = true
	}
	return names, nil
}

// storage maps each target field to the name of its builder field. Names
// that clash with a method, another field or a keyword get a Value suffix.
func (b *Builder) storage() (map[string]string, error) {
	methods, err := b.methods()
	if err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(methods)+len(b.fields))
	for _, m := range methods {
		taken[m] = true
	}
	out := make(map[string]string, len(b.fields))
	for _, f := range b.fields {
		if !f.SetterEnabled {
			continue
		}
		name := f.Visibility.Apply(f.Ident)
		base := name
		for n := 1; taken[name] || isKeyword(name); n++ {
			name = base + "Value"
			if n > 1 {
				name += strconv.Itoa(n)
			}
		}
		taken[name] = true
		out[f.Ident] = name
	}
	return out, nil
}

// Check reports configuration errors that only show once all members are known.
func (b *Builder) Check() error {
	_, err := b.storage()
	return err
}

// Code renders the builder declarations in order: the type, its
// constructor, setters, build method and derived methods.
func (b *Builder) Code() ([]jen.Code, error) {
	storage, err := b.storage()
	if err != nil {
		return nil, err
	}

	fields := make([]jen.Code, 0, len(b.fields))
	for _, f := range b.fields {
		if name, ok := storage[f.Ident]; ok {
			fields = append(fields, f.code(name))
		}
	}
	decl := jen.Type().Id(b.Ident)
	if len(b.TypeParams) > 0 {
		decl.Types(typeParamDecls(b.TypeParams)...)
	}
	out := []jen.Code{
		comments(append(slices.Clone(b.Doc), b.Attrs...)).Add(decl.Struct(fields...)),
		b.constructor(),
	}

	for _, s := range b.setters {
		out = append(out, s.code(b, storage[s.Ident])...)
	}
	if b.buildFn != nil {
		if code := b.buildFn.code(b, storage); code != nil {
			out = append(out, code)
		}
	}
	out = append(out, b.clone())
	if b.derives(DeriveDebug) {
		out = append(out, b.stringer(storage))
	}
	if b.derives(DeriveEqual) {
		out = append(out, b.equal())
	}
	return out, nil
}

func (b *Builder) receiver() *jen.Statement {
	if b.Pattern.pointer() {
		return jen.Id("b").Op("*").Add(b.self())
	}
	return jen.Id("b").Add(b.self())
}

func (b *Builder) result() *jen.Statement {
	if b.Pattern.pointer() {
		return jen.Op("*").Add(b.self())
	}
	return b.self()
}

func (b *Builder) constructor() jen.Code {
	name := b.ConstructorName()
	value := b.self().Values()
	if b.Pattern.pointer() {
		value = jen.Op("&").Add(value)
	}
	fn := comments([]string{fmt.Sprintf("%s returns an empty [%s].", name, b.Ident)}).Func().Id(name)
	if len(b.TypeParams) > 0 {
		fn.Types(typeParamDecls(b.TypeParams)...)
	}
	return fn.Params().Add(b.result()).Block(jen.Return(value))
}

func (b *Builder) clone() jen.Code {
	doc := comments([]string{"Clone returns a copy of the builder."})
	if !b.Pattern.pointer() {
		return doc.Func().Params(b.receiver()).Id("Clone").Params().Add(b.result()).Block(
			jen.Return(jen.Id("b")),
		)
	}
	return doc.Func().Params(b.receiver()).Id("Clone").Params().Add(b.result()).Block(
		jen.Id("c").Op(":=").Op("*").Id("b"),
		jen.Return(jen.Op("&").Id("c")),
	)
}

// stringer lists the fields that have been set.
func (b *Builder) stringer(storage map[string]string) jen.Code {
	body := []jen.Code{
		jen.Id("fields").Op(":=").Make(jen.Index().String(), jen.Lit(0), jen.Lit(len(storage))),
	}
	for _, f := range b.fields {
		name, ok := storage[f.Ident]
		if !ok {
			continue
		}
		body = append(body, jen.If(jen.Id("b").Dot(name).Op("!=").Nil()).Block(
			jen.Id("fields").Op("=").Append(jen.Id("fields"), jen.Qual("fmt", "Sprintf").Call(
				jen.Lit(f.Ident+": %v"), jen.Op("*").Id("b").Dot(name),
			)),
		))
	}
	body = append(body, jen.Return(
		jen.Lit(b.Ident+"{").Op("+").Qual("strings", "Join").Call(jen.Id("fields"), jen.Lit(", ")).Op("+").Lit("}"),
	))
	return comments([]string{"String lists the fields that have been set."}).
		Func().Params(b.receiver()).Id("String").Params().String().Block(body...)
}

func (b *Builder) equal() jen.Code {
	return comments([]string{"Equal reports whether both builders hold the same values."}).
		Func().Params(b.receiver()).Id("Equal").Params(jen.Id("other").Add(b.result())).Bool().Block(
		jen.Return(jen.Qual("reflect", "DeepEqual").Call(jen.Id("b"), jen.Id("other"))),
	)
}
