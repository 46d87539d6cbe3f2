package codegen

import "github.com/dave/jennifer/jen"

// BuildMethod describes the method turning a builder into its target.
type BuildMethod struct {
	Enabled bool
	// Ident is the uncased method name, build by default.
	Ident      string
	Visibility Visibility
	Pattern    Pattern
	Target     string
	TypeParams []TypeParam
	Doc        []string
	Bindings   Bindings
	// DefaultStruct is the expression producing fallback values, nil when
	// no field falls back to it.
	DefaultStruct jen.Code
	// ValidateFn is called with the builder before any field is read.
	ValidateFn jen.Code

	initializers []Initializer
}

// Name is the method name as generated.
func (m *BuildMethod) Name() string {
	return m.Visibility.Apply(m.Ident)
}

// PushInitializer appends the assignment of one target field.
func (m *BuildMethod) PushInitializer(i Initializer) {
	m.initializers = append(m.initializers, i)
}

// Initializers returns the pushed initializers in order.
func (m *BuildMethod) Initializers() []Initializer {
	return m.initializers
}

func (m *BuildMethod) target() *jen.Statement {
	return Instantiate(m.Target, m.TypeParams)
}

func (m *BuildMethod) code(b *Builder, storage map[string]string) jen.Code {
	if !m.Enabled {
		return nil
	}
	zero := func() *jen.Statement { return m.target().Values() }

	var body []jen.Code
	if m.ValidateFn != nil {
		arg := jen.Id("b")
		if !b.Pattern.pointer() {
			arg = jen.Op("&").Id("b")
		}
		body = append(body, jen.If(
			jen.Err().Op(":=").Add(m.ValidateFn).Call(arg),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(zero(), jen.Err())))
	}

	var required, fallback bool
	for _, i := range m.initializers {
		required = required || i.required()
		fallback = fallback || i.usesFallback()
	}
	if fallback && m.DefaultStruct != nil {
		body = append(body, jen.Id("fallback").Op(":=").Add(m.DefaultStruct))
	}
	body = append(body, jen.Var().Id("out").Add(m.target()))
	if required {
		body = append(body, jen.Var().Id("errs").Index().Error())
	}
	for _, i := range m.initializers {
		body = append(body, i.code(storage[i.Ident]))
	}
	if required {
		body = append(body, jen.If(jen.Len(jen.Id("errs")).Op(">").Lit(0)).Block(
			jen.Return(zero(), jen.Qual("errors", "Join").Call(jen.Id("errs").Op("..."))),
		))
	}
	body = append(body, jen.Return(jen.Id("out"), jen.Nil()))

	recv := jen.Id("b").Add(b.self())
	if b.Pattern.pointer() {
		recv = jen.Id("b").Op("*").Add(b.self())
	}
	return comments(m.Doc).Func().Params(recv).Id(m.Name()).Params().
		Params(m.target(), jen.Error()).Block(body...)
}
