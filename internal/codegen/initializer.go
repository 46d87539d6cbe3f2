package codegen

import (
	"fmt"

	"github.com/dave/jennifer/jen"
)

// Initializer assigns one field of the target inside the build method.
type Initializer struct {
	Ident         string
	Type          jen.Code
	SetterEnabled bool
	// DefaultValue is the explicit default expression, nil when absent.
	DefaultValue jen.Code
	// UseDefaultStruct takes the value from the struct-level default.
	UseDefaultStruct bool
	Bindings         Bindings
}

func (i Initializer) required() bool {
	return i.SetterEnabled && i.DefaultValue == nil && !i.UseDefaultStruct
}

func (i Initializer) usesFallback() bool {
	return i.DefaultValue == nil && i.UseDefaultStruct
}

// fallback is the value used when the setter was not called, nil when the
// field is required.
func (i Initializer) fallback() jen.Code {
	switch {
	case i.DefaultValue != nil:
		return i.DefaultValue
	case i.UseDefaultStruct:
		return jen.Id("fallback").Dot(i.Ident)
	case i.SetterEnabled:
		return nil
	}
	return TraitDefault(i.Bindings, i.Type)
}

func (i Initializer) missing() jen.Code {
	if i.Bindings == BindingsStd {
		return jen.Qual(RuntimePath, "UninitializedFieldError").Values(
			jen.Id("Field").Op(":").Lit(i.Ident),
		)
	}
	return jen.Qual("errors", "New").Call(jen.Lit(fmt.Sprintf("field %q must be initialized", i.Ident)))
}

func (i Initializer) code(storage string) jen.Code {
	target := func() *jen.Statement { return jen.Id("out").Dot(i.Ident) }
	fallback := i.fallback()
	if !i.SetterEnabled {
		return target().Op("=").Add(fallback)
	}

	set := jen.If(jen.Id("b").Dot(storage).Op("!=").Nil()).Block(
		target().Op("=").Op("*").Id("b").Dot(storage),
	)
	if fallback == nil {
		return set.Else().Block(
			jen.Id("errs").Op("=").Append(jen.Id("errs"), i.missing()),
		)
	}
	return set.Else().Block(target().Op("=").Add(fallback))
}
