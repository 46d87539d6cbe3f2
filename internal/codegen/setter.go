package codegen

import (
	"fmt"

	"github.com/dave/jennifer/jen"
)

// Setter describes the setter of one field and its optional fallible twin.
type Setter struct {
	// Ident is the name of the target field.
	Ident string
	// Name is the final method name, already cased.
	Name      string
	Type      jen.Code
	Pattern   Pattern
	Bindings  Bindings
	Enabled   bool
	Into      bool
	TrySetter bool
	Attrs     []string // doc and lint lines
}

// TryName is the name of the fallible setter.
func (s Setter) TryName() string {
	return VisibilityOf(s.Name).Apply(Join("try", s.Name))
}

func (s Setter) receiver(self *jen.Statement) *jen.Statement {
	if s.Pattern.pointer() {
		return jen.Id("b").Op("*").Add(self)
	}
	return jen.Id("b").Add(self)
}

func (s Setter) result(self *jen.Statement) *jen.Statement {
	if s.Pattern.pointer() {
		return jen.Op("*").Add(self)
	}
	return self
}

func (s Setter) doc(builder string) []string {
	for _, line := range s.Attrs {
		if IsDoc(line) {
			return s.Attrs
		}
	}
	generated := fmt.Sprintf("%s sets the %s field of the %s.", s.Name, s.Ident, builder)
	return append([]string{generated}, s.Attrs...)
}

// code renders the setter, and the fallible setter when requested. storage
// is the name of the builder field backing it.
func (s Setter) code(b *Builder, storage string) []jen.Code {
	if !s.Enabled {
		return nil
	}
	self := func() *jen.Statement { return Instantiate(b.Ident, b.TypeParams) }

	param := jen.Id("value").Add(s.Type)
	stored := jen.Id("value")
	var body []jen.Code
	if s.Into {
		param = jen.Id("value").Any()
		stored = jen.Id("converted")
		body = append(body, jen.Id("converted").Op(":=").Add(s.mustConvert()))
	}

	if s.Pattern == PatternImmutable {
		body = append(body,
			jen.Id("next").Op(":=").Op("*").Id("b"),
			jen.Id("next").Dot(storage).Op("=").Op("&").Add(stored),
			jen.Return(jen.Op("&").Id("next")),
		)
	} else {
		body = append(body,
			jen.Id("b").Dot(storage).Op("=").Op("&").Add(stored),
			jen.Return(jen.Id("b")),
		)
	}

	out := []jen.Code{
		comments(s.doc(b.Ident)).Func().Params(s.receiver(self())).Id(s.Name).
			Params(param).Add(s.result(self())).Block(body...),
	}
	if s.TrySetter {
		out = append(out, s.tryCode(self))
	}
	return out
}

func (s Setter) mustConvert() jen.Code {
	if s.Bindings == BindingsStd {
		return jen.Qual(RuntimePath, "MustConvert").Types(s.Type).Call(jen.Id("value"))
	}
	return jen.Qual("reflect", "ValueOf").Call(jen.Id("value")).
		Dot("Convert").Call(jen.Qual("reflect", "TypeFor").Types(s.Type).Call()).
		Dot("Interface").Call().Assert(s.Type)
}

func (s Setter) tryCode(self func() *jen.Statement) jen.Code {
	name := s.TryName()
	doc := fmt.Sprintf("%s is like %s but reports values that do not convert losslessly.", name, s.Name)

	var body []jen.Code
	if s.Bindings == BindingsStd {
		body = []jen.Code{
			jen.List(jen.Id("converted"), jen.Err()).Op(":=").
				Qual(RuntimePath, "Convert").Types(s.Type).Call(jen.Id("value")),
			jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Id("b"), jen.Err())),
			jen.Return(jen.Id("b").Dot(s.Name).Call(jen.Id("converted")), jen.Nil()),
		}
	} else {
		body = []jen.Code{
			jen.Id("target").Op(":=").Qual("reflect", "TypeFor").Types(s.Type).Call(),
			jen.Id("rv").Op(":=").Qual("reflect", "ValueOf").Call(jen.Id("value")),
			jen.If(
				jen.Op("!").Id("rv").Dot("IsValid").Call().Op("||").
					Op("!").Id("rv").Dot("CanConvert").Call(jen.Id("target")),
			).Block(
				jen.Return(jen.Id("b"), jen.Qual("fmt", "Errorf").Call(
					jen.Lit("cannot convert %T to %s"), jen.Id("value"), jen.Id("target"),
				)),
			),
			jen.Return(
				jen.Id("b").Dot(s.Name).Call(
					jen.Id("rv").Dot("Convert").Call(jen.Id("target")).Dot("Interface").Call().Assert(s.Type),
				),
				jen.Nil(),
			),
		}
	}

	return comments([]string{doc}).Func().Params(s.receiver(self())).Id(name).
		Params(jen.Id("value").Any()).
		Params(s.result(self()), jen.Error()).
		Block(body...)
}
