package codegen

import "github.com/dave/jennifer/jen"

// BuilderField is the storage slot of one target field. A nil slot means the
// setter was never called.
type BuilderField struct {
	Ident      string
	Visibility Visibility
	Type       jen.Code
	Attrs      []string          // doc and directive lines
	Tags       map[string]string // forwarded struct tags
	// SetterEnabled fields get storage; fields without a setter do not.
	SetterEnabled bool
}

func (f BuilderField) code(name string) jen.Code {
	s := comments(f.Attrs).Id(name).Op("*").Add(f.Type)
	if len(f.Tags) > 0 {
		s.Tag(f.Tags)
	}
	return s
}
