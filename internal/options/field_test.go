package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calumari/forge/internal/codegen"
)

func TestFieldSetterName(t *testing.T) {
	t.Run("explicit name beats every prefix", func(t *testing.T) {
		r := mustResolve(t, `package models

//forge:builder(setter(prefix = "set"))
type Lorem struct {
	//forge:builder(setter(name = "Label", prefix = "with"))
	Name string
}
`)
		assert.Equal(t, "Label", r.fields[0].SetterName())
	})

	t.Run("local prefix wins over parent prefix", func(t *testing.T) {
		r := mustResolve(t, `package models

//forge:builder(setter(prefix = "set"))
type Lorem struct {
	Name string `+"`forge:\"setter(prefix = \\\"with\\\")\"`"+`
	Size int
}
`)
		assert.Equal(t, "WithName", r.fields[0].SetterName())
		assert.Equal(t, "SetSize", r.fields[1].SetterName())
	})

	t.Run("visibility follows the field", func(t *testing.T) {
		r := mustResolve(t, `package models

//forge:builder
type Lorem struct {
	name string
	Size int
}
`)
		assert.Equal(t, "name", r.fields[0].SetterName())
		assert.Equal(t, "Size", r.fields[1].SetterName())
	})

	t.Run("struct setter visibility applies to every field", func(t *testing.T) {
		r := mustResolve(t, `package models

//forge:builder(setter(public))
type Lorem struct {
	name string
	//forge:builder(private)
	size int
}
`)
		assert.Equal(t, "Name", r.fields[0].SetterName())
		assert.Equal(t, "size", r.fields[1].SetterName())
		assert.NotEmpty(t, r.fields[1].Notes)
	})

	t.Run("both legacy markers on a field conflict", func(t *testing.T) {
		_, err := resolve(t, `package models

//forge:builder
type Lorem struct {
	//forge:builder(public, private)
	name string
}
`)
		require.ErrorIs(t, err, ErrVisibilityConflict)
	})
}

func TestFieldWithDefaults(t *testing.T) {
	t.Run("inherits unset keys", func(t *testing.T) {
		r := mustResolve(t, `package models

//forge:builder(pattern = immutable, try_setter, setter(into), no_std, field(public))
type Lorem struct {
	Name string
	//forge:builder(pattern = owned, try_setter = false)
	Size int
}
`)
		name, size := r.fields[0], r.fields[1]
		assert.Equal(t, codegen.PatternImmutable, *name.Pattern)
		assert.True(t, *name.TrySetter)
		assert.True(t, *name.Setter.Into)
		assert.Equal(t, codegen.BindingsNoStd, name.Bindings)
		assert.Equal(t, codegen.Exported, name.AsBuilderField().Visibility)

		assert.Equal(t, codegen.PatternOwned, *size.Pattern)
		assert.False(t, *size.TrySetter)
		assert.Equal(t, codegen.BindingsNoStd, size.Bindings)
	})

	t.Run("is pure", func(t *testing.T) {
		r := mustResolve(t, `package models

//forge:builder(try_setter, setter(prefix = "with"))
type Lorem struct{ Name string }
`)
		raw := FieldOptions{Ident: "Name", Declared: codegen.Exported}
		inherited := raw.WithDefaults(r.parent)
		assert.Nil(t, raw.TrySetter)
		assert.Nil(t, raw.Setter.Prefix)
		assert.True(t, *inherited.TrySetter)
		assert.Equal(t, "WithName", inherited.SetterName())
		assert.Equal(t, inherited, inherited.WithDefaults(r.parent))
	})

	t.Run("setter block re-enables skipped setters", func(t *testing.T) {
		r := mustResolve(t, `package models

//forge:builder(setter(skip))
type Lorem struct {
	Skipped string
	//forge:builder(setter)
	Bare string
	//forge:builder(setter(into))
	Into string
	//forge:builder(setter(skip = true))
	Explicit string
}
`)
		assert.False(t, r.fields[0].SetterEnabled())
		assert.True(t, r.fields[1].SetterEnabled())
		assert.True(t, r.fields[2].SetterEnabled())
		assert.False(t, r.fields[3].SetterEnabled())
	})

	t.Run("struct default only applies without a field default", func(t *testing.T) {
		r := mustResolve(t, `package models

//forge:builder(default)
type Lorem struct {
	Foo uint8
	//forge:builder(default = "42")
	Bar int
}
`)
		assert.True(t, r.fields[0].UseDefaultStruct)
		assert.False(t, r.fields[1].UseDefaultStruct)
		assert.Equal(t, "42", r.fields[1].Default.String())
	})
}

func TestFieldProjections(t *testing.T) {
	t.Run("forwarded attributes", func(t *testing.T) {
		r := mustResolve(t, `package models

//forge:builder
type Lorem struct {
	// Bar is documented.
	//nolint:lll
	//go:generate echo
	Bar string `+"`json:\"bar\" forge:\"setter(into)\"`"+`
}
`)
		fo := r.fields[0]
		setter := fo.AsSetter()
		assert.Equal(t, []string{"// Bar is documented.", "//nolint:lll"}, setter.Attrs)
		assert.True(t, setter.Into)

		field := fo.AsBuilderField()
		assert.Equal(t, []string{"// Bar is documented.", "//nolint:lll", "//go:generate echo"}, field.Attrs)
		assert.Equal(t, map[string]string{"json": "bar"}, field.Tags)
		assert.Equal(t, codegen.Unexported, field.Visibility)
	})

	t.Run("setter carries only lint lines without docs", func(t *testing.T) {
		r := mustResolve(t, `package models

//forge:builder
type Lorem struct {
	//nolint:revive
	Bar string `+"`json:\"bar\"`"+`
}
`)
		assert.Equal(t, []string{"//nolint:revive"}, r.fields[0].AsSetter().Attrs)
		assert.Equal(t, []string{"//nolint:revive"}, r.fields[0].AsBuilderField().Attrs)
		assert.Equal(t, "bar", r.fields[0].AsBuilderField().Tags["json"])
	})

	t.Run("initializer defaults", func(t *testing.T) {
		r := mustResolve(t, `package models

//forge:builder
type Lorem struct {
	//forge:builder(default = "8080")
	Port int
	//forge:builder(default)
	Host string
	//forge:builder(setter(skip))
	Hidden bool
	Name string
}
`)
		assert.NotNil(t, r.fields[0].AsInitializer().DefaultValue)
		assert.NotNil(t, r.fields[1].AsInitializer().DefaultValue)
		assert.False(t, r.fields[2].AsInitializer().SetterEnabled)
		assert.Nil(t, r.fields[3].AsInitializer().DefaultValue)
		assert.True(t, r.fields[3].AsInitializer().SetterEnabled)
	})

	t.Run("embedded and grouped fields", func(t *testing.T) {
		r := mustResolve(t, `package models

import "time"

//forge:builder
type Lorem struct {
	time.Time
	A, B int
}
`)
		require.Len(t, r.fields, 3)
		assert.Equal(t, "Time", r.fields[0].Ident)
		assert.Equal(t, "A", r.fields[1].Ident)
		assert.Equal(t, "B", r.fields[2].Ident)
		assert.Equal(t, "B", r.fields[2].SetterName())
	})

	t.Run("legacy marker decides storage visibility", func(t *testing.T) {
		r := mustResolve(t, `package models

//forge:builder(field(private))
type Lorem struct {
	//forge:builder(public)
	Bar string
	//forge:builder(private, field(public))
	Baz string
	//forge:builder(field(public))
	Qux string
	Quux string
}
`)
		assert.Equal(t, codegen.Exported, r.fields[0].AsBuilderField().Visibility)
		assert.Equal(t, codegen.Unexported, r.fields[1].AsBuilderField().Visibility)
		assert.Equal(t, codegen.Exported, r.fields[2].AsBuilderField().Visibility)
		assert.Equal(t, codegen.Unexported, r.fields[3].AsBuilderField().Visibility)
	})

	t.Run("blank fields are left out", func(t *testing.T) {
		r := mustResolve(t, `package models

//forge:builder
type Lorem struct {
	_   struct{}
	A, _ int
	Bar string
}
`)
		require.Len(t, r.fields, 2)
		assert.Equal(t, "A", r.fields[0].Ident)
		assert.Equal(t, "Bar", r.fields[1].Ident)
	})

	t.Run("field errors", func(t *testing.T) {
		cases := map[string]struct {
			field string
			err   error
		}{
			"unknown":             {"//forge:builder(rename = \"x\")\n\tBar string", ErrUnknownOption},
			"duplicate over tag":  {"//forge:builder(try_setter)\n\tBar string `forge:\"try_setter\"`", ErrDuplicateOption},
			"empty default":       {"//forge:builder(default = \"  \")\n\tBar string", ErrEmptyDefault},
			"invalid default":     {"//forge:builder(default = \"1 +\")\n\tBar int", ErrInvalidDefault},
			"unknown setter key":  {"//forge:builder(setter(each = \"x\"))\n\tBar string", ErrUnknownOption},
			"bad pattern":         {"//forge:builder(pattern = shared)\n\tBar string", ErrInvalidValue},
			"setter needs a list": {"//forge:builder(setter = true)\n\tBar string", ErrInvalidValue},
		}
		for name, tc := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := resolve(t, "package models\n\n//forge:builder\ntype Lorem struct {\n\t"+tc.field+"\n}\n")
				require.ErrorIs(t, err, tc.err)
			})
		}
	})
}
