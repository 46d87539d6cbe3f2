package codegen

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, b *Builder) string {
	t.Helper()
	code, err := b.Code()
	require.NoError(t, err)
	f := jen.NewFile("models")
	for _, c := range code {
		f.Add(c)
	}
	return fmt.Sprintf("%#v", f)
}

func loremBuilder(pattern Pattern, bindings Bindings) *Builder {
	b := &Builder{Ident: "LoremBuilder", Pattern: pattern, Bindings: bindings}
	b.PushField(BuilderField{Ident: "bar", Type: jen.String(), SetterEnabled: true})
	b.PushSetter(Setter{Ident: "bar", Name: "Bar", Type: jen.String(), Pattern: pattern, Bindings: bindings, Enabled: true})
	m := &BuildMethod{Enabled: true, Ident: "build", Visibility: Exported, Pattern: pattern, Target: "Lorem", Bindings: bindings}
	m.PushInitializer(Initializer{Ident: "bar", Type: jen.String(), SetterEnabled: true, Bindings: bindings})
	b.PushBuildFn(m)
	return b
}

func TestBuilderCode(t *testing.T) {
	t.Run("owned pattern", func(t *testing.T) {
		src := render(t, loremBuilder(PatternOwned, BindingsStd))
		require.Contains(t, src, "type LoremBuilder struct")
		require.Contains(t, src, "bar *string")
		require.Contains(t, src, "func NewLoremBuilder() LoremBuilder")
		require.Contains(t, src, "func (b LoremBuilder) Bar(value string) LoremBuilder")
		require.Contains(t, src, "func (b LoremBuilder) Build() (Lorem, error)")
		require.Contains(t, src, "forge.UninitializedFieldError{Field: \"bar\"}")
		require.Contains(t, src, "errors.Join(errs...)")
		require.Contains(t, src, "func (b LoremBuilder) Clone() LoremBuilder")
	})

	t.Run("mutable pattern returns the receiver", func(t *testing.T) {
		src := render(t, loremBuilder(PatternMutable, BindingsStd))
		require.Contains(t, src, "func NewLoremBuilder() *LoremBuilder")
		require.Contains(t, src, "func (b *LoremBuilder) Bar(value string) *LoremBuilder")
		require.Contains(t, src, "return &LoremBuilder{}")
	})

	t.Run("immutable pattern copies", func(t *testing.T) {
		src := render(t, loremBuilder(PatternImmutable, BindingsStd))
		require.Contains(t, src, "next := *b")
		require.Contains(t, src, "return &next")
	})

	t.Run("no_std avoids the runtime", func(t *testing.T) {
		src := render(t, loremBuilder(PatternOwned, BindingsNoStd))
		require.NotContains(t, src, RuntimePath)
		require.Contains(t, src, `errors.New("field \"bar\" must be initialized")`)
	})

	t.Run("generated setter doc", func(t *testing.T) {
		src := render(t, loremBuilder(PatternOwned, BindingsStd))
		require.Contains(t, src, "// Bar sets the bar field of the LoremBuilder.")
	})

	t.Run("type parameters", func(t *testing.T) {
		params := []TypeParam{{Name: "K", Constraint: jen.Id("comparable")}, {Name: "V", Constraint: jen.Any()}}
		b := &Builder{Ident: "PairBuilder", TypeParams: params}
		b.PushBuildFn(&BuildMethod{Enabled: true, Ident: "build", Visibility: Exported, Target: "Pair", TypeParams: params})
		src := render(t, b)
		require.Contains(t, src, "type PairBuilder[K comparable, V any] struct")
		require.Contains(t, src, "func NewPairBuilder[K comparable, V any]() PairBuilder[K, V]")
		require.Contains(t, src, "func (b PairBuilder[K, V]) Build() (Pair[K, V], error)")
	})

	t.Run("derives", func(t *testing.T) {
		b := loremBuilder(PatternOwned, BindingsStd)
		b.Derives = []string{DeriveDebug, DeriveEqual, DeriveClone}
		src := render(t, b)
		require.Contains(t, src, "func (b LoremBuilder) String() string")
		require.Contains(t, src, "func (b LoremBuilder) Equal(other LoremBuilder) bool")
	})
}

func TestSetterCode(t *testing.T) {
	t.Run("into setter converts", func(t *testing.T) {
		b := &Builder{Ident: "LoremBuilder"}
		b.PushField(BuilderField{Ident: "name", Type: jen.String(), SetterEnabled: true})
		b.PushSetter(Setter{Ident: "name", Name: "Name", Type: jen.String(), Enabled: true, Into: true, TrySetter: true})
		src := render(t, b)
		require.Contains(t, src, "func (b LoremBuilder) Name(value any) LoremBuilder")
		require.Contains(t, src, "converted := forge.MustConvert[string](value)")
		require.Contains(t, src, "func (b LoremBuilder) TryName(value any) (LoremBuilder, error)")
		require.Contains(t, src, "forge.Convert[string](value)")
	})

	t.Run("forwarded doc replaces the generated one", func(t *testing.T) {
		b := &Builder{Ident: "LoremBuilder"}
		b.PushField(BuilderField{Ident: "name", Type: jen.String(), SetterEnabled: true})
		b.PushSetter(Setter{Ident: "name", Name: "Name", Type: jen.String(), Enabled: true, Attrs: []string{"// Name of the lorem.", "//nolint:revive"}})
		src := render(t, b)
		require.Contains(t, src, "// Name of the lorem.\n//nolint:revive\nfunc (b LoremBuilder) Name")
		require.NotContains(t, src, "sets the name field")
	})

	t.Run("disabled setter", func(t *testing.T) {
		b := &Builder{Ident: "LoremBuilder"}
		b.PushField(BuilderField{Ident: "name", Type: jen.String()})
		b.PushSetter(Setter{Ident: "name", Name: "Name", Type: jen.String()})
		src := render(t, b)
		require.NotContains(t, src, "func (b LoremBuilder) Name")
		require.NotContains(t, src, "name *string")
	})
}

func TestInitializerCode(t *testing.T) {
	cases := []struct {
		name string
		init Initializer
		want string
	}{
		{
			name: "explicit default",
			init: Initializer{Ident: "port", Type: jen.Int(), SetterEnabled: true, DefaultValue: jen.Id("8080")},
			want: "out.port = 8080",
		},
		{
			name: "struct default",
			init: Initializer{Ident: "port", Type: jen.Int(), SetterEnabled: true, UseDefaultStruct: true},
			want: "out.port = fallback.port",
		},
		{
			name: "skipped setter uses the trait default",
			init: Initializer{Ident: "port", Type: jen.Int()},
			want: "out.port = forge.Default[int]()",
		},
		{
			name: "skipped setter without runtime",
			init: Initializer{Ident: "port", Type: jen.Int(), Bindings: BindingsNoStd},
			want: "Default() int",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := jen.NewFile("models")
			f.Func().Id("f").Params().Block(tc.init.code("port"))
			require.Contains(t, fmt.Sprintf("%#v", f), tc.want)
		})
	}
}

func TestBuilderStorageNames(t *testing.T) {
	t.Run("unexported storage steps aside for methods", func(t *testing.T) {
		b := &Builder{Ident: "LoremBuilder"}
		b.PushField(BuilderField{Ident: "Clone", Type: jen.Int(), SetterEnabled: true})
		b.PushField(BuilderField{Ident: "Type", Type: jen.String(), SetterEnabled: true})
		b.PushSetter(Setter{Ident: "Clone", Name: "clone", Type: jen.Int(), Enabled: true})
		storage, err := b.storage()
		require.NoError(t, err)
		require.Equal(t, "cloneValue", storage["Clone"])
		require.Equal(t, "typeValue", storage["Type"])
	})

	t.Run("exported storage steps aside for its setter", func(t *testing.T) {
		b := &Builder{Ident: "LoremBuilder"}
		b.PushField(BuilderField{Ident: "Bar", Visibility: Exported, Type: jen.Int(), SetterEnabled: true})
		b.PushField(BuilderField{Ident: "BarValue", Visibility: Exported, Type: jen.Int(), SetterEnabled: true})
		b.PushSetter(Setter{Ident: "Bar", Name: "Bar", Type: jen.Int(), Enabled: true})
		b.PushSetter(Setter{Ident: "BarValue", Name: "SetBarValue", Type: jen.Int(), Enabled: true})
		require.NoError(t, b.Check())
		storage, err := b.storage()
		require.NoError(t, err)
		require.Equal(t, "BarValue", storage["Bar"])
		require.Equal(t, "BarValueValue", storage["BarValue"])

		out := render(t, b)
		require.Regexp(t, `BarValue\s+\*int`, out)
		require.Contains(t, out, "b.BarValue = &value")
	})

	t.Run("setter named like a build method is an error", func(t *testing.T) {
		b := &Builder{Ident: "LoremBuilder"}
		b.PushField(BuilderField{Ident: "Build", Visibility: Exported, Type: jen.Int(), SetterEnabled: true})
		b.PushSetter(Setter{Ident: "Build", Name: "Build", Type: jen.Int(), Enabled: true})
		b.PushBuildFn(&BuildMethod{Enabled: true, Ident: "build", Visibility: Exported, Target: "Lorem"})
		err := b.Check()
		require.True(t, errors.Is(err, ErrNameCollision))
	})

	t.Run("duplicate setter names", func(t *testing.T) {
		b := &Builder{Ident: "LoremBuilder"}
		b.PushSetter(Setter{Ident: "a", Name: "Set", Type: jen.Int(), Enabled: true})
		b.PushSetter(Setter{Ident: "b", Name: "Set", Type: jen.Int(), Enabled: true})
		require.ErrorIs(t, b.Check(), ErrNameCollision)
	})
}

func TestVisibilityApply(t *testing.T) {
	cases := map[string]struct {
		v    Visibility
		want string
	}{
		"bar":     {Exported, "Bar"},
		"Bar":     {Unexported, "bar"},
		"ID":      {Unexported, "id"},
		"URLPath": {Unexported, "urlPath"},
		"x":       {Unexported, "x"},
	}
	for in, tc := range cases {
		require.Equal(t, tc.want, tc.v.Apply(in), in)
	}
	require.Equal(t, "withBar", Join("with", "bar"))
}
