package meta

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	base := token.Position{Filename: "models.go", Line: 3, Column: 17}

	t.Run("words name values and lists", func(t *testing.T) {
		items, err := Parse(`pattern = mutable, setter(prefix = "with", into), default, name = "Factory"`, base)
		require.NoError(t, err)
		require.Len(t, items, 4)

		require.Equal(t, NameValue, items[0].Kind)
		require.Equal(t, "pattern", items[0].Name)
		require.Equal(t, token.IDENT, items[0].Value.Tok)
		require.Equal(t, "mutable", items[0].Value.Text)

		require.Equal(t, List, items[1].Kind)
		require.Len(t, items[1].Items, 2)
		require.Equal(t, "with", items[1].Items[0].Value.Text)
		require.Equal(t, Word, items[1].Items[1].Kind)

		require.Equal(t, Word, items[2].Kind)
		require.Equal(t, "default", items[2].Name)

		require.Equal(t, token.STRING, items[3].Value.Tok)
		require.Equal(t, "Factory", items[3].Value.Text)
	})

	t.Run("dotted paths and raw strings", func(t *testing.T) {
		items, err := Parse("build_fn(validate = checks.Lorem), default = `time.Second * 5`", base)
		require.NoError(t, err)
		require.Equal(t, "checks.Lorem", items[0].Items[0].Value.Text)
		require.Equal(t, "time.Second * 5", items[1].Value.Text)
	})

	t.Run("empty list and trailing comma", func(t *testing.T) {
		items, err := Parse("setter(), try_setter = false,", base)
		require.NoError(t, err)
		require.Len(t, items, 2)
		require.Equal(t, List, items[0].Kind)
		require.Empty(t, items[0].Items)
		v, ok := items[1].Value.Bool()
		require.True(t, ok)
		require.False(t, v)
	})

	t.Run("empty payload", func(t *testing.T) {
		items, err := Parse("", base)
		require.NoError(t, err)
		require.Empty(t, items)
	})

	t.Run("positions are offset from base", func(t *testing.T) {
		items, err := Parse("skip, into", base)
		require.NoError(t, err)
		require.Equal(t, 3, items[1].Pos.Line)
		require.Equal(t, base.Column+6, items[1].Pos.Column)
	})

	t.Run("errors", func(t *testing.T) {
		cases := map[string]string{
			"missing comma":       "skip into",
			"unterminated list":   "setter(into",
			"missing value":       "name =",
			"leading punctuation": "= 3",
			"dangling path":       "validate = a.",
		}
		for name, src := range cases {
			_, err := Parse(src, base)
			var metaErr *Error
			require.ErrorAs(t, err, &metaErr, name)
			require.Equal(t, "models.go", metaErr.Pos.Filename, name)
		}
	})
}

func TestCutDirective(t *testing.T) {
	t.Run("bare directive", func(t *testing.T) {
		payload, _, ok, err := CutDirective("//forge:builder")
		require.NoError(t, err)
		require.True(t, ok)
		require.Empty(t, payload)
	})

	t.Run("directive with payload", func(t *testing.T) {
		payload, offset, ok, err := CutDirective("//forge:builder(default, setter(into))")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "default, setter(into)", payload)
		require.Equal(t, len("//forge:builder("), offset)
	})

	t.Run("other comments are ignored", func(t *testing.T) {
		for _, text := range []string{"// Lorem is a value.", "//nolint:revive", "//forge:builders"} {
			_, _, ok, err := CutDirective(text)
			require.NoError(t, err)
			require.False(t, ok, text)
		}
	})

	t.Run("malformed directive", func(t *testing.T) {
		_, _, ok, err := CutDirective("//forge:builder(default")
		require.True(t, ok)
		require.Error(t, err)

		_, _, ok, err = CutDirective("//forge:builder default")
		require.True(t, ok)
		require.Error(t, err)
	})
}
