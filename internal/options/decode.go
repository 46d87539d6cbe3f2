package options

import (
	"go/token"

	"github.com/calumari/forge/internal/meta"
)

// decoder converts payload items into typed option values.
type decoder struct {
	seen  map[string]token.Position
	scope string
}

func (d decoder) name(it meta.Item) string {
	if d.scope == "" {
		return it.Name
	}
	return d.scope + "." + it.Name
}

func (d decoder) claim(it meta.Item) error {
	if _, ok := d.seen[it.Name]; ok {
		return errorAt(it.Pos, d.name(it), ErrDuplicateOption)
	}
	d.seen[it.Name] = it.Pos
	return nil
}

// flag accepts a bare word or a boolean value.
func (d decoder) flag(it meta.Item) (*bool, error) {
	switch it.Kind {
	case meta.Word:
		return ptr(true), nil
	case meta.NameValue:
		if v, ok := it.Value.Bool(); ok {
			return ptr(v), nil
		}
	}
	return nil, invalid(it.Pos, d.name(it), "expected true or false")
}

// word accepts a bare word only.
func (d decoder) word(it meta.Item) (*bool, error) {
	if it.Kind != meta.Word {
		return nil, invalid(it.Pos, d.name(it), "takes no value")
	}
	return ptr(true), nil
}

func (d decoder) str(it meta.Item) (*string, error) {
	if it.Kind != meta.NameValue || it.Value.Tok == token.INT {
		return nil, invalid(it.Pos, d.name(it), "expected %s = \"...\"", it.Name)
	}
	return ptr(it.Value.Text), nil
}

func (d decoder) list(it meta.Item) ([]meta.Item, error) {
	if it.Kind != meta.List {
		return nil, invalid(it.Pos, d.name(it), "expected %s(...)", it.Name)
	}
	return it.Items, nil
}

// words decodes a list of bare words.
func (d decoder) words(it meta.Item) ([]string, error) {
	items, err := d.list(it)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for _, sub := range items {
		if sub.Kind != meta.Word {
			return nil, invalid(sub.Pos, d.name(it), "expected a name, found %s", sub.Kind)
		}
		out = append(out, sub.Name)
	}
	return out, nil
}

// defaultValue accepts a bare default or default = "expr".
func (d decoder) defaultValue(it meta.Item) (*DefaultConfig, error) {
	switch it.Kind {
	case meta.Word:
		return &DefaultConfig{Pos: it.Pos}, nil
	case meta.NameValue:
		return &DefaultConfig{Expr: it.Value.Text, Explicit: true, Pos: it.Value.Pos}, nil
	}
	return nil, invalid(it.Pos, d.name(it), "expected default or default = \"...\"")
}

func ptr[T any](v T) *T { return &v }
