package options

import (
	"go/token"

	"github.com/calumari/forge/internal/codegen"
)

// StructSetterOptions are the setter defaults declared on the struct.
type StructSetterOptions struct {
	Prefix string
	Into   bool
	Skip   bool
	// Visibility of setters declared with setter(public) or setter(private).
	Visibility *codegen.Visibility
}

// SetterOptions is a field's setter block.
type SetterOptions struct {
	// Present is set when the field carries a setter block of its own.
	Present bool
	Name    *string
	Prefix  *string
	Skip    *bool
	Into    *bool
}

func resolveStructSetter(pos token.Position, cfg StructSetterConfig) (StructSetterOptions, error) {
	opts := StructSetterOptions{
		Prefix: deref(cfg.Prefix),
		Into:   deref(cfg.Into),
		Skip:   deref(cfg.Skip),
	}
	vis, ok, err := legacyVisibility(pos, "setter", cfg.Markers)
	if err != nil {
		return StructSetterOptions{}, err
	}
	if ok {
		opts.Visibility = &vis
	}
	return opts, nil
}

func resolveSetter(cfg *SetterConfig) SetterOptions {
	if cfg == nil {
		return SetterOptions{}
	}
	return SetterOptions{
		Present: true,
		Name:    cfg.Name,
		Prefix:  cfg.Prefix,
		Skip:    cfg.Skip,
		Into:    cfg.Into,
	}
}

// WithDefaults fills the unset keys from the struct block. A setter block on
// the field re-enables the setter unless it sets skip itself.
func (s SetterOptions) WithDefaults(parent StructSetterOptions) SetterOptions {
	out := s
	if out.Prefix == nil && parent.Prefix != "" {
		out.Prefix = ptr(parent.Prefix)
	}
	if out.Into == nil {
		out.Into = ptr(parent.Into)
	}
	if out.Skip == nil {
		out.Skip = ptr(parent.Skip && !s.Present)
	}
	return out
}

// Ident returns the uncased setter name: the explicit name, else the
// prefixed identifier, else the identifier itself.
func (s SetterOptions) Ident(field string) string {
	if s.Name != nil {
		return *s.Name
	}
	if s.Prefix != nil && *s.Prefix != "" {
		return codegen.Join(*s.Prefix, field)
	}
	return field
}

func deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
