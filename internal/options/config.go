package options

import (
	"go/token"

	"dario.cat/mergo"

	"github.com/calumari/forge/internal/meta"
)

// StructConfig is the raw struct-level option block. Nil pointers are unset
// options. The yaml tags make it the schema of the defaults section of the
// project config file.
type StructConfig struct {
	Pattern   *string            `yaml:"pattern"`
	Derive    []string           `yaml:"derive"`
	Name      *string            `yaml:"-"`
	BuildFn   BuildFnConfig      `yaml:"build_fn"`
	Setter    StructSetterConfig `yaml:"setter"`
	TrySetter *bool              `yaml:"try_setter"`
	Default   *DefaultConfig     `yaml:"-"`
	Legacy    Markers            `yaml:",inline"`
	Field     *Markers           `yaml:"field"`
	NoStd     *bool              `yaml:"no_std"`

	pos map[string]token.Position
}

// BuildFnConfig is the raw build_fn(...) block.
type BuildFnConfig struct {
	Skip     *bool   `yaml:"skip"`
	Name     *string `yaml:"name"`
	Validate *string `yaml:"validate"`
}

// StructSetterConfig is the raw struct-level setter(...) block.
type StructSetterConfig struct {
	Prefix  *string `yaml:"prefix"`
	Into    *bool   `yaml:"into"`
	Skip    *bool   `yaml:"skip"`
	Markers `yaml:",inline"`
}

// FieldConfig is the raw field-level option block.
type FieldConfig struct {
	Setter    *SetterConfig
	TrySetter *bool
	Default   *DefaultConfig
	Pattern   *string
	Legacy    Markers
	Field     *Markers

	pos map[string]token.Position
}

// SetterConfig is the raw field-level setter(...) block.
type SetterConfig struct {
	Name   *string
	Prefix *string
	Skip   *bool
	Into   *bool
}

// position returns where an option was written, or fallback for options
// that came from the project config file.
func position(pos map[string]token.Position, option string, fallback token.Position) token.Position {
	if p, ok := pos[option]; ok {
		return p
	}
	return fallback
}

// Merge fills the options left unset by the annotation from defaults. A
// pointer set by the annotation is kept even when it points to false, and a
// public/private pair is taken whole from one side.
func (c StructConfig) Merge(defaults StructConfig) (StructConfig, error) {
	pos := c.pos
	legacy, setter := c.Legacy, c.Setter.Markers
	c.pos, defaults.pos = nil, nil
	if err := mergo.Merge(&c, defaults, mergo.WithoutDereference); err != nil {
		return StructConfig{}, err
	}
	if legacy.present() {
		c.Legacy = legacy
	}
	if setter.present() {
		c.Setter.Markers = setter
	}
	c.pos = pos
	return c, nil
}

// ParseStructConfig decodes a struct-level payload.
func ParseStructConfig(items []meta.Item) (StructConfig, error) {
	cfg := StructConfig{pos: map[string]token.Position{}}
	d := decoder{seen: cfg.pos}
	for _, it := range items {
		if err := d.claim(it); err != nil {
			return StructConfig{}, err
		}
		var err error
		switch it.Name {
		case "pattern":
			cfg.Pattern, err = d.str(it)
		case "derive":
			cfg.Derive, err = d.words(it)
		case "name":
			cfg.Name, err = d.str(it)
		case "build_fn":
			cfg.BuildFn, err = parseBuildFn(it)
		case "setter":
			cfg.Setter, err = parseStructSetter(it)
		case "try_setter":
			cfg.TrySetter, err = d.flag(it)
		case "default":
			cfg.Default, err = d.defaultValue(it)
		case "public":
			cfg.Legacy.Public, err = d.word(it)
		case "private":
			cfg.Legacy.Private, err = d.word(it)
		case "field":
			var m Markers
			m, err = parseMarkers(it)
			cfg.Field = &m
		case "no_std":
			cfg.NoStd, err = d.flag(it)
		default:
			err = errorAt(it.Pos, it.Name, ErrUnknownOption)
		}
		if err != nil {
			return StructConfig{}, err
		}
	}
	return cfg, nil
}

// ParseFieldConfig decodes a field-level payload.
func ParseFieldConfig(items []meta.Item) (FieldConfig, error) {
	cfg := FieldConfig{pos: map[string]token.Position{}}
	d := decoder{seen: cfg.pos}
	for _, it := range items {
		if err := d.claim(it); err != nil {
			return FieldConfig{}, err
		}
		var err error
		switch it.Name {
		case "setter":
			cfg.Setter, err = parseSetter(it)
		case "try_setter":
			cfg.TrySetter, err = d.flag(it)
		case "default":
			cfg.Default, err = d.defaultValue(it)
		case "pattern":
			cfg.Pattern, err = d.str(it)
		case "public":
			cfg.Legacy.Public, err = d.word(it)
		case "private":
			cfg.Legacy.Private, err = d.word(it)
		case "field":
			var m Markers
			m, err = parseMarkers(it)
			cfg.Field = &m
		default:
			err = errorAt(it.Pos, it.Name, ErrUnknownOption)
		}
		if err != nil {
			return FieldConfig{}, err
		}
	}
	return cfg, nil
}

func parseBuildFn(it meta.Item) (BuildFnConfig, error) {
	var cfg BuildFnConfig
	d := decoder{seen: map[string]token.Position{}, scope: "build_fn"}
	items, err := d.list(it)
	if err != nil {
		return cfg, err
	}
	for _, sub := range items {
		if err := d.claim(sub); err != nil {
			return cfg, err
		}
		switch sub.Name {
		case "skip":
			cfg.Skip, err = d.flag(sub)
		case "name":
			cfg.Name, err = d.str(sub)
		case "validate":
			cfg.Validate, err = d.str(sub)
		default:
			err = errorAt(sub.Pos, d.name(sub), ErrUnknownOption)
		}
		if err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func parseStructSetter(it meta.Item) (StructSetterConfig, error) {
	var cfg StructSetterConfig
	d := decoder{seen: map[string]token.Position{}, scope: "setter"}
	items, err := d.list(it)
	if err != nil {
		return cfg, err
	}
	for _, sub := range items {
		if err := d.claim(sub); err != nil {
			return cfg, err
		}
		switch sub.Name {
		case "prefix":
			cfg.Prefix, err = d.str(sub)
		case "into":
			cfg.Into, err = d.flag(sub)
		case "skip":
			cfg.Skip, err = d.flag(sub)
		case "public":
			cfg.Public, err = d.word(sub)
		case "private":
			cfg.Private, err = d.word(sub)
		default:
			err = errorAt(sub.Pos, d.name(sub), ErrUnknownOption)
		}
		if err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// parseSetter accepts a bare setter word as an empty block.
func parseSetter(it meta.Item) (*SetterConfig, error) {
	cfg := &SetterConfig{}
	if it.Kind == meta.Word {
		return cfg, nil
	}
	d := decoder{seen: map[string]token.Position{}, scope: "setter"}
	items, err := d.list(it)
	if err != nil {
		return nil, err
	}
	for _, sub := range items {
		if err := d.claim(sub); err != nil {
			return nil, err
		}
		switch sub.Name {
		case "name":
			cfg.Name, err = d.str(sub)
		case "prefix":
			cfg.Prefix, err = d.str(sub)
		case "skip":
			cfg.Skip, err = d.flag(sub)
		case "into":
			cfg.Into, err = d.flag(sub)
		default:
			err = errorAt(sub.Pos, d.name(sub), ErrUnknownOption)
		}
		if err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// parseMarkers decodes field(public) and field(private).
func parseMarkers(it meta.Item) (Markers, error) {
	var m Markers
	d := decoder{seen: map[string]token.Position{}, scope: it.Name}
	items, err := d.list(it)
	if err != nil {
		return m, err
	}
	if len(items) == 0 {
		return m, invalid(it.Pos, it.Name, "expected public or private")
	}
	for _, sub := range items {
		if err := d.claim(sub); err != nil {
			return m, err
		}
		switch sub.Name {
		case "public":
			m.Public, err = d.word(sub)
		case "private":
			m.Private, err = d.word(sub)
		default:
			err = errorAt(sub.Pos, d.name(sub), ErrUnknownOption)
		}
		if err != nil {
			return m, err
		}
	}
	return m, nil
}
