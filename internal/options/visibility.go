package options

import (
	"go/token"

	"github.com/calumari/forge/internal/codegen"
)

// Markers holds a pair of public/private presence words.
type Markers struct {
	Public  *bool `yaml:"public"`
	Private *bool `yaml:"private"`
}

// present reports whether either marker was written.
func (m Markers) present() bool { return m.Public != nil || m.Private != nil }

// legacyVisibility merges the two markers. It reports false when neither is
// set; both set is a contradiction.
func legacyVisibility(pos token.Position, option string, m Markers) (codegen.Visibility, bool, error) {
	public, private := isTrue(m.Public), isTrue(m.Private)
	switch {
	case public && private:
		return 0, false, errorAt(pos, option, ErrVisibilityConflict)
	case public:
		return codegen.Exported, true, nil
	case private:
		return codegen.Unexported, true, nil
	}
	return 0, false, nil
}

func isTrue(b *bool) bool { return b != nil && *b }
