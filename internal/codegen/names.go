package codegen

import (
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Visibility of a generated identifier. Go expresses it through the case of
// the first letter, so applying a visibility rewrites the name.
type Visibility uint8

const (
	Unexported Visibility = iota
	Exported
)

// VisibilityOf reports the visibility of a declared identifier.
func VisibilityOf(name string) Visibility {
	if token.IsExported(name) {
		return Exported
	}
	return Unexported
}

// ParseVisibility accepts "public" and "private".
func ParseVisibility(s string) (Visibility, bool) {
	switch s {
	case "public":
		return Exported, true
	case "private":
		return Unexported, true
	}
	return Unexported, false
}

func (v Visibility) String() string {
	if v == Exported {
		return "public"
	}
	return "private"
}

// Apply returns name cased for v.
func (v Visibility) Apply(name string) string {
	if v == Exported {
		return upperFirst(name)
	}
	return lowerFirst(name)
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// lowerFirst lowers the leading initialism: ID -> id, URLPath -> urlPath.
func lowerFirst(s string) string {
	runes := []rune(s)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	if n > 1 && n < len(runes) && unicode.IsLower(runes[n]) {
		n--
	}
	if n == 0 && len(runes) > 0 {
		n = 1
	}
	for i := 0; i < n; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

// Join concatenates a prefix and an identifier in camel case.
func Join(prefix, ident string) string {
	return prefix + upperFirst(ident)
}

// isKeyword reports names that cannot be used as identifiers.
func isKeyword(name string) bool {
	return token.IsKeyword(name) || strings.TrimSpace(name) == ""
}
