// Package meta parses the annotation payloads understood by forgegen.
//
// A payload is a comma separated list of items, each a bare word, a
// `key = literal` pair or a nested `key(list)`:
//
//	//forge:builder(pattern = mutable, setter(prefix = "with", into), default)
//
// The same grammar is accepted in `forge:"..."` struct tags.
package meta

import (
	"fmt"
	"go/token"
	"strconv"
	"strings"
)

// Directive is the comment prefix marking an annotation.
const Directive = "//forge:builder"

// TagKey is the struct tag key holding field annotations.
const TagKey = "forge"

// Kind tells the shape of an Item.
type Kind uint8

const (
	Word Kind = iota
	NameValue
	List
)

func (k Kind) String() string {
	switch k {
	case Word:
		return "word"
	case NameValue:
		return "name-value"
	case List:
		return "list"
	}
	return "unknown"
}

// Item is one entry of a payload.
type Item struct {
	Kind  Kind
	Name  string
	Value Lit    // NameValue only
	Items []Item // List only
	Pos   token.Position
}

// Lit is the right-hand side of a name-value item.
type Lit struct {
	Tok  token.Token // token.STRING, token.INT or token.IDENT
	Text string      // unquoted for strings, dotted path for identifiers
	Pos  token.Position
}

// Bool interprets the literal as a boolean.
func (l Lit) Bool() (bool, bool) {
	if l.Tok != token.IDENT {
		return false, false
	}
	switch l.Text {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

func (l Lit) String() string {
	if l.Tok == token.STRING {
		return strconv.Quote(l.Text)
	}
	return l.Text
}

// Error is a malformed payload.
type Error struct {
	Pos token.Position
	Msg string
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
	}
	return e.Msg
}

func errorf(pos token.Position, format string, args ...any) error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// CutDirective extracts the payload of a directive comment. It reports false
// for comments that are not directives; a bare directive yields an empty payload.
// offset is the byte offset of the payload within text.
func CutDirective(text string) (payload string, offset int, ok bool, err error) {
	rest, found := strings.CutPrefix(text, Directive)
	if !found {
		return "", 0, false, nil
	}
	trimmed := strings.TrimSpace(rest)
	if trimmed == "" {
		return "", 0, true, nil
	}
	// //forge:builderx is some other directive
	if !strings.HasPrefix(rest, "(") {
		if rest[0] == ' ' || rest[0] == '\t' {
			return "", 0, true, fmt.Errorf("unexpected %q after %s", trimmed, Directive)
		}
		return "", 0, false, nil
	}
	if !strings.HasSuffix(trimmed, ")") {
		return "", 0, true, fmt.Errorf("unterminated %s(...)", Directive)
	}
	inner := strings.TrimSuffix(trimmed, ")")[1:]
	return inner, len(Directive) + 1, true, nil
}
