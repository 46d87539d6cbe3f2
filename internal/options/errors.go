package options

import (
	"errors"
	"fmt"
	"go/token"

	"github.com/calumari/forge/internal/codegen"
)

var (
	ErrUnknownOption      = errors.New("unknown option")
	ErrDuplicateOption    = errors.New("option set more than once")
	ErrInvalidValue       = errors.New("invalid value")
	ErrVisibilityConflict = errors.New("both public and private are set")
	ErrEmptyDefault       = errors.New("empty default expression")
	ErrInvalidDefault     = errors.New("invalid default expression")
	ErrNotStruct          = errors.New("annotated type is not a struct")
	ErrNameCollision      = codegen.ErrNameCollision
)

// Error is a configuration error tied to the option that caused it.
type Error struct {
	Pos    token.Position
	Option string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Err.Error()
	if e.Option != "" {
		msg = fmt.Sprintf("%s: %s", e.Option, msg)
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, msg)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func errorAt(pos token.Position, option string, err error) error {
	return &Error{Pos: pos, Option: option, Err: err}
}

func invalid(pos token.Position, option, format string, args ...any) error {
	return errorAt(pos, option, fmt.Errorf("%w: %s", ErrInvalidValue, fmt.Sprintf(format, args...)))
}
