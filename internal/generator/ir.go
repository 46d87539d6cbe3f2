package generator

import (
	"go/ast"
	"io"

	"github.com/calumari/forge/internal/logger"
)

// This file houses the models shared by the generator phases
// (discovery -> expansion -> render).

// Config holds generation settings for the builder generator.
type Config struct {
	Dir        string   // directory to load ("." relative to where command invoked)
	Types      []string // optional: only expand these struct names (empty = every annotated struct)
	Suffix     string   // output file suffix, appended to the source file base name
	ConfigFile string   // optional project config file; forge.yaml in Dir is used when present
	Debug      bool     // when true, dump the resolved options of every struct
	Command    string   // full invocation command line
	Version    string   // forgegen build version

	Logger   logger.Logger
	DebugOut io.Writer // destination of debug dumps, stderr when nil
}

const defaultSuffix = "_builder.go"

// sourceFile is one parsed file of the package with the structs to expand.
type sourceFile struct {
	Path            string
	File            *ast.File
	BuildConstraint string
	Structs         []annotatedStruct
}

// annotatedStruct is a struct declaration carrying a //forge:builder directive.
type annotatedStruct struct {
	Spec *ast.TypeSpec
	Doc  *ast.CommentGroup
}

// fileModel is the root template model for a generated file.
type fileModel struct {
	Package         string
	Source          string
	BuildConstraint string
	Imports         []importModel
	Body            string
	Command         string
	Version         string
}

// importModel is one import of a generated file.
type importModel struct {
	Name string
	Path string
}

// builderDocModel feeds the builder doc template.
type builderDocModel struct {
	Builder     string
	Target      string
	Constructor string
	Build       string
	Notes       []string
}

// buildDocModel feeds the build method doc template.
type buildDocModel struct {
	Build    string
	Target   string
	Required []string
	Validate string
}
