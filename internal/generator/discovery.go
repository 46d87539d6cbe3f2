package generator

import (
	"fmt"
	"go/ast"
	"go/token"
	"slices"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/calumari/forge/internal/meta"
)

// loadDir loads the Go package(s) for a directory. Only syntax is needed;
// field types are never type checked.
func loadDir(dir string, fset *token.FileSet) ([]*packages.Package, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedSyntax | packages.NeedFiles | packages.NeedCompiledGoFiles,
		Dir:  dir,
		Fset: fset,
	}
	pkgs, err := packages.Load(cfg, "./")
	if err != nil {
		return nil, err
	}
	var result []*packages.Package
	for _, p := range pkgs {
		if len(p.Errors) > 0 {
			return nil, p.Errors[0]
		}
		result = append(result, p)
	}
	return result, nil
}

// discoverFiles returns the files of pkg holding annotated structs, skipping
// generated files. A non-empty filter restricts the struct names.
func discoverFiles(fset *token.FileSet, syntax []*ast.File, filter []string) []sourceFile {
	var files []sourceFile
	for _, file := range syntax {
		if ast.IsGenerated(file) {
			continue
		}
		path := fset.Position(file.Package).Filename
		if strings.HasSuffix(path, "_test.go") {
			continue
		}
		structs := discoverStructs(file, filter)
		if len(structs) == 0 {
			continue
		}
		files = append(files, sourceFile{
			Path:            path,
			File:            file,
			BuildConstraint: buildConstraint(file),
			Structs:         structs,
		})
	}
	return files
}

// discoverStructs finds the type declarations marked with the directive.
// Ungrouped declarations carry their doc on the GenDecl, grouped ones on
// each TypeSpec.
func discoverStructs(file *ast.File, filter []string) []annotatedStruct {
	var out []annotatedStruct
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts := spec.(*ast.TypeSpec)
			doc := ts.Doc
			if doc == nil && !gen.Lparen.IsValid() {
				doc = gen.Doc
			}
			if !annotated(doc) {
				continue
			}
			if len(filter) > 0 && !slices.Contains(filter, ts.Name.Name) {
				continue
			}
			out = append(out, annotatedStruct{Spec: ts, Doc: doc})
		}
	}
	return out
}

func annotated(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	for _, c := range doc.List {
		// malformed directives count too so that they are reported
		if _, _, ok, _ := meta.CutDirective(c.Text); ok {
			return true
		}
	}
	return false
}

// buildConstraint returns the //go:build line of a file header.
func buildConstraint(file *ast.File) string {
	for _, group := range file.Comments {
		if group.Pos() >= file.Package {
			break
		}
		for _, c := range group.List {
			if strings.HasPrefix(c.Text, "//go:build ") {
				return c.Text
			}
		}
	}
	return ""
}

// outputPath returns the generated file path for a source file.
func outputPath(source, suffix string) string {
	return strings.TrimSuffix(source, ".go") + suffix
}

func missingTypes(files []sourceFile, filter []string) error {
	found := map[string]bool{}
	for _, f := range files {
		for _, s := range f.Structs {
			found[s.Spec.Name.Name] = true
		}
	}
	var missing []string
	for _, name := range filter {
		if !found[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("annotated types not found: %s", strings.Join(missing, ", "))
	}
	return nil
}
