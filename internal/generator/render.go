package generator

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/imports"

	"github.com/calumari/forge/internal/codegen"
)

// runtimeImports may be referenced by generated code; unused ones are
// pruned when the file is formatted.
var runtimeImports = []importModel{
	{Path: "errors"},
	{Path: "fmt"},
	{Path: "reflect"},
	{Path: "strings"},
	{Name: "forge", Path: codegen.RuntimePath},
}

// output is one rendered file waiting to be written.
type output struct {
	Path    string
	Structs int
	Src     []byte
}

// run orchestrates discovery, expansion, and file emission.
func (g *generator) run(cfg Config) error {
	outs, err := g.render(cfg)
	var errs []error
	if err != nil {
		errs = append(errs, err)
	}
	for _, out := range outs {
		if err := os.WriteFile(out.Path, out.Src, 0o644); err != nil {
			errs = append(errs, err)
			continue
		}
		g.log.Debug("wrote builders", "file", out.Path, "structs", out.Structs)
	}
	return errors.Join(errs...)
}

// render produces the generated files of a package directory without
// writing them. Files that render are returned along with the errors of
// those that did not.
func (g *generator) render(cfg Config) ([]output, error) {
	absDir, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, err
	}
	project, err := loadProjectConfig(absDir, cfg.ConfigFile)
	if err != nil {
		return nil, err
	}
	g.defaults = project.Defaults
	suffix := cfg.Suffix
	if suffix == "" {
		suffix = project.Suffix
	}
	if suffix == "" {
		suffix = defaultSuffix
	}

	pkgs, err := loadDir(absDir, g.fset)
	if err != nil {
		return nil, err
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found in %s", absDir)
	}
	pkg := pkgs[0]

	files := discoverFiles(g.fset, pkg.Syntax, cfg.Types)
	if err := missingTypes(files, cfg.Types); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		g.log.Info("no annotated structs", "package", pkg.Name)
		return nil, nil
	}

	var outs []output
	var errs []error
	for _, file := range files {
		outPath := outputPath(file.Path, suffix)
		src, err := g.generate(file, pkg.Name, outPath, cfg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		outs = append(outs, output{Path: outPath, Structs: len(file.Structs), Src: src})
	}
	return outs, errors.Join(errs...)
}

// generate returns the formatted source of the generated file for one
// source file.
func (g *generator) generate(file sourceFile, pkgName, outPath string, cfg Config) ([]byte, error) {
	body, err := g.expandFile(file)
	if err != nil {
		return nil, err
	}
	return g.format(outPath, fileModel{
		Package:         pkgName,
		Source:          filepath.Base(file.Path),
		BuildConstraint: file.BuildConstraint,
		Imports:         fileImports(file),
		Body:            body,
		Command:         cfg.Command,
		Version:         cfg.Version,
	})
}

// expandFile renders the builders of every annotated struct of one file.
// Structs that fail are reported together.
func (g *generator) expandFile(file sourceFile) (string, error) {
	var body bytes.Buffer
	var errs []error
	for _, s := range file.Structs {
		exp, err := g.expand(s)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, note := range exp.Notes {
			g.log.Warn(note, "struct", exp.Ident)
		}
		g.log.Debug("expanded struct", "struct", exp.Ident, "decls", len(exp.Code))
		for _, code := range exp.Code {
			if err := jen.Null().Add(code).Render(&body); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", exp.Ident, err))
				break
			}
			body.WriteString("\n\n")
		}
	}
	if len(errs) > 0 {
		return "", errors.Join(errs...)
	}
	return body.String(), nil
}

// fileImports returns the imports of the source file, which field types
// may refer to, followed by the runtime imports.
func fileImports(file sourceFile) []importModel {
	seen := map[string]bool{}
	var out []importModel
	for _, spec := range file.File.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil || seen[path] {
			continue
		}
		im := importModel{Path: path}
		if spec.Name != nil {
			if spec.Name.Name == "_" || spec.Name.Name == "." {
				continue
			}
			im.Name = spec.Name.Name
		}
		seen[path] = true
		out = append(out, im)
	}
	for _, im := range runtimeImports {
		if !seen[im.Path] {
			seen[im.Path] = true
			out = append(out, im)
		}
	}
	return out
}

// format executes the file template, prunes unused imports and formats the
// result. Unformattable output is returned as is for inspection.
func (g *generator) format(path string, data fileModel) ([]byte, error) {
	if err := ensureTemplates(); err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := fileTmpl.ExecuteTemplate(&out, tmplFile, data); err != nil {
		return nil, err
	}
	formatted, err := imports.Process(path, out.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: false,
	})
	if err != nil {
		g.log.Warn("generated code does not format", "file", path, "err", err)
		return out.Bytes(), nil
	}
	return formatted, nil
}
