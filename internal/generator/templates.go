package generator

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"sync"
	"text/template"
)

const (
	tmplFile       = "file"
	tmplBuilderDoc = "builder_doc"
	tmplBuildDoc   = "build_doc"
)

const templatePattern = "templates/*.gtpl"

//go:embed templates/*.gtpl
var templatesFS embed.FS

var templateFuncs = template.FuncMap{
	"join": strings.Join,
}

var (
	fileTmpl     *template.Template
	tmplInitOnce sync.Once
	tmplInitErr  error
)

// validateTemplates ensures all required templates are defined
func validateTemplates() error {
	requiredTemplates := []string{
		tmplFile,
		tmplBuilderDoc,
		tmplBuildDoc,
	}
	for _, name := range requiredTemplates {
		if fileTmpl.Lookup(name) == nil {
			return fmt.Errorf("required template %q not found", name)
		}
	}
	return nil
}

// ensureTemplates parses and validates templates exactly once.
func ensureTemplates() error {
	tmplInitOnce.Do(func() {
		var t *template.Template
		t, tmplInitErr = template.New(tmplFile).Funcs(templateFuncs).ParseFS(templatesFS, templatePattern)
		if tmplInitErr != nil {
			return
		}
		fileTmpl = t
		tmplInitErr = validateTemplates()
	})
	return tmplInitErr
}

// docLines executes a doc template and splits the result into comment lines.
func docLines(name string, data any) ([]string, error) {
	if err := ensureTemplates(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := fileTmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, err
	}
	return strings.Split(strings.TrimSpace(buf.String()), "\n"), nil
}
