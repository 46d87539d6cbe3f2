package options

import (
	"fmt"
	"go/ast"
	"go/token"
	"strconv"

	"github.com/fatih/structtag"

	"github.com/calumari/forge/internal/codegen"
	"github.com/calumari/forge/internal/meta"
)

// ReadComments splits a comment group into annotation items and the
// remaining comment lines. found reports whether any annotation was present.
func ReadComments(fset *token.FileSet, doc *ast.CommentGroup) (items []meta.Item, lines []string, found bool, err error) {
	if doc == nil {
		return nil, nil, false, nil
	}
	for _, c := range doc.List {
		payload, offset, ok, err := meta.CutDirective(c.Text)
		pos := fset.Position(c.Slash)
		if err != nil {
			return nil, nil, true, errorAt(pos, "", err)
		}
		if !ok {
			lines = append(lines, c.Text)
			continue
		}
		found = true
		pos.Offset += offset
		pos.Column += offset
		parsed, err := meta.Parse(payload, pos)
		if err != nil {
			return nil, nil, true, err
		}
		items = append(items, parsed...)
	}
	return items, lines, found, nil
}

// ReadTag extracts the annotation held in the forge tag key and returns the
// other keys for forwarding.
func ReadTag(fset *token.FileSet, lit *ast.BasicLit) ([]meta.Item, map[string]string, error) {
	if lit == nil {
		return nil, nil, nil
	}
	pos := fset.Position(lit.ValuePos)
	raw, err := strconv.Unquote(lit.Value)
	if err != nil {
		return nil, nil, errorAt(pos, "tag", fmt.Errorf("%w: %v", ErrInvalidValue, err))
	}
	tags, err := structtag.Parse(raw)
	if err != nil {
		return nil, nil, errorAt(pos, "tag", fmt.Errorf("%w: %v", ErrInvalidValue, err))
	}

	var items []meta.Item
	if tag, err := tags.Get(meta.TagKey); err == nil {
		items, err = meta.Parse(tag.Value(), pos)
		if err != nil {
			return nil, nil, err
		}
		tags.Delete(meta.TagKey)
	}

	forwarded := make(map[string]string, tags.Len())
	for _, tag := range tags.Tags() {
		forwarded[tag.Key] = tag.Value()
	}
	return items, forwarded, nil
}

// setterAttrs keeps the lines allowed on setters: documentation and lint
// suppressions.
func setterAttrs(lines []string) []string {
	var out []string
	for _, line := range lines {
		if codegen.IsDoc(line) || codegen.IsLintDirective(line) {
			out = append(out, line)
		}
	}
	return out
}

// lintAttrs keeps lint suppressions only.
func lintAttrs(lines []string) []string {
	var out []string
	for _, line := range lines {
		if codegen.IsLintDirective(line) {
			out = append(out, line)
		}
	}
	return out
}
