package meta

import (
	"go/scanner"
	"go/token"
	"strconv"
	"strings"
)

// Parse parses a payload. base is the position of the first payload byte and
// is used to report errors.
func Parse(src string, base token.Position) ([]Item, error) {
	p := &parser{base: base}
	fset := token.NewFileSet()
	file := fset.AddFile(base.Filename, -1, len(src))
	var scanErr error
	p.scan.Init(file, []byte(src), func(pos token.Position, msg string) {
		if scanErr == nil {
			scanErr = errorf(p.at(pos.Offset), "%s", msg)
		}
	}, 0)
	p.file = file
	p.next()
	items, err := p.list(token.EOF)
	if scanErr != nil {
		return nil, scanErr
	}
	if err != nil {
		return nil, err
	}
	return items, nil
}

type parser struct {
	scan scanner.Scanner
	file *token.File
	base token.Position

	pos token.Pos
	tok token.Token
	lit string
}

func (p *parser) next() {
	p.pos, p.tok, p.lit = p.scan.Scan()
	// the scanner inserts a semicolon at the end of input
	if p.tok == token.SEMICOLON && p.lit == "\n" {
		p.tok = token.EOF
	}
}

func (p *parser) at(offset int) token.Position {
	pos := p.base
	pos.Offset += offset
	pos.Column += offset
	return pos
}

func (p *parser) position() token.Position {
	return p.at(p.file.Offset(p.pos))
}

func (p *parser) describe() string {
	switch {
	case p.tok == token.EOF:
		return "end of annotation"
	case p.lit != "":
		return strconv.Quote(p.lit)
	}
	return strconv.Quote(p.tok.String())
}

// list parses items up to the closing token, which is consumed.
func (p *parser) list(closing token.Token) ([]Item, error) {
	items := []Item{}
	for p.tok != closing {
		item, err := p.item()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.tok == token.COMMA {
			p.next()
			continue
		}
		if p.tok != closing {
			want := "')'"
			if closing == token.EOF {
				want = "end of annotation"
			}
			return nil, errorf(p.position(), "expected ',' or %s, found %s", want, p.describe())
		}
	}
	if closing != token.EOF {
		p.next()
	}
	return items, nil
}

func (p *parser) item() (Item, error) {
	// keywords such as default are valid option names
	if p.tok != token.IDENT && !p.tok.IsKeyword() {
		return Item{}, errorf(p.position(), "expected option name, found %s", p.describe())
	}
	it := Item{Kind: Word, Name: p.lit, Pos: p.position()}
	p.next()
	switch p.tok {
	case token.ASSIGN:
		p.next()
		lit, err := p.literal()
		if err != nil {
			return Item{}, err
		}
		it.Kind = NameValue
		it.Value = lit
	case token.LPAREN:
		p.next()
		items, err := p.list(token.RPAREN)
		if err != nil {
			return Item{}, err
		}
		it.Kind = List
		it.Items = items
	}
	return it, nil
}

func (p *parser) literal() (Lit, error) {
	lit := Lit{Tok: p.tok, Pos: p.position()}
	switch p.tok {
	case token.STRING:
		text, err := strconv.Unquote(p.lit)
		if err != nil {
			return Lit{}, errorf(lit.Pos, "invalid string %s", p.lit)
		}
		lit.Text = text
		p.next()
	case token.INT:
		lit.Text = p.lit
		p.next()
	case token.IDENT:
		parts := []string{p.lit}
		p.next()
		for p.tok == token.PERIOD {
			p.next()
			if p.tok != token.IDENT {
				return Lit{}, errorf(p.position(), "expected identifier after '.', found %s", p.describe())
			}
			parts = append(parts, p.lit)
			p.next()
		}
		lit.Text = strings.Join(parts, ".")
	default:
		return Lit{}, errorf(lit.Pos, "expected value, found %s", p.describe())
	}
	return lit, nil
}
