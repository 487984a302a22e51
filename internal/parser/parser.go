// Package parser turns tokens into the ast for one source file. It is a
// hand-written recursive-descent parser with panic-free error recovery:
// unexpected input is reported as a diagnostic and the parser resynchronizes
// at the next statement boundary.
package parser

import (
	"fmt"
	"strconv"

	"cascade/internal/ast"
	"cascade/internal/diag"
	"cascade/internal/lexer"
	"cascade/internal/source"
	"cascade/internal/token"
)

type Parser struct {
	lx       *lexer.Lexer
	tok      token.Token
	reporter diag.Reporter
	file     *source.File
}

// New creates a parser over file using the shared interner.
func New(file *source.File, interner *source.Interner, reporter diag.Reporter) *Parser {
	p := &Parser{
		lx:       lexer.New(file, interner, reporter),
		reporter: reporter,
		file:     file,
	}
	p.advance()
	return p
}

// ParseFile parses a whole source file. The returned File is non-nil even
// when diagnostics were reported; unparsable statements are skipped.
func ParseFile(file *source.File, interner *source.Interner, reporter diag.Reporter) *ast.File {
	p := New(file, interner, reporter)
	out := &ast.File{Path: file.Path, FileID: file.ID}
	for p.tok.Kind != token.EOF {
		stmt := p.parseStatement()
		if stmt != nil {
			out.Statements = append(out.Statements, stmt)
		}
	}
	return out
}

func (p *Parser) advance() {
	p.tok = p.lx.Next()
}

func (p *Parser) at(kind token.Kind) bool {
	return p.tok.Kind == kind
}

func (p *Parser) eat(kind token.Kind) bool {
	if p.at(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(kind token.Kind) token.Token {
	tok := p.tok
	if !p.at(kind) {
		p.errorf(diag.SynUnexpectedToken, "expected %s, found %s", kind, describe(p.tok))
		return token.Token{Kind: token.Invalid, Span: p.tok.Span}
	}
	p.advance()
	return tok
}

func (p *Parser) expectSemicolon() {
	if !p.eat(token.Semicolon) {
		p.errorf(diag.SynExpectSemicolon, "expected ';', found %s", describe(p.tok))
		p.syncStatement()
	}
}

// syncStatement skips tokens until a likely statement boundary.
func (p *Parser) syncStatement() {
	for {
		switch p.tok.Kind {
		case token.EOF, token.RBrace:
			return
		case token.Semicolon:
			p.advance()
			return
		}
		p.advance()
	}
}

func (p *Parser) errorf(code diag.Code, format string, args ...any) {
	diag.Error(p.reporter, code, p.tok.Span, fmt.Sprintf(format, args...))
}

func describe(t token.Token) string {
	switch t.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident:
		return fmt.Sprintf("'%s'", t.Text)
	default:
		return fmt.Sprintf("'%s'", t.Kind)
	}
}

func parseInt(text string) int64 {
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseFloat(text string) float64 {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0
	}
	return v
}
