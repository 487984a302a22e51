package lexer

import (
	"cascade/internal/diag"
	"cascade/internal/source"
	"cascade/internal/token"
)

// Lexer produces tokens from a single source file. Identifiers are interned
// through the shared interner so that equal names share storage.
type Lexer struct {
	file     *source.File
	cursor   Cursor
	interner *source.Interner
	reporter diag.Reporter
	look     *token.Token
}

// New creates a lexer. interner and reporter may not be nil.
func New(file *source.File, interner *source.Interner, reporter diag.Reporter) *Lexer {
	return &Lexer{
		file:     file,
		cursor:   NewCursor(file),
		interner: interner,
		reporter: reporter,
	}
}

// Next returns the next significant token. After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.skipTrivia()

	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	}

	ch := lx.cursor.Peek()
	switch {
	case isIdentStart(ch):
		return lx.scanIdentOrKeyword()
	case isDec(ch):
		return lx.scanNumber()
	case ch == '.' && isDec(lx.cursor.PeekAt(1)):
		return lx.scanNumber()
	case ch == '"':
		return lx.scanString()
	default:
		return lx.scanOperator()
	}
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// Tokenize consumes the whole file.
func (lx *Lexer) Tokenize() []token.Token {
	var out []token.Token
	for {
		t := lx.Next()
		out = append(out, t)
		if t.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			lx.cursor.Bump()
		case ch == '/' && lx.cursor.PeekAt(1) == '/':
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
		case ch == '/' && lx.cursor.PeekAt(1) == '*':
			lx.cursor.Bump()
			lx.cursor.Bump()
			for !lx.cursor.EOF() {
				if lx.cursor.Peek() == '*' && lx.cursor.PeekAt(1) == '/' {
					lx.cursor.Bump()
					lx.cursor.Bump()
					break
				}
				lx.cursor.Bump()
			}
		default:
			return
		}
	}
}

func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Off
	for !lx.cursor.EOF() && isIdentContinue(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	raw := lx.cursor.Slice(start)
	id := lx.interner.InternBytes(raw)
	text := lx.interner.MustLookup(id)
	return token.Token{
		Kind: token.LookupKeyword(text),
		Span: lx.span(start),
		Text: text,
	}
}

func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Off
	isFloat := false

	for !lx.cursor.EOF() && isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
		isFloat = true
		lx.cursor.Bump()
		for !lx.cursor.EOF() && isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	if ch := lx.cursor.Peek(); ch == 'e' || ch == 'E' {
		next := lx.cursor.PeekAt(1)
		if isDec(next) || ((next == '+' || next == '-') && isDec(lx.cursor.PeekAt(2))) {
			isFloat = true
			lx.cursor.Bump()
			if c := lx.cursor.Peek(); c == '+' || c == '-' {
				lx.cursor.Bump()
			}
			for !lx.cursor.EOF() && isDec(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
		}
	}

	kind := token.IntLit
	if isFloat {
		kind = token.NumberLit
	}
	return token.Token{Kind: kind, Span: lx.span(start), Text: string(lx.cursor.Slice(start))}
}

func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Off
	lx.cursor.Bump() // opening quote

	var text []byte
	for {
		if lx.cursor.EOF() || lx.cursor.Peek() == '\n' {
			diag.Error(lx.reporter, diag.LexUnterminatedString, lx.span(start), "unterminated string literal")
			return token.Token{Kind: token.StringLit, Span: lx.span(start), Text: string(text)}
		}
		ch := lx.cursor.Peek()
		if ch == '"' {
			lx.cursor.Bump()
			return token.Token{Kind: token.StringLit, Span: lx.span(start), Text: string(text)}
		}
		if ch == '\\' {
			lx.cursor.Bump()
			switch lx.cursor.Peek() {
			case 'n':
				text = append(text, '\n')
			case 't':
				text = append(text, '\t')
			case '\\':
				text = append(text, '\\')
			case '"':
				text = append(text, '"')
			default:
				text = append(text, lx.cursor.Peek())
			}
			lx.cursor.Bump()
			continue
		}
		text = append(text, ch)
		lx.cursor.Bump()
	}
}

func (lx *Lexer) scanOperator() token.Token {
	start := lx.cursor.Off
	ch := lx.cursor.Peek()
	lx.cursor.Bump()

	two := func(kind token.Kind) token.Token {
		lx.cursor.Bump()
		return lx.tok(kind, start)
	}

	switch ch {
	case '(':
		return lx.tok(token.LParen, start)
	case ')':
		return lx.tok(token.RParen, start)
	case '{':
		return lx.tok(token.LBrace, start)
	case '}':
		return lx.tok(token.RBrace, start)
	case '[':
		return lx.tok(token.LBracket, start)
	case ']':
		return lx.tok(token.RBracket, start)
	case ',':
		return lx.tok(token.Comma, start)
	case ';':
		return lx.tok(token.Semicolon, start)
	case '.':
		return lx.tok(token.Dot, start)
	case '@':
		return lx.tok(token.At, start)
	case '#':
		return lx.tok(token.Hash, start)
	case '+':
		return lx.tok(token.Plus, start)
	case '-':
		return lx.tok(token.Minus, start)
	case '*':
		return lx.tok(token.Star, start)
	case '/':
		return lx.tok(token.Slash, start)
	case '%':
		return lx.tok(token.Percent, start)
	case ':':
		if lx.cursor.Peek() == ':' {
			return two(token.ColonColon)
		}
		return lx.tok(token.Colon, start)
	case '=':
		if lx.cursor.Peek() == '=' {
			return two(token.EqEq)
		}
		return lx.tok(token.Assign, start)
	case '!':
		if lx.cursor.Peek() == '=' {
			return two(token.BangEq)
		}
		return lx.tok(token.Bang, start)
	case '<':
		if lx.cursor.Peek() == '=' {
			return two(token.LtEq)
		}
		return lx.tok(token.Lt, start)
	case '>':
		if lx.cursor.Peek() == '=' {
			return two(token.GtEq)
		}
		return lx.tok(token.Gt, start)
	}

	diag.Error(lx.reporter, diag.LexUnknownChar, lx.span(start), "unknown character "+string(rune(ch)))
	return lx.tok(token.Invalid, start)
}

func (lx *Lexer) tok(kind token.Kind, start uint32) token.Token {
	return token.Token{Kind: kind, Span: lx.span(start), Text: string(lx.cursor.Slice(start))}
}

func (lx *Lexer) span(start uint32) source.Span {
	return source.Span{File: lx.file.ID, Start: start, End: lx.cursor.Off}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch >= 0x80
}

func isIdentContinue(ch byte) bool {
	return isIdentStart(ch) || isDec(ch)
}

func isDec(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
