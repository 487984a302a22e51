package token

// Kind enumerates all token kinds of the cascade language.
type Kind uint8

const (
	Invalid Kind = iota
	EOF

	Ident
	IntLit
	NumberLit
	StringLit

	// Keywords.
	KwPart
	KwSketch
	KwOp
	KwFn
	KwMod
	KwUse
	KwAs
	KwPub
	KwReturn
	KwIf
	KwElse
	KwTrue
	KwFalse

	// Punctuation and operators.
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Semicolon
	Colon
	ColonColon
	Assign
	EqEq
	BangEq
	Lt
	LtEq
	Gt
	GtEq
	Plus
	Minus
	Star
	Slash
	Percent
	Bang
	Dot
	At
	Hash
)

var kindNames = [...]string{
	Invalid:    "invalid",
	EOF:        "eof",
	Ident:      "identifier",
	IntLit:     "integer",
	NumberLit:  "number",
	StringLit:  "string",
	KwPart:     "part",
	KwSketch:   "sketch",
	KwOp:       "op",
	KwFn:       "fn",
	KwMod:      "mod",
	KwUse:      "use",
	KwAs:       "as",
	KwPub:      "pub",
	KwReturn:   "return",
	KwIf:       "if",
	KwElse:     "else",
	KwTrue:     "true",
	KwFalse:    "false",
	LParen:     "(",
	RParen:     ")",
	LBrace:     "{",
	RBrace:     "}",
	LBracket:   "[",
	RBracket:   "]",
	Comma:      ",",
	Semicolon:  ";",
	Colon:      ":",
	ColonColon: "::",
	Assign:     "=",
	EqEq:       "==",
	BangEq:     "!=",
	Lt:         "<",
	LtEq:       "<=",
	Gt:         ">",
	GtEq:       ">=",
	Plus:       "+",
	Minus:      "-",
	Star:       "*",
	Slash:      "/",
	Percent:    "%",
	Bang:       "!",
	Dot:        ".",
	At:         "@",
	Hash:       "#",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}
