package token

var keywords = map[string]Kind{
	"part":   KwPart,
	"sketch": KwSketch,
	"op":     KwOp,
	"fn":     KwFn,
	"mod":    KwMod,
	"use":    KwUse,
	"as":     KwAs,
	"pub":    KwPub,
	"return": KwReturn,
	"if":     KwIf,
	"else":   KwElse,
	"true":   KwTrue,
	"false":  KwFalse,
}

// LookupKeyword returns the keyword kind for text, or Ident.
func LookupKeyword(text string) Kind {
	if k, ok := keywords[text]; ok {
		return k
	}
	return Ident
}
