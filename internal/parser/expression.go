package parser

import (
	"cascade/internal/ast"
	"cascade/internal/diag"
	"cascade/internal/source"
	"cascade/internal/token"
)

// parseModelExpression parses an expression in statement position, where a
// bare `{ ... }` body forms a group.
func (p *Parser) parseModelExpression() ast.Expression {
	if p.at(token.LBrace) {
		body := p.parseBody()
		return &ast.GroupExpr{Body: body, SrcSpan: body.SrcSpan}
	}
	return p.parseExpression()
}

func (p *Parser) parseExpression() ast.Expression {
	return p.parseEquality()
}

func (p *Parser) parseEquality() ast.Expression {
	lhs := p.parseComparison()
	for p.at(token.EqEq) || p.at(token.BangEq) {
		op := p.tok.Kind.String()
		p.advance()
		rhs := p.parseComparison()
		lhs = &ast.BinaryExpr{Op: op, LHS: lhs, RHS: rhs, SrcSpan: lhs.Span().Cover(rhs.Span())}
	}
	return lhs
}

func (p *Parser) parseComparison() ast.Expression {
	lhs := p.parseAdditive()
	for p.at(token.Lt) || p.at(token.LtEq) || p.at(token.Gt) || p.at(token.GtEq) {
		op := p.tok.Kind.String()
		p.advance()
		rhs := p.parseAdditive()
		lhs = &ast.BinaryExpr{Op: op, LHS: lhs, RHS: rhs, SrcSpan: lhs.Span().Cover(rhs.Span())}
	}
	return lhs
}

func (p *Parser) parseAdditive() ast.Expression {
	lhs := p.parseTerm()
	for p.at(token.Plus) || p.at(token.Minus) {
		op := p.tok.Kind.String()
		p.advance()
		rhs := p.parseTerm()
		lhs = &ast.BinaryExpr{Op: op, LHS: lhs, RHS: rhs, SrcSpan: lhs.Span().Cover(rhs.Span())}
	}
	return lhs
}

func (p *Parser) parseTerm() ast.Expression {
	lhs := p.parseUnary()
	for p.at(token.Star) || p.at(token.Slash) || p.at(token.Percent) {
		op := p.tok.Kind.String()
		p.advance()
		rhs := p.parseUnary()
		lhs = &ast.BinaryExpr{Op: op, LHS: lhs, RHS: rhs, SrcSpan: lhs.Span().Cover(rhs.Span())}
	}
	return lhs
}

func (p *Parser) parseUnary() ast.Expression {
	if p.at(token.Minus) || p.at(token.Bang) {
		op := p.tok.Kind.String()
		start := p.tok.Span
		p.advance()
		operand := p.parseUnary()
		return &ast.UnaryExpr{Op: op, Operand: operand, SrcSpan: start.Cover(operand.Span())}
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() ast.Expression {
	start := p.tok.Span

	switch p.tok.Kind {
	case token.IntLit:
		tok := p.tok
		p.advance()
		return &ast.Literal{Kind: ast.LitInt, Int: parseInt(tok.Text), SrcSpan: tok.Span}

	case token.NumberLit:
		tok := p.tok
		p.advance()
		return &ast.Literal{Kind: ast.LitNumber, Number: parseFloat(tok.Text), SrcSpan: tok.Span}

	case token.StringLit:
		tok := p.tok
		p.advance()
		return &ast.Literal{Kind: ast.LitString, Str: tok.Text, SrcSpan: tok.Span}

	case token.KwTrue, token.KwFalse:
		tok := p.tok
		p.advance()
		return &ast.Literal{Kind: ast.LitBool, Bool: tok.Kind == token.KwTrue, SrcSpan: tok.Span}

	case token.LBracket:
		return p.parseList()

	case token.LParen:
		p.advance()
		inner := p.parseExpression()
		p.expect(token.RParen)
		return inner

	case token.Ident:
		return p.parseNameOrCall()

	default:
		p.errorf(diag.SynUnexpectedToken, "expected expression, found %s", describe(p.tok))
		p.advance()
		return &ast.Literal{Kind: ast.LitInt, SrcSpan: start}
	}
}

func (p *Parser) parseList() ast.Expression {
	start := p.expect(token.LBracket).Span
	var elems []ast.Expression
	for !p.at(token.RBracket) && !p.at(token.EOF) {
		elems = append(elems, p.parseExpression())
		if !p.eat(token.Comma) {
			break
		}
	}
	end := p.expect(token.RBracket).Span
	return &ast.ListExpr{Elems: elems, SrcSpan: start.Cover(end)}
}

func (p *Parser) parseNameOrCall() ast.Expression {
	start := p.tok.Span
	var path []string
	last := p.expect(token.Ident)
	path = append(path, last.Text)
	for p.at(token.ColonColon) {
		p.advance()
		last = p.expect(token.Ident)
		path = append(path, last.Text)
	}
	name := &ast.NameExpr{Path: path, SrcSpan: start.Cover(last.Span)}

	if !p.at(token.LParen) {
		return name
	}

	args, closeSpan := p.parseArguments()
	call := &ast.CallExpr{Callee: name, Args: args, SrcSpan: start.Cover(closeSpan)}

	// Model chaining: `translate(...) cube(...)` or `difference() { ... }`.
	switch p.tok.Kind {
	case token.Ident:
		trailing := p.parseNameOrCall()
		call.Trailing = trailing
		call.SrcSpan = call.SrcSpan.Cover(trailing.Span())
	case token.LBrace:
		body := p.parseBody()
		call.Body = body
		call.SrcSpan = call.SrcSpan.Cover(body.SrcSpan)
	}
	return call
}

func (p *Parser) parseArgumentList() []ast.Argument {
	args, _ := p.parseArguments()
	return args
}

func (p *Parser) parseArguments() ([]ast.Argument, source.Span) {
	p.expect(token.LParen)
	var args []ast.Argument
	for !p.at(token.RParen) && !p.at(token.EOF) {
		args = append(args, p.parseArgument())
		if !p.eat(token.Comma) {
			break
		}
	}
	rparen := p.expect(token.RParen)
	return args, rparen.Span
}

func (p *Parser) parseArgument() ast.Argument {
	start := p.tok.Span
	// Named argument: `name = expr`, where `==` must stay a comparison.
	if p.at(token.Ident) {
		if next := p.lx.Peek(); next.Kind == token.Assign {
			name := p.tok.Text
			p.advance()
			p.advance()
			value := p.parseExpression()
			return ast.Argument{Name: name, Value: value, SrcSpan: start.Cover(value.Span())}
		}
	}
	value := p.parseExpression()
	return ast.Argument{Value: value, SrcSpan: start.Cover(value.Span())}
}
