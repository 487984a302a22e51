package parser

import (
	"cascade/internal/ast"
	"cascade/internal/diag"
	"cascade/internal/token"
)

func (p *Parser) parseStatement() ast.Statement {
	var attrs []ast.Attribute
	if p.at(token.Hash) {
		attrs = p.parseAttributeList()
	}

	vis := ast.Private
	if p.eat(token.KwPub) {
		vis = ast.Public
	}

	start := p.tok.Span

	switch p.tok.Kind {
	case token.KwUse:
		return p.parseUse(vis)
	case token.KwPart, token.KwSketch, token.KwOp:
		return p.parseWorkbench(vis)
	case token.KwFn:
		return p.parseFunction(vis)
	case token.KwMod:
		return p.parseModule(vis)
	case token.KwReturn:
		return p.parseReturn()
	case token.KwIf:
		return p.parseIf()
	case token.At:
		return p.parseChildrenMarker()
	case token.Semicolon:
		p.advance()
		return nil
	}

	// `name = expr;` is an assignment; everything else falls through to an
	// expression statement. A qualified head (`a::b`) is never an assignment.
	if p.at(token.Ident) {
		if next := p.lx.Peek(); next.Kind == token.Assign {
			name := p.tok.Text
			p.advance() // name
			p.advance() // '='
			value := p.parseExpression()
			end := p.tok.Span
			p.expectSemicolon()
			return &ast.AssignStatement{
				Visibility: vis,
				Name:       name,
				Value:      value,
				SrcSpan:    start.Cover(end),
			}
		}
	}

	if vis == ast.Public {
		p.errorf(diag.SynUnexpectedToken, "'pub' is only allowed on definitions")
	}

	expr := p.parseModelExpression()
	if expr == nil {
		p.syncStatement()
		return nil
	}
	end := p.tok.Span
	p.expectSemicolon()
	return &ast.ExpressionStatement{
		Attributes: attrs,
		Expr:       expr,
		SrcSpan:    start.Cover(end),
	}
}

func (p *Parser) parseUse(vis ast.Visibility) ast.Statement {
	start := p.expect(token.KwUse).Span

	var decls []ast.UseDecl
	for {
		decl := p.parseUseDecl()
		decls = append(decls, decl)
		if !p.eat(token.Comma) {
			break
		}
	}
	end := p.tok.Span
	p.expectSemicolon()
	return &ast.UseStatement{Visibility: vis, Decls: decls, SrcSpan: start.Cover(end)}
}

func (p *Parser) parseUseDecl() ast.UseDecl {
	start := p.tok.Span
	var path []string
	var wildcard bool

	path = append(path, p.expect(token.Ident).Text)
	for p.eat(token.ColonColon) {
		if p.eat(token.Star) {
			wildcard = true
			break
		}
		path = append(path, p.expect(token.Ident).Text)
	}

	var alias string
	if p.eat(token.KwAs) {
		if wildcard {
			p.errorf(diag.SynUnexpectedToken, "cannot alias a wildcard import")
		}
		alias = p.expect(token.Ident).Text
	}

	return ast.UseDecl{Path: path, Wildcard: wildcard, Alias: alias, SrcSpan: start.Cover(p.tok.Span)}
}

func (p *Parser) parseWorkbench(vis ast.Visibility) ast.Statement {
	start := p.tok.Span
	var kind ast.WorkbenchKind
	switch p.tok.Kind {
	case token.KwPart:
		kind = ast.Part
	case token.KwSketch:
		kind = ast.Sketch
	case token.KwOp:
		kind = ast.Operation
	}
	p.advance()

	name := p.expect(token.Ident).Text
	params := p.parseParameterList()
	body := p.parseBody()

	return &ast.WorkbenchDef{
		Visibility: vis,
		Kind:       kind,
		Name:       name,
		Params:     params,
		Body:       body,
		SrcSpan:    start.Cover(body.SrcSpan),
	}
}

func (p *Parser) parseFunction(vis ast.Visibility) ast.Statement {
	start := p.expect(token.KwFn).Span
	name := p.expect(token.Ident).Text
	params := p.parseParameterList()
	body := p.parseBody()
	return &ast.FunctionDef{
		Visibility: vis,
		Name:       name,
		Params:     params,
		Body:       body,
		SrcSpan:    start.Cover(body.SrcSpan),
	}
}

func (p *Parser) parseModule(vis ast.Visibility) ast.Statement {
	start := p.expect(token.KwMod).Span
	name := p.expect(token.Ident).Text
	body := p.parseBody()
	return &ast.ModuleDef{
		Visibility: vis,
		Name:       name,
		Body:       body,
		SrcSpan:    start.Cover(body.SrcSpan),
	}
}

func (p *Parser) parseReturn() ast.Statement {
	start := p.expect(token.KwReturn).Span
	var value ast.Expression
	if !p.at(token.Semicolon) {
		value = p.parseExpression()
	}
	end := p.tok.Span
	p.expectSemicolon()
	return &ast.ReturnStatement{Value: value, SrcSpan: start.Cover(end)}
}

func (p *Parser) parseIf() ast.Statement {
	start := p.expect(token.KwIf).Span
	cond := p.parseExpression()
	then := p.parseBody()
	var els *ast.Body
	if p.eat(token.KwElse) {
		els = p.parseBody()
	}
	span := start.Cover(then.SrcSpan)
	if els != nil {
		span = span.Cover(els.SrcSpan)
	}
	return &ast.IfStatement{Cond: cond, Then: then, Else: els, SrcSpan: span}
}

func (p *Parser) parseChildrenMarker() ast.Statement {
	start := p.expect(token.At).Span
	name := p.expect(token.Ident)
	if name.Text != "children" {
		p.errorf(diag.SynUnexpectedToken, "unknown marker '@%s'", name.Text)
	}
	end := p.tok.Span
	p.expectSemicolon()
	return &ast.ChildrenMarker{SrcSpan: start.Cover(end)}
}

func (p *Parser) parseBody() *ast.Body {
	start := p.expect(token.LBrace).Span
	body := &ast.Body{SrcSpan: start}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			body.Statements = append(body.Statements, stmt)
		}
	}
	end := p.expect(token.RBrace).Span
	body.SrcSpan = start.Cover(end)
	return body
}

func (p *Parser) parseParameterList() []ast.Parameter {
	p.expect(token.LParen)
	var params []ast.Parameter
	for !p.at(token.RParen) && !p.at(token.EOF) {
		params = append(params, p.parseParameter())
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.RParen)
	return params
}

func (p *Parser) parseParameter() ast.Parameter {
	start := p.tok.Span
	name := p.expect(token.Ident).Text

	var ty *ast.TypeAnnotation
	if p.eat(token.Colon) {
		ty = p.parseTypeAnnotation()
	}

	var def ast.Expression
	if p.eat(token.Assign) {
		def = p.parseExpression()
	}

	return ast.Parameter{Name: name, Type: ty, Default: def, SrcSpan: start.Cover(p.tok.Span)}
}

func (p *Parser) parseTypeAnnotation() *ast.TypeAnnotation {
	start := p.tok.Span
	if p.eat(token.LBracket) {
		name := p.expect(token.Ident).Text
		end := p.expect(token.RBracket).Span
		return &ast.TypeAnnotation{Name: name, List: true, SrcSpan: start.Cover(end)}
	}
	name := p.expect(token.Ident)
	return &ast.TypeAnnotation{Name: name.Text, SrcSpan: start.Cover(name.Span)}
}

func (p *Parser) parseAttributeList() []ast.Attribute {
	p.expect(token.Hash)
	p.expect(token.LBracket)
	var attrs []ast.Attribute
	for !p.at(token.RBracket) && !p.at(token.EOF) {
		start := p.tok.Span
		name := p.expect(token.Ident).Text
		var args []ast.Argument
		if p.at(token.LParen) {
			args = p.parseArgumentList()
		}
		attrs = append(attrs, ast.Attribute{Name: name, Args: args, SrcSpan: start.Cover(p.tok.Span)})
		if !p.eat(token.Comma) {
			break
		}
	}
	if !p.eat(token.RBracket) {
		p.errorf(diag.SynBadAttribute, "unclosed attribute list")
		p.syncStatement()
	}
	return attrs
}
