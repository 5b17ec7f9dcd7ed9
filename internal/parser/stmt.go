package parser

import (
	"fmt"
	"strings"

	"chppc/internal/ast"
	"chppc/internal/diagnostics"
	"chppc/internal/source"
	"chppc/internal/tokens"
	"chppc/internal/types"
	"chppc/internal/utf8"
)

// parseBlock: '<' statement* '>'
func (p *Parser) parseBlock() *ast.Block {
	loc := p.cur.Location
	if _, ok := p.expect(tokens.LESS_TOKEN); !ok {
		return nil
	}

	block := &ast.Block{Location: loc}

	for !p.atEnd() && p.cur.Kind != tokens.GREATER_TOKEN {
		before := p.cur
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
			continue
		}
		// Error recovery left us at ';' or '>'; consume the terminator
		if p.cur.Kind == tokens.SEMICOLON_TOKEN {
			p.advance()
		} else if p.cur == before && !p.atEnd() && p.cur.Kind != tokens.GREATER_TOKEN {
			p.advance()
		}
	}

	p.expect(tokens.GREATER_TOKEN)
	return block
}

// parseStatement parses one statement. A nil result means an error was
// reported and the parser has synchronized.
func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Kind {
	case tokens.LESS_TOKEN:
		// A '<' in statement position opens a block
		block := p.parseBlock()
		if block == nil {
			return nil
		}
		return block

	case tokens.IF_TOKEN:
		return p.parseIf()
	case tokens.WHILE_TOKEN:
		return p.parseWhile()
	case tokens.FOR_TOKEN:
		return p.parseFor()
	case tokens.DO_TOKEN:
		return p.parseDoWhile()
	case tokens.BREAK_TOKEN:
		return p.parseBreak()
	case tokens.RETURN_TOKEN:
		return p.parseReturn()

	case tokens.SEMICOLON_TOKEN:
		// Stray semicolon, usually a recovery artifact
		p.advance()
		return nil

	case tokens.IDENTIFIER_TOKEN:
		if p.peek().Kind == tokens.COLON_TOKEN {
			return p.parseColonStatement()
		}
		return p.parseExprStatement()

	default:
		return p.parseExprStatement()
	}
}

// parseIf: ако '(' expression ')' statement (иначе statement)?
func (p *Parser) parseIf() ast.Statement {
	loc := p.advance().Location // consume 'ако'

	if _, ok := p.expect(tokens.OPEN_PAREN); !ok {
		return nil
	}
	cond := p.parseExpression()
	if cond == nil {
		return nil
	}
	if _, ok := p.expect(tokens.CLOSE_PAREN); !ok {
		return nil
	}

	thenBranch := p.parseStatement()
	if thenBranch == nil {
		return nil
	}

	var elseBranch ast.Statement
	if p.cur.Kind == tokens.ELSE_TOKEN {
		p.advance()
		elseBranch = p.parseStatement()
		if elseBranch == nil {
			return nil
		}
	}

	return &ast.If{
		Condition:  cond,
		ThenBranch: thenBranch,
		ElseBranch: elseBranch,
		Location:   loc,
	}
}

// parseWhile: док '(' expression ')' statement
func (p *Parser) parseWhile() ast.Statement {
	loc := p.advance().Location // consume 'док'

	if _, ok := p.expect(tokens.OPEN_PAREN); !ok {
		return nil
	}
	cond := p.parseExpression()
	if cond == nil {
		return nil
	}
	if _, ok := p.expect(tokens.CLOSE_PAREN); !ok {
		return nil
	}

	body := p.parseStatement()
	if body == nil {
		return nil
	}

	return &ast.While{Condition: cond, Body: body, Location: loc}
}

// parseFor: за '(' (stmt | ';') expression? ';' expression? ')' statement
func (p *Parser) parseFor() ast.Statement {
	loc := p.advance().Location // consume 'за'

	if _, ok := p.expect(tokens.OPEN_PAREN); !ok {
		return nil
	}

	var init ast.Statement
	if p.cur.Kind == tokens.SEMICOLON_TOKEN {
		p.advance()
	} else {
		init = p.parseExprStatement()
		if init == nil {
			return nil
		}
	}

	var cond ast.Expression
	if p.cur.Kind != tokens.SEMICOLON_TOKEN {
		cond = p.parseExpression()
		if cond == nil {
			return nil
		}
	}
	if _, ok := p.expect(tokens.SEMICOLON_TOKEN); !ok {
		return nil
	}

	var incr ast.Expression
	if p.cur.Kind != tokens.CLOSE_PAREN {
		incr = p.parseExpression()
		if incr == nil {
			return nil
		}
	}
	if _, ok := p.expect(tokens.CLOSE_PAREN); !ok {
		return nil
	}

	body := p.parseStatement()
	if body == nil {
		return nil
	}

	return &ast.For{
		Init:      init,
		Condition: cond,
		Increment: incr,
		Body:      body,
		Location:  loc,
	}
}

// parseDoWhile: ради statement док '(' expression ')' ';'
func (p *Parser) parseDoWhile() ast.Statement {
	loc := p.advance().Location // consume 'ради'

	body := p.parseStatement()
	if body == nil {
		return nil
	}

	if _, ok := p.expect(tokens.WHILE_TOKEN); !ok {
		return nil
	}
	if _, ok := p.expect(tokens.OPEN_PAREN); !ok {
		return nil
	}
	cond := p.parseExpression()
	if cond == nil {
		return nil
	}
	if _, ok := p.expect(tokens.CLOSE_PAREN); !ok {
		return nil
	}
	p.expect(tokens.SEMICOLON_TOKEN)

	return &ast.DoWhile{Body: body, Condition: cond, Location: loc}
}

// parseBreak: прекини ';'
func (p *Parser) parseBreak() ast.Statement {
	loc := p.advance().Location // consume 'прекини'
	p.expect(tokens.SEMICOLON_TOKEN)
	return &ast.Break{Location: loc}
}

// parseReturn: врати expression? ';'
func (p *Parser) parseReturn() ast.Statement {
	loc := p.advance().Location // consume 'врати'

	var value ast.Expression
	if p.cur.Kind != tokens.SEMICOLON_TOKEN {
		value = p.parseExpression()
		if value == nil {
			return nil
		}
	}
	p.expect(tokens.SEMICOLON_TOKEN)

	return &ast.Return{Value: value, Location: loc}
}

// parseExprStatement: expression ';'
func (p *Parser) parseExprStatement() ast.Statement {
	loc := p.cur.Location
	expr := p.parseExpression()
	if expr == nil {
		// Already reported and synchronized; swallow the terminator
		if p.cur.Kind == tokens.SEMICOLON_TOKEN {
			p.advance()
		}
		return nil
	}
	p.expect(tokens.SEMICOLON_TOKEN)
	return &ast.ExprStmt{Expression: expr, Location: loc}
}

// parseColonStatement disambiguates the statement forms that begin
// `identifier ':'`: the array declaration `name:N: = _…_;` and the array
// access expression `name:index:`. The declaration is recognized by an
// integer size and an `=` followed by the `_` literal opener; everything
// else continues as an expression statement.
func (p *Parser) parseColonStatement() ast.Statement {
	identTok := p.advance() // identifier
	p.advance()             // ':'

	ident := &ast.Identifier{Name: identTok.StringValue, Location: identTok.Location}

	if p.cur.Kind == tokens.NUMBER_TOKEN && p.peek().Kind == tokens.COLON_TOKEN {
		numTok := p.advance() // size or index
		p.advance()           // closing ':'

		if p.cur.Kind == tokens.EQUALS_TOKEN && p.isArrayLiteralOpener(p.peek()) {
			return p.parseArrayDecl(identTok, numTok)
		}

		access := &ast.ArrayAccess{
			Array:    ident,
			Index:    &ast.LiteralInt{Value: numTok.IntValue, Location: numTok.Location},
			Location: identTok.Location,
		}
		return p.finishExprStatement(access, identTok.Location)
	}

	// General index expression: identifier ':' expression ':'
	p.suppressColon++
	index := p.parseExpression()
	p.suppressColon--
	if index == nil {
		return nil
	}
	if _, ok := p.expect(tokens.COLON_TOKEN); !ok {
		return nil
	}

	access := &ast.ArrayAccess{
		Array:    ident,
		Index:    index,
		Location: identTok.Location,
	}
	return p.finishExprStatement(access, identTok.Location)
}

// finishExprStatement continues an expression statement whose leftmost
// postfix chain was already parsed by the colon disambiguation.
func (p *Parser) finishExprStatement(left ast.Expression, loc source.Location) ast.Statement {
	expr := p.parseExprFrom(left)
	if expr == nil {
		if p.cur.Kind == tokens.SEMICOLON_TOKEN {
			p.advance()
		}
		return nil
	}
	p.expect(tokens.SEMICOLON_TOKEN)
	return &ast.ExprStmt{Expression: expr, Location: loc}
}

// isArrayLiteralOpener reports whether tok can open a `_…_` array literal:
// a standalone `_` or an identifier with the delimiter fused to its front.
func (p *Parser) isArrayLiteralOpener(tok tokens.Token) bool {
	return tok.Kind == tokens.IDENTIFIER_TOKEN && strings.HasPrefix(tok.StringValue, "_")
}

// parseArrayDecl: name ':' size ':' '=' '_' expr (',' expr)* '_' ';'
// The underscore delimiters are identifier characters, so the lexer may fuse
// them into neighboring tokens (`_1`, `куп_`); the literal parser splits
// them back apart.
func (p *Parser) parseArrayDecl(identTok, sizeTok tokens.Token) ast.Statement {
	p.advance() // consume '='

	inits, ok := p.parseArrayInitializers()
	if !ok {
		if p.cur.Kind == tokens.SEMICOLON_TOKEN {
			p.advance()
		}
		return nil
	}
	p.expect(tokens.SEMICOLON_TOKEN)

	size := int(sizeTok.IntValue)
	if len(inits) > size {
		p.diag.Report(diagnostics.Syntax, diagnostics.Error,
			p.filename, identTok.Location.Line, identTok.Location.Column,
			fmt.Sprintf("Array '%s' has %d initializers but size %d",
				identTok.StringValue, len(inits), size),
			"Remove the extra initializers or increase the declared size")
		inits = inits[:size]
	}

	return &ast.ArrayDecl{
		Name:         identTok.StringValue,
		Size:         size,
		Initializers: inits,
		ElementType:  types.NewInt(),
		Location:     identTok.Location,
	}
}

// parseArrayInitializers parses `_ expr (',' expr)* _`, handling delimiters
// fused into the first or last element token.
func (p *Parser) parseArrayInitializers() ([]ast.Expression, bool) {
	if !p.isArrayLiteralOpener(p.cur) {
		p.errorAtCur("Expected '_' to open the array initializer list", "")
		p.synchronize()
		return nil, false
	}

	open := p.advance()
	fused := open.StringValue[1:] // text after the opening '_'

	inits := []ast.Expression{}
	closed := false
	needComma := false

	switch {
	case fused == "":
		// standalone opener; elements follow
	case fused == "_":
		// `__` is an empty literal
		closed = true
	case strings.HasSuffix(fused, "_"):
		inits = append(inits, p.fusedElement(strings.TrimSuffix(fused, "_"), open))
		closed = true
	default:
		inits = append(inits, p.fusedElement(fused, open))
		needComma = true
	}

	for !closed {
		if p.atEnd() || p.cur.Kind == tokens.SEMICOLON_TOKEN || p.cur.Kind == tokens.GREATER_TOKEN {
			p.errorAtCur("Unterminated array initializer list",
				"Close the list with '_'")
			return inits, false
		}

		// Closing delimiter, standalone
		if p.cur.Kind == tokens.IDENTIFIER_TOKEN && p.cur.StringValue == "_" {
			p.advance()
			break
		}

		if needComma {
			if _, ok := p.expect(tokens.COMMA_TOKEN); !ok {
				return inits, false
			}
		}
		needComma = true

		// Identifier element with the closing delimiter fused to its tail
		if p.cur.Kind == tokens.IDENTIFIER_TOKEN &&
			p.cur.StringValue != "_" &&
			strings.HasSuffix(p.cur.StringValue, "_") {
			tok := p.advance()
			inits = append(inits, p.fusedElement(strings.TrimSuffix(tok.StringValue, "_"), tok))
			break
		}

		elem := p.parseExpression()
		if elem == nil {
			return inits, false
		}
		inits = append(inits, elem)
	}

	return inits, true
}

// fusedElement rebuilds an element whose token was glued to a delimiter:
// a digit run becomes an integer literal, anything else an identifier.
func (p *Parser) fusedElement(text string, tok tokens.Token) ast.Expression {
	if text == "" {
		return &ast.Identifier{Name: "_", Location: tok.Location}
	}

	allDigits := true
	for _, r := range text {
		if !utf8.IsDigit(r) {
			allDigits = false
			break
		}
	}

	if allDigits {
		var value int64
		for _, r := range text {
			value = value*10 + int64(r-'0')
		}
		return &ast.LiteralInt{Value: value, Location: tok.Location}
	}

	return &ast.Identifier{Name: text, Location: tok.Location}
}
