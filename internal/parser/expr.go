package parser

import (
	"fmt"

	"chppc/internal/ast"
	"chppc/internal/diagnostics"
	"chppc/internal/tokens"
)

// Expression precedence, low to high: assignment (right-assoc), logical-or,
// logical-and, bitwise-or, bitwise-xor, bitwise-and, equality, relational,
// additive, multiplicative, unary prefix, postfix (call and colon-index),
// primary.

func (p *Parser) parseExpression() ast.Expression {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() ast.Expression {
	left := p.parseLogicalOr()
	return p.parseAssignmentFrom(left)
}

// parseAssignmentFrom finishes the assignment level for an already-parsed
// left-hand side. Assignment is right-associative.
func (p *Parser) parseAssignmentFrom(left ast.Expression) ast.Expression {
	if left == nil {
		return nil
	}

	if p.cur.Kind != tokens.EQUALS_TOKEN {
		return left
	}

	opTok := p.advance()
	value := p.parseAssignment()
	if value == nil {
		return nil
	}

	if !isAssignable(left) {
		p.diag.Report(diagnostics.Syntax, diagnostics.Error,
			p.filename, opTok.Location.Line, opTok.Location.Column,
			"Invalid assignment target",
			"Only variables, array elements and dereferences can be assigned to")
	}

	return &ast.Assignment{
		Target:   left,
		Value:    value,
		Location: *left.Loc(),
	}
}

// isAssignable reports whether an expression may be an assignment target.
func isAssignable(e ast.Expression) bool {
	switch n := e.(type) {
	case *ast.Identifier, *ast.ArrayAccess:
		return true
	case *ast.UnaryExpr:
		return n.IsPrefix && n.Op == tokens.STAR_TOKEN
	}
	return false
}

// parseExprFrom runs the full ladder above an already-parsed postfix chain,
// used by the statement-level colon disambiguation.
func (p *Parser) parseExprFrom(left ast.Expression) ast.Expression {
	left = p.parsePostfixLoop(left)
	left = p.parseMultiplicativeLoop(left)
	left = p.parseAdditiveLoop(left)
	left = p.parseRelationalLoop(left)
	left = p.parseEqualityLoop(left)
	left = p.parseBitAndLoop(left)
	left = p.parseBitXorLoop(left)
	left = p.parseBitOrLoop(left)
	left = p.parseLogicalAndLoop(left)
	left = p.parseLogicalOrLoop(left)
	return p.parseAssignmentFrom(left)
}

func (p *Parser) parseLogicalOr() ast.Expression {
	return p.parseLogicalOrLoop(p.parseLogicalAnd())
}

func (p *Parser) parseLogicalOrLoop(left ast.Expression) ast.Expression {
	for left != nil && p.match(tokens.DOUBLE_OR_TOKEN) {
		op := p.advance()
		right := p.parseLogicalAnd()
		if right == nil {
			return nil
		}
		left = &ast.BinaryExpr{Left: left, Op: op.Kind, Right: right, Location: *left.Loc()}
	}
	return left
}

func (p *Parser) parseLogicalAnd() ast.Expression {
	return p.parseLogicalAndLoop(p.parseBitOr())
}

func (p *Parser) parseLogicalAndLoop(left ast.Expression) ast.Expression {
	for left != nil && p.match(tokens.DOUBLE_AND_TOKEN) {
		op := p.advance()
		right := p.parseBitOr()
		if right == nil {
			return nil
		}
		left = &ast.BinaryExpr{Left: left, Op: op.Kind, Right: right, Location: *left.Loc()}
	}
	return left
}

func (p *Parser) parseBitOr() ast.Expression {
	return p.parseBitOrLoop(p.parseBitXor())
}

func (p *Parser) parseBitOrLoop(left ast.Expression) ast.Expression {
	for left != nil && p.match(tokens.OR_TOKEN) {
		op := p.advance()
		right := p.parseBitXor()
		if right == nil {
			return nil
		}
		left = &ast.BinaryExpr{Left: left, Op: op.Kind, Right: right, Location: *left.Loc()}
	}
	return left
}

func (p *Parser) parseBitXor() ast.Expression {
	return p.parseBitXorLoop(p.parseBitAnd())
}

func (p *Parser) parseBitXorLoop(left ast.Expression) ast.Expression {
	for left != nil && p.match(tokens.CARET_TOKEN) {
		op := p.advance()
		right := p.parseBitAnd()
		if right == nil {
			return nil
		}
		left = &ast.BinaryExpr{Left: left, Op: op.Kind, Right: right, Location: *left.Loc()}
	}
	return left
}

func (p *Parser) parseBitAnd() ast.Expression {
	return p.parseBitAndLoop(p.parseEquality())
}

func (p *Parser) parseBitAndLoop(left ast.Expression) ast.Expression {
	for left != nil && p.match(tokens.AND_TOKEN) {
		op := p.advance()
		right := p.parseEquality()
		if right == nil {
			return nil
		}
		left = &ast.BinaryExpr{Left: left, Op: op.Kind, Right: right, Location: *left.Loc()}
	}
	return left
}

func (p *Parser) parseEquality() ast.Expression {
	return p.parseEqualityLoop(p.parseRelational())
}

func (p *Parser) parseEqualityLoop(left ast.Expression) ast.Expression {
	for left != nil && p.match(tokens.DOUBLE_EQUALS_TOKEN, tokens.NOT_EQUALS_TOKEN) {
		op := p.advance()
		right := p.parseRelational()
		if right == nil {
			return nil
		}
		left = &ast.BinaryExpr{Left: left, Op: op.Kind, Right: right, Location: *left.Loc()}
	}
	return left
}

func (p *Parser) parseRelational() ast.Expression {
	return p.parseRelationalLoop(p.parseAdditive())
}

func (p *Parser) parseRelationalLoop(left ast.Expression) ast.Expression {
	for left != nil && p.match(tokens.LESS_TOKEN, tokens.LESS_EQUALS_TOKEN,
		tokens.GREATER_TOKEN, tokens.GREATER_EQUALS_TOKEN) {
		op := p.advance()
		right := p.parseAdditive()
		if right == nil {
			return nil
		}
		left = &ast.BinaryExpr{Left: left, Op: op.Kind, Right: right, Location: *left.Loc()}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expression {
	return p.parseAdditiveLoop(p.parseMultiplicative())
}

func (p *Parser) parseAdditiveLoop(left ast.Expression) ast.Expression {
	for left != nil && p.match(tokens.PLUS_TOKEN, tokens.MINUS_TOKEN) {
		op := p.advance()
		right := p.parseMultiplicative()
		if right == nil {
			return nil
		}
		left = &ast.BinaryExpr{Left: left, Op: op.Kind, Right: right, Location: *left.Loc()}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expression {
	return p.parseMultiplicativeLoop(p.parseUnary())
}

func (p *Parser) parseMultiplicativeLoop(left ast.Expression) ast.Expression {
	for left != nil && p.match(tokens.STAR_TOKEN, tokens.SLASH_TOKEN, tokens.PERCENT_TOKEN) {
		op := p.advance()
		right := p.parseUnary()
		if right == nil {
			return nil
		}
		left = &ast.BinaryExpr{Left: left, Op: op.Kind, Right: right, Location: *left.Loc()}
	}
	return left
}

// parseUnary: prefix `! ~ - +` plus unary `&` and `*`.
func (p *Parser) parseUnary() ast.Expression {
	if p.match(tokens.NOT_TOKEN, tokens.TILDE_TOKEN, tokens.MINUS_TOKEN,
		tokens.PLUS_TOKEN, tokens.AND_TOKEN, tokens.STAR_TOKEN) {
		op := p.advance()
		operand := p.parseUnary()
		if operand == nil {
			return nil
		}
		return &ast.UnaryExpr{
			Op:       op.Kind,
			Operand:  operand,
			IsPrefix: true,
			Location: op.Location,
		}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expression {
	return p.parsePostfixLoop(p.parsePrimary())
}

// parsePostfixLoop chains calls and colon-index accesses left to right.
func (p *Parser) parsePostfixLoop(expr ast.Expression) ast.Expression {
	for expr != nil {
		switch {
		case p.cur.Kind == tokens.OPEN_PAREN:
			expr = p.parseCall(expr)
			if expr == nil {
				return nil
			}

		case p.cur.Kind == tokens.COLON_TOKEN && p.suppressColon == 0:
			p.advance() // consume ':'
			p.suppressColon++
			index := p.parseExpression()
			p.suppressColon--
			if index == nil {
				return nil
			}
			if _, ok := p.expect(tokens.COLON_TOKEN); !ok {
				return nil
			}
			expr = &ast.ArrayAccess{
				Array:    expr,
				Index:    index,
				Location: *expr.Loc(),
			}

		default:
			return expr
		}
	}
	return expr
}

// parseCall: callee '(' (expression (',' expression)*)? ')'
func (p *Parser) parseCall(callee ast.Expression) ast.Expression {
	p.advance() // consume '('

	saved := p.suppressColon
	p.suppressColon = 0
	defer func() { p.suppressColon = saved }()

	args := []ast.Expression{}
	if p.cur.Kind != tokens.CLOSE_PAREN {
		for {
			arg := p.parseExpression()
			if arg == nil {
				return nil
			}
			args = append(args, arg)
			if p.cur.Kind != tokens.COMMA_TOKEN {
				break
			}
			p.advance()
		}
	}

	if _, ok := p.expect(tokens.CLOSE_PAREN); !ok {
		return nil
	}

	return &ast.Call{
		Callee:    callee,
		Arguments: args,
		Location:  *callee.Loc(),
	}
}

func (p *Parser) parsePrimary() ast.Expression {
	tok := p.cur

	switch tok.Kind {
	case tokens.NUMBER_TOKEN:
		p.advance()
		return &ast.LiteralInt{Value: tok.IntValue, Location: tok.Location}

	case tokens.CHAR_TOKEN:
		p.advance()
		return &ast.LiteralChar{Value: tok.CharValue, Location: tok.Location}

	case tokens.STRING_TOKEN:
		p.advance()
		return &ast.LiteralString{Value: tok.StringValue, Location: tok.Location}

	case tokens.TRUE_TOKEN:
		p.advance()
		return &ast.LiteralBool{Value: true, Location: tok.Location}

	case tokens.FALSE_TOKEN:
		p.advance()
		return &ast.LiteralBool{Value: false, Location: tok.Location}

	case tokens.IDENTIFIER_TOKEN:
		p.advance()
		return &ast.Identifier{Name: tok.StringValue, Location: tok.Location}

	case tokens.OPEN_PAREN:
		p.advance()
		saved := p.suppressColon
		p.suppressColon = 0
		expr := p.parseExpression()
		p.suppressColon = saved
		if expr == nil {
			return nil
		}
		if _, ok := p.expect(tokens.CLOSE_PAREN); !ok {
			return nil
		}
		return expr

	case tokens.ERROR_TOKEN:
		// The lexer already reported; skip the token and give up on the
		// expression so recovery happens once
		p.advance()
		p.synchronize()
		return nil

	default:
		p.errorAtCur(fmt.Sprintf("Unexpected token '%s' in expression", p.curText()),
			"Expected a value, identifier, literal or parenthesized expression")
		p.synchronize()
		return nil
	}
}
