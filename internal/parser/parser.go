// Package parser builds an AST from the lexer's token stream. The parser is
// a handwritten recursive descent with one token of lookahead; where the
// grammar needs a second token it uses the lexer's peek, which never
// consumes. On a syntax error it reports once and skips to the next `;` or
// `>` before resuming.
package parser

import (
	"fmt"

	"chppc/internal/ast"
	"chppc/internal/diagnostics"
	"chppc/internal/lexer"
	"chppc/internal/source"
	"chppc/internal/tokens"
	"chppc/internal/types"
)

// Parser holds temporary state while parsing a single file.
type Parser struct {
	lexer    *lexer.Lexer
	diag     *diagnostics.Reporter
	filename string
	cur      tokens.Token

	// suppressColon disables the colon-index postfix while the parser is
	// inside an index expression, where a colon closes instead of opening.
	// Parentheses reset it.
	suppressColon int
}

// Parse consumes the lexer and produces the Program node.
func Parse(l *lexer.Lexer, diag *diagnostics.Reporter) *ast.Program {
	p := &Parser{
		lexer:    l,
		diag:     diag,
		filename: l.Filename(),
	}
	p.cur = l.NextToken()
	return p.parseProgram()
}

func (p *Parser) parseProgram() *ast.Program {
	prog := &ast.Program{
		Location: source.NewLocation(p.filename, 1, 1),
	}

	for !p.atEnd() {
		before := p.cur
		decl := p.parseDeclaration()
		if decl != nil {
			prog.Declarations = append(prog.Declarations, decl)
			continue
		}

		// Recovery: the error is already reported; make sure we move
		if p.cur.Kind == tokens.SEMICOLON_TOKEN || p.cur.Kind == tokens.GREATER_TOKEN {
			p.advance()
		} else if p.cur == before && !p.atEnd() {
			p.advance()
		}
	}

	return prog
}

// parseDeclaration parses one top-level declaration:
// external_decl | function_decl.
func (p *Parser) parseDeclaration() ast.Decl {
	switch p.cur.Kind {
	case tokens.EXTERNAL_TOKEN:
		return p.parseExternalDecl()
	case tokens.IDENTIFIER_TOKEN:
		return p.parseFunctionDecl()
	default:
		p.errorAtCur(fmt.Sprintf("Expected a declaration, got '%s'", p.curText()),
			"Top level only allows function definitions and 'екстерно' declarations")
		p.synchronize()
		return nil
	}
}

// parseExternalDecl: екстерно name '(' param_list? ')' ';'
func (p *Parser) parseExternalDecl() ast.Decl {
	loc := p.cur.Location
	p.advance() // consume 'екстерно'

	nameTok, ok := p.expect(tokens.IDENTIFIER_TOKEN)
	if !ok {
		return nil
	}

	if _, ok := p.expect(tokens.OPEN_PAREN); !ok {
		return nil
	}
	params := p.parseParamList()
	if _, ok := p.expect(tokens.CLOSE_PAREN); !ok {
		return nil
	}
	p.expect(tokens.SEMICOLON_TOKEN)

	return &ast.FunctionDecl{
		Name:       nameTok.StringValue,
		Parameters: params,
		Body:       nil,
		ReturnType: types.NewInt(),
		IsExternal: true,
		Location:   loc,
	}
}

// parseFunctionDecl: name '(' param_list? ')' block
func (p *Parser) parseFunctionDecl() ast.Decl {
	nameTok := p.advance()

	if _, ok := p.expect(tokens.OPEN_PAREN); !ok {
		return nil
	}
	params := p.parseParamList()
	if _, ok := p.expect(tokens.CLOSE_PAREN); !ok {
		return nil
	}

	if p.cur.Kind != tokens.LESS_TOKEN {
		p.errorAtCur(fmt.Sprintf("Function '%s' requires a body", nameTok.StringValue),
			"Open the body with '<', or declare the function with 'екстерно'")
		p.synchronize()
		return nil
	}

	body := p.parseBlock()
	if body == nil {
		return nil
	}

	return &ast.FunctionDecl{
		Name:       nameTok.StringValue,
		Parameters: params,
		Body:       body,
		ReturnType: types.NewInt(),
		IsExternal: false,
		Location:   nameTok.Location,
	}
}

// parseParamList: var_decl (',' var_decl)*. Array parameters use the empty
// colon form `name::`.
func (p *Parser) parseParamList() []*ast.VarDecl {
	params := []*ast.VarDecl{}

	if p.cur.Kind == tokens.CLOSE_PAREN {
		return params
	}

	for {
		nameTok, ok := p.expect(tokens.IDENTIFIER_TOKEN)
		if !ok {
			return params
		}

		varType := types.NewInt()
		if p.cur.Kind == tokens.COLON_TOKEN && p.peek().Kind == tokens.COLON_TOKEN {
			p.advance()
			p.advance()
			varType = types.NewArray(types.NewInt(), types.UnspecifiedSize)
		}

		params = append(params, &ast.VarDecl{
			Name:     nameTok.StringValue,
			VarType:  varType,
			Location: nameTok.Location,
		})

		if p.cur.Kind != tokens.COMMA_TOKEN {
			return params
		}
		p.advance() // consume ','
	}
}

// Helper methods

func (p *Parser) atEnd() bool {
	return p.cur.Kind == tokens.EOF_TOKEN
}

// advance consumes the current token and returns it.
func (p *Parser) advance() tokens.Token {
	tok := p.cur
	if !p.atEnd() {
		p.cur = p.lexer.NextToken()
	}
	return tok
}

// peek returns the token after the current one without consuming anything.
func (p *Parser) peek() tokens.Token {
	return p.lexer.PeekToken()
}

func (p *Parser) match(kinds ...tokens.TOKEN) bool {
	for _, kind := range kinds {
		if p.cur.Kind == kind {
			return true
		}
	}
	return false
}

// expect consumes a token of the given kind. On mismatch it reports a
// syntax error, synchronizes, and reports failure to the caller.
func (p *Parser) expect(kind tokens.TOKEN) (tokens.Token, bool) {
	if p.cur.Kind == kind {
		return p.advance(), true
	}

	p.errorAtCur(fmt.Sprintf("Expected '%s', got '%s'", kind, p.curText()), "")
	p.synchronize()
	return p.cur, false
}

// curText describes the current token for error messages.
func (p *Parser) curText() string {
	switch p.cur.Kind {
	case tokens.EOF_TOKEN:
		return "end of file"
	case tokens.IDENTIFIER_TOKEN:
		return p.cur.StringValue
	default:
		return p.cur.Lexeme
	}
}

// errorAtCur reports a syntax error at the current token.
func (p *Parser) errorAtCur(message, suggestion string) {
	p.diag.Report(diagnostics.Syntax, diagnostics.Error,
		p.filename, p.cur.Location.Line, p.cur.Location.Column,
		message, suggestion)
}

// synchronize skips tokens up to the next statement terminator `;` or block
// delimiter `>`, whichever comes first.
func (p *Parser) synchronize() {
	for !p.atEnd() &&
		p.cur.Kind != tokens.SEMICOLON_TOKEN &&
		p.cur.Kind != tokens.GREATER_TOKEN {
		p.advance()
	}
}
