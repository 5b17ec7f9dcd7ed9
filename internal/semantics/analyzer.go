// Package semantics is the front-end's downstream consumer stub. It builds
// function and variable scopes from the parsed tree, resolves the implicit
// first-assignment declarations the grammar leaves to this stage, and fills
// the TypeInfo slots the parser left empty. Deeper checking belongs to the
// full analyzer this package stands in for.
package semantics

import (
	"fmt"

	"chppc/internal/ast"
	"chppc/internal/diagnostics"
	"chppc/internal/types"
)

// EntryPointName is the function called at program start.
const EntryPointName = "главна"

// Symbol is one named declaration visible in a scope.
type Symbol struct {
	Name string
	Type *types.TypeInfo
}

type scope struct {
	parent  *scope
	symbols map[string]*Symbol
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, symbols: make(map[string]*Symbol)}
}

func (s *scope) declare(sym *Symbol) bool {
	if _, exists := s.symbols[sym.Name]; exists {
		return false
	}
	s.symbols[sym.Name] = sym
	return true
}

func (s *scope) resolve(name string) *Symbol {
	for sc := s; sc != nil; sc = sc.parent {
		if sym, ok := sc.symbols[name]; ok {
			return sym
		}
	}
	return nil
}

// Analyzer holds the walk state for one program.
type Analyzer struct {
	diag     *diagnostics.Reporter
	filename string
	global   *scope
	current  *scope
}

// Analyze checks the program and annotates it with type information.
func Analyze(prog *ast.Program, filename string, diag *diagnostics.Reporter) {
	a := &Analyzer{
		diag:     diag,
		filename: filename,
		global:   newScope(nil),
	}
	a.current = a.global

	// Collect function signatures first so calls can reference later
	// declarations
	hasEntry := false
	for _, decl := range prog.Declarations {
		fn, ok := decl.(*ast.FunctionDecl)
		if !ok {
			continue
		}
		if fn.Name == EntryPointName {
			hasEntry = true
		}

		params := make([]*types.TypeInfo, len(fn.Parameters))
		for i, p := range fn.Parameters {
			params[i] = p.VarType.Clone()
		}
		fnType := types.NewFunction(fn.ReturnType.Clone(), params)
		fn.TypeInfo = fnType

		if !a.global.declare(&Symbol{Name: fn.Name, Type: fnType}) {
			a.errorAt(decl, fmt.Sprintf("Function '%s' is already declared", fn.Name),
				"Use a different name or remove one of the declarations")
		}
	}

	if !hasEntry {
		a.diag.Report(diagnostics.Semantic, diagnostics.Error,
			a.filename, 1, 1,
			fmt.Sprintf("Program has no entry point '%s'", EntryPointName),
			fmt.Sprintf("Define a function named '%s'", EntryPointName))
	}

	for _, decl := range prog.Declarations {
		if fn, ok := decl.(*ast.FunctionDecl); ok {
			a.analyzeFunction(fn)
		}
	}
}

func (a *Analyzer) analyzeFunction(fn *ast.FunctionDecl) {
	if fn.IsExternal || fn.Body == nil {
		return
	}

	a.current = newScope(a.global)
	for _, p := range fn.Parameters {
		p.TypeInfo = p.VarType.Clone()
		if !a.current.declare(&Symbol{Name: p.Name, Type: p.VarType}) {
			a.errorAt(p, fmt.Sprintf("Parameter '%s' is already declared", p.Name), "")
		}
	}
	a.analyzeBlock(fn.Body)
	a.current = a.global
}

func (a *Analyzer) analyzeBlock(block *ast.Block) {
	a.current = newScope(a.current)
	for _, stmt := range block.Statements {
		a.analyzeStatement(stmt)
	}
	a.current = a.current.parent
}

func (a *Analyzer) analyzeStatement(s ast.Statement) {
	switch n := s.(type) {
	case *ast.Block:
		a.analyzeBlock(n)

	case *ast.VarDecl:
		if n.Initializer != nil {
			a.analyzeExpression(n.Initializer)
		}
		n.TypeInfo = n.VarType.Clone()
		if !a.current.declare(&Symbol{Name: n.Name, Type: n.VarType}) {
			a.errorAt(n, fmt.Sprintf("Variable '%s' is already declared", n.Name), "")
		}

	case *ast.ArrayDecl:
		for _, init := range n.Initializers {
			a.analyzeExpression(init)
		}
		arrType := types.NewArray(n.ElementType.Clone(), n.Size)
		n.TypeInfo = arrType
		if !a.current.declare(&Symbol{Name: n.Name, Type: arrType}) {
			a.errorAt(n, fmt.Sprintf("Array '%s' is already declared", n.Name), "")
		}

	case *ast.If:
		a.analyzeExpression(n.Condition)
		a.analyzeStatement(n.ThenBranch)
		if n.ElseBranch != nil {
			a.analyzeStatement(n.ElseBranch)
		}

	case *ast.While:
		a.analyzeExpression(n.Condition)
		a.analyzeStatement(n.Body)

	case *ast.DoWhile:
		a.analyzeStatement(n.Body)
		a.analyzeExpression(n.Condition)

	case *ast.For:
		a.current = newScope(a.current)
		if n.Init != nil {
			a.analyzeStatement(n.Init)
		}
		if n.Condition != nil {
			a.analyzeExpression(n.Condition)
		}
		if n.Increment != nil {
			a.analyzeExpression(n.Increment)
		}
		a.analyzeStatement(n.Body)
		a.current = a.current.parent

	case *ast.Return:
		if n.Value != nil {
			a.analyzeExpression(n.Value)
		}

	case *ast.Break:
		// nothing to resolve

	case *ast.ExprStmt:
		a.analyzeExpression(n.Expression)
	}
}

func (a *Analyzer) analyzeExpression(e ast.Expression) *types.TypeInfo {
	switch n := e.(type) {
	case *ast.LiteralInt:
		n.TypeInfo = types.NewInt()
		return n.TypeInfo
	case *ast.LiteralChar:
		n.TypeInfo = types.NewChar()
		return n.TypeInfo
	case *ast.LiteralString:
		n.TypeInfo = types.NewArray(types.NewChar(), len(n.Value))
		return n.TypeInfo
	case *ast.LiteralBool:
		n.TypeInfo = types.NewBool()
		return n.TypeInfo

	case *ast.Identifier:
		sym := a.current.resolve(n.Name)
		if sym == nil {
			a.errorAt(n, fmt.Sprintf("Undefined variable '%s'", n.Name),
				"Declare the variable by assigning to it first")
			return nil
		}
		n.TypeInfo = sym.Type.Clone()
		return n.TypeInfo

	case *ast.Assignment:
		a.analyzeExpression(n.Value)

		// Implicit declaration: the first assignment to an unknown name
		// declares a word-sized variable
		if target, ok := n.Target.(*ast.Identifier); ok {
			if a.current.resolve(target.Name) == nil {
				varType := types.NewInt()
				a.current.declare(&Symbol{Name: target.Name, Type: varType})
				target.TypeInfo = varType.Clone()
			} else {
				a.analyzeExpression(n.Target)
			}
		} else {
			a.analyzeExpression(n.Target)
		}

		n.TypeInfo = types.NewInt()
		return n.TypeInfo

	case *ast.BinaryExpr:
		a.analyzeExpression(n.Left)
		a.analyzeExpression(n.Right)
		n.TypeInfo = types.NewInt()
		return n.TypeInfo

	case *ast.UnaryExpr:
		a.analyzeExpression(n.Operand)
		n.TypeInfo = types.NewInt()
		return n.TypeInfo

	case *ast.ArrayAccess:
		arrType := a.analyzeExpression(n.Array)
		a.analyzeExpression(n.Index)
		if arrType != nil && arrType.Category == types.Array {
			n.TypeInfo = arrType.Elem.Clone()
		} else {
			n.TypeInfo = types.NewInt()
		}
		return n.TypeInfo

	case *ast.Call:
		calleeType := a.analyzeExpression(n.Callee)
		for _, arg := range n.Arguments {
			a.analyzeExpression(arg)
		}
		if calleeType != nil && calleeType.Category == types.Function {
			n.TypeInfo = calleeType.Return.Clone()
		} else {
			n.TypeInfo = types.NewInt()
		}
		return n.TypeInfo
	}

	return nil
}

func (a *Analyzer) errorAt(n ast.Node, message, suggestion string) {
	loc := n.Loc()
	a.diag.Report(diagnostics.Semantic, diagnostics.Error,
		a.filename, loc.Line, loc.Column, message, suggestion)
}
