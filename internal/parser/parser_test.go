package parser

import (
	"io"
	"testing"

	"chppc/internal/ast"
	"chppc/internal/diagnostics"
	"chppc/internal/lexer"
	"chppc/internal/target"
	"chppc/internal/tokens"
)

func parseSource(src string) (*ast.Program, *diagnostics.Reporter) {
	diag := diagnostics.NewReporter(false)
	diag.SetOutput(io.Discard)
	l := lexer.New([]byte(src), "test.ћпп", target.InitArch(target.ArchX8664), diag)
	return Parse(l, diag), diag
}

func parseStatementSource(src string) (ast.Statement, *diagnostics.Reporter) {
	diag := diagnostics.NewReporter(false)
	diag.SetOutput(io.Discard)
	l := lexer.New([]byte(src), "test.ћпп", target.InitArch(target.ArchX8664), diag)
	p := &Parser{lexer: l, diag: diag, filename: l.Filename()}
	p.cur = l.NextToken()
	return p.parseStatement(), diag
}

func TestAngleBracketFunction(t *testing.T) {
	prog, diag := parseSource("главна() < врати 0; >")

	if diag.TotalCount() != 0 {
		t.Fatalf("diagnostics reported: %d, want 0", diag.TotalCount())
	}
	if len(prog.Declarations) != 1 {
		t.Fatalf("declarations: %d, want 1", len(prog.Declarations))
	}

	fn, ok := prog.Declarations[0].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("declaration is %T, want *ast.FunctionDecl", prog.Declarations[0])
	}
	if fn.Name != "главна" || fn.IsExternal || len(fn.Parameters) != 0 {
		t.Errorf("unexpected function: name=%s external=%t params=%d",
			fn.Name, fn.IsExternal, len(fn.Parameters))
	}
	if fn.Body == nil || len(fn.Body.Statements) != 1 {
		t.Fatalf("body missing or wrong statement count")
	}

	ret, ok := fn.Body.Statements[0].(*ast.Return)
	if !ok {
		t.Fatalf("statement is %T, want *ast.Return", fn.Body.Statements[0])
	}
	lit, ok := ret.Value.(*ast.LiteralInt)
	if !ok || lit.Value != 0 {
		t.Errorf("return value %v, want LiteralInt(0)", ret.Value)
	}
}

func TestExternalDeclaration(t *testing.T) {
	prog, diag := parseSource("екстерно putchar(c);")

	if diag.TotalCount() != 0 {
		t.Fatalf("diagnostics reported: %d, want 0", diag.TotalCount())
	}
	fn, ok := prog.Declarations[0].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("declaration is %T, want *ast.FunctionDecl", prog.Declarations[0])
	}
	if !fn.IsExternal || fn.Body != nil {
		t.Errorf("external=%t body=%v, want external with no body", fn.IsExternal, fn.Body)
	}
	if fn.Name != "putchar" {
		t.Errorf("name %q, want putchar", fn.Name)
	}
	if len(fn.Parameters) != 1 {
		t.Fatalf("parameters: %d, want 1", len(fn.Parameters))
	}
	p := fn.Parameters[0]
	if p.Name != "c" || p.Initializer != nil || p.VarType.String() != "int" {
		t.Errorf("parameter: name=%q init=%v type=%s, want c, nil, int",
			p.Name, p.Initializer, p.VarType)
	}
}

func TestArrayParameterForm(t *testing.T) {
	prog, diag := parseSource("сума(низ::, н) < врати 0; >")

	if diag.TotalCount() != 0 {
		t.Fatalf("diagnostics reported: %d, want 0", diag.TotalCount())
	}
	fn := prog.Declarations[0].(*ast.FunctionDecl)
	if len(fn.Parameters) != 2 {
		t.Fatalf("parameters: %d, want 2", len(fn.Parameters))
	}
	if got := fn.Parameters[0].VarType.String(); got != "array[] of int" {
		t.Errorf("first parameter type %q, want array of unspecified size", got)
	}
	if got := fn.Parameters[1].VarType.String(); got != "int" {
		t.Errorf("second parameter type %q, want int", got)
	}
}

func TestArrayDeclaration(t *testing.T) {
	stmt, diag := parseStatementSource("бројеви:4: = _1, 2, 3, 4_;")

	if diag.TotalCount() != 0 {
		t.Fatalf("diagnostics reported: %d, want 0", diag.TotalCount())
	}
	decl, ok := stmt.(*ast.ArrayDecl)
	if !ok {
		t.Fatalf("statement is %T, want *ast.ArrayDecl", stmt)
	}
	if decl.Name != "бројеви" || decl.Size != 4 {
		t.Errorf("name=%q size=%d, want бројеви, 4", decl.Name, decl.Size)
	}
	if decl.ElementType.String() != "int" {
		t.Errorf("element type %s, want int", decl.ElementType)
	}
	if len(decl.Initializers) != 4 {
		t.Fatalf("initializers: %d, want 4", len(decl.Initializers))
	}
	for i, want := range []int64{1, 2, 3, 4} {
		lit, ok := decl.Initializers[i].(*ast.LiteralInt)
		if !ok || lit.Value != want {
			t.Errorf("initializer %d = %v, want LiteralInt(%d)", i, decl.Initializers[i], want)
		}
	}
}

func TestArrayDeclarationFusedIdentifiers(t *testing.T) {
	stmt, diag := parseStatementSource("пар:2: = _а, б_;")

	if diag.TotalCount() != 0 {
		t.Fatalf("diagnostics reported: %d, want 0", diag.TotalCount())
	}
	decl := stmt.(*ast.ArrayDecl)
	if len(decl.Initializers) != 2 {
		t.Fatalf("initializers: %d, want 2", len(decl.Initializers))
	}
	first, ok := decl.Initializers[0].(*ast.Identifier)
	if !ok || first.Name != "а" {
		t.Errorf("first initializer %v, want Identifier(а)", decl.Initializers[0])
	}
	second, ok := decl.Initializers[1].(*ast.Identifier)
	if !ok || second.Name != "б" {
		t.Errorf("second initializer %v, want Identifier(б)", decl.Initializers[1])
	}
}

func TestArrayDeclarationEmptyLiteral(t *testing.T) {
	stmt, diag := parseStatementSource("празно:3: = __;")

	if diag.TotalCount() != 0 {
		t.Fatalf("diagnostics reported: %d, want 0", diag.TotalCount())
	}
	decl := stmt.(*ast.ArrayDecl)
	if len(decl.Initializers) != 0 {
		t.Errorf("initializers: %d, want 0", len(decl.Initializers))
	}
}

func TestArrayDeclarationTooManyInitializers(t *testing.T) {
	stmt, diag := parseStatementSource("а:2: = _1, 2, 3_;")

	if diag.Count(diagnostics.Error) != 1 {
		t.Fatalf("errors: %d, want 1", diag.Count(diagnostics.Error))
	}
	decl := stmt.(*ast.ArrayDecl)
	if len(decl.Initializers) != 2 {
		t.Errorf("initializers kept: %d, want 2 (truncated to size)", len(decl.Initializers))
	}
}

func TestFloatAssignmentTruncates(t *testing.T) {
	stmt, diag := parseStatementSource("x = 3.14;")

	if diag.Count(diagnostics.Warning) != 1 || diag.Count(diagnostics.Error) != 0 {
		t.Fatalf("diagnostics: %d warnings %d errors, want 1 warning only",
			diag.Count(diagnostics.Warning), diag.Count(diagnostics.Error))
	}

	exprStmt, ok := stmt.(*ast.ExprStmt)
	if !ok {
		t.Fatalf("statement is %T, want *ast.ExprStmt", stmt)
	}
	assign, ok := exprStmt.Expression.(*ast.Assignment)
	if !ok {
		t.Fatalf("expression is %T, want *ast.Assignment", exprStmt.Expression)
	}
	target, ok := assign.Target.(*ast.Identifier)
	if !ok || target.Name != "x" {
		t.Errorf("target %v, want Identifier(x)", assign.Target)
	}
	value, ok := assign.Value.(*ast.LiteralInt)
	if !ok || value.Value != 3 {
		t.Errorf("value %v, want LiteralInt(3)", assign.Value)
	}
}

func TestUnterminatedStringDoesNotCascade(t *testing.T) {
	stmt, diag := parseStatementSource(`x = "hello;`)

	if stmt != nil {
		t.Errorf("statement %v, want nil after recovery", stmt)
	}
	if diag.Count(diagnostics.Error) != 1 {
		t.Fatalf("errors: %d, want exactly 1 (no cascade)", diag.Count(diagnostics.Error))
	}
	if d := diag.Diagnostics()[0]; d.Kind != diagnostics.Lexical {
		t.Errorf("error kind %v, want Lexical", d.Kind)
	}
}

func TestPrecedence(t *testing.T) {
	stmt, diag := parseStatementSource("а = 1 + 2 * 3;")

	if diag.TotalCount() != 0 {
		t.Fatalf("diagnostics reported: %d, want 0", diag.TotalCount())
	}
	assign := stmt.(*ast.ExprStmt).Expression.(*ast.Assignment)
	add, ok := assign.Value.(*ast.BinaryExpr)
	if !ok || add.Op != tokens.PLUS_TOKEN {
		t.Fatalf("value %v, want addition at the top", assign.Value)
	}
	if lit, ok := add.Left.(*ast.LiteralInt); !ok || lit.Value != 1 {
		t.Errorf("left operand %v, want 1", add.Left)
	}
	mul, ok := add.Right.(*ast.BinaryExpr)
	if !ok || mul.Op != tokens.STAR_TOKEN {
		t.Fatalf("right operand %v, want multiplication", add.Right)
	}
}

func TestLogicalPrecedence(t *testing.T) {
	stmt, _ := parseStatementSource("а = б == 1 && в < 2 || г;")

	assign := stmt.(*ast.ExprStmt).Expression.(*ast.Assignment)
	or, ok := assign.Value.(*ast.BinaryExpr)
	if !ok || or.Op != tokens.DOUBLE_OR_TOKEN {
		t.Fatalf("top operator %v, want ||", assign.Value)
	}
	and, ok := or.Left.(*ast.BinaryExpr)
	if !ok || and.Op != tokens.DOUBLE_AND_TOKEN {
		t.Fatalf("left of || is %v, want &&", or.Left)
	}
	if eq, ok := and.Left.(*ast.BinaryExpr); !ok || eq.Op != tokens.DOUBLE_EQUALS_TOKEN {
		t.Errorf("left of && is %v, want ==", and.Left)
	}
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	stmt, diag := parseStatementSource("а = б = 1;")

	if diag.TotalCount() != 0 {
		t.Fatalf("diagnostics reported: %d, want 0", diag.TotalCount())
	}
	outer := stmt.(*ast.ExprStmt).Expression.(*ast.Assignment)
	inner, ok := outer.Value.(*ast.Assignment)
	if !ok {
		t.Fatalf("value %v, want nested assignment", outer.Value)
	}
	if id, ok := inner.Target.(*ast.Identifier); !ok || id.Name != "б" {
		t.Errorf("inner target %v, want б", inner.Target)
	}
}

func TestUnaryOperators(t *testing.T) {
	stmt, diag := parseStatementSource("а = -б + !в;")

	if diag.TotalCount() != 0 {
		t.Fatalf("diagnostics reported: %d, want 0", diag.TotalCount())
	}
	add := stmt.(*ast.ExprStmt).Expression.(*ast.Assignment).Value.(*ast.BinaryExpr)
	neg, ok := add.Left.(*ast.UnaryExpr)
	if !ok || neg.Op != tokens.MINUS_TOKEN || !neg.IsPrefix {
		t.Errorf("left %v, want prefix minus", add.Left)
	}
	not, ok := add.Right.(*ast.UnaryExpr)
	if !ok || not.Op != tokens.NOT_TOKEN {
		t.Errorf("right %v, want prefix not", add.Right)
	}
}

func TestRelationalInsideCondition(t *testing.T) {
	// '<' and '>' are relational inside parentheses and block delimiters
	// in statement position
	prog, diag := parseSource("главна() < ако (а < б) < в = 1; > >")

	if diag.TotalCount() != 0 {
		t.Fatalf("diagnostics reported: %d, want 0", diag.TotalCount())
	}
	fn := prog.Declarations[0].(*ast.FunctionDecl)
	ifStmt, ok := fn.Body.Statements[0].(*ast.If)
	if !ok {
		t.Fatalf("statement is %T, want *ast.If", fn.Body.Statements[0])
	}
	cond, ok := ifStmt.Condition.(*ast.BinaryExpr)
	if !ok || cond.Op != tokens.LESS_TOKEN {
		t.Fatalf("condition %v, want '<' comparison", ifStmt.Condition)
	}
	if _, ok := ifStmt.ThenBranch.(*ast.Block); !ok {
		t.Errorf("then branch %T, want block", ifStmt.ThenBranch)
	}
}

func TestWhileAndBreak(t *testing.T) {
	stmt, diag := parseStatementSource("док (тачно) < прекини; >")

	if diag.TotalCount() != 0 {
		t.Fatalf("diagnostics reported: %d, want 0", diag.TotalCount())
	}
	while, ok := stmt.(*ast.While)
	if !ok {
		t.Fatalf("statement is %T, want *ast.While", stmt)
	}
	cond, ok := while.Condition.(*ast.LiteralBool)
	if !ok || !cond.Value {
		t.Errorf("condition %v, want тачно", while.Condition)
	}
	block := while.Body.(*ast.Block)
	if _, ok := block.Statements[0].(*ast.Break); !ok {
		t.Errorf("body statement %T, want *ast.Break", block.Statements[0])
	}
}

func TestDoWhile(t *testing.T) {
	stmt, diag := parseStatementSource("ради < и = и + 1; > док (и < 10);")

	if diag.TotalCount() != 0 {
		t.Fatalf("diagnostics reported: %d, want 0", diag.TotalCount())
	}
	doWhile, ok := stmt.(*ast.DoWhile)
	if !ok {
		t.Fatalf("statement is %T, want *ast.DoWhile", stmt)
	}
	if _, ok := doWhile.Body.(*ast.Block); !ok {
		t.Errorf("body %T, want block", doWhile.Body)
	}
	if cond, ok := doWhile.Condition.(*ast.BinaryExpr); !ok || cond.Op != tokens.LESS_TOKEN {
		t.Errorf("condition %v, want comparison", doWhile.Condition)
	}
}

func TestForLoop(t *testing.T) {
	stmt, diag := parseStatementSource("за (и = 0; и < 10; и = и + 1) < прекини; >")

	if diag.TotalCount() != 0 {
		t.Fatalf("diagnostics reported: %d, want 0", diag.TotalCount())
	}
	forStmt, ok := stmt.(*ast.For)
	if !ok {
		t.Fatalf("statement is %T, want *ast.For", stmt)
	}
	if forStmt.Init == nil || forStmt.Condition == nil || forStmt.Increment == nil {
		t.Errorf("for header: init=%v cond=%v incr=%v, want all present",
			forStmt.Init, forStmt.Condition, forStmt.Increment)
	}
}

func TestForLoopEmptyHeader(t *testing.T) {
	stmt, diag := parseStatementSource("за (;;) < прекини; >")

	if diag.TotalCount() != 0 {
		t.Fatalf("diagnostics reported: %d, want 0", diag.TotalCount())
	}
	forStmt := stmt.(*ast.For)
	if forStmt.Init != nil || forStmt.Condition != nil || forStmt.Increment != nil {
		t.Errorf("for header should be empty: init=%v cond=%v incr=%v",
			forStmt.Init, forStmt.Condition, forStmt.Increment)
	}
}

func TestCallAndIndexChain(t *testing.T) {
	stmt, diag := parseStatementSource("х = сабери(а, 1):0:;")

	if diag.TotalCount() != 0 {
		t.Fatalf("diagnostics reported: %d, want 0", diag.TotalCount())
	}
	access, ok := stmt.(*ast.ExprStmt).Expression.(*ast.Assignment).Value.(*ast.ArrayAccess)
	if !ok {
		t.Fatalf("value is not an array access")
	}
	call, ok := access.Array.(*ast.Call)
	if !ok || len(call.Arguments) != 2 {
		t.Fatalf("access base %v, want call with 2 arguments", access.Array)
	}
}

func TestArrayElementAssignment(t *testing.T) {
	stmt, diag := parseStatementSource("бројеви:0: = 5;")

	if diag.TotalCount() != 0 {
		t.Fatalf("diagnostics reported: %d, want 0", diag.TotalCount())
	}
	assign := stmt.(*ast.ExprStmt).Expression.(*ast.Assignment)
	access, ok := assign.Target.(*ast.ArrayAccess)
	if !ok {
		t.Fatalf("target %v, want array access", assign.Target)
	}
	if idx, ok := access.Index.(*ast.LiteralInt); !ok || idx.Value != 0 {
		t.Errorf("index %v, want 0", access.Index)
	}
}

func TestVariableIndexStatement(t *testing.T) {
	stmt, diag := parseStatementSource("бројеви:и: = 5;")

	if diag.TotalCount() != 0 {
		t.Fatalf("diagnostics reported: %d, want 0", diag.TotalCount())
	}
	assign := stmt.(*ast.ExprStmt).Expression.(*ast.Assignment)
	access := assign.Target.(*ast.ArrayAccess)
	if idx, ok := access.Index.(*ast.Identifier); !ok || idx.Name != "и" {
		t.Errorf("index %v, want Identifier(и)", access.Index)
	}
}

func TestInvalidAssignmentTarget(t *testing.T) {
	_, diag := parseStatementSource("1 + 2 = 3;")

	if diag.Count(diagnostics.Error) != 1 {
		t.Errorf("errors: %d, want 1", diag.Count(diagnostics.Error))
	}
	if d := diag.Diagnostics()[0]; d.Kind != diagnostics.Syntax {
		t.Errorf("error kind %v, want Syntax", d.Kind)
	}
}

func TestMissingSemicolonRecovers(t *testing.T) {
	// The '>' after the expression reads as a relational operator, so the
	// statement fails; the declaration itself must still survive
	prog, diag := parseSource("главна() < врати 0 >")

	if diag.Count(diagnostics.Error) == 0 {
		t.Error("expected at least one syntax error")
	}
	if len(prog.Declarations) != 1 {
		t.Errorf("declarations: %d, want 1", len(prog.Declarations))
	}
}

func TestRecoveryContinuesAfterBadStatement(t *testing.T) {
	prog, diag := parseSource("главна() < врати @; x = 1; >")

	if diag.Count(diagnostics.Error) != 1 {
		t.Fatalf("errors: %d, want 1", diag.Count(diagnostics.Error))
	}
	fn := prog.Declarations[0].(*ast.FunctionDecl)
	if len(fn.Body.Statements) != 1 {
		t.Fatalf("statements after recovery: %d, want 1", len(fn.Body.Statements))
	}
	if _, ok := fn.Body.Statements[0].(*ast.ExprStmt); !ok {
		t.Errorf("surviving statement %T, want the assignment", fn.Body.Statements[0])
	}
}

func TestBodylessSignatureRequiresExternal(t *testing.T) {
	_, diag := parseSource("нема_тела() врати 0;")

	if diag.Count(diagnostics.Error) == 0 {
		t.Error("expected an error for a function without a body")
	}
}
