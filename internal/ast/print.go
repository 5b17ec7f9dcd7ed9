package ast

import (
	"fmt"
	"io"
	"strings"
)

// Print writes an indented dump of the tree for debugging and golden tests.
// Each node prints its variant name, key attributes, and then its children
// indented by two spaces per level.
func Print(w io.Writer, node Node, indent int) {
	pad := strings.Repeat("  ", indent)

	if node == nil {
		fmt.Fprintf(w, "%s(nil)\n", pad)
		return
	}

	switch n := node.(type) {
	case *Program:
		fmt.Fprintf(w, "%sProgram (declarations: %d)\n", pad, len(n.Declarations))
		for _, d := range n.Declarations {
			Print(w, d, indent+1)
		}

	case *FunctionDecl:
		fmt.Fprintf(w, "%sFunctionDecl (name: %s, params: %d, external: %t)\n",
			pad, n.Name, len(n.Parameters), n.IsExternal)
		fmt.Fprintf(w, "%s  Return type: %s\n", pad, n.ReturnType)
		for i, p := range n.Parameters {
			fmt.Fprintf(w, "%s  Parameter %d:\n", pad, i)
			Print(w, p, indent+2)
		}
		if n.Body != nil {
			fmt.Fprintf(w, "%s  Body:\n", pad)
			Print(w, n.Body, indent+2)
		}

	case *VarDecl:
		fmt.Fprintf(w, "%sVarDecl (name: %s)\n", pad, n.Name)
		fmt.Fprintf(w, "%s  Type: %s\n", pad, n.VarType)
		if n.Initializer != nil {
			fmt.Fprintf(w, "%s  Initializer:\n", pad)
			Print(w, n.Initializer, indent+2)
		}

	case *ArrayDecl:
		fmt.Fprintf(w, "%sArrayDecl (name: %s, size: %d, initializers: %d)\n",
			pad, n.Name, n.Size, len(n.Initializers))
		fmt.Fprintf(w, "%s  Element type: %s\n", pad, n.ElementType)
		for i, init := range n.Initializers {
			fmt.Fprintf(w, "%s  Initializer %d:\n", pad, i)
			Print(w, init, indent+2)
		}

	case *Block:
		fmt.Fprintf(w, "%sBlock (statements: %d)\n", pad, len(n.Statements))
		for _, s := range n.Statements {
			Print(w, s, indent+1)
		}

	case *If:
		fmt.Fprintf(w, "%sIf\n", pad)
		fmt.Fprintf(w, "%s  Condition:\n", pad)
		Print(w, n.Condition, indent+2)
		fmt.Fprintf(w, "%s  Then branch:\n", pad)
		Print(w, n.ThenBranch, indent+2)
		if n.ElseBranch != nil {
			fmt.Fprintf(w, "%s  Else branch:\n", pad)
			Print(w, n.ElseBranch, indent+2)
		}

	case *While:
		fmt.Fprintf(w, "%sWhile\n", pad)
		fmt.Fprintf(w, "%s  Condition:\n", pad)
		Print(w, n.Condition, indent+2)
		fmt.Fprintf(w, "%s  Body:\n", pad)
		Print(w, n.Body, indent+2)

	case *DoWhile:
		fmt.Fprintf(w, "%sDoWhile\n", pad)
		fmt.Fprintf(w, "%s  Body:\n", pad)
		Print(w, n.Body, indent+2)
		fmt.Fprintf(w, "%s  Condition:\n", pad)
		Print(w, n.Condition, indent+2)

	case *For:
		fmt.Fprintf(w, "%sFor\n", pad)
		if n.Init != nil {
			fmt.Fprintf(w, "%s  Init:\n", pad)
			Print(w, n.Init, indent+2)
		}
		if n.Condition != nil {
			fmt.Fprintf(w, "%s  Condition:\n", pad)
			Print(w, n.Condition, indent+2)
		}
		if n.Increment != nil {
			fmt.Fprintf(w, "%s  Increment:\n", pad)
			Print(w, n.Increment, indent+2)
		}
		fmt.Fprintf(w, "%s  Body:\n", pad)
		Print(w, n.Body, indent+2)

	case *Return:
		fmt.Fprintf(w, "%sReturn\n", pad)
		if n.Value != nil {
			Print(w, n.Value, indent+1)
		}

	case *Break:
		fmt.Fprintf(w, "%sBreak\n", pad)

	case *ExprStmt:
		fmt.Fprintf(w, "%sExprStmt\n", pad)
		Print(w, n.Expression, indent+1)

	case *BinaryExpr:
		fmt.Fprintf(w, "%sBinaryExpr (operator: %s)\n", pad, n.Op)
		Print(w, n.Left, indent+1)
		Print(w, n.Right, indent+1)

	case *UnaryExpr:
		fmt.Fprintf(w, "%sUnaryExpr (operator: %s, prefix: %t)\n", pad, n.Op, n.IsPrefix)
		Print(w, n.Operand, indent+1)

	case *LiteralInt:
		fmt.Fprintf(w, "%sLiteralInt (value: %d)\n", pad, n.Value)

	case *LiteralChar:
		fmt.Fprintf(w, "%sLiteralChar (value: %q)\n", pad, n.Value)

	case *LiteralString:
		fmt.Fprintf(w, "%sLiteralString (value: %q)\n", pad, n.Value)

	case *LiteralBool:
		fmt.Fprintf(w, "%sLiteralBool (value: %t)\n", pad, n.Value)

	case *Identifier:
		fmt.Fprintf(w, "%sIdentifier (name: %s)\n", pad, n.Name)

	case *ArrayAccess:
		fmt.Fprintf(w, "%sArrayAccess\n", pad)
		fmt.Fprintf(w, "%s  Array:\n", pad)
		Print(w, n.Array, indent+2)
		fmt.Fprintf(w, "%s  Index:\n", pad)
		Print(w, n.Index, indent+2)

	case *Call:
		fmt.Fprintf(w, "%sCall (arguments: %d)\n", pad, len(n.Arguments))
		fmt.Fprintf(w, "%s  Callee:\n", pad)
		Print(w, n.Callee, indent+2)
		for i, a := range n.Arguments {
			fmt.Fprintf(w, "%s  Argument %d:\n", pad, i)
			Print(w, a, indent+2)
		}

	case *Assignment:
		fmt.Fprintf(w, "%sAssignment\n", pad)
		fmt.Fprintf(w, "%s  Target:\n", pad)
		Print(w, n.Target, indent+2)
		fmt.Fprintf(w, "%s  Value:\n", pad)
		Print(w, n.Value, indent+2)

	case *TypeNode:
		fmt.Fprintf(w, "%sTypeNode (type: %s)\n", pad, n.TypeData)

	default:
		fmt.Fprintf(w, "%s(unknown node)\n", pad)
	}
}

// Dump returns Print output as a string.
func Dump(node Node) string {
	var sb strings.Builder
	Print(&sb, node, 0)
	return sb.String()
}
