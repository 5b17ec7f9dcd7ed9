package ast

// Clone produces a structurally equal, independently owned copy of the tree
// rooted at n. No child, string or TypeInfo is shared with the original.
func Clone(n Node) Node {
	if n == nil {
		return nil
	}

	switch node := n.(type) {
	case *Program:
		c := &Program{Location: node.Location}
		if node.Declarations != nil {
			c.Declarations = make([]Decl, len(node.Declarations))
			for i, d := range node.Declarations {
				c.Declarations[i] = Clone(d).(Decl)
			}
		}
		return c

	case *FunctionDecl:
		c := &FunctionDecl{
			Name:       node.Name,
			ReturnType: node.ReturnType.Clone(),
			IsExternal: node.IsExternal,
			TypeInfo:   node.TypeInfo.Clone(),
			Location:   node.Location,
		}
		if node.Parameters != nil {
			c.Parameters = make([]*VarDecl, len(node.Parameters))
			for i, p := range node.Parameters {
				c.Parameters[i] = Clone(p).(*VarDecl)
			}
		}
		if node.Body != nil {
			c.Body = Clone(node.Body).(*Block)
		}
		return c

	case *VarDecl:
		return &VarDecl{
			Name:        node.Name,
			Initializer: cloneExpr(node.Initializer),
			VarType:     node.VarType.Clone(),
			TypeInfo:    node.TypeInfo.Clone(),
			Location:    node.Location,
		}

	case *ArrayDecl:
		c := &ArrayDecl{
			Name:        node.Name,
			Size:        node.Size,
			ElementType: node.ElementType.Clone(),
			TypeInfo:    node.TypeInfo.Clone(),
			Location:    node.Location,
		}
		if node.Initializers != nil {
			c.Initializers = make([]Expression, len(node.Initializers))
			for i, init := range node.Initializers {
				c.Initializers[i] = cloneExpr(init)
			}
		}
		return c

	case *Block:
		c := &Block{Location: node.Location}
		if node.Statements != nil {
			c.Statements = make([]Statement, len(node.Statements))
			for i, s := range node.Statements {
				c.Statements[i] = cloneStmt(s)
			}
		}
		return c

	case *If:
		return &If{
			Condition:  cloneExpr(node.Condition),
			ThenBranch: cloneStmt(node.ThenBranch),
			ElseBranch: cloneStmt(node.ElseBranch),
			Location:   node.Location,
		}

	case *While:
		return &While{
			Condition: cloneExpr(node.Condition),
			Body:      cloneStmt(node.Body),
			Location:  node.Location,
		}

	case *DoWhile:
		return &DoWhile{
			Body:      cloneStmt(node.Body),
			Condition: cloneExpr(node.Condition),
			Location:  node.Location,
		}

	case *For:
		return &For{
			Init:      cloneStmt(node.Init),
			Condition: cloneExpr(node.Condition),
			Increment: cloneExpr(node.Increment),
			Body:      cloneStmt(node.Body),
			Location:  node.Location,
		}

	case *Return:
		return &Return{
			Value:    cloneExpr(node.Value),
			Location: node.Location,
		}

	case *Break:
		return &Break{Location: node.Location}

	case *ExprStmt:
		return &ExprStmt{
			Expression: cloneExpr(node.Expression),
			Location:   node.Location,
		}

	case *BinaryExpr:
		return &BinaryExpr{
			Left:     cloneExpr(node.Left),
			Op:       node.Op,
			Right:    cloneExpr(node.Right),
			TypeInfo: node.TypeInfo.Clone(),
			Location: node.Location,
		}

	case *UnaryExpr:
		return &UnaryExpr{
			Op:       node.Op,
			Operand:  cloneExpr(node.Operand),
			IsPrefix: node.IsPrefix,
			TypeInfo: node.TypeInfo.Clone(),
			Location: node.Location,
		}

	case *LiteralInt:
		return &LiteralInt{Value: node.Value, TypeInfo: node.TypeInfo.Clone(), Location: node.Location}

	case *LiteralChar:
		return &LiteralChar{Value: node.Value, TypeInfo: node.TypeInfo.Clone(), Location: node.Location}

	case *LiteralString:
		return &LiteralString{Value: node.Value, TypeInfo: node.TypeInfo.Clone(), Location: node.Location}

	case *LiteralBool:
		return &LiteralBool{Value: node.Value, TypeInfo: node.TypeInfo.Clone(), Location: node.Location}

	case *Identifier:
		return &Identifier{Name: node.Name, TypeInfo: node.TypeInfo.Clone(), Location: node.Location}

	case *ArrayAccess:
		return &ArrayAccess{
			Array:    cloneExpr(node.Array),
			Index:    cloneExpr(node.Index),
			TypeInfo: node.TypeInfo.Clone(),
			Location: node.Location,
		}

	case *Call:
		c := &Call{
			Callee:   cloneExpr(node.Callee),
			TypeInfo: node.TypeInfo.Clone(),
			Location: node.Location,
		}
		if node.Arguments != nil {
			c.Arguments = make([]Expression, len(node.Arguments))
			for i, a := range node.Arguments {
				c.Arguments[i] = cloneExpr(a)
			}
		}
		return c

	case *Assignment:
		return &Assignment{
			Target:   cloneExpr(node.Target),
			Value:    cloneExpr(node.Value),
			TypeInfo: node.TypeInfo.Clone(),
			Location: node.Location,
		}

	case *TypeNode:
		return &TypeNode{TypeData: node.TypeData.Clone(), Location: node.Location}
	}

	return nil
}

func cloneExpr(e Expression) Expression {
	if e == nil {
		return nil
	}
	return Clone(e).(Expression)
}

func cloneStmt(s Statement) Statement {
	if s == nil {
		return nil
	}
	return Clone(s).(Statement)
}
