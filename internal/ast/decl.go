package ast

import (
	"chppc/internal/source"
	"chppc/internal/types"
)

// Program is the root node; it owns every declaration in the file.
type Program struct {
	Declarations []Decl
	source.Location
}

func (p *Program) INode()                {} // Implements Node interface
func (p *Program) Loc() *source.Location { return &p.Location }

// FunctionDecl represents a function definition or, with IsExternal set, an
// imported signature. IsExternal implies Body is nil; a nil Body on a
// non-external declaration is a parse error.
type FunctionDecl struct {
	Name       string
	Parameters []*VarDecl
	Body       *Block
	ReturnType *types.TypeInfo
	IsExternal bool
	TypeInfo   *types.TypeInfo // filled during semantic analysis
	source.Location
}

func (f *FunctionDecl) INode()                {} // Implements Node interface
func (f *FunctionDecl) Decl()                 {} // Decl is a marker interface for declarations
func (f *FunctionDecl) Loc() *source.Location { return &f.Location }

// VarDecl represents a variable declaration. Parameters are VarDecls with no
// initializer. A first assignment stays an Assignment node; the semantic
// stage declares the name in its scope without rewriting the tree.
type VarDecl struct {
	Name        string
	Initializer Expression // can be nil
	VarType     *types.TypeInfo
	TypeInfo    *types.TypeInfo // filled during semantic analysis
	source.Location
}

func (v *VarDecl) INode()                {} // Implements Node interface
func (v *VarDecl) Stmt()                 {} // Stmt is a marker interface for statements
func (v *VarDecl) Loc() *source.Location { return &v.Location }

// ArrayDecl represents the `name:size: = _v0, v1, …_;` declaration form.
// The initializer count never exceeds Size.
type ArrayDecl struct {
	Name         string
	Size         int
	Initializers []Expression
	ElementType  *types.TypeInfo
	TypeInfo     *types.TypeInfo // filled during semantic analysis
	source.Location
}

func (a *ArrayDecl) INode()                {} // Implements Node interface
func (a *ArrayDecl) Stmt()                 {} // Stmt is a marker interface for statements
func (a *ArrayDecl) Loc() *source.Location { return &a.Location }
