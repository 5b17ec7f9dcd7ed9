// Package types defines the type descriptors attached to AST nodes. ћ++ has
// a single word-sized value type, so the set is small: the scalar categories,
// arrays, and function signatures. TypeInfo values form strict trees; Clone
// is the only way to share structure between owners.
package types

import (
	"fmt"
	"strings"
)

// Category discriminates TypeInfo variants.
type Category int

const (
	Void Category = iota
	Bool
	Char
	Int
	Array
	Function
)

// UnspecifiedSize marks an array whose size is not known at parse time
// (the `name::` parameter form).
const UnspecifiedSize = -1

// TypeInfo describes one type. Elem/Size are set for arrays, Return/Params
// for functions.
type TypeInfo struct {
	Category Category

	Elem *TypeInfo
	Size int

	Return *TypeInfo
	Params []*TypeInfo
}

func NewVoid() *TypeInfo { return &TypeInfo{Category: Void} }
func NewBool() *TypeInfo { return &TypeInfo{Category: Bool} }
func NewChar() *TypeInfo { return &TypeInfo{Category: Char} }
func NewInt() *TypeInfo  { return &TypeInfo{Category: Int} }

// NewArray creates an array type. size may be UnspecifiedSize.
func NewArray(elem *TypeInfo, size int) *TypeInfo {
	return &TypeInfo{Category: Array, Elem: elem, Size: size}
}

// NewFunction creates a function type owning its return and parameter types.
func NewFunction(ret *TypeInfo, params []*TypeInfo) *TypeInfo {
	return &TypeInfo{Category: Function, Return: ret, Params: params}
}

// Clone produces a structurally equal, independently owned copy.
func (t *TypeInfo) Clone() *TypeInfo {
	if t == nil {
		return nil
	}
	c := &TypeInfo{Category: t.Category, Size: t.Size}
	c.Elem = t.Elem.Clone()
	c.Return = t.Return.Clone()
	if t.Params != nil {
		c.Params = make([]*TypeInfo, len(t.Params))
		for i, p := range t.Params {
			c.Params[i] = p.Clone()
		}
	}
	return c
}

// Equal reports structural equality.
func (t *TypeInfo) Equal(o *TypeInfo) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Category != o.Category {
		return false
	}
	switch t.Category {
	case Array:
		return t.Size == o.Size && t.Elem.Equal(o.Elem)
	case Function:
		if len(t.Params) != len(o.Params) || !t.Return.Equal(o.Return) {
			return false
		}
		for i := range t.Params {
			if !t.Params[i].Equal(o.Params[i]) {
				return false
			}
		}
		return true
	}
	return true
}

func (t *TypeInfo) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Category {
	case Void:
		return "void"
	case Bool:
		return "bool"
	case Char:
		return "char"
	case Int:
		return "int"
	case Array:
		if t.Size == UnspecifiedSize {
			return fmt.Sprintf("array[] of %s", t.Elem)
		}
		return fmt.Sprintf("array[%d] of %s", t.Size, t.Elem)
	case Function:
		params := make([]string, len(t.Params))
		for i, p := range t.Params {
			params[i] = p.String()
		}
		return fmt.Sprintf("function(%s) -> %s", strings.Join(params, ", "), t.Return)
	default:
		return "unknown"
	}
}
