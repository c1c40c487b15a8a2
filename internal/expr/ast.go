package expr

// Node is a formula AST node.
type Node interface {
	node()
}

// NumberLit is a numeric literal.
type NumberLit struct {
	Value float64
}

// StringLit is a quoted, bracket, or newline-marker string literal.
type StringLit struct {
	Value string
}

// FieldRef references another field's current value by id.
type FieldRef struct {
	ID string
}

// BinaryOp applies an operator to two operands.
type BinaryOp struct {
	Op    TokenType
	Left  Node
	Right Node
}

// UnaryOp negates its operand (arithmetic minus or logical not).
type UnaryOp struct {
	Op      TokenType
	Operand Node
}

// IfExpr is an if/then/else; the else branch may itself be an IfExpr,
// nesting without bound.
type IfExpr struct {
	Cond Node
	Then Node
	Else Node
}

func (NumberLit) node() {}
func (StringLit) node() {}
func (FieldRef) node()  {}
func (BinaryOp) node()  {}
func (UnaryOp) node()   {}
func (IfExpr) node()    {}

// Refs returns every field id referenced anywhere in the tree.
func Refs(n Node) []string {
	var out []string
	walkRefs(n, &out)
	return out
}

func walkRefs(n Node, out *[]string) {
	switch v := n.(type) {
	case FieldRef:
		*out = append(*out, v.ID)
	case BinaryOp:
		walkRefs(v.Left, out)
		walkRefs(v.Right, out)
	case UnaryOp:
		walkRefs(v.Operand, out)
	case IfExpr:
		walkRefs(v.Cond, out)
		walkRefs(v.Then, out)
		walkRefs(v.Else, out)
	}
}
