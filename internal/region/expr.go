package region

import "fmt"

// ExprKind tags the variant held by an Expr node.
type ExprKind int

const (
	ExprAtomic ExprKind = iota
	ExprNot
	ExprAnd
	ExprOr
	ExprCompare
)

func (k ExprKind) String() string {
	switch k {
	case ExprAtomic:
		return "atomic"
	case ExprNot:
		return "not"
	case ExprAnd:
		return "and"
	case ExprOr:
		return "or"
	case ExprCompare:
		return "compare"
	default:
		return "unknown"
	}
}

// CompareOp is the relational operator carried by an ExprCompare node.
type CompareOp int

const (
	CmpEQ CompareOp = iota
	CmpNE
	CmpLT
	CmpLE
	CmpGT
	CmpGE
)

func (op CompareOp) String() string {
	switch op {
	case CmpEQ:
		return "=="
	case CmpNE:
		return "!="
	case CmpLT:
		return "<"
	case CmpLE:
		return "<="
	case CmpGT:
		return ">"
	case CmpGE:
		return ">="
	default:
		return "?"
	}
}

func (op CompareOp) negated() CompareOp {
	switch op {
	case CmpEQ:
		return CmpNE
	case CmpNE:
		return CmpEQ
	case CmpLT:
		return CmpGE
	case CmpLE:
		return CmpGT
	case CmpGT:
		return CmpLE
	case CmpGE:
		return CmpLT
	default:
		return op
	}
}

// Expr is a boolean/relational expression tree attached to branching
// vertices and If nodes. Expr values are shared by reference and are
// immutable once constructed; beautification passes that need a
// negated condition build a new Expr rather than mutating one in place.
type Expr struct {
	Kind  ExprKind
	Value string // Atomic: opaque handle into the external value space
	Op    CompareOp
	Left  *Expr
	Right *Expr
}

// Atomic wraps an opaque value handle (e.g. a register or temporary
// name from the instruction-level IR) as a boolean expression.
func Atomic(value string) *Expr {
	return &Expr{Kind: ExprAtomic, Value: value}
}

// Not builds the logical negation of e.
func Not(e *Expr) *Expr {
	return &Expr{Kind: ExprNot, Left: e}
}

// And builds the conjunction of a and b.
func And(a, b *Expr) *Expr {
	return &Expr{Kind: ExprAnd, Left: a, Right: b}
}

// Or builds the disjunction of a and b.
func Or(a, b *Expr) *Expr {
	return &Expr{Kind: ExprOr, Left: a, Right: b}
}

// Compare builds a relational expression between two value handles.
func Compare(op CompareOp, left, right *Expr) *Expr {
	return &Expr{Kind: ExprCompare, Op: op, Left: left, Right: right}
}

// EqualsConst is a convenience constructor used by dispatcher switches
// to build `state == value` conditions.
func EqualsConst(value *Expr, constant string) *Expr {
	return Compare(CmpEQ, value, Atomic(constant))
}

// Negate returns a boolean-equivalent expression with the top-level
// sense flipped. For Not it strips the negation instead of
// double-wrapping; for Compare it flips the relational operator rather
// than wrapping in Not, matching the "negation flag absorption" that
// do-while/while promotion performs on the related If condition.
func (e *Expr) Negate() *Expr {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case ExprNot:
		return e.Left
	case ExprCompare:
		return Compare(e.Op.negated(), e.Left, e.Right)
	default:
		return Not(e)
	}
}

// Equal reports structural equality, ignoring no identity of any kind
// (Expr carries no IDs to ignore in the first place).
func (e *Expr) Equal(other *Expr) bool {
	if e == nil || other == nil {
		return e == other
	}
	if e.Kind != other.Kind {
		return false
	}
	switch e.Kind {
	case ExprAtomic:
		return e.Value == other.Value
	case ExprNot:
		return e.Left.Equal(other.Left)
	case ExprAnd, ExprOr:
		return e.Left.Equal(other.Left) && e.Right.Equal(other.Right)
	case ExprCompare:
		return e.Op == other.Op && e.Left.Equal(other.Left) && e.Right.Equal(other.Right)
	default:
		return false
	}
}

// Clone deep-copies the expression tree. Expr has no back-references,
// so clone needs no substitution map.
func (e *Expr) Clone() *Expr {
	if e == nil {
		return nil
	}
	c := &Expr{Kind: e.Kind, Value: e.Value, Op: e.Op}
	c.Left = e.Left.Clone()
	c.Right = e.Right.Clone()
	return c
}

func (e *Expr) String() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case ExprAtomic:
		return e.Value
	case ExprNot:
		return fmt.Sprintf("!(%s)", e.Left)
	case ExprAnd:
		return fmt.Sprintf("(%s && %s)", e.Left, e.Right)
	case ExprOr:
		return fmt.Sprintf("(%s || %s)", e.Left, e.Right)
	case ExprCompare:
		return fmt.Sprintf("(%s %s %s)", e.Left, e.Op, e.Right)
	default:
		return "<bad-expr>"
	}
}
