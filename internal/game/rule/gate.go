package rule

import (
	"errors"
	"fmt"

	"github.com/yopox/decade-jam/internal/game/team"
)

// ErrArity is returned when a gate is given the wrong number of conditions.
var ErrArity = errors.New("rule: wrong gate arity")

// Op is a boolean combinator.
type Op int

const (
	OpUnknown Op = iota
	OpID
	OpNOT
	OpAND
	OpNAND
	OpOR
	OpXOR
	OpNOR
	OpNXOR
)

var opNames = map[Op]string{
	OpID:   "ID",
	OpNOT:  "NOT",
	OpAND:  "AND",
	OpNAND: "NAND",
	OpOR:   "OR",
	OpXOR:  "XOR",
	OpNOR:  "NOR",
	OpNXOR: "NXOR",
}

// String returns the rune spelling of the op.
func (op Op) String() string {
	if s, ok := opNames[op]; ok {
		return s
	}
	return "???"
}

// Arity returns how many conditions the op combines, or 0 for OpUnknown.
func (op Op) Arity() int {
	switch op {
	case OpID, OpNOT:
		return 1
	case OpAND, OpNAND, OpOR, OpXOR, OpNOR, OpNXOR:
		return 2
	default:
		return 0
	}
}

// Gate combines one or two conditions. Gates never nest.
type Gate struct {
	Op Op
	A  Condition
	B  Condition // Kind == CondNone for unary ops
}

// NewGate builds a gate and checks its arity.
//
// Postcondition: Returns a gate with Validate() == nil, or an error wrapping ErrArity
// or a condition error.
func NewGate(op Op, conds ...Condition) (Gate, error) {
	if op.Arity() == 0 {
		return Gate{}, fmt.Errorf("rule: unknown gate op %d", int(op))
	}
	if len(conds) != op.Arity() {
		return Gate{}, fmt.Errorf("%w: %s takes %d condition(s), got %d", ErrArity, op, op.Arity(), len(conds))
	}
	g := Gate{Op: op, A: conds[0]}
	if len(conds) == 2 {
		g.B = conds[1]
	}
	if err := g.Validate(); err != nil {
		return Gate{}, err
	}
	return g, nil
}

// ID passes c through.
func ID(c Condition) Gate { return Gate{Op: OpID, A: c} }

// Not negates c.
func Not(c Condition) Gate { return Gate{Op: OpNOT, A: c} }

// And is a ∧ b.
func And(a, b Condition) Gate { return Gate{Op: OpAND, A: a, B: b} }

// Nand is ¬(a ∧ b).
func Nand(a, b Condition) Gate { return Gate{Op: OpNAND, A: a, B: b} }

// Or is a ∨ b.
func Or(a, b Condition) Gate { return Gate{Op: OpOR, A: a, B: b} }

// Xor is a ⊕ b.
func Xor(a, b Condition) Gate { return Gate{Op: OpXOR, A: a, B: b} }

// Nor is ¬(a ∨ b).
func Nor(a, b Condition) Gate { return Gate{Op: OpNOR, A: a, B: b} }

// Nxor is ¬(a ⊕ b).
func Nxor(a, b Condition) Gate { return Gate{Op: OpNXOR, A: a, B: b} }

// Conditions returns the gate's operands in order.
func (g Gate) Conditions() []Condition {
	if g.Op.Arity() == 2 {
		return []Condition{g.A, g.B}
	}
	return []Condition{g.A}
}

// Validate checks the arity and every operand.
func (g Gate) Validate() error {
	switch g.Op.Arity() {
	case 0:
		return fmt.Errorf("rule: unknown gate op %d", int(g.Op))
	case 1:
		if g.B.Kind != CondNone {
			return fmt.Errorf("%w: %s takes 1 condition, got 2", ErrArity, g.Op)
		}
	case 2:
		if g.B.Kind == CondNone {
			return fmt.Errorf("%w: %s takes 2 conditions, got 1", ErrArity, g.Op)
		}
	}
	for _, c := range g.Conditions() {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Check evaluates the gate for the fighter active.
//
// Precondition: g.Validate() == nil; a malformed gate panics.
func (g Gate) Check(b Board, active team.ID) bool {
	if err := g.Validate(); err != nil {
		panic(fmt.Sprintf("rule: Check precondition violated: %v", err))
	}
	a := g.A.Check(b, active)
	if g.Op.Arity() == 1 {
		if g.Op == OpNOT {
			return !a
		}
		return a
	}
	c := g.B.Check(b, active)
	switch g.Op {
	case OpAND:
		return a && c
	case OpNAND:
		return !(a && c)
	case OpOR:
		return a || c
	case OpXOR:
		return a != c
	case OpNOR:
		return !(a || c)
	default: // OpNXOR
		return a == c
	}
}
