// Package rule implements the behavior rules fighters follow: boolean
// gates over turn/HP/status conditions, target-selection strategies and
// the actions a selected rule performs.
//
// Every evaluation in this package is a pure read of a Board.
package rule

import (
	"errors"
	"fmt"

	"github.com/yopox/decade-jam/internal/game/stats"
	"github.com/yopox/decade-jam/internal/game/team"
)

// ErrZeroModulus is returned when an every-N-turns condition is built with N == 0.
var ErrZeroModulus = errors.New("rule: every-x-turn modulus must be > 0")

// Board is the read-only fight state rules reason about.
type Board interface {
	// Turn returns the current turn number (1 on the first turn).
	Turn() int
	// IDs returns every fighter ID in roster order: allies first, then enemies.
	IDs() []team.ID
	// Stat returns the current value of stat for id.
	Stat(id team.ID, stat stats.Stat) int
	// HasStatus reports whether id currently carries the status tag.
	HasStatus(id team.ID, tag string) bool
}

// ConditionKind identifies the variant of a Condition.
// The zero value (CondNone) marks an absent second operand.
type ConditionKind int

const (
	CondNone ConditionKind = iota
	CondEveryXTurn
	CondOnTurn
	CondFromTurnX
	CondLessXHP
	CondMoreXHP
	CondHasStatus
)

// Condition is an atomic predicate over the board.
type Condition struct {
	Kind   ConditionKind
	N      int
	Target Target
	Status string
}

// EveryXTurn is true on every turn divisible by n.
//
// Postcondition: Returns ErrZeroModulus when n == 0.
func EveryXTurn(n int) (Condition, error) {
	if n <= 0 {
		return Condition{}, fmt.Errorf("%w: got %d", ErrZeroModulus, n)
	}
	return Condition{Kind: CondEveryXTurn, N: n}, nil
}

// MustEveryXTurn is EveryXTurn for literals; it panics on n <= 0.
func MustEveryXTurn(n int) Condition {
	c, err := EveryXTurn(n)
	if err != nil {
		panic(err)
	}
	return c
}

// OnTurn is true only on turn n.
func OnTurn(n int) Condition { return Condition{Kind: CondOnTurn, N: n} }

// FromTurnX is true on turn n and every turn after.
func FromTurnX(n int) Condition { return Condition{Kind: CondFromTurnX, N: n} }

// LessXHP is true when the resolved target's current health is below n.
func LessXHP(n int, t Target) Condition { return Condition{Kind: CondLessXHP, N: n, Target: t} }

// MoreXHP is true when the resolved target's current health is above n.
func MoreXHP(n int, t Target) Condition { return Condition{Kind: CondMoreXHP, N: n, Target: t} }

// HasStatus is true when the resolved target carries the status tag.
func HasStatus(t Target, tag string) Condition {
	return Condition{Kind: CondHasStatus, Target: t, Status: tag}
}

// Validate reports construction errors a collaborator could have made
// when building the Condition literal directly.
func (c Condition) Validate() error {
	switch c.Kind {
	case CondEveryXTurn:
		if c.N <= 0 {
			return fmt.Errorf("%w: got %d", ErrZeroModulus, c.N)
		}
	case CondOnTurn, CondFromTurnX:
	case CondLessXHP, CondMoreXHP:
		return c.Target.Validate()
	case CondHasStatus:
		if c.Status == "" {
			return errors.New("rule: has-status condition needs a status tag")
		}
		return c.Target.Validate()
	default:
		return fmt.Errorf("rule: unknown condition kind %d", int(c.Kind))
	}
	return nil
}

// Check evaluates the condition for the fighter active.
//
// Precondition: c.Validate() == nil. A zero modulus panics.
func (c Condition) Check(b Board, active team.ID) bool {
	switch c.Kind {
	case CondEveryXTurn:
		if c.N <= 0 {
			panic(fmt.Sprintf("rule: Check precondition violated: every-x-turn modulus %d", c.N))
		}
		return b.Turn()%c.N == 0
	case CondOnTurn:
		return b.Turn() == c.N
	case CondFromTurnX:
		return b.Turn() >= c.N
	case CondLessXHP:
		id := c.Target.Resolve(b, active)
		return !id.IsNone() && b.Stat(id, stats.Health) < c.N
	case CondMoreXHP:
		id := c.Target.Resolve(b, active)
		return !id.IsNone() && b.Stat(id, stats.Health) > c.N
	case CondHasStatus:
		id := c.Target.Resolve(b, active)
		return !id.IsNone() && b.HasStatus(id, c.Status)
	default:
		panic(fmt.Sprintf("rule: Check precondition violated: unknown condition kind %d", int(c.Kind)))
	}
}
