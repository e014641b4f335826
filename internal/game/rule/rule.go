package rule

import (
	"fmt"

	"github.com/yopox/decade-jam/internal/game/team"
)

// ActionKind identifies what a fighter does on its turn.
// The zero value (ActionUnknown) is intentionally invalid.
type ActionKind int

const (
	ActionUnknown ActionKind = iota
	ActionAttack
	ActionDefense
	ActionWait
)

// Action is the behavior a selected rule performs.
type Action struct {
	Kind   ActionKind
	Target Target // ActionAttack only
}

// Attack uses the performer's weapon against t.
func Attack(t Target) Action { return Action{Kind: ActionAttack, Target: t} }

// Defense raises the performer's defense until its next turn.
func Defense() Action { return Action{Kind: ActionDefense} }

// Wait does nothing.
func Wait() Action { return Action{Kind: ActionWait} }

// Validate checks the kind and, for attacks, the target.
func (a Action) Validate() error {
	switch a.Kind {
	case ActionAttack:
		return a.Target.Validate()
	case ActionDefense, ActionWait:
		return nil
	default:
		return fmt.Errorf("rule: unknown action kind %d", int(a.Kind))
	}
}

// ResolveTarget returns the fighter the action lands on. Defense and Wait
// act on the performer.
func (a Action) ResolveTarget(b Board, active team.ID) team.ID {
	if a.Kind == ActionAttack {
		return a.Target.Resolve(b, active)
	}
	return active
}

// String returns the rune spelling of the action, e.g. "ATK FO- HP".
func (a Action) String() string {
	switch a.Kind {
	case ActionAttack:
		return "ATK " + a.Target.String()
	case ActionDefense:
		return "DEF"
	case ActionWait:
		return "W"
	default:
		return "???"
	}
}

// Rule pairs a gate with the action to perform when it holds.
type Rule struct {
	Gate   Gate
	Action Action
}

// Default returns the unconditional wait rule.
func Default() Rule {
	return Rule{Gate: ID(MustEveryXTurn(1)), Action: Wait()}
}

// Validate checks the gate and the action.
func (r Rule) Validate() error {
	if err := r.Gate.Validate(); err != nil {
		return err
	}
	return r.Action.Validate()
}

// String returns the rule in rune notation; Parse(r.String()) == r.
func (r Rule) String() string { return Format(r) }

// DefaultIndex is the index Select reports when the default rule applies.
const DefaultIndex = -1

// Select returns the first rule in priority order whose gate holds for
// active, or fallback with DefaultIndex when none does.
//
// Postcondition: Does not mutate b.
func Select(rules []Rule, fallback Rule, b Board, active team.ID) (int, Rule) {
	for i, r := range rules {
		if r.Gate.Check(b, active) {
			return i, r
		}
	}
	return DefaultIndex, fallback
}
