// Package equipment defines weapons, the effects they bundle and the
// consequences those effects resolve to.
package equipment

import (
	"fmt"

	"github.com/yopox/decade-jam/internal/game/stats"
)

// EffectKind identifies the variant of an Effect.
// The zero value (EffectUnknown) is intentionally invalid.
type EffectKind int

const (
	EffectUnknown EffectKind = iota
	EffectAttack
	EffectHeal
	EffectBoost
	EffectInflict
)

// String returns the YAML spelling of the kind.
func (k EffectKind) String() string {
	switch k {
	case EffectAttack:
		return "attack"
	case EffectHeal:
		return "heal"
	case EffectBoost:
		return "boost"
	case EffectInflict:
		return "inflict"
	default:
		return "unknown"
	}
}

// Effect is a potential state change carried by a weapon, not yet resolved
// to numbers. Only the fields relevant to Kind are meaningful.
type Effect struct {
	Kind   EffectKind
	OnSelf bool

	// EffectAttack
	AttackType stats.AttackType
	Element    stats.Element
	Damage     int

	// EffectHeal, EffectBoost
	Amount int

	// EffectBoost
	Stat stats.Stat

	// EffectBoost, EffectInflict
	Duration int

	// EffectInflict
	Status string
}

// Attack returns an attack effect landing on the target.
func Attack(k stats.AttackType, e stats.Element, damage int) Effect {
	return Effect{Kind: EffectAttack, AttackType: k, Element: e, Damage: damage}
}

// Heal returns a heal effect.
func Heal(onSelf bool, amount int) Effect {
	return Effect{Kind: EffectHeal, OnSelf: onSelf, Amount: amount}
}

// Boost returns a stat modifier effect; amount may be negative.
func Boost(onSelf bool, stat stats.Stat, amount, duration int) Effect {
	return Effect{Kind: EffectBoost, OnSelf: onSelf, Stat: stat, Amount: amount, Duration: duration}
}

// Inflict returns an effect applying a status tag.
func Inflict(onSelf bool, tag string, duration int) Effect {
	return Effect{Kind: EffectInflict, OnSelf: onSelf, Status: tag, Duration: duration}
}

// Validate checks the fields relevant to the effect's kind.
func (e Effect) Validate() error {
	switch e.Kind {
	case EffectAttack:
		if e.Damage < 0 {
			return fmt.Errorf("attack damage must be >= 0, got %d", e.Damage)
		}
	case EffectHeal:
		if e.Amount < 0 {
			return fmt.Errorf("heal amount must be >= 0, got %d", e.Amount)
		}
	case EffectBoost:
		if e.Stat == stats.Health {
			return fmt.Errorf("boost cannot target %s; use a heal or attack effect", stats.Health)
		}
		if e.Duration < 0 {
			return fmt.Errorf("boost duration must be >= 0, got %d", e.Duration)
		}
	case EffectInflict:
		if e.Status == "" {
			return fmt.Errorf("inflict status must not be empty")
		}
		if e.Duration < -1 {
			return fmt.Errorf("inflict duration must be >= -1, got %d", e.Duration)
		}
	default:
		return fmt.Errorf("unknown effect kind %d", int(e.Kind))
	}
	return nil
}

// ConsequenceKind identifies the variant of a Consequence.
type ConsequenceKind int

const (
	ConsequenceUnknown ConsequenceKind = iota
	ConsequenceDamage
	ConsequenceBuff
	ConsequenceHeal
	ConsequenceStatus
)

// Consequence is a fully resolved state mutation, pure data until applied.
type Consequence struct {
	Kind ConsequenceKind

	// ConsequenceDamage: powers precomputed when the effect resolved.
	Attack  int
	Defense int
	Damage  int

	// ConsequenceBuff
	Stat stats.Stat

	// ConsequenceBuff, ConsequenceHeal
	Amount int

	// ConsequenceBuff, ConsequenceStatus
	Duration int

	// ConsequenceStatus
	Status string
}

// DamageOf returns a damage consequence.
func DamageOf(attack, defense, damage int) Consequence {
	return Consequence{Kind: ConsequenceDamage, Attack: attack, Defense: defense, Damage: damage}
}

// BuffOf returns a stat buff consequence.
func BuffOf(stat stats.Stat, amount, duration int) Consequence {
	return Consequence{Kind: ConsequenceBuff, Stat: stat, Amount: amount, Duration: duration}
}

// HealOf returns a heal consequence.
func HealOf(amount int) Consequence {
	return Consequence{Kind: ConsequenceHeal, Amount: amount}
}

// StatusOf returns a status consequence.
func StatusOf(tag string, duration int) Consequence {
	return Consequence{Kind: ConsequenceStatus, Status: tag, Duration: duration}
}

// Dealt returns the health a damage consequence removes:
// Damage * (Attack + 1) / (Attack + Defense + 1), floored.
//
// Precondition: c.Kind == ConsequenceDamage; Attack, Defense, Damage >= 0.
// Postcondition: 0 <= Dealt() <= Damage.
func (c Consequence) Dealt() int {
	return c.Damage * (c.Attack + 1) / (c.Attack + c.Defense + 1)
}

// Outcome tags a consequence with the fighter it lands on.
type Outcome struct {
	OnSelf      bool
	Consequence Consequence
}
