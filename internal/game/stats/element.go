package stats

import (
	"fmt"
	"strings"
)

// Element is the elemental affinity of an attack.
type Element int

const (
	Neutral Element = iota
	Natural
	Demonic
)

// String returns the lowercase element name.
func (e Element) String() string {
	switch e {
	case Neutral:
		return "neutral"
	case Natural:
		return "natural"
	case Demonic:
		return "demonic"
	default:
		return "unknown"
	}
}

// ParseElement parses an element name, case-insensitively.
func ParseElement(s string) (Element, error) {
	switch strings.ToLower(s) {
	case "neutral":
		return Neutral, nil
	case "natural", "nature":
		return Natural, nil
	case "demonic", "demon":
		return Demonic, nil
	}
	return 0, fmt.Errorf("stats: unknown element %q", s)
}

// AttackType separates physical from magical attacks.
type AttackType int

const (
	Physical AttackType = iota
	Magical
)

// String returns the lowercase attack type name.
func (k AttackType) String() string {
	switch k {
	case Physical:
		return "physical"
	case Magical:
		return "magical"
	default:
		return "unknown"
	}
}

// ParseAttackType parses an attack type name, case-insensitively.
func ParseAttackType(s string) (AttackType, error) {
	switch strings.ToLower(s) {
	case "physical":
		return Physical, nil
	case "magical":
		return Magical, nil
	}
	return 0, fmt.Errorf("stats: unknown attack type %q", s)
}

// Profile holds the attack and defense weight vectors of one
// (element, attack type) combination.
type Profile struct {
	Attack  Weights
	Defense Weights
}

// Key addresses one Profile in a Table.
type Key struct {
	Element Element
	Type    AttackType
}

// Table maps every (element, attack type) combination to its weight profile.
// Tables are tuning data; DefaultTable returns the shipped values.
type Table map[Key]Profile

// DefaultTable returns a fresh copy of the default weight profiles.
func DefaultTable() Table {
	return Table{
		{Neutral, Physical}: {
			Attack:  Weights{Attack: 4},
			Defense: Weights{Defense: 1},
		},
		{Natural, Physical}: {
			Attack:  Weights{Attack: 4, Nature: 4, Demon: -1},
			Defense: Weights{Defense: 4, Nature: 2, Demon: -2},
		},
		{Demonic, Physical}: {
			Attack:  Weights{Attack: 4, Nature: -1, Demon: 4},
			Defense: Weights{Defense: 4, Nature: -2, Demon: 2},
		},
		{Neutral, Magical}: {
			Attack:  Weights{Attack: 1, Nature: 2, Demon: 2},
			Defense: Weights{Defense: 1, Nature: 1, Demon: 1},
		},
		{Natural, Magical}: {
			Attack:  Weights{Nature: 4, Demon: -1},
			Defense: Weights{Defense: 2, Nature: 4, Demon: -2},
		},
		{Demonic, Magical}: {
			Attack:  Weights{Nature: -1, Demon: 4},
			Defense: Weights{Defense: 2, Nature: -2, Demon: 4},
		},
	}
}

// Validate checks that every combination is present with usable weights.
//
// Postcondition: nil return guarantees Attack and Defense never panic.
func (t Table) Validate() error {
	var errs []string
	for _, e := range []Element{Neutral, Natural, Demonic} {
		for _, k := range []AttackType{Physical, Magical} {
			p, ok := t[Key{e, k}]
			if !ok {
				errs = append(errs, fmt.Sprintf("missing profile %s/%s", e, k))
				continue
			}
			if err := p.Attack.Validate(); err != nil {
				errs = append(errs, fmt.Sprintf("%s/%s attack: %v", e, k, err))
			}
			if err := p.Defense.Validate(); err != nil {
				errs = append(errs, fmt.Sprintf("%s/%s defense: %v", e, k, err))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("stats: invalid weight table: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (t Table) profile(e Element, k AttackType) Profile {
	p, ok := t[Key{e, k}]
	if !ok {
		panic(fmt.Sprintf("stats: no weight profile for %s/%s", e, k))
	}
	return p
}

// Attack returns the attack power of s for the given element and type.
func (t Table) Attack(s Stats, e Element, k AttackType) int {
	return s.Power(t.profile(e, k).Attack)
}

// Defense returns the defense power of s for the given element and type.
func (t Table) Defense(s Stats, e Element, k AttackType) int {
	return s.Power(t.profile(e, k).Defense)
}
