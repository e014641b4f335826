// Package stats defines fighter attributes and the weighted elemental
// power formulas the damage pipeline consumes.
package stats

import (
	"fmt"
	"strings"
)

// Stat identifies one numeric fighter attribute.
type Stat int

const (
	Health Stat = iota
	Attack
	Defense
	Speed
	Nature
	Demon
)

// All lists every Stat in declaration order.
var All = []Stat{Health, Attack, Defense, Speed, Nature, Demon}

// String returns the short rune spelling used by rules and transcripts.
func (s Stat) String() string {
	switch s {
	case Health:
		return "HP"
	case Attack:
		return "ATK"
	case Defense:
		return "DEF"
	case Speed:
		return "SPD"
	case Nature:
		return "NAT"
	case Demon:
		return "DEM"
	default:
		return "???"
	}
}

// ParseStat accepts either the rune spelling ("HP") or the long lowercase
// name ("health") of a stat.
//
// Postcondition: Returns a valid Stat or a non-nil error.
func ParseStat(s string) (Stat, error) {
	switch strings.ToLower(s) {
	case "hp", "health":
		return Health, nil
	case "atk", "attack":
		return Attack, nil
	case "def", "defense":
		return Defense, nil
	case "spd", "speed":
		return Speed, nil
	case "nat", "nature":
		return Nature, nil
	case "dem", "demon":
		return Demon, nil
	}
	return 0, fmt.Errorf("stats: unknown stat %q", s)
}

// Stats is one full set of fighter attributes.
type Stats struct {
	Health  int `yaml:"health"`
	Attack  int `yaml:"attack"`
	Defense int `yaml:"defense"`
	Speed   int `yaml:"speed"`
	Nature  int `yaml:"nature"`
	Demon   int `yaml:"demon"`
}

// Get returns the value of stat.
func (s Stats) Get(stat Stat) int {
	switch stat {
	case Health:
		return s.Health
	case Attack:
		return s.Attack
	case Defense:
		return s.Defense
	case Speed:
		return s.Speed
	case Nature:
		return s.Nature
	case Demon:
		return s.Demon
	default:
		panic(fmt.Sprintf("stats: Get precondition violated: unknown stat %d", int(stat)))
	}
}

// With returns a copy of s with stat set to v.
func (s Stats) With(stat Stat, v int) Stats {
	switch stat {
	case Health:
		s.Health = v
	case Attack:
		s.Attack = v
	case Defense:
		s.Defense = v
	case Speed:
		s.Speed = v
	case Nature:
		s.Nature = v
	case Demon:
		s.Demon = v
	default:
		panic(fmt.Sprintf("stats: With precondition violated: unknown stat %d", int(stat)))
	}
	return s
}

// Reset copies every attribute except Health from base.
//
// Postcondition: s.Health is unchanged; every other field equals base.
func (s *Stats) Reset(base Stats) {
	health := s.Health
	*s = base
	s.Health = health
}

// Validate rejects negative attributes.
func (s Stats) Validate() error {
	for _, stat := range All {
		if s.Get(stat) < 0 {
			return fmt.Errorf("stats: %s must be >= 0, got %d", stat, s.Get(stat))
		}
	}
	return nil
}

// Weights is a linear combination over the non-health stats.
// Negative weights penalize a stat but are excluded from the normalizer.
type Weights struct {
	Attack  int `yaml:"attack" mapstructure:"attack"`
	Defense int `yaml:"defense" mapstructure:"defense"`
	Nature  int `yaml:"nature" mapstructure:"nature"`
	Demon   int `yaml:"demon" mapstructure:"demon"`
	Speed   int `yaml:"speed" mapstructure:"speed"`
}

// PositiveSum returns the sum of the strictly positive weights.
func (w Weights) PositiveSum() int {
	pos := func(x int) int {
		if x < 0 {
			return 0
		}
		return x
	}
	return pos(w.Attack) + pos(w.Defense) + pos(w.Nature) + pos(w.Demon) + pos(w.Speed)
}

// Validate requires at least one positive weight.
func (w Weights) Validate() error {
	if w.PositiveSum() <= 0 {
		return fmt.Errorf("stats: weights %+v have no positive component", w)
	}
	return nil
}

// Power computes the normalized weighted sum of s under w.
//
// Precondition: w.PositiveSum() > 0.
// Postcondition: Returns >= 0.
func (s Stats) Power(w Weights) int {
	sum := w.PositiveSum()
	if sum <= 0 {
		panic("stats: Power precondition violated: weights have no positive component")
	}
	product := (s.Attack*w.Attack +
		s.Defense*w.Defense +
		s.Speed*w.Speed +
		s.Nature*w.Nature +
		s.Demon*w.Demon) / sum
	if product < 0 {
		return 0
	}
	return product
}
