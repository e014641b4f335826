// Package team defines the stable fighter handles used across a fight.
package team

import (
	"fmt"
	"strconv"
)

// Side distinguishes the two rosters of a fight.
// The zero value (SideNone) marks the no-target sentinel.
type Side int

const (
	SideNone Side = iota
	SideAllies
	SideEnemies
)

// String returns "allies", "enemies" or "none".
func (s Side) String() string {
	switch s {
	case SideAllies:
		return "allies"
	case SideEnemies:
		return "enemies"
	default:
		return "none"
	}
}

// Opposite returns the other roster. SideNone has no opposite.
func (s Side) Opposite() Side {
	switch s {
	case SideAllies:
		return SideEnemies
	case SideEnemies:
		return SideAllies
	default:
		return SideNone
	}
}

// ID identifies one fighter: a side plus its index in that side's roster.
// IDs are assigned once when a fight is built and never renumbered.
type ID struct {
	Side  Side
	Index int
}

// None is the disambiguated no-target sentinel.
var None = ID{}

// Ally returns the ID of the i-th ally.
func Ally(i int) ID { return ID{Side: SideAllies, Index: i} }

// Enemy returns the ID of the i-th enemy.
func Enemy(i int) ID { return ID{Side: SideEnemies, Index: i} }

// IsNone reports whether id is the no-target sentinel.
func (id ID) IsNone() bool { return id.Side == SideNone }

// IsAlly reports whether id belongs to the allies roster.
func (id ID) IsAlly() bool { return id.Side == SideAllies }

// SameSide reports whether id and other are on the same, non-empty side.
func (id ID) SameSide(other ID) bool {
	return !id.IsNone() && id.Side == other.Side
}

// String renders A0, E1, or "--" for None.
func (id ID) String() string {
	switch id.Side {
	case SideAllies:
		return "A" + strconv.Itoa(id.Index)
	case SideEnemies:
		return "E" + strconv.Itoa(id.Index)
	default:
		return "--"
	}
}

// ParseID is the inverse of ID.String.
func ParseID(s string) (ID, error) {
	if s == "--" {
		return None, nil
	}
	if len(s) < 2 {
		return None, fmt.Errorf("team: malformed id %q", s)
	}
	idx, err := strconv.Atoi(s[1:])
	if err != nil || idx < 0 {
		return None, fmt.Errorf("team: malformed id %q", s)
	}
	switch s[0] {
	case 'A':
		return Ally(idx), nil
	case 'E':
		return Enemy(idx), nil
	}
	return None, fmt.Errorf("team: malformed id %q", s)
}
