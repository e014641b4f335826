package rule

import (
	"fmt"

	"github.com/yopox/decade-jam/internal/game/stats"
	"github.com/yopox/decade-jam/internal/game/team"
)

// TargetKind identifies a target-selection strategy.
// The zero value (TargetUnknown) is intentionally invalid.
type TargetKind int

const (
	TargetUnknown TargetKind = iota
	TargetThem
	TargetAllyMost
	TargetAllyLess
	TargetFoeMost
	TargetFoeLess
)

// Target is a strategy for picking a fighter, resolved afresh every time
// it is used.
type Target struct {
	Kind TargetKind
	Stat stats.Stat
}

// Them targets the acting fighter itself.
func Them() Target { return Target{Kind: TargetThem} }

// AllyMost targets the ally (self included) with the highest stat.
func AllyMost(s stats.Stat) Target { return Target{Kind: TargetAllyMost, Stat: s} }

// AllyLess targets the ally (self included) with the lowest stat.
func AllyLess(s stats.Stat) Target { return Target{Kind: TargetAllyLess, Stat: s} }

// FoeMost targets the foe with the highest stat.
func FoeMost(s stats.Stat) Target { return Target{Kind: TargetFoeMost, Stat: s} }

// FoeLess targets the foe with the lowest stat.
func FoeLess(s stats.Stat) Target { return Target{Kind: TargetFoeLess, Stat: s} }

// Validate rejects the zero value.
func (t Target) Validate() error {
	if t.Kind <= TargetUnknown || t.Kind > TargetFoeLess {
		return fmt.Errorf("rule: unknown target kind %d", int(t.Kind))
	}
	return nil
}

// Resolve picks a concrete fighter for active.
//
// Stat-extremal strategies consider every candidate of the relevant side,
// dead ones included, and break ties by roster order (first extremum wins).
//
// Postcondition: Returns active for Them; team.None when no candidate exists.
func (t Target) Resolve(b Board, active team.ID) team.ID {
	var (
		wantSame bool
		most     bool
	)
	switch t.Kind {
	case TargetThem:
		return active
	case TargetAllyMost:
		wantSame, most = true, true
	case TargetAllyLess:
		wantSame, most = true, false
	case TargetFoeMost:
		wantSame, most = false, true
	case TargetFoeLess:
		wantSame, most = false, false
	default:
		panic(fmt.Sprintf("rule: Resolve precondition violated: unknown target kind %d", int(t.Kind)))
	}
	if active.IsNone() {
		return team.None
	}

	best := team.None
	bestVal := 0
	for _, id := range b.IDs() {
		if active.SameSide(id) != wantSame {
			continue
		}
		v := b.Stat(id, t.Stat)
		if best.IsNone() || (most && v > bestVal) || (!most && v < bestVal) {
			best, bestVal = id, v
		}
	}
	return best
}

// String returns the rune spelling of the target.
func (t Target) String() string {
	switch t.Kind {
	case TargetThem:
		return "SLF"
	case TargetAllyMost:
		return "AL+ " + t.Stat.String()
	case TargetAllyLess:
		return "AL- " + t.Stat.String()
	case TargetFoeMost:
		return "FO+ " + t.Stat.String()
	case TargetFoeLess:
		return "FO- " + t.Stat.String()
	default:
		return "???"
	}
}
