// Package fighter models one participant of a fight: its base and working
// stats, its rule list, its weapon and the buffs and statuses it carries.
package fighter

import (
	"fmt"

	"github.com/yopox/decade-jam/internal/game/equipment"
	"github.com/yopox/decade-jam/internal/game/rule"
	"github.com/yopox/decade-jam/internal/game/stats"
	"github.com/yopox/decade-jam/internal/game/status"
	"github.com/yopox/decade-jam/internal/game/team"
)

// Change records one stat moving from Before to After.
type Change struct {
	Stat   stats.Stat
	Before int
	After  int
}

// buff is a temporary stat modifier re-applied at every turn start while
// remaining > 0.
type buff struct {
	stat      stats.Stat
	amount    int
	remaining int
}

// Fighter is a combatant. Rules, DefaultRule and Weapon are read-only once
// the fighter joins a fight; everything else changes only through StartTurn
// and Apply.
type Fighter struct {
	Name        string
	Rules       []rule.Rule
	DefaultRule rule.Rule
	Weapon      *equipment.Weapon // nil = unarmed

	base     stats.Stats
	stats    stats.Stats
	alive    bool
	buffs    []buff
	statuses *status.ActiveSet
}

// New creates a fighter at full health.
//
// Precondition: base.Validate() == nil and every rule validates; violations panic.
// Postcondition: IsAlive() == (base.Health > 0).
func New(name string, base stats.Stats, rules []rule.Rule, defaultRule rule.Rule, weapon *equipment.Weapon) *Fighter {
	if err := base.Validate(); err != nil {
		panic(fmt.Sprintf("fighter: New precondition violated: %q: %v", name, err))
	}
	for i, r := range append([]rule.Rule{defaultRule}, rules...) {
		if err := r.Validate(); err != nil {
			panic(fmt.Sprintf("fighter: New precondition violated: %q rule %d: %v", name, i-1, err))
		}
	}
	return &Fighter{
		Name:        name,
		Rules:       rules,
		DefaultRule: defaultRule,
		Weapon:      weapon,
		base:        base,
		stats:       base,
		alive:       base.Health > 0,
		statuses:    status.NewActiveSet(),
	}
}

// Base returns the fighter's base stats.
func (f *Fighter) Base() stats.Stats { return f.base }

// CurrentStats returns the fighter's working stats.
func (f *Fighter) CurrentStats() stats.Stats { return f.stats }

// Stat returns one working stat.
func (f *Fighter) Stat(s stats.Stat) int { return f.stats.Get(s) }

// IsAlive reports whether the fighter is still in the fight. Death is one-way.
func (f *Fighter) IsAlive() bool { return f.alive }

// HasStatus reports whether the status tag is currently applied.
func (f *Fighter) HasStatus(tag string) bool { return f.statuses.Has(tag) }

// Statuses returns the applied statuses sorted by ID.
func (f *Fighter) Statuses() []*status.Active { return f.statuses.All() }

// StartTurn runs the fighter's start-of-turn bookkeeping: working stats are
// reset to base (Health excepted), buffs still in force are re-applied and
// timed statuses tick.
//
// Postcondition: returns the working stats that moved, in stats.All order,
// and the IDs of the statuses that expired.
func (f *Fighter) StartTurn() ([]Change, []string) {
	before := f.stats
	f.stats.Reset(f.base)

	kept := f.buffs[:0]
	for _, b := range f.buffs {
		if b.remaining <= 0 {
			continue
		}
		b.remaining--
		f.stats = f.stats.With(b.stat, max(f.stats.Get(b.stat)+b.amount, 0))
		kept = append(kept, b)
	}
	f.buffs = kept

	var changes []Change
	for _, s := range stats.All {
		if before.Get(s) != f.stats.Get(s) {
			changes = append(changes, Change{Stat: s, Before: before.Get(s), After: f.stats.Get(s)})
		}
	}
	return changes, f.statuses.Tick()
}

// SelectRule returns the first rule whose gate holds for self, or the
// default rule with rule.DefaultIndex.
func (f *Fighter) SelectRule(b rule.Board, self team.ID) (int, rule.Rule) {
	return rule.Select(f.Rules, f.DefaultRule, b, self)
}

// Apply mutates the fighter with c and reports the stats that moved.
// Status consequences look their definition up in defs (the built-in
// registry when defs is nil). Any consequence on a dead fighter is a no-op.
//
// Precondition: a buff never targets Health; a status tag is registered in defs.
func (f *Fighter) Apply(c equipment.Consequence, defs *status.Registry) []Change {
	if !f.alive {
		return nil
	}
	switch c.Kind {
	case equipment.ConsequenceDamage:
		before := f.stats.Health
		dealt := c.Dealt()
		if dealt >= before {
			f.stats.Health = 0
			f.alive = false
		} else {
			f.stats.Health -= dealt
		}
		return changed(stats.Health, before, f.stats.Health)
	case equipment.ConsequenceHeal:
		before := f.stats.Health
		f.stats.Health = min(before+c.Amount, max(f.base.Health, before))
		return changed(stats.Health, before, f.stats.Health)
	case equipment.ConsequenceBuff:
		if c.Stat == stats.Health {
			panic("fighter: Apply precondition violated: buff on HP")
		}
		before := f.stats.Get(c.Stat)
		f.stats = f.stats.With(c.Stat, max(before+c.Amount, 0))
		f.buffs = append(f.buffs, buff{stat: c.Stat, amount: c.Amount, remaining: c.Duration})
		return changed(c.Stat, before, f.stats.Get(c.Stat))
	case equipment.ConsequenceStatus:
		if defs == nil {
			defs = status.DefaultRegistry()
		}
		def, ok := defs.Get(c.Status)
		if !ok {
			panic(fmt.Sprintf("fighter: Apply precondition violated: unknown status %q", c.Status))
		}
		if err := f.statuses.Apply(def, 1, c.Duration); err != nil {
			panic(fmt.Sprintf("fighter: Apply: %v", err))
		}
		return nil
	default:
		panic(fmt.Sprintf("fighter: Apply precondition violated: unknown consequence kind %d", int(c.Kind)))
	}
}

func changed(s stats.Stat, before, after int) []Change {
	if before == after {
		return nil
	}
	return []Change{{Stat: s, Before: before, After: after}}
}
