// Package fight runs a fight between two rosters of fighters, turn by turn,
// until one side is eliminated or the turn cap is reached.
package fight

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yopox/decade-jam/internal/game/equipment"
	"github.com/yopox/decade-jam/internal/game/fighter"
	"github.com/yopox/decade-jam/internal/game/rule"
	"github.com/yopox/decade-jam/internal/game/stats"
	"github.com/yopox/decade-jam/internal/game/status"
	"github.com/yopox/decade-jam/internal/game/team"
)

// MaxTurns is the default turn cap; the turn after it ends the fight in a Draw.
const MaxTurns = 50

// Option configures a Fight at Build time.
type Option func(*Fight)

// WithLogger sets the debug logger. The default logs nothing.
func WithLogger(l *zap.Logger) Option {
	return func(f *Fight) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithObserver installs an event observer.
func WithObserver(o Observer) Option {
	return func(f *Fight) {
		if o != nil {
			f.observer = o
		}
	}
}

// WithMaxTurns overrides MaxTurns.
//
// Precondition: n >= 0.
func WithMaxTurns(n int) Option {
	if n < 0 {
		panic(fmt.Sprintf("fight: WithMaxTurns precondition violated: n=%d", n))
	}
	return func(f *Fight) { f.maxTurns = n }
}

// WithTable overrides the element weight table.
//
// Precondition: t.Validate() == nil.
func WithTable(t stats.Table) Option {
	if err := t.Validate(); err != nil {
		panic(fmt.Sprintf("fight: WithTable precondition violated: %v", err))
	}
	return func(f *Fight) { f.table = t }
}

// WithStatuses sets the registry status consequences are resolved against.
func WithStatuses(r *status.Registry) Option {
	return func(f *Fight) {
		if r != nil {
			f.statuses = r
		}
	}
}

// WithID sets the fight ID used in logs.
func WithID(id uuid.UUID) Option {
	return func(f *Fight) { f.ID = id }
}

// Fight is the arena. Fighters are stored densely, allies first, and are
// addressed only through their team.ID.
//
// A Fight is not safe for concurrent use.
type Fight struct {
	ID uuid.UUID

	turn     int
	roster   []*fighter.Fighter
	allies   int
	maxTurns int
	table    stats.Table
	statuses *status.Registry
	logger   *zap.Logger
	observer Observer
	state    State
}

// Build assigns Ally(0..) and Enemy(0..) IDs in roster order and returns a
// fight on turn 0.
//
// Precondition: no fighter is nil and no fighter appears twice.
func Build(allies, enemies []*fighter.Fighter, opts ...Option) *Fight {
	f := &Fight{
		ID:       uuid.New(),
		allies:   len(allies),
		maxTurns: MaxTurns,
		table:    stats.DefaultTable(),
		statuses: status.DefaultRegistry(),
		logger:   zap.NewNop(),
		observer: NopObserver{},
	}
	seen := make(map[*fighter.Fighter]bool, len(allies)+len(enemies))
	for _, fr := range append(append([]*fighter.Fighter{}, allies...), enemies...) {
		if fr == nil {
			panic("fight: Build precondition violated: nil fighter")
		}
		if seen[fr] {
			panic(fmt.Sprintf("fight: Build precondition violated: %q appears twice", fr.Name))
		}
		seen[fr] = true
		f.roster = append(f.roster, fr)
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	f.logger = f.logger.With(zap.String("fight", f.ID.String()))
	return f
}

// Start builds a fight and runs it to completion.
func Start(allies, enemies []*fighter.Fighter, opts ...Option) State {
	return Build(allies, enemies, opts...).Run()
}

// Run steps the fight until it ends.
func (f *Fight) Run() State {
	for {
		if s, done := f.Step(); done {
			return s
		}
	}
}

// Turn returns the current turn number.
func (f *Fight) Turn() int { return f.turn }

// IDs returns every fighter ID in roster order.
func (f *Fight) IDs() []team.ID {
	ids := make([]team.ID, len(f.roster))
	for i := range f.roster {
		ids[i] = f.idAt(i)
	}
	return ids
}

// Fighter returns the fighter with id.
//
// Precondition: id is on the roster; a missing ID panics.
func (f *Fight) Fighter(id team.ID) *fighter.Fighter { return f.roster[f.index(id)] }

// Stat returns the current value of stat for id.
func (f *Fight) Stat(id team.ID, s stats.Stat) int { return f.Fighter(id).Stat(s) }

// Alive reports whether id is alive.
func (f *Fight) Alive(id team.ID) bool { return f.Fighter(id).IsAlive() }

// HasStatus reports whether id carries the status tag.
func (f *Fight) HasStatus(id team.ID, tag string) bool { return f.Fighter(id).HasStatus(tag) }

// State returns the terminal state, or StateNone while the fight runs.
func (f *Fight) State() State { return f.state }

// Order returns this turn's acting order: every ID sorted by current speed,
// fastest first, ties kept in roster order.
func (f *Fight) Order() []team.ID {
	ids := f.IDs()
	sort.SliceStable(ids, func(i, j int) bool {
		return f.Stat(ids[i], stats.Speed) > f.Stat(ids[j], stats.Speed)
	})
	return ids
}

// CheckState returns AlliesVictory when every enemy is dead and
// EnemiesVictory when every ally is dead.
func (f *Fight) CheckState() (State, bool) {
	alliesUp, enemiesUp := false, false
	for _, id := range f.IDs() {
		if !f.Alive(id) {
			continue
		}
		if id.IsAlly() {
			alliesUp = true
		} else {
			enemiesUp = true
		}
	}
	switch {
	case !enemiesUp:
		return AlliesVictory, true
	case !alliesUp:
		return EnemiesVictory, true
	default:
		return StateNone, false
	}
}

// Step plays one turn. It returns the terminal state and true once the
// fight is decided; a decided fight keeps returning its state.
//
// Postcondition: never returns Draw before Turn() > max turns.
func (f *Fight) Step() (State, bool) {
	if f.state != StateNone {
		return f.state, true
	}
	f.turn++
	if f.turn > f.maxTurns {
		return f.finish(Draw)
	}
	f.observer.TurnStarted(f.turn)

	order := f.Order()
	f.logger.Debug("turn started", zap.Int("turn", f.turn), zap.Stringers("order", order))
	for _, id := range order {
		if !f.Alive(id) {
			continue
		}
		f.act(id)
		if s, done := f.CheckState(); done {
			return f.finish(s)
		}
	}
	return StateNone, false
}

func (f *Fight) finish(s State) (State, bool) {
	f.state = s
	f.logger.Debug("fight ended", zap.Int("turn", f.turn), zap.Stringer("state", s))
	f.observer.FightEnded(s)
	return s, true
}

// act runs one fighter's turn: bookkeeping, rule selection, target
// resolution, execution, then application one record at a time.
func (f *Fight) act(id team.ID) {
	changes, expired := f.Fighter(id).StartTurn()
	f.report(id, changes)
	if len(expired) > 0 {
		f.logger.Debug("statuses expired", zap.Stringer("fighter", id), zap.Strings("statuses", expired))
	}

	idx, r := f.Fighter(id).SelectRule(f, id)
	target := r.Action.ResolveTarget(f, id)
	f.logger.Debug("action chosen",
		zap.Int("turn", f.turn),
		zap.Stringer("fighter", id),
		zap.Int("rule", idx),
		zap.Stringer("action", r.Action),
		zap.Stringer("target", target),
	)
	f.observer.ActionChosen(id, idx, r.Action, target)

	for _, o := range f.execute(id, r.Action, target) {
		if o.OnSelf {
			f.apply(id, o.Consequence)
		} else {
			f.apply(target, o.Consequence)
		}
	}
}

// execute turns an action into outcomes. Nothing is mutated here.
func (f *Fight) execute(id team.ID, a rule.Action, target team.ID) []equipment.Outcome {
	switch a.Kind {
	case rule.ActionWait:
		return nil
	case rule.ActionDefense:
		def := f.Fighter(id).Base().Defense
		return []equipment.Outcome{{OnSelf: true, Consequence: equipment.BuffOf(stats.Defense, def, 0)}}
	case rule.ActionAttack:
		performer := f.Fighter(id)
		if target.IsNone() || performer.Weapon == nil {
			return nil
		}
		return performer.Weapon.Use(f.table, performer, f.Fighter(target))
	default:
		panic(fmt.Sprintf("fight: execute precondition violated: unknown action kind %d", int(a.Kind)))
	}
}

// apply lands one consequence on one record. A None target is a no-op.
func (f *Fight) apply(id team.ID, c equipment.Consequence) {
	if id.IsNone() {
		return
	}
	fr := f.Fighter(id)
	wasAlive := fr.IsAlive()
	f.report(id, fr.Apply(c, f.statuses))
	if wasAlive && !fr.IsAlive() {
		f.logger.Debug("fighter down", zap.Int("turn", f.turn), zap.Stringer("fighter", id), zap.String("name", fr.Name))
	}
}

func (f *Fight) report(id team.ID, changes []fighter.Change) {
	for _, ch := range changes {
		f.observer.StatChanged(id, ch.Stat, ch.Before, ch.After)
	}
}

func (f *Fight) idAt(i int) team.ID {
	if i < f.allies {
		return team.Ally(i)
	}
	return team.Enemy(i - f.allies)
}

func (f *Fight) index(id team.ID) int {
	switch {
	case id.IsAlly() && id.Index >= 0 && id.Index < f.allies:
		return id.Index
	case id.Side == team.SideEnemies && id.Index >= 0 && f.allies+id.Index < len(f.roster):
		return f.allies + id.Index
	default:
		panic(fmt.Sprintf("fight: lookup precondition violated: %s is not on the roster", id))
	}
}
