package rule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/yopox/decade-jam/internal/game/rule"
	"github.com/yopox/decade-jam/internal/game/stats"
	"github.com/yopox/decade-jam/internal/game/team"
)

// fakeFighter is one row of a fakeBoard.
type fakeFighter struct {
	id       team.ID
	s        stats.Stats
	statuses []string
}

// fakeBoard is an in-memory rule.Board.
type fakeBoard struct {
	turn     int
	fighters []fakeFighter
}

func (b *fakeBoard) Turn() int { return b.turn }

func (b *fakeBoard) IDs() []team.ID {
	ids := make([]team.ID, len(b.fighters))
	for i, f := range b.fighters {
		ids[i] = f.id
	}
	return ids
}

func (b *fakeBoard) find(id team.ID) fakeFighter {
	for _, f := range b.fighters {
		if f.id == id {
			return f
		}
	}
	panic("fakeBoard: unknown id " + id.String())
}

func (b *fakeBoard) Stat(id team.ID, s stats.Stat) int { return b.find(id).s.Get(s) }

func (b *fakeBoard) HasStatus(id team.ID, tag string) bool {
	for _, s := range b.find(id).statuses {
		if s == tag {
			return true
		}
	}
	return false
}

func skirmish() *fakeBoard {
	return &fakeBoard{turn: 1, fighters: []fakeFighter{
		{id: team.Ally(0), s: stats.Stats{Health: 100, Attack: 5, Speed: 10}},
		{id: team.Ally(1), s: stats.Stats{Health: 40, Attack: 9, Speed: 3}, statuses: []string{"poisoned"}},
		{id: team.Enemy(0), s: stats.Stats{Health: 60, Attack: 8, Speed: 4}},
		{id: team.Enemy(1), s: stats.Stats{Health: 60, Attack: 2, Speed: 12}},
	}}
}

// constant returns a condition that is true iff want is true, on turn 1.
func constant(want bool) rule.Condition {
	if want {
		return rule.OnTurn(1)
	}
	return rule.OnTurn(2)
}

func TestEveryXTurn_ZeroRejected(t *testing.T) {
	_, err := rule.EveryXTurn(0)
	assert.ErrorIs(t, err, rule.ErrZeroModulus)
	assert.Panics(t, func() { rule.MustEveryXTurn(0) })
}

func TestEveryXTurn_ZeroLiteralPanicsOnCheck(t *testing.T) {
	c := rule.Condition{Kind: rule.CondEveryXTurn}
	assert.Error(t, c.Validate())
	assert.Panics(t, func() { c.Check(skirmish(), team.Ally(0)) })
}

func TestEveryXTurn_Property_Modulo(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 60).Draw(rt, "n")
		turn := rapid.IntRange(0, 200).Draw(rt, "turn")
		b := &fakeBoard{turn: turn}
		assert.Equal(rt, turn%n == 0, rule.MustEveryXTurn(n).Check(b, team.Ally(0)))
	})
}

func TestTurnConditions(t *testing.T) {
	b := skirmish()
	b.turn = 5
	assert.True(t, rule.OnTurn(5).Check(b, team.Ally(0)))
	assert.False(t, rule.OnTurn(4).Check(b, team.Ally(0)))
	assert.True(t, rule.FromTurnX(5).Check(b, team.Ally(0)))
	assert.True(t, rule.FromTurnX(1).Check(b, team.Ally(0)))
	assert.False(t, rule.FromTurnX(6).Check(b, team.Ally(0)))
}

func TestHPConditions_CompareResolvedTargetHealth(t *testing.T) {
	b := skirmish()
	assert.True(t, rule.LessXHP(50, rule.AllyLess(stats.Health)).Check(b, team.Ally(0)))
	assert.False(t, rule.LessXHP(30, rule.Them()).Check(b, team.Ally(0)))
	assert.True(t, rule.MoreXHP(99, rule.Them()).Check(b, team.Ally(0)))
	assert.False(t, rule.MoreXHP(100, rule.Them()).Check(b, team.Ally(0)))
	assert.False(t, rule.MoreXHP(60, rule.FoeMost(stats.Health)).Check(b, team.Ally(0)))
}

func TestHPConditions_NoCandidateIsFalse(t *testing.T) {
	b := &fakeBoard{turn: 1, fighters: []fakeFighter{{id: team.Ally(0), s: stats.Stats{Health: 1}}}}
	assert.False(t, rule.LessXHP(1000, rule.FoeLess(stats.Health)).Check(b, team.Ally(0)))
	assert.False(t, rule.MoreXHP(-1, rule.FoeLess(stats.Health)).Check(b, team.Ally(0)))
}

func TestHasStatus(t *testing.T) {
	b := skirmish()
	assert.True(t, rule.HasStatus(rule.AllyLess(stats.Health), "poisoned").Check(b, team.Ally(0)))
	assert.False(t, rule.HasStatus(rule.Them(), "poisoned").Check(b, team.Ally(0)))
	assert.Error(t, rule.HasStatus(rule.Them(), "").Validate())
}

func TestGate_TruthTables(t *testing.T) {
	b := skirmish()
	tests := []struct {
		name string
		gate func(a, c rule.Condition) rule.Gate
		want [4]bool // (F,F) (F,T) (T,F) (T,T)
	}{
		{"AND", rule.And, [4]bool{false, false, false, true}},
		{"NAND", rule.Nand, [4]bool{true, true, true, false}},
		{"OR", rule.Or, [4]bool{false, true, true, true}},
		{"XOR", rule.Xor, [4]bool{false, true, true, false}},
		{"NOR", rule.Nor, [4]bool{true, false, false, false}},
		{"NXOR", rule.Nxor, [4]bool{true, false, false, true}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			i := 0
			for _, a := range []bool{false, true} {
				for _, c := range []bool{false, true} {
					got := tc.gate(constant(a), constant(c)).Check(b, team.Ally(0))
					assert.Equal(t, tc.want[i], got, "%s(%v, %v)", tc.name, a, c)
					i++
				}
			}
		})
	}
	assert.True(t, rule.ID(constant(true)).Check(b, team.Ally(0)))
	assert.False(t, rule.ID(constant(false)).Check(b, team.Ally(0)))
	assert.False(t, rule.Not(constant(true)).Check(b, team.Ally(0)))
	assert.True(t, rule.Not(constant(false)).Check(b, team.Ally(0)))
}

func TestGate_Property_NxorIsNegatedXor(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := constant(rapid.Bool().Draw(rt, "a"))
		c := constant(rapid.Bool().Draw(rt, "c"))
		b := skirmish()
		assert.Equal(rt, !rule.Xor(a, c).Check(b, team.Ally(0)), rule.Nxor(a, c).Check(b, team.Ally(0)))
		assert.Equal(rt, !rule.Or(a, c).Check(b, team.Ally(0)), rule.Nor(a, c).Check(b, team.Ally(0)))
		assert.Equal(rt, !rule.And(a, c).Check(b, team.Ally(0)), rule.Nand(a, c).Check(b, team.Ally(0)))
	})
}

func TestGate_Arity(t *testing.T) {
	_, err := rule.NewGate(rule.OpAND, constant(true))
	assert.ErrorIs(t, err, rule.ErrArity)
	_, err = rule.NewGate(rule.OpNOT, constant(true), constant(false))
	assert.ErrorIs(t, err, rule.ErrArity)
	_, err = rule.NewGate(rule.OpUnknown)
	assert.Error(t, err)

	g, err := rule.NewGate(rule.OpXOR, constant(true), constant(false))
	require.NoError(t, err)
	assert.Equal(t, rule.Xor(constant(true), constant(false)), g)

	malformed := rule.Gate{Op: rule.OpOR, A: constant(true)}
	assert.ErrorIs(t, malformed.Validate(), rule.ErrArity)
	assert.Panics(t, func() { malformed.Check(skirmish(), team.Ally(0)) })
}

func TestTarget_Resolve(t *testing.T) {
	b := skirmish()
	tests := []struct {
		name   string
		target rule.Target
		active team.ID
		want   team.ID
	}{
		{"them", rule.Them(), team.Ally(1), team.Ally(1)},
		{"ally most attack", rule.AllyMost(stats.Attack), team.Ally(0), team.Ally(1)},
		{"ally less speed", rule.AllyLess(stats.Speed), team.Ally(0), team.Ally(1)},
		{"foe less hp tie picks first", rule.FoeLess(stats.Health), team.Ally(0), team.Enemy(0)},
		{"foe most hp tie picks first", rule.FoeMost(stats.Health), team.Ally(0), team.Enemy(0)},
		{"foe most speed", rule.FoeMost(stats.Speed), team.Ally(1), team.Enemy(1)},
		{"enemy sees allies as foes", rule.FoeLess(stats.Health), team.Enemy(1), team.Ally(1)},
		{"enemy ally partition", rule.AllyLess(stats.Attack), team.Enemy(0), team.Enemy(1)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.target.Resolve(b, tc.active))
		})
	}
}

func TestTarget_Resolve_KeepsDead(t *testing.T) {
	b := skirmish()
	b.fighters[2].s.Health = 0
	assert.Equal(t, team.Enemy(0), rule.FoeLess(stats.Health).Resolve(b, team.Ally(0)))
	assert.True(t, rule.LessXHP(1, rule.FoeLess(stats.Health)).Check(b, team.Ally(0)))
}

func TestTarget_Resolve_EmptyPartitionIsNone(t *testing.T) {
	b := &fakeBoard{turn: 1, fighters: []fakeFighter{{id: team.Ally(0), s: stats.Stats{Health: 5}}}}
	assert.Equal(t, team.None, rule.FoeMost(stats.Attack).Resolve(b, team.Ally(0)))
	assert.Equal(t, team.Ally(0), rule.AllyMost(stats.Attack).Resolve(b, team.Ally(0)))
}

func TestTarget_Resolve_Property_PicksExtremum(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 6).Draw(rt, "enemies")
		b := &fakeBoard{turn: 1, fighters: []fakeFighter{{id: team.Ally(0), s: stats.Stats{Health: 1}}}}
		for i := 0; i < n; i++ {
			b.fighters = append(b.fighters, fakeFighter{
				id: team.Enemy(i),
				s:  stats.Stats{Health: 1, Speed: rapid.IntRange(0, 5).Draw(rt, "speed")},
			})
		}
		got := rule.FoeMost(stats.Speed).Resolve(b, team.Ally(0))
		require.False(rt, got.IsNone())
		best := b.Stat(got, stats.Speed)
		for _, f := range b.fighters[1:] {
			assert.LessOrEqual(rt, f.s.Speed, best)
			if f.s.Speed == best {
				assert.Equal(rt, f.id, got, "first maximal element must win")
				break
			}
		}
	})
}

func TestAction_ResolveTarget(t *testing.T) {
	b := skirmish()
	assert.Equal(t, team.Ally(0), rule.Wait().ResolveTarget(b, team.Ally(0)))
	assert.Equal(t, team.Ally(0), rule.Defense().ResolveTarget(b, team.Ally(0)))
	assert.Equal(t, team.Enemy(1), rule.Attack(rule.FoeLess(stats.Attack)).ResolveTarget(b, team.Ally(0)))
	assert.Error(t, rule.Action{}.Validate())
	assert.Error(t, rule.Attack(rule.Target{}).Validate())
}

func TestSelect_FirstMatchWins(t *testing.T) {
	b := skirmish()
	b.turn = 4
	rules := []rule.Rule{
		{Gate: rule.ID(rule.OnTurn(3)), Action: rule.Defense()},
		{Gate: rule.ID(rule.MustEveryXTurn(2)), Action: rule.Attack(rule.FoeLess(stats.Health))},
		{Gate: rule.ID(rule.MustEveryXTurn(4)), Action: rule.Defense()},
	}
	idx, r := rule.Select(rules, rule.Default(), b, team.Ally(0))
	assert.Equal(t, 1, idx)
	assert.Equal(t, rules[1], r)
}

func TestSelect_FallsBackToDefault(t *testing.T) {
	b := skirmish()
	b.turn = 7
	rules := []rule.Rule{{Gate: rule.ID(rule.MustEveryXTurn(2)), Action: rule.Defense()}}
	idx, r := rule.Select(rules, rule.Default(), b, team.Ally(0))
	assert.Equal(t, rule.DefaultIndex, idx)
	assert.Equal(t, rule.Default(), r)

	idx, _ = rule.Select(nil, rule.Default(), b, team.Ally(0))
	assert.Equal(t, rule.DefaultIndex, idx)
}

func TestDefault_AlwaysHolds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		b := skirmish()
		b.turn = rapid.IntRange(0, 100).Draw(rt, "turn")
		d := rule.Default()
		assert.True(rt, d.Gate.Check(b, team.Ally(0)))
		assert.Equal(rt, rule.ActionWait, d.Action.Kind)
	})
}
