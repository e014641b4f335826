package fight

import (
	"fmt"

	"github.com/yopox/decade-jam/internal/game/rule"
	"github.com/yopox/decade-jam/internal/game/stats"
	"github.com/yopox/decade-jam/internal/game/team"
)

// State is the terminal result of a fight.
// The zero value (StateNone) means the fight is undecided.
type State int

const (
	StateNone State = iota
	AlliesVictory
	EnemiesVictory
	Draw
)

// String returns a human-readable state label.
func (s State) String() string {
	switch s {
	case StateNone:
		return "undecided"
	case AlliesVictory:
		return "allies victory"
	case EnemiesVictory:
		return "enemies victory"
	case Draw:
		return "draw"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Observer receives fight events as they happen. Implementations must not
// mutate the fight; the scheduler ignores anything they do.
type Observer interface {
	TurnStarted(turn int)
	ActionChosen(id team.ID, ruleIndex int, action rule.Action, target team.ID)
	StatChanged(id team.ID, stat stats.Stat, before, after int)
	FightEnded(state State)
}

// NopObserver discards every event.
type NopObserver struct{}

func (NopObserver) TurnStarted(int)                                 {}
func (NopObserver) ActionChosen(team.ID, int, rule.Action, team.ID) {}
func (NopObserver) StatChanged(team.ID, stats.Stat, int, int)       {}
func (NopObserver) FightEnded(State)                                {}

// Observers fans every event out to each observer in order.
type Observers []Observer

func (o Observers) TurnStarted(turn int) {
	for _, obs := range o {
		obs.TurnStarted(turn)
	}
}

func (o Observers) ActionChosen(id team.ID, ruleIndex int, action rule.Action, target team.ID) {
	for _, obs := range o {
		obs.ActionChosen(id, ruleIndex, action, target)
	}
}

func (o Observers) StatChanged(id team.ID, stat stats.Stat, before, after int) {
	for _, obs := range o {
		obs.StatChanged(id, stat, before, after)
	}
}

func (o Observers) FightEnded(state State) {
	for _, obs := range o {
		obs.FightEnded(state)
	}
}
