// Package catalog holds fighter, weapon and rule content: the built-in set
// plus whatever a content directory adds or overrides.
package catalog

import (
	"github.com/yopox/decade-jam/internal/game/equipment"
	"github.com/yopox/decade-jam/internal/game/rule"
	"github.com/yopox/decade-jam/internal/game/stats"
)

// Built-in content IDs.
const (
	Arches      = "arches"
	Bat         = "bat"
	WoodenSword = "wooden_sword"
	FireRod     = "fire_rod"
)

// Named rules usable by name in fighter definitions.
var namedRules = map[string]string{
	"wait":    "ID EXT 1 W",
	"defense": "ID EXT 1 DEF",
	"attack2": "ID EXT 2 ATK FO- HP",
	"careful": "AND EXT 2 HP< 30 SLF DEF",
}

// NamedRule returns the built-in rule called name ("wait", "defense",
// "attack2" or "careful").
func NamedRule(name string) (rule.Rule, bool) {
	s, ok := namedRules[name]
	if !ok {
		return rule.Rule{}, false
	}
	return rule.MustParse(s), true
}

func builtinWeapons() []*equipment.Weapon {
	return []*equipment.Weapon{
		{
			ID:      WoodenSword,
			Name:    "Wooden Sword",
			Effects: []equipment.Effect{equipment.Attack(stats.Physical, stats.Natural, 10)},
		},
		{
			ID:   FireRod,
			Name: "Fire Rod",
			Effects: []equipment.Effect{
				equipment.Attack(stats.Magical, stats.Demonic, 15),
				equipment.Boost(false, stats.Defense, -5, 1),
			},
		},
	}
}

func builtinFighters() []*FighterDef {
	return []*FighterDef{
		{
			ID:     Arches,
			Name:   "Arches",
			Stats:  stats.Stats{Health: 100, Attack: 5, Defense: 10, Nature: 10, Demon: 0, Speed: 10},
			Rules:  []string{"attack2"},
			Weapon: WoodenSword,
		},
		{
			ID:     Bat,
			Name:   "Bat",
			Stats:  stats.Stats{Health: 60, Attack: 8, Defense: 15, Nature: 5, Demon: 8, Speed: 4},
			Rules:  []string{"attack2"},
			Weapon: WoodenSword,
		},
	}
}

func builtinMatchups() []Matchup {
	return []Matchup{{Name: "arches-vs-bat", Allies: []string{Arches}, Enemies: []string{Bat}}}
}
