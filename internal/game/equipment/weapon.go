package equipment

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yopox/decade-jam/internal/game/stats"
)

// Combatant is the read-only view of a fighter a weapon needs.
type Combatant interface {
	CurrentStats() stats.Stats
	IsAlive() bool
}

// Weapon bundles named effects. Weapons are closed data: every behavior is
// expressed through the Effect variants, never through per-weapon code.
type Weapon struct {
	ID      string
	Name    string
	Effects []Effect
}

// Validate checks that the Weapon satisfies its invariants.
// Postcondition: returns nil iff all fields are valid.
func (w *Weapon) Validate() error {
	var errs []error
	if w.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if w.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if len(w.Effects) == 0 {
		errs = append(errs, errors.New("Effects must not be empty"))
	}
	for i, e := range w.Effects {
		if err := e.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("effect %d: %w", i, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon %q: %w", w.ID, errors.Join(errs...))
	}
	return nil
}

// Use maps every effect of w into an outcome for the (user, target) pair.
// A dead target yields no outcomes.
//
// Precondition: table must hold a profile for every attack effect.
// Postcondition: len(result) <= len(w.Effects).
func (w *Weapon) Use(table stats.Table, user, target Combatant) []Outcome {
	if !target.IsAlive() {
		return nil
	}
	out := make([]Outcome, 0, len(w.Effects))
	for _, e := range w.Effects {
		switch e.Kind {
		case EffectAttack:
			defender := target
			if e.OnSelf {
				defender = user
			}
			atk := table.Attack(user.CurrentStats(), e.Element, e.AttackType)
			def := table.Defense(defender.CurrentStats(), e.Element, e.AttackType)
			out = append(out, Outcome{OnSelf: e.OnSelf, Consequence: DamageOf(atk, def, e.Damage)})
		case EffectHeal:
			out = append(out, Outcome{OnSelf: e.OnSelf, Consequence: HealOf(e.Amount)})
		case EffectBoost:
			out = append(out, Outcome{OnSelf: e.OnSelf, Consequence: BuffOf(e.Stat, e.Amount, e.Duration)})
		case EffectInflict:
			out = append(out, Outcome{OnSelf: e.OnSelf, Consequence: StatusOf(e.Status, e.Duration)})
		}
	}
	return out
}

// effectDef is the YAML shape of an Effect.
type effectDef struct {
	Kind       string `yaml:"kind"`
	OnSelf     bool   `yaml:"on_self"`
	AttackType string `yaml:"attack_type"`
	Element    string `yaml:"element"`
	Damage     int    `yaml:"damage"`
	Amount     int    `yaml:"amount"`
	Stat       string `yaml:"stat"`
	Duration   int    `yaml:"duration"`
	Status     string `yaml:"status"`
}

// weaponDef is the YAML shape of a Weapon.
type weaponDef struct {
	ID      string      `yaml:"id"`
	Name    string      `yaml:"name"`
	Effects []effectDef `yaml:"effects"`
}

func (d effectDef) toEffect() (Effect, error) {
	switch strings.ToLower(d.Kind) {
	case "attack":
		k := stats.Physical
		if d.AttackType != "" {
			var err error
			if k, err = stats.ParseAttackType(d.AttackType); err != nil {
				return Effect{}, err
			}
		}
		e := stats.Neutral
		if d.Element != "" {
			var err error
			if e, err = stats.ParseElement(d.Element); err != nil {
				return Effect{}, err
			}
		}
		eff := Attack(k, e, d.Damage)
		eff.OnSelf = d.OnSelf
		return eff, nil
	case "heal":
		return Heal(d.OnSelf, d.Amount), nil
	case "boost":
		s, err := stats.ParseStat(d.Stat)
		if err != nil {
			return Effect{}, err
		}
		return Boost(d.OnSelf, s, d.Amount, d.Duration), nil
	case "inflict":
		return Inflict(d.OnSelf, d.Status, d.Duration), nil
	}
	return Effect{}, fmt.Errorf("unknown effect kind %q", d.Kind)
}

// ParseWeapon decodes a single YAML weapon document.
//
// Postcondition: Returns a validated Weapon or a non-nil error.
func ParseWeapon(data []byte) (*Weapon, error) {
	var def weaponDef
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("decoding weapon: %w", err)
	}
	w := &Weapon{ID: def.ID, Name: def.Name}
	for i, ed := range def.Effects {
		e, err := ed.toEffect()
		if err != nil {
			return nil, fmt.Errorf("weapon %q effect %d: %w", def.ID, i, err)
		}
		w.Effects = append(w.Effects, e)
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// LoadWeapons reads every .yaml/.yml file in dir as a Weapon.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all weapons or the first error encountered.
func LoadWeapons(dir string) ([]*Weapon, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading weapon dir %q: %w", dir, err)
	}
	var weapons []*Weapon
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !(strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			continue
		}
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		w, err := ParseWeapon(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		weapons = append(weapons, w)
	}
	return weapons, nil
}
