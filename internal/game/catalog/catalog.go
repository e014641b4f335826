package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yopox/decade-jam/internal/game/equipment"
	"github.com/yopox/decade-jam/internal/game/fighter"
	"github.com/yopox/decade-jam/internal/game/rule"
	"github.com/yopox/decade-jam/internal/game/stats"
	"github.com/yopox/decade-jam/internal/game/status"
)

// FighterDef is the YAML template a fighter is instantiated from.
// Rules and Default hold either a named rule or rune notation.
type FighterDef struct {
	ID      string      `yaml:"id"`
	Name    string      `yaml:"name"`
	Stats   stats.Stats `yaml:"stats"`
	Rules   []string    `yaml:"rules"`
	Default string      `yaml:"default"` // empty = wait
	Weapon  string      `yaml:"weapon"`  // empty = unarmed
}

// Validate checks the fields that need no other content.
func (d *FighterDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if err := d.Stats.Validate(); err != nil {
		errs = append(errs, err)
	}
	if d.Stats.Health <= 0 {
		errs = append(errs, fmt.Errorf("health must be > 0, got %d", d.Stats.Health))
	}
	for i, s := range d.Rules {
		if _, err := resolveRule(s); err != nil {
			errs = append(errs, fmt.Errorf("rule %d: %w", i, err))
		}
	}
	if d.Default != "" {
		if _, err := resolveRule(d.Default); err != nil {
			errs = append(errs, fmt.Errorf("default rule: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("fighter %q: %w", d.ID, errors.Join(errs...))
	}
	return nil
}

func resolveRule(s string) (rule.Rule, error) {
	if r, ok := NamedRule(strings.ToLower(strings.TrimSpace(s))); ok {
		return r, nil
	}
	return rule.Parse(s)
}

// Matchup names the rosters of one fight by fighter ID.
type Matchup struct {
	Name    string   `yaml:"name"`
	Allies  []string `yaml:"allies"`
	Enemies []string `yaml:"enemies"`
}

type matchupsFile struct {
	Matchups []Matchup `yaml:"matchups"`
}

// Catalog is the content a simulation draws fighters from.
type Catalog struct {
	fighters map[string]*FighterDef
	weapons  map[string]*equipment.Weapon
	statuses *status.Registry
	matchups []Matchup
}

// Builtin returns a catalog holding only the built-in content.
func Builtin() *Catalog {
	c := &Catalog{
		fighters: make(map[string]*FighterDef),
		weapons:  make(map[string]*equipment.Weapon),
		statuses: status.DefaultRegistry(),
		matchups: builtinMatchups(),
	}
	for _, w := range builtinWeapons() {
		c.weapons[w.ID] = w
	}
	for _, d := range builtinFighters() {
		c.fighters[d.ID] = d
	}
	return c
}

// Load returns the built-in content overlaid with the content of dir:
// fighters/*.yaml, weapons/*.yaml, statuses/*.yaml and matchups.yaml.
// Each part is optional. A loaded entry replaces a built-in with the same ID;
// a matchups.yaml replaces the built-in matchups.
//
// Postcondition: Returns a catalog with Validate() == nil, or an error.
func Load(dir string) (*Catalog, error) {
	c := Builtin()

	if sub := filepath.Join(dir, "statuses"); isDir(sub) {
		reg, err := status.LoadDirectory(sub)
		if err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		c.statuses = reg
	}

	if sub := filepath.Join(dir, "weapons"); isDir(sub) {
		weapons, err := equipment.LoadWeapons(sub)
		if err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		for _, w := range weapons {
			c.weapons[w.ID] = w
		}
	}

	if sub := filepath.Join(dir, "fighters"); isDir(sub) {
		paths, err := yamlFiles(sub)
		if err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		for _, p := range paths {
			var d FighterDef
			if err := decodeFile(p, &d); err != nil {
				return nil, fmt.Errorf("catalog: %w", err)
			}
			c.fighters[d.ID] = &d
		}
	}

	path := filepath.Join(dir, "matchups.yaml")
	if _, err := os.Stat(path); err == nil {
		var mf matchupsFile
		if err := decodeFile(path, &mf); err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		c.matchups = mf.Matchups
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("catalog: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks every definition and every cross reference.
func (c *Catalog) Validate() error {
	var errs []error
	for _, id := range c.FighterIDs() {
		d := c.fighters[id]
		if err := d.Validate(); err != nil {
			errs = append(errs, err)
		}
		if _, ok := c.weapons[d.Weapon]; d.Weapon != "" && !ok {
			errs = append(errs, fmt.Errorf("fighter %q: unknown weapon %q", id, d.Weapon))
		}
	}
	for _, id := range c.WeaponIDs() {
		w := c.weapons[id]
		if err := w.Validate(); err != nil {
			errs = append(errs, err)
		}
		for _, e := range w.Effects {
			if _, ok := c.statuses.Get(e.Status); e.Kind == equipment.EffectInflict && !ok {
				errs = append(errs, fmt.Errorf("weapon %q: unknown status %q", id, e.Status))
			}
		}
	}
	for i, m := range c.matchups {
		if m.Name == "" {
			errs = append(errs, fmt.Errorf("matchup %d: name must not be empty", i))
		}
		for _, id := range append(append([]string{}, m.Allies...), m.Enemies...) {
			if _, ok := c.fighters[id]; !ok {
				errs = append(errs, fmt.Errorf("matchup %q: unknown fighter %q", m.Name, id))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("catalog: invalid content: %w", errors.Join(errs...))
	}
	return nil
}

// FighterIDs returns every fighter ID, sorted.
func (c *Catalog) FighterIDs() []string { return sortedKeys(c.fighters) }

// WeaponIDs returns every weapon ID, sorted.
func (c *Catalog) WeaponIDs() []string { return sortedKeys(c.weapons) }

// Weapon returns the weapon with id.
func (c *Catalog) Weapon(id string) (*equipment.Weapon, bool) {
	w, ok := c.weapons[id]
	return w, ok
}

// FighterDef returns the template with id.
func (c *Catalog) FighterDef(id string) (*FighterDef, bool) {
	d, ok := c.fighters[id]
	return d, ok
}

// Statuses returns the status registry weapons resolve against.
func (c *Catalog) Statuses() *status.Registry { return c.statuses }

// Matchups returns the configured matchups.
func (c *Catalog) Matchups() []Matchup { return c.matchups }

// Fighter instantiates a fresh fighter from the template with id.
func (c *Catalog) Fighter(id string) (*fighter.Fighter, error) {
	d, ok := c.fighters[id]
	if !ok {
		return nil, fmt.Errorf("catalog: unknown fighter %q", id)
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	rules := make([]rule.Rule, 0, len(d.Rules))
	for _, s := range d.Rules {
		r, _ := resolveRule(s)
		rules = append(rules, r)
	}
	def := rule.Default()
	if d.Default != "" {
		def, _ = resolveRule(d.Default)
	}
	var w *equipment.Weapon
	if d.Weapon != "" {
		if w, ok = c.weapons[d.Weapon]; !ok {
			return nil, fmt.Errorf("catalog: fighter %q: unknown weapon %q", id, d.Weapon)
		}
	}
	return fighter.New(d.Name, d.Stats, rules, def, w), nil
}

// Roster instantiates one fresh fighter per ID, in order.
func (c *Catalog) Roster(ids []string) ([]*fighter.Fighter, error) {
	out := make([]*fighter.Fighter, 0, len(ids))
	for _, id := range ids {
		f, err := c.Fighter(id)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths, nil
}

func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}
