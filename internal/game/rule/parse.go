package rule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yopox/decade-jam/internal/game/stats"
)

// Parse errors.
var (
	ErrUnexpectedEnd  = errors.New("rule: unexpected end of rule")
	ErrTrailingTokens = errors.New("rule: trailing tokens after action")
	ErrUnknownRune    = errors.New("rule: unknown rune")
)

var gateRunes = map[string]Op{
	"ID":   OpID,
	"NOT":  OpNOT,
	"AND":  OpAND,
	"NAND": OpNAND,
	"OR":   OpOR,
	"XOR":  OpXOR,
	"NOR":  OpNOR,
	"NXOR": OpNXOR,
}

var targetRunes = map[string]TargetKind{
	"AL+": TargetAllyMost,
	"AL-": TargetAllyLess,
	"FO+": TargetFoeMost,
	"FO-": TargetFoeLess,
}

// Parse reads a rule in rune notation, e.g. "AND EXT 2 HP< 30 SLF DEF".
// Runes are separated by whitespace and every rune must be consumed.
//
//	rule      = gate action
//	gate      = ("ID" | "NOT") condition | binop condition condition
//	binop     = "AND" | "NAND" | "OR" | "XOR" | "NOR" | "NXOR"
//	condition = "EXT" n | "T=" n | "T>" n | ("HP<" | "HP>") n target | "ST" target status
//	action    = "ATK" target | "DEF" | "W"
//	target    = "SLF" | ("AL+" | "AL-" | "FO+" | "FO-") stat
//	stat      = "HP" | "ATK" | "DEF" | "SPD" | "NAT" | "DEM"
//
// "T> n" is inclusive: it holds from turn n onwards.
//
// Postcondition: Returns a rule with Validate() == nil, or a zero Rule and a non-nil error.
func Parse(s string) (Rule, error) {
	p := &parser{src: s, tokens: strings.Fields(s)}
	r, err := p.rule()
	if err != nil {
		return Rule{}, err
	}
	if p.pos < len(p.tokens) {
		return Rule{}, fmt.Errorf("%w in %q: %q", ErrTrailingTokens, s, strings.Join(p.tokens[p.pos:], " "))
	}
	return r, nil
}

// MustParse is Parse for literals; it panics on error.
func MustParse(s string) Rule {
	r, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return r
}

// ParseAction reads an action alone, e.g. "ATK FO- HP".
func ParseAction(s string) (Action, error) {
	p := &parser{src: s, tokens: strings.Fields(s)}
	a, err := p.action()
	if err != nil {
		return Action{}, err
	}
	if p.pos < len(p.tokens) {
		return Action{}, fmt.Errorf("%w in %q: %q", ErrTrailingTokens, s, strings.Join(p.tokens[p.pos:], " "))
	}
	return a, nil
}

type parser struct {
	src    string
	tokens []string
	pos    int
}

func (p *parser) next() (string, error) {
	if p.pos >= len(p.tokens) {
		return "", fmt.Errorf("%w in %q", ErrUnexpectedEnd, p.src)
	}
	tok := p.tokens[p.pos]
	p.pos++
	return tok, nil
}

func (p *parser) unknown(what, tok string) error {
	return fmt.Errorf("%w: %q is not a %s (in %q)", ErrUnknownRune, tok, what, p.src)
}

func (p *parser) rule() (Rule, error) {
	g, err := p.gate()
	if err != nil {
		return Rule{}, err
	}
	a, err := p.action()
	if err != nil {
		return Rule{}, err
	}
	return Rule{Gate: g, Action: a}, nil
}

func (p *parser) gate() (Gate, error) {
	tok, err := p.next()
	if err != nil {
		return Gate{}, err
	}
	op, ok := gateRunes[tok]
	if !ok {
		return Gate{}, p.unknown("gate", tok)
	}
	conds := make([]Condition, 0, op.Arity())
	for i := 0; i < op.Arity(); i++ {
		c, err := p.condition()
		if err != nil {
			return Gate{}, err
		}
		conds = append(conds, c)
	}
	return NewGate(op, conds...)
}

func (p *parser) condition() (Condition, error) {
	tok, err := p.next()
	if err != nil {
		return Condition{}, err
	}
	switch tok {
	case "EXT", "T=", "T>":
		n, err := p.number()
		if err != nil {
			return Condition{}, err
		}
		switch tok {
		case "EXT":
			return EveryXTurn(n)
		case "T=":
			return OnTurn(n), nil
		default:
			return FromTurnX(n), nil
		}
	case "HP<", "HP>":
		n, err := p.number()
		if err != nil {
			return Condition{}, err
		}
		t, err := p.target()
		if err != nil {
			return Condition{}, err
		}
		if tok == "HP<" {
			return LessXHP(n, t), nil
		}
		return MoreXHP(n, t), nil
	case "ST":
		t, err := p.target()
		if err != nil {
			return Condition{}, err
		}
		tag, err := p.next()
		if err != nil {
			return Condition{}, err
		}
		return HasStatus(t, strings.ToLower(tag)), nil
	}
	return Condition{}, p.unknown("condition", tok)
}

func (p *parser) action() (Action, error) {
	tok, err := p.next()
	if err != nil {
		return Action{}, err
	}
	switch tok {
	case "ATK":
		t, err := p.target()
		if err != nil {
			return Action{}, err
		}
		return Attack(t), nil
	case "DEF":
		return Defense(), nil
	case "W":
		return Wait(), nil
	}
	return Action{}, p.unknown("action", tok)
}

func (p *parser) target() (Target, error) {
	tok, err := p.next()
	if err != nil {
		return Target{}, err
	}
	if tok == "SLF" {
		return Them(), nil
	}
	kind, ok := targetRunes[tok]
	if !ok {
		return Target{}, p.unknown("target", tok)
	}
	s, err := p.stat()
	if err != nil {
		return Target{}, err
	}
	return Target{Kind: kind, Stat: s}, nil
}

func (p *parser) stat() (stats.Stat, error) {
	tok, err := p.next()
	if err != nil {
		return 0, err
	}
	for _, s := range stats.All {
		if s.String() == tok {
			return s, nil
		}
	}
	return 0, p.unknown("stat", tok)
}

func (p *parser) number() (int, error) {
	tok, err := p.next()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(tok)
	if err != nil || n < 0 {
		return 0, p.unknown("number", tok)
	}
	return n, nil
}

// String returns the rune spelling of the condition.
func (c Condition) String() string {
	switch c.Kind {
	case CondEveryXTurn:
		return fmt.Sprintf("EXT %d", c.N)
	case CondOnTurn:
		return fmt.Sprintf("T= %d", c.N)
	case CondFromTurnX:
		return fmt.Sprintf("T> %d", c.N)
	case CondLessXHP:
		return fmt.Sprintf("HP< %d %s", c.N, c.Target)
	case CondMoreXHP:
		return fmt.Sprintf("HP> %d %s", c.N, c.Target)
	case CondHasStatus:
		return fmt.Sprintf("ST %s %s", c.Target, c.Status)
	default:
		return "???"
	}
}

// String returns the rune spelling of the gate.
func (g Gate) String() string {
	parts := []string{g.Op.String()}
	for _, c := range g.Conditions() {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, " ")
}

// Format renders r in rune notation.
func Format(r Rule) string {
	return r.Gate.String() + " " + r.Action.String()
}
