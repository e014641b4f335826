// Package transcript writes fights as a line-oriented log and reads such
// logs back for replay checks.
//
//	- TURN 3
//	! [A0] 1 -> ATK FO- HP
//	: [E0] HP 60 -> 53
//	= WON
package transcript

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yopox/decade-jam/internal/game/fight"
	"github.com/yopox/decade-jam/internal/game/rule"
	"github.com/yopox/decade-jam/internal/game/stats"
	"github.com/yopox/decade-jam/internal/game/team"
)

// ErrMalformed is returned for a line that matches no transcript form.
var ErrMalformed = errors.New("transcript: malformed line")

// Kind identifies the form of a Line.
type Kind int

const (
	KindUnknown Kind = iota
	KindTurn
	KindAction
	KindStat
	KindEnd
)

// Line is one parsed transcript line. Only the fields of its Kind are set.
type Line struct {
	Kind Kind

	// KindTurn
	Turn int

	// KindAction, KindStat
	ID team.ID

	// KindAction
	RuleIndex int
	Action    rule.Action

	// KindStat
	Stat   stats.Stat
	Before int
	After  int

	// KindEnd
	Result fight.State
}

var resultWords = map[fight.State]string{
	fight.AlliesVictory:  "WON",
	fight.EnemiesVictory: "LOST",
	fight.Draw:           "DRAW",
}

// String renders the line in transcript form.
func (l Line) String() string {
	switch l.Kind {
	case KindTurn:
		return fmt.Sprintf("- TURN %d", l.Turn)
	case KindAction:
		return fmt.Sprintf("! [%s] %d -> %s", l.ID, l.RuleIndex, l.Action)
	case KindStat:
		return fmt.Sprintf(": [%s] %s %d -> %d", l.ID, l.Stat, l.Before, l.After)
	case KindEnd:
		return "= " + resultWords[l.Result]
	default:
		return "?"
	}
}

// ParseLine reads one transcript line.
func ParseLine(s string) (Line, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[1] != ' ' {
		return Line{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	body := s[2:]
	var (
		l   Line
		err error
	)
	switch s[0] {
	case '-':
		l, err = parseTurn(body)
	case '!':
		l, err = parseAction(body)
	case ':':
		l, err = parseStat(body)
	case '=':
		l, err = parseEnd(body)
	default:
		err = errors.New("unknown line marker")
	}
	if err != nil {
		return Line{}, fmt.Errorf("%w %q: %v", ErrMalformed, s, err)
	}
	return l, nil
}

func parseTurn(body string) (Line, error) {
	n, ok := strings.CutPrefix(body, "TURN ")
	if !ok {
		return Line{}, errors.New("expected TURN")
	}
	turn, err := strconv.Atoi(n)
	if err != nil || turn < 1 {
		return Line{}, fmt.Errorf("bad turn %q", n)
	}
	return Line{Kind: KindTurn, Turn: turn}, nil
}

// cutID splits "[A0] rest" into the ID and rest.
func cutID(body string) (team.ID, string, error) {
	if !strings.HasPrefix(body, "[") {
		return team.None, "", errors.New("expected [id]")
	}
	raw, rest, ok := strings.Cut(body[1:], "] ")
	if !ok {
		return team.None, "", errors.New("unterminated [id]")
	}
	id, err := team.ParseID(raw)
	if err != nil {
		return team.None, "", err
	}
	if id.IsNone() {
		return team.None, "", errors.New("line subject cannot be --")
	}
	return id, rest, nil
}

func parseAction(body string) (Line, error) {
	id, rest, err := cutID(body)
	if err != nil {
		return Line{}, err
	}
	idx, action, ok := strings.Cut(rest, " -> ")
	if !ok {
		return Line{}, errors.New("expected ->")
	}
	n, err := strconv.Atoi(idx)
	if err != nil || n < rule.DefaultIndex {
		return Line{}, fmt.Errorf("bad rule index %q", idx)
	}
	a, err := rule.ParseAction(action)
	if err != nil {
		return Line{}, err
	}
	return Line{Kind: KindAction, ID: id, RuleIndex: n, Action: a}, nil
}

func parseStat(body string) (Line, error) {
	id, rest, err := cutID(body)
	if err != nil {
		return Line{}, err
	}
	f := strings.Fields(rest)
	if len(f) != 4 || f[2] != "->" {
		return Line{}, errors.New("expected STAT before -> after")
	}
	s, err := stats.ParseStat(f[0])
	if err != nil {
		return Line{}, err
	}
	before, err1 := strconv.Atoi(f[1])
	after, err2 := strconv.Atoi(f[3])
	if err1 != nil || err2 != nil {
		return Line{}, errors.New("stat values must be integers")
	}
	return Line{Kind: KindStat, ID: id, Stat: s, Before: before, After: after}, nil
}

func parseEnd(body string) (Line, error) {
	for s, w := range resultWords {
		if body == w {
			return Line{Kind: KindEnd, Result: s}, nil
		}
	}
	return Line{}, fmt.Errorf("unknown result %q", body)
}
