package transcript

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yopox/decade-jam/internal/game/fight"
	"github.com/yopox/decade-jam/internal/game/rule"
	"github.com/yopox/decade-jam/internal/game/stats"
	"github.com/yopox/decade-jam/internal/game/team"
)

// Writer is a fight.Observer printing every event as a transcript line.
// The first write error is kept and every later event is dropped.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter returns a Writer printing to w.
func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

// Err returns the first write error, if any.
func (t *Writer) Err() error { return t.err }

func (t *Writer) emit(l Line) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintln(t.w, l.String())
}

func (t *Writer) TurnStarted(turn int) {
	t.emit(Line{Kind: KindTurn, Turn: turn})
}

func (t *Writer) ActionChosen(id team.ID, ruleIndex int, action rule.Action, _ team.ID) {
	t.emit(Line{Kind: KindAction, ID: id, RuleIndex: ruleIndex, Action: action})
}

func (t *Writer) StatChanged(id team.ID, stat stats.Stat, before, after int) {
	t.emit(Line{Kind: KindStat, ID: id, Stat: stat, Before: before, After: after})
}

func (t *Writer) FightEnded(state fight.State) {
	t.emit(Line{Kind: KindEnd, Result: state})
}

// Parse reads a whole transcript. Blank lines are skipped.
func Parse(r io.Reader) ([]Line, error) {
	var lines []Line
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		if strings.TrimSpace(sc.Text()) == "" {
			continue
		}
		l, err := ParseLine(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		lines = append(lines, l)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("transcript: reading: %w", err)
	}
	return lines, nil
}

type statKey struct {
	id   team.ID
	stat stats.Stat
}

// Validate checks that lines describe a consistent fight:
//   - turn headers count up from 1 and every other line follows one
//   - exactly one result line, last
//   - a fighter acts at most once per turn
//   - every stat change starts from the value the previous change left
//   - a fighter whose HP reached 0 neither acts nor changes again
//
// Every violation is reported.
func Validate(lines []Line) error {
	var errs []error
	fail := func(i int, format string, args ...any) {
		errs = append(errs, fmt.Errorf("line %d: %s", i+1, fmt.Sprintf(format, args...)))
	}

	turn := 0
	acted := map[team.ID]bool{}
	last := map[statKey]int{}
	dead := map[team.ID]bool{}
	ended := false

	for i, l := range lines {
		if ended {
			fail(i, "line after the result")
		}
		switch l.Kind {
		case KindTurn:
			if l.Turn != turn+1 {
				fail(i, "turn %d follows turn %d", l.Turn, turn)
			}
			turn = l.Turn
			acted = map[team.ID]bool{}
		case KindAction:
			if turn == 0 {
				fail(i, "action before the first turn")
			}
			if acted[l.ID] {
				fail(i, "%s acts twice in turn %d", l.ID, turn)
			}
			if dead[l.ID] {
				fail(i, "%s acts after dying", l.ID)
			}
			acted[l.ID] = true
		case KindStat:
			if turn == 0 {
				fail(i, "stat change before the first turn")
			}
			if dead[l.ID] {
				fail(i, "%s changes after dying", l.ID)
			}
			if l.Before == l.After {
				fail(i, "%s %s does not change", l.ID, l.Stat)
			}
			if l.Before < 0 || l.After < 0 {
				fail(i, "%s %s goes negative", l.ID, l.Stat)
			}
			k := statKey{l.ID, l.Stat}
			if prev, ok := last[k]; ok && prev != l.Before {
				fail(i, "%s %s changes from %d but was %d", l.ID, l.Stat, l.Before, prev)
			}
			last[k] = l.After
			if l.Stat == stats.Health && l.After == 0 {
				dead[l.ID] = true
			}
		case KindEnd:
			ended = true
		default:
			fail(i, "unknown line kind %d", int(l.Kind))
		}
	}
	if !ended {
		errs = append(errs, errors.New("missing result line"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("transcript: invalid: %w", errors.Join(errs...))
	}
	return nil
}
