package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yopox/decade-jam/internal/game/catalog"
	"github.com/yopox/decade-jam/internal/game/fight"
	"github.com/yopox/decade-jam/internal/game/stats"
	"github.com/yopox/decade-jam/internal/game/transcript"
)

func testOptions() runOptions {
	return runOptions{
		maxTurns:    fight.MaxTurns,
		parallelism: 2,
		table:       stats.DefaultTable(),
		validate:    true,
		logger:      zap.NewNop(),
	}
}

func TestRunMatchups_ShippedContent(t *testing.T) {
	cat, err := catalog.Load("../../content")
	require.NoError(t, err)

	results, err := runMatchups(context.Background(), cat, cat.Matchups(), testOptions())
	require.NoError(t, err)
	require.Len(t, results, len(cat.Matchups()))
	for i, r := range results {
		assert.Equal(t, cat.Matchups()[i].Name, r.matchup.Name, "results keep matchup order")
		assert.NotEqual(t, fight.StateNone, r.state)
		lines, err := transcript.Parse(bytes.NewReader(r.transcript))
		require.NoError(t, err)
		assert.Equal(t, r.state, lines[len(lines)-1].Result)
	}
}

func TestRunMatchups_Deterministic(t *testing.T) {
	cat := catalog.Builtin()
	first, err := runMatchups(context.Background(), cat, cat.Matchups(), testOptions())
	require.NoError(t, err)
	second, err := runMatchups(context.Background(), cat, cat.Matchups(), testOptions())
	require.NoError(t, err)
	assert.Equal(t, first[0].transcript, second[0].transcript)
}

func TestRunMatchups_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cat := catalog.Builtin()
	_, err := runMatchups(ctx, cat, cat.Matchups(), testOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunMatchups_UnknownFighter(t *testing.T) {
	cat := catalog.Builtin()
	_, err := runMatchups(context.Background(), cat,
		[]catalog.Matchup{{Name: "ghosts", Allies: []string{"ghost"}}}, testOptions())
	assert.ErrorContains(t, err, `matchup "ghosts"`)
}

func TestPrintResults(t *testing.T) {
	results := []result{
		{matchup: catalog.Matchup{Name: "a"}, state: fight.AlliesVictory, turns: 4, transcript: []byte("- TURN 1\n= WON\n")},
		{matchup: catalog.Matchup{Name: "b"}, state: fight.Draw, turns: 51, transcript: []byte("= DRAW\n")},
	}
	var out bytes.Buffer
	require.NoError(t, printResults(&out, results, false))
	assert.Contains(t, out.String(), "# a")
	assert.Contains(t, out.String(), "- TURN 1")
	assert.Contains(t, out.String(), "allies win on turn 4")
	assert.Contains(t, out.String(), "draw after 50 turns")

	out.Reset()
	require.NoError(t, printResults(&out, results, true))
	assert.NotContains(t, out.String(), "- TURN 1")
	assert.Contains(t, out.String(), "# b")
}

func TestSelectMatchups(t *testing.T) {
	cat := catalog.Builtin()

	all, err := selectMatchups(cat, "", "", "")
	require.NoError(t, err)
	assert.Equal(t, cat.Matchups(), all)

	custom, err := selectMatchups(cat, "arches, bat", "bat", "")
	require.NoError(t, err)
	assert.Equal(t, []catalog.Matchup{{Name: "custom", Allies: []string{"arches", "bat"}, Enemies: []string{"bat"}}}, custom)

	named, err := selectMatchups(cat, "", "", "arches-vs-bat")
	require.NoError(t, err)
	assert.Len(t, named, 1)

	_, err = selectMatchups(cat, "dragon", "", "")
	assert.ErrorContains(t, err, "dragon")
	_, err = selectMatchups(cat, "", "", "nope")
	assert.ErrorContains(t, err, "nope")
}
