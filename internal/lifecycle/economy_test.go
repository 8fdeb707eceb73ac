package lifecycle

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peagarden/peaengine/internal/domain"
	"github.com/peagarden/peaengine/internal/minigame"
)

func TestFinishTapForcesTiredSleep(t *testing.T) {
	e, _, _ := resumed(t, storedPea(60, 60, 60, 50, 10, epoch))

	msg := e.FinishTap(5)
	snap := e.Snapshot()
	assert.InDelta(t, 5.0, snap.Stats.Energy, 1e-9)
	assert.InDelta(t, 57.5, snap.Stats.Fun, 1e-9)
	assert.Equal(t, 1, snap.Economy.Coins)
	assert.True(t, snap.Sleep.Sleeping)
	assert.True(t, snap.Sleep.Consistent())
	assert.Equal(t, domain.SleepTiredFromPlay, snap.Sleep.Reason)
	require.NotNil(t, snap.Sleep.StartTime)
	assert.Equal(t, domain.Override(domain.MoodSleepy), snap.Mood)
	assert.Contains(t, msg, "+1 coins")
	assert.Equal(t, msg, snap.Message)
}

func TestFinishTapNormal(t *testing.T) {
	e, _, _ := resumed(t, nil)

	msg := e.FinishTap(9)
	snap := e.Snapshot()
	assert.InDelta(t, 63.5, snap.Stats.Fun, 1e-9)
	assert.InDelta(t, 80-(4+9*0.2), snap.Stats.Energy, 1e-9)
	assert.Equal(t, 3, snap.Economy.Coins)
	assert.False(t, snap.Sleep.Sleeping)
	assert.Equal(t, domain.MoodDerived, snap.Mood.Source)
	assert.Contains(t, msg, "+3 coins")
}

func TestFinishTapAwardsAtLeastOneCoin(t *testing.T) {
	e, _, _ := resumed(t, nil)
	e.FinishTap(1)
	assert.Equal(t, 1, e.Snapshot().Economy.Coins)
}

func TestFinishReflex(t *testing.T) {
	e, _, _ := resumed(t, nil)

	e.FinishReflex(10)
	snap := e.Snapshot()
	assert.InDelta(t, 62.0, snap.Stats.Fun, 1e-9)
	assert.InDelta(t, 74.0, snap.Stats.Energy, 1e-9)
	assert.Equal(t, 10, snap.Economy.Coins)
}

func TestZeroScoreChangesNothing(t *testing.T) {
	cases := []struct {
		name   string
		finish func(e *Engine) string
		msg    string
	}{
		{"tap", func(e *Engine) string { return e.FinishTap(0) }, msgTapNoScore},
		{"reflex", func(e *Engine) string { return e.FinishReflex(0) }, msgReflexNoScore},
		{"flappy", func(e *Engine) string { return e.FinishFlappy(context.Background(), 0) }, msgFlappyNoScore},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, _, _ := resumed(t, nil)
			before := e.Snapshot()

			assert.Equal(t, tc.msg, tc.finish(e))
			snap := e.Snapshot()
			assert.Equal(t, before.Stats, snap.Stats)
			assert.Equal(t, before.Economy, snap.Economy)
			assert.Equal(t, before.Mood, snap.Mood)
		})
	}
}

func TestFinishFlappyNewHighScore(t *testing.T) {
	pairs := storedPea(60, 60, 60, 50, 80, epoch)
	pairs[domain.KeyFlappyHighScore] = "3"
	e, gw, _ := resumed(t, pairs)

	msg := e.FinishFlappy(context.Background(), 7)
	snap := e.Snapshot()
	assert.Equal(t, 7, snap.Economy.FlappyHighScore)
	assert.Equal(t, 7, snap.Economy.Coins)
	assert.Contains(t, msg, "New record")
	assert.InDelta(t, 64.0, snap.Stats.Fun, 1e-9)
	assert.InDelta(t, 80-8.4, snap.Stats.Energy, 1e-9)

	stored, ok := gw.get(domain.KeyFlappyHighScore)
	require.True(t, ok)
	assert.Equal(t, "7", stored, "high score is written before returning")
}

func TestFinishFlappyBelowHighScore(t *testing.T) {
	pairs := storedPea(60, 60, 60, 50, 80, epoch)
	pairs[domain.KeyFlappyHighScore] = "30"
	e, gw, _ := resumed(t, pairs)

	msg := e.FinishFlappy(context.Background(), 20)
	snap := e.Snapshot()
	assert.Equal(t, 30, snap.Economy.FlappyHighScore)
	assert.NotContains(t, msg, "New record")
	assert.InDelta(t, 65.0, snap.Stats.Energy, 1e-9, "energy loss is capped")

	stored, _ := gw.get(domain.KeyFlappyHighScore)
	assert.Equal(t, "30", stored)
}

func TestFinishFlappyWriteFailureStillUpdates(t *testing.T) {
	e, gw, _ := resumed(t, nil)
	gw.setFailures(false, true)

	msg := e.FinishFlappy(context.Background(), 4)
	snap := e.Snapshot()
	assert.Equal(t, 4, snap.Economy.FlappyHighScore)
	assert.Equal(t, 4, snap.Economy.Coins)
	assert.Contains(t, msg, "New record")
}

func TestCoinsOnlyGrow(t *testing.T) {
	e, gw, _ := resumed(t, nil)
	prev := 0
	scores := []int{0, 2, 0, 11, 5, 1}
	for i, s := range scores {
		switch i % 3 {
		case 0:
			e.FinishTap(s)
		case 1:
			e.FinishReflex(s)
		default:
			e.FinishFlappy(context.Background(), s)
		}
		coins := e.Snapshot().Economy.Coins
		assert.GreaterOrEqual(t, coins, prev)
		prev = coins
		e.Wake(false)
	}

	require.NoError(t, e.Flush(context.Background()))
	stored, ok := gw.get(domain.KeyCoins)
	require.True(t, ok)
	assert.Equal(t, strconv.Itoa(prev), stored)
}

func TestSessionRoutesScoreThroughEngine(t *testing.T) {
	e, _, _ := resumed(t, nil)

	session, ok := e.Launch(minigame.Reflex, "")
	require.True(t, ok)
	snap := e.Snapshot()
	assert.True(t, snap.GameOpen)
	assert.Equal(t, string(minigame.Reflex), snap.ActiveGame)
	assert.Equal(t, domain.Override(domain.MoodPlaying), snap.Mood)
	assert.Equal(t, minigame.LaunchMessage(minigame.Reflex), snap.Message)

	msg, err := session.Finish(context.Background(), 3)
	require.NoError(t, err)
	assert.Contains(t, msg, "+3 coins")

	snap = e.Snapshot()
	assert.False(t, snap.GameOpen)
	assert.Empty(t, snap.ActiveGame)
	assert.Equal(t, 3, snap.Economy.Coins)
	assert.Equal(t, msg, snap.Message)

	_, err = session.Finish(context.Background(), 3)
	assert.ErrorIs(t, err, domain.ErrSessionFinished)
	assert.Equal(t, 3, e.Snapshot().Economy.Coins)
}

func TestReplacedSessionCannotScoreOrClose(t *testing.T) {
	e, _, _ := resumed(t, nil)
	ctx := context.Background()

	stale, ok := e.Launch(minigame.Tap, "")
	require.True(t, ok)
	current, ok := e.Launch(minigame.Flappy, "")
	require.True(t, ok)

	msg, err := stale.Finish(ctx, 9)
	assert.ErrorIs(t, err, domain.ErrGameNotOpen)
	assert.Empty(t, msg)
	assert.True(t, stale.Done())

	snap := e.Snapshot()
	assert.Equal(t, 0, snap.Economy.Coins)
	assert.True(t, snap.GameOpen)
	assert.Equal(t, string(minigame.Flappy), snap.ActiveGame)
	assert.Equal(t, domain.Override(domain.MoodPlaying), snap.Mood)

	before := snap.Stats
	for i := 0; i < 3; i++ {
		e.DecayTick()
	}
	assert.Equal(t, before, e.Snapshot().Stats, "decay stays paused for the running game")

	stale.Close()
	assert.True(t, e.Snapshot().GameOpen)

	msg, err = current.Finish(ctx, 4)
	require.NoError(t, err)
	assert.Contains(t, msg, "New record")
	snap = e.Snapshot()
	assert.Equal(t, 4, snap.Economy.Coins)
	assert.False(t, snap.GameOpen)
	assert.Empty(t, snap.ActiveGame)
}

func TestCloseGameRetiresSession(t *testing.T) {
	e, _, _ := resumed(t, nil)

	session, ok := e.Launch(minigame.Reflex, "")
	require.True(t, ok)
	e.CloseGame()

	_, err := session.Finish(context.Background(), 5)
	assert.ErrorIs(t, err, domain.ErrGameNotOpen)
	assert.Equal(t, 0, e.Snapshot().Economy.Coins)
}

func TestFinishFlappyNeverLowersStoredBest(t *testing.T) {
	e, gw, _ := resumed(t, nil)
	ctx := context.Background()
	require.NoError(t, gw.SetItem(ctx, domain.KeyFlappyHighScore, "50"))

	msg := e.FinishFlappy(ctx, 6)
	assert.Contains(t, msg, "New record")
	assert.Equal(t, 6, e.Snapshot().Economy.FlappyHighScore)

	stored, ok, err := gw.GetItem(ctx, domain.KeyFlappyHighScore)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "50", stored)
}

// slowBestGateway parks the flappy high score write until released.
type slowBestGateway struct {
	*memGateway
	entered chan struct{}
	release chan struct{}
}

func (g *slowBestGateway) SetItem(ctx context.Context, key, value string) error {
	if key == domain.KeyFlappyHighScore {
		close(g.entered)
		<-g.release
	}
	return g.memGateway.SetItem(ctx, key, value)
}

func TestFinishFlappyWritesHighScoreWithoutHoldingEngine(t *testing.T) {
	gw := &slowBestGateway{
		memGateway: newMemGateway(nil),
		entered:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	e := newTestEngine(t, gw, NewFakeClock(epoch))
	ctx := context.Background()
	e.Resume(ctx)

	done := make(chan string, 1)
	go func() { done <- e.FinishFlappy(ctx, 6) }()
	<-gw.entered

	served := make(chan domain.Snapshot, 1)
	go func() {
		e.GiveWater()
		served <- e.Snapshot()
	}()
	select {
	case snap := <-served:
		assert.Equal(t, 6, snap.Economy.FlappyHighScore)
		assert.Equal(t, 85.0, snap.Stats.Water)
	case <-time.After(2 * time.Second):
		close(gw.release)
		t.Fatal("engine blocked while the high score was being written")
	}

	select {
	case <-done:
		t.Fatal("FinishFlappy returned before the high score was stored")
	default:
	}

	close(gw.release)
	assert.Contains(t, <-done, "New record")
	stored, ok := gw.get(domain.KeyFlappyHighScore)
	require.True(t, ok)
	assert.Equal(t, "6", stored)
}
