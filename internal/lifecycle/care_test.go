package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peagarden/peaengine/internal/domain"
	"github.com/peagarden/peaengine/internal/minigame"
)

func TestCareActions(t *testing.T) {
	cases := []struct {
		name string
		give func(e *Engine) bool
		want domain.Stats
	}{
		{"water", (*Engine).GiveWater, domain.Stats{Water: 85, Sun: 60, Soil: 60, Fun: 53, Energy: 80}},
		{"sun", (*Engine).GiveSun, domain.Stats{Water: 60, Sun: 85, Soil: 60, Fun: 53, Energy: 80}},
		{"soil", (*Engine).GiveSoil, domain.Stats{Water: 60, Sun: 60, Soil: 85, Fun: 53, Energy: 80}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, _, _ := resumed(t, nil)
			assert.True(t, tc.give(e))
			assert.Equal(t, tc.want, e.Snapshot().Stats)
		})
	}
}

func TestCareClampsAndClearsMessage(t *testing.T) {
	e, _, _ := resumed(t, storedPea(90, 60, 60, 99, 80, epoch))
	e.ToggleSleep()
	require.NotEmpty(t, e.Snapshot().Message)

	assert.True(t, e.GiveWater())
	snap := e.Snapshot()
	assert.Equal(t, 100.0, snap.Stats.Water)
	assert.Equal(t, 100.0, snap.Stats.Fun)
	assert.Empty(t, snap.Message)
}

func TestCareFixesThirst(t *testing.T) {
	e, _, _ := resumed(t, storedPea(10, 60, 60, 50, 80, epoch))
	require.Equal(t, domain.MoodThirsty, e.Snapshot().Mood.Value)

	e.GiveWater()
	assert.Equal(t, domain.Derived(domain.MoodHappy), e.Snapshot().Mood)
}

func TestCareIgnoredWhileSleeping(t *testing.T) {
	e, _, _ := resumed(t, storedPea(60, 60, 60, 50, 30, epoch))
	e.ToggleSleep()
	before := e.Snapshot()

	assert.False(t, e.GiveWater())
	assert.False(t, e.GiveSun())
	assert.False(t, e.GiveSoil())
	assert.Equal(t, before.Stats, e.Snapshot().Stats)
}

func TestTryPlayAwakeOpensMenu(t *testing.T) {
	e, _, _ := resumed(t, nil)
	assert.True(t, e.TryPlay())
	snap := e.Snapshot()
	assert.True(t, snap.GameOpen)
	assert.Equal(t, msgChoosingGame, snap.Message)
}

func TestTryPlayRefusalMessages(t *testing.T) {
	t.Run("manual", func(t *testing.T) {
		e, _, _ := resumed(t, storedPea(60, 60, 60, 50, 30, epoch))
		e.ToggleSleep()
		assert.False(t, e.TryPlay())
		assert.Equal(t, msgSleepingNoPlay, e.Snapshot().Message)
		assert.False(t, e.Snapshot().GameOpen)
	})
	t.Run("tired", func(t *testing.T) {
		e, _, _ := resumed(t, storedPea(60, 60, 60, 50, 10, epoch))
		e.FinishTap(5)
		assert.False(t, e.TryPlay())
		assert.Equal(t, msgTiredRest, e.Snapshot().Message)
	})
	t.Run("long away", func(t *testing.T) {
		e, _, _ := resumed(t, storedPea(60, 60, 60, 50, 50, epoch.Add(-time.Hour)))
		assert.False(t, e.TryPlay())
		assert.Equal(t, msgWakeFirst, e.Snapshot().Message)
	})
}

func TestLaunchRefusedWhileSleeping(t *testing.T) {
	e, _, _ := resumed(t, storedPea(60, 60, 60, 50, 30, epoch))
	e.ToggleSleep()

	session, ok := e.Launch(minigame.Tap, "")
	assert.False(t, ok)
	assert.Nil(t, session)
	assert.False(t, e.Snapshot().GameOpen)
}

func TestStartPlayingMood(t *testing.T) {
	e, _, _ := resumed(t, nil)
	e.StartPlayingMood("let's go")

	snap := e.Snapshot()
	assert.Equal(t, domain.Override(domain.MoodPlaying), snap.Mood)
	assert.Equal(t, "let's go", snap.Status)

	e.RecomputeMood()
	snap = e.Snapshot()
	assert.Equal(t, domain.Derived(domain.MoodHappy), snap.Mood)
	assert.Empty(t, snap.Message)
}

func TestCloseGameKeepsMessage(t *testing.T) {
	e, _, _ := resumed(t, nil)
	_, ok := e.Launch(minigame.Flappy, "flap!")
	require.True(t, ok)
	kind, active := e.ActiveGame()
	assert.True(t, active)
	assert.Equal(t, minigame.Flappy, kind)

	e.CloseGame()
	snap := e.Snapshot()
	assert.False(t, snap.GameOpen)
	assert.Equal(t, "flap!", snap.Message)
	_, active = e.ActiveGame()
	assert.False(t, active)
}
