package lifecycle

import (
	"context"

	"github.com/peagarden/peaengine/internal/domain"
	"github.com/peagarden/peaengine/internal/minigame"
	"github.com/peagarden/peaengine/internal/stats"
)

// Care action deltas.
const (
	careBoost = 25.0
	careFun   = 3.0
)

// GiveWater waters the pea. Ignored while it sleeps.
func (e *Engine) GiveWater() bool {
	return e.care("water", func(s *domain.Stats) { s.Water += careBoost })
}

// GiveSun gives the pea sunlight. Ignored while it sleeps.
func (e *Engine) GiveSun() bool {
	return e.care("sun", func(s *domain.Stats) { s.Sun += careBoost })
}

// GiveSoil feeds the pea. Ignored while it sleeps.
func (e *Engine) GiveSoil() bool {
	return e.care("soil", func(s *domain.Stats) { s.Soil += careBoost })
}

func (e *Engine) care(action string, apply func(*domain.Stats)) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.sleep.Sleeping {
		return false
	}
	s := e.stats
	apply(&s)
	s.Fun += careFun
	e.stats = stats.ClampAll(s)
	e.recompute()
	e.record(domain.EventCare, map[string]any{"action": action})
	e.commit()
	return true
}

// TryPlay asks whether the game menu may open. A sleeping pea refuses with a
// message that depends on why it is asleep.
func (e *Engine) TryPlay() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false
	}
	ok := e.allowPlay()
	if ok {
		e.gameOpen = true
		e.message = msgChoosingGame
	}
	e.commit()
	return ok
}

// allowPlay sets the refusal message when play is not allowed.
func (e *Engine) allowPlay() bool {
	if !e.sleep.Sleeping {
		return true
	}
	switch e.sleep.Reason {
	case domain.SleepLongAway:
		e.message = msgWakeFirst
	case domain.SleepTiredFromPlay:
		e.message = msgTiredRest
	default:
		e.message = msgSleepingNoPlay
	}
	return false
}

// StartPlayingMood shows the playing mood with a custom message.
func (e *Engine) StartPlayingMood(message string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.mood = domain.Override(domain.MoodPlaying)
	e.message = message
	e.commit()
}

// Launch starts a mini-game. An empty message uses the game's default launch
// line. The returned session reports the score back to the engine until another
// game is launched or the game is closed; after that it can neither score nor
// close the newer game.
func (e *Engine) Launch(kind minigame.Kind, message string) (*minigame.Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, false
	}
	if !e.allowPlay() {
		e.commit()
		return nil, false
	}
	if message == "" {
		message = minigame.LaunchMessage(kind)
	}
	e.gameGen++
	e.gameOpen = true
	e.activeGame = kind
	e.mood = domain.Override(domain.MoodPlaying)
	e.message = message
	e.record(domain.EventGameStarted, map[string]any{"game": kind})
	e.commit()
	return minigame.NewSession(kind, &gameHost{e: e, gen: e.gameGen}), true
}

// ActiveGame returns the running mini-game, if any.
func (e *Engine) ActiveGame() (minigame.Kind, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activeGame, e.activeGame != ""
}

// CloseGame closes the game menu and resumes decay. A running session is
// dropped with it.
func (e *Engine) CloseGame() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.gameGen++
	e.closeGameLocked()
}

func (e *Engine) closeGameLocked() {
	e.gameOpen = false
	e.activeGame = ""
	e.commit()
}

// gameHost is the engine as seen by one launched game.
type gameHost struct {
	e   *Engine
	gen uint64
}

func (h *gameHost) current() bool {
	return !h.e.closed && h.e.gameGen == h.gen
}

func (h *gameHost) FinishGame(ctx context.Context, kind minigame.Kind, score int) (string, error) {
	e := h.e
	e.mu.Lock()
	if !h.current() {
		e.mu.Unlock()
		return "", domain.ErrGameNotOpen
	}
	msg, best := e.finishLocked(kind, score)
	e.mu.Unlock()
	if best {
		e.saveHighScore(ctx)
	}
	return msg, nil
}

func (h *gameHost) CloseGame() {
	h.e.mu.Lock()
	defer h.e.mu.Unlock()
	if h.current() {
		h.e.closeGameLocked()
	}
}
