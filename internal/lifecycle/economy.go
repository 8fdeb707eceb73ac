package lifecycle

import (
	"context"
	"fmt"
	"log"
	"math"
	"strconv"

	"github.com/peagarden/peaengine/internal/domain"
	"github.com/peagarden/peaengine/internal/minigame"
	"github.com/peagarden/peaengine/internal/stats"
)

// Tap game.
const (
	tapFunPerPoint    = 1.5
	tapEnergyBase     = 4.0
	tapEnergyPerPoint = 0.2
	tapCoinDivisor    = 3
	tapExhaustedBelow = 8.0
)

// Reflex game.
const (
	reflexFunPerPoint    = 1.2
	reflexEnergyPerPoint = 0.6
)

// Flappy game.
const (
	flappyFunPerPoint    = 2.0
	flappyEnergyPerPoint = 1.2
	flappyEnergyCap      = 15.0
)

// FinishGame routes a final score to the matching handler. A new flappy best
// is written through to the gateway after the engine lock is released and
// before FinishGame returns.
func (e *Engine) FinishGame(ctx context.Context, kind minigame.Kind, score int) string {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ""
	}
	msg, best := e.finishLocked(kind, score)
	e.mu.Unlock()
	if best {
		e.saveHighScore(ctx)
	}
	return msg
}

// FinishTap converts a tap game score. Playing the pea into the ground puts it
// to sleep.
func (e *Engine) FinishTap(score int) string {
	return e.FinishGame(context.Background(), minigame.Tap, score)
}

// FinishReflex converts a reflex game score.
func (e *Engine) FinishReflex(score int) string {
	return e.FinishGame(context.Background(), minigame.Reflex, score)
}

// FinishFlappy converts a flappy game score. A failed high score write is only
// logged.
func (e *Engine) FinishFlappy(ctx context.Context, score int) string {
	return e.FinishGame(ctx, minigame.Flappy, score)
}

// finishLocked applies a score. The bool reports a new flappy best that still
// has to be written through.
func (e *Engine) finishLocked(kind minigame.Kind, score int) (string, bool) {
	switch kind {
	case minigame.Tap:
		return e.finishTap(score), false
	case minigame.Reflex:
		return e.finishReflex(score), false
	case minigame.Flappy:
		return e.finishFlappy(score)
	}
	return "", false
}

func (e *Engine) finishTap(score int) string {
	if score <= 0 {
		return e.finishEmpty(minigame.Tap, msgTapNoScore)
	}
	s := float64(score)
	coins := score / tapCoinDivisor
	if coins < 1 {
		coins = 1
	}
	e.stats.Fun = stats.Clamp(e.stats.Fun + s*tapFunPerPoint)
	e.stats.Energy = stats.Clamp(e.stats.Energy - (tapEnergyBase + s*tapEnergyPerPoint))
	e.economy.Coins += coins

	if e.stats.Energy < tapExhaustedBelow && e.enterSleep(domain.SleepTiredFromPlay, e.clock.Now()) {
		e.message = fmt.Sprintf(msgTapExhausted, score, coins)
	} else {
		e.mood = domain.Derived(stats.MoodOf(e.stats))
		e.message = fmt.Sprintf(msgTapDone, score, coins)
	}
	e.recordFinish(minigame.Tap, score, coins)
	e.commit()
	return e.message
}

func (e *Engine) finishReflex(score int) string {
	if score <= 0 {
		return e.finishEmpty(minigame.Reflex, msgReflexNoScore)
	}
	s := float64(score)
	e.stats.Fun = stats.Clamp(e.stats.Fun + s*reflexFunPerPoint)
	e.stats.Energy = stats.Clamp(e.stats.Energy - s*reflexEnergyPerPoint)
	e.economy.Coins += score
	e.mood = domain.Derived(stats.MoodOf(e.stats))
	e.message = fmt.Sprintf(msgReflexDone, score, score)
	e.recordFinish(minigame.Reflex, score, score)
	e.commit()
	return e.message
}

func (e *Engine) finishFlappy(score int) (string, bool) {
	if score <= 0 {
		return e.finishEmpty(minigame.Flappy, msgFlappyNoScore), false
	}
	prev := e.economy.FlappyHighScore
	best := score > prev
	if best {
		e.economy.FlappyHighScore = score
	}

	s := float64(score)
	e.stats.Fun = stats.Clamp(e.stats.Fun + s*flappyFunPerPoint)
	e.stats.Energy = stats.Clamp(e.stats.Energy - math.Min(flappyEnergyCap, s*flappyEnergyPerPoint))
	e.economy.Coins += score
	e.mood = domain.Derived(stats.MoodOf(e.stats))
	if best {
		e.message = fmt.Sprintf(msgFlappyRecord, score, prev, score)
		e.record(domain.EventHighScore, map[string]any{"score": score, "previous": prev})
	} else {
		e.message = fmt.Sprintf(msgFlappyDone, score, score)
	}
	e.recordFinish(minigame.Flappy, score, score)
	e.commit()
	return e.message, best
}

// saveHighScore writes the current flappy best through to the gateway. It runs
// without e.mu; hsMu orders concurrent writers and a stored best is never
// lowered.
func (e *Engine) saveHighScore(ctx context.Context) {
	e.hsMu.Lock()
	defer e.hsMu.Unlock()

	e.mu.Lock()
	best := e.economy.FlappyHighScore
	e.mu.Unlock()

	wctx, cancel := context.WithTimeout(ctx, e.cfg.SaveTimeout)
	defer cancel()
	raw, ok, err := e.gw.GetItem(wctx, domain.KeyFlappyHighScore)
	if err != nil {
		log.Printf("pea: read flappy high score: %v", err)
	} else if ok {
		if stored, perr := strconv.Atoi(raw); perr == nil && stored >= best {
			return
		}
	}
	if err := e.gw.SetItem(wctx, domain.KeyFlappyHighScore, strconv.Itoa(best)); err != nil {
		log.Printf("pea: save flappy high score: %v", err)
	}
}

func (e *Engine) finishEmpty(kind minigame.Kind, msg string) string {
	e.message = msg
	e.recordFinish(kind, 0, 0)
	e.commit()
	return msg
}

func (e *Engine) recordFinish(kind minigame.Kind, score, coins int) {
	e.record(domain.EventGameFinished, map[string]any{"game": kind, "score": score, "coins": coins})
}
