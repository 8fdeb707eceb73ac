package lifecycle

import "github.com/peagarden/peaengine/internal/stats"

// Per-tick decay.
const (
	waterDecay  = 2.0
	sunDecay    = 1.0
	soilDecay   = 0.5
	funDecay    = 0.3
	energyDecay = 0.2
)

// DecayTick applies one decay step. Paused while sleeping or while the game
// menu is open.
func (e *Engine) DecayTick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.sleep.Sleeping || e.gameOpen {
		return
	}
	s := e.stats
	s.Water -= waterDecay
	s.Sun -= sunDecay
	s.Soil -= soilDecay
	s.Fun -= funDecay
	s.Energy -= energyDecay
	e.stats = stats.ClampAll(s)
	e.recompute()
	e.commit()
}
