package lifecycle

import (
	"time"

	"github.com/peagarden/peaengine/internal/domain"
	"github.com/peagarden/peaengine/internal/stats"
)

// Auto-wake durations. longAway has none.
const (
	ManualSleepDuration = 5 * time.Second
	TiredSleepDuration  = 20 * time.Second
)

// Energy gained on waking.
const (
	wakeTiredGain    = 30.0
	wakeManualEarly  = 10.0
	wakeManualRested = 20.0
	wakeLongAwayGain = 30.0
	wakeFallbackGain = 15.0
	longAwayWakeFun  = 10.0
	manualSleepBelow = 50.0
)

// sleepTransitions lists the legal reason changes. Every sleep goes through
// awake (none) before the next one.
var sleepTransitions = map[domain.SleepReason]map[domain.SleepReason]bool{
	domain.SleepNone: {
		domain.SleepManual:        true,
		domain.SleepTiredFromPlay: true,
		domain.SleepLongAway:      true,
	},
	domain.SleepManual:        {domain.SleepNone: true},
	domain.SleepTiredFromPlay: {domain.SleepNone: true},
	domain.SleepLongAway:      {domain.SleepNone: true},
}

// IsValidSleepTransition reports whether from -> to is allowed.
func IsValidSleepTransition(from, to domain.SleepReason) bool {
	if from == "" {
		from = domain.SleepNone
	}
	return sleepTransitions[from][to]
}

// AutoWakeAfter returns how long a sleep of the given reason lasts before the
// countdown wakes the pea.
func AutoWakeAfter(reason domain.SleepReason) (time.Duration, bool) {
	switch reason {
	case domain.SleepManual:
		return ManualSleepDuration, true
	case domain.SleepTiredFromPlay:
		return TiredSleepDuration, true
	}
	return 0, false
}

// Remaining is the countdown shown while sleeping.
func Remaining(s domain.SleepState, now time.Time) time.Duration {
	if !s.Sleeping || s.StartTime == nil {
		return 0
	}
	d, ok := AutoWakeAfter(s.Reason)
	if !ok {
		return 0
	}
	left := d - now.Sub(*s.StartTime)
	if left < 0 {
		return 0
	}
	return left
}

// ToggleSleep naps when the pea is tired enough, and wakes it early when it
// is already asleep.
func (e *Engine) ToggleSleep() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	now := e.clock.Now()
	switch {
	case e.sleep.Sleeping:
		e.wake(true, now)
	case e.stats.Energy >= manualSleepBelow:
		e.message = msgNotTired
	default:
		if e.enterSleep(domain.SleepManual, now) {
			e.message = msgNapping
		}
	}
	e.commit()
}

// Wake is the explicit wake request. early marks a user-initiated wake.
func (e *Engine) Wake(early bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.wake(early, e.clock.Now())
	e.commit()
}

// SleepTick is the countdown step: it wakes the pea once the nap is over.
func (e *Engine) SleepTick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || !e.sleep.Sleeping || e.sleep.StartTime == nil {
		return
	}
	now := e.clock.Now()
	if d, ok := AutoWakeAfter(e.sleep.Reason); ok && now.Sub(*e.sleep.StartTime) >= d {
		e.wake(false, now)
	}
	e.commit()
}

func (e *Engine) enterSleep(reason domain.SleepReason, now time.Time) bool {
	if !IsValidSleepTransition(e.sleep.Reason, reason) {
		return false
	}
	start := now
	e.sleep = domain.SleepState{Sleeping: true, Reason: reason, StartTime: &start}
	e.mood = domain.Override(domain.MoodSleepy)
	e.record(domain.EventSleepStarted, map[string]any{"reason": reason})
	return true
}

func (e *Engine) clearSleep() {
	e.sleep = domain.SleepState{Reason: domain.SleepNone}
}

func (e *Engine) wake(early bool, now time.Time) {
	if !e.sleep.Sleeping || e.sleep.StartTime == nil {
		return
	}
	reason := e.sleep.Reason
	elapsed := now.Sub(*e.sleep.StartTime)

	switch reason {
	case domain.SleepTiredFromPlay:
		if early && elapsed < TiredSleepDuration {
			e.message = msgNotRested
			e.mood = domain.Override(domain.MoodSleepy)
			e.record(domain.EventWakeRefused, map[string]any{"reason": reason, "elapsed_ms": elapsed.Milliseconds()})
			return
		}
		e.stats.Energy = stats.Clamp(e.stats.Energy + wakeTiredGain)
		e.clearSleep()
		e.recompute()
	case domain.SleepManual:
		if early && elapsed < ManualSleepDuration {
			e.stats.Energy = stats.Clamp(e.stats.Energy + wakeManualEarly)
			e.message = msgWokeEarly
		} else {
			e.stats.Energy = stats.Clamp(e.stats.Energy + wakeManualRested)
			e.message = msgFeelBetter
		}
		e.clearSleep()
		e.mood = domain.Derived(stats.MoodOf(e.stats))
	case domain.SleepLongAway:
		e.stats.Energy = stats.Clamp(e.stats.Energy + wakeLongAwayGain)
		e.stats.Fun = longAwayWakeFun
		e.clearSleep()
		e.wasLongAway = false
		e.mood = domain.Override(domain.MoodBored)
		e.message = msgNeglected
	default:
		e.stats.Energy = stats.Clamp(e.stats.Energy + wakeFallbackGain)
		e.clearSleep()
		e.recompute()
	}
	e.record(domain.EventWoke, map[string]any{"reason": reason, "early": early, "elapsed_ms": elapsed.Milliseconds()})
}
