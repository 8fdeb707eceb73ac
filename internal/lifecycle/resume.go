package lifecycle

import (
	"context"
	"log"
	"math"
	"strconv"

	"github.com/peagarden/peaengine/internal/domain"
	"github.com/peagarden/peaengine/internal/stats"
)

// LongAwayMinutes is the absence after which the pea is penalized on resume.
const LongAwayMinutes = 30.0

// Absence penalty.
const (
	longAwayEnergy    = 15.0
	longAwayWaterLoss = 10.0
	longAwaySunLoss   = 10.0
	longAwaySoilLoss  = 5.0
)

// Resume loads the persisted pea once and applies the absence penalty when the
// last visit is old enough. Later calls are no-ops. Storage failures are
// logged and the engine carries on with defaults.
func (e *Engine) Resume(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.loaded || e.closed {
		return
	}
	now := e.clock.Now()

	vals, err := e.gw.MultiGet(ctx, domain.ResumeKeys)
	readOK := err == nil
	if err != nil {
		log.Printf("pea: load state: %v", err)
		vals = nil
	}

	s := domain.Stats{
		Water:  parseStat(vals, domain.KeyWater, stats.InitialWater),
		Sun:    parseStat(vals, domain.KeySun, stats.InitialSun),
		Soil:   parseStat(vals, domain.KeySoil, stats.InitialSoil),
		Fun:    parseStat(vals, domain.KeyFun, stats.InitialFun),
		Energy: parseStat(vals, domain.KeyEnergy, stats.InitialEnergy),
	}

	var absence float64
	longAway := false
	if raw, ok := vals[domain.KeyLastVisit]; ok {
		if last, err := strconv.ParseInt(raw, 10, 64); err == nil {
			absence = float64(now.UnixMilli()-last) / 60000
			longAway = absence > LongAwayMinutes
		}
	}

	if longAway {
		s.Energy = longAwayEnergy
		s.Water -= longAwayWaterLoss
		s.Sun -= longAwaySunLoss
		s.Soil -= longAwaySoilLoss
		s = stats.ClampAll(s)
	}
	e.stats = s
	e.beginVisit(now, absence, longAway)
	e.economy = domain.Economy{
		Coins:           parseCount(vals, domain.KeyCoins),
		FlappyHighScore: parseCount(vals, domain.KeyFlappyHighScore),
	}
	if longAway {
		e.enterSleep(domain.SleepLongAway, now)
		e.wasLongAway = true
	} else {
		e.mood = domain.Derived(stats.MoodOf(s))
	}

	// The new last-visit time goes out before anything else so a restart
	// loop sees a fresh visit and cannot penalize twice.
	if readOK {
		if err := e.gw.MultiSet(ctx, statPairs(s, now)); err != nil {
			log.Printf("pea: save last visit: %v", err)
		}
	}

	e.loaded = true
	e.saved = savedState{stats: e.stats, coins: e.economy.Coins}
	e.record(domain.EventResumed, map[string]any{
		"absence_minutes": absence,
		"long_away":       longAway,
	})
	e.commit()
}

func parseStat(vals map[string]string, key string, def float64) float64 {
	raw, ok := vals[key]
	if !ok {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return stats.Clamp(v)
}

func parseCount(vals map[string]string, key string) int {
	raw, ok := vals[key]
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
