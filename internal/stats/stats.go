// Package stats holds the pure stat model: clamping, mood derivation and the
// status hint shown for each mood.
package stats

import "github.com/peagarden/peaengine/internal/domain"

// Bounds of every stat.
const (
	Min = 0.0
	Max = 100.0
)

// Initial values for a brand new pea.
const (
	InitialWater  = 60.0
	InitialSun    = 60.0
	InitialSoil   = 60.0
	InitialFun    = 50.0
	InitialEnergy = 80.0
)

// Mood thresholds, checked in priority order.
const (
	thirstyBelow   = 30.0
	needsSunBelow  = 30.0
	needsSoilBelow = 30.0
	sleepyBelow    = 15.0
	boredBelow     = 20.0
)

// Initial returns the stats of a pea that has never been saved.
func Initial() domain.Stats {
	return domain.Stats{
		Water:  InitialWater,
		Sun:    InitialSun,
		Soil:   InitialSoil,
		Fun:    InitialFun,
		Energy: InitialEnergy,
	}
}

// Clamp bounds v to [0, 100].
func Clamp(v float64) float64 {
	if v < Min {
		return Min
	}
	if v > Max {
		return Max
	}
	return v
}

// ClampAll clamps each stat.
func ClampAll(s domain.Stats) domain.Stats {
	return domain.Stats{
		Water:  Clamp(s.Water),
		Sun:    Clamp(s.Sun),
		Soil:   Clamp(s.Soil),
		Fun:    Clamp(s.Fun),
		Energy: Clamp(s.Energy),
	}
}

// DeriveMood maps stats to a mood. The first matching need wins: thirst
// dominates sunlight, which dominates soil, then energy, then fun.
func DeriveMood(water, sun, soil, fun, energy float64) domain.Mood {
	switch {
	case water < thirstyBelow:
		return domain.MoodThirsty
	case sun < needsSunBelow:
		return domain.MoodNeedsSun
	case soil < needsSoilBelow:
		return domain.MoodNeedsSoil
	case energy < sleepyBelow:
		return domain.MoodSleepy
	case fun < boredBelow:
		return domain.MoodBored
	default:
		return domain.MoodHappy
	}
}

// MoodOf is DeriveMood over a Stats value.
func MoodOf(s domain.Stats) domain.Mood {
	return DeriveMood(s.Water, s.Sun, s.Soil, s.Fun, s.Energy)
}

// Hint returns the idle status line for a mood.
func Hint(m domain.Mood) string {
	switch m {
	case domain.MoodThirsty:
		return "Pea looks thirsty 💧"
	case domain.MoodNeedsSun:
		return "Pea could use some sunshine ☀️"
	case domain.MoodNeedsSoil:
		return "Let's enrich the soil 🌱"
	case domain.MoodSleepy:
		return "Pea is worn out and getting sleepy 😴"
	case domain.MoodPlaying:
		return "Pea is having a blast! 😆"
	case domain.MoodBored:
		return "Pea looks like it wants to play 🎮"
	default:
		return "Pea looks happy right now 🥰"
	}
}
