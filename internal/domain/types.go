// Package domain defines the core types for the Pea lifecycle engine.
package domain

import "time"

// Mood is the discrete emotional state shown by the presentation layer.
type Mood string

const (
	MoodHappy     Mood = "happy"
	MoodThirsty   Mood = "thirsty"
	MoodNeedsSun  Mood = "needsSun"
	MoodNeedsSoil Mood = "needsSoil"
	MoodSleepy    Mood = "sleepy"
	MoodPlaying   Mood = "playing"
	MoodBored     Mood = "bored"
)

// MoodSource records whether the current mood was derived from stats or set
// directly by a lifecycle event.
type MoodSource string

const (
	MoodDerived  MoodSource = "derived"
	MoodOverride MoodSource = "override"
)

// MoodState is a mood tagged with where it came from. An override holds until
// the next decay tick or explicit recompute.
type MoodState struct {
	Value  Mood       `json:"value"`
	Source MoodSource `json:"source"`
}

// Derived wraps a mood computed from stats.
func Derived(m Mood) MoodState { return MoodState{Value: m, Source: MoodDerived} }

// Override wraps a mood set by a lifecycle event.
func Override(m Mood) MoodState { return MoodState{Value: m, Source: MoodOverride} }

// SleepReason is the cause of a sleep episode.
type SleepReason string

const (
	SleepNone          SleepReason = "none"
	SleepManual        SleepReason = "manual"
	SleepTiredFromPlay SleepReason = "tiredFromPlay"
	SleepLongAway      SleepReason = "longAway"
)

// Stats holds the five needs, each in [0, 100].
type Stats struct {
	Water  float64 `json:"water"`
	Sun    float64 `json:"sun"`
	Soil   float64 `json:"soil"`
	Fun    float64 `json:"fun"`
	Energy float64 `json:"energy"`
}

// SleepState is the composite sleep record.
// Reason != SleepNone iff Sleeping iff StartTime != nil.
type SleepState struct {
	Sleeping  bool        `json:"is_sleeping"`
	Reason    SleepReason `json:"reason"`
	StartTime *time.Time  `json:"sleep_start_time,omitempty"`
}

// Consistent reports whether the three sleep fields agree.
func (s SleepState) Consistent() bool {
	hasReason := s.Reason != SleepNone && s.Reason != ""
	return s.Sleeping == hasReason && s.Sleeping == (s.StartTime != nil)
}

// Economy holds the purely additive values.
type Economy struct {
	Coins           int `json:"coins"`
	FlappyHighScore int `json:"flappy_high_score"`
}

// Snapshot is a read-only copy of everything the presentation layer needs.
type Snapshot struct {
	Stats            Stats         `json:"stats"`
	Mood             MoodState     `json:"mood"`
	Sleep            SleepState    `json:"sleep"`
	Economy          Economy       `json:"economy"`
	Message          string        `json:"message,omitempty"`
	Status           string        `json:"status"`
	GameOpen         bool          `json:"game_open"`
	ActiveGame       string        `json:"active_game,omitempty"`
	WasLongAway      bool          `json:"was_long_away"`
	SleepRemaining   time.Duration `json:"sleep_remaining_ns"`
	CountdownSeconds int           `json:"countdown_seconds"`
	Loaded           bool          `json:"loaded"`
}

// EventType names an entry in the lifecycle journal.
type EventType string

const (
	EventResumed      EventType = "resumed"
	EventSleepStarted EventType = "sleep_started"
	EventWoke         EventType = "woke"
	EventWakeRefused  EventType = "wake_refused"
	EventCare         EventType = "care"
	EventGameStarted  EventType = "game_started"
	EventGameFinished EventType = "game_finished"
	EventHighScore    EventType = "high_score"
)

// LifecycleEvent is one journal entry.
type LifecycleEvent struct {
	ID          int64     `json:"id"`
	VisitID     string    `json:"visit_id"`
	SeqNo       int64     `json:"seq_no"`
	EventType   EventType `json:"event_type"`
	Mood        Mood      `json:"mood"`
	PayloadJSON string    `json:"payload_json"`
	CreatedAt   int64     `json:"created_at"`
}

// Visit records one process session, from resume to close.
type Visit struct {
	VisitID        string  `json:"visit_id"`
	StartedAt      int64   `json:"started_at"`
	AbsenceMinutes float64 `json:"absence_minutes"`
	PenaltyApplied bool    `json:"penalty_applied"`
	EndedAt        int64   `json:"ended_at"`
}
