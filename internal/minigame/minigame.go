// Package minigame defines the contract between the engine and the three
// score-producing mini-games. A game reports exactly one final score and then
// closes; the game's own mechanics stay outside the engine.
package minigame

import (
	"context"
	"strings"
	"sync"

	"github.com/peagarden/peaengine/internal/domain"
)

// Kind identifies a mini-game.
type Kind string

const (
	Tap    Kind = "tap"
	Reflex Kind = "reflex"
	Flappy Kind = "flappy"
)

// Kinds lists every mini-game in menu order.
var Kinds = []Kind{Tap, Reflex, Flappy}

// ParseKind maps a name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case Tap, Reflex, Flappy:
		return k, nil
	}
	return "", domain.NewEngineError(domain.ErrUnknownGame.Code, domain.ErrUnknownGame.Message+": "+s)
}

// LaunchMessage is the status line shown while a game is starting.
func LaunchMessage(k Kind) string {
	switch k {
	case Tap:
		return "Pea is playing the tap game 🎮"
	case Reflex:
		return "Pea is warming up for the reflex game ⚡"
	case Flappy:
		return "Pea is getting ready to fly! 🪽"
	}
	return "Pea is playing 🎮"
}

// Host receives a game's outcome. FinishGame must complete any durable write
// it needs before returning. A host that no longer runs this game rejects the
// score with domain.ErrGameNotOpen.
type Host interface {
	FinishGame(ctx context.Context, kind Kind, score int) (string, error)
	CloseGame()
}

// Session is one running mini-game. Finish reports the score and then closes;
// Close alone is the cancel path.
type Session struct {
	kind Kind
	host Host

	mu       sync.Mutex
	finished bool
	closed   bool
}

// NewSession binds a running game to its host.
func NewSession(kind Kind, host Host) *Session {
	return &Session{kind: kind, host: host}
}

// Kind returns the game being played.
func (s *Session) Kind() Kind { return s.kind }

// Finish hands the final score to the host, then closes the game. A session
// reports at most one score.
func (s *Session) Finish(ctx context.Context, score int) (string, error) {
	s.mu.Lock()
	if s.finished || s.closed {
		s.mu.Unlock()
		return "", domain.ErrSessionFinished
	}
	s.finished = true
	s.mu.Unlock()

	if score < 0 {
		score = 0
	}
	msg, err := s.host.FinishGame(ctx, s.kind, score)
	s.Close()
	return msg, err
}

// Close signals the game is gone. Safe to call multiple times.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()
	s.host.CloseGame()
}

// Done reports whether the session has closed.
func (s *Session) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
