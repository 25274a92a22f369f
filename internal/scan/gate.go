// Package scan filters raw scanner events. The geometric gate is a pure
// function with no camera or rendering dependency; the session adds the
// one-shot latch that keeps a burst of ticks from resolving more than
// once.
package scan

import (
	"sync"

	"github.com/volumate/volumate/internal/domain"
)

// Accept reports whether event lands inside frame. Events without bounds
// are accepted unconditionally (scanner backends that report no geometry).
// Otherwise the center of the bounding box must fall within the frame,
// edges inclusive.
func Accept(event domain.ScanEvent, frame domain.ScanFrame) bool {
	if event.Bounds == nil {
		return true
	}
	cx := event.Bounds.CenterX()
	cy := event.Bounds.CenterY()
	return cx >= frame.Left && cx <= frame.Left+frame.Width &&
		cy >= frame.Top && cy <= frame.Top+frame.Height
}

// Session owns the capture frame for one scanning session and the
// idle → locked → idle latch: after a tick is accepted, further ticks are
// ignored until Reset (the user tapping "scan again").
type Session struct {
	frame domain.ScanFrame

	mu     sync.Mutex
	locked bool
}

func NewSession(frame domain.ScanFrame) *Session {
	return &Session{frame: frame}
}

// Frame returns the session's capture rectangle.
func (s *Session) Frame() domain.ScanFrame { return s.frame }

// Offer runs event through the gate. It returns true only when the
// session is idle and the event lands inside the frame; acceptance locks
// the session.
func (s *Session) Offer(event domain.ScanEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locked {
		return false
	}
	if !Accept(event, s.frame) {
		return false
	}
	s.locked = true
	return true
}

// Locked reports whether an accepted scan is pending a Reset.
func (s *Session) Locked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

// Reset returns the session to idle so the next event can be accepted.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locked = false
}
