package camera

import (
	"errors"
	"sync/atomic"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// A camera stream is exclusive: one browser tab owns a given camera ID at a
// time and everyone else gets ErrCameraBusy until it is released.

var ErrCameraBusy = errors.New("camera is already in use")

type Session struct {
	ID        string
	UserID    uint64
	StartedAt time.Time
	frames    atomic.Int64
	matches   atomic.Int64
}

var active = cmap.New[*Session]()

func Acquire(id string, userID uint64) (*Session, error) {
	session := &Session{
		ID:        id,
		UserID:    userID,
		StartedAt: time.Now(),
	}
	if !active.SetIfAbsent(id, session) {
		return nil, ErrCameraBusy
	}
	return session, nil
}

func (s *Session) Release() {
	active.RemoveCb(s.ID, func(key string, value *Session, exists bool) bool {
		return value == s
	})
}

func (s *Session) FrameReceived() {
	s.frames.Add(1)
}

func (s *Session) MatchRecorded() {
	s.matches.Add(1)
}

func (s *Session) Frames() int64 {
	return s.frames.Load()
}

func (s *Session) Matches() int64 {
	return s.matches.Load()
}

func ActiveCount() int {
	return active.Count()
}
