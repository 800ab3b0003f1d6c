// Package session models one interactive session: a single actor acting
// under a single role for the lifetime of the process.
package session

import (
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/isseis/go-iot-risk-gate/internal/gate/gatetypes"
)

// Session identifies one run of the gate. The ID is a ULID seeded with the
// session start time, so IDs sort chronologically across log files.
type Session struct {
	ID        string
	Actor     gatetypes.Actor
	StartedAt time.Time
}

// New creates a session for the actor starting at now.
func New(actor gatetypes.Actor, now time.Time) *Session {
	return &Session{
		ID:        ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		Actor:     actor,
		StartedAt: now,
	}
}

// Elapsed returns how long the session has been running at now.
func (s *Session) Elapsed(now time.Time) time.Duration {
	return now.Sub(s.StartedAt)
}
