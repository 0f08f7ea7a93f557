// Package status defines character status effects granted by item use.
//
// Effects are append-only advisory metadata: the engine records them and
// never expires or prunes them. Scene and next-roll durations are enforced
// by master judgment, not by code.
package status

import (
	"time"

	"github.com/google/uuid"
)

// Duration scopes how long a status effect is meant to last.
type Duration string

const (
	// DurationScene lasts until the current scene ends.
	DurationScene Duration = "scene"
	// DurationNextRoll lasts until the character's next dice roll.
	DurationNextRoll Duration = "next_roll"
	// DurationPermanent never expires.
	DurationPermanent Duration = "permanent"
)

// Effect is one active status effect on a character.
type Effect struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Duration Duration `json:"duration"`
	// Source is the name of the item that granted the effect.
	Source    string `json:"source"`
	Timestamp int64  `json:"timestamp"`
}

// New creates an Effect with a fresh unique ID and the given grant time.
//
// Postcondition: the returned effect has a non-empty ID and
// Timestamp == now.UnixMilli().
func New(effectType string, duration Duration, source string, now time.Time) Effect {
	return Effect{
		ID:        uuid.NewString(),
		Type:      effectType,
		Duration:  duration,
		Source:    source,
		Timestamp: now.UnixMilli(),
	}
}
