package models

import "time"

// Event types recorded by the navigator.
const (
	EventSearchStart   = "SEARCH_START"
	EventSearchTimeout = "SEARCH_TIMEOUT"
	EventCubeFound     = "CUBE_FOUND"
	EventMotionStart   = "MOTION_START"
	EventMotionDone    = "MOTION_DONE"
	EventError         = "ERROR"
)

// RobotEvent is a single log entry.
type RobotEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // SEARCH_START | SEARCH_TIMEOUT | CUBE_FOUND | MOTION_START | MOTION_DONE | ERROR
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}

// IsEventType reports whether t is one of the recorded event types.
func IsEventType(t string) bool {
	switch t {
	case EventSearchStart, EventSearchTimeout, EventCubeFound, EventMotionStart, EventMotionDone, EventError:
		return true
	}
	return false
}
