// Package queue defines message payloads exchanged over the message broker.
package queue

import "time"

// ActivityQueue is the durable queue all activity events are routed to.
const ActivityQueue = "activity"

// Activity types.
const (
	TypeUserRegistered = "user.registered"
	TypeEventCreated   = "event.created"
	TypeEventLiked     = "event.liked"
)

// ActivityEvent is published after a state change that downstream
// consumers may want to log, notify on, or feed into analytics. EventID is
// zero for user-level activity.
type ActivityEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Username   string    `json:"username"`
	EventID    int64     `json:"event_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
