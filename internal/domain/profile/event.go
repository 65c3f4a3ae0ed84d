package profile

import "time"

const EventUpdated = "profile.updated"

// UpdatedEvent is published after a profile has been persisted.
type UpdatedEvent struct {
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	OccurredAt time.Time `json:"occurred_at"`
}
