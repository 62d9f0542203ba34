// Package queue defines message payloads exchanged over the message broker.
package queue

// RatingRecordedEvent is published after a rating has been created or
// updated. It contains enough information for downstream consumers to
// log or feed analytics without querying the primary database.
type RatingRecordedEvent struct {
	UserID     uint64 `json:"user_id"`
	MovieID    uint64 `json:"movie_id"`
	Rating     int    `json:"rating"`
	Status     string `json:"status"` // "created" or "updated"
	RecordedAt string `json:"recorded_at"`
}
