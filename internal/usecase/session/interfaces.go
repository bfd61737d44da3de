package session

import "time"

type DocumentStore interface {
	Delete(sessionID string) int
	Sessions() []string
}

type ActivityStore interface {
	Touch(sessionID string, at time.Time)
	LastActivity(sessionID string) (time.Time, bool)
	Delete(sessionID string)
	Snapshot() map[string]time.Time
}
