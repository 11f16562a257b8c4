package results

import (
	"fmt"
	"time"
)

// Kind discriminates the two record variants that share the store.
type Kind string

const (
	KindTest        Kind = "test"
	KindInstruction Kind = "instruction"
)

// Record is the persisted outcome of either a quiz attempt or an
// instruction acknowledgment. It is the only data that outlives a
// session. Date is immutable once written; a later attempt by the same
// user for the same id replaces the whole record (last-write-wins, no
// history).
type Record struct {
	Kind   Kind   `json:"kind"`
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`

	Passed bool      `json:"passed"`
	Date   time.Time `json:"date"`

	// Test-only fields, zero for instruction records.
	Score           float64   `json:"score,omitempty"`
	TotalPoints     float64   `json:"total_points,omitempty"`
	Mark            int       `json:"mark,omitempty"`
	StartedAt       time.Time `json:"started_at,omitempty"`
	CompletedAt     time.Time `json:"completed_at,omitempty"`
	DurationSeconds int64     `json:"duration_seconds,omitempty"`
}

// Key builds the namespaced store key for a record, e.g.
// "results:test:u17:fire-safety". One key per (kind, user, id) keeps
// concurrent sessions from clobbering each other across kinds and
// across users taking the same quiz.
func Key(kind Kind, userID, id string) string {
	return fmt.Sprintf("results:%s:%s:%s", kind, userID, id)
}

func (r Record) Key() string { return Key(r.Kind, r.UserID, r.ID) }
