package results

import (
	"context"
	"log"
	"time"

	"github.com/safetydesk/trainportal/internal/quiz"
)

// Recorder turns finished session outcomes into persisted records.
// Persistence is best-effort: the outcome has already been computed
// and shown by the time recording happens, so a storage failure is
// reported as saved=false instead of blocking the completion flow.
type Recorder struct {
	store Store
	now   func() time.Time
}

// NewRecorder wires the recorder to a store. now is injectable for
// tests; pass nil for time.Now.
func NewRecorder(store Store, now func() time.Time) *Recorder {
	if now == nil {
		now = time.Now
	}
	return &Recorder{store: store, now: now}
}

// RecordTest persists a completed quiz outcome under the taker's id
// and the test id. Overwrites any prior record for the same pair.
func (r *Recorder) RecordTest(ctx context.Context, userID string, out quiz.Outcome) (Record, bool) {
	completed := out.CompletedAt
	if completed.IsZero() {
		completed = r.now()
	}
	rec := Record{
		Kind:            KindTest,
		ID:              out.QuizID,
		UserID:          userID,
		Name:            out.QuizTitle,
		Passed:          out.Passed,
		Date:            completed,
		Score:           out.Score,
		TotalPoints:     out.TotalPoints,
		Mark:            out.Mark,
		StartedAt:       out.StartedAt,
		CompletedAt:     completed,
		DurationSeconds: int64(completed.Sub(out.StartedAt) / time.Second),
	}
	return rec, r.put(ctx, rec)
}

// RecordInstruction persists an instruction acknowledgment for one
// user.
func (r *Recorder) RecordInstruction(ctx context.Context, userID, id, name string) (Record, bool) {
	rec := Record{
		Kind:   KindInstruction,
		ID:     id,
		UserID: userID,
		Name:   name,
		Passed: true,
		Date:   r.now(),
	}
	return rec, r.put(ctx, rec)
}

func (r *Recorder) put(ctx context.Context, rec Record) bool {
	if err := r.store.Put(ctx, rec); err != nil {
		log.Printf("results: record %s not saved: %v", rec.Key(), err)
		return false
	}
	return true
}
