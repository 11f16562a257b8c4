package calendar

import (
	"context"
	"sort"
	"time"

	"github.com/safetydesk/trainportal/internal/grading"
	"github.com/safetydesk/trainportal/internal/results"
)

// Event is a read-only projection of a result record for the calendar
// views. Consumers must not treat it as the record itself; the
// aggregator never hands out mutable store state.
type Event struct {
	Type   results.Kind `json:"type"`
	ID     string       `json:"id"`
	UserID string       `json:"user_id"`
	Name   string       `json:"name"`
	Date   time.Time    `json:"date"`
	Passed bool         `json:"passed"`

	// Test events carry the mark and its badge tier.
	Mark int          `json:"mark,omitempty"`
	Tier grading.Tier `json:"tier,omitempty"`
}

// Aggregator merges heterogeneous result records into day and month
// views. It only reads the store and re-projects; records are never
// mutated.
type Aggregator struct {
	store results.Store
}

func New(store results.Store) *Aggregator {
	return &Aggregator{store: store}
}

// EventsForDay returns userID's events whose date falls on the same
// local calendar day, tests before instructions. That ordering is a
// display convention for badge rendering, not a contract. An empty
// userID spans all users (manager views).
func (a *Aggregator) EventsForDay(ctx context.Context, userID string, day time.Time) ([]Event, error) {
	recs, err := a.store.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []Event
	for _, rec := range recs {
		if ownedBy(rec, userID) && sameDay(rec.Date, day) {
			out = append(out, project(rec))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return kindRank(out[i].Type) < kindRank(out[j].Type)
	})
	return out, nil
}

// EventsForMonth returns userID's events within the same calendar
// month, latest first. An empty userID spans all users.
func (a *Aggregator) EventsForMonth(ctx context.Context, userID string, month time.Time) ([]Event, error) {
	recs, err := a.store.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []Event
	for _, rec := range recs {
		if ownedBy(rec, userID) && sameMonth(rec.Date, month) {
			out = append(out, project(rec))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func project(rec results.Record) Event {
	ev := Event{
		Type:   rec.Kind,
		ID:     rec.ID,
		UserID: rec.UserID,
		Name:   rec.Name,
		Date:   rec.Date,
		Passed: rec.Passed,
	}
	if rec.Kind == results.KindTest {
		ev.Mark = rec.Mark
		ev.Tier = grading.TierFor(rec.Mark)
	}
	return ev
}

func ownedBy(rec results.Record, userID string) bool {
	return userID == "" || rec.UserID == userID
}

func kindRank(k results.Kind) int {
	if k == results.KindTest {
		return 0
	}
	return 1
}

// Bucketing compares local calendar dates, not timestamps.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}

func sameMonth(a, b time.Time) bool {
	ay, am, _ := a.Local().Date()
	by, bm, _ := b.Local().Date()
	return ay == by && am == bm
}
