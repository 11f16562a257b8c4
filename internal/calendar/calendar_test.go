package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/safetydesk/trainportal/internal/grading"
	"github.com/safetydesk/trainportal/internal/results"
)

func seed(t *testing.T) results.Store {
	t.Helper()
	st := results.NewMemoryStore()
	ctx := context.Background()
	day := func(d int) time.Time {
		return time.Date(2026, time.March, d, 14, 30, 0, 0, time.Local)
	}
	recs := []results.Record{
		{Kind: results.KindTest, ID: "t-early", UserID: "alice", Name: "Ladder Safety", Mark: 9, Passed: true, Date: day(3)},
		{Kind: results.KindTest, ID: "t-mid", UserID: "alice", Name: "Chemicals", Mark: 5, Date: day(15)},
		{Kind: results.KindInstruction, ID: "i-ppe", UserID: "alice", Name: "PPE Handling", Passed: true, Date: day(3).Add(2 * time.Hour)},
		{Kind: results.KindTest, ID: "t-next", UserID: "alice", Name: "First Aid", Mark: 7, Passed: true, Date: day(34)}, // April 3rd
		{Kind: results.KindTest, ID: "t-early", UserID: "bob", Name: "Ladder Safety", Mark: 2, Date: day(3)},
	}
	for _, r := range recs {
		if err := st.Put(ctx, r); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	return st
}

func TestEventsForMonth(t *testing.T) {
	agg := New(seed(t))
	evs, err := agg.EventsForMonth(context.Background(), "alice", time.Date(2026, time.March, 20, 0, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("EventsForMonth: %v", err)
	}
	if len(evs) != 3 {
		t.Fatalf("expected 3 march events for alice, got %d", len(evs))
	}
	for i := 1; i < len(evs); i++ {
		if evs[i].Date.After(evs[i-1].Date) {
			t.Fatalf("events not sorted date-descending: %v before %v", evs[i-1].Date, evs[i].Date)
		}
	}
}

func TestEventsForDayBucketsByLocalDate(t *testing.T) {
	agg := New(seed(t))
	evs, err := agg.EventsForDay(context.Background(), "alice", time.Date(2026, time.March, 3, 23, 59, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("EventsForDay: %v", err)
	}
	if len(evs) != 2 {
		t.Fatalf("expected 2 events on march 3rd for alice, got %d", len(evs))
	}
	// Tests sort before instructions for badge rendering.
	if evs[0].Type != results.KindTest || evs[1].Type != results.KindInstruction {
		t.Fatalf("expected test before instruction, got %s then %s", evs[0].Type, evs[1].Type)
	}
}

func TestEventsForDaySingleMatch(t *testing.T) {
	agg := New(seed(t))
	evs, err := agg.EventsForDay(context.Background(), "alice", time.Date(2026, time.March, 15, 0, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("EventsForDay: %v", err)
	}
	if len(evs) != 1 || evs[0].ID != "t-mid" {
		t.Fatalf("expected only t-mid, got %+v", evs)
	}
	if evs[0].Tier != grading.TierWarning {
		t.Fatalf("mark 5 should project tier warning, got %s", evs[0].Tier)
	}
}

// A user's view never includes another user's records; the empty scope
// spans everyone.
func TestEventsScopedByUser(t *testing.T) {
	agg := New(seed(t))
	day := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.Local)

	evs, err := agg.EventsForDay(context.Background(), "bob", day)
	if err != nil {
		t.Fatalf("EventsForDay: %v", err)
	}
	if len(evs) != 1 || evs[0].UserID != "bob" || evs[0].Mark != 2 {
		t.Fatalf("expected only bob's record, got %+v", evs)
	}

	all, err := agg.EventsForDay(context.Background(), "", day)
	if err != nil {
		t.Fatalf("EventsForDay: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 events across users, got %d", len(all))
	}
}
