package http

import (
	"encoding/json"
	"net/http"
	"time"

	auth "github.com/safetydesk/trainportal/internal/auth/middleware"
	"github.com/safetydesk/trainportal/internal/calendar"
	"github.com/safetydesk/trainportal/internal/rbac"
)

// calendarScope resolves which user's records a calendar query may
// see. Callers see their own records; the user query parameter widens
// the scope ("*" for everyone) and requires results:view-all.
func calendarScope(r *http.Request) (string, bool) {
	subject := auth.SubjectFromContext(r.Context())
	target := r.URL.Query().Get("user")
	switch {
	case target == "" || target == subject:
		return subject, true
	case rbac.Can(r.Context(), "results:view-all"):
		if target == "*" {
			return "", true
		}
		return target, true
	default:
		return "", false
	}
}

// GET /calendar/day?date=2026-03-03[&user=...]
func DayEventsHandler(agg *calendar.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day, err := time.ParseInLocation("2006-01-02", r.URL.Query().Get("date"), time.Local)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", 400)
			return
		}
		user, ok := calendarScope(r)
		if !ok {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		evs, err := agg.EventsForDay(r.Context(), user, day)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"events": evs})
	}
}

// GET /calendar/month?month=2026-03[&user=...]
func MonthEventsHandler(agg *calendar.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		month, err := time.ParseInLocation("2006-01", r.URL.Query().Get("month"), time.Local)
		if err != nil {
			http.Error(w, "month must be YYYY-MM", 400)
			return
		}
		user, ok := calendarScope(r)
		if !ok {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		evs, err := agg.EventsForMonth(r.Context(), user, month)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"events": evs})
	}
}
