package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	auth "github.com/safetydesk/trainportal/internal/auth/middleware"
	"github.com/safetydesk/trainportal/internal/quiz"
	"github.com/safetydesk/trainportal/internal/results"
	syncx "github.com/safetydesk/trainportal/internal/sync"
)

const defaultSessionTTL = 2 * time.Hour

type sessionEntry struct {
	sess    *quiz.Session
	user    string
	touched time.Time
}

// QuizAPI owns the in-flight quiz sessions. Session state lives only
// in memory: an abandoned session leaves no result record, which is
// the intended soft abandonment semantics. Sessions idle past the TTL
// are swept so silent abandonment does not accumulate state.
type QuizAPI struct {
	store    quiz.Store
	recorder *results.Recorder
	events   *syncx.EventRepo // optional

	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

type Option func(*QuizAPI)

func WithSessionTTL(d time.Duration) Option { return func(a *QuizAPI) { a.ttl = d } }
func WithClock(now func() time.Time) Option { return func(a *QuizAPI) { a.now = now } }

func NewQuizAPI(store quiz.Store, recorder *results.Recorder, events *syncx.EventRepo, opts ...Option) *QuizAPI {
	a := &QuizAPI{
		store:    store,
		recorder: recorder,
		events:   events,
		ttl:      defaultSessionTTL,
		now:      time.Now,
		sessions: map[string]*sessionEntry{},
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// session returns the caller's live session. Expired sessions and
// sessions owned by another user are indistinguishable from missing
// ones.
func (a *QuizAPI) session(r *http.Request, id string) (*quiz.Session, bool) {
	user := auth.SubjectFromContext(r.Context())
	a.mu.Lock()
	defer a.mu.Unlock()
	e, ok := a.sessions[id]
	if !ok {
		return nil, false
	}
	if a.now().Sub(e.touched) > a.ttl {
		delete(a.sessions, id)
		return nil, false
	}
	if e.user != user {
		return nil, false
	}
	e.touched = a.now()
	return e.sess, true
}

func (a *QuizAPI) sweep() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for id, e := range a.sessions {
		if a.now().Sub(e.touched) > a.ttl {
			delete(a.sessions, id)
		}
	}
}

func (a *QuizAPI) PutQuizHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q quiz.Quiz
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if err := a.store.PutQuiz(r.Context(), q); err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": q.ID})
	}
}

func (a *QuizAPI) GetQuizHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := a.store.GetQuiz(r.Context(), chi.URLParam(r, "quizID"))
		if err != nil {
			http.Error(w, err.Error(), 404)
			return
		}
		_ = json.NewEncoder(w).Encode(q)
	}
}

// StartSessionHandler loads the full quiz and opens a session at the
// first question, owned by the authenticated caller.
func (a *QuizAPI) StartSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a.sweep()
		q, err := a.store.GetQuizFull(r.Context(), chi.URLParam(r, "quizID"))
		if err != nil {
			http.Error(w, err.Error(), 404)
			return
		}
		s, err := quiz.NewSession(q, nil)
		if err != nil {
			http.Error(w, err.Error(), 422)
			return
		}
		id := uuid.NewString()
		a.mu.Lock()
		a.sessions[id] = &sessionEntry{
			sess:    s,
			user:    auth.SubjectFromContext(r.Context()),
			touched: a.now(),
		}
		a.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{
			"session_id": id,
			"phase":      s.Phase(),
		})
	}
}

func (a *QuizAPI) SelectAnswerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := a.session(r, chi.URLParam(r, "sessionID"))
		if !ok {
			http.Error(w, "session not found", 404)
			return
		}
		var req struct {
			QuestionID string `json:"question_id"`
			AnswerID   string `json:"answer_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if err := s.SelectAnswer(req.QuestionID, req.AnswerID); err != nil {
			writeEngineError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"phase": s.Phase()})
	}
}

func (a *QuizAPI) CheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := a.session(r, chi.URLParam(r, "sessionID"))
		if !ok {
			http.Error(w, "session not found", 404)
			return
		}
		if err := s.Check(); err != nil {
			writeEngineError(w, err)
			return
		}
		correct, err := s.CurrentCorrect()
		if err != nil {
			writeEngineError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"phase":   s.Phase(),
			"correct": correct,
		})
	}
}

func (a *QuizAPI) AdvanceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := a.session(r, chi.URLParam(r, "sessionID"))
		if !ok {
			http.Error(w, "session not found", 404)
			return
		}
		if err := s.Advance(); err != nil {
			writeEngineError(w, err)
			return
		}
		resp := map[string]any{"phase": s.Phase()}
		if s.Phase() == quiz.PhaseAnswering {
			resp["question"] = s.Current()
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// CompleteSessionHandler scores the session, records the outcome
// best-effort under the caller's id and drops the session.
func (a *QuizAPI) CompleteSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		s, ok := a.session(r, id)
		if !ok {
			http.Error(w, "session not found", 404)
			return
		}
		out, err := s.Complete()
		if err != nil {
			writeEngineError(w, err)
			return
		}
		a.mu.Lock()
		delete(a.sessions, id)
		a.mu.Unlock()

		user := auth.SubjectFromContext(r.Context())
		rec, saved := a.recorder.RecordTest(r.Context(), user, out)
		if a.events != nil {
			_ = a.events.AppendJSON(r.Context(), syncx.TypeQuizCompleted, rec.Key(), rec)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"record": rec, "saved": saved})
	}
}

// AbandonSessionHandler drops the caller's session without recording
// anything.
func (a *QuizAPI) AbandonSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		if _, ok := a.session(r, id); !ok {
			http.Error(w, "session not found", 404)
			return
		}
		a.mu.Lock()
		delete(a.sessions, id)
		a.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}
}

// Engine invariant violations are caller bugs; they map to 409 so
// misbehaving clients are visible without taking the process down.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quiz.ErrIllegalTransition),
		errors.Is(err, quiz.ErrAlreadyChecked),
		errors.Is(err, quiz.ErrNotCurrent):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, quiz.ErrNoSelection),
		errors.Is(err, quiz.ErrUnknownAnswer):
		http.Error(w, err.Error(), 400)
	default:
		http.Error(w, err.Error(), 500)
	}
}
