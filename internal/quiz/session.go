package quiz

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/safetydesk/trainportal/internal/grading"
)

// Phase of the per-question state machine. The presentation layer only
// renders the phase; it never re-derives legality on its own.
type Phase string

const (
	PhaseAnswering Phase = "answering"
	PhaseChecked   Phase = "checked"
	PhaseReady     Phase = "ready_to_complete"
	PhaseCompleted Phase = "completed"
)

// Illegal-transition errors are programming errors in the caller, not
// user-facing conditions. Handlers translate them to 409s for debugging
// but the UI should never be able to trigger them.
var (
	ErrIllegalTransition = errors.New("quiz: illegal transition")
	ErrNoSelection       = errors.New("quiz: current question has no selected answer")
	ErrAlreadyChecked    = errors.New("quiz: answer is frozen after check")
	ErrUnknownAnswer     = errors.New("quiz: unknown answer id")
	ErrNotCurrent        = errors.New("quiz: question is not the current one")
)

// Outcome is the frozen result of a completed session, handed to the
// result recorder.
type Outcome struct {
	QuizID      string
	QuizTitle   string
	Score       float64
	TotalPoints float64
	Mark        int
	Passed      bool
	StartedAt   time.Time
	CompletedAt time.Time
}

// Session drives one attempt through answering → checked → advance
// until completion. A session owns its state exclusively; concurrent
// calls are serialized by an internal mutex so no two mutating
// operations interleave.
type Session struct {
	mu sync.Mutex

	quiz     Quiz
	idx      int
	phase    Phase
	selected map[string]string   // questionID -> answerID
	checked  map[string]struct{} // questionIDs already checked

	startedAt   time.Time
	completedAt time.Time
	now         func() time.Time
}

// NewSession validates the quiz up front and starts at the first
// question. now is injectable for tests; pass nil for time.Now.
func NewSession(q Quiz, now func() time.Time) (*Session, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	return &Session{
		quiz:      q,
		phase:     PhaseAnswering,
		selected:  map[string]string{},
		checked:   map[string]struct{}{},
		startedAt: now(),
		now:       now,
	}, nil
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Current returns the question under the cursor. Valid until the
// session completes.
func (s *Session) Current() Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quiz.Questions[s.idx]
}

func (s *Session) StartedAt() time.Time { return s.startedAt }

// Selected reports the recorded answer for a question, if any.
func (s *Session) Selected(questionID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.selected[questionID]
	return id, ok
}

// IsChecked reports whether feedback has been revealed for a question.
func (s *Session) IsChecked(questionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.checked[questionID]
	return ok
}

// SelectAnswer records a choice for the current question. Re-selecting
// before Check overwrites; after Check the answer is frozen and the
// call is rejected.
func (s *Session) SelectAnswer(questionID, answerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseCompleted || s.phase == PhaseReady {
		return fmt.Errorf("%w: select in phase %s", ErrIllegalTransition, s.phase)
	}
	cur := s.quiz.Questions[s.idx]
	if questionID != cur.ID {
		return fmt.Errorf("%w: %s", ErrNotCurrent, questionID)
	}
	if _, done := s.checked[questionID]; done || s.phase == PhaseChecked {
		return fmt.Errorf("%w: %s", ErrAlreadyChecked, questionID)
	}
	valid := false
	for _, a := range cur.Answers {
		if a.ID == answerID {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w: %s", ErrUnknownAnswer, answerID)
	}
	s.selected[questionID] = answerID
	return nil
}

// Check reveals correctness for the current question. Requires a
// selection. Idempotent: re-checking an already checked question is a
// no-op.
func (s *Session) Check() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseChecked {
		return nil
	}
	if s.phase != PhaseAnswering {
		return fmt.Errorf("%w: check in phase %s", ErrIllegalTransition, s.phase)
	}
	cur := s.quiz.Questions[s.idx]
	if _, ok := s.selected[cur.ID]; !ok {
		return ErrNoSelection
	}
	s.checked[cur.ID] = struct{}{}
	s.phase = PhaseChecked
	return nil
}

// CurrentCorrect reports whether the checked answer for the current
// question was the correct one. Only meaningful in the checked phase.
func (s *Session) CurrentCorrect() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseChecked {
		return false, fmt.Errorf("%w: feedback before check", ErrIllegalTransition)
	}
	cur := s.quiz.Questions[s.idx]
	return s.selected[cur.ID] == cur.correctAnswerID(), nil
}

// Advance moves past a checked question: to the next question, or to
// the ready-to-complete phase after the last one. Every question must
// have been checked before the session may become ready.
func (s *Session) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseChecked {
		return fmt.Errorf("%w: advance in phase %s", ErrIllegalTransition, s.phase)
	}
	if s.idx < len(s.quiz.Questions)-1 {
		s.idx++
		s.phase = PhaseAnswering
		return nil
	}
	if len(s.checked) != len(s.quiz.Questions) {
		return fmt.Errorf("%w: %d of %d questions checked", ErrIllegalTransition,
			len(s.checked), len(s.quiz.Questions))
	}
	s.phase = PhaseReady
	return nil
}

// Complete scores the session and freezes the outcome. Permitted only
// once, from the ready phase.
func (s *Session) Complete() (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseReady {
		return Outcome{}, fmt.Errorf("%w: complete in phase %s", ErrIllegalTransition, s.phase)
	}

	var score float64
	for _, q := range s.quiz.Questions {
		if s.selected[q.ID] == q.correctAnswerID() {
			score += q.Points
		}
	}
	total := s.quiz.TotalPoints()
	mark := grading.Mark(score, total)

	s.completedAt = s.now()
	s.phase = PhaseCompleted

	return Outcome{
		QuizID:      s.quiz.ID,
		QuizTitle:   s.quiz.Title,
		Score:       score,
		TotalPoints: total,
		Mark:        mark,
		Passed:      grading.IsPassed(mark),
		StartedAt:   s.startedAt,
		CompletedAt: s.completedAt,
	}, nil
}
