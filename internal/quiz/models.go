package quiz

import (
	"errors"
	"fmt"
)

type Answer struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Correct bool   `json:"correct,omitempty"`
}

type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Answers []Answer `json:"answers"`
	Points  float64  `json:"points"`
}

type Quiz struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

var (
	ErrNoQuestions  = errors.New("quiz: no questions")
	ErrBadAnswerKey = errors.New("quiz: question must have exactly one correct answer")
	ErrBadPoints    = errors.New("quiz: question points must be positive")
)

// Validate fails fast on malformed question data. A question with zero
// or multiple correct answers is a data error, never silently scored.
func (q Question) Validate() error {
	correct := 0
	for _, a := range q.Answers {
		if a.Correct {
			correct++
		}
	}
	if correct != 1 {
		return fmt.Errorf("%w: question %q has %d", ErrBadAnswerKey, q.ID, correct)
	}
	if q.Points <= 0 {
		return fmt.Errorf("%w: question %q", ErrBadPoints, q.ID)
	}
	return nil
}

func (q Quiz) Validate() error {
	if len(q.Questions) == 0 {
		return fmt.Errorf("%w: quiz %q", ErrNoQuestions, q.ID)
	}
	for _, qu := range q.Questions {
		if err := qu.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// TotalPoints is the sum over all questions.
func (q Quiz) TotalPoints() float64 {
	var sum float64
	for _, qu := range q.Questions {
		sum += qu.Points
	}
	return sum
}

func (q Question) correctAnswerID() string {
	for _, a := range q.Answers {
		if a.Correct {
			return a.ID
		}
	}
	return ""
}
