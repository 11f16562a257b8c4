package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrNotFound = errors.New("quiz: not found")

// Store is the quiz catalog. GetQuiz is taker-safe: correct-answer
// flags are stripped so the client can never re-derive the key; the
// session engine loads the full quiz through GetQuizFull.
type Store interface {
	PutQuiz(ctx context.Context, q Quiz) error
	GetQuiz(ctx context.Context, id string) (Quiz, error)
	GetQuizFull(ctx context.Context, id string) (Quiz, error)
}

type memoryStore struct {
	mu      sync.RWMutex
	quizzes map[string]Quiz
}

func NewMemoryStore() Store {
	return &memoryStore{quizzes: map[string]Quiz{}}
}

func (m *memoryStore) PutQuiz(_ context.Context, q Quiz) error {
	if err := q.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quizzes[q.ID] = q
	return nil
}

func (m *memoryStore) GetQuiz(ctx context.Context, id string) (Quiz, error) {
	q, err := m.GetQuizFull(ctx, id)
	if err != nil {
		return Quiz{}, err
	}
	return stripAnswers(q), nil
}

func (m *memoryStore) GetQuizFull(_ context.Context, id string) (Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.quizzes[id]
	if !ok {
		return Quiz{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return q, nil
}

// SQLStore keeps quizzes as JSON blobs, one row per quiz.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) PutQuiz(ctx context.Context, q Quiz) error {
	if err := q.Validate(); err != nil {
		return err
	}
	qj, err := json.Marshal(q.Questions)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO quizzes (id,title,questions_json,created_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, questions_json=EXCLUDED.questions_json`,
		q.ID, q.Title, string(qj), time.Now().Unix())
	return err
}

func (s *SQLStore) GetQuiz(ctx context.Context, id string) (Quiz, error) {
	q, err := s.GetQuizFull(ctx, id)
	if err != nil {
		return Quiz{}, err
	}
	return stripAnswers(q), nil
}

func (s *SQLStore) GetQuizFull(ctx context.Context, id string) (Quiz, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,title,questions_json FROM quizzes WHERE id=$1`, id)
	var q Quiz
	var qjson string
	if err := row.Scan(&q.ID, &q.Title, &qjson); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quiz{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Quiz{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &q.Questions); err != nil {
		return Quiz{}, err
	}
	return q, nil
}

func stripAnswers(q Quiz) Quiz {
	qs := make([]Question, len(q.Questions))
	copy(qs, q.Questions)
	for i := range qs {
		as := make([]Answer, len(qs[i].Answers))
		copy(as, qs[i].Answers)
		for j := range as {
			as[j].Correct = false
		}
		qs[i].Answers = as
	}
	q.Questions = qs
	return q
}
