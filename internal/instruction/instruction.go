package instruction

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/safetydesk/trainportal/internal/agreement"
)

var ErrNotFound = errors.New("instruction: not found")

// Instruction is one piece of instructional material employees
// acknowledge. BiometricRequired marks instructions where identity
// proof accompanies the acknowledgment; elsewhere the capture step is
// skipped entirely.
type Instruction struct {
	ID                string                `json:"id"`
	Name              string                `json:"name"`
	BodyHTML          string                `json:"body_html,omitempty"`
	Agreements        []agreement.Agreement `json:"agreements"`
	BiometricRequired bool                  `json:"biometric_required"`
}

type Store interface {
	PutInstruction(ctx context.Context, ins Instruction) error
	GetInstruction(ctx context.Context, id string) (Instruction, error)
}

type memoryStore struct {
	mu           sync.RWMutex
	instructions map[string]Instruction
}

func NewMemoryStore() Store {
	return &memoryStore{instructions: map[string]Instruction{}}
}

func (m *memoryStore) PutInstruction(_ context.Context, ins Instruction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.instructions[ins.ID] = ins
	return nil
}

func (m *memoryStore) GetInstruction(_ context.Context, id string) (Instruction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ins, ok := m.instructions[id]
	if !ok {
		return Instruction{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return ins, nil
}

// SQLStore keeps instructions as JSON blobs, one row per instruction.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) PutInstruction(ctx context.Context, ins Instruction) error {
	buf, err := json.Marshal(ins)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO instructions (id,name,doc_json,created_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name, doc_json=EXCLUDED.doc_json`,
		ins.ID, ins.Name, string(buf), time.Now().Unix())
	return err
}

func (s *SQLStore) GetInstruction(ctx context.Context, id string) (Instruction, error) {
	row := s.db.QueryRowContext(ctx, `SELECT doc_json FROM instructions WHERE id=$1`, id)
	var buf string
	if err := row.Scan(&buf); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Instruction{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Instruction{}, err
	}
	var ins Instruction
	if err := json.Unmarshal([]byte(buf), &ins); err != nil {
		return Instruction{}, err
	}
	return ins, nil
}
