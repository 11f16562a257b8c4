package agreement

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/safetydesk/trainportal/internal/biometric"
	"github.com/safetydesk/trainportal/internal/submit"
)

var ErrNotReady = errors.New("agreement: required agreements not checked")

// Gate drives acknowledgment submission for one instruction. Exactly
// one submission may be in flight per gate; a second Submit while one
// is running is a no-op. On success the form resets to all-unchecked;
// on failure the form state is retained so the user can retry.
type Gate struct {
	mu         sync.Mutex
	submitting bool

	instructionID string
	form          *Form
	submitter     submit.Submitter
}

func NewGate(instructionID string, form *Form, submitter submit.Submitter) *Gate {
	return &Gate{instructionID: instructionID, form: form, submitter: submitter}
}

func (g *Gate) Form() *Form { return g.form }

// Submit builds the payload from the current form state and hands it
// to the backend. env is nil when biometric proof was skipped, which
// is a valid path whenever biometric is optional for the instruction.
func (g *Gate) Submit(ctx context.Context, env *biometric.Envelope) error {
	g.mu.Lock()
	if g.submitting {
		g.mu.Unlock()
		return nil
	}
	g.submitting = true
	g.mu.Unlock()
	defer func() {
		g.mu.Lock()
		g.submitting = false
		g.mu.Unlock()
	}()

	if !g.form.SubmitReady() {
		return ErrNotReady
	}

	p := submit.Payload{
		InstructionID:      g.instructionID,
		IdempotencyKey:     uuid.NewString(),
		AgreementAnswers:   g.form.Answers(),
		EncryptedBiometric: env,
	}
	if err := g.submitter.Submit(ctx, p); err != nil {
		return err
	}
	g.form.Reset()
	return nil
}
