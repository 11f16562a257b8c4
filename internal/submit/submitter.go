package submit

import (
	"context"
	"errors"

	"github.com/safetydesk/trainportal/internal/biometric"
)

// Structured submission failures. The agreement gate surfaces these to
// the user without corrupting form state, so a retry is always safe
// from the client's point of view; the idempotency key makes it safe
// server-side too.
var (
	ErrValidation = errors.New("submit: payload rejected")
	ErrServer     = errors.New("submit: server failure")
	ErrNetwork    = errors.New("submit: network failure")
)

// Payload is the transient acknowledgment submission built at submit
// time. EncryptedBiometric is nil when biometric proof was skipped.
type Payload struct {
	InstructionID      string              `json:"instruction_id"`
	IdempotencyKey     string              `json:"idempotency_key"`
	AgreementAnswers   map[string]bool     `json:"agreement_answers"`
	EncryptedBiometric *biometric.Envelope `json:"encrypted_biometric,omitempty"`
}

// Submitter is the network boundary accepting acknowledgment payloads.
type Submitter interface {
	Submit(ctx context.Context, p Payload) error
}
