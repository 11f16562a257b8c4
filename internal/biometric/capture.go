package biometric

import (
	"context"
	"errors"
)

// DialogMode selects the capture dialog variant. It is injected from
// config at session start; business logic never sniffs the environment.
type DialogMode string

const (
	DialogDesktop DialogMode = "desktop"
	DialogMobile  DialogMode = "mobile"
)

// Capture-layer failures. Any of these is non-fatal to the overall
// acknowledgment flow: submission without biometric proof is a valid
// path when biometric is optional for the instruction.
var (
	ErrCameraDenied   = errors.New("biometric: camera access denied")
	ErrNoFaceDetected = errors.New("biometric: no face detected")
	ErrDevice         = errors.New("biometric: device error")
)

// Capturer yields a face embedding or fails. Implementations wrap the
// actual device/model; latency is unbounded, so callers cancel via ctx
// when the capture dialog is closed. A cancelled capture must never
// hand back a partial vector.
type Capturer interface {
	Capture(ctx context.Context, mode DialogMode) (Vector, error)
}

// CaptureAndSeal runs one capture session and seals the resulting
// vector. Abandon-safe: once ctx is cancelled, no vector reaches the
// sealer, even if the capturer raced the cancellation and returned one.
func CaptureAndSeal(ctx context.Context, c Capturer, s *Sealer, mode DialogMode) (*Envelope, error) {
	v, err := c.Capture(ctx, mode)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	env, err := s.Seal(v)
	if err != nil {
		return nil, err
	}
	return &env, nil
}
