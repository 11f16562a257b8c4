package biometric

import (
	"context"
	"errors"
	"testing"
)

type fakeCapturer struct {
	vec Vector
	err error
}

func (f fakeCapturer) Capture(_ context.Context, _ DialogMode) (Vector, error) {
	return f.vec, f.err
}

func TestCaptureAndSeal(t *testing.T) {
	s, err := NewSealer("portal-secret")
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}
	env, err := CaptureAndSeal(context.Background(), fakeCapturer{vec: testVector(VectorLen)}, s, DialogDesktop)
	if err != nil {
		t.Fatalf("CaptureAndSeal: %v", err)
	}
	if env == nil || env.Ciphertext == "" {
		t.Fatalf("expected sealed envelope, got %+v", env)
	}
}

func TestCaptureFailurePropagates(t *testing.T) {
	s, _ := NewSealer("portal-secret")
	_, err := CaptureAndSeal(context.Background(), fakeCapturer{err: ErrNoFaceDetected}, s, DialogMobile)
	if !errors.Is(err, ErrNoFaceDetected) {
		t.Fatalf("expected ErrNoFaceDetected, got %v", err)
	}
}

// A capture that races a user-initiated close must never reach the
// sealer with stale data.
func TestCancelledCaptureNeverSeals(t *testing.T) {
	s, _ := NewSealer("portal-secret")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	env, err := CaptureAndSeal(ctx, fakeCapturer{vec: testVector(VectorLen)}, s, DialogDesktop)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if env != nil {
		t.Fatalf("sealed envelope produced after cancellation")
	}
}
