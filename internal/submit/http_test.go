package submit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPSubmitterClassifiesResponses(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{200, nil},
		{400, ErrValidation},
		{422, ErrValidation},
		{500, ErrServer},
		{503, ErrServer},
	}
	for _, c := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(c.status)
		}))
		s := NewHTTPSubmitter(srv.URL, time.Second)
		err := s.Submit(context.Background(), Payload{InstructionID: "i1", IdempotencyKey: "k"})
		srv.Close()
		if c.want == nil {
			if err != nil {
				t.Fatalf("status %d: unexpected error %v", c.status, err)
			}
			continue
		}
		if !errors.Is(err, c.want) {
			t.Fatalf("status %d: got %v, want %v", c.status, err, c.want)
		}
	}
}

func TestHTTPSubmitterSendsIdempotencyKey(t *testing.T) {
	var gotKey string
	var gotBody Payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Idempotency-Key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
	}))
	defer srv.Close()

	s := NewHTTPSubmitter(srv.URL, time.Second)
	p := Payload{
		InstructionID:    "i1",
		IdempotencyKey:   "key-123",
		AgreementAnswers: map[string]bool{"compliance": true},
	}
	if err := s.Submit(context.Background(), p); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if gotKey != "key-123" {
		t.Fatalf("idempotency header = %q", gotKey)
	}
	if gotBody.InstructionID != "i1" || !gotBody.AgreementAnswers["compliance"] {
		t.Fatalf("payload not forwarded: %+v", gotBody)
	}
}

func TestHTTPSubmitterTimesOut(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer func() { close(block); srv.Close() }()

	s := NewHTTPSubmitter(srv.URL, 50*time.Millisecond)
	err := s.Submit(context.Background(), Payload{InstructionID: "i1"})
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected ErrNetwork on timeout, got %v", err)
	}
}
