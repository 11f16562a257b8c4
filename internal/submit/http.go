package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 15 * time.Second

// HTTPSubmitter posts payloads to the acknowledgment backend with an
// explicit cancellable deadline per request.
type HTTPSubmitter struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

func NewHTTPSubmitter(baseURL string, timeout time.Duration) *HTTPSubmitter {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPSubmitter{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{},
		timeout: timeout,
	}
}

func (s *HTTPSubmitter) Submit(ctx context.Context, p Payload) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	buf, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("%w: marshal payload: %v", ErrValidation, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/acknowledgments", bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", p.IdempotencyKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return fmt.Errorf("%w: status %d", ErrValidation, resp.StatusCode)
	default:
		return fmt.Errorf("%w: status %d", ErrServer, resp.StatusCode)
	}
}
