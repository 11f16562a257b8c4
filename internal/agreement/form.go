package agreement

import (
	"errors"
	"fmt"
	"sync"
)

// Agreement is one named acknowledgment checkbox tied to an
// instruction document. Immutable, supplied per instruction.
type Agreement struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

var ErrUnknownAgreement = errors.New("agreement: unknown agreement name")

// Form holds the per-instruction acknowledgment state: one boolean per
// agreement plus the derived all-checked aggregate. A form is owned by
// the active workflow and has no identity beyond it; mutations are
// serialized by an internal mutex.
type Form struct {
	mu sync.Mutex

	agreements []Agreement
	required   map[string]struct{}
	checked    map[string]bool
}

// NewForm starts all-unchecked. requiredNames is the fixed subset that
// gates submission; names outside it are informational only.
func NewForm(agreements []Agreement, requiredNames []string) *Form {
	req := make(map[string]struct{}, len(requiredNames))
	for _, n := range requiredNames {
		req[n] = struct{}{}
	}
	f := &Form{
		agreements: agreements,
		required:   req,
		checked:    make(map[string]bool, len(agreements)),
	}
	for _, a := range agreements {
		f.checked[a.Name] = false
	}
	return f
}

// Toggle flips one agreement.
func (f *Form) Toggle(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.checked[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAgreement, name)
	}
	f.checked[name] = !cur
	return nil
}

// ToggleAll sets every agreement to checked.
func (f *Form) ToggleAll(checked bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for name := range f.checked {
		f.checked[name] = checked
	}
}

// AllChecked is the AND over all entries.
func (f *Form) AllChecked() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.checked {
		if !v {
			return false
		}
	}
	return len(f.checked) > 0
}

// SubmitReady reports whether every required agreement is checked.
// Optional agreements never block submission.
func (f *Form) SubmitReady() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for name := range f.required {
		if !f.checked[name] {
			return false
		}
	}
	return true
}

// Answers returns a copy of the current name→checked mapping.
func (f *Form) Answers() map[string]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]bool, len(f.checked))
	for k, v := range f.checked {
		out[k] = v
	}
	return out
}

// Reset returns the form to all-unchecked, as after a successful
// submission.
func (f *Form) Reset() {
	f.ToggleAll(false)
}
