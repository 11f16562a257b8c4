package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/safetydesk/trainportal/internal/agreement"
	auth "github.com/safetydesk/trainportal/internal/auth/middleware"
	"github.com/safetydesk/trainportal/internal/biometric"
	"github.com/safetydesk/trainportal/internal/instruction"
	"github.com/safetydesk/trainportal/internal/results"
	"github.com/safetydesk/trainportal/internal/submit"
	syncx "github.com/safetydesk/trainportal/internal/sync"
)

// AckDeps carries the collaborators of the acknowledgment flow.
type AckDeps struct {
	Instructions instruction.Store
	Sealer       *biometric.Sealer
	Submitter    submit.Submitter
	Recorder     *results.Recorder
	Events       *syncx.EventRepo // optional
	Required     []string
}

func PutInstructionHandler(store instruction.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ins instruction.Instruction
		if err := json.NewDecoder(r.Body).Decode(&ins); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if ins.ID == "" || ins.Name == "" {
			http.Error(w, "id and name required", 400)
			return
		}
		if err := store.PutInstruction(r.Context(), ins); err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		_ = json.NewEncoder(w).Encode(ins)
	}
}

func GetInstructionHandler(store instruction.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ins, err := store.GetInstruction(r.Context(), chi.URLParam(r, "instructionID"))
		if err != nil {
			http.Error(w, err.Error(), 404)
			return
		}
		_ = json.NewEncoder(w).Encode(ins)
	}
}

// AcknowledgeHandler runs one acknowledgment submission end to end:
// agreement gating, optional envelope sealing, backend submission and
// best-effort result recording.
func AcknowledgeHandler(d AckDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "instructionID")
		var req struct {
			AgreementAnswers map[string]bool  `json:"agreement_answers"`
			BiometricVector  biometric.Vector `json:"biometric_vector,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}

		ins, err := d.Instructions.GetInstruction(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), 404)
			return
		}

		form := agreement.NewForm(ins.Agreements, d.Required)
		for name, checked := range req.AgreementAnswers {
			if !checked {
				continue
			}
			if err := form.Toggle(name); err != nil {
				http.Error(w, err.Error(), 400)
				return
			}
		}

		var env *biometric.Envelope
		if len(req.BiometricVector) > 0 {
			sealed, err := d.Sealer.Seal(req.BiometricVector)
			if err != nil {
				status := 500
				if errors.Is(err, biometric.ErrVectorLength) {
					status = 400
				}
				http.Error(w, err.Error(), status)
				return
			}
			env = &sealed
		} else if ins.BiometricRequired {
			http.Error(w, "biometric proof required for this instruction", 400)
			return
		}

		gate := agreement.NewGate(ins.ID, form, d.Submitter)
		if err := gate.Submit(r.Context(), env); err != nil {
			switch {
			case errors.Is(err, agreement.ErrNotReady), errors.Is(err, submit.ErrValidation):
				http.Error(w, err.Error(), 400)
			case errors.Is(err, submit.ErrNetwork), errors.Is(err, submit.ErrServer):
				http.Error(w, err.Error(), 502)
			default:
				http.Error(w, err.Error(), 500)
			}
			return
		}

		user := auth.SubjectFromContext(r.Context())
		rec, saved := d.Recorder.RecordInstruction(r.Context(), user, ins.ID, ins.Name)
		if d.Events != nil {
			_ = d.Events.AppendJSON(r.Context(), syncx.TypeInstructionAckd, rec.Key(), rec)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"record": rec, "saved": saved})
	}
}
