package http

import (
	"encoding/json"
	"net/http"

	"github.com/safetydesk/trainportal/internal/biometric"
)

// GET /capabilities — client capability hints resolved from config at
// startup, so clients never sniff the environment themselves.
func CapabilitiesHandler(dialog biometric.DialogMode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"biometric_dialog":     dialog,
			"biometric_vector_len": biometric.VectorLen,
		})
	}
}
