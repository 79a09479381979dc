package web

import (
	"net/http"

	"github.com/Gnanapravallika/AutoMate-Hub/internal/core"
)

// errorResponse is the JSON envelope for batch-level failures.
type errorResponse struct {
	Status string           `json:"status"`
	Error  core.UserMessage `json:"error"`
}

// writeError writes a coded error response. Row-level errors do not pass
// through here; they are part of the batch report body.
func writeError(w http.ResponseWriter, status int, msg core.UserMessage) {
	writeJSON(w, status, errorResponse{Status: "error", Error: msg})
}
