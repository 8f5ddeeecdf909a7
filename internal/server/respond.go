// SPDX-License-Identifier: MIT
package server

import (
	"encoding/json"
	"net/http"

	"github.com/mdobak/go-xerrors"

	"signallab/internal/log"
)

type errorBody struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("Server: failed to encode response: %v", err)
	}
}

func writeValidation(w http.ResponseWriter, kind, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: "ValidationError", Kind: kind, Message: msg})
}

// writeInternal logs err with a stack trace and reports a generic 500.
func writeInternal(w http.ResponseWriter, r *http.Request, err error) {
	traced := xerrors.New(err)
	log.With("method", r.Method, "path", r.URL.Path).Errorf("Server: %s", xerrors.Sprint(traced))
	writeJSON(w, http.StatusInternalServerError, errorBody{
		Error:   "InternalServerError",
		Message: err.Error(),
	})
}
