// Package httpx holds the JSON response helpers shared by all handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ritamendes/fornaria-backend/internal/apperr"
)

// Respond writes body as JSON with the given status code.
func Respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// WriteError maps an error to its status code and writes the JSON envelope.
// Internal causes are never included in the payload.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := errorBody{Error: "internal server error"}

	var e *apperr.Error
	if errors.As(err, &e) {
		switch e.Kind {
		case apperr.KindNotFound:
			status = http.StatusNotFound
			body.Error = e.Message
		case apperr.KindValidation:
			status = http.StatusUnprocessableEntity
			body.Error = e.Message
			body.Field = e.Field
		case apperr.KindConflict:
			status = http.StatusConflict
			body.Error = e.Message
		}
	}

	Respond(w, status, body)
}

// BadRequest writes a 400 for malformed request payloads.
func BadRequest(w http.ResponseWriter, err error) {
	Respond(w, http.StatusBadRequest, errorBody{Error: err.Error()})
}
