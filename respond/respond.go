// Package respond holds the JSON helpers every handler writes through.
package respond

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"relay/model"
	"relay/relayerr"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Raw writes an already-encoded JSON body unchanged.
func Raw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func Text(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// Error writes {"error": msg} using the status and client-safe message of err.
func Error(w http.ResponseWriter, err error) {
	JSON(w, relayerr.StatusOf(err), model.ErrorResponse{Error: relayerr.MessageOf(err)})
}

// DecodeJSON reads the request body into v. An empty body leaves v at its
// zero value so field validation reports what is missing.
// Anything after the first JSON value is rejected.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err == nil {
		var extra json.RawMessage
		if err = dec.Decode(&extra); errors.Is(err, io.EOF) {
			return nil
		}
		if err == nil {
			err = errors.New("trailing data after JSON body")
		}
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return relayerr.Validation("request body too large")
	}
	return relayerr.Validation("invalid request body")
}
