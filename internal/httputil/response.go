package httputil

import (
	"encoding/json"
	"net/http"
)

// Envelope is the response shape shared with the external backend:
// code 200 signals success, anything else is a business failure.
// The app's own JSON endpoints speak the same dialect so the browser
// code handles both origins uniformly.
type Envelope struct {
	Code int    `json:"code"`
	Data any    `json:"data"`
	Msg  string `json:"msg"`
}

// RespondData writes a success envelope with HTTP 200.
func RespondData(w http.ResponseWriter, data any) {
	writeEnvelope(w, http.StatusOK, Envelope{Code: http.StatusOK, Data: data, Msg: "success"})
}

// RespondError writes a failure envelope. The business code doubles as
// the HTTP status so transport-level clients see the failure too.
func RespondError(w http.ResponseWriter, code int, msg string) {
	status := code
	if status < 100 || status > 599 {
		status = http.StatusInternalServerError
	}
	writeEnvelope(w, status, Envelope{Code: code, Msg: msg})
}

// writeEnvelope marshals first so encoding failures never produce a
// partial body after headers are sent.
func writeEnvelope(w http.ResponseWriter, status int, env Envelope) {
	payload, err := json.Marshal(env)
	if err != nil {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal server error"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}
