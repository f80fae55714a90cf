package common

import (
	"encoding/json"
	"net/http"
)

// Null is the sentinel placed in payload fields when an operation fails.
// The wire protocol uses the literal string "NULL" rather than a JSON null
// for string-typed fields.
const Null = "NULL"

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// RespondWithStatus writes the protocol's minimal {"status": N} body.
// Endpoint-local status codes always travel on HTTP 200.
func RespondWithStatus(w http.ResponseWriter, status int) {
	RespondWithJSON(w, http.StatusOK, map[string]int{"status": status})
}
