// utils/respond.go
package utils

import (
	"encoding/json"
	"net/http"
	"time"
)

// Envelope is the response convention for every endpoint:
// {success, message, data, timestamp, meta?}.
type Envelope struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
	Meta      interface{} `json:"meta,omitempty"`
}

// ListMeta carries pagination totals for list endpoints.
type ListMeta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

func write(w http.ResponseWriter, status int, env Envelope) {
	env.Timestamp = time.Now().UTC().Format(time.RFC3339)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}

// Respond writes a success envelope.
func Respond(w http.ResponseWriter, status int, message string, data interface{}) {
	write(w, status, Envelope{Success: true, Message: message, Data: data})
}

// RespondList writes a success envelope with pagination meta.
func RespondList(w http.ResponseWriter, message string, data interface{}, meta ListMeta) {
	write(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data, Meta: meta})
}

// Error writes a failure envelope with the given HTTP status.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{Success: false, Message: message})
}

// Fail writes a failure envelope carrying diagnostic data.
func Fail(w http.ResponseWriter, status int, message string, data interface{}) {
	write(w, status, Envelope{Success: false, Message: message, Data: data})
}

// ValidationError writes a 400 with field-level messages.
func ValidationError(w http.ResponseWriter, errs []string) {
	write(w, http.StatusBadRequest, Envelope{
		Success: false,
		Message: "Dados inválidos",
		Data:    map[string]interface{}{"errors": errs},
	})
}
