package response

import (
	"encoding/json"
	"net/http"
	"time"
)

// ErrorBody is the error envelope the dashboard expects on every failure.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorBody{
		Error: ErrorDetail{
			Message:   msg,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	})
}
