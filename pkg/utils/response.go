package utils

import (
	"encoding/json"
	"log"
	"net/http"
)

// RespondJSON はJSONレスポンスを送信する
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// RespondError はエラーレスポンスを送信する
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, map[string]string{"error": message})
}

// RespondErrorDetail sends an error envelope carrying upstream diagnostics.
func RespondErrorDetail(w http.ResponseWriter, status int, message, detail string) {
	RespondJSON(w, status, map[string]string{"error": message, "detail": detail})
}
