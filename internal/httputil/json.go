package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/chronos-hq/chronos/internal/domain"
)

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes the common failure envelope {success:false, message}.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]any{
		"success": false,
		"message": message,
	})
}

// ValidationError writes a 400 envelope carrying per-field issues.
func ValidationError(w http.ResponseWriter, issues domain.FieldErrors) {
	JSON(w, http.StatusBadRequest, map[string]any{
		"success": false,
		"message": "validation failed",
		"errors":  issues,
	})
}
