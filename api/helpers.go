package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

func muxVar(r *http.Request, key string) string {
	return mux.Vars(r)[key]
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", "err", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, errorResponse{Error: message}, status)
}
