package api

import (
	"errors"
	"net/http"

	"github.com/rialo-labs/builders-arena/pkg/github"
)

type GitHubHandler struct {
	client *github.Client
}

func NewGitHubHandler(client *github.Client) *GitHubHandler {
	return &GitHubHandler{client: client}
}

// Get handles GET /v1/github/{username}: aggregate public stats for a
// username, served from the 24h cache when fresh. Read-only; no data-model
// side effects.
func (h *GitHubHandler) Get(w http.ResponseWriter, r *http.Request) {
	username := muxVar(r, "username")
	if username == "" {
		writeError(w, "Username is required", http.StatusBadRequest)
		return
	}

	profile, err := h.client.FetchProfile(r.Context(), username)
	if err != nil {
		switch {
		case errors.Is(err, github.ErrUserNotFound):
			writeError(w, "GitHub user not found", http.StatusNotFound)
		case errors.Is(err, github.ErrCircuitOpen):
			writeError(w, "GitHub temporarily unavailable", http.StatusServiceUnavailable)
		default:
			logger.Error("fetch github profile", "err", err)
			writeError(w, "Failed to fetch GitHub profile", http.StatusBadGateway)
		}
		return
	}

	writeJSON(w, profile, http.StatusOK)
}
