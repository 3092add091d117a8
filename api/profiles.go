package api

import (
	"net/http"

	"github.com/rialo-labs/builders-arena/pkg/models"
	"github.com/rialo-labs/builders-arena/pkg/repository"
)

type ProfilesHandler struct {
	store repository.Store
}

func NewProfilesHandler(store repository.Store) *ProfilesHandler {
	return &ProfilesHandler{store: store}
}

// List handles GET /v1/profiles, ordered by wins then votes received.
func (h *ProfilesHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.store.ListProfiles(r.Context())
	if err != nil {
		logger.Error("list profiles", "err", err)
		writeError(w, "Failed to load profiles", http.StatusInternalServerError)
		return
	}
	if profiles == nil {
		profiles = []models.BuilderProfile{}
	}
	writeJSON(w, profiles, http.StatusOK)
}

type profileResponse struct {
	models.BuilderProfile
	Participations []models.Participant `json:"participations"`
}

// Get handles GET /v1/profiles/{discordID}: the aggregate plus the
// participations it derives from, oldest first.
func (h *ProfilesHandler) Get(w http.ResponseWriter, r *http.Request) {
	discordID := muxVar(r, "discordID")
	if discordID == "" {
		writeError(w, "Missing discord ID", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	profile, err := h.store.GetProfile(ctx, discordID)
	if err != nil {
		logger.Error("load profile", "err", err)
		writeError(w, "Failed to load profile", http.StatusInternalServerError)
		return
	}
	if profile == nil {
		writeError(w, "Profile not found", http.StatusNotFound)
		return
	}

	parts, err := h.store.ListByDiscordID(ctx, discordID)
	if err != nil {
		logger.Error("list participations", "err", err)
		writeError(w, "Failed to load profile", http.StatusInternalServerError)
		return
	}
	if parts == nil {
		parts = []models.Participant{}
	}

	writeJSON(w, profileResponse{BuilderProfile: *profile, Participations: parts}, http.StatusOK)
}

// Winners handles GET /v1/winners: the hall of fame.
func (h *ProfilesHandler) Winners(w http.ResponseWriter, r *http.Request) {
	winners, err := h.store.ListWinners(r.Context())
	if err != nil {
		logger.Error("list winners", "err", err)
		writeError(w, "Failed to load winners", http.StatusInternalServerError)
		return
	}
	if winners == nil {
		winners = []models.Participant{}
	}
	writeJSON(w, winners, http.StatusOK)
}
