package api

import (
	"encoding/json"
	"net/http"

	"github.com/rialo-labs/builders-arena/pkg/repository"
)

type SettingsHandler struct {
	store repository.Store
}

func NewSettingsHandler(store repository.Store) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// Get handles GET /v1/settings.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.GetSettings(r.Context())
	if err != nil || settings == nil {
		logger.Error("load settings", "err", err)
		writeError(w, "Failed to load settings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, settings, http.StatusOK)
}

type updateSettingsRequest struct {
	HeroTitle           *string `json:"hero_title,omitempty"`
	HeroSubtitle        *string `json:"hero_subtitle,omitempty"`
	CurrentBuildersWeek *int    `json:"current_builders_hub_week,omitempty"`
	CurrentSharkWeek    *int    `json:"current_shark_tank_week,omitempty"`
	AnnouncementText    *string `json:"announcement_text,omitempty"`
}

// Update handles PATCH /v1/admin/settings.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	settings, err := h.store.GetSettings(ctx)
	if err != nil || settings == nil {
		logger.Error("load settings", "err", err)
		writeError(w, "Failed to load settings", http.StatusInternalServerError)
		return
	}

	if req.HeroTitle != nil {
		settings.HeroTitle = *req.HeroTitle
	}
	if req.HeroSubtitle != nil {
		settings.HeroSubtitle = *req.HeroSubtitle
	}
	if req.CurrentBuildersWeek != nil {
		settings.CurrentBuildersWeek = *req.CurrentBuildersWeek
	}
	if req.CurrentSharkWeek != nil {
		settings.CurrentSharkWeek = *req.CurrentSharkWeek
	}
	if req.AnnouncementText != nil {
		settings.AnnouncementText = *req.AnnouncementText
	}

	if err := h.store.UpdateSettings(ctx, settings); err != nil {
		logger.Error("update settings", "err", err)
		writeError(w, "Failed to update settings", http.StatusInternalServerError)
		return
	}

	writeJSON(w, settings, http.StatusOK)
}
