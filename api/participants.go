package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/qri-io/jsonschema"
	"github.com/rialo-labs/builders-arena/internal/arena"
	"github.com/rialo-labs/builders-arena/pkg/models"
	"github.com/rialo-labs/builders-arena/pkg/repository"
)

// submissionSchema validates the shape of a participant submission before it
// reaches the reconciler.
const submissionSchemaJSON = `{
	"type": "object",
	"required": ["event_id", "discord_id", "discord_username", "project_name", "project_one_liner"],
	"properties": {
		"event_id": {"type": "string", "minLength": 1},
		"discord_id": {"type": "string", "minLength": 1},
		"discord_username": {"type": "string", "minLength": 1},
		"discord_avatar_url": {"type": "string"},
		"twitter_handle": {"type": "string"},
		"github_username": {"type": "string"},
		"project_name": {"type": "string", "minLength": 1, "maxLength": 200},
		"project_one_liner": {"type": "string", "minLength": 1, "maxLength": 500},
		"project_pitch": {"type": "string"},
		"project_link": {"type": "string"},
		"project_github_link": {"type": "string"},
		"project_screenshot_url": {"type": "string"},
		"project_category": {"type": "string"},
		"tech_stack": {"type": "array", "items": {"type": "string"}},
		"project_status": {"enum": ["idea", "building", "live", "launched"]},
		"team_size": {"enum": ["solo", "duo", "team"]}
	}
}`

var submissionSchema = mustSchema(submissionSchemaJSON)

func mustSchema(raw string) *jsonschema.Schema {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(raw), rs); err != nil {
		panic(fmt.Sprintf("compile submission schema: %v", err))
	}
	return rs
}

type ParticipantsHandler struct {
	store      repository.Store
	reconciler *arena.Reconciler
}

func NewParticipantsHandler(store repository.Store, reconciler *arena.Reconciler) *ParticipantsHandler {
	return &ParticipantsHandler{store: store, reconciler: reconciler}
}

type createParticipantRequest struct {
	EventID              string              `json:"event_id"`
	DiscordID            string              `json:"discord_id"`
	DiscordUsername      string              `json:"discord_username"`
	DiscordAvatarURL     string              `json:"discord_avatar_url"`
	TwitterHandle        string              `json:"twitter_handle"`
	GitHubUsername       string              `json:"github_username"`
	ProjectName          string              `json:"project_name"`
	ProjectOneLiner      string              `json:"project_one_liner"`
	ProjectPitch         string              `json:"project_pitch"`
	ProjectLink          string              `json:"project_link"`
	ProjectGitHubLink    string              `json:"project_github_link"`
	ProjectScreenshotURL string              `json:"project_screenshot_url"`
	ProjectCategory      string              `json:"project_category"`
	TechStack            []string            `json:"tech_stack"`
	ProjectStatus        string              `json:"project_status"`
	TeamSize             string              `json:"team_size"`
	GitHubData           *models.GitHubStats `json:"github_data"`
}

// Create handles POST /v1/admin/participants: validates the submission,
// stores it, and runs the profile reconciler create path.
func (h *ParticipantsHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if errs, err := submissionSchema.ValidateBytes(ctx, body); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	} else if len(errs) > 0 {
		writeError(w, errs[0].Error(), http.StatusBadRequest)
		return
	}

	var req createParticipantRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	event, err := h.store.GetEvent(ctx, req.EventID)
	if err != nil {
		logger.Error("load event", "err", err)
		writeError(w, "Failed to load event", http.StatusInternalServerError)
		return
	}
	if event == nil {
		writeError(w, "Event not found", http.StatusNotFound)
		return
	}

	if req.ProjectStatus == "" {
		req.ProjectStatus = models.StatusBuilding
	}
	if req.TeamSize == "" {
		req.TeamSize = models.TeamSolo
	}

	p := &models.Participant{
		ID:                   uuid.NewString(),
		EventID:              req.EventID,
		DiscordID:            req.DiscordID,
		DiscordUsername:      req.DiscordUsername,
		DiscordAvatarURL:     req.DiscordAvatarURL,
		TwitterHandle:        strings.TrimPrefix(req.TwitterHandle, "@"),
		GitHubUsername:       req.GitHubUsername,
		GitHub:               req.GitHubData,
		ProjectName:          req.ProjectName,
		ProjectOneLiner:      req.ProjectOneLiner,
		ProjectPitch:         req.ProjectPitch,
		ProjectLink:          req.ProjectLink,
		ProjectGitHubLink:    req.ProjectGitHubLink,
		ProjectScreenshotURL: req.ProjectScreenshotURL,
		ProjectCategory:      req.ProjectCategory,
		TechStack:            req.TechStack,
		ProjectStatus:        req.ProjectStatus,
		TeamSize:             req.TeamSize,
	}

	if err := h.reconciler.CreateParticipant(ctx, p); err != nil {
		logger.Error("create participant", "err", err)
		writeError(w, "Failed to create participant", http.StatusInternalServerError)
		return
	}

	writeJSON(w, p, http.StatusCreated)
}

// ListByEvent handles GET /v1/events/{id}/participants. Identity fields are
// merged with the latest builder-profile values so cards show the freshest
// avatar and username.
func (h *ParticipantsHandler) ListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID := muxVar(r, "id")
	if eventID == "" {
		writeError(w, "Missing event ID", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	parts, err := h.store.ListByEvent(ctx, eventID)
	if err != nil {
		logger.Error("list participants", "err", err)
		writeError(w, "Failed to load participants", http.StatusInternalServerError)
		return
	}

	seen := make(map[string]*models.BuilderProfile)
	for i := range parts {
		prof, ok := seen[parts[i].DiscordID]
		if !ok {
			prof, err = h.store.GetProfile(ctx, parts[i].DiscordID)
			if err != nil {
				logger.Error("load profile", "err", err)
				writeError(w, "Failed to load participants", http.StatusInternalServerError)
				return
			}
			seen[parts[i].DiscordID] = prof
		}
		if prof == nil {
			continue
		}
		if prof.DiscordAvatarURL != "" {
			parts[i].DiscordAvatarURL = prof.DiscordAvatarURL
		}
		if prof.DiscordUsername != "" {
			parts[i].DiscordUsername = prof.DiscordUsername
		}
	}

	if parts == nil {
		parts = []models.Participant{}
	}
	writeJSON(w, parts, http.StatusOK)
}

type patchParticipantRequest struct {
	ID        string `json:"id"`
	IsWinner  *bool  `json:"is_winner,omitempty"`
	VoteCount *int64 `json:"vote_count,omitempty"`
}

// Patch handles PATCH /v1/admin/participants: winner flag and vote-count
// override. Winner changes run the reconciler winner path.
func (h *ParticipantsHandler) Patch(w http.ResponseWriter, r *http.Request) {
	var req patchParticipantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		writeError(w, "Missing participant ID", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if req.IsWinner != nil {
		if err := h.reconciler.SetWinner(ctx, req.ID, *req.IsWinner); err != nil {
			if errors.Is(err, arena.ErrNotFound) {
				writeError(w, "Participant not found", http.StatusNotFound)
				return
			}
			logger.Error("set winner", "err", err)
			writeError(w, "Failed to update participant", http.StatusInternalServerError)
			return
		}
	}

	if req.VoteCount != nil {
		if *req.VoteCount < 0 {
			writeError(w, "Vote count cannot be negative", http.StatusBadRequest)
			return
		}
		if err := h.store.SetVoteCount(ctx, req.ID, *req.VoteCount); err != nil {
			logger.Error("override vote count", "err", err)
			writeError(w, "Failed to update participant", http.StatusInternalServerError)
			return
		}
	}

	writeJSON(w, map[string]bool{"success": true}, http.StatusOK)
}

type putParticipantRequest struct {
	Action           string  `json:"action,omitempty"`
	DiscordID        string  `json:"discord_id,omitempty"`
	ID               string  `json:"id,omitempty"`
	DiscordAvatarURL *string `json:"discord_avatar_url,omitempty"`
	DiscordUsername  *string `json:"discord_username,omitempty"`
	ProjectName      *string `json:"project_name,omitempty"`
	ProjectOneLiner  *string `json:"project_one_liner,omitempty"`
}

// Put handles PUT /v1/admin/participants: either the sync_avatar action
// (copy the profile avatar onto the identity's rows) or targeted field
// updates on one participant.
func (h *ParticipantsHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req putParticipantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	if req.Action == "sync_avatar" {
		if req.DiscordID == "" {
			writeError(w, "Missing discord ID", http.StatusBadRequest)
			return
		}
		if err := h.reconciler.SyncAvatar(ctx, req.DiscordID); err != nil {
			if errors.Is(err, arena.ErrNotFound) {
				writeError(w, "No profile avatar found", http.StatusBadRequest)
				return
			}
			logger.Error("sync avatar", "err", err)
			writeError(w, "Failed to sync avatar", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]bool{"success": true}, http.StatusOK)
		return
	}

	if req.ID == "" {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	p, err := h.store.GetParticipant(ctx, req.ID)
	if err != nil {
		logger.Error("load participant", "err", err)
		writeError(w, "Failed to update participant", http.StatusInternalServerError)
		return
	}
	if p == nil {
		writeError(w, "Participant not found", http.StatusNotFound)
		return
	}

	if req.DiscordAvatarURL != nil {
		p.DiscordAvatarURL = *req.DiscordAvatarURL
	}
	if req.DiscordUsername != nil {
		p.DiscordUsername = *req.DiscordUsername
	}
	if req.ProjectName != nil {
		p.ProjectName = *req.ProjectName
	}
	if req.ProjectOneLiner != nil {
		p.ProjectOneLiner = *req.ProjectOneLiner
	}

	if err := h.store.UpdateParticipant(ctx, p); err != nil {
		logger.Error("update participant", "err", err)
		writeError(w, "Failed to update participant", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]bool{"success": true}, http.StatusOK)
}

// Delete handles DELETE /v1/admin/participants and runs the reconciler
// delete path.
func (h *ParticipantsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		writeError(w, "Missing participant ID", http.StatusBadRequest)
		return
	}

	if err := h.reconciler.DeleteParticipant(r.Context(), req.ID); err != nil {
		if errors.Is(err, arena.ErrNotFound) {
			writeError(w, "Participant not found", http.StatusNotFound)
			return
		}
		logger.Error("delete participant", "err", err)
		writeError(w, "Failed to delete participant", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]bool{"success": true}, http.StatusOK)
}
