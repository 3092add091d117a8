package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rialo-labs/builders-arena/internal/arena"
	"github.com/rialo-labs/builders-arena/pkg/models"
	"github.com/rialo-labs/builders-arena/pkg/repository"
)

type EventsHandler struct {
	store      repository.Store
	reconciler *arena.Reconciler
}

func NewEventsHandler(store repository.Store, reconciler *arena.Reconciler) *EventsHandler {
	return &EventsHandler{store: store, reconciler: reconciler}
}

// List handles GET /v1/events.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.store.ListEvents(r.Context())
	if err != nil {
		logger.Error("list events", "err", err)
		writeError(w, "Failed to load events", http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	writeJSON(w, events, http.StatusOK)
}

type createEventRequest struct {
	EventType   string `json:"event_type"`
	WeekNumber  int    `json:"week_number"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Create handles POST /v1/admin/events. New events always start upcoming.
func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.EventType != models.EventBuildersHub && req.EventType != models.EventSharkTank {
		writeError(w, "Invalid event type", http.StatusBadRequest)
		return
	}
	if req.Title == "" || req.WeekNumber <= 0 {
		writeError(w, "Missing fields", http.StatusBadRequest)
		return
	}

	event := &models.Event{
		ID:           uuid.NewString(),
		EventType:    req.EventType,
		WeekNumber:   req.WeekNumber,
		Title:        req.Title,
		Description:  req.Description,
		VotingStatus: models.VotingUpcoming,
	}
	if err := h.store.CreateEvent(r.Context(), event); err != nil {
		logger.Error("create event", "err", err)
		writeError(w, "Failed to create event", http.StatusInternalServerError)
		return
	}

	writeJSON(w, event, http.StatusCreated)
}

type updateEventRequest struct {
	ID           string  `json:"id"`
	VotingStatus *string `json:"voting_status,omitempty"`
	Title        *string `json:"title,omitempty"`
}

// Update handles PATCH /v1/admin/events: voting-status transitions and title
// edits.
func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		writeError(w, "Missing event ID", http.StatusBadRequest)
		return
	}

	event, err := h.store.GetEvent(r.Context(), req.ID)
	if err != nil {
		logger.Error("load event", "err", err)
		writeError(w, "Failed to load event", http.StatusInternalServerError)
		return
	}
	if event == nil {
		writeError(w, "Event not found", http.StatusNotFound)
		return
	}

	if req.VotingStatus != nil {
		switch *req.VotingStatus {
		case models.VotingUpcoming, models.VotingOpen, models.VotingClosed:
			event.VotingStatus = *req.VotingStatus
		default:
			writeError(w, "Invalid voting status", http.StatusBadRequest)
			return
		}
	}
	if req.Title != nil && *req.Title != "" {
		event.Title = *req.Title
	}

	if err := h.store.UpdateEvent(r.Context(), event); err != nil {
		logger.Error("update event", "err", err)
		writeError(w, "Failed to update event", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]bool{"success": true}, http.StatusOK)
}

type deleteRequest struct {
	ID string `json:"id"`
}

// Delete handles DELETE /v1/admin/events: removes the event, its
// participants, and reconciles every affected builder profile.
func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		writeError(w, "Missing event ID", http.StatusBadRequest)
		return
	}

	if err := h.reconciler.DeleteEvent(r.Context(), req.ID); err != nil {
		if errors.Is(err, arena.ErrNotFound) {
			writeError(w, "Event not found", http.StatusNotFound)
			return
		}
		logger.Error("delete event", "err", err)
		writeError(w, "Failed to delete event", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]bool{"success": true}, http.StatusOK)
}
