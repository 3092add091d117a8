package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rialo-labs/builders-arena/internal/arena"
)

type VoteHandler struct {
	ledger *arena.Ledger
}

func NewVoteHandler(ledger *arena.Ledger) *VoteHandler {
	return &VoteHandler{ledger: ledger}
}

type voteRequest struct {
	ParticipantID string `json:"participantId"`
	EventID       string `json:"eventId"`
}

type voteResponse struct {
	Success bool   `json:"success"`
	Weight  int64  `json:"voteWeight"`
	Message string `json:"message"`
}

// Cast handles POST /v1/vote. Caller identity comes from the session
// middleware; the ledger applies the eligibility, status and uniqueness
// rules.
func (h *VoteHandler) Cast(w http.ResponseWriter, r *http.Request) {
	sess, ok := SessionFromContext(r.Context())
	if !ok {
		writeError(w, "You must be logged in to vote", http.StatusUnauthorized)
		return
	}

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	result, err := h.ledger.CastVote(r.Context(), arena.VoteRequest{
		ParticipantID:  req.ParticipantID,
		EventID:        req.EventID,
		VoterDiscordID: sess.DiscordID,
		VoterUsername:  sess.Username,
		IsMember:       sess.IsMember,
		IsClubMember:   sess.IsClubMember,
	})
	if err != nil {
		switch {
		case errors.Is(err, arena.ErrNotMember):
			writeError(w, err.Error(), http.StatusForbidden)
		case errors.Is(err, arena.ErrMissingFields),
			errors.Is(err, arena.ErrVotingClosed),
			errors.Is(err, arena.ErrDuplicateVote):
			writeError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, arena.ErrNotFound):
			writeError(w, "Participant not found", http.StatusNotFound)
		default:
			logger.Error("cast vote", "err", err)
			writeError(w, "Failed to cast vote", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, voteResponse{Success: true, Weight: result.Weight, Message: result.Message}, http.StatusOK)
}
