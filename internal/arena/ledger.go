package arena

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rialo-labs/builders-arena/internal/metrics"
	"github.com/rialo-labs/builders-arena/pkg/models"
	"github.com/rialo-labs/builders-arena/pkg/repository"
)

// Ledger enforces the single-vote-per-voter-per-participant rule and applies
// weighted vote increments, gated by event voting status and voter
// eligibility.
type Ledger struct {
	store  repository.Store
	logger *slog.Logger
}

func NewLedger(store repository.Store, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{store: store, logger: logger}
}

// VoteRequest carries the caller identity resolved by the session middleware
// plus the target of the ballot. IsMember and IsClubMember come from the
// external identity collaborator and are not computed here.
type VoteRequest struct {
	ParticipantID  string
	EventID        string
	VoterDiscordID string
	VoterUsername  string
	IsMember       bool
	IsClubMember   bool
}

// VoteResult reports the applied weight and a user-visible confirmation.
type VoteResult struct {
	Weight  int64  `json:"voteWeight"`
	Message string `json:"message"`
}

// CastVote validates the request fail-fast (first failure wins) and, on
// success, records the ballot and increments the participant's counter in a
// single transaction. The increment is a single atomic statement, so two
// concurrent votes for the same participant both count.
func (l *Ledger) CastVote(ctx context.Context, req VoteRequest) (*VoteResult, error) {
	if !req.IsMember {
		metrics.VotesRejected.WithLabelValues("not_member").Inc()
		return nil, ErrNotMember
	}
	if req.ParticipantID == "" || req.EventID == "" {
		metrics.VotesRejected.WithLabelValues("missing_fields").Inc()
		return nil, ErrMissingFields
	}

	event, err := l.store.GetEvent(ctx, req.EventID)
	if err != nil {
		return nil, fmt.Errorf("load event: %w", err)
	}
	// a nonexistent event is indistinguishable from one not open for voting
	if event == nil || event.VotingStatus != models.VotingOpen {
		metrics.VotesRejected.WithLabelValues("voting_closed").Inc()
		return nil, ErrVotingClosed
	}

	dup, err := l.store.HasVote(ctx, req.ParticipantID, req.VoterDiscordID)
	if err != nil {
		return nil, fmt.Errorf("check existing vote: %w", err)
	}
	if dup {
		metrics.VotesRejected.WithLabelValues("duplicate").Inc()
		return nil, ErrDuplicateVote
	}

	var weight int64 = 1
	if req.IsClubMember {
		weight = 2
	}

	err = l.store.InTx(ctx, func(s repository.Store) error {
		v := &models.Vote{
			ID:             uuid.NewString(),
			ParticipantID:  req.ParticipantID,
			EventID:        req.EventID,
			VoterDiscordID: req.VoterDiscordID,
			VoterUsername:  req.VoterUsername,
			Weight:         weight,
			Created:        time.Now().UTC().UnixMilli(),
		}
		if err := s.CreateVote(ctx, v); err != nil {
			// the unique index closes the precheck/insert race
			if strings.Contains(err.Error(), "UNIQUE constraint failed") {
				return ErrDuplicateVote
			}
			return fmt.Errorf("insert vote: %w", err)
		}

		ok, err := s.IncrementVoteCount(ctx, req.ParticipantID, weight)
		if err != nil {
			return fmt.Errorf("increment vote count: %w", err)
		}
		if !ok {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("vote cast",
		slog.String("participant_id", req.ParticipantID),
		slog.String("event_id", req.EventID),
		slog.Int64("weight", weight),
	)
	metrics.VotesCast.WithLabelValues(strconv.FormatInt(weight, 10)).Inc()

	msg := "Vote cast successfully!"
	if weight == 2 {
		msg = "Vote cast with 2x Club Member power!"
	}
	return &VoteResult{Weight: weight, Message: msg}, nil
}
